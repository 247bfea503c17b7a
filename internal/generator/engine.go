// Package generator turns a parsed header and series list into an OutputTable of
// uniformly sampled values.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"seriesgen/internal/model"
)

// Engine samples one column per series. An Engine owns a *rand.Rand and is not
// safe for concurrent use; create one per run.
type Engine struct {
	rng *rand.Rand
	log *zap.Logger
}

type Option func(*Engine)

// WithSeed makes runs reproducible. Seed 0 keeps the time-based default.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		if seed != 0 {
			e.rng = rand.New(rand.NewSource(seed))
		}
	}
}

// WithSource injects the master random source.
func WithSource(src rand.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.rng = rand.New(src)
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run builds the timestamp sequence for header and fills one column per series.
// Columns are added in series order; a repeated name replaces the earlier column.
func (e *Engine) Run(header model.Header, series []model.SeriesSpec) (*model.OutputTable, error) {
	step := header.Frequency.Step()
	if step <= 0 {
		return nil, fmt.Errorf("frequency %q has no step", header.Frequency)
	}

	ts := Timestamps(header.Start, header.End, step)
	table := model.NewOutputTable(ts)

	for _, s := range series {
		// each series draws from its own source so columns never share state
		col := rand.New(rand.NewSource(e.rng.Int63()))
		values := Uniform(col, s.Low, s.High, len(ts))
		if table.SetColumn(s.Name, values) {
			e.log.Warn("series column overwritten", zap.String("series", s.Name), zap.Int("row", s.Row))
		}
	}

	e.log.Debug("generated table",
		zap.Int("rows", table.NumRows()),
		zap.Int("columns", table.NumColumns()))
	return table, nil
}

// Uniform draws n samples from [low, high). low == high gives exactly low.
func Uniform(rng *rand.Rand, low, high, n int) []float64 {
	lo, span := float64(low), float64(high)-float64(low)
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + span*rng.Float64()
	}
	return out
}
