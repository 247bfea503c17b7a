// Package pipeline is the single entry point from a raw spreadsheet grid to a
// generated table: locate, parse, extract, generate.
package pipeline

import (
	"errors"
	"io"
	"math/rand"

	"go.uber.org/zap"

	"seriesgen/internal/data"
	"seriesgen/internal/generator"
	"seriesgen/internal/model"
	"seriesgen/internal/sheet"
)

type options struct {
	layout sheet.Layout
	seed   int64
	source  rand.Source
	maxRows int
	log     *zap.Logger
}

type Option func(*options)

func WithLayout(l sheet.Layout) Option { return func(o *options) { o.layout = l } }

// WithSeed fixes the random seed; 0 means system entropy.
func WithSeed(seed int64) Option { return func(o *options) { o.seed = seed } }

// WithSource injects the master random source and takes precedence over WithSeed.
func WithSource(src rand.Source) Option { return func(o *options) { o.source = src } }

// WithMaxRows rejects windows that would produce more than n rows with
// WINDOW_TOO_LARGE before anything is generated. n <= 0 means no limit.
func WithMaxRows(n int) Option { return func(o *options) { o.maxRows = n } }

func WithLogger(log *zap.Logger) Option { return func(o *options) { o.log = log } }

func newOptions(opts []Option) options {
	o := options{layout: sheet.DefaultLayout(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

// Inspect runs the detection stages only.
func Inspect(grid model.RawGrid, opts ...Option) (*sheet.Plan, error) {
	o := newOptions(opts)
	plan, err := sheet.NewParser(o.layout, o.log).Parse(grid)
	if err != nil {
		return nil, asPipelineError(err)
	}
	return plan, nil
}

// Result pairs the detected plan with the table generated from it.
type Result struct {
	Plan  *sheet.Plan
	Table *model.OutputTable
}

// Generate turns grid into an output table. Every error is a *model.PipelineError
// and no partial table is ever returned.
func Generate(grid model.RawGrid, opts ...Option) (*model.OutputTable, error) {
	res, err := Run(grid, opts...)
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

// Run is Generate that also returns the plan the table was built from.
func Run(grid model.RawGrid, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	plan, err := sheet.NewParser(o.layout, o.log).Parse(grid)
	if err != nil {
		return nil, asPipelineError(err)
	}
	if o.maxRows > 0 {
		rows := generator.Count(plan.Header.Start, plan.Header.End, plan.Header.Frequency.Step())
		if rows > o.maxRows {
			return nil, model.WindowTooLarge(rows, o.maxRows)
		}
	}

	engine := generator.New(
		generator.WithSeed(o.seed),
		generator.WithSource(o.source),
		generator.WithLogger(o.log),
	)
	table, err := engine.Run(plan.Header, plan.Series)
	if err != nil {
		return nil, asPipelineError(err)
	}

	o.log.Info("generated series data",
		zap.Time("start", plan.Header.Start),
		zap.Time("end", plan.Header.End),
		zap.Int("series", len(plan.Series)),
		zap.Int("rows", table.NumRows()))
	return &Result{Plan: plan, Table: table}, nil
}

// GenerateFile loads path (xlsx or csv) and generates from it. Load failures are
// reported as UNEXPECTED_FAILURE.
func GenerateFile(path, sheetName string, opts ...Option) (*model.OutputTable, error) {
	grid, err := data.LoadGrid(path, sheetName)
	if err != nil {
		return nil, model.UnexpectedFailure(err)
	}
	return Generate(grid, opts...)
}

// GenerateReader is GenerateFile for uploads; name selects the input format.
func GenerateReader(r io.Reader, name, sheetName string, opts ...Option) (*model.OutputTable, error) {
	res, err := RunReader(r, name, sheetName, opts...)
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

// RunReader loads an upload and runs the full pipeline on it.
func RunReader(r io.Reader, name, sheetName string, opts ...Option) (*Result, error) {
	grid, err := data.ReadGrid(r, name, sheetName)
	if err != nil {
		return nil, model.UnexpectedFailure(err)
	}
	return Run(grid, opts...)
}

func asPipelineError(err error) error {
	var pe *model.PipelineError
	if errors.As(err, &pe) {
		return pe
	}
	return model.UnexpectedFailure(err)
}
