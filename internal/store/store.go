package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"seriesgen/internal/model"
)

// Result is a generated table kept around so it can be downloaded after preview.
type Result struct {
	ID         string
	SourceName string
	Table      *model.OutputTable
	Header     model.Header
	Series     []model.SeriesSpec
	CreatedAt  time.Time
}

type entry struct {
	result    *Result
	expiresAt time.Time
}

// ResultStore is an in-memory TTL store of generated results, safe for concurrent use.
// A background goroutine evicts expired entries until Close is called.
type ResultStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

const defaultSweepInterval = 5 * time.Minute

// New creates a store whose entries live for ttl. A sweep interval <= 0 uses the default.
func New(ttl, sweep time.Duration) *ResultStore {
	if sweep <= 0 {
		sweep = defaultSweepInterval
	}
	s := &ResultStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go s.cleanup(sweep)
	return s
}

// Put stores r under a fresh id and returns it. r.ID and r.CreatedAt are set.
func (s *ResultStore) Put(r *Result) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	r.ID = uuid.NewString()
	r.CreatedAt = now
	s.entries[r.ID] = &entry{result: r, expiresAt: now.Add(s.ttl)}
	return r.ID
}

// Get returns the result for id unless it is unknown or expired.
func (s *ResultStore) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok || s.now().After(e.expiresAt) {
		return nil, false
	}
	return e.result, true
}

// Delete drops id and reports whether a live entry was removed.
func (s *ResultStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return false
	}
	delete(s.entries, id)
	return !s.now().After(e.expiresAt)
}

// Len counts stored entries, including expired ones not yet swept.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes expired entries and reports how many were dropped.
func (s *ResultStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// Close stops the background sweeper. Safe to call more than once.
func (s *ResultStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *ResultStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}
