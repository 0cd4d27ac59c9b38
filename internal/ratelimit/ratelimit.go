// Package ratelimit implements fixed-window request limiting keyed by
// client IP. A key's first request opens a window; requests past the
// configured maximum inside that window are refused until it expires.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/openfence/fence-quote-api/pkg/logging"
)

// sweepThreshold bounds the in-memory table: once the table grows past
// this many keys, expired windows are purged before the next insert.
const sweepThreshold = 1000

// Store counts requests per key within a fixed window.
type Store interface {
	// Incr records one request for key and returns the running count
	// for the key's current window.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter admits or refuses requests based on a per-key fixed window.
type Limiter struct {
	store  Store
	max    int64
	window time.Duration
	logger *logging.Logger
}

// New creates a limiter allowing max requests per key per window.
func New(store Store, max int, window time.Duration, logger *logging.Logger) *Limiter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Limiter{
		store:  store,
		max:    int64(max),
		window: window,
		logger: logger,
	}
}

// Admit reports whether the request for key is within the limit. Store
// failures fail open: a broken counter should not take lead intake down.
func (l *Limiter) Admit(ctx context.Context, key string) bool {
	if key == "" {
		key = "unknown"
	}
	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		l.logger.Error("ratelimit: store unavailable, admitting request", "error", err, "key", key)
		return true
	}
	return count <= l.max
}

type record struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is a process-local fixed-window store.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*record
	now     func() time.Time
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*record),
		now:     time.Now,
	}
}

// Incr implements Store.
func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.records) > sweepThreshold {
		for k, rec := range s.records {
			if now.After(rec.resetAt) {
				delete(s.records, k)
			}
		}
	}

	rec, ok := s.records[key]
	if !ok || now.After(rec.resetAt) {
		rec = &record{count: 1, resetAt: now.Add(window)}
		s.records[key] = rec
		return 1, nil
	}

	rec.count++
	return rec.count, nil
}
