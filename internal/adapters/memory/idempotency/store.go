package idempotency

import (
	"context"
	"sync"
	"time"

	clockport "github.com/eco7/eco7-api/internal/ports/out/clock"
	"github.com/eco7/eco7-api/internal/ports/out/idempotency"
)

// Store is an in-memory implementation of idempotency.Store.
// Records older than the configured TTL are treated as absent and dropped on read.
// It is safe for concurrent use.
type Store struct {
	mu sync.Mutex
	m  map[idempotency.Fingerprint]idempotency.Record

	ttl time.Duration
	clk clockport.Clock
}

// NewStore returns a store whose records never expire.
func NewStore() *Store {
	return &Store{
		m: make(map[idempotency.Fingerprint]idempotency.Record),
	}
}

// NewStoreWithTTL returns a store that expires records ttl after their CreatedAt.
func NewStoreWithTTL(ttl time.Duration, clk clockport.Clock) *Store {
	s := NewStore()
	s.ttl = ttl
	s.clk = clk
	return s
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.m[fp]
	if !ok {
		return idempotency.Record{}, false, nil
	}
	if s.expired(rec) {
		delete(s.m, fp)
		return idempotency.Record{}, false, nil
	}
	return cloneRecord(rec), true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() && s.clk != nil {
		rec.CreatedAt = s.clk.Now()
	}
	s.m[fp] = cloneRecord(rec)
	return nil
}

func (s *Store) expired(rec idempotency.Record) bool {
	if s.ttl <= 0 || s.clk == nil {
		return false
	}
	return !s.clk.Now().Before(rec.CreatedAt.Add(s.ttl))
}

func cloneRecord(rec idempotency.Record) idempotency.Record {
	out := rec
	out.Body = append([]byte(nil), rec.Body...)
	return out
}
