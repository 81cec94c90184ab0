package bucket

import (
	"context"
	"sync"
	"time"

	"idlink/internal/ratelimit/models"
)

// InMemoryBucketStore is a per-process sliding-window limiter. It backs tests
// and serves as the fallback while the Redis store is unreachable.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	now     func() time.Time
}

type Option func(*InMemoryBucketStore)

func WithClock(now func() time.Time) Option {
	return func(s *InMemoryBucketStore) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) *InMemoryBucketStore {
	s := &InMemoryBucketStore{buckets: make(map[string][]time.Time), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow records one request for key if the window still has room.
func (s *InMemoryBucketStore) Allow(_ context.Context, key string, limit models.Limit) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stamps := prune(s.buckets[key], now.Add(-limit.Window))

	if len(stamps) >= limit.Requests {
		s.buckets[key] = stamps
		return &models.Result{Allowed: false, Limit: limit.Requests, ResetAt: stamps[0].Add(limit.Window)}, nil
	}
	stamps = append(stamps, now)
	s.buckets[key] = stamps
	return &models.Result{
		Allowed:   true,
		Limit:     limit.Requests,
		Remaining: limit.Requests - len(stamps),
		ResetAt:   stamps[0].Add(limit.Window),
	}, nil
}

// Reset clears the counter for a key.
func (s *InMemoryBucketStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// prune drops timestamps at or before cutoff. Stamps are kept in arrival order.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	return stamps[i:]
}
