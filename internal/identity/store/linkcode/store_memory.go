package linkcode

import (
	"context"
	"fmt"
	"sync"
	"time"

	id "idlink/pkg/domain"
	"idlink/pkg/platform/sentinel"
)

type entry struct {
	personID  id.PersonID
	expiresAt time.Time
}

// InMemory is a single-process link code store for tests and local runs.
type InMemory struct {
	mu    sync.Mutex
	codes map[string]entry
	clock func() time.Time
}

// Option configures an InMemory store.
type Option func(*InMemory)

// WithClock sets the clock used to evaluate expiry.
func WithClock(clock func() time.Time) Option {
	return func(s *InMemory) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewInMemory(opts ...Option) *InMemory {
	s := &InMemory{codes: make(map[string]entry), clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *InMemory) Save(_ context.Context, code string, personID id.PersonID, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	if existing, ok := s.codes[code]; ok && now.Before(existing.expiresAt) {
		return fmt.Errorf("save link code: %w", sentinel.ErrConflict)
	}
	s.codes[code] = entry{personID: personID, expiresAt: now.Add(ttl)}
	return nil
}

func (s *InMemory) Take(_ context.Context, code string) (id.PersonID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.codes[code]
	if !ok {
		return id.PersonID{}, sentinel.ErrNotFound
	}
	delete(s.codes, code)
	if !s.clock().Before(e.expiresAt) {
		return id.PersonID{}, sentinel.ErrNotFound
	}
	return e.personID, nil
}
