package linkcode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	id "idlink/pkg/domain"
	"idlink/pkg/platform/sentinel"
)

var takeDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "idlink_link_code_take_duration_ms",
	Help:    "Latency of link code redemption lookups in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

const keyPrefix = "link:code:"

// RedisStore keeps link codes in Redis so every instance sees the same set.
// Expiry is delegated to key TTLs.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Save writes the code with SET NX EX. A live key yields sentinel.ErrConflict.
func (s *RedisStore) Save(ctx context.Context, code string, personID id.PersonID, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, keyPrefix+code, personID.String(), ttl).Result()
	if err != nil {
		return fmt.Errorf("save link code: %w: %w", sentinel.ErrUnavailable, err)
	}
	if !ok {
		return fmt.Errorf("save link code: %w", sentinel.ErrConflict)
	}
	return nil
}

// Take redeems the code with GETDEL so it can be claimed exactly once.
func (s *RedisStore) Take(ctx context.Context, code string) (id.PersonID, error) {
	start := time.Now()
	defer func() {
		takeDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	raw, err := s.client.GetDel(ctx, keyPrefix+code).Result()
	if errors.Is(err, redis.Nil) {
		return id.PersonID{}, sentinel.ErrNotFound
	}
	if err != nil {
		return id.PersonID{}, fmt.Errorf("take link code: %w: %w", sentinel.ErrUnavailable, err)
	}
	personID, err := id.ParsePersonID(raw)
	if err != nil {
		return id.PersonID{}, fmt.Errorf("decode link code owner: %w", err)
	}
	return personID, nil
}
