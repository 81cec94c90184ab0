// Package middleware throttles abuse-prone routes per signed-in person,
// falling back to a per-process limiter while the shared store is down.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"idlink/internal/ratelimit/models"
	"idlink/internal/ratelimit/store/bucket"
	dErrors "idlink/pkg/domain-errors"
	"idlink/pkg/platform/circuit"
	"idlink/pkg/platform/httputil"
	request "idlink/pkg/platform/middleware/request"
	"idlink/pkg/requestcontext"
)

// Store admits or rejects one request for key.
type Store interface {
	Allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error)
}

type Middleware struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Middleware)

func WithBreaker(b *circuit.Breaker) Option {
	return func(m *Middleware) {
		if b != nil {
			m.breaker = b
		}
	}
}

// WithFallback replaces the in-memory store used while the breaker is open.
func WithFallback(s Store) Option {
	return func(m *Middleware) {
		if s != nil {
			m.fallback = s
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Middleware) {
		if now != nil {
			m.now = now
		}
	}
}

// New builds a limiter over primary. When primary fails repeatedly the
// breaker opens and checks go to an in-memory store until a probe succeeds.
func New(primary Store, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		primary:  primary,
		fallback: bucket.New(),
		breaker:  circuit.New("ratelimit", circuit.WithCooldown(10*time.Second)),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// PerPerson limits requests by the session's person id, or by client IP when
// the request carries no session.
func (m *Middleware) PerPerson(class string, limit models.Limit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			subject := requestcontext.ClientIP(ctx)
			if pid := requestcontext.PersonID(ctx); !pid.IsNil() {
				subject = pid.String()
			}

			result, degraded := m.check(ctx, models.Key(class, subject), limit)
			if result == nil {
				next.ServeHTTP(w, r)
				return
			}
			addRateLimitHeaders(w, result, degraded)
			if !result.Allowed {
				m.logger.WarnContext(ctx, "rate limit exceeded",
					"class", class,
					"request_id", request.GetRequestID(ctx),
				)
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter(m.now())))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many attempts, retry later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// check returns nil when neither store answered; the request is then let
// through.
func (m *Middleware) check(ctx context.Context, key string, limit models.Limit) (*models.Result, bool) {
	if m.breaker.Allow() {
		result, err := m.primary.Allow(ctx, key, limit)
		if err == nil {
			if _, change := m.breaker.RecordSuccess(); change.Closed {
				m.logger.InfoContext(ctx, "rate limit store recovered")
			}
			return result, false
		}
		if _, change := m.breaker.RecordFailure(); change.Opened {
			m.logger.WarnContext(ctx, "rate limit store failing, using in-memory fallback", "error", err)
		}
	}
	result, err := m.fallback.Allow(ctx, key, limit)
	if err != nil {
		m.logger.ErrorContext(ctx, "fallback rate limiter failed", "error", err)
		return nil, true
	}
	return result, true
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result, degraded bool) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if degraded {
		w.Header().Set("X-RateLimit-Status", "degraded")
	}
}
