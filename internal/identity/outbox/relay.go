// Package outbox relays committed audit events to the event bus.
//
// Audit rows are written in the same transaction as the identity change they
// describe; the Relay polls them afterwards, so no network I/O happens while an
// identity transaction is open. Delivery is at-least-once: an entry whose
// publish was not acknowledged stays pending and is retried on the next tick.
package outbox

import (
	"context"
	"log/slog"
	"time"

	"idlink/internal/identity/metrics"
	"idlink/internal/identity/models"
	"idlink/internal/identity/ports"
	id "idlink/pkg/domain"
	"idlink/pkg/platform/circuit"
)

const (
	defaultInterval  = time.Second
	defaultBatchSize = 100
)

// Relay moves pending outbox entries to an EventPublisher on a fixed interval.
type Relay struct {
	store     ports.OutboxStore
	publisher ports.EventPublisher
	breaker   *circuit.Breaker
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Relay)

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Relay) {
		r.metrics = m
	}
}

// WithBreaker replaces the default publish circuit breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Relay) {
		if b != nil {
			r.breaker = b
		}
	}
}

func NewRelay(store ports.OutboxStore, publisher ports.EventPublisher, opts ...Option) *Relay {
	r := &Relay{
		store:     store,
		publisher: publisher,
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.breaker == nil {
		r.breaker = circuit.New("outbox-publisher", circuit.WithFailureThreshold(3), circuit.WithCooldown(10*r.interval))
	}
	return r
}

// Run polls until ctx is cancelled. Store errors are logged and retried on
// the next tick; they never stop the loop.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.InfoContext(ctx, "outbox relay started",
		"interval", r.interval.String(),
		"batch_size", r.batchSize,
	)
	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "outbox relay stopped")
			return nil
		case <-ticker.C:
			if _, err := r.Drain(ctx); err != nil && ctx.Err() == nil {
				r.logger.ErrorContext(ctx, "outbox relay tick failed", "error", err)
			}
		}
	}
}

// Drain publishes batches until the backlog is empty, a batch is only partly
// acknowledged, or the breaker is open. It returns the number of entries
// marked published.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	total := 0
	for ctx.Err() == nil {
		if !r.breaker.Allow() {
			return total, nil
		}
		attempted := 0
		marked, err := r.store.ProcessPending(ctx, r.batchSize, func(ctx context.Context, entries []models.OutboxEntry) []id.EventID {
			attempted = len(entries)
			return r.publish(ctx, entries)
		})
		total += marked
		if err != nil {
			return total, err
		}
		if attempted < r.batchSize || marked < attempted {
			return total, nil
		}
	}
	return total, ctx.Err()
}

func (r *Relay) publish(ctx context.Context, entries []models.OutboxEntry) []id.EventID {
	done, err := r.publisher.Publish(ctx, entries)
	if err != nil {
		if r.metrics != nil {
			r.metrics.IncrementOutboxFailure()
		}
		_, change := r.breaker.RecordFailure()
		r.logger.WarnContext(ctx, "outbox publish failed",
			"entries", len(entries),
			"acknowledged", len(done),
			"error", err,
		)
		if change.Opened {
			r.logger.ErrorContext(ctx, "outbox publisher circuit opened")
		}
	} else if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "outbox publisher circuit closed")
	}
	if r.metrics != nil {
		r.metrics.AddOutboxPublished(len(done))
	}
	return done
}
