package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	httpapi "idlink/internal/http"
	identitymetrics "idlink/internal/identity/metrics"
	"idlink/internal/identity/outbox"
	"idlink/internal/identity/ports"
	"idlink/internal/identity/store"
	"idlink/internal/identity/store/linkcode"
	"idlink/internal/platform/config"
	platformredis "idlink/internal/platform/redis"
	ratelimitmw "idlink/internal/ratelimit/middleware"
	"idlink/internal/ratelimit/store/bucket"
)

type identityStore interface {
	ports.TxStore
	ports.OutboxStore
}

// dependencies holds the process-lifetime infrastructure. Without a database
// URL the in-memory store is used; without Redis link codes stay in process;
// without Kafka brokers the outbox is never relayed.
type dependencies struct {
	store   identityStore
	codes   ports.LinkCodeStore
	limits  ratelimitmw.Store
	relay   *outbox.Relay
	health  map[string]httpapi.HealthCheck
	closers []func()
}

func openDependencies(ctx context.Context, cfg config.Server, log *slog.Logger, m *identitymetrics.Metrics) (_ *dependencies, err error) {
	d := &dependencies{health: map[string]httpapi.HealthCheck{}}
	defer func() {
		if err != nil {
			d.Close()
		}
	}()

	if err := d.openStore(ctx, cfg.Database, log); err != nil {
		return nil, err
	}
	if err := d.openRedis(ctx, cfg.Redis, log); err != nil {
		return nil, err
	}
	if cfg.OutboxEnabled() {
		if err := d.openRelay(ctx, cfg.Kafka, log, m); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *dependencies) openStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) error {
	if cfg.URL == "" {
		log.Warn("IDLINK_DATABASE_URL not set, using in-memory identity store")
		d.store = store.NewInMemory()
		return nil
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	d.closers = append(d.closers, func() { _ = db.Close() })
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := store.Migrate(ctx, db); err != nil {
			return err
		}
	}

	pg := store.NewPostgres(db, store.WithTxTimeout(cfg.TxTimeout))
	d.store = pg
	d.health["postgres"] = pg.Health
	return nil
}

// openRedis backs link codes and rate limits with one shared client.
func (d *dependencies) openRedis(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) error {
	client, err := platformredis.New(ctx, cfg)
	if err != nil {
		return err
	}
	if client == nil {
		log.Warn("IDLINK_REDIS_URL not set, link codes and rate limits are kept in process memory")
		d.codes = linkcode.NewInMemory()
		d.limits = bucket.New()
		return nil
	}
	d.closers = append(d.closers, func() { _ = client.Close() })
	d.codes = linkcode.NewRedis(client.Client)
	d.limits = bucket.NewRedis(client.Client)
	d.health["redis"] = client.Health
	return nil
}

func (d *dependencies) openRelay(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger, m *identitymetrics.Metrics) error {
	pub, err := outbox.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
	if err != nil {
		return err
	}
	d.closers = append(d.closers, pub.Close)
	if err := pub.EnsureTopic(ctx, cfg.Partitions, cfg.ReplicationFactor); err != nil {
		// topics may be provisioned out of band with restricted ACLs
		log.Warn("could not ensure outbox topic", "topic", cfg.Topic, "error", err)
	}
	d.health["kafka"] = pub.Ping
	d.relay = outbox.NewRelay(d.store, pub,
		outbox.WithInterval(cfg.RelayInterval),
		outbox.WithBatchSize(cfg.RelayBatchSize),
		outbox.WithLogger(log),
		outbox.WithMetrics(m),
	)
	return nil
}

// Close releases resources in reverse order of acquisition.
func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}
