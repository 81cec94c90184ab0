package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	httpapi "idlink/internal/http"
	"idlink/internal/identity/handler"
	identitymetrics "idlink/internal/identity/metrics"
	"idlink/internal/identity/service"
	idsignal "idlink/internal/identity/signal"
	jwttoken "idlink/internal/jwt_token"
	"idlink/internal/platform/config"
	"idlink/internal/platform/httpserver"
	"idlink/internal/platform/logger"
	"idlink/internal/platform/metrics"
	ratelimitmw "idlink/internal/ratelimit/middleware"
)

// main wires dependencies and keeps the process lifecycle small. Business
// logic lives in internal/identity.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "idlink: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	idMetrics := identitymetrics.New(reg)

	deps, err := openDependencies(ctx, cfg, log, idMetrics)
	if err != nil {
		return err
	}
	defer deps.Close()

	opts := []service.Option{service.WithLogger(log), service.WithMetrics(idMetrics)}
	normalizer := idsignal.NewNormalizer(cfg.Signal.DeviceSalt, cfg.Signal.PhoneSalt)
	identity := handler.New(handler.Services{
		Resolver:   service.NewResolver(deps.store, opts...),
		Primary:    service.NewPrimaryResolver(deps.store, opts...),
		Merger:     service.NewMergeEngine(deps.store, opts...),
		Suggester:  service.NewSuggestionService(deps.store, opts...),
		LinkCodes:  service.NewLinkCodes(deps.store, deps.codes, opts...),
		Phone:      service.NewPhoneLinker(deps.store, normalizer, opts...),
		Audit:      deps.store,
		Normalizer: normalizer,
	}, log)

	router := httpapi.NewRouter(httpapi.Deps{
		Identity:         identity,
		Sessions:         jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer)),
		ServiceTokenHash: cfg.Auth.ServiceTokenHash,
		Logger:           log,
		Metrics:          metrics.New(reg),
		Gatherer:         reg,
		Health:           deps.health,
		LinkLimiter:      ratelimitmw.New(deps.limits, log).PerPerson("link", cfg.RateLimit.Link()),
	})
	srv := httpserver.New(cfg.Addr, router, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting idlink", "addr", cfg.Addr, "outbox", cfg.OutboxEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	if deps.relay != nil {
		g.Go(func() error {
			return deps.relay.Run(gctx)
		})
	}
	return g.Wait()
}
