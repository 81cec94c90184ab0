// Package httpapi assembles the process HTTP surface: middleware chain,
// collaborator and self-service routes, health and metrics.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"idlink/internal/identity/handler"
	"idlink/internal/platform/metrics"
	"idlink/pkg/platform/httputil"
	"idlink/pkg/platform/middleware/admin"
	authmw "idlink/pkg/platform/middleware/auth"
	"idlink/pkg/platform/middleware/metadata"
	request "idlink/pkg/platform/middleware/request"
)

const (
	requestTimeout = 30 * time.Second
	healthTimeout  = 2 * time.Second
)

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Identity         *handler.Handler
	Sessions         authmw.SessionValidator
	ServiceTokenHash string
	Logger           *slog.Logger
	Metrics          *metrics.Metrics
	Gatherer         prometheus.Gatherer
	Health           map[string]HealthCheck
	// LinkLimiter throttles link-code issue and claim. Nil leaves them unthrottled.
	LinkLimiter      func(http.Handler) http.Handler
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.Recovery(d.Logger))
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(d.Logger))
	r.Use(metrics.LatencyMiddleware(d.Metrics))

	r.Get("/healthz", healthHandler(d.Health))
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		r.Group(func(r chi.Router) {
			r.Use(admin.RequireServiceToken(d.ServiceTokenHash, d.Logger))
			d.Identity.RegisterService(r)
		})
		var guards []func(http.Handler) http.Handler
		if d.LinkLimiter != nil {
			guards = append(guards, d.LinkLimiter)
		}
		d.Identity.RegisterSession(r, d.Sessions, guards...)
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
