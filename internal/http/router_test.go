package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"idlink/internal/identity/handler"
	identitymetrics "idlink/internal/identity/metrics"
	"idlink/internal/identity/models"
	"idlink/internal/identity/service"
	"idlink/internal/identity/signal"
	"idlink/internal/identity/store"
	"idlink/internal/identity/store/linkcode"
	jwttoken "idlink/internal/jwt_token"
	"idlink/internal/platform/metrics"
	ratelimitmw "idlink/internal/ratelimit/middleware"
	ratelimitmodels "idlink/internal/ratelimit/models"
	"idlink/internal/ratelimit/store/bucket"
	id "idlink/pkg/domain"
	"idlink/pkg/testutil"
)

const (
	serviceToken = "collaborator-token"
	signingKey   = "router-test-signing-key-0123456789abc"
)

type app struct {
	router http.Handler
	store  *store.InMemory
	jwt    *jwttoken.JWTService
}

func newApp(t *testing.T, health map[string]HealthCheck) *app {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(serviceToken), bcrypt.MinCost)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	st := store.NewInMemory()
	opts := []service.Option{service.WithMetrics(identitymetrics.New(reg))}
	normalizer := signal.NewNormalizer("device-salt", "phone-salt")
	jwt := jwttoken.NewJWTService(signingKey, "idlink")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := handler.New(handler.Services{
		Resolver:   service.NewResolver(st, opts...),
		Primary:    service.NewPrimaryResolver(st, opts...),
		Merger:     service.NewMergeEngine(st, opts...),
		Suggester:  service.NewSuggestionService(st, opts...),
		LinkCodes:  service.NewLinkCodes(st, linkcode.NewInMemory(), opts...),
		Phone:      service.NewPhoneLinker(st, normalizer, opts...),
		Audit:      st,
		Normalizer: normalizer,
	}, logger)

	limiter := ratelimitmw.New(bucket.New(), logger).
		PerPerson("link", ratelimitmodels.Limit{Requests: 3, Window: time.Minute})

	return &app{
		router: NewRouter(Deps{
			Identity:         h,
			Sessions:         jwttoken.NewJWTServiceAdapter(jwt),
			ServiceTokenHash: string(hash),
			Logger:           logger,
			Metrics:          metrics.New(reg),
			Gatherer:         reg,
			Health:           health,
			LinkLimiter:      limiter,
		}),
		store: st,
		jwt:   jwt,
	}
}

func (a *app) collaborator(t *testing.T, method, path string, body any) *http.Request {
	req := testutil.NewJSONRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+serviceToken)
	return req
}

func (a *app) session(t *testing.T, method, path string, body any, personID string) *http.Request {
	pid, err := id.ParsePersonID(personID)
	require.NoError(t, err)
	token, err := a.jwt.GenerateSessionToken(pid, time.Hour)
	require.NoError(t, err)
	req := testutil.NewJSONRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (a *app) resolve(t *testing.T, body map[string]any) handler.ResolveResponse {
	rr := testutil.DoRequest(a.router, a.collaborator(t, http.MethodPost, "/v1/identity/resolve", body))
	testutil.AssertStatusOK(t, rr)
	return *testutil.UnmarshalResponse[handler.ResolveResponse](t, rr)
}

func TestLinkingAccountsOverHTTP(t *testing.T) {
	a := newApp(t, nil)
	var vk, tg handler.ResolveResponse

	testutil.Given(t, "a vk login and an unrelated telegram login", func(t *testing.T) {
		vk = a.resolve(t, map[string]any{"provider": "vk", "provider_user_id": "100", "device_token": "laptop"})
		tg = a.resolve(t, map[string]any{"provider": "telegram", "provider_user_id": "200"})

		assert.NotEqual(t, vk.PersonID, tg.PersonID)
		assert.True(t, vk.PersonCreated)
		assert.Equal(t, "created", tg.MatchedBy)
	})

	testutil.When(t, "the vk person issues a code and the telegram person claims it", func(t *testing.T) {
		rr := testutil.DoRequest(a.router, a.session(t, http.MethodPost, "/v1/link/codes", nil, vk.PersonID))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		issued := testutil.UnmarshalResponse[handler.IssueCodeResponse](t, rr)

		rr = testutil.DoRequest(a.router, a.session(t, http.MethodPost, "/v1/link/codes/claim",
			map[string]any{"code": issued.Code}, tg.PersonID))
		testutil.AssertStatusOK(t, rr)
		claim := testutil.UnmarshalResponse[handler.ClaimCodeResponse](t, rr)
		assert.True(t, claim.Merged)
		assert.Equal(t, vk.PersonID, claim.PrimaryID)
	})

	testutil.Then(t, "both ids resolve to the vk person", func(t *testing.T) {
		for _, pid := range []string{vk.PersonID, tg.PersonID} {
			rr := testutil.DoRequest(a.router, a.collaborator(t, http.MethodGet, "/v1/identity/"+pid+"/primary", nil))
			testutil.AssertStatusOK(t, rr)
			testutil.AssertJSONContains(t, rr, "primary_id", vk.PersonID)
		}

		again := a.resolve(t, map[string]any{"provider": "tg", "provider_user_id": "200"})
		assert.Equal(t, vk.PersonID, again.PersonID, "telegram account moved to the primary")
	})

	testutil.Then(t, "every login was audited", func(t *testing.T) {
		logins := 0
		for _, ev := range a.store.AuditEvents() {
			if ev.Type == models.EventLoginSucceeded {
				logins++
			}
		}
		assert.Equal(t, 3, logins)
	})
}

func TestDeviceCollisionSuggestedThenMerged(t *testing.T) {
	a := newApp(t, nil)

	tg := a.resolve(t, map[string]any{"provider": "tg", "provider_user_id": "1"})
	// bind a vk account first, then log in with a device another person already owns
	vk := a.resolve(t, map[string]any{"provider": "vk", "provider_user_id": "2"})
	a.resolve(t, map[string]any{"provider": "tg", "provider_user_id": "1", "device_token": "shared-phone"})
	a.resolve(t, map[string]any{"provider": "vk", "provider_user_id": "2", "device_token": "shared-phone"})

	rr := testutil.DoRequest(a.router, a.collaborator(t, http.MethodGet, "/v1/admin/merge/suggestions?limit=10", nil))
	testutil.AssertStatusOK(t, rr)
	suggestions := testutil.UnmarshalResponse[handler.SuggestionsResponse](t, rr)
	require.Len(t, suggestions.Suggestions, 1)
	assert.ElementsMatch(t, []string{tg.PersonID, vk.PersonID}, suggestions.Suggestions[0].PrimaryIDs)

	rr = testutil.DoRequest(a.router, a.collaborator(t, http.MethodPost, "/v1/admin/merge", map[string]any{
		"person_ids": suggestions.Suggestions[0].PrimaryIDs,
		"method":     "device",
		"actor_id":   "ops",
	}))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "primary_id", vk.PersonID)

	rr = testutil.DoRequest(a.router, a.collaborator(t, http.MethodGet, "/v1/admin/merge/suggestions", nil))
	testutil.AssertStatusOK(t, rr)
	assert.JSONEq(t, `{"suggestions":[]}`, rr.Body.String())
}

func TestAccessControl(t *testing.T) {
	a := newApp(t, nil)

	t.Run("collaborator routes need the service token", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/identity/resolve", map[string]any{"provider": "vk", "provider_user_id": "1"})
		testutil.AssertStatusAndError(t, testutil.DoRequest(a.router, req), http.StatusUnauthorized, "unauthorized")
	})

	t.Run("a session token is not a service token", func(t *testing.T) {
		req := a.session(t, http.MethodPost, "/v1/admin/merge", map[string]any{"person_ids": []string{}}, id.NewPersonID().String())
		testutil.AssertStatus(t, testutil.DoRequest(a.router, req), http.StatusUnauthorized)
	})

	t.Run("a service token is not a session", func(t *testing.T) {
		req := a.collaborator(t, http.MethodPost, "/v1/link/codes", nil)
		testutil.AssertStatus(t, testutil.DoRequest(a.router, req), http.StatusUnauthorized)
	})

	t.Run("issuing for an unknown person is a 404", func(t *testing.T) {
		req := a.session(t, http.MethodPost, "/v1/link/codes", nil, id.NewPersonID().String())
		testutil.AssertStatusAndError(t, testutil.DoRequest(a.router, req), http.StatusNotFound, "not_found")
	})

	t.Run("link codes are rate limited per person", func(t *testing.T) {
		person := a.resolve(t, map[string]any{"provider": "vk", "provider_user_id": "limited"})
		for i := 0; i < 3; i++ {
			rr := testutil.DoRequest(a.router, a.session(t, http.MethodPost, "/v1/link/codes", nil, person.PersonID))
			testutil.AssertStatus(t, rr, http.StatusCreated)
		}
		rr := testutil.DoRequest(a.router, a.session(t, http.MethodPost, "/v1/link/codes/claim",
			map[string]any{"code": "LINK-ZZZZ"}, person.PersonID))
		testutil.AssertStatusAndError(t, rr, http.StatusTooManyRequests, "rate_limited")
		assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	})

	t.Run("request id is echoed", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/healthz")
		req.Header.Set("X-Request-ID", "trace-me")
		rr := testutil.DoRequest(a.router, req)
		assert.Equal(t, "trace-me", rr.Header().Get("X-Request-ID"))
	})
}

func TestHealthAndMetrics(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		a := newApp(t, map[string]HealthCheck{"store": func(context.Context) error { return nil }})
		rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
		assert.JSONEq(t, `{"status":"ok","checks":{"store":"ok"}}`, rr.Body.String())
	})

	t.Run("degraded", func(t *testing.T) {
		a := newApp(t, map[string]HealthCheck{
			"store": func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("refused") },
		})
		rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		assert.JSONEq(t, `{"status":"degraded","checks":{"store":"ok","redis":"unavailable"}}`, rr.Body.String())
	})

	t.Run("metrics exposes identity and http series", func(t *testing.T) {
		a := newApp(t, nil)
		a.resolve(t, map[string]any{"provider": "vk", "provider_user_id": "7"})

		rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
		testutil.AssertStatusOK(t, rr)
		body := rr.Body.String()
		assert.Contains(t, body, "idlink_http_requests_total")
		assert.Contains(t, body, "idlink_resolve_total")
	})
}
