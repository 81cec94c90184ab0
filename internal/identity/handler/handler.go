// Package handler exposes the identity services over HTTP for the auth
// callback, operator tooling and the signed-in self-service flows.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"idlink/internal/identity/models"
	"idlink/internal/identity/service"
	id "idlink/pkg/domain"
	dErrors "idlink/pkg/domain-errors"
	"idlink/pkg/platform/httputil"
	authmw "idlink/pkg/platform/middleware/auth"
	request "idlink/pkg/platform/middleware/request"
	"idlink/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks

const maxBodyBytes = 64 << 10

type Resolver interface {
	ResolveDetailed(ctx context.Context, sig models.Signal) (*service.Resolution, error)
}

type PrimaryResolver interface {
	ResolvePrimary(ctx context.Context, rawID uuid.UUID) (id.PersonID, error)
}

type Merger interface {
	Merge(ctx context.Context, personIDs []id.PersonID, opts models.MergeOptions) (*models.MergeResult, error)
}

type Suggester interface {
	Suggest(ctx context.Context, limit int) ([]models.Suggestion, error)
}

type LinkCodes interface {
	Issue(ctx context.Context, personID id.PersonID) (*service.IssuedCode, error)
	Claim(ctx context.Context, claimant id.PersonID, rawCode string) (*service.ClaimResult, error)
}

type PhoneLinker interface {
	AttachPhone(ctx context.Context, personID id.PersonID, rawPhone string, metadata map[string]any) (*service.PhoneAttachment, error)
}

// AuditRecorder appends collaborator-owned audit events such as logins.
type AuditRecorder interface {
	RecordEvent(ctx context.Context, event models.AuditEvent) error
}

// SignalNormalizer hashes raw correlation hints before they reach the resolver.
type SignalNormalizer interface {
	NormalizeDeviceToken(raw string) string
	PhoneHash(raw string) string
	DeviceLabel(userAgent string) string
}

// Services bundles the handler's collaborators.
type Services struct {
	Resolver   Resolver
	Primary    PrimaryResolver
	Merger     Merger
	Suggester  Suggester
	LinkCodes  LinkCodes
	Phone      PhoneLinker
	Audit      AuditRecorder
	Normalizer SignalNormalizer
}

type Handler struct {
	svc    Services
	logger *slog.Logger
	now    func() time.Time
}

func New(svc Services, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger, now: time.Now}
}

// RegisterService mounts the collaborator routes. The caller supplies the
// service-token guard.
func (h *Handler) RegisterService(r chi.Router) {
	r.Post("/v1/identity/resolve", h.handleResolve)
	r.Get("/v1/identity/{id}/primary", h.handlePrimary)
	r.Post("/v1/admin/merge", h.handleMerge)
	r.Get("/v1/admin/merge/suggestions", h.handleSuggestions)
}

// RegisterSession mounts the self-service link routes behind validator.
// codeGuards wrap only the link-code routes and run after the session is
// known.
func (h *Handler) RegisterSession(r chi.Router, validator authmw.SessionValidator, codeGuards ...func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireSession(validator, h.logger))
		r.Post("/v1/link/phone", h.handleLinkPhone)
		r.Group(func(r chi.Router) {
			r.Use(codeGuards...)
			r.Post("/v1/link/codes", h.handleIssueCode)
			r.Post("/v1/link/codes/claim", h.handleClaimCode)
		})
	})
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ResolveRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.svc.Resolver.ResolveDetailed(ctx, req.toSignal(h.svc.Normalizer))
	if err != nil {
		h.fail(w, r, "resolve failed", err)
		return
	}
	h.recordLogin(ctx, res, req.Provider)

	httputil.WriteJSON(w, http.StatusOK, toResolveResponse(res))
}

// recordLogin is best effort: the login itself already succeeded.
func (h *Handler) recordLogin(ctx context.Context, res *service.Resolution, provider string) {
	if h.svc.Audit == nil {
		return
	}
	personID := res.Person.ID
	payload := map[string]any{
		"provider":   provider,
		"matched_by": string(res.MatchedBy),
	}
	if ip := requestcontext.ClientIP(ctx); ip != "" {
		payload["ip"] = ip
	}
	err := h.svc.Audit.RecordEvent(ctx, models.AuditEvent{
		PersonID:  &personID,
		Type:      models.EventLoginSucceeded,
		CreatedAt: h.now(),
		Payload:   payload,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to record login event",
			"person_id", personID.String(),
			"error", err,
			"request_id", request.GetRequestID(ctx),
		)
	}
}

func (h *Handler) handlePrimary(w http.ResponseWriter, r *http.Request) {
	raw, err := parseRawID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "invalid primary lookup", err)
		return
	}
	primary, err := h.svc.Primary.ResolvePrimary(r.Context(), raw)
	if err != nil {
		h.fail(w, r, "primary lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PrimaryResponse{ID: raw.String(), PrimaryID: primary.String()})
}

func (h *Handler) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req MergeRequest
	if !h.decode(w, r, &req) {
		return
	}
	ids, opts, err := req.parse()
	if err != nil {
		h.fail(w, r, "invalid merge request", err)
		return
	}
	res, err := h.svc.Merger.Merge(r.Context(), ids, opts)
	if err != nil {
		h.fail(w, r, "merge failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toMergeResponse(res))
}

func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(w, r, "invalid suggestions request", dErrors.New(dErrors.CodeInvalidInput, "limit must be an integer"))
			return
		}
		limit = n
	}
	suggestions, err := h.svc.Suggester.Suggest(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "suggestions failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSuggestionsResponse(suggestions))
}

func (h *Handler) handleIssueCode(w http.ResponseWriter, r *http.Request) {
	personID := requestcontext.PersonID(r.Context())
	issued, err := h.svc.LinkCodes.Issue(r.Context(), personID)
	if err != nil {
		h.fail(w, r, "issue link code failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, IssueCodeResponse{Code: issued.Code, ExpiresAt: issued.ExpiresAt.UTC()})
}

func (h *Handler) handleClaimCode(w http.ResponseWriter, r *http.Request) {
	var req ClaimCodeRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.LinkCodes.Claim(r.Context(), requestcontext.PersonID(r.Context()), req.Code)
	if err != nil {
		h.fail(w, r, "claim link code failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ClaimCodeResponse{
		Merged:    res.Merged,
		PrimaryID: res.PrimaryID.String(),
		Merge:     toMergeResponse(res.Merge),
	})
}

func (h *Handler) handleLinkPhone(w http.ResponseWriter, r *http.Request) {
	var req LinkPhoneRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Phone.AttachPhone(r.Context(), requestcontext.PersonID(r.Context()), req.Phone, req.Metadata)
	if err != nil {
		h.fail(w, r, "link phone failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LinkPhoneResponse{
		PrimaryID:       res.PrimaryID.String(),
		AccountsUpdated: res.AccountsUpdated,
		Merge:           toMergeResponse(res.Merge),
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		ctx := r.Context()
		h.logger.WarnContext(ctx, "invalid request body",
			"path", r.URL.Path,
			"error", err.Error(),
			"request_id", request.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

// fail logs client errors at warn and everything else at error, then writes
// the envelope.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	level := slog.LevelError
	if status := dErrors.ToHTTPStatus(dErrors.CodeOf(err)); status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, msg,
		"path", r.URL.Path,
		"code", string(dErrors.CodeOf(err)),
		"error", err.Error(),
		"request_id", request.GetRequestID(ctx),
	)
	httputil.WriteError(w, err)
}
