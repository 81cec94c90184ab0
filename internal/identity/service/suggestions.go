package service

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"idlink/internal/identity/models"
	"idlink/internal/identity/ports"
	id "idlink/pkg/domain"
)

const (
	DefaultSuggestionLimit = 100
	MaxSuggestionLimit     = 200
	// collisionOverscan widens the store scan since unified groups are filtered out afterwards.
	collisionOverscan = 4
)

// SuggestionService lists persons that share a device but were never merged.
type SuggestionService struct {
	store ports.Store
	options
}

func NewSuggestionService(store ports.Store, opts ...Option) *SuggestionService {
	return &SuggestionService{store: store, options: newOptions(opts)}
}

// Suggest returns up to limit device groups whose accounts still resolve to
// two or more distinct primaries. A limit outside [1, MaxSuggestionLimit]
// falls back to DefaultSuggestionLimit or is capped.
func (s *SuggestionService) Suggest(ctx context.Context, limit int) (_ []models.Suggestion, err error) {
	limit = clampSuggestionLimit(limit)
	ctx, span := s.tracer.Start(ctx, "identity.Suggest",
		trace.WithAttributes(attribute.Int("identity.limit", limit)))
	defer func() { endSpan(span, err) }()

	collisions, err := s.store.ListDeviceCollisions(ctx, limit*collisionOverscan)
	if err != nil {
		return nil, storeError(err, "list device collisions")
	}

	primaries := make(map[id.PersonID]id.PersonID)
	out := make([]models.Suggestion, 0, min(limit, len(collisions)))
	for _, c := range collisions {
		var distinct []id.PersonID
		for _, pid := range c.PersonIDs {
			primary, ok := primaries[pid]
			if !ok {
				primary, err = s.canonical(ctx, s.store, pid)
				if err != nil {
					return nil, err
				}
				primaries[pid] = primary
			}
			if !slices.Contains(distinct, primary) {
				distinct = append(distinct, primary)
			}
		}
		if len(distinct) < 2 {
			continue
		}
		out = append(out, models.Suggestion{
			DeviceHash: c.DeviceHash,
			PrimaryIDs: distinct,
			Providers:  slices.Clone(c.Providers),
		})
		if len(out) == limit {
			break
		}
	}
	span.SetAttributes(attribute.Int("identity.suggestions", len(out)))
	return out, nil
}

func clampSuggestionLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultSuggestionLimit
	case limit > MaxSuggestionLimit:
		return MaxSuggestionLimit
	default:
		return limit
	}
}
