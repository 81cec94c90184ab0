package handler

import (
	"strings"

	"github.com/google/uuid"

	"idlink/internal/identity/models"
	id "idlink/pkg/domain"
	dErrors "idlink/pkg/domain-errors"
)

const maxMergeBatch = 50

// ResolveRequest is what the auth callback collaborator posts after a
// successful provider login. Raw device tokens and phone numbers are hashed
// here and never stored.
type ResolveRequest struct {
	Provider       string  `json:"provider"`
	ProviderUserID string  `json:"provider_user_id"`
	Username       *string `json:"username,omitempty"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
	DeviceToken    string  `json:"device_token,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	PhoneHash      string  `json:"phone_hash,omitempty"`
	UserAgent      string  `json:"user_agent,omitempty"`
}

func (r ResolveRequest) toSignal(n SignalNormalizer) models.Signal {
	phoneHash := strings.TrimSpace(r.PhoneHash)
	if phoneHash == "" && r.Phone != "" {
		phoneHash = n.PhoneHash(r.Phone)
	}
	return models.Signal{
		Provider:       models.Provider(r.Provider),
		ProviderUserID: r.ProviderUserID,
		Username:       r.Username,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		AvatarURL:      r.AvatarURL,
		PhoneHash:      phoneHash,
		DeviceHash:     n.NormalizeDeviceToken(r.DeviceToken),
		DeviceLabel:    n.DeviceLabel(r.UserAgent),
	}
}

type MergeRequest struct {
	PersonIDs          []string       `json:"person_ids"`
	PreferredPrimaryID string         `json:"preferred_primary_id,omitempty"`
	ClusterHint        string         `json:"cluster_hint,omitempty"`
	Method             string         `json:"method,omitempty"`
	ActorID            string         `json:"actor_id,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

func (r MergeRequest) parse() ([]id.PersonID, models.MergeOptions, error) {
	var opts models.MergeOptions
	if len(r.PersonIDs) == 0 {
		return nil, opts, dErrors.New(dErrors.CodeInvalidInput, "person_ids is required")
	}
	if len(r.PersonIDs) > maxMergeBatch {
		return nil, opts, dErrors.New(dErrors.CodeInvalidInput, "too many person_ids")
	}
	ids := make([]id.PersonID, 0, len(r.PersonIDs))
	for _, raw := range r.PersonIDs {
		pid, err := id.ParsePersonID(raw)
		if err != nil {
			return nil, opts, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid person id "+raw)
		}
		ids = append(ids, pid)
	}
	if r.PreferredPrimaryID != "" {
		pid, err := id.ParsePersonID(r.PreferredPrimaryID)
		if err != nil {
			return nil, opts, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid preferred_primary_id")
		}
		opts.PreferredPrimary = &pid
	}
	if r.ClusterHint != "" {
		cid, err := id.ParseClusterID(r.ClusterHint)
		if err != nil {
			return nil, opts, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid cluster_hint")
		}
		opts.ClusterHint = &cid
	}
	method, err := parseMergeMethod(r.Method)
	if err != nil {
		return nil, opts, err
	}
	opts.Method = method
	opts.ActorID = strings.TrimSpace(r.ActorID)
	opts.Metadata = r.Metadata
	return ids, opts, nil
}

// parseMergeMethod defaults operator merges to manual.
func parseMergeMethod(raw string) (models.MergeMethod, error) {
	switch m := models.MergeMethod(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return models.MergeMethodManual, nil
	case models.MergeMethodAuto, models.MergeMethodManual, models.MergeMethodDevice,
		models.MergeMethodPhone, models.MergeMethodCode:
		return m, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown merge method "+raw)
	}
}

type ClaimCodeRequest struct {
	Code string `json:"code"`
}

type LinkPhoneRequest struct {
	Phone    string         `json:"phone"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func parseRawID(raw string) (uuid.UUID, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid id")
	}
	return u, nil
}
