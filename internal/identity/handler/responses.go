package handler

import (
	"time"

	"idlink/internal/identity/models"
	"idlink/internal/identity/service"
	id "idlink/pkg/domain"
)

type ResolveResponse struct {
	PersonID       string  `json:"person_id"`
	PrimaryID      string  `json:"primary_id"`
	ClusterID      *string `json:"cluster_id"`
	AccountID      string  `json:"account_id"`
	MatchedBy      string  `json:"matched_by"`
	PersonCreated  bool    `json:"person_created"`
	AccountCreated bool    `json:"account_created"`
}

func toResolveResponse(res *service.Resolution) ResolveResponse {
	p := res.Person
	primary := p.ID
	if p.PrimaryID != nil {
		primary = *p.PrimaryID
	}
	out := ResolveResponse{
		PersonID:       p.ID.String(),
		PrimaryID:      primary.String(),
		MatchedBy:      string(res.MatchedBy),
		PersonCreated:  res.PersonCreated,
		AccountCreated: res.AccountCreated,
	}
	if p.ClusterID != nil {
		c := p.ClusterID.String()
		out.ClusterID = &c
	}
	if res.Account != nil {
		out.AccountID = res.Account.ID.String()
	}
	return out
}

type PrimaryResponse struct {
	ID        string `json:"id"`
	PrimaryID string `json:"primary_id"`
}

type MergeResponse struct {
	ClusterID     string   `json:"cluster_id"`
	PrimaryID     string   `json:"primary_id"`
	MergedIDs     []string `json:"merged_ids"`
	UpdatedIDs    []string `json:"updated_ids"`
	AccountsMoved int      `json:"accounts_moved"`
}

func toMergeResponse(res *models.MergeResult) *MergeResponse {
	if res == nil {
		return nil
	}
	return &MergeResponse{
		ClusterID:     res.ClusterID.String(),
		PrimaryID:     res.PrimaryID.String(),
		MergedIDs:     idStrings(res.MergedIDs),
		UpdatedIDs:    idStrings(res.UpdatedIDs),
		AccountsMoved: res.AccountsMoved,
	}
}

type SuggestionResponse struct {
	DeviceHash string   `json:"device_hash"`
	PrimaryIDs []string `json:"primary_ids"`
	Providers  []string `json:"providers"`
}

type SuggestionsResponse struct {
	Suggestions []SuggestionResponse `json:"suggestions"`
}

func toSuggestionsResponse(in []models.Suggestion) SuggestionsResponse {
	out := SuggestionsResponse{Suggestions: make([]SuggestionResponse, 0, len(in))}
	for _, s := range in {
		providers := make([]string, 0, len(s.Providers))
		for _, p := range s.Providers {
			providers = append(providers, string(p))
		}
		out.Suggestions = append(out.Suggestions, SuggestionResponse{
			DeviceHash: s.DeviceHash,
			PrimaryIDs: idStrings(s.PrimaryIDs),
			Providers:  providers,
		})
	}
	return out
}

type IssueCodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ClaimCodeResponse struct {
	Merged    bool           `json:"merged"`
	PrimaryID string         `json:"primary_id"`
	Merge     *MergeResponse `json:"merge,omitempty"`
}

type LinkPhoneResponse struct {
	PrimaryID       string         `json:"primary_id"`
	AccountsUpdated int            `json:"accounts_updated"`
	Merge           *MergeResponse `json:"merge,omitempty"`
}

func idStrings(ids []id.PersonID) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		out = append(out, v.String())
	}
	return out
}
