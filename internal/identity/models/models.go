package models

import (
	"strings"
	"time"

	id "idlink/pkg/domain"
)

// Provider names an external login identity source.
type Provider string

const (
	ProviderVK       Provider = "vk"
	ProviderTelegram Provider = "tg"
	ProviderEmail    Provider = "email"
	ProviderOther    Provider = "other"
)

// StrongProvider anchors a merged group: its logins are treated as the most
// durable identity when arbitrating merge primacy.
const StrongProvider = ProviderVK

// ParseProvider normalises a provider name. Unknown names report false.
func ParseProvider(s string) (Provider, bool) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderVK, ProviderTelegram, ProviderEmail, ProviderOther:
		return p, true
	case "telegram":
		return ProviderTelegram, true
	default:
		return "", false
	}
}

func (p Provider) IsStrong() bool { return p == StrongProvider }

// ProfileFields are display attributes seeded from signals. Nil means unknown;
// stores never overwrite a non-nil value with another (coalesce-on-null).
type ProfileFields struct {
	Username  *string
	FirstName *string
	LastName  *string
	AvatarURL *string
}

// Person is the canonical identity grouping one or more provider accounts.
type Person struct {
	ID        id.PersonID
	ClusterID *id.ClusterID
	// PrimaryID redirects a merged person to the surviving primary. A primary
	// points at itself; an unmerged person has no pointer.
	PrimaryID *id.PersonID
	Profile   ProfileFields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPrimary reports whether the person ends a primary chain.
func (p *Person) IsPrimary() bool {
	return p.PrimaryID == nil || *p.PrimaryID == p.ID
}

// ProviderAccount binds one external login identity to a person.
type ProviderAccount struct {
	ID             id.AccountID
	PersonID       id.PersonID
	Provider       Provider
	ProviderUserID string
	Profile        ProfileFields
	PhoneHash      *string
	DeviceHash     *string
	DeviceLabel    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AccountUpsert describes an insert-or-update of a provider account keyed by
// (Provider, ProviderUserID). PersonID is only applied to an existing row when
// Reassign is set.
type AccountUpsert struct {
	PersonID       id.PersonID
	Provider       Provider
	ProviderUserID string
	Profile        ProfileFields
	PhoneHash      *string
	DeviceHash     *string
	DeviceLabel    *string
	Reassign       bool
}

// DeviceLink is a weak correlation between a hashed device token and the
// person who used it most recently.
type DeviceLink struct {
	DeviceHash string
	PersonID   id.PersonID
	LastSeenAt time.Time
	SeenCount  int
	// PreviousPersonID is the owner before the latest touch; nil for a new link.
	PreviousPersonID *id.PersonID
}

// OwnerChanged reports whether the latest touch moved the link to a new person.
func (d *DeviceLink) OwnerChanged() bool {
	return d.PreviousPersonID == nil || *d.PreviousPersonID != d.PersonID
}

// DeviceCollision groups accounts seen on one device but owned by different persons.
type DeviceCollision struct {
	DeviceHash string
	PersonIDs  []id.PersonID
	Providers  []Provider
}

// Suggestion proposes merging persons whose accounts share a device but who
// still resolve to different primaries.
type Suggestion struct {
	DeviceHash string
	PrimaryIDs []id.PersonID
	Providers  []Provider
}

// Signal is one verified login proof plus optional correlation hints.
type Signal struct {
	Provider       Provider
	ProviderUserID string
	Username       *string
	FirstName      *string
	LastName       *string
	AvatarURL      *string
	PhoneHash      string
	DeviceHash     string
	DeviceLabel    string
}

// Profile extracts the signal's display fields.
func (s Signal) Profile() ProfileFields {
	return ProfileFields{
		Username:  s.Username,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		AvatarURL: s.AvatarURL,
	}
}

// MatchedBy records which precedence rule selected the owning person.
type MatchedBy string

const (
	MatchedByProvider MatchedBy = "provider"
	MatchedByDevice   MatchedBy = "device"
	MatchedByPhone    MatchedBy = "phone"
	MatchedByCreated  MatchedBy = "created"
)

// MergeMethod describes the evidence behind a merge.
type MergeMethod string

const (
	MergeMethodAuto   MergeMethod = "auto"
	MergeMethodManual MergeMethod = "manual"
	MergeMethodDevice MergeMethod = "device"
	MergeMethodPhone  MergeMethod = "phone"
	MergeMethodCode   MergeMethod = "code"
)

// MergeOptions steer primary and cluster selection and annotate audit events.
type MergeOptions struct {
	PreferredPrimary *id.PersonID
	ClusterHint      *id.ClusterID
	Method           MergeMethod
	ActorID          string
	Metadata         map[string]any
}

// MergeResult is the outcome of a merge. MergedIDs lists every non-primary
// input; UpdatedIDs only those whose cluster or pointer actually changed.
type MergeResult struct {
	ClusterID     id.ClusterID
	PrimaryID     id.PersonID
	MergedIDs     []id.PersonID
	UpdatedIDs    []id.PersonID
	AccountsMoved int
}
