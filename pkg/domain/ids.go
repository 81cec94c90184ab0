// Package domain holds typed identifiers shared across identity packages.
//
// Each identifier wraps a uuid.UUID so a PersonID can never be passed where an
// AccountID is expected. Parse functions are the trust boundary: they reject empty,
// malformed and nil UUIDs.
package domain

import (
	"bytes"
	"strings"

	"github.com/google/uuid"

	dErrors "idlink/pkg/domain-errors"
)

// PersonID identifies a canonical person.
type PersonID uuid.UUID

// AccountID identifies a provider-linked account.
type AccountID uuid.UUID

// ClusterID labels every person merged into one group.
type ClusterID uuid.UUID

// EventID identifies an audit event.
type EventID uuid.UUID

func NewPersonID() PersonID   { return PersonID(uuid.New()) }
func NewAccountID() AccountID { return AccountID(uuid.New()) }
func NewClusterID() ClusterID { return ClusterID(uuid.New()) }
func NewEventID() EventID     { return EventID(uuid.New()) }

func (id PersonID) String() string  { return uuid.UUID(id).String() }
func (id AccountID) String() string { return uuid.UUID(id).String() }
func (id ClusterID) String() string { return uuid.UUID(id).String() }
func (id EventID) String() string   { return uuid.UUID(id).String() }

func (id PersonID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id AccountID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ClusterID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Compare orders person ids bytewise, matching PostgreSQL's uuid ordering.
func (id PersonID) Compare(other PersonID) int {
	return bytes.Compare(id[:], other[:])
}

// Less is the final tie-break when choosing a merge primary.
func (id PersonID) Less(other PersonID) bool {
	return id.Compare(other) < 0
}

func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID(s, "person")
	return PersonID(u), err
}

func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID(s, "account")
	return AccountID(u), err
}

func ParseClusterID(s string) (ClusterID, error) {
	u, err := parseUUID(s, "cluster")
	return ClusterID(u), err
}

func parseUUID(s, kind string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be nil")
	}
	return u, nil
}
