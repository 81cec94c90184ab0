// Package ports defines the interfaces shared by identity services and their
// storage and transport adapters. Interfaces live here rather than in the
// service package so store implementations can satisfy RunInTx callbacks
// without importing services.
package ports

import (
	"context"
	"time"

	"idlink/internal/identity/models"
	id "idlink/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=../service/mocks/ports_mock.go -package=mocks

// Store owns every persisted identity row. Methods return sentinel errors
// (pkg/platform/sentinel), optionally wrapped.
type Store interface {
	FindAccountByProvider(ctx context.Context, provider models.Provider, providerUserID string) (*models.ProviderAccount, error)
	FindAccountByID(ctx context.Context, accountID id.AccountID) (*models.ProviderAccount, error)
	FindPerson(ctx context.Context, personID id.PersonID) (*models.Person, error)
	ListAccountsByPersons(ctx context.Context, personIDs []id.PersonID) ([]*models.ProviderAccount, error)

	// FindPersonByDevice returns the person currently holding the device link.
	FindPersonByDevice(ctx context.Context, deviceHash string) (id.PersonID, error)
	// FindPersonByPhone returns the owner of the oldest account carrying the hash.
	FindPersonByPhone(ctx context.Context, phoneHash string) (id.PersonID, error)
	ListPersonsByPhone(ctx context.Context, phoneHash string) ([]id.PersonID, error)

	CreatePerson(ctx context.Context, seed models.ProfileFields) (*models.Person, error)
	UpsertProviderAccount(ctx context.Context, in models.AccountUpsert) (*models.ProviderAccount, error)
	// TouchDeviceLink upserts the link, bumping seen_count and reassigning
	// ownership to personID unconditionally.
	TouchDeviceLink(ctx context.Context, deviceHash string, personID id.PersonID) (*models.DeviceLink, error)
	BackfillPersonProfile(ctx context.Context, personID id.PersonID, fields models.ProfileFields) error

	// LockPersons row-locks the given persons in id order and returns the
	// ones that exist.
	LockPersons(ctx context.Context, personIDs []id.PersonID) ([]*models.Person, error)
	UpdatePersonLink(ctx context.Context, personID id.PersonID, clusterID *id.ClusterID, primaryID *id.PersonID) error
	ReassignAccounts(ctx context.Context, from []id.PersonID, to id.PersonID) (int, error)
	SetPhoneHash(ctx context.Context, personID id.PersonID, phoneHash string) (int, error)
	ListDeviceCollisions(ctx context.Context, limit int) ([]models.DeviceCollision, error)

	// RecordEvent appends an audit event and its outbox row.
	RecordEvent(ctx context.Context, event models.AuditEvent) error

	// LockProviderIdentity serialises concurrent first logins for one external
	// identity until the surrounding transaction ends.
	LockProviderIdentity(ctx context.Context, provider models.Provider, providerUserID string) error
}

// StoreTx runs fn inside one atomic transaction. Any error from fn rolls back
// every write made through the Store it receives.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// TxStore is a Store that can also open transactions.
type TxStore interface {
	Store
	StoreTx
}

// OutboxStore hands pending audit rows to the relay. publish returns the ids
// it delivered; those rows are marked published, the rest stay pending.
type OutboxStore interface {
	ProcessPending(ctx context.Context, limit int, publish func(ctx context.Context, entries []models.OutboxEntry) []id.EventID) (int, error)
}

// EventPublisher delivers outbox entries to the event bus and reports the ids
// that were acknowledged.
type EventPublisher interface {
	Publish(ctx context.Context, entries []models.OutboxEntry) ([]id.EventID, error)
}

// LinkCodeStore keeps short-lived single-use link codes.
type LinkCodeStore interface {
	// Save stores code for personID. An existing live code yields sentinel.ErrConflict.
	Save(ctx context.Context, code string, personID id.PersonID, ttl time.Duration) error
	// Take atomically reads and deletes the code. Missing or lapsed codes yield
	// sentinel.ErrNotFound.
	Take(ctx context.Context, code string) (id.PersonID, error)
}
