package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"idlink/internal/identity/ports"
	id "idlink/pkg/domain"
	dErrors "idlink/pkg/domain-errors"
	"idlink/pkg/platform/sentinel"
)

// PrimaryResolver answers "which person does this id belong to now".
type PrimaryResolver struct {
	store ports.Store
	options
}

func NewPrimaryResolver(store ports.Store, opts ...Option) *PrimaryResolver {
	return &PrimaryResolver{store: store, options: newOptions(opts)}
}

// ResolvePrimary accepts a person id or a provider account id and returns the
// surviving primary person. Only an unknown starting id is not_found.
func (r *PrimaryResolver) ResolvePrimary(ctx context.Context, rawID uuid.UUID) (_ id.PersonID, err error) {
	ctx, span := r.tracer.Start(ctx, "identity.ResolvePrimary",
		trace.WithAttributes(attribute.String("identity.id", rawID.String())))
	defer func() { endSpan(span, err) }()

	if rawID == uuid.Nil {
		return id.PersonID{}, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}

	start, err := r.startPerson(ctx, rawID)
	if err != nil {
		return id.PersonID{}, err
	}
	return r.canonical(ctx, r.store, start)
}

// startPerson treats rawID as a person first, then as an account.
func (r *PrimaryResolver) startPerson(ctx context.Context, rawID uuid.UUID) (id.PersonID, error) {
	personID := id.PersonID(rawID)
	_, err := r.store.FindPerson(ctx, personID)
	if err == nil {
		return personID, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return id.PersonID{}, storeError(err, "load person")
	}

	acc, err := r.store.FindAccountByID(ctx, id.AccountID(rawID))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.PersonID{}, dErrors.Wrap(err, dErrors.CodeNotFound, "no person or account with id "+rawID.String())
		}
		return id.PersonID{}, storeError(err, "load account")
	}
	return acc.PersonID, nil
}
