package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"idlink/internal/identity/models"
	"idlink/internal/identity/ports"
	id "idlink/pkg/domain"
	dErrors "idlink/pkg/domain-errors"
	"idlink/pkg/platform/sentinel"
)

const maxProviderUserIDBytes = 256

// Resolver maps one login signal to its owning person, creating the person
// and binding the account on first sight.
type Resolver struct {
	tx ports.StoreTx
	options
}

func NewResolver(tx ports.StoreTx, opts ...Option) *Resolver {
	return &Resolver{tx: tx, options: newOptions(opts)}
}

// Resolution is the outcome of one Resolve call.
type Resolution struct {
	Person         *models.Person
	Account        *models.ProviderAccount
	MatchedBy      models.MatchedBy
	PersonCreated  bool
	AccountCreated bool
}

// Resolve finds or creates the person owning sig. Ownership precedence, first
// match wins: an existing provider binding, the device link, the phone hash,
// and finally a new person. Device and phone matches are followed to their
// current primary so new accounts join the surviving person of a merge.
func (r *Resolver) Resolve(ctx context.Context, sig models.Signal) (*models.Person, error) {
	res, err := r.ResolveDetailed(ctx, sig)
	if err != nil {
		return nil, err
	}
	return res.Person, nil
}

// ResolveDetailed is Resolve plus how the person was selected.
func (r *Resolver) ResolveDetailed(ctx context.Context, sig models.Signal) (_ *Resolution, err error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "identity.Resolve",
		trace.WithAttributes(attribute.String("identity.provider", string(sig.Provider))))
	defer func() {
		if err != nil && r.metrics != nil {
			r.metrics.IncrementResolveError(string(dErrors.CodeOf(err)))
		}
		endSpan(span, err)
	}()

	sig, err = validateSignal(sig)
	if err != nil {
		return nil, err
	}

	var res *Resolution
	err = r.tx.RunInTx(ctx, func(ctx context.Context, st ports.Store) error {
		var txErr error
		res, txErr = r.resolveInTx(ctx, st, sig)
		return txErr
	})
	if err != nil {
		err = storeError(err, "resolve signal")
		r.logger.WarnContext(ctx, "resolve failed",
			"provider", string(sig.Provider),
			"error", err,
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("identity.matched_by", string(res.MatchedBy)),
		attribute.String("identity.person_id", res.Person.ID.String()),
	)
	if r.metrics != nil {
		r.metrics.ObserveResolve(string(res.MatchedBy), start)
	}
	if res.PersonCreated {
		r.logger.InfoContext(ctx, "person created",
			"person_id", res.Person.ID.String(),
			"provider", string(sig.Provider),
		)
	}
	return res, nil
}

func validateSignal(sig models.Signal) (models.Signal, error) {
	provider, ok := models.ParseProvider(string(sig.Provider))
	if !ok {
		if strings.TrimSpace(string(sig.Provider)) == "" {
			return sig, dErrors.New(dErrors.CodeInvalidSignal, "provider is required")
		}
		return sig, dErrors.New(dErrors.CodeInvalidSignal, "unknown provider "+string(sig.Provider))
	}
	sig.Provider = provider

	sig.ProviderUserID = strings.TrimSpace(sig.ProviderUserID)
	if sig.ProviderUserID == "" {
		return sig, dErrors.New(dErrors.CodeInvalidSignal, "provider_user_id is required")
	}
	if len(sig.ProviderUserID) > maxProviderUserIDBytes {
		return sig, dErrors.New(dErrors.CodeInvalidSignal, "provider_user_id is too long")
	}
	sig.DeviceHash = strings.TrimSpace(sig.DeviceHash)
	sig.PhoneHash = strings.TrimSpace(sig.PhoneHash)
	sig.DeviceLabel = strings.TrimSpace(sig.DeviceLabel)
	return sig, nil
}

func (r *Resolver) resolveInTx(ctx context.Context, st ports.Store, sig models.Signal) (*Resolution, error) {
	if err := st.LockProviderIdentity(ctx, sig.Provider, sig.ProviderUserID); err != nil {
		return nil, storeError(err, "lock provider identity")
	}

	res := &Resolution{}
	owner, err := r.findOwner(ctx, st, sig, res)
	if err != nil {
		return nil, err
	}
	if res.MatchedBy == "" {
		p, err := st.CreatePerson(ctx, sig.Profile())
		if err != nil {
			return nil, storeError(err, "create person")
		}
		owner = p.ID
		res.MatchedBy = models.MatchedByCreated
		res.PersonCreated = true
	}

	acc, err := st.UpsertProviderAccount(ctx, models.AccountUpsert{
		PersonID:       owner,
		Provider:       sig.Provider,
		ProviderUserID: sig.ProviderUserID,
		Profile:        sig.Profile(),
		PhoneHash:      optional(sig.PhoneHash),
		DeviceHash:     optional(sig.DeviceHash),
		DeviceLabel:    optional(sig.DeviceLabel),
	})
	if err != nil {
		return nil, storeError(err, "upsert provider account")
	}
	// The stored binding is authoritative even if another writer won a race.
	owner = acc.PersonID
	res.Account = acc

	var link *models.DeviceLink
	if sig.DeviceHash != "" {
		link, err = st.TouchDeviceLink(ctx, sig.DeviceHash, owner)
		if err != nil {
			return nil, storeError(err, "touch device link")
		}
	}

	if err := st.BackfillPersonProfile(ctx, owner, sig.Profile()); err != nil {
		return nil, storeError(err, "backfill person profile")
	}

	if err := r.recordResolveEvents(ctx, st, sig, owner, res, link); err != nil {
		return nil, err
	}

	person, err := st.FindPerson(ctx, owner)
	if err != nil {
		return nil, storeError(err, "reload person")
	}
	res.Person = person
	return res, nil
}

// findOwner applies the precedence rules. An empty MatchedBy means no match.
func (r *Resolver) findOwner(ctx context.Context, st ports.Store, sig models.Signal, res *Resolution) (id.PersonID, error) {
	acc, err := st.FindAccountByProvider(ctx, sig.Provider, sig.ProviderUserID)
	switch {
	case err == nil:
		res.MatchedBy = models.MatchedByProvider
		return acc.PersonID, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return id.PersonID{}, storeError(err, "find account by provider")
	}
	res.AccountCreated = true

	if sig.DeviceHash != "" {
		pid, err := st.FindPersonByDevice(ctx, sig.DeviceHash)
		switch {
		case err == nil:
			primary, err := r.canonical(ctx, st, pid)
			if err != nil {
				return id.PersonID{}, err
			}
			res.MatchedBy = models.MatchedByDevice
			return primary, nil
		case !errors.Is(err, sentinel.ErrNotFound):
			return id.PersonID{}, storeError(err, "find person by device")
		}
	}

	if sig.PhoneHash != "" {
		pid, err := st.FindPersonByPhone(ctx, sig.PhoneHash)
		switch {
		case err == nil:
			primary, err := r.canonical(ctx, st, pid)
			if err != nil {
				return id.PersonID{}, err
			}
			res.MatchedBy = models.MatchedByPhone
			return primary, nil
		case !errors.Is(err, sentinel.ErrNotFound):
			return id.PersonID{}, storeError(err, "find person by phone")
		}
	}
	return id.PersonID{}, nil
}

func (r *Resolver) recordResolveEvents(ctx context.Context, st ports.Store, sig models.Signal, owner id.PersonID, res *Resolution, link *models.DeviceLink) error {
	now := r.clock()
	var events []models.AuditEvent
	if res.PersonCreated {
		events = append(events, models.AuditEvent{
			PersonID:  &owner,
			Type:      models.EventPersonCreated,
			CreatedAt: now,
			Payload: map[string]any{
				"provider": string(sig.Provider),
			},
		})
	}
	if res.AccountCreated {
		events = append(events, models.AuditEvent{
			PersonID:  &owner,
			Type:      models.EventAccountLinked,
			CreatedAt: now,
			Payload: map[string]any{
				"account_id":       res.Account.ID.String(),
				"provider":         string(sig.Provider),
				"provider_user_id": sig.ProviderUserID,
				"matched_by":       string(res.MatchedBy),
			},
		})
	}
	if link != nil && link.OwnerChanged() {
		payload := map[string]any{
			"device_hash": link.DeviceHash,
			"seen_count":  link.SeenCount,
		}
		if link.PreviousPersonID != nil {
			payload["previous_person_id"] = link.PreviousPersonID.String()
		}
		events = append(events, models.AuditEvent{
			PersonID:  &owner,
			Type:      models.EventDeviceLinked,
			CreatedAt: now,
			Payload:   payload,
		})
	}
	for _, e := range events {
		if err := st.RecordEvent(ctx, e); err != nil {
			return storeError(err, "record "+string(e.Type))
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
