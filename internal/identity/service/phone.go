package service

import (
	"context"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"idlink/internal/identity/models"
	"idlink/internal/identity/ports"
	id "idlink/pkg/domain"
	dErrors "idlink/pkg/domain-errors"
)

// PhoneHasher normalises a raw phone number and returns its salted hash, or
// "" when the number is not usable.
type PhoneHasher interface {
	PhoneHash(raw string) string
}

// PhoneLinker attaches a verified phone to a person and merges every person
// that already carries the same phone.
type PhoneLinker struct {
	tx     ports.StoreTx
	hasher PhoneHasher
	merger *MergeEngine
	options
}

func NewPhoneLinker(tx ports.StoreTx, hasher PhoneHasher, opts ...Option) *PhoneLinker {
	o := newOptions(opts)
	return &PhoneLinker{
		tx:      tx,
		hasher:  hasher,
		merger:  &MergeEngine{tx: tx, options: o},
		options: o,
	}
}

// PhoneAttachment reports what AttachPhone changed. Merge is nil when no other
// person shared the phone.
type PhoneAttachment struct {
	PrimaryID       id.PersonID
	AccountsUpdated int
	Merge           *models.MergeResult
}

// AttachPhone stores the phone hash on every account of the person's primary
// and, when two or more primaries now share it, merges them with method phone
// inside the same transaction.
func (l *PhoneLinker) AttachPhone(ctx context.Context, personID id.PersonID, rawPhone string, metadata map[string]any) (_ *PhoneAttachment, err error) {
	start := time.Now()
	ctx, span := l.tracer.Start(ctx, "identity.AttachPhone",
		trace.WithAttributes(attribute.String("identity.person_id", personID.String())))
	defer func() { endSpan(span, err) }()

	if personID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "person id is required")
	}
	phoneHash := l.hasher.PhoneHash(rawPhone)
	if phoneHash == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "phone number is invalid")
	}

	var out *PhoneAttachment
	err = l.tx.RunInTx(ctx, func(ctx context.Context, st ports.Store) error {
		var txErr error
		out, txErr = l.attachInTx(ctx, st, personID, phoneHash, metadata)
		return txErr
	})
	if err != nil {
		err = storeError(err, "attach phone")
		l.logger.WarnContext(ctx, "attach phone failed",
			"person_id", personID.String(),
			"error", err,
		)
		return nil, err
	}
	if out.Merge != nil {
		if l.metrics != nil {
			l.metrics.ObserveMerge(string(models.MergeMethodPhone), len(out.Merge.UpdatedIDs), out.Merge.AccountsMoved, start)
		}
		l.logger.InfoContext(ctx, "persons merged by phone",
			"primary_id", out.Merge.PrimaryID.String(),
			"merged", len(out.Merge.MergedIDs),
		)
	}
	return out, nil
}

func (l *PhoneLinker) attachInTx(ctx context.Context, st ports.Store, personID id.PersonID, phoneHash string, metadata map[string]any) (*PhoneAttachment, error) {
	primary, err := l.canonical(ctx, st, personID)
	if err != nil {
		return nil, err
	}
	updated, err := st.SetPhoneHash(ctx, primary, phoneHash)
	if err != nil {
		return nil, storeError(err, "set phone hash")
	}
	if err := st.RecordEvent(ctx, models.AuditEvent{
		PersonID:  &primary,
		Type:      models.EventPhoneAttached,
		CreatedAt: l.clock(),
		Payload: map[string]any{
			"accounts_updated": updated,
		},
	}); err != nil {
		return nil, storeError(err, "record phone_attached")
	}

	out := &PhoneAttachment{PrimaryID: primary, AccountsUpdated: updated}

	holders, err := st.ListPersonsByPhone(ctx, phoneHash)
	if err != nil {
		return nil, storeError(err, "list persons by phone")
	}
	group := []id.PersonID{primary}
	for _, pid := range holders {
		p, err := l.canonical(ctx, st, pid)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(group, p) {
			group = append(group, p)
		}
	}
	if len(group) < 2 {
		return out, nil
	}

	merged, err := l.merger.mergeInTx(ctx, st, group, models.MergeOptions{
		Method:   models.MergeMethodPhone,
		ActorID:  personID.String(),
		Metadata: metadata,
	})
	if err != nil {
		return nil, err
	}
	out.PrimaryID = merged.PrimaryID
	out.Merge = merged
	return out, nil
}
