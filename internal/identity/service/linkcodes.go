package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
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

const (
	LinkCodeTTL    = 15 * time.Minute
	linkCodePrefix = "LINK-"
	linkCodeLength = 4
	// No 0/O, 1/I/L: codes are read aloud and typed by hand.
	linkCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	issueAttempts    = 5
)

// LinkCodes issues short single-use codes and merges the claimant's group
// with the issuer's when a code is redeemed.
type LinkCodes struct {
	store    ports.TxStore
	codes    ports.LinkCodeStore
	merger   *MergeEngine
	generate func() (string, error)
	options
}

func NewLinkCodes(store ports.TxStore, codes ports.LinkCodeStore, opts ...Option) *LinkCodes {
	o := newOptions(opts)
	return &LinkCodes{
		store:    store,
		codes:    codes,
		merger:   &MergeEngine{tx: store, options: o},
		generate: generateLinkCode,
		options:  o,
	}
}

// IssuedCode is a code handed to the person who will type it on another device.
type IssuedCode struct {
	Code      string
	PersonID  id.PersonID
	ExpiresAt time.Time
}

// ClaimResult reports a redeemed code. Merged is false when both sides already
// resolved to the same primary.
type ClaimResult struct {
	Merged    bool
	PrimaryID id.PersonID
	Merge     *models.MergeResult
}

// Issue creates a code for personID valid for LinkCodeTTL.
func (l *LinkCodes) Issue(ctx context.Context, personID id.PersonID) (_ *IssuedCode, err error) {
	ctx, span := l.tracer.Start(ctx, "identity.IssueLinkCode",
		trace.WithAttributes(attribute.String("identity.person_id", personID.String())))
	defer func() { endSpan(span, err) }()

	if personID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "person id is required")
	}
	if _, err := l.store.FindPerson(ctx, personID); err != nil {
		return nil, storeError(err, "load person")
	}

	code, err := l.saveUniqueCode(ctx, personID)
	if err != nil {
		return nil, err
	}
	expiresAt := l.clock().Add(LinkCodeTTL)

	err = l.store.RunInTx(ctx, func(ctx context.Context, st ports.Store) error {
		return st.RecordEvent(ctx, models.AuditEvent{
			PersonID:  &personID,
			Type:      models.EventLinkCodeIssued,
			CreatedAt: l.clock(),
			Payload: map[string]any{
				"expires_at": expiresAt.UTC().Format(time.RFC3339),
			},
		})
	})
	if err != nil {
		return nil, storeError(err, "record link_code_issued")
	}

	if l.metrics != nil {
		l.metrics.IncrementLinkCodeIssued()
	}
	l.logger.InfoContext(ctx, "link code issued", "person_id", personID.String())
	return &IssuedCode{Code: code, PersonID: personID, ExpiresAt: expiresAt}, nil
}

func (l *LinkCodes) saveUniqueCode(ctx context.Context, personID id.PersonID) (string, error) {
	for range issueAttempts {
		code, err := l.generate()
		if err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "generate link code")
		}
		err = l.codes.Save(ctx, code, personID, LinkCodeTTL)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return "", storeError(err, "save link code")
		}
	}
	return "", dErrors.New(dErrors.CodeConflict, "could not allocate a free link code")
}

// Claim redeems code on behalf of claimant. The code is consumed before the
// merge runs; unknown, used or expired codes are not_found.
func (l *LinkCodes) Claim(ctx context.Context, claimant id.PersonID, rawCode string) (_ *ClaimResult, err error) {
	start := time.Now()
	ctx, span := l.tracer.Start(ctx, "identity.ClaimLinkCode",
		trace.WithAttributes(attribute.String("identity.person_id", claimant.String())))
	outcome := "error"
	defer func() {
		if l.metrics != nil {
			l.metrics.IncrementLinkCodeClaimed(outcome)
		}
		endSpan(span, err)
	}()

	if claimant.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "person id is required")
	}
	code, ok := normalizeLinkCode(rawCode)
	if !ok {
		outcome = "not_found"
		return nil, dErrors.New(dErrors.CodeNotFound, "link code is invalid or expired")
	}

	issuer, err := l.codes.Take(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			outcome = "not_found"
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "link code is invalid or expired")
		}
		return nil, storeError(err, "take link code")
	}

	var result *ClaimResult
	err = l.store.RunInTx(ctx, func(ctx context.Context, st ports.Store) error {
		issuerPrimary, err := l.canonical(ctx, st, issuer)
		if err != nil {
			return err
		}
		claimantPrimary, err := l.canonical(ctx, st, claimant)
		if err != nil {
			return err
		}
		if issuerPrimary == claimantPrimary {
			result = &ClaimResult{PrimaryID: issuerPrimary}
			return nil
		}
		merged, err := l.merger.mergeInTx(ctx, st, []id.PersonID{issuerPrimary, claimantPrimary}, models.MergeOptions{
			Method:  models.MergeMethodCode,
			ActorID: claimant.String(),
		})
		if err != nil {
			return err
		}
		result = &ClaimResult{Merged: true, PrimaryID: merged.PrimaryID, Merge: merged}
		return nil
	})
	if err != nil {
		err = storeError(err, "claim link code")
		l.logger.WarnContext(ctx, "link code claim failed",
			"person_id", claimant.String(),
			"error", err,
		)
		return nil, err
	}

	if !result.Merged {
		outcome = "same_person"
		return result, nil
	}
	outcome = "merged"
	if l.metrics != nil {
		l.metrics.ObserveMerge(string(models.MergeMethodCode), len(result.Merge.UpdatedIDs), result.Merge.AccountsMoved, start)
	}
	l.logger.InfoContext(ctx, "persons merged by link code",
		"primary_id", result.PrimaryID.String(),
		"claimant_id", claimant.String(),
		"issuer_id", issuer.String(),
	)
	return result, nil
}

// normalizeLinkCode upper-cases and trims input, accepting it with or without
// the LINK- prefix.
func normalizeLinkCode(raw string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	code = strings.TrimPrefix(code, linkCodePrefix)
	if len(code) != linkCodeLength {
		return "", false
	}
	for _, r := range code {
		if !strings.ContainsRune(linkCodeAlphabet, r) {
			return "", false
		}
	}
	return linkCodePrefix + code, true
}

func generateLinkCode() (string, error) {
	size := big.NewInt(int64(len(linkCodeAlphabet)))
	var b strings.Builder
	b.WriteString(linkCodePrefix)
	for range linkCodeLength {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b.WriteByte(linkCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
