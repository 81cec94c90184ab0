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

// MergeEngine unifies persons known to be the same human.
type MergeEngine struct {
	tx ports.StoreTx
	options
}

func NewMergeEngine(tx ports.StoreTx, opts ...Option) *MergeEngine {
	return &MergeEngine{tx: tx, options: newOptions(opts)}
}

// Merge stamps every input person with one cluster id and one primary in a
// single transaction, and moves the accounts of non-primary inputs to the
// primary. Merging an already unified set writes nothing and records nothing.
func (e *MergeEngine) Merge(ctx context.Context, personIDs []id.PersonID, opts models.MergeOptions) (_ *models.MergeResult, err error) {
	start := time.Now()
	if opts.Method == "" {
		opts.Method = models.MergeMethodAuto
	}
	ctx, span := e.tracer.Start(ctx, "identity.Merge", trace.WithAttributes(
		attribute.String("identity.merge_method", string(opts.Method)),
		attribute.Int("identity.merge_inputs", len(personIDs)),
	))
	defer func() { endSpan(span, err) }()

	var result *models.MergeResult
	err = e.tx.RunInTx(ctx, func(ctx context.Context, st ports.Store) error {
		var txErr error
		result, txErr = e.mergeInTx(ctx, st, personIDs, opts)
		return txErr
	})
	if err != nil {
		err = storeError(err, "merge persons")
		e.logger.WarnContext(ctx, "merge failed",
			"method", string(opts.Method),
			"inputs", len(personIDs),
			"error", err,
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("identity.primary_id", result.PrimaryID.String()),
		attribute.Int("identity.updated", len(result.UpdatedIDs)),
	)
	if e.metrics != nil {
		e.metrics.ObserveMerge(string(opts.Method), len(result.UpdatedIDs), result.AccountsMoved, start)
	}
	if len(result.UpdatedIDs) > 0 || result.AccountsMoved > 0 {
		e.logger.InfoContext(ctx, "persons merged",
			"primary_id", result.PrimaryID.String(),
			"cluster_id", result.ClusterID.String(),
			"merged", len(result.MergedIDs),
			"updated", len(result.UpdatedIDs),
			"accounts_moved", result.AccountsMoved,
			"method", string(opts.Method),
			"actor_id", opts.ActorID,
		)
	}
	return result, nil
}

// mergeInTx runs a merge inside the caller's transaction so other operations
// (phone attach, link code claims) can merge atomically with their own writes.
func (e *MergeEngine) mergeInTx(ctx context.Context, st ports.Store, personIDs []id.PersonID, opts models.MergeOptions) (*models.MergeResult, error) {
	if opts.Method == "" {
		opts.Method = models.MergeMethodAuto
	}
	ids, err := dedupeIDs(personIDs)
	if err != nil {
		return nil, err
	}
	ids, err = e.withChains(ctx, st, ids, ids)
	if err != nil {
		return nil, err
	}

	var locked []*models.Person
	byID := make(map[id.PersonID]*models.Person, len(ids))
	for {
		locked, err = st.LockPersons(ctx, ids)
		if err != nil {
			return nil, storeError(err, "lock persons")
		}
		clear(byID)
		for _, p := range locked {
			byID[p.ID] = p
		}
		for _, pid := range ids {
			if _, ok := byID[pid]; !ok {
				return nil, dErrors.New(dErrors.CodeNotFound, "person "+pid.String()+" not found")
			}
		}
		// A pointer may have moved between the walk and the lock.
		var escaped []id.PersonID
		for _, p := range locked {
			if !p.IsPrimary() {
				if _, inSet := byID[*p.PrimaryID]; !inSet {
					escaped = append(escaped, p.ID)
				}
			}
		}
		var grown []id.PersonID
		grown, err = e.withChains(ctx, st, ids, escaped)
		if err != nil {
			return nil, err
		}
		if len(grown) == len(ids) {
			break
		}
		ids = grown
	}

	primaryID, err := choosePrimary(ctx, st, ids, byID, opts.PreferredPrimary)
	if err != nil {
		return nil, err
	}
	clusterID := chooseCluster(ids, byID, primaryID, opts.ClusterHint)

	result := &models.MergeResult{ClusterID: clusterID, PrimaryID: primaryID}
	for _, p := range locked {
		if p.ID != primaryID {
			result.MergedIDs = append(result.MergedIDs, p.ID)
		}
		if p.ClusterID != nil && *p.ClusterID == clusterID && p.PrimaryID != nil && *p.PrimaryID == primaryID {
			continue
		}
		cluster, primary := clusterID, primaryID
		if err := st.UpdatePersonLink(ctx, p.ID, &cluster, &primary); err != nil {
			return nil, storeError(err, "update person link")
		}
		result.UpdatedIDs = append(result.UpdatedIDs, p.ID)
	}

	moved, err := st.ReassignAccounts(ctx, result.MergedIDs, primaryID)
	if err != nil {
		return nil, storeError(err, "reassign accounts")
	}
	result.AccountsMoved = moved

	now := e.clock()
	for _, updated := range result.UpdatedIDs {
		if updated == primaryID {
			continue
		}
		merged := updated
		payload := map[string]any{
			"primary_id": primaryID.String(),
			"merged_id":  merged.String(),
			"cluster_id": clusterID.String(),
			"method":     string(opts.Method),
		}
		if opts.ActorID != "" {
			payload["actor_id"] = opts.ActorID
		}
		if len(opts.Metadata) > 0 {
			payload["metadata"] = opts.Metadata
		}
		if err := st.RecordEvent(ctx, models.AuditEvent{
			PersonID:  &merged,
			Type:      models.MergeEventType(opts.Method),
			CreatedAt: now,
			Payload:   payload,
		}); err != nil {
			return nil, storeError(err, "record merge event")
		}
	}
	return result, nil
}

// withChains adds every person on the primary chain of each id in from to ids,
// so a member of an existing group drags that group's primary into the merge
// instead of being split off from it. Persons vanishing mid-chain are skipped;
// a cycle contributes its members so the merge can repair it.
func (e *MergeEngine) withChains(ctx context.Context, st ports.Store, ids, from []id.PersonID) ([]id.PersonID, error) {
	out := slices.Clone(ids)
	for _, start := range from {
		walk, err := walkPrimary(ctx, st, start)
		if err != nil {
			if !dErrors.HasCode(err, dErrors.CodeCycleDetected) {
				return nil, err
			}
			e.reportCycle(ctx, start, err)
		}
		for _, pid := range walk.path {
			if !slices.Contains(out, pid) {
				out = append(out, pid)
			}
		}
	}
	return out, nil
}

func dedupeIDs(personIDs []id.PersonID) ([]id.PersonID, error) {
	out := make([]id.PersonID, 0, len(personIDs))
	for _, pid := range personIDs {
		if pid.IsNil() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "person ids must not be nil")
		}
		if !slices.Contains(out, pid) {
			out = append(out, pid)
		}
	}
	if len(out) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one person id is required")
	}
	return out, nil
}

// choosePrimary narrows the candidate set rule by rule: the caller's
// preference, targets of existing pointers inside the set, holders of a
// strong-provider account, then the earliest created person (lowest id on ties).
func choosePrimary(ctx context.Context, st ports.Store, ids []id.PersonID, byID map[id.PersonID]*models.Person, preferred *id.PersonID) (id.PersonID, error) {
	if preferred != nil {
		if _, ok := byID[*preferred]; ok {
			return *preferred, nil
		}
	}

	candidates := pointerTargets(ids, byID)
	if len(candidates) == 0 {
		candidates = ids
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	accounts, err := st.ListAccountsByPersons(ctx, candidates)
	if err != nil {
		return id.PersonID{}, storeError(err, "list accounts")
	}
	var strong []id.PersonID
	for _, acc := range accounts {
		if acc.Provider.IsStrong() && slices.Contains(candidates, acc.PersonID) && !slices.Contains(strong, acc.PersonID) {
			strong = append(strong, acc.PersonID)
		}
	}
	if len(strong) > 0 {
		candidates = strong
	}

	return slices.MinFunc(candidates, func(a, b id.PersonID) int {
		if c := byID[a].CreatedAt.Compare(byID[b].CreatedAt); c != 0 {
			return c
		}
		return a.Compare(b)
	}), nil
}

// pointerTargets returns in-set ids that other in-set persons already point
// at. Targets that themselves point further inside the set are dropped so a
// chain resolves to its end; if that leaves nothing (an in-set cycle) every
// target is kept.
func pointerTargets(ids []id.PersonID, byID map[id.PersonID]*models.Person) []id.PersonID {
	var targets []id.PersonID
	for _, pid := range ids {
		p := byID[pid]
		if p.PrimaryID == nil || *p.PrimaryID == p.ID {
			continue
		}
		if _, inSet := byID[*p.PrimaryID]; inSet && !slices.Contains(targets, *p.PrimaryID) {
			targets = append(targets, *p.PrimaryID)
		}
	}

	var terminal []id.PersonID
	for _, t := range targets {
		p := byID[t]
		if p.PrimaryID != nil && *p.PrimaryID != p.ID {
			if _, inSet := byID[*p.PrimaryID]; inSet {
				continue
			}
		}
		terminal = append(terminal, t)
	}
	if len(terminal) == 0 {
		return targets
	}
	return terminal
}

// chooseCluster keeps the primary's cluster, then the caller's hint, then the
// cluster of the earliest created input that has one, and mints one otherwise.
func chooseCluster(ids []id.PersonID, byID map[id.PersonID]*models.Person, primaryID id.PersonID, hint *id.ClusterID) id.ClusterID {
	if c := byID[primaryID].ClusterID; c != nil {
		return *c
	}
	if hint != nil && !hint.IsNil() {
		return *hint
	}
	var earliest *models.Person
	for _, pid := range ids {
		p := byID[pid]
		if p.ClusterID == nil {
			continue
		}
		if earliest == nil || p.CreatedAt.Before(earliest.CreatedAt) ||
			(p.CreatedAt.Equal(earliest.CreatedAt) && p.ID.Less(earliest.ID)) {
			earliest = p
		}
	}
	if earliest != nil {
		return *earliest.ClusterID
	}
	return id.NewClusterID()
}
