package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"idlink/internal/identity/ports"
	id "idlink/pkg/domain"
	dErrors "idlink/pkg/domain-errors"
	"idlink/pkg/platform/sentinel"
)

// chainWalk is the outcome of following primary pointers from one person.
type chainWalk struct {
	primary id.PersonID
	hops    int
	// path holds every visited id in order; on a cycle the repeated id is appended.
	path []id.PersonID
}

var errCycle = errors.New("primary pointer cycle")

// walkPrimary follows primary_account_id pointers from start until it reaches
// a person whose pointer is null or self. A missing start is not_found; a
// person vanishing mid-chain ends the walk at the last id that was read. A
// revisited id yields cycle_detected with the walked path attached.
func walkPrimary(ctx context.Context, st ports.Store, start id.PersonID) (chainWalk, error) {
	walk := chainWalk{path: []id.PersonID{start}}
	p, err := st.FindPerson(ctx, start)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return walk, dErrors.Wrap(err, dErrors.CodeNotFound, "person "+start.String()+" not found")
		}
		return walk, storeError(err, "load person")
	}

	visited := map[id.PersonID]struct{}{start: {}}
	current := start
	for !p.IsPrimary() {
		next := *p.PrimaryID
		if _, seen := visited[next]; seen {
			walk.path = append(walk.path, next)
			return walk, dErrors.Wrap(
				fmt.Errorf("%w: %s", errCycle, formatPath(walk.path)),
				dErrors.CodeCycleDetected,
				"primary chain from "+start.String()+" does not terminate",
			)
		}
		np, err := st.FindPerson(ctx, next)
		if errors.Is(err, sentinel.ErrNotFound) {
			break
		}
		if err != nil {
			return walk, storeError(err, "load person in primary chain")
		}
		visited[next] = struct{}{}
		walk.path = append(walk.path, next)
		walk.hops++
		current, p = next, np
	}
	walk.primary = current
	return walk, nil
}

func formatPath(path []id.PersonID) string {
	parts := make([]string, len(path))
	for i, pid := range path {
		parts[i] = pid.String()
	}
	return strings.Join(parts, " -> ")
}

// reportCycle logs and counts an integrity violation. The error is still returned by the caller.
func (o *options) reportCycle(ctx context.Context, start id.PersonID, err error) {
	o.logger.ErrorContext(ctx, "primary pointer cycle detected",
		"start_id", start.String(),
		"error", err,
	)
	if o.metrics != nil {
		o.metrics.IncrementCycleDetected()
	}
}

// canonical walks to the primary, reporting cycles before returning them.
func (o *options) canonical(ctx context.Context, st ports.Store, start id.PersonID) (id.PersonID, error) {
	walk, err := walkPrimary(ctx, st, start)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeCycleDetected) {
			o.reportCycle(ctx, start, err)
		}
		return id.PersonID{}, err
	}
	if o.metrics != nil {
		o.metrics.ObservePrimaryHops(walk.hops)
	}
	return walk.primary, nil
}
