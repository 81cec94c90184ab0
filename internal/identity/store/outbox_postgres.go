package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"idlink/internal/identity/models"
	id "idlink/pkg/domain"
)

// ProcessPending claims up to limit unpublished outbox rows with
// FOR UPDATE SKIP LOCKED, hands them to publish and marks the acknowledged
// ids published. Unacknowledged rows are released for the next poll.
// Concurrent relays never see the same row.
func (s *PostgresStore) ProcessPending(ctx context.Context, limit int, publish func(ctx context.Context, entries []models.OutboxEntry) []id.EventID) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classify("begin outbox batch", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entries, err := claimOutbox(ctx, tx, limit)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	done := publish(ctx, entries)
	if len(done) == 0 {
		return 0, nil
	}

	ids := make([]string, len(done))
	for i, eventID := range done {
		ids[i] = eventID.String()
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE audit_outbox SET published_at = $2 WHERE id = ANY($1::text[]::uuid[])`,
		pq.Array(ids), s.clock(),
	)
	if err != nil {
		return 0, classify("mark outbox published", err)
	}
	marked, err := rowsAffected("mark outbox published", res)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, classify("commit outbox batch", err)
	}
	return marked, nil
}

func claimOutbox(ctx context.Context, tx *sql.Tx, limit int) ([]models.OutboxEntry, error) {
	query := `
		SELECT id, person_id, event_type, payload, created_at
		FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rows, err := tx.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, classify("claim outbox entries", err)
	}
	defer rows.Close()

	var out []models.OutboxEntry
	for rows.Next() {
		var (
			e         models.OutboxEntry
			personID  uuid.NullUUID
			eventType string
		)
		if err := rows.Scan((*uuid.UUID)(&e.ID), &personID, &eventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		e.Type = models.EventType(eventType)
		if personID.Valid {
			pid := id.PersonID(personID.UUID)
			e.PersonID = &pid
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate outbox entries", err)
	}
	return out, nil
}
