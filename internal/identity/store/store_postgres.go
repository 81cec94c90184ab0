package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"idlink/internal/identity/models"
	"idlink/internal/identity/ports"
	id "idlink/pkg/domain"
	"idlink/pkg/platform/sentinel"
	txcontext "idlink/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

const personColumns = `id, cluster_id, primary_account_id, username, first_name, last_name, avatar_url, created_at, updated_at`

const accountColumns = `id, person_id, provider, provider_user_id, username, first_name, last_name, avatar_url,
	phone_hash, device_hash, device_label, created_at, updated_at`

// PostgresStore persists persons, provider accounts, device links and the
// audit trail. It is pure I/O; precedence and merge rules live in services.
// Calls made with a context produced by RunInTx join that transaction.
type PostgresStore struct {
	db        *sql.DB
	clock     func() time.Time
	txTimeout time.Duration
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithPostgresClock sets the clock used for row timestamps.
func WithPostgresClock(clock func() time.Time) PostgresOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithTxTimeout bounds transactions whose context carries no deadline.
func WithTxTimeout(d time.Duration) PostgresOption {
	return func(s *PostgresStore) {
		if d > 0 {
			s.txTimeout = d
		}
	}
}

func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, clock: time.Now, txTimeout: defaultTxTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *PostgresStore) execer(ctx context.Context) txcontext.Executor {
	return txcontext.ExecutorFor(ctx, s.db)
}

// Health pings the database.
func (s *PostgresStore) Health(ctx context.Context) error {
	return classify("ping database", s.db.PingContext(ctx))
}

// RunInTx opens a read-committed transaction, stores it in the context and
// hands fn this store. A context that already carries a transaction is joined.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context, store ports.Store) error) error {
	if txcontext.Joined(ctx) {
		return fn(ctx, s)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w: %w", sentinel.ErrUnavailable, err)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx), s); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*models.Person, error) {
	var (
		p       models.Person
		cluster uuid.NullUUID
		primary uuid.NullUUID
	)
	err := row.Scan(
		(*uuid.UUID)(&p.ID),
		&cluster,
		&primary,
		&p.Profile.Username,
		&p.Profile.FirstName,
		&p.Profile.LastName,
		&p.Profile.AvatarURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cluster.Valid {
		c := id.ClusterID(cluster.UUID)
		p.ClusterID = &c
	}
	if primary.Valid {
		pid := id.PersonID(primary.UUID)
		p.PrimaryID = &pid
	}
	return &p, nil
}

func scanAccount(row rowScanner) (*models.ProviderAccount, error) {
	var (
		a        models.ProviderAccount
		provider string
	)
	err := row.Scan(
		(*uuid.UUID)(&a.ID),
		(*uuid.UUID)(&a.PersonID),
		&provider,
		&a.ProviderUserID,
		&a.Profile.Username,
		&a.Profile.FirstName,
		&a.Profile.LastName,
		&a.Profile.AvatarURL,
		&a.PhoneHash,
		&a.DeviceHash,
		&a.DeviceLabel,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Provider = models.Provider(provider)
	return &a, nil
}

func personIDStrings(ids []id.PersonID) []string {
	out := make([]string, len(ids))
	for i, pid := range ids {
		out[i] = pid.String()
	}
	return out
}

func nullClusterID(c *id.ClusterID) uuid.NullUUID {
	if c == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*c), Valid: true}
}

func nullPersonID(p *id.PersonID) uuid.NullUUID {
	if p == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*p), Valid: true}
}

func (s *PostgresStore) FindAccountByProvider(ctx context.Context, provider models.Provider, providerUserID string) (*models.ProviderAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM provider_accounts WHERE provider = $1 AND provider_user_id = $2`
	acc, err := scanAccount(s.execer(ctx).QueryRowContext(ctx, query, string(provider), providerUserID))
	if err != nil {
		return nil, classify("find account by provider", err)
	}
	return acc, nil
}

func (s *PostgresStore) FindAccountByID(ctx context.Context, accountID id.AccountID) (*models.ProviderAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM provider_accounts WHERE id = $1`
	acc, err := scanAccount(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(accountID)))
	if err != nil {
		return nil, classify("find account by id", err)
	}
	return acc, nil
}

func (s *PostgresStore) FindPerson(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = $1`
	p, err := scanPerson(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(personID)))
	if err != nil {
		return nil, classify("find person", err)
	}
	return p, nil
}

func (s *PostgresStore) ListAccountsByPersons(ctx context.Context, personIDs []id.PersonID) ([]*models.ProviderAccount, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + accountColumns + `
		FROM provider_accounts
		WHERE person_id = ANY($1::text[]::uuid[])
		ORDER BY created_at, id`
	rows, err := s.execer(ctx).QueryContext(ctx, query, pq.Array(personIDStrings(personIDs)))
	if err != nil {
		return nil, classify("list accounts by persons", err)
	}
	defer rows.Close()

	var out []*models.ProviderAccount
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, classify("scan account", err)
		}
		out = append(out, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate accounts", err)
	}
	return out, nil
}

func (s *PostgresStore) FindPersonByDevice(ctx context.Context, deviceHash string) (id.PersonID, error) {
	var pid uuid.UUID
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT person_id FROM device_links WHERE device_hash = $1`, deviceHash).Scan(&pid)
	if err != nil {
		return id.PersonID{}, classify("find person by device", err)
	}
	return id.PersonID(pid), nil
}

func (s *PostgresStore) FindPersonByPhone(ctx context.Context, phoneHash string) (id.PersonID, error) {
	query := `
		SELECT person_id FROM provider_accounts
		WHERE phone_hash = $1
		ORDER BY created_at, id
		LIMIT 1
	`
	var pid uuid.UUID
	if err := s.execer(ctx).QueryRowContext(ctx, query, phoneHash).Scan(&pid); err != nil {
		return id.PersonID{}, classify("find person by phone", err)
	}
	return id.PersonID(pid), nil
}

func (s *PostgresStore) ListPersonsByPhone(ctx context.Context, phoneHash string) ([]id.PersonID, error) {
	query := `
		SELECT person_id FROM provider_accounts
		WHERE phone_hash = $1
		GROUP BY person_id
		ORDER BY MIN(created_at), person_id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, phoneHash)
	if err != nil {
		return nil, classify("list persons by phone", err)
	}
	defer rows.Close()

	var out []id.PersonID
	for rows.Next() {
		var pid uuid.UUID
		if err := rows.Scan(&pid); err != nil {
			return nil, classify("scan person id", err)
		}
		out = append(out, id.PersonID(pid))
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate persons by phone", err)
	}
	return out, nil
}

func (s *PostgresStore) CreatePerson(ctx context.Context, seed models.ProfileFields) (*models.Person, error) {
	now := s.clock()
	query := `
		INSERT INTO persons (id, username, first_name, last_name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + personColumns
	p, err := scanPerson(s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(id.NewPersonID()),
		seed.Username,
		seed.FirstName,
		seed.LastName,
		seed.AvatarURL,
		now,
	))
	if err != nil {
		return nil, classify("create person", err)
	}
	return p, nil
}

// UpsertProviderAccount inserts or refreshes the binding for (provider,
// provider_user_id). Existing profile values win; fresh phone and device
// metadata replace old values; ownership moves only when Reassign is set.
func (s *PostgresStore) UpsertProviderAccount(ctx context.Context, in models.AccountUpsert) (*models.ProviderAccount, error) {
	now := s.clock()
	query := `
		INSERT INTO provider_accounts (
			id, person_id, provider, provider_user_id,
			username, first_name, last_name, avatar_url,
			phone_hash, device_hash, device_label, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		ON CONFLICT (provider, provider_user_id) DO UPDATE SET
			username     = COALESCE(provider_accounts.username, EXCLUDED.username),
			first_name   = COALESCE(provider_accounts.first_name, EXCLUDED.first_name),
			last_name    = COALESCE(provider_accounts.last_name, EXCLUDED.last_name),
			avatar_url   = COALESCE(provider_accounts.avatar_url, EXCLUDED.avatar_url),
			phone_hash   = COALESCE(EXCLUDED.phone_hash, provider_accounts.phone_hash),
			device_hash  = COALESCE(EXCLUDED.device_hash, provider_accounts.device_hash),
			device_label = COALESCE(EXCLUDED.device_label, provider_accounts.device_label),
			person_id    = CASE WHEN $13 THEN EXCLUDED.person_id ELSE provider_accounts.person_id END,
			updated_at   = EXCLUDED.updated_at
		RETURNING ` + accountColumns
	acc, err := scanAccount(s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(id.NewAccountID()),
		uuid.UUID(in.PersonID),
		string(in.Provider),
		in.ProviderUserID,
		in.Profile.Username,
		in.Profile.FirstName,
		in.Profile.LastName,
		in.Profile.AvatarURL,
		in.PhoneHash,
		in.DeviceHash,
		in.DeviceLabel,
		now,
		in.Reassign,
	))
	if err != nil {
		return nil, classify("upsert provider account", err)
	}
	return acc, nil
}

func (s *PostgresStore) TouchDeviceLink(ctx context.Context, deviceHash string, personID id.PersonID) (*models.DeviceLink, error) {
	query := `
		WITH prev AS (
			SELECT person_id FROM device_links WHERE device_hash = $1
		)
		INSERT INTO device_links (device_hash, person_id, last_seen_at, seen_count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (device_hash) DO UPDATE SET
			person_id    = EXCLUDED.person_id,
			last_seen_at = EXCLUDED.last_seen_at,
			seen_count   = device_links.seen_count + 1
		RETURNING device_hash, person_id, last_seen_at, seen_count, (SELECT person_id FROM prev)
	`
	var (
		link models.DeviceLink
		prev uuid.NullUUID
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, deviceHash, uuid.UUID(personID), s.clock()).Scan(
		&link.DeviceHash,
		(*uuid.UUID)(&link.PersonID),
		&link.LastSeenAt,
		&link.SeenCount,
		&prev,
	)
	if err != nil {
		return nil, classify("touch device link", err)
	}
	if prev.Valid {
		p := id.PersonID(prev.UUID)
		link.PreviousPersonID = &p
	}
	return &link, nil
}

func (s *PostgresStore) BackfillPersonProfile(ctx context.Context, personID id.PersonID, fields models.ProfileFields) error {
	query := `
		UPDATE persons SET
			username   = COALESCE(username, $2),
			first_name = COALESCE(first_name, $3),
			last_name  = COALESCE(last_name, $4),
			avatar_url = COALESCE(avatar_url, $5),
			updated_at = $6
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(personID),
		fields.Username,
		fields.FirstName,
		fields.LastName,
		fields.AvatarURL,
		s.clock(),
	)
	if err != nil {
		return classify("backfill person profile", err)
	}
	return requireRow("backfill person profile", res)
}

// LockPersons takes FOR UPDATE locks in id order so concurrent merges over
// overlapping sets cannot deadlock.
func (s *PostgresStore) LockPersons(ctx context.Context, personIDs []id.PersonID) ([]*models.Person, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + personColumns + `
		FROM persons
		WHERE id = ANY($1::text[]::uuid[])
		ORDER BY id
		FOR UPDATE`
	rows, err := s.execer(ctx).QueryContext(ctx, query, pq.Array(personIDStrings(personIDs)))
	if err != nil {
		return nil, classify("lock persons", err)
	}
	defer rows.Close()

	var out []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, classify("scan person", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate locked persons", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdatePersonLink(ctx context.Context, personID id.PersonID, clusterID *id.ClusterID, primaryID *id.PersonID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE persons SET cluster_id = $2, primary_account_id = $3, updated_at = $4 WHERE id = $1`,
		uuid.UUID(personID), nullClusterID(clusterID), nullPersonID(primaryID), s.clock(),
	)
	if err != nil {
		return classify("update person link", err)
	}
	return requireRow("update person link", res)
}

func (s *PostgresStore) ReassignAccounts(ctx context.Context, from []id.PersonID, to id.PersonID) (int, error) {
	if len(from) == 0 {
		return 0, nil
	}
	query := `
		UPDATE provider_accounts
		SET person_id = $2, updated_at = $3
		WHERE person_id = ANY($1::text[]::uuid[]) AND person_id <> $2
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, pq.Array(personIDStrings(from)), uuid.UUID(to), s.clock())
	if err != nil {
		return 0, classify("reassign accounts", err)
	}
	return rowsAffected("reassign accounts", res)
}

func (s *PostgresStore) SetPhoneHash(ctx context.Context, personID id.PersonID, phoneHash string) (int, error) {
	res, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE provider_accounts SET phone_hash = $2, updated_at = $3 WHERE person_id = $1`,
		uuid.UUID(personID), phoneHash, s.clock(),
	)
	if err != nil {
		return 0, classify("set phone hash", err)
	}
	return rowsAffected("set phone hash", res)
}

// ListDeviceCollisions groups accounts by device hash and keeps devices seen
// under more than one person, oldest first.
func (s *PostgresStore) ListDeviceCollisions(ctx context.Context, limit int) ([]models.DeviceCollision, error) {
	query := `
		SELECT device_hash,
		       array_agg(DISTINCT person_id::text) AS person_ids,
		       array_agg(DISTINCT provider) AS providers
		FROM provider_accounts
		WHERE device_hash IS NOT NULL
		GROUP BY device_hash
		HAVING COUNT(DISTINCT person_id) > 1
		ORDER BY MIN(created_at), device_hash
		LIMIT $1
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, classify("list device collisions", err)
	}
	defer rows.Close()

	var out []models.DeviceCollision
	for rows.Next() {
		var (
			c         models.DeviceCollision
			personIDs []string
			providers []string
		)
		if err := rows.Scan(&c.DeviceHash, pq.Array(&personIDs), pq.Array(&providers)); err != nil {
			return nil, classify("scan device collision", err)
		}
		for _, raw := range personIDs {
			pid, err := id.ParsePersonID(raw)
			if err != nil {
				return nil, fmt.Errorf("parse collision person id: %w", err)
			}
			c.PersonIDs = append(c.PersonIDs, pid)
		}
		for _, p := range providers {
			c.Providers = append(c.Providers, models.Provider(p))
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate device collisions", err)
	}
	return out, nil
}

// RecordEvent appends to audit_events and queues the same event in
// audit_outbox, both inside the caller's transaction.
func (s *PostgresStore) RecordEvent(ctx context.Context, event models.AuditEvent) error {
	if event.ID == (id.EventID{}) {
		event.ID = id.NewEventID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.clock()
	}
	payload := event.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	outboxBytes, err := json.Marshal(outboxPayloadFor(event))
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}

	exec := s.execer(ctx)
	_, err = exec.ExecContext(ctx,
		`INSERT INTO audit_events (id, person_id, event_type, payload, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(event.ID), nullPersonID(event.PersonID), string(event.Type), payloadBytes, event.CreatedAt,
	)
	if err != nil {
		return classify("insert audit event", err)
	}
	_, err = exec.ExecContext(ctx,
		`INSERT INTO audit_outbox (id, person_id, event_type, payload, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(event.ID), nullPersonID(event.PersonID), string(event.Type), outboxBytes, event.CreatedAt,
	)
	if err != nil {
		return classify("insert outbox entry", err)
	}
	return nil
}

// LockProviderIdentity takes a transaction-scoped advisory lock keyed by the
// external identity. Outside a transaction it is released immediately.
func (s *PostgresStore) LockProviderIdentity(ctx context.Context, provider models.Provider, providerUserID string) error {
	key := string(provider) + ":" + providerUserID
	if _, err := s.execer(ctx).ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return classify("lock provider identity", err)
	}
	return nil
}

func rowsAffected(op string, res sql.Result) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify(op+" rows affected", err)
	}
	return int(n), nil
}

func requireRow(op string, res sql.Result) error {
	n, err := rowsAffected(op, res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
	}
	return nil
}
