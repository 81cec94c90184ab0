package store

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"idlink/internal/identity/models"
	"idlink/internal/identity/ports"
	id "idlink/pkg/domain"
	"idlink/pkg/platform/sentinel"
)

// InMemory is a process-local identity store. A single mutex serialises every
// call, and RunInTx holds it for the whole callback, so transactions are
// trivially serialisable. Rollback restores a snapshot taken at begin.
type InMemory struct {
	mu    sync.Mutex
	state *memState
	clock func() time.Time
}

// InMemoryOption configures an InMemory store.
type InMemoryOption func(*InMemory)

// WithMemoryClock sets the clock used for timestamps.
func WithMemoryClock(clock func() time.Time) InMemoryOption {
	return func(s *InMemory) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewInMemory(opts ...InMemoryOption) *InMemory {
	s := &InMemory{state: newMemState(), clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type providerKey struct {
	provider       models.Provider
	providerUserID string
}

type accountRow struct {
	models.ProviderAccount
	seq int64
}

type outboxRow struct {
	entry     models.OutboxEntry
	published bool
}

type memState struct {
	persons    map[id.PersonID]models.Person
	accounts   map[id.AccountID]accountRow
	byProvider map[providerKey]id.AccountID
	devices    map[string]models.DeviceLink
	events     []models.AuditEvent
	outbox     []outboxRow
	seq        int64
}

func newMemState() *memState {
	return &memState{
		persons:    make(map[id.PersonID]models.Person),
		accounts:   make(map[id.AccountID]accountRow),
		byProvider: make(map[providerKey]id.AccountID),
		devices:    make(map[string]models.DeviceLink),
	}
}

// clone copies the maps and slices. Row values are copied by value; pointer
// fields inside rows are replaced on write, never mutated in place.
func (st *memState) clone() *memState {
	out := &memState{
		persons:    make(map[id.PersonID]models.Person, len(st.persons)),
		accounts:   make(map[id.AccountID]accountRow, len(st.accounts)),
		byProvider: make(map[providerKey]id.AccountID, len(st.byProvider)),
		devices:    make(map[string]models.DeviceLink, len(st.devices)),
		events:     slices.Clone(st.events),
		outbox:     slices.Clone(st.outbox),
		seq:        st.seq,
	}
	for k, v := range st.persons {
		out.persons[k] = v
	}
	for k, v := range st.accounts {
		out.accounts[k] = v
	}
	for k, v := range st.byProvider {
		out.byProvider[k] = v
	}
	for k, v := range st.devices {
		out.devices[k] = v
	}
	return out
}

// RunInTx runs fn against an unlocked view while holding the store mutex.
func (s *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context, store ports.Store) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w: %w", sentinel.ErrUnavailable, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(ctx, &memView{st: s.state, now: s.clock}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *InMemory) view() *memView {
	return &memView{st: s.state, now: s.clock}
}

func (s *InMemory) FindAccountByProvider(ctx context.Context, provider models.Provider, providerUserID string) (*models.ProviderAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindAccountByProvider(ctx, provider, providerUserID)
}

func (s *InMemory) FindAccountByID(ctx context.Context, accountID id.AccountID) (*models.ProviderAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindAccountByID(ctx, accountID)
}

func (s *InMemory) FindPerson(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindPerson(ctx, personID)
}

func (s *InMemory) ListAccountsByPersons(ctx context.Context, personIDs []id.PersonID) ([]*models.ProviderAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().ListAccountsByPersons(ctx, personIDs)
}

func (s *InMemory) FindPersonByDevice(ctx context.Context, deviceHash string) (id.PersonID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindPersonByDevice(ctx, deviceHash)
}

func (s *InMemory) FindPersonByPhone(ctx context.Context, phoneHash string) (id.PersonID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindPersonByPhone(ctx, phoneHash)
}

func (s *InMemory) ListPersonsByPhone(ctx context.Context, phoneHash string) ([]id.PersonID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().ListPersonsByPhone(ctx, phoneHash)
}

func (s *InMemory) CreatePerson(ctx context.Context, seed models.ProfileFields) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().CreatePerson(ctx, seed)
}

func (s *InMemory) UpsertProviderAccount(ctx context.Context, in models.AccountUpsert) (*models.ProviderAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().UpsertProviderAccount(ctx, in)
}

func (s *InMemory) TouchDeviceLink(ctx context.Context, deviceHash string, personID id.PersonID) (*models.DeviceLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().TouchDeviceLink(ctx, deviceHash, personID)
}

func (s *InMemory) BackfillPersonProfile(ctx context.Context, personID id.PersonID, fields models.ProfileFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().BackfillPersonProfile(ctx, personID, fields)
}

func (s *InMemory) LockPersons(ctx context.Context, personIDs []id.PersonID) ([]*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().LockPersons(ctx, personIDs)
}

func (s *InMemory) UpdatePersonLink(ctx context.Context, personID id.PersonID, clusterID *id.ClusterID, primaryID *id.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().UpdatePersonLink(ctx, personID, clusterID, primaryID)
}

func (s *InMemory) ReassignAccounts(ctx context.Context, from []id.PersonID, to id.PersonID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().ReassignAccounts(ctx, from, to)
}

func (s *InMemory) SetPhoneHash(ctx context.Context, personID id.PersonID, phoneHash string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().SetPhoneHash(ctx, personID, phoneHash)
}

func (s *InMemory) ListDeviceCollisions(ctx context.Context, limit int) ([]models.DeviceCollision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().ListDeviceCollisions(ctx, limit)
}

func (s *InMemory) RecordEvent(ctx context.Context, event models.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().RecordEvent(ctx, event)
}

func (s *InMemory) LockProviderIdentity(ctx context.Context, provider models.Provider, providerUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().LockProviderIdentity(ctx, provider, providerUserID)
}

// AuditEvents returns a copy of the recorded audit trail in insertion order.
func (s *InMemory) AuditEvents() []models.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.events)
}

// DeviceLink returns the current link for a device hash.
func (s *InMemory) DeviceLink(deviceHash string) (models.DeviceLink, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.state.devices[deviceHash]
	return link, ok
}

// ProcessPending hands unpublished outbox rows to publish outside the lock
// and marks the acknowledged ones.
func (s *InMemory) ProcessPending(ctx context.Context, limit int, publish func(ctx context.Context, entries []models.OutboxEntry) []id.EventID) (int, error) {
	s.mu.Lock()
	var pending []models.OutboxEntry
	for _, row := range s.state.outbox {
		if row.published {
			continue
		}
		pending = append(pending, row.entry)
		if len(pending) == limit {
			break
		}
	}
	s.mu.Unlock()

	if len(pending) == 0 {
		return 0, nil
	}
	done := publish(ctx, pending)

	s.mu.Lock()
	defer s.mu.Unlock()
	marked := 0
	for i := range s.state.outbox {
		if slices.Contains(done, s.state.outbox[i].entry.ID) && !s.state.outbox[i].published {
			s.state.outbox[i].published = true
			marked++
		}
	}
	return marked, nil
}

// memView implements ports.Store over a memState. Callers hold the mutex.
type memView struct {
	st  *memState
	now func() time.Time
}

func (v *memView) FindAccountByProvider(_ context.Context, provider models.Provider, providerUserID string) (*models.ProviderAccount, error) {
	accountID, ok := v.st.byProvider[providerKey{provider, providerUserID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	acc := v.st.accounts[accountID].ProviderAccount
	return &acc, nil
}

func (v *memView) FindAccountByID(_ context.Context, accountID id.AccountID) (*models.ProviderAccount, error) {
	row, ok := v.st.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	acc := row.ProviderAccount
	return &acc, nil
}

func (v *memView) FindPerson(_ context.Context, personID id.PersonID) (*models.Person, error) {
	p, ok := v.st.persons[personID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (v *memView) ListAccountsByPersons(_ context.Context, personIDs []id.PersonID) ([]*models.ProviderAccount, error) {
	rows := v.sortedAccounts(func(a *accountRow) bool {
		return slices.Contains(personIDs, a.PersonID)
	})
	out := make([]*models.ProviderAccount, 0, len(rows))
	for _, row := range rows {
		acc := row.ProviderAccount
		out = append(out, &acc)
	}
	return out, nil
}

func (v *memView) FindPersonByDevice(_ context.Context, deviceHash string) (id.PersonID, error) {
	link, ok := v.st.devices[deviceHash]
	if !ok {
		return id.PersonID{}, sentinel.ErrNotFound
	}
	return link.PersonID, nil
}

func (v *memView) FindPersonByPhone(_ context.Context, phoneHash string) (id.PersonID, error) {
	rows := v.sortedAccounts(func(a *accountRow) bool {
		return a.PhoneHash != nil && *a.PhoneHash == phoneHash
	})
	if len(rows) == 0 {
		return id.PersonID{}, sentinel.ErrNotFound
	}
	return rows[0].PersonID, nil
}

func (v *memView) ListPersonsByPhone(_ context.Context, phoneHash string) ([]id.PersonID, error) {
	rows := v.sortedAccounts(func(a *accountRow) bool {
		return a.PhoneHash != nil && *a.PhoneHash == phoneHash
	})
	var out []id.PersonID
	for _, row := range rows {
		if !slices.Contains(out, row.PersonID) {
			out = append(out, row.PersonID)
		}
	}
	return out, nil
}

func (v *memView) CreatePerson(_ context.Context, seed models.ProfileFields) (*models.Person, error) {
	now := v.now()
	p := models.Person{
		ID:        id.NewPersonID(),
		Profile:   seed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	v.st.persons[p.ID] = p
	return &p, nil
}

func (v *memView) UpsertProviderAccount(_ context.Context, in models.AccountUpsert) (*models.ProviderAccount, error) {
	if _, ok := v.st.persons[in.PersonID]; !ok {
		return nil, fmt.Errorf("upsert account for unknown person %s: %w", in.PersonID, sentinel.ErrNotFound)
	}
	now := v.now()
	key := providerKey{in.Provider, in.ProviderUserID}
	if accountID, ok := v.st.byProvider[key]; ok {
		row := v.st.accounts[accountID]
		row.Profile = coalesceProfile(row.Profile, in.Profile)
		row.PhoneHash = coalesce(in.PhoneHash, row.PhoneHash)
		row.DeviceHash = coalesce(in.DeviceHash, row.DeviceHash)
		row.DeviceLabel = coalesce(in.DeviceLabel, row.DeviceLabel)
		if in.Reassign {
			row.PersonID = in.PersonID
		}
		row.UpdatedAt = now
		v.st.accounts[accountID] = row
		acc := row.ProviderAccount
		return &acc, nil
	}

	v.st.seq++
	row := accountRow{
		ProviderAccount: models.ProviderAccount{
			ID:             id.NewAccountID(),
			PersonID:       in.PersonID,
			Provider:       in.Provider,
			ProviderUserID: in.ProviderUserID,
			Profile:        in.Profile,
			PhoneHash:      in.PhoneHash,
			DeviceHash:     in.DeviceHash,
			DeviceLabel:    in.DeviceLabel,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		seq: v.st.seq,
	}
	v.st.accounts[row.ID] = row
	v.st.byProvider[key] = row.ID
	acc := row.ProviderAccount
	return &acc, nil
}

func (v *memView) TouchDeviceLink(_ context.Context, deviceHash string, personID id.PersonID) (*models.DeviceLink, error) {
	now := v.now()
	link, ok := v.st.devices[deviceHash]
	if ok {
		prev := link.PersonID
		link.PreviousPersonID = &prev
		link.SeenCount++
	} else {
		link = models.DeviceLink{DeviceHash: deviceHash, SeenCount: 1}
	}
	link.PersonID = personID
	link.LastSeenAt = now
	v.st.devices[deviceHash] = link
	return &link, nil
}

func (v *memView) BackfillPersonProfile(_ context.Context, personID id.PersonID, fields models.ProfileFields) error {
	p, ok := v.st.persons[personID]
	if !ok {
		return sentinel.ErrNotFound
	}
	p.Profile = coalesceProfile(p.Profile, fields)
	p.UpdatedAt = v.now()
	v.st.persons[personID] = p
	return nil
}

func (v *memView) LockPersons(_ context.Context, personIDs []id.PersonID) ([]*models.Person, error) {
	out := make([]*models.Person, 0, len(personIDs))
	for _, pid := range personIDs {
		if p, ok := v.st.persons[pid]; ok {
			out = append(out, &p)
		}
	}
	slices.SortFunc(out, func(a, b *models.Person) int {
		return a.ID.Compare(b.ID)
	})
	return out, nil
}

func (v *memView) UpdatePersonLink(_ context.Context, personID id.PersonID, clusterID *id.ClusterID, primaryID *id.PersonID) error {
	p, ok := v.st.persons[personID]
	if !ok {
		return sentinel.ErrNotFound
	}
	p.ClusterID = clusterID
	p.PrimaryID = primaryID
	p.UpdatedAt = v.now()
	v.st.persons[personID] = p
	return nil
}

func (v *memView) ReassignAccounts(_ context.Context, from []id.PersonID, to id.PersonID) (int, error) {
	now := v.now()
	moved := 0
	for accountID, row := range v.st.accounts {
		if row.PersonID == to || !slices.Contains(from, row.PersonID) {
			continue
		}
		row.PersonID = to
		row.UpdatedAt = now
		v.st.accounts[accountID] = row
		moved++
	}
	return moved, nil
}

func (v *memView) SetPhoneHash(_ context.Context, personID id.PersonID, phoneHash string) (int, error) {
	now := v.now()
	updated := 0
	for accountID, row := range v.st.accounts {
		if row.PersonID != personID {
			continue
		}
		h := phoneHash
		row.PhoneHash = &h
		row.UpdatedAt = now
		v.st.accounts[accountID] = row
		updated++
	}
	return updated, nil
}

func (v *memView) ListDeviceCollisions(_ context.Context, limit int) ([]models.DeviceCollision, error) {
	type group struct {
		persons   []id.PersonID
		providers []models.Provider
		firstSeq  int64
	}
	groups := make(map[string]*group)
	for _, row := range v.sortedAccounts(func(a *accountRow) bool { return a.DeviceHash != nil }) {
		g, ok := groups[*row.DeviceHash]
		if !ok {
			g = &group{firstSeq: row.seq}
			groups[*row.DeviceHash] = g
		}
		if !slices.Contains(g.persons, row.PersonID) {
			g.persons = append(g.persons, row.PersonID)
		}
		if !slices.Contains(g.providers, row.Provider) {
			g.providers = append(g.providers, row.Provider)
		}
	}

	hashes := make([]string, 0, len(groups))
	for h, g := range groups {
		if len(g.persons) > 1 {
			hashes = append(hashes, h)
		}
	}
	slices.SortFunc(hashes, func(a, b string) int {
		return cmp.Compare(groups[a].firstSeq, groups[b].firstSeq)
	})
	if limit > 0 && len(hashes) > limit {
		hashes = hashes[:limit]
	}

	out := make([]models.DeviceCollision, 0, len(hashes))
	for _, h := range hashes {
		out = append(out, models.DeviceCollision{
			DeviceHash: h,
			PersonIDs:  groups[h].persons,
			Providers:  groups[h].providers,
		})
	}
	return out, nil
}

func (v *memView) RecordEvent(_ context.Context, event models.AuditEvent) error {
	if event.ID == (id.EventID{}) {
		event.ID = id.NewEventID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = v.now()
	}
	payload, err := json.Marshal(outboxPayloadFor(event))
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	v.st.events = append(v.st.events, event)
	v.st.outbox = append(v.st.outbox, outboxRow{entry: models.OutboxEntry{
		ID:        event.ID,
		PersonID:  event.PersonID,
		Type:      event.Type,
		Payload:   payload,
		CreatedAt: event.CreatedAt,
	}})
	return nil
}

// LockProviderIdentity is a no-op: the store mutex already serialises transactions.
func (v *memView) LockProviderIdentity(context.Context, models.Provider, string) error {
	return nil
}

func (v *memView) sortedAccounts(keep func(*accountRow) bool) []accountRow {
	var rows []accountRow
	for _, row := range v.st.accounts {
		if keep(&row) {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b accountRow) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return rows
}

func coalesce(next, current *string) *string {
	if next != nil {
		return next
	}
	return current
}

// coalesceProfile keeps existing values and fills only the unknown ones.
func coalesceProfile(current, incoming models.ProfileFields) models.ProfileFields {
	return models.ProfileFields{
		Username:  coalesce(current.Username, incoming.Username),
		FirstName: coalesce(current.FirstName, incoming.FirstName),
		LastName:  coalesce(current.LastName, incoming.LastName),
		AvatarURL: coalesce(current.AvatarURL, incoming.AvatarURL),
	}
}
