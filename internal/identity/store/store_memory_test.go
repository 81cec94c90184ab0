package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"idlink/internal/identity/models"
	"idlink/internal/identity/ports"
	id "idlink/pkg/domain"
	"idlink/pkg/platform/sentinel"
)

var _ ports.TxStore = (*InMemory)(nil)
var _ ports.OutboxStore = (*InMemory)(nil)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemory(WithMemoryClock(func() time.Time {
		s.now = s.now.Add(time.Second)
		return s.now
	}))
	s.ctx = context.Background()
}

func strPtr(v string) *string { return &v }

func (s *InMemoryStoreSuite) newPerson() *models.Person {
	p, err := s.store.CreatePerson(s.ctx, models.ProfileFields{})
	s.Require().NoError(err)
	return p
}

func (s *InMemoryStoreSuite) TestAccountUpsert() {
	s.Run("creates binding and finds it by provider identity", func() {
		p := s.newPerson()
		acc, err := s.store.UpsertProviderAccount(s.ctx, models.AccountUpsert{
			PersonID:       p.ID,
			Provider:       models.ProviderVK,
			ProviderUserID: "vk-1",
			Profile:        models.ProfileFields{Username: strPtr("anna")},
		})
		s.Require().NoError(err)

		found, err := s.store.FindAccountByProvider(s.ctx, models.ProviderVK, "vk-1")
		s.Require().NoError(err)
		s.Equal(acc.ID, found.ID)
		s.Equal(p.ID, found.PersonID)
		s.Equal("anna", *found.Profile.Username)
	})

	s.Run("existing profile values win and unknown ones are filled", func() {
		p := s.newPerson()
		_, err := s.store.UpsertProviderAccount(s.ctx, models.AccountUpsert{
			PersonID: p.ID, Provider: models.ProviderTelegram, ProviderUserID: "tg-1",
			Profile: models.ProfileFields{Username: strPtr("first")},
		})
		s.Require().NoError(err)

		acc, err := s.store.UpsertProviderAccount(s.ctx, models.AccountUpsert{
			PersonID: p.ID, Provider: models.ProviderTelegram, ProviderUserID: "tg-1",
			Profile: models.ProfileFields{Username: strPtr("second"), FirstName: strPtr("Ivan")},
		})
		s.Require().NoError(err)
		s.Equal("first", *acc.Profile.Username)
		s.Equal("Ivan", *acc.Profile.FirstName)
	})

	s.Run("ownership is kept unless reassign is requested", func() {
		owner := s.newPerson()
		other := s.newPerson()
		_, err := s.store.UpsertProviderAccount(s.ctx, models.AccountUpsert{
			PersonID: owner.ID, Provider: models.ProviderEmail, ProviderUserID: "a@example.com",
		})
		s.Require().NoError(err)

		acc, err := s.store.UpsertProviderAccount(s.ctx, models.AccountUpsert{
			PersonID: other.ID, Provider: models.ProviderEmail, ProviderUserID: "a@example.com",
		})
		s.Require().NoError(err)
		s.Equal(owner.ID, acc.PersonID)

		acc, err = s.store.UpsertProviderAccount(s.ctx, models.AccountUpsert{
			PersonID: other.ID, Provider: models.ProviderEmail, ProviderUserID: "a@example.com", Reassign: true,
		})
		s.Require().NoError(err)
		s.Equal(other.ID, acc.PersonID)
	})

	s.Run("unknown provider identity is not found", func() {
		_, err := s.store.FindAccountByProvider(s.ctx, models.ProviderVK, "missing")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestDeviceLinks() {
	s.Run("touch creates then reassigns and counts", func() {
		a := s.newPerson()
		b := s.newPerson()

		link, err := s.store.TouchDeviceLink(s.ctx, "dev-1", a.ID)
		s.Require().NoError(err)
		s.Equal(1, link.SeenCount)
		s.Nil(link.PreviousPersonID)
		s.True(link.OwnerChanged())

		link, err = s.store.TouchDeviceLink(s.ctx, "dev-1", a.ID)
		s.Require().NoError(err)
		s.Equal(2, link.SeenCount)
		s.False(link.OwnerChanged())

		link, err = s.store.TouchDeviceLink(s.ctx, "dev-1", b.ID)
		s.Require().NoError(err)
		s.Equal(3, link.SeenCount)
		s.Equal(b.ID, link.PersonID)
		s.True(link.OwnerChanged())

		owner, err := s.store.FindPersonByDevice(s.ctx, "dev-1")
		s.Require().NoError(err)
		s.Equal(b.ID, owner)
	})
}

func (s *InMemoryStoreSuite) TestPhoneLookups() {
	s.Run("oldest account carrying the hash wins", func() {
		first := s.newPerson()
		second := s.newPerson()
		for i, p := range []*models.Person{first, second} {
			_, err := s.store.UpsertProviderAccount(s.ctx, models.AccountUpsert{
				PersonID: p.ID, Provider: models.ProviderOther, ProviderUserID: []string{"p-1", "p-2"}[i],
				PhoneHash: strPtr("phone-h"),
			})
			s.Require().NoError(err)
		}

		owner, err := s.store.FindPersonByPhone(s.ctx, "phone-h")
		s.Require().NoError(err)
		s.Equal(first.ID, owner)

		all, err := s.store.ListPersonsByPhone(s.ctx, "phone-h")
		s.Require().NoError(err)
		s.Equal([]id.PersonID{first.ID, second.ID}, all)
	})

	s.Run("set phone hash updates every account of the person", func() {
		p := s.newPerson()
		for _, uid := range []string{"x-1", "x-2"} {
			_, err := s.store.UpsertProviderAccount(s.ctx, models.AccountUpsert{
				PersonID: p.ID, Provider: models.ProviderOther, ProviderUserID: uid,
			})
			s.Require().NoError(err)
		}
		n, err := s.store.SetPhoneHash(s.ctx, p.ID, "fresh")
		s.Require().NoError(err)
		s.Equal(2, n)

		owner, err := s.store.FindPersonByPhone(s.ctx, "fresh")
		s.Require().NoError(err)
		s.Equal(p.ID, owner)
	})
}

func (s *InMemoryStoreSuite) TestPersonLinks() {
	s.Run("lock returns existing persons in id order", func() {
		a, b, c := s.newPerson(), s.newPerson(), s.newPerson()
		locked, err := s.store.LockPersons(s.ctx, []id.PersonID{c.ID, id.NewPersonID(), a.ID, b.ID})
		s.Require().NoError(err)
		s.Len(locked, 3)
		for i := 1; i < len(locked); i++ {
			s.True(locked[i-1].ID.Less(locked[i].ID))
		}
	})

	s.Run("update link and reassign accounts", func() {
		primary := s.newPerson()
		merged := s.newPerson()
		_, err := s.store.UpsertProviderAccount(s.ctx, models.AccountUpsert{
			PersonID: merged.ID, Provider: models.ProviderTelegram, ProviderUserID: "tg-merge",
		})
		s.Require().NoError(err)

		cluster := id.NewClusterID()
		s.Require().NoError(s.store.UpdatePersonLink(s.ctx, merged.ID, &cluster, &primary.ID))
		got, err := s.store.FindPerson(s.ctx, merged.ID)
		s.Require().NoError(err)
		s.Equal(cluster, *got.ClusterID)
		s.Equal(primary.ID, *got.PrimaryID)
		s.False(got.IsPrimary())

		moved, err := s.store.ReassignAccounts(s.ctx, []id.PersonID{merged.ID, primary.ID}, primary.ID)
		s.Require().NoError(err)
		s.Equal(1, moved)
	})

	s.Run("updating a missing person is not found", func() {
		err := s.store.UpdatePersonLink(s.ctx, id.NewPersonID(), nil, nil)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("backfill fills only unknown fields", func() {
		p, err := s.store.CreatePerson(s.ctx, models.ProfileFields{Username: strPtr("keep")})
		s.Require().NoError(err)
		s.Require().NoError(s.store.BackfillPersonProfile(s.ctx, p.ID, models.ProfileFields{
			Username: strPtr("drop"), AvatarURL: strPtr("https://img/1"),
		}))
		got, err := s.store.FindPerson(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("keep", *got.Profile.Username)
		s.Equal("https://img/1", *got.Profile.AvatarURL)
	})
}

func (s *InMemoryStoreSuite) TestTransactions() {
	s.Run("error rolls back every write", func() {
		boom := errors.New("boom")
		var created id.PersonID
		err := s.store.RunInTx(s.ctx, func(ctx context.Context, tx ports.Store) error {
			p, err := tx.CreatePerson(ctx, models.ProfileFields{})
			s.Require().NoError(err)
			created = p.ID
			s.Require().NoError(tx.RecordEvent(ctx, models.AuditEvent{Type: models.EventPersonCreated, PersonID: &p.ID}))
			return boom
		})
		s.ErrorIs(err, boom)

		_, err = s.store.FindPerson(s.ctx, created)
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.Empty(s.store.AuditEvents())
	})

	s.Run("cancelled context never starts", func() {
		ctx, cancel := context.WithCancel(s.ctx)
		cancel()
		err := s.store.RunInTx(ctx, func(context.Context, ports.Store) error {
			s.Fail("callback must not run")
			return nil
		})
		s.ErrorIs(err, sentinel.ErrUnavailable)
	})
}

func (s *InMemoryStoreSuite) TestDeviceCollisions() {
	a, b, c := s.newPerson(), s.newPerson(), s.newPerson()
	for _, in := range []models.AccountUpsert{
		{PersonID: a.ID, Provider: models.ProviderVK, ProviderUserID: "c-vk", DeviceHash: strPtr("shared")},
		{PersonID: b.ID, Provider: models.ProviderTelegram, ProviderUserID: "c-tg", DeviceHash: strPtr("shared")},
		{PersonID: c.ID, Provider: models.ProviderEmail, ProviderUserID: "c-em", DeviceHash: strPtr("solo")},
	} {
		_, err := s.store.UpsertProviderAccount(s.ctx, in)
		s.Require().NoError(err)
	}

	collisions, err := s.store.ListDeviceCollisions(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(collisions, 1)
	s.Equal("shared", collisions[0].DeviceHash)
	s.ElementsMatch([]id.PersonID{a.ID, b.ID}, collisions[0].PersonIDs)
	s.ElementsMatch([]models.Provider{models.ProviderVK, models.ProviderTelegram}, collisions[0].Providers)
}

func (s *InMemoryStoreSuite) TestDeviceCollisionsOrderedByFirstSighting() {
	frozen := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemory(WithMemoryClock(func() time.Time { return frozen }))

	// identical timestamps leave insertion order as the only tie-break
	hashes := []string{"zeta", "alpha", "mid"}
	for i, h := range hashes {
		for j := range 2 {
			p := s.newPerson()
			_, err := s.store.UpsertProviderAccount(s.ctx, models.AccountUpsert{
				PersonID:       p.ID,
				Provider:       models.ProviderTelegram,
				ProviderUserID: fmt.Sprintf("order-%d-%d", i, j),
				DeviceHash:     strPtr(h),
			})
			s.Require().NoError(err)
		}
	}

	collisions, err := s.store.ListDeviceCollisions(s.ctx, 10)
	s.Require().NoError(err)
	got := make([]string, 0, len(collisions))
	for _, c := range collisions {
		got = append(got, c.DeviceHash)
	}
	s.Equal(hashes, got)

	limited, err := s.store.ListDeviceCollisions(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(limited, 2)
	s.Equal("zeta", limited[0].DeviceHash)
	s.Equal("alpha", limited[1].DeviceHash)
}

func (s *InMemoryStoreSuite) TestOutbox() {
	p := s.newPerson()
	for range 3 {
		s.Require().NoError(s.store.RecordEvent(s.ctx, models.AuditEvent{Type: models.EventAccountLinked, PersonID: &p.ID}))
	}

	var seen []models.OutboxEntry
	n, err := s.store.ProcessPending(s.ctx, 2, func(_ context.Context, entries []models.OutboxEntry) []id.EventID {
		seen = append(seen, entries...)
		return []id.EventID{entries[0].ID}
	})
	s.Require().NoError(err)
	s.Equal(1, n)
	s.Len(seen, 2)
	s.Contains(string(seen[0].Payload), `"event_type":"account_linked"`)

	n, err = s.store.ProcessPending(s.ctx, 10, func(_ context.Context, entries []models.OutboxEntry) []id.EventID {
		s.Len(entries, 2)
		ids := make([]id.EventID, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		return ids
	})
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = s.store.ProcessPending(s.ctx, 10, func(context.Context, []models.OutboxEntry) []id.EventID {
		s.Fail("nothing should be pending")
		return nil
	})
	s.Require().NoError(err)
	s.Zero(n)
}
