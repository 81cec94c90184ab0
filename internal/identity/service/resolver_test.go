package service

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"idlink/internal/identity/models"
	"idlink/internal/identity/ports"
	"idlink/internal/identity/service/mocks"
	id "idlink/pkg/domain"
	dErrors "idlink/pkg/domain-errors"
	"idlink/pkg/platform/sentinel"
)

func (s *IdentitySuite) TestResolve_Idempotent() {
	sig := models.Signal{Provider: models.ProviderVK, ProviderUserID: "42"}

	first := s.resolve(sig)
	second := s.resolve(sig)

	s.Equal(first.Person.ID, second.Person.ID)
	s.True(first.PersonCreated)
	s.Equal(models.MatchedByCreated, first.MatchedBy)
	s.False(second.PersonCreated)
	s.False(second.AccountCreated)
	s.Equal(models.MatchedByProvider, second.MatchedBy)
	s.Equal(first.Account.ID, second.Account.ID)

	s.Len(s.eventsOfType(models.EventPersonCreated), 1)
	s.Len(s.eventsOfType(models.EventAccountLinked), 1)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ResolveTotal.WithLabelValues("provider")))
}

func (s *IdentitySuite) TestResolve_ProviderAliasAndTrimming() {
	a := s.resolve(models.Signal{Provider: "Telegram", ProviderUserID: " 99 "})
	b := s.resolve(models.Signal{Provider: models.ProviderTelegram, ProviderUserID: "99"})

	s.Equal(a.Person.ID, b.Person.ID)
	s.Equal(models.ProviderTelegram, b.Account.Provider)
	s.Equal("99", b.Account.ProviderUserID)
}

func (s *IdentitySuite) TestResolve_DeviceCorrelation() {
	first := s.resolve(models.Signal{Provider: models.ProviderVK, ProviderUserID: "42", DeviceHash: "dev-1"})
	second := s.resolve(models.Signal{Provider: models.ProviderTelegram, ProviderUserID: "99", DeviceHash: "dev-1"})

	s.Equal(first.Person.ID, second.Person.ID)
	s.Equal(models.MatchedByDevice, second.MatchedBy)
	s.True(second.AccountCreated)
	s.False(second.PersonCreated)
	s.Len(s.eventsOfType(models.EventPersonCreated), 1)

	link, ok := s.store.DeviceLink("dev-1")
	s.Require().True(ok)
	s.Equal(2, link.SeenCount)
	// Same owner on the second touch: one device_linked event only.
	s.Len(s.eventsOfType(models.EventDeviceLinked), 1)
}

func (s *IdentitySuite) TestResolve_PhoneCorrelation() {
	first := s.resolve(models.Signal{Provider: models.ProviderVK, ProviderUserID: "42", PhoneHash: "phone-1"})
	second := s.resolve(models.Signal{Provider: models.ProviderEmail, ProviderUserID: "a@example.com", PhoneHash: "phone-1"})

	s.Equal(first.Person.ID, second.Person.ID)
	s.Equal(models.MatchedByPhone, second.MatchedBy)
}

func (s *IdentitySuite) TestResolve_DeviceBeatsPhone() {
	byDevice := s.newPerson(models.ProviderVK, "1")
	s.resolve(models.Signal{Provider: models.ProviderVK, ProviderUserID: "1", DeviceHash: "dev-1"})
	s.resolve(models.Signal{Provider: models.ProviderVK, ProviderUserID: "2", PhoneHash: "phone-1"})

	res := s.resolve(models.Signal{Provider: models.ProviderTelegram, ProviderUserID: "3", DeviceHash: "dev-1", PhoneHash: "phone-1"})

	s.Equal(byDevice, res.Person.ID)
	s.Equal(models.MatchedByDevice, res.MatchedBy)
}

func (s *IdentitySuite) TestResolve_ProviderBindingBeatsDevice() {
	p3 := s.newPerson(models.ProviderVK, "p3")
	p4 := s.resolve(models.Signal{Provider: models.ProviderTelegram, ProviderUserID: "p4", DeviceHash: "shared"}).Person.ID
	s.Require().NotEqual(p3, p4)

	res := s.resolve(models.Signal{Provider: models.ProviderVK, ProviderUserID: "p3", DeviceHash: "shared"})

	s.Equal(p3, res.Person.ID, "provider binding is authoritative")
	s.Equal(models.MatchedByProvider, res.MatchedBy)
	acc, err := s.store.FindAccountByProvider(context.Background(), models.ProviderVK, "p3")
	s.Require().NoError(err)
	s.Equal(p3, acc.PersonID)

	link, ok := s.store.DeviceLink("shared")
	s.Require().True(ok)
	s.Equal(p3, link.PersonID, "device link tracks the most recent user")
	s.Require().NotNil(link.PreviousPersonID)
	s.Equal(p4, *link.PreviousPersonID)

	linked := s.eventsOfType(models.EventDeviceLinked)
	s.Require().Len(linked, 2)
	s.Equal(p4.String(), linked[1].Payload["previous_person_id"])
}

func (s *IdentitySuite) TestResolve_DeviceMatchFollowsPrimary() {
	primary := s.newPerson(models.ProviderVK, "1")
	merged := s.resolve(models.Signal{Provider: models.ProviderTelegram, ProviderUserID: "2", DeviceHash: "dev-x"}).Person.ID
	_, err := s.merger.Merge(context.Background(), []id.PersonID{primary, merged}, models.MergeOptions{})
	s.Require().NoError(err)

	// dev-x still points at the merged person; the new account joins the primary.
	res := s.resolve(models.Signal{Provider: models.ProviderEmail, ProviderUserID: "e", DeviceHash: "dev-x"})
	s.Equal(primary, res.Person.ID)
	s.Equal(models.MatchedByDevice, res.MatchedBy)
}

func (s *IdentitySuite) TestResolve_ProfileCoalesce() {
	s.resolve(models.Signal{Provider: models.ProviderVK, ProviderUserID: "42", FirstName: strPtr("Ivan")})
	res := s.resolve(models.Signal{
		Provider:       models.ProviderVK,
		ProviderUserID: "42",
		FirstName:      strPtr("Someone Else"),
		LastName:       strPtr("Petrov"),
	})

	s.Require().NotNil(res.Person.Profile.FirstName)
	s.Equal("Ivan", *res.Person.Profile.FirstName, "first write wins")
	s.Require().NotNil(res.Person.Profile.LastName)
	s.Equal("Petrov", *res.Person.Profile.LastName, "null fields are backfilled")
}

func (s *IdentitySuite) TestResolve_InvalidSignal() {
	cases := []struct {
		name string
		sig  models.Signal
	}{
		{"missing provider", models.Signal{ProviderUserID: "42"}},
		{"unknown provider", models.Signal{Provider: "myspace", ProviderUserID: "42"}},
		{"missing provider user id", models.Signal{Provider: models.ProviderVK}},
		{"blank provider user id", models.Signal{Provider: models.ProviderVK, ProviderUserID: "   "}},
		{"oversized provider user id", models.Signal{Provider: models.ProviderVK, ProviderUserID: strings.Repeat("x", 257)}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			ctrl := gomock.NewController(s.T())
			// No expectations: any store access fails the test.
			resolver := NewResolver(mocks.NewMockStoreTx(ctrl))

			_, err := resolver.Resolve(context.Background(), tc.sig)
			s.Require().Error(err)
			s.True(dErrors.Is(err, dErrors.CodeInvalidSignal))
		})
	}
}

func (s *IdentitySuite) TestResolve_StoreFailures() {
	ctx := context.Background()

	s.Run("lookup failure surfaces as store_unavailable", func() {
		ctrl := gomock.NewController(s.T())
		st := mocks.NewMockStore(ctrl)
		tx := mocks.NewMockStoreTx(ctrl)
		tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn func(context.Context, ports.Store) error) error {
				return fn(ctx, st)
			})
		st.EXPECT().LockProviderIdentity(gomock.Any(), models.ProviderVK, "42").Return(nil)
		st.EXPECT().FindAccountByProvider(gomock.Any(), models.ProviderVK, "42").Return(nil, sentinel.ErrUnavailable)

		_, err := NewResolver(tx).Resolve(ctx, models.Signal{Provider: models.ProviderVK, ProviderUserID: "42"})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeStoreUnavailable))
		assert.ErrorIs(s.T(), err, sentinel.ErrUnavailable)
	})

	s.Run("audit failure aborts the transaction", func() {
		ctrl := gomock.NewController(s.T())
		st := mocks.NewMockStore(ctrl)
		tx := mocks.NewMockStoreTx(ctrl)
		tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn func(context.Context, ports.Store) error) error {
				return fn(ctx, st)
			})
		person := &models.Person{ID: id.NewPersonID()}
		st.EXPECT().LockProviderIdentity(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		st.EXPECT().FindAccountByProvider(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)
		st.EXPECT().CreatePerson(gomock.Any(), gomock.Any()).Return(person, nil)
		st.EXPECT().UpsertProviderAccount(gomock.Any(), gomock.Any()).Return(&models.ProviderAccount{
			ID: id.NewAccountID(), PersonID: person.ID, Provider: models.ProviderVK, ProviderUserID: "42",
		}, nil)
		st.EXPECT().BackfillPersonProfile(gomock.Any(), person.ID, gomock.Any()).Return(nil)
		st.EXPECT().RecordEvent(gomock.Any(), gomock.Any()).Return(sentinel.ErrUnavailable)

		_, err := NewResolver(tx).Resolve(ctx, models.Signal{Provider: models.ProviderVK, ProviderUserID: "42"})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeStoreUnavailable))
	})

	s.Run("cancelled context leaves no partial state", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.resolver.Resolve(cctx, models.Signal{Provider: models.ProviderVK, ProviderUserID: "cancelled"})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeStoreUnavailable))
		_, err = s.store.FindAccountByProvider(ctx, models.ProviderVK, "cancelled")
		assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
	})
}
