package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"idlink/internal/identity/models"
	"idlink/internal/identity/ports"
	"idlink/internal/identity/service/mocks"
	id "idlink/pkg/domain"
	dErrors "idlink/pkg/domain-errors"
	"idlink/pkg/platform/sentinel"
)

func (s *IdentitySuite) TestMerge_VKTelegramScenario() {
	ctx := context.Background()
	p1 := s.newPerson(models.ProviderVK, "42")
	p2 := s.newPerson(models.ProviderTelegram, "99")
	s.Require().NotEqual(p1, p2)

	result, err := s.merger.Merge(ctx, []id.PersonID{p1, p2}, models.MergeOptions{Method: models.MergeMethodManual, ActorID: "admin-1"})
	s.Require().NoError(err)

	s.Equal(p1, result.PrimaryID)
	s.Equal([]id.PersonID{p2}, result.MergedIDs)
	s.Equal(1, result.AccountsMoved)

	first, second := s.person(p1), s.person(p2)
	s.Require().NotNil(first.ClusterID)
	s.Require().NotNil(second.ClusterID)
	s.Equal(*first.ClusterID, *second.ClusterID)
	s.Equal(result.ClusterID, *first.ClusterID)
	s.Equal(p1, *first.PrimaryID)
	s.Equal(p1, *second.PrimaryID)

	events := s.eventsOfType(models.MergeEventType(models.MergeMethodManual))
	s.Require().Len(events, 1)
	s.Equal(p2, *events[0].PersonID)
	s.Equal(p1.String(), events[0].Payload["primary_id"])
	s.Equal(p2.String(), events[0].Payload["merged_id"])
	s.Equal("admin-1", events[0].Payload["actor_id"])

	acc, err := s.store.FindAccountByProvider(ctx, models.ProviderTelegram, "99")
	s.Require().NoError(err)
	s.Equal(p1, acc.PersonID, "accounts follow the primary")
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.MergeTotal.WithLabelValues("manual")))
}

func (s *IdentitySuite) TestMerge_StrongProviderIndependentOfOrder() {
	ctx := context.Background()
	for _, vkFirst := range []bool{true, false} {
		s.SetupTest()
		var vk, tg id.PersonID
		if vkFirst {
			vk = s.newPerson(models.ProviderVK, "a")
			tg = s.newPerson(models.ProviderTelegram, "b")
		} else {
			tg = s.newPerson(models.ProviderTelegram, "b")
			vk = s.newPerson(models.ProviderVK, "a")
		}

		for _, input := range [][]id.PersonID{{vk, tg}, {tg, vk}} {
			result, err := s.merger.Merge(ctx, input, models.MergeOptions{})
			s.Require().NoError(err)
			s.Equal(vk, result.PrimaryID)
		}
	}
}

func (s *IdentitySuite) TestMerge_EarliestWins() {
	ctx := context.Background()
	s.clock.Set(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC))
	b := s.newPerson(models.ProviderTelegram, "b")
	s.clock.Set(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	a := s.newPerson(models.ProviderEmail, "a@example.com")

	result, err := s.merger.Merge(ctx, []id.PersonID{b, a}, models.MergeOptions{})
	s.Require().NoError(err)
	s.Equal(a, result.PrimaryID)
}

func (s *IdentitySuite) TestMerge_Idempotent() {
	ctx := context.Background()
	p1 := s.newPerson(models.ProviderVK, "1")
	p2 := s.newPerson(models.ProviderTelegram, "2")
	p3 := s.newPerson(models.ProviderEmail, "3")
	input := []id.PersonID{p3, p2, p1}

	first, err := s.merger.Merge(ctx, input, models.MergeOptions{})
	s.Require().NoError(err)
	eventsAfterFirst := len(s.store.AuditEvents())

	second, err := s.merger.Merge(ctx, input, models.MergeOptions{})
	s.Require().NoError(err)

	s.Equal(first.PrimaryID, second.PrimaryID)
	s.Equal(first.ClusterID, second.ClusterID)
	s.Empty(second.UpdatedIDs)
	s.Zero(second.AccountsMoved)
	s.Len(second.MergedIDs, 2)
	s.Len(s.store.AuditEvents(), eventsAfterFirst)
}

func (s *IdentitySuite) TestMerge_PreferredPrimary() {
	ctx := context.Background()
	vk := s.newPerson(models.ProviderVK, "1")
	tg := s.newPerson(models.ProviderTelegram, "2")

	s.Run("preferred id inside the set wins", func() {
		result, err := s.merger.Merge(ctx, []id.PersonID{vk, tg}, models.MergeOptions{PreferredPrimary: &tg})
		s.Require().NoError(err)
		s.Equal(tg, result.PrimaryID)
	})

	s.Run("preferred id outside the set is ignored", func() {
		outsider := id.NewPersonID()
		other := s.newPerson(models.ProviderEmail, "3")
		result, err := s.merger.Merge(ctx, []id.PersonID{other, tg}, models.MergeOptions{PreferredPrimary: &outsider})
		s.Require().NoError(err)
		s.Equal(tg, result.PrimaryID, "tg now holds the moved vk account")
	})
}

func (s *IdentitySuite) TestMerge_RespectsExistingPointer() {
	ctx := context.Background()
	vk := s.newPerson(models.ProviderVK, "1")
	tg := s.newPerson(models.ProviderTelegram, "2")
	email := s.newPerson(models.ProviderEmail, "3")
	// A prior partial merge made tg the primary of email.
	s.pointAt(email, tg)

	result, err := s.merger.Merge(ctx, []id.PersonID{vk, tg, email}, models.MergeOptions{})
	s.Require().NoError(err)
	s.Equal(tg, result.PrimaryID)
}

func (s *IdentitySuite) TestMerge_MemberOfAnotherGroupBringsItsPrimary() {
	ctx := context.Background()
	a := s.newPerson(models.ProviderVK, "1")
	b := s.newPerson(models.ProviderTelegram, "2")
	first, err := s.merger.Merge(ctx, []id.PersonID{a, b}, models.MergeOptions{})
	s.Require().NoError(err)
	s.Require().Equal(a, first.PrimaryID)

	c := s.newPerson(models.ProviderTelegram, "3")
	second, err := s.merger.Merge(ctx, []id.PersonID{b, c}, models.MergeOptions{})
	s.Require().NoError(err)

	s.Equal(a, second.PrimaryID, "b already belongs to a's group")
	s.Equal(first.ClusterID, second.ClusterID)
	s.ElementsMatch([]id.PersonID{b, c}, second.MergedIDs)
	s.Equal([]id.PersonID{c}, second.UpdatedIDs)
	for _, pid := range []id.PersonID{a, b, c} {
		primary, err := s.primary.ResolvePrimary(ctx, uuid.UUID(pid))
		s.Require().NoError(err)
		s.Equal(a, primary, pid.String())
	}
	acc, err := s.store.FindAccountByProvider(ctx, models.ProviderTelegram, "3")
	s.Require().NoError(err)
	s.Equal(a, acc.PersonID)
}

func (s *IdentitySuite) TestMerge_MultiHopInputCollapsesToChainEnd() {
	ctx := context.Background()
	x := s.newPerson(models.ProviderEmail, "x")
	a := s.newPerson(models.ProviderVK, "a")
	b := s.newPerson(models.ProviderTelegram, "b")
	s.pointAt(a, x)
	s.pointAt(b, a)

	result, err := s.merger.Merge(ctx, []id.PersonID{b, a}, models.MergeOptions{})
	s.Require().NoError(err)

	s.Equal(x, result.PrimaryID)
	s.ElementsMatch([]id.PersonID{a, b}, result.MergedIDs)
	s.Equal(x, *s.person(a).PrimaryID)
	s.Equal(x, *s.person(b).PrimaryID, "chain shortened to one hop")
	s.Equal(*s.person(x).ClusterID, *s.person(b).ClusterID)
}

func (s *IdentitySuite) TestMerge_ClusterReuse() {
	ctx := context.Background()
	a := s.newPerson(models.ProviderVK, "1")
	b := s.newPerson(models.ProviderTelegram, "2")
	first, err := s.merger.Merge(ctx, []id.PersonID{a, b}, models.MergeOptions{})
	s.Require().NoError(err)

	c := s.newPerson(models.ProviderEmail, "3")
	hint := id.NewClusterID()
	second, err := s.merger.Merge(ctx, []id.PersonID{c, a}, models.MergeOptions{ClusterHint: &hint})
	s.Require().NoError(err)

	s.Equal(a, second.PrimaryID)
	s.Equal(first.ClusterID, second.ClusterID, "an existing cluster beats the hint")
	s.Equal(first.ClusterID, *s.person(c).ClusterID)
	s.Equal(a, *s.person(b).PrimaryID)
}

func (s *IdentitySuite) TestMerge_ClusterHintOnFreshGroup() {
	ctx := context.Background()
	a := s.newPerson(models.ProviderVK, "1")
	b := s.newPerson(models.ProviderTelegram, "2")
	hint := id.NewClusterID()

	result, err := s.merger.Merge(ctx, []id.PersonID{a, b}, models.MergeOptions{ClusterHint: &hint})
	s.Require().NoError(err)
	s.Equal(hint, result.ClusterID)
}

func (s *IdentitySuite) TestMerge_SinglePerson() {
	p := s.newPerson(models.ProviderVK, "1")

	result, err := s.merger.Merge(context.Background(), []id.PersonID{p, p}, models.MergeOptions{})
	s.Require().NoError(err)
	s.Equal(p, result.PrimaryID)
	s.Empty(result.MergedIDs)
	s.Equal([]id.PersonID{p}, result.UpdatedIDs, "the primary gets its cluster and self-pointer")
	s.Empty(s.eventsOfType(models.MergeEventType(models.MergeMethodAuto)))
}

func (s *IdentitySuite) TestMerge_Validation() {
	ctx := context.Background()

	s.Run("empty input", func() {
		_, err := s.merger.Merge(ctx, nil, models.MergeOptions{})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInvalidInput))
	})

	s.Run("nil id", func() {
		_, err := s.merger.Merge(ctx, []id.PersonID{{}}, models.MergeOptions{})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInvalidInput))
	})

	s.Run("unknown id fails without writing", func() {
		p := s.newPerson(models.ProviderVK, "known")
		before := len(s.store.AuditEvents())

		_, err := s.merger.Merge(ctx, []id.PersonID{p, id.NewPersonID()}, models.MergeOptions{})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
		s.Nil(s.person(p).ClusterID)
		s.Len(s.store.AuditEvents(), before)
	})
}

func (s *IdentitySuite) TestMerge_StoreFailureMidway() {
	ctrl := gomock.NewController(s.T())
	st := mocks.NewMockStore(ctrl)
	tx := mocks.NewMockStoreTx(ctrl)
	tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, ports.Store) error) error {
			return fn(ctx, st)
		})

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &models.Person{ID: id.NewPersonID(), CreatedAt: created}
	b := &models.Person{ID: id.NewPersonID(), CreatedAt: created.Add(time.Hour)}
	st.EXPECT().FindPerson(gomock.Any(), a.ID).Return(a, nil)
	st.EXPECT().FindPerson(gomock.Any(), b.ID).Return(b, nil)
	st.EXPECT().LockPersons(gomock.Any(), gomock.Any()).Return([]*models.Person{a, b}, nil)
	st.EXPECT().ListAccountsByPersons(gomock.Any(), gomock.Any()).Return(nil, nil)
	st.EXPECT().UpdatePersonLink(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	st.EXPECT().UpdatePersonLink(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(sentinel.ErrUnavailable)

	_, err := NewMergeEngine(tx).Merge(context.Background(), []id.PersonID{a.ID, b.ID}, models.MergeOptions{})
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeStoreUnavailable))
}

func (s *IdentitySuite) TestMerge_RollbackLeavesStateUnchanged() {
	ctx := context.Background()
	a := s.newPerson(models.ProviderVK, "1")
	b := s.newPerson(models.ProviderTelegram, "2")
	before := len(s.store.AuditEvents())

	err := s.store.RunInTx(ctx, func(ctx context.Context, st ports.Store) error {
		if _, err := s.merger.mergeInTx(ctx, st, []id.PersonID{a, b}, models.MergeOptions{}); err != nil {
			return err
		}
		return sentinel.ErrUnavailable
	})
	s.Require().ErrorIs(err, sentinel.ErrUnavailable)

	s.Nil(s.person(a).ClusterID)
	s.Nil(s.person(b).PrimaryID)
	s.Len(s.store.AuditEvents(), before)
}
