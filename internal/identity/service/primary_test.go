package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"idlink/internal/identity/models"
	"idlink/internal/identity/service/mocks"
	id "idlink/pkg/domain"
	dErrors "idlink/pkg/domain-errors"
	"idlink/pkg/platform/sentinel"
)

func (s *IdentitySuite) TestResolvePrimary_FollowsChain() {
	ctx := context.Background()
	a := s.newPerson(models.ProviderVK, "a")
	b := s.newPerson(models.ProviderTelegram, "b")
	c := s.newPerson(models.ProviderEmail, "c")
	s.pointAt(c, b)
	s.pointAt(b, a)

	got, err := s.primary.ResolvePrimary(ctx, uuid.UUID(c))
	s.Require().NoError(err)
	s.Equal(a, got)

	got, err = s.primary.ResolvePrimary(ctx, uuid.UUID(a))
	s.Require().NoError(err)
	s.Equal(a, got, "an unmerged person is its own primary")
}

func (s *IdentitySuite) TestResolvePrimary_SelfPointerTerminates() {
	a := s.newPerson(models.ProviderVK, "a")
	s.pointAt(a, a)

	got, err := s.primary.ResolvePrimary(context.Background(), uuid.UUID(a))
	s.Require().NoError(err)
	s.Equal(a, got)
}

func (s *IdentitySuite) TestResolvePrimary_AccountID() {
	res := s.resolve(models.Signal{Provider: models.ProviderTelegram, ProviderUserID: "99"})
	primary := s.newPerson(models.ProviderVK, "42")
	_, err := s.merger.Merge(context.Background(), []id.PersonID{primary, res.Person.ID}, models.MergeOptions{})
	s.Require().NoError(err)

	got, err := s.primary.ResolvePrimary(context.Background(), uuid.UUID(res.Account.ID))
	s.Require().NoError(err)
	s.Equal(primary, got)
}

func (s *IdentitySuite) TestResolvePrimary_Errors() {
	ctx := context.Background()

	s.Run("nil id is invalid input", func() {
		_, err := s.primary.ResolvePrimary(ctx, uuid.Nil)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInvalidInput))
	})

	s.Run("unknown id is not found", func() {
		_, err := s.primary.ResolvePrimary(ctx, uuid.New())
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("two-node cycle is detected", func() {
		a := s.newPerson(models.ProviderVK, "cycle-a")
		b := s.newPerson(models.ProviderTelegram, "cycle-b")
		s.pointAt(a, b)
		s.pointAt(b, a)

		_, err := s.primary.ResolvePrimary(ctx, uuid.UUID(a))
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeCycleDetected))
		s.ErrorIs(err, errCycle)
		s.Contains(err.Error(), a.String()+" -> "+b.String()+" -> "+a.String())
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.CyclesDetected))
	})

	s.Run("cycle that does not include the start is detected", func() {
		start := s.newPerson(models.ProviderEmail, "tail")
		x := s.newPerson(models.ProviderVK, "loop-x")
		y := s.newPerson(models.ProviderTelegram, "loop-y")
		s.pointAt(start, x)
		s.pointAt(x, y)
		s.pointAt(y, x)

		_, err := s.primary.ResolvePrimary(ctx, uuid.UUID(start))
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeCycleDetected))
	})
}

func (s *IdentitySuite) TestResolvePrimary_VanishedMidChain() {
	ctrl := gomock.NewController(s.T())
	st := mocks.NewMockStore(ctrl)
	a, b, gone := id.NewPersonID(), id.NewPersonID(), id.NewPersonID()

	st.EXPECT().FindPerson(gomock.Any(), a).Return(&models.Person{ID: a, PrimaryID: &b}, nil).Times(2)
	st.EXPECT().FindPerson(gomock.Any(), b).Return(&models.Person{ID: b, PrimaryID: &gone}, nil)
	st.EXPECT().FindPerson(gomock.Any(), gone).Return(nil, sentinel.ErrNotFound)

	got, err := NewPrimaryResolver(st).ResolvePrimary(context.Background(), uuid.UUID(a))
	s.Require().NoError(err)
	s.Equal(b, got, "last id that could be read")
}

func (s *IdentitySuite) TestResolvePrimary_StoreUnavailable() {
	ctrl := gomock.NewController(s.T())
	st := mocks.NewMockStore(ctrl)
	st.EXPECT().FindPerson(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrUnavailable)

	_, err := NewPrimaryResolver(st).ResolvePrimary(context.Background(), uuid.New())
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeStoreUnavailable))
}
