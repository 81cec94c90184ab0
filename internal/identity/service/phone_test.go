package service

import (
	"context"

	"idlink/internal/identity/models"
	"idlink/internal/identity/signal"
	id "idlink/pkg/domain"
	dErrors "idlink/pkg/domain-errors"
)

func (s *IdentitySuite) newPhoneLinker() *PhoneLinker {
	return NewPhoneLinker(s.store, signal.NewNormalizer("device-salt", "phone-salt"),
		WithClock(s.clock.Now), WithMetrics(s.metrics))
}

func (s *IdentitySuite) TestAttachPhone_MergesSharedPhone() {
	ctx := context.Background()
	linker := s.newPhoneLinker()
	tg := s.newPerson(models.ProviderTelegram, "99")
	vk := s.newPerson(models.ProviderVK, "42")

	first, err := linker.AttachPhone(ctx, tg, "+7 (999) 123-45-67", nil)
	s.Require().NoError(err)
	s.Nil(first.Merge)
	s.Equal(tg, first.PrimaryID)
	s.Equal(1, first.AccountsUpdated)

	second, err := linker.AttachPhone(ctx, vk, "79991234567", map[string]any{"source": "bot"})
	s.Require().NoError(err)
	s.Require().NotNil(second.Merge)
	s.Equal(vk, second.PrimaryID, "strong provider anchors the phone merge")
	s.Equal([]id.PersonID{tg}, second.Merge.MergedIDs)

	events := s.eventsOfType(models.MergeEventType(models.MergeMethodPhone))
	s.Require().Len(events, 1)
	s.Equal(map[string]any{"source": "bot"}, events[0].Payload["metadata"])
	s.Len(s.eventsOfType(models.EventPhoneAttached), 2)

	s.Run("re-attaching the same phone changes nothing", func() {
		before := len(s.eventsOfType(models.MergeEventType(models.MergeMethodPhone)))
		again, err := linker.AttachPhone(ctx, tg, "+79991234567", nil)
		s.Require().NoError(err)
		s.Equal(vk, again.PrimaryID)
		s.Nil(again.Merge)
		s.Len(s.eventsOfType(models.MergeEventType(models.MergeMethodPhone)), before)
	})
}

func (s *IdentitySuite) TestAttachPhone_Validation() {
	ctx := context.Background()
	linker := s.newPhoneLinker()
	p := s.newPerson(models.ProviderVK, "1")

	s.Run("too short", func() {
		_, err := linker.AttachPhone(ctx, p, "12345", nil)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInvalidInput))
	})

	s.Run("nil person", func() {
		_, err := linker.AttachPhone(ctx, id.PersonID{}, "+79991234567", nil)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInvalidInput))
	})

	s.Run("unknown person", func() {
		_, err := linker.AttachPhone(ctx, id.NewPersonID(), "+79991234567", nil)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
}
