package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idlink/internal/identity/models"
	"idlink/internal/identity/store/linkcode"
	id "idlink/pkg/domain"
	dErrors "idlink/pkg/domain-errors"
)

var linkCodePattern = regexp.MustCompile(`^LINK-[ABCDEFGHJKMNPQRSTUVWXYZ23456789]{4}$`)

func (s *IdentitySuite) newLinkCodes() (*LinkCodes, *linkcode.InMemory) {
	codes := linkcode.NewInMemory(linkcode.WithClock(s.clock.Now))
	return NewLinkCodes(s.store, codes, WithClock(s.clock.Now), WithMetrics(s.metrics)), codes
}

func (s *IdentitySuite) TestLinkCodes_Issue() {
	ctx := context.Background()
	lc, _ := s.newLinkCodes()
	tg := s.newPerson(models.ProviderTelegram, "99")

	issued, err := lc.Issue(ctx, tg)
	s.Require().NoError(err)
	s.Regexp(linkCodePattern, issued.Code)
	s.Equal(tg, issued.PersonID)
	s.Len(s.eventsOfType(models.EventLinkCodeIssued), 1)
	s.True(issued.ExpiresAt.After(s.clock.Now().Add(LinkCodeTTL - time.Minute)))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.LinkCodesIssued))
}

func (s *IdentitySuite) TestLinkCodes_ClaimMerges() {
	ctx := context.Background()
	lc, _ := s.newLinkCodes()
	vk := s.newPerson(models.ProviderVK, "42")
	tg := s.newPerson(models.ProviderTelegram, "99")

	issued, err := lc.Issue(ctx, tg)
	s.Require().NoError(err)

	result, err := lc.Claim(ctx, vk, issued.Code)
	s.Require().NoError(err)
	s.True(result.Merged)
	s.Equal(vk, result.PrimaryID)
	s.Require().NotNil(result.Merge)
	s.Equal([]id.PersonID{tg}, result.Merge.MergedIDs)

	events := s.eventsOfType(models.MergeEventType(models.MergeMethodCode))
	s.Require().Len(events, 1)
	s.Equal(vk.String(), events[0].Payload["actor_id"])
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.LinkCodesClaimed.WithLabelValues("merged")))

	s.Run("codes are single use", func() {
		_, err := lc.Claim(ctx, vk, issued.Code)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
}

func (s *IdentitySuite) TestLinkCodes_ClaimIsCaseInsensitive() {
	ctx := context.Background()
	lc, _ := s.newLinkCodes()
	a := s.newPerson(models.ProviderVK, "a")
	b := s.newPerson(models.ProviderEmail, "b")

	issued, err := lc.Issue(ctx, a)
	s.Require().NoError(err)

	result, err := lc.Claim(ctx, b, "  "+strings.ToLower(issued.Code[len("LINK-"):]))
	s.Require().NoError(err)
	s.True(result.Merged)
}

func (s *IdentitySuite) TestLinkCodes_ClaimOwnGroupIsNoop() {
	ctx := context.Background()
	lc, _ := s.newLinkCodes()
	vk := s.newPerson(models.ProviderVK, "42")
	tg := s.newPerson(models.ProviderTelegram, "99")
	_, err := s.merger.Merge(ctx, []id.PersonID{vk, tg}, models.MergeOptions{})
	s.Require().NoError(err)
	before := len(s.store.AuditEvents())

	issued, err := lc.Issue(ctx, vk)
	s.Require().NoError(err)
	result, err := lc.Claim(ctx, tg, issued.Code)
	s.Require().NoError(err)
	s.False(result.Merged)
	s.Equal(vk, result.PrimaryID)
	s.Len(s.store.AuditEvents(), before+1, "only the issue event")
}

func (s *IdentitySuite) TestLinkCodes_Expired() {
	ctx := context.Background()
	lc, _ := s.newLinkCodes()
	a := s.newPerson(models.ProviderVK, "a")
	b := s.newPerson(models.ProviderTelegram, "b")

	issued, err := lc.Issue(ctx, a)
	s.Require().NoError(err)
	s.clock.Set(issued.ExpiresAt.Add(time.Minute))

	_, err = lc.Claim(ctx, b, issued.Code)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *IdentitySuite) TestLinkCodes_Errors() {
	ctx := context.Background()
	lc, codes := s.newLinkCodes()
	p := s.newPerson(models.ProviderVK, "1")

	s.Run("issue for unknown person", func() {
		_, err := lc.Issue(ctx, id.NewPersonID())
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("malformed code", func() {
		_, err := lc.Claim(ctx, p, "LINK-01")
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("collisions are retried", func() {
		taken := "LINK-AAAA"
		s.Require().NoError(codes.Save(ctx, taken, p, LinkCodeTTL))
		queue := []string{taken, taken, "LINK-BBBB"}
		lc.generate = func() (string, error) {
			next := queue[0]
			queue = queue[1:]
			return next, nil
		}

		issued, err := lc.Issue(ctx, p)
		s.Require().NoError(err)
		s.Equal("LINK-BBBB", issued.Code)
	})

	s.Run("exhausted retries are a conflict", func() {
		lc.generate = func() (string, error) { return "LINK-AAAA", nil }

		_, err := lc.Issue(ctx, p)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeConflict))
	})

	s.Run("generator failure is internal", func() {
		lc.generate = func() (string, error) { return "", errors.New("entropy exhausted") }

		_, err := lc.Issue(ctx, p)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInternal))
	})
}

func TestNormalizeLinkCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"LINK-AB2C", "LINK-AB2C", true},
		{" link-ab2c ", "LINK-AB2C", true},
		{"ab2c", "LINK-AB2C", true},
		{"LINK-AB0C", "", false},
		{"LINK-ABC", "", false},
		{"LINK-ABCDE", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizeLinkCode(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestGenerateLinkCode(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		code, err := generateLinkCode()
		require.NoError(t, err)
		require.Regexp(t, linkCodePattern, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}
