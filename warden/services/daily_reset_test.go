package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScoreResets struct {
	daily, weekly int
}

func (s *fakeScoreResets) ResetDaily(context.Context) error  { s.daily++; return nil }
func (s *fakeScoreResets) ResetWeekly(context.Context) error { s.weekly++; return nil }

type fakePromoStock struct {
	remaining int
	cleared   int
}

func (p *fakePromoStock) CountRemaining(context.Context) (int, error) { return p.remaining, nil }
func (p *fakePromoStock) ClearNotifications(context.Context) error    { p.cleared++; return nil }

func newTestReset(scores *fakeScoreResets, promos *fakePromoStock, weekday time.Weekday, sent *[]string) *DailyReset {
	reset := NewDailyReset(scores, promos, 42, func(_ context.Context, content string) error {
		*sent = append(*sent, content)
		return nil
	})
	// Any date with the wanted weekday will do; March 2024 starts on a Friday.
	day := 4 + int(weekday-time.Monday)
	reset.now = func() time.Time {
		return time.Date(2024, time.March, day, 12, 0, 0, 0, time.UTC)
	}
	return reset
}

func TestRunResetsDailyOnly(t *testing.T) {
	scores := &fakeScoreResets{}
	promos := &fakePromoStock{remaining: 3}
	var sent []string

	reset := newTestReset(scores, promos, time.Wednesday, &sent)
	require.NoError(t, reset.Run(context.Background()))

	assert.Equal(t, 1, scores.daily)
	assert.Equal(t, 0, scores.weekly)
	assert.Equal(t, 0, promos.cleared)
	assert.Empty(t, sent)
}

func TestRunResetsWeeklyOnMonday(t *testing.T) {
	scores := &fakeScoreResets{}
	promos := &fakePromoStock{remaining: 3}
	var sent []string

	reset := newTestReset(scores, promos, time.Monday, &sent)
	require.NoError(t, reset.Run(context.Background()))

	assert.Equal(t, 1, scores.daily)
	assert.Equal(t, 1, scores.weekly)
	assert.Equal(t, 1, promos.cleared)
}

func TestRunAlertsOnEmptyPromoStock(t *testing.T) {
	scores := &fakeScoreResets{}
	promos := &fakePromoStock{remaining: 0}
	var sent []string

	reset := newTestReset(scores, promos, time.Wednesday, &sent)
	require.NoError(t, reset.Run(context.Background()))

	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "<@&42>")
	assert.Contains(t, sent[0], "no promocodes left")
}
