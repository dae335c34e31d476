package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestXPService(cooldown time.Duration) *XPService {
	return NewXPService(nil, nil, nil, nil, 1, XPSettings{
		MinGain:  15,
		MaxGain:  25,
		Cooldown: cooldown,
	})
}

func TestShouldScoreSkipsRepeatAuthor(t *testing.T) {
	s := newTestXPService(0)

	assert.True(t, s.shouldScore(10, 100))
	assert.False(t, s.shouldScore(10, 100))
	assert.True(t, s.shouldScore(10, 101))
	assert.True(t, s.shouldScore(10, 100))
}

func TestShouldScoreEnforcesCooldown(t *testing.T) {
	s := newTestXPService(time.Hour)

	assert.True(t, s.shouldScore(10, 100))
	// A different channel does not bypass the author cooldown.
	assert.False(t, s.shouldScore(11, 100))
}

func TestShouldScoreTracksChannelsIndependently(t *testing.T) {
	s := newTestXPService(0)

	assert.True(t, s.shouldScore(10, 100))
	assert.True(t, s.shouldScore(11, 101))
	assert.True(t, s.shouldScore(10, 101))
}
