package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEveryRunsOnInterval(t *testing.T) {
	var runs atomic.Int32

	s := New(func() bool { return true })
	s.Every("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start()

	time.Sleep(100 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, runs.Load(), int32(3))
}

func TestTasksWaitForReadiness(t *testing.T) {
	var ready atomic.Bool
	var runs atomic.Int32

	s := New(ready.Load)
	s.Every("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())

	ready.Store(true)
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	assert.Greater(t, runs.Load(), int32(0))
}

func TestStopHaltsTasks(t *testing.T) {
	var runs atomic.Int32

	s := New(func() bool { return true })
	s.Every("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start()
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	stopped := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestPanickingTaskKeepsRunning(t *testing.T) {
	var runs atomic.Int32

	s := New(func() bool { return true })
	s.Every("boom", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		panic("boom")
	})
	s.Start()
	time.Sleep(60 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}

func TestUntilNextMidnight(t *testing.T) {
	now := time.Date(2024, time.March, 10, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 30*time.Minute, untilNextMidnight(now))

	midnight := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24*time.Hour, untilNextMidnight(midnight))
}
