package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const taskTimeout = 5 * time.Minute

type task struct {
	name     string
	interval time.Duration
	daily    bool
	fn       func(ctx context.Context) error
}

// Scheduler runs the periodic maintenance tasks on fixed cadences. Tasks are
// skipped until the readiness gate reports true, and a panicking task never
// takes the loop down with it.
type Scheduler struct {
	ready func() bool
	tasks []task
	quit  chan struct{}
	wg    sync.WaitGroup
}

func New(ready func() bool) *Scheduler {
	return &Scheduler{
		ready: ready,
		quit:  make(chan struct{}),
	}
}

// Every registers fn to run once per interval, starting one interval after
// Start.
func (s *Scheduler) Every(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.tasks = append(s.tasks, task{name: name, interval: interval, fn: fn})
}

// DailyAtMidnight registers fn to run at local midnight.
func (s *Scheduler) DailyAtMidnight(name string, fn func(ctx context.Context) error) {
	s.tasks = append(s.tasks, task{name: name, daily: true, fn: fn})
}

func (s *Scheduler) Start() {
	for _, t := range s.tasks {
		s.wg.Add(1)
		go s.run(t)
	}
	slog.Info("Scheduler started",
		slog.String("type", "sys"),
		slog.Int("tasks", len(s.tasks)))
}

func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}

func (s *Scheduler) run(t task) {
	defer s.wg.Done()

	if t.daily {
		for {
			timer := time.NewTimer(untilNextMidnight(time.Now()))
			select {
			case <-timer.C:
				s.fire(t)
			case <-s.quit:
				timer.Stop()
				return
			}
		}
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.fire(t)
		case <-s.quit:
			return
		}
	}
}

func (s *Scheduler) fire(t task) {
	if s.ready != nil && !s.ready() {
		slog.Debug("Skipping task, not ready",
			slog.String("type", "sys"),
			slog.String("task", t.name))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Task panicked",
				slog.String("type", "err"),
				slog.String("task", t.name),
				slog.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	if err := t.fn(ctx); err != nil {
		slog.Error("Task failed",
			slog.String("type", "err"),
			slog.String("task", t.name),
			slog.Any("error", err))
	}
}

// untilNextMidnight reports the duration until 00:00 local time strictly
// after now.
func untilNextMidnight(now time.Time) time.Duration {
	year, month, day := now.Date()
	next := time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
	return next.Sub(now)
}
