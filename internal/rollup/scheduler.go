// Package rollup runs the weekly archive transition on a fixed schedule.
package rollup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stempelbot/stempel/internal/domain"
	"github.com/stempelbot/stempel/internal/service"
	"github.com/stempelbot/stempel/internal/week"
)

// State names the scheduler's position in its cycle.
type State string

const (
	StateIdle      State = "idle"
	StateWaiting   State = "waiting"
	StateRollingUp State = "rolling_up"
	StateCooldown  State = "cooldown"
)

// ArchiveCallback is invoked once per successful archive transition with
// the week label used and the summary computed before the transition.
type ArchiveCallback func(weekLabel string, summary *domain.WeeklySummary)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithCooldown overrides the buffer slept after each rollup before the next
// target instant is computed.
func WithCooldown(d time.Duration) Option {
	return func(s *Scheduler) { s.cooldown = d }
}

// WithArchiveCallback registers the reporting collaborator's hand-off.
func WithArchiveCallback(cb ArchiveCallback) Option {
	return func(s *Scheduler) { s.callback = cb }
}

// Scheduler is the single long-lived loop that fires the archive transition
// every Monday 00:00 reference time. It is the only writer allowed to
// bulk-mutate the ledger outside user-initiated commands.
type Scheduler struct {
	rollups  service.RollupService
	clock    *week.Clock
	logger   *slog.Logger
	cooldown time.Duration
	callback ArchiveCallback

	mu    sync.Mutex
	state State
}

// NewScheduler creates a Scheduler. The default cooldown is two minutes,
// enough to step past the boundary before the next target is computed.
func NewScheduler(rollups service.RollupService, clock *week.Clock, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		rollups:  rollups,
		clock:    clock,
		logger:   logger,
		cooldown: 2 * time.Minute,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the scheduler's current position in its cycle.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Run loops until ctx is cancelled. A store failure during a rollup is
// logged and the loop proceeds to the next weekly target; the missed week
// merges into the following week's totals.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.setState(StateIdle)

	for {
		s.setState(StateWaiting)
		target := week.NextBoundary(s.clock.Now())
		wait := target.Sub(s.clock.Now())
		if wait < 0 {
			wait = 0
		}
		s.logger.Info("waiting for rollup boundary",
			"target", target.Format(week.TimeLayout), "wait", wait.String())

		if err := sleep(ctx, wait); err != nil {
			return err
		}

		s.setState(StateRollingUp)
		runID := uuid.NewString()
		result, err := s.rollups.Archive(ctx)
		switch {
		case err != nil:
			s.logger.Error("weekly rollup failed", "run_id", runID, "error", err)
		case result.Skipped:
			s.logger.Info("weekly rollup already recorded, skipping",
				"run_id", runID, "week_label", result.WeekLabel)
		default:
			s.logger.Info("weekly rollup archived",
				"run_id", runID,
				"week_label", result.WeekLabel,
				"users", result.UsersArchived,
				"activity_rows", result.ActivityRows,
				"sessions_cleared", result.SessionsCleared)
			if s.callback != nil {
				s.callback(result.WeekLabel, result.Summary)
			}
		}

		s.setState(StateCooldown)
		if err := sleep(ctx, s.cooldown); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
