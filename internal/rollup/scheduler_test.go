package rollup_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stempelbot/stempel/internal/domain"
	"github.com/stempelbot/stempel/internal/rollup"
	"github.com/stempelbot/stempel/internal/service"
	"github.com/stempelbot/stempel/internal/testutil"
	"github.com/stempelbot/stempel/internal/week"
)

// stubRollups records Archive calls; the first returns a fresh result, later
// ones report the week as already recorded.
type stubRollups struct {
	mu     sync.Mutex
	calls  int
	cancel context.CancelFunc
	limit  int
}

func (s *stubRollups) Archive(ctx context.Context) (*service.RollupResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls >= s.limit {
		s.cancel()
	}
	result := &service.RollupResult{
		WeekLabel: "KW07/2026",
		Summary:   &domain.WeeklySummary{TotalMinutes: 60},
	}
	if s.calls > 1 {
		result.Skipped = true
	}
	return result, nil
}

func (s *stubRollups) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerFiresAtBoundary(t *testing.T) {
	// Fixed clock just after Monday 00:00: the boundary is still the
	// target, so the first wait is zero and the rollup fires immediately.
	monday := week.MondayStart(testutil.TestTime(t))
	clock := week.NewFixedClock(monday.Add(10 * time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stub := &stubRollups{cancel: cancel, limit: 2}

	var mu sync.Mutex
	var gotLabel string
	var gotSummary *domain.WeeklySummary
	callbackCalls := 0

	scheduler := rollup.NewScheduler(stub, clock, discardLogger(),
		rollup.WithCooldown(time.Millisecond),
		rollup.WithArchiveCallback(func(weekLabel string, summary *domain.WeeklySummary) {
			mu.Lock()
			defer mu.Unlock()
			gotLabel = weekLabel
			gotSummary = summary
			callbackCalls++
		}))

	err := scheduler.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	assert.GreaterOrEqual(t, stub.callCount(), 2)
	assert.Equal(t, rollup.StateIdle, scheduler.State())

	// The callback fired only for the fresh archive, not the skipped run.
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, callbackCalls)
	assert.Equal(t, "KW07/2026", gotLabel)
	require.NotNil(t, gotSummary)
	assert.Equal(t, int64(60), gotSummary.TotalMinutes)
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	// Mid-week clock: the scheduler parks waiting for the next Monday and a
	// cancel must unblock it.
	clock := testutil.NewTestClock(t)
	stub := &stubRollups{limit: 1 << 30, cancel: func() {}}
	scheduler := rollup.NewScheduler(stub, clock, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scheduler.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	assert.Zero(t, stub.callCount())
	assert.Equal(t, rollup.StateIdle, scheduler.State())
}
