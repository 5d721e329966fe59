package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stempelbot/stempel/internal/domain"
	"github.com/stempelbot/stempel/internal/repository"
	"github.com/stempelbot/stempel/internal/week"
)

// DefaultLeaderboardLimit caps leaderboard queries when no limit is
// configured.
const DefaultLeaderboardLimit = 15

type reportService struct {
	reports repository.ReportRepo
	clock   *week.Clock
	limit   int
}

// NewReportService creates the read-only aggregation service. Pass limit 0
// for the default leaderboard size.
func NewReportService(reports repository.ReportRepo, clock *week.Clock, limit int) ReportService {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	return &reportService{reports: reports, clock: clock, limit: limit}
}

func (s *reportService) Leaderboard(ctx context.Context, window domain.Window) ([]domain.LeaderboardEntry, error) {
	switch window {
	case domain.WindowCurrentWeek:
		since := week.MondayStart(s.clock.Now())
		return s.reports.WeeklyLeaderboard(ctx, since, s.limit)
	case domain.WindowAllTime:
		return s.reports.AllTimeLeaderboard(ctx, s.limit)
	default:
		return nil, fmt.Errorf("unknown window %q", window)
	}
}

func (s *reportService) ActivityBreakdown(ctx context.Context, window domain.Window, userID string) ([]domain.ActivityEntry, error) {
	switch window {
	case domain.WindowCurrentWeek:
		since := week.MondayStart(s.clock.Now())
		return s.reports.WeeklyBreakdown(ctx, since, userID)
	case domain.WindowAllTime:
		return s.reports.AllTimeBreakdown(ctx, userID)
	default:
		return nil, fmt.Errorf("unknown window %q", window)
	}
}

func (s *reportService) WeeklySummary(ctx context.Context) (*domain.WeeklySummary, error) {
	since := week.MondayStart(s.clock.Now())
	return buildWeeklySummary(ctx, s.reports, since)
}

func (s *reportService) PerUserActivityMinutes(ctx context.Context) (map[string][]domain.ActivityMinutes, error) {
	since := week.MondayStart(s.clock.Now())
	return s.reports.PerUserActivityMinutes(ctx, since)
}

// buildWeeklySummary assembles the summary for the week beginning at since.
// The top facts are computed independently of each other; an empty week
// yields zero totals and nil facts rather than an error. The rollup service
// reuses this with the boundary of the week being archived.
func buildWeeklySummary(ctx context.Context, reports repository.ReportRepo, since time.Time) (*domain.WeeklySummary, error) {
	totalMin, totalSessions, uniqueWorkers, err := reports.WeeklyTotals(ctx, since)
	if err != nil {
		return nil, err
	}
	mvp, err := reports.WeeklyMVP(ctx, since)
	if err != nil {
		return nil, err
	}
	topActivity, err := reports.WeeklyTopActivity(ctx, since)
	if err != nil {
		return nil, err
	}
	longest, err := reports.WeeklyLongestSession(ctx, since)
	if err != nil {
		return nil, err
	}
	breakdown, err := reports.WeeklyBreakdown(ctx, since, "")
	if err != nil {
		return nil, err
	}

	return &domain.WeeklySummary{
		TotalMinutes:   totalMin,
		TotalSessions:  totalSessions,
		UniqueWorkers:  uniqueWorkers,
		MVP:            mvp,
		TopActivity:    topActivity,
		LongestSession: longest,
		Breakdown:      breakdown,
	}, nil
}
