package service

import (
	"context"
	"time"

	"github.com/stempelbot/stempel/internal/db"
	"github.com/stempelbot/stempel/internal/repository"
	"github.com/stempelbot/stempel/internal/week"
)

type rollupService struct {
	metadata repository.MetadataRepo
	reports  repository.ReportRepo
	uow      db.UnitOfWork
	clock    *week.Clock
	observer UseCaseObserver
}

// NewRollupService creates the weekly archive transition. The transition is
// idempotent per week label: a restart that fires twice near the boundary
// archives once and reports the second run as skipped.
func NewRollupService(metadata repository.MetadataRepo, reports repository.ReportRepo, uow db.UnitOfWork, clock *week.Clock, observers ...UseCaseObserver) RollupService {
	return &rollupService{
		metadata: metadata,
		reports:  reports,
		uow:      uow,
		clock:    clock,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *rollupService) Archive(ctx context.Context) (*RollupResult, error) {
	startedAt := time.Now()

	// The scheduler fires right at Monday 00:00, when the instant already
	// belongs to the new week. Step back one minute so both the label and
	// the summary window refer to the week being archived; a manual run
	// mid-week still lands on the current week.
	anchor := s.clock.Now().Add(-time.Minute)
	label := week.Label(anchor)
	since := week.MondayStart(anchor)

	last, err := s.metadata.Get(ctx, db.MetaLastRollupWeek)
	if err != nil {
		return nil, err
	}
	if last == label {
		return &RollupResult{WeekLabel: label, Skipped: true}, nil
	}

	// Summary first: the transition below clears its source rows.
	summary, err := buildWeeklySummary(ctx, s.reports, since)
	if err != nil {
		return nil, err
	}

	result := &RollupResult{WeekLabel: label, Summary: summary}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txArchive := repository.NewSQLiteArchiveRepo(tx)
		txSessions := repository.NewSQLiteSessionRepo(tx, s.clock.Location())
		txMetadata := repository.NewSQLiteMetadataRepo(tx)

		var err error
		result.UsersArchived, err = txArchive.InsertWeeklyTotals(ctx, label)
		if err != nil {
			return err
		}
		result.ActivityRows, err = txArchive.InsertActivityTotals(ctx, label)
		if err != nil {
			return err
		}
		// Open sessions are untouched: one left open across the boundary
		// keeps accumulating from its original start into the new week.
		result.SessionsCleared, err = txSessions.DeleteClosed(ctx)
		if err != nil {
			return err
		}
		return txMetadata.Set(ctx, db.MetaLastRollupWeek, label)
	})
	observe(ctx, s.observer, "weekly_rollup", startedAt, err, map[string]any{
		"week_label": label, "users": result.UsersArchived,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
