package service

import (
	"context"
	"time"

	"github.com/stempelbot/stempel/internal/db"
	"github.com/stempelbot/stempel/internal/domain"
	"github.com/stempelbot/stempel/internal/normalize"
	"github.com/stempelbot/stempel/internal/repository"
	"github.com/stempelbot/stempel/internal/week"
)

type renameService struct {
	uow      db.UnitOfWork
	clock    *week.Clock
	observer UseCaseObserver
}

// NewRenameService creates the rename reconciler. Relabeling and the
// merge of resulting duplicate archive rows happen in one transaction, so
// readers never observe renamed rows alongside unmerged duplicates.
func NewRenameService(uow db.UnitOfWork, clock *week.Clock, observers ...UseCaseObserver) RenameService {
	return &renameService{
		uow:      uow,
		clock:    clock,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *renameService) Rename(ctx context.Context, userID, oldRaw, newRaw string) (*RenameResult, error) {
	startedAt := time.Now()

	oldActivity := normalize.Canonicalize(oldRaw)
	newActivity := normalize.Canonicalize(newRaw)
	if newActivity == "" {
		return nil, domain.ErrEmptyActivity
	}
	if oldActivity == newActivity {
		return &RenameResult{NoOp: true, Canonical: newActivity}, nil
	}

	result := &RenameResult{Canonical: newActivity}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx, s.clock.Location())
		txArchive := repository.NewSQLiteArchiveRepo(tx)

		inSessions, err := txSessions.HasUserActivity(ctx, userID, oldActivity)
		if err != nil {
			return err
		}
		inArchive, err := txArchive.HasUserActivity(ctx, userID, oldActivity)
		if err != nil {
			return err
		}
		if !inSessions && !inArchive {
			return domain.ErrActivityNotFound
		}

		result.SessionsUpdated, err = txSessions.RelabelActivity(ctx, userID, oldActivity, newActivity)
		if err != nil {
			return err
		}
		if _, err := txArchive.RelabelActivity(ctx, userID, oldActivity, newActivity); err != nil {
			return err
		}
		result.ArchiveRowsMerged, err = txArchive.MergeDuplicates(ctx, userID, newActivity)
		return err
	})
	observe(ctx, s.observer, "rename_activity", startedAt, err, map[string]any{
		"user_id": userID, "old": oldActivity, "new": newActivity,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
