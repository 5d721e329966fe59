package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stempelbot/stempel/internal/db"
	"github.com/stempelbot/stempel/internal/domain"
	"github.com/stempelbot/stempel/internal/normalize"
	"github.com/stempelbot/stempel/internal/repository"
	"github.com/stempelbot/stempel/internal/week"
)

type clockService struct {
	sessions repository.SessionRepo
	uow      db.UnitOfWork
	clock    *week.Clock
	observer UseCaseObserver
}

// NewClockService creates the session-lifecycle service. All mutations run
// inside the unit of work so the single-active-session invariant holds
// under concurrent callers.
func NewClockService(sessions repository.SessionRepo, uow db.UnitOfWork, clock *week.Clock, observers ...UseCaseObserver) ClockService {
	return &clockService{
		sessions: sessions,
		uow:      uow,
		clock:    clock,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *clockService) ClockIn(ctx context.Context, userID, username, rawActivity string) (*domain.Session, error) {
	startedAt := time.Now()

	activity := normalize.Canonicalize(rawActivity)
	if activity == "" {
		return nil, domain.ErrEmptyActivity
	}

	session := &domain.Session{
		UserID:    userID,
		Username:  username,
		Activity:  activity,
		StartedAt: s.clock.Now(),
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx, s.clock.Location())

		active, err := txSessions.HasActive(ctx, userID)
		if err != nil {
			return err
		}
		if active {
			return domain.ErrAlreadyActive
		}
		return txSessions.InsertOpen(ctx, session)
	})
	observe(ctx, s.observer, "clock_in", startedAt, err, map[string]any{"user_id": userID, "activity": activity})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *clockService) ClockOut(ctx context.Context, userID string) (*ClockOutResult, error) {
	startedAt := time.Now()

	var result *ClockOutResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx, s.clock.Location())

		session, err := txSessions.ActiveByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrNoActiveSession
			}
			return err
		}

		now := s.clock.Now()
		minutes := int64(now.Sub(session.StartedAt) / time.Minute)
		if minutes < 0 {
			return fmt.Errorf("session %d started at %s: %w",
				session.ID, session.StartedAt, domain.ErrClockSkew)
		}

		if err := txSessions.Close(ctx, session.ID, now, minutes); err != nil {
			return err
		}
		result = &ClockOutResult{Minutes: minutes, Activity: session.Activity}
		return nil
	})
	observe(ctx, s.observer, "clock_out", startedAt, err, map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *clockService) ActiveSession(ctx context.Context, userID string) (*domain.Session, error) {
	session, err := s.sessions.ActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNoActiveSession
		}
		return nil, err
	}
	return session, nil
}

func (s *clockService) WhoIsActive(ctx context.Context) ([]*domain.Session, error) {
	return s.sessions.ListActive(ctx)
}
