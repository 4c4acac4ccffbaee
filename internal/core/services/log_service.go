package services

import (
	"context"
	"time"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
	"github.com/kidsbalance/balance-engine/internal/core/workers"
)

type LogService struct {
	repo         domain.ActivityLogRepository
	activityRepo domain.ActivityRepository
	worker       *workers.SummaryWorker
}

func NewLogService(repo domain.ActivityLogRepository, activityRepo domain.ActivityRepository, worker *workers.SummaryWorker) *LogService {
	return &LogService{
		repo:         repo,
		activityRepo: activityRepo,
		worker:       worker,
	}
}

type CreateLogInput struct {
	ActivityID      string
	UserID          string
	FamilyID        string
	DurationMinutes int
	Notes           string
	LoggedAt        time.Time
}

type UpdateLogInput struct {
	ID              string
	UserID          string
	DurationMinutes int
	Notes           string
	Version         int
}

// Create records one occurrence, freezing the activity snapshot onto the
// log, and schedules the owning day for re-aggregation.
func (s *LogService) Create(ctx context.Context, input CreateLogInput) (*domain.ActivityLog, error) {
	activity, err := s.activityRepo.GetByID(ctx, input.ActivityID)
	if err != nil {
		return nil, err
	}
	if activity.FamilyID != input.FamilyID {
		return nil, domain.ErrUnauthorized
	}
	if activity.ArchivedAt != nil {
		return nil, domain.ErrActivityArchived
	}

	log := domain.NewActivityLog(activity, input.UserID, input.DurationMinutes, input.LoggedAt)
	log.Notes = input.Notes

	if err := log.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, log); err != nil {
		return nil, err
	}

	s.worker.Enqueue(log.UserID, log.FamilyID, log.Day())

	return log, nil
}

// Update only allows changing duration and notes; a duration change
// recomputes the quality score against the frozen coefficient and forces
// re-aggregation.
func (s *LogService) Update(ctx context.Context, input UpdateLogInput) (*domain.ActivityLog, error) {
	existing, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && existing.Version != input.Version {
		return nil, domain.ErrLogConflict
	}

	if input.DurationMinutes != 0 && input.DurationMinutes != existing.DurationMinutes {
		if err := existing.SetDuration(input.DurationMinutes); err != nil {
			return nil, err
		}
	}
	existing.Notes = input.Notes

	existing.Version++
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.worker.Enqueue(existing.UserID, existing.FamilyID, existing.Day())

	return existing, nil
}

func (s *LogService) GetByID(ctx context.Context, id string, userID string) (*domain.ActivityLog, error) {
	log, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if log.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return log, nil
}

func (s *LogService) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.ActivityLog, error) {
	return s.repo.ListByUserAndRange(ctx, userID, from, to)
}

func (s *LogService) Delete(ctx context.Context, id string, userID string) error {
	log, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if log.UserID != userID {
		return domain.ErrUnauthorized
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(log.UserID, log.FamilyID, log.Day())

	return nil
}

func (s *LogService) GetDelta(ctx context.Context, userID string, since time.Time) ([]*domain.ActivityLog, error) {
	return s.repo.GetChanges(ctx, userID, since)
}
