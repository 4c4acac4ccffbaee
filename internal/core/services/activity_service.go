package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
	"github.com/kidsbalance/balance-engine/internal/core/workers"
)

type ActivityService struct {
	repo    domain.ActivityRepository
	logRepo domain.ActivityLogRepository
	worker  *workers.SummaryWorker
}

func NewActivityService(repo domain.ActivityRepository, logRepo domain.ActivityLogRepository, worker *workers.SummaryWorker) *ActivityService {
	return &ActivityService{
		repo:    repo,
		logRepo: logRepo,
		worker:  worker,
	}
}

type CreateActivityInput struct {
	FamilyID    string
	Name        string
	Category    string
	Coefficient float64
	Icon        string
	Color       string
	CreatedBy   string
}

type UpdateActivityInput struct {
	ID          string
	FamilyID    string
	Name        string
	Category    string
	Coefficient float64
	Icon        string
	Color       string
	Version     int
}

func (s *ActivityService) Create(ctx context.Context, input CreateActivityInput) (*domain.Activity, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	activity, err := domain.NewActivity(input.FamilyID, input.Name, category, input.Coefficient, input.Icon, input.Color, input.CreatedBy)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, err
	}

	return activity, nil
}

func (s *ActivityService) ListByFamilyID(ctx context.Context, familyID string, includeArchived bool) ([]*domain.Activity, error) {
	return s.repo.ListByFamilyID(ctx, familyID, includeArchived)
}

func (s *ActivityService) GetByID(ctx context.Context, id, familyID string) (*domain.Activity, error) {
	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity.FamilyID != familyID {
		return nil, domain.ErrActivityNotFound
	}
	return activity, nil
}

// Update edits the catalog entry only. Existing logs keep their frozen
// snapshot; RecalculateLogs is the explicit opt-in path to rewrite history.
func (s *ActivityService) GetDelta(ctx context.Context, familyID string, since time.Time) ([]*domain.Activity, error) {
	return s.repo.GetChanges(ctx, familyID, since)
}

func (s *ActivityService) Update(ctx context.Context, input UpdateActivityInput) (*domain.Activity, error) {
	activity, err := s.GetByID(ctx, input.ID, input.FamilyID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && activity.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrActivityConflict, input.Version, activity.Version)
	}

	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	if err := activity.Update(input.Name, category, input.Coefficient, input.Icon, input.Color); err != nil {
		return nil, err
	}

	activity.Version++
	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, err
	}

	return activity, nil
}

// Archive soft-deactivates the activity. It disappears from the logging
// picker but historical logs keep resolving to it.
func (s *ActivityService) Archive(ctx context.Context, id, familyID string) error {
	activity, err := s.GetByID(ctx, id, familyID)
	if err != nil {
		return err
	}

	activity.Archive()
	activity.Version++
	return s.repo.Update(ctx, activity)
}

func (s *ActivityService) Restore(ctx context.Context, id, familyID string) error {
	activity, err := s.GetByID(ctx, id, familyID)
	if err != nil {
		return err
	}

	activity.Restore()
	activity.Version++
	return s.repo.Update(ctx, activity)
}

// SeedPresets installs the built-in catalog for a family. Existing preset
// names are skipped so seeding is safe to repeat.
func (s *ActivityService) SeedPresets(ctx context.Context, familyID string) ([]*domain.Activity, error) {
	existing, err := s.repo.ListByFamilyID(ctx, familyID, true)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(existing))
	for _, a := range existing {
		taken[a.Name] = true
	}

	presets, err := domain.PresetActivities(familyID)
	if err != nil {
		return nil, err
	}

	var created []*domain.Activity
	for _, p := range presets {
		if taken[p.Name] {
			continue
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return created, err
		}
		created = append(created, p)
	}

	return created, nil
}

// RecalculateLogs rewrites the quality score of every historical log of an
// activity using its current coefficient, then re-enqueues every affected
// day for aggregation. This is the only path that touches frozen snapshots.
func (s *ActivityService) RecalculateLogs(ctx context.Context, id, familyID string) (int, error) {
	activity, err := s.GetByID(ctx, id, familyID)
	if err != nil {
		return 0, err
	}

	logs, err := s.logRepo.ListByActivityID(ctx, activity.ID)
	if err != nil {
		return 0, err
	}

	touchedDays := make(map[string]string, len(logs))
	updated := 0

	for _, l := range logs {
		if l.ActivityCoefficient == activity.Coefficient {
			continue
		}
		if err := l.Recalculate(activity.Coefficient); err != nil {
			return updated, err
		}
		if err := s.logRepo.Update(ctx, l); err != nil {
			return updated, err
		}
		updated++
		touchedDays[l.UserID+"|"+l.Day()] = l.UserID
	}

	for key, userID := range touchedDays {
		s.worker.Enqueue(userID, activity.FamilyID, key[len(userID)+1:])
	}

	return updated, nil
}
