package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
)

// InMemoryActivityRepository is a map-backed catalog used by tests and by
// the cache decorator tests as the backing store.
type InMemoryActivityRepository struct {
	store map[string]*domain.Activity

	mu sync.RWMutex
}

func NewInMemoryActivityRepository() *InMemoryActivityRepository {
	return &InMemoryActivityRepository{
		store: make(map[string]*domain.Activity),
	}
}

func (r *InMemoryActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[activity.ID] = activity
	return nil
}

func (r *InMemoryActivityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.store[id]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	return activity, nil
}

func (r *InMemoryActivityRepository) ListByFamilyID(ctx context.Context, familyID string, includeArchived bool) ([]*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var activities []*domain.Activity
	for _, a := range r.store {
		if a.FamilyID != familyID {
			continue
		}
		if !includeArchived && a.ArchivedAt != nil {
			continue
		}
		activities = append(activities, a)
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Name < activities[j].Name
	})

	return activities, nil
}

func (r *InMemoryActivityRepository) Update(ctx context.Context, activity *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[activity.ID]; !ok {
		return domain.ErrActivityNotFound
	}

	r.store[activity.ID] = activity
	return nil
}

func (r *InMemoryActivityRepository) GetChanges(ctx context.Context, familyID string, since time.Time) ([]*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var changed []*domain.Activity
	for _, a := range r.store {
		if a.FamilyID == familyID && a.UpdatedAt.After(since) {
			changed = append(changed, a)
		}
	}

	sort.Slice(changed, func(i, j int) bool {
		return changed[i].UpdatedAt.Before(changed[j].UpdatedAt)
	})

	return changed, nil
}
