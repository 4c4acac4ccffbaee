package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrActivityConflict = errors.New("activity version conflict")
)

type ActivityRepository interface {
	// Create persists a new catalog entry.
	Create(ctx context.Context, activity *Activity) error

	// GetByID retrieves an activity by its unique identifier, archived
	// entries included (historical logs must stay attributable).
	GetByID(ctx context.Context, id string) (*Activity, error)

	// ListByFamilyID retrieves the family catalog. Archived entries are
	// included when includeArchived is set.
	ListByFamilyID(ctx context.Context, familyID string, includeArchived bool) ([]*Activity, error)

	// Update modifies the state of an existing activity.
	Update(ctx context.Context, activity *Activity) error

	// GetChanges returns only the deltas occurring after a specific date,
	// for offline-first client synchronization.
	GetChanges(ctx context.Context, familyID string, since time.Time) ([]*Activity, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, id string) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)

	// ListChildren retrieves the child profiles of a family, for the
	// PIN login picker.
	ListChildren(ctx context.Context, familyID string) ([]*User, error)
}
