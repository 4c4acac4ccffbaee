package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLogNotFound     = errors.New("activity log not found")
	ErrLogConflict     = errors.New("activity log version conflict")
	ErrSummaryNotFound = errors.New("daily summary not found")
)

type ActivityLogRepository interface {
	// Create persists a new log to the storage.
	Create(ctx context.Context, log *ActivityLog) error

	// Update modifies an existing log.
	// Implementations must handle Optimistic Locking (version check) to prevent data races.
	Update(ctx context.Context, log *ActivityLog) error

	// Delete performs a Soft Delete on the log.
	// It requires userID to ensure the user actually owns the log being deleted.
	Delete(ctx context.Context, id string, userID string) error

	// GetByID retrieves a single active (non-deleted) log by its ID.
	GetByID(ctx context.Context, id string) (*ActivityLog, error)

	// ListByUserAndDate retrieves all active logs of one user on one
	// calendar date (YYYY-MM-DD, UTC), the aggregation input.
	ListByUserAndDate(ctx context.Context, userID string, date string) ([]*ActivityLog, error)

	// ListByUserAndRange retrieves logs within a date range, newest first.
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]*ActivityLog, error)

	// ListByActivityID retrieves every active log referencing an activity,
	// the input of the explicit coefficient recalculation pass.
	ListByActivityID(ctx context.Context, activityID string) ([]*ActivityLog, error)

	// GetChanges returns all changes (creations, updates, soft-deletes)
	// that occurred after the 'since' timestamp. Crucial for offline-first synchronization.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*ActivityLog, error)
}

// SummaryLookbackLimit caps the streak lookback at the 30 most recent
// daily summaries. Streaks longer than 30 days are truncated; the cap is
// a deliberate bound on the read, not an accident.
const SummaryLookbackLimit = 30

type DailySummaryRepository interface {
	// Upsert writes the summary for (user, date), replacing any previous
	// one. Aggregation is idempotent so last write wins.
	Upsert(ctx context.Context, summary *DailySummary) error

	// GetByUserAndDate retrieves one day's stored summary.
	GetByUserAndDate(ctx context.Context, userID string, date string) (*DailySummary, error)

	// ListBefore retrieves up to limit summaries strictly before date,
	// ordered descending by date. Streak computation input.
	ListBefore(ctx context.Context, userID string, date string, limit int) ([]*DailySummary, error)

	// ListRange retrieves summaries between two dates inclusive, ascending.
	ListRange(ctx context.Context, userID string, from, to string) ([]*DailySummary, error)
}
