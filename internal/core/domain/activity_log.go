package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidDuration = errors.New("duration must be between 1 and 480 minutes")
	ErrInvalidLogEntry = errors.New("invalid activity log data")
)

// MaxLogDuration caps a single log at 8 hours.
const MaxLogDuration = 480

// ActivityLog is one recorded occurrence of an activity. The activity's
// name, category, icon, color and coefficient are frozen onto the log at
// creation time so later catalog edits cannot rewrite historical stats.
// QualityScore is always DurationMinutes times the frozen coefficient.
type ActivityLog struct {
	ID              string  `json:"id" db:"id"`
	ActivityID      string  `json:"activity_id" db:"activity_id"`
	UserID          string  `json:"user_id" db:"user_id"`
	FamilyID        string  `json:"family_id" db:"family_id"`
	DurationMinutes int     `json:"duration_minutes" db:"duration_minutes"`
	QualityScore    float64 `json:"quality_score" db:"quality_score"`
	Notes           string  `json:"notes,omitempty" db:"notes"`

	LoggedAt time.Time `json:"logged_at" db:"logged_at"`

	// Denormalized snapshot of the activity at logging time.
	ActivityName        string   `json:"activity_name" db:"activity_name"`
	ActivityCategory    Category `json:"activity_category" db:"activity_category"`
	ActivityIcon        string   `json:"activity_icon" db:"activity_icon"`
	ActivityColor       string   `json:"activity_color" db:"activity_color"`
	ActivityCoefficient float64  `json:"activity_coefficient" db:"activity_coefficient"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// NewActivityLog freezes the given activity's display fields and coefficient
// onto the log and computes the quality score.
func NewActivityLog(activity *Activity, userID string, duration int, loggedAt time.Time) *ActivityLog {
	now := time.Now().UTC()
	if loggedAt.IsZero() {
		loggedAt = now
	}

	return &ActivityLog{
		ActivityID:      activity.ID,
		UserID:          userID,
		FamilyID:        activity.FamilyID,
		DurationMinutes: duration,
		QualityScore:    float64(duration) * activity.Coefficient,
		LoggedAt:        loggedAt.UTC(),

		ActivityName:        activity.Name,
		ActivityCategory:    activity.Category,
		ActivityIcon:        activity.Icon,
		ActivityColor:       activity.Color,
		ActivityCoefficient: activity.Coefficient,

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (l *ActivityLog) Validate() error {
	if strings.TrimSpace(l.ActivityID) == "" {
		return errors.New("activity_id is required")
	}
	if strings.TrimSpace(l.UserID) == "" {
		return errors.New("user_id is required")
	}
	if l.DurationMinutes <= 0 || l.DurationMinutes > MaxLogDuration {
		return ErrInvalidDuration
	}
	if !l.ActivityCategory.Valid() {
		return ErrInvalidCategory
	}
	if l.LoggedAt.IsZero() {
		return errors.New("logged_at is required")
	}
	return nil
}

// SetDuration changes the duration and recomputes the quality score from
// the frozen coefficient. The owning day must be re-aggregated afterwards.
func (l *ActivityLog) SetDuration(minutes int) error {
	if minutes <= 0 || minutes > MaxLogDuration {
		return ErrInvalidDuration
	}
	l.DurationMinutes = minutes
	l.QualityScore = float64(minutes) * l.ActivityCoefficient
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// Recalculate replaces the frozen coefficient with a new one and recomputes
// the quality score. Only the explicit bulk recalculation pass calls this;
// ordinary catalog edits never touch existing logs.
func (l *ActivityLog) Recalculate(coefficient float64) error {
	if coefficient < MinCoefficient || coefficient > MaxCoefficient {
		return ErrInvalidCoefficient
	}
	l.ActivityCoefficient = coefficient
	l.QualityScore = float64(l.DurationMinutes) * coefficient
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// Day returns the log's calendar date key (YYYY-MM-DD, UTC).
func (l *ActivityLog) Day() string {
	return l.LoggedAt.UTC().Format("2006-01-02")
}
