package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
)

type PostgresLogRepository struct {
	db *sqlx.DB
}

func NewPostgresLogRepository(db *sqlx.DB) *PostgresLogRepository {
	return &PostgresLogRepository{db: db}
}

func (r *PostgresLogRepository) Create(ctx context.Context, log *domain.ActivityLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	query := `
		INSERT INTO activity_logs (
			id, activity_id, user_id, family_id,
			duration_minutes, quality_score, notes, logged_at,
			activity_name, activity_category, activity_icon,
			activity_color, activity_coefficient,
			version, created_at, updated_at, deleted_at
		) VALUES (
			:id, :activity_id, :user_id, :family_id,
			:duration_minutes, :quality_score, :notes, :logged_at,
			:activity_name, :activity_category, :activity_icon,
			:activity_color, :activity_coefficient,
			:version, :created_at, :updated_at, :deleted_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, log)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" {
				return errors.New("referenced activity or user does not exist")
			}
			if pqErr.Code == "23505" {
				return domain.ErrLogConflict
			}
		}
		return err
	}
	return nil
}

func (r *PostgresLogRepository) GetByID(ctx context.Context, id string) (*domain.ActivityLog, error) {
	var log domain.ActivityLog
	query := `SELECT * FROM activity_logs WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &log, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLogNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *PostgresLogRepository) ListByUserAndDate(ctx context.Context, userID string, date string) ([]*domain.ActivityLog, error) {
	logs := []*domain.ActivityLog{}

	// logged_at is stored in UTC; the calendar date key is derived the
	// same way domain.ActivityLog.Day does it.
	query := `
		SELECT * FROM activity_logs
		WHERE user_id = $1
		  AND to_char(logged_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') = $2
		  AND deleted_at IS NULL
		ORDER BY logged_at ASC`

	err := r.db.SelectContext(ctx, &logs, query, userID, date)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *PostgresLogRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.ActivityLog, error) {
	logs := []*domain.ActivityLog{}

	query := `
		SELECT * FROM activity_logs
		WHERE user_id = $1
		  AND logged_at >= $2
		  AND logged_at <= $3
		  AND deleted_at IS NULL
		ORDER BY logged_at DESC`

	err := r.db.SelectContext(ctx, &logs, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *PostgresLogRepository) ListByActivityID(ctx context.Context, activityID string) ([]*domain.ActivityLog, error) {
	logs := []*domain.ActivityLog{}

	query := `
		SELECT * FROM activity_logs
		WHERE activity_id = $1 AND deleted_at IS NULL
		ORDER BY logged_at ASC`

	err := r.db.SelectContext(ctx, &logs, query, activityID)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *PostgresLogRepository) Update(ctx context.Context, log *domain.ActivityLog) error {
	// Callers bump the version before handing the log over; the WHERE
	// clause checks against the previous one.
	query := `
		UPDATE activity_logs
		SET duration_minutes = :duration_minutes,
		    quality_score = :quality_score,
		    activity_coefficient = :activity_coefficient,
		    notes = :notes,
		    version = :version,
		    updated_at = :updated_at
		WHERE id = :id
		  AND version = :version - 1  -- Optimistic Lock check
		  AND deleted_at IS NULL`

	result, err := r.db.NamedExecContext(ctx, query, log)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		exists, _ := r.exists(ctx, log.ID)
		if !exists {
			return domain.ErrLogNotFound
		}
		return domain.ErrLogConflict
	}

	return nil
}

func (r *PostgresLogRepository) Delete(ctx context.Context, id string, userID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE activity_logs
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE id = $2
		  AND user_id = $3 -- Security Check
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrLogNotFound
	}

	return nil
}

func (r *PostgresLogRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.ActivityLog, error) {
	logs := []*domain.ActivityLog{}

	query := `
		SELECT * FROM activity_logs
		WHERE user_id = $1
		  AND updated_at > $2
		ORDER BY updated_at ASC`

	err := r.db.SelectContext(ctx, &logs, query, userID, since)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *PostgresLogRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM activity_logs WHERE id = $1", id)
	return count > 0, err
}
