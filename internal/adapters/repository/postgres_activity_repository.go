package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kidsbalance/balance-engine/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresActivityRepository struct {
	db *sqlx.DB
}

func NewPostgresActivityRepository(db *sqlx.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresActivityRepository) scanRow(row scannable) (*domain.Activity, error) {
	var a domain.Activity
	var durationsJSON []byte

	err := row.Scan(
		&a.ID, &a.FamilyID, &a.Name, &a.Category, &a.Coefficient,
		&a.Icon, &a.Color, &durationsJSON, &a.CreatedBy, &a.IsPreset,
		&a.Version, &a.CreatedAt, &a.UpdatedAt, &a.ArchivedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(durationsJSON) > 0 {
		if err := json.Unmarshal(durationsJSON, &a.SuggestedDurations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal suggested durations: %w", err)
		}
	}

	return &a, nil
}

func (r *PostgresActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	durationsJSON, err := json.Marshal(a.SuggestedDurations)
	if err != nil {
		return fmt.Errorf("failed to marshal suggested durations: %w", err)
	}

	query := `
        INSERT INTO activities (
            id, family_id, name, category, coefficient,
            icon, color, suggested_durations, created_by, is_preset,
            version, created_at, updated_at, archived_at
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8, $9, $10,
            1, $11, $12, NULL
        )`

	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.FamilyID, a.Name, a.Category, a.Coefficient,
		a.Icon, a.Color, durationsJSON, a.CreatedBy, a.IsPreset,
		a.CreatedAt, a.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrActivityConflict
		}
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	a.Version = 1
	return nil
}

func (r *PostgresActivityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	// Archived activities are still returned: historical logs must stay
	// attributable.
	query := `SELECT * FROM activities WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	a, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return a, nil
}

func (r *PostgresActivityRepository) ListByFamilyID(ctx context.Context, familyID string, includeArchived bool) ([]*domain.Activity, error) {
	query := `
        SELECT * FROM activities
        WHERE family_id = $1
        ORDER BY name ASC`

	if !includeArchived {
		query = `
        SELECT * FROM activities
        WHERE family_id = $1 AND archived_at IS NULL
        ORDER BY name ASC`
	}

	rows, err := r.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var activities []*domain.Activity

	for rows.Next() {
		a, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		activities = append(activities, a)
	}

	return activities, nil
}

func (r *PostgresActivityRepository) Update(ctx context.Context, a *domain.Activity) error {
	durationsJSON, err := json.Marshal(a.SuggestedDurations)
	if err != nil {
		return err
	}

	query := `
        UPDATE activities SET
            name=$1, category=$2, coefficient=$3, icon=$4, color=$5,
            suggested_durations=$6, archived_at=$7,
            updated_at=NOW(), version=$8
        WHERE id=$9 AND version=$10
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		a.Name, a.Category, a.Coefficient, a.Icon, a.Color,
		durationsJSON, a.ArchivedAt,
		a.Version, a.ID, a.Version-1,
	)

	var newVersion int
	var newUpdatedAt time.Time

	err = row.Scan(&newVersion, &newUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existsQuery := `SELECT count(*) FROM activities WHERE id = $1`
			var count int
			if checkErr := r.db.QueryRowContext(ctx, existsQuery, a.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}

			if count == 0 {
				return domain.ErrActivityNotFound
			}
			return domain.ErrActivityConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	a.Version = newVersion
	a.UpdatedAt = newUpdatedAt

	return nil
}

func (r *PostgresActivityRepository) GetChanges(ctx context.Context, familyID string, since time.Time) ([]*domain.Activity, error) {
	query := `
        SELECT * FROM activities
        WHERE family_id = $1 AND updated_at > $2
        ORDER BY updated_at ASC`

	rows, err := r.db.QueryContext(ctx, query, familyID, since)
	if err != nil {
		return nil, fmt.Errorf("sync query error: %w", err)
	}
	defer rows.Close()

	var activities []*domain.Activity

	for rows.Next() {
		a, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("sync row scan error: %w", err)
		}
		activities = append(activities, a)
	}

	return activities, nil
}
