package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
)

type PostgresSummaryRepository struct {
	db *sqlx.DB
}

func NewPostgresSummaryRepository(db *sqlx.DB) *PostgresSummaryRepository {
	return &PostgresSummaryRepository{db: db}
}

func (r *PostgresSummaryRepository) scanRow(row scannable) (*domain.DailySummary, error) {
	var s domain.DailySummary
	var breakdownJSON, badgesJSON []byte

	err := row.Scan(
		&s.ID, &s.UserID, &s.FamilyID, &s.Date,
		&s.TotalMinutes, &breakdownJSON,
		&s.ActivitiesLogged, &s.UniqueActivities,
		&s.TotalQualityPoints, &s.AverageQuality,
		&s.BalanceScore.DiversityScore, &s.BalanceScore.QualityScore,
		&s.BalanceScore.VarietyScore, &s.BalanceScore.TotalScore,
		&badgesJSON, &s.Streak, &s.CalculatedAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(breakdownJSON) > 0 {
		if err := json.Unmarshal(breakdownJSON, &s.CategoryBreakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal category breakdown: %w", err)
		}
	}
	if len(badgesJSON) > 0 {
		if err := json.Unmarshal(badgesJSON, &s.BadgesEarned); err != nil {
			return nil, fmt.Errorf("failed to unmarshal badges: %w", err)
		}
	}

	return &s, nil
}

// Upsert writes the full summary for (user, date). The unique index on
// (user_id, date) drives the conflict clause; recomputation always wins.
func (r *PostgresSummaryRepository) Upsert(ctx context.Context, s *domain.DailySummary) error {
	breakdownJSON, err := json.Marshal(s.CategoryBreakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal category breakdown: %w", err)
	}
	badgesJSON, err := json.Marshal(s.BadgesEarned)
	if err != nil {
		return fmt.Errorf("failed to marshal badges: %w", err)
	}

	query := `
        INSERT INTO daily_summaries (
            id, user_id, family_id, date,
            total_minutes, category_breakdown,
            activities_logged, unique_activities,
            total_quality_points, average_quality,
            diversity_score, quality_score, variety_score, total_score,
            badges_earned, streak, calculated_at,
            created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4,
            $5, $6,
            $7, $8,
            $9, $10,
            $11, $12, $13, $14,
            $15, $16, $17,
            NOW(), NOW()
        )
        ON CONFLICT (user_id, date) DO UPDATE SET
            total_minutes = EXCLUDED.total_minutes,
            category_breakdown = EXCLUDED.category_breakdown,
            activities_logged = EXCLUDED.activities_logged,
            unique_activities = EXCLUDED.unique_activities,
            total_quality_points = EXCLUDED.total_quality_points,
            average_quality = EXCLUDED.average_quality,
            diversity_score = EXCLUDED.diversity_score,
            quality_score = EXCLUDED.quality_score,
            variety_score = EXCLUDED.variety_score,
            total_score = EXCLUDED.total_score,
            badges_earned = EXCLUDED.badges_earned,
            streak = EXCLUDED.streak,
            calculated_at = EXCLUDED.calculated_at,
            updated_at = NOW()`

	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.FamilyID, s.Date,
		s.TotalMinutes, breakdownJSON,
		s.ActivitiesLogged, s.UniqueActivities,
		s.TotalQualityPoints, s.AverageQuality,
		s.BalanceScore.DiversityScore, s.BalanceScore.QualityScore,
		s.BalanceScore.VarietyScore, s.BalanceScore.TotalScore,
		badgesJSON, s.Streak, s.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily summary: %w", err)
	}

	return nil
}

func (r *PostgresSummaryRepository) GetByUserAndDate(ctx context.Context, userID string, date string) (*domain.DailySummary, error) {
	query := `SELECT * FROM daily_summaries WHERE user_id = $1 AND date = $2`

	row := r.db.QueryRowContext(ctx, query, userID, date)

	s, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return s, nil
}

func (r *PostgresSummaryRepository) ListBefore(ctx context.Context, userID string, date string, limit int) ([]*domain.DailySummary, error) {
	query := `
        SELECT * FROM daily_summaries
        WHERE user_id = $1 AND date < $2
        ORDER BY date DESC
        LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, userID, date, limit)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.DailySummary

	for rows.Next() {
		s, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}

func (r *PostgresSummaryRepository) ListRange(ctx context.Context, userID string, from, to string) ([]*domain.DailySummary, error) {
	query := `
        SELECT * FROM daily_summaries
        WHERE user_id = $1 AND date >= $2 AND date <= $3
        ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.DailySummary

	for rows.Next() {
		s, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}
