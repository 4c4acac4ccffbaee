package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
	"github.com/kidsbalance/balance-engine/internal/core/services"
)

func summaryFor(userID, date string, totalMinutes, totalScore int, badges ...string) *domain.DailySummary {
	return &domain.DailySummary{
		ID:     "sum-" + date,
		UserID: userID,
		DailyStats: domain.DailyStats{
			Date:         date,
			TotalMinutes: totalMinutes,
			BalanceScore: domain.BalanceScore{TotalScore: totalScore},
			BadgesEarned: badges,
		},
	}
}

func TestStatsService_GetDailyStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	date := "2026-03-10"
	loggedAt := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	t.Run("Success: Aggregates the day's logs and attaches the streak", func(t *testing.T) {
		logRepo := new(MockActivityLogRepo)
		summaryRepo := new(MockSummaryRepo)
		service := services.NewStatsService(logRepo, summaryRepo)

		activity := testActivity(t, "family-1")
		logs := []*domain.ActivityLog{
			domain.NewActivityLog(activity, "child-1", 60, loggedAt),
			domain.NewActivityLog(activity, "child-1", 30, loggedAt.Add(time.Hour)),
		}

		logRepo.On("ListByUserAndDate", ctx, "child-1", date).Return(logs, nil)
		summaryRepo.On("ListBefore", ctx, "child-1", date, domain.SummaryLookbackLimit).
			Return([]*domain.DailySummary{summaryFor("child-1", "2026-03-09", 45, 50)}, nil)

		stats, err := service.GetDailyStats(ctx, "child-1", date)

		require.NoError(t, err)
		assert.Equal(t, 90, stats.TotalMinutes)
		assert.Equal(t, 2, stats.ActivitiesLogged)
		assert.Equal(t, 1, stats.UniqueActivities)
		assert.Equal(t, 90, stats.CategoryBreakdown[domain.CategoryEducational])
		assert.Equal(t, 2, stats.Streak, "active yesterday extends the streak")
	})

	t.Run("Success: Empty day yields a zero-score snapshot with streak 1", func(t *testing.T) {
		logRepo := new(MockActivityLogRepo)
		summaryRepo := new(MockSummaryRepo)
		service := services.NewStatsService(logRepo, summaryRepo)

		logRepo.On("ListByUserAndDate", ctx, "child-1", date).Return([]*domain.ActivityLog{}, nil)
		summaryRepo.On("ListBefore", ctx, "child-1", date, domain.SummaryLookbackLimit).
			Return([]*domain.DailySummary{}, nil)

		stats, err := service.GetDailyStats(ctx, "child-1", date)

		require.NoError(t, err)
		assert.Zero(t, stats.TotalMinutes)
		assert.Zero(t, stats.BalanceScore.TotalScore)
		assert.Len(t, stats.CategoryBreakdown, len(domain.AllCategories))
		assert.Empty(t, stats.BadgesEarned)
		assert.Equal(t, 1, stats.Streak)
	})

	t.Run("Success: Streak lookup failure degrades to 1 instead of failing the request", func(t *testing.T) {
		logRepo := new(MockActivityLogRepo)
		summaryRepo := new(MockSummaryRepo)
		service := services.NewStatsService(logRepo, summaryRepo)

		activity := testActivity(t, "family-1")
		logRepo.On("ListByUserAndDate", ctx, "child-1", date).
			Return([]*domain.ActivityLog{domain.NewActivityLog(activity, "child-1", 60, loggedAt)}, nil)
		summaryRepo.On("ListBefore", ctx, "child-1", date, domain.SummaryLookbackLimit).
			Return(nil, errors.New("db down"))

		stats, err := service.GetDailyStats(ctx, "child-1", date)

		require.NoError(t, err)
		assert.Equal(t, 1, stats.Streak)
	})

	t.Run("Fail: Log fetch failure propagates", func(t *testing.T) {
		logRepo := new(MockActivityLogRepo)
		summaryRepo := new(MockSummaryRepo)
		service := services.NewStatsService(logRepo, summaryRepo)

		logRepo.On("ListByUserAndDate", ctx, "child-1", date).Return(nil, errors.New("db down"))

		_, err := service.GetDailyStats(ctx, "child-1", date)

		assert.Error(t, err)
		summaryRepo.AssertNotCalled(t, "ListBefore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestStatsService_GetWeeklyStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	weekStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) // a Monday

	t.Run("Success: Rolls up the stored summaries of the week", func(t *testing.T) {
		logRepo := new(MockActivityLogRepo)
		summaryRepo := new(MockSummaryRepo)
		service := services.NewStatsService(logRepo, summaryRepo)

		summaryRepo.On("ListRange", ctx, "child-1", "2026-03-09", "2026-03-15").
			Return([]*domain.DailySummary{
				summaryFor("child-1", "2026-03-09", 120, 80, "balanced-day"),
				summaryFor("child-1", "2026-03-10", 0, 0),
				summaryFor("child-1", "2026-03-11", 60, 40, "balanced-day", "active-day"),
			}, nil)

		stats, err := service.GetWeeklyStats(ctx, "child-1", weekStart)

		require.NoError(t, err)
		assert.Equal(t, "2026-03-09", stats.WeekStartDate)
		assert.Equal(t, 2, stats.DaysActive, "zero-minute days do not count as active")
		assert.Equal(t, 180, stats.TotalMinutes)
		assert.Equal(t, 60.0, stats.AverageDailyScore)
		assert.Equal(t, []string{"balanced-day", "active-day"}, stats.BadgesEarned,
			"badges are deduplicated preserving first-seen order")
	})

	t.Run("Success: Empty week yields zeroes, not an error", func(t *testing.T) {
		logRepo := new(MockActivityLogRepo)
		summaryRepo := new(MockSummaryRepo)
		service := services.NewStatsService(logRepo, summaryRepo)

		summaryRepo.On("ListRange", ctx, "child-1", "2026-03-09", "2026-03-15").
			Return([]*domain.DailySummary{}, nil)

		stats, err := service.GetWeeklyStats(ctx, "child-1", weekStart)

		require.NoError(t, err)
		assert.Zero(t, stats.DaysActive)
		assert.Zero(t, stats.AverageDailyScore)
		assert.Empty(t, stats.BadgesEarned)
	})
}
