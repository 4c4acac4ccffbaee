package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
)

func TestAggregateDailyStats(t *testing.T) {
	date := "2024-03-15"

	t.Run("Empty day aggregates to zeros with a full breakdown", func(t *testing.T) {
		stats, err := AggregateDailyStats(nil, date)

		require.NoError(t, err)
		assert.Equal(t, date, stats.Date)
		assert.Equal(t, 0, stats.TotalMinutes)
		assert.Equal(t, 0, stats.ActivitiesLogged)
		assert.Equal(t, 0, stats.UniqueActivities)
		assert.Equal(t, 0.0, stats.AverageQuality)
		assert.Equal(t, domain.BalanceScore{}, stats.BalanceScore)
		assert.Empty(t, stats.BadgesEarned)
		assert.False(t, stats.CalculatedAt.IsZero())

		assert.Len(t, stats.CategoryBreakdown, 8)
		for _, c := range domain.AllCategories {
			minutes, present := stats.CategoryBreakdown[c]
			assert.True(t, present, "category %s must be present", c)
			assert.Equal(t, 0, minutes)
		}
	})

	t.Run("Aggregates minutes, breakdown and quality", func(t *testing.T) {
		logs := []*domain.ActivityLog{
			makeLog("a1", domain.CategoryPhysical, 60, 3.0),
			makeLog("a2", domain.CategoryCreative, 60, 4.0),
			makeLog("a1", domain.CategoryPhysical, 30, 3.0),
		}

		stats, err := AggregateDailyStats(logs, date)

		require.NoError(t, err)
		assert.Equal(t, 150, stats.TotalMinutes)
		assert.Equal(t, 3, stats.ActivitiesLogged)
		assert.Equal(t, 2, stats.UniqueActivities)
		assert.Equal(t, 90, stats.CategoryBreakdown[domain.CategoryPhysical])
		assert.Equal(t, 60, stats.CategoryBreakdown[domain.CategoryCreative])
		assert.Equal(t, 0, stats.CategoryBreakdown[domain.CategoryScreen])
		assert.InDelta(t, 510.0, stats.TotalQualityPoints, 1e-9)
		assert.InDelta(t, 3.4, stats.AverageQuality, 1e-9)
	})

	t.Run("Breakdown minutes sum to total minutes", func(t *testing.T) {
		logs := []*domain.ActivityLog{
			makeLog("a1", domain.CategoryPhysical, 45, 3.0),
			makeLog("a2", domain.CategoryRest, 90, 1.0),
			makeLog("a3", domain.CategoryChores, 20, 2.0),
		}

		stats, err := AggregateDailyStats(logs, date)
		require.NoError(t, err)

		sum := 0
		for _, minutes := range stats.CategoryBreakdown {
			sum += minutes
		}
		assert.Equal(t, stats.TotalMinutes, sum)
	})

	t.Run("Badges are evaluated against the populated stats", func(t *testing.T) {
		// Five distinct activities spread across categories, high
		// coefficients: earns variety-explorer and active-day at least,
		// and the total score must feed the balanced-day predicate.
		logs := []*domain.ActivityLog{
			makeLog("a1", domain.CategoryPhysical, 50, 4.0),
			makeLog("a2", domain.CategoryCreative, 50, 4.5),
			makeLog("a3", domain.CategoryEducational, 50, 4.5),
			makeLog("a4", domain.CategorySocial, 50, 4.0),
			makeLog("a5", domain.CategoryChores, 50, 4.0),
		}

		stats, err := AggregateDailyStats(logs, date)
		require.NoError(t, err)

		// maxShare 0.2 -> diversity 30; avg 4.2 -> quality 42; variety 20.
		assert.Equal(t, 92, stats.BalanceScore.TotalScore)
		assert.Contains(t, stats.BadgesEarned, "balanced-day")
		assert.Contains(t, stats.BadgesEarned, "quality-master")
		assert.Contains(t, stats.BadgesEarned, "variety-explorer")
		assert.Contains(t, stats.BadgesEarned, "active-day")
	})

	t.Run("Idempotent modulo CalculatedAt", func(t *testing.T) {
		logs := []*domain.ActivityLog{
			makeLog("a1", domain.CategoryPhysical, 60, 3.0),
			makeLog("a2", domain.CategoryScreen, 45, 1.0),
		}

		first, err := AggregateDailyStats(logs, date)
		require.NoError(t, err)
		second, err := AggregateDailyStats(logs, date)
		require.NoError(t, err)

		first.CalculatedAt = second.CalculatedAt
		assert.Equal(t, first, second)
	})

	t.Run("Rejects a log with invalid category", func(t *testing.T) {
		bad := makeLog("a1", domain.Category("gaming"), 60, 1.0)

		_, err := AggregateDailyStats([]*domain.ActivityLog{bad}, date)
		assert.ErrorIs(t, err, domain.ErrInvalidLogEntry)
	})

	t.Run("Rejects a log with non-positive duration", func(t *testing.T) {
		bad := makeLog("a1", domain.CategoryPhysical, 0, 1.0)

		_, err := AggregateDailyStats([]*domain.ActivityLog{bad}, date)
		assert.ErrorIs(t, err, domain.ErrInvalidLogEntry)
	})

	t.Run("Rejects a log over the duration ceiling", func(t *testing.T) {
		bad := makeLog("a1", domain.CategoryPhysical, 481, 1.0)

		_, err := AggregateDailyStats([]*domain.ActivityLog{bad}, date)
		assert.ErrorIs(t, err, domain.ErrInvalidLogEntry)
	})
}
