package scoring

import (
	"fmt"
	"time"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
)

// AggregateDailyStats derives the full DailyStats for one calendar date
// from that day's logs. The caller pre-filters logs to one user and one
// date; this function does not touch storage.
//
// Malformed logs (unknown category, non-positive or oversized duration)
// are rejected up front rather than silently corrupting the breakdown.
// Aggregation is idempotent: same logs and date produce identical stats
// except for CalculatedAt.
func AggregateDailyStats(logs []*domain.ActivityLog, date string) (domain.DailyStats, error) {
	for i, log := range logs {
		if log.DurationMinutes <= 0 || log.DurationMinutes > domain.MaxLogDuration {
			return domain.DailyStats{}, fmt.Errorf("%w: log %d has duration %d", domain.ErrInvalidLogEntry, i, log.DurationMinutes)
		}
		if !log.ActivityCategory.Valid() {
			return domain.DailyStats{}, fmt.Errorf("%w: log %d has category %q", domain.ErrInvalidLogEntry, i, log.ActivityCategory)
		}
	}

	totalMinutes := 0
	totalQualityPoints := 0.0
	breakdown := domain.EmptyBreakdown()
	unique := make(map[string]struct{}, len(logs))

	for _, log := range logs {
		totalMinutes += log.DurationMinutes
		totalQualityPoints += log.QualityScore
		breakdown[log.ActivityCategory] += log.DurationMinutes
		unique[log.ActivityID] = struct{}{}
	}

	averageQuality := 0.0
	if totalMinutes > 0 {
		averageQuality = totalQualityPoints / float64(totalMinutes)
	}

	stats := domain.DailyStats{
		Date:               date,
		TotalMinutes:       totalMinutes,
		CategoryBreakdown:  breakdown,
		ActivitiesLogged:   len(logs),
		UniqueActivities:   len(unique),
		TotalQualityPoints: totalQualityPoints,
		AverageQuality:     averageQuality,
		BalanceScore:       CalculateBalanceScore(logs),
		CalculatedAt:       time.Now().UTC(),
	}

	// Badges read the balance score, so they must be evaluated last,
	// against the fully populated stats.
	stats.BadgesEarned = EvaluateBadges(stats)

	return stats, nil
}
