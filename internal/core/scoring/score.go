// Package scoring holds the pure balance-score computation: converting a
// day's activity logs into a score, badge set and streak. Nothing in this
// package performs I/O; callers fetch logs and summaries and persist the
// results.
package scoring

import (
	"math"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
)

const (
	maxDiversityScore = 30.0
	maxQualityScore   = 50.0
	maxVarietyScore   = 20.0

	// A day is perfectly diversified while no single category exceeds
	// 30% of total minutes; above that the diversity score decays
	// linearly to 0 at full single-category domination.
	diversityThreshold = 0.3

	// Each distinct activity is worth 4 variety points, capping at 5.
	varietyPointsPerActivity = 4
)

// CalculateBalanceScore converts one day's logs into the 0-100 composite.
// Input order does not matter. Empty input (or zero total minutes) yields
// the zero score; this function never fails.
func CalculateBalanceScore(logs []*domain.ActivityLog) domain.BalanceScore {
	totalMinutes := 0
	for _, log := range logs {
		totalMinutes += log.DurationMinutes
	}

	if totalMinutes == 0 {
		return domain.BalanceScore{}
	}

	// Diversity (0-30): penalize the most time-dominant category.
	categoryMinutes := domain.EmptyBreakdown()
	for _, log := range logs {
		categoryMinutes[log.ActivityCategory] += log.DurationMinutes
	}

	maxShare := 0.0
	for _, minutes := range categoryMinutes {
		share := float64(minutes) / float64(totalMinutes)
		if share > maxShare {
			maxShare = share
		}
	}

	diversity := maxDiversityScore
	if maxShare > diversityThreshold {
		diversity = maxDiversityScore * (1 - (maxShare-diversityThreshold)/(1-diversityThreshold))
	}

	// Quality (0-50): minutes-weighted average coefficient rescaled from
	// the 0-5 range.
	totalQualityPoints := 0.0
	for _, log := range logs {
		totalQualityPoints += log.QualityScore
	}
	averageQuality := totalQualityPoints / float64(totalMinutes)
	quality := (averageQuality / domain.MaxCoefficient) * maxQualityScore

	// Variety (0-20): reward distinct activities.
	unique := make(map[string]struct{}, len(logs))
	for _, log := range logs {
		unique[log.ActivityID] = struct{}{}
	}
	variety := math.Min(maxVarietyScore, float64(len(unique)*varietyPointsPerActivity))

	// Each sub-score is rounded independently and the total is the sum of
	// the rounded parts. Badge thresholds depend on this exact rule, so
	// it must not be collapsed into a single final rounding.
	return domain.BalanceScore{
		DiversityScore: int(math.Round(diversity)),
		QualityScore:   int(math.Round(quality)),
		VarietyScore:   int(math.Round(variety)),
		TotalScore:     int(math.Round(diversity)) + int(math.Round(quality)) + int(math.Round(variety)),
	}
}
