package scoring

import "github.com/kidsbalance/balance-engine/internal/core/domain"

// EvaluateBadges runs every badge condition against the stats and returns
// the ids of all that hold, in catalog order. Badges are cumulative, never
// mutually exclusive. The stats must be fully populated (balance score
// included) before calling.
func EvaluateBadges(stats domain.DailyStats) []string {
	earned := make([]string, 0, len(domain.BadgeCatalog))
	for _, badge := range domain.BadgeCatalog {
		if badge.Condition(stats) {
			earned = append(earned, badge.ID)
		}
	}
	return earned
}
