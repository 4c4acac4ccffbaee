package scoring

import (
	"time"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
)

const dateLayout = "2006-01-02"

// CalculateStreak counts the consecutive active days ending at date, given
// the stored summaries strictly before it, sorted descending by date and
// capped at domain.SummaryLookbackLimit by the caller. The cap means a
// streak never reports more than 31 days.
//
// The day being aggregated always counts, so the floor is 1: no prior
// summary, or a gap right before the target date, still yields 1.
func CalculateStreak(date string, prior []*domain.DailySummary) int {
	target, err := time.Parse(dateLayout, date)
	if err != nil {
		return 1
	}

	if len(prior) == 0 {
		return 1
	}

	yesterday := target.AddDate(0, 0, -1).Format(dateLayout)
	if prior[0].Date != yesterday {
		return 1
	}

	streak := 2
	for i := 1; i < len(prior); i++ {
		previous, err := time.Parse(dateLayout, prior[i-1].Date)
		if err != nil {
			break
		}
		expected := previous.AddDate(0, 0, -1).Format(dateLayout)
		if prior[i].Date != expected {
			break
		}
		streak++
	}

	return streak
}
