package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
)

func summariesFor(dates ...string) []*domain.DailySummary {
	out := make([]*domain.DailySummary, 0, len(dates))
	for _, d := range dates {
		out = append(out, &domain.DailySummary{
			UserID:     "user-1",
			DailyStats: domain.DailyStats{Date: d},
		})
	}
	return out
}

func TestCalculateStreak(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		prior []*domain.DailySummary
		want  int
	}{
		{
			name:  "No history means streak of 1",
			date:  "2024-03-15",
			prior: nil,
			want:  1,
		},
		{
			name:  "Gap before target means streak of 1",
			date:  "2024-03-15",
			prior: summariesFor("2024-03-13", "2024-03-12"),
			want:  1,
		},
		{
			name:  "Yesterday only means streak of 2",
			date:  "2024-03-15",
			prior: summariesFor("2024-03-14"),
			want:  2,
		},
		{
			name:  "Yesterday then gap stops at 2",
			date:  "2024-03-15",
			prior: summariesFor("2024-03-14", "2024-03-12"),
			want:  2,
		},
		{
			name:  "Three consecutive prior days mean streak of 4",
			date:  "2024-03-15",
			prior: summariesFor("2024-03-14", "2024-03-13", "2024-03-12"),
			want:  4,
		},
		{
			name:  "Streak stops at the first gap in older history",
			date:  "2024-03-15",
			prior: summariesFor("2024-03-14", "2024-03-13", "2024-03-11", "2024-03-10"),
			want:  3,
		},
		{
			name:  "Spans a month boundary",
			date:  "2024-03-01",
			prior: summariesFor("2024-02-29", "2024-02-28"),
			want:  3,
		},
		{
			name:  "Unparsable target date degrades to 1",
			date:  "not-a-date",
			prior: summariesFor("2024-03-14"),
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateStreak(tt.date, tt.prior))
		})
	}

	t.Run("Full lookback window counts every day", func(t *testing.T) {
		targetDay := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

		prior := make([]*domain.DailySummary, 0, domain.SummaryLookbackLimit)
		for i := 1; i <= domain.SummaryLookbackLimit; i++ {
			prior = append(prior, &domain.DailySummary{
				DailyStats: domain.DailyStats{
					Date: targetDay.AddDate(0, 0, -i).Format("2006-01-02"),
				},
			})
		}

		// 30 consecutive prior days plus today.
		assert.Equal(t, 31, CalculateStreak("2024-03-15", prior))
	})
}
