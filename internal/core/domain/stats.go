package domain

import "time"

// BalanceScore is the 0-100 composite for one day. Each sub-score is
// rounded to the nearest integer before summing, so the total can differ
// fractionally from rounding once at the end. The UI badge thresholds
// depend on this exact rule.
type BalanceScore struct {
	DiversityScore int `json:"diversity_score"`
	QualityScore   int `json:"quality_score"`
	VarietyScore   int `json:"variety_score"`
	TotalScore     int `json:"total_score"`
}

// DailyStats is the derived aggregate for one user on one calendar date.
// It is never edited directly; it is recomputed whenever the day's logs
// change. CategoryBreakdown always carries all eight categories.
type DailyStats struct {
	Date               string           `json:"date"`
	TotalMinutes       int              `json:"total_minutes"`
	CategoryBreakdown  map[Category]int `json:"category_breakdown"`
	ActivitiesLogged   int              `json:"activities_logged"`
	UniqueActivities   int              `json:"unique_activities"`
	TotalQualityPoints float64          `json:"total_quality_points"`
	AverageQuality     float64          `json:"average_quality"`
	BalanceScore       BalanceScore     `json:"balance_score"`
	BadgesEarned       []string         `json:"badges_earned"`
	Streak             int              `json:"streak"`
	CalculatedAt       time.Time        `json:"calculated_at"`
}

// EmptyBreakdown returns a breakdown map with every category present at 0.
func EmptyBreakdown() map[Category]int {
	m := make(map[Category]int, len(AllCategories))
	for _, c := range AllCategories {
		m[c] = 0
	}
	return m
}

// DailySummary is the persisted form of DailyStats, one row per
// (user, date).
type DailySummary struct {
	ID       string `json:"id" db:"id"`
	UserID   string `json:"user_id" db:"user_id"`
	FamilyID string `json:"family_id" db:"family_id"`

	DailyStats

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// WeeklyStats is a rollup over the stored daily summaries of one week.
type WeeklyStats struct {
	WeekStartDate     string   `json:"week_start_date"`
	TotalMinutes      int      `json:"total_minutes"`
	AverageDailyScore float64  `json:"average_daily_score"`
	DaysActive        int      `json:"days_active"`
	BadgesEarned      []string `json:"badges_earned"`
}

// QualityTier maps an average quality onto a child-friendly label.
type QualityTier struct {
	Tier    string `json:"tier"`
	Emoji   string `json:"emoji"`
	Message string `json:"message"`
	Color   string `json:"color"`
}

func QualityTierFor(averageQuality float64) QualityTier {
	switch {
	case averageQuality >= 4.0:
		return QualityTier{
			Tier:    "Exceptional",
			Emoji:   "🌟",
			Message: "Amazing! You did lots of valuable activities!",
			Color:   "#FBBF24",
		}
	case averageQuality >= 3.0:
		return QualityTier{
			Tier:    "Great",
			Emoji:   "⭐",
			Message: "Great balance of fun and learning!",
			Color:   "#60A5FA",
		}
	case averageQuality >= 2.0:
		return QualityTier{
			Tier:    "Good",
			Emoji:   "✨",
			Message: "Good mix today! Try adding more creative activities.",
			Color:   "#A78BFA",
		}
	default:
		return QualityTier{
			Tier:    "Room to Grow",
			Emoji:   "💫",
			Message: "You had fun! Tomorrow, mix in some learning or creative time.",
			Color:   "#F472B6",
		}
	}
}
