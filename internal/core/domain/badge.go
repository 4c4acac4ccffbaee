package domain

// Badge is a static catalog entry evaluated fresh on every aggregation.
// Badges are cumulative: every satisfied condition earns its badge.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Color       string `json:"color"`

	Condition func(stats DailyStats) bool `json:"-"`
}

// BadgeCatalog is the fixed badge rule table, in display order.
var BadgeCatalog = []Badge{
	{
		ID:          "balanced-day",
		Name:        "Balanced Day",
		Description: "Perfect balance across all categories",
		Emoji:       "⚖️",
		Color:       "#10B981",
		Condition: func(stats DailyStats) bool {
			return stats.BalanceScore.TotalScore >= 80
		},
	},
	{
		ID:          "quality-master",
		Name:        "Quality Master",
		Description: "Average quality score above 4.0",
		Emoji:       "🌟",
		Color:       "#FBBF24",
		Condition: func(stats DailyStats) bool {
			return stats.AverageQuality >= 4.0
		},
	},
	{
		ID:          "variety-explorer",
		Name:        "Variety Explorer",
		Description: "Tried 5+ different activities",
		Emoji:       "🎯",
		Color:       "#8B5CF6",
		Condition: func(stats DailyStats) bool {
			return stats.UniqueActivities >= 5
		},
	},
	{
		ID:          "active-day",
		Name:        "Active Day",
		Description: "Logged 3+ hours of activities",
		Emoji:       "💪",
		Color:       "#EF4444",
		Condition: func(stats DailyStats) bool {
			return stats.TotalMinutes >= 180
		},
	},
	{
		ID:          "creative-genius",
		Name:        "Creative Genius",
		Description: "2+ hours of creative activities",
		Emoji:       "🎨",
		Color:       "#EC4899",
		Condition: func(stats DailyStats) bool {
			return stats.CategoryBreakdown[CategoryCreative] >= 120
		},
	},
	{
		ID:          "learning-champion",
		Name:        "Learning Champion",
		Description: "2+ hours of learning activities",
		Emoji:       "📚",
		Color:       "#059669",
		Condition: func(stats DailyStats) bool {
			return stats.CategoryBreakdown[CategoryEducational] >= 120
		},
	},
	{
		ID:          "social-butterfly",
		Name:        "Social Butterfly",
		Description: "2+ hours of social activities",
		Emoji:       "🦋",
		Color:       "#3B82F6",
		Condition: func(stats DailyStats) bool {
			return stats.CategoryBreakdown[CategorySocial] >= 120
		},
	},
	{
		ID:          "physical-power",
		Name:        "Physical Power",
		Description: "2+ hours of physical activities",
		Emoji:       "🏃",
		Color:       "#10B981",
		Condition: func(stats DailyStats) bool {
			return stats.CategoryBreakdown[CategoryPhysical] >= 120
		},
	},
}

// BadgeByID looks a badge up in the catalog, nil when unknown.
func BadgeByID(id string) *Badge {
	for i := range BadgeCatalog {
		if BadgeCatalog[i].ID == id {
			return &BadgeCatalog[i]
		}
	}
	return nil
}
