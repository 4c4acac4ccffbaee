package services

import (
	"context"
	"log"
	"time"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
	"github.com/kidsbalance/balance-engine/internal/core/scoring"
)

type StatsService struct {
	logRepo     domain.ActivityLogRepository
	summaryRepo domain.DailySummaryRepository
}

func NewStatsService(logRepo domain.ActivityLogRepository, summaryRepo domain.DailySummaryRepository) *StatsService {
	return &StatsService{
		logRepo:     logRepo,
		summaryRepo: summaryRepo,
	}
}

// GetDailyStats computes the stats for one day on demand, straight from
// the day's logs. The stored summary is not consulted for the stats
// themselves (aggregation is cheap and idempotent), only the prior days
// feed the streak.
func (s *StatsService) GetDailyStats(ctx context.Context, userID string, date string) (*domain.DailyStats, error) {
	logs, err := s.logRepo.ListByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	stats, err := scoring.AggregateDailyStats(logs, date)
	if err != nil {
		return nil, err
	}

	stats.Streak = s.streakFor(ctx, userID, date)

	return &stats, nil
}

// GetWeeklyStats rolls up the stored daily summaries of the week starting
// at weekStart (expected to be a Monday, but any anchor works).
func (s *StatsService) GetWeeklyStats(ctx context.Context, userID string, weekStart time.Time) (*domain.WeeklyStats, error) {
	start := weekStart.UTC().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 6)

	summaries, err := s.summaryRepo.ListRange(ctx, userID,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	stats := &domain.WeeklyStats{
		WeekStartDate: start.Format("2006-01-02"),
		BadgesEarned:  []string{},
	}

	totalScore := 0
	seenBadges := make(map[string]bool)

	for _, summary := range summaries {
		if summary.TotalMinutes == 0 {
			continue
		}
		stats.DaysActive++
		stats.TotalMinutes += summary.TotalMinutes
		totalScore += summary.BalanceScore.TotalScore

		for _, id := range summary.BadgesEarned {
			if !seenBadges[id] {
				seenBadges[id] = true
				stats.BadgesEarned = append(stats.BadgesEarned, id)
			}
		}
	}

	if stats.DaysActive > 0 {
		stats.AverageDailyScore = float64(totalScore) / float64(stats.DaysActive)
	}

	return stats, nil
}

// streakFor mirrors the worker's fallback: a streak lookup failure yields
// 1 instead of an error, because the streak is display-only enrichment.
func (s *StatsService) streakFor(ctx context.Context, userID, date string) int {
	prior, err := s.summaryRepo.ListBefore(ctx, userID, date, domain.SummaryLookbackLimit)
	if err != nil {
		log.Printf("Stats streak lookup failed for user %s date %s: %v", userID, date, err)
		return 1
	}
	return scoring.CalculateStreak(date, prior)
}
