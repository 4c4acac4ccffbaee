package workers

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
	"github.com/kidsbalance/balance-engine/internal/core/scoring"
	"github.com/kidsbalance/balance-engine/internal/observability"
)

type LogRepository interface {
	ListByUserAndDate(ctx context.Context, userID string, date string) ([]*domain.ActivityLog, error)
}

type SummaryRepository interface {
	Upsert(ctx context.Context, summary *domain.DailySummary) error
	GetByUserAndDate(ctx context.Context, userID string, date string) (*domain.DailySummary, error)
	ListBefore(ctx context.Context, userID string, date string, limit int) ([]*domain.DailySummary, error)
}

// SummaryJob asks for one (user, date) pair to be re-aggregated.
type SummaryJob struct {
	UserID   string
	FamilyID string
	Date     string
}

// SummaryWorker recomputes daily summaries in the background whenever a
// log changes. Recomputation is idempotent, so re-enqueueing the same day
// after a transient failure is always safe.
type SummaryWorker struct {
	logRepo     LogRepository
	summaryRepo SummaryRepository
	jobs        chan SummaryJob
}

func NewSummaryWorker(logRepo LogRepository, summaryRepo SummaryRepository) *SummaryWorker {
	return &SummaryWorker{
		logRepo:     logRepo,
		summaryRepo: summaryRepo,
		jobs:        make(chan SummaryJob, 100),
	}
}

func (w *SummaryWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Summary Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Summary Worker shutting down...")
				return
			}
		}
	}()
}

func (w *SummaryWorker) Enqueue(userID, familyID, date string) {
	select {
	case w.jobs <- SummaryJob{UserID: userID, FamilyID: familyID, Date: date}:
	default:
		observability.SummaryJobsDropped.Inc()
		log.Printf("Summary Worker queue full! Dropping job for user %s date %s", userID, date)
	}
}

func (w *SummaryWorker) processJob(ctx context.Context, job SummaryJob) {
	if err := w.Recompute(ctx, job); err != nil {
		observability.SummaryJobsProcessed.WithLabelValues("error").Inc()
		log.Printf("Worker failed to recompute summary for user %s date %s: %v", job.UserID, job.Date, err)
		return
	}
	observability.SummaryJobsProcessed.WithLabelValues("ok").Inc()
}

// Recompute rebuilds one day's summary from its logs and stores it. It is
// also called synchronously by tests and by the stats service when a
// summary is missing.
func (w *SummaryWorker) Recompute(ctx context.Context, job SummaryJob) error {
	started := time.Now()

	logs, err := w.logRepo.ListByUserAndDate(ctx, job.UserID, job.Date)
	if err != nil {
		return err
	}

	stats, err := scoring.AggregateDailyStats(logs, job.Date)
	if err != nil {
		return err
	}

	stats.Streak = w.streakFor(ctx, job.UserID, job.Date)

	summary := &domain.DailySummary{
		UserID:     job.UserID,
		FamilyID:   job.FamilyID,
		DailyStats: stats,
	}

	if existing, err := w.summaryRepo.GetByUserAndDate(ctx, job.UserID, job.Date); err == nil && existing != nil {
		summary.ID = existing.ID
		summary.CreatedAt = existing.CreatedAt
	} else {
		summary.ID = uuid.NewString()
		summary.CreatedAt = time.Now().UTC()
	}
	summary.UpdatedAt = time.Now().UTC()

	if err := w.summaryRepo.Upsert(ctx, summary); err != nil {
		return err
	}

	observability.AggregationDuration.Observe(time.Since(started).Seconds())
	return nil
}

// streakFor degrades to 1 on any lookup failure: the streak is a display
// enrichment and must never block summary persistence.
func (w *SummaryWorker) streakFor(ctx context.Context, userID, date string) int {
	prior, err := w.summaryRepo.ListBefore(ctx, userID, date, domain.SummaryLookbackLimit)
	if err != nil {
		log.Printf("Worker streak lookup failed for user %s date %s: %v", userID, date, err)
		return 1
	}
	return scoring.CalculateStreak(date, prior)
}
