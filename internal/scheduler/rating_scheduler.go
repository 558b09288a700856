package scheduler

import (
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/metrics"
	"github.com/robfig/cron/v3"
)

const ratingJob = "rating_recompute"

// RatingRecomputer is implemented by service.ReviewService.
type RatingRecomputer interface {
	RecomputeRatings() (int, error)
}

// RatingScheduler recomputes store ratings from approved reviews on a cron spec.
type RatingScheduler struct {
	cron       *cron.Cron
	spec       string
	recomputer RatingRecomputer
	metrics    *metrics.CronJobMetrics
}

// NewRatingScheduler creates the scheduler. m may be nil.
func NewRatingScheduler(spec string, recomputer RatingRecomputer, m *metrics.CronJobMetrics) *RatingScheduler {
	return &RatingScheduler{
		cron:       cron.New(),
		spec:       spec,
		recomputer: recomputer,
		metrics:    m,
	}
}

func (s *RatingScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for rating recompute", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Rating scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce performs a single recompute and records its outcome.
func (s *RatingScheduler) RunOnce() {
	started := time.Now()
	logger.Info("Starting scheduled rating recompute")

	updated, err := s.recomputer.RecomputeRatings()
	s.metrics.ObserveDuration(ratingJob, time.Since(started))
	if err != nil {
		s.metrics.IncFailure(ratingJob)
		logger.Error("Failed to recompute ratings from scheduler", err)
		return
	}

	s.metrics.IncSuccess(ratingJob)
	logger.Info("Recomputed store ratings", map[string]interface{}{
		"updated": updated,
	})
}

// Stop waits for a running job to finish.
func (s *RatingScheduler) Stop() {
	logger.Info("Stopping rating scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Rating scheduler stopped")
}
