package worker

import (
	"context"
	"time"

	"chekinn_server/core/port/out"
	"chekinn_server/core/service/reputation"
	"chekinn_server/pkg/logger"
)

// DecayScheduler periodically enqueues decay checks for inactive users. Runs
// only in worker mode; decay must never be triggered by user requests, since
// a user-driven decay check would mask the inactivity it measures.
type DecayScheduler struct {
	reputation *reputation.Service
	producer   out.JobProducer
	interval   time.Duration
	graceDays  int
	batchSize  int
}

// NewDecayScheduler creates a new DecayScheduler.
func NewDecayScheduler(svc *reputation.Service, producer out.JobProducer, interval time.Duration, graceDays, batchSize int) *DecayScheduler {
	return &DecayScheduler{
		reputation: svc,
		producer:   producer,
		interval:   interval,
		graceDays:  graceDays,
		batchSize:  batchSize,
	}
}

// Run sweeps on a ticker until the context is cancelled. One sweep runs
// immediately at startup so a restarted worker does not wait a full interval.
func (s *DecayScheduler) Run(ctx context.Context) {
	logger.Info("decay scheduler started: interval %s, grace %d days", s.interval, s.graceDays)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("decay scheduler stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *DecayScheduler) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.graceDays)
	s.reputation.RunDecaySweep(ctx, cutoff, s.batchSize, s.producer.PublishDecayCheck)
}
