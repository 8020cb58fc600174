package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/codementor/codementor-api/internal/achievement"
)

// Sweeper re-evaluates a user's achievements. Implemented by the achievement
// service.
type Sweeper interface {
	SweepUser(ctx context.Context, userID uuid.UUID) error
}

// Worker drains the sweep queue and runs achievement sweeps. A reaper
// goroutine periodically re-enqueues stale outbox intents whose dispatch was
// lost, so every intent is eventually processed.
type Worker struct {
	queue         Queue
	sweeper       Sweeper
	outbox        achievement.OutboxRepository
	reapInterval  time.Duration
	reapThreshold time.Duration
	reapBatch     int
}

func NewWorker(queue Queue, sweeper Sweeper, outbox achievement.OutboxRepository) *Worker {
	return &Worker{
		queue:         queue,
		sweeper:       sweeper,
		outbox:        outbox,
		reapInterval:  time.Minute,
		reapThreshold: 2 * time.Minute,
		reapBatch:     100,
	}
}

// Run consumes until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	go w.reapLoop(ctx)

	for {
		job, err := w.queue.DequeueSweep(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			logrus.WithError(err).Error("Failed to dequeue sweep job")
			time.Sleep(time.Second)
			continue
		}
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job *SweepJob) {
	log := logrus.WithFields(logrus.Fields{
		"intent_id": job.IntentID,
		"user_id":   job.UserID,
		"reason":    job.Reason,
	})

	if err := w.sweeper.SweepUser(ctx, job.UserID); err != nil {
		// Leave the intent pending; the reaper retries it.
		log.WithError(err).Error("Achievement sweep failed")
		return
	}

	if err := w.outbox.MarkProcessed(job.IntentID, time.Now()); err != nil {
		log.WithError(err).Error("Failed to mark sweep intent processed")
		return
	}
	log.Info("Achievement sweep completed")
}

func (w *Worker) reapLoop(ctx context.Context) {
	ticker := time.NewTicker(w.reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.reapOnce(ctx)
		}
	}
}

// reapOnce re-enqueues intents that have sat unprocessed past the threshold.
// A duplicate enqueue is harmless: sweeps are idempotent and MarkProcessed
// only fires once.
func (w *Worker) reapOnce(ctx context.Context) {
	stale, err := w.outbox.ListStale(time.Now().Add(-w.reapThreshold), w.reapBatch)
	if err != nil {
		logrus.WithError(err).Error("Failed to list stale sweep intents")
		return
	}

	for _, intent := range stale {
		job := SweepJob{
			IntentID: intent.ID,
			UserID:   intent.UserID,
			Reason:   intent.Reason,
		}
		if err := w.queue.EnqueueSweep(ctx, job); err != nil {
			logrus.WithError(err).WithField("intent_id", intent.ID).Error("Failed to re-enqueue stale sweep intent")
			return
		}
	}
	if len(stale) > 0 {
		logrus.WithField("count", len(stale)).Warn("Re-enqueued stale sweep intents")
	}
}
