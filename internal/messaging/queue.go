package messaging

import (
	"context"

	"github.com/google/uuid"
)

// SweepJob asks the worker to re-evaluate one user's achievements. IntentID
// points back at the outbox row that produced the job.
type SweepJob struct {
	IntentID uuid.UUID `json:"intent_id"`
	UserID   uuid.UUID `json:"user_id"`
	Reason   string    `json:"reason"`
}

// Queue is the fire-and-forget dispatch boundary between the request path
// and the achievement worker. Delivery is at least once; consumers must be
// idempotent.
type Queue interface {
	EnqueueSweep(ctx context.Context, job SweepJob) error
	// DequeueSweep blocks until a job is available or ctx is done.
	DequeueSweep(ctx context.Context) (*SweepJob, error)
}
