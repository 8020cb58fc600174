package messaging

import "context"

// MemoryQueue is a channel-backed Queue for local runs and tests where no
// Redis is available. Jobs do not survive a restart.
type MemoryQueue struct {
	jobs chan SweepJob
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 128
	}
	return &MemoryQueue{jobs: make(chan SweepJob, size)}
}

func (q *MemoryQueue) EnqueueSweep(ctx context.Context, job SweepJob) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) DequeueSweep(ctx context.Context) (*SweepJob, error) {
	select {
	case job := <-q.jobs:
		return &job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
