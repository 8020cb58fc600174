package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sweepQueueKey = "achievement:sweep"

// RedisQueue is a list-backed queue: LPUSH to enqueue, blocking RPOP to
// consume.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(addr, password string) *RedisQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}

func (q *RedisQueue) EnqueueSweep(ctx context.Context, job SweepJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal sweep job: %w", err)
	}
	return q.client.LPush(ctx, sweepQueueKey, payload).Err()
}

func (q *RedisQueue) DequeueSweep(ctx context.Context) (*SweepJob, error) {
	for {
		res, err := q.client.BRPop(ctx, 5*time.Second, sweepQueueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Timed out with an empty queue; poll again unless
				// the context is gone.
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				continue
			}
			return nil, err
		}
		if len(res) != 2 {
			continue
		}

		var job SweepJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return nil, fmt.Errorf("unmarshal sweep job: %w", err)
		}
		return &job, nil
	}
}
