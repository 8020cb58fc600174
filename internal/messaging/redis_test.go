package messaging

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisQueue(t *testing.T) *RedisQueue {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis queue tests")
	}

	q := NewRedisQueue(addr, os.Getenv("TEST_REDIS_PASSWORD"))
	require.NoError(t, q.Ping(context.Background()))
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestRedisQueueRoundTrip(t *testing.T) {
	q := redisQueue(t)

	jobs := []SweepJob{
		{IntentID: uuid.New(), UserID: uuid.New(), Reason: "enrolled"},
		{IntentID: uuid.New(), UserID: uuid.New(), Reason: "survey_completed"},
	}
	for _, job := range jobs {
		require.NoError(t, q.EnqueueSweep(context.Background(), job))
	}

	// FIFO: LPUSH + BRPOP drains in enqueue order.
	for _, want := range jobs {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		got, err := q.DequeueSweep(ctx)
		cancel()
		require.NoError(t, err)
		assert.Equal(t, want, *got)
	}
}
