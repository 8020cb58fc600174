package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/codementor/codementor-api/internal/container"
	"github.com/codementor/codementor-api/internal/messaging"
)

// The worker consumes achievement sweep jobs from Redis and re-evaluates
// users' achievements. Run it alongside the API whenever REDIS_ADDR is set;
// without Redis the API handles sweeps in-process and this binary is not
// needed.
func main() {
	_ = godotenv.Load()

	c := container.New()

	if _, ok := c.Queue.(*messaging.MemoryQueue); ok {
		logrus.Fatal("REDIS_ADDR must be set for a standalone worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := messaging.NewWorker(c.Queue, c.AchievementContainer.Service, c.AchievementContainer.Outbox)

	logrus.Info("Starting achievement worker")
	if err := w.Run(ctx); err != nil {
		logrus.WithError(err).Error("Worker stopped with error")
		os.Exit(1)
	}
	logrus.Info("Worker shut down")
}
