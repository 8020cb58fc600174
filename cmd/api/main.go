package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/codementor/codementor-api/internal/container"
	"github.com/codementor/codementor-api/internal/messaging"
	"github.com/codementor/codementor-api/internal/router"
)

func main() {
	_ = godotenv.Load()

	c := container.New()

	h := router.New(router.RouterConfig{
		UserHandler:        c.UserContainer.Handler,
		CourseHandler:      c.CourseContainer.Handler,
		ProgressHandler:    c.ProgressContainer.Handler,
		AchievementHandler: c.AchievementContainer.Handler,
	})

	// With the in-process queue there is no separate worker binary, so
	// achievement sweeps run on a goroutine inside this one.
	if _, ok := c.Queue.(*messaging.MemoryQueue); ok {
		w := messaging.NewWorker(c.Queue, c.AchievementContainer.Service, c.AchievementContainer.Outbox)
		go func() {
			_ = w.Run(context.Background())
		}()
	}

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(httpadapter.New(h).ProxyWithContext)
		return
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logrus.WithField("port", port).Info("Starting HTTP server")
	if err := http.ListenAndServe(":"+port, h); err != nil {
		logrus.WithError(err).Fatal("HTTP server stopped")
	}
}
