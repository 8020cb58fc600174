package container

import (
	"context"
	"log"
	"os"

	"github.com/codementor/codementor-api/internal/achievement"
	"github.com/codementor/codementor-api/internal/auth"
	"github.com/codementor/codementor-api/internal/config"
	"github.com/codementor/codementor-api/internal/course"
	"github.com/codementor/codementor-api/internal/database"
	"github.com/codementor/codementor-api/internal/messaging"
	"github.com/codementor/codementor-api/internal/progress"
	"github.com/codementor/codementor-api/internal/survey"
	"github.com/codementor/codementor-api/internal/user"
)

type Container struct {
	Queue                messaging.Queue
	UserContainer        *user.UserContainer
	CourseContainer      *course.CourseContainer
	ProgressContainer    *progress.ProgressContainer
	AchievementContainer *achievement.AchievementContainer
}

func New() *Container {
	config.Init()
	auth.Init()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(context.Background(), dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := database.AutoMigrate(config.DB); err != nil {
		log.Fatalf("failed to migrate DB: %v", err)
	}
	if err := database.Seed(config.DB); err != nil {
		log.Fatalf("failed to seed DB: %v", err)
	}

	queue := newQueue()

	userContainer := user.NewUserContainer(config.DB)
	courseRepo := course.NewRepository(config.DB)
	surveyRepo := survey.NewRepository(config.DB)
	outbox := achievement.NewOutboxRepository(config.DB)

	progressContainer := progress.NewProgressContainer(config.DB, courseRepo, surveyRepo, outbox, queue)
	achievementContainer := achievement.NewAchievementContainer(config.DB, userContainer.Repo, progressContainer.Service)
	courseContainer := course.NewCourseContainer(config.DB, progressContainer.Service)

	return &Container{
		Queue:                queue,
		UserContainer:        userContainer,
		CourseContainer:      courseContainer,
		ProgressContainer:    progressContainer,
		AchievementContainer: achievementContainer,
	}
}

// newQueue picks Redis when REDIS_ADDR is set, otherwise an in-process
// queue. The in-process queue only feeds a worker running in the same
// binary; deployments with a separate worker need Redis.
func newQueue() messaging.Queue {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return messaging.NewMemoryQueue(0)
	}

	q := messaging.NewRedisQueue(addr, os.Getenv("REDIS_PASSWORD"))
	if err := q.Ping(context.Background()); err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	return q
}
