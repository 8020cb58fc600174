package progress

import (
	"gorm.io/gorm"

	"github.com/codementor/codementor-api/internal/achievement"
	"github.com/codementor/codementor-api/internal/course"
	"github.com/codementor/codementor-api/internal/messaging"
	"github.com/codementor/codementor-api/internal/survey"
)

type ProgressContainer struct {
	Repo    ProgressRepository
	Service ProgressService
	Handler *Handler
}

func NewProgressContainer(
	db *gorm.DB,
	courseRepo course.CourseRepository,
	surveyRepo survey.SurveyRepository,
	outbox achievement.OutboxRepository,
	queue messaging.Queue,
) *ProgressContainer {
	repo := NewRepository(db)
	service := NewService(db, repo, courseRepo, surveyRepo, outbox, queue)
	handler := NewHandler(service)

	return &ProgressContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
