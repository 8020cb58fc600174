package achievement

import (
	"gorm.io/gorm"

	"github.com/codementor/codementor-api/internal/user"
)

type AchievementContainer struct {
	Repo    AchievementRepository
	Outbox  OutboxRepository
	Service AchievementService
	Handler *Handler
}

func NewAchievementContainer(db *gorm.DB, userRepo user.UserRepository, ledger Ledger) *AchievementContainer {
	repo := NewRepository(db)
	outbox := NewOutboxRepository(db)
	service := NewService(repo, userRepo, ledger)
	handler := NewHandler(service)

	return &AchievementContainer{
		Repo:    repo,
		Outbox:  outbox,
		Service: service,
		Handler: handler,
	}
}
