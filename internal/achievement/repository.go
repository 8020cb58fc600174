package achievement

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAchievementNotFound = errors.New("achievement not found")

type AchievementRepository interface {
	ListActive() ([]*Achievement, error)
	GetByCode(code Code) (*Achievement, error)
	HasAward(userID, achievementID uuid.UUID) (bool, error)
	// CreateAward inserts the award record, tolerating a concurrent
	// duplicate: the unique (user, achievement) index plus ON CONFLICT DO
	// NOTHING makes the loser a no-op. Returns true when this call created
	// the row.
	CreateAward(award *UserAchievement) (bool, error)
	ListAwardedCodes(userID uuid.UUID) (map[Code]bool, error)
}

type achievementRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) ListActive() ([]*Achievement, error) {
	var achievements []*Achievement
	if err := r.db.
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *achievementRepository) GetByCode(code Code) (*Achievement, error) {
	var a Achievement
	if err := r.db.First(&a, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *achievementRepository) HasAward(userID, achievementID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error
	return count > 0, err
}

func (r *achievementRepository) CreateAward(award *UserAchievement) (bool, error) {
	if award.ID == uuid.Nil {
		award.ID = uuid.New()
	}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(award)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *achievementRepository) ListAwardedCodes(userID uuid.UUID) (map[Code]bool, error) {
	var codes []Code
	err := r.db.Model(&UserAchievement{}).
		Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
		Where("user_achievements.user_id = ?", userID).
		Pluck("achievements.code", &codes).Error
	if err != nil {
		return nil, err
	}

	awarded := make(map[Code]bool, len(codes))
	for _, c := range codes {
		awarded[c] = true
	}
	return awarded, nil
}
