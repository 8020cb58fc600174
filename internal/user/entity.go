package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FirstName          string    `gorm:"type:text" json:"first_name"`
	LastName           string    `gorm:"type:text" json:"last_name"`
	Email              string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	LearningObjectives string    `gorm:"type:text" json:"learning_objectives,omitempty"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
