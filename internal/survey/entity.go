package survey

import (
	"time"

	"github.com/google/uuid"
)

type Survey struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Questions []Question `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

type Question struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SurveyID         uuid.UUID `gorm:"type:uuid;not null;index" json:"survey_id"`
	Text             string    `gorm:"type:text;not null" json:"text"`
	IsMultipleChoice bool      `gorm:"not null;default:false" json:"is_multiple_choice"`
	OrderIndex       int       `gorm:"not null;default:0" json:"order"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`

	Options []AnswerOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

// CorrectOptionIDs returns the ground-truth option set for grading.
func (q *Question) CorrectOptionIDs() map[uuid.UUID]bool {
	correct := make(map[uuid.UUID]bool)
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct[opt.ID] = true
		}
	}
	return correct
}

// FilterOwnOptionIDs intersects submitted option ids with the options that
// actually belong to this question. Foreign ids are dropped silently; they
// are tolerated, not rejected.
func (q *Question) FilterOwnOptionIDs(ids []uuid.UUID) []uuid.UUID {
	own := make(map[uuid.UUID]bool, len(q.Options))
	for _, opt := range q.Options {
		own[opt.ID] = true
	}

	var filtered []uuid.UUID
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if own[id] && !seen[id] {
			filtered = append(filtered, id)
			seen[id] = true
		}
	}
	return filtered
}

// AnswerOption carries the grading ground truth. IsCorrect is never
// serialized; clients only learn correctness through grading results.
type AnswerOption struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"-"`
}
