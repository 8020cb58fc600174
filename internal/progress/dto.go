package progress

import (
	"github.com/google/uuid"

	"github.com/codementor/codementor-api/internal/course"
)

type QuestionSubmission struct {
	QuestionID uuid.UUID   `json:"question_id"`
	AnswerIDs  []uuid.UUID `json:"answers"`
}

type SubmitAnswersRequest struct {
	Questions []QuestionSubmission `json:"questions"`
}

type OptionView struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
	// SelectedBefore flags options the user picked on a previous pass.
	SelectedBefore bool `json:"selected_before"`
}

type QuestionView struct {
	ID               uuid.UUID    `json:"id"`
	Text             string       `json:"text"`
	IsMultipleChoice bool         `json:"is_multiple_choice"`
	Order            int          `json:"order"`
	Status           AnswerStatus `json:"status"`
	Options          []OptionView `json:"options"`
}

type SurveyView struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	IsActive    bool           `json:"is_active"`
	Status      SurveyStatus   `json:"status"`
	Questions   []QuestionView `json:"questions"`
}

type MaterialView struct {
	ID           uuid.UUID               `json:"id"`
	Title        string                  `json:"title"`
	Description  string                  `json:"description,omitempty"`
	Language     course.MaterialLanguage `json:"language"`
	Link         string                  `json:"link,omitempty"`
	MaterialType course.MaterialType     `json:"material_type"`
	Status       MaterialStatus          `json:"status"`
}

type LessonDetailResponse struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Order       int            `json:"order"`
	Materials   []MaterialView `json:"materials"`
	Surveys     []SurveyView   `json:"surveys"`
}

type CourseProgressView struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	ProgressPercent int       `json:"progress_percent"`
}
