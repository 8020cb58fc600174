package survey

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSurveyNotFound   = errors.New("survey not found")
	ErrQuestionNotFound = errors.New("question not found")
)

type SurveyRepository interface {
	// GetInLesson resolves a survey scoped to a lesson through the
	// lesson_surveys join table. A survey attached to a different lesson
	// is reported as not found.
	GetInLesson(surveyID, lessonID uuid.UUID) (*Survey, error)
	ListByLesson(lessonID uuid.UUID) ([]*Survey, error)

	// GetQuestionInSurvey resolves a question scoped to a survey, with its
	// options preloaded. A question under a different survey is reported
	// as not found.
	GetQuestionInSurvey(questionID, surveyID uuid.UUID) (*Question, error)
	ListQuestions(surveyID uuid.UUID) ([]*Question, error)
}

type surveyRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

func (r *surveyRepository) GetInLesson(surveyID, lessonID uuid.UUID) (*Survey, error) {
	var s Survey
	err := r.db.
		Joins("JOIN lesson_surveys ls ON ls.survey_id = surveys.id").
		Where("surveys.id = ? AND ls.lesson_id = ?", surveyID, lessonID).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *surveyRepository) ListByLesson(lessonID uuid.UUID) ([]*Survey, error) {
	var surveys []*Survey
	err := r.db.
		Joins("JOIN lesson_surveys ls ON ls.survey_id = surveys.id").
		Where("ls.lesson_id = ?", lessonID).
		Order("surveys.created_at ASC").
		Find(&surveys).Error
	if err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *surveyRepository) GetQuestionInSurvey(questionID, surveyID uuid.UUID) (*Question, error) {
	var q Question
	err := r.db.
		Preload("Options").
		Where("id = ? AND survey_id = ?", questionID, surveyID).
		First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *surveyRepository) ListQuestions(surveyID uuid.UUID) ([]*Question, error) {
	var questions []*Question
	err := r.db.
		Preload("Options").
		Where("survey_id = ?", surveyID).
		Order("order_index ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}
