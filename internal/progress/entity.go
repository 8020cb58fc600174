package progress

import (
	"time"

	"github.com/google/uuid"

	"github.com/codementor/codementor-api/internal/course"
	"github.com/codementor/codementor-api/internal/survey"
)

// UserCourse is the enrollment record: one row per (user, course), created
// idempotently.
type UserCourse struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_course" json:"user_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_course" json:"course_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Course course.Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

type UserCourseLesson struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserCourseID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_course_lesson" json:"user_course_id"`
	LessonID     uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_course_lesson" json:"lesson_id"`
	Status       LessonStatus `gorm:"type:text;not null;default:NOT_VIEWED" json:"status"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	UserCourse UserCourse    `gorm:"foreignKey:UserCourseID;constraint:OnDelete:CASCADE" json:"-"`
	Lesson     course.Lesson `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"-"`
}

type UserCourseLessonMaterial struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserCourseLessonID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson_material" json:"user_course_lesson_id"`
	MaterialID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson_material" json:"material_id"`
	Status             MaterialStatus `gorm:"type:text;not null;default:NOT_COMPLETED" json:"status"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	UserCourseLesson UserCourseLesson `gorm:"foreignKey:UserCourseLessonID;constraint:OnDelete:CASCADE" json:"-"`
	Material         course.Material  `gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE" json:"-"`
}

// UserCourseSurvey is one user's take on a survey. CompletedAt records the
// last grading pass, whatever its outcome.
type UserCourseSurvey struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserCourseID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_course_survey" json:"user_course_id"`
	SurveyID     uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_course_survey" json:"survey_id"`
	Status       SurveyStatus `gorm:"type:text;not null;default:NOT_COMPLETED_YET" json:"status"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	UserCourse UserCourse    `gorm:"foreignKey:UserCourseID;constraint:OnDelete:CASCADE" json:"-"`
	Survey     survey.Survey `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
}

// UserAnswer holds the current selection for one (take, question) pair. The
// selection is replaced wholesale on every resubmission.
type UserAnswer struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserSurveyID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_survey_question" json:"user_survey_id"`
	QuestionID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_survey_question" json:"question_id"`
	Status       AnswerStatus `gorm:"type:text;not null;default:NOT_COMPLETED_YET" json:"status"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	UserSurvey      UserCourseSurvey      `gorm:"foreignKey:UserSurveyID;constraint:OnDelete:CASCADE" json:"-"`
	Question        survey.Question       `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	SelectedOptions []survey.AnswerOption `gorm:"many2many:user_answer_options" json:"selected_options,omitempty"`
}
