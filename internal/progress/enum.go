package progress

// LessonStatus tracks a user's traversal of one lesson. It only ever
// advances: NOT_VIEWED -> VIEWED -> IN_PROGRESS -> COMPLETED.
type LessonStatus string

const (
	LessonNotViewed  LessonStatus = "NOT_VIEWED"
	LessonViewed     LessonStatus = "VIEWED"
	LessonInProgress LessonStatus = "IN_PROGRESS"
	LessonCompleted  LessonStatus = "COMPLETED"
)

var AllLessonStatuses = []LessonStatus{
	LessonNotViewed,
	LessonViewed,
	LessonInProgress,
	LessonCompleted,
}

func (s LessonStatus) IsValid() bool {
	for _, v := range AllLessonStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type MaterialStatus string

const (
	MaterialNotCompleted MaterialStatus = "NOT_COMPLETED"
	MaterialCompleted    MaterialStatus = "COMPLETED"
)

// SurveyStatus is the grading outcome of a survey take. Fully determined by
// the statuses of the take's answers at the last grading pass.
type SurveyStatus string

const (
	SurveyNotCompletedYet    SurveyStatus = "NOT_COMPLETED_YET"
	SurveyCompletedWithFails SurveyStatus = "COMPLETED_WITH_FAILS"
	SurveyCompleted          SurveyStatus = "COMPLETED"
)

// AnswerStatus mirrors the survey vocabulary at question granularity.
type AnswerStatus string

const (
	AnswerNotCompletedYet    AnswerStatus = "NOT_COMPLETED_YET"
	AnswerCompletedWithFails AnswerStatus = "COMPLETED_WITH_FAILS"
	AnswerCompleted          AnswerStatus = "COMPLETED"
)
