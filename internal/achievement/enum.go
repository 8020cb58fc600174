package achievement

type Code string

const (
	CodeEnrollFirstCourse Code = "ENROLL_FIRST_COURSE"

	CodeCompleteFirstSurvey Code = "COMPLETE_FIRST_SURVEY"
	CodeCompleteFiveSurveys Code = "COMPLETE_FIVE_SURVEYS"
	CodeCompleteTenSurveys  Code = "COMPLETE_TEN_SURVEYS"

	CodeCompleteFirstLesson Code = "COMPLETE_FIRST_LESSON"
	CodeCompleteFiveLessons Code = "COMPLETE_FIVE_LESSONS"
	CodeCompleteTenLessons  Code = "COMPLETE_TEN_LESSONS"
)

var AllCodes = []Code{
	CodeEnrollFirstCourse,
	CodeCompleteFirstSurvey,
	CodeCompleteFiveSurveys,
	CodeCompleteTenSurveys,
	CodeCompleteFirstLesson,
	CodeCompleteFiveLessons,
	CodeCompleteTenLessons,
}

func (c Code) IsValid() bool {
	_, ok := checks[c]
	return ok
}
