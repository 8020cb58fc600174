package progress

import (
	"math"

	"github.com/google/uuid"
)

// answerStatus grades one question: an empty selection is unanswered, an
// exact match with the correct set passes, anything else fails.
func answerStatus(selected []uuid.UUID, correct map[uuid.UUID]bool) AnswerStatus {
	if len(selected) == 0 {
		return AnswerNotCompletedYet
	}
	if len(selected) != len(correct) {
		return AnswerCompletedWithFails
	}
	for _, id := range selected {
		if !correct[id] {
			return AnswerCompletedWithFails
		}
	}
	return AnswerCompleted
}

// surveyStatus derives the take's status from its answers: any unanswered
// question keeps the whole take open, any failed answer marks it completed
// with fails, otherwise it is completed.
func surveyStatus(answers []AnswerStatus) SurveyStatus {
	for _, st := range answers {
		if st == AnswerNotCompletedYet {
			return SurveyNotCompletedYet
		}
	}
	for _, st := range answers {
		if st == AnswerCompletedWithFails {
			return SurveyCompletedWithFails
		}
	}
	return SurveyCompleted
}

// rollupLessonStatus recomputes a lesson's status from the user's takes on
// the lesson's surveys. With zero surveys the viewing lifecycle owns the
// status and ok is false. A take that completed with fails keeps the lesson
// in progress: the user may resubmit.
func rollupLessonStatus(surveyCount int, takes []SurveyStatus) (status LessonStatus, ok bool) {
	if surveyCount == 0 {
		return "", false
	}
	if len(takes) < surveyCount {
		return LessonInProgress, true
	}
	for _, st := range takes {
		if st != SurveyCompleted {
			return LessonInProgress, true
		}
	}
	return LessonCompleted, true
}

// progressSteps accumulates the completion fraction of one course. Lessons
// and their surveys count as independent steps.
type progressSteps struct {
	total     int
	completed int
}

func (p *progressSteps) addLesson(completed bool) {
	p.total++
	if completed {
		p.completed++
	}
}

func (p *progressSteps) addSurveys(total, completed int) {
	p.total += total
	p.completed += completed
}

// percent returns the rounded completion percentage, 0 for an empty course.
func (p *progressSteps) percent() int {
	if p.total == 0 {
		return 0
	}
	return int(math.Round(float64(p.completed) / float64(p.total) * 100))
}
