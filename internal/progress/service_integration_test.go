package progress_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/codementor/codementor-api/internal/achievement"
	coursepkg "github.com/codementor/codementor-api/internal/course"
	"github.com/codementor/codementor-api/internal/messaging"
	"github.com/codementor/codementor-api/internal/progress"
	surveypkg "github.com/codementor/codementor-api/internal/survey"
	"github.com/codementor/codementor-api/internal/testutil"
	userpkg "github.com/codementor/codementor-api/internal/user"
)

type fixture struct {
	user     userpkg.User
	course   coursepkg.Course
	lesson   coursepkg.Lesson
	material coursepkg.Material
	survey   surveypkg.Survey
	q1, q2   surveypkg.Question
}

// seedFixture creates a published course with one lesson holding one
// material and one survey. The survey has a single-choice question (first
// option correct) and a multiple-choice question (first two of three
// correct).
func seedFixture(t *testing.T, tx *gorm.DB) fixture {
	t.Helper()

	var f fixture

	f.user = userpkg.User{FirstName: "Ada", LastName: "Lovelace", Email: uuid.NewString() + "@example.com"}
	require.NoError(t, tx.Create(&f.user).Error)

	f.survey = surveypkg.Survey{Title: "Basics check", IsActive: true}
	require.NoError(t, tx.Create(&f.survey).Error)

	f.q1 = surveypkg.Question{
		SurveyID:   f.survey.ID,
		Text:       "What does := do?",
		OrderIndex: 1,
		Options: []surveypkg.AnswerOption{
			{Text: "Declares and assigns", IsCorrect: true},
			{Text: "Compares"},
		},
	}
	require.NoError(t, tx.Create(&f.q1).Error)

	f.q2 = surveypkg.Question{
		SurveyID:         f.survey.ID,
		Text:             "Which are built-in types?",
		IsMultipleChoice: true,
		OrderIndex:       2,
		Options: []surveypkg.AnswerOption{
			{Text: "int", IsCorrect: true},
			{Text: "string", IsCorrect: true},
			{Text: "decimal"},
		},
	}
	require.NoError(t, tx.Create(&f.q2).Error)

	f.course = coursepkg.Course{Title: "Go Basics " + uuid.NewString()[:8], IsPublished: true}
	require.NoError(t, tx.Create(&f.course).Error)

	module := coursepkg.Module{CourseID: f.course.ID, Title: "Introduction", OrderIndex: 1}
	require.NoError(t, tx.Create(&module).Error)

	f.lesson = coursepkg.Lesson{ModuleID: module.ID, Title: "Variables", OrderIndex: 1}
	require.NoError(t, tx.Create(&f.lesson).Error)
	require.NoError(t, tx.Model(&f.lesson).Association("Surveys").Append(&f.survey))

	f.material = coursepkg.Material{
		LessonID:     f.lesson.ID,
		Title:        "Variables article",
		Language:     coursepkg.MaterialLanguageENG,
		MaterialType: coursepkg.MaterialTypeText,
	}
	require.NoError(t, tx.Create(&f.material).Error)

	return f
}

func newService(tx *gorm.DB) progress.ProgressService {
	return progress.NewService(
		tx,
		progress.NewRepository(tx),
		coursepkg.NewRepository(tx),
		surveypkg.NewRepository(tx),
		achievement.NewOutboxRepository(tx),
		messaging.NewMemoryQueue(16),
	)
}

func correctSubmission(f fixture) []progress.QuestionSubmission {
	return []progress.QuestionSubmission{
		{QuestionID: f.q1.ID, AnswerIDs: []uuid.UUID{f.q1.Options[0].ID}},
		{QuestionID: f.q2.ID, AnswerIDs: []uuid.UUID{f.q2.Options[0].ID, f.q2.Options[1].ID}},
	}
}

func lessonRowStatus(t *testing.T, tx *gorm.DB, f fixture) progress.LessonStatus {
	t.Helper()
	var uc progress.UserCourse
	require.NoError(t, tx.Where("user_id = ? AND course_id = ?", f.user.ID, f.course.ID).First(&uc).Error)
	var ucl progress.UserCourseLesson
	require.NoError(t, tx.Where("user_course_id = ? AND lesson_id = ?", uc.ID, f.lesson.ID).First(&ucl).Error)
	return ucl.Status
}

func intentReasons(t *testing.T, tx *gorm.DB, userID uuid.UUID) []string {
	t.Helper()
	var reasons []string
	require.NoError(t, tx.Model(&achievement.SweepIntent{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("reason", &reasons).Error)
	return reasons
}

func TestEnroll(t *testing.T) {
	db := testutil.DB(t)

	t.Run("Idempotent", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		f := seedFixture(t, tx)
		svc := newService(tx)

		first, err := svc.Enroll(context.Background(), f.user.ID, f.course.Slug)
		require.NoError(t, err)

		second, err := svc.Enroll(context.Background(), f.user.ID, f.course.Slug)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		require.NoError(t, tx.Model(&progress.UserCourse{}).
			Where("user_id = ?", f.user.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)

		// Only the enrollment that actually inserted leaves an intent.
		assert.Equal(t, []string{achievement.SweepReasonEnrolled}, intentReasons(t, tx, f.user.ID))
	})

	t.Run("UnpublishedCourseNotFound", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		f := seedFixture(t, tx)
		require.NoError(t, tx.Model(&coursepkg.Course{}).
			Where("id = ?", f.course.ID).Update("is_published", false).Error)
		svc := newService(tx)

		_, err := svc.Enroll(context.Background(), f.user.ID, f.course.Slug)
		assert.ErrorIs(t, err, coursepkg.ErrCourseNotFound)
	})
}

func TestSubmitSurveyAnswers(t *testing.T) {
	db := testutil.DB(t)

	t.Run("CorrectAnswersCompleteSurveyAndLesson", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		f := seedFixture(t, tx)
		svc := newService(tx)

		view, err := svc.SubmitSurveyAnswers(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID, f.survey.ID, correctSubmission(f))
		require.NoError(t, err)
		assert.Equal(t, progress.SurveyCompleted, view.Status)

		var take progress.UserCourseSurvey
		require.NoError(t, tx.Where("survey_id = ?", f.survey.ID).First(&take).Error)
		assert.Equal(t, progress.SurveyCompleted, take.Status)
		assert.NotNil(t, take.CompletedAt)

		assert.Equal(t, progress.LessonCompleted, lessonRowStatus(t, tx, f))

		reasons := intentReasons(t, tx, f.user.ID)
		assert.Contains(t, reasons, achievement.SweepReasonEnrolled)
		assert.Contains(t, reasons, achievement.SweepReasonSurveyCompleted)
		assert.Contains(t, reasons, achievement.SweepReasonLessonCompleted)
	})

	t.Run("WrongSelectionCompletesWithFails", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		f := seedFixture(t, tx)
		svc := newService(tx)

		subs := []progress.QuestionSubmission{
			{QuestionID: f.q1.ID, AnswerIDs: []uuid.UUID{f.q1.Options[1].ID}},
			{QuestionID: f.q2.ID, AnswerIDs: []uuid.UUID{f.q2.Options[0].ID, f.q2.Options[1].ID}},
		}
		view, err := svc.SubmitSurveyAnswers(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID, f.survey.ID, subs)
		require.NoError(t, err)
		assert.Equal(t, progress.SurveyCompletedWithFails, view.Status)

		// A failed take keeps the lesson open for resubmission.
		assert.Equal(t, progress.LessonInProgress, lessonRowStatus(t, tx, f))
		assert.NotContains(t, intentReasons(t, tx, f.user.ID), achievement.SweepReasonSurveyCompleted)
	})

	t.Run("EmptySelectionKeepsSurveyOpen", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		f := seedFixture(t, tx)
		svc := newService(tx)

		subs := []progress.QuestionSubmission{
			{QuestionID: f.q1.ID, AnswerIDs: []uuid.UUID{f.q1.Options[0].ID}},
			{QuestionID: f.q2.ID},
		}
		view, err := svc.SubmitSurveyAnswers(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID, f.survey.ID, subs)
		require.NoError(t, err)
		assert.Equal(t, progress.SurveyNotCompletedYet, view.Status)
	})

	t.Run("ForeignOptionIDsSilentlyDropped", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		f := seedFixture(t, tx)
		svc := newService(tx)

		subs := correctSubmission(f)
		subs[0].AnswerIDs = append(subs[0].AnswerIDs, uuid.New())
		view, err := svc.SubmitSurveyAnswers(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID, f.survey.ID, subs)
		require.NoError(t, err)
		assert.Equal(t, progress.SurveyCompleted, view.Status)
	})

	t.Run("ResubmissionReplacesStaleAnswers", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		f := seedFixture(t, tx)
		svc := newService(tx)

		_, err := svc.SubmitSurveyAnswers(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID, f.survey.ID, correctSubmission(f))
		require.NoError(t, err)

		// Resubmit only the first question: the second question's answer
		// row must go away.
		subs := []progress.QuestionSubmission{
			{QuestionID: f.q1.ID, AnswerIDs: []uuid.UUID{f.q1.Options[0].ID}},
		}
		_, err = svc.SubmitSurveyAnswers(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID, f.survey.ID, subs)
		require.NoError(t, err)

		var take progress.UserCourseSurvey
		require.NoError(t, tx.Where("survey_id = ?", f.survey.ID).First(&take).Error)
		var count int64
		require.NoError(t, tx.Model(&progress.UserAnswer{}).
			Where("user_survey_id = ?", take.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("NilQuestionIDRejected", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		f := seedFixture(t, tx)
		svc := newService(tx)

		subs := []progress.QuestionSubmission{{AnswerIDs: []uuid.UUID{f.q1.Options[0].ID}}}
		_, err := svc.SubmitSurveyAnswers(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID, f.survey.ID, subs)
		assert.ErrorIs(t, err, progress.ErrValidation)
	})

	t.Run("UnknownQuestionRejected", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		f := seedFixture(t, tx)
		svc := newService(tx)

		subs := []progress.QuestionSubmission{{QuestionID: uuid.New()}}
		_, err := svc.SubmitSurveyAnswers(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID, f.survey.ID, subs)
		assert.ErrorIs(t, err, surveypkg.ErrQuestionNotFound)
	})
}

func TestLessonViewingLifecycle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	f := seedFixture(t, tx)
	svc := newService(tx)

	detail, err := svc.GetLessonDetail(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID)
	require.NoError(t, err)
	require.Len(t, detail.Materials, 1)
	assert.Equal(t, progress.MaterialNotCompleted, detail.Materials[0].Status)
	require.Len(t, detail.Surveys, 1)

	// First visit marks the lesson viewed and enrolls implicitly.
	assert.Equal(t, progress.LessonViewed, lessonRowStatus(t, tx, f))

	require.NoError(t, svc.CompleteMaterial(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID, f.material.ID))
	assert.Equal(t, progress.LessonInProgress, lessonRowStatus(t, tx, f))

	// Completing again is a no-op.
	require.NoError(t, svc.CompleteMaterial(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID, f.material.ID))

	detail, err = svc.GetLessonDetail(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, progress.MaterialCompleted, detail.Materials[0].Status)
}

func TestCourseProgress(t *testing.T) {
	db := testutil.DB(t)

	t.Run("NotEnrolled", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		f := seedFixture(t, tx)
		svc := newService(tx)

		_, err := svc.CourseProgress(context.Background(), f.user.ID, f.course.Slug)
		assert.ErrorIs(t, err, progress.ErrNotEnrolled)
	})

	t.Run("TracksSteps", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		f := seedFixture(t, tx)
		svc := newService(tx)

		_, err := svc.Enroll(context.Background(), f.user.ID, f.course.Slug)
		require.NoError(t, err)

		view, err := svc.CourseProgress(context.Background(), f.user.ID, f.course.Slug)
		require.NoError(t, err)
		assert.Equal(t, 0, view.ProgressPercent)

		_, err = svc.SubmitSurveyAnswers(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID, f.survey.ID, correctSubmission(f))
		require.NoError(t, err)

		view, err = svc.CourseProgress(context.Background(), f.user.ID, f.course.Slug)
		require.NoError(t, err)
		assert.Equal(t, 100, view.ProgressPercent)

		list, err := svc.ListCourseProgress(context.Background(), f.user.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, f.course.Slug, list[0].Slug)
		assert.Equal(t, 100, list[0].ProgressPercent)
	})
}

func TestSnapshot(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	f := seedFixture(t, tx)
	svc := newService(tx)

	snap, err := svc.Snapshot(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, achievement.LedgerSnapshot{}, snap)

	_, err = svc.SubmitSurveyAnswers(context.Background(), f.user.ID, f.course.Slug, f.lesson.ID, f.survey.ID, correctSubmission(f))
	require.NoError(t, err)

	snap, err = svc.Snapshot(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, achievement.LedgerSnapshot{Enrollments: 1, CompletedSurveys: 1, CompletedLessons: 1}, snap)
}
