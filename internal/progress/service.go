package progress

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codementor/codementor-api/internal/achievement"
	"github.com/codementor/codementor-api/internal/config"
	"github.com/codementor/codementor-api/internal/course"
	"github.com/codementor/codementor-api/internal/messaging"
	"github.com/codementor/codementor-api/internal/survey"
)

var (
	ErrValidation  = errors.New("invalid submission")
	ErrNotEnrolled = errors.New("user is not enrolled in course")
)

type ProgressService interface {
	// Enroll links a user to a course, returning the existing enrollment
	// when one is already present.
	Enroll(ctx context.Context, userID uuid.UUID, courseSlug string) (*UserCourse, error)
	GetLessonDetail(ctx context.Context, userID uuid.UUID, courseSlug string, lessonID uuid.UUID) (*LessonDetailResponse, error)
	CompleteMaterial(ctx context.Context, userID uuid.UUID, courseSlug string, lessonID, materialID uuid.UUID) error
	// SubmitSurveyAnswers runs one grading pass over the submitted
	// question batch and returns the refreshed survey snapshot.
	SubmitSurveyAnswers(ctx context.Context, userID uuid.UUID, courseSlug string, lessonID, surveyID uuid.UUID, submissions []QuestionSubmission) (*SurveyView, error)
	// CourseProgress computes the percent-complete for one enrollment.
	CourseProgress(ctx context.Context, userID uuid.UUID, courseSlug string) (*CourseProgressView, error)
	ListCourseProgress(ctx context.Context, userID uuid.UUID) ([]*CourseProgressView, error)

	// Enroller surface consumed by the course catalog.
	EnrollOnVisit(ctx context.Context, userID, courseID uuid.UUID, lessonIDs []uuid.UUID) error
	IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	LessonStatuses(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (map[uuid.UUID]string, error)

	// Snapshot implements achievement.Ledger.
	Snapshot(ctx context.Context, userID uuid.UUID) (achievement.LedgerSnapshot, error)
}

type progressService struct {
	db         *gorm.DB
	repo       ProgressRepository
	courseRepo course.CourseRepository
	surveyRepo survey.SurveyRepository
	outbox     achievement.OutboxRepository
	queue      messaging.Queue
}

func NewService(
	db *gorm.DB,
	repo ProgressRepository,
	courseRepo course.CourseRepository,
	surveyRepo survey.SurveyRepository,
	outbox achievement.OutboxRepository,
	queue messaging.Queue,
) ProgressService {
	return &progressService{
		db:         db,
		repo:       repo,
		courseRepo: courseRepo,
		surveyRepo: surveyRepo,
		outbox:     outbox,
		queue:      queue,
	}
}

// dispatchIntents hands committed sweep intents to the queue. Enqueue
// failures are only logged: the pending outbox rows stay behind and the
// worker's reaper re-enqueues them.
func (s *progressService) dispatchIntents(ctx context.Context, intents []*achievement.SweepIntent) {
	log := config.WithContext(ctx)
	for _, intent := range intents {
		job := messaging.SweepJob{
			IntentID: intent.ID,
			UserID:   intent.UserID,
			Reason:   intent.Reason,
		}
		if err := s.queue.EnqueueSweep(ctx, job); err != nil {
			log.WithError(err).WithField("intent_id", intent.ID).Warn("Failed to enqueue achievement sweep, reaper will retry")
		}
	}
}

func (s *progressService) Enroll(ctx context.Context, userID uuid.UUID, courseSlug string) (*UserCourse, error) {
	log := config.WithContext(ctx)

	c, err := s.courseRepo.GetPublishedBySlug(courseSlug)
	if err != nil {
		return nil, err
	}

	var (
		uc      *UserCourse
		intents []*achievement.SweepIntent
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		r := s.repo.InTx(tx)

		var created bool
		uc, created, err = r.GetOrCreateUserCourse(userID, c.ID)
		if err != nil {
			return err
		}
		if created {
			intent := &achievement.SweepIntent{UserID: userID, Reason: achievement.SweepReasonEnrolled}
			if err := s.outbox.CreateInTx(tx, intent); err != nil {
				return err
			}
			intents = append(intents, intent)
		}
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("course_id", c.ID).Error("Failed to enroll user")
		return nil, err
	}

	s.dispatchIntents(ctx, intents)
	return uc, nil
}

func (s *progressService) EnrollOnVisit(ctx context.Context, userID, courseID uuid.UUID, lessonIDs []uuid.UUID) error {
	var intents []*achievement.SweepIntent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		r := s.repo.InTx(tx)

		uc, created, err := r.GetOrCreateUserCourse(userID, courseID)
		if err != nil {
			return err
		}
		if created {
			intent := &achievement.SweepIntent{UserID: userID, Reason: achievement.SweepReasonEnrolled}
			if err := s.outbox.CreateInTx(tx, intent); err != nil {
				return err
			}
			intents = append(intents, intent)
		}
		return r.CreateMissingLessonRows(uc.ID, lessonIDs)
	})
	if err != nil {
		return err
	}

	s.dispatchIntents(ctx, intents)
	return nil
}

func (s *progressService) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	uc, err := s.repo.GetUserCourse(userID, courseID)
	if err != nil {
		return false, err
	}
	return uc != nil, nil
}

func (s *progressService) LessonStatuses(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	statuses, err := s.repo.LessonStatuses(userID, lessonIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]string, len(statuses))
	for id, st := range statuses {
		out[id] = string(st)
	}
	return out, nil
}

func (s *progressService) GetLessonDetail(ctx context.Context, userID uuid.UUID, courseSlug string, lessonID uuid.UUID) (*LessonDetailResponse, error) {
	log := config.WithContext(ctx)

	c, err := s.courseRepo.GetBySlug(courseSlug)
	if err != nil {
		return nil, err
	}
	lesson, err := s.courseRepo.GetLessonInCourse(lessonID, c.ID)
	if err != nil {
		return nil, err
	}

	var (
		ucl     *UserCourseLesson
		ucID    uuid.UUID
		intents []*achievement.SweepIntent
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		r := s.repo.InTx(tx)

		uc, created, err := r.GetOrCreateUserCourse(userID, c.ID)
		if err != nil {
			return err
		}
		ucID = uc.ID
		if created {
			intent := &achievement.SweepIntent{UserID: userID, Reason: achievement.SweepReasonEnrolled}
			if err := s.outbox.CreateInTx(tx, intent); err != nil {
				return err
			}
			intents = append(intents, intent)
		}

		ucl, _, err = r.GetOrCreateLessonRow(uc.ID, lesson.ID)
		if err != nil {
			return err
		}
		if ucl.Status == LessonNotViewed {
			ucl.Status = LessonViewed
			if err := r.SaveLessonRow(ucl); err != nil {
				return err
			}
		}

		materialIDs := make([]uuid.UUID, 0, len(lesson.Materials))
		for _, m := range lesson.Materials {
			materialIDs = append(materialIDs, m.ID)
		}
		return r.CreateMissingMaterialRows(ucl.ID, materialIDs)
	})
	if err != nil {
		log.WithError(err).WithField("lesson_id", lessonID).Error("Failed to record lesson view")
		return nil, err
	}

	s.dispatchIntents(ctx, intents)

	materialStatuses, err := s.repo.MaterialStatuses(ucl.ID)
	if err != nil {
		return nil, err
	}

	resp := &LessonDetailResponse{
		ID:          lesson.ID,
		Title:       lesson.Title,
		Description: lesson.Description,
		Order:       lesson.OrderIndex,
		Materials:   make([]MaterialView, 0, len(lesson.Materials)),
		Surveys:     []SurveyView{},
	}
	for _, m := range lesson.Materials {
		mv := MaterialView{
			ID:           m.ID,
			Title:        m.Title,
			Description:  m.Description,
			Language:     m.Language,
			Link:         m.Link,
			MaterialType: m.MaterialType,
			Status:       MaterialNotCompleted,
		}
		if st, ok := materialStatuses[m.ID]; ok {
			mv.Status = st
		}
		resp.Materials = append(resp.Materials, mv)
	}

	lessonSurveys, err := s.surveyRepo.ListByLesson(lesson.ID)
	if err != nil {
		return nil, err
	}
	for _, sv := range lessonSurveys {
		view, err := s.buildSurveyView(ucID, sv)
		if err != nil {
			return nil, err
		}
		resp.Surveys = append(resp.Surveys, *view)
	}
	return resp, nil
}

func (s *progressService) CompleteMaterial(ctx context.Context, userID uuid.UUID, courseSlug string, lessonID, materialID uuid.UUID) error {
	log := config.WithContext(ctx)

	c, err := s.courseRepo.GetBySlug(courseSlug)
	if err != nil {
		return err
	}
	lesson, err := s.courseRepo.GetLessonInCourse(lessonID, c.ID)
	if err != nil {
		return err
	}
	material, err := s.courseRepo.GetMaterialInLesson(materialID, lesson.ID)
	if err != nil {
		return err
	}

	var intents []*achievement.SweepIntent
	err = s.db.Transaction(func(tx *gorm.DB) error {
		r := s.repo.InTx(tx)

		uc, created, err := r.GetOrCreateUserCourse(userID, c.ID)
		if err != nil {
			return err
		}
		if created {
			intent := &achievement.SweepIntent{UserID: userID, Reason: achievement.SweepReasonEnrolled}
			if err := s.outbox.CreateInTx(tx, intent); err != nil {
				return err
			}
			intents = append(intents, intent)
		}

		ucl, _, err := r.GetOrCreateLessonRow(uc.ID, lesson.ID)
		if err != nil {
			return err
		}

		row, _, err := r.GetOrCreateMaterialRow(ucl.ID, material.ID)
		if err != nil {
			return err
		}
		if row.Status != MaterialCompleted {
			row.Status = MaterialCompleted
			if err := r.SaveMaterialRow(row); err != nil {
				return err
			}
		}

		// Material activity moves a merely viewed lesson into progress.
		if ucl.Status == LessonViewed {
			ucl.Status = LessonInProgress
			if err := r.SaveLessonRow(ucl); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("material_id", materialID).Error("Failed to complete material")
		return err
	}

	s.dispatchIntents(ctx, intents)
	return nil
}

func (s *progressService) SubmitSurveyAnswers(ctx context.Context, userID uuid.UUID, courseSlug string, lessonID, surveyID uuid.UUID, submissions []QuestionSubmission) (*SurveyView, error) {
	log := config.WithContext(ctx)

	c, err := s.courseRepo.GetBySlug(courseSlug)
	if err != nil {
		return nil, err
	}
	lesson, err := s.courseRepo.GetLessonInCourse(lessonID, c.ID)
	if err != nil {
		return nil, err
	}
	sv, err := s.surveyRepo.GetInLesson(surveyID, lesson.ID)
	if err != nil {
		return nil, err
	}

	var (
		ucID    uuid.UUID
		intents []*achievement.SweepIntent
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		r := s.repo.InTx(tx)

		uc, created, err := r.GetOrCreateUserCourse(userID, c.ID)
		if err != nil {
			return err
		}
		ucID = uc.ID
		if created {
			intent := &achievement.SweepIntent{UserID: userID, Reason: achievement.SweepReasonEnrolled}
			if err := s.outbox.CreateInTx(tx, intent); err != nil {
				return err
			}
			intents = append(intents, intent)
		}

		take, _, err := r.GetOrCreateUserSurvey(uc.ID, sv.ID)
		if err != nil {
			return err
		}

		incoming := make([]uuid.UUID, 0, len(submissions))
		for _, sub := range submissions {
			if sub.QuestionID == uuid.Nil {
				return ErrValidation
			}

			q, err := s.surveyRepo.GetQuestionInSurvey(sub.QuestionID, sv.ID)
			if err != nil {
				return err
			}
			incoming = append(incoming, q.ID)

			selectedIDs := q.FilterOwnOptionIDs(sub.AnswerIDs)
			selected := make([]survey.AnswerOption, 0, len(selectedIDs))
			for _, opt := range q.Options {
				for _, id := range selectedIDs {
					if opt.ID == id {
						selected = append(selected, opt)
					}
				}
			}

			ans, _, err := r.GetOrCreateAnswer(take.ID, q.ID)
			if err != nil {
				return err
			}
			if err := r.ReplaceAnswerOptions(ans, selected); err != nil {
				return err
			}

			ans.Status = answerStatus(selectedIDs, q.CorrectOptionIDs())
			if err := r.SaveAnswer(ans); err != nil {
				return err
			}
		}

		// A resubmission is authoritative for the full question set.
		if err := r.DeleteAnswersExcept(take.ID, incoming); err != nil {
			return err
		}

		answers, err := r.ListAnswers(take.ID)
		if err != nil {
			return err
		}
		statuses := make([]AnswerStatus, 0, len(answers))
		for _, ans := range answers {
			statuses = append(statuses, ans.Status)
		}

		take.Status = surveyStatus(statuses)
		// Stamped on every grading pass: last-graded-at, not
		// last-succeeded-at.
		now := time.Now()
		take.CompletedAt = &now
		if err := r.SaveUserSurvey(take); err != nil {
			return err
		}
		if take.Status == SurveyCompleted {
			intent := &achievement.SweepIntent{UserID: userID, Reason: achievement.SweepReasonSurveyCompleted}
			if err := s.outbox.CreateInTx(tx, intent); err != nil {
				return err
			}
			intents = append(intents, intent)
		}

		// Roll the lesson status up from its survey takes.
		ucl, _, err := r.GetOrCreateLessonRow(uc.ID, lesson.ID)
		if err != nil {
			return err
		}

		lessonSurveys, err := s.surveyRepo.ListByLesson(lesson.ID)
		if err != nil {
			return err
		}
		surveyIDs := make([]uuid.UUID, 0, len(lessonSurveys))
		for _, ls := range lessonSurveys {
			surveyIDs = append(surveyIDs, ls.ID)
		}
		takes, err := r.ListUserSurveys(uc.ID, surveyIDs)
		if err != nil {
			return err
		}
		takeStatuses := make([]SurveyStatus, 0, len(takes))
		for _, t := range takes {
			takeStatuses = append(takeStatuses, t.Status)
		}

		if status, ok := rollupLessonStatus(len(lessonSurveys), takeStatuses); ok && status != ucl.Status {
			ucl.Status = status
			if err := r.SaveLessonRow(ucl); err != nil {
				return err
			}
		}
		if ucl.Status == LessonCompleted {
			intent := &achievement.SweepIntent{UserID: userID, Reason: achievement.SweepReasonLessonCompleted}
			if err := s.outbox.CreateInTx(tx, intent); err != nil {
				return err
			}
			intents = append(intents, intent)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrValidation) || errors.Is(err, survey.ErrQuestionNotFound) {
			return nil, err
		}
		log.WithError(err).WithField("survey_id", surveyID).Error("Grading pass failed")
		return nil, err
	}

	s.dispatchIntents(ctx, intents)

	return s.buildSurveyView(ucID, sv)
}

// buildSurveyView assembles the survey read model for one take: questions
// and options shuffled, correctness hidden, prior selections flagged.
func (s *progressService) buildSurveyView(userCourseID uuid.UUID, sv *survey.Survey) (*SurveyView, error) {
	view := &SurveyView{
		ID:          sv.ID,
		Title:       sv.Title,
		Description: sv.Description,
		IsActive:    sv.IsActive,
		Status:      SurveyNotCompletedYet,
	}

	answerByQuestion := map[uuid.UUID]*UserAnswer{}
	selectedIDs := map[uuid.UUID]bool{}
	take, err := s.repo.GetUserSurvey(userCourseID, sv.ID)
	if err != nil {
		return nil, err
	}
	if take != nil {
		view.Status = take.Status

		answers, err := s.repo.ListAnswers(take.ID)
		if err != nil {
			return nil, err
		}
		for _, ans := range answers {
			answerByQuestion[ans.QuestionID] = ans
			for _, opt := range ans.SelectedOptions {
				selectedIDs[opt.ID] = true
			}
		}
	}

	questions, err := s.surveyRepo.ListQuestions(sv.ID)
	if err != nil {
		return nil, err
	}
	shuffled := make([]*survey.Question, len(questions))
	copy(shuffled, questions)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	view.Questions = make([]QuestionView, 0, len(shuffled))
	for _, q := range shuffled {
		qv := QuestionView{
			ID:               q.ID,
			Text:             q.Text,
			IsMultipleChoice: q.IsMultipleChoice,
			Order:            q.OrderIndex,
			Status:           AnswerNotCompletedYet,
		}
		if ans, ok := answerByQuestion[q.ID]; ok {
			qv.Status = ans.Status
		}

		options := make([]survey.AnswerOption, len(q.Options))
		copy(options, q.Options)
		rand.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
		qv.Options = make([]OptionView, 0, len(options))
		for _, opt := range options {
			qv.Options = append(qv.Options, OptionView{
				ID:             opt.ID,
				Text:           opt.Text,
				SelectedBefore: selectedIDs[opt.ID],
			})
		}
		view.Questions = append(view.Questions, qv)
	}
	return view, nil
}

func (s *progressService) courseProgressFor(uc *UserCourse, c *course.Course) (*CourseProgressView, error) {
	lessons, err := s.courseRepo.ListLessonsByCourse(c.ID)
	if err != nil {
		return nil, err
	}

	lessonIDs := make([]uuid.UUID, 0, len(lessons))
	for _, l := range lessons {
		lessonIDs = append(lessonIDs, l.ID)
	}
	lessonStatuses, err := s.repo.LessonStatuses(uc.UserID, lessonIDs)
	if err != nil {
		return nil, err
	}

	var steps progressSteps
	for _, l := range lessons {
		lessonSurveys, err := s.surveyRepo.ListByLesson(l.ID)
		if err != nil {
			return nil, err
		}

		if len(lessonSurveys) == 0 {
			steps.addLesson(lessonStatuses[l.ID] == LessonCompleted)
			continue
		}

		surveyIDs := make([]uuid.UUID, 0, len(lessonSurveys))
		for _, sv := range lessonSurveys {
			surveyIDs = append(surveyIDs, sv.ID)
		}
		takes, err := s.repo.ListUserSurveys(uc.ID, surveyIDs)
		if err != nil {
			return nil, err
		}

		completedTakes := 0
		for _, t := range takes {
			if t.Status == SurveyCompleted {
				completedTakes++
			}
		}

		// The lesson itself only counts once every one of its surveys is
		// completed; its surveys count as steps of their own.
		steps.addLesson(completedTakes == len(lessonSurveys))
		steps.addSurveys(len(lessonSurveys), completedTakes)
	}

	return &CourseProgressView{
		ID:              c.ID,
		Title:           c.Title,
		Slug:            c.Slug,
		ProgressPercent: steps.percent(),
	}, nil
}

func (s *progressService) CourseProgress(ctx context.Context, userID uuid.UUID, courseSlug string) (*CourseProgressView, error) {
	c, err := s.courseRepo.GetBySlug(courseSlug)
	if err != nil {
		return nil, err
	}

	uc, err := s.repo.GetUserCourse(userID, c.ID)
	if err != nil {
		return nil, err
	}
	if uc == nil {
		return nil, ErrNotEnrolled
	}

	return s.courseProgressFor(uc, c)
}

func (s *progressService) ListCourseProgress(ctx context.Context, userID uuid.UUID) ([]*CourseProgressView, error) {
	log := config.WithContext(ctx)

	ucs, err := s.repo.ListUserCourses(userID)
	if err != nil {
		log.WithError(err).Error("Failed to list enrollments")
		return nil, err
	}

	views := make([]*CourseProgressView, 0, len(ucs))
	for _, uc := range ucs {
		view, err := s.courseProgressFor(uc, &uc.Course)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *progressService) Snapshot(ctx context.Context, userID uuid.UUID) (achievement.LedgerSnapshot, error) {
	enrollments, err := s.repo.CountEnrollments(userID)
	if err != nil {
		return achievement.LedgerSnapshot{}, err
	}
	surveys, err := s.repo.CountCompletedSurveys(userID)
	if err != nil {
		return achievement.LedgerSnapshot{}, err
	}
	lessons, err := s.repo.CountCompletedLessons(userID)
	if err != nil {
		return achievement.LedgerSnapshot{}, err
	}

	return achievement.LedgerSnapshot{
		Enrollments:      enrollments,
		CompletedSurveys: surveys,
		CompletedLessons: lessons,
	}, nil
}
