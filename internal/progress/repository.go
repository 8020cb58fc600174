package progress

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codementor/codementor-api/internal/survey"
)

type ProgressRepository interface {
	// InTx returns a repository bound to the given transaction.
	InTx(tx *gorm.DB) ProgressRepository

	GetUserCourse(userID, courseID uuid.UUID) (*UserCourse, error)
	// GetOrCreateUserCourse enrolls idempotently: a concurrent duplicate
	// create loses on the unique (user, course) index and falls back to a
	// read. created reports whether this call inserted the row.
	GetOrCreateUserCourse(userID, courseID uuid.UUID) (uc *UserCourse, created bool, err error)
	ListUserCourses(userID uuid.UUID) ([]*UserCourse, error)

	GetLessonRow(userCourseID, lessonID uuid.UUID) (*UserCourseLesson, error)
	GetOrCreateLessonRow(userCourseID, lessonID uuid.UUID) (row *UserCourseLesson, created bool, err error)
	CreateMissingLessonRows(userCourseID uuid.UUID, lessonIDs []uuid.UUID) error
	SaveLessonRow(row *UserCourseLesson) error
	LessonStatuses(userID uuid.UUID, lessonIDs []uuid.UUID) (map[uuid.UUID]LessonStatus, error)

	GetOrCreateMaterialRow(userCourseLessonID, materialID uuid.UUID) (row *UserCourseLessonMaterial, created bool, err error)
	CreateMissingMaterialRows(userCourseLessonID uuid.UUID, materialIDs []uuid.UUID) error
	SaveMaterialRow(row *UserCourseLessonMaterial) error
	MaterialStatuses(userCourseLessonID uuid.UUID) (map[uuid.UUID]MaterialStatus, error)

	GetOrCreateUserSurvey(userCourseID, surveyID uuid.UUID) (take *UserCourseSurvey, created bool, err error)
	SaveUserSurvey(take *UserCourseSurvey) error
	GetUserSurvey(userCourseID, surveyID uuid.UUID) (*UserCourseSurvey, error)
	ListUserSurveys(userCourseID uuid.UUID, surveyIDs []uuid.UUID) ([]*UserCourseSurvey, error)

	GetOrCreateAnswer(userSurveyID, questionID uuid.UUID) (ans *UserAnswer, created bool, err error)
	ReplaceAnswerOptions(ans *UserAnswer, options []survey.AnswerOption) error
	SaveAnswer(ans *UserAnswer) error
	ListAnswers(userSurveyID uuid.UUID) ([]*UserAnswer, error)
	// DeleteAnswersExcept removes answers for questions absent from the
	// latest submission: a resubmission is authoritative for the whole
	// question set.
	DeleteAnswersExcept(userSurveyID uuid.UUID, keepQuestionIDs []uuid.UUID) error

	CountEnrollments(userID uuid.UUID) (int64, error)
	CountCompletedSurveys(userID uuid.UUID) (int64, error)
	CountCompletedLessons(userID uuid.UUID) (int64, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) InTx(tx *gorm.DB) ProgressRepository {
	return &progressRepository{db: tx}
}

func (r *progressRepository) GetUserCourse(userID, courseID uuid.UUID) (*UserCourse, error) {
	var uc UserCourse
	err := r.db.First(&uc, "user_id = ? AND course_id = ?", userID, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &uc, nil
}

func (r *progressRepository) GetOrCreateUserCourse(userID, courseID uuid.UUID) (*UserCourse, bool, error) {
	uc := &UserCourse{ID: uuid.New(), UserID: userID, CourseID: courseID}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(uc)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return uc, true, nil
	}

	existing, err := r.GetUserCourse(userID, courseID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, gorm.ErrRecordNotFound
	}
	return existing, false, nil
}

func (r *progressRepository) ListUserCourses(userID uuid.UUID) ([]*UserCourse, error) {
	var ucs []*UserCourse
	err := r.db.
		Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&ucs).Error
	if err != nil {
		return nil, err
	}
	return ucs, nil
}

func (r *progressRepository) GetLessonRow(userCourseID, lessonID uuid.UUID) (*UserCourseLesson, error) {
	var row UserCourseLesson
	err := r.db.First(&row, "user_course_id = ? AND lesson_id = ?", userCourseID, lessonID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *progressRepository) GetOrCreateLessonRow(userCourseID, lessonID uuid.UUID) (*UserCourseLesson, bool, error) {
	row := &UserCourseLesson{
		ID:           uuid.New(),
		UserCourseID: userCourseID,
		LessonID:     lessonID,
		Status:       LessonNotViewed,
	}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_course_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return row, true, nil
	}

	existing, err := r.GetLessonRow(userCourseID, lessonID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, gorm.ErrRecordNotFound
	}
	return existing, false, nil
}

func (r *progressRepository) CreateMissingLessonRows(userCourseID uuid.UUID, lessonIDs []uuid.UUID) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	rows := make([]*UserCourseLesson, 0, len(lessonIDs))
	for _, lessonID := range lessonIDs {
		rows = append(rows, &UserCourseLesson{
			ID:           uuid.New(),
			UserCourseID: userCourseID,
			LessonID:     lessonID,
			Status:       LessonNotViewed,
		})
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_course_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(&rows).Error
}

func (r *progressRepository) SaveLessonRow(row *UserCourseLesson) error {
	return r.db.Save(row).Error
}

func (r *progressRepository) LessonStatuses(userID uuid.UUID, lessonIDs []uuid.UUID) (map[uuid.UUID]LessonStatus, error) {
	if len(lessonIDs) == 0 {
		return map[uuid.UUID]LessonStatus{}, nil
	}

	var rows []*UserCourseLesson
	err := r.db.
		Joins("JOIN user_courses ON user_courses.id = user_course_lessons.user_course_id").
		Where("user_courses.user_id = ? AND user_course_lessons.lesson_id IN ?", userID, lessonIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	statuses := make(map[uuid.UUID]LessonStatus, len(rows))
	for _, row := range rows {
		statuses[row.LessonID] = row.Status
	}
	return statuses, nil
}

func (r *progressRepository) GetOrCreateMaterialRow(userCourseLessonID, materialID uuid.UUID) (*UserCourseLessonMaterial, bool, error) {
	row := &UserCourseLessonMaterial{
		ID:                 uuid.New(),
		UserCourseLessonID: userCourseLessonID,
		MaterialID:         materialID,
		Status:             MaterialNotCompleted,
	}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_course_lesson_id"}, {Name: "material_id"}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return row, true, nil
	}

	var existing UserCourseLessonMaterial
	err := r.db.First(&existing, "user_course_lesson_id = ? AND material_id = ?", userCourseLessonID, materialID).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *progressRepository) CreateMissingMaterialRows(userCourseLessonID uuid.UUID, materialIDs []uuid.UUID) error {
	if len(materialIDs) == 0 {
		return nil
	}
	rows := make([]*UserCourseLessonMaterial, 0, len(materialIDs))
	for _, materialID := range materialIDs {
		rows = append(rows, &UserCourseLessonMaterial{
			ID:                 uuid.New(),
			UserCourseLessonID: userCourseLessonID,
			MaterialID:         materialID,
			Status:             MaterialNotCompleted,
		})
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_course_lesson_id"}, {Name: "material_id"}},
		DoNothing: true,
	}).Create(&rows).Error
}

func (r *progressRepository) SaveMaterialRow(row *UserCourseLessonMaterial) error {
	return r.db.Save(row).Error
}

func (r *progressRepository) MaterialStatuses(userCourseLessonID uuid.UUID) (map[uuid.UUID]MaterialStatus, error) {
	var rows []*UserCourseLessonMaterial
	err := r.db.Where("user_course_lesson_id = ?", userCourseLessonID).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	statuses := make(map[uuid.UUID]MaterialStatus, len(rows))
	for _, row := range rows {
		statuses[row.MaterialID] = row.Status
	}
	return statuses, nil
}

func (r *progressRepository) GetOrCreateUserSurvey(userCourseID, surveyID uuid.UUID) (*UserCourseSurvey, bool, error) {
	take := &UserCourseSurvey{
		ID:           uuid.New(),
		UserCourseID: userCourseID,
		SurveyID:     surveyID,
		Status:       SurveyNotCompletedYet,
	}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_course_id"}, {Name: "survey_id"}},
		DoNothing: true,
	}).Create(take)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return take, true, nil
	}

	existing, err := r.GetUserSurvey(userCourseID, surveyID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, gorm.ErrRecordNotFound
	}
	return existing, false, nil
}

func (r *progressRepository) SaveUserSurvey(take *UserCourseSurvey) error {
	return r.db.Save(take).Error
}

func (r *progressRepository) GetUserSurvey(userCourseID, surveyID uuid.UUID) (*UserCourseSurvey, error) {
	var take UserCourseSurvey
	err := r.db.First(&take, "user_course_id = ? AND survey_id = ?", userCourseID, surveyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &take, nil
}

func (r *progressRepository) ListUserSurveys(userCourseID uuid.UUID, surveyIDs []uuid.UUID) ([]*UserCourseSurvey, error) {
	if len(surveyIDs) == 0 {
		return nil, nil
	}
	var takes []*UserCourseSurvey
	err := r.db.
		Where("user_course_id = ? AND survey_id IN ?", userCourseID, surveyIDs).
		Find(&takes).Error
	if err != nil {
		return nil, err
	}
	return takes, nil
}

func (r *progressRepository) GetOrCreateAnswer(userSurveyID, questionID uuid.UUID) (*UserAnswer, bool, error) {
	ans := &UserAnswer{
		ID:           uuid.New(),
		UserSurveyID: userSurveyID,
		QuestionID:   questionID,
		Status:       AnswerNotCompletedYet,
	}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_survey_id"}, {Name: "question_id"}},
		DoNothing: true,
	}).Create(ans)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return ans, true, nil
	}

	var existing UserAnswer
	err := r.db.First(&existing, "user_survey_id = ? AND question_id = ?", userSurveyID, questionID).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *progressRepository) ReplaceAnswerOptions(ans *UserAnswer, options []survey.AnswerOption) error {
	return r.db.Model(ans).Association("SelectedOptions").Replace(options)
}

func (r *progressRepository) SaveAnswer(ans *UserAnswer) error {
	return r.db.Omit("SelectedOptions").Save(ans).Error
}

func (r *progressRepository) ListAnswers(userSurveyID uuid.UUID) ([]*UserAnswer, error) {
	var answers []*UserAnswer
	err := r.db.
		Preload("SelectedOptions").
		Where("user_survey_id = ?", userSurveyID).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *progressRepository) DeleteAnswersExcept(userSurveyID uuid.UUID, keepQuestionIDs []uuid.UUID) error {
	q := r.db.Where("user_survey_id = ?", userSurveyID)
	if len(keepQuestionIDs) > 0 {
		q = q.Where("question_id NOT IN ?", keepQuestionIDs)
	}

	var stale []*UserAnswer
	if err := q.Find(&stale).Error; err != nil {
		return err
	}

	for _, ans := range stale {
		if err := r.db.Model(ans).Association("SelectedOptions").Clear(); err != nil {
			return err
		}
		if err := r.db.Delete(ans).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *progressRepository) CountEnrollments(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&UserCourse{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *progressRepository) CountCompletedSurveys(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&UserCourseSurvey{}).
		Joins("JOIN user_courses ON user_courses.id = user_course_surveys.user_course_id").
		Where("user_courses.user_id = ? AND user_course_surveys.status = ?", userID, SurveyCompleted).
		Count(&count).Error
	return count, err
}

func (r *progressRepository) CountCompletedLessons(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&UserCourseLesson{}).
		Joins("JOIN user_courses ON user_courses.id = user_course_lessons.user_course_id").
		Where("user_courses.user_id = ? AND user_course_lessons.status = ?", userID, LessonCompleted).
		Count(&count).Error
	return count, err
}
