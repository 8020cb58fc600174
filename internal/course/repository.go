package course

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrMaterialNotFound = errors.New("material not found")
)

type CourseRepository interface {
	ListPublished() ([]*Course, error)
	GetBySlug(slug string) (*Course, error)
	// GetPublishedBySlug is GetBySlug restricted to the public catalog.
	GetPublishedBySlug(slug string) (*Course, error)
	// GetLessonInCourse resolves a lesson scoped to a course via its module.
	// A lesson under another course is reported as not found.
	GetLessonInCourse(lessonID, courseID uuid.UUID) (*Lesson, error)
	GetMaterialInLesson(materialID, lessonID uuid.UUID) (*Material, error)
	ListLessonsByCourse(courseID uuid.UUID) ([]*Lesson, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) ListPublished() ([]*Course, error) {
	var courses []*Course
	if err := r.db.
		Where("is_published = ?", true).
		Order("created_at ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) getBySlug(slug string, publishedOnly bool) (*Course, error) {
	q := r.db.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("modules.order_index ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.order_index ASC")
		}).
		Where("slug = ?", slug)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}

	var c Course
	if err := q.First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *courseRepository) GetBySlug(slug string) (*Course, error) {
	return r.getBySlug(slug, false)
}

func (r *courseRepository) GetPublishedBySlug(slug string) (*Course, error) {
	return r.getBySlug(slug, true)
}

func (r *courseRepository) GetLessonInCourse(lessonID, courseID uuid.UUID) (*Lesson, error) {
	var l Lesson
	err := r.db.
		Preload("Materials").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("lessons.id = ? AND modules.course_id = ?", lessonID, courseID).
		First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *courseRepository) GetMaterialInLesson(materialID, lessonID uuid.UUID) (*Material, error) {
	var m Material
	err := r.db.
		Where("id = ? AND lesson_id = ?", materialID, lessonID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *courseRepository) ListLessonsByCourse(courseID uuid.UUID) ([]*Lesson, error) {
	var lessons []*Lesson
	err := r.db.
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", courseID).
		Order("modules.order_index ASC, lessons.order_index ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}
