package course

import (
	"context"

	"github.com/google/uuid"

	"github.com/codementor/codementor-api/internal/config"
)

// Enroller is the slice of the progress ledger the catalog needs: visiting a
// course enrolls the user and materializes their lesson rows.
type Enroller interface {
	EnrollOnVisit(ctx context.Context, userID uuid.UUID, courseID uuid.UUID, lessonIDs []uuid.UUID) error
	IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	LessonStatuses(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

type CourseService interface {
	ListCourses(ctx context.Context, userID *uuid.UUID) ([]*CourseListItem, error)
	GetCourseDetail(ctx context.Context, slug string, userID *uuid.UUID) (*CourseDetailResponse, error)
}

type courseService struct {
	repo     CourseRepository
	enroller Enroller
}

func NewService(repo CourseRepository, enroller Enroller) CourseService {
	return &courseService{repo: repo, enroller: enroller}
}

func (s *courseService) ListCourses(ctx context.Context, userID *uuid.UUID) ([]*CourseListItem, error) {
	log := config.WithContext(ctx)

	courses, err := s.repo.ListPublished()
	if err != nil {
		log.WithError(err).Error("Failed to list published courses")
		return nil, err
	}

	items := make([]*CourseListItem, 0, len(courses))
	for _, c := range courses {
		item := &CourseListItem{Course: *c}
		if userID != nil {
			enrolled, err := s.enroller.IsEnrolled(ctx, *userID, c.ID)
			if err != nil {
				log.WithError(err).WithField("course_id", c.ID).Error("Failed to check enrollment")
				return nil, err
			}
			item.IsEnrolled = &enrolled
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *courseService) GetCourseDetail(ctx context.Context, slug string, userID *uuid.UUID) (*CourseDetailResponse, error) {
	log := config.WithContext(ctx)

	c, err := s.repo.GetPublishedBySlug(slug)
	if err != nil {
		return nil, err
	}

	var lessonIDs []uuid.UUID
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			lessonIDs = append(lessonIDs, l.ID)
		}
	}

	statuses := map[uuid.UUID]string{}
	if userID != nil {
		// Visiting the course page enrolls the user.
		if err := s.enroller.EnrollOnVisit(ctx, *userID, c.ID, lessonIDs); err != nil {
			log.WithError(err).WithField("course_id", c.ID).Error("Failed to enroll user on course visit")
			return nil, err
		}
		statuses, err = s.enroller.LessonStatuses(ctx, *userID, lessonIDs)
		if err != nil {
			log.WithError(err).Error("Failed to load lesson statuses")
			return nil, err
		}
	}

	resp := &CourseDetailResponse{
		ID:                   c.ID,
		Title:                c.Title,
		Description:          c.Description,
		ProgrammingLanguage:  c.ProgrammingLanguage,
		Level:                c.Level,
		Slug:                 c.Slug,
		IsPublished:          c.IsPublished,
		CertificateAvailable: c.CertificateAvailable,
		MainColor:            c.MainColor,
		Modules:              make([]ModuleResponse, 0, len(c.Modules)),
	}
	for _, m := range c.Modules {
		mod := ModuleResponse{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Order:       m.OrderIndex,
			Lessons:     make([]LessonResponse, 0, len(m.Lessons)),
		}
		for _, l := range m.Lessons {
			lr := LessonResponse{
				ID:          l.ID,
				Title:       l.Title,
				Description: l.Description,
				Order:       l.OrderIndex,
			}
			if status, ok := statuses[l.ID]; ok {
				lr.Status = &status
			}
			mod.Lessons = append(mod.Lessons, lr)
		}
		resp.Modules = append(resp.Modules, mod)
	}
	return resp, nil
}
