package course

import "gorm.io/gorm"

type CourseContainer struct {
	Repo    CourseRepository
	Service CourseService
	Handler *Handler
}

func NewCourseContainer(db *gorm.DB, enroller Enroller) *CourseContainer {
	repo := NewRepository(db)
	service := NewService(repo, enroller)
	handler := NewHandler(service)

	return &CourseContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
