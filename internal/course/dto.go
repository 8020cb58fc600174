package course

import "github.com/google/uuid"

type CourseListItem struct {
	Course
	IsEnrolled *bool `json:"is_enrolled,omitempty"`
}

type CourseDetailResponse struct {
	ID                   uuid.UUID           `json:"id"`
	Title                string              `json:"title"`
	Description          string              `json:"description"`
	ProgrammingLanguage  ProgrammingLanguage `json:"programming_language,omitempty"`
	Level                CourseLevel         `json:"level,omitempty"`
	Slug                 string              `json:"slug"`
	IsPublished          bool                `json:"is_published"`
	CertificateAvailable bool                `json:"certificate_available"`
	MainColor            string              `json:"main_color,omitempty"`
	Modules              []ModuleResponse    `json:"modules"`
}

type ModuleResponse struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Order       int              `json:"order"`
	Lessons     []LessonResponse `json:"lessons"`
}

type LessonResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Order       int       `json:"order"`
	// Status is the requesting user's progress on this lesson; null for
	// anonymous requests.
	Status *string `json:"status"`
}
