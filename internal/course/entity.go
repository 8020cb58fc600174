package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codementor/codementor-api/internal/survey"
	util "github.com/codementor/codementor-api/internal/utils"
)

type Course struct {
	ID                   uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title                string              `gorm:"type:text;not null" json:"title"`
	ShortDescription     string              `gorm:"type:text" json:"short_description,omitempty"`
	Description          string              `gorm:"type:text" json:"description"`
	ProgrammingLanguage  ProgrammingLanguage `gorm:"type:text" json:"programming_language,omitempty"`
	Level                CourseLevel         `gorm:"type:text" json:"level,omitempty"`
	Slug                 string              `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	IsPublished          bool                `gorm:"not null;default:false" json:"is_published"`
	CertificateAvailable bool                `gorm:"not null;default:false" json:"certificate_available"`
	MainColor            string              `gorm:"type:text" json:"main_color,omitempty"`
	CreatedAt            time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	Modules []Module `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

// BeforeSave derives the slug from the title when none was set.
func (c *Course) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = util.Slugify(c.Title)
	}
	return nil
}

type Module struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	OrderIndex  int       `gorm:"not null;default:0" json:"order"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Lessons []Lesson `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

type Lesson struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"module_id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	OrderIndex  int       `gorm:"not null;default:0" json:"order"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Materials []Material      `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"materials,omitempty"`
	Surveys   []survey.Survey `gorm:"many2many:lesson_surveys" json:"surveys,omitempty"`
}

type Material struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LessonID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Title        string           `gorm:"type:text;not null" json:"title"`
	Description  string           `gorm:"type:text" json:"description,omitempty"`
	Language     MaterialLanguage `gorm:"type:text" json:"language"`
	Link         string           `gorm:"type:text" json:"link,omitempty"`
	MaterialType MaterialType     `gorm:"type:text" json:"material_type"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
}
