package database

import (
	"gorm.io/gorm"

	"github.com/codementor/codementor-api/internal/achievement"
	"github.com/codementor/codementor-api/internal/course"
	"github.com/codementor/codementor-api/internal/progress"
	"github.com/codementor/codementor-api/internal/survey"
	"github.com/codementor/codementor-api/internal/user"
)

func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&user.User{},
		&course.Course{},
		&course.Module{},
		&course.Lesson{},
		&course.Material{},
		&survey.Survey{},
		&survey.Question{},
		&survey.AnswerOption{},
		&progress.UserCourse{},
		&progress.UserCourseLesson{},
		&progress.UserCourseLessonMaterial{},
		&progress.UserCourseSurvey{},
		&progress.UserAnswer{},
		&achievement.Achievement{},
		&achievement.UserAchievement{},
		&achievement.SweepIntent{},
	)
}
