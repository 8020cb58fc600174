package database

import (
	"gorm.io/gorm"

	"github.com/codementor/codementor-api/internal/achievement"
)

var defaultAchievements = []achievement.Achievement{
	{Code: achievement.CodeEnrollFirstCourse, Title: "First Steps", Description: "Enroll in your first course", IsActive: true},
	{Code: achievement.CodeCompleteFirstSurvey, Title: "Quiz Rookie", Description: "Complete your first survey", IsActive: true},
	{Code: achievement.CodeCompleteFiveSurveys, Title: "Quiz Regular", Description: "Complete five surveys", IsActive: true},
	{Code: achievement.CodeCompleteTenSurveys, Title: "Quiz Master", Description: "Complete ten surveys", IsActive: true},
	{Code: achievement.CodeCompleteFirstLesson, Title: "Lesson One", Description: "Complete your first lesson", IsActive: true},
	{Code: achievement.CodeCompleteFiveLessons, Title: "Getting Serious", Description: "Complete five lessons", IsActive: true},
	{Code: achievement.CodeCompleteTenLessons, Title: "Dedicated Learner", Description: "Complete ten lessons", IsActive: true},
}

// Seed makes sure every known achievement exists. Existing rows keep their
// titles: operators may have edited them.
func Seed(db *gorm.DB) error {
	for _, a := range defaultAchievements {
		var row achievement.Achievement
		if err := db.Where("code = ?", a.Code).Attrs(a).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
