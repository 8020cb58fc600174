package course_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/codementor/codementor-api/internal/achievement"
	"github.com/codementor/codementor-api/internal/course"
	"github.com/codementor/codementor-api/internal/messaging"
	"github.com/codementor/codementor-api/internal/progress"
	surveypkg "github.com/codementor/codementor-api/internal/survey"
	"github.com/codementor/codementor-api/internal/testutil"
	userpkg "github.com/codementor/codementor-api/internal/user"
)

func newCatalog(tx *gorm.DB) course.CourseService {
	enroller := progress.NewService(
		tx,
		progress.NewRepository(tx),
		course.NewRepository(tx),
		surveypkg.NewRepository(tx),
		achievement.NewOutboxRepository(tx),
		messaging.NewMemoryQueue(16),
	)
	return course.NewService(course.NewRepository(tx), enroller)
}

func seedCatalog(t *testing.T, tx *gorm.DB) (userpkg.User, course.Course, course.Lesson) {
	t.Helper()

	usr := userpkg.User{FirstName: "Linus", LastName: "T", Email: uuid.NewString() + "@example.com"}
	require.NoError(t, tx.Create(&usr).Error)

	crs := course.Course{Title: "Kernel Hacking " + uuid.NewString()[:8], IsPublished: true}
	require.NoError(t, tx.Create(&crs).Error)

	draft := course.Course{Title: "Draft Course " + uuid.NewString()[:8]}
	require.NoError(t, tx.Create(&draft).Error)

	mod := course.Module{CourseID: crs.ID, Title: "Basics", OrderIndex: 1}
	require.NoError(t, tx.Create(&mod).Error)

	lesson := course.Lesson{ModuleID: mod.ID, Title: "Processes", OrderIndex: 1}
	require.NoError(t, tx.Create(&lesson).Error)

	return usr, crs, lesson
}

func TestListCourses(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	usr, crs, _ := seedCatalog(t, tx)
	svc := newCatalog(tx)

	t.Run("AnonymousSeesOnlyPublished", func(t *testing.T) {
		items, err := svc.ListCourses(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, crs.ID, items[0].ID)
		assert.Nil(t, items[0].IsEnrolled)
	})

	t.Run("AuthenticatedSeesEnrollmentFlag", func(t *testing.T) {
		items, err := svc.ListCourses(context.Background(), &usr.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].IsEnrolled)
		assert.False(t, *items[0].IsEnrolled)
	})
}

func TestGetCourseDetail(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	usr, crs, lesson := seedCatalog(t, tx)
	svc := newCatalog(tx)

	t.Run("AnonymousGetsNoStatuses", func(t *testing.T) {
		detail, err := svc.GetCourseDetail(context.Background(), crs.Slug, nil)
		require.NoError(t, err)
		require.Len(t, detail.Modules, 1)
		require.Len(t, detail.Modules[0].Lessons, 1)
		assert.Nil(t, detail.Modules[0].Lessons[0].Status)
	})

	t.Run("VisitEnrollsAndDecoratesStatuses", func(t *testing.T) {
		detail, err := svc.GetCourseDetail(context.Background(), crs.Slug, &usr.ID)
		require.NoError(t, err)

		status := detail.Modules[0].Lessons[0].Status
		require.NotNil(t, status)
		assert.Equal(t, string(progress.LessonNotViewed), *status)

		var count int64
		require.NoError(t, tx.Model(&progress.UserCourse{}).
			Where("user_id = ? AND course_id = ?", usr.ID, crs.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)

		var ucl int64
		require.NoError(t, tx.Model(&progress.UserCourseLesson{}).
			Where("lesson_id = ?", lesson.ID).Count(&ucl).Error)
		assert.EqualValues(t, 1, ucl)
	})

	t.Run("UnknownSlug", func(t *testing.T) {
		_, err := svc.GetCourseDetail(context.Background(), "no-such-course", nil)
		assert.ErrorIs(t, err, course.ErrCourseNotFound)
	})
}

func TestCourseSlugDerivedFromTitle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	crs := course.Course{Title: "Advanced Go Patterns", IsPublished: true}
	require.NoError(t, tx.Create(&crs).Error)
	assert.Equal(t, "advanced-go-patterns", crs.Slug)
}
