package achievement_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/codementor/codementor-api/internal/achievement"
	coursepkg "github.com/codementor/codementor-api/internal/course"
	"github.com/codementor/codementor-api/internal/database"
	"github.com/codementor/codementor-api/internal/messaging"
	"github.com/codementor/codementor-api/internal/progress"
	surveypkg "github.com/codementor/codementor-api/internal/survey"
	"github.com/codementor/codementor-api/internal/testutil"
	userpkg "github.com/codementor/codementor-api/internal/user"
)

func newServices(t *testing.T, tx *gorm.DB) (achievement.AchievementService, progress.ProgressService, achievement.AchievementRepository) {
	t.Helper()
	require.NoError(t, database.Seed(tx))

	progressSvc := progress.NewService(
		tx,
		progress.NewRepository(tx),
		coursepkg.NewRepository(tx),
		surveypkg.NewRepository(tx),
		achievement.NewOutboxRepository(tx),
		messaging.NewMemoryQueue(16),
	)
	repo := achievement.NewRepository(tx)
	svc := achievement.NewService(repo, userpkg.NewRepository(tx), progressSvc)
	return svc, progressSvc, repo
}

func seedUserAndCourse(t *testing.T, tx *gorm.DB) (userpkg.User, coursepkg.Course) {
	t.Helper()

	usr := userpkg.User{FirstName: "Grace", LastName: "Hopper", Email: uuid.NewString() + "@example.com"}
	require.NoError(t, tx.Create(&usr).Error)

	crs := coursepkg.Course{Title: "Compilers " + uuid.NewString()[:8], IsPublished: true}
	require.NoError(t, tx.Create(&crs).Error)

	return usr, crs
}

func TestSweepUser(t *testing.T) {
	db := testutil.DB(t)

	t.Run("AwardsEnrollmentAchievement", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		svc, progressSvc, repo := newServices(t, tx)
		usr, crs := seedUserAndCourse(t, tx)

		_, err := progressSvc.Enroll(context.Background(), usr.ID, crs.Slug)
		require.NoError(t, err)

		require.NoError(t, svc.SweepUser(context.Background(), usr.ID))

		awarded, err := repo.ListAwardedCodes(usr.ID)
		require.NoError(t, err)
		assert.True(t, awarded[achievement.CodeEnrollFirstCourse])
		assert.False(t, awarded[achievement.CodeCompleteFirstSurvey])
	})

	t.Run("RepeatSweepAwardsNothingTwice", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		svc, progressSvc, _ := newServices(t, tx)
		usr, crs := seedUserAndCourse(t, tx)

		_, err := progressSvc.Enroll(context.Background(), usr.ID, crs.Slug)
		require.NoError(t, err)

		require.NoError(t, svc.SweepUser(context.Background(), usr.ID))
		require.NoError(t, svc.SweepUser(context.Background(), usr.ID))

		var count int64
		require.NoError(t, tx.Model(&achievement.UserAchievement{}).
			Where("user_id = ?", usr.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("UnknownUserIsNoOp", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		svc, _, _ := newServices(t, tx)

		assert.NoError(t, svc.SweepUser(context.Background(), uuid.New()))
	})
}

func TestCheckForUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, progressSvc, repo := newServices(t, tx)
	usr, crs := seedUserAndCourse(t, tx)

	enrollFirst, err := repo.GetByCode(achievement.CodeEnrollFirstCourse)
	require.NoError(t, err)

	outcome, err := svc.CheckForUser(context.Background(), enrollFirst, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, achievement.OutcomeNotHeld, outcome)

	_, err = progressSvc.Enroll(context.Background(), usr.ID, crs.Slug)
	require.NoError(t, err)

	outcome, err = svc.CheckForUser(context.Background(), enrollFirst, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, achievement.OutcomeNewlyHeld, outcome)

	outcome, err = svc.CheckForUser(context.Background(), enrollFirst, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, achievement.OutcomeAlreadyHeld, outcome)
}

func TestListForUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, progressSvc, _ := newServices(t, tx)
	usr, crs := seedUserAndCourse(t, tx)

	// Anonymous listing carries no awarded flag.
	views, err := svc.ListForUser(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, views, len(achievement.AllCodes))
	for _, v := range views {
		assert.Nil(t, v.Awarded)
	}

	_, err = progressSvc.Enroll(context.Background(), usr.ID, crs.Slug)
	require.NoError(t, err)
	require.NoError(t, svc.SweepUser(context.Background(), usr.ID))

	views, err = svc.ListForUser(context.Background(), &usr.ID)
	require.NoError(t, err)
	for _, v := range views {
		require.NotNil(t, v.Awarded)
		assert.Equal(t, v.Code == achievement.CodeEnrollFirstCourse, *v.Awarded)
	}
}
