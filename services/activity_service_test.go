package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaximeWq/challenge-mobilite-app/models"
)

func newActivityService(t *testing.T) (*ActivityService, *fakeClock, *models.User) {
	t.Helper()
	db := newTestDB(t)
	clock := newFakeClock()
	team := createTeam(t, db, "Les Rouleurs Verts")
	user := createUser(t, db, "alice", &team.ID, false)
	return NewActivityService(db, clock, nil), clock, user
}

func TestCreateActivityVelo(t *testing.T) {
	svc, clock, user := newActivityService(t)
	p := Principal{UserID: user.ID}

	activity, err := svc.Create(context.Background(), p, CreateActivityInput{
		Date:       clock.Now(),
		Type:       models.TypeVelo,
		DistanceKm: floatPtr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, activity.DistanceKm)
	assert.Nil(t, activity.Steps)
	require.NotNil(t, activity.User)
	assert.Equal(t, "alice", activity.User.Name)
	require.NotNil(t, activity.User.Team)
	assert.Equal(t, "Les Rouleurs Verts", activity.User.Team.Name)
}

func TestCreateActivityMarcheDerivesDistance(t *testing.T) {
	svc, clock, user := newActivityService(t)
	p := Principal{UserID: user.ID}

	activity, err := svc.Create(context.Background(), p, CreateActivityInput{
		Date:  clock.Now(),
		Type:  models.TypeMarcheCourse,
		Steps: intPtr(3000),
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, activity.DistanceKm)
	require.NotNil(t, activity.Steps)
	assert.Equal(t, 3000, *activity.Steps)
}

func TestCreateActivityDuplicateDay(t *testing.T) {
	svc, clock, user := newActivityService(t)
	p := Principal{UserID: user.ID}

	_, err := svc.Create(context.Background(), p, CreateActivityInput{
		Date: clock.Now(), Type: models.TypeVelo, DistanceKm: floatPtr(10),
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), p, CreateActivityInput{
		Date: clock.Now(), Type: models.TypeMarcheCourse, Steps: intPtr(2000),
	})
	assert.ErrorIs(t, err, ErrDuplicateDailyRecord)
}

func TestCreateActivityFutureDate(t *testing.T) {
	svc, clock, user := newActivityService(t)
	p := Principal{UserID: user.ID}

	for _, in := range []CreateActivityInput{
		{Date: clock.Now().AddDate(0, 0, 1), Type: models.TypeVelo, DistanceKm: floatPtr(10)},
		{Date: clock.Now().AddDate(0, 0, 1), Type: models.TypeMarcheCourse, Steps: intPtr(2000)},
	} {
		_, err := svc.Create(context.Background(), p, in)
		assert.ErrorIs(t, err, ErrFutureDate)
	}
}

func TestCreateActivityPastDateAllowed(t *testing.T) {
	svc, clock, user := newActivityService(t)
	p := Principal{UserID: user.ID}

	_, err := svc.Create(context.Background(), p, CreateActivityInput{
		Date: clock.Now().AddDate(0, 0, -3), Type: models.TypeVelo, DistanceKm: floatPtr(4),
	})
	assert.NoError(t, err)
}

func TestUpdateActivitySameDay(t *testing.T) {
	svc, clock, user := newActivityService(t)
	p := Principal{UserID: user.ID}

	created, err := svc.Create(context.Background(), p, CreateActivityInput{
		Date: clock.Now(), Type: models.TypeVelo, DistanceKm: floatPtr(10),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), p, created.ID, UpdateActivityInput{
		DistanceKm: floatPtr(15),
	})
	require.NoError(t, err)
	assert.Equal(t, 15.0, updated.DistanceKm)
}

func TestUpdateActivityEditWindowExpired(t *testing.T) {
	svc, clock, user := newActivityService(t)
	p := Principal{UserID: user.ID}

	created, err := svc.Create(context.Background(), p, CreateActivityInput{
		Date: clock.Now(), Type: models.TypeVelo, DistanceKm: floatPtr(10),
	})
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)

	_, err = svc.Update(context.Background(), p, created.ID, UpdateActivityInput{
		DistanceKm: floatPtr(15),
	})
	assert.ErrorIs(t, err, ErrEditWindowExpired)

	// admins get no exception, the window is date-based
	admin := Principal{UserID: user.ID, IsAdmin: true}
	_, err = svc.Update(context.Background(), admin, created.ID, UpdateActivityInput{
		DistanceKm: floatPtr(15),
	})
	assert.ErrorIs(t, err, ErrEditWindowExpired)
}

func TestUpdateActivitySwitchTypeRecomputes(t *testing.T) {
	svc, clock, user := newActivityService(t)
	p := Principal{UserID: user.ID}

	created, err := svc.Create(context.Background(), p, CreateActivityInput{
		Date: clock.Now(), Type: models.TypeVelo, DistanceKm: floatPtr(10),
	})
	require.NoError(t, err)

	marche := models.TypeMarcheCourse
	updated, err := svc.Update(context.Background(), p, created.ID, UpdateActivityInput{
		Type:  &marche,
		Steps: intPtr(3000),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TypeMarcheCourse, updated.Type)
	assert.Equal(t, 2.0, updated.DistanceKm)
	require.NotNil(t, updated.Steps)
	assert.Equal(t, 3000, *updated.Steps)

	// and back to velo: steps cleared
	velo := models.TypeVelo
	updated, err = svc.Update(context.Background(), p, created.ID, UpdateActivityInput{
		Type:       &velo,
		DistanceKm: floatPtr(7),
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, updated.DistanceKm)
	assert.Nil(t, updated.Steps)
}

func TestUpdateActivityMismatchedFieldRejected(t *testing.T) {
	svc, clock, user := newActivityService(t)
	p := Principal{UserID: user.ID}

	velo, err := svc.Create(context.Background(), p, CreateActivityInput{
		Date: clock.Now(), Type: models.TypeVelo, DistanceKm: floatPtr(10),
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), p, velo.ID, UpdateActivityInput{Steps: intPtr(2000)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateMarcheRejectsDistance(t *testing.T) {
	svc, clock, user := newActivityService(t)
	p := Principal{UserID: user.ID}

	created, err := svc.Create(context.Background(), p, CreateActivityInput{
		Date: clock.Now(), Type: models.TypeMarcheCourse, Steps: intPtr(3000),
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), p, created.ID, UpdateActivityInput{
		DistanceKm: floatPtr(99),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestActivityAccessControl(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	svc := NewActivityService(db, clock, nil)
	owner := createUser(t, db, "owner", nil, false)
	other := createUser(t, db, "other", nil, false)
	admin := createUser(t, db, "admin", nil, true)

	created, err := svc.Create(context.Background(), Principal{UserID: owner.ID}, CreateActivityInput{
		Date: clock.Now(), Type: models.TypeVelo, DistanceKm: floatPtr(10),
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), Principal{UserID: other.ID}, created.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Get(context.Background(), Principal{UserID: admin.ID, IsAdmin: true}, created.ID)
	assert.NoError(t, err)

	err = svc.Delete(context.Background(), Principal{UserID: other.ID}, created.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = svc.Delete(context.Background(), Principal{UserID: owner.ID}, created.ID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), Principal{UserID: owner.ID}, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirstWithPagination(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	svc := NewActivityService(db, clock, nil)
	user := createUser(t, db, "alice", nil, false)

	for d := 1; d <= 5; d++ {
		createActivity(t, db, user.ID, clock.Now().AddDate(0, 0, -d), models.TypeVelo, float64(d), nil)
	}

	activities, pagination, err := svc.List(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Len(t, activities, 3)
	assert.Equal(t, int64(5), pagination.Total)
	assert.Equal(t, 2, pagination.LastPage)
	assert.True(t, activities[0].Date.After(activities[1].Date))
	assert.True(t, activities[1].Date.After(activities[2].Date))
}

func TestListForUserRestricted(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	svc := NewActivityService(db, clock, nil)
	owner := createUser(t, db, "owner", nil, false)
	other := createUser(t, db, "other", nil, false)
	createActivity(t, db, owner.ID, clock.Now(), models.TypeVelo, 3, nil)

	_, err := svc.ListForUser(context.Background(), Principal{UserID: other.ID}, owner.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	activities, err := svc.ListForUser(context.Background(), Principal{UserID: owner.ID}, owner.ID)
	require.NoError(t, err)
	assert.Len(t, activities, 1)
}

func TestDeleteThenRedeclareSameDay(t *testing.T) {
	svc, clock, user := newActivityService(t)
	p := Principal{UserID: user.ID}

	created, err := svc.Create(context.Background(), p, CreateActivityInput{
		Date: clock.Now(), Type: models.TypeVelo, DistanceKm: floatPtr(10),
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), p, created.ID))

	// the deleted row must leave the (user_id, date) unique index so the
	// day is open for a new declaration
	redone, err := svc.Create(context.Background(), p, CreateActivityInput{
		Date: clock.Now(), Type: models.TypeMarcheCourse, Steps: intPtr(3000),
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, redone.DistanceKm)
}
