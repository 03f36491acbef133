package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MaximeWq/challenge-mobilite-app/models"
)

// fakeClock pins the current day so date-window rules are deterministic.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.June, 15, 14, 30, 0, 0, time.Local)}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Team{}, &models.User{}, &models.Activity{}))
	return db
}

func createTeam(t *testing.T, db *gorm.DB, name string) *models.Team {
	t.Helper()
	team := &models.Team{Name: name, Description: name}
	require.NoError(t, db.Create(team).Error)
	return team
}

func createUser(t *testing.T, db *gorm.DB, name string, teamID *uint, admin bool) *models.User {
	t.Helper()
	user := &models.User{
		Name:     name,
		Email:    name + "@demo.com",
		Password: "x",
		TeamID:   teamID,
		IsAdmin:  admin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createActivity(t *testing.T, db *gorm.DB, userID uint, date time.Time, activityType string, distance float64, steps *int) *models.Activity {
	t.Helper()
	activity := &models.Activity{
		UserID:     userID,
		Date:       DayStart(date),
		Type:       activityType,
		DistanceKm: distance,
		Steps:      steps,
	}
	require.NoError(t, db.Create(activity).Error)
	return activity
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
