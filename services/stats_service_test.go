package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaximeWq/challenge-mobilite-app/models"
)

func TestRankCountsStrictlyGreaterOthers(t *testing.T) {
	totals := []userTotal{
		{ID: 1, Distance: 30},
		{ID: 2, Distance: 20},
		{ID: 3, Distance: 20},
		{ID: 4, Distance: 10},
	}

	assert.Equal(t, 1, globalRank(totals, 1))
	assert.Equal(t, 2, globalRank(totals, 2))
	assert.Equal(t, 2, globalRank(totals, 3))
	assert.Equal(t, 4, globalRank(totals, 4))
}

func TestTeamRankScopedToTeam(t *testing.T) {
	teamA, teamB := uint(1), uint(2)
	totals := []userTotal{
		{ID: 1, TeamID: &teamA, Distance: 30},
		{ID: 2, TeamID: &teamB, Distance: 25},
		{ID: 3, TeamID: &teamA, Distance: 20},
		{ID: 4, Distance: 50}, // no team
	}

	assert.Equal(t, 1, teamRank(totals, 1))
	assert.Equal(t, 2, teamRank(totals, 3))
	assert.Equal(t, 1, teamRank(totals, 2))
	// without a team, a user only competes against themselves
	assert.Equal(t, 1, teamRank(totals, 4))
}

func TestGeneralStats(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	svc := NewStatsService(db, clock)

	createTeam(t, db, "A")
	alice := createUser(t, db, "alice", nil, false)
	bob := createUser(t, db, "bob", nil, false)

	createActivity(t, db, alice.ID, clock.Now(), models.TypeVelo, 10, nil)
	createActivity(t, db, bob.ID, clock.Now(), models.TypeMarcheCourse, 2, intPtr(3000))
	createActivity(t, db, alice.ID, clock.Now().AddDate(0, 0, -40), models.TypeVelo, 5, nil)

	stats, err := svc.General(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalActivities)
	assert.Equal(t, 17.0, stats.TotalDistanceKm)
	assert.Equal(t, int64(3000), stats.TotalSteps)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalTeams)
	assert.Equal(t, 5.67, stats.AvgDistance)

	// the 40-day-old activity falls outside the 30-day series
	require.Len(t, stats.DailyActivities, 1)
	assert.Equal(t, clock.Now().Format("2006-01-02"), stats.DailyActivities[0].Date)
	assert.Equal(t, int64(2), stats.DailyActivities[0].Count)
	assert.Equal(t, 12.0, stats.DailyActivities[0].TotalDistance)

	require.Len(t, stats.ActivitiesByType, 2)
	assert.Equal(t, models.TypeVelo, stats.ActivitiesByType[0].Type)
	assert.Equal(t, int64(2), stats.ActivitiesByType[0].Count)
	assert.Equal(t, 15.0, stats.ActivitiesByType[0].TotalDistance)
}

func TestGeneralStatsEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db, newFakeClock())

	stats, err := svc.General(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalActivities)
	assert.Zero(t, stats.AvgDistance)
	assert.Empty(t, stats.DailyActivities)
}

func TestTeamsRollup(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	svc := NewStatsService(db, clock)

	strong := createTeam(t, db, "strong")
	weak := createTeam(t, db, "weak")
	createTeam(t, db, "empty")

	a := createUser(t, db, "a", &strong.ID, false)
	b := createUser(t, db, "b", &strong.ID, false)
	c := createUser(t, db, "c", &weak.ID, false)

	createActivity(t, db, a.ID, clock.Now(), models.TypeVelo, 10, nil)
	createActivity(t, db, a.ID, clock.Now().AddDate(0, 0, -1), models.TypeVelo, 20, nil)
	createActivity(t, db, b.ID, clock.Now(), models.TypeVelo, 10, nil)
	createActivity(t, db, c.ID, clock.Now(), models.TypeVelo, 5, nil)

	teams, err := svc.Teams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 3)

	assert.Equal(t, "strong", teams[0].Name)
	assert.Equal(t, int64(2), teams[0].MembersCount)
	assert.Equal(t, int64(3), teams[0].TotalActivity)
	assert.Equal(t, 40.0, teams[0].TotalDistance)
	assert.Equal(t, 13.33, teams[0].AvgPerActivity)
	assert.Equal(t, 20.0, teams[0].AvgPerMember)

	assert.Equal(t, "weak", teams[1].Name)
	assert.Equal(t, 5.0, teams[1].TotalDistance)

	// zero members yields zero averages, not an error
	assert.Equal(t, "empty", teams[2].Name)
	assert.Zero(t, teams[2].MembersCount)
	assert.Zero(t, teams[2].AvgPerMember)
	assert.Zero(t, teams[2].AvgPerActivity)
}

func TestLeaderboardTopTenPositions(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	svc := NewStatsService(db, clock)

	for i := 0; i < 12; i++ {
		u := createUser(t, db, string(rune('a'+i)), nil, false)
		createActivity(t, db, u.ID, clock.Now().AddDate(0, 0, -i), models.TypeVelo, float64(100-i), nil)
	}

	entries, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 10)

	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, 100.0, entries[0].TotalDistance)
	assert.Equal(t, 91.0, entries[9].TotalDistance)
}

func TestLeaderboardIncludesInactiveUsers(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	svc := NewStatsService(db, clock)

	active := createUser(t, db, "active", nil, false)
	createUser(t, db, "idle", nil, false)
	createActivity(t, db, active.ID, clock.Now(), models.TypeVelo, 10, nil)

	entries, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "active", entries[0].Name)
	assert.Equal(t, "idle", entries[1].Name)
	assert.Zero(t, entries[1].TotalDistance)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestPersonalStats(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	svc := NewStatsService(db, clock)

	team := createTeam(t, db, "A")
	alice := createUser(t, db, "alice", &team.ID, false)
	bob := createUser(t, db, "bob", &team.ID, false)
	carol := createUser(t, db, "carol", nil, false)

	createActivity(t, db, alice.ID, clock.Now(), models.TypeVelo, 10, nil)
	createActivity(t, db, alice.ID, clock.Now().AddDate(0, 0, -4), models.TypeMarcheCourse, 2, intPtr(3000))
	createActivity(t, db, bob.ID, clock.Now(), models.TypeVelo, 40, nil)
	createActivity(t, db, carol.ID, clock.Now(), models.TypeVelo, 20, nil)

	stats, err := svc.Personal(context.Background(), Principal{UserID: alice.ID})
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalActivities)
	assert.Equal(t, 12.0, stats.TotalDistanceKm)
	assert.Equal(t, int64(3000), stats.TotalSteps)
	assert.Equal(t, int64(1), stats.VeloStats.Count)
	assert.Equal(t, 10.0, stats.VeloStats.TotalDistance)
	assert.Equal(t, int64(1), stats.MarcheStats.Count)
	assert.Equal(t, int64(3000), stats.MarcheStats.TotalSteps)

	// first activity 4 days ago: 12 km over 5 counted days
	assert.Equal(t, 2.4, stats.DailyAverageKm)

	// bob (40) and carol (20) beat alice globally; only bob shares her team
	assert.Equal(t, 3, stats.Ranking.General)
	assert.Equal(t, 2, stats.Ranking.Team)

	assert.Len(t, stats.Last30Days, 2)
	require.NotNil(t, stats.User.Team)
	assert.Equal(t, "A", stats.User.Team.Name)
}
