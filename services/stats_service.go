package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/MaximeWq/challenge-mobilite-app/models"
)

// StatsService is the read side: aggregates, rollups and rankings over the
// activity table. Every query is a snapshot; rounding to 2 decimals happens
// at output, sums keep full precision.
type StatsService struct {
	db    *gorm.DB
	clock Clock
}

func NewStatsService(db *gorm.DB, clock Clock) *StatsService {
	return &StatsService{db: db, clock: clock}
}

type TypeStats struct {
	Type          string  `json:"type"`
	Count         int64   `json:"count"`
	TotalDistance float64 `json:"total_distance"`
}

type DailyStats struct {
	Date          string  `json:"date"`
	Count         int64   `json:"count"`
	TotalDistance float64 `json:"total_distance"`
}

type GeneralStats struct {
	TotalActivities     int64        `json:"total_activities"`
	TotalDistanceKm     float64      `json:"total_distance_km"`
	TotalSteps          int64        `json:"total_steps"`
	TotalUsers          int64        `json:"total_users"`
	TotalTeams          int64        `json:"total_teams"`
	ActivitiesThisWeek  int64        `json:"activities_this_week"`
	ActivitiesThisMonth int64        `json:"activities_this_month"`
	AvgDistance         float64      `json:"average_distance_per_activity"`
	ActivitiesByType    []TypeStats  `json:"activities_by_type"`
	DailyActivities     []DailyStats `json:"daily_activities"`
}

// General computes the challenge-wide snapshot.
func (s *StatsService) General(ctx context.Context) (*GeneralStats, error) {
	now := s.clock.Now()

	var activities []models.Activity
	if err := s.db.WithContext(ctx).Find(&activities).Error; err != nil {
		return nil, err
	}

	out := &GeneralStats{
		ActivitiesByType: []TypeStats{},
		DailyActivities:  []DailyStats{},
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Team{}).Count(&out.TotalTeams).Error; err != nil {
		return nil, err
	}

	weekStart := startOfWeek(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	windowStart := DayStart(now).AddDate(0, 0, -30)

	var totalDistance float64
	byType := map[string]*TypeStats{}
	byDay := map[string]*DailyStats{}

	for i := range activities {
		a := &activities[i]
		out.TotalActivities++
		totalDistance += a.DistanceKm
		if a.Steps != nil {
			out.TotalSteps += int64(*a.Steps)
		}

		day := DayStart(a.Date)
		if !day.Before(weekStart) {
			out.ActivitiesThisWeek++
		}
		if !day.Before(monthStart) {
			out.ActivitiesThisMonth++
		}

		ts := byType[a.Type]
		if ts == nil {
			ts = &TypeStats{Type: a.Type}
			byType[a.Type] = ts
		}
		ts.Count++
		ts.TotalDistance += a.DistanceKm

		if !day.Before(windowStart) {
			key := day.Format("2006-01-02")
			ds := byDay[key]
			if ds == nil {
				ds = &DailyStats{Date: key}
				byDay[key] = ds
			}
			ds.Count++
			ds.TotalDistance += a.DistanceKm
		}
	}

	out.TotalDistanceKm = round2(totalDistance)
	if out.TotalActivities > 0 {
		out.AvgDistance = round2(totalDistance / float64(out.TotalActivities))
	}

	for _, t := range []string{models.TypeVelo, models.TypeMarcheCourse} {
		if ts, ok := byType[t]; ok {
			ts.TotalDistance = round2(ts.TotalDistance)
			out.ActivitiesByType = append(out.ActivitiesByType, *ts)
		}
	}

	days := make([]string, 0, len(byDay))
	for k := range byDay {
		days = append(days, k)
	}
	sort.Strings(days)
	for _, k := range days {
		ds := byDay[k]
		ds.TotalDistance = round2(ds.TotalDistance)
		out.DailyActivities = append(out.DailyActivities, *ds)
	}

	return out, nil
}

type TeamStats struct {
	ID             uint    `json:"id"`
	Name           string  `json:"nom"`
	Description    string  `json:"description"`
	MembersCount   int64   `json:"members_count"`
	TotalActivity  int64   `json:"total_activities"`
	TotalDistance  float64 `json:"total_distance"`
	AvgPerActivity float64 `json:"avg_distance_per_activity"`
	AvgPerMember   float64 `json:"avg_distance_per_member"`
}

// Teams returns the per-team rollup ordered by total distance descending.
// A team without members (or without activities) rolls up to zeros, never an
// error.
func (s *StatsService) Teams(ctx context.Context) ([]TeamStats, error) {
	var teams []models.Team
	if err := s.db.WithContext(ctx).Order("id").Find(&teams).Error; err != nil {
		return nil, err
	}

	totals, err := s.userTotals(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]TeamStats, 0, len(teams))
	for _, team := range teams {
		ts := TeamStats{ID: team.ID, Name: team.Name, Description: team.Description}
		var distance float64
		for _, ut := range totals {
			if ut.TeamID == nil || *ut.TeamID != team.ID {
				continue
			}
			ts.MembersCount++
			ts.TotalActivity += ut.Count
			distance += ut.Distance
		}
		ts.TotalDistance = round2(distance)
		if ts.TotalActivity > 0 {
			ts.AvgPerActivity = round2(distance / float64(ts.TotalActivity))
		}
		if ts.MembersCount > 0 {
			ts.AvgPerMember = round2(distance / float64(ts.MembersCount))
		}
		out = append(out, ts)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalDistance != out[j].TotalDistance {
			return out[i].TotalDistance > out[j].TotalDistance
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type LeaderboardEntry struct {
	ID             uint    `json:"id"`
	Name           string  `json:"nom"`
	Email          string  `json:"email"`
	TeamID         *uint   `json:"equipe_id"`
	TeamName       string  `json:"equipe,omitempty"`
	TotalActivity  int64   `json:"total_activities"`
	TotalDistance  float64 `json:"total_distance"`
	AvgPerActivity float64 `json:"avg_distance_per_activity"`
	Rank           int     `json:"rank"`
}

const leaderboardSize = 10

// Leaderboard returns the top users by total distance. Rank here is the
// 1-based position in the truncated list, which can diverge from the global
// rank when positions above the cut are tied.
func (s *StatsService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	totals, err := s.userTotals(ctx)
	if err != nil {
		return nil, err
	}
	sortByDistance(totals)

	if len(totals) > leaderboardSize {
		totals = totals[:leaderboardSize]
	}
	out := make([]LeaderboardEntry, 0, len(totals))
	for i, ut := range totals {
		entry := LeaderboardEntry{
			ID:            ut.ID,
			Name:          ut.Name,
			Email:         ut.Email,
			TeamID:        ut.TeamID,
			TeamName:      ut.TeamName,
			TotalActivity: ut.Count,
			TotalDistance: round2(ut.Distance),
			Rank:          i + 1,
		}
		if ut.Count > 0 {
			entry.AvgPerActivity = round2(ut.Distance / float64(ut.Count))
		}
		out = append(out, entry)
	}
	return out, nil
}

type PersonalStats struct {
	User            *models.User      `json:"utilisateur"`
	TotalActivities int64             `json:"total_activities"`
	TotalDistanceKm float64           `json:"total_distance_km"`
	TotalSteps      int64             `json:"total_steps"`
	DailyAverageKm  float64           `json:"daily_average_km"`
	VeloStats       VeloStats         `json:"velo_stats"`
	MarcheStats     MarcheStats       `json:"marche_stats"`
	Ranking         Ranking           `json:"ranking"`
	Last30Days      []models.Activity `json:"last_30_days"`
}

type VeloStats struct {
	Count         int64   `json:"count"`
	TotalDistance float64 `json:"total_distance"`
}

type MarcheStats struct {
	Count         int64   `json:"count"`
	TotalDistance float64 `json:"total_distance"`
	TotalSteps    int64   `json:"total_steps"`
}

type Ranking struct {
	General int `json:"general"`
	Team    int `json:"team"`
}

// Personal computes the caller's own snapshot, including where they stand in
// the global and team rankings.
func (s *StatsService) Personal(ctx context.Context, p Principal) (*PersonalStats, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Team").First(&user, p.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var activities []models.Activity
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("date ASC").
		Find(&activities).Error; err != nil {
		return nil, err
	}

	out := &PersonalStats{User: &user, Last30Days: []models.Activity{}}
	now := s.clock.Now()
	windowStart := DayStart(now).AddDate(0, 0, -30)

	var totalDistance float64
	for _, a := range activities {
		out.TotalActivities++
		totalDistance += a.DistanceKm
		if a.Steps != nil {
			out.TotalSteps += int64(*a.Steps)
		}
		switch a.Type {
		case models.TypeVelo:
			out.VeloStats.Count++
			out.VeloStats.TotalDistance += a.DistanceKm
		case models.TypeMarcheCourse:
			out.MarcheStats.Count++
			out.MarcheStats.TotalDistance += a.DistanceKm
			if a.Steps != nil {
				out.MarcheStats.TotalSteps += int64(*a.Steps)
			}
		}
		if !DayStart(a.Date).Before(windowStart) {
			out.Last30Days = append(out.Last30Days, a)
		}
	}
	out.TotalDistanceKm = round2(totalDistance)
	out.VeloStats.TotalDistance = round2(out.VeloStats.TotalDistance)
	out.MarcheStats.TotalDistance = round2(out.MarcheStats.TotalDistance)

	daysSinceFirst := 1
	if len(activities) > 0 {
		daysSinceFirst = int(DayStart(now).Sub(DayStart(activities[0].Date)).Hours()/24) + 1
		if daysSinceFirst < 1 {
			daysSinceFirst = 1
		}
	}
	out.DailyAverageKm = round2(totalDistance / float64(daysSinceFirst))

	totals, err := s.userTotals(ctx)
	if err != nil {
		return nil, err
	}
	out.Ranking.General = globalRank(totals, user.ID)
	out.Ranking.Team = teamRank(totals, user.ID)

	return out, nil
}

// userTotal is the per-user metric row every ranking works from. Users with
// no activities appear with zero totals rather than being excluded.
type userTotal struct {
	ID       uint
	Name     string
	Email    string
	TeamID   *uint
	TeamName string
	Count    int64
	Distance float64
}

func (s *StatsService) userTotals(ctx context.Context) ([]userTotal, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Preload("Team").Order("id").Find(&users).Error; err != nil {
		return nil, err
	}

	type agg struct {
		Count    int64
		Distance float64
	}
	rows := []struct {
		UserID   uint
		Count    int64
		Distance float64
	}{}
	if err := s.db.WithContext(ctx).Model(&models.Activity{}).
		Select("user_id AS user_id, COUNT(*) AS count, SUM(distance_km) AS distance").
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	byUser := make(map[uint]agg, len(rows))
	for _, r := range rows {
		byUser[r.UserID] = agg{Count: r.Count, Distance: r.Distance}
	}

	out := make([]userTotal, 0, len(users))
	for _, u := range users {
		ut := userTotal{ID: u.ID, Name: u.Name, Email: u.Email, TeamID: u.TeamID}
		if u.Team != nil {
			ut.TeamName = u.Team.Name
		}
		if a, ok := byUser[u.ID]; ok {
			ut.Count = a.Count
			ut.Distance = a.Distance
		}
		out = append(out, ut)
	}
	return out, nil
}

// globalRank applies the ranking rule: 1 + number of other users whose
// metric is strictly greater. Tied users share the same rank and the next
// distinct metric drops by the tie count.
func globalRank(totals []userTotal, targetID uint) int {
	target := findTotal(totals, targetID)
	if target == nil {
		return 0
	}
	rank := 1
	for i := range totals {
		if totals[i].ID != targetID && totals[i].Distance > target.Distance {
			rank++
		}
	}
	return rank
}

// teamRank is globalRank restricted to users sharing the target's team.
// A user without a team only competes against themselves.
func teamRank(totals []userTotal, targetID uint) int {
	target := findTotal(totals, targetID)
	if target == nil {
		return 0
	}
	if target.TeamID == nil {
		return 1
	}
	rank := 1
	for i := range totals {
		ut := &totals[i]
		if ut.ID == targetID || ut.TeamID == nil || *ut.TeamID != *target.TeamID {
			continue
		}
		if ut.Distance > target.Distance {
			rank++
		}
	}
	return rank
}

func findTotal(totals []userTotal, id uint) *userTotal {
	for i := range totals {
		if totals[i].ID == id {
			return &totals[i]
		}
	}
	return nil
}

// sortByDistance orders totals by distance descending then ID ascending so
// repeated queries list tied users in the same order.
func sortByDistance(totals []userTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Distance != totals[j].Distance {
			return totals[i].Distance > totals[j].Distance
		}
		return totals[i].ID < totals[j].ID
	})
}

func startOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	tt := DayStart(t)
	return tt.AddDate(0, 0, -(wd - 1)) // Monday
}
