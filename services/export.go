package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/MaximeWq/challenge-mobilite-app/models"
)

// CSV export uses the semicolon dialect of the challenge spreadsheets:
// ";" as delimiter, CRLF row endings, fields quoted only when they contain
// the delimiter, a double quote or a newline, embedded quotes doubled.
// encoding/csv cannot produce that exact combination, hence the hand-rolled
// writer.

var exportHeader = []string{"Date", "Utilisateur", "Équipe", "Type", "Distance (km)", "Pas"}

// ExportCSV renders every activity, newest date first, as a semicolon CSV
// document.
func (s *StatsService) ExportCSV(ctx context.Context) (string, error) {
	var activities []models.Activity
	if err := s.db.WithContext(ctx).
		Preload("User").Preload("User.Team").
		Order("date DESC").
		Find(&activities).Error; err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(activities)+1)
	rows = append(rows, exportHeader)
	for _, a := range activities {
		var userName, teamName string
		if a.User != nil {
			userName = a.User.Name
			if a.User.Team != nil {
				teamName = a.User.Team.Name
			}
		}
		steps := 0
		if a.Steps != nil {
			steps = *a.Steps
		}
		rows = append(rows, []string{
			a.Date.Format("2006-01-02"),
			userName,
			teamName,
			TypeLabel(a.Type),
			strconv.FormatFloat(a.DistanceKm, 'f', 2, 64),
			strconv.Itoa(steps),
		})
	}
	return FormatCSV(rows), nil
}

// TypeLabel maps an activity type to its human export label.
func TypeLabel(activityType string) string {
	if activityType == models.TypeVelo {
		return "Vélo"
	}
	return "Marche/Course"
}

// FormatCSV encodes rows in the semicolon dialect described above.
func FormatCSV(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteString(escapeCSVField(field))
		}
		b.WriteString("\r\n")
	}
	return b.String()
}

func escapeCSVField(field string) string {
	escaped := strings.ReplaceAll(field, `"`, `""`)
	if strings.ContainsAny(escaped, ";\"\n") {
		return `"` + escaped + `"`
	}
	return escaped
}
