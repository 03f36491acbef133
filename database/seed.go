package database

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/MaximeWq/challenge-mobilite-app/models"
	"github.com/MaximeWq/challenge-mobilite-app/services"
	"github.com/MaximeWq/challenge-mobilite-app/utils"
)

// Seed fills an empty database with demo teams, users and activities.
// Idempotent: does nothing when teams already exist.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Team{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("seed skipped: database not empty")
		return nil
	}

	teams := []models.Team{
		{Name: "Les Rouleurs Verts", Description: "Équipe vélo dynamique"},
		{Name: "Les Marcheurs Urbains", Description: "Fans de marche et de course"},
		{Name: "Les Écolos Pressés", Description: "Toujours en mouvement"},
		{Name: "Les Sprinteurs du Midi", Description: "Les rapides de la pause déjeuner"},
		{Name: "Les Baladeurs", Description: "Pour le plaisir de bouger"},
	}
	if err := db.Create(&teams).Error; err != nil {
		return err
	}

	adminPass, err := utils.HashPassword("admin1234")
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "Admin Demo",
		Email:    "admin@demo.com",
		Password: adminPass,
		TeamID:   &teams[0].ID,
		IsAdmin:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	defaultPass, err := utils.HashPassword("password")
	if err != nil {
		return err
	}
	names := []string{
		"Alice Martin", "Bob Dupont", "Chloé Bernard", "David Petit", "Emma Leroy",
		"Félix Moreau", "Gina Roux", "Hugo Girard", "Inès Lefevre", "Julien Fabre",
		"Karim Blin", "Léa Simon", "Mickael Durand", "Nina Perret",
	}
	users := make([]models.User, 0, len(names))
	for i, name := range names {
		users = append(users, models.User{
			Name:     name,
			Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@demo.com",
			Password: defaultPass,
			TeamID:   &teams[i%len(teams)].ID,
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	// 2 to 5 activities per user over the past 30 days, one per day
	all := append([]models.User{admin}, users...)
	for _, u := range all {
		n := 2 + rand.Intn(4)
		days := map[int]bool{}
		for len(days) < n {
			days[1+rand.Intn(30)] = true
		}
		for d := range days {
			date := services.DayStart(time.Now().AddDate(0, 0, -d))
			activity := models.Activity{UserID: u.ID, Date: date}
			if rand.Intn(2) == 0 {
				activity.Type = models.TypeVelo
				activity.DistanceKm = float64(2 + rand.Intn(19))
			} else {
				steps := 2000 + rand.Intn(13001)
				activity.Type = models.TypeMarcheCourse
				activity.Steps = &steps
				activity.DistanceKm = services.StepsToKm(steps)
			}
			if err := db.Create(&activity).Error; err != nil {
				return fmt.Errorf("seed activity for user %d: %w", u.ID, err)
			}
		}
	}

	log.Printf("seeded %d teams, %d users", len(teams), len(all))
	return nil
}
