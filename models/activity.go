package models

import (
	"time"

	"gorm.io/gorm"
)

// Activity types. Distance is declared directly for cycling; for walk/run it
// is derived from the step count.
const (
	TypeVelo         = "velo"
	TypeMarcheCourse = "marche_course"
)

// Activity is one declaration: a single record per user per calendar day.
// Date is stored at local midnight (day granularity). The composite unique
// index backs the one-activity-per-day rule at the storage layer; the
// service checks it first so the caller gets a business error, the index
// only closes the create/create race. Deletes are unscoped: the index does
// not see DeletedAt, so a soft-deleted row would block re-declaring the day.
type Activity struct {
	gorm.Model
	UserID     uint      `gorm:"not null;uniqueIndex:idx_activities_user_date" json:"utilisateur_id"`
	Date       time.Time `gorm:"not null;uniqueIndex:idx_activities_user_date" json:"date"`
	Type       string    `gorm:"not null" json:"type"`
	DistanceKm float64   `gorm:"not null" json:"distance_km"`
	Steps      *int      `json:"pas"`

	User *User `gorm:"foreignKey:UserID" json:"utilisateur,omitempty"`
}
