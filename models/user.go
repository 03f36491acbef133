package models

import (
	"gorm.io/gorm"
)

// User is a challenge participant. TeamID is nullable: a user may exist
// before joining a team. IsAdmin grants the management routes. Deletes are
// unscoped so a removed account's email leaves the unique index and can
// register again.
type User struct {
	gorm.Model
	Name     string `gorm:"not null" json:"nom"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	TeamID   *uint  `gorm:"index" json:"equipe_id"`
	IsAdmin  bool   `gorm:"not null;default:false" json:"is_admin"`

	Team       *Team      `gorm:"foreignKey:TeamID" json:"equipe,omitempty"`
	Activities []Activity `gorm:"foreignKey:UserID" json:"-"`
}
