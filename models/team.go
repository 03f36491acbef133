package models

import (
	"gorm.io/gorm"
)

// Team groups users for the challenge ranking. A team owns zero or more users.
type Team struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null" json:"nom"`
	Description string `json:"description"`

	Users []User `gorm:"foreignKey:TeamID" json:"utilisateurs,omitempty"`
}
