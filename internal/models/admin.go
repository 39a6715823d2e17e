package models

import (
	"gorm.io/gorm"
)

// Admin is an organiser allowed to manage events and read reports.
// Admins sign in through Discord.
type Admin struct {
	gorm.Model
	DiscordID string `gorm:"uniqueIndex" json:"discord_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}
