// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account in the KidTube application.
// Passwords are stored as bcrypt hashes and never serialized.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"userId"`
	Username      string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password      string    `gorm:"size:100;not null" json:"-"`
	Email         string    `gorm:"size:100" json:"email"`
	Nickname      string    `gorm:"size:50" json:"nickname"`
	AvatarURL     string    `gorm:"size:255" json:"avatarUrl"`
	BackgroundURL string    `gorm:"size:255" json:"backgroundUrl"`
	Signature     string    `gorm:"size:255" json:"signature"`
	CreatedAt     time.Time `json:"createTime"`
	UpdatedAt     time.Time `json:"updateTime"`
}
