package models

import (
	"time"
)

// Comment represents a comment posted by a user on a video.
// CreatedAt is store-assigned and immutable; only Content may change
// after creation.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VideoID   uint      `gorm:"not null;index" json:"videoId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"<-:create" json:"createdAt"`
}
