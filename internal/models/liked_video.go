package models

import (
	"time"
)

// LikedVideo records that a user likes a video.
// The combination of UserID and VideoID must be unique.
type LikedVideo struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  uint      `gorm:"not null;uniqueIndex:idx_user_video_like" json:"userId"`
	VideoID uint      `gorm:"not null;uniqueIndex:idx_user_video_like" json:"videoId"`
	LikedAt time.Time `gorm:"autoCreateTime" json:"likedAt"`
}
