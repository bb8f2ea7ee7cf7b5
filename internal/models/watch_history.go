package models

import (
	"time"
)

// WatchHistory tracks a user's viewing of a video. There is at most one
// row per (user, video) pair; writes for an existing pair update
// Progress in place and refresh WatchedAt.
type WatchHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_video_watch" json:"userId"`
	VideoID   uint      `gorm:"not null;uniqueIndex:idx_user_video_watch" json:"videoId"`
	WatchedAt time.Time `gorm:"autoUpdateTime" json:"watchedAt"`
	// Progress is the playback position in seconds.
	Progress int `gorm:"not null;default:0" json:"progress"`
}
