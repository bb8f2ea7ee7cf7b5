package models

import (
	"time"
)

// VideoType classifies a video as either learning or entertainment content.
type VideoType string

const (
	VideoTypeLearning      VideoType = "learning"
	VideoTypeEntertainment VideoType = "entertainment"
)

// Valid reports whether t is one of the known video types.
func (t VideoType) Valid() bool {
	return t == VideoTypeLearning || t == VideoTypeEntertainment
}

// Video represents a playable video in the catalog.
// LikesCount and CommentsCount are denormalized counters maintained
// exclusively through the catalog's increment/decrement operations.
type Video struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	URL           string    `gorm:"type:text;not null" json:"url"`
	ThumbnailURL  string    `gorm:"type:text" json:"thumbnailUrl"`
	Duration      int       `gorm:"not null" json:"duration"`
	Type          VideoType `gorm:"size:20;not null;index" json:"type"`
	LikesCount    int       `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount int       `gorm:"not null;default:0" json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
