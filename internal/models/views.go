package models

import (
	"time"
)

// UnknownUserNickname is shown on comment views whose author row no
// longer exists.
const UnknownUserNickname = "unknown user"

// CommentView is a read-only view of a comment enriched with display
// fields borrowed from its author. Missing authors yield placeholder
// values rather than an error.
type CommentView struct {
	ID            uint      `json:"id"`
	VideoID       uint      `json:"videoId"`
	UserID        uint      `json:"userId"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
	UserNickname  string    `json:"userNickname"`
	UserAvatarURL string    `json:"userAvatarUrl"`
}

// NewCommentView builds a CommentView from a comment and its author.
// A nil author produces the placeholder nickname and an empty avatar.
func NewCommentView(comment *Comment, author *User) *CommentView {
	view := &CommentView{
		ID:            comment.ID,
		VideoID:       comment.VideoID,
		UserID:        comment.UserID,
		Content:       comment.Content,
		CreatedAt:     comment.CreatedAt,
		UserNickname:  UnknownUserNickname,
		UserAvatarURL: "",
	}
	if author != nil {
		view.UserNickname = author.Nickname
		if view.UserNickname == "" {
			view.UserNickname = author.Username
		}
		view.UserAvatarURL = author.AvatarURL
	}
	return view
}

// WatchHistoryView is a read-only view of a watch-history row enriched
// with a snapshot of the watched video. A deleted video leaves the
// video fields at their zero values.
type WatchHistoryView struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	VideoID   uint      `json:"videoId"`
	WatchedAt time.Time `json:"watchedAt"`
	Progress  int       `json:"progress"`

	VideoTitle        string `json:"videoTitle,omitempty"`
	VideoDescription  string `json:"videoDescription,omitempty"`
	VideoThumbnailURL string `json:"videoThumbnailUrl,omitempty"`
	VideoDuration     int    `json:"videoDuration,omitempty"`
	VideoType         string `json:"videoType,omitempty"`
}

// NewWatchHistoryView builds a WatchHistoryView from a history row and
// the video it references, which may be nil.
func NewWatchHistoryView(history *WatchHistory, video *Video) *WatchHistoryView {
	view := &WatchHistoryView{
		ID:        history.ID,
		UserID:    history.UserID,
		VideoID:   history.VideoID,
		WatchedAt: history.WatchedAt,
		Progress:  history.Progress,
	}
	if video != nil {
		view.VideoTitle = video.Title
		view.VideoDescription = video.Description
		view.VideoThumbnailURL = video.ThumbnailURL
		view.VideoDuration = video.Duration
		view.VideoType = string(video.Type)
	}
	return view
}

// Page is a single page of results plus total-count metadata.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
}

// NewPage assembles a Page for the given 0-based page number and size.
func NewPage[T any](content []T, total int64, page, size int) *Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return &Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Page:          page,
		Size:          size,
	}
}
