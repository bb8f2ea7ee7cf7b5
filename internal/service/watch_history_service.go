package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"kidtube/internal/models"
	"kidtube/internal/repository"
)

// recentWindow bounds the "recently watched" listing.
const recentWindow = 7 * 24 * time.Hour

// WatchHistoryService tracks what each user has watched and how far
// they got. One row exists per (user, video) pair; repeat watches
// update it in place.
type WatchHistoryService struct {
	history repository.WatchHistoryRepository
	videos  repository.VideoRepository
}

func NewWatchHistoryService(history repository.WatchHistoryRepository, videos repository.VideoRepository) *WatchHistoryService {
	return &WatchHistoryService{history: history, videos: videos}
}

// Record upserts the user's history entry for the video, refreshing
// the watched timestamp. A negative progress keeps the stored value;
// otherwise progress is overwritten.
func (s *WatchHistoryService) Record(ctx context.Context, userID, videoID uint, progress int) (*models.WatchHistory, error) {
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("video", videoID)
		}
		return nil, models.NewInternalError("failed to get video", err)
	}

	entry, err := s.history.FindByUserAndVideo(ctx, userID, videoID)
	if err != nil {
		return nil, models.NewInternalError("failed to look up watch history", err)
	}

	if entry == nil {
		entry = &models.WatchHistory{UserID: userID, VideoID: videoID}
		if progress > 0 {
			entry.Progress = progress
		}
		if err := s.history.Create(ctx, entry); err != nil {
			return nil, models.NewInternalError("failed to record watch history", err)
		}
		return entry, nil
	}

	if progress >= 0 {
		entry.Progress = progress
	}
	if err := s.history.Save(ctx, entry); err != nil {
		return nil, models.NewInternalError("failed to update watch history", err)
	}
	return entry, nil
}

// UpdateProgress sets the playback position for an existing entry,
// creating one when absent.
func (s *WatchHistoryService) UpdateProgress(ctx context.Context, userID, videoID uint, progress int) (*models.WatchHistory, error) {
	if progress < 0 {
		return nil, models.NewValidationError("progress must not be negative")
	}
	return s.Record(ctx, userID, videoID, progress)
}

// GetProgress returns the stored playback position, or zero when the
// user has no entry for the video.
func (s *WatchHistoryService) GetProgress(ctx context.Context, userID, videoID uint) (int, error) {
	entry, err := s.history.FindByUserAndVideo(ctx, userID, videoID)
	if err != nil {
		return 0, models.NewInternalError("failed to look up watch history", err)
	}
	if entry == nil {
		return 0, nil
	}
	return entry.Progress, nil
}

func (s *WatchHistoryService) GetByID(ctx context.Context, id uint) (*models.WatchHistoryView, error) {
	entry, err := s.history.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("watch history", id)
		}
		return nil, models.NewInternalError("failed to get watch history", err)
	}
	video, err := s.videos.GetByID(ctx, entry.VideoID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError("failed to load watched video", err)
	}
	return models.NewWatchHistoryView(entry, video), nil
}

func (s *WatchHistoryService) HasWatched(ctx context.Context, userID, videoID uint) (bool, error) {
	entry, err := s.history.FindByUserAndVideo(ctx, userID, videoID)
	if err != nil {
		return false, models.NewInternalError("failed to look up watch history", err)
	}
	return entry != nil, nil
}

// ListForUser returns the user's full history newest first, each entry
// carrying a snapshot of the video it refers to.
func (s *WatchHistoryService) ListForUser(ctx context.Context, userID uint) ([]*models.WatchHistoryView, error) {
	entries, err := s.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError("failed to list watch history", err)
	}
	return s.enrich(ctx, entries)
}

func (s *WatchHistoryService) ListForUserPaged(ctx context.Context, userID uint, page, size int) (*models.Page[*models.WatchHistoryView], error) {
	page, size = normalizePage(page, size)
	entries, total, err := s.history.ListByUserPaged(ctx, userID, size, page*size)
	if err != nil {
		return nil, models.NewInternalError("failed to list watch history", err)
	}
	views, err := s.enrich(ctx, entries)
	if err != nil {
		return nil, err
	}
	return models.NewPage(views, total, page, size), nil
}

// ListRecent returns entries watched within the last seven days.
func (s *WatchHistoryService) ListRecent(ctx context.Context, userID uint) ([]*models.WatchHistoryView, error) {
	entries, err := s.history.ListRecentByUser(ctx, userID, time.Now().Add(-recentWindow))
	if err != nil {
		return nil, models.NewInternalError("failed to list recent watch history", err)
	}
	return s.enrich(ctx, entries)
}

func (s *WatchHistoryService) CountDistinctVideos(ctx context.Context, userID uint) (int64, error) {
	count, err := s.history.CountDistinctVideosByUser(ctx, userID)
	if err != nil {
		return 0, models.NewInternalError("failed to count watched videos", err)
	}
	return count, nil
}

func (s *WatchHistoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.history.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("watch history", id)
		}
		return models.NewInternalError("failed to get watch history", err)
	}
	if err := s.history.Delete(ctx, id); err != nil {
		return models.NewInternalError("failed to delete watch history", err)
	}
	return nil
}

// DeleteForUserVideo removes the user's entry for the video if one
// exists. Absent entries are a no-op.
func (s *WatchHistoryService) DeleteForUserVideo(ctx context.Context, userID, videoID uint) error {
	if err := s.history.DeleteByUserAndVideo(ctx, userID, videoID); err != nil {
		return models.NewInternalError("failed to delete watch history", err)
	}
	return nil
}

// enrich attaches a video snapshot to each entry. A deleted video
// leaves the snapshot empty instead of dropping the entry.
func (s *WatchHistoryService) enrich(ctx context.Context, entries []*models.WatchHistory) ([]*models.WatchHistoryView, error) {
	videos := make(map[uint]*models.Video)
	views := make([]*models.WatchHistoryView, 0, len(entries))
	for _, e := range entries {
		video, ok := videos[e.VideoID]
		if !ok {
			v, err := s.videos.GetByID(ctx, e.VideoID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewInternalError("failed to load watched video", err)
			}
			video = v
			videos[e.VideoID] = video
		}
		views = append(views, models.NewWatchHistoryView(e, video))
	}
	return views, nil
}
