package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"kidtube/internal/cache"
	"kidtube/internal/models"
	"kidtube/internal/observability"
	"kidtube/internal/repository"
)

// VideoService owns the video catalog: CRUD, search, the hot and
// latest orderings, and the denormalized like/comment counters.
type VideoService struct {
	repo repository.VideoRepository
}

func NewVideoService(repo repository.VideoRepository) *VideoService {
	return &VideoService{repo: repo}
}

func (s *VideoService) Create(ctx context.Context, video *models.Video) error {
	if strings.TrimSpace(video.Title) == "" {
		return models.NewValidationError("title is required")
	}
	if video.Type != "" && !video.Type.Valid() {
		return models.NewValidationError(fmt.Sprintf("invalid video type: %s", video.Type))
	}
	video.LikesCount = 0
	video.CommentsCount = 0

	if err := s.repo.Create(ctx, video); err != nil {
		return models.NewInternalError("failed to create video", err)
	}
	return nil
}

func (s *VideoService) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	err := cache.CacheAside(ctx, cache.VideoKey(id), &video, cache.VideoTTL, func() error {
		v, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		video = *v
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("video", id)
		}
		return nil, models.NewInternalError("failed to get video", err)
	}
	return &video, nil
}

// List returns a page of videos, optionally filtered by type and by a
// case-preserving substring match on the title.
func (s *VideoService) List(ctx context.Context, videoType models.VideoType, title string, page, size int) (*models.Page[*models.Video], error) {
	page, size = normalizePage(page, size)
	offset := page * size

	if videoType != "" && !videoType.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("invalid video type: %s", videoType))
	}

	var (
		videos []*models.Video
		total  int64
		err    error
	)
	switch {
	case videoType != "" && title != "":
		videos, total, err = s.repo.SearchByTypeAndTitle(ctx, videoType, title, size, offset)
	case videoType != "":
		videos, total, err = s.repo.ListByType(ctx, videoType, size, offset)
	case title != "":
		videos, total, err = s.repo.SearchByTitle(ctx, title, size, offset)
	default:
		videos, total, err = s.repo.List(ctx, size, offset)
	}
	if err != nil {
		return nil, models.NewInternalError("failed to list videos", err)
	}
	return models.NewPage(videos, total, page, size), nil
}

// ListHot returns videos ordered by likes count descending. Pages are
// cached under a short TTL since this is the app's landing query and
// counter churn would otherwise thrash explicit invalidation.
func (s *VideoService) ListHot(ctx context.Context, videoType models.VideoType, page, size int) (*models.Page[*models.Video], error) {
	page, size = normalizePage(page, size)
	offset := page * size

	if videoType != "" && !videoType.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("invalid video type: %s", videoType))
	}

	var cached models.Page[*models.Video]
	key := cache.HotListKey(string(videoType), page, size)
	err := cache.CacheAside(ctx, key, &cached, cache.HotListTTL, func() error {
		videos, total, err := s.repo.ListHot(ctx, videoType, size, offset)
		if err != nil {
			return err
		}
		cached = *models.NewPage(videos, total, page, size)
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError("failed to list hot videos", err)
	}
	return &cached, nil
}

func (s *VideoService) ListLatest(ctx context.Context, videoType models.VideoType, page, size int) (*models.Page[*models.Video], error) {
	page, size = normalizePage(page, size)
	if videoType != "" && !videoType.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("invalid video type: %s", videoType))
	}
	videos, total, err := s.repo.ListLatest(ctx, videoType, size, page*size)
	if err != nil {
		return nil, models.NewInternalError("failed to list latest videos", err)
	}
	return models.NewPage(videos, total, page, size), nil
}

func (s *VideoService) Update(ctx context.Context, video *models.Video) error {
	existing, err := s.repo.GetByID(ctx, video.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("video", video.ID)
		}
		return models.NewInternalError("failed to get video", err)
	}
	if video.Type != "" && !video.Type.Valid() {
		return models.NewValidationError(fmt.Sprintf("invalid video type: %s", video.Type))
	}

	// Counters are owned by the like and comment flows, never by edits.
	video.LikesCount = existing.LikesCount
	video.CommentsCount = existing.CommentsCount
	video.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, video); err != nil {
		return models.NewInternalError("failed to update video", err)
	}
	cache.InvalidateVideo(ctx, video.ID)
	return nil
}

func (s *VideoService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("video", id)
		}
		return models.NewInternalError("failed to get video", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return models.NewInternalError("failed to delete video", err)
	}
	cache.InvalidateVideo(ctx, id)
	return nil
}

// IncrementLikes bumps the video's likes counter. A missing video is a
// silent no-op so counter maintenance never fails a caller that has
// already committed its own row.
func (s *VideoService) IncrementLikes(ctx context.Context, id uint) error {
	if err := s.repo.IncrementLikes(ctx, id); err != nil {
		return models.NewInternalError("failed to increment likes", err)
	}
	observability.CounterAdjustments.WithLabelValues("likes", "up").Inc()
	cache.InvalidateVideo(ctx, id)
	return nil
}

func (s *VideoService) DecrementLikes(ctx context.Context, id uint) error {
	if err := s.repo.DecrementLikes(ctx, id); err != nil {
		return models.NewInternalError("failed to decrement likes", err)
	}
	observability.CounterAdjustments.WithLabelValues("likes", "down").Inc()
	cache.InvalidateVideo(ctx, id)
	return nil
}

func (s *VideoService) IncrementComments(ctx context.Context, id uint) error {
	if err := s.repo.IncrementComments(ctx, id); err != nil {
		return models.NewInternalError("failed to increment comments", err)
	}
	observability.CounterAdjustments.WithLabelValues("comments", "up").Inc()
	cache.InvalidateVideo(ctx, id)
	return nil
}

func (s *VideoService) DecrementComments(ctx context.Context, id uint) error {
	if err := s.repo.DecrementComments(ctx, id); err != nil {
		return models.NewInternalError("failed to decrement comments", err)
	}
	observability.CounterAdjustments.WithLabelValues("comments", "down").Inc()
	cache.InvalidateVideo(ctx, id)
	return nil
}

// normalizePage clamps a 0-based page number and page size to sane
// bounds.
func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
