package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"kidtube/internal/cache"
	"kidtube/internal/models"
	"kidtube/internal/observability"
	"kidtube/internal/repository"
)

// LikedVideoService implements the like toggle. A user can hold at
// most one like per video; liking and unliking move the video's likes
// counter inside the same transaction as the like row.
type LikedVideoService struct {
	db     *gorm.DB
	likes  repository.LikedVideoRepository
	videos repository.VideoRepository
}

func NewLikedVideoService(db *gorm.DB, likes repository.LikedVideoRepository, videos repository.VideoRepository) *LikedVideoService {
	return &LikedVideoService{db: db, likes: likes, videos: videos}
}

// Like records the user's like and bumps the counter. Liking an
// already-liked video is a conflict, not a second like.
func (s *LikedVideoService) Like(ctx context.Context, userID, videoID uint) error {
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("video", videoID)
		}
		return models.NewInternalError("failed to get video", err)
	}

	liked, err := s.likes.ExistsByUserAndVideo(ctx, userID, videoID)
	if err != nil {
		return models.NewInternalError("failed to check like", err)
	}
	if liked {
		return models.NewConflictError("already liked")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := &models.LikedVideo{UserID: userID, VideoID: videoID}
		if err := repository.NewLikedVideoRepository(tx).Create(ctx, like); err != nil {
			return err
		}
		return repository.NewVideoRepository(tx).IncrementLikes(ctx, videoID)
	})
	if err != nil {
		// The unique index catches a concurrent double-like that the
		// existence check raced past.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("already liked")
		}
		return models.NewInternalError("failed to like video", err)
	}

	observability.CounterAdjustments.WithLabelValues("likes", "up").Inc()
	cache.InvalidateVideo(ctx, videoID)
	return nil
}

// Unlike removes the user's like and decrements the counter. Unliking
// a video the user never liked is a conflict.
func (s *LikedVideoService) Unlike(ctx context.Context, userID, videoID uint) error {
	liked, err := s.likes.ExistsByUserAndVideo(ctx, userID, videoID)
	if err != nil {
		return models.NewInternalError("failed to check like", err)
	}
	if !liked {
		return models.NewConflictError("not liked")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewLikedVideoRepository(tx).DeleteByUserAndVideo(ctx, userID, videoID); err != nil {
			return err
		}
		return repository.NewVideoRepository(tx).DecrementLikes(ctx, videoID)
	})
	if err != nil {
		return models.NewInternalError("failed to unlike video", err)
	}

	observability.CounterAdjustments.WithLabelValues("likes", "down").Inc()
	cache.InvalidateVideo(ctx, videoID)
	return nil
}

func (s *LikedVideoService) HasLiked(ctx context.Context, userID, videoID uint) (bool, error) {
	liked, err := s.likes.ExistsByUserAndVideo(ctx, userID, videoID)
	if err != nil {
		return false, models.NewInternalError("failed to check like", err)
	}
	return liked, nil
}

// ListLiked returns the user's like rows, most recently liked first.
// Rows stay in the page even when the liked video has since been
// deleted, so content length always matches the page window.
func (s *LikedVideoService) ListLiked(ctx context.Context, userID uint, page, size int) (*models.Page[*models.LikedVideo], error) {
	page, size = normalizePage(page, size)
	likes, total, err := s.likes.ListByUser(ctx, userID, size, page*size)
	if err != nil {
		return nil, models.NewInternalError("failed to list liked videos", err)
	}
	return models.NewPage(likes, total, page, size), nil
}
