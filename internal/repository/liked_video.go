package repository

import (
	"context"

	"kidtube/internal/models"

	"gorm.io/gorm"
)

// LikedVideoRepository defines the interface for like-relationship data
// operations.
type LikedVideoRepository interface {
	Create(ctx context.Context, like *models.LikedVideo) error
	DeleteByUserAndVideo(ctx context.Context, userID, videoID uint) error
	ExistsByUserAndVideo(ctx context.Context, userID, videoID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.LikedVideo, int64, error)
}

type likedVideoRepository struct {
	db *gorm.DB
}

// NewLikedVideoRepository creates a new liked-video repository
func NewLikedVideoRepository(db *gorm.DB) LikedVideoRepository {
	return &likedVideoRepository{db: db}
}

func (r *likedVideoRepository) Create(ctx context.Context, like *models.LikedVideo) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *likedVideoRepository) DeleteByUserAndVideo(ctx context.Context, userID, videoID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&models.LikedVideo{}).Error
}

func (r *likedVideoRepository) ExistsByUserAndVideo(ctx context.Context, userID, videoID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LikedVideo{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error
	return count > 0, err
}

func (r *likedVideoRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.LikedVideo, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.LikedVideo{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var likes []*models.LikedVideo
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("liked_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&likes).Error
	return likes, total, err
}
