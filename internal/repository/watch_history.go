package repository

import (
	"context"
	"time"

	"kidtube/internal/models"

	"gorm.io/gorm"
)

// WatchHistoryRepository defines the interface for watch-history data
// operations. FindByUserAndVideo returns (nil, nil) when no row exists
// so callers can branch for upsert semantics.
type WatchHistoryRepository interface {
	Create(ctx context.Context, history *models.WatchHistory) error
	Save(ctx context.Context, history *models.WatchHistory) error
	GetByID(ctx context.Context, id uint) (*models.WatchHistory, error)
	FindByUserAndVideo(ctx context.Context, userID, videoID uint) (*models.WatchHistory, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.WatchHistory, error)
	ListByUserPaged(ctx context.Context, userID uint, limit, offset int) ([]*models.WatchHistory, int64, error)
	ListRecentByUser(ctx context.Context, userID uint, since time.Time) ([]*models.WatchHistory, error)
	Delete(ctx context.Context, id uint) error
	DeleteByUserAndVideo(ctx context.Context, userID, videoID uint) error
	CountDistinctVideosByUser(ctx context.Context, userID uint) (int64, error)
}

type watchHistoryRepository struct {
	db *gorm.DB
}

// NewWatchHistoryRepository creates a new watch-history repository
func NewWatchHistoryRepository(db *gorm.DB) WatchHistoryRepository {
	return &watchHistoryRepository{db: db}
}

func (r *watchHistoryRepository) Create(ctx context.Context, history *models.WatchHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *watchHistoryRepository) Save(ctx context.Context, history *models.WatchHistory) error {
	return r.db.WithContext(ctx).Save(history).Error
}

func (r *watchHistoryRepository) GetByID(ctx context.Context, id uint) (*models.WatchHistory, error) {
	var history models.WatchHistory
	if err := r.db.WithContext(ctx).First(&history, id).Error; err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *watchHistoryRepository) FindByUserAndVideo(ctx context.Context, userID, videoID uint) (*models.WatchHistory, error) {
	var history models.WatchHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&history).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &history, nil
}

func (r *watchHistoryRepository) ListByUser(ctx context.Context, userID uint) ([]*models.WatchHistory, error) {
	var history []*models.WatchHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Find(&history).Error
	return history, err
}

func (r *watchHistoryRepository) ListByUserPaged(ctx context.Context, userID uint, limit, offset int) ([]*models.WatchHistory, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.WatchHistory{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var history []*models.WatchHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&history).Error
	return history, total, err
}

func (r *watchHistoryRepository) ListRecentByUser(ctx context.Context, userID uint, since time.Time) ([]*models.WatchHistory, error) {
	var history []*models.WatchHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND watched_at >= ?", userID, since).
		Order("watched_at DESC").
		Find(&history).Error
	return history, err
}

func (r *watchHistoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.WatchHistory{}, id).Error
}

func (r *watchHistoryRepository) DeleteByUserAndVideo(ctx context.Context, userID, videoID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&models.WatchHistory{}).Error
}

func (r *watchHistoryRepository) CountDistinctVideosByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WatchHistory{}).
		Where("user_id = ?", userID).
		Distinct("video_id").
		Count(&count).Error
	return count, err
}
