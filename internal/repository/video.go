package repository

import (
	"context"

	"kidtube/internal/models"

	"gorm.io/gorm"
)

// VideoRepository defines the interface for video catalog data
// operations. Listing methods return the page of rows plus the total
// row count for the filter.
//
// The counter adjustments are single conditional UPDATE statements so
// concurrent adjustments cannot lose updates and the decrement floor
// at zero holds without a read-modify-write cycle. Both silently
// affect zero rows when the video is absent.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	List(ctx context.Context, limit, offset int) ([]*models.Video, int64, error)
	ListByType(ctx context.Context, videoType models.VideoType, limit, offset int) ([]*models.Video, int64, error)
	SearchByTitle(ctx context.Context, title string, limit, offset int) ([]*models.Video, int64, error)
	SearchByTypeAndTitle(ctx context.Context, videoType models.VideoType, title string, limit, offset int) ([]*models.Video, int64, error)
	ListHot(ctx context.Context, videoType models.VideoType, limit, offset int) ([]*models.Video, int64, error)
	ListLatest(ctx context.Context, videoType models.VideoType, limit, offset int) ([]*models.Video, int64, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id uint) error
	IncrementLikes(ctx context.Context, id uint) error
	DecrementLikes(ctx context.Context, id uint) error
	IncrementComments(ctx context.Context, id uint) error
	DecrementComments(ctx context.Context, id uint) error
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *videoRepository) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).First(&video, id).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// page runs a filtered query twice: once for the total count and once
// for the requested window.
func (r *videoRepository) page(query *gorm.DB, order string, limit, offset int) ([]*models.Video, int64, error) {
	var total int64
	if err := query.Model(&models.Video{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var videos []*models.Video
	if order != "" {
		query = query.Order(order)
	}
	err := query.Limit(limit).Offset(offset).Find(&videos).Error
	return videos, total, err
}

func (r *videoRepository) List(ctx context.Context, limit, offset int) ([]*models.Video, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&models.Video{}), "id", limit, offset)
}

func (r *videoRepository) ListByType(ctx context.Context, videoType models.VideoType, limit, offset int) ([]*models.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Video{}).Where("type = ?", videoType)
	return r.page(query, "id", limit, offset)
}

func (r *videoRepository) SearchByTitle(ctx context.Context, title string, limit, offset int) ([]*models.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Video{}).Where("title LIKE ?", "%"+title+"%")
	return r.page(query, "id", limit, offset)
}

func (r *videoRepository) SearchByTypeAndTitle(ctx context.Context, videoType models.VideoType, title string, limit, offset int) ([]*models.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("type = ?", videoType).
		Where("title LIKE ?", "%"+title+"%")
	return r.page(query, "id", limit, offset)
}

func (r *videoRepository) ListHot(ctx context.Context, videoType models.VideoType, limit, offset int) ([]*models.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Video{})
	if videoType != "" {
		query = query.Where("type = ?", videoType)
	}
	return r.page(query, "likes_count DESC", limit, offset)
}

func (r *videoRepository) ListLatest(ctx context.Context, videoType models.VideoType, limit, offset int) ([]*models.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Video{})
	if videoType != "" {
		query = query.Where("type = ?", videoType)
	}
	return r.page(query, "created_at DESC", limit, offset)
}

func (r *videoRepository) Update(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Save(video).Error
}

func (r *videoRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Video{}, id).Error
}

func (r *videoRepository) IncrementLikes(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ?", id).
		Update("likes_count", gorm.Expr("likes_count + 1")).Error
}

func (r *videoRepository) DecrementLikes(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ? AND likes_count > 0", id).
		Update("likes_count", gorm.Expr("likes_count - 1")).Error
}

func (r *videoRepository) IncrementComments(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ?", id).
		Update("comments_count", gorm.Expr("comments_count + 1")).Error
}

func (r *videoRepository) DecrementComments(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ? AND comments_count > 0", id).
		Update("comments_count", gorm.Expr("comments_count - 1")).Error
}
