package service

import (
	"context"
	"testing"

	"kidtube/internal/models"
	"kidtube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newVideoService(t *testing.T) (*VideoService, *gorm.DB) {
	db := setupTestDB(t)
	return NewVideoService(repository.NewVideoRepository(db)), db
}

func TestVideoService_CreateZeroesCounters(t *testing.T) {
	svc, _ := newVideoService(t)
	ctx := context.Background()

	video := &models.Video{
		Title:         "Counting to 100",
		URL:           "https://cdn.kidtube.dev/videos/counting.mp4",
		Duration:      300,
		Type:          models.VideoTypeLearning,
		LikesCount:    50,
		CommentsCount: 12,
	}
	require.NoError(t, svc.Create(ctx, video))

	got, err := svc.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikesCount)
	assert.Equal(t, 0, got.CommentsCount)
}

func TestVideoService_CreateRejectsBadType(t *testing.T) {
	svc, _ := newVideoService(t)

	err := svc.Create(context.Background(), &models.Video{
		Title: "Mystery", URL: "https://example.com/v.mp4", Type: "horror",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestVideoService_GetByIDMissing(t *testing.T) {
	svc, _ := newVideoService(t)

	_, err := svc.GetByID(context.Background(), 999)
	assert.True(t, models.IsNotFound(err))
}

func TestVideoService_ListFiltersByTypeAndTitle(t *testing.T) {
	svc, db := newVideoService(t)
	ctx := context.Background()

	seed := []*models.Video{
		{Title: "Counting to 100", URL: "u1", Type: models.VideoTypeLearning},
		{Title: "Counting Stars Singalong", URL: "u2", Type: models.VideoTypeEntertainment},
		{Title: "Dinosaur Facts", URL: "u3", Type: models.VideoTypeLearning},
	}
	for _, v := range seed {
		require.NoError(t, db.Create(v).Error)
	}

	page, err := svc.List(ctx, models.VideoTypeLearning, "", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements)

	page, err = svc.List(ctx, "", "Counting", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements)

	page, err = svc.List(ctx, models.VideoTypeLearning, "Counting", 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, page.TotalElements)
	assert.Equal(t, "Counting to 100", page.Content[0].Title)
}

func TestVideoService_ListPagination(t *testing.T) {
	svc, db := newVideoService(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, db.Create(&models.Video{
			Title: "Video", URL: "u", Type: models.VideoTypeLearning,
		}).Error)
	}

	page, err := svc.List(ctx, "", "", 2, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 25, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Content, 5)
}

func TestVideoService_ListHotOrdersByLikes(t *testing.T) {
	svc, db := newVideoService(t)
	ctx := context.Background()

	for _, v := range []*models.Video{
		{Title: "cold", URL: "u", Type: models.VideoTypeLearning, LikesCount: 1},
		{Title: "hot", URL: "u", Type: models.VideoTypeLearning, LikesCount: 9},
		{Title: "warm", URL: "u", Type: models.VideoTypeLearning, LikesCount: 5},
	} {
		require.NoError(t, db.Create(v).Error)
	}

	page, err := svc.ListHot(ctx, "", 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Content, 3)
	assert.Equal(t, "hot", page.Content[0].Title)
	assert.Equal(t, "warm", page.Content[1].Title)
	assert.Equal(t, "cold", page.Content[2].Title)
}

func TestVideoService_UpdatePreservesCounters(t *testing.T) {
	svc, db := newVideoService(t)
	ctx := context.Background()

	video := &models.Video{
		Title: "Original", URL: "u", Type: models.VideoTypeLearning,
		LikesCount: 7, CommentsCount: 3,
	}
	require.NoError(t, db.Create(video).Error)

	update := &models.Video{
		ID: video.ID, Title: "Renamed", URL: "u", Type: models.VideoTypeLearning,
		LikesCount: 0, CommentsCount: 0,
	}
	require.NoError(t, svc.Update(ctx, update))

	var stored models.Video
	require.NoError(t, db.First(&stored, video.ID).Error)
	assert.Equal(t, "Renamed", stored.Title)
	assert.Equal(t, 7, stored.LikesCount)
	assert.Equal(t, 3, stored.CommentsCount)
}

func TestVideoService_CounterFloorAtZero(t *testing.T) {
	svc, db := newVideoService(t)
	ctx := context.Background()

	video := &models.Video{Title: "v", URL: "u", Type: models.VideoTypeLearning}
	require.NoError(t, db.Create(video).Error)

	require.NoError(t, svc.DecrementLikes(ctx, video.ID))
	require.NoError(t, svc.DecrementComments(ctx, video.ID))

	var stored models.Video
	require.NoError(t, db.First(&stored, video.ID).Error)
	assert.Equal(t, 0, stored.LikesCount)
	assert.Equal(t, 0, stored.CommentsCount)
}

func TestVideoService_CounterAdjustMissingVideoIsNoOp(t *testing.T) {
	svc, _ := newVideoService(t)
	ctx := context.Background()

	assert.NoError(t, svc.IncrementLikes(ctx, 999))
	assert.NoError(t, svc.DecrementComments(ctx, 999))
}
