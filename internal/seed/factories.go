// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"kidtube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Factory{db: db, opts: opts, rng: rng}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		Nickname:  kidNickname(f.rng),
		Signature: gofakeit.Sentence(6),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", uuid.NewString()),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateVideo constructs and persists a sample video of the given type
// with a realistic created_at spread.
func (f *Factory) CreateVideo(videoType models.VideoType, overrides ...func(*models.Video)) (*models.Video, error) {
	video := &models.Video{
		Title:        videoTitle(f.rng, videoType),
		Description:  gofakeit.Sentence(12),
		URL:          fmt.Sprintf("https://cdn.kidtube.dev/videos/%s.mp4", uuid.NewString()),
		ThumbnailURL: fmt.Sprintf("https://picsum.photos/seed/%s/640/360", uuid.NewString()),
		Duration:     gofakeit.Number(60, 1200),
		Type:         videoType,
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	video.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(video)
	}

	if err := f.db.Create(video).Error; err != nil {
		return nil, err
	}
	return video, nil
}

// CreateComment persists a comment on the video by the user and bumps
// the video's denormalized comments counter to match.
func (f *Factory) CreateComment(user *models.User, video *models.Video, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: kidComment(f.rng),
		UserID:  user.ID,
		VideoID: video.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	err := f.db.Model(&models.Video{}).Where("id = ?", video.ID).
		Update("comments_count", gorm.Expr("comments_count + 1")).Error
	return comment, err
}

// CreateLike persists a like from user on video and bumps the video's
// likes counter to match.
func (f *Factory) CreateLike(user *models.User, video *models.Video) error {
	like := &models.LikedVideo{UserID: user.ID, VideoID: video.ID}
	if err := f.db.Create(like).Error; err != nil {
		return err
	}
	return f.db.Model(&models.Video{}).Where("id = ?", video.ID).
		Update("likes_count", gorm.Expr("likes_count + 1")).Error
}

// CreateWatch persists a watch-history entry with a progress somewhere
// inside the video's duration and a watched_at spread over the last
// two weeks.
func (f *Factory) CreateWatch(user *models.User, video *models.Video) (*models.WatchHistory, error) {
	progress := 0
	if video.Duration > 0 {
		progress = f.rng.Intn(video.Duration)
	}
	entry := &models.WatchHistory{
		UserID:   user.ID,
		VideoID:  video.ID,
		Progress: progress,
	}
	if err := f.db.Create(entry).Error; err != nil {
		return nil, err
	}

	watchedAt := time.Now().Add(-time.Duration(f.rng.Intn(14*24)) * time.Hour)
	err := f.db.Model(&models.WatchHistory{}).Where("id = ?", entry.ID).
		Update("watched_at", watchedAt).Error
	return entry, err
}
