package service

import (
	"fmt"
	"strings"
	"testing"

	"kidtube/internal/models"
	"kidtube/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory SQLite database with the full
// schema migrated. The DSN is named after the test so parallel tests
// never share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Video{},
		&models.Comment{},
		&models.LikedVideo{},
		&models.WatchHistory{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// testDeps bundles the database handle and repositories a service test
// needs for direct state inspection.
type testDeps struct {
	db     *gorm.DB
	videos repository.VideoRepository
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Password: "hashed",
		Nickname: username + "-nick",
		Email:    username + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestVideo(t *testing.T, db *gorm.DB, title string) *models.Video {
	t.Helper()
	video := &models.Video{
		Title:    title,
		URL:      "https://cdn.kidtube.dev/videos/" + title + ".mp4",
		Duration: 300,
		Type:     models.VideoTypeLearning,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}
