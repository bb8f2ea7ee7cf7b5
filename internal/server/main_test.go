package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"kidtube/internal/config"
	"kidtube/internal/models"
	"kidtube/internal/repository"
	"kidtube/internal/service"
	"kidtube/internal/verification"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer wires a Server against an in-memory sqlite database
// and returns a Fiber app with the full route table registered. The
// Prometheus middleware stays nil so repeated test runs do not
// re-register collectors.
func setupTestServer(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Video{},
		&models.Comment{},
		&models.LikedVideo{},
		&models.WatchHistory{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	})

	s := &Server{
		config:      &config.Config{Env: "test", Port: "0"},
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		videoRepo:   repository.NewVideoRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		likeRepo:    repository.NewLikedVideoRepository(db),
		historyRepo: repository.NewWatchHistoryRepository(db),
	}
	s.verifier = verification.NewService(nil)
	s.userService = service.NewUserService(s.userRepo, s.verifier)
	s.videoService = service.NewVideoService(s.videoRepo)
	s.commentService = service.NewCommentService(db, s.commentRepo, s.videoRepo, s.userRepo)
	s.likeService = service.NewLikedVideoService(db, s.likeRepo, s.videoRepo)
	s.historyService = service.NewWatchHistoryService(s.historyRepo, s.videoRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return app, db
}

// doJSON performs a request with an optional JSON body and decodes the
// response envelope.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// dataAsMap re-marshals the envelope data into a map for field checks.
func dataAsMap(t *testing.T, data any) map[string]any {
	t.Helper()
	buf, err := json.Marshal(data)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf, &m))
	return m
}

func uintToPath(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// jsonNumberToPath converts an ID pulled out of a decoded envelope,
// which arrives as a float64, into a path segment.
func jsonNumberToPath(t *testing.T, v any) string {
	t.Helper()
	f, ok := v.(float64)
	require.True(t, ok, "expected numeric ID, got %T", v)
	return strconv.Itoa(int(f))
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Password: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Nickname: username + "-nick",
		Email:    username + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedVideo(t *testing.T, db *gorm.DB, title string) *models.Video {
	t.Helper()
	video := &models.Video{
		Title:    title,
		URL:      "https://cdn.kidtube.dev/videos/" + strings.ReplaceAll(title, " ", "-") + ".mp4",
		Duration: 300,
		Type:     models.VideoTypeLearning,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}

func seedComment(t *testing.T, app *fiber.App, userID, videoID uint, content string) envelope {
	t.Helper()
	status, env := doJSON(t, app, http.MethodPost, "/api/comments/", fiber.Map{
		"videoId": videoID,
		"userId":  userID,
		"content": content,
	})
	require.Equal(t, http.StatusCreated, status)
	return env
}
