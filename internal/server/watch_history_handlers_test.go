package server

import (
	"net/http"
	"testing"

	"kidtube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func watchPath(userID, videoID uint) string {
	return "/api/watch-history/users/" + uintToPath(userID) + "/videos/" + uintToPath(videoID)
}

func TestRecordWatchUpserts(t *testing.T) {
	app, db := setupTestServer(t)
	user := seedUser(t, db, "viewer")
	video := seedVideo(t, db, "Rewatchable")

	status, env := doJSON(t, app, http.MethodPost, "/api/watch-history/", fiber.Map{
		"userId": user.ID, "videoId": video.ID, "progress": 30,
	})
	require.Equal(t, http.StatusCreated, status)
	firstID := dataAsMap(t, env.Data)["id"]

	status, env = doJSON(t, app, http.MethodPost, "/api/watch-history/", fiber.Map{
		"userId": user.ID, "videoId": video.ID, "progress": 90,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, firstID, dataAsMap(t, env.Data)["id"])

	var count int64
	require.NoError(t, db.Model(&models.WatchHistory{}).
		Where("user_id = ? AND video_id = ?", user.ID, video.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	status, env = doJSON(t, app, http.MethodGet, watchPath(user.ID, video.ID)+"/progress", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 90, env.Data)
}

func TestRecordWatchWithoutProgressKeepsStored(t *testing.T) {
	app, db := setupTestServer(t)
	user := seedUser(t, db, "resumer")
	video := seedVideo(t, db, "Long Movie")

	status, _ := doJSON(t, app, http.MethodPost, "/api/watch-history/", fiber.Map{
		"userId": user.ID, "videoId": video.ID, "progress": 120,
	})
	require.Equal(t, http.StatusCreated, status)

	// Omitting progress marks a rewatch without resetting the position.
	status, env := doJSON(t, app, http.MethodPost, "/api/watch-history/", fiber.Map{
		"userId": user.ID, "videoId": video.ID,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 120, dataAsMap(t, env.Data)["progress"])
}

func TestRecordWatchMissingVideo(t *testing.T) {
	app, db := setupTestServer(t)
	user := seedUser(t, db, "drifter")

	status, _ := doJSON(t, app, http.MethodPost, "/api/watch-history/", fiber.Map{
		"userId": user.ID, "videoId": 999, "progress": 0,
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWatchProgressDefaultsToZero(t *testing.T) {
	app, db := setupTestServer(t)
	user := seedUser(t, db, "newcomer")
	video := seedVideo(t, db, "Unseen")

	status, env := doJSON(t, app, http.MethodGet, watchPath(user.ID, video.ID)+"/progress", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, env.Data)

	status, env = doJSON(t, app, http.MethodGet, watchPath(user.ID, video.ID)+"/check", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, env.Data)
}

func TestUpdateWatchProgress(t *testing.T) {
	app, db := setupTestServer(t)
	user := seedUser(t, db, "scrubber")
	video := seedVideo(t, db, "Seekable")

	status, env := doJSON(t, app, http.MethodPut, watchPath(user.ID, video.ID)+"/progress", fiber.Map{
		"progress": 45,
	})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 45, dataAsMap(t, env.Data)["progress"])

	status, _ = doJSON(t, app, http.MethodPut, watchPath(user.ID, video.ID)+"/progress", fiber.Map{
		"progress": -5,
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetWatchHistoryCarriesSnapshot(t *testing.T) {
	app, db := setupTestServer(t)
	user := seedUser(t, db, "historian")
	video := seedVideo(t, db, "Remembered")

	status, _ := doJSON(t, app, http.MethodPost, "/api/watch-history/", fiber.Map{
		"userId": user.ID, "videoId": video.ID, "progress": 10,
	})
	require.Equal(t, http.StatusCreated, status)

	status, env := doJSON(t, app, http.MethodGet,
		"/api/watch-history/users/"+uintToPath(user.ID), nil)
	require.Equal(t, http.StatusOK, status)

	views := env.Data.([]any)
	require.Len(t, views, 1)
	entry := views[0].(map[string]any)
	assert.Equal(t, "Remembered", entry["videoTitle"])
	assert.EqualValues(t, 300, entry["videoDuration"])
}

func TestGetRecentAndCount(t *testing.T) {
	app, db := setupTestServer(t)
	user := seedUser(t, db, "counter")
	first := seedVideo(t, db, "One")
	second := seedVideo(t, db, "Two")

	for _, v := range []*models.Video{first, second} {
		status, _ := doJSON(t, app, http.MethodPost, "/api/watch-history/", fiber.Map{
			"userId": user.ID, "videoId": v.ID, "progress": 5,
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, env := doJSON(t, app, http.MethodGet,
		"/api/watch-history/users/"+uintToPath(user.ID)+"/recent", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, env.Data.([]any), 2)

	status, env = doJSON(t, app, http.MethodGet,
		"/api/watch-history/users/"+uintToPath(user.ID)+"/count", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, env.Data)
}

func TestDeleteWatchForVideo(t *testing.T) {
	app, db := setupTestServer(t)
	user := seedUser(t, db, "eraser")
	video := seedVideo(t, db, "Forgettable")

	status, _ := doJSON(t, app, http.MethodPost, "/api/watch-history/", fiber.Map{
		"userId": user.ID, "videoId": video.ID, "progress": 5,
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = doJSON(t, app, http.MethodDelete, watchPath(user.ID, video.ID), nil)
	require.Equal(t, http.StatusOK, status)

	status, env := doJSON(t, app, http.MethodGet, watchPath(user.ID, video.ID)+"/check", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, env.Data)

	// Deleting again is a silent no-op.
	status, _ = doJSON(t, app, http.MethodDelete, watchPath(user.ID, video.ID), nil)
	assert.Equal(t, http.StatusOK, status)
}
