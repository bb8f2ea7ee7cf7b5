package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	app, _ := setupTestServer(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	// No Redis in tests; the API reports degraded but stays ready.
	assert.Equal(t, "unavailable", checks["redis"])
}

func TestParseIDRejectsGarbage(t *testing.T) {
	app, _ := setupTestServer(t)

	for _, path := range []string{
		"/api/videos/not-a-number",
		"/api/comments/-3",
		"/api/watch-history/0x10",
	} {
		status, env := doJSON(t, app, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, http.StatusBadRequest, env.Code, path)
	}
}
