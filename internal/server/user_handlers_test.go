package server

import (
	"net/http"
	"testing"

	"kidtube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterAndLogin(t *testing.T) {
	app, db := setupTestServer(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/users/register", fiber.Map{
		"username": "sunny_panda",
		"password": "secret123",
		"email":    "sunny@example.com",
		"nickname": "Sunny",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, http.StatusCreated, env.Code)

	data := dataAsMap(t, env.Data)
	assert.Equal(t, "sunny_panda", data["username"])
	assert.NotContains(t, data, "password")

	var stored models.User
	require.NoError(t, db.Where("username = ?", "sunny_panda").First(&stored).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))

	// Login works with the username and with the email.
	status, _ = doJSON(t, app, http.MethodPost, "/api/users/login", fiber.Map{
		"username": "sunny_panda", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/users/login", fiber.Map{
		"username": "sunny@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, app, http.MethodPost, "/api/users/login", fiber.Map{
		"username": "sunny_panda", "password": "wrong",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, http.StatusNotFound, env.Code)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	app, _ := setupTestServer(t)

	body := fiber.Map{"username": "twin", "password": "secret123"}
	status, _ := doJSON(t, app, http.MethodPost, "/api/users/register", body)
	require.Equal(t, http.StatusCreated, status)

	status, env := doJSON(t, app, http.MethodPost, "/api/users/register", body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Message, "username")
}

func TestCheckUsername(t *testing.T) {
	app, db := setupTestServer(t)
	seedUser(t, db, "taken_name")

	status, env := doJSON(t, app, http.MethodGet, "/api/users/check-username?username=taken_name", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, dataAsMap(t, env.Data)["exists"])

	status, env = doJSON(t, app, http.MethodGet, "/api/users/check-username?username=free_name", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, dataAsMap(t, env.Data)["exists"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/users/check-username", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetUserByUsernameAndNickname(t *testing.T) {
	app, db := setupTestServer(t)
	user := seedUser(t, db, "finder")

	status, env := doJSON(t, app, http.MethodGet, "/api/users/username/finder", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, user.ID, dataAsMap(t, env.Data)["userId"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/users/nickname/finder-nick", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/users/username/nobody", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpdateUserKeepsPassword(t *testing.T) {
	app, db := setupTestServer(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/users/register", fiber.Map{
		"username": "editable", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	id := dataAsMap(t, env.Data)["userId"]

	var before models.User
	require.NoError(t, db.Where("username = ?", "editable").First(&before).Error)

	status, _ = doJSON(t, app, http.MethodPut,
		"/api/users/"+jsonNumberToPath(t, id), fiber.Map{
			"username": "editable", "nickname": "New Nick", "signature": "hello",
		})
	require.Equal(t, http.StatusOK, status)

	var after models.User
	require.NoError(t, db.First(&after, before.ID).Error)
	assert.Equal(t, "New Nick", after.Nickname)
	assert.Equal(t, before.Password, after.Password)
}

func TestChangePasswordWithoutCodeStore(t *testing.T) {
	app, db := setupTestServer(t)
	seedUser(t, db, "forgetful")

	// With no Redis-backed code store, any code verifies false and the
	// reset reports false rather than an error.
	status, env := doJSON(t, app, http.MethodPut, "/api/users/password", fiber.Map{
		"email": "forgetful@example.com", "code": "123456", "newPassword": "newsecret",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, env.Data)
}

func TestDeleteUser(t *testing.T) {
	app, db := setupTestServer(t)
	user := seedUser(t, db, "leaving")

	status, _ := doJSON(t, app, http.MethodDelete,
		"/api/users/"+uintToPath(user.ID), nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/users/"+uintToPath(user.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
