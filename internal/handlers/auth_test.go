package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/secure-todo/internal/models"
	"github.com/yukikurage/secure-todo/internal/services"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupHandlerTestEnv(t, false)
	client := newTestClient(env.router)

	w := client.post("/register", url.Values{"username": {"alice"}, "password": {"secret1"}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	var user models.User
	require.NoError(t, env.db.Where("username = ?", "alice").First(&user).Error)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	w = client.get("/login")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Registration successful, please log in.")

	// Flashes are shown once.
	w = client.get("/login")
	assert.NotContains(t, w.Body.String(), "Registration successful")
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	env := setupHandlerTestEnv(t, false)
	client := newTestClient(env.router)

	creds := url.Values{"username": {"alice"}, "password": {"secret1"}}
	require.Equal(t, http.StatusFound, client.post("/register", creds).Code)

	w := client.post("/register", url.Values{"username": {"alice"}, "password": {"other"}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/register", w.Header().Get("Location"))

	w = client.get("/register")
	assert.Contains(t, w.Body.String(), "Username already registered.")

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAuthHandler_RegisterMissingFields(t *testing.T) {
	env := setupHandlerTestEnv(t, false)
	client := newTestClient(env.router)

	w := client.post("/register", url.Values{"username": {"alice"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please fill in username and password.")

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAuthHandler_LoginFailure(t *testing.T) {
	env := setupHandlerTestEnv(t, false)
	client := newTestClient(env.router)

	require.Equal(t, http.StatusFound, client.post("/register", url.Values{"username": {"alice"}, "password": {"secret1"}}).Code)

	w := client.post("/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password.")

	w = client.post("/login", url.Values{"username": {"nobody"}, "password": {"secret1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password.")

	w = client.get("/")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestAuthHandler_LoginAndLogout(t *testing.T) {
	env := setupHandlerTestEnv(t, false)
	client := newTestClient(env.router)

	client.registerAndLogin(t, "alice", "secret1")

	w := client.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Login successful.")
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "Nothing to do.")

	w = client.get("/logout")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	w = client.get("/login")
	assert.Contains(t, w.Body.String(), "You have been logged out.")

	w = client.get("/")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestAuthHandler_LoginCSRFRejected(t *testing.T) {
	env := setupHandlerTestEnv(t, true)
	client := newTestClient(env.router)

	_, err := env.authService.Register(services.RegisterInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	w := client.post("/login", url.Values{"username": {"alice"}, "password": {"secret1"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "The CSRF token is missing.")

	w = client.get("/")
	require.Equal(t, http.StatusFound, w.Code, "rejected login must not authenticate")
}
