package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/secure-todo/internal/constants"
	"github.com/yukikurage/secure-todo/internal/logger"
	"github.com/yukikurage/secure-todo/internal/middleware"
	"github.com/yukikurage/secure-todo/internal/models"
	"github.com/yukikurage/secure-todo/internal/repository"
	"github.com/yukikurage/secure-todo/internal/services"
	"github.com/yukikurage/secure-todo/internal/utils"
	"github.com/yukikurage/secure-todo/internal/web"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type handlerTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
	todoService *services.TodoService
}

func setupHandlerTestEnv(t *testing.T, csrfEnabled bool) handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Todo{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	log := logger.New(io.Discard, logger.DEBUG)
	authService := services.NewAuthService(repository.NewUserRepository(db), utils.NewBcryptHasher(bcrypt.MinCost), log)
	todoService := services.NewTodoService(repository.NewTodoRepository(db), log)
	authHandler := NewAuthHandler(authService, log)
	todoHandler := NewTodoHandler(todoService, authService, log)

	csrf := middleware.NewCSRF(csrfEnabled, time.Hour)

	r := gin.New()
	require.NoError(t, web.LoadTemplates(r))
	r.Use(
		middleware.SecurityHeaders(),
		sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))),
		csrf.Issue(),
	)

	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", csrf.Verify(authHandler.RegisterCSRFFailed), authHandler.Register)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", csrf.Verify(authHandler.LoginCSRFFailed), authHandler.Login)

	protected := r.Group("/")
	protected.Use(middleware.RequireAuth())
	protected.GET("/", todoHandler.Index)
	protected.POST("/add", csrf.Verify(todoHandler.CSRFFailed), todoHandler.Add)
	protected.GET("/delete/:id", todoHandler.Delete)
	protected.GET("/toggle/:id", todoHandler.Toggle)
	protected.POST("/update/:id", csrf.Verify(todoHandler.CSRFFailed), todoHandler.Update)
	protected.GET("/logout", authHandler.Logout)

	return handlerTestEnv{
		db:          db,
		router:      r,
		authService: authService,
		todoService: todoService,
	}
}

// testClient replays the session cookie across requests like a browser.
type testClient struct {
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newTestClient(r *gin.Engine) *testClient {
	return &testClient{router: r, cookies: map[string]*http.Cookie{}}
}

func (tc *testClient) get(path string) *httptest.ResponseRecorder {
	return tc.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (tc *testClient) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return tc.do(req)
}

func (tc *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range tc.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	tc.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(tc.cookies, ck.Name)
			continue
		}
		tc.cookies[ck.Name] = ck
	}
	return w
}

func (tc *testClient) registerAndLogin(t *testing.T, username, password string) {
	t.Helper()
	creds := url.Values{"username": {username}, "password": {password}}

	w := tc.post("/register", creds)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	w = tc.post("/login", creds)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func countTodos(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Todo{}).Count(&count).Error)
	return count
}

var csrfFieldPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func extractCSRFToken(t *testing.T, body string) string {
	t.Helper()
	m := csrfFieldPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, "csrf_token field not found")
	return m[1]
}
