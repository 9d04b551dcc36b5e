package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/secure-todo/internal/config"
	"github.com/yukikurage/secure-todo/internal/constants"
	"github.com/yukikurage/secure-todo/internal/handlers"
	"github.com/yukikurage/secure-todo/internal/logger"
	"github.com/yukikurage/secure-todo/internal/metrics"
	"github.com/yukikurage/secure-todo/internal/middleware"
	"github.com/yukikurage/secure-todo/internal/repository"
	"github.com/yukikurage/secure-todo/internal/services"
	"github.com/yukikurage/secure-todo/internal/utils"
	"github.com/yukikurage/secure-todo/internal/web"
	"gorm.io/gorm"
)

// NewSessionStore builds the signed cookie store or the Redis store and
// applies the cookie flags from cfg.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store

	switch cfg.SessionStore {
	case "redis":
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			cfg.RedisPassword,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
	default:
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.SessionCookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	return store, nil
}

// NewRouter wires middleware, services and routes onto a new gin engine.
func NewRouter(cfg *config.Config, db *gorm.DB, store sessions.Store, log *logger.Logger) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(log.Writer()), gin.Recovery())

	if err := web.LoadTemplates(r); err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	csrf := middleware.NewCSRF(cfg.CSRFEnabled, cfg.CSRFTimeLimit)

	r.Use(
		middleware.RequestID(),
		metrics.Middleware(),
		middleware.SecurityHeaders(),
		sessions.Sessions(constants.SessionCookieName, store),
		csrf.Issue(),
	)

	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)

	authService := services.NewAuthService(userRepo, utils.NewBcryptHasher(cfg.BcryptCost), log)
	todoService := services.NewTodoService(todoRepo, log)

	authHandler := handlers.NewAuthHandler(authService, log)
	todoHandler := handlers.NewTodoHandler(todoService, authService, log)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Todo App is running",
		})
	})
	r.GET("/metrics", metrics.Handler())

	// Public routes
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", csrf.Verify(authHandler.RegisterCSRFFailed), authHandler.Register)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", csrf.Verify(authHandler.LoginCSRFFailed), authHandler.Login)

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/", todoHandler.Index)
		protected.POST("/add", csrf.Verify(todoHandler.CSRFFailed), todoHandler.Add)
		protected.GET("/delete/:id", todoHandler.Delete)
		protected.GET("/toggle/:id", todoHandler.Toggle)
		protected.POST("/update/:id", csrf.Verify(todoHandler.CSRFFailed), todoHandler.Update)
		protected.GET("/logout", authHandler.Logout)
	}

	return r, nil
}
