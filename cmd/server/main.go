package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/secure-todo/internal/config"
	"github.com/yukikurage/secure-todo/internal/database"
	"github.com/yukikurage/secure-todo/internal/logger"
	"github.com/yukikurage/secure-todo/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog := logger.GetInstance()
	if err := appLog.Initialize(logger.Options{
		Dir:        cfg.LogDir,
		Level:      cfg.LogLevel,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Close()
	log.SetOutput(appLog.Writer())

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg, log.New(appLog.Writer(), "\r\n", log.LstdFlags)); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store, err := server.NewSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	r, err := server.NewRouter(cfg, database.GetDB(), store, appLog)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	appLog.Info("Todo App started")

	addr := ":" + cfg.Port
	log.Printf("Server starting on %s (mode: %s)", addr, cfg.GinMode)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
