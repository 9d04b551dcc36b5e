package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/secure-todo/internal/logger"
	"github.com/yukikurage/secure-todo/internal/models"
	"github.com/yukikurage/secure-todo/internal/repository"
	"github.com/yukikurage/secure-todo/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db          *gorm.DB
	logs        *bytes.Buffer
	authService *AuthService
	todoService *TodoService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Todo{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	logs := &bytes.Buffer{}
	log := logger.New(logs, logger.DEBUG)

	return serviceTestEnv{
		db:          db,
		logs:        logs,
		authService: NewAuthService(repository.NewUserRepository(db), utils.NewBcryptHasher(bcrypt.MinCost), log),
		todoService: NewTodoService(repository.NewTodoRepository(db), log),
	}
}
