package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/secure-todo/internal/logger"
	"github.com/yukikurage/secure-todo/internal/metrics"
	"github.com/yukikurage/secure-todo/internal/models"
	"github.com/yukikurage/secure-todo/internal/repository"
	"github.com/yukikurage/secure-todo/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrCredentialsRequired  = errors.New("username and password are required")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// AuthService handles registration and credential checks.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   utils.PasswordHasher
	log      *logger.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, hasher utils.PasswordHasher, log *logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		log:      log,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Password string
}

// Register creates a new user. The username check and the insert are two
// separate statements, so concurrent registrations of one name can race;
// the loser then fails on the unique index with ErrFailedToCreateUser.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, ErrCredentialsRequired
	}

	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		s.log.WithFields(logger.Fields{"action": "REGISTER-FAILED", "username": input.Username}).
			Warn("username already registered")
		metrics.AuthEventsTotal.WithLabelValues("register_duplicate").Inc()
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	s.log.WithFields(logger.Fields{"action": "REGISTER", "username": user.Username}).
		Info("user registered")
	metrics.AuthEventsTotal.WithLabelValues("register").Inc()

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Authenticate verifies credentials and returns the matching user. Unknown
// usernames and wrong passwords produce the same error.
func (s *AuthService) Authenticate(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.loginFailed(input.Username)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.loginFailed(input.Username)
		return nil, ErrInvalidCredentials
	}

	s.log.WithFields(logger.Fields{"action": "LOGIN", "username": user.Username}).
		Info("user logged in")
	metrics.AuthEventsTotal.WithLabelValues("login").Inc()

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (s *AuthService) loginFailed(username string) {
	s.log.WithFields(logger.Fields{"action": "LOGIN-FAILED", "username": username}).
		Warn("login attempt failed")
	metrics.AuthEventsTotal.WithLabelValues("login_failed").Inc()
}
