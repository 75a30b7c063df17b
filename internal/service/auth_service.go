package service

import (
	"errors"
	"regexp"

	"github.com/gatherhq/gatherspace/internal/auth"
	"github.com/gatherhq/gatherspace/internal/models"
	"github.com/gatherhq/gatherspace/internal/repository"
	"github.com/gatherhq/gatherspace/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrEmailAlreadyExists    = errors.New("user already exists with this email")
	ErrUsernameAlreadyExists = errors.New("user already exists with this username")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidEmail          = errors.New("invalid email format")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

type AuthService struct {
	userRepo   *repository.UserRepository
	tokens     auth.TokenConfig
	bcryptCost int
}

func NewAuthService(userRepo *repository.UserRepository, tokens auth.TokenConfig, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// CreateUser inserts a user after checking the global uniqueness of email and
// username. Role is forced to "user" for self-registration; admin-created
// users may carry any role.
func (s *AuthService) CreateUser(username, email, password string, role models.UserRole, bio, avatarURL string) (*models.User, error) {
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	existing, err = s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameAlreadyExists
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Bio:          bio,
		AvatarURL:    avatarURL,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates a regular user and issues a token pair.
func (s *AuthService) Register(username, email, password string) (*models.User, *auth.TokenPair, error) {
	user, err := s.CreateUser(username, email, password, models.RoleUser, "", "")
	if err != nil {
		return nil, nil, err
	}

	pair, err := auth.GeneratePair(user.ID, user.Role, s.tokens)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)
	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair.
func (s *AuthService) Login(email, password string) (*models.User, *auth.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("user_id", user.ID.String()),
		)
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := auth.GeneratePair(user.ID, user.Role, s.tokens)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)
	return user, pair, nil
}

// Refresh validates a refresh token, re-checks the user still exists and
// issues a new pair carrying the user's current role.
func (s *AuthService) Refresh(refreshToken string) (*auth.TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken, s.tokens.RefreshSecret)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, auth.ErrInvalidToken
	}

	return auth.GeneratePair(user.ID, user.Role, s.tokens)
}
