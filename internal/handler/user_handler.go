package handler

import (
	"errors"
	"net/http"

	"github.com/gatherhq/gatherspace/internal/auth"
	"github.com/gatherhq/gatherspace/internal/middleware"
	"github.com/gatherhq/gatherspace/internal/models"
	"github.com/gatherhq/gatherspace/internal/repository"
	"github.com/gatherhq/gatherspace/internal/service"
	"github.com/gatherhq/gatherspace/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserHandler manages the user collection. The password hash never appears in
// any response; the model keeps it out of JSON entirely.
type UserHandler struct {
	userRepo    *repository.UserRepository
	authService *service.AuthService
	bcryptCost  int
}

func NewUserHandler(userRepo *repository.UserRepository, authService *service.AuthService, bcryptCost int) *UserHandler {
	return &UserHandler{
		userRepo:    userRepo,
		authService: authService,
		bcryptCost:  bcryptCost,
	}
}

type CreateUserRequest struct {
	Username  string          `json:"username" binding:"required"`
	Email     string          `json:"email" binding:"required"`
	Password  string          `json:"password" binding:"required"`
	Role      models.UserRole `json:"role"`
	Bio       string          `json:"bio"`
	AvatarURL string          `json:"avatar_url"`
}

type UpdateUserRequest struct {
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Role      models.UserRole `json:"role"`
	Bio       string          `json:"bio"`
	AvatarURL string          `json:"avatar_url"`
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userRepo.GetAll()
	if err != nil {
		logger.Log.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(id)
	if err != nil {
		logger.Log.Error("Failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Create is the admin-only variant of registration: uniqueness of email and
// username is pre-checked, and the caller may assign any role.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	user, err := h.authService.CreateUser(req.Username, req.Email, req.Password, req.Role, req.Bio, req.AvatarURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists),
			errors.Is(err, service.ErrUsernameAlreadyExists),
			errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			logger.Log.Error("Failed to create user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Update lets a user modify their own profile, or an admin modify anyone.
// Role changes are admin-only, and password changes are re-hashed.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	callerID, callerRole, _ := middleware.Identity(c)

	user, err := h.userRepo.GetByID(id)
	if err != nil {
		logger.Log.Error("Failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		return
	}

	if user.ID != callerID && callerRole != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized to update this user."})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	if req.Role != "" && req.Role != user.Role && callerRole != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized to change user role."})
		return
	}

	updates := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Role:      req.Role,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password, h.bcryptCost)
		if err != nil {
			logger.Log.Error("Failed to hash password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
			return
		}
		updates.PasswordHash = hash
	}

	if err := h.userRepo.Update(user, &updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username or email already in use."})
			return
		}
		logger.Log.Error("Failed to update user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(id)
	if err != nil {
		logger.Log.Error("Failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		return
	}

	if err := h.userRepo.Delete(user.ID); err != nil {
		logger.Log.Error("Failed to delete user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
		return
	}

	logger.Log.Info("User deleted",
		zap.String("user_id", user.ID.String()),
	)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully."})
}
