package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"registration-backend/internal/common/logger"
	"registration-backend/internal/features/user/models"
	"registration-backend/internal/features/user/repository"
	"registration-backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// @Summary Register a new user
// @Description Register a user with an optional profile picture and send a welcome email
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Full name"
// @Param email formData string true "Email address (unique)"
// @Param phone formData string false "Phone number"
// @Param profilePicture formData file false "Profile picture"
// @Success 201 {object} models.CreateUserResponse "Registered user id"
// @Failure 400 {object} models.ErrorResponse "Invalid input"
// @Failure 409 {object} models.ErrorResponse "Email already registered"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var input models.CreateUserRequest
	if err := c.ShouldBind(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	picture, err := c.FormFile("profilePicture")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid profilePicture field"})
			return
		}
		picture = nil
	}

	user, err := h.service.Register(c.Request.Context(), input, picture)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		logger.Error().Err(err).Str("email", input.Email).Msg("Failed to register user")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, models.CreateUserResponse{
		ID:      user.ID,
		Message: "User registered successfully!",
	})
}

// @Summary List users
// @Description List all registered users, newest first
// @Tags users
// @Produce json
// @Success 200 {array} models.User "Users"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list users")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// @Summary Update a user
// @Description Update a user's name and phone; email and picture are immutable
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body models.UpdateUserRequest true "New name and phone"
// @Success 200 {object} models.MessageResponse "Updated"
// @Failure 400 {object} models.ErrorResponse "Invalid input"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var input models.UpdateUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Update(c.Request.Context(), id, input); err != nil {
		logger.Error().Err(err).Int64("user_id", id).Msg("Failed to update user")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "User updated successfully!"})
}

// @Summary Delete a user
// @Description Delete a user; the stored profile picture is cleaned up best-effort
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.MessageResponse "Deleted"
// @Failure 400 {object} models.ErrorResponse "Invalid user ID"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error().Err(err).Int64("user_id", id).Msg("Failed to delete user")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "User deleted successfully!"})
}
