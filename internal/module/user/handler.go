package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/middleware"
)

// Handler handles HTTP requests for user profiles.
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers routes that require authentication.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/me", h.GetCurrentUser)
		users.PATCH("/me", h.UpdateProfile)
		users.DELETE("/me", h.DeleteAccount)
	}
}

// GetCurrentUser returns the authenticated user's profile.
//
//	@Summary		Get current user
//	@Tags			User
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		404	{object}	map[string]string
//	@Router			/users/me [get]
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}

// UpdateProfile updates the authenticated user's profile.
//
//	@Summary		Update profile
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Param			request	body		UpdateProfileRequest	true	"Profile update"
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	map[string]string
//	@Router			/users/me [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}

// DeleteAccount soft deletes the authenticated user's account.
//
//	@Summary		Delete account
//	@Tags			User
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/users/me [delete]
func (h *Handler) DeleteAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.service.DeleteAccount(c.Request.Context(), userID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found", "message": "User not found"})
	case errors.Is(err, ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email_already_registered", "message": "Email already registered"})
	case errors.Is(err, ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": "password_too_short", "message": "Password must be at least 8 characters"})
	case errors.Is(err, ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "name_required", "message": "Name is required"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
