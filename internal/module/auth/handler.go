package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/module/user"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/metrics"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	service *Service
	metrics *metrics.Metrics
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service, m *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: m}
}

// RegisterRoutes registers the auth routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
	}
}

// Register handles account creation.
//
//	@Summary		Register new user
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		user.RegisterRequest	true	"Registration request"
//	@Success		201		{object}	LoginResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Router			/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, tokens, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.metrics.RecordAuthEvent("register", "failed")
		handleError(c, err)
		return
	}

	h.metrics.RecordAuthEvent("register", "ok")
	c.JSON(http.StatusCreated, LoginResponse{User: u.ToResponse(), Tokens: tokens})
}

// Login handles password login.
//
//	@Summary		Login
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Login request"
//	@Success		200		{object}	LoginResponse
//	@Failure		401		{object}	map[string]string
//	@Failure		429		{object}	map[string]string
//	@Router			/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, tokens, err := h.service.Login(c.Request.Context(), &req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		h.metrics.RecordAuthEvent("login", "failed")
		handleError(c, err)
		return
	}

	h.metrics.RecordAuthEvent("login", "ok")
	c.JSON(http.StatusOK, LoginResponse{User: u.ToResponse(), Tokens: tokens})
}

// Refresh rotates a refresh token.
//
//	@Summary		Refresh tokens
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RefreshRequest	true	"Refresh request"
//	@Success		200		{object}	TokenPair
//	@Failure		401		{object}	map[string]string
//	@Router			/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout revokes a refresh token.
//
//	@Summary		Logout
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LogoutRequest	true	"Logout request"
//	@Success		200		{object}	map[string]string
//	@Router			/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials", "message": "Invalid email or password"})
	case errors.Is(err, ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too_many_attempts", "message": "Too many login attempts, try again later"})
	case errors.Is(err, ErrRefreshTokenNotFound),
		errors.Is(err, ErrRefreshTokenExpired),
		errors.Is(err, ErrRefreshTokenRevoked):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_refresh_token", "message": "Refresh token is invalid or expired"})
	case errors.Is(err, user.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email_already_registered", "message": "Email already registered"})
	case errors.Is(err, user.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": "password_too_short", "message": "Password must be at least 8 characters"})
	case errors.Is(err, user.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "name_required", "message": "Name is required"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
