package notification

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/middleware"
)

// Handler handles HTTP requests for notifications.
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers routes that require authentication.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.POST("/:id/read", h.MarkRead)
	}
}

// List returns the caller's notifications.
//
//	@Summary		List notifications
//	@Tags			Notification
//	@Produce		json
//	@Param			unread	query	bool	false	"Only unread"
//	@Success		200		{object}	map[string]interface{}
//	@Router			/notifications [get]
func (h *Handler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.service.List(c.Request.Context(), middleware.GetEmail(c), unreadOnly)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead marks one notification as read.
//
//	@Summary		Mark notification read
//	@Tags			Notification
//	@Produce		json
//	@Param			id	path		string	true	"Notification ID"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/notifications/{id}/read [post]
func (h *Handler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Invalid notification ID"})
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, middleware.GetEmail(c)); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "notification_not_found", "message": "Notification not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
