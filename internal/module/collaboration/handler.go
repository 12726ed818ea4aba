package collaboration

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/metrics"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/middleware"
)

// DocumentResolver verifies share ownership and supplies the title snapshot
// for new links. The sheet module provides the production implementation.
type DocumentResolver interface {
	// ResolveForShare returns the document's current title when ownerID owns
	// it. It returns ErrDocumentNotFound for unknown documents and
	// ErrNotOwner when the caller does not own it.
	ResolveForShare(ctx context.Context, documentID string, ownerID uuid.UUID) (string, error)
}

// Handler handles HTTP requests for collaboration.
type Handler struct {
	service   *Service
	documents DocumentResolver
	metrics   *metrics.Metrics
}

// NewHandler creates a new collaboration handler.
func NewHandler(service *Service, documents DocumentResolver, m *metrics.Metrics) *Handler {
	return &Handler{service: service, documents: documents, metrics: m}
}

// RegisterRoutes registers routes that require authentication.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	docs := r.Group("/documents")
	{
		docs.POST("/:id/share", h.ShareDocument)
		docs.GET("/:id/collaborators", h.Roster)
		docs.POST("/:id/presence", h.Heartbeat)
		docs.DELETE("/:id/collaborators/:email", h.RemoveCollaborator)
	}

	collab := r.Group("/collab")
	{
		collab.GET("/links/:id", h.ResolveLink)
		collab.POST("/join", h.Join)
		collab.GET("/documents", h.CollaboratedDocuments)
	}
}

// ShareDocument creates a share link for an owned document.
//
//	@Summary		Create share link
//	@Tags			Collaboration
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		201	{object}	ShareResponse
//	@Failure		403	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/documents/{id}/share [post]
func (h *Handler) ShareDocument(c *gin.Context) {
	documentID := c.Param("id")
	ownerID := middleware.GetUserID(c)
	ownerEmail := middleware.GetEmail(c)

	title, err := h.documents.ResolveForShare(c.Request.Context(), documentID, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not_owner", "message": "Only the document owner can share it"})
		case errors.Is(err, ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "document_not_found", "message": "Document not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
		}
		return
	}

	link, err := h.service.ShareDocument(c.Request.Context(), documentID, title, ownerEmail)
	if err != nil {
		handleError(c, err)
		return
	}

	h.metrics.ShareLinksTotal.Inc()
	c.JSON(http.StatusCreated, ShareResponse{
		Link: link,
		URL:  h.service.ShareURL(link.ID),
	})
}

// ResolveLink looks up a share link without joining.
//
//	@Summary		Resolve share link
//	@Tags			Collaboration
//	@Produce		json
//	@Param			id	path		string	true	"Link ID"
//	@Success		200	{object}	ShareLink
//	@Failure		404	{object}	map[string]string
//	@Router			/collab/links/{id} [get]
func (h *Handler) ResolveLink(c *gin.Context) {
	link, err := h.service.ResolveLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// Join registers the caller as a collaborator via a share link.
//
//	@Summary		Join via share link
//	@Tags			Collaboration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		JoinRequest	true	"Join request"
//	@Success		200		{object}	JoinResponse
//	@Failure		404		{object}	map[string]string
//	@Router			/collab/join [post]
func (h *Handler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := middleware.GetEmail(c)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = displayNameFromEmail(email)
	}

	documentID, err := h.service.Join(c.Request.Context(), req.LinkID, email, name)
	if err != nil {
		switch {
		case errors.Is(err, ErrLinkNotFound):
			h.metrics.RecordJoin("not_found")
		case errors.Is(err, ErrLinkExpired):
			h.metrics.RecordJoin("expired")
		}
		handleError(c, err)
		return
	}

	h.metrics.RecordJoin("joined")
	c.JSON(http.StatusOK, JoinResponse{DocumentID: documentID})
}

// Roster returns the document's collaborators with liveness.
//
//	@Summary		List collaborators
//	@Tags			Collaboration
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	RosterResponse
//	@Router			/documents/{id}/collaborators [get]
func (h *Handler) Roster(c *gin.Context) {
	roster, err := h.service.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	resp := toRosterResponse(roster)
	h.metrics.ActiveCollaborators.Set(float64(resp.ActiveCount))
	c.JSON(http.StatusOK, resp)
}

// Heartbeat refreshes the caller's presence on the document.
//
//	@Summary		Presence heartbeat
//	@Tags			Collaboration
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	map[string]string
//	@Router			/documents/{id}/presence [post]
func (h *Handler) Heartbeat(c *gin.Context) {
	if err := h.service.Heartbeat(c.Request.Context(), c.Param("id"), middleware.GetEmail(c)); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// RemoveCollaborator drops a collaborator from the roster.
//
//	@Summary		Remove collaborator
//	@Tags			Collaboration
//	@Produce		json
//	@Param			id		path		string	true	"Document ID"
//	@Param			email	path		string	true	"Collaborator email"
//	@Success		200		{object}	map[string]string
//	@Failure		403		{object}	map[string]string
//	@Router			/documents/{id}/collaborators/{email} [delete]
func (h *Handler) RemoveCollaborator(c *gin.Context) {
	err := h.service.RemoveCollaborator(
		c.Request.Context(),
		c.Param("id"),
		c.Param("email"),
		middleware.GetEmail(c),
	)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collaborator removed"})
}

// CollaboratedDocuments lists the documents the caller has joined.
//
//	@Summary		List collaborated documents
//	@Tags			Collaboration
//	@Produce		json
//	@Success		200	{object}	map[string][]string
//	@Router			/collab/documents [get]
func (h *Handler) CollaboratedDocuments(c *gin.Context) {
	ids, err := h.service.DocumentsFor(c.Request.Context(), middleware.GetEmail(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document_ids": ids})
}

func displayNameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "link_not_found", "message": "Share link not found"})
	case errors.Is(err, ErrLinkExpired):
		c.JSON(http.StatusNotFound, gin.H{"error": "link_expired", "message": "Share link has expired"})
	case errors.Is(err, ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not_owner", "message": "Only the document owner can do that"})
	case errors.Is(err, ErrUpdateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": "Concurrent update, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
