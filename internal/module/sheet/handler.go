package sheet

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/middleware"
)

// Handler handles HTTP requests for documents and templates.
type Handler struct {
	service *Service
}

// NewHandler creates a new sheet handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers routes that require authentication.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	docs := r.Group("/documents")
	{
		docs.POST("", h.Create)
		docs.GET("", h.List)
		docs.GET("/:id", h.Get)
		docs.PATCH("/:id", h.Update)
		docs.DELETE("/:id", h.Delete)
		docs.GET("/:id/export", h.Export)
	}

	templates := r.Group("/templates")
	{
		templates.GET("", h.ListTemplates)
	}
}

// Create creates a new document.
//
//	@Summary		Create document
//	@Tags			Document
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateDocumentRequest	true	"Document"
//	@Success		201		{object}	Document
//	@Failure		400		{object}	map[string]string
//	@Router			/documents [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), middleware.GetEmail(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// List returns the caller's documents.
//
//	@Summary		List documents
//	@Tags			Document
//	@Produce		json
//	@Param			page		query		int	false	"Page"
//	@Param			page_size	query		int	false	"Page size"
//	@Success		200			{object}	ListDocumentsResponse
//	@Router			/documents [get]
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	resp, err := h.service.List(c.Request.Context(), middleware.GetUserID(c), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns a single document.
//
//	@Summary		Get document
//	@Tags			Document
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	Document
//	@Failure		404	{object}	map[string]string
//	@Router			/documents/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Invalid document ID"})
		return
	}

	doc, err := h.service.Get(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetEmail(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Update modifies a document.
//
//	@Summary		Update document
//	@Tags			Document
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Document ID"
//	@Param			request	body		UpdateDocumentRequest	true	"Changes"
//	@Success		200		{object}	Document
//	@Router			/documents/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Invalid document ID"})
		return
	}

	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.service.Update(c.Request.Context(), id, middleware.GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Delete removes a document.
//
//	@Summary		Delete document
//	@Tags			Document
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	map[string]string
//	@Router			/documents/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Invalid document ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// Export downloads the document as CSV.
//
//	@Summary		Export document as CSV
//	@Tags			Document
//	@Produce		text/csv
//	@Param			id	path	string	true	"Document ID"
//	@Success		200
//	@Router			/documents/{id}/export [get]
func (h *Handler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Invalid document ID"})
		return
	}

	data, err := h.service.Export(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetEmail(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", id))
	c.Data(http.StatusOK, "text/csv", data)
}

// ListTemplates returns the template catalog.
//
//	@Summary		List templates
//	@Tags			Template
//	@Produce		json
//	@Success		200	{array}	Template
//	@Router			/templates [get]
func (h *Handler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": Templates()})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "document_not_found", "message": "Document not found"})
	case errors.Is(err, ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "template_not_found", "message": "Template not found"})
	case errors.Is(err, ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access_denied", "message": "You do not have access to this document"})
	case errors.Is(err, ErrTitleRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "title_required", "message": "Title is required"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
