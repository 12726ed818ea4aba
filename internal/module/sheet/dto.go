package sheet

import (
	"time"

	"github.com/google/uuid"
)

// CreateDocumentRequest is the payload for creating a document.
type CreateDocumentRequest struct {
	Title      string  `json:"title" binding:"required"`
	TemplateID string  `json:"template_id,omitempty"`
	Cells      CellMap `json:"cells,omitempty"`
	RowCount   int     `json:"row_count,omitempty"`
	ColCount   int     `json:"col_count,omitempty"`
}

// UpdateDocumentRequest is the payload for updating a document.
// Nil fields are left unchanged.
type UpdateDocumentRequest struct {
	Title *string  `json:"title,omitempty"`
	Cells *CellMap `json:"cells,omitempty"`
}

// DocumentSummary is the list representation of a document, without cells.
type DocumentSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	RowCount  int       `json:"row_count"`
	ColCount  int       `json:"col_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToSummary converts a Document to its list representation.
func (d *Document) ToSummary() *DocumentSummary {
	return &DocumentSummary{
		ID:        d.ID,
		Title:     d.Title,
		RowCount:  d.RowCount,
		ColCount:  d.ColCount,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// ListDocumentsResponse is a paginated document list.
type ListDocumentsResponse struct {
	Documents []*DocumentSummary `json:"documents"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"page_size"`
}
