package sheet

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CellMap holds sparse cell contents keyed by "row:col" (zero-based).
type CellMap map[string]string

// CellKey builds the map key for a cell position.
func CellKey(row, col int) string {
	return fmt.Sprintf("%d:%d", row, col)
}

// Get returns the cell value at the position, empty when unset.
func (m CellMap) Get(row, col int) string {
	return m[CellKey(row, col)]
}

// Document represents a spreadsheet document.
type Document struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID    uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	OwnerEmail string    `json:"owner_email" gorm:"not null;index"`
	Title      string    `json:"title" gorm:"not null"`
	Cells      CellMap   `json:"cells" gorm:"serializer:json;type:jsonb"`
	RowCount   int       `json:"row_count" gorm:"not null;default:100"`
	ColCount   int       `json:"col_count" gorm:"not null;default:26"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-" gorm:"column:deleted_at;index"` // Soft delete
}

// TableName returns the database table name.
func (Document) TableName() string {
	return "documents"
}

// Template is a seeded starting point for new documents.
type Template struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Cells       CellMap `json:"cells"`
	RowCount    int     `json:"row_count"`
	ColCount    int     `json:"col_count"`
}
