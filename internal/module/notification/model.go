package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one inbox entry for a user.
type Notification struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipientEmail string     `json:"recipient_email" gorm:"not null;index"`
	Kind           string     `json:"kind" gorm:"not null"`
	RelatedID      string     `json:"related_id,omitempty"`
	Message        string     `json:"message" gorm:"not null"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName returns the database table name.
func (Notification) TableName() string {
	return "notifications"
}

// IsRead reports whether the notification has been read.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
