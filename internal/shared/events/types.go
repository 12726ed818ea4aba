package events

import (
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/infra/events"
)

// Collaboration event type constants.
const (
	CollaboratorJoinedType = "CollaboratorJoined"
)

// CollaboratorJoinedEvent is emitted when someone opens a document through a
// share link. It is defined in the shared events package to avoid cyclic
// imports between the collaboration and notification modules.
type CollaboratorJoinedEvent struct {
	events.BaseEvent

	// DocumentID is the document the collaborator joined.
	DocumentID string `json:"document_id"`

	// OwnerEmail is the email of the document owner to be notified.
	OwnerEmail string `json:"owner_email"`

	// Message is the human-readable description of the join, built with the
	// title snapshot carried by the share link.
	Message string `json:"message"`
}

// NewCollaboratorJoinedEvent creates a new CollaboratorJoinedEvent.
func NewCollaboratorJoinedEvent(documentID, ownerEmail, message string) *CollaboratorJoinedEvent {
	return &CollaboratorJoinedEvent{
		BaseEvent:  events.NewBaseEvent(CollaboratorJoinedType, documentID, "Document"),
		DocumentID: documentID,
		OwnerEmail: ownerEmail,
		Message:    message,
	}
}
