package collaboration

import "time"

// ShareResponse is returned when a share link is created.
type ShareResponse struct {
	Link *ShareLink `json:"link"`
	URL  string     `json:"url"`
}

// JoinRequest is the payload for joining a document via a link.
type JoinRequest struct {
	LinkID string `json:"link_id" binding:"required"`
	Name   string `json:"name,omitempty"`
}

// JoinResponse carries the document the link resolves to.
type JoinResponse struct {
	DocumentID string `json:"document_id"`
}

// CollaboratorResponse is the public roster entry, with derived liveness.
type CollaboratorResponse struct {
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	JoinedAt   time.Time `json:"joined_at"`
	LastActive time.Time `json:"last_active"`
	Active     bool      `json:"active"`
}

// RosterResponse is the full roster for a document.
type RosterResponse struct {
	Collaborators []CollaboratorResponse `json:"collaborators"`
	ActiveCount   int                    `json:"active_count"`
}

func toRosterResponse(roster []Collaborator) *RosterResponse {
	resp := &RosterResponse{
		Collaborators: make([]CollaboratorResponse, 0, len(roster)),
	}
	for _, entry := range roster {
		resp.Collaborators = append(resp.Collaborators, CollaboratorResponse{
			Email:      entry.Email,
			Name:       entry.Name,
			JoinedAt:   entry.JoinedAt,
			LastActive: entry.LastActive,
			Active:     entry.Active,
		})
		if entry.Active {
			resp.ActiveCount++
		}
	}
	return resp
}
