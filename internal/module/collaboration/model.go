package collaboration

import (
	"strconv"
	"time"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/utils/random"
)

// ShareLink grants join access to one document. Links are append-only: once
// created they are never mutated, and the title is a snapshot taken at
// creation time, deliberately not kept in sync with later renames.
type ShareLink struct {
	ID            string     `json:"id"`
	DocumentID    string     `json:"document_id"`
	DocumentTitle string     `json:"document_title"`
	OwnerEmail    string     `json:"owner_email"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"` // nil = never expires
}

// IsExpired reports whether the link's expiry has passed at the given time.
func (l *ShareLink) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// Collaborator is one member of a document's roster. Active is derived at
// read time from LastActive and never persisted; the json:"-" tag keeps it
// out of the stored roster blob.
type Collaborator struct {
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	JoinedAt   time.Time `json:"joined_at"`
	LastActive time.Time `json:"last_active"`
	Active     bool      `json:"-"`
}

// linkIDSuffixLen is the random tail appended to the timestamp prefix.
const linkIDSuffixLen = 8

// NewLinkID generates a fresh link ID: a base-36 millisecond timestamp plus a
// random suffix. The timestamp prefix makes IDs roughly sortable by creation
// time; the suffix makes collisions within the same millisecond negligible.
func NewLinkID(now time.Time) string {
	prefix := strconv.FormatInt(now.UnixMilli(), 36)
	suffix, err := random.String(linkIDSuffixLen, random.CharsetLowerAlphaNum)
	if err != nil {
		// crypto/rand failing means the process is in serious trouble
		panic(err)
	}
	return prefix + "-" + suffix
}
