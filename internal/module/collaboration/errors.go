package collaboration

import "errors"

// Module errors.
var (
	// ErrLinkNotFound is the expected outcome of resolving an unknown link ID,
	// e.g. a user following a stale or malformed URL. Handlers map it to 404.
	ErrLinkNotFound = errors.New("share link not found")

	// ErrLinkExpired is returned on the join path when the link's expiry has
	// passed. Resolution itself does not enforce expiry.
	ErrLinkExpired = errors.New("share link expired")

	// ErrUpdateConflict is returned when an optimistic read-modify-write
	// exhausts its retries under concurrent modification.
	ErrUpdateConflict = errors.New("concurrent update conflict")

	ErrNotOwner = errors.New("not the document owner")

	// ErrDocumentNotFound is returned by DocumentResolver implementations
	// when the share target does not exist.
	ErrDocumentNotFound = errors.New("document not found")
)
