package collaboration

import (
	"context"
	"errors"
)

// ErrNoChange may be returned by an UpdateFunc to leave the key untouched.
// Store implementations swallow it and report success.
var ErrNoChange = errors.New("no change")

// UpdateFunc computes the next value for a key from its current value.
// exists is false when the key is absent, in which case current is empty.
type UpdateFunc func(current string, exists bool) (string, error)

// Store is the key-value storage the collaboration core runs against.
// Values are opaque strings; callers own serialization. Update performs an
// atomic read-modify-write so concurrent writers to the same key cannot lose
// each other's changes.
type Store interface {
	Get(ctx context.Context, key string) (value string, exists bool, err error)
	Set(ctx context.Context, key, value string) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Key namespaces. One prefix per entity keeps the keyspace scannable by
// humans while staying flat for the store.
const (
	linkKeyPrefix   = "collab:link:"
	ownerKeyPrefix  = "collab:owner:"
	rosterKeyPrefix = "collab:roster:"
	docsKeyPrefix   = "collab:docs:"
)

func linkKey(linkID string) string {
	return linkKeyPrefix + linkID
}

func ownerKey(email string) string {
	return ownerKeyPrefix + email
}

func rosterKey(documentID string) string {
	return rosterKeyPrefix + documentID
}

func docsKey(email string) string {
	return docsKeyPrefix + email
}
