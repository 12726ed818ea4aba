package collaboration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// LinkRegistry issues and resolves share links and maintains the
// owner-to-links index.
type LinkRegistry struct {
	store      Store
	linkExpiry time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewLinkRegistry creates a new link registry. linkExpiry of zero means
// links never expire.
func NewLinkRegistry(store Store, linkExpiry time.Duration, logger *zap.Logger) *LinkRegistry {
	return &LinkRegistry{
		store:      store,
		linkExpiry: linkExpiry,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateLink issues a new link for the document and records it in the
// owner's index. The link record is written first so a failure between the
// two writes can only leave an unindexed (but resolvable) link behind.
func (r *LinkRegistry) CreateLink(ctx context.Context, documentID, documentTitle, ownerEmail string) (*ShareLink, error) {
	now := r.now()

	link := &ShareLink{
		ID:            NewLinkID(now),
		DocumentID:    documentID,
		DocumentTitle: documentTitle,
		OwnerEmail:    ownerEmail,
		CreatedAt:     now,
	}
	if r.linkExpiry > 0 {
		expires := now.Add(r.linkExpiry)
		link.ExpiresAt = &expires
	}

	payload, err := json.Marshal(link)
	if err != nil {
		return nil, fmt.Errorf("marshal link: %w", err)
	}
	if err := r.store.Set(ctx, linkKey(link.ID), string(payload)); err != nil {
		return nil, err
	}

	err = r.store.Update(ctx, ownerKey(ownerEmail), func(current string, exists bool) (string, error) {
		var ids []string
		if exists {
			if err := json.Unmarshal([]byte(current), &ids); err != nil {
				return "", fmt.Errorf("decode owner index: %w", err)
			}
		}
		ids = append(ids, link.ID)
		next, err := json.Marshal(ids)
		if err != nil {
			return "", err
		}
		return string(next), nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("share link created",
		zap.String("link_id", link.ID),
		zap.String("document_id", documentID),
	)

	return link, nil
}

// ResolveLink is a pure lookup. ErrLinkNotFound is the expected outcome for
// unknown IDs; expiry is not enforced here.
func (r *LinkRegistry) ResolveLink(ctx context.Context, linkID string) (*ShareLink, error) {
	value, exists, err := r.store.Get(ctx, linkKey(linkID))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrLinkNotFound
	}

	var link ShareLink
	if err := json.Unmarshal([]byte(value), &link); err != nil {
		return nil, fmt.Errorf("decode link %s: %w", linkID, err)
	}
	return &link, nil
}

// OwnerLinks returns the IDs of every link the owner has created, empty when
// none are recorded.
func (r *LinkRegistry) OwnerLinks(ctx context.Context, ownerEmail string) ([]string, error) {
	value, exists, err := r.store.Get(ctx, ownerKey(ownerEmail))
	if err != nil {
		return nil, err
	}
	if !exists {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return nil, fmt.Errorf("decode owner index: %w", err)
	}
	return ids, nil
}

// IsOwner reports whether the user holds a link for the document. Ownership
// is derived by scanning the owner's links, which stays cheap because users
// create few links.
func (r *LinkRegistry) IsOwner(ctx context.Context, documentID, userEmail string) (bool, error) {
	ids, err := r.OwnerLinks(ctx, userEmail)
	if err != nil {
		return false, err
	}

	for _, id := range ids {
		link, err := r.ResolveLink(ctx, id)
		if err != nil {
			if errors.Is(err, ErrLinkNotFound) {
				continue // index can reference a link the store has lost
			}
			return false, err
		}
		if link.DocumentID == documentID {
			return true, nil
		}
	}
	return false, nil
}
