package collaboration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// shareParam is the query parameter carrying the link ID in share URLs.
// Changing it breaks every link already sent out.
const shareParam = "collab"

// Service is the collaboration facade: the only entry point other modules
// and handlers should use end-to-end. It orchestrates the link registry,
// presence tracker and notifier.
type Service struct {
	links    *LinkRegistry
	presence *PresenceTracker
	store    Store
	notifier Notifier
	baseURL  string
	logger   *zap.Logger
}

// NewService creates the collaboration service.
func NewService(store Store, cfg *Config, notifier Notifier, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		links:    NewLinkRegistry(store, cfg.LinkExpiry, logger),
		presence: NewPresenceTracker(store, cfg.ActiveWindow, logger),
		store:    store,
		notifier: notifier,
		baseURL:  cfg.BaseURL,
		logger:   logger,
	}
}

// ShareDocument creates a share link for the document, snapshotting the
// given title into the link.
func (s *Service) ShareDocument(ctx context.Context, documentID, documentTitle, ownerEmail string) (*ShareLink, error) {
	return s.links.CreateLink(ctx, documentID, documentTitle, ownerEmail)
}

// ResolveLink looks up a link without joining. Expired links still resolve;
// only the join path enforces expiry.
func (s *Service) ResolveLink(ctx context.Context, linkID string) (*ShareLink, error) {
	return s.links.ResolveLink(ctx, linkID)
}

// Join resolves the link and registers the user as a collaborator on its
// document. Returns the document ID for the client to load next. The owner
// is notified with the link's snapshot title, not a fresh lookup of the
// document's current title.
func (s *Service) Join(ctx context.Context, linkID, userEmail, userName string) (string, error) {
	link, err := s.links.ResolveLink(ctx, linkID)
	if err != nil {
		return "", err
	}
	if link.IsExpired(s.presence.now()) {
		return "", ErrLinkExpired
	}

	if _, err := s.presence.Upsert(ctx, link.DocumentID, userEmail, userName); err != nil {
		return "", err
	}

	if err := s.recordCollaboratedDocument(ctx, userEmail, link.DocumentID); err != nil {
		return "", err
	}

	s.notifier.Dispatch(ctx, link.OwnerEmail, KindCollaboratorJoined, link.DocumentID,
		fmt.Sprintf("%s joined %q", userName, link.DocumentTitle))

	s.logger.Info("collaborator joined",
		zap.String("link_id", linkID),
		zap.String("document_id", link.DocumentID),
	)

	return link.DocumentID, nil
}

// Roster returns the document's collaborators with liveness computed.
func (s *Service) Roster(ctx context.Context, documentID string) ([]Collaborator, error) {
	return s.presence.Roster(ctx, documentID)
}

// Heartbeat refreshes the caller's presence on the document.
func (s *Service) Heartbeat(ctx context.Context, documentID, email string) error {
	return s.presence.Heartbeat(ctx, documentID, email)
}

// RemoveCollaborator drops a collaborator from the roster. Only the document
// owner may remove others; anyone may remove themselves.
func (s *Service) RemoveCollaborator(ctx context.Context, documentID, targetEmail, callerEmail string) error {
	if targetEmail != callerEmail {
		owner, err := s.links.IsOwner(ctx, documentID, callerEmail)
		if err != nil {
			return err
		}
		if !owner {
			return ErrNotOwner
		}
	}
	return s.presence.Remove(ctx, documentID, targetEmail)
}

// IsOwner reports whether the user holds a share link for the document.
func (s *Service) IsOwner(ctx context.Context, documentID, userEmail string) (bool, error) {
	return s.links.IsOwner(ctx, documentID, userEmail)
}

// IsCollaborator reports whether the user appears on the document's roster.
func (s *Service) IsCollaborator(ctx context.Context, documentID, email string) (bool, error) {
	roster, err := s.presence.Roster(ctx, documentID)
	if err != nil {
		return false, err
	}
	for _, entry := range roster {
		if entry.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// DocumentsFor returns the IDs of documents the user collaborates on, in the
// order they first joined.
func (s *Service) DocumentsFor(ctx context.Context, email string) ([]string, error) {
	value, exists, err := s.store.Get(ctx, docsKey(email))
	if err != nil {
		return nil, err
	}
	if !exists {
		return []string{}, nil
	}
	return decodeStringList(value)
}

// ShareURL formats the shareable URL for a link.
func (s *Service) ShareURL(linkID string) string {
	return fmt.Sprintf("%s?%s=%s", s.baseURL, shareParam, url.QueryEscape(linkID))
}

// ParseShareURL extracts the link ID from an inbound URL. Returns empty for
// URLs without the parameter or that fail to parse; a missing link ID is an
// expected outcome, not an error.
func ParseShareURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get(shareParam)
}

// recordCollaboratedDocument appends the document to the user's
// collaborated-documents index with set semantics: membership is checked
// inside the atomic update so the index never holds duplicates.
func (s *Service) recordCollaboratedDocument(ctx context.Context, email, documentID string) error {
	return s.store.Update(ctx, docsKey(email), func(current string, exists bool) (string, error) {
		var ids []string
		if exists {
			var err error
			ids, err = decodeStringList(current)
			if err != nil {
				return "", err
			}
		}
		for _, id := range ids {
			if id == documentID {
				return "", ErrNoChange
			}
		}
		ids = append(ids, documentID)
		return encodeStringList(ids)
	})
}

func decodeStringList(value string) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return nil, fmt.Errorf("decode document index: %w", err)
	}
	return ids, nil
}

func encodeStringList(ids []string) (string, error) {
	payload, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode document index: %w", err)
	}
	return string(payload), nil
}
