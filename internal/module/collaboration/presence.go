package collaboration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// PresenceTracker maintains the roster of collaborators per document and
// computes liveness. The roster is stored as one JSON blob per document in
// join order; every mutation goes through the store's atomic Update so
// concurrent joins cannot lose each other's entries.
type PresenceTracker struct {
	store        Store
	activeWindow time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewPresenceTracker creates a new presence tracker.
func NewPresenceTracker(store Store, activeWindow time.Duration, logger *zap.Logger) *PresenceTracker {
	if activeWindow <= 0 {
		activeWindow = 5 * time.Minute
	}
	return &PresenceTracker{
		store:        store,
		activeWindow: activeWindow,
		logger:       logger,
		now:          time.Now,
	}
}

// Upsert registers or refreshes a collaborator. A first join appends a new
// entry with JoinedAt set once; a re-join refreshes LastActive and overwrites
// the display name (last write wins) while preserving JoinedAt and the
// entry's position in the roster.
func (t *PresenceTracker) Upsert(ctx context.Context, documentID, email, name string) (*Collaborator, error) {
	var result Collaborator

	err := t.store.Update(ctx, rosterKey(documentID), func(current string, exists bool) (string, error) {
		roster, err := decodeRoster(current, exists)
		if err != nil {
			return "", err
		}

		now := t.now()
		found := false
		for i := range roster {
			if roster[i].Email == email {
				roster[i].LastActive = now
				roster[i].Name = name
				result = roster[i]
				found = true
				break
			}
		}
		if !found {
			entry := Collaborator{
				Email:      email,
				Name:       name,
				JoinedAt:   now,
				LastActive: now,
			}
			roster = append(roster, entry)
			result = entry
		}

		return encodeRoster(roster)
	})
	if err != nil {
		return nil, err
	}

	result.Active = true
	return &result, nil
}

// Roster returns the document's collaborators in join order with Active
// recomputed against the staleness window. The recomputed flag is never
// written back; liveness is always derived fresh.
func (t *PresenceTracker) Roster(ctx context.Context, documentID string) ([]Collaborator, error) {
	value, exists, err := t.store.Get(ctx, rosterKey(documentID))
	if err != nil {
		return nil, err
	}

	roster, err := decodeRoster(value, exists)
	if err != nil {
		return nil, err
	}

	now := t.now()
	for i := range roster {
		roster[i].Active = now.Sub(roster[i].LastActive) < t.activeWindow
	}
	return roster, nil
}

// Heartbeat refreshes LastActive for an existing entry. Heartbeats for
// unknown entries are silently ignored: a client pinging a membership that
// was removed underneath it should not fail.
func (t *PresenceTracker) Heartbeat(ctx context.Context, documentID, email string) error {
	return t.store.Update(ctx, rosterKey(documentID), func(current string, exists bool) (string, error) {
		roster, err := decodeRoster(current, exists)
		if err != nil {
			return "", err
		}

		for i := range roster {
			if roster[i].Email == email {
				roster[i].LastActive = t.now()
				return encodeRoster(roster)
			}
		}
		return "", ErrNoChange
	})
}

// Remove drops the collaborator from the roster. Removing an absent entry is
// a no-op.
func (t *PresenceTracker) Remove(ctx context.Context, documentID, email string) error {
	err := t.store.Update(ctx, rosterKey(documentID), func(current string, exists bool) (string, error) {
		roster, err := decodeRoster(current, exists)
		if err != nil {
			return "", err
		}

		filtered := roster[:0]
		for _, entry := range roster {
			if entry.Email != email {
				filtered = append(filtered, entry)
			}
		}
		if len(filtered) == len(roster) {
			return "", ErrNoChange
		}
		return encodeRoster(filtered)
	})
	if err != nil {
		return err
	}

	t.logger.Debug("collaborator removed",
		zap.String("document_id", documentID),
		zap.String("email", email),
	)
	return nil
}

func decodeRoster(value string, exists bool) ([]Collaborator, error) {
	if !exists || value == "" {
		return []Collaborator{}, nil
	}
	var roster []Collaborator
	if err := json.Unmarshal([]byte(value), &roster); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return roster, nil
}

func encodeRoster(roster []Collaborator) (string, error) {
	payload, err := json.Marshal(roster)
	if err != nil {
		return "", fmt.Errorf("encode roster: %w", err)
	}
	return string(payload), nil
}
