package collaboration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Dispatch(ctx context.Context, recipientEmail, kind, relatedID, message string) {
	m.Called(ctx, recipientEmail, kind, relatedID, message)
}

func newTestService(t *testing.T, notifier Notifier) *Service {
	t.Helper()
	cfg := &Config{
		ActiveWindow: 5 * time.Minute,
		BaseURL:      "https://sheets.example.com",
	}
	return NewService(newMemStore(), cfg, notifier, zap.NewNop())
}

func TestService_Join(t *testing.T) {
	ctx := context.Background()

	t.Run("join via link registers collaborator and notifies owner", func(t *testing.T) {
		notifier := new(MockNotifier)
		svc := newTestService(t, notifier)

		link, err := svc.ShareDocument(ctx, "Budget2024", "Budget2024", "a@x.com")
		require.NoError(t, err)

		notifier.On("Dispatch", mock.Anything, "a@x.com", KindCollaboratorJoined, "Budget2024", mock.MatchedBy(func(msg string) bool {
			return msg == `Bob joined "Budget2024"`
		})).Once()

		docID, err := svc.Join(ctx, link.ID, "b@x.com", "Bob")
		require.NoError(t, err)
		assert.Equal(t, "Budget2024", docID)

		roster, err := svc.Roster(ctx, "Budget2024")
		require.NoError(t, err)
		require.Len(t, roster, 1)
		assert.Equal(t, "b@x.com", roster[0].Email)
		assert.True(t, roster[0].Active)

		owner, err := svc.IsOwner(ctx, "Budget2024", "a@x.com")
		require.NoError(t, err)
		assert.True(t, owner)

		owner, err = svc.IsOwner(ctx, "Budget2024", "b@x.com")
		require.NoError(t, err)
		assert.False(t, owner)

		notifier.AssertExpectations(t)
	})

	t.Run("notification carries the snapshot title, not the current one", func(t *testing.T) {
		notifier := new(MockNotifier)
		svc := newTestService(t, notifier)

		// Title at share time is "Old"; any later rename is invisible to the
		// link, so the notification must still say "Old".
		link, err := svc.ShareDocument(ctx, "doc-9", "Old", "a@x.com")
		require.NoError(t, err)

		notifier.On("Dispatch", mock.Anything, "a@x.com", KindCollaboratorJoined, "doc-9",
			`Bob joined "Old"`).Once()

		_, err = svc.Join(ctx, link.ID, "b@x.com", "Bob")
		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("unknown link leaves no trace", func(t *testing.T) {
		notifier := new(MockNotifier)
		svc := newTestService(t, notifier)

		_, err := svc.Join(ctx, "missing", "b@x.com", "Bob")
		assert.ErrorIs(t, err, ErrLinkNotFound)

		docs, err := svc.DocumentsFor(ctx, "b@x.com")
		require.NoError(t, err)
		assert.Empty(t, docs)
		notifier.AssertNotCalled(t, "Dispatch")
	})

	t.Run("expired link is rejected without roster mutation", func(t *testing.T) {
		notifier := new(MockNotifier)
		svc := newTestService(t, notifier)

		link, err := svc.ShareDocument(ctx, "doc-1", "T", "a@x.com")
		require.NoError(t, err)

		// Age the link past its expiry
		past := time.Now().Add(-time.Minute)
		link.ExpiresAt = &past
		payload, err := json.Marshal(link)
		require.NoError(t, err)
		require.NoError(t, svc.store.Set(ctx, linkKey(link.ID), string(payload)))

		_, err = svc.Join(ctx, link.ID, "b@x.com", "Bob")
		assert.ErrorIs(t, err, ErrLinkExpired)

		roster, err := svc.Roster(ctx, "doc-1")
		require.NoError(t, err)
		assert.Empty(t, roster)
		notifier.AssertNotCalled(t, "Dispatch")
	})

	t.Run("re-join does not duplicate the collaborated-documents index", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		svc := newTestService(t, notifier)

		link, err := svc.ShareDocument(ctx, "doc-1", "T", "a@x.com")
		require.NoError(t, err)

		_, err = svc.Join(ctx, link.ID, "b@x.com", "Bob")
		require.NoError(t, err)
		_, err = svc.Join(ctx, link.ID, "b@x.com", "Bob")
		require.NoError(t, err)

		docs, err := svc.DocumentsFor(ctx, "b@x.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"doc-1"}, docs)
	})
}

func TestService_IsCollaborator(t *testing.T) {
	ctx := context.Background()
	notifier := new(MockNotifier)
	notifier.On("Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	svc := newTestService(t, notifier)

	link, err := svc.ShareDocument(ctx, "doc-1", "T", "a@x.com")
	require.NoError(t, err)
	_, err = svc.Join(ctx, link.ID, "b@x.com", "Bob")
	require.NoError(t, err)

	ok, err := svc.IsCollaborator(ctx, "doc-1", "b@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsCollaborator(ctx, "doc-1", "z@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_RemoveCollaborator(t *testing.T) {
	ctx := context.Background()
	notifier := new(MockNotifier)
	notifier.On("Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	svc := newTestService(t, notifier)

	link, err := svc.ShareDocument(ctx, "doc-1", "T", "a@x.com")
	require.NoError(t, err)
	_, err = svc.Join(ctx, link.ID, "b@x.com", "Bob")
	require.NoError(t, err)

	t.Run("non-owner cannot remove others", func(t *testing.T) {
		err := svc.RemoveCollaborator(ctx, "doc-1", "b@x.com", "c@x.com")
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("owner removes a collaborator", func(t *testing.T) {
		require.NoError(t, svc.RemoveCollaborator(ctx, "doc-1", "b@x.com", "a@x.com"))

		roster, err := svc.Roster(ctx, "doc-1")
		require.NoError(t, err)
		assert.Empty(t, roster)
	})

	t.Run("users may remove themselves", func(t *testing.T) {
		_, err := svc.Join(ctx, link.ID, "b@x.com", "Bob")
		require.NoError(t, err)
		require.NoError(t, svc.RemoveCollaborator(ctx, "doc-1", "b@x.com", "b@x.com"))
	})
}

func TestShareURL(t *testing.T) {
	svc := newTestService(t, nil)

	url := svc.ShareURL("abc123")
	assert.Equal(t, "https://sheets.example.com?collab=abc123", url)

	// IDs needing escaping stay round-trippable
	url = svc.ShareURL("a b&c")
	assert.Equal(t, "a b&c", ParseShareURL(url))
}

func TestParseShareURL(t *testing.T) {
	assert.Equal(t, "abc123", ParseShareURL("https://x?collab=abc123"))
	assert.Equal(t, "", ParseShareURL("https://x"))
	assert.Equal(t, "", ParseShareURL("https://x?other=1"))
	assert.Equal(t, "", ParseShareURL("://not a url"))
}
