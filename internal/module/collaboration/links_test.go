package collaboration

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLinkID(t *testing.T) {
	now := time.Now()

	id1 := NewLinkID(now)
	id2 := NewLinkID(now)

	assert.NotEqual(t, id1, id2)
	assert.Contains(t, id1, "-")

	// Same millisecond shares the timestamp prefix
	prefix1 := strings.SplitN(id1, "-", 2)[0]
	prefix2 := strings.SplitN(id2, "-", 2)[0]
	assert.Equal(t, prefix1, prefix2)
}

func TestLinkRegistry_CreateAndResolve(t *testing.T) {
	store := newMemStore()
	registry := NewLinkRegistry(store, 0, zap.NewNop())
	ctx := context.Background()

	link, err := registry.CreateLink(ctx, "doc-1", "Budget2024", "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, link.ID)
	assert.Equal(t, "doc-1", link.DocumentID)
	assert.Equal(t, "Budget2024", link.DocumentTitle)
	assert.Equal(t, "a@x.com", link.OwnerEmail)
	assert.Nil(t, link.ExpiresAt)

	resolved, err := registry.ResolveLink(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, link.ID, resolved.ID)
	assert.Equal(t, "Budget2024", resolved.DocumentTitle)
}

func TestLinkRegistry_ResolveUnknown(t *testing.T) {
	registry := NewLinkRegistry(newMemStore(), 0, zap.NewNop())

	_, err := registry.ResolveLink(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrLinkNotFound)
}

func TestLinkRegistry_LinkExpiry(t *testing.T) {
	registry := NewLinkRegistry(newMemStore(), time.Hour, zap.NewNop())
	ctx := context.Background()

	link, err := registry.CreateLink(ctx, "doc-1", "T", "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, link.ExpiresAt)

	assert.False(t, link.IsExpired(time.Now()))
	assert.True(t, link.IsExpired(time.Now().Add(2*time.Hour)))
}

func TestLinkRegistry_OwnerLinks(t *testing.T) {
	registry := NewLinkRegistry(newMemStore(), 0, zap.NewNop())
	ctx := context.Background()

	ids, err := registry.OwnerLinks(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, ids)

	l1, err := registry.CreateLink(ctx, "doc-1", "One", "a@x.com")
	require.NoError(t, err)
	l2, err := registry.CreateLink(ctx, "doc-2", "Two", "a@x.com")
	require.NoError(t, err)

	ids, err = registry.OwnerLinks(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{l1.ID, l2.ID}, ids)
}

func TestLinkRegistry_IsOwner(t *testing.T) {
	registry := NewLinkRegistry(newMemStore(), 0, zap.NewNop())
	ctx := context.Background()

	_, err := registry.CreateLink(ctx, "doc-1", "Budget2024", "a@x.com")
	require.NoError(t, err)

	owner, err := registry.IsOwner(ctx, "doc-1", "a@x.com")
	require.NoError(t, err)
	assert.True(t, owner)

	owner, err = registry.IsOwner(ctx, "doc-1", "b@x.com")
	require.NoError(t, err)
	assert.False(t, owner)

	owner, err = registry.IsOwner(ctx, "doc-2", "a@x.com")
	require.NoError(t, err)
	assert.False(t, owner)
}

func TestLinkRegistry_IsOwnerSkipsDanglingLinks(t *testing.T) {
	store := newMemStore()
	registry := NewLinkRegistry(store, 0, zap.NewNop())
	ctx := context.Background()

	link, err := registry.CreateLink(ctx, "doc-1", "Budget2024", "a@x.com")
	require.NoError(t, err)

	// Index still references a link the store has lost.
	raw, err := json.Marshal([]string{"gone-link", link.ID})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, ownerKey("a@x.com"), string(raw)))

	owner, err := registry.IsOwner(ctx, "doc-1", "a@x.com")
	require.NoError(t, err)
	assert.True(t, owner)
}
