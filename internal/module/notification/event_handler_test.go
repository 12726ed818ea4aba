package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/events"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, n *Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockRepository) ListByRecipient(ctx context.Context, email string, unreadOnly bool, limit int) ([]*Notification, error) {
	args := m.Called(ctx, email, unreadOnly, limit)
	return args.Get(0).([]*Notification), args.Error(1)
}

func (m *MockRepository) MarkRead(ctx context.Context, id uuid.UUID, email string) error {
	args := m.Called(ctx, id, email)
	return args.Error(0)
}

func TestEventHandler_CollaboratorJoined(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	handler := NewEventHandler(svc, zap.NewNop())

	assert.Equal(t, []string{events.CollaboratorJoinedType}, handler.Handles())

	var stored *Notification
	repo.On("Create", mock.Anything, mock.AnythingOfType("*notification.Notification")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*Notification)
		}).
		Return(nil)

	event := events.NewCollaboratorJoinedEvent("doc-1", "a@x.com", `Bob joined "Budget2024"`)
	require.NoError(t, handler.Handle(event))

	require.NotNil(t, stored)
	assert.Equal(t, "a@x.com", stored.RecipientEmail)
	assert.Equal(t, "collaborator_joined", stored.Kind)
	assert.Equal(t, "doc-1", stored.RelatedID)
	assert.Equal(t, `Bob joined "Budget2024"`, stored.Message)
	assert.Nil(t, stored.ReadAt)
}
