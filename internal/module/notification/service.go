package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service provides notification operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Notify persists an inbox entry for the recipient.
func (s *Service) Notify(ctx context.Context, recipientEmail, kind, relatedID, message string) error {
	n := &Notification{
		ID:             uuid.New(),
		RecipientEmail: recipientEmail,
		Kind:           kind,
		RelatedID:      relatedID,
		Message:        message,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	s.logger.Debug("notification stored",
		zap.String("recipient", recipientEmail),
		zap.String("kind", kind),
	)
	return nil
}

// List returns the recipient's notifications, newest first.
func (s *Service) List(ctx context.Context, email string, unreadOnly bool) ([]*Notification, error) {
	return s.repo.ListByRecipient(ctx, email, unreadOnly, 100)
}

// MarkRead marks a notification as read. Only the recipient can mark their
// own notifications.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID, email string) error {
	return s.repo.MarkRead(ctx, id, email)
}
