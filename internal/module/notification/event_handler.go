package notification

import (
	"context"

	"go.uber.org/zap"

	infraevents "github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/infra/events"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/events"
)

// EventHandler turns collaboration events into inbox entries.
type EventHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewEventHandler creates a new notification event handler.
func NewEventHandler(service *Service, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

// Handles returns the list of event types this handler can process.
func (h *EventHandler) Handles() []string {
	return []string{
		events.CollaboratorJoinedType,
	}
}

// Handle processes the given event.
func (h *EventHandler) Handle(event infraevents.Event) error {
	switch e := event.(type) {
	case *events.CollaboratorJoinedEvent:
		return h.handleCollaboratorJoined(e)
	default:
		h.logger.Warn("unhandled event type",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}
}

func (h *EventHandler) handleCollaboratorJoined(event *events.CollaboratorJoinedEvent) error {
	ctx := context.Background()

	if err := h.service.Notify(ctx, event.OwnerEmail, "collaborator_joined", event.DocumentID, event.Message); err != nil {
		h.logger.Error("failed to store join notification",
			zap.String("recipient", event.OwnerEmail),
			zap.String("document_id", event.DocumentID),
			zap.Error(err),
		)
		return err
	}

	return nil
}
