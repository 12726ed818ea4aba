package collaboration

import "context"

// Notification kinds dispatched by the collaboration service.
const (
	KindCollaboratorJoined = "collaborator_joined"
)

// Notifier accepts fire-and-forget "something happened to user X" messages.
// Implementations must not block the join path; failures are theirs to log,
// no error flows back to the caller.
type Notifier interface {
	Dispatch(ctx context.Context, recipientEmail, kind, relatedID, message string)
}

// NopNotifier discards every dispatch. Useful as a default and in tests.
type NopNotifier struct{}

// Dispatch does nothing.
func (NopNotifier) Dispatch(ctx context.Context, recipientEmail, kind, relatedID, message string) {}

var _ Notifier = NopNotifier{}
