// Package ports defines the store and transport contracts the application
// services depend on. Implementations live under infrastructure.
package ports

import (
	"context"

	"pawdopt-backend/domain/adoption"
	"pawdopt-backend/domain/chat"
	"pawdopt-backend/domain/events"
)

// RequestRepository persists adoption requests keyed by (requestID, createdAt).
type RequestRepository interface {
	Save(ctx context.Context, request *adoption.Request) error
	FindByAdopter(ctx context.Context, adopterID string) ([]*adoption.Request, error)
	FindByShelter(ctx context.Context, shelterID string) ([]*adoption.Request, error)
	// UpdateStatus overwrites the status unconditionally. There is no
	// version token; concurrent updates resolve last-writer-wins.
	UpdateStatus(ctx context.Context, requestID, createdAt string, status adoption.Status) error
	AttachChat(ctx context.Context, requestID, createdAt, chatID string) error
	Delete(ctx context.Context, requestID, createdAt string) error
}

// ChatRepository persists chat threads keyed by chatID.
type ChatRepository interface {
	Save(ctx context.Context, c *chat.Chat) error
	FindByID(ctx context.Context, chatID string) (*chat.Chat, error)
	FindByParticipant(ctx context.Context, userID string, asShelter bool) ([]*chat.Chat, error)
	// FindCompetitors returns chats about dogID whose adopter is not
	// winningAdopterID, regardless of current status.
	FindCompetitors(ctx context.Context, dogID, winningAdopterID string) ([]*chat.Chat, error)
	UpdateStatus(ctx context.Context, chatID string, status chat.Status) error
}

// MessagePage is one page of chat history in ascending sent_at order.
type MessagePage struct {
	Items     []*chat.Message
	NextToken string
}

// MessageRepository persists the append-only message log per chat.
type MessageRepository interface {
	Save(ctx context.Context, m *chat.Message) error
	FindByID(ctx context.Context, chatID, sentAt string) (*chat.Message, error)
	// ListByChat pages messages ascending by sent_at. nextToken is the
	// opaque continuation cursor from a prior page, empty for the first.
	ListByChat(ctx context.Context, chatID string, limit int32, nextToken string) (*MessagePage, error)
	// SetReadStatus flips read_status to true for one message. The write is
	// conditional on the flag being false so repeats and races stay
	// monotonic.
	SetReadStatus(ctx context.Context, chatID, sentAt string) error
}

// Connection is one live WebSocket subscription to a chat.
type Connection struct {
	ConnectionID string
	ChatID       string
	UserID       string
	Endpoint     string
}

// ConnectionRepository tracks live WebSocket connections per chat.
type ConnectionRepository interface {
	Save(ctx context.Context, conn Connection) error
	Delete(ctx context.Context, connectionID string) error
	FindByChat(ctx context.Context, chatID string) ([]Connection, error)
}

// EventBus publishes domain events for asynchronous fan-out.
type EventBus interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Broadcaster pushes a payload to live subscriber connections of a chat.
// Delivery is best-effort: disconnected clients reconcile via history fetch.
type Broadcaster interface {
	BroadcastToChat(ctx context.Context, chatID string, payload interface{}) error
}
