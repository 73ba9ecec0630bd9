// Package events defines the domain events published to the real-time
// push pipeline. Events flow through EventBridge to the WebSocket send
// Lambda, which fans them out to subscribed connections.
package events

import "time"

// Event source and detail types as they appear on the bus.
const (
	SourceBackend = "pawdopt.backend"

	EventTypeMessageCreated  = "MessageCreated"
	EventTypeMessageRead     = "MessageRead"
	EventTypeChatDeactivated = "ChatDeactivated"
	EventTypeRequestApproved = "RequestApproved"
)

// DomainEvent is the base interface for all domain events.
// Events represent something that has happened in the past.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// MessageCreated is raised when a message is persisted to a chat. Subscribers
// of the chat receive the full message so no follow-up fetch is needed for
// live delivery.
type MessageCreated struct {
	BaseEvent
	ChatID     string `json:"chat_id"`
	SentAt     string `json:"sent_at"`
	MessageID  string `json:"message_id"`
	SenderID   string `json:"sender_id"`
	Text       string `json:"text"`
	ReadStatus bool   `json:"read_status"`
}

// NewMessageCreated creates a MessageCreated event
func NewMessageCreated(chatID, sentAt, messageID, senderID, text string, timestamp time.Time) MessageCreated {
	return MessageCreated{
		BaseEvent: BaseEvent{
			AggregateID: chatID,
			EventType:   EventTypeMessageCreated,
			Timestamp:   timestamp,
		},
		ChatID:     chatID,
		SentAt:     sentAt,
		MessageID:  messageID,
		SenderID:   senderID,
		Text:       text,
		ReadStatus: false,
	}
}

// MessageRead is raised when a recipient marks a message read.
type MessageRead struct {
	BaseEvent
	ChatID    string `json:"chat_id"`
	SentAt    string `json:"sent_at"`
	MessageID string `json:"message_id"`
	ReaderID  string `json:"reader_id"`
}

// NewMessageRead creates a MessageRead event
func NewMessageRead(chatID, sentAt, messageID, readerID string, timestamp time.Time) MessageRead {
	return MessageRead{
		BaseEvent: BaseEvent{
			AggregateID: chatID,
			EventType:   EventTypeMessageRead,
			Timestamp:   timestamp,
		},
		ChatID:    chatID,
		SentAt:    sentAt,
		MessageID: messageID,
		ReaderID:  readerID,
	}
}

// ChatDeactivated is raised for each chat closed by the dog-adopted fan-out,
// so losing adopters learn immediately that the opportunity is gone.
type ChatDeactivated struct {
	BaseEvent
	ChatID string `json:"chat_id"`
	DogID  string `json:"dog_id"`
}

// NewChatDeactivated creates a ChatDeactivated event
func NewChatDeactivated(chatID, dogID string, timestamp time.Time) ChatDeactivated {
	return ChatDeactivated{
		BaseEvent: BaseEvent{
			AggregateID: chatID,
			EventType:   EventTypeChatDeactivated,
			Timestamp:   timestamp,
		},
		ChatID: chatID,
		DogID:  dogID,
	}
}

// RequestApproved is raised when a shelter approves an adoption request and
// its chat is created.
type RequestApproved struct {
	BaseEvent
	RequestID string `json:"request_id"`
	ChatID    string `json:"chat_id"`
	AdopterID string `json:"adopter_id"`
	DogID     string `json:"dog_id"`
}

// NewRequestApproved creates a RequestApproved event
func NewRequestApproved(requestID, chatID, adopterID, dogID string, timestamp time.Time) RequestApproved {
	return RequestApproved{
		BaseEvent: BaseEvent{
			AggregateID: requestID,
			EventType:   EventTypeRequestApproved,
			Timestamp:   timestamp,
		},
		RequestID: requestID,
		ChatID:    chatID,
		AdopterID: adopterID,
		DogID:     dogID,
	}
}
