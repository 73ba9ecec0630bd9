package chat

import (
	"github.com/google/uuid"

	"pawdopt-backend/pkg/errors"
	"pawdopt-backend/pkg/utils"
)

// Message is one chat message. Messages are immutable except for ReadStatus,
// which only ever moves false to true.
//
// SentAt is the sort key within a chat and is assigned from the sender's clock
// at send time; MessageID identifies the message independently of clock skew.
type Message struct {
	ChatID     string `json:"chatId" dynamodbav:"chat_id"`
	SentAt     string `json:"sentAt" dynamodbav:"sent_at"`
	MessageID  string `json:"messageId" dynamodbav:"message_id"`
	SenderID   string `json:"senderId" dynamodbav:"sender_id"`
	Text       string `json:"text" dynamodbav:"text"`
	ReadStatus bool   `json:"readStatus" dynamodbav:"read_status"`
}

// NewMessage creates an unread message stamped with the current time.
func NewMessage(chatID, senderID, text string) (*Message, error) {
	if chatID == "" {
		return nil, errors.NewValidationError("chatId is required")
	}
	if senderID == "" {
		return nil, errors.NewUnauthorizedError("missing sender identity")
	}
	if text == "" {
		return nil, errors.NewValidationError("text is required")
	}

	return &Message{
		ChatID:     chatID,
		SentAt:     utils.NowSortableTimestamp(),
		MessageID:  uuid.New().String(),
		SenderID:   senderID,
		Text:       text,
		ReadStatus: false,
	}, nil
}

// MarkRead flips the read flag. Returns true when the flag changed; marking an
// already-read message again reports false so callers can skip the write and
// the broadcast.
func (m *Message) MarkRead(callerID string) bool {
	if m.ReadStatus {
		return false
	}
	// A sender never marks its own outbound messages as read.
	if callerID == m.SenderID {
		return false
	}
	m.ReadStatus = true
	return true
}
