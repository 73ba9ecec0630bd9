package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pawdopt-backend/application/ports"
	"pawdopt-backend/domain/chat"
	"pawdopt-backend/domain/events"
	"pawdopt-backend/pkg/errors"
)

// History page sizing. Callers may ask for less; more is clamped.
const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

// MessageService handles message send, history paging, and read receipts for
// one chat thread. Live delivery to subscribers rides the event bus; the
// store write is the source of truth and a missed live event is recovered by
// the next history fetch.
type MessageService struct {
	messages ports.MessageRepository
	chats    ports.ChatRepository
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewMessageService creates a message service
func NewMessageService(
	messages ports.MessageRepository,
	chats ports.ChatRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		messages: messages,
		chats:    chats,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Send persists a new unread message and announces it to subscribers.
// Persistence is at-least-once; the announce is best-effort.
func (s *MessageService) Send(ctx context.Context, chatID, senderID, text string) (*chat.Message, error) {
	thread, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !thread.HasParticipant(senderID) {
		return nil, errors.NewForbiddenError("sender is not a participant of this chat")
	}
	if !thread.IsActive() {
		return nil, errors.NewValidationError("chat is inactive")
	}

	m, err := chat.NewMessage(chatID, senderID, text)
	if err != nil {
		return nil, err
	}

	if err := s.messages.Save(ctx, m); err != nil {
		return nil, errors.Wrap(err, "failed to save message")
	}

	event := events.NewMessageCreated(m.ChatID, m.SentAt, m.MessageID, m.SenderID, m.Text, time.Now())
	if err := s.eventBus.Publish(ctx, event); err != nil {
		// Live subscribers miss this one; they pick it up on the next fetch.
		s.logger.Warn("Failed to publish message event",
			zap.String("chatID", chatID),
			zap.String("messageID", m.MessageID),
			zap.Error(err),
		)
	}

	return m, nil
}

// FetchHistory returns one page of messages in ascending sent_at order plus a
// continuation token for the next page. New messages sent concurrently land
// after the fetched window because the sort key is monotonic.
func (s *MessageService) FetchHistory(ctx context.Context, chatID string, limit int32, nextToken string) (*ports.MessagePage, error) {
	if chatID == "" {
		return nil, errors.NewValidationError("chatId is required")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	page, err := s.messages.ListByChat(ctx, chatID, limit, nextToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch history")
	}
	return page, nil
}

// MarkRead sets read_status on exactly one message. Only a participant of
// the chat may mark its messages read. Calls that change
// nothing, repeats and the sender marking its own outbound message, return
// the current message without writing or broadcasting. The flag never moves
// back to unread.
func (s *MessageService) MarkRead(ctx context.Context, chatID, messageID, sentAt, callerID string) (*chat.Message, error) {
	if chatID == "" || messageID == "" || sentAt == "" {
		return nil, errors.NewValidationError("chatId, messageId and sentAt are required")
	}

	thread, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !thread.HasParticipant(callerID) {
		return nil, errors.NewForbiddenError("caller is not a participant of this chat")
	}

	m, err := s.messages.FindByID(ctx, chatID, sentAt)
	if err != nil {
		return nil, err
	}
	if m.MessageID != messageID {
		return nil, errors.NewNotFoundError("message")
	}

	if !m.MarkRead(callerID) {
		return m, nil
	}

	if err := s.messages.SetReadStatus(ctx, chatID, sentAt); err != nil {
		return nil, errors.Wrap(err, "failed to update read status")
	}

	event := events.NewMessageRead(chatID, sentAt, messageID, callerID, time.Now())
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish read receipt event",
			zap.String("chatID", chatID),
			zap.String("messageID", messageID),
			zap.Error(err),
		)
	}

	return m, nil
}
