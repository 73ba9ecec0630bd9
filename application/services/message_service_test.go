package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pawdopt-backend/application/ports"
	"pawdopt-backend/domain/chat"
	apperrors "pawdopt-backend/pkg/errors"
)

func newMessageService(messages *mockMessageRepository, chats *mockChatRepository, bus *mockEventBus) *MessageService {
	return NewMessageService(messages, chats, bus, zap.NewNop())
}

func activeChat() *chat.Chat {
	return &chat.Chat{
		ChatID:    "chat-1",
		AdopterID: "adopter-1",
		ShelterID: "shelter-1",
		DogID:     "dog-1",
		Status:    chat.StatusActive,
	}
}

func TestMessageService_Send(t *testing.T) {
	t.Run("persists unread message and publishes event", func(t *testing.T) {
		// Arrange
		messages := new(mockMessageRepository)
		chats := new(mockChatRepository)
		bus := new(mockEventBus)
		chats.On("FindByID", mock.Anything, "chat-1").Return(activeChat(), nil)
		messages.On("Save", mock.Anything, mock.AnythingOfType("*chat.Message")).Return(nil)
		bus.On("Publish", mock.Anything, mock.Anything).Return(nil)
		svc := newMessageService(messages, chats, bus)

		// Act
		m, err := svc.Send(context.Background(), "chat-1", "adopter-1", "hello")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "chat-1", m.ChatID)
		assert.Equal(t, "adopter-1", m.SenderID)
		assert.Equal(t, "hello", m.Text)
		assert.False(t, m.ReadStatus)
		assert.NotEmpty(t, m.SentAt)
		assert.NotEmpty(t, m.MessageID)
		messages.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("rejects non-participant", func(t *testing.T) {
		messages := new(mockMessageRepository)
		chats := new(mockChatRepository)
		chats.On("FindByID", mock.Anything, "chat-1").Return(activeChat(), nil)
		svc := newMessageService(messages, chats, new(mockEventBus))

		_, err := svc.Send(context.Background(), "chat-1", "stranger", "hi")

		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
		messages.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects inactive chat", func(t *testing.T) {
		inactive := activeChat()
		inactive.Deactivate()
		messages := new(mockMessageRepository)
		chats := new(mockChatRepository)
		chats.On("FindByID", mock.Anything, "chat-1").Return(inactive, nil)
		svc := newMessageService(messages, chats, new(mockEventBus))

		_, err := svc.Send(context.Background(), "chat-1", "adopter-1", "hi")

		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		messages.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing chat surfaces not found", func(t *testing.T) {
		chats := new(mockChatRepository)
		chats.On("FindByID", mock.Anything, "ghost").Return(nil, apperrors.NewNotFoundError("chat"))
		svc := newMessageService(new(mockMessageRepository), chats, new(mockEventBus))

		_, err := svc.Send(context.Background(), "ghost", "adopter-1", "hi")

		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("rejects empty text", func(t *testing.T) {
		chats := new(mockChatRepository)
		chats.On("FindByID", mock.Anything, "chat-1").Return(activeChat(), nil)
		svc := newMessageService(new(mockMessageRepository), chats, new(mockEventBus))

		_, err := svc.Send(context.Background(), "chat-1", "adopter-1", "")

		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("publish failure does not fail the send", func(t *testing.T) {
		messages := new(mockMessageRepository)
		chats := new(mockChatRepository)
		bus := new(mockEventBus)
		chats.On("FindByID", mock.Anything, "chat-1").Return(activeChat(), nil)
		messages.On("Save", mock.Anything, mock.Anything).Return(nil)
		bus.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bus down"))
		svc := newMessageService(messages, chats, bus)

		m, err := svc.Send(context.Background(), "chat-1", "shelter-1", "hi")

		require.NoError(t, err)
		assert.NotNil(t, m)
	})
}

func TestMessageService_FetchHistory(t *testing.T) {
	t.Run("returns page with continuation token", func(t *testing.T) {
		// Arrange
		messages := new(mockMessageRepository)
		page := &ports.MessagePage{
			Items: []*chat.Message{
				{ChatID: "chat-1", SentAt: "2026-01-01T00:00:00.000000000Z", Text: "first"},
				{ChatID: "chat-1", SentAt: "2026-01-01T00:00:01.000000000Z", Text: "second"},
			},
			NextToken: "token-2",
		}
		messages.On("ListByChat", mock.Anything, "chat-1", int32(2), "").Return(page, nil)
		svc := newMessageService(messages, new(mockChatRepository), new(mockEventBus))

		// Act
		got, err := svc.FetchHistory(context.Background(), "chat-1", 2, "")

		// Assert
		require.NoError(t, err)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "token-2", got.NextToken)
		assert.Less(t, got.Items[0].SentAt, got.Items[1].SentAt)
	})

	t.Run("defaults and clamps the limit", func(t *testing.T) {
		messages := new(mockMessageRepository)
		empty := &ports.MessagePage{Items: []*chat.Message{}}
		messages.On("ListByChat", mock.Anything, "chat-1", int32(defaultHistoryLimit), "").Return(empty, nil).Once()
		messages.On("ListByChat", mock.Anything, "chat-1", int32(maxHistoryLimit), "").Return(empty, nil).Once()
		svc := newMessageService(messages, new(mockChatRepository), new(mockEventBus))

		_, err := svc.FetchHistory(context.Background(), "chat-1", 0, "")
		require.NoError(t, err)
		_, err = svc.FetchHistory(context.Background(), "chat-1", 10_000, "")
		require.NoError(t, err)

		messages.AssertExpectations(t)
	})

	t.Run("rejects missing chat id", func(t *testing.T) {
		svc := newMessageService(new(mockMessageRepository), new(mockChatRepository), new(mockEventBus))

		_, err := svc.FetchHistory(context.Background(), "", 10, "")

		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestMessageService_MarkRead(t *testing.T) {
	const sentAt = "2026-01-01T00:00:00.000000000Z"

	unread := func() *chat.Message {
		return &chat.Message{
			ChatID:    "chat-1",
			SentAt:    sentAt,
			MessageID: "m1",
			SenderID:  "adopter-1",
			Text:      "hello",
		}
	}

	readerChats := func() *mockChatRepository {
		chats := new(mockChatRepository)
		chats.On("FindByID", mock.Anything, "chat-1").Return(activeChat(), nil)
		return chats
	}

	t.Run("flips unread to read and publishes receipt", func(t *testing.T) {
		// Arrange
		messages := new(mockMessageRepository)
		bus := new(mockEventBus)
		messages.On("FindByID", mock.Anything, "chat-1", sentAt).Return(unread(), nil)
		messages.On("SetReadStatus", mock.Anything, "chat-1", sentAt).Return(nil)
		bus.On("Publish", mock.Anything, mock.Anything).Return(nil)
		svc := newMessageService(messages, readerChats(), bus)

		// Act
		m, err := svc.MarkRead(context.Background(), "chat-1", "m1", sentAt, "shelter-1")

		// Assert
		require.NoError(t, err)
		assert.True(t, m.ReadStatus)
		messages.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("already-read message is a no-op", func(t *testing.T) {
		read := unread()
		read.ReadStatus = true
		messages := new(mockMessageRepository)
		bus := new(mockEventBus)
		messages.On("FindByID", mock.Anything, "chat-1", sentAt).Return(read, nil)
		svc := newMessageService(messages, readerChats(), bus)

		m, err := svc.MarkRead(context.Background(), "chat-1", "m1", sentAt, "shelter-1")

		require.NoError(t, err)
		assert.True(t, m.ReadStatus)
		messages.AssertNotCalled(t, "SetReadStatus", mock.Anything, mock.Anything, mock.Anything)
		bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("sender marking own message is a no-op", func(t *testing.T) {
		messages := new(mockMessageRepository)
		bus := new(mockEventBus)
		messages.On("FindByID", mock.Anything, "chat-1", sentAt).Return(unread(), nil)
		svc := newMessageService(messages, readerChats(), bus)

		m, err := svc.MarkRead(context.Background(), "chat-1", "m1", sentAt, "adopter-1")

		require.NoError(t, err)
		assert.False(t, m.ReadStatus)
		messages.AssertNotCalled(t, "SetReadStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("message id mismatch is not found", func(t *testing.T) {
		messages := new(mockMessageRepository)
		messages.On("FindByID", mock.Anything, "chat-1", sentAt).Return(unread(), nil)
		svc := newMessageService(messages, readerChats(), new(mockEventBus))

		_, err := svc.MarkRead(context.Background(), "chat-1", "other-id", sentAt, "shelter-1")

		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("rejects a caller outside the chat", func(t *testing.T) {
		messages := new(mockMessageRepository)
		bus := new(mockEventBus)
		svc := newMessageService(messages, readerChats(), bus)

		_, err := svc.MarkRead(context.Background(), "chat-1", "m1", sentAt, "stranger")

		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
		messages.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
		messages.AssertNotCalled(t, "SetReadStatus", mock.Anything, mock.Anything, mock.Anything)
		bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("rejects missing key fields", func(t *testing.T) {
		svc := newMessageService(new(mockMessageRepository), new(mockChatRepository), new(mockEventBus))

		_, err := svc.MarkRead(context.Background(), "chat-1", "", sentAt, "shelter-1")

		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}
