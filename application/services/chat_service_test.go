package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pawdopt-backend/domain/chat"
	apperrors "pawdopt-backend/pkg/errors"
)

func newChatService(chats *mockChatRepository, bus *mockEventBus) *ChatService {
	return NewChatService(chats, bus, nil, zap.NewNop())
}

func TestChatService_Create(t *testing.T) {
	t.Run("creates active chat", func(t *testing.T) {
		// Arrange
		chats := new(mockChatRepository)
		bus := new(mockEventBus)
		chats.On("Save", mock.Anything, mock.AnythingOfType("*chat.Chat")).Return(nil)
		svc := newChatService(chats, bus)

		// Act
		c, err := svc.Create(context.Background(), "shelter-1", "adopter-1", "dog-1", "2026-01-01T00:00:00.000000000Z")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, chat.StatusActive, c.Status)
		assert.Equal(t, "adopter-1", c.AdopterID)
		assert.Equal(t, "shelter-1", c.ShelterID)
		assert.NotEmpty(t, c.ChatID)
		assert.NotEmpty(t, c.CreatedAt)
		chats.AssertExpectations(t)
	})

	t.Run("rejects missing shelter identity", func(t *testing.T) {
		svc := newChatService(new(mockChatRepository), new(mockEventBus))

		_, err := svc.Create(context.Background(), "", "adopter-1", "dog-1", "")

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	})
}

func TestChatService_DeactivateCompeting(t *testing.T) {
	competitors := []*chat.Chat{
		{ChatID: "chat-a", AdopterID: "loser-1", DogID: "dog-1", Status: chat.StatusActive},
		{ChatID: "chat-b", AdopterID: "loser-2", DogID: "dog-1", Status: chat.StatusActive},
	}

	t.Run("deactivates every competing chat", func(t *testing.T) {
		// Arrange
		chats := new(mockChatRepository)
		bus := new(mockEventBus)
		chats.On("FindCompetitors", mock.Anything, "dog-1", "winner").Return(competitors, nil)
		chats.On("UpdateStatus", mock.Anything, "chat-a", chat.StatusInactive).Return(nil)
		chats.On("UpdateStatus", mock.Anything, "chat-b", chat.StatusInactive).Return(nil)
		bus.On("PublishBatch", mock.Anything, mock.Anything).Return(nil)
		svc := newChatService(chats, bus)

		// Act
		updated, err := svc.DeactivateCompeting(context.Background(), "winner", "dog-1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"chat-a", "chat-b"}, updated)
		chats.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("never touches the winner's chat", func(t *testing.T) {
		// The competitor scan already excludes the winner; the service must
		// only update what the scan returned.
		chats := new(mockChatRepository)
		bus := new(mockEventBus)
		chats.On("FindCompetitors", mock.Anything, "dog-1", "winner").Return([]*chat.Chat{competitors[0]}, nil)
		chats.On("UpdateStatus", mock.Anything, "chat-a", chat.StatusInactive).Return(nil)
		bus.On("PublishBatch", mock.Anything, mock.Anything).Return(nil)
		svc := newChatService(chats, bus)

		updated, err := svc.DeactivateCompeting(context.Background(), "winner", "dog-1")

		require.NoError(t, err)
		assert.Equal(t, []string{"chat-a"}, updated)
		chats.AssertNotCalled(t, "UpdateStatus", mock.Anything, "chat-winner", mock.Anything)
	})

	t.Run("continues past per-chat failures", func(t *testing.T) {
		chats := new(mockChatRepository)
		bus := new(mockEventBus)
		chats.On("FindCompetitors", mock.Anything, "dog-1", "winner").Return(competitors, nil)
		chats.On("UpdateStatus", mock.Anything, "chat-a", chat.StatusInactive).Return(errors.New("throttled"))
		chats.On("UpdateStatus", mock.Anything, "chat-b", chat.StatusInactive).Return(nil)
		bus.On("PublishBatch", mock.Anything, mock.Anything).Return(nil)
		svc := newChatService(chats, bus)

		updated, err := svc.DeactivateCompeting(context.Background(), "winner", "dog-1")

		require.NoError(t, err)
		assert.Equal(t, []string{"chat-b"}, updated)
		chats.AssertExpectations(t)
	})

	t.Run("empty scan is a successful no-op", func(t *testing.T) {
		chats := new(mockChatRepository)
		bus := new(mockEventBus)
		chats.On("FindCompetitors", mock.Anything, "dog-1", "winner").Return([]*chat.Chat{}, nil)
		svc := newChatService(chats, bus)

		updated, err := svc.DeactivateCompeting(context.Background(), "winner", "dog-1")

		require.NoError(t, err)
		assert.Empty(t, updated)
		bus.AssertNotCalled(t, "PublishBatch", mock.Anything, mock.Anything)
	})

	t.Run("rejects missing arguments", func(t *testing.T) {
		svc := newChatService(new(mockChatRepository), new(mockEventBus))

		_, err := svc.DeactivateCompeting(context.Background(), "", "dog-1")

		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("event publish failure does not fail the fan-out", func(t *testing.T) {
		chats := new(mockChatRepository)
		bus := new(mockEventBus)
		chats.On("FindCompetitors", mock.Anything, "dog-1", "winner").Return([]*chat.Chat{competitors[0]}, nil)
		chats.On("UpdateStatus", mock.Anything, "chat-a", chat.StatusInactive).Return(nil)
		bus.On("PublishBatch", mock.Anything, mock.Anything).Return(errors.New("bus down"))
		svc := newChatService(chats, bus)

		updated, err := svc.DeactivateCompeting(context.Background(), "winner", "dog-1")

		require.NoError(t, err)
		assert.Equal(t, []string{"chat-a"}, updated)
	})
}

func TestChatService_List(t *testing.T) {
	t.Run("adopter sees own chats", func(t *testing.T) {
		chats := new(mockChatRepository)
		chats.On("FindByParticipant", mock.Anything, "adopter-1", false).Return([]*chat.Chat{{ChatID: "c1"}}, nil)
		svc := newChatService(chats, new(mockEventBus))

		got, err := svc.List(context.Background(), "adopter-1", "adopter")

		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("shelter sees own chats", func(t *testing.T) {
		chats := new(mockChatRepository)
		chats.On("FindByParticipant", mock.Anything, "shelter-1", true).Return([]*chat.Chat{}, nil)
		svc := newChatService(chats, new(mockEventBus))

		got, err := svc.List(context.Background(), "shelter-1", "shelter")

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown role is forbidden", func(t *testing.T) {
		svc := newChatService(new(mockChatRepository), new(mockEventBus))

		_, err := svc.List(context.Background(), "user-1", "admin")

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	})
}
