package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pawdopt-backend/domain/adoption"
	apperrors "pawdopt-backend/pkg/errors"
)

func newRequestService(requests *mockRequestRepository, chats *mockChatRepository, bus *mockEventBus) *RequestService {
	chatSvc := NewChatService(chats, bus, nil, zap.NewNop())
	return NewRequestService(requests, chatSvc, bus, zap.NewNop())
}

func TestRequestService_Create(t *testing.T) {
	t.Run("creates pending request", func(t *testing.T) {
		// Arrange
		requests := new(mockRequestRepository)
		requests.On("Save", mock.Anything, mock.AnythingOfType("*adoption.Request")).Return(nil)
		svc := newRequestService(requests, new(mockChatRepository), new(mockEventBus))

		// Act
		req, err := svc.Create(context.Background(), "adopter-1", "dog-1", "2026-01-01T00:00:00.000000000Z", "shelter-1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, adoption.StatusPending, req.Status)
		assert.Equal(t, "adopter-1", req.AdopterID)
		assert.NotEmpty(t, req.RequestID)
		assert.NotEmpty(t, req.CreatedAt)
		assert.Empty(t, req.ChatID)
		requests.AssertExpectations(t)
	})

	t.Run("duplicate requests for the same dog are allowed", func(t *testing.T) {
		requests := new(mockRequestRepository)
		requests.On("Save", mock.Anything, mock.Anything).Return(nil).Twice()
		svc := newRequestService(requests, new(mockChatRepository), new(mockEventBus))

		first, err := svc.Create(context.Background(), "adopter-1", "dog-1", "", "shelter-1")
		require.NoError(t, err)
		second, err := svc.Create(context.Background(), "adopter-1", "dog-1", "", "shelter-1")
		require.NoError(t, err)

		assert.NotEqual(t, first.RequestID, second.RequestID)
		requests.AssertExpectations(t)
	})

	t.Run("rejects missing adopter identity", func(t *testing.T) {
		svc := newRequestService(new(mockRequestRepository), new(mockChatRepository), new(mockEventBus))

		_, err := svc.Create(context.Background(), "", "dog-1", "", "shelter-1")

		require.Error(t, err)
		assert.True(t, apperrors.IsUnauthorized(err))
	})
}

func TestRequestService_List(t *testing.T) {
	t.Run("adopter lists own requests", func(t *testing.T) {
		requests := new(mockRequestRepository)
		requests.On("FindByAdopter", mock.Anything, "adopter-1").
			Return([]*adoption.Request{{RequestID: "r1", AdopterID: "adopter-1"}}, nil)
		svc := newRequestService(requests, new(mockChatRepository), new(mockEventBus))

		got, err := svc.List(context.Background(), "adopter-1", "adopter")

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "r1", got[0].RequestID)
		requests.AssertNotCalled(t, "FindByShelter", mock.Anything, mock.Anything)
	})

	t.Run("shelter lists incoming requests", func(t *testing.T) {
		requests := new(mockRequestRepository)
		requests.On("FindByShelter", mock.Anything, "shelter-1").Return([]*adoption.Request{}, nil)
		svc := newRequestService(requests, new(mockChatRepository), new(mockEventBus))

		got, err := svc.List(context.Background(), "shelter-1", "shelter")

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		svc := newRequestService(new(mockRequestRepository), new(mockChatRepository), new(mockEventBus))

		_, err := svc.List(context.Background(), "", "adopter")

		require.Error(t, err)
		assert.True(t, apperrors.IsUnauthorized(err))
	})
}

func TestRequestService_UpdateStatus(t *testing.T) {
	t.Run("overwrites status", func(t *testing.T) {
		requests := new(mockRequestRepository)
		requests.On("UpdateStatus", mock.Anything, "r1", "2026-01-01T00:00:00.000000000Z", adoption.StatusRejected).Return(nil)
		svc := newRequestService(requests, new(mockChatRepository), new(mockEventBus))

		err := svc.UpdateStatus(context.Background(), "r1", "2026-01-01T00:00:00.000000000Z", adoption.StatusRejected)

		require.NoError(t, err)
		requests.AssertExpectations(t)
	})

	t.Run("rejects unknown status value", func(t *testing.T) {
		svc := newRequestService(new(mockRequestRepository), new(mockChatRepository), new(mockEventBus))

		err := svc.UpdateStatus(context.Background(), "r1", "2026-01-01T00:00:00.000000000Z", adoption.Status("archived"))

		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects missing key", func(t *testing.T) {
		svc := newRequestService(new(mockRequestRepository), new(mockChatRepository), new(mockEventBus))

		err := svc.UpdateStatus(context.Background(), "", "", adoption.StatusApproved)

		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestRequestService_Approve(t *testing.T) {
	const createdAt = "2026-01-01T00:00:00.000000000Z"

	t.Run("approves, creates chat, attaches chat id", func(t *testing.T) {
		// Arrange
		requests := new(mockRequestRepository)
		chats := new(mockChatRepository)
		bus := new(mockEventBus)
		requests.On("UpdateStatus", mock.Anything, "r1", createdAt, adoption.StatusApproved).Return(nil)
		chats.On("Save", mock.Anything, mock.AnythingOfType("*chat.Chat")).Return(nil)
		requests.On("AttachChat", mock.Anything, "r1", createdAt, mock.AnythingOfType("string")).Return(nil)
		bus.On("Publish", mock.Anything, mock.Anything).Return(nil)
		svc := newRequestService(requests, chats, bus)

		// Act
		chatID, err := svc.Approve(context.Background(), "r1", createdAt, "shelter-1", "adopter-1", "dog-1", "")

		// Assert
		require.NoError(t, err)
		assert.NotEmpty(t, chatID)
		requests.AssertExpectations(t)
		chats.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("status write failure stops the flow", func(t *testing.T) {
		requests := new(mockRequestRepository)
		chats := new(mockChatRepository)
		requests.On("UpdateStatus", mock.Anything, "r1", createdAt, adoption.StatusApproved).Return(errors.New("conditional check"))
		svc := newRequestService(requests, chats, new(mockEventBus))

		chatID, err := svc.Approve(context.Background(), "r1", createdAt, "shelter-1", "adopter-1", "dog-1", "")

		require.Error(t, err)
		assert.Empty(t, chatID)
		chats.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("back-fill failure still returns the chat id", func(t *testing.T) {
		// The chat exists at that point; the caller retries the back-fill
		// instead of creating a second chat.
		requests := new(mockRequestRepository)
		chats := new(mockChatRepository)
		requests.On("UpdateStatus", mock.Anything, "r1", createdAt, adoption.StatusApproved).Return(nil)
		chats.On("Save", mock.Anything, mock.Anything).Return(nil)
		requests.On("AttachChat", mock.Anything, "r1", createdAt, mock.Anything).Return(errors.New("throttled"))
		svc := newRequestService(requests, chats, new(mockEventBus))

		chatID, err := svc.Approve(context.Background(), "r1", createdAt, "shelter-1", "adopter-1", "dog-1", "")

		require.Error(t, err)
		assert.NotEmpty(t, chatID)
	})
}

func TestRequestService_Delete(t *testing.T) {
	t.Run("deletes by composite key", func(t *testing.T) {
		requests := new(mockRequestRepository)
		requests.On("Delete", mock.Anything, "r1", "2026-01-01T00:00:00.000000000Z").Return(nil)
		svc := newRequestService(requests, new(mockChatRepository), new(mockEventBus))

		err := svc.Delete(context.Background(), "r1", "2026-01-01T00:00:00.000000000Z")

		require.NoError(t, err)
		requests.AssertExpectations(t)
	})

	t.Run("rejects missing key", func(t *testing.T) {
		svc := newRequestService(new(mockRequestRepository), new(mockChatRepository), new(mockEventBus))

		err := svc.Delete(context.Background(), "r1", "")

		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}
