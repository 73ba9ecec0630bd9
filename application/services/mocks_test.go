package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pawdopt-backend/application/ports"
	"pawdopt-backend/domain/adoption"
	"pawdopt-backend/domain/chat"
	"pawdopt-backend/domain/events"
)

type mockRequestRepository struct {
	mock.Mock
}

func (m *mockRequestRepository) Save(ctx context.Context, request *adoption.Request) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *mockRequestRepository) FindByAdopter(ctx context.Context, adopterID string) ([]*adoption.Request, error) {
	args := m.Called(ctx, adopterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*adoption.Request), args.Error(1)
}

func (m *mockRequestRepository) FindByShelter(ctx context.Context, shelterID string) ([]*adoption.Request, error) {
	args := m.Called(ctx, shelterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*adoption.Request), args.Error(1)
}

func (m *mockRequestRepository) UpdateStatus(ctx context.Context, requestID, createdAt string, status adoption.Status) error {
	args := m.Called(ctx, requestID, createdAt, status)
	return args.Error(0)
}

func (m *mockRequestRepository) AttachChat(ctx context.Context, requestID, createdAt, chatID string) error {
	args := m.Called(ctx, requestID, createdAt, chatID)
	return args.Error(0)
}

func (m *mockRequestRepository) Delete(ctx context.Context, requestID, createdAt string) error {
	args := m.Called(ctx, requestID, createdAt)
	return args.Error(0)
}

type mockChatRepository struct {
	mock.Mock
}

func (m *mockChatRepository) Save(ctx context.Context, c *chat.Chat) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockChatRepository) FindByID(ctx context.Context, chatID string) (*chat.Chat, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Chat), args.Error(1)
}

func (m *mockChatRepository) FindByParticipant(ctx context.Context, userID string, asShelter bool) ([]*chat.Chat, error) {
	args := m.Called(ctx, userID, asShelter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chat.Chat), args.Error(1)
}

func (m *mockChatRepository) FindCompetitors(ctx context.Context, dogID, winningAdopterID string) ([]*chat.Chat, error) {
	args := m.Called(ctx, dogID, winningAdopterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chat.Chat), args.Error(1)
}

func (m *mockChatRepository) UpdateStatus(ctx context.Context, chatID string, status chat.Status) error {
	args := m.Called(ctx, chatID, status)
	return args.Error(0)
}

type mockMessageRepository struct {
	mock.Mock
}

func (m *mockMessageRepository) Save(ctx context.Context, msg *chat.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockMessageRepository) FindByID(ctx context.Context, chatID, sentAt string) (*chat.Message, error) {
	args := m.Called(ctx, chatID, sentAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Message), args.Error(1)
}

func (m *mockMessageRepository) ListByChat(ctx context.Context, chatID string, limit int32, nextToken string) (*ports.MessagePage, error) {
	args := m.Called(ctx, chatID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.MessagePage), args.Error(1)
}

func (m *mockMessageRepository) SetReadStatus(ctx context.Context, chatID, sentAt string) error {
	args := m.Called(ctx, chatID, sentAt)
	return args.Error(0)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventBus) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}
