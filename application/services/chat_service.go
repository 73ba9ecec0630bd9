package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pawdopt-backend/application/ports"
	"pawdopt-backend/domain/chat"
	"pawdopt-backend/domain/events"
	"pawdopt-backend/pkg/auth"
	"pawdopt-backend/pkg/errors"
	"pawdopt-backend/pkg/observability"
)

// ChatService manages chat threads and the dog-adopted fan-out.
type ChatService struct {
	chats    ports.ChatRepository
	eventBus ports.EventBus
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewChatService creates a chat service
func NewChatService(
	chats ports.ChatRepository,
	eventBus ports.EventBus,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		chats:    chats,
		eventBus: eventBus,
		metrics:  metrics,
		logger:   logger,
	}
}

// Create opens an active chat between a shelter and an adopter about a dog.
// Only shelters open chats; they do so when approving a request.
func (s *ChatService) Create(ctx context.Context, shelterID, adopterID, dogID, dogCreatedAt string) (*chat.Chat, error) {
	c, err := chat.NewChat(shelterID, adopterID, dogID, dogCreatedAt)
	if err != nil {
		return nil, err
	}

	if err := s.chats.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "failed to save chat")
	}

	s.logger.Info("Chat created",
		zap.String("chatID", c.ChatID),
		zap.String("adopterID", adopterID),
		zap.String("dogID", dogID),
	)

	return c, nil
}

// Get returns one chat by id.
func (s *ChatService) Get(ctx context.Context, chatID string) (*chat.Chat, error) {
	if chatID == "" {
		return nil, errors.NewValidationError("chatId is required")
	}
	return s.chats.FindByID(ctx, chatID)
}

// List returns the chats the caller participates in. Empty results come back
// as an empty slice.
func (s *ChatService) List(ctx context.Context, callerID, role string) ([]*chat.Chat, error) {
	if callerID == "" {
		return nil, errors.NewUnauthorizedError("missing caller identity")
	}

	switch role {
	case auth.RoleAdopter:
		return s.chats.FindByParticipant(ctx, callerID, false)
	case auth.RoleShelter:
		return s.chats.FindByParticipant(ctx, callerID, true)
	default:
		return nil, errors.NewForbiddenError("role not recognized")
	}
}

// DeactivateCompeting closes every chat about dogID whose adopter is not the
// winning adopter, so losing applicants learn the dog is gone. The winner's
// own chat is never touched.
//
// This is a scan-and-batch-update, not one atomic operation: a mid-loop fault
// leaves some chats still active with no rollback. Setting inactive on an
// already-inactive chat is a no-op, so re-invoking with the same arguments is
// the documented recovery, and per-chat failures do not stop the loop.
func (s *ChatService) DeactivateCompeting(ctx context.Context, winningAdopterID, dogID string) ([]string, error) {
	if winningAdopterID == "" || dogID == "" {
		return nil, errors.NewValidationError("adopter_id and dog_id are required")
	}

	competitors, err := s.chats.FindCompetitors(ctx, dogID, winningAdopterID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan competing chats")
	}

	updated := make([]string, 0, len(competitors))
	deactivationEvents := make([]events.DomainEvent, 0, len(competitors))

	for _, c := range competitors {
		if err := s.chats.UpdateStatus(ctx, c.ChatID, chat.StatusInactive); err != nil {
			s.logger.Error("Failed to deactivate chat, continuing fan-out",
				zap.String("chatID", c.ChatID),
				zap.String("dogID", dogID),
				zap.Error(err),
			)
			continue
		}
		updated = append(updated, c.ChatID)
		deactivationEvents = append(deactivationEvents, events.NewChatDeactivated(c.ChatID, dogID, time.Now()))
	}

	if len(deactivationEvents) > 0 {
		if err := s.eventBus.PublishBatch(ctx, deactivationEvents); err != nil {
			s.logger.Warn("Failed to publish chat deactivation events",
				zap.String("dogID", dogID),
				zap.Error(err),
			)
		}
	}

	if s.metrics != nil {
		s.metrics.Count(ctx, "ChatsDeactivated", float64(len(updated)), map[string]string{
			"Operation": "DogAdoptedFanout",
		})
	}

	s.logger.Info("Dog-adopted fan-out complete",
		zap.String("dogID", dogID),
		zap.String("winningAdopterID", winningAdopterID),
		zap.Int("scanned", len(competitors)),
		zap.Int("deactivated", len(updated)),
	)

	return updated, nil
}
