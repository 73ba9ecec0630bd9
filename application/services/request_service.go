package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pawdopt-backend/application/ports"
	"pawdopt-backend/domain/adoption"
	"pawdopt-backend/domain/events"
	"pawdopt-backend/pkg/auth"
	"pawdopt-backend/pkg/errors"
)

// RequestService mediates the adopter-shelter negotiation for a single dog.
type RequestService struct {
	requests ports.RequestRepository
	chats    *ChatService
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewRequestService creates a request service
func NewRequestService(
	requests ports.RequestRepository,
	chats *ChatService,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		chats:    chats,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Create records a new pending request from an adopter.
func (s *RequestService) Create(ctx context.Context, adopterID, dogID, dogCreatedAt, shelterID string) (*adoption.Request, error) {
	request, err := adoption.NewRequest(adopterID, dogID, dogCreatedAt, shelterID)
	if err != nil {
		return nil, err
	}

	if err := s.requests.Save(ctx, request); err != nil {
		return nil, errors.Wrap(err, "failed to save request")
	}

	s.logger.Info("Adoption request created",
		zap.String("requestID", request.RequestID),
		zap.String("adopterID", adopterID),
		zap.String("dogID", dogID),
	)

	return request, nil
}

// List returns the caller's requests: an adopter sees the requests they
// filed, a shelter sees the requests filed against its dogs. An empty result
// is returned as an empty slice, never an error.
func (s *RequestService) List(ctx context.Context, callerID, role string) ([]*adoption.Request, error) {
	if callerID == "" {
		return nil, errors.NewUnauthorizedError("missing caller identity")
	}

	switch role {
	case auth.RoleAdopter:
		return s.requests.FindByAdopter(ctx, callerID)
	case auth.RoleShelter:
		return s.requests.FindByShelter(ctx, callerID)
	default:
		return nil, errors.NewForbiddenError("role not recognized")
	}
}

// UpdateStatus overwrites the request status. No prior-state check is made:
// the client flow decides which transitions it offers, and concurrent updates
// resolve last-writer-wins.
func (s *RequestService) UpdateStatus(ctx context.Context, requestID, createdAt string, status adoption.Status) error {
	if requestID == "" || createdAt == "" {
		return errors.NewValidationError("requestId and createdAt are required")
	}
	if !status.IsValid() {
		return errors.NewValidationError("status must be one of: pending, approved, rejected, withdrawn")
	}

	if err := s.requests.UpdateStatus(ctx, requestID, createdAt, status); err != nil {
		return errors.Wrap(err, "failed to update request status")
	}

	s.logger.Info("Request status updated",
		zap.String("requestID", requestID),
		zap.String("status", string(status)),
	)

	return nil
}

// Approve marks the request approved, creates the chat, and writes the chat
// id back onto the request. The three writes are not atomic: a fault after
// the first leaves an approved request without a chat id, and re-invoking
// Approve is the recovery path (a duplicate chat for the same pairing is
// tolerated over losing the approval).
func (s *RequestService) Approve(ctx context.Context, requestID, createdAt, shelterID, adopterID, dogID, dogCreatedAt string) (string, error) {
	if requestID == "" || createdAt == "" {
		return "", errors.NewValidationError("requestId and createdAt are required")
	}

	if err := s.requests.UpdateStatus(ctx, requestID, createdAt, adoption.StatusApproved); err != nil {
		return "", errors.Wrap(err, "failed to approve request")
	}

	created, err := s.chats.Create(ctx, shelterID, adopterID, dogID, dogCreatedAt)
	if err != nil {
		return "", errors.Wrap(err, "request approved but chat creation failed")
	}

	if err := s.requests.AttachChat(ctx, requestID, createdAt, created.ChatID); err != nil {
		// The chat exists; surface the failure so the caller retries the
		// back-fill rather than recreating the chat.
		return created.ChatID, errors.Wrap(err, "chat created but request back-fill failed")
	}

	event := events.NewRequestApproved(requestID, created.ChatID, adopterID, dogID, time.Now())
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish approval event",
			zap.String("requestID", requestID),
			zap.Error(err),
		)
	}

	s.logger.Info("Request approved",
		zap.String("requestID", requestID),
		zap.String("chatID", created.ChatID),
	)

	return created.ChatID, nil
}

// Delete permanently removes the request row.
func (s *RequestService) Delete(ctx context.Context, requestID, createdAt string) error {
	if requestID == "" || createdAt == "" {
		return errors.NewValidationError("requestId and createdAt are required")
	}

	if err := s.requests.Delete(ctx, requestID, createdAt); err != nil {
		return errors.Wrap(err, "failed to delete request")
	}

	s.logger.Info("Request deleted", zap.String("requestID", requestID))
	return nil
}
