// Package chat holds the chat thread and message entities.
package chat

import (
	"github.com/google/uuid"

	"pawdopt-backend/pkg/errors"
	"pawdopt-backend/pkg/utils"
)

// Status is the persisted lifecycle state of a chat thread.
//
// The client additionally renders a derived "pending_request" display state
// (request pending, no confirmed chat yet); only active and inactive are ever
// stored.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsValid reports whether s is a persisted chat status.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// Chat is a messaging thread between one adopter and one shelter about one
// dog, created when the shelter approves the adopter's request.
type Chat struct {
	ChatID       string `json:"chatId" dynamodbav:"chat_id"`
	AdopterID    string `json:"adopterId" dynamodbav:"adopter_id"`
	ShelterID    string `json:"shelterId" dynamodbav:"shelter_id"`
	DogID        string `json:"dogId" dynamodbav:"dog_id"`
	DogCreatedAt string `json:"dogCreatedAt" dynamodbav:"dog_created_at"`
	Status       Status `json:"status" dynamodbav:"status"`
	CreatedAt    string `json:"createdAt" dynamodbav:"created_at"`
}

// NewChat creates an active chat for an approved request.
func NewChat(shelterID, adopterID, dogID, dogCreatedAt string) (*Chat, error) {
	if shelterID == "" {
		return nil, errors.NewUnauthorizedError("missing shelter identity")
	}
	if adopterID == "" {
		return nil, errors.NewValidationError("adopterId is required")
	}
	if dogID == "" {
		return nil, errors.NewValidationError("dogId is required")
	}

	return &Chat{
		ChatID:       uuid.New().String(),
		AdopterID:    adopterID,
		ShelterID:    shelterID,
		DogID:        dogID,
		DogCreatedAt: dogCreatedAt,
		Status:       StatusActive,
		CreatedAt:    utils.NowSortableTimestamp(),
	}, nil
}

// IsActive reports whether messages may still be sent into the chat.
func (c *Chat) IsActive() bool {
	return c.Status == StatusActive
}

// Deactivate marks the chat inactive. The transition is irreversible;
// deactivating an already-inactive chat is a no-op, which is what makes the
// dog-adopted fan-out safely retryable.
func (c *Chat) Deactivate() {
	c.Status = StatusInactive
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Chat) HasParticipant(userID string) bool {
	return c.AdopterID == userID || c.ShelterID == userID
}
