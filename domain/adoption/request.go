// Package adoption holds the adoption request entity and its status machine.
package adoption

import (
	"github.com/google/uuid"

	"pawdopt-backend/pkg/errors"
	"pawdopt-backend/pkg/utils"
)

// Status is the lifecycle state of an adoption request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// IsValid reports whether s is a known request status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// IsTerminal reports whether s ends the negotiation.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusWithdrawn
}

// CanTransitionTo reports whether the client flow offers the move from s to
// next. The store performs an unconditional overwrite; this check is advisory
// and exists so callers can decide which actions to present.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.IsValid() {
		return false
	}
	switch s {
	case StatusPending:
		return next != StatusPending
	default:
		// Terminal states only move through explicit shelter/adopter action,
		// which the backend accepts as a last-writer-wins overwrite.
		return next != s
	}
}

// Request is one adopter's application for one dog. Requests are keyed by
// (RequestID, CreatedAt); CreatedAt never changes after creation.
type Request struct {
	RequestID    string `json:"requestId" dynamodbav:"request_id"`
	CreatedAt    string `json:"createdAt" dynamodbav:"created_at"`
	AdopterID    string `json:"adopterId" dynamodbav:"adopter_id"`
	ShelterID    string `json:"shelterId" dynamodbav:"shelter_id"`
	DogID        string `json:"dogId" dynamodbav:"dog_id"`
	DogCreatedAt string `json:"dogCreatedAt" dynamodbav:"dog_created_at"`
	Status       Status `json:"status" dynamodbav:"status"`
	ChatID       string `json:"chatId,omitempty" dynamodbav:"chat_id,omitempty"`
}

// NewRequest creates a pending request for a dog. Dogs are identified by the
// composite (DogID, DogCreatedAt) because dog ids alone are not unique across
// re-listings.
//
// No uniqueness check is made against existing pending requests for the same
// (adopter, dog) pair; re-applying after a withdrawal is allowed.
func NewRequest(adopterID, dogID, dogCreatedAt, shelterID string) (*Request, error) {
	if adopterID == "" {
		return nil, errors.NewUnauthorizedError("missing adopter identity")
	}
	if dogID == "" {
		return nil, errors.NewValidationError("dogId is required")
	}
	if shelterID == "" {
		return nil, errors.NewValidationError("shelterId is required")
	}

	return &Request{
		RequestID:    uuid.New().String(),
		CreatedAt:    utils.NowSortableTimestamp(),
		AdopterID:    adopterID,
		ShelterID:    shelterID,
		DogID:        dogID,
		DogCreatedAt: dogCreatedAt,
		Status:       StatusPending,
	}, nil
}

// IsPending reports whether the request is still awaiting a shelter decision.
func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// AttachChat records the chat created for an approved request.
func (r *Request) AttachChat(chatID string) {
	r.ChatID = chatID
}
