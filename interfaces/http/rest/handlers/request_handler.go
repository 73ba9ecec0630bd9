// Package handlers implements the REST endpoints.
package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"pawdopt-backend/application/services"
	"pawdopt-backend/domain/adoption"
	"pawdopt-backend/pkg/auth"
	"pawdopt-backend/pkg/common"
	apperrors "pawdopt-backend/pkg/errors"
	"pawdopt-backend/pkg/utils"
)

const maxBodyBytes = 64 * 1024

// RequestHandler handles adoption request endpoints
type RequestHandler struct {
	requests *services.RequestService
	errors   *apperrors.ErrorHandler
	logger   *zap.Logger
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requests *services.RequestService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{
		requests: requests,
		errors:   apperrors.NewErrorHandler(logger),
		logger:   logger,
	}
}

// CreateRequestBody represents the request body for filing an adoption request
type CreateRequestBody struct {
	DogID        string `json:"dogId" validate:"required"`
	DogCreatedAt string `json:"dogCreatedAt"`
	ShelterID    string `json:"shelterId" validate:"required"`
}

// UpdateRequestBody represents the request body for a status update
type UpdateRequestBody struct {
	RequestID string `json:"requestId" validate:"required"`
	CreatedAt string `json:"createdAt" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

// ApproveRequestBody represents the request body for approving a request
type ApproveRequestBody struct {
	RequestID    string `json:"requestId" validate:"required"`
	CreatedAt    string `json:"createdAt" validate:"required"`
	AdopterID    string `json:"adopterId" validate:"required"`
	DogID        string `json:"dogId" validate:"required"`
	DogCreatedAt string `json:"dogCreatedAt"`
}

// DeleteRequestBody identifies the request row to remove
type DeleteRequestBody struct {
	RequestID string `json:"requestId" validate:"required"`
	CreatedAt string `json:"createdAt" validate:"required"`
}

// Create handles POST /requests
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}
	if !caller.IsAdopter() {
		h.errors.Handle(w, r, apperrors.NewForbiddenError("only adopters file adoption requests"))
		return
	}

	var body CreateRequestBody
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	request, err := h.requests.Create(r.Context(), caller.UserID, body.DogID, body.DogCreatedAt, body.ShelterID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, request)
}

// List handles GET /requests
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}

	requests, err := h.requests.List(r.Context(), caller.UserID, caller.Role)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

// UpdateStatus handles PATCH /requests
func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body UpdateRequestBody
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	if err := h.requests.UpdateStatus(r.Context(), body.RequestID, body.CreatedAt, adoption.Status(body.Status)); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"requestId": body.RequestID,
		"status":    body.Status,
	})
}

// Approve handles POST /requests/approve. Only the shelter that owns the dog
// approves; the chat it opens comes back in the response.
func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}
	if !caller.IsShelter() {
		h.errors.Handle(w, r, apperrors.NewForbiddenError("only shelters approve adoption requests"))
		return
	}

	var body ApproveRequestBody
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	chatID, err := h.requests.Approve(r.Context(), body.RequestID, body.CreatedAt, caller.UserID, body.AdopterID, body.DogID, body.DogCreatedAt)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"requestId": body.RequestID,
		"chatId":    chatID,
		"status":    string(adoption.StatusApproved),
	})
}

// Delete handles DELETE /requests. The key travels in the JSON body, the
// same way PATCH carries it.
func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var body DeleteRequestBody
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	if err := h.requests.Delete(r.Context(), body.RequestID, body.CreatedAt); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"requestId": body.RequestID})
}
