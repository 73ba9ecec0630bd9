package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"pawdopt-backend/application/services"
	"pawdopt-backend/pkg/auth"
	"pawdopt-backend/pkg/common"
	apperrors "pawdopt-backend/pkg/errors"
	"pawdopt-backend/pkg/utils"
)

// MessageHandler handles chat message endpoints
type MessageHandler struct {
	messages *services.MessageService
	chats    *services.ChatService
	errors   *apperrors.ErrorHandler
	logger   *zap.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages *services.MessageService, chats *services.ChatService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		chats:    chats,
		errors:   apperrors.NewErrorHandler(logger),
		logger:   logger,
	}
}

// SendMessageBody represents the request body for sending a message
type SendMessageBody struct {
	ChatID string `json:"chatId" validate:"required"`
	Text   string `json:"text" validate:"required,max=4000"`
}

// MarkReadBody identifies one message for a read receipt
type MarkReadBody struct {
	ChatID    string `json:"chatId" validate:"required"`
	MessageID string `json:"messageId" validate:"required"`
	SentAt    string `json:"sentAt" validate:"required"`
}

// Send handles POST /messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}

	var body SendMessageBody
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	m, err := h.messages.Send(r.Context(), body.ChatID, caller.UserID, body.Text)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, m)
}

// History handles GET /messages. Pages ascending; the response carries an
// opaque nextToken when more pages remain.
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}

	chatID := r.URL.Query().Get("chatId")
	if chatID == "" {
		h.errors.Handle(w, r, apperrors.NewValidationError("chatId is required"))
		return
	}

	c, err := h.chats.Get(r.Context(), chatID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if !c.HasParticipant(caller.UserID) {
		h.errors.Handle(w, r, apperrors.NewForbiddenError("caller is not a participant of this chat"))
		return
	}

	var limit int32
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			h.errors.Handle(w, r, apperrors.NewValidationError("limit must be an integer"))
			return
		}
		limit = int32(parsed)
	}

	page, err := h.messages.FetchHistory(r.Context(), chatID, limit, r.URL.Query().Get("nextToken"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"messages":  page.Items,
		"nextToken": page.NextToken,
	})
}

// MarkRead handles PATCH /messages
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}

	var body MarkReadBody
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	m, err := h.messages.MarkRead(r.Context(), body.ChatID, body.MessageID, body.SentAt, caller.UserID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, m)
}
