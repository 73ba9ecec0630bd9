package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"pawdopt-backend/pkg/common"
)

// ErrorResponse represents the API error response format
type ErrorResponse struct {
	Error     bool                   `json:"error"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// ErrorHandler converts errors at the HTTP boundary into JSON responses.
// Upstream failures keep their detail server-side; callers see a generic message.
type ErrorHandler struct {
	logger *zap.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	requestID := common.ExtractRequestID(r)

	var status int
	var response ErrorResponse

	if appErr := GetAppError(err); appErr != nil {
		status = appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}

		message := appErr.Message
		if status >= http.StatusInternalServerError {
			// Store and identity-provider failures are logged in full but
			// surfaced generically.
			message = "Something went wrong, please try again"
		}

		response = ErrorResponse{
			Error:     true,
			Type:      string(appErr.Type),
			Message:   message,
			Code:      appErr.Code,
			Details:   appErr.Details,
			RequestID: requestID,
		}

		h.logger.Error("Request failed",
			zap.String("type", string(appErr.Type)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID),
			zap.Int("status", status),
			zap.Error(err),
		)
	} else {
		status = http.StatusInternalServerError
		response = ErrorResponse{
			Error:     true,
			Type:      string(ErrorTypeInternal),
			Message:   "Something went wrong, please try again",
			RequestID: requestID,
		}

		h.logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
