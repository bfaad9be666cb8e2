// internal/api/response_helpers.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/tuanphong15032005/WebTruyen-sub000/internal/errors"
)

// APIError is the error body returned by all endpoints.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse wraps an APIError with request metadata.
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     *APIError `json:"error"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// ResponseHelper renders error responses uniformly. Successful draft and
// chapter responses use their resource shapes directly so editor clients can
// parse them without unwrapping an envelope.
type ResponseHelper struct{}

// NewResponseHelper creates a response helper.
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

// Error writes an error body with the given status.
func (rh *ResponseHelper) Error(c *gin.Context, statusCode int, errorCode, message string, fields map[string]string) {
	c.JSON(statusCode, &ErrorResponse{
		Success: false,
		Error: &APIError{
			Code:    errorCode,
			Message: message,
			Fields:  fields,
		},
		Timestamp: time.Now(),
		RequestID: c.GetString("request_id"),
	})
}

// BadRequest writes a 400 error.
func (rh *ResponseHelper) BadRequest(c *gin.Context, message string) {
	rh.Error(c, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

// Unauthorized writes a 401 error.
func (rh *ResponseHelper) Unauthorized(c *gin.Context, message string) {
	rh.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

// FromAppError maps a service error onto an HTTP response.
func (rh *ResponseHelper) FromAppError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		rh.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred", nil)
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		rh.Error(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", appErr.Message, appErr.Fields)
	case apperrors.ErrorTypeNotFound:
		rh.Error(c, http.StatusNotFound, "NOT_FOUND", appErr.Message, nil)
	case apperrors.ErrorTypeUnauthorized:
		rh.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", appErr.Message, nil)
	default:
		rh.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred", nil)
	}
}
