package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError is the standardized error response envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, &APIError{Code: code, Message: message})
}

// Respond maps a domain error to the HTTP response. Internal errors
// are masked with a generic message so storage internals never reach
// the caller.
func Respond(c *gin.Context, err error) {
	var de *Error
	if !errors.As(err, &de) {
		RespondWithError(c, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
		return
	}

	switch de.Kind {
	case KindValidation:
		RespondWithError(c, http.StatusBadRequest, ErrCodeInvalidInput, de.Message)
	case KindNotFound:
		RespondWithError(c, http.StatusNotFound, ErrCodeNotFound, de.Message)
	case KindConflict:
		RespondWithError(c, http.StatusConflict, ErrCodeConflict, de.Message)
	case KindForbidden:
		RespondWithError(c, http.StatusForbidden, ErrCodeForbidden, de.Message)
	default:
		RespondWithError(c, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
	}
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, ErrCodeInvalidInput, message)
}
