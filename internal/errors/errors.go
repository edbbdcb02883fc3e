package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskgraph/internal/dto"
	"github.com/yukikurage/taskgraph/internal/services"
)

// Error codes
const (
	// Validation errors
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeInvalidFormat = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeConflict      = "CONFLICT"

	// Graph errors
	ErrCodeCycle    = "CYCLE_DETECTED"
	ErrCodeSelfEdge = "SELF_EDGE"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError represents a standardized API error response
type APIError struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Envelope wraps the error in the response shape shared by the CLI and HTTP API
func (e *APIError) Envelope() dto.ErrorEnvelope {
	return dto.NewErrorEnvelope(e.Code, e.Message, e.Details)
}

// NewAPIError creates a new APIError
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(status int, code, message string, details interface{}) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// FromError maps a service error onto an APIError. Unknown errors become
// INTERNAL_ERROR and keep their message.
func FromError(err error) *APIError {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	var validationErr *services.ValidationError
	if stderrors.As(err, &validationErr) {
		return NewAPIErrorWithDetails(http.StatusBadRequest, ErrCodeInvalidInput, err.Error(),
			gin.H{"field": validationErr.Field})
	}

	switch {
	case stderrors.Is(err, services.ErrNotFound):
		return NewAPIError(http.StatusNotFound, ErrCodeNotFound, err.Error())
	case stderrors.Is(err, services.ErrDuplicateEdge):
		return NewAPIError(http.StatusConflict, ErrCodeAlreadyExists, err.Error())
	case stderrors.Is(err, services.ErrConflict):
		return NewAPIError(http.StatusConflict, ErrCodeConflict, err.Error())
	case stderrors.Is(err, services.ErrCycle):
		return NewAPIError(http.StatusUnprocessableEntity, ErrCodeCycle, err.Error())
	case stderrors.Is(err, services.ErrSelfEdge):
		return NewAPIError(http.StatusUnprocessableEntity, ErrCodeSelfEdge, err.Error())
	case stderrors.Is(err, services.ErrAIServiceNotConfigured):
		return NewAPIError(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, err.Error())
	default:
		return NewAPIError(http.StatusInternalServerError, ErrCodeInternalError, err.Error())
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err *APIError) {
	c.JSON(err.Status, err.Envelope())
}

// Respond maps err and sends it
func Respond(c *gin.Context, err error) {
	RespondWithError(c, FromError(err))
}

// Helper functions for common error responses

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, NewAPIError(http.StatusNotFound, ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeInvalidInput, message))
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, NewAPIErrorWithDetails(http.StatusBadRequest, ErrCodeInvalidFormat, message, details))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, NewAPIError(http.StatusInternalServerError, ErrCodeInternalError, message))
}
