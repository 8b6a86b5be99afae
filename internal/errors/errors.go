package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned for unknown email or bad password.
	// The two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when registering an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUnauthorized is returned for missing or malformed access tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoRefreshToken is returned when the refresh cookie is absent.
	ErrNoRefreshToken = errors.New("no refresh token provided")
	// ErrInvalidRefreshToken is returned on bad signature or expiry.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrTokenReuse is returned when a well-signed refresh token no longer
	// matches the stored hash. The stored hash is cleared, forcing re-login.
	ErrTokenReuse = errors.New("refresh token reuse detected")
	// ErrTaskNotFound is returned when a task is absent or not owned by the caller.
	ErrTaskNotFound = errors.New("task not found")
	// ErrUserNotFound is returned when a user row disappears between read and write.
	ErrUserNotFound = errors.New("user not found")
	// ErrTagNotFound is returned when a tag is absent.
	ErrTagNotFound = errors.New("tag not found")
	// ErrValidation is returned for semantically invalid input.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = errors.New("forbidden")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrNoRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "NO_REFRESH_TOKEN")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusForbidden, err.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrTokenReuse):
		return NewHTTPError(http.StatusForbidden, err.Error(), "TOKEN_REUSE_DETECTED")
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrTagNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TAG_NOT_FOUND")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
