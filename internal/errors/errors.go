package errors

import (
	"errors"
	"net/http"
)

// Sentinel errors for the marketplace domain. Handlers map these to HTTP
// responses through MapErrorToHTTP; services never build HTTP responses
// themselves.
var (
	// ErrUnauthorized is returned when the caller is not authenticated at all.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTokenMissing is returned when no bearer token accompanies the request.
	ErrTokenMissing = errors.New("authorization token is missing")
	// ErrTokenExpired is returned when the token's validity window has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid is returned when the token is malformed or tampered.
	ErrTokenInvalid = errors.New("token is invalid")

	// ErrForbidden is returned when an authenticated caller lacks role or
	// ownership for the operation. The specific rule that denied is never
	// exposed.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned on login failure. The same error is
	// used for unknown identifier and wrong password so callers cannot probe
	// which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidResetToken is returned when a password reset token does not
	// match, was already consumed, or has expired.
	ErrInvalidResetToken = errors.New("reset token is invalid or expired")

	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrFarmerNotFound is returned when a farmer profile does not exist.
	ErrFarmerNotFound = errors.New("farmer not found")
	// ErrProductNotFound is returned when a product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrInquiryNotFound is returned when an inquiry does not exist.
	ErrInquiryNotFound = errors.New("inquiry not found")

	// ErrUsernameTaken is returned when registering a duplicate username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned when registering a duplicate email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrProfileExists is returned when a user who already owns a farmer
	// profile attempts to create a second one.
	ErrProfileExists = errors.New("farmer profile already exists for this user")

	// ErrProductFarmerMismatch is returned when an inquiry references a
	// product that does not belong to the target farmer.
	ErrProductFarmerMismatch = errors.New("product does not belong to this farmer")
	// ErrInvalidInquiryStatus is returned on an unknown inquiry status value.
	ErrInvalidInquiryStatus = errors.New("invalid inquiry status")
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
	case errors.Is(err, ErrTokenMissing),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrFarmerNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrInquiryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrUsernameTaken),
		errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrProfileExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, ErrInvalidResetToken),
		errors.Is(err, ErrProductFarmerMismatch),
		errors.Is(err, ErrInvalidInquiryStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "BAD_REQUEST")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
