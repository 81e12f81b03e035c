package errs

import (
	"net/http"
)

func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewBadRequestError creates a 400 HTTPError.
//
// code overrides the default "BAD_REQUEST" when non-nil. errors carries
// per-field validation failures.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := statusCode(http.StatusBadRequest)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusNotFound)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewTooManyRequestsError creates a 429 HTTPError. retryAfter, when set, is
// surfaced to the client as a retry action.
func NewTooManyRequestsError(message string, retryAfter string) *HTTPError {
	var action *Action
	if retryAfter != "" {
		action = &Action{
			Type:    ActionTypeRetry,
			Message: "Retry after the rate limit window resets",
			Value:   retryAfter,
		}
	}

	return &HTTPError{
		Code:     statusCode(http.StatusTooManyRequests),
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
		Action:   action,
	}
}

// NewServiceUnavailableError creates a 503 HTTPError.
func NewServiceUnavailableError(message string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusServiceUnavailable),
		Message:  message,
		Status:   http.StatusServiceUnavailable,
		Override: false,
	}
}

// NewInternalServerError creates a generic 500 HTTPError. The message is the
// status text only; the underlying cause is logged, never returned.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusInternalServerError),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// ValidationError wraps a plain validation failure into a 400.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}

// NewFieldValidationError is a 400 for one or more invalid inputs.
func NewFieldValidationError(fieldErrors ...FieldError) *HTTPError {
	return NewBadRequestError("Validation failed", true, nil, fieldErrors, nil)
}
