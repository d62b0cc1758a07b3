package errs

import (
	"net/http"
	"strconv"
)

const (
	// CodeInvalidCPF is returned when a CPF fails validation.
	CodeInvalidCPF = "INVALID_CPF"

	// MessageInvalidCPF is the client message for CodeInvalidCPF.
	MessageInvalidCPF = "Invalid CPF."
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// Optional payload:
//   - code: custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: field errors (validation errors)
//   - action: client instruction
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	// http.StatusText(400) => "Bad Request" => "BAD_REQUEST"
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))

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

// NewInvalidCPFError creates the 400 returned for a CPF that fails validation.
func NewInvalidCPFError() *HTTPError {
	code := CodeInvalidCPF
	return NewBadRequestError(MessageInvalidCPF, true, &code, nil, nil)
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))

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

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
//
// retryAfter is the suggested wait in seconds; zero omits the retry action.
func NewTooManyRequestsError(message string, retryAfter int) *HTTPError {
	var action *Action
	if retryAfter > 0 {
		action = &Action{
			Type:    ActionTypeRetry,
			Message: "Retry after the given number of seconds",
			Value:   strconv.Itoa(retryAfter),
		}
	}

	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
		Action:   action,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the real internal error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}
