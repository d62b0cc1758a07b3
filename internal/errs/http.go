package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "cpfs", "error": "must not exceed 100" }
type FieldError struct {
	// Field is the field name/key the error relates to (e.g. "cpf").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRetry tells the client it may retry later.
	// Usually "Value" holds the number of seconds to wait.
	ActionTypeRetry ActionType = "retry"
)

// Action describes an optional "what the client should do next" instruction.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the custom error type for API responses.
//
// It implements error and is serialized directly to JSON.
// Fields:
//   - Code: machine-friendly error code (e.g. "INVALID_CPF").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: tells clients the message is safe to show as-is.
//   - Errors: list of per-field errors (validation).
//   - Action: client instruction (optional).
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`

	Action *Action `json:"action"`
}

// Error returns the Message, so logging the error shows what the client saw.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError.
//
// It only checks the type, not Code or Status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
