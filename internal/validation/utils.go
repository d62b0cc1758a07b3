package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/deppfellow/cpf-validator/internal/cpf"
	"github.com/deppfellow/cpf-validator/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Validatable is implemented by request payload types that know how to
// validate themselves.
//
// Typical pattern:
//   - Define a request struct with validator tags (`validate:"required,max=100"`)
//   - Implement Validate() error that runs Struct(req)
type Validatable interface {
	Validate() error
}

// MessageInvalidBody is returned for any body that cannot be bound.
const MessageInvalidBody = "Invalid request body"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance.
//
// Besides the built-in tags it knows `cpf`, which accepts any string that
// cpf.Validate accepts.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
			return cpf.Validate(fl.Field().String())
		})
	})
	return validate
}

// Struct validates s with the shared validator.
func Struct(s interface{}) error {
	return Validator().Struct(s)
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the request struct from the body/params.
//  2. payload.Validate() applies validation rules.
//  3. Returns *errs.HTTPError (400) with field-level errors if validation fails.
//
// payload must be a pointer to a struct. The API only speaks JSON, so every
// body is read as JSON whatever its Content-Type header says.
func BindAndValidate(c echo.Context, payload Validatable) error {
	req := c.Request()
	if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	if err := c.Bind(payload); err != nil {
		// Bind errors name Go types and offsets; keep them in the logs only.
		zerolog.Ctx(req.Context()).Warn().Err(err).Msg("failed to bind request")
		return errs.NewBadRequestError(MessageInvalidBody, false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Anything else is reported against the whole body.
		return "Validation failed", []errs.FieldError{{Field: "body", Error: err.Error()}}
	}

	for _, err := range validationErrors {
		field := strings.ToLower(err.Field())
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			// min means length for strings and slices, value for numbers.
			switch err.Kind() {
			case reflect.String:
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			case reflect.Slice, reflect.Array:
				msg = fmt.Sprintf("must contain at least %s items", err.Param())
			default:
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			switch err.Kind() {
			case reflect.String:
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			case reflect.Slice, reflect.Array:
				msg = fmt.Sprintf("must not contain more than %s items", err.Param())
			default:
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		case "cpf":
			msg = "must be a valid CPF"

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
