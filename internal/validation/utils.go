// Package validation binds request data and turns validation failures into
// field-level API errors.
//
// Rules are declared with `validate` struct tags and enforced by
// go-playground/validator; the failures are translated into messages a
// client can show next to the offending field.
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/deppfellow/sportspredict/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payloads.
//
// Validate returns validator.ValidationErrors for tag failures or
// CustomValidationErrors for rules that tags cannot express.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a single failure outside the validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var binder = &echo.DefaultBinder{}

// NewValidator returns a validator that reports fields by their wire name
// (json, then query, then param tag) instead of the Go field name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// BindAndValidate binds path params, query params and body into payload, in
// that order, then validates it.
//
// Unlike echo's Bind, query params are bound for every method so endpoints
// such as POST /api/admin/archive can take options in the query string.
// payload must be a pointer.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := binder.BindPathParams(c, payload); err != nil {
		return errs.NewBadRequestError("Invalid path parameter", true, nil, pathFieldErrors(c), nil)
	}

	if err := binder.BindQueryParams(c, payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err, "Invalid query parameter"), true, nil, nil, nil)
	}

	if err := binder.BindBody(c, payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err, "Invalid request body"), true, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

// pathFieldErrors names every path param of the route. The binder does not
// say which one failed, and routes here carry at most one.
func pathFieldErrors(c echo.Context) []errs.FieldError {
	var fieldErrors []errs.FieldError
	for _, name := range c.ParamNames() {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: name,
			Error: "must be a positive integer",
		})
	}
	return fieldErrors
}

// bindErrorMessage keeps echo's client-facing message (e.g. "Syntax error:
// offset=12, error=invalid character ...") and drops the wrapped internal error.
func bindErrorMessage(err error, fallback string) string {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusBadRequest {
		if msg, ok := he.Message.(string); ok && msg != "" {
			return fmt.Sprintf("%s: %s", fallback, msg)
		}
	}
	return fallback
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: err.Field,
				Error: err.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Field: "request", Error: err.Error()}}
	}

	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		case "nefield":
			msg = fmt.Sprintf("must differ from %s", toSnakeCase(err.Param()))

		case "boolean":
			msg = "must be true or false"

		case "number":
			msg = "must be a non-negative integer"

		case "numeric":
			msg = "must be a number"

		case "dive":
			msg = "some items are invalid"

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", err.Field(), err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: err.Field(),
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}

// toSnakeCase maps a Go field name to its JSON name: HomeTeam -> home_team.
// Used for cross-field params, which validator reports by Go name.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if 'A' <= r && r <= 'Z' {
			if i > 0 && !('A' <= rune(s[i-1]) && rune(s[i-1]) <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
