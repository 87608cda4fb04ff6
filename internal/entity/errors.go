package entity

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotConfirming is returned by Confirm when no record is staged for deletion.
	ErrNotConfirming = errors.New("no deletion pending")
	// ErrBusy is returned when an operation is already in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrFormClosed is returned by Submit when the form is not open.
	ErrFormClosed = errors.New("form is not open")
)

// LoadError is the state of a list whose last fetch failed.
type LoadError struct {
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return "Failed to fetch " + e.Resource
}

func (e *LoadError) Unwrap() error { return e.Err }

// ValidationError reports a draft field that failed client-side validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks a draft against its `validate` struct tags and converts the
// first failure into a *ValidationError.
func ValidateStruct(draft any) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate draft: %w", err)
	}
	fe := fieldErrs[0]
	field := humanField(fe.Field())
	return &ValidationError{Field: fe.Field(), Message: describe(field, fe)}
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "datetime":
		return field + " must be a date (YYYY-MM-DD)"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// humanField turns "StockLevel" into "Stock level".
func humanField(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
