package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is returned when client input fails validation.
var ErrInvalidInput = errors.New("invalid input")

var validate = newValidator() //nolint:gochecknoglobals // validator caches struct metadata

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so messages match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterStructValidation(patchEmail, ShooterPatch{})
	return v
}

// patchEmail lets a blank patch email through as a clear and requires a
// valid address otherwise.
func patchEmail(sl validator.StructLevel) {
	p, ok := sl.Current().Interface().(ShooterPatch)
	if !ok || p.Email == nil {
		return
	}
	email := strings.TrimSpace(*p.Email)
	if email == "" {
		return
	}
	if err := sl.Validator().Var(email, "email"); err != nil {
		sl.ReportError(p.Email, "email", "Email", "email", "")
	}
}

// ValidationError lists the failing fields of one input.
type ValidationError struct {
	Fields map[string]string // json field -> failed rule
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Validate checks v against its validate tags.
// Failures are returned as *ValidationError, which matches ErrInvalidInput.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}

// Invalid builds a *ValidationError for a single field.
func Invalid(field, rule string) error {
	return &ValidationError{Fields: map[string]string{field: rule}}
}
