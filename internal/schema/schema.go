// Package schema converts between request/response JSON documents and the
// domain model.
//
// Loading a document is split in two steps: Decode* parses and validates the
// structural shape of the body, New* builds the domain object from an already
// validated request.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError is returned when a request body is malformed or misses
// required fields.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// decode parses body strictly into dst and validates its shape.
func decode(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return &ValidationError{Message: "request body is empty"}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &ValidationError{Message: "request body must contain a single JSON object"}
	}

	return Validate(dst)
}

// Validate checks the structural shape of an already decoded request
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating request: %w", err)
		}
		verr := &ValidationError{Message: "invalid request body", Fields: map[string]string{}}
		for _, fe := range fieldErrs {
			verr.Fields[fe.Field()] = fieldMessage(fe)
		}
		return verr
	}
	return nil
}

func decodeError(err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field == "":
		return &ValidationError{Message: "request body must be a JSON object"}
	case errors.As(err, &typeErr):
		return &ValidationError{
			Message: "invalid request body",
			Fields:  map[string]string{typeErr.Field: "must be of type " + typeErr.Type.String()},
		}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &ValidationError{Message: "request body is not valid JSON"}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return &ValidationError{
			Message: "invalid request body",
			Fields:  map[string]string{field: "unknown field"},
		}
	default:
		return &ValidationError{Message: "invalid request body: " + err.Error()}
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
