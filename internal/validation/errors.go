package validation

import (
	"errors"
	"strings"
)

// ErrUnknownSchema is returned when a caller asks for a schema that was never registered.
var ErrUnknownSchema = errors.New("unknown schema")

// FieldError ties a human-readable message to the path of the offending input attribute.
// Nested paths use dots, e.g. "categories.1".
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// FieldErrors is the ordered failure result of a validation run.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Path+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

func (e FieldErrors) Has(path string) bool {
	for _, fe := range e {
		if fe.Path == path {
			return true
		}
	}
	return false
}

// Messages returns every message reported for path, in order.
func (e FieldErrors) Messages(path string) []string {
	var out []string
	for _, fe := range e {
		if fe.Path == path {
			out = append(out, fe.Message)
		}
	}
	return out
}

// ByField keeps the first message per path, which is what a form shows next to an input.
func (e FieldErrors) ByField() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := out[fe.Path]; !ok {
			out[fe.Path] = fe.Message
		}
	}
	return out
}

// AsFieldErrors unwraps err into FieldErrors when it carries one.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
