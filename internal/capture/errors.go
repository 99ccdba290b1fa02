package capture

import (
	"fmt"
	"sort"

	"github.com/AnshRaj112/multicrypto-funnel/internal/apperr"
)

// FieldErrors maps a form field to the translation key of its error.
type FieldErrors map[string]string

func (e FieldErrors) clone() FieldErrors {
	if len(e) == 0 {
		return nil
	}
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// ValidationError is returned by Submit when the form is not valid.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid fields: %v", e.fieldNames())
}

// Unwrap exposes the first failing field as an *apperr.Error of kind Validation.
func (e *ValidationError) Unwrap() error {
	names := e.fieldNames()
	if len(names) == 0 {
		return nil
	}
	return apperr.New(apperr.Validation, e.Fields[names[0]], nil)
}

func (e *ValidationError) fieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
