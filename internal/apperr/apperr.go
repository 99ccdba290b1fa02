// Package apperr holds the error kinds the funnel distinguishes between.
// Only Validation and PersistenceExhausted are ever shown to the visitor.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Unknown Kind = iota
	Validation
	RemoteUnavailable
	SchemaMissing
	PersistenceExhausted
	PlayerInitTimeout
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case RemoteUnavailable:
		return "remote_unavailable"
	case SchemaMissing:
		return "schema_missing"
	case PersistenceExhausted:
		return "persistence_exhausted"
	case PlayerInitTimeout:
		return "player_init_timeout"
	default:
		return "unknown"
	}
}

// Error carries a Kind and the translation key the UI should render.
type Error struct {
	Kind Kind
	Key  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Kind, e.Key)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error.
func New(kind Kind, key string, err error) *Error {
	return &Error{Kind: kind, Key: key, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// KeyOf returns the translation key of the first *Error in err's chain.
func KeyOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Key
	}
	return ""
}
