// Package errs defines the closed set of failure kinds shared by stores and
// transports. A kind is attached where the failure happens, so callers branch
// on it with errors.As instead of inspecting messages.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind uint8

const (
	// KindNotFound: the requested record does not exist.
	KindNotFound Kind = iota + 1
	// KindConflict: the write collides with existing state.
	KindConflict
	// KindInvalid: the input was rejected before any I/O.
	KindInvalid
	// KindTransient: a dependency failed and the operation may succeed later.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error carries a Kind, the failing operation and the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(op string, err error) error  { return &Error{Kind: KindNotFound, Op: op, Err: err} }
func Conflict(op string, err error) error  { return &Error{Kind: KindConflict, Op: op, Err: err} }
func Invalid(op string, err error) error   { return &Error{Kind: KindInvalid, Op: op, Err: err} }
func Transient(op string, err error) error { return &Error{Kind: KindTransient, Op: op, Err: err} }

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func Is(err error, kind Kind) bool { return err != nil && KindOf(err) == kind }

func IsNotFound(err error) bool  { return Is(err, KindNotFound) }
func IsConflict(err error) bool  { return Is(err, KindConflict) }
func IsInvalid(err error) bool   { return Is(err, KindInvalid) }
func IsTransient(err error) bool { return Is(err, KindTransient) }
