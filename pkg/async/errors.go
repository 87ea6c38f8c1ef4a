package async

import (
	"errors"
	"fmt"
)

var ErrTimeout = errors.New("async: operation timed out waiting for future completion")

// PanicError wraps a value recovered from a panicking callback.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("async: callback panicked: %v", e.Value)
}
