package eventbus

import "errors"

var (
	// ErrCancel is returned by a middleware to stop delivery of an event.
	// Publish treats it as a normal outcome and returns nil.
	ErrCancel = errors.New("eventbus: delivery cancelled by middleware")

	// ErrInvalidEventType is returned by Publish for names that are not
	// dot-namespaced lower-case identifiers.
	ErrInvalidEventType = errors.New("eventbus: invalid event type")

	// ErrMiddleware wraps errors returned by a middleware other than ErrCancel.
	ErrMiddleware = errors.New("eventbus: middleware failed")
)
