package dispatcher

import "errors"

var (
	ErrInvalidConfig  = errors.New("dispatcher: invalid config")
	ErrClosed         = errors.New("dispatcher: closed")
	ErrAlreadyStarted = errors.New("dispatcher: already started")
	ErrMissingUserID  = errors.New("dispatcher: missing user id")
)
