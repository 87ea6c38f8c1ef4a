package redis

import "errors"

var (
	ErrEmptyURL    = errors.New("redis: live-push connection URL is empty")
	ErrInvalidURL  = errors.New("redis: invalid live-push connection URL")
	ErrNotReady    = errors.New("redis: live-push server did not answer in time")
	ErrUnreachable = errors.New("redis: live-push server unreachable")
)
