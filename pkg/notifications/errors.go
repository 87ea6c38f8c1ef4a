package notifications

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrMissingID            = errors.New("notification id is required")
	ErrMissingUserID        = errors.New("notification user id is required")
	ErrNotificationExists   = errors.New("notification already exists")
)
