package preferences

import "errors"

var (
	ErrPreferencesNotFound = errors.New("preferences: not found")
	ErrMissingUserID       = errors.New("preferences: user id is required")
)
