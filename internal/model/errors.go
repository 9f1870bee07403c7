package model

import "errors"

var (
	// ErrNotFound indicates the requested memory id does not exist in the
	// user's collection.
	ErrNotFound = errors.New("memory not found")

	// ErrUserIDRequired indicates a caller omitted the mandatory userId.
	ErrUserIDRequired = errors.New("userId is required")
)
