package store

import "errors"

// Store-level failures. The route layer is the only place these get turned
// into redirects, flashes, or status codes.
var (
	// ErrDuplicate reports a username or email that is already taken.
	ErrDuplicate = errors.New("duplicate value for unique field")
	// ErrNotFound reports an absent user or message.
	ErrNotFound = errors.New("record not found")
	// ErrNotOwner reports an attempt to act on another user's resource.
	ErrNotOwner = errors.New("not the owner of this resource")
	// ErrMissingField reports an empty required argument.
	ErrMissingField = errors.New("missing required field")
	// ErrTextTooLong reports message text over the length bound.
	ErrTextTooLong = errors.New("text exceeds maximum length")
)
