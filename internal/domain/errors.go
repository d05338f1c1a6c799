package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrCorruptRecord   = errors.New("corrupt stored record")
	ErrUnknownSection  = errors.New("unknown section")
	ErrAccessDenied    = errors.New("access denied")
	ErrRatingRequired  = errors.New("rating is required")
	ErrSubmitFailed    = errors.New("failed to submit review")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
	ErrSessionOwner    = errors.New("session belongs to another user")
)
