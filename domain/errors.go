package domain

import "errors"

var (
	// ErrPermission indicates the caller is not allowed to perform the action,
	// e.g. deleting someone else's post or approving members without admin rights.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a missing post, circle, or event.
	ErrNotFound = errors.New("not found")

	// ErrTransient indicates a network or service failure that is safe to retry.
	ErrTransient = errors.New("service temporarily unavailable")

	// ErrValidation indicates a submission the backend would reject,
	// e.g. a post with neither text nor an image.
	ErrValidation = errors.New("invalid submission")
)
