package types

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrIncompleteSignature = fmt.Errorf("%w: incomplete signature", ErrValidation)
	ErrUnknownField        = errors.New("unknown field")
	ErrInvalidSigner       = errors.New("invalid signer")
	ErrCollaboratorFailure = errors.New("collaborator failure")

	ErrDragInProgress        = errors.New("another field is being dragged")
	ErrImageNotLoaded        = errors.New("page image is not loaded")
	ErrViewClosed            = errors.New("page view is closed")
	ErrNavigationUnavailable = errors.New("navigation is not available")
	ErrRequestInFlight       = errors.New("request for this document is already in flight")
	ErrSessionNotFound       = errors.New("session not found")
)

// Validationf returns an error wrapping ErrValidation.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
