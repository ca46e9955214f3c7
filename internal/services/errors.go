package services

import (
	"errors"
	"strings"
)

// Terminal errors of the upload pipeline and the management service. Handlers
// map these to HTTP statuses; anything else is a persistence failure.
var (
	ErrNoFileProvided  = errors.New("no file provided")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFolderNotFound  = errors.New("folder not found")
	// ErrNotFound covers both absent resources and resources owned by another
	// user, so callers can't probe for existence.
	ErrNotFound      = errors.New("not found")
	ErrRemoteStorage = errors.New("remote storage error")
)

// ValidationError carries the user-facing messages for rejected input. The
// operation had no side effects.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func validationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// AsValidation unwraps err into a ValidationError, if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
