package services

import (
	"errors"
	"fmt"

	"github.com/khabaroff/webtestkit/src/records"
)

// Sentinel errors for explicit error handling
// Callers distinguish failure modes with errors.Is() instead of string matching

var (
	// ErrNoteNotFound indicates the requested note does not exist
	ErrNoteNotFound = fmt.Errorf("note %w", records.ErrNotFound)

	// ErrUserNotFound indicates the user does not exist
	ErrUserNotFound = fmt.Errorf("user %w", records.ErrNotFound)

	// ErrInvalidCredentials indicates authentication failed
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidNote indicates a note failed validation
	ErrInvalidNote = errors.New("invalid note")

	// ErrInvalidUser indicates a user failed validation
	ErrInvalidUser = errors.New("invalid user")
)
