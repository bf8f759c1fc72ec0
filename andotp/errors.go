package andotp

import (
	"errors"
	"fmt"
)

var (
	// ErrIO is returned when the backup cannot be opened, stat'd or read,
	// or is too short to hold an IV and a tag.
	ErrIO = errors.New("unreadable backup file")

	// ErrAuthentication is returned when the GCM tag does not verify. A
	// wrong passphrase and a corrupted file are deliberately reported the
	// same way.
	ErrAuthentication = errors.New("wrong passphrase or corrupted file")

	ErrMalformed    = errors.New("backup is not valid JSON")
	ErrShape        = errors.New("backup JSON is not an array of objects")
	ErrMissingField = errors.New("missing field")
	ErrInvalidField = errors.New("invalid field")
	ErrUnknownType  = errors.New("unknown otp type")
)

// EntryError reports a record that failed validation
type EntryError struct {
	Index int    // position in the backup array
	Field string // JSON member name
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d: %s: %v", e.Index, e.Field, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
