package auth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are deliberately indistinguishable to callers so that
	// login responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDuplicateEmail is returned when registering an email that already
	// has an account.
	ErrDuplicateEmail = errors.New("email is already registered")

	// ErrTokenNotFound is returned when a presented token was never issued.
	ErrTokenNotFound = errors.New("token not found")

	// ErrUnauthorized is returned when a token resolves to a user whose
	// role does not satisfy the required one.
	ErrUnauthorized = errors.New("insufficient role")

	// ErrNotFound is the store-level miss for user and token lookups.
	// Services translate it into the error appropriate for their caller.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateToken is the store-level unique violation on a token
	// value. Login regenerates once on this before giving up.
	ErrDuplicateToken = errors.New("token value already exists")
)

// MissingFieldError reports required request fields that were absent.
// Validation happens before any storage access.
type MissingFieldError struct {
	Fields []string
}

// NewMissingFieldError builds a MissingFieldError for the given fields.
func NewMissingFieldError(fields ...string) *MissingFieldError {
	return &MissingFieldError{Fields: fields}
}

func (e *MissingFieldError) Error() string {
	switch len(e.Fields) {
	case 0:
		return "required field missing"
	case 1:
		return e.Fields[0] + " is required"
	default:
		head := strings.Join(e.Fields[:len(e.Fields)-1], ", ")
		return head + " and " + e.Fields[len(e.Fields)-1] + " are required"
	}
}

// IsMissingField reports whether err is a MissingFieldError.
func IsMissingField(err error) bool {
	var mfe *MissingFieldError
	return errors.As(err, &mfe)
}

// StorageError wraps a backing-store failure. The cause is retained for
// logging but is never shown to the end user; handlers surface it as an
// opaque server error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
