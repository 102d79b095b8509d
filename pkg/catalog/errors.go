package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory indicates a product insert referenced a category
// that does not exist.
var ErrUnknownCategory = errors.New("unknown category")

// StorageError wraps an unexpected database failure so callers can
// distinguish infrastructure faults from domain outcomes.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("catalog storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
