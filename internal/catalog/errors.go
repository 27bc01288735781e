package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrData marks malformed or unreachable catalog data.
	ErrData = errors.New("catalog data error")

	// ErrMissingField is wrapped by DataError when a required field is empty.
	ErrMissingField = errors.New("required field is missing")
)

// DataError describes why the initial data could not be loaded.
type DataError struct {
	Index int // record position, -1 when the whole payload is at fault
	Field string
	Err   error
}

func (e *DataError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("catalog data: %v", e.Err)
	}
	if e.Field != "" {
		return fmt.Sprintf("catalog data: record %d: %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("catalog data: record %d: %v", e.Index, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Is(target error) bool {
	return target == ErrData
}

// NewDataError wraps a payload-level failure (bad syntax, unreadable body).
func NewDataError(err error) *DataError {
	return &DataError{Index: -1, Err: err}
}
