package resume

import (
	"errors"
	"fmt"
)

// ErrPersistence matches any PersistenceError
var ErrPersistence = errors.New("persistence failure")

// PersistenceError wraps a storage failure for one operation
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to %s resume: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("failed to %s resume", e.Op)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
