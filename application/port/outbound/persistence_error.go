package outbound

import (
	"errors"
	"fmt"
)

// PersistenceError marks a storage failure that is fatal to the current
// request. It is never retried automatically.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// WrapPersistence tags err as a PersistenceError unless it is one of the
// repository sentinels, which callers handle themselves.
func WrapPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	switch {
	case errors.Is(err, ErrAuditorNotFound),
		errors.Is(err, ErrNoActiveKey),
		errors.Is(err, ErrKeyVersionConflict),
		errors.As(err, &pe):
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
