package transit

import (
	"errors"
	"fmt"
)

// ErrStopNotFound means the stop code does not exist in the static schedule.
// Terminal for the request.
var ErrStopNotFound = errors.New("stop not found")

// ErrRouteNotFound means no route matches the operator and line number.
var ErrRouteNotFound = errors.New("route not found")

// StoreUnavailableError wraps a failure to reach the schedule store. Fatal
// for the request - there is no fallback schedule.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("schedule store unavailable: %s", e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

func IsStoreUnavailable(err error) bool {
	var unavailable *StoreUnavailableError
	return errors.As(err, &unavailable)
}
