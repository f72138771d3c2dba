package lifecycle

import (
	"errors"
	"fmt"

	"aridcore/internal/shutdown"
)

var (
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("lifecycle: already started")
	// ErrNotConnected is returned when commands are published before any
	// connection exists.
	ErrNotConnected = errors.New("lifecycle: no gateway connection")
)

// FatalError is a startup failure that must end the process. Status is the
// cause to pass to Shutdown.
type FatalError struct {
	Status shutdown.Status
	Err    error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Status.Name(), e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

func fatal(status shutdown.Status, err error) *FatalError {
	return &FatalError{Status: status, Err: err}
}
