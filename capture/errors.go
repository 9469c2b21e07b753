package capture

import (
	"errors"
	"fmt"
)

// Sentinel errors for device lifecycle handling. These enable callers to
// programmatically distinguish failure modes using errors.Is.
var (
	// ErrUnsupportedConfiguration means the requested characteristics are
	// not in the backend's advertised set. Initialize fails and the device
	// stays Uninitialized.
	ErrUnsupportedConfiguration = errors.New("capture: unsupported configuration")

	// ErrInvalidState means a lifecycle operation was called from a state
	// it is not permitted in, e.g. Start before Initialize.
	ErrInvalidState = errors.New("capture: invalid state for operation")

	// ErrAllocation means the frame header or payload memory could not be
	// sized. Initialize fails with nothing retained.
	ErrAllocation = errors.New("capture: buffer allocation failed")
)

// DeviceError indicates the hardware backend rejected an arm, disarm, or
// configuration request. It wraps the backend's error and records which
// lifecycle operation failed; the device remains in its last good state.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("capture: %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}
