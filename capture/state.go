package capture

import "fmt"

// DeviceState is the single authoritative lifecycle state of a Device.
//
// Transitions happen only in this order:
//
//	Uninitialized --Initialize--> Initialized
//	Initialized   --Start------> Running
//	Running       --Stop-------> Stopped
//	Stopped       --Start------> Running
//	any state     --Dispose----> Disposed
//
// Dispose from Running performs an implicit stop first and is idempotent
// once Disposed.
type DeviceState int32

// Device lifecycle states.
const (
	StateUninitialized DeviceState = iota
	StateInitialized
	StateRunning
	StateStopped
	StateDisposed
)

var stateNames = map[DeviceState]string{
	StateUninitialized: "uninitialized",
	StateInitialized:   "initialized",
	StateRunning:       "running",
	StateStopped:       "stopped",
	StateDisposed:      "disposed",
}

func (s DeviceState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("DeviceState(%d)", int32(s))
}
