package capture

import (
	"context"

	"github.com/zsiec/iris/media"
)

// ArrivalFunc is the frame-arrival notification a backend invokes once per
// captured frame. data is borrowed: it is owned by the hardware layer and
// valid only for the duration of the call, so anything kept must be copied
// first. Implementations may call it from any thread, including a real-time
// hardware callback thread, and must never be blocked on unbounded work.
type ArrivalFunc func(data []byte, timestampMS int64, index uint64)

// Backend is the capability interface a hardware integration supplies.
// The Device state machine drives these hooks; backends implement only the
// hardware-facing side (DirectShow, V4L2, GStreamer, a synthetic generator)
// and never touch lifecycle state themselves.
type Backend interface {
	// Characteristics returns the capture modes the hardware advertises.
	// Initialize validates requested characteristics against this set.
	Characteristics() []media.VideoCharacteristics

	// Configure prepares the hardware for one capture mode. Called once
	// per Initialize, before any frame can flow.
	Configure(ctx context.Context, vc media.VideoCharacteristics) error

	// Arm starts the hardware stream. The backend invokes onFrame for
	// every captured frame until Disarm returns.
	Arm(ctx context.Context, onFrame ArrivalFunc) error

	// Disarm stops the hardware stream. Frames already in flight may
	// still be delivered while Disarm is in progress.
	Disarm(ctx context.Context) error

	// Close releases all hardware resources. No hook is called after it.
	Close(ctx context.Context) error
}
