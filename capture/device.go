// Package capture implements the device lifecycle state machine and the
// frame-delivery path that bridges a hardware callback thread to consumer
// code. Hardware specifics live behind the Backend interface; this package
// owns when frames may flow and how they reach the consumer.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zsiec/iris/media"
	"github.com/zsiec/iris/transcode"
)

// Config carries everything Initialize needs to bring a device up.
type Config struct {
	// Characteristics is the capture mode to run. It must be one of the
	// modes the backend advertises.
	Characteristics media.VideoCharacteristics

	// OnFrame receives every delivered frame. Required.
	OnFrame FrameCallback

	// PassthroughYUV delivers packed 4:2:2 frames verbatim instead of
	// transcoding them to RGB24. Uncompressed RGB formats always pass
	// through.
	PassthroughYUV bool

	// ColorStandard selects the conversion matrix; the zero value is
	// Auto, which picks by resolution.
	ColorStandard transcode.ColorStandard

	// FullRange treats samples as 0-255 instead of studio range.
	FullRange bool
}

// Device is the lifecycle state machine for one capture device. All
// lifecycle operations accept a context for cancellation and serialize
// against each other; frame arrivals are independent of that serialization
// and flow through the Processor while the device is Running.
type Device struct {
	id      uuid.UUID
	log     *slog.Logger
	backend Backend

	// ops serializes lifecycle transitions. Buffered size 1: acquire by
	// send, release by receive, with context-aware acquisition.
	ops chan struct{}

	state atomic.Int32

	// mu guards the fields below against concurrent readers (Stats,
	// Characteristics); writers additionally hold the ops slot.
	mu              sync.RWMutex
	characteristics media.VideoCharacteristics
	processor       *Processor
	startedAt       time.Time
}

// DeviceStats is a point-in-time snapshot of device health, suitable for
// JSON serialization in a diagnostics surface.
type DeviceStats struct {
	ID              string `json:"id"`
	State           string `json:"state"`
	UptimeMs        int64  `json:"uptimeMs"`
	FramesDelivered int64  `json:"framesDelivered"`
	FramesDropped   int64  `json:"framesDropped"`
	LastTimestampMS int64  `json:"lastTimestampMs"`
	LastIndex       uint64 `json:"lastIndex"`
}

// NewDevice creates an Uninitialized device over the given backend.
// If log is nil, slog.Default() is used.
func NewDevice(backend Backend, log *slog.Logger) *Device {
	if log == nil {
		log = slog.Default()
	}
	id := uuid.New()
	return &Device{
		id:      id,
		log:     log.With("component", "device", "device", id.String()),
		backend: backend,
		ops:     make(chan struct{}, 1),
	}
}

// ID returns the device's unique identity, included with every delivered
// frame.
func (d *Device) ID() uuid.UUID {
	return d.id
}

// State returns the current lifecycle state.
func (d *Device) State() DeviceState {
	return DeviceState(d.state.Load())
}

// Characteristics returns the configured capture mode. Zero value before
// Initialize succeeds.
func (d *Device) Characteristics() media.VideoCharacteristics {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.characteristics
}

// acquire takes the lifecycle slot, or fails if ctx is done first.
func (d *Device) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case d.ops <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Device) release() {
	<-d.ops
}

// Initialize validates the requested characteristics against the backend's
// advertised set, configures the hardware, computes the fixed frame sizing,
// and constructs the frame processor bound to cfg.OnFrame. On any failure,
// including cancellation, the device rolls back to Uninitialized with no
// partial configuration observable. Initialize on an already-initialized
// device is rejected with ErrInvalidState; there is no implicit
// dispose-and-reinitialize.
func (d *Device) Initialize(ctx context.Context, cfg Config) error {
	if err := d.acquire(ctx); err != nil {
		return err
	}
	defer d.release()

	if s := d.State(); s != StateUninitialized {
		return fmt.Errorf("%w: initialize from %s", ErrInvalidState, s)
	}
	if cfg.OnFrame == nil {
		return fmt.Errorf("%w: no frame callback", ErrUnsupportedConfiguration)
	}

	vc := cfg.Characteristics
	if err := vc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedConfiguration, err)
	}
	if !d.advertises(vc) {
		return fmt.Errorf("%w: %s not advertised by device", ErrUnsupportedConfiguration, vc)
	}

	asm, err := newAssembler(vc, cfg.PassthroughYUV, cfg.ColorStandard, cfg.FullRange)
	if err != nil {
		return err
	}

	if err := d.backend.Configure(ctx, vc); err != nil {
		return &DeviceError{Op: "configure", Err: err}
	}
	if err := ctx.Err(); err != nil {
		// Cancelled after the hardware accepted the mode: keep the
		// device Uninitialized. A later Initialize reconfigures.
		return err
	}

	d.mu.Lock()
	d.characteristics = vc
	d.processor = newProcessor(d.id, cfg.OnFrame, asm, d.log)
	d.mu.Unlock()
	d.state.Store(int32(StateInitialized))
	d.log.Info("device initialized", "characteristics", vc.String(), "transcode", asm.transcoding)
	return nil
}

// advertises reports whether the backend's capability list contains vc.
func (d *Device) advertises(vc media.VideoCharacteristics) bool {
	for _, adv := range d.backend.Characteristics() {
		if adv.Equal(vc) {
			return true
		}
	}
	return false
}

// Start arms the hardware stream. Valid from Initialized or Stopped. If the
// backend fails to arm, the state is unchanged. If ctx is cancelled after
// arming succeeds, the stream is disarmed again and the prior state kept,
// so cancellation is a full rollback.
func (d *Device) Start(ctx context.Context) error {
	if err := d.acquire(ctx); err != nil {
		return err
	}
	defer d.release()

	if s := d.State(); s != StateInitialized && s != StateStopped {
		return fmt.Errorf("%w: start from %s", ErrInvalidState, s)
	}

	d.mu.RLock()
	processor := d.processor
	d.mu.RUnlock()

	if err := d.backend.Arm(ctx, processor.FrameArrived); err != nil {
		return &DeviceError{Op: "arm", Err: err}
	}
	if err := ctx.Err(); err != nil {
		if derr := d.backend.Disarm(context.Background()); derr != nil {
			d.log.Warn("disarm during start rollback failed", "error", derr)
		}
		return err
	}

	d.mu.Lock()
	d.startedAt = time.Now()
	d.mu.Unlock()
	d.state.Store(int32(StateRunning))
	d.log.Info("device started")
	return nil
}

// Stop disarms the hardware stream. Valid only from Running; on backend
// failure the device stays Running. Frames already in flight complete
// delivery: the processor is not torn down until Dispose.
func (d *Device) Stop(ctx context.Context) error {
	if err := d.acquire(ctx); err != nil {
		return err
	}
	defer d.release()

	if s := d.State(); s != StateRunning {
		return fmt.Errorf("%w: stop from %s", ErrInvalidState, s)
	}

	if err := d.backend.Disarm(ctx); err != nil {
		return &DeviceError{Op: "disarm", Err: err}
	}

	d.state.Store(int32(StateStopped))
	d.log.Info("device stopped")
	return nil
}

// Dispose tears the device down: an implicit stop when Running, then
// processor disposal (which waits for any in-flight delivery), then backend
// close. Idempotent: disposing a Disposed device is a no-op. Backend
// failures during teardown are logged and teardown continues, so resources
// are never left half-released.
func (d *Device) Dispose(ctx context.Context) error {
	if err := d.acquire(ctx); err != nil {
		return err
	}
	defer d.release()

	switch d.State() {
	case StateDisposed:
		return nil
	case StateRunning:
		if err := d.backend.Disarm(ctx); err != nil {
			d.log.Warn("disarm during dispose failed", "error", err)
		}
	}

	d.mu.RLock()
	processor := d.processor
	d.mu.RUnlock()
	if processor != nil {
		processor.Dispose()
	}
	if err := d.backend.Close(ctx); err != nil {
		d.log.Warn("backend close failed", "error", err)
	}

	d.state.Store(int32(StateDisposed))
	d.log.Info("device disposed")
	return nil
}

// Stats returns a snapshot of lifecycle and delivery metrics.
func (d *Device) Stats() DeviceStats {
	stats := DeviceStats{
		ID:    d.id.String(),
		State: d.State().String(),
	}

	d.mu.RLock()
	processor, startedAt := d.processor, d.startedAt
	d.mu.RUnlock()

	if d.State() == StateRunning && !startedAt.IsZero() {
		stats.UptimeMs = time.Since(startedAt).Milliseconds()
	}
	if p := processor; p != nil {
		ps := p.Stats()
		stats.FramesDelivered = ps.FramesDelivered
		stats.FramesDropped = ps.FramesDropped
		stats.LastTimestampMS = ps.LastTimestampMS
		stats.LastIndex = ps.LastIndex
	}
	return stats
}
