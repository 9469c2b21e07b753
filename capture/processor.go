package capture

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/zsiec/iris/media"
)

// FrameCallback receives each delivered frame along with the identity of
// the device that produced it. It runs synchronously on the arrival thread:
// a slow callback directly slows frame delivery, so it must not block on
// unbounded work. The frame's storage is reused for the next arrival; copy
// anything that must outlive the call.
type FrameCallback func(deviceID uuid.UUID, frame *media.Frame)

// Processor is the single hand-off point between the hardware notification
// context and user code. It assembles a frame from each arrival and invokes
// the consumer inline, with no internal queueing: back-pressure is explicit
// rather than hidden behind a growing buffer.
type Processor struct {
	log      *slog.Logger
	deviceID uuid.UUID

	mu       sync.Mutex
	disposed bool
	consumer FrameCallback
	asm      *assembler

	framesDelivered atomic.Int64
	framesDropped   atomic.Int64
	lastTimestampMS atomic.Int64
	lastIndex       atomic.Uint64
}

// ProcessorStats is a snapshot of frame delivery counters.
type ProcessorStats struct {
	FramesDelivered int64  `json:"framesDelivered"`
	FramesDropped   int64  `json:"framesDropped"`
	LastTimestampMS int64  `json:"lastTimestampMs"`
	LastIndex       uint64 `json:"lastIndex"`
}

func newProcessor(deviceID uuid.UUID, consumer FrameCallback, asm *assembler, log *slog.Logger) *Processor {
	return &Processor{
		log:      log.With("component", "processor"),
		deviceID: deviceID,
		consumer: consumer,
		asm:      asm,
	}
}

// FrameArrived handles one frame-arrival notification. Callable from any
// thread. Per-frame failures (short buffers, transcode errors) are logged
// and dropped rather than propagated: a hardware callback context must
// never be crashed by a single bad frame.
func (p *Processor) FrameArrived(data []byte, timestampMS int64, index uint64) {
	// The same lock orders arrivals against Dispose, which guarantees no
	// consumer invocation begins after disposal and that Dispose waits
	// for an in-flight invocation to finish.
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disposed {
		p.framesDropped.Add(1)
		return
	}

	frame, err := p.asm.assemble(data, timestampMS, index)
	if err != nil {
		p.framesDropped.Add(1)
		p.log.Warn("dropping frame", "index", index, "error", err)
		return
	}

	p.deliver(frame)
	p.framesDelivered.Add(1)
	p.lastTimestampMS.Store(timestampMS)
	p.lastIndex.Store(index)
}

// deliver invokes the consumer, absorbing panics so nothing raises back
// into the hardware layer.
func (p *Processor) deliver(frame *media.Frame) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("consumer panicked", "index", frame.Index, "panic", r)
		}
	}()
	p.consumer(p.deviceID, frame)
}

// Dispose marks the processor unusable. It blocks until any in-flight
// arrival has finished, after which no arrival call will ever reach the
// consumer again. Safe to call more than once.
func (p *Processor) Dispose() {
	p.mu.Lock()
	p.disposed = true
	p.mu.Unlock()
}

// Stats returns a snapshot of delivery counters.
func (p *Processor) Stats() ProcessorStats {
	return ProcessorStats{
		FramesDelivered: p.framesDelivered.Load(),
		FramesDropped:   p.framesDropped.Load(),
		LastTimestampMS: p.lastTimestampMS.Load(),
		LastIndex:       p.lastIndex.Load(),
	}
}
