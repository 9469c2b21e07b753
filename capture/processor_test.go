package capture

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/zsiec/iris/media"
	"github.com/zsiec/iris/transcode"
)

func newTestProcessor(t *testing.T, consumer FrameCallback) *Processor {
	t.Helper()
	vc := media.VideoCharacteristics{
		PixelFormat:     media.PixelFormatYUYV,
		Width:           4,
		Height:          2,
		FramesPerSecond: media.Rational{Numerator: 30, Denominator: 1},
	}
	asm, err := newAssembler(vc, false, transcode.StandardAuto, false)
	if err != nil {
		t.Fatal(err)
	}
	return newProcessor(uuid.New(), consumer, asm, discardLogger())
}

func TestProcessorDelivers(t *testing.T) {
	t.Parallel()

	var delivered []uint64
	p := newTestProcessor(t, func(_ uuid.UUID, frame *media.Frame) {
		delivered = append(delivered, frame.Index)
	})

	p.FrameArrived(yuyvBlack4x2(), 100, 1)
	p.FrameArrived(yuyvBlack4x2(), 133, 2)

	if len(delivered) != 2 || delivered[0] != 1 || delivered[1] != 2 {
		t.Errorf("delivered indices %v, want [1 2]", delivered)
	}
	stats := p.Stats()
	if stats.FramesDelivered != 2 || stats.FramesDropped != 0 {
		t.Errorf("stats %+v, want 2 delivered, 0 dropped", stats)
	}
	if stats.LastTimestampMS != 133 || stats.LastIndex != 2 {
		t.Errorf("last (%d, %d), want (133, 2)", stats.LastTimestampMS, stats.LastIndex)
	}
}

func TestProcessorDropsShortFrame(t *testing.T) {
	t.Parallel()

	var delivered int
	p := newTestProcessor(t, func(uuid.UUID, *media.Frame) { delivered++ })

	p.FrameArrived(make([]byte, 3), 100, 1) // corrupt arrival
	p.FrameArrived(yuyvBlack4x2(), 133, 2)  // stream continues

	if delivered != 1 {
		t.Errorf("delivered %d, want 1", delivered)
	}
	stats := p.Stats()
	if stats.FramesDropped != 1 {
		t.Errorf("dropped %d, want 1", stats.FramesDropped)
	}
}

func TestProcessorAbsorbsConsumerPanic(t *testing.T) {
	t.Parallel()

	calls := 0
	p := newTestProcessor(t, func(uuid.UUID, *media.Frame) {
		calls++
		panic("consumer bug")
	})

	// Must not propagate into the (simulated) hardware callback.
	p.FrameArrived(yuyvBlack4x2(), 100, 1)
	p.FrameArrived(yuyvBlack4x2(), 133, 2)

	if calls != 2 {
		t.Errorf("consumer invoked %d times, want 2", calls)
	}
}

func TestProcessorDisposeDrains(t *testing.T) {
	t.Parallel()

	inConsumer := make(chan struct{})
	unblock := make(chan struct{})
	var finished bool
	var mu sync.Mutex

	p := newTestProcessor(t, func(uuid.UUID, *media.Frame) {
		close(inConsumer)
		<-unblock
		mu.Lock()
		finished = true
		mu.Unlock()
	})

	go p.FrameArrived(yuyvBlack4x2(), 100, 1)
	<-inConsumer

	disposed := make(chan struct{})
	go func() {
		p.Dispose()
		close(disposed)
	}()

	select {
	case <-disposed:
		t.Fatal("Dispose returned while a delivery was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(unblock)
	select {
	case <-disposed:
	case <-time.After(time.Second):
		t.Fatal("Dispose did not complete after delivery finished")
	}

	mu.Lock()
	defer mu.Unlock()
	if !finished {
		t.Error("in-flight delivery did not finish before Dispose returned")
	}
}

func TestProcessorNoDeliveryAfterDispose(t *testing.T) {
	t.Parallel()

	var delivered int
	p := newTestProcessor(t, func(uuid.UUID, *media.Frame) { delivered++ })

	p.Dispose()
	p.FrameArrived(yuyvBlack4x2(), 100, 1)

	if delivered != 0 {
		t.Errorf("delivered %d after dispose, want 0", delivered)
	}
	if got := p.Stats().FramesDropped; got != 1 {
		t.Errorf("dropped %d, want 1", got)
	}
}
