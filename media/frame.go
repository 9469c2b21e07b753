package media

import "github.com/zsiec/iris/internal/dib"

// HeaderSize is the length of the descriptor prefixed to every frame payload.
const HeaderSize = dib.HeaderSize

// Frame is one delivered capture frame: a fixed-layout bitmap info header
// followed by the pixel payload, bottom-up. The backing storage is owned by
// the pipeline and may be reused for the next frame, so consumers must copy
// anything they want to keep before returning from the delivery callback.
type Frame struct {
	// Data holds the encoded header followed by the payload.
	Data []byte

	// PixelFormat is the layout of the payload as delivered. When the
	// device transcodes, this is RGB24 regardless of the source format.
	PixelFormat PixelFormat

	Width  int
	Height int

	// TimestampMS is the capture timestamp in milliseconds, as reported
	// by the hardware layer.
	TimestampMS int64

	// Index increases monotonically per delivered frame.
	Index uint64
}

// Header returns the encoded descriptor portion of the frame.
func (f *Frame) Header() []byte {
	return f.Data[:HeaderSize]
}

// Payload returns the pixel data portion of the frame.
func (f *Frame) Payload() []byte {
	return f.Data[HeaderSize:]
}
