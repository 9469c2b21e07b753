package capture

import (
	"fmt"

	"github.com/zsiec/iris/internal/dib"
	"github.com/zsiec/iris/media"
	"github.com/zsiec/iris/transcode"
)

// maxFrameBytes bounds a single frame allocation. Anything larger than a
// 16K RGB24 frame indicates corrupt characteristics, not a real device.
const maxFrameBytes = 15360 * 8640 * 3

// assembler owns the memory for delivered frames: one fixed-size buffer
// holding the encoded header followed by the payload, reused across frames
// so the arrival path does not allocate. The header portion is written once
// at construction and is read-only afterward.
type assembler struct {
	vc            media.VideoCharacteristics
	kind          media.CompressionKind
	standard      transcode.ColorStandard
	fullRange     bool
	transcoding   bool
	outFormat     media.PixelFormat
	requiredInput int
	payloadSize   int

	buf   []byte
	frame media.Frame
}

// newAssembler computes the fixed sizing for the configured characteristics
// and allocates the reusable frame buffer. passthrough disables YUV
// transcoding, delivering packed macropixels verbatim.
func newAssembler(vc media.VideoCharacteristics, passthrough bool, standard transcode.ColorStandard, fullRange bool) (*assembler, error) {
	a := &assembler{
		vc:        vc,
		kind:      vc.PixelFormat.Compression(),
		standard:  standard,
		fullRange: fullRange,
		outFormat: vc.PixelFormat,
	}

	if required, packed := a.kind.RequiredInputSize(vc.Width, vc.Height); packed {
		a.requiredInput = required
		if passthrough {
			a.payloadSize = required
		} else {
			a.transcoding = true
			a.payloadSize = transcode.OutputSize(vc.Width, vc.Height)
			a.outFormat = media.PixelFormatRGB24
		}
	} else {
		a.requiredInput = vc.Width * vc.Height * vc.PixelFormat.BitsPerPixel() / 8
		a.payloadSize = a.requiredInput
	}

	total := dib.HeaderSize + a.payloadSize
	if a.payloadSize <= 0 || total > maxFrameBytes {
		return nil, fmt.Errorf("%w: frame size %d for %s", ErrAllocation, total, vc)
	}
	a.buf = make([]byte, total)

	hdr := dib.Header{
		Width:     int32(vc.Width),
		Height:    int32(vc.Height),
		Planes:    1,
		BitCount:  uint16(a.outFormat.BitsPerPixel()),
		SizeImage: uint32(a.payloadSize),
	}
	if a.outFormat.Compression() != media.CompressionNone {
		hdr.Compression = a.outFormat.FourCC()
	}
	if err := hdr.Encode(a.buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	a.frame = media.Frame{
		Data:        a.buf,
		PixelFormat: a.outFormat,
		Width:       vc.Width,
		Height:      vc.Height,
	}
	return a, nil
}

// assemble populates the reusable frame from one borrowed hardware buffer,
// transcoding when the source format requires it and copying verbatim
// otherwise. The returned frame aliases the assembler's buffer and is valid
// only until the next assemble call.
func (a *assembler) assemble(data []byte, timestampMS int64, index uint64) (*media.Frame, error) {
	if len(data) < a.requiredInput {
		return nil, fmt.Errorf("capture: short frame: %d < %d", len(data), a.requiredInput)
	}

	payload := a.buf[dib.HeaderSize:]
	if a.transcoding {
		if err := transcode.Convert(payload, data, a.vc.Width, a.vc.Height, a.kind, a.standard, a.fullRange); err != nil {
			return nil, err
		}
	} else {
		// Mandatory copy: the source memory is only valid for the
		// duration of the arrival notification.
		copy(payload, data[:a.payloadSize])
	}

	a.frame.TimestampMS = timestampMS
	a.frame.Index = index
	return &a.frame, nil
}
