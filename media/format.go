// Package media defines the frame and format types that flow through the
// iris capture pipeline, from the hardware arrival callback through
// transcoding to the consumer.
package media

import "fmt"

// PixelFormat identifies the pixel layout a capture device produces.
// The packed 4:2:2 YUV members carry two luma samples and one shared
// chroma pair per macropixel; the RGB members are uncompressed.
type PixelFormat uint32

// Pixel formats advertised by supported capture hardware.
const (
	PixelFormatUnknown PixelFormat = iota
	PixelFormatUYVY
	PixelFormatYUYV
	PixelFormatYUY2
	PixelFormatHDYC
	PixelFormatRGB24
	PixelFormatRGB32
	PixelFormatARGB32
)

var pixelFormatNames = map[PixelFormat]string{
	PixelFormatUnknown: "unknown",
	PixelFormatUYVY:    "UYVY",
	PixelFormatYUYV:    "YUYV",
	PixelFormatYUY2:    "YUY2",
	PixelFormatHDYC:    "HDYC",
	PixelFormatRGB24:   "RGB24",
	PixelFormatRGB32:   "RGB32",
	PixelFormatARGB32:  "ARGB32",
}

func (f PixelFormat) String() string {
	if name, ok := pixelFormatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("PixelFormat(%d)", uint32(f))
}

// BitsPerPixel returns the storage size of one pixel in the raw stream.
func (f PixelFormat) BitsPerPixel() int {
	switch f {
	case PixelFormatUYVY, PixelFormatYUYV, PixelFormatYUY2, PixelFormatHDYC:
		return 16
	case PixelFormatRGB24:
		return 24
	case PixelFormatRGB32, PixelFormatARGB32:
		return 32
	default:
		return 0
	}
}

func fourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// FourCC returns the four-character code identifying a packed YUV layout,
// or 0 for uncompressed RGB formats.
func (f PixelFormat) FourCC() uint32 {
	switch f {
	case PixelFormatUYVY:
		return fourCC('U', 'Y', 'V', 'Y')
	case PixelFormatYUYV:
		return fourCC('Y', 'U', 'Y', 'V')
	case PixelFormatYUY2:
		return fourCC('Y', 'U', 'Y', '2')
	case PixelFormatHDYC:
		return fourCC('H', 'D', 'Y', 'C')
	default:
		return 0
	}
}

// Compression returns the compression kind implied by the pixel format.
func (f PixelFormat) Compression() CompressionKind {
	switch f {
	case PixelFormatUYVY:
		return CompressionUYVY
	case PixelFormatYUYV:
		return CompressionYUYV
	case PixelFormatYUY2:
		return CompressionYUY2
	case PixelFormatHDYC:
		return CompressionHDYC
	case PixelFormatRGB24, PixelFormatRGB32, PixelFormatARGB32:
		return CompressionNone
	default:
		return CompressionUnknown
	}
}

// CompressionKind classifies a raw frame stream for the transcoder. It
// decides whether conversion is required at all and, for the packed 4:2:2
// family, which chroma ordering the macropixels use.
type CompressionKind int

// Compression kinds derived from PixelFormat.
const (
	CompressionUnknown CompressionKind = iota
	CompressionNone                    // uncompressed RGB, passthrough
	CompressionUYVY
	CompressionYUYV
	CompressionYUY2
	CompressionHDYC
)

var compressionNames = map[CompressionKind]string{
	CompressionUnknown: "unknown",
	CompressionNone:    "none",
	CompressionUYVY:    "UYVY",
	CompressionYUYV:    "YUYV",
	CompressionYUY2:    "YUY2",
	CompressionHDYC:    "HDYC",
}

func (c CompressionKind) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CompressionKind(%d)", int(c))
}

// ChromaOrder is the position of the chroma samples within a packed
// 4:2:2 macropixel: U-first (U Y0 V Y1) or Y-first (Y0 U Y1 V).
type ChromaOrder int

// Macropixel chroma orderings.
const (
	ChromaUFirst ChromaOrder = iota
	ChromaYFirst
)

// ChromaOrder returns the macropixel sample ordering for a packed 4:2:2
// compression. The second result is false for kinds that do not transcode.
func (c CompressionKind) ChromaOrder() (ChromaOrder, bool) {
	switch c {
	case CompressionUYVY, CompressionHDYC:
		return ChromaUFirst, true
	case CompressionYUYV, CompressionYUY2:
		return ChromaYFirst, true
	default:
		return 0, false
	}
}

// RequiredInputSize returns the minimum raw buffer length for one frame of
// the given dimensions, and whether the compression is one the transcoder
// handles. Callers must pass frames of any other kind through unmodified.
func (c CompressionKind) RequiredInputSize(width, height int) (int, bool) {
	switch c {
	case CompressionUYVY, CompressionYUYV, CompressionYUY2, CompressionHDYC:
		// Two bytes per pixel: one Y per pixel, one U and one V shared
		// by each horizontal pair.
		return width * height * 2, true
	default:
		return 0, false
	}
}

// Rational is an exact frames-per-second ratio, e.g. 30000/1001 for NTSC.
type Rational struct {
	Numerator   uint32
	Denominator uint32
}

func (r Rational) String() string {
	if r.Denominator == 1 {
		return fmt.Sprintf("%d", r.Numerator)
	}
	return fmt.Sprintf("%d/%d", r.Numerator, r.Denominator)
}

// Float returns the ratio as a float64, or 0 when the denominator is zero.
func (r Rational) Float() float64 {
	if r.Denominator == 0 {
		return 0
	}
	return float64(r.Numerator) / float64(r.Denominator)
}

// VideoCharacteristics describes one capture mode a device can run:
// resolution, pixel layout, and frame rate. A device is initialized with
// exactly one of these and it is immutable for the life of the session.
type VideoCharacteristics struct {
	PixelFormat     PixelFormat
	Width           int
	Height          int
	FramesPerSecond Rational
}

func (vc VideoCharacteristics) String() string {
	return fmt.Sprintf("%dx%d %s @%sfps", vc.Width, vc.Height, vc.PixelFormat, vc.FramesPerSecond)
}

// Validate reports whether the characteristics are internally consistent:
// known pixel format, positive even-width geometry, nonzero frame rate.
// Packed 4:2:2 formats need an even width because chroma is shared by
// horizontal pixel pairs.
func (vc VideoCharacteristics) Validate() error {
	if vc.PixelFormat.Compression() == CompressionUnknown {
		return fmt.Errorf("unknown pixel format %s", vc.PixelFormat)
	}
	if vc.Width <= 0 || vc.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", vc.Width, vc.Height)
	}
	if _, packed := vc.PixelFormat.Compression().ChromaOrder(); packed && vc.Width%2 != 0 {
		return fmt.Errorf("width %d must be even for %s", vc.Width, vc.PixelFormat)
	}
	if vc.FramesPerSecond.Numerator == 0 || vc.FramesPerSecond.Denominator == 0 {
		return fmt.Errorf("invalid frame rate %s", vc.FramesPerSecond)
	}
	return nil
}

// Equal reports whether two characteristics describe the same capture mode.
func (vc VideoCharacteristics) Equal(other VideoCharacteristics) bool {
	return vc.PixelFormat == other.PixelFormat &&
		vc.Width == other.Width &&
		vc.Height == other.Height &&
		vc.FramesPerSecond.Float() == other.FramesPerSecond.Float()
}
