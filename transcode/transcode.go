// Package transcode converts packed 4:2:2 YUV scanlines into bottom-up
// 24-bit RGB using fixed-point integer arithmetic. It is a pure numeric
// engine: no state, no I/O, and deterministic output regardless of how many
// worker goroutines share the conversion.
package transcode

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/zsiec/iris/media"
)

// ErrUnsupportedFormat indicates a compression kind with no defined
// conversion. Callers should consult media.CompressionKind.RequiredInputSize
// first and pass such frames through unmodified.
var ErrUnsupportedFormat = errors.New("transcode: unsupported compression")

// OutputSize returns the RGB24 destination length for one frame.
func OutputSize(width, height int) int {
	return width * height * 3
}

// Convert transcodes one packed 4:2:2 frame from src into dst as bottom-up
// BGR triplets. dst must hold at least OutputSize(width, height) bytes and
// src at least the kind's RequiredInputSize. Rows are partitioned into
// contiguous bands, one per available processing unit, and joined before
// Convert returns; no part of dst is valid until then.
func Convert(dst, src []byte, width, height int, kind media.CompressionKind, standard ColorStandard, fullRange bool) error {
	return convertBands(dst, src, width, height, kind, standard, fullRange, runtime.GOMAXPROCS(0))
}

func convertBands(dst, src []byte, width, height int, kind media.CompressionKind, standard ColorStandard, fullRange bool, bands int) error {
	need, ok := kind.RequiredInputSize(width, height)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind)
	}
	order, _ := kind.ChromaOrder()

	// Chroma is shared by horizontal pixel pairs, so a 4:2:2 row cannot
	// have an odd pixel count.
	if width <= 0 || width%2 != 0 || height <= 0 {
		return fmt.Errorf("transcode: invalid dimensions %dx%d for 4:2:2 input", width, height)
	}

	if len(src) < need {
		return fmt.Errorf("transcode: source buffer too small: %d < %d", len(src), need)
	}
	if out := OutputSize(width, height); len(dst) < out {
		return fmt.Errorf("transcode: destination buffer too small: %d < %d", len(dst), out)
	}

	// Auto is resolved per call so a device reconfiguration between frames
	// never observes a stale choice.
	coeff := lookupCoefficients(standard.Resolve(width, height), fullRange)

	if bands > height {
		bands = height
	}
	if bands <= 1 {
		convertRows(dst, src, width, height, 0, height, order, coeff)
		return nil
	}

	rowsPer := height / bands
	extra := height % bands

	var g errgroup.Group
	row := 0
	for i := 0; i < bands; i++ {
		rows := rowsPer
		if i < extra {
			rows++
		}
		first, last := row, row+rows
		row = last
		g.Go(func() error {
			convertRows(dst, src, width, height, first, last, order, coeff)
			return nil
		})
	}
	return g.Wait()
}

// convertRows transcodes input rows [first, last). Bands never share input
// rows or output rows, so no synchronization is needed inside the kernel.
func convertRows(dst, src []byte, width, height, first, last int, order media.ChromaOrder, c coefficients) {
	srcStride := width * 2
	dstStride := width * 3

	for row := first; row < last; row++ {
		in := src[row*srcStride : row*srcStride+srcStride]
		// Output is vertically flipped: bottom-up bitmap row order.
		outRow := height - 1 - row
		out := dst[outRow*dstStride : outRow*dstStride+dstStride]

		di := 0
		for si := 0; si < srcStride; si += 4 {
			var y0, u, y1, v int32
			if order == media.ChromaUFirst {
				u = int32(in[si])
				y0 = int32(in[si+1])
				v = int32(in[si+2])
				y1 = int32(in[si+3])
			} else {
				y0 = int32(in[si])
				u = int32(in[si+1])
				y1 = int32(in[si+2])
				v = int32(in[si+3])
			}

			u -= 128
			v -= 128
			y0 -= c.yOffset
			y1 -= c.yOffset

			out[di+0] = clip((c.multY*y0 + c.multUB*u + 128) >> 8)
			out[di+1] = clip((c.multY*y0 - c.multUG*u - c.multVG*v + 128) >> 8)
			out[di+2] = clip((c.multY*y0 + c.multVR*v + 128) >> 8)

			out[di+3] = clip((c.multY*y1 + c.multUB*u + 128) >> 8)
			out[di+4] = clip((c.multY*y1 - c.multUG*u - c.multVG*v + 128) >> 8)
			out[di+5] = clip((c.multY*y1 + c.multVR*v + 128) >> 8)

			di += 6
		}
	}
}

func clip(v int32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
