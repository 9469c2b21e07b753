// Package dib encodes the fixed 40-byte bitmap info header that prefixes
// every delivered frame payload. The layout mirrors the conventional
// little-endian BITMAPINFOHEADER with a positive height, marking the pixel
// rows as bottom-up.
package dib

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the encoded length of a Header in bytes.
const HeaderSize = 40

// CompressionRGB is the biCompression tag for uncompressed RGB payloads.
// Packed-YUV passthrough payloads carry the format's FourCC instead.
const CompressionRGB = 0

// Header is the descriptor written immediately before the pixel payload.
type Header struct {
	Width         int32
	Height        int32 // positive: bottom-up row order
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	PelsPerMeterX int32
	PelsPerMeterY int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// Encode writes the header into dst, which must be at least HeaderSize bytes.
func (h Header) Encode(dst []byte) error {
	if len(dst) < HeaderSize {
		return fmt.Errorf("dib: buffer too small: %d < %d", len(dst), HeaderSize)
	}
	le := binary.LittleEndian
	le.PutUint32(dst[0:], HeaderSize)
	le.PutUint32(dst[4:], uint32(h.Width))
	le.PutUint32(dst[8:], uint32(h.Height))
	le.PutUint16(dst[12:], h.Planes)
	le.PutUint16(dst[14:], h.BitCount)
	le.PutUint32(dst[16:], h.Compression)
	le.PutUint32(dst[20:], h.SizeImage)
	le.PutUint32(dst[24:], uint32(h.PelsPerMeterX))
	le.PutUint32(dst[28:], uint32(h.PelsPerMeterY))
	le.PutUint32(dst[32:], h.ClrUsed)
	le.PutUint32(dst[36:], h.ClrImportant)
	return nil
}

// Decode parses a header from src. Used by tests and diagnostic tooling.
func Decode(src []byte) (Header, error) {
	var h Header
	if len(src) < HeaderSize {
		return h, fmt.Errorf("dib: buffer too small: %d < %d", len(src), HeaderSize)
	}
	le := binary.LittleEndian
	if size := le.Uint32(src[0:]); size != HeaderSize {
		return h, fmt.Errorf("dib: unexpected header size %d", size)
	}
	h.Width = int32(le.Uint32(src[4:]))
	h.Height = int32(le.Uint32(src[8:]))
	h.Planes = le.Uint16(src[12:])
	h.BitCount = le.Uint16(src[14:])
	h.Compression = le.Uint32(src[16:])
	h.SizeImage = le.Uint32(src[20:])
	h.PelsPerMeterX = int32(le.Uint32(src[24:]))
	h.PelsPerMeterY = int32(le.Uint32(src[28:]))
	h.ClrUsed = le.Uint32(src[32:])
	h.ClrImportant = le.Uint32(src[36:])
	return h, nil
}
