// Package tex reads and writes TEX texture containers.
//
// A TEX file is a version-dependent header, a table of MipEntry records, a
// table of CompressionInfo records and a data blob holding each mip's bytes.
// Mip payloads may be wrapped in a tile stream (see package tilestream).
package tex

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/goopsie/texFileTools/pkg/format"
)

// Magic bytes identifying a TEX file.
var Magic = [4]byte{0x54, 0x45, 0x58, 0x00} // "TEX\0"

const (
	// baseHeaderSize covers the fields present in every version.
	baseHeaderSize = 32 // 4 + 4 + 2*3 + 1 + 1 + 4 + 4 + 4 + 1 + 1 + 2 bytes
	// swizzleFieldsSize covers the trailing swizzle fields of newer versions.
	swizzleFieldsSize = 8 // 1 + 1 + 2 + 2 + 2 bytes

	// legacyVersion is excluded from both version-gated layouts.
	legacyVersion = 190820018
)

// Header is the TEX file header. Which fields exist on disk depends on Version.
type Header struct {
	Magic   [4]byte
	Version uint32
	Width   uint16
	Height  uint16
	Depth   uint16

	MipmapCount      uint8
	TexCount         uint8
	MipmapHeaderSize uint8 // on disk instead of MipmapCount when HasMipmapHeaderSize

	Format         format.TexFormat
	SwizzleControl int32
	CubemapMarker  uint32
	Reserved0      uint8
	Reserved1      uint8
	Reserved2      uint16

	// Present only when HasSwizzleFields.
	SwizzleHeightDepth uint8
	SwizzleWidth       uint8
	Reserved3          uint16
	SwizzleParam0      uint16
	SwizzleParam1      uint16
}

// HasMipmapHeaderSize reports whether the header stores the mip table size
// rather than the mip count.
func (h *Header) HasMipmapHeaderSize() bool {
	return h.Version > 11 && h.Version != legacyVersion
}

// HasSwizzleFields reports whether the header carries the swizzle fields.
func (h *Header) HasSwizzleFields() bool {
	return h.Version > 27 && h.Version != legacyVersion
}

// Size returns the binary size of the header.
func (h *Header) Size() int {
	if h.HasSwizzleFields() {
		return baseHeaderSize + swizzleFieldsSize
	}
	return baseHeaderSize
}

// NumMips returns the number of mip records, MipmapCount * TexCount.
func (h *Header) NumMips() int {
	return int(h.MipmapCount) * int(h.TexCount)
}

// IsCubemap reports whether the texture is a cubemap.
func (h *Header) IsCubemap() bool {
	return h.CubemapMarker != 0
}

// MarshalBinary encodes the header with the field set selected by Version.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, h.Size())
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to the given buffer.
// The buffer must be at least h.Size() bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint16(buf[8:10], h.Width)
	binary.LittleEndian.PutUint16(buf[10:12], h.Height)
	binary.LittleEndian.PutUint16(buf[12:14], h.Depth)

	if h.HasMipmapHeaderSize() {
		buf[14] = h.TexCount
		buf[15] = h.MipmapHeaderSize
	} else {
		buf[14] = h.MipmapCount
		buf[15] = h.TexCount
	}

	binary.LittleEndian.PutUint32(buf[16:20], uint32(h.Format))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(h.SwizzleControl))
	binary.LittleEndian.PutUint32(buf[24:28], h.CubemapMarker)
	buf[28] = h.Reserved0
	buf[29] = h.Reserved1
	binary.LittleEndian.PutUint16(buf[30:32], h.Reserved2)

	if h.HasSwizzleFields() {
		buf[32] = h.SwizzleHeightDepth
		buf[33] = h.SwizzleWidth
		binary.LittleEndian.PutUint16(buf[34:36], h.Reserved3)
		binary.LittleEndian.PutUint16(buf[36:38], h.SwizzleParam0)
		binary.LittleEndian.PutUint16(buf[38:40], h.SwizzleParam1)
	}
}

// UnmarshalBinary decodes and validates the header.
// The magic is checked before any other field is read.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("read magic: %w", io.ErrUnexpectedEOF)
	}
	copy(h.Magic[:], data[0:4])
	if h.Magic != Magic {
		return fmt.Errorf("%w: magic %x", ErrNotTexFile, h.Magic)
	}

	if len(data) < 8 {
		return fmt.Errorf("read version: %w", io.ErrUnexpectedEOF)
	}
	h.Version = binary.LittleEndian.Uint32(data[4:8])
	if len(data) < h.Size() {
		return fmt.Errorf("read header: version %d needs %d bytes, got %d: %w",
			h.Version, h.Size(), len(data), io.ErrUnexpectedEOF)
	}

	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from the given buffer.
// Does not validate - use UnmarshalBinary for validation.
func (h *Header) DecodeFrom(data []byte) {
	copy(h.Magic[:], data[0:4])
	h.Version = binary.LittleEndian.Uint32(data[4:8])
	h.Width = binary.LittleEndian.Uint16(data[8:10])
	h.Height = binary.LittleEndian.Uint16(data[10:12])
	h.Depth = binary.LittleEndian.Uint16(data[12:14])

	if h.HasMipmapHeaderSize() {
		h.TexCount = data[14]
		h.MipmapHeaderSize = data[15]
		h.MipmapCount = h.MipmapHeaderSize / MipEntrySize
	} else {
		h.MipmapCount = data[14]
		h.TexCount = data[15]
	}

	h.Format = format.TexFormat(binary.LittleEndian.Uint32(data[16:20]))
	h.SwizzleControl = int32(binary.LittleEndian.Uint32(data[20:24]))
	h.CubemapMarker = binary.LittleEndian.Uint32(data[24:28])
	h.Reserved0 = data[28]
	h.Reserved1 = data[29]
	h.Reserved2 = binary.LittleEndian.Uint16(data[30:32])

	if h.HasSwizzleFields() {
		h.SwizzleHeightDepth = data[32]
		h.SwizzleWidth = data[33]
		h.Reserved3 = binary.LittleEndian.Uint16(data[34:36])
		h.SwizzleParam0 = binary.LittleEndian.Uint16(data[36:38])
		h.SwizzleParam1 = binary.LittleEndian.Uint16(data[38:40])
	}
}

// Validate checks the header for validity.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("%w: magic %x", ErrNotTexFile, h.Magic)
	}
	if _, err := format.Lookup(uint32(h.Format)); err != nil {
		return err
	}
	if h.SwizzleControl == 1 {
		return fmt.Errorf("%w: pixel swizzling", ErrUnimplemented)
	}
	return nil
}
