// Package tilestream implements the tile-compression framing wrapped around
// TEX mip payloads.
//
// A stream is an 8-byte header, a table of NumTiles little-endian u32 slots
// and the concatenated compressed tiles. Each tile holds up to 64 KiB of
// uncompressed data and is coded independently by a Codec.
package tilestream

import (
	"encoding/binary"
	"fmt"
)

const (
	// ID is the stream identifier stored in the first header byte.
	ID = 4
	// Magic is the second header byte; it must equal ID ^ 0xFF.
	Magic = ID ^ 0xFF

	// HeaderSize is the fixed binary size of a stream header.
	HeaderSize = 8 // 1 + 1 + 2 + 4 bytes

	// TileSize is the uncompressed size of every tile except the last.
	TileSize = 64 * 1024

	// DefaultTileSizeIdx is the only tile size index seen in the wild.
	DefaultTileSizeIdx = 1

	maxLastTileSize = 1<<18 - 1
)

// Header is the 8-byte tile stream header.
// The flags word packs TileSizeIdx (2 bits), LastTileSize (18 bits) and
// Reserved (12 bits), starting at the least significant bit.
type Header struct {
	ID           uint8
	Magic        uint8
	NumTiles     uint16
	TileSizeIdx  uint8
	LastTileSize uint32 // uncompressed size of the final tile, 0 when it is full
	Reserved     uint16
}

// IsTileStream reports whether data starts with the stream id and magic bytes.
func IsTileStream(data []byte) bool {
	return len(data) >= 2 && data[0] == ID && data[1] == Magic
}

// NewHeader returns the header describing uncompressedSize bytes of input.
func NewHeader(uncompressedSize int) (*Header, error) {
	if uncompressedSize < 0 {
		return nil, fmt.Errorf("negative uncompressed size %d", uncompressedSize)
	}
	numTiles := uncompressedSize / TileSize
	lastTileSize := uncompressedSize - numTiles*TileSize
	if lastTileSize != 0 {
		numTiles++
	}
	if numTiles > 0xFFFF {
		return nil, fmt.Errorf("uncompressed size %d needs %d tiles, max is %d", uncompressedSize, numTiles, 0xFFFF)
	}
	return &Header{
		ID:           ID,
		Magic:        Magic,
		NumTiles:     uint16(numTiles),
		TileSizeIdx:  DefaultTileSizeIdx,
		LastTileSize: uint32(lastTileSize),
	}, nil
}

// Size returns the binary size of the header.
func (h *Header) Size() int {
	return HeaderSize
}

// Flags returns the packed flags word.
func (h *Header) Flags() uint32 {
	return uint32(h.TileSizeIdx)&0x3 |
		(h.LastTileSize&maxLastTileSize)<<2 |
		(uint32(h.Reserved)&0xFFF)<<20
}

// SetFlags unpacks a flags word into the header fields.
func (h *Header) SetFlags(flags uint32) {
	h.TileSizeIdx = uint8(flags & 0x3)
	h.LastTileSize = (flags >> 2) & maxLastTileSize
	h.Reserved = uint16(flags >> 20)
}

// Validate checks the id/magic pair and the tile counts.
func (h *Header) Validate() error {
	if h.ID != h.Magic^0xFF || h.ID != ID {
		return fmt.Errorf("%w: id 0x%02x magic 0x%02x", ErrBadData, h.ID, h.Magic)
	}
	if h.LastTileSize > TileSize {
		return fmt.Errorf("%w: last tile size %d exceeds tile size", ErrBadData, h.LastTileSize)
	}
	if h.NumTiles == 0 && h.LastTileSize != 0 {
		return fmt.Errorf("%w: partial last tile without tiles", ErrBadData)
	}
	return nil
}

// UncompressedSize returns the logical size of the decompressed stream.
func (h *Header) UncompressedSize() int {
	size := int(h.NumTiles) * TileSize
	if h.LastTileSize != 0 {
		size -= TileSize - int(h.LastTileSize)
	}
	return max(0, size)
}

// MarshalBinary encodes the header to binary format.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to the given buffer.
// The buffer must be at least HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	buf[0] = h.ID
	buf[1] = h.Magic
	binary.LittleEndian.PutUint16(buf[2:4], h.NumTiles)
	binary.LittleEndian.PutUint32(buf[4:8], h.Flags())
}

// UnmarshalBinary decodes and validates the header.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: header needs %d bytes, got %d", ErrBadData, HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from the given buffer.
// Does not validate - use UnmarshalBinary for validation.
func (h *Header) DecodeFrom(data []byte) {
	h.ID = data[0]
	h.Magic = data[1]
	h.NumTiles = binary.LittleEndian.Uint16(data[2:4])
	h.SetFlags(binary.LittleEndian.Uint32(data[4:8]))
}
