package tilestream

import (
	"encoding/binary"
	"fmt"
)

// Stream is a parsed tile stream. It references the payload it was parsed
// from and must not outlive it.
//
// On disk the first offset-table slot holds the compressed length of the last
// tile, since tile 0 always starts at offset 0. Stream keeps the two meanings
// apart: Offsets[0] is always 0 and LastTileCompressedSize carries the length.
type Stream struct {
	Header                 Header
	Offsets                []uint32 // start of each tile, relative to the tile data
	LastTileCompressedSize uint32

	data []byte
}

// Parse reads the header and offset table of a tile stream payload.
func Parse(payload []byte) (*Stream, error) {
	s := &Stream{}
	if err := s.Header.UnmarshalBinary(payload); err != nil {
		return nil, err
	}

	n := int(s.Header.NumTiles)
	tableEnd := HeaderSize + 4*n
	if len(payload) < tableEnd {
		return nil, fmt.Errorf("%w: offset table needs %d bytes, payload has %d", ErrBadData, tableEnd, len(payload))
	}

	s.Offsets = make([]uint32, n)
	for i := 1; i < n; i++ {
		s.Offsets[i] = binary.LittleEndian.Uint32(payload[HeaderSize+4*i:])
	}
	if n > 0 {
		s.LastTileCompressedSize = binary.LittleEndian.Uint32(payload[HeaderSize:])
	}
	s.data = payload[tableEnd:]

	return s, nil
}

// NumTiles returns the number of tiles in the stream.
func (s *Stream) NumTiles() int {
	return int(s.Header.NumTiles)
}

// UncompressedSize returns the logical size of the decompressed stream.
func (s *Stream) UncompressedSize() int {
	return s.Header.UncompressedSize()
}

// TileBounds returns the byte range of tile i within the tile data.
func (s *Stream) TileBounds(i int) (start, end int, err error) {
	n := s.NumTiles()
	if i < 0 || i >= n {
		return 0, 0, fmt.Errorf("tile index %d out of range [0, %d)", i, n)
	}

	start = int(s.Offsets[i])
	if i < n-1 {
		end = int(s.Offsets[i+1])
	} else {
		end = start + int(s.LastTileCompressedSize)
	}

	if end < start || end > len(s.data) {
		return 0, 0, fmt.Errorf("%w: tile %d spans [%d, %d) of %d data bytes", ErrBadData, i, start, end, len(s.data))
	}
	return start, end, nil
}

// Tile returns the compressed bytes of tile i.
func (s *Stream) Tile(i int) ([]byte, error) {
	start, end, err := s.TileBounds(i)
	if err != nil {
		return nil, err
	}
	return s.data[start:end], nil
}

// TileOutput returns the range tile i occupies in the decompressed output.
func (s *Stream) TileOutput(i int) (start, end int) {
	start = i * TileSize
	end = min(start+TileSize, s.UncompressedSize())
	return start, end
}
