package tilestream

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Compressor builds tile streams. It owns one Encoder; call Close to release it.
type Compressor struct {
	codec Codec
	enc   Encoder
}

// NewCompressor creates a compressor backed by codec.
func NewCompressor(codec Codec) (*Compressor, error) {
	if codec == nil {
		return nil, fmt.Errorf("%w: no codec configured", ErrEncoderCreation)
	}

	enc, err := codec.NewEncoder()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEncoderCreation, codec.Name(), err)
	}
	return &Compressor{codec: codec, enc: enc}, nil
}

// Compress splits data into 64 KiB tiles, encodes each one independently and
// frames the result with a header and offset table.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	h, err := NewHeader(len(data))
	if err != nil {
		return nil, err
	}

	n := int(h.NumTiles)
	tiles := make([][]byte, n)
	total := 0
	for i := range tiles {
		start := i * TileSize
		end := min(start+TileSize, len(data))

		encoded, err := c.enc.EncodeTile(data[start:end])
		if err != nil {
			return nil, fmt.Errorf("encode tile %d: %w", i, err)
		}
		tiles[i] = append([]byte(nil), encoded...)
		total += len(encoded)
	}
	if total > math.MaxUint32 {
		return nil, fmt.Errorf("compressed tiles total %d bytes, offsets are 32-bit", total)
	}

	tableEnd := HeaderSize + 4*n
	out := make([]byte, tableEnd, tableEnd+total)
	h.EncodeTo(out)

	offset := 0
	for i, tile := range tiles {
		if i > 0 {
			binary.LittleEndian.PutUint32(out[HeaderSize+4*i:], uint32(offset))
		}
		out = append(out, tile...)
		offset += len(tile)
	}
	if n > 0 {
		binary.LittleEndian.PutUint32(out[HeaderSize:], uint32(len(tiles[n-1])))
	}

	return out, nil
}

// Close releases the encoder.
func (c *Compressor) Close() error {
	if c.enc == nil {
		return nil
	}
	err := c.enc.Close()
	c.enc = nil
	return err
}

// Compress encodes data with a compressor scoped to the call.
func Compress(codec Codec, data []byte) ([]byte, error) {
	c, err := NewCompressor(codec)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	return c.Compress(data)
}
