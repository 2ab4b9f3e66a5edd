package tilestream

import (
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

func init() {
	Register(LZ4{})
}

// LZ4 codes tiles as raw LZ4 blocks.
type LZ4 struct{}

// Name implements Codec.
func (LZ4) Name() string { return "lz4" }

// NewDecoder implements Codec.
func (LZ4) NewDecoder() (Decoder, error) {
	return &lz4Decoder{}, nil
}

// NewEncoder implements Codec.
func (LZ4) NewEncoder() (Encoder, error) {
	return &lz4Encoder{}, nil
}

type lz4Decoder struct {
	buf []byte
}

func (d *lz4Decoder) DecodeTile(src []byte, capacity int) ([]byte, error) {
	if cap(d.buf) < capacity {
		d.buf = make([]byte, capacity)
	}

	// Block decoding cannot tell a short destination from corrupt input.
	n, err := lz4.UncompressBlock(src, d.buf[:capacity])
	if err != nil {
		return nil, errors.Join(ErrBadData, err)
	}
	return d.buf[:n], nil
}

func (d *lz4Decoder) Close() error {
	return nil
}

type lz4Encoder struct {
	c   lz4.Compressor
	buf []byte
}

func (e *lz4Encoder) EncodeTile(src []byte) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(src))
	if cap(e.buf) < bound {
		e.buf = make([]byte, bound)
	}

	n, err := e.c.CompressBlock(src, e.buf[:bound])
	if err != nil {
		return nil, err
	}
	if n == 0 && len(src) > 0 {
		return nil, fmt.Errorf("lz4: %d byte tile is incompressible", len(src))
	}
	return e.buf[:n], nil
}

func (e *lz4Encoder) Close() error {
	return nil
}
