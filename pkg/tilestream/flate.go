package tilestream

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/flate"
)

// DefaultCodec names the codec used when none is configured.
const DefaultCodec = "deflate"

func init() {
	Register(Flate{})
}

// Flate codes tiles as raw DEFLATE blocks.
type Flate struct {
	// Level is a flate compression level. Zero selects flate.DefaultCompression.
	Level int
}

// Name implements Codec.
func (Flate) Name() string { return "deflate" }

// NewDecoder implements Codec.
func (Flate) NewDecoder() (Decoder, error) {
	return &flateDecoder{}, nil
}

// NewEncoder implements Codec.
func (f Flate) NewEncoder() (Encoder, error) {
	level := f.Level
	if level == 0 {
		level = flate.DefaultCompression
	}
	e := &flateEncoder{}
	w, err := flate.NewWriter(&e.buf, level)
	if err != nil {
		return nil, err
	}
	e.w = w
	return e, nil
}

type flateDecoder struct {
	r   io.ReadCloser
	src bytes.Reader
	buf []byte
}

func (d *flateDecoder) DecodeTile(src []byte, capacity int) ([]byte, error) {
	d.src.Reset(src)
	if d.r == nil {
		d.r = flate.NewReader(&d.src)
	} else if err := d.r.(flate.Resetter).Reset(&d.src, nil); err != nil {
		return nil, &UnknownStatusError{Codec: "deflate", Err: err}
	}

	// One spare byte distinguishes "exactly capacity" from "too much".
	if cap(d.buf) < capacity+1 {
		d.buf = make([]byte, capacity+1)
	}
	buf := d.buf[:capacity+1]

	n := 0
	for {
		if n == len(buf) {
			return nil, ErrInsufficientSpace
		}
		m, err := d.r.Read(buf[n:])
		n += m
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, flateStatus(err)
		}
	}
	return buf[:n], nil
}

func (d *flateDecoder) Close() error {
	if d.r == nil {
		return nil
	}
	return d.r.Close()
}

func flateStatus(err error) error {
	var corrupt flate.CorruptInputError
	switch {
	case errors.As(err, &corrupt), errors.Is(err, io.ErrUnexpectedEOF):
		return errors.Join(ErrBadData, err)
	default:
		return &UnknownStatusError{Codec: "deflate", Err: err}
	}
}

type flateEncoder struct {
	w   *flate.Writer
	buf bytes.Buffer
}

func (e *flateEncoder) EncodeTile(src []byte) ([]byte, error) {
	e.buf.Reset()
	e.w.Reset(&e.buf)
	if _, err := e.w.Write(src); err != nil {
		return nil, err
	}
	if err := e.w.Close(); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

func (e *flateEncoder) Close() error {
	return nil
}
