package tilestream

import (
	"errors"

	"github.com/DataDog/zstd"
)

func init() {
	Register(Zstd{})
}

// Zstd codes tiles as zstd frames. Decoders and encoders keep one zstd
// context each and reuse it across tiles.
type Zstd struct {
	// Level is a zstd compression level. Zero selects zstd.BestSpeed.
	Level int
}

// Name implements Codec.
func (Zstd) Name() string { return "zstd" }

// NewDecoder implements Codec.
func (Zstd) NewDecoder() (Decoder, error) {
	return &zstdDecoder{ctx: zstd.NewCtx()}, nil
}

// NewEncoder implements Codec.
func (z Zstd) NewEncoder() (Encoder, error) {
	level := z.Level
	if level == 0 {
		level = zstd.BestSpeed
	}
	return &zstdEncoder{ctx: zstd.NewCtx(), level: level}, nil
}

type zstdDecoder struct {
	ctx zstd.Ctx
	buf []byte
}

func (d *zstdDecoder) DecodeTile(src []byte, capacity int) ([]byte, error) {
	if cap(d.buf) < capacity {
		d.buf = make([]byte, capacity)
	}

	out, err := d.ctx.Decompress(d.buf[:capacity], src)
	if err != nil {
		return nil, zstdStatus(err)
	}
	// The context falls back to a growing buffer when dst is too small.
	if len(out) > capacity {
		return nil, ErrInsufficientSpace
	}
	return out, nil
}

func (d *zstdDecoder) Close() error {
	return nil
}

func zstdStatus(err error) error {
	var code zstd.ErrorCode
	switch {
	case zstd.IsDstSizeTooSmallError(err):
		return errors.Join(ErrInsufficientSpace, err)
	case errors.As(err, &code), errors.Is(err, zstd.ErrEmptySlice):
		return errors.Join(ErrBadData, err)
	default:
		return &UnknownStatusError{Codec: "zstd", Err: err}
	}
}

type zstdEncoder struct {
	ctx   zstd.Ctx
	level int
	buf   []byte
}

func (e *zstdEncoder) EncodeTile(src []byte) ([]byte, error) {
	out, err := e.ctx.CompressLevel(e.buf[:0], src, e.level)
	if err != nil {
		return nil, err
	}
	e.buf = out
	return out, nil
}

func (e *zstdEncoder) Close() error {
	return nil
}
