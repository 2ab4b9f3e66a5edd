package tilestream

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Decompressor reassembles tile streams. It owns one Decoder that is reused
// for every tile it decodes sequentially; call Close to release it.
type Decompressor struct {
	codec   Codec
	dec     Decoder
	workers int
}

// DecompressorOption configures a Decompressor.
type DecompressorOption func(*Decompressor)

// WithWorkers decodes tiles on n goroutines, each with its own decoder.
// Values below 2 keep decoding sequential.
func WithWorkers(n int) DecompressorOption {
	return func(d *Decompressor) {
		d.workers = n
	}
}

// NewDecompressor creates a decompressor backed by codec.
func NewDecompressor(codec Codec, opts ...DecompressorOption) (*Decompressor, error) {
	if codec == nil {
		return nil, fmt.Errorf("%w: no codec configured", ErrDecoderCreation)
	}

	d := &Decompressor{codec: codec, workers: 1}
	for _, opt := range opts {
		opt(d)
	}

	dec, err := codec.NewDecoder()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecoderCreation, codec.Name(), err)
	}
	d.dec = dec
	return d, nil
}

// Codec returns the codec tiles are decoded with.
func (d *Decompressor) Codec() Codec {
	return d.codec
}

// Decompress decodes a whole tile stream payload.
func (d *Decompressor) Decompress(payload []byte) ([]byte, error) {
	s, err := Parse(payload)
	if err != nil {
		return nil, err
	}

	out := make([]byte, s.UncompressedSize())
	n := s.NumTiles()

	if d.workers > 1 && n > 1 {
		if err := d.decompressParallel(s, out); err != nil {
			return nil, err
		}
		return out, nil
	}

	for i := 0; i < n; i++ {
		if err := decodeTile(d.dec, s, i, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decompressParallel splits tiles across workers. Tiles write to disjoint
// ranges of out, so the only shared state is the output buffer.
func (d *Decompressor) decompressParallel(s *Stream, out []byte) error {
	n := s.NumTiles()
	workers := min(d.workers, n)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			dec, err := d.codec.NewDecoder()
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrDecoderCreation, d.codec.Name(), err)
			}
			defer dec.Close()

			for i := w; i < n; i += workers {
				if err := decodeTile(dec, s, i, out); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func decodeTile(dec Decoder, s *Stream, i int, out []byte) error {
	src, err := s.Tile(i)
	if err != nil {
		return err
	}

	start, end := s.TileOutput(i)
	decoded, err := dec.DecodeTile(src, TileSize)
	if err != nil {
		return fmt.Errorf("tile %d: %w", i, err)
	}

	want := end - start
	switch {
	case len(decoded) > want:
		return fmt.Errorf("tile %d: %w: decoded %d bytes into %d", i, ErrInsufficientSpace, len(decoded), want)
	case len(decoded) < want:
		return fmt.Errorf("tile %d: %w: decoded %d bytes, want %d", i, ErrBadData, len(decoded), want)
	}

	copy(out[start:end], decoded)
	return nil
}

// Close releases the decoder.
func (d *Decompressor) Close() error {
	if d.dec == nil {
		return nil
	}
	err := d.dec.Close()
	d.dec = nil
	return err
}

// Decompress decodes one payload with a decompressor scoped to the call.
func Decompress(codec Codec, payload []byte) ([]byte, error) {
	d, err := NewDecompressor(codec)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	return d.Decompress(payload)
}
