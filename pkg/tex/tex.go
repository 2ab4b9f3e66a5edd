package tex

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/goopsie/texFileTools/pkg/tilestream"
)

var (
	// ErrNotTexFile reports input that does not start with the TEX magic.
	ErrNotTexFile = errors.New("tex: not a tex file")
	// ErrUnimplemented reports a header feature this package cannot interpret.
	ErrUnimplemented = errors.New("tex: unimplemented")
	// ErrInternal reports inconsistent tables or mip sizes.
	ErrInternal = errors.New("tex: internal inconsistency")
	// ErrNoDecompressor reports a tile-compressed mip read without a decompressor.
	ErrNoDecompressor = errors.New("tex: tile-compressed mip needs a decompressor")
)

// MipData is one mip level: its table records and its bytes, which are still
// tile-compressed when IsCompressed is set.
type MipData struct {
	Entry        MipEntry
	Info         CompressionInfo
	Data         []byte
	IsCompressed bool
}

// NewMipData builds a MipData, sniffing Data for a tile stream.
func NewMipData(entry MipEntry, info CompressionInfo, data []byte) MipData {
	return MipData{
		Entry:        entry,
		Info:         info,
		Data:         data,
		IsCompressed: tilestream.IsTileStream(data),
	}
}

// Uncompressed returns the mip's raw bytes. Raw mips are returned as is;
// tile-compressed mips are decoded with d.
func (m *MipData) Uncompressed(d *tilestream.Decompressor) ([]byte, error) {
	if !m.IsCompressed {
		return m.Data, nil
	}
	if d == nil {
		return nil, ErrNoDecompressor
	}
	return d.Decompress(m.Data)
}

// UncompressedLen returns the raw length of the mip. For tile-compressed mips
// this is the size declared by the tile stream header.
func (m *MipData) UncompressedLen() (int, error) {
	if !m.IsCompressed {
		return len(m.Data), nil
	}
	var h tilestream.Header
	if err := h.UnmarshalBinary(m.Data); err != nil {
		return 0, err
	}
	return h.UncompressedSize(), nil
}

// Tex is a parsed TEX file. Mips are ordered texture-major: all levels of
// texture 0, then all levels of texture 1, and so on.
type Tex struct {
	Header Header
	Mips   []MipData
}

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	codec   tilestream.Codec
	workers int
}

// WithCodec validates tile-compressed mips by decompressing them with c
// instead of trusting the size declared in their tile stream header.
func WithCodec(c tilestream.Codec) ParseOption {
	return func(o *parseOptions) {
		o.codec = c
	}
}

// WithWorkers sets the tile decoding parallelism used with WithCodec.
func WithWorkers(n int) ParseOption {
	return func(o *parseOptions) {
		o.workers = n
	}
}

// Parse decodes a TEX file held in memory. Mip data slices alias data.
// No Tex is returned unless the whole file is consistent.
func Parse(data []byte, opts ...ParseOption) (*Tex, error) {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}

	t := &Tex{}
	if err := t.Header.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	n := t.Header.NumMips()
	tables := data[t.Header.Size():]
	entries, infos, err := ReadMipTable(tables, n)
	if err != nil {
		return nil, err
	}
	if len(entries) != len(infos) {
		return nil, fmt.Errorf("%w: %d mip entries but %d compression infos", ErrInternal, len(entries), len(infos))
	}

	blob := tables[MipTableSize(n):]
	t.Mips = make([]MipData, n)
	for i := range t.Mips {
		info := infos[i]
		if info.End() > uint64(len(blob)) {
			return nil, fmt.Errorf("%w: mip %d spans [%d, %d) of a %d byte blob",
				ErrInternal, i, info.CompressedOffset, info.End(), len(blob))
		}
		t.Mips[i] = NewMipData(entries[i], info, blob[info.CompressedOffset:info.End()])
	}

	if err := t.validate(o); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tex) validate(o parseOptions) error {
	var d *tilestream.Decompressor
	defer func() {
		if d != nil {
			d.Close()
		}
	}()

	for i := range t.Mips {
		m := &t.Mips[i]

		var got int
		switch {
		case m.IsCompressed && o.codec != nil:
			if d == nil {
				var err error
				if d, err = tilestream.NewDecompressor(o.codec, tilestream.WithWorkers(o.workers)); err != nil {
					return err
				}
			}
			raw, err := d.Decompress(m.Data)
			if err != nil {
				return fmt.Errorf("decompress mip %d: %w", i, err)
			}
			got = len(raw)
		default:
			var err error
			if got, err = m.UncompressedLen(); err != nil {
				return fmt.Errorf("mip %d: %w", i, err)
			}
		}

		if want := t.ExpectedSize(i); got != want {
			return fmt.Errorf("%w: mip %d (texture %d, level %d) is %d bytes, entry expects %d",
				ErrInternal, i, t.TextureIndex(i), t.MipLevel(i), got, want)
		}
	}
	return nil
}

// Decode reads a whole TEX file from r and parses it.
func Decode(r io.Reader, opts ...ParseOption) (*Tex, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tex: %w", err)
	}
	return Parse(data, opts...)
}

// ReadFile reads and parses a TEX file.
func ReadFile(path string, opts ...ParseOption) (*Tex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tex file: %w", err)
	}

	t, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// MarshalBinary encodes the header, the entry table, the compression info
// table and then every mip's bytes in table order.
func (t *Tex) MarshalBinary() ([]byte, error) {
	if len(t.Mips) != t.Header.NumMips() {
		return nil, fmt.Errorf("%w: header declares %d mips, have %d", ErrInternal, t.Header.NumMips(), len(t.Mips))
	}

	size := t.Header.Size() + MipTableSize(len(t.Mips))
	for i := range t.Mips {
		size += len(t.Mips[i].Data)
	}

	buf := make([]byte, t.Header.Size(), size)
	t.Header.EncodeTo(buf)

	entries := make([]MipEntry, len(t.Mips))
	infos := make([]CompressionInfo, len(t.Mips))
	for i := range t.Mips {
		entries[i] = t.Mips[i].Entry
		infos[i] = t.Mips[i].Info
	}

	buf, err := AppendMipTable(buf, entries, infos)
	if err != nil {
		return nil, err
	}
	for i := range t.Mips {
		buf = append(buf, t.Mips[i].Data...)
	}

	return buf, nil
}

// WriteFile writes a TEX file.
func WriteFile(path string, t *Tex) error {
	data, err := t.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal tex: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// DecompressAll replaces every tile-compressed mip with its raw bytes and
// lays the blob out again, assigning CompressedOffset as a running sum of
// CompressedSize in table order. t is left unchanged on error.
func (t *Tex) DecompressAll(codec tilestream.Codec, opts ...tilestream.DecompressorOption) error {
	var d *tilestream.Decompressor
	defer func() {
		if d != nil {
			d.Close()
		}
	}()

	mips := make([]MipData, len(t.Mips))
	copy(mips, t.Mips)

	var offset uint64
	for i := range mips {
		m := &mips[i]
		if m.IsCompressed {
			if d == nil {
				var err error
				if d, err = tilestream.NewDecompressor(codec, opts...); err != nil {
					return err
				}
			}
			raw, err := d.Decompress(m.Data)
			if err != nil {
				return fmt.Errorf("decompress mip %d: %w", i, err)
			}
			if want := t.ExpectedSize(i); len(raw) != want {
				return fmt.Errorf("%w: mip %d decompressed to %d bytes, entry expects %d", ErrInternal, i, len(raw), want)
			}
			m.Data = raw
			m.Info.CompressedSize = uint32(len(raw))
			m.IsCompressed = false
		}

		if offset > math.MaxUint32 {
			return fmt.Errorf("%w: blob offset %d overflows 32 bits", ErrInternal, offset)
		}
		m.Info.CompressedOffset = uint32(offset)
		offset += uint64(m.Info.CompressedSize)
	}

	t.Mips = mips
	return nil
}

// MipCount returns the total number of mips across all textures.
func (t *Tex) MipCount() int {
	return len(t.Mips)
}

// MipLevel returns the mip level of the i-th mip record.
func (t *Tex) MipLevel(i int) int {
	if t.Header.MipmapCount == 0 {
		return 0
	}
	return i % int(t.Header.MipmapCount)
}

// TextureIndex returns the texture the i-th mip record belongs to.
func (t *Tex) TextureIndex(i int) int {
	if t.Header.MipmapCount == 0 {
		return 0
	}
	return i / int(t.Header.MipmapCount)
}

// Mip returns the given level of the given texture.
func (t *Tex) Mip(texIdx, level int) (*MipData, error) {
	if texIdx < 0 || texIdx >= int(t.Header.TexCount) {
		return nil, fmt.Errorf("texture index %d out of range [0, %d)", texIdx, t.Header.TexCount)
	}
	if level < 0 || level >= int(t.Header.MipmapCount) {
		return nil, fmt.Errorf("mip level %d out of range [0, %d)", level, t.Header.MipmapCount)
	}

	i := texIdx*int(t.Header.MipmapCount) + level
	if i >= len(t.Mips) {
		return nil, fmt.Errorf("%w: mip %d missing", ErrInternal, i)
	}
	return &t.Mips[i], nil
}

// ExpectedSize returns the raw length the i-th mip must have: the entry's
// per-slice size times the depth at its level, which halves per level down
// to one.
func (t *Tex) ExpectedSize(i int) int {
	depth := max(1, uint32(t.Header.Depth)>>t.MipLevel(i))
	return int(t.Mips[i].Entry.UncompressedSize) * int(depth)
}
