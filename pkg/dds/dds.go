// Package dds exports TEX textures as DirectDraw Surface files with the DX10
// header extension, and reads such files back.
package dds

import (
	"encoding/binary"
	"fmt"

	"github.com/goopsie/texFileTools/pkg/format"
	"github.com/goopsie/texFileTools/pkg/tex"
	"github.com/goopsie/texFileTools/pkg/tilestream"
)

// DDS header constants
const (
	Magic          = 0x20534444 // "DDS "
	HeaderSize     = 124
	DX10HeaderSize = 20

	// FileHeaderSize is the magic, the header and the DX10 extension.
	FileHeaderSize = 4 + HeaderSize + DX10HeaderSize

	flagsCaps        = 0x1
	flagsHeight      = 0x2
	flagsWidth       = 0x4
	flagsPitch       = 0x8
	flagsPixelFormat = 0x1000
	flagsMipMapCount = 0x20000
	flagsLinearSize  = 0x80000
	flagsDepth       = 0x800000

	capsComplex = 0x8
	capsTexture = 0x1000
	capsMipmap  = 0x400000

	caps2Cubemap    = 0x200
	caps2CubeFaces  = 0xFC00 // all six faces present
	caps2Volume     = 0x200000
	pixelFormatSize = 32
	pixelFourCC     = 0x4
	dx10FourCC      = 0x30315844 // "DX10"

	dimensionTexture2D = 3
	dimensionTexture3D = 4
	miscTextureCube    = 0x4
)

// Texture is a GPU texture container: dimensions, a DXGI format and the
// concatenated mip payloads.
type Texture struct {
	Width      uint32
	Height     uint32
	Depth      uint32
	MipCount   uint32
	ArraySize  uint32
	Format     format.TexFormat
	DXGIFormat uint32
	Cubemap    bool
	Data       []byte

	levels []span
}

type span struct {
	start, end int
}

// FromTex builds a Texture from the first mipCount mips of t. Tile-compressed
// mips are decoded with codec through one decompressor that is only created
// when a selected mip needs it.
func FromTex(t *tex.Tex, mipCount int, codec tilestream.Codec) (*Texture, error) {
	if mipCount < 0 || mipCount > len(t.Mips) {
		return nil, fmt.Errorf("%w: mip count %d out of range [0, %d]", tex.ErrInternal, mipCount, len(t.Mips))
	}

	dxgi, err := t.Header.Format.DXGI()
	if err != nil {
		return nil, fmt.Errorf("map format: %w", err)
	}

	out := &Texture{
		Width:      uint32(t.Header.Width),
		Height:     uint32(t.Header.Height),
		Depth:      uint32(max(1, t.Header.Depth)),
		MipCount:   uint32(mipCount),
		ArraySize:  1,
		Format:     t.Header.Format,
		DXGIFormat: dxgi,
		Cubemap:    t.Header.IsCubemap(),
	}

	var d *tilestream.Decompressor
	defer func() {
		if d != nil {
			d.Close()
		}
	}()

	for i := 0; i < mipCount; i++ {
		m := &t.Mips[i]
		if m.IsCompressed && d == nil {
			if d, err = tilestream.NewDecompressor(codec); err != nil {
				return nil, err
			}
		}

		data, err := m.Uncompressed(d)
		if err != nil {
			return nil, fmt.Errorf("decompress mip %d: %w", i, err)
		}

		start := len(out.Data)
		out.Data = append(out.Data, data...)
		out.levels = append(out.levels, span{start, len(out.Data)})
	}

	return out, nil
}

// Level returns the bytes of mip level i.
func (t *Texture) Level(i int) ([]byte, error) {
	if i < 0 || i >= len(t.levels) {
		return nil, fmt.Errorf("mip level %d out of range [0, %d)", i, len(t.levels))
	}
	s := t.levels[i]
	return t.Data[s.start:s.end], nil
}

// LevelSize returns the width and height of mip level i.
func (t *Texture) LevelSize(i int) (width, height int) {
	return max(1, int(t.Width)>>i), max(1, int(t.Height)>>i)
}

// MarshalBinary encodes the texture as a DDS file.
func (t *Texture) MarshalBinary() ([]byte, error) {
	buf := make([]byte, FileHeaderSize, FileHeaderSize+len(t.Data))
	t.encodeHeader(buf)
	return append(buf, t.Data...), nil
}

// encodeHeader writes the magic, header and DX10 extension.
func (t *Texture) encodeHeader(header []byte) {
	binary.LittleEndian.PutUint32(header[0:4], Magic)

	// DDS_HEADER starts at offset 4
	h := header[4 : 4+HeaderSize]

	flags := uint32(flagsCaps | flagsHeight | flagsWidth | flagsPixelFormat)
	if t.MipCount > 1 {
		flags |= flagsMipMapCount
	}
	if t.Depth > 1 {
		flags |= flagsDepth
	}

	pitch := t.Format.Pitch(int(t.Width))
	if t.Format.IsCompressed() {
		flags |= flagsLinearSize
		pitch = t.Format.LevelSize(int(t.Width), int(t.Height))
	} else {
		flags |= flagsPitch
	}

	binary.LittleEndian.PutUint32(h[0:4], HeaderSize)
	binary.LittleEndian.PutUint32(h[4:8], flags)
	binary.LittleEndian.PutUint32(h[8:12], t.Height)
	binary.LittleEndian.PutUint32(h[12:16], t.Width)
	binary.LittleEndian.PutUint32(h[16:20], uint32(pitch))
	binary.LittleEndian.PutUint32(h[20:24], t.Depth)
	binary.LittleEndian.PutUint32(h[24:28], t.MipCount)
	// dwReserved1[11] at 28:72

	// DDS_PIXELFORMAT at 72:104
	binary.LittleEndian.PutUint32(h[72:76], pixelFormatSize)
	binary.LittleEndian.PutUint32(h[76:80], pixelFourCC)
	binary.LittleEndian.PutUint32(h[80:84], dx10FourCC)

	caps := uint32(capsTexture)
	if t.MipCount > 1 {
		caps |= capsMipmap | capsComplex
	}
	var caps2 uint32
	switch {
	case t.Cubemap:
		caps |= capsComplex
		caps2 = caps2Cubemap | caps2CubeFaces
	case t.Depth > 1:
		caps |= capsComplex
		caps2 = caps2Volume
	}
	binary.LittleEndian.PutUint32(h[104:108], caps)
	binary.LittleEndian.PutUint32(h[108:112], caps2)

	// DX10 extension
	x := header[4+HeaderSize:]
	dimension := uint32(dimensionTexture2D)
	if t.Depth > 1 && !t.Cubemap {
		dimension = dimensionTexture3D
	}
	var misc uint32
	if t.Cubemap {
		misc = miscTextureCube
	}
	binary.LittleEndian.PutUint32(x[0:4], t.DXGIFormat)
	binary.LittleEndian.PutUint32(x[4:8], dimension)
	binary.LittleEndian.PutUint32(x[8:12], misc)
	binary.LittleEndian.PutUint32(x[12:16], max(1, t.ArraySize))
	binary.LittleEndian.PutUint32(x[16:20], 0)
}

// Parse reads a DDS file with a DX10 header. Mip levels are located by
// computing each level's size from the format.
func Parse(data []byte) (*Texture, error) {
	if len(data) < 4+HeaderSize {
		return nil, fmt.Errorf("dds: data too short for header: %d < %d", len(data), 4+HeaderSize)
	}
	if binary.LittleEndian.Uint32(data[0:4]) != Magic {
		return nil, fmt.Errorf("dds: missing magic 'DDS '")
	}

	h := data[4 : 4+HeaderSize]
	if fourCC := binary.LittleEndian.Uint32(h[80:84]); fourCC != dx10FourCC {
		return nil, fmt.Errorf("dds: only DX10 headers are supported, got fourCC 0x%08x", fourCC)
	}
	if len(data) < FileHeaderSize {
		return nil, fmt.Errorf("dds: data too short for DX10 header: %d < %d", len(data), FileHeaderSize)
	}
	x := data[4+HeaderSize : FileHeaderSize]

	t := &Texture{
		Height:     binary.LittleEndian.Uint32(h[8:12]),
		Width:      binary.LittleEndian.Uint32(h[12:16]),
		Depth:      max(1, binary.LittleEndian.Uint32(h[20:24])),
		MipCount:   max(1, binary.LittleEndian.Uint32(h[24:28])),
		DXGIFormat: binary.LittleEndian.Uint32(x[0:4]),
		Cubemap:    binary.LittleEndian.Uint32(x[8:12])&miscTextureCube != 0,
		ArraySize:  max(1, binary.LittleEndian.Uint32(x[12:16])),
		Data:       data[FileHeaderSize:],
	}

	f, err := format.FromDXGI(t.DXGIFormat)
	if err != nil {
		return nil, fmt.Errorf("dds: %w", err)
	}
	t.Format = f

	offset := 0
	for i := 0; i < int(t.MipCount); i++ {
		w, ht := t.LevelSize(i)
		size := f.LevelSize(w, ht) * int(max(1, t.Depth>>i))
		if offset+size > len(t.Data) {
			return nil, fmt.Errorf("dds: mip %d needs %d bytes at offset %d, have %d", i, size, offset, len(t.Data))
		}
		t.levels = append(t.levels, span{offset, offset + size})
		offset += size
	}

	return t, nil
}
