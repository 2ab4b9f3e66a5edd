package dds

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/goopsie/texFileTools/pkg/format"
	"github.com/goopsie/texFileTools/pkg/tex"
	"github.com/goopsie/texFileTools/pkg/tilestream"
)

func fill(n int, seed byte) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i) + seed
	}
	return data
}

// newTex builds an in-memory texture with one texture of the given mips.
func newTex(f format.TexFormat, width, height uint16, mips ...[]byte) *tex.Tex {
	t := &tex.Tex{Header: tex.Header{
		Magic:       tex.Magic,
		Version:     10,
		Width:       width,
		Height:      height,
		Depth:       1,
		MipmapCount: uint8(len(mips)),
		TexCount:    1,
		Format:      f,
	}}
	var offset uint32
	for _, data := range mips {
		info := tex.CompressionInfo{CompressedSize: uint32(len(data)), CompressedOffset: offset}
		entry := tex.MipEntry{UncompressedSize: uint32(len(data))}
		t.Mips = append(t.Mips, tex.NewMipData(entry, info, data))
		offset += uint32(len(data))
	}
	return t
}

func TestFromTex(t *testing.T) {
	level0, level1 := fill(32, 1), fill(8, 2) // 8x8 and 4x4 BC1
	src := newTex(format.Bc1Unorm, 8, 8, level0, level1)

	d, err := FromTex(src, 2, nil)
	if err != nil {
		t.Fatalf("from tex: %v", err)
	}

	data, err := d.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != Magic {
		t.Errorf("Expected DDS magic 0x%08X, got 0x%08X", Magic, magic)
	}
	if len(data) != FileHeaderSize+40 {
		t.Errorf("Total size: expected %d, got %d", FileHeaderSize+40, len(data))
	}

	height := binary.LittleEndian.Uint32(data[12:16])
	width := binary.LittleEndian.Uint32(data[16:20])
	if width != 8 || height != 8 {
		t.Errorf("size in header: got %dx%d, want 8x8", width, height)
	}
	if linear := binary.LittleEndian.Uint32(data[20:24]); linear != 32 {
		t.Errorf("linear size: got %d, want 32", linear)
	}
	if mips := binary.LittleEndian.Uint32(data[28:32]); mips != 2 {
		t.Errorf("mip count: got %d, want 2", mips)
	}
	if dxgi := binary.LittleEndian.Uint32(data[128:132]); dxgi != 71 {
		t.Errorf("dxgi format: got %d, want 71", dxgi)
	}
	if dim := binary.LittleEndian.Uint32(data[132:136]); dim != dimensionTexture2D {
		t.Errorf("resource dimension: got %d, want %d", dim, dimensionTexture2D)
	}

	t.Run("ParseBack", func(t *testing.T) {
		back, err := Parse(data)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if back.Format != format.Bc1Unorm || back.MipCount != 2 || back.Width != 8 || back.Height != 8 {
			t.Errorf("got %+v", back)
		}
		for i, want := range [][]byte{level0, level1} {
			got, err := back.Level(i)
			if err != nil {
				t.Fatalf("level %d: %v", i, err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("level %d mismatch", i)
			}
		}
		if _, err := back.Level(2); err == nil {
			t.Error("expected error for level out of range")
		}
	})

	t.Run("SubsetOfMips", func(t *testing.T) {
		d, err := FromTex(src, 1, nil)
		if err != nil {
			t.Fatalf("from tex: %v", err)
		}
		if !bytes.Equal(d.Data, level0) || d.MipCount != 1 {
			t.Errorf("got %d bytes and %d mips", len(d.Data), d.MipCount)
		}
	})
}

func TestFromTexCompressed(t *testing.T) {
	raw := fill(4*4*4, 3) // 4x4 RGBA8
	packed, err := tilestream.Compress(tilestream.Flate{}, raw)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	src := newTex(format.R8G8B8A8Unorm, 4, 4, packed)
	src.Mips[0].Entry.UncompressedSize = uint32(len(raw))

	d, err := FromTex(src, 1, tilestream.Flate{})
	if err != nil {
		t.Fatalf("from tex: %v", err)
	}
	level, err := d.Level(0)
	if err != nil {
		t.Fatalf("level: %v", err)
	}
	if !bytes.Equal(level, raw) {
		t.Error("decompressed level mismatch")
	}

	data, _ := d.MarshalBinary()
	flags := binary.LittleEndian.Uint32(data[8:12])
	if flags&flagsPitch == 0 || flags&flagsLinearSize != 0 {
		t.Errorf("raw format flags: got 0x%x", flags)
	}
	if pitch := binary.LittleEndian.Uint32(data[20:24]); pitch != 16 {
		t.Errorf("pitch: got %d, want 16", pitch)
	}

	if _, err := FromTex(src, 1, nil); !errors.Is(err, tilestream.ErrDecoderCreation) {
		t.Errorf("nil codec: got %v, want ErrDecoderCreation", err)
	}
}

func TestFromTexErrors(t *testing.T) {
	src := newTex(format.Bc7Unorm, 4, 4, fill(16, 0))

	for _, n := range []int{-1, 2} {
		if _, err := FromTex(src, n, nil); !errors.Is(err, tex.ErrInternal) {
			t.Errorf("mip count %d: got %v, want tex.ErrInternal", n, err)
		}
	}

	src.Header.Format = format.ViaExtension
	if _, err := FromTex(src, 1, nil); !errors.Is(err, format.ErrNoDXGI) {
		t.Errorf("got %v, want format.ErrNoDXGI", err)
	}
}

func TestSurfaceKinds(t *testing.T) {
	t.Run("Cubemap", func(t *testing.T) {
		src := newTex(format.Bc7Unorm, 4, 4, fill(16, 0))
		src.Header.CubemapMarker = 1

		d, err := FromTex(src, 1, nil)
		if err != nil {
			t.Fatalf("from tex: %v", err)
		}
		data, _ := d.MarshalBinary()

		if caps2 := binary.LittleEndian.Uint32(data[112:116]); caps2 != 0xFE00 {
			t.Errorf("caps2: got 0x%x, want 0xFE00", caps2)
		}
		if misc := binary.LittleEndian.Uint32(data[136:140]); misc != miscTextureCube {
			t.Errorf("misc flag: got 0x%x, want 0x%x", misc, miscTextureCube)
		}

		back, err := Parse(data)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if !back.Cubemap {
			t.Error("cubemap flag lost")
		}
	})

	t.Run("Volume", func(t *testing.T) {
		src := newTex(format.R8Unorm, 4, 4, fill(64, 0), fill(8, 1))
		src.Header.Depth = 4

		d, err := FromTex(src, 2, nil)
		if err != nil {
			t.Fatalf("from tex: %v", err)
		}
		data, _ := d.MarshalBinary()

		if dim := binary.LittleEndian.Uint32(data[132:136]); dim != dimensionTexture3D {
			t.Errorf("resource dimension: got %d, want %d", dim, dimensionTexture3D)
		}
		if flags := binary.LittleEndian.Uint32(data[8:12]); flags&flagsDepth == 0 {
			t.Errorf("depth flag missing: 0x%x", flags)
		}

		back, err := Parse(data)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		level1, _ := back.Level(1)
		if back.Depth != 4 || len(level1) != 8 {
			t.Errorf("got depth %d, level 1 of %d bytes", back.Depth, len(level1))
		}
	})

	t.Run("ASTC", func(t *testing.T) {
		src := newTex(format.Astc4x4Unorm, 4, 4, fill(16, 0))
		d, err := FromTex(src, 1, nil)
		if err != nil {
			t.Fatalf("from tex: %v", err)
		}
		if d.DXGIFormat != 134 {
			t.Errorf("dxgi format: got %d, want 134", d.DXGIFormat)
		}
	})
}

func TestParseErrors(t *testing.T) {
	src := newTex(format.Bc1Unorm, 8, 8, fill(32, 1))
	d, _ := FromTex(src, 1, nil)
	valid, _ := d.MarshalBinary()

	tests := []struct {
		name string
		data []byte
	}{
		{"Short", valid[:100]},
		{"BadMagic", append([]byte("XXXX"), valid[4:]...)},
		{"NotDX10", func() []byte {
			b := bytes.Clone(valid)
			copy(b[84:88], "DXT1")
			return b
		}()},
		{"TruncatedData", valid[:FileHeaderSize+10]},
		{"UnknownFormat", func() []byte {
			b := bytes.Clone(valid)
			binary.LittleEndian.PutUint32(b[128:132], 0x64)
			return b
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}
