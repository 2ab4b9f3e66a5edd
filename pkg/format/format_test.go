package format

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	t.Run("Known", func(t *testing.T) {
		f, err := Lookup(0x62)
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if f != Bc7Unorm {
			t.Errorf("got %v, want %v", f, Bc7Unorm)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		for _, code := range []uint32{0, 0x64, 0x3FF, 0x42B, 0xFFFFFFFF} {
			_, err := Lookup(code)
			var ufe *UnsupportedFormatError
			if !errors.As(err, &ufe) {
				t.Fatalf("code 0x%X: expected UnsupportedFormatError, got %v", code, err)
			}
			if ufe.Code != code {
				t.Errorf("code 0x%X: error carries 0x%X", code, ufe.Code)
			}
		}
	})
}

func TestFamilies(t *testing.T) {
	tests := []struct {
		format TexFormat
		astc   bool
		bc     bool
		rgb    bool
	}{
		{Astc10x10Typeless, true, false, false},
		{Astc4x4Typeless, true, false, false},
		{Astc6x6UnormSrgb, true, false, false},
		{Bc1Typeless, false, true, false},
		{Bc3Typeless, false, true, false},
		{Bc7Unorm, false, true, false},
		{R8G8B8G8Unorm, false, false, true},
		{R16G16B16A16Sint, false, false, true},
		{R16G16B16A16Snorm, false, false, true},
		{B8G8R8A8UnormSrgb, false, false, true},
		{D32Float, false, false, false},
		{R9G9B9E5Sharedexp, false, false, false},
		{ForceUint, false, false, false},
		{ViaExtension, false, false, false},
	}

	for _, tt := range tests {
		if got := tt.format.IsASTC(); got != tt.astc {
			t.Errorf("%v IsASTC: got %v, want %v", tt.format, got, tt.astc)
		}
		if got := tt.format.IsBC(); got != tt.bc {
			t.Errorf("%v IsBC: got %v, want %v", tt.format, got, tt.bc)
		}
		if got := tt.format.IsRGB(); got != tt.rgb {
			t.Errorf("%v IsRGB: got %v, want %v", tt.format, got, tt.rgb)
		}
	}
}

func TestCatalogComplete(t *testing.T) {
	all := All()
	if len(all) != 143 {
		t.Errorf("expected 143 formats, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i] <= all[i-1] {
			t.Fatalf("All not sorted at %d: %v after %v", i, all[i], all[i-1])
		}
	}
	for code := Bc1Typeless; code <= Bc7UnormSrgb; code++ {
		if !code.Valid() {
			t.Errorf("code 0x%X missing from catalog", uint32(code))
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		format   TexFormat
		expected string
	}{
		{Bc1Unorm, "BC1_UNORM"},
		{Bc7UnormSrgb, "BC7_UNORM_SRGB"},
		{R8G8B8A8Unorm, "R8G8B8A8_UNORM"},
		{Astc8x5Unorm, "ASTC_8X5_UNORM"},
		{TexFormat(9999), "UNKNOWN(0x270f)"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.expected {
			t.Errorf("format 0x%X: expected %s, got %s", uint32(tt.format), tt.expected, got)
		}
	}
}

func TestDXGI(t *testing.T) {
	tests := []struct {
		format   TexFormat
		expected uint32
	}{
		{Bc1Unorm, 71},
		{Bc7Unorm, 98},
		{R8G8B8A8UnormSrgb, 29},
		{Astc4x4Typeless, 133},
		{Astc4x4UnormSrgb, 135},
		{Astc5x4Typeless, 137},
		{Astc12x12UnormSrgb, 187},
	}

	for _, tt := range tests {
		got, err := tt.format.DXGI()
		if err != nil {
			t.Fatalf("%v: %v", tt.format, err)
		}
		if got != tt.expected {
			t.Errorf("%v: expected %d, got %d", tt.format, tt.expected, got)
		}

		back, err := FromDXGI(got)
		if err != nil {
			t.Fatalf("FromDXGI(%d): %v", got, err)
		}
		if back != tt.format {
			t.Errorf("FromDXGI(%d): expected %v, got %v", got, tt.format, back)
		}
	}

	for _, f := range []TexFormat{ViaExtension, ForceUint} {
		if _, err := f.DXGI(); !errors.Is(err, ErrNoDXGI) {
			t.Errorf("%v: expected ErrNoDXGI, got %v", f, err)
		}
	}

	for _, code := range []uint32{136, 188, 0x64, 0x401} {
		var unsupported *UnsupportedFormatError
		if _, err := FromDXGI(code); !errors.As(err, &unsupported) {
			t.Errorf("FromDXGI(%d): expected *UnsupportedFormatError, got %v", code, err)
		}
	}
}

func TestLevelSize(t *testing.T) {
	tests := []struct {
		format   TexFormat
		width    int
		height   int
		expected int
	}{
		// BC1: 8 bytes per block
		{Bc1Unorm, 512, 512, 128 * 128 * 8},
		// BC7: 16 bytes per block
		{Bc7Unorm, 512, 512, 128 * 128 * 16},
		// Non-multiple of 4 rounds up
		{Bc7Unorm, 513, 513, 129 * 129 * 16},
		// Tail mips still occupy one block
		{Bc3Unorm, 1, 1, 16},
		{R8G8B8A8Unorm, 16, 8, 16 * 8 * 4},
		{R1Unorm, 9, 2, 2 * 2},
		{Astc6x6Unorm, 64, 64, 11 * 11 * 16},
		{R8G8B8G8Unorm, 3, 1, 2 * 4},
	}

	for _, tt := range tests {
		if got := tt.format.LevelSize(tt.width, tt.height); got != tt.expected {
			t.Errorf("%v %dx%d: expected %d, got %d", tt.format, tt.width, tt.height, tt.expected, got)
		}
	}
}

func TestIsSRGB(t *testing.T) {
	for _, f := range []TexFormat{Bc7UnormSrgb, Astc4x4UnormSrgb, Astc12x10UnormSrgb, B8G8R8A8UnormSrgb} {
		if !f.IsSRGB() {
			t.Errorf("%v should be sRGB", f)
		}
	}
	for _, f := range []TexFormat{Bc7Unorm, Astc4x4Unorm, Astc12x10Typeless, R8Unorm} {
		if f.IsSRGB() {
			t.Errorf("%v should not be sRGB", f)
		}
	}
}
