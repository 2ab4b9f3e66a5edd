package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/goopsie/texFileTools/pkg/raster"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texfile.json")
	data := `{"codec": "zstd", "workers": 3, "image_format": "webp", "mip_count": 2}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Codec != "zstd" || cfg.Workers != 3 || cfg.ImageFormat != "webp" || cfg.MipCount != 2 {
		t.Errorf("got %+v", cfg)
	}

	t.Run("Missing", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		os.WriteFile(bad, []byte("{codec"), 0644)
		if _, err := Load(bad); err == nil {
			t.Error("expected error for malformed file")
		}
	})
}

func TestResolve(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		var cfg Config
		if err := cfg.Resolve(Flags{}); err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if cfg.Codec != "deflate" || cfg.Workers != runtime.NumCPU() || cfg.ImageKind() != raster.PNG || cfg.Match != ".tex" {
			t.Errorf("got %+v", cfg)
		}
	})

	t.Run("FlagsOverride", func(t *testing.T) {
		cfg := Config{Codec: "zstd", Workers: 2, ImageFormat: "tga"}
		flags := Flags{Codec: "lz4", Workers: 8, ImageFormat: "webp", Level: 1, FullValidation: true}
		if err := cfg.Resolve(flags); err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if cfg.Codec != "lz4" || cfg.Workers != 8 || cfg.ImageKind() != raster.WebP || cfg.Level != 1 || !cfg.FullValidation {
			t.Errorf("got %+v", cfg)
		}
		if c, err := cfg.TileCodec(); err != nil || c.Name() != "lz4" {
			t.Errorf("tile codec: got %v, %v", c, err)
		}
	})

	t.Run("FileKeptWithoutFlags", func(t *testing.T) {
		cfg := Config{Codec: "zstd", ImageFormat: "tga"}
		if err := cfg.Resolve(Flags{}); err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if cfg.Codec != "zstd" || cfg.ImageKind() != raster.TGA {
			t.Errorf("got %+v", cfg)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		tests := []struct {
			name string
			cfg  Config
		}{
			{"Codec", Config{Codec: "oodle"}},
			{"ImageFormat", Config{ImageFormat: "bmp"}},
			{"MipCount", Config{MipCount: -1}},
			{"Level", Config{Level: -2}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.cfg.Resolve(Flags{}); err == nil {
					t.Error("expected error")
				}
			})
		}
	})
}

func TestMatches(t *testing.T) {
	cfg := Config{Match: ".tex"}
	tests := []struct {
		name string
		want bool
	}{
		{"ch04_000_0000_1001_ALBD.tex.241106027", true},
		{"UPPER.TEX.30", true},
		{"texture.dds", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		if got := cfg.Matches(tt.name); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
