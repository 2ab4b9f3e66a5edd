// Package config holds the texfile tool settings: a JSON file layer with
// command-line overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/goopsie/texFileTools/pkg/raster"
	"github.com/goopsie/texFileTools/pkg/tilestream"
)

// Config holds all tool settings.
type Config struct {
	// Tile streams
	Codec   string `json:"codec"`
	Workers int    `json:"workers"`

	// Parsing
	FullValidation bool `json:"full_validation"` // decompress tiles while validating

	// Export
	OutputDir   string `json:"output_dir"`
	ImageFormat string `json:"image_format"`
	MipCount    int    `json:"mip_count"` // 0 exports every level of the first texture
	Level       int    `json:"level"`

	// Directory walks
	Match string `json:"match"` // case-insensitive substring a file name must contain
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Codec          string
	Workers        int
	FullValidation bool
	OutputDir      string
	ImageFormat    string
	MipCount       int
	Level          int
	Match          string
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies flag overrides, fills defaults and checks the result.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	if flags.Codec != "" {
		c.Codec = flags.Codec
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.FullValidation {
		c.FullValidation = true
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.ImageFormat != "" {
		c.ImageFormat = flags.ImageFormat
	}
	if flags.MipCount > 0 {
		c.MipCount = flags.MipCount
	}
	if flags.Level > 0 {
		c.Level = flags.Level
	}
	if flags.Match != "" {
		c.Match = flags.Match
	}

	if c.Codec == "" {
		c.Codec = tilestream.DefaultCodec
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.ImageFormat == "" {
		c.ImageFormat = string(raster.PNG)
	}
	if c.Match == "" {
		c.Match = ".tex"
	}

	if _, err := tilestream.Lookup(c.Codec); err != nil {
		return fmt.Errorf("config: %w (have %s)", err, strings.Join(tilestream.Codecs(), ", "))
	}
	if _, err := raster.ParseKind(c.ImageFormat); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.MipCount < 0 {
		return fmt.Errorf("config: negative mip count %d", c.MipCount)
	}
	if c.Level < 0 {
		return fmt.Errorf("config: negative level %d", c.Level)
	}

	return nil
}

// TileCodec returns the configured tile codec.
func (c *Config) TileCodec() (tilestream.Codec, error) {
	return tilestream.Lookup(c.Codec)
}

// ImageKind returns the configured image encoding.
func (c *Config) ImageKind() raster.Kind {
	k, _ := raster.ParseKind(c.ImageFormat)
	return k
}

// Matches reports whether a file name should be picked up by a directory walk.
func (c *Config) Matches(name string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(c.Match))
}
