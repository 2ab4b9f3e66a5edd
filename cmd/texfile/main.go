// Package main provides a command-line tool for inspecting and converting TEX texture files.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goopsie/texFileTools/internal/config"
	"github.com/goopsie/texFileTools/pkg/dds"
	"github.com/goopsie/texFileTools/pkg/raster"
	"github.com/goopsie/texFileTools/pkg/tex"
	"github.com/goopsie/texFileTools/pkg/tilestream"
)

var (
	mode           string
	inputPath      string
	configPath     string
	forceOverwrite bool
	verbose        bool
	flags          config.Flags
)

func init() {
	flag.StringVar(&mode, "mode", "", "Operation mode: info, verify, decompress, dds, image")
	flag.StringVar(&inputPath, "input", "", "Input TEX file or directory")
	flag.StringVar(&configPath, "config", "", "Optional JSON config file")
	flag.BoolVar(&forceOverwrite, "force", false, "Allow non-empty output directory")
	flag.BoolVar(&verbose, "verbose", false, "Log per-mip details")

	flag.StringVar(&flags.OutputDir, "output", "", "Output directory")
	flag.StringVar(&flags.Codec, "codec", "", "Tile codec: "+strings.Join(tilestream.Codecs(), ", "))
	flag.IntVar(&flags.Workers, "workers", 0, "Tile decoding workers (default: number of CPUs)")
	flag.BoolVar(&flags.FullValidation, "full-validation", false, "Decompress tile streams while parsing")
	flag.StringVar(&flags.ImageFormat, "image-format", "", "Image output: png, webp, tga")
	flag.IntVar(&flags.MipCount, "mips", 0, "Mips to export in dds mode (default: all levels of the first texture)")
	flag.IntVar(&flags.Level, "level", 0, "Mip level to export in image mode")
	flag.StringVar(&flags.Match, "match", "", "File name substring selected when walking a directory (default .tex)")
}

func main() {
	flag.Parse()

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(); err != nil {
		logrus.Errorf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	if err := validateFlags(); err != nil {
		flag.Usage()
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if needsOutput(mode) {
		if err := prepareOutputDir(cfg.OutputDir); err != nil {
			return err
		}
	}

	p, err := newProcessor(mode, cfg)
	if err != nil {
		return err
	}

	paths, root, err := collectInputs(inputPath, cfg)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files matching %q under %s", cfg.Match, inputPath)
	}

	failed := 0
	for i, path := range paths {
		log := logrus.WithField("path", path)
		if err := p.process(path, root); err != nil {
			log.WithError(err).Error("failed")
			failed++
			continue
		}
		if (i+1)%100 == 0 {
			logrus.Infof("Processed %d files...", i+1)
		}
	}

	logrus.WithFields(logrus.Fields{
		"mode":   mode,
		"files":  len(paths),
		"failed": failed,
	}).Info("done")

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func validateFlags() error {
	if mode == "" {
		return fmt.Errorf("mode is required")
	}
	if inputPath == "" {
		return fmt.Errorf("input is required")
	}

	switch mode {
	case "info", "verify":
	case "decompress", "dds", "image":
		if flags.OutputDir == "" && configPath == "" {
			return fmt.Errorf("%s mode requires -output", mode)
		}
	default:
		return fmt.Errorf("mode must be one of info, verify, decompress, dds, image")
	}

	return nil
}

func loadConfig() (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.Resolve(flags); err != nil {
		return config.Config{}, err
	}
	if needsOutput(mode) && cfg.OutputDir == "" {
		return config.Config{}, fmt.Errorf("%s mode requires an output directory", mode)
	}
	return cfg, nil
}

func needsOutput(mode string) bool {
	return mode == "decompress" || mode == "dds" || mode == "image"
}

func prepareOutputDir(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if !forceOverwrite {
		empty, err := isDirEmpty(outputDir)
		if err != nil {
			return fmt.Errorf("check output directory: %w", err)
		}
		if !empty {
			return fmt.Errorf("output directory is not empty (use -force to override)")
		}
	}

	return nil
}

func isDirEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdir(1)
	return err == io.EOF, nil
}

// collectInputs returns the files to process and the root their output paths
// are made relative to.
func collectInputs(input string, cfg config.Config) ([]string, string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, "", fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{input}, filepath.Dir(input), nil
	}

	var paths []string
	err = filepath.Walk(input, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !cfg.Matches(info.Name()) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("walk input: %w", err)
	}
	return paths, input, nil
}

type processor struct {
	mode  string
	cfg   config.Config
	codec tilestream.Codec
}

func newProcessor(mode string, cfg config.Config) (*processor, error) {
	codec, err := cfg.TileCodec()
	if err != nil {
		return nil, err
	}
	return &processor{mode: mode, cfg: cfg, codec: codec}, nil
}

func (p *processor) parseOptions() []tex.ParseOption {
	if !p.cfg.FullValidation {
		return nil
	}
	return []tex.ParseOption{tex.WithCodec(p.codec), tex.WithWorkers(p.cfg.Workers)}
}

func (p *processor) process(path, root string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	t, err := tex.Parse(data, p.parseOptions()...)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	log := logrus.WithFields(logrus.Fields{
		"path":   path,
		"format": t.Header.Format,
		"mips":   t.MipCount(),
	})

	switch p.mode {
	case "info":
		logInfo(log, t)
		return nil
	case "verify":
		return p.verify(log, t, data)
	}

	outPath, err := outputPath(path, root, p.cfg.OutputDir)
	if err != nil {
		return err
	}

	switch p.mode {
	case "decompress":
		return p.decompress(log, t, outPath)
	case "dds":
		return p.exportDDS(log, t, outPath+".dds")
	case "image":
		kind := p.cfg.ImageKind()
		return p.exportImage(log, t, outPath+kind.Ext(), kind)
	}
	return fmt.Errorf("unknown mode: %s", p.mode)
}

func outputPath(path, root, outputDir string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("relative path: %w", err)
	}
	out := filepath.Join(outputDir, rel)
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return out, nil
}

func logInfo(log *logrus.Entry, t *tex.Tex) {
	h := t.Header
	compressed := 0
	for i := range t.Mips {
		if t.Mips[i].IsCompressed {
			compressed++
		}
	}

	log.WithFields(logrus.Fields{
		"version":    h.Version,
		"size":       fmt.Sprintf("%dx%dx%d", h.Width, h.Height, h.Depth),
		"textures":   h.TexCount,
		"levels":     h.MipmapCount,
		"cubemap":    h.IsCubemap(),
		"compressed": compressed,
	}).Info("texture")

	for i := range t.Mips {
		m := &t.Mips[i]
		log.WithFields(logrus.Fields{
			"mip":        i,
			"texture":    t.TextureIndex(i),
			"level":      t.MipLevel(i),
			"offset":     m.Info.CompressedOffset,
			"stored":     m.Info.CompressedSize,
			"raw":        t.ExpectedSize(i),
			"scanline":   m.Entry.ScanlineLength,
			"tileStream": m.IsCompressed,
		}).Debug("mip")
	}
}

func (p *processor) verify(log *logrus.Entry, t *tex.Tex, original []byte) error {
	out, err := t.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if !bytes.Equal(out, original) {
		return fmt.Errorf("round trip differs: %d bytes in, %d bytes out", len(original), len(out))
	}

	if p.cfg.FullValidation {
		if err := t.DecompressAll(p.codec, tilestream.WithWorkers(p.cfg.Workers)); err != nil {
			return fmt.Errorf("decompress: %w", err)
		}
	}

	log.Info("verified")
	return nil
}

func (p *processor) decompress(log *logrus.Entry, t *tex.Tex, outPath string) error {
	if err := t.DecompressAll(p.codec, tilestream.WithWorkers(p.cfg.Workers)); err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	if err := tex.WriteFile(outPath, t); err != nil {
		return err
	}

	log.WithField("output", outPath).Info("decompressed")
	return nil
}

func (p *processor) exportDDS(log *logrus.Entry, t *tex.Tex, outPath string) error {
	mipCount := p.cfg.MipCount
	if mipCount == 0 {
		mipCount = int(t.Header.MipmapCount)
	}
	mipCount = min(mipCount, t.MipCount())

	d, err := dds.FromTex(t, mipCount, p.codec)
	if err != nil {
		return fmt.Errorf("build dds: %w", err)
	}
	data, err := d.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal dds: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write dds: %w", err)
	}

	log.WithFields(logrus.Fields{"output": outPath, "levels": mipCount}).Info("exported dds")
	return nil
}

func (p *processor) exportImage(log *logrus.Entry, t *tex.Tex, outPath string, kind raster.Kind) error {
	level := p.cfg.Level
	if level >= t.MipCount() {
		return fmt.Errorf("level %d out of range [0, %d)", level, t.MipCount())
	}

	d, err := dds.FromTex(t, level+1, p.codec)
	if err != nil {
		return fmt.Errorf("build dds: %w", err)
	}
	img, err := raster.Decode(d, level)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	defer f.Close()

	if err := raster.Encode(f, img, kind); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{"output": outPath, "level": level}).Info("exported image")
	return nil
}
