// Package raster converts exported DDS textures into displayable images and
// writes them as PNG, WebP or TGA.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/mauserzjeh/dxt"
	"golang.org/x/image/draw"

	"github.com/goopsie/texFileTools/pkg/dds"
	"github.com/goopsie/texFileTools/pkg/format"
)

// ErrUnsupportedFormat is returned for pixel formats that cannot be decoded.
var ErrUnsupportedFormat = errors.New("raster: unsupported pixel format")

// Decode converts one mip level of t into an NRGBA image.
func Decode(t *dds.Texture, level int) (*image.NRGBA, error) {
	data, err := t.Level(level)
	if err != nil {
		return nil, err
	}
	width, height := t.LevelSize(level)

	switch t.Format {
	case format.Bc1Typeless, format.Bc1Unorm, format.Bc1UnormSrgb:
		return decodeBlocks(dxt.DecodeDXT1, data, width, height)
	case format.Bc2Typeless, format.Bc2Unorm, format.Bc2UnormSrgb:
		return decodeBlocks(dxt.DecodeDXT3, data, width, height)
	case format.Bc3Typeless, format.Bc3Unorm, format.Bc3UnormSrgb:
		return decodeBlocks(dxt.DecodeDXT5, data, width, height)

	case format.R8G8B8A8Typeless, format.R8G8B8A8Unorm, format.R8G8B8A8UnormSrgb:
		return decodeTexels(data, width, height, 4, func(p, px []byte) {
			copy(px, p[:4])
		})
	case format.B8G8R8A8Typeless, format.B8G8R8A8Unorm, format.B8G8R8A8UnormSrgb:
		return decodeTexels(data, width, height, 4, func(p, px []byte) {
			px[0], px[1], px[2], px[3] = p[2], p[1], p[0], p[3]
		})
	case format.B8G8R8X8Typeless, format.B8G8R8X8Unorm, format.B8G8R8X8UnormSrgb:
		return decodeTexels(data, width, height, 4, func(p, px []byte) {
			px[0], px[1], px[2], px[3] = p[2], p[1], p[0], 0xFF
		})
	case format.R8Typeless, format.R8Unorm:
		return decodeTexels(data, width, height, 1, func(p, px []byte) {
			px[0], px[1], px[2], px[3] = p[0], p[0], p[0], 0xFF
		})
	case format.A8Unorm:
		return decodeTexels(data, width, height, 1, func(p, px []byte) {
			px[0], px[1], px[2], px[3] = 0, 0, 0, p[0]
		})
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, t.Format)
}

type blockDecoder func(data []byte, width, height uint) ([]byte, error)

// decodeBlocks decodes whole 4x4 blocks and crops the result to the level size.
func decodeBlocks(decode blockDecoder, data []byte, width, height int) (*image.NRGBA, error) {
	padW, padH := (width+3)&^3, (height+3)&^3

	pix, err := decode(data, uint(padW), uint(padH))
	if err != nil {
		return nil, fmt.Errorf("raster: decode blocks: %w", err)
	}
	if len(pix) != padW*padH*4 {
		return nil, fmt.Errorf("raster: decoded %d bytes, want %d", len(pix), padW*padH*4)
	}

	blocks := &image.NRGBA{Pix: pix, Stride: padW * 4, Rect: image.Rect(0, 0, padW, padH)}
	if padW == width && padH == height {
		return blocks, nil
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Copy(out, image.Point{}, blocks, out.Bounds(), draw.Src, nil)
	return out, nil
}

// decodeTexels converts raw texels of bpp bytes each with conv.
func decodeTexels(data []byte, width, height, bpp int, conv func(texel, px []byte)) (*image.NRGBA, error) {
	if want := width * height * bpp; len(data) < want {
		return nil, fmt.Errorf("raster: level has %d bytes, want %d", len(data), want)
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		conv(data[i*bpp:], out.Pix[i*4:i*4+4])
	}
	return out, nil
}

// Kind selects an output image encoding.
type Kind string

const (
	PNG  Kind = "png"
	WebP Kind = "webp"
	TGA  Kind = "tga"
)

// ParseKind resolves an encoding name such as "png" or ".webp".
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimPrefix(strings.ToLower(s), "."))
	switch k {
	case PNG, WebP, TGA:
		return k, nil
	}
	return "", fmt.Errorf("raster: unknown image kind %q", s)
}

// Ext returns the file extension for k, including the dot.
func (k Kind) Ext() string {
	return "." + string(k)
}

// Encode writes img to w in the given encoding.
func Encode(w io.Writer, img image.Image, kind Kind) error {
	var err error
	switch kind {
	case PNG:
		err = png.Encode(w, img)
	case WebP:
		err = nativewebp.Encode(w, img, nil)
	case TGA:
		err = tga.Encode(w, img)
	default:
		return fmt.Errorf("raster: unknown image kind %q", kind)
	}
	if err != nil {
		return fmt.Errorf("raster: encode %s: %w", kind, err)
	}
	return nil
}
