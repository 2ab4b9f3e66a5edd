// Package format enumerates the pixel and block formats a TEX container can
// declare, keyed by the 32-bit code stored in the TEX header.
//
// Codes below 0x400 share their numeric value with DXGI_FORMAT. ASTC formats
// live in the 0x400 range and are remapped when exported to DDS.
package format

import (
	"errors"
	"fmt"
	"slices"
)

// TexFormat is the format code stored in a TEX header.
type TexFormat uint32

// Kind classifies how a format stores its texels.
type Kind uint8

const (
	KindOther Kind = iota // depth/stencil, shared exponent and marker codes
	KindRGB               // raw per-channel texels
	KindBC                // BC1-BC7 4x4 block compression
	KindASTC              // adaptive scalable block compression
)

// UnsupportedFormatError reports a code that is not in the catalog.
type UnsupportedFormatError struct {
	Code uint32
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported tex format: 0x%X", e.Code)
}

// ErrNoDXGI is returned when a format has no DXGI_FORMAT counterpart.
var ErrNoDXGI = errors.New("format has no DXGI equivalent")

type info struct {
	name       string
	kind       Kind
	blockW     int
	blockH     int
	blockBytes int // bytes per block; for raw formats a block is one texel
	bits       int // bits per texel, only set when a texel is smaller than a byte
}

func raw(name string, bits int) info {
	if bits < 8 {
		return info{name: name, kind: KindRGB, blockW: 1, blockH: 1, bits: bits}
	}
	return info{name: name, kind: KindRGB, blockW: 1, blockH: 1, blockBytes: bits / 8}
}

func other(name string, bits int) info {
	i := raw(name, bits)
	i.kind = KindOther
	return i
}

func bc(name string, blockBytes int) info {
	return info{name: name, kind: KindBC, blockW: 4, blockH: 4, blockBytes: blockBytes}
}

func astc(name string, w, h int) info {
	return info{name: name, kind: KindASTC, blockW: w, blockH: h, blockBytes: 16}
}

// Format codes.
const (
	R32G32B32A32Typeless   TexFormat = 0x1
	R32G32B32A32Float      TexFormat = 0x2
	R32G32B32A32Uint       TexFormat = 0x3
	R32G32B32A32Sint       TexFormat = 0x4
	R32G32B32Typeless      TexFormat = 0x5
	R32G32B32Float         TexFormat = 0x6
	R32G32B32Uint          TexFormat = 0x7
	R32G32B32Sint          TexFormat = 0x8
	R16G16B16A16Typeless   TexFormat = 0x9
	R16G16B16A16Float      TexFormat = 0xA
	R16G16B16A16Unorm      TexFormat = 0xB
	R16G16B16A16Uint       TexFormat = 0xC
	R16G16B16A16Snorm      TexFormat = 0xD
	R16G16B16A16Sint       TexFormat = 0xE
	R32G32Typeless         TexFormat = 0xF
	R32G32Float            TexFormat = 0x10
	R32G32Uint             TexFormat = 0x11
	R32G32Sint             TexFormat = 0x12
	R32G8X24Typeless       TexFormat = 0x13
	D32FloatS8X24Uint      TexFormat = 0x14
	R32FloatX8X24Typeless  TexFormat = 0x15
	X32TypelessG8X24Uint   TexFormat = 0x16
	R10G10B10A2Typeless    TexFormat = 0x17
	R10G10B10A2Unorm       TexFormat = 0x18
	R10G10B10A2Uint        TexFormat = 0x19
	R11G11B10Float         TexFormat = 0x1A
	R8G8B8A8Typeless       TexFormat = 0x1B
	R8G8B8A8Unorm          TexFormat = 0x1C
	R8G8B8A8UnormSrgb      TexFormat = 0x1D
	R8G8B8A8Uint           TexFormat = 0x1E
	R8G8B8A8Snorm          TexFormat = 0x1F
	R8G8B8A8Sint           TexFormat = 0x20
	R16G16Typeless         TexFormat = 0x21
	R16G16Float            TexFormat = 0x22
	R16G16Unorm            TexFormat = 0x23
	R16G16Uint             TexFormat = 0x24
	R16G16Snorm            TexFormat = 0x25
	R16G16Sint             TexFormat = 0x26
	R32Typeless            TexFormat = 0x27
	D32Float               TexFormat = 0x28
	R32Float               TexFormat = 0x29
	R32Uint                TexFormat = 0x2A
	R32Sint                TexFormat = 0x2B
	R24G8Typeless          TexFormat = 0x2C
	D24UnormS8Uint         TexFormat = 0x2D
	R24UnormX8Typeless     TexFormat = 0x2E
	X24TypelessG8Uint      TexFormat = 0x2F
	R8G8Typeless           TexFormat = 0x30
	R8G8Unorm              TexFormat = 0x31
	R8G8Uint               TexFormat = 0x32
	R8G8Snorm              TexFormat = 0x33
	R8G8Sint               TexFormat = 0x34
	R16Typeless            TexFormat = 0x35
	R16Float               TexFormat = 0x36
	D16Unorm               TexFormat = 0x37
	R16Unorm               TexFormat = 0x38
	R16Uint                TexFormat = 0x39
	R16Snorm               TexFormat = 0x3A
	R16Sint                TexFormat = 0x3B
	R8Typeless             TexFormat = 0x3C
	R8Unorm                TexFormat = 0x3D
	R8Uint                 TexFormat = 0x3E
	R8Snorm                TexFormat = 0x3F
	R8Sint                 TexFormat = 0x40
	A8Unorm                TexFormat = 0x41
	R1Unorm                TexFormat = 0x42
	R9G9B9E5Sharedexp      TexFormat = 0x43
	R8G8B8G8Unorm          TexFormat = 0x44
	G8R8G8B8Unorm          TexFormat = 0x45
	Bc1Typeless            TexFormat = 0x46
	Bc1Unorm               TexFormat = 0x47
	Bc1UnormSrgb           TexFormat = 0x48
	Bc2Typeless            TexFormat = 0x49
	Bc2Unorm               TexFormat = 0x4A
	Bc2UnormSrgb           TexFormat = 0x4B
	Bc3Typeless            TexFormat = 0x4C
	Bc3Unorm               TexFormat = 0x4D
	Bc3UnormSrgb           TexFormat = 0x4E
	Bc4Typeless            TexFormat = 0x4F
	Bc4Unorm               TexFormat = 0x50
	Bc4Snorm               TexFormat = 0x51
	Bc5Typeless            TexFormat = 0x52
	Bc5Unorm               TexFormat = 0x53
	Bc5Snorm               TexFormat = 0x54
	B5G6R5Unorm            TexFormat = 0x55
	B5G5R5A1Unorm          TexFormat = 0x56
	B8G8R8A8Unorm          TexFormat = 0x57
	B8G8R8X8Unorm          TexFormat = 0x58
	R10G10B10xrBiasA2Unorm TexFormat = 0x59
	B8G8R8A8Typeless       TexFormat = 0x5A
	B8G8R8A8UnormSrgb      TexFormat = 0x5B
	B8G8R8X8Typeless       TexFormat = 0x5C
	B8G8R8X8UnormSrgb      TexFormat = 0x5D
	Bc6hTypeless           TexFormat = 0x5E
	Bc6hUF16               TexFormat = 0x5F
	Bc6hSF16               TexFormat = 0x60
	Bc7Typeless            TexFormat = 0x61
	Bc7Unorm               TexFormat = 0x62
	Bc7UnormSrgb           TexFormat = 0x63
	ViaExtension           TexFormat = 0x400
	Astc4x4Typeless        TexFormat = 0x401
	Astc4x4Unorm           TexFormat = 0x402
	Astc4x4UnormSrgb       TexFormat = 0x403
	Astc5x4Typeless        TexFormat = 0x404
	Astc5x4Unorm           TexFormat = 0x405
	Astc5x4UnormSrgb       TexFormat = 0x406
	Astc5x5Typeless        TexFormat = 0x407
	Astc5x5Unorm           TexFormat = 0x408
	Astc5x5UnormSrgb       TexFormat = 0x409
	Astc6x5Typeless        TexFormat = 0x40A
	Astc6x5Unorm           TexFormat = 0x40B
	Astc6x5UnormSrgb       TexFormat = 0x40C
	Astc6x6Typeless        TexFormat = 0x40D
	Astc6x6Unorm           TexFormat = 0x40E
	Astc6x6UnormSrgb       TexFormat = 0x40F
	Astc8x5Typeless        TexFormat = 0x410
	Astc8x5Unorm           TexFormat = 0x411
	Astc8x5UnormSrgb       TexFormat = 0x412
	Astc8x6Typeless        TexFormat = 0x413
	Astc8x6Unorm           TexFormat = 0x414
	Astc8x6UnormSrgb       TexFormat = 0x415
	Astc8x8Typeless        TexFormat = 0x416
	Astc8x8Unorm           TexFormat = 0x417
	Astc8x8UnormSrgb       TexFormat = 0x418
	Astc10x5Typeless       TexFormat = 0x419
	Astc10x5Unorm          TexFormat = 0x41A
	Astc10x5UnormSrgb      TexFormat = 0x41B
	Astc10x6Typeless       TexFormat = 0x41C
	Astc10x6Unorm          TexFormat = 0x41D
	Astc10x6UnormSrgb      TexFormat = 0x41E
	Astc10x8Typeless       TexFormat = 0x41F
	Astc10x8Unorm          TexFormat = 0x420
	Astc10x8UnormSrgb      TexFormat = 0x421
	Astc10x10Typeless      TexFormat = 0x422
	Astc10x10Unorm         TexFormat = 0x423
	Astc10x10UnormSrgb     TexFormat = 0x424
	Astc12x10Typeless      TexFormat = 0x425
	Astc12x10Unorm         TexFormat = 0x426
	Astc12x10UnormSrgb     TexFormat = 0x427
	Astc12x12Typeless      TexFormat = 0x428
	Astc12x12Unorm         TexFormat = 0x429
	Astc12x12UnormSrgb     TexFormat = 0x42A
	ForceUint              TexFormat = 0x7FFFFFFF
)

var catalog = map[TexFormat]info{
	R32G32B32A32Typeless:   raw("R32G32B32A32_TYPELESS", 128),
	R32G32B32A32Float:      raw("R32G32B32A32_FLOAT", 128),
	R32G32B32A32Uint:       raw("R32G32B32A32_UINT", 128),
	R32G32B32A32Sint:       raw("R32G32B32A32_SINT", 128),
	R32G32B32Typeless:      raw("R32G32B32_TYPELESS", 96),
	R32G32B32Float:         raw("R32G32B32_FLOAT", 96),
	R32G32B32Uint:          raw("R32G32B32_UINT", 96),
	R32G32B32Sint:          raw("R32G32B32_SINT", 96),
	R16G16B16A16Typeless:   raw("R16G16B16A16_TYPELESS", 64),
	R16G16B16A16Float:      raw("R16G16B16A16_FLOAT", 64),
	R16G16B16A16Unorm:      raw("R16G16B16A16_UNORM", 64),
	R16G16B16A16Uint:       raw("R16G16B16A16_UINT", 64),
	R16G16B16A16Snorm:      raw("R16G16B16A16_SNORM", 64),
	R16G16B16A16Sint:       raw("R16G16B16A16_SINT", 64),
	R32G32Typeless:         raw("R32G32_TYPELESS", 64),
	R32G32Float:            raw("R32G32_FLOAT", 64),
	R32G32Uint:             raw("R32G32_UINT", 64),
	R32G32Sint:             raw("R32G32_SINT", 64),
	R32G8X24Typeless:       raw("R32G8X24_TYPELESS", 64),
	D32FloatS8X24Uint:      other("D32_FLOAT_S8X24_UINT", 64),
	R32FloatX8X24Typeless:  raw("R32_FLOAT_X8X24_TYPELESS", 64),
	X32TypelessG8X24Uint:   other("X32_TYPELESS_G8X24_UINT", 64),
	R10G10B10A2Typeless:    raw("R10G10B10A2_TYPELESS", 32),
	R10G10B10A2Unorm:       raw("R10G10B10A2_UNORM", 32),
	R10G10B10A2Uint:        raw("R10G10B10A2_UINT", 32),
	R11G11B10Float:         raw("R11G11B10_FLOAT", 32),
	R8G8B8A8Typeless:       raw("R8G8B8A8_TYPELESS", 32),
	R8G8B8A8Unorm:          raw("R8G8B8A8_UNORM", 32),
	R8G8B8A8UnormSrgb:      raw("R8G8B8A8_UNORM_SRGB", 32),
	R8G8B8A8Uint:           raw("R8G8B8A8_UINT", 32),
	R8G8B8A8Snorm:          raw("R8G8B8A8_SNORM", 32),
	R8G8B8A8Sint:           raw("R8G8B8A8_SINT", 32),
	R16G16Typeless:         raw("R16G16_TYPELESS", 32),
	R16G16Float:            raw("R16G16_FLOAT", 32),
	R16G16Unorm:            raw("R16G16_UNORM", 32),
	R16G16Uint:             raw("R16G16_UINT", 32),
	R16G16Snorm:            raw("R16G16_SNORM", 32),
	R16G16Sint:             raw("R16G16_SINT", 32),
	R32Typeless:            raw("R32_TYPELESS", 32),
	D32Float:               other("D32_FLOAT", 32),
	R32Float:               raw("R32_FLOAT", 32),
	R32Uint:                raw("R32_UINT", 32),
	R32Sint:                raw("R32_SINT", 32),
	R24G8Typeless:          raw("R24G8_TYPELESS", 32),
	D24UnormS8Uint:         other("D24_UNORM_S8_UINT", 32),
	R24UnormX8Typeless:     raw("R24_UNORM_X8_TYPELESS", 32),
	X24TypelessG8Uint:      other("X24_TYPELESS_G8_UINT", 32),
	R8G8Typeless:           raw("R8G8_TYPELESS", 16),
	R8G8Unorm:              raw("R8G8_UNORM", 16),
	R8G8Uint:               raw("R8G8_UINT", 16),
	R8G8Snorm:              raw("R8G8_SNORM", 16),
	R8G8Sint:               raw("R8G8_SINT", 16),
	R16Typeless:            raw("R16_TYPELESS", 16),
	R16Float:               raw("R16_FLOAT", 16),
	D16Unorm:               other("D16_UNORM", 16),
	R16Unorm:               raw("R16_UNORM", 16),
	R16Uint:                raw("R16_UINT", 16),
	R16Snorm:               raw("R16_SNORM", 16),
	R16Sint:                raw("R16_SINT", 16),
	R8Typeless:             raw("R8_TYPELESS", 8),
	R8Unorm:                raw("R8_UNORM", 8),
	R8Uint:                 raw("R8_UINT", 8),
	R8Snorm:                raw("R8_SNORM", 8),
	R8Sint:                 raw("R8_SINT", 8),
	A8Unorm:                raw("A8_UNORM", 8),
	R1Unorm:                raw("R1_UNORM", 1),
	R9G9B9E5Sharedexp:      other("R9G9B9E5_SHAREDEXP", 32),
	R8G8B8G8Unorm:          {name: "R8G8_B8G8_UNORM", kind: KindRGB, blockW: 2, blockH: 1, blockBytes: 4},
	G8R8G8B8Unorm:          {name: "G8R8_G8B8_UNORM", kind: KindRGB, blockW: 2, blockH: 1, blockBytes: 4},
	Bc1Typeless:            bc("BC1_TYPELESS", 8),
	Bc1Unorm:               bc("BC1_UNORM", 8),
	Bc1UnormSrgb:           bc("BC1_UNORM_SRGB", 8),
	Bc2Typeless:            bc("BC2_TYPELESS", 16),
	Bc2Unorm:               bc("BC2_UNORM", 16),
	Bc2UnormSrgb:           bc("BC2_UNORM_SRGB", 16),
	Bc3Typeless:            bc("BC3_TYPELESS", 16),
	Bc3Unorm:               bc("BC3_UNORM", 16),
	Bc3UnormSrgb:           bc("BC3_UNORM_SRGB", 16),
	Bc4Typeless:            bc("BC4_TYPELESS", 8),
	Bc4Unorm:               bc("BC4_UNORM", 8),
	Bc4Snorm:               bc("BC4_SNORM", 8),
	Bc5Typeless:            bc("BC5_TYPELESS", 16),
	Bc5Unorm:               bc("BC5_UNORM", 16),
	Bc5Snorm:               bc("BC5_SNORM", 16),
	B5G6R5Unorm:            raw("B5G6R5_UNORM", 16),
	B5G5R5A1Unorm:          raw("B5G5R5A1_UNORM", 16),
	B8G8R8A8Unorm:          raw("B8G8R8A8_UNORM", 32),
	B8G8R8X8Unorm:          raw("B8G8R8X8_UNORM", 32),
	R10G10B10xrBiasA2Unorm: raw("R10G10B10_XR_BIAS_A2_UNORM", 32),
	B8G8R8A8Typeless:       raw("B8G8R8A8_TYPELESS", 32),
	B8G8R8A8UnormSrgb:      raw("B8G8R8A8_UNORM_SRGB", 32),
	B8G8R8X8Typeless:       raw("B8G8R8X8_TYPELESS", 32),
	B8G8R8X8UnormSrgb:      raw("B8G8R8X8_UNORM_SRGB", 32),
	Bc6hTypeless:           bc("BC6H_TYPELESS", 16),
	Bc6hUF16:               bc("BC6H_UF16", 16),
	Bc6hSF16:               bc("BC6H_SF16", 16),
	Bc7Typeless:            bc("BC7_TYPELESS", 16),
	Bc7Unorm:               bc("BC7_UNORM", 16),
	Bc7UnormSrgb:           bc("BC7_UNORM_SRGB", 16),
	ViaExtension:           {name: "VIA_EXTENSION", kind: KindOther},
	Astc4x4Typeless:        astc("ASTC_4X4_TYPELESS", 4, 4),
	Astc4x4Unorm:           astc("ASTC_4X4_UNORM", 4, 4),
	Astc4x4UnormSrgb:       astc("ASTC_4X4_UNORM_SRGB", 4, 4),
	Astc5x4Typeless:        astc("ASTC_5X4_TYPELESS", 5, 4),
	Astc5x4Unorm:           astc("ASTC_5X4_UNORM", 5, 4),
	Astc5x4UnormSrgb:       astc("ASTC_5X4_UNORM_SRGB", 5, 4),
	Astc5x5Typeless:        astc("ASTC_5X5_TYPELESS", 5, 5),
	Astc5x5Unorm:           astc("ASTC_5X5_UNORM", 5, 5),
	Astc5x5UnormSrgb:       astc("ASTC_5X5_UNORM_SRGB", 5, 5),
	Astc6x5Typeless:        astc("ASTC_6X5_TYPELESS", 6, 5),
	Astc6x5Unorm:           astc("ASTC_6X5_UNORM", 6, 5),
	Astc6x5UnormSrgb:       astc("ASTC_6X5_UNORM_SRGB", 6, 5),
	Astc6x6Typeless:        astc("ASTC_6X6_TYPELESS", 6, 6),
	Astc6x6Unorm:           astc("ASTC_6X6_UNORM", 6, 6),
	Astc6x6UnormSrgb:       astc("ASTC_6X6_UNORM_SRGB", 6, 6),
	Astc8x5Typeless:        astc("ASTC_8X5_TYPELESS", 8, 5),
	Astc8x5Unorm:           astc("ASTC_8X5_UNORM", 8, 5),
	Astc8x5UnormSrgb:       astc("ASTC_8X5_UNORM_SRGB", 8, 5),
	Astc8x6Typeless:        astc("ASTC_8X6_TYPELESS", 8, 6),
	Astc8x6Unorm:           astc("ASTC_8X6_UNORM", 8, 6),
	Astc8x6UnormSrgb:       astc("ASTC_8X6_UNORM_SRGB", 8, 6),
	Astc8x8Typeless:        astc("ASTC_8X8_TYPELESS", 8, 8),
	Astc8x8Unorm:           astc("ASTC_8X8_UNORM", 8, 8),
	Astc8x8UnormSrgb:       astc("ASTC_8X8_UNORM_SRGB", 8, 8),
	Astc10x5Typeless:       astc("ASTC_10X5_TYPELESS", 10, 5),
	Astc10x5Unorm:          astc("ASTC_10X5_UNORM", 10, 5),
	Astc10x5UnormSrgb:      astc("ASTC_10X5_UNORM_SRGB", 10, 5),
	Astc10x6Typeless:       astc("ASTC_10X6_TYPELESS", 10, 6),
	Astc10x6Unorm:          astc("ASTC_10X6_UNORM", 10, 6),
	Astc10x6UnormSrgb:      astc("ASTC_10X6_UNORM_SRGB", 10, 6),
	Astc10x8Typeless:       astc("ASTC_10X8_TYPELESS", 10, 8),
	Astc10x8Unorm:          astc("ASTC_10X8_UNORM", 10, 8),
	Astc10x8UnormSrgb:      astc("ASTC_10X8_UNORM_SRGB", 10, 8),
	Astc10x10Typeless:      astc("ASTC_10X10_TYPELESS", 10, 10),
	Astc10x10Unorm:         astc("ASTC_10X10_UNORM", 10, 10),
	Astc10x10UnormSrgb:     astc("ASTC_10X10_UNORM_SRGB", 10, 10),
	Astc12x10Typeless:      astc("ASTC_12X10_TYPELESS", 12, 10),
	Astc12x10Unorm:         astc("ASTC_12X10_UNORM", 12, 10),
	Astc12x10UnormSrgb:     astc("ASTC_12X10_UNORM_SRGB", 12, 10),
	Astc12x12Typeless:      astc("ASTC_12X12_TYPELESS", 12, 12),
	Astc12x12Unorm:         astc("ASTC_12X12_UNORM", 12, 12),
	Astc12x12UnormSrgb:     astc("ASTC_12X12_UNORM_SRGB", 12, 12),
	ForceUint:              {name: "FORCE_UINT", kind: KindOther},
}

// Lookup resolves a header code to a TexFormat.
func Lookup(code uint32) (TexFormat, error) {
	f := TexFormat(code)
	if _, ok := catalog[f]; !ok {
		return 0, &UnsupportedFormatError{Code: code}
	}
	return f, nil
}

// Valid reports whether f is in the catalog.
func (f TexFormat) Valid() bool {
	_, ok := catalog[f]
	return ok
}

// String returns the DXGI-style name, or UNKNOWN(0x..) for codes outside the catalog.
func (f TexFormat) String() string {
	if i, ok := catalog[f]; ok {
		return i.name
	}
	return fmt.Sprintf("UNKNOWN(0x%x)", uint32(f))
}

// Kind returns the storage class of f.
func (f TexFormat) Kind() Kind {
	return catalog[f].kind
}

// IsASTC reports whether f is an ASTC block format.
func (f TexFormat) IsASTC() bool {
	return f.Kind() == KindASTC
}

// IsBC reports whether f is one of the BC1-BC7 formats.
func (f TexFormat) IsBC() bool {
	return f >= Bc1Typeless && f <= Bc7UnormSrgb && f.Kind() == KindBC
}

// IsRGB reports whether f stores raw channels.
func (f TexFormat) IsRGB() bool {
	return f.Kind() == KindRGB
}

// IsCompressed reports whether f is block compressed (BC or ASTC).
func (f TexFormat) IsCompressed() bool {
	k := f.Kind()
	return k == KindBC || k == KindASTC
}

// IsSRGB reports whether f is an sRGB-encoded variant.
func (f TexFormat) IsSRGB() bool {
	switch f {
	case R8G8B8A8UnormSrgb, B8G8R8A8UnormSrgb, B8G8R8X8UnormSrgb,
		Bc1UnormSrgb, Bc2UnormSrgb, Bc3UnormSrgb, Bc7UnormSrgb:
		return true
	}
	return f.IsASTC() && (f-Astc4x4Typeless)%3 == 2
}

// BlockSize returns the block footprint in texels. Raw formats use 1x1.
func (f TexFormat) BlockSize() (w, h int) {
	i := catalog[f]
	return i.blockW, i.blockH
}

// BytesPerBlock returns the byte size of one block, or 0 for sub-byte and
// sizeless formats.
func (f TexFormat) BytesPerBlock() int {
	return catalog[f].blockBytes
}

// Pitch returns the byte length of one row of blocks for a level of the given width.
func (f TexFormat) Pitch(width int) int {
	i, ok := catalog[f]
	if !ok || i.blockW == 0 {
		return 0
	}
	if i.bits != 0 {
		return (width*i.bits + 7) / 8
	}
	blocksWide := (width + i.blockW - 1) / i.blockW
	return max(1, blocksWide) * i.blockBytes
}

// LevelSize returns the byte size of one 2D surface of the given dimensions.
func (f TexFormat) LevelSize(width, height int) int {
	i, ok := catalog[f]
	if !ok || i.blockH == 0 {
		return 0
	}
	blocksHigh := max(1, (height+i.blockH-1)/i.blockH)
	return f.Pitch(width) * blocksHigh
}

// DXGI returns the DXGI_FORMAT value used when exporting f to DDS.
func (f TexFormat) DXGI() (uint32, error) {
	i, ok := catalog[f]
	if !ok {
		return 0, &UnsupportedFormatError{Code: uint32(f)}
	}
	switch {
	case i.kind == KindASTC:
		// DXGI groups each ASTC footprint as typeless, unorm, srgb plus one unused slot.
		idx := uint32(f - Astc4x4Typeless)
		return 133 + (idx/3)*4 + idx%3, nil
	case f == ViaExtension || f == ForceUint:
		return 0, fmt.Errorf("%s: %w", i.name, ErrNoDXGI)
	}
	return uint32(f), nil
}

// FromDXGI maps a DXGI_FORMAT value back to its TexFormat.
func FromDXGI(code uint32) (TexFormat, error) {
	if code >= 133 && code < 0x400 {
		group, slot := (code-133)/4, (code-133)%4
		f := Astc4x4Typeless + TexFormat(group*3+slot)
		if slot < 3 && f.IsASTC() {
			return f, nil
		}
		return 0, &UnsupportedFormatError{Code: code}
	}
	f, err := Lookup(code)
	if err != nil {
		return 0, err
	}
	if f.IsASTC() || f == ViaExtension || f == ForceUint {
		return 0, &UnsupportedFormatError{Code: code}
	}
	return f, nil
}

// All returns every catalogued format in ascending code order.
func All() []TexFormat {
	out := make([]TexFormat, 0, len(catalog))
	for f := range catalog {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
