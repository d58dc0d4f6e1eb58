package sgl

// Format is a pixel storage format tag carried by planes and native buffers.
type Format uint8

const (
	// FormatNone marks an absent plane (for example a config without depth).
	FormatNone Format = iota

	// FormatA8 is 8-bit alpha-only (1 byte per pixel).
	FormatA8

	// FormatRGB565 is 16-bit packed RGB (2 bytes per pixel).
	FormatRGB565

	// FormatRGBX8888 is 32-bit RGB with an unused byte (4 bytes per pixel).
	FormatRGBX8888

	// FormatRGBA8888 is 32-bit RGBA (4 bytes per pixel).
	FormatRGBA8888

	// FormatBGRA8888 is 32-bit BGRA (4 bytes per pixel). Accepted for
	// client-supplied pixmaps; not renderable as a pbuffer.
	FormatBGRA8888

	// FormatZS24 is a packed 24-bit depth + 8-bit stencil plane
	// (4 bytes per pixel). Depth planes are always this format.
	FormatZS24

	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// BytesPerPixel is the storage size of one pixel.
	BytesPerPixel int32

	// HasAlpha indicates the format carries alpha bits.
	HasAlpha bool

	// Depth indicates a depth/stencil rather than color layout.
	Depth bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatNone:     {},
	FormatA8:       {BytesPerPixel: 1, HasAlpha: true},
	FormatRGB565:   {BytesPerPixel: 2},
	FormatRGBX8888: {BytesPerPixel: 4},
	FormatRGBA8888: {BytesPerPixel: 4, HasAlpha: true},
	FormatBGRA8888: {BytesPerPixel: 4, HasAlpha: true},
	FormatZS24:     {BytesPerPixel: 4, Depth: true},
}

// Valid reports whether f is a known format other than FormatNone.
func (f Format) Valid() bool {
	return f > FormatNone && f < formatCount
}

// Info returns the format's metadata. The zero FormatInfo is returned for
// unknown formats.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the storage size of one pixel, or 0 for unknown
// formats.
func (f Format) BytesPerPixel() int32 {
	return f.Info().BytesPerPixel
}

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatNone:
		return "None"
	case FormatA8:
		return "A8"
	case FormatRGB565:
		return "RGB565"
	case FormatRGBX8888:
		return "RGBX8888"
	case FormatRGBA8888:
		return "RGBA8888"
	case FormatBGRA8888:
		return "BGRA8888"
	case FormatZS24:
		return "ZS24"
	default:
		return "Unknown"
	}
}
