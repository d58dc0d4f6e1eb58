package sgl

import "errors"

// Plane validation errors.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("sgl: invalid plane dimensions")

	// ErrInvalidStride is returned when stride is less than width.
	ErrInvalidStride = errors.New("sgl: stride smaller than width")

	// ErrDataTooSmall is returned when wrapped memory cannot hold the plane.
	ErrDataTooSmall = errors.New("sgl: plane data too small")
)

// Plane describes one renderable surface: a color or depth buffer with its
// dimensions, row stride (in pixels), pixel format, and backing memory.
//
// A Plane is a descriptor, not an owner. Ownership of Data is a property of
// the drawable that produced the plane: pbuffers and depth planes own their
// memory, pixmap planes wrap caller memory, and window color planes alias a
// locked native buffer that is only valid between lock and unlock.
type Plane struct {
	Width  int32
	Height int32
	Stride int32 // in pixels
	Format Format
	Data   []byte
}

// Valid reports whether the plane has backing memory.
func (p Plane) Valid() bool { return p.Data != nil }

// RowBytes returns the size of one row including stride padding.
func (p Plane) RowBytes() int32 { return p.Stride * p.Format.BytesPerPixel() }

// NewPlane allocates a plane with a tight stride.
func NewPlane(width, height int32, format Format) (Plane, error) {
	if width <= 0 || height <= 0 {
		return Plane{}, ErrInvalidDimensions
	}
	if !format.Valid() {
		return Plane{}, ErrUnsupportedFormat
	}
	return Plane{
		Width:  width,
		Height: height,
		Stride: width,
		Format: format,
		Data:   make([]byte, int(width)*int(height)*int(format.BytesPerPixel())),
	}, nil
}

// WrapPlane wraps caller-owned memory without copying. The caller keeps
// ownership of data and must keep it valid for the plane's lifetime.
func WrapPlane(data []byte, width, height, stride int32, format Format) (Plane, error) {
	if width <= 0 || height <= 0 {
		return Plane{}, ErrInvalidDimensions
	}
	if !format.Valid() {
		return Plane{}, ErrUnsupportedFormat
	}
	if stride < width {
		return Plane{}, ErrInvalidStride
	}
	need := int(stride) * int(height) * int(format.BytesPerPixel())
	if len(data) < need {
		return Plane{}, ErrDataTooSmall
	}
	return Plane{
		Width:  width,
		Height: height,
		Stride: stride,
		Format: format,
		Data:   data,
	}, nil
}

// RenderTarget receives plane descriptors from a drawable's bind operations.
// It is implemented by the rasterization context, which subsequently reads
// and writes pixels through the exposed memory; no copy is made. A drawable
// must be re-bound after every buffer swap because the underlying memory may
// change.
type RenderTarget interface {
	// SetColorPlane installs the drawable's color plane as the draw target.
	SetColorPlane(Plane)

	// SetDepthPlane installs the drawable's depth plane. An invalid plane
	// (no data) means depth is disabled for this drawable.
	SetDepthPlane(Plane)

	// SetReadPlane installs the drawable's color plane as the read source.
	SetReadPlane(Plane)
}
