package sgl

import "errors"

// Error taxonomy for surface and display operations.
//
// Allocation and access failures are never retried internally: callers are
// expected to tear down the drawable and recreate it. Unsupported pbuffer
// formats are not surfaced at construction; they leave the color plane
// unallocated and are detected through InitCheck.
var (
	// ErrBadAlloc is returned when color or depth plane memory cannot be
	// obtained, at construction, connect, or resize time.
	ErrBadAlloc = errors.New("sgl: buffer allocation failed")

	// ErrBadAccess is returned when a native buffer cannot be locked for CPU
	// access, or when an operation needs a current buffer and none is held.
	// The drawable must not be used further until reconnected.
	ErrBadAccess = errors.New("sgl: buffer access failed")

	// ErrBadSurface is returned for operations on a destroyed or otherwise
	// invalid drawable.
	ErrBadSurface = errors.New("sgl: invalid surface")

	// ErrBadDisplay is returned for operations against anything but the one
	// logical display.
	ErrBadDisplay = errors.New("sgl: invalid display")

	// ErrNotInitialized is returned when the display has not been
	// initialized, or has been terminated.
	ErrNotInitialized = errors.New("sgl: display not initialized")

	// ErrBadConfig is returned for an out-of-range configuration.
	ErrBadConfig = errors.New("sgl: invalid config")

	// ErrBadAttribute is returned when a configuration attribute does not
	// exist.
	ErrBadAttribute = errors.New("sgl: invalid attribute")

	// ErrUnsupportedFormat is returned where a pixel format has no defined
	// layout for the requested operation.
	ErrUnsupportedFormat = errors.New("sgl: unsupported pixel format")

	// ErrNoPresent is returned by Present on drawables that have no
	// presentation semantics (pixmaps and pbuffers).
	ErrNoPresent = errors.New("sgl: surface cannot be presented")
)
