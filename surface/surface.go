// Package surface implements the drawable backing stores of the driver: the
// double-buffered window surface and the fixed off-screen pixmap and pbuffer
// variants.
//
// Surfaces are NOT thread-safe. Each surface must be used from the goroutine
// that created it; there is no internal locking for concurrent swap or bind
// calls on the same drawable, and violations corrupt buffer reference
// counts. The package diagnoses detected violations through the sgl logger.
package surface

import (
	"sync/atomic"

	"github.com/gogpu/sgl"
)

// Surface is the backing-store contract implemented by the Window, Pixmap
// and Pbuffer variants. The variant set is fixed; call sites may switch on
// the concrete types exhaustively.
type Surface interface {
	// InitCheck reports whether all required backing memory was allocated.
	// False signals an allocation failure (or an unsupported pbuffer
	// format) that the constructor did not surface as an error.
	InitCheck() bool

	// Connect establishes the drawable's claim on its buffer provider.
	// A no-op for off-screen variants.
	Connect() error

	// Disconnect releases the provider claim. A no-op for off-screen
	// variants.
	Disconnect()

	// Present swaps the drawable's buffers. Only window surfaces present;
	// off-screen variants fail with ErrNoPresent.
	Present() error

	// BindDraw populates the target's color and depth plane descriptors
	// from the drawable's current buffer state. Must be called again after
	// every Present, since the backing memory may change between frames.
	BindDraw(t sgl.RenderTarget) error

	// BindRead populates the target's read plane descriptor.
	BindRead(t sgl.RenderTarget) error

	// Width returns the current width. For window surfaces it can change
	// between frames when the native window is resized.
	Width() int32

	// Height returns the current height.
	Height() int32

	// SetSwapRect requests a partial update for the next Present: only the
	// given rectangle is treated as redrawn, everything else is preserved
	// by copy-back. Window surfaces only.
	SetSwapRect(l, t, w, h int32) error

	// Destroy tears the drawable down. Any further operation on it is a
	// programming error.
	Destroy()
}

// magicTag marks a live drawable. It is cleared on destruction so that
// use-after-destroy is detectable.
const magicTag uint32 = 0x31415265

// allocPlane allocates a plane with an explicit stride. A package variable
// so allocation-failure paths can be exercised in tests.
var allocPlane = func(width, height, stride int32, format sgl.Format) (sgl.Plane, error) {
	if width <= 0 || height <= 0 || stride < width || !format.Valid() {
		return sgl.Plane{}, sgl.ErrBadAlloc
	}
	return sgl.Plane{
		Width:  width,
		Height: height,
		Stride: stride,
		Format: format,
		Data:   make([]byte, int(stride)*int(height)*int(format.BytesPerPixel())),
	}, nil
}

// drawable carries the state shared by all surface variants: identity,
// owning display, configuration, and the optional depth plane. The depth
// plane is exclusively owned by the drawable and dropped on destruction.
type drawable struct {
	magic  uint32
	dpy    *sgl.Display
	config sgl.Config
	depth  sgl.Plane

	// busy detects concurrent entry into surface operations. Drawables
	// are single-goroutine; this is a diagnostic, not a lock.
	busy atomic.Bool
}

func newDrawable(dpy *sgl.Display, config sgl.Config, depthFormat sgl.Format) drawable {
	return drawable{
		magic:  magicTag,
		dpy:    dpy,
		config: config,
		depth:  sgl.Plane{Format: depthFormat},
	}
}

// valid reports whether the drawable is alive. A dead drawable is a
// programming error on the caller's side; it is diagnosed, not returned.
func (d *drawable) valid() bool {
	if d.magic != magicTag {
		sgl.Logger().Error("operation on invalid surface", "magic", d.magic)
		return false
	}
	return true
}

// enter flags the drawable as in-use for the duration of one operation and
// returns the matching exit. Concurrent entry is diagnosed.
func (d *drawable) enter() func() {
	if !d.busy.CompareAndSwap(false, true) {
		sgl.Logger().Error("concurrent use of a single-goroutine surface")
	}
	return func() { d.busy.Store(false) }
}

// allocDepth (re)allocates the depth plane at the given geometry. The old
// plane, if any, is released only after the new one exists, so a failed
// reallocation leaves prior state intact.
func (d *drawable) allocDepth(width, height, stride int32) error {
	if d.depth.Format == sgl.FormatNone {
		return nil
	}
	p, err := allocPlane(width, height, stride, d.depth.Format)
	if err != nil {
		return sgl.ErrBadAlloc
	}
	d.depth = p
	return nil
}

// teardown invalidates the drawable and drops owned memory. res is the
// concrete surface registered with the display.
func (d *drawable) teardown(res sgl.Resource) {
	d.magic = 0
	d.depth.Data = nil
	if d.dpy != nil {
		d.dpy.Unregister(res)
	}
}
