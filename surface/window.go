package surface

import (
	"github.com/gogpu/sgl"
	"github.com/gogpu/sgl/region"
)

// Window is the on-screen, double-buffered surface variant. It renders into
// buffers dequeued from a NativeWindow provider and hands them back on
// Present. Between Connect and Disconnect the window owns exactly one locked
// buffer (the render target) and, after the first Present, one unlocked
// previous buffer kept for partial-update copy-back.
type Window struct {
	drawable

	win        sgl.NativeWindow
	buffer     sgl.NativeBuffer
	prevBuffer sgl.NativeBuffer
	bits       []byte

	width  int32
	height int32

	// dirty is the pending swap rectangle; empty means full-frame swaps.
	// oldDirty remembers the previous frame's rectangle so Present can
	// copy back the region that frame covered but this one does not.
	dirty    region.Rect
	oldDirty region.Rect

	connected bool
}

var _ Surface = (*Window)(nil)

// NewWindow creates a window surface on the given provider. The surface
// holds a reference on win until Destroy. The depth plane, if the config
// selects one, is allocated lazily on Connect, once the provider's buffer
// geometry is known.
func NewWindow(dpy *sgl.Display, config sgl.Config, win sgl.NativeWindow) (*Window, error) {
	if win == nil {
		return nil, sgl.ErrBadSurface
	}
	_, depthFormat, err := sgl.ConfigFormats(config)
	if err != nil {
		return nil, err
	}
	w := &Window{drawable: newDrawable(dpy, config, depthFormat), win: win}
	if err := dpy.Register(w); err != nil {
		return nil, err
	}
	win.IncRef()
	return w, nil
}

// InitCheck reports whether construction fully succeeded. Window surfaces
// defer buffer and depth allocation to Connect, so this only checks
// liveness.
func (w *Window) InitCheck() bool { return w.magic == magicTag }

// Connect dequeues the window's first render buffer, locks it for CPU
// access, and sizes the depth plane to the buffer's geometry.
func (w *Window) Connect() error {
	if !w.valid() {
		return sgl.ErrBadSurface
	}
	exit := w.enter()
	defer exit()
	if w.connected {
		return nil
	}

	buf, err := w.win.Dequeue()
	if err != nil {
		sgl.Logger().Error("window connect: dequeue failed", "err", err)
		return sgl.ErrBadAlloc
	}
	w.width = buf.Width()
	w.height = buf.Height()
	if err := w.allocDepth(w.width, w.height, w.width); err != nil {
		w.win.Queue(buf)
		return sgl.ErrBadAlloc
	}

	buf.IncRef()
	bits, err := w.win.Lock(buf, sgl.UsageSoftwareRead|sgl.UsageSoftwareWrite)
	if err != nil {
		sgl.Logger().Error("window connect: lock failed", "err", err)
		buf.DecRef()
		w.win.Queue(buf)
		return sgl.ErrBadAccess
	}
	w.buffer = buf
	w.bits = bits
	w.connected = true
	return nil
}

// Disconnect returns the window's buffers to the provider and drops their
// references. The surface itself stays valid and can be reconnected.
func (w *Window) Disconnect() {
	if !w.valid() {
		return
	}
	exit := w.enter()
	defer exit()
	if !w.connected {
		return
	}
	if w.buffer != nil {
		if w.bits != nil {
			w.win.Unlock(w.buffer)
			w.bits = nil
		}
		w.win.Queue(w.buffer)
		w.buffer.DecRef()
		w.buffer = nil
	}
	if w.prevBuffer != nil {
		w.prevBuffer.DecRef()
		w.prevBuffer = nil
	}
	w.connected = false
}

// SetSwapRect declares that only the given rectangle will be redrawn before
// the next Present. Present then preserves the rest of the frame by copying
// it back from the previously displayed buffer.
func (w *Window) SetSwapRect(l, t, width, height int32) error {
	if !w.valid() {
		return sgl.ErrBadSurface
	}
	if width < 0 || height < 0 {
		return sgl.ErrBadAttribute
	}
	w.dirty = region.XYWH(l, t, width, height)
	return nil
}

// Present queues the current buffer for display and dequeues the next one.
//
// With a pending swap rectangle, the part of the previous frame that is not
// being redrawn this frame is first copied from the previously displayed
// buffer into the outgoing one, so the on-screen content stays complete.
//
// If the provider returns a buffer with new dimensions, the depth plane is
// reallocated to match and subsequent BindDraw calls see the new geometry.
// A failed lock of the fresh buffer leaves the surface connected but
// unusable until Disconnect and Connect; the failure is reported as
// ErrBadAccess.
func (w *Window) Present() error {
	if !w.valid() {
		return sgl.ErrBadSurface
	}
	exit := w.enter()
	defer exit()
	if !w.connected || w.buffer == nil || w.bits == nil {
		return sgl.ErrBadAccess
	}

	if !w.dirty.Empty() {
		bounds := region.WH(w.buffer.Width(), w.buffer.Height())
		dirty := region.Intersect(w.dirty, bounds)
		if w.prevBuffer != nil {
			// A provider resize can leave oldDirty covering rows that no
			// longer exist in either buffer; clip before subtracting.
			old := region.Intersect(w.oldDirty, bounds)
			old = region.Intersect(old, region.WH(w.prevBuffer.Width(), w.prevBuffer.Height()))
			copyBack := region.Subtract(old, dirty)
			if !copyBack.Empty() {
				sgl.Logger().Debug("partial swap copy-back", "rects", copyBack.Len())
				w.copyFromPrevious(&copyBack)
			}
		}
		w.oldDirty = dirty
	}

	if w.prevBuffer != nil {
		w.prevBuffer.DecRef()
		w.prevBuffer = nil
	}

	w.win.Unlock(w.buffer)
	w.bits = nil
	if err := w.win.Queue(w.buffer); err != nil {
		sgl.Logger().Error("window present: queue failed", "err", err)
		w.buffer.DecRef()
		w.buffer = nil
		return sgl.ErrBadAccess
	}
	// The reference taken at dequeue time transfers to prevBuffer; it is
	// what keeps the displayed buffer's memory mappable for copy-back.
	w.prevBuffer = w.buffer
	w.buffer = nil

	buf, err := w.win.Dequeue()
	if err != nil {
		sgl.Logger().Error("window present: dequeue failed", "err", err)
		return sgl.ErrBadAlloc
	}
	if buf.Width() != w.width || buf.Height() != w.height {
		if err := w.allocDepth(buf.Width(), buf.Height(), buf.Stride()); err != nil {
			w.win.Queue(buf)
			return sgl.ErrBadAlloc
		}
		w.width = buf.Width()
		w.height = buf.Height()
	}

	buf.IncRef()
	bits, err := w.win.Lock(buf, sgl.UsageSoftwareRead|sgl.UsageSoftwareWrite)
	if err != nil {
		sgl.Logger().Error("window present: lock failed", "err", err)
		w.buffer = buf
		return sgl.ErrBadAccess
	}
	w.buffer = buf
	w.bits = bits
	return nil
}

// copyFromPrevious blits the clip region from the previously displayed
// buffer into the current render buffer. Failures only degrade the frame's
// preserved area, so they are logged and swallowed.
func (w *Window) copyFromPrevious(clip *region.Region) {
	prevBits, err := w.win.Lock(w.prevBuffer, sgl.UsageSoftwareRead)
	if err != nil {
		sgl.Logger().Warn("window present: previous buffer lock failed", "err", err)
		return
	}
	defer w.win.Unlock(w.prevBuffer)

	src, err := sgl.WrapPlane(prevBits, w.prevBuffer.Width(), w.prevBuffer.Height(),
		w.prevBuffer.Stride(), w.prevBuffer.Format())
	if err != nil {
		sgl.Logger().Warn("window present: previous buffer unusable", "err", err)
		return
	}
	dst, err := sgl.WrapPlane(w.bits, w.buffer.Width(), w.buffer.Height(),
		w.buffer.Stride(), w.buffer.Format())
	if err != nil {
		sgl.Logger().Warn("window present: current buffer unusable", "err", err)
		return
	}
	sgl.Blit(dst, src, clip)
}

// BindDraw fills in the target's color and depth planes from the current
// render buffer. Stale after Present; rebind every frame.
func (w *Window) BindDraw(t sgl.RenderTarget) error {
	if !w.valid() {
		return sgl.ErrBadSurface
	}
	if !w.connected || w.bits == nil {
		return sgl.ErrBadAccess
	}
	color, err := sgl.WrapPlane(w.bits, w.buffer.Width(), w.buffer.Height(),
		w.buffer.Stride(), w.buffer.Format())
	if err != nil {
		return sgl.ErrBadAccess
	}
	t.SetColorPlane(color)
	t.SetDepthPlane(w.depth)
	return nil
}

// BindRead exposes the current render buffer for pixel readback.
func (w *Window) BindRead(t sgl.RenderTarget) error {
	if !w.valid() {
		return sgl.ErrBadSurface
	}
	if !w.connected || w.bits == nil {
		return sgl.ErrBadAccess
	}
	read, err := sgl.WrapPlane(w.bits, w.buffer.Width(), w.buffer.Height(),
		w.buffer.Stride(), w.buffer.Format())
	if err != nil {
		return sgl.ErrBadAccess
	}
	t.SetReadPlane(read)
	return nil
}

// Width returns the current buffer width. It tracks provider resizes across
// Present calls.
func (w *Window) Width() int32 { return w.width }

// Height returns the current buffer height.
func (w *Window) Height() int32 { return w.height }

// Destroy disconnects if needed, releases the window reference, and
// invalidates the surface.
func (w *Window) Destroy() {
	if !w.valid() {
		return
	}
	w.Disconnect()
	w.win.DecRef()
	w.win = nil
	w.teardown(w)
}
