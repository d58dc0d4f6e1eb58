// Package memwin provides an in-memory buffer-queue provider implementing
// sgl.NativeWindow. It models a flip chain: queued buffers become the
// displayed frame, and the frame they replace returns to the free list for
// rendering. It backs the demo and the surface tests; a real deployment
// would wire a compositor or framebuffer provider instead.
package memwin

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/sgl"
)

// Buffer is one slot of a Window's flip chain.
type Buffer struct {
	win    *Window
	data   []byte
	width  int32
	height int32
	stride int32
	format sgl.Format
	refs   atomic.Int32
	locked bool
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int32 { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int32 { return b.height }

// Stride returns the row stride in pixels. Rows are padded to an 8 pixel
// boundary, so stride generally exceeds width.
func (b *Buffer) Stride() int32 { return b.stride }

// Format returns the pixel format.
func (b *Buffer) Format() sgl.Format { return b.format }

// IncRef takes a reference.
func (b *Buffer) IncRef() { b.refs.Add(1) }

// DecRef releases a reference. Over-release is a bug in the caller's
// ownership bookkeeping and panics.
func (b *Buffer) DecRef() {
	if b.refs.Add(-1) < 0 {
		panic("memwin: buffer reference over-released")
	}
}

// RefCount returns the current reference count. Intended for tests
// asserting ownership balance.
func (b *Buffer) RefCount() int32 { return b.refs.Load() }

// Bytes exposes the backing memory without locking. Intended for tests
// inspecting presented frames.
func (b *Buffer) Bytes() []byte { return b.data }

// Window is an in-memory sgl.NativeWindow with a fixed number of buffer
// slots. Dequeue blocks until a slot is free, which happens when a newer
// frame displaces it from the displayed position.
type Window struct {
	mu   sync.Mutex
	cond *sync.Cond

	width  int32
	height int32
	format sgl.Format

	free      []*Buffer
	displayed *Buffer
	presents  int
	closed    bool

	refs atomic.Int32
}

var _ sgl.NativeWindow = (*Window)(nil)

func align8(v int32) int32 { return (v + 7) &^ 7 }

// New creates a window with the given geometry and slot count. Two slots
// give classic double buffering.
func New(width, height int32, format sgl.Format, slots int) *Window {
	w := &Window{width: width, height: height, format: format}
	w.cond = sync.NewCond(&w.mu)
	for i := 0; i < slots; i++ {
		w.free = append(w.free, w.newBuffer())
	}
	return w
}

func (w *Window) newBuffer() *Buffer {
	stride := align8(w.width)
	return &Buffer{
		win:    w,
		width:  w.width,
		height: w.height,
		stride: stride,
		format: w.format,
		data:   make([]byte, int(stride)*int(w.height)*int(w.format.BytesPerPixel())),
	}
}

// IncRef takes a reference on the window.
func (w *Window) IncRef() { w.refs.Add(1) }

// DecRef releases a window reference.
func (w *Window) DecRef() {
	if w.refs.Add(-1) < 0 {
		panic("memwin: window reference over-released")
	}
}

// RefCount returns the window's reference count, for tests.
func (w *Window) RefCount() int32 { return w.refs.Load() }

// Size returns the nominal window dimensions.
func (w *Window) Size() (int32, int32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Resize changes the window geometry. Already dequeued buffers keep their
// old dimensions; buffers are rebuilt to the new geometry as they pass
// through Dequeue, which is how real providers deliver resizes.
func (w *Window) Resize(width, height int32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width = width
	w.height = height
}

// Close unblocks pending Dequeue calls with an error. Further operations
// fail.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.cond.Broadcast()
}

// Dequeue returns the oldest free slot, blocking while the chain is fully
// in flight. A slot whose geometry is stale is rebuilt to the current
// window size before it is handed out.
func (w *Window) Dequeue() (sgl.NativeBuffer, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.free) == 0 && !w.closed {
		w.cond.Wait()
	}
	if w.closed {
		return nil, sgl.ErrBadDisplay
	}
	buf := w.free[0]
	w.free = w.free[1:]
	if buf.width != w.width || buf.height != w.height {
		buf.width = w.width
		buf.height = w.height
		buf.stride = align8(w.width)
		buf.data = make([]byte, int(buf.stride)*int(buf.height)*int(buf.format.BytesPerPixel()))
	}
	return buf, nil
}

// Lock maps the buffer for CPU access. The mapping is the backing slice
// itself; the usage flags are accepted but not differentiated.
func (w *Window) Lock(buf sgl.NativeBuffer, usage sgl.Usage) ([]byte, error) {
	b, err := w.own(buf)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if b.locked {
		return nil, sgl.ErrBadAccess
	}
	b.locked = true
	return b.data, nil
}

// Unlock releases a CPU mapping.
func (w *Window) Unlock(buf sgl.NativeBuffer) error {
	b, err := w.own(buf)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !b.locked {
		return sgl.ErrBadAccess
	}
	b.locked = false
	return nil
}

// Queue presents a rendered buffer. It becomes the displayed frame and the
// frame it replaces returns to the free list, waking one blocked Dequeue.
func (w *Window) Queue(buf sgl.NativeBuffer) error {
	b, err := w.own(buf)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if b.locked {
		return sgl.ErrBadAccess
	}
	if w.displayed != nil {
		w.free = append(w.free, w.displayed)
		w.cond.Signal()
	}
	w.displayed = b
	w.presents++
	return nil
}

// Displayed returns the buffer currently on screen, for tests.
func (w *Window) Displayed() *Buffer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.displayed
}

// Presents returns how many frames have been queued, for tests.
func (w *Window) Presents() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.presents
}

func (w *Window) own(buf sgl.NativeBuffer) (*Buffer, error) {
	b, ok := buf.(*Buffer)
	if !ok || b.win != w {
		return nil, sgl.ErrBadAccess
	}
	return b, nil
}
