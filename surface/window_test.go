package surface

import (
	"errors"
	"testing"

	"github.com/gogpu/sgl"
	"github.com/gogpu/sgl/memwin"
)

// cfgRGBA and cfgRGBADepth are the RGBA8888 configs without and with a
// depth plane.
var (
	cfgRGBA      = findConfig(sgl.FormatRGBA8888, false)
	cfgRGBADepth = findConfig(sgl.FormatRGBA8888, true)
)

func findConfig(color sgl.Format, depth bool) sgl.Config {
	for _, c := range sgl.Configs() {
		cf, df, _ := sgl.ConfigFormats(c)
		if cf == color && (df != sgl.FormatNone) == depth {
			return c
		}
	}
	panic("no such config")
}

func testDisplay(t *testing.T) *sgl.Display {
	t.Helper()
	dpy := &sgl.Display{}
	if err := dpy.Initialize(); err != nil {
		t.Fatalf("initialize display: %v", err)
	}
	t.Cleanup(dpy.Terminate)
	return dpy
}

// target records bound planes.
type target struct {
	color sgl.Plane
	depth sgl.Plane
	read  sgl.Plane
}

func (t *target) SetColorPlane(p sgl.Plane) { t.color = p }
func (t *target) SetDepthPlane(p sgl.Plane) { t.depth = p }
func (t *target) SetReadPlane(p sgl.Plane)  { t.read = p }

func fullSwap(t *testing.T, ws *Window) {
	t.Helper()
	if err := ws.SetSwapRect(0, 0, ws.Width(), ws.Height()); err != nil {
		t.Fatalf("swap rect: %v", err)
	}
}

func TestWindowLifecycleRefBalance(t *testing.T) {
	dpy := testDisplay(t)
	win := memwin.New(8, 4, sgl.FormatRGBA8888, 2)

	ws, err := NewWindow(dpy, cfgRGBA, win)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if win.RefCount() != 1 {
		t.Fatalf("window refs after create = %d, want 1", win.RefCount())
	}
	if err := ws.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}

	for i := 0; i < 3; i++ {
		fullSwap(t, ws)
		if err := ws.Present(); err != nil {
			t.Fatalf("present %d: %v", i, err)
		}
		// The displayed buffer is retained for copy-back only.
		if got := win.Displayed().RefCount(); got != 1 {
			t.Fatalf("displayed refs after present %d = %d, want 1", i, got)
		}
	}

	ws.Disconnect()
	if got := win.Displayed().RefCount(); got != 0 {
		t.Fatalf("displayed refs after disconnect = %d, want 0", got)
	}
	other, err := win.Dequeue()
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if got := other.(*memwin.Buffer).RefCount(); got != 0 {
		t.Fatalf("recycled buffer refs = %d, want 0", got)
	}

	ws.Destroy()
	if win.RefCount() != 0 {
		t.Fatalf("window refs after destroy = %d, want 0", win.RefCount())
	}
}

func TestWindowPartialUpdatePreservesFrame(t *testing.T) {
	dpy := testDisplay(t)
	win := memwin.New(8, 4, sgl.FormatRGBA8888, 2)
	ws, err := NewWindow(dpy, cfgRGBA, win)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if err := ws.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer ws.Destroy()

	fill := func(left, right int32, val byte) {
		var tg target
		if err := ws.BindDraw(&tg); err != nil {
			t.Fatalf("bind: %v", err)
		}
		for y := int32(0); y < tg.color.Height; y++ {
			for x := left; x < right; x++ {
				off := (y*tg.color.Stride + x) * 4
				for i := int32(0); i < 4; i++ {
					tg.color.Data[off+i] = val
				}
			}
		}
	}

	// Frame 0: full frame of 0xAA.
	fullSwap(t, ws)
	fill(0, 8, 0xAA)
	if err := ws.Present(); err != nil {
		t.Fatalf("present 0: %v", err)
	}

	// Frame 1: only the left half is redrawn with 0xBB; the right half
	// must be copied back from the previous frame.
	if err := ws.SetSwapRect(0, 0, 4, 4); err != nil {
		t.Fatalf("swap rect: %v", err)
	}
	fill(0, 4, 0xBB)
	if err := ws.Present(); err != nil {
		t.Fatalf("present 1: %v", err)
	}

	shown := win.Displayed()
	data := shown.Bytes()
	stride := shown.Stride()
	for y := int32(0); y < 4; y++ {
		for x := int32(0); x < 8; x++ {
			want := byte(0xBB)
			if x >= 4 {
				want = 0xAA
			}
			got := data[(y*stride+x)*4]
			if got != want {
				t.Fatalf("pixel (%d,%d) = %#x, want %#x", x, y, got, want)
			}
		}
	}
}

func TestWindowResizeReallocatesDepth(t *testing.T) {
	dpy := testDisplay(t)
	win := memwin.New(8, 4, sgl.FormatRGBA8888, 2)
	ws, err := NewWindow(dpy, cfgRGBADepth, win)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if err := ws.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer ws.Destroy()

	if ws.depth.Width != 8 || ws.depth.Height != 4 {
		t.Fatalf("depth %dx%d, want 8x4", ws.depth.Width, ws.depth.Height)
	}

	win.Resize(16, 6)
	fullSwap(t, ws)
	if err := ws.Present(); err != nil {
		t.Fatalf("present: %v", err)
	}
	if ws.Width() != 16 || ws.Height() != 6 {
		t.Fatalf("surface %dx%d, want 16x6", ws.Width(), ws.Height())
	}
	if ws.depth.Width != 16 || ws.depth.Height != 6 {
		t.Fatalf("depth %dx%d, want 16x6", ws.depth.Width, ws.depth.Height)
	}

	var tg target
	if err := ws.BindDraw(&tg); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if tg.color.Width != 16 || tg.depth.Width != 16 {
		t.Fatalf("bound planes %d/%d wide, want 16", tg.color.Width, tg.depth.Width)
	}
}

func TestWindowResizeDepthAllocFailureKeepsState(t *testing.T) {
	dpy := testDisplay(t)
	win := memwin.New(8, 4, sgl.FormatRGBA8888, 2)
	ws, err := NewWindow(dpy, cfgRGBADepth, win)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if err := ws.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer ws.Destroy()

	saved := allocPlane
	allocPlane = func(w, h, s int32, f sgl.Format) (sgl.Plane, error) {
		return sgl.Plane{}, sgl.ErrBadAlloc
	}
	defer func() { allocPlane = saved }()

	win.Resize(16, 6)
	fullSwap(t, ws)
	if err := ws.Present(); !errors.Is(err, sgl.ErrBadAlloc) {
		t.Fatalf("present = %v, want ErrBadAlloc", err)
	}
	if ws.Width() != 8 || ws.Height() != 4 {
		t.Fatalf("surface %dx%d after failed realloc, want 8x4", ws.Width(), ws.Height())
	}
	if ws.depth.Width != 8 || ws.depth.Height != 4 {
		t.Fatalf("depth %dx%d after failed realloc, want 8x4", ws.depth.Width, ws.depth.Height)
	}
}

// lockFailWindow wraps a memwin window and fails Lock on demand.
type lockFailWindow struct {
	*memwin.Window
	fail bool
}

func (w *lockFailWindow) Lock(buf sgl.NativeBuffer, usage sgl.Usage) ([]byte, error) {
	if w.fail {
		return nil, sgl.ErrBadAccess
	}
	return w.Window.Lock(buf, usage)
}

func TestWindowPresentLockFailure(t *testing.T) {
	dpy := testDisplay(t)
	win := &lockFailWindow{Window: memwin.New(8, 4, sgl.FormatRGBA8888, 2)}
	ws, err := NewWindow(dpy, cfgRGBA, win)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if err := ws.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer ws.Destroy()

	fullSwap(t, ws)
	win.fail = true
	if err := ws.Present(); !errors.Is(err, sgl.ErrBadAccess) {
		t.Fatalf("present = %v, want ErrBadAccess", err)
	}
	var tg target
	if err := ws.BindDraw(&tg); !errors.Is(err, sgl.ErrBadAccess) {
		t.Fatalf("bind after failed lock = %v, want ErrBadAccess", err)
	}

	// Reconnecting recovers the surface.
	win.fail = false
	ws.Disconnect()
	if err := ws.Connect(); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if err := ws.BindDraw(&tg); err != nil {
		t.Fatalf("bind after reconnect: %v", err)
	}
}

func TestWindowPresentWithoutConnect(t *testing.T) {
	dpy := testDisplay(t)
	win := memwin.New(8, 4, sgl.FormatRGBA8888, 2)
	ws, err := NewWindow(dpy, cfgRGBA, win)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	defer ws.Destroy()
	if err := ws.Present(); !errors.Is(err, sgl.ErrBadAccess) {
		t.Fatalf("present = %v, want ErrBadAccess", err)
	}
}

func TestWindowSetSwapRectNegative(t *testing.T) {
	dpy := testDisplay(t)
	win := memwin.New(8, 4, sgl.FormatRGBA8888, 2)
	ws, err := NewWindow(dpy, cfgRGBA, win)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	defer ws.Destroy()
	if err := ws.SetSwapRect(0, 0, -1, 4); !errors.Is(err, sgl.ErrBadAttribute) {
		t.Fatalf("swap rect = %v, want ErrBadAttribute", err)
	}
}

func TestWindowDestroyInvalidates(t *testing.T) {
	dpy := testDisplay(t)
	win := memwin.New(8, 4, sgl.FormatRGBA8888, 2)
	ws, err := NewWindow(dpy, cfgRGBA, win)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if err := ws.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}

	ws.Destroy()
	if ws.InitCheck() {
		t.Fatal("destroyed surface reports healthy")
	}
	if err := ws.Present(); !errors.Is(err, sgl.ErrBadSurface) {
		t.Fatalf("present after destroy = %v, want ErrBadSurface", err)
	}
	if err := ws.SetSwapRect(0, 0, 1, 1); !errors.Is(err, sgl.ErrBadSurface) {
		t.Fatalf("swap rect after destroy = %v, want ErrBadSurface", err)
	}
	ws.Destroy() // second destroy is a diagnosed no-op
}

func TestWindowDestroyedByTerminate(t *testing.T) {
	dpy := &sgl.Display{}
	if err := dpy.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	win := memwin.New(8, 4, sgl.FormatRGBA8888, 2)
	ws, err := NewWindow(dpy, cfgRGBA, win)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if err := ws.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}

	dpy.Terminate()
	if ws.InitCheck() {
		t.Fatal("surface should be destroyed with its display")
	}
	if win.RefCount() != 0 {
		t.Fatalf("window refs after terminate = %d, want 0", win.RefCount())
	}
}

func TestWindowSwapRectClippedToBuffer(t *testing.T) {
	dpy := testDisplay(t)
	win := memwin.New(8, 4, sgl.FormatRGBA8888, 2)
	ws, err := NewWindow(dpy, cfgRGBA, win)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if err := ws.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer ws.Destroy()

	if err := ws.SetSwapRect(0, 0, 100, 100); err != nil {
		t.Fatalf("swap rect: %v", err)
	}
	if err := ws.Present(); err != nil {
		t.Fatalf("present: %v", err)
	}
	if err := ws.Present(); err != nil {
		t.Fatalf("second present: %v", err)
	}
}

// A shrink leaves the previous swap rectangle covering rows that no longer
// exist; a partial present right after must clip the copy-back instead of
// reading and writing past the smaller buffers.
func TestWindowShrinkThenPartialPresent(t *testing.T) {
	dpy := testDisplay(t)
	win := memwin.New(8, 4, sgl.FormatRGBA8888, 2)
	ws, err := NewWindow(dpy, cfgRGBA, win)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if err := ws.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer ws.Destroy()

	fill := func(left, top, right, bottom int32, val byte) {
		var tg target
		if err := ws.BindDraw(&tg); err != nil {
			t.Fatalf("bind: %v", err)
		}
		for y := top; y < bottom; y++ {
			for x := left; x < right; x++ {
				off := (y*tg.color.Stride + x) * 4
				for i := int32(0); i < 4; i++ {
					tg.color.Data[off+i] = val
				}
			}
		}
	}

	for i := 0; i < 2; i++ {
		fullSwap(t, ws)
		if err := ws.Present(); err != nil {
			t.Fatalf("present %d: %v", i, err)
		}
	}

	// The buffer in hand is still 8x4; the provider hands out 4x2 buffers
	// only after this frame is queued.
	win.Resize(4, 2)
	fullSwap(t, ws)
	fill(0, 0, 8, 4, 0xAA)
	if err := ws.Present(); err != nil {
		t.Fatalf("present after resize: %v", err)
	}
	if ws.Width() != 4 || ws.Height() != 2 {
		t.Fatalf("surface %dx%d, want 4x2", ws.Width(), ws.Height())
	}

	if err := ws.SetSwapRect(0, 0, 1, 1); err != nil {
		t.Fatalf("swap rect: %v", err)
	}
	fill(0, 0, 1, 1, 0xBB)
	if err := ws.Present(); err != nil {
		t.Fatalf("partial present after resize: %v", err)
	}

	shown := win.Displayed()
	data := shown.Bytes()
	stride := shown.Stride()
	for y := int32(0); y < 2; y++ {
		for x := int32(0); x < 4; x++ {
			want := byte(0xAA)
			if x == 0 && y == 0 {
				want = 0xBB
			}
			got := data[(y*stride+x)*4]
			if got != want {
				t.Fatalf("pixel (%d,%d) = %#x, want %#x", x, y, got, want)
			}
		}
	}
}
