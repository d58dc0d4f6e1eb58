package surface

import "github.com/gogpu/sgl"

// Pixmap is an off-screen surface rendering into caller-owned memory. The
// pixel plane is borrowed for the surface's lifetime; the caller keeps
// ownership and must keep it alive until Destroy. Only the depth plane, if
// the config selects one, is allocated and owned here.
type Pixmap struct {
	drawable
	pix sgl.Plane
}

var _ Surface = (*Pixmap)(nil)

// NewPixmap wraps pix as a render surface. The plane's format must match
// the configuration's color format.
func NewPixmap(dpy *sgl.Display, config sgl.Config, pix sgl.Plane) (*Pixmap, error) {
	if !pix.Valid() {
		return nil, sgl.ErrBadSurface
	}
	colorFormat, depthFormat, err := sgl.ConfigFormats(config)
	if err != nil {
		return nil, err
	}
	if pix.Format != colorFormat {
		return nil, sgl.ErrBadSurface
	}
	p := &Pixmap{drawable: newDrawable(dpy, config, depthFormat), pix: pix}
	if err := dpy.Register(p); err != nil {
		return nil, err
	}
	// Depth allocation failure is reported through InitCheck, matching the
	// pbuffer variant.
	if err := p.allocDepth(pix.Width, pix.Height, pix.Width); err != nil {
		sgl.Logger().Error("pixmap: depth plane allocation failed",
			"width", pix.Width, "height", pix.Height)
	}
	return p, nil
}

// InitCheck reports whether the depth plane, when required, was allocated.
func (p *Pixmap) InitCheck() bool {
	if p.magic != magicTag {
		return false
	}
	return p.depth.Format == sgl.FormatNone || p.depth.Valid()
}

// Connect is a no-op; pixmaps have no buffer provider.
func (p *Pixmap) Connect() error {
	if !p.valid() {
		return sgl.ErrBadSurface
	}
	return nil
}

// Disconnect is a no-op.
func (p *Pixmap) Disconnect() {}

// Present fails; off-screen surfaces do not swap.
func (p *Pixmap) Present() error {
	if !p.valid() {
		return sgl.ErrBadSurface
	}
	return sgl.ErrNoPresent
}

// SetSwapRect fails; partial updates only apply to window surfaces.
func (p *Pixmap) SetSwapRect(l, t, w, h int32) error {
	if !p.valid() {
		return sgl.ErrBadSurface
	}
	return sgl.ErrNoPresent
}

// BindDraw exposes the wrapped plane and the owned depth plane.
func (p *Pixmap) BindDraw(t sgl.RenderTarget) error {
	if !p.valid() {
		return sgl.ErrBadSurface
	}
	t.SetColorPlane(p.pix)
	t.SetDepthPlane(p.depth)
	return nil
}

// BindRead exposes the wrapped plane for readback.
func (p *Pixmap) BindRead(t sgl.RenderTarget) error {
	if !p.valid() {
		return sgl.ErrBadSurface
	}
	t.SetReadPlane(p.pix)
	return nil
}

// Width returns the wrapped plane's width.
func (p *Pixmap) Width() int32 { return p.pix.Width }

// Height returns the wrapped plane's height.
func (p *Pixmap) Height() int32 { return p.pix.Height }

// Destroy invalidates the surface. The wrapped plane is returned to the
// caller untouched.
func (p *Pixmap) Destroy() {
	if !p.valid() {
		return
	}
	p.pix = sgl.Plane{}
	p.teardown(p)
}
