package surface

import "github.com/gogpu/sgl"

// Pbuffer is a fully self-owned off-screen surface. Both the color and the
// optional depth plane are allocated at construction and freed on Destroy.
type Pbuffer struct {
	drawable
	pix sgl.Plane
}

var _ Surface = (*Pbuffer)(nil)

// pbufferFormatSupported lists the color formats a pbuffer can be allocated
// with. Depth-only and unknown formats are rejected.
func pbufferFormatSupported(f sgl.Format) bool {
	switch f {
	case sgl.FormatA8, sgl.FormatRGB565, sgl.FormatRGBA8888, sgl.FormatRGBX8888:
		return true
	}
	return false
}

// NewPbuffer allocates an off-screen surface of the given size using the
// configuration's color format. An unsupported format or a failed
// allocation does not fail construction; the surface is created with no
// backing memory and InitCheck reports false, so callers can distinguish
// the two outcomes from a plain bad parameter.
func NewPbuffer(dpy *sgl.Display, config sgl.Config, width, height int32) (*Pbuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, sgl.ErrBadAttribute
	}
	colorFormat, depthFormat, err := sgl.ConfigFormats(config)
	if err != nil {
		return nil, err
	}
	p := &Pbuffer{drawable: newDrawable(dpy, config, depthFormat)}
	if err := dpy.Register(p); err != nil {
		return nil, err
	}
	if !pbufferFormatSupported(colorFormat) {
		sgl.Logger().Error("pbuffer: unsupported color format", "format", colorFormat)
		return p, nil
	}
	pix, err := allocPlane(width, height, width, colorFormat)
	if err != nil {
		sgl.Logger().Error("pbuffer: color plane allocation failed",
			"width", width, "height", height, "format", colorFormat)
		return p, nil
	}
	p.pix = pix
	if err := p.allocDepth(width, height, width); err != nil {
		sgl.Logger().Error("pbuffer: depth plane allocation failed",
			"width", width, "height", height)
	}
	return p, nil
}

// InitCheck reports whether the color plane, and the depth plane when
// required, were allocated.
func (p *Pbuffer) InitCheck() bool {
	if p.magic != magicTag || !p.pix.Valid() {
		return false
	}
	return p.depth.Format == sgl.FormatNone || p.depth.Valid()
}

// Connect is a no-op; pbuffers have no buffer provider.
func (p *Pbuffer) Connect() error {
	if !p.valid() {
		return sgl.ErrBadSurface
	}
	return nil
}

// Disconnect is a no-op.
func (p *Pbuffer) Disconnect() {}

// Present fails; off-screen surfaces do not swap.
func (p *Pbuffer) Present() error {
	if !p.valid() {
		return sgl.ErrBadSurface
	}
	return sgl.ErrNoPresent
}

// SetSwapRect fails; partial updates only apply to window surfaces.
func (p *Pbuffer) SetSwapRect(l, t, w, h int32) error {
	if !p.valid() {
		return sgl.ErrBadSurface
	}
	return sgl.ErrNoPresent
}

// BindDraw exposes the owned color and depth planes.
func (p *Pbuffer) BindDraw(t sgl.RenderTarget) error {
	if !p.valid() {
		return sgl.ErrBadSurface
	}
	if !p.pix.Valid() {
		return sgl.ErrBadAccess
	}
	t.SetColorPlane(p.pix)
	t.SetDepthPlane(p.depth)
	return nil
}

// BindRead exposes the owned color plane.
func (p *Pbuffer) BindRead(t sgl.RenderTarget) error {
	if !p.valid() {
		return sgl.ErrBadSurface
	}
	if !p.pix.Valid() {
		return sgl.ErrBadAccess
	}
	t.SetReadPlane(p.pix)
	return nil
}

// Width returns the allocated width, or zero when allocation failed.
func (p *Pbuffer) Width() int32 { return p.pix.Width }

// Height returns the allocated height.
func (p *Pbuffer) Height() int32 { return p.pix.Height }

// Destroy frees the owned planes and invalidates the surface.
func (p *Pbuffer) Destroy() {
	if !p.valid() {
		return
	}
	p.pix = sgl.Plane{}
	p.teardown(p)
}
