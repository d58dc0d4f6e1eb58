package sgl

import "github.com/gogpu/sgl/region"

// Blit copies the clip region's pixels from src to dst. dst and src must be
// the same pixel format.
//
// A registered blit engine is tried first; when absent or when it reports
// failure, the copy falls back to the manual per-rectangle path. Engine
// failures are recovered here and never surfaced to the caller.
func Blit(dst, src Plane, clip *region.Region) {
	if clip == nil || clip.Empty() {
		return
	}
	if b := ActiveBlitter(); b != nil {
		err := b.Blit(dst, src, clip)
		if err == nil {
			return
		}
		Logger().Warn("blit engine failed, using software copy",
			"engine", b.Name(), "err", err)
	}
	blitSoftware(dst, src, clip)
}

// blitSoftware is the manual per-rectangle copy. For each rectangle it
// computes row strides from the format's bytes per pixel; when both planes
// share the same row pitch and the rectangle spans a full row, the per-row
// loop collapses into one contiguous copy. Zero-area rectangles are skipped.
func blitSoftware(dst, src Plane, clip *region.Region) {
	bpp := int(src.Format.BytesPerPixel())
	if bpp == 0 {
		return
	}
	dbpr := int(dst.Stride) * bpp
	sbpr := int(src.Stride) * bpp

	it := clip.Iter()
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		w := int(r.Width())
		h := int(r.Height())
		if w <= 0 || h <= 0 {
			continue
		}
		size := w * bpp
		so := (int(r.Left) + int(src.Stride)*int(r.Top)) * bpp
		do := (int(r.Left) + int(dst.Stride)*int(r.Top)) * bpp
		if dbpr == sbpr && size == sbpr {
			size *= h
			h = 1
		}
		for ; h > 0; h-- {
			copy(dst.Data[do:do+size], src.Data[so:so+size])
			do += dbpr
			so += sbpr
		}
	}
}
