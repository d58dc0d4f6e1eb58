// Package region provides axis-aligned rectangles and the small disjoint
// rectangle sets used for partial-update copy-back.
//
// A Region is not a general polygon. It is only ever produced by Subtract,
// which decomposes the uncovered part of a rectangle into at most four
// disjoint strips. The decomposition order is fixed and load-bearing: the
// window-surface swap path treats the resulting rectangles as "still valid
// from the previous frame" and copies them verbatim.
package region

// Rect is an axis-aligned rectangle with exclusive right/bottom edges.
// A Rect is empty iff Left >= Right or Top >= Bottom.
type Rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// XYWH constructs a Rect from an origin and a size.
func XYWH(x, y, w, h int32) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// WH constructs a Rect anchored at the origin.
func WH(w, h int32) Rect {
	return Rect{Right: w, Bottom: h}
}

// Empty reports whether the rectangle contains no pixels.
func (r Rect) Empty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// Width returns Right - Left. Negative for malformed rectangles.
func (r Rect) Width() int32 { return r.Right - r.Left }

// Height returns Bottom - Top. Negative for malformed rectangles.
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// Intersect returns the componentwise intersection of a and b.
// The result may be empty; that is not an error.
func Intersect(a, b Rect) Rect {
	return Rect{
		Left:   max(a.Left, b.Left),
		Top:    max(a.Top, b.Top),
		Right:  min(a.Right, b.Right),
		Bottom: min(a.Bottom, b.Bottom),
	}
}

// maxRects is the capacity bound of a Region. Subtract never produces more
// than four pieces: one strip above, one below, and one on each side of the
// overlap band.
const maxRects = 4

// Region is an ordered, fixed-capacity set of disjoint rectangles.
// The zero value is the empty region.
type Region struct {
	rects [maxRects]Rect
	count int
}

// Empty reports whether the region contains no rectangles.
func (g *Region) Empty() bool { return g.count <= 0 }

// Len returns the number of rectangles in the region.
func (g *Region) Len() int { return g.count }

// Rects returns the region's rectangles in decomposition order.
// The returned slice aliases the region and must not be modified.
func (g *Region) Rects() []Rect { return g.rects[:g.count] }

// Subtract computes the part of lhs not covered by rhs, decomposed into up
// to four non-overlapping rectangles in this order:
//
//  1. the strip of lhs above rhs's top edge
//  2. within the vertical band where both overlap, the strip left of rhs
//  3. within the same band, the strip right of rhs
//  4. the strip of lhs below rhs's bottom edge
//
// If lhs is empty the result is empty. If the rectangles do not intersect,
// nothing is covered and the result is lhs itself.
func Subtract(lhs, rhs Rect) Region {
	var reg Region
	if lhs.Empty() {
		return reg
	}
	if Intersect(lhs, rhs).Empty() {
		reg.rects[0] = lhs
		reg.count = 1
		return reg
	}
	if lhs.Top < rhs.Top { // top strip
		reg.rects[reg.count] = Rect{
			Left:   lhs.Left,
			Top:    lhs.Top,
			Right:  lhs.Right,
			Bottom: rhs.Top,
		}
		reg.count++
	}
	top := max(lhs.Top, rhs.Top)
	bot := min(lhs.Bottom, rhs.Bottom)
	if top < bot {
		if lhs.Left < rhs.Left { // left strip
			reg.rects[reg.count] = Rect{
				Left:   lhs.Left,
				Top:    top,
				Right:  rhs.Left,
				Bottom: bot,
			}
			reg.count++
		}
		if lhs.Right > rhs.Right { // right strip
			reg.rects[reg.count] = Rect{
				Left:   rhs.Right,
				Top:    top,
				Right:  lhs.Right,
				Bottom: bot,
			}
			reg.count++
		}
	}
	if lhs.Bottom > rhs.Bottom { // bottom strip
		reg.rects[reg.count] = Rect{
			Left:   lhs.Left,
			Top:    rhs.Bottom,
			Right:  lhs.Right,
			Bottom: lhs.Bottom,
		}
		reg.count++
	}
	return reg
}
