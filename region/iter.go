package region

// Iterator walks a Region's rectangles in decomposition order. It is the
// hand-off format consumed by blit engines: a finite sequence that can be
// restarted from construction by calling Reset.
//
// Iterating is read-only and never mutates the underlying Region.
type Iterator struct {
	reg *Region
	pos int
}

// Iter returns an iterator positioned at the region's first rectangle.
func (g *Region) Iter() Iterator {
	return Iterator{reg: g}
}

// Next returns the next rectangle, or ok=false when the sequence is
// exhausted.
func (it *Iterator) Next() (r Rect, ok bool) {
	if it.reg == nil || it.pos >= it.reg.count {
		return Rect{}, false
	}
	r = it.reg.rects[it.pos]
	it.pos++
	return r, true
}

// Reset rewinds the iterator to the first rectangle.
func (it *Iterator) Reset() { it.pos = 0 }
