package region

import "testing"

func contains(r Rect, x, y int32) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// TestIntersect tests componentwise intersection.
func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", XYWH(0, 0, 10, 10), XYWH(5, 5, 10, 10), Rect{5, 5, 10, 10}},
		{"contained", XYWH(0, 0, 100, 100), XYWH(20, 30, 10, 10), Rect{20, 30, 30, 40}},
		{"identical", XYWH(1, 2, 3, 4), XYWH(1, 2, 3, 4), Rect{1, 2, 4, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersect(tt.a, tt.b); got != tt.want {
				t.Errorf("Intersect(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestIntersectDisjoint tests that disjoint rectangles intersect to empty.
func TestIntersectDisjoint(t *testing.T) {
	a := XYWH(0, 0, 10, 10)
	b := XYWH(20, 20, 10, 10)
	if got := Intersect(a, b); !got.Empty() {
		t.Errorf("Intersect of disjoint rects = %v, want empty", got)
	}
}

// TestSubtractOrder verifies the fixed four-strip decomposition order:
// top, left-of-band, right-of-band, bottom.
func TestSubtractOrder(t *testing.T) {
	lhs := XYWH(0, 0, 100, 100)
	rhs := XYWH(25, 25, 50, 50)

	reg := Subtract(lhs, rhs)
	want := []Rect{
		{0, 0, 100, 25},   // top strip
		{0, 25, 25, 75},   // left strip
		{75, 25, 100, 75}, // right strip
		{0, 75, 100, 100}, // bottom strip
	}
	got := reg.Rects()
	if len(got) != len(want) {
		t.Fatalf("Subtract produced %d rects, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rect %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestSubtractPartialUpdate pins the copy-back case from the swap path:
// previous frame (0,0,100,100), current update (0,0,50,100). The region to
// copy forward must be exactly the right half.
func TestSubtractPartialUpdate(t *testing.T) {
	reg := Subtract(Rect{0, 0, 100, 100}, Rect{0, 0, 50, 100})
	if reg.Len() != 1 {
		t.Fatalf("got %d rects, want 1: %v", reg.Len(), reg.Rects())
	}
	want := Rect{50, 0, 100, 100}
	if reg.Rects()[0] != want {
		t.Errorf("copy-back rect = %v, want %v", reg.Rects()[0], want)
	}
}

// TestSubtractDisjoint tests that subtracting a non-intersecting rectangle
// yields lhs unchanged.
func TestSubtractDisjoint(t *testing.T) {
	tests := []struct {
		name string
		lhs  Rect
		rhs  Rect
	}{
		{"below", XYWH(0, 0, 10, 10), XYWH(0, 20, 10, 10)},
		{"above", XYWH(0, 20, 10, 10), XYWH(0, 0, 10, 10)},
		{"right", XYWH(0, 0, 10, 10), XYWH(20, 5, 10, 10)},
		{"left", XYWH(20, 0, 10, 10), XYWH(0, 0, 10, 10)},
		{"touching edges", XYWH(0, 0, 10, 10), XYWH(10, 0, 10, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := Subtract(tt.lhs, tt.rhs)
			if reg.Len() != 1 || reg.Rects()[0] != tt.lhs {
				t.Errorf("Subtract(%v, %v) = %v, want {%v}", tt.lhs, tt.rhs, reg.Rects(), tt.lhs)
			}
		})
	}
}

// TestSubtractEmptyLHS tests that an empty lhs yields an empty region.
func TestSubtractEmptyLHS(t *testing.T) {
	reg := Subtract(Rect{5, 5, 5, 10}, XYWH(0, 0, 100, 100))
	if !reg.Empty() {
		t.Errorf("Subtract with empty lhs = %v, want empty", reg.Rects())
	}
}

// TestSubtractCoverage checks, pixel by pixel, that the subtraction result
// plus the intersection exactly tiles lhs with no overlap into rhs and no
// double coverage.
func TestSubtractCoverage(t *testing.T) {
	pairs := []struct{ lhs, rhs Rect }{
		{XYWH(0, 0, 20, 20), XYWH(5, 5, 10, 10)},   // contained
		{XYWH(0, 0, 20, 20), XYWH(10, 10, 20, 20)}, // corner overlap
		{XYWH(0, 0, 20, 20), XYWH(-5, 5, 30, 10)},  // horizontal band through
		{XYWH(0, 0, 20, 20), XYWH(5, -5, 10, 30)},  // vertical band through
		{XYWH(0, 0, 20, 20), XYWH(-5, -5, 30, 30)}, // rhs covers lhs entirely
		{XYWH(0, 0, 20, 20), XYWH(0, 0, 20, 10)},   // top half
		{XYWH(0, 0, 20, 20), XYWH(25, 0, 5, 20)},   // disjoint
		{XYWH(3, 7, 13, 9), XYWH(9, 2, 8, 11)},     // irregular overlap
	}
	for _, p := range pairs {
		reg := Subtract(p.lhs, p.rhs)
		if reg.Len() > 4 {
			t.Fatalf("Subtract(%v, %v) produced %d rects, capacity bound is 4", p.lhs, p.rhs, reg.Len())
		}
		inter := Intersect(p.lhs, p.rhs)
		for y := int32(-10); y < 35; y++ {
			for x := int32(-10); x < 35; x++ {
				covered := 0
				for _, r := range reg.Rects() {
					if contains(r, x, y) {
						covered++
					}
				}
				if covered > 1 {
					t.Fatalf("Subtract(%v, %v): pixel (%d,%d) covered %d times", p.lhs, p.rhs, x, y, covered)
				}
				inLHS := contains(p.lhs, x, y)
				inInter := !inter.Empty() && contains(inter, x, y)
				want := inLHS && !inInter
				if (covered == 1) != want {
					t.Fatalf("Subtract(%v, %v): pixel (%d,%d) coverage = %v, want %v",
						p.lhs, p.rhs, x, y, covered == 1, want)
				}
			}
		}
	}
}

// TestIteratorRestart tests that iteration is restartable and read-only.
func TestIteratorRestart(t *testing.T) {
	reg := Subtract(XYWH(0, 0, 100, 100), XYWH(25, 25, 50, 50))

	it := reg.Iter()
	var first []Rect
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		first = append(first, r)
	}
	if len(first) != reg.Len() {
		t.Fatalf("iterator yielded %d rects, want %d", len(first), reg.Len())
	}
	if _, ok := it.Next(); ok {
		t.Error("exhausted iterator yielded another rect")
	}

	it.Reset()
	var second []Rect
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		second = append(second, r)
	}
	if len(second) != len(first) {
		t.Fatalf("restarted iterator yielded %d rects, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("rect %d differs after restart: %v vs %v", i, first[i], second[i])
		}
	}
}
