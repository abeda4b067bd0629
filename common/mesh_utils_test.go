package common

import "testing"

func pts(xy ...int) []Point {
	res := make([]Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		res = append(res, Point{xy[i], xy[i+1]})
	}
	return res
}

func TestArea2Winding(t *testing.T) {
	// (0,0) -> (1,0) -> (0,1) turns clockwise on screen with y down.
	if a := Area2(Point{0, 0}, Point{1, 0}, Point{0, 1}); a != 1 {
		t.Errorf("want 1, got %d", a)
	}
	if !Right(Point{0, 0}, Point{1, 0}, Point{0, 1}) {
		t.Errorf("a point below a rightward edge is on its right")
	}
	if !Left(Point{0, 0}, Point{1, 0}, Point{0, -1}) {
		t.Errorf("a point above a rightward edge is on its left")
	}
	square := pts(0, 0, 4, 0, 4, 4, 0, 4)
	if a := PolygonArea2(square); a != 32 {
		t.Errorf("want 32, got %d", a)
	}
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		a, b, c, d Point
		prop, any  bool
	}{
		{Point{0, 0}, Point{2, 2}, Point{0, 2}, Point{2, 0}, true, true},
		{Point{0, 0}, Point{2, 0}, Point{1, 0}, Point{1, 3}, false, true},
		{Point{0, 0}, Point{2, 0}, Point{0, 1}, Point{2, 1}, false, false},
		{Point{0, 0}, Point{1, 0}, Point{2, 0}, Point{3, 0}, false, false},
	}
	for i, tt := range tests {
		if got := IntersectProp(tt.a, tt.b, tt.c, tt.d); got != tt.prop {
			t.Errorf("case %d: want proper %v, got %v", i, tt.prop, got)
		}
		if got := Intersect(tt.a, tt.b, tt.c, tt.d); got != tt.any {
			t.Errorf("case %d: want intersect %v, got %v", i, tt.any, got)
		}
	}
}

func TestInCircle(t *testing.T) {
	a, b, c := Point{0, 0}, Point{4, 0}, Point{0, 4}
	tests := []struct {
		d    Point
		want bool
	}{
		{Point{1, 1}, true},
		{Point{4, 4}, false}, // cocircular
		{Point{5, 5}, false},
		{Point{3, 3}, true},
	}
	for _, tt := range tests {
		if got := InCircle(a, b, c, tt.d); got != tt.want {
			t.Errorf("InCircle(%v) want %v, got %v", tt.d, tt.want, got)
		}
		if got := InCircle(a, c, b, tt.d); got != tt.want {
			t.Errorf("InCircle reversed (%v) want %v, got %v", tt.d, tt.want, got)
		}
	}
}

func TestPointInPolygon(t *testing.T) {
	// U shape, clockwise.
	u := pts(0, 0, 1, 0, 1, 2, 2, 2, 2, 0, 3, 0, 3, 3, 0, 3)
	big := make([]Point, len(u))
	for i, v := range u {
		big[i] = Point{v.X * 2, v.Y * 2}
	}
	for _, q := range []Point{{1, 1}, {1, 5}, {5, 1}} {
		if !PointInPolygon(big, q) {
			t.Errorf("want %v inside", q)
		}
	}
	if PointInPolygon(big, Point{3, 1}) {
		t.Errorf("the notch of the U is outside")
	}
	if !OnPolygonBoundary(u, Point{1, 1}) {
		t.Errorf("want (1,1) on the boundary")
	}
}

func TestIsConvex(t *testing.T) {
	if !IsConvex(pts(0, 0, 2, 0, 2, 2, 0, 2)) {
		t.Errorf("square is convex")
	}
	if IsConvex(pts(0, 0, 0, 2, 2, 2, 2, 0)) {
		t.Errorf("counter-clockwise square is not a valid node polygon")
	}
	if IsConvex(pts(0, 0, 1, 0, 2, 0, 2, 2, 0, 2)) {
		t.Errorf("collinear vertices are rejected")
	}
}
