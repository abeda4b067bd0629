package common

import "math"

// Point is a lattice point in cell-corner coordinates. Cell (x, y) covers
// [x, x+1] x [y, y+1]; y grows downward.
type Point struct {
	X, Y int
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// DistSqr returns the squared distance between two points.
func (p Point) DistSqr(q Point) int64 {
	dx := int64(q.X - p.X)
	dy := int64(q.Y - p.Y)
	return dx*dx + dy*dy
}

func (p Point) Dist(q Point) float64 {
	return math.Sqrt(float64(p.DistSqr(q)))
}

// Box is a closed axis-aligned bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY int
}

// BoxOf returns the bounding box of the given points.
func BoxOf(pts ...Point) Box {
	b := Box{MinX: math.MaxInt, MinY: math.MaxInt, MaxX: math.MinInt, MaxY: math.MinInt}
	for _, p := range pts {
		b = b.Extend(p)
	}
	return b
}

func (b Box) Extend(p Point) Box {
	b.MinX = min(b.MinX, p.X)
	b.MinY = min(b.MinY, p.Y)
	b.MaxX = max(b.MaxX, p.X)
	b.MaxY = max(b.MaxY, p.Y)
	return b
}

func (b Box) Union(o Box) Box {
	return Box{min(b.MinX, o.MinX), min(b.MinY, o.MinY), max(b.MaxX, o.MaxX), max(b.MaxY, o.MaxY)}
}

func (b Box) ContainsPoint(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// ContainsBox reports whether o lies entirely inside b.
func (b Box) ContainsBox(o Box) bool {
	return o.MinX >= b.MinX && o.MaxX <= b.MaxX && o.MinY >= b.MinY && o.MaxY <= b.MaxY
}

func (b Box) Overlaps(o Box) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

func (b Box) Width() int  { return b.MaxX - b.MinX }
func (b Box) Height() int { return b.MaxY - b.MinY }

// / Returns the square of the value.
func Sqr[T IT](a T) T {
	return a * a
}

// / Returns the absolute value.
func Abs[T IT](a T) T {
	if a < 0 {
		return -a
	}
	return a
}

func Sign[T IT](a T) int {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	}
	return 0
}
