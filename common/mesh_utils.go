package common

// Area2 returns twice the signed area of the triangle abc. The result is
// positive when abc runs clockwise on screen (y axis pointing down), which is
// the winding used by every navmesh polygon and by walkable borders.
func Area2(a, b, c Point) int64 {
	return int64(b.X-a.X)*int64(c.Y-a.Y) - int64(c.X-a.X)*int64(b.Y-a.Y)
}

// Right returns true iff c is strictly on the right of the directed line a->b.
func Right(a, b, c Point) bool {
	return Area2(a, b, c) > 0
}

// Left returns true iff c is strictly on the left of the directed line a->b.
func Left(a, b, c Point) bool {
	return Area2(a, b, c) < 0
}

func Collinear(a, b, c Point) bool {
	return Area2(a, b, c) == 0
}

// Exclusive or: true iff exactly one argument is true.
func Xorb(x, y bool) bool {
	return x != y
}

// Returns true iff ab properly intersects cd: they share
// a point interior to both segments.  The properness of the
// intersection is ensured by using strict leftness.
func IntersectProp(a, b, c, d Point) bool {
	// Eliminate improper cases.
	if Collinear(a, b, c) || Collinear(a, b, d) ||
		Collinear(c, d, a) || Collinear(c, d, b) {
		return false
	}
	return Xorb(Left(a, b, c), Left(a, b, d)) && Xorb(Left(c, d, a), Left(c, d, b))
}

// Returns T iff (a,b,c) are collinear and point c lies
// on the closed segement ab.
func Between(a, b, c Point) bool {
	if !Collinear(a, b, c) {
		return false
	}
	// If ab not vertical, check betweenness on x; else on y.
	if a.X != b.X {
		return ((a.X <= c.X) && (c.X <= b.X)) || ((a.X >= c.X) && (c.X >= b.X))
	}
	return ((a.Y <= c.Y) && (c.Y <= b.Y)) || ((a.Y >= c.Y) && (c.Y >= b.Y))
}

// Returns true iff segments ab and cd intersect, properly or improperly.
func Intersect(a, b, c, d Point) bool {
	if IntersectProp(a, b, c, d) {
		return true
	}
	return Between(a, b, c) || Between(a, b, d) ||
		Between(c, d, a) || Between(c, d, b)
}

// InCircle reports whether d lies strictly inside the circumcircle of the
// triangle abc, whatever the winding of abc. All arithmetic is exact for
// coordinates below 2^14.
func InCircle(a, b, c, d Point) bool {
	adx, ady := int64(a.X-d.X), int64(a.Y-d.Y)
	bdx, bdy := int64(b.X-d.X), int64(b.Y-d.Y)
	cdx, cdy := int64(c.X-d.X), int64(c.Y-d.Y)

	ad := adx*adx + ady*ady
	bd := bdx*bdx + bdy*bdy
	cd := cdx*cdx + cdy*cdy

	det := ad*(bdx*cdy-cdx*bdy) - bd*(adx*cdy-cdx*ady) + cd*(adx*bdy-bdx*ady)
	return int64(Sign(det))*int64(Sign(Area2(a, b, c))) > 0
}

// PolygonArea2 returns twice the signed area of a polygon, positive when
// clockwise.
func PolygonArea2(poly []Point) int64 {
	var area int64
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		area += int64(poly[j].X)*int64(poly[i].Y) - int64(poly[i].X)*int64(poly[j].Y)
	}
	return area
}

// IsConvex reports whether poly is a strictly convex clockwise polygon.
func IsConvex(poly []Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		if Area2(poly[Prev(i, n)], poly[i], poly[Next(i, n)]) <= 0 {
			return false
		}
	}
	return PolygonArea2(poly) > 0
}

// PointInConvex tests p against a clockwise convex polygon, boundary included.
func PointInConvex(poly []Point, p Point) bool {
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		if Area2(poly[j], poly[i], p) < 0 {
			return false
		}
	}
	return true
}

// OnPolygonBoundary reports whether p lies on any edge of poly.
func OnPolygonBoundary(poly []Point, p Point) bool {
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		if Between(poly[j], poly[i], p) {
			return true
		}
	}
	return false
}

// PointInPolygon is the even-odd crossing test. The polygon may
// self-intersect; p is expected not to lie on its boundary.
func PointInPolygon(poly []Point, p Point) bool {
	c := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		vi, vj := poly[i], poly[j]
		if (vi.Y > p.Y) == (vj.Y > p.Y) {
			continue
		}
		lhs := int64(p.X-vi.X) * int64(vj.Y-vi.Y)
		rhs := int64(vj.X-vi.X) * int64(p.Y-vi.Y)
		if vj.Y > vi.Y {
			if lhs < rhs {
				c = !c
			}
		} else if lhs > rhs {
			c = !c
		}
	}
	return c
}
