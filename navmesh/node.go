package navmesh

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorustyt/gridnavmesh/common"
)

// Node is one convex polygon of the mesh, wound clockwise. Neighbours share
// at least one full edge with it.
type Node struct {
	ID         int
	Polygon    []common.Point
	Neighbours []*Node
	box        common.Box
}

// Edge is a portal between two nodes, seen from Owner. Normal points out of
// Owner and is as long as the edge.
type Edge struct {
	Owner, Other *Node
	A, B         common.Point
	Normal       mgl64.Vec2
	Midpoint     mgl64.Vec2
}

// Arena hands out node ids for one build.
type Arena struct {
	next int
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) NewNode(poly []common.Point) *Node {
	n := &Node{ID: a.next, Polygon: poly, box: common.BoxOf(poly...)}
	a.next++
	return n
}

// Count returns how many nodes the arena created.
func (a *Arena) Count() int { return a.next }

func (n *Node) Box() common.Box { return n.box }

// Area2 returns twice the polygon area.
func (n *Node) Area2() int64 { return common.PolygonArea2(n.Polygon) }

func (n *Node) Area() float64 { return float64(n.Area2()) / 2 }

// Contains reports whether p lies inside the node or on its boundary.
func (n *Node) Contains(p common.Point) bool {
	return common.PointInConvex(n.Polygon, p)
}

func (n *Node) Centroid() mgl64.Vec2 {
	var c mgl64.Vec2
	for _, p := range n.Polygon {
		c = c.Add(common.Vec2Of(p))
	}
	return c.Mul(1 / float64(len(n.Polygon)))
}

func (n *Node) vertexIndex(p common.Point) int {
	for i, v := range n.Polygon {
		if v == p {
			return i
		}
	}
	return -1
}

// hasEdge reports whether the polygon contains the directed edge a->b.
func (n *Node) hasEdge(a, b common.Point) bool {
	i := n.vertexIndex(a)
	return i >= 0 && n.Polygon[common.Next(i, len(n.Polygon))] == b
}

func (n *Node) IsNeighbour(o *Node) bool {
	for _, nb := range n.Neighbours {
		if nb == o {
			return true
		}
	}
	return false
}

func (n *Node) link(o *Node) {
	if !n.IsNeighbour(o) {
		n.Neighbours = append(n.Neighbours, o)
	}
	if !o.IsNeighbour(n) {
		o.Neighbours = append(o.Neighbours, n)
	}
}

func (n *Node) unlink(o *Node) {
	for i, nb := range n.Neighbours {
		if nb == o {
			n.Neighbours = append(n.Neighbours[:i], n.Neighbours[i+1:]...)
			break
		}
	}
}

// across returns the neighbour sharing the directed edge a->b, reversed.
func (n *Node) across(a, b common.Point) *Node {
	for _, nb := range n.Neighbours {
		if nb.hasEdge(b, a) {
			return nb
		}
	}
	return nil
}

// Edges returns the portals of the node, one per edge shared with a
// neighbour, in polygon order.
func (n *Node) Edges() []Edge {
	var res []Edge
	for i, a := range n.Polygon {
		b := n.Polygon[common.Next(i, len(n.Polygon))]
		other := n.across(a, b)
		if other == nil {
			continue
		}
		d := b.Sub(a)
		res = append(res, Edge{
			Owner:    n,
			Other:    other,
			A:        a,
			B:        b,
			Normal:   mgl64.Vec2{float64(d.Y), float64(-d.X)},
			Midpoint: common.Vec2Of(a).Add(common.Vec2Of(b)).Mul(0.5),
		})
	}
	return res
}

// MergeWith absorbs o into n. Both polygons must share one contiguous run of
// edges; anything else is an invariant violation.
func (n *Node) MergeWith(o *Node) {
	n.Polygon = mergeRings(n.Polygon, o.Polygon)
	n.box = n.box.Union(o.box)
}

// mergeRings joins two clockwise rings along their common edges: a runs the
// same edges backwards compared to b.
func mergeRings(a, b []common.Point) []common.Point {
	na, nb := len(a), len(b)
	shared := make([]bool, na)
	count := 0
	for i := range a {
		j := indexOf(b, a[common.Next(i, na)])
		if j >= 0 && b[common.Next(j, nb)] == a[i] {
			shared[i] = true
			count++
		}
	}
	common.AssertTrue(count > 0, "merge: polygons share no edge")
	common.AssertTrue(count < na, "merge: polygon fully enclosed")

	// first shared edge following a non-shared one
	s := -1
	for i := range a {
		if shared[i] && !shared[common.Prev(i, na)] {
			common.AssertTrue(s < 0, "merge: shared edges are not contiguous")
			s = i
		}
	}
	e := (s + count) % na
	for k := 0; k < count; k++ {
		common.AssertTrue(shared[(s+k)%na], "merge: shared edges are not contiguous")
	}

	res := make([]common.Point, 0, na+nb-2*count)
	for i := e; ; i = common.Next(i, na) {
		res = append(res, a[i])
		if i == s {
			break
		}
	}
	jb := indexOf(b, a[s])
	for j := common.Next(jb, nb); b[j] != a[e]; j = common.Next(j, nb) {
		res = append(res, b[j])
	}
	return res
}

func indexOf(ring []common.Point, p common.Point) int {
	for i, v := range ring {
		if v == p {
			return i
		}
	}
	return -1
}

// Slice fans a ring out to p, one triangle per ring edge. Every triangle must
// come out clockwise.
func Slice(ring []common.Point, p common.Point) [][]common.Point {
	res := make([][]common.Point, 0, len(ring))
	for i, a := range ring {
		b := ring[common.Next(i, len(ring))]
		common.AssertTrue(common.Area2(a, b, p) > 0, "slice: %v does not see edge %v-%v", p, a, b)
		res = append(res, []common.Point{a, b, p})
	}
	return res
}

// SliceAlong cuts a ring into two along the diagonal a-b. Both vertices must
// be on the ring.
func SliceAlong(ring []common.Point, a, b common.Point) ([]common.Point, []common.Point) {
	ia, ib := indexOf(ring, a), indexOf(ring, b)
	common.AssertTrue(ia >= 0 && ib >= 0 && ia != ib, "slice along %v-%v: not a diagonal", a, b)
	walk := func(from, to int) []common.Point {
		var res []common.Point
		for i := from; ; i = common.Next(i, len(ring)) {
			res = append(res, ring[i])
			if i == to {
				return res
			}
		}
	}
	return walk(ia, ib), walk(ib, ia)
}
