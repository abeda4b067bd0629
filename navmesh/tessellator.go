package navmesh

import (
	"slices"

	"github.com/gorustyt/gridnavmesh/common"
	"github.com/gorustyt/gridnavmesh/spatial"
	"go.uber.org/zap"
)

type edgeKey struct {
	a, b common.Point
}

func undirected(a, b common.Point) edgeKey {
	if b.Y < a.Y || (b.Y == a.Y && b.X < a.X) {
		a, b = b, a
	}
	return edgeKey{a, b}
}

type tessellator struct {
	arena       *Arena
	opts        Options
	index       *spatial.Tree[*Node]
	live        map[*Node]struct{}
	byVertex    map[common.Point][]*Node
	constrained map[edgeKey]struct{}
	constraints [][2]common.Point
	super       [3]common.Point

	flips, pruned, merged int
}

// Tessellate builds the convex nodes covering border minus holes. The border
// runs clockwise, holes counter-clockwise, all with the walkable side on the
// right of travel.
func Tessellate(arena *Arena, border []common.Point, holes [][]common.Point, opts Options) []*Node {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	loops := append([][]common.Point{border}, holes...)
	t := newTessellator(arena, common.BoxOf(border...), opts)
	vertices := 0
	for _, l := range loops {
		for _, p := range l {
			if t.insertVertex(p) {
				vertices++
			}
		}
	}
	for _, l := range loops {
		for i, a := range l {
			t.insertConstraint(a, l[common.Next(i, len(l))])
		}
	}
	t.prune()
	if opts.MergeConvex {
		t.mergeConvex()
	}
	nodes := t.nodes()
	opts.Logger.Debug("tessellated sector",
		zap.Int("vertices", vertices),
		zap.Int("holes", len(holes)),
		zap.Int("constraints", len(t.constraints)),
		zap.Int("flips", t.flips),
		zap.Int("pruned", t.pruned),
		zap.Int("merged", t.merged),
		zap.Int("nodes", len(nodes)))
	return nodes
}

func newTessellator(arena *Arena, bounds common.Box, opts Options) *tessellator {
	// right triangle well clear of the bounds; coordinates stay small enough
	// for the exact circle test
	m := max(bounds.Width(), bounds.Height()) + 2
	c := common.Point{X: bounds.MinX - 4*m, Y: bounds.MinY - 4*m}
	l := 12 * m
	t := &tessellator{
		arena:       arena,
		opts:        opts,
		live:        map[*Node]struct{}{},
		byVertex:    map[common.Point][]*Node{},
		constrained: map[edgeKey]struct{}{},
		super:       [3]common.Point{c, {X: c.X + l, Y: c.Y}, {X: c.X, Y: c.Y + l}},
	}
	t.index = spatial.NewTree[*Node](common.BoxOf(t.super[:]...))
	t.attach(t.super[:])
	return t
}

func (t *tessellator) attach(poly []common.Point) *Node {
	common.AssertTrue(common.PolygonArea2(poly) > 0, "node %v is not clockwise", poly)
	n := t.arena.NewNode(poly)
	t.index.Insert(n, n.box)
	t.live[n] = struct{}{}
	for _, p := range poly {
		t.byVertex[p] = append(t.byVertex[p], n)
	}
	return n
}

func (t *tessellator) detach(n *Node) {
	common.AssertTrue(t.index.Remove(n, n.box), "node %d missing from index", n.ID)
	delete(t.live, n)
	for _, p := range n.Polygon {
		t.unindexVertex(p, n)
	}
	for _, nb := range n.Neighbours {
		nb.unlink(n)
	}
	n.Neighbours = nil
}

func (t *tessellator) unindexVertex(p common.Point, n *Node) {
	list := t.byVertex[p]
	for i, o := range list {
		if o == n {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(t.byVertex, p)
	} else {
		t.byVertex[p] = list
	}
}

// replace swaps old nodes for new polygons and links the new nodes to each
// other and to the old nodes' outside neighbours through shared edges.
func (t *tessellator) replace(old []*Node, polys [][]common.Point) []*Node {
	var external []*Node
	seen := map[*Node]struct{}{}
	for _, n := range old {
		seen[n] = struct{}{}
	}
	for _, n := range old {
		for _, nb := range n.Neighbours {
			if _, ok := seen[nb]; !ok {
				seen[nb] = struct{}{}
				external = append(external, nb)
			}
		}
	}
	for _, n := range old {
		t.detach(n)
	}
	created := make([]*Node, len(polys))
	for i, poly := range polys {
		created[i] = t.attach(poly)
	}
	edges := map[[2]common.Point]*Node{}
	for _, n := range append(external, created...) {
		for i, a := range n.Polygon {
			edges[[2]common.Point{a, n.Polygon[common.Next(i, len(n.Polygon))]}] = n
		}
	}
	for _, n := range created {
		for i, a := range n.Polygon {
			if o := edges[[2]common.Point{n.Polygon[common.Next(i, len(n.Polygon))], a}]; o != nil {
				n.link(o)
			}
		}
	}
	return created
}

func (t *tessellator) locate(p common.Point) *Node {
	var found *Node
	t.index.QueryPoint(p, func(n *Node) bool {
		if n.Contains(p) {
			found = n
			return false
		}
		return true
	})
	return found
}

func (t *tessellator) inCircle(n *Node, p common.Point) bool {
	common.AssertTrue(len(n.Polygon) == 3, "circumcircle test on %d-gon %d", len(n.Polygon), n.ID)
	return common.InCircle(n.Polygon[0], n.Polygon[1], n.Polygon[2], p)
}

// insertVertex adds p to the triangulation, returning false for a point
// already present.
func (t *tessellator) insertVertex(p common.Point) bool {
	if len(t.byVertex[p]) > 0 {
		return false
	}
	start := t.locate(p)
	common.AssertTrue(start != nil, "vertex %v outside the triangulation", p)

	// every triangle whose circumcircle holds p, breadth first from start
	cavity := []*Node{start}
	visited := map[*Node]struct{}{start: {}}
	for i := 0; i < len(cavity); i++ {
		for _, nb := range cavity[i].Neighbours {
			if _, ok := visited[nb]; ok {
				continue
			}
			visited[nb] = struct{}{}
			if t.inCircle(nb, p) {
				cavity = append(cavity, nb)
			}
		}
	}
	ring := start.Polygon
	for _, n := range cavity[1:] {
		ring = mergeRings(ring, n.Polygon)
	}
	t.replace(cavity, Slice(ring, p))
	return true
}

func (t *tessellator) hasEdge(a, b common.Point) bool {
	for _, n := range t.byVertex[a] {
		if n.hasEdge(a, b) || n.hasEdge(b, a) {
			return true
		}
	}
	return false
}

func (t *tessellator) edgeOwner(a, b common.Point) *Node {
	for _, n := range t.byVertex[a] {
		if n.hasEdge(a, b) {
			return n
		}
	}
	return nil
}

// insertConstraint forces a-b into the triangulation. A vertex lying on the
// segment splits it in two.
func (t *tessellator) insertConstraint(a, b common.Point) {
	common.AssertTrue(a != b, "degenerate constraint at %v", a)
	work := [][2]common.Point{{a, b}}
	for len(work) > 0 {
		c := work[len(work)-1]
		work = work[:len(work)-1]
		if !t.hasEdge(c[0], c[1]) {
			crossed, split, ok := t.crossedEdges(c[0], c[1])
			if !ok {
				work = append(work, [2]common.Point{split, c[1]}, [2]common.Point{c[0], split})
				continue
			}
			t.flipUntilClear(c[0], c[1], crossed)
		}
		t.constrained[undirected(c[0], c[1])] = struct{}{}
		t.constraints = append(t.constraints, c)
	}
}

func onRay(a, b, p common.Point) bool {
	if !common.Collinear(a, b, p) {
		return false
	}
	d, e := b.Sub(a), p.Sub(a)
	return int64(d.X)*int64(e.X)+int64(d.Y)*int64(e.Y) > 0
}

// crossedEdges walks from a toward b and returns every edge the segment
// crosses, each directed as in the triangle on a's side. When a vertex lies on
// the segment it is returned instead with ok false.
func (t *tessellator) crossedEdges(a, b common.Point) (crossed [][2]common.Point, split common.Point, ok bool) {
	var cur *Node
	var p, q common.Point
	for _, n := range t.byVertex[a] {
		i := n.vertexIndex(a)
		k := len(n.Polygon)
		w, u := n.Polygon[common.Next(i, k)], n.Polygon[common.Prev(i, k)]
		if onRay(a, b, w) {
			return nil, w, false
		}
		if onRay(a, b, u) {
			return nil, u, false
		}
		if common.Area2(a, w, b) > 0 && common.Area2(u, a, b) > 0 {
			cur, p, q = n, w, u
			break
		}
	}
	common.AssertTrue(cur != nil, "no triangle at %v faces %v", a, b)
	crossed = append(crossed, [2]common.Point{p, q})
	for {
		next := cur.across(p, q)
		common.AssertTrue(next != nil, "constraint %v-%v leaves the triangulation at %v-%v", a, b, p, q)
		r := next.Polygon[common.Next(next.vertexIndex(p), len(next.Polygon))]
		if r == b {
			return crossed, common.Point{}, true
		}
		if common.Collinear(a, b, r) {
			return nil, r, false
		}
		if common.Sign(common.Area2(a, b, r)) == common.Sign(common.Area2(a, b, p)) {
			p = r
		} else {
			q = r
		}
		crossed = append(crossed, [2]common.Point{p, q})
		cur = next
	}
}

// flipUntilClear flips crossed edges until none crosses a-b. Quads that are not
// strictly convex are retried later; one of the remaining quads is always
// convex, so the queue drains.
func (t *tessellator) flipUntilClear(a, b common.Point, crossed [][2]common.Point) {
	limit := 64*len(crossed)*len(crossed) + 64
	for steps := 0; len(crossed) > 0; steps++ {
		common.AssertTrue(steps < limit, "constraint %v-%v does not converge", a, b)
		e := crossed[0]
		crossed = crossed[1:]
		n1 := t.edgeOwner(e[0], e[1])
		common.AssertTrue(n1 != nil, "edge %v-%v not found", e[0], e[1])
		n2 := n1.across(e[0], e[1])
		common.AssertTrue(n2 != nil, "no neighbour across %v-%v", e[0], e[1])
		quad := mergeRings(n1.Polygon, n2.Polygon)
		if !common.IsConvex(quad) {
			crossed = append(crossed, e)
			continue
		}
		x := n1.Polygon[common.Next(n1.vertexIndex(e[1]), 3)]
		y := n2.Polygon[common.Next(n2.vertexIndex(e[0]), 3)]
		t1, t2 := SliceAlong(quad, x, y)
		t.replace([]*Node{n1, n2}, [][]common.Point{t1, t2})
		t.flips++
		if common.IntersectProp(a, b, x, y) {
			crossed = append(crossed, [2]common.Point{x, y})
		}
	}
}

func (t *tessellator) isConstrained(a, b common.Point) bool {
	_, ok := t.constrained[undirected(a, b)]
	return ok
}

// prune drops every node outside the walkable area: the ones left of a
// constraint, the ones touching the super triangle and everything reachable
// from them without crossing a constraint.
func (t *tessellator) prune() {
	var queue []*Node
	reached := map[*Node]struct{}{}
	seed := func(n *Node) {
		if _, ok := reached[n]; !ok {
			reached[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	for _, c := range t.constraints {
		for _, n := range t.byVertex[c[1]] {
			if n.hasEdge(c[1], c[0]) {
				seed(n)
			}
		}
	}
	for _, s := range t.super {
		for _, n := range t.byVertex[s] {
			seed(n)
		}
	}
	for i := 0; i < len(queue); i++ {
		n := queue[i]
		for j, a := range n.Polygon {
			b := n.Polygon[common.Next(j, len(n.Polygon))]
			if t.isConstrained(a, b) {
				continue
			}
			if nb := n.across(a, b); nb != nil {
				seed(nb)
			}
		}
	}
	for _, n := range queue {
		t.detach(n)
	}
	t.pruned = len(queue)
}

// looselyConvex accepts collinear vertices, which keep edges shared with
// neighbours intact.
func looselyConvex(poly []common.Point) bool {
	for i := range poly {
		if common.Area2(poly[common.Prev(i, len(poly))], poly[i], poly[common.Next(i, len(poly))]) < 0 {
			return false
		}
	}
	return common.PolygonArea2(poly) > 0
}

func sharedLength(n, o *Node) int64 {
	var l int64
	for i, a := range n.Polygon {
		b := n.Polygon[common.Next(i, len(n.Polygon))]
		if o.hasEdge(b, a) {
			l += a.DistSqr(b)
		}
	}
	return l
}

// mergeConvex greedily merges each node with the neighbour it shares the
// longest edge with, as long as the result stays convex and small enough.
func (t *tessellator) mergeConvex() {
	for _, n := range t.nodes() {
		if _, ok := t.live[n]; !ok {
			continue
		}
		for {
			var best *Node
			var bestLen int64
			for _, nb := range n.Neighbours {
				if len(n.Polygon)+len(nb.Polygon)-2 > t.opts.MaxVertsPerNode+2 {
					continue
				}
				ring := mergeRings(n.Polygon, nb.Polygon)
				if len(ring) > t.opts.MaxVertsPerNode || !looselyConvex(ring) {
					continue
				}
				if l := sharedLength(n, nb); best == nil || l > bestLen {
					best, bestLen = nb, l
				}
			}
			if best == nil {
				break
			}
			t.mergeNodes(n, best)
		}
	}
}

// mergeNodes absorbs o into n in place, keeping n's id.
func (t *tessellator) mergeNodes(n, o *Node) {
	others := make([]*Node, 0, len(o.Neighbours))
	for _, nb := range o.Neighbours {
		if nb != n {
			others = append(others, nb)
		}
	}
	oldBox, oldPoly := n.box, n.Polygon
	t.detach(o)
	n.MergeWith(o)
	t.index.Update(n, oldBox, n.box)
	for _, p := range oldPoly {
		t.unindexVertex(p, n)
	}
	for _, p := range n.Polygon {
		t.byVertex[p] = append(t.byVertex[p], n)
	}
	for _, nb := range others {
		n.link(nb)
	}
	t.merged++
}

// nodes returns the live nodes in creation order.
func (t *tessellator) nodes() []*Node {
	res := make([]*Node, 0, len(t.live))
	for n := range t.live {
		res = append(res, n)
	}
	slices.SortFunc(res, func(a, b *Node) int { return a.ID - b.ID })
	return res
}
