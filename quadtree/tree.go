package quadtree

import (
	"github.com/gorustyt/gridnavmesh/common"
	"github.com/gorustyt/gridnavmesh/grid"
)

// Tree is the quad-tree of one grid. The grid origin sits at cell (0, 0) of
// the SE quadrant of the root's NW child, so the root spans [-s, 3s) on both
// axes where s is the covering power of two. Every cell outside the grid is an
// ordinary non-walkable leaf.
type Tree struct {
	root  *Node
	size  int
	depth int
}

func (t *Tree) Root() *Node { return t.root }

// GridSize returns the power-of-two side of the square covering the grid.
func (t *Tree) GridSize() int { return t.size }

func (t *Tree) Depth() int { return t.depth }

// Build decomposes g. Grids larger than grid.MaxSize are rejected before any
// allocation.
func Build(g grid.WalkabilityGrid) (*Tree, error) {
	if err := grid.CheckSize(g); err != nil {
		return nil, err
	}
	w, h := g.Width(), g.Height()
	d := 0
	for 1<<d < max(w, h) {
		d++
	}
	if d > MaxDepth {
		return nil, common.Capacityf("quad-tree depth %d exceeds %d", d, MaxDepth)
	}
	s := 1 << d
	t := &Tree{size: s, depth: d}
	t.root = &Node{area: Rect{-s, -s, 4 * s}, state: NonWalkable}
	t.root.subdivide()
	inner := t.root.children[NW]
	inner.subdivide()
	inner.children[SE].state = Walkable

	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			if x < w && y < h && g.Walkable(x, y) {
				continue
			}
			t.root.addObstacle(x, y)
		}
	}
	t.setNeighbours()
	return t, nil
}

// LeafAt returns the leaf containing cell (x, y), or nil outside the root.
func (t *Tree) LeafAt(x, y int) *Node {
	n := t.root
	if !n.area.Contains(x, y) {
		return nil
	}
	for !n.IsLeaf() {
		n = n.children[n.quadrant(x, y)]
	}
	return n
}

// Leaves returns all leaves in depth-first NW, NE, SE, SW order.
func (t *Tree) Leaves() []*Node {
	var res []*Node
	stack := []*Node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.IsLeaf() {
			res = append(res, n)
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return res
}

func (t *Tree) setNeighbours() {
	for _, leaf := range t.Leaves() {
		leaf.neighbours = t.findNeighbours(leaf)
	}
}

func (t *Tree) findNeighbours(leaf *Node) []*Node {
	var res []*Node
	seen := map[*Node]struct{}{}
	add := func(n *Node) {
		if n == nil {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		res = append(res, n)
	}
	a := leaf.area
	// horizontal sides
	for _, y := range [2]int{a.Y - 1, a.Y + a.Size} {
		for x := a.X; x < a.X+a.Size; {
			nb := t.LeafAt(x, y)
			if nb == nil {
				break
			}
			add(nb)
			x = nb.area.X + nb.area.Size
		}
	}
	// vertical sides
	for _, x := range [2]int{a.X - 1, a.X + a.Size} {
		for y := a.Y; y < a.Y+a.Size; {
			nb := t.LeafAt(x, y)
			if nb == nil {
				break
			}
			add(nb)
			y = nb.area.Y + nb.area.Size
		}
	}
	if leaf.state == NonWalkable {
		add(t.LeafAt(a.X-1, a.Y-1))
		add(t.LeafAt(a.X+a.Size, a.Y-1))
		add(t.LeafAt(a.X+a.Size, a.Y+a.Size))
		add(t.LeafAt(a.X-1, a.Y+a.Size))
	}
	return res
}
