// Package region grows connected areas over the leaves of a quad-tree and
// extracts their contours. Areas nest: walkable areas hold blocked holes,
// holes hold walkable islands, and so on.
package region

import (
	"github.com/gorustyt/gridnavmesh/common"
	"github.com/gorustyt/gridnavmesh/grid"
	"github.com/gorustyt/gridnavmesh/quadtree"
	"gopkg.in/eapache/queue.v1"
)

type GridArea struct {
	Walkable bool
	// Border is the outer contour, walkable side on the right of travel. Nil
	// for the outermost area, which surrounds the whole grid.
	Border   []common.Point
	Children []*GridArea
	// TopLeft is the upper-left cell of the area, the seed of its contour.
	TopLeft   common.Point
	LeafCount int
	CellCount int
}

// Walk visits a and every nested area depth-first.
func (a *GridArea) Walk(fn func(area *GridArea)) {
	stack := []*GridArea{a}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(cur)
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}

// Extract builds the area tree of a freshly built quad-tree. The returned
// root is the blocked area around the grid; its children are the top-level
// walkable areas.
func Extract(g grid.WalkabilityGrid, tree *quadtree.Tree) (*GridArea, error) {
	r := tree.Root().Area()
	outer := tree.LeafAt(r.X, r.Y)
	return buildAreas(g, outer, false)
}

// BuildArea grows the area containing startingLeaf, traces its contour and
// recursively builds every area nested inside it. Any area around the start
// must already be visited, otherwise it is picked up as a nested candidate;
// Extract takes care of this by starting from the outside.
func BuildArea(g grid.WalkabilityGrid, startingLeaf *quadtree.Node) (*GridArea, error) {
	return buildAreas(g, startingLeaf, true)
}

type pending struct {
	parent *GridArea
	seed   *quadtree.Node
}

func buildAreas(g grid.WalkabilityGrid, start *quadtree.Node, contour bool) (*GridArea, error) {
	if !start.IsLeaf() {
		return nil, quadtree.ErrNotLeaf
	}
	common.AssertTrue(!start.HasBeenVisited(), "leaf %v already belongs to an area", start.Area())
	root, candidates, err := growArea(g, start, contour)
	if err != nil {
		return nil, err
	}
	stack := make([]pending, 0, len(candidates))
	for i := len(candidates) - 1; i >= 0; i-- {
		stack = append(stack, pending{root, candidates[i]})
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.seed.HasBeenVisited() {
			// already swallowed by a sibling built from another candidate
			continue
		}
		child, cands, err := growArea(g, p.seed, true)
		if err != nil {
			return nil, err
		}
		p.parent.Children = append(p.parent.Children, child)
		for i := len(cands) - 1; i >= 0; i-- {
			stack = append(stack, pending{child, cands[i]})
		}
	}
	return root, nil
}

// growArea runs the breadth-first region growth from start and returns the
// area along with the unvisited leaves of opposite walkability it touches.
func growArea(g grid.WalkabilityGrid, start *quadtree.Node, contour bool) (*GridArea, []*quadtree.Node, error) {
	state := start.State()
	area := &GridArea{Walkable: state == quadtree.Walkable}
	top := start.Area()

	var candidates []*quadtree.Node
	seen := map[*quadtree.Node]struct{}{}
	q := queue.New()
	start.SetVisited(true)
	q.Add(start)
	for q.Length() > 0 {
		leaf := q.Remove().(*quadtree.Node)
		r := leaf.Area()
		area.LeafCount++
		area.CellCount += r.Size * r.Size
		if r.Y < top.Y || (r.Y == top.Y && r.X < top.X) {
			top = r
		}
		nbs, err := leaf.Neighbours()
		if err != nil {
			return nil, nil, err
		}
		for _, nb := range nbs {
			if nb.HasBeenVisited() {
				continue
			}
			if nb.State() == state {
				nb.SetVisited(true)
				q.Add(nb)
			} else if _, ok := seen[nb]; !ok {
				seen[nb] = struct{}{}
				candidates = append(candidates, nb)
			}
		}
	}
	area.TopLeft = common.Point{X: top.X, Y: top.Y}
	if contour {
		border, err := TraceContour(g, area.TopLeft, area.Walkable)
		if err != nil {
			return nil, nil, err
		}
		area.Border = border
	}
	return area, candidates, nil
}

// Sector is one walkable area with the blocked holes directly inside it.
type Sector struct {
	Area   *GridArea
	Border []common.Point
	Holes  [][]common.Point
}

// Sectors lists every walkable area of the tree rooted at root, outermost
// first.
func Sectors(root *GridArea) []Sector {
	var res []Sector
	root.Walk(func(a *GridArea) {
		if !a.Walkable || a.Border == nil {
			return
		}
		s := Sector{Area: a, Border: a.Border}
		for _, h := range a.Children {
			s.Holes = append(s.Holes, h.Border)
		}
		res = append(res, s)
	})
	return res
}
