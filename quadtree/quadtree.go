// Package quadtree decomposes a walkability grid into maximal uniform squares.
package quadtree

import "github.com/gorustyt/gridnavmesh/common"

// MaxDepth bounds the subdivision depth of the square covering the grid.
const MaxDepth = 16

type Walkability uint8

const (
	Walkable Walkability = iota
	NonWalkable
	Mixed
)

func (w Walkability) String() string {
	switch w {
	case Walkable:
		return "walkable"
	case NonWalkable:
		return "non-walkable"
	}
	return "mixed"
}

// Child quadrants.
const (
	NW = iota
	NE
	SE
	SW
)

var (
	ErrOutOfRange = common.Preconditionf("cell outside node area")
	ErrNotLeaf    = common.Preconditionf("node is not a leaf")
)

// Rect is a square area of cells: [X, X+Size) x [Y, Y+Size).
type Rect struct {
	X, Y, Size int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.Size && y < r.Y+r.Size
}

type Node struct {
	area       Rect
	state      Walkability
	children   [4]*Node
	neighbours []*Node
	visited    bool
}

func (n *Node) Area() Rect             { return n.area }
func (n *Node) State() Walkability     { return n.state }
func (n *Node) Children() [4]*Node     { return n.children }
func (n *Node) IsLeaf() bool           { return n.state != Mixed }
func (n *Node) HasBeenVisited() bool   { return n.visited }
func (n *Node) SetVisited(v bool)      { n.visited = v }
func (n *Node) Contains(x, y int) bool { return n.area.Contains(x, y) }

// IsWalkable is only defined on leaves.
func (n *Node) IsWalkable() (bool, error) {
	if !n.IsLeaf() {
		return false, ErrNotLeaf
	}
	return n.state == Walkable, nil
}

// Neighbours returns every leaf touching this one along a side, plus the
// corner-touching leaves when this leaf is non-walkable.
func (n *Node) Neighbours() ([]*Node, error) {
	if !n.IsLeaf() {
		return nil, ErrNotLeaf
	}
	return n.neighbours, nil
}

func (n *Node) quadrant(x, y int) int {
	half := n.area.Size / 2
	right := x >= n.area.X+half
	bottom := y >= n.area.Y+half
	switch {
	case !right && !bottom:
		return NW
	case right && !bottom:
		return NE
	case right && bottom:
		return SE
	}
	return SW
}

func (n *Node) subdivide() {
	half := n.area.Size / 2
	x, y := n.area.X, n.area.Y
	n.children[NW] = &Node{area: Rect{x, y, half}, state: n.state}
	n.children[NE] = &Node{area: Rect{x + half, y, half}, state: n.state}
	n.children[SE] = &Node{area: Rect{x + half, y + half, half}, state: n.state}
	n.children[SW] = &Node{area: Rect{x, y + half, half}, state: n.state}
	n.state = Mixed
}

// tryMerge collapses four non-walkable leaves back into their parent.
func (n *Node) tryMerge() {
	for _, c := range n.children {
		if c.state != NonWalkable {
			return
		}
	}
	n.state = NonWalkable
	n.children = [4]*Node{}
}

// AddObstacle marks cell (x, y) non-walkable, subdividing walkable leaves on
// the way down and collapsing fully blocked quadrants on the way up.
func (n *Node) AddObstacle(x, y int) error {
	if !n.area.Contains(x, y) {
		return ErrOutOfRange
	}
	n.addObstacle(x, y)
	return nil
}

func (n *Node) addObstacle(x, y int) {
	switch n.state {
	case NonWalkable:
		return
	case Walkable:
		if n.area.Size == 1 {
			n.state = NonWalkable
			return
		}
		n.subdivide()
	}
	n.children[n.quadrant(x, y)].addObstacle(x, y)
	n.tryMerge()
}
