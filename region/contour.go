package region

import (
	"fmt"

	"github.com/gorustyt/gridnavmesh/common"
	"github.com/gorustyt/gridnavmesh/grid"
)

// ErrBadSeed is returned when a contour seed is not the upper-left cell of an
// area of the requested walkability.
var ErrBadSeed = fmt.Errorf("%w: bad contour seed", common.ErrPrecondition)

type Direction uint8

const (
	Up Direction = iota
	Left
	Down
	Right
	noDirection
)

var directionOffsets = [4]common.Point{
	Up:    {X: 0, Y: -1},
	Left:  {X: -1, Y: 0},
	Down:  {X: 0, Y: 1},
	Right: {X: 1, Y: 0},
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Left:
		return "left"
	case Down:
		return "down"
	case Right:
		return "right"
	}
	return "none"
}

// Corner bits of the 2x2 cell neighbourhood of a lattice point, set when the
// cell is not walkable.
const (
	cornerNW = 1
	cornerNE = 2
	cornerSE = 4
	cornerSW = 8
)

// stepTable maps a corner pattern to the only edge leaving the lattice point
// with the walkable side on the right. Patterns 0 and 15 have no boundary, 5
// and 10 are saddles.
var stepTable = [16]Direction{
	0:  noDirection,
	1:  Up,
	2:  Right,
	3:  Right,
	4:  Down,
	5:  noDirection,
	6:  Down,
	7:  Down,
	8:  Left,
	9:  Up,
	10: noDirection,
	11: Right,
	12: Left,
	13: Up,
	14: Left,
	15: noDirection,
}

func cornerPattern(g grid.WalkabilityGrid, p common.Point) int {
	pattern := 0
	if !grid.IsWalkable(g, p.X-1, p.Y-1) {
		pattern |= cornerNW
	}
	if !grid.IsWalkable(g, p.X, p.Y-1) {
		pattern |= cornerNE
	}
	if !grid.IsWalkable(g, p.X, p.Y) {
		pattern |= cornerSE
	}
	if !grid.IsWalkable(g, p.X-1, p.Y) {
		pattern |= cornerSW
	}
	return pattern
}

// nextDirection picks the edge to follow out of a lattice point. On a saddle
// the walk keeps turning right, hugging the walkable cell it already has on
// its right: walkable cells touching only diagonally stay apart, blocked ones
// stay joined.
func nextDirection(pattern int, prev Direction) Direction {
	switch pattern {
	case cornerNW | cornerSE:
		switch prev {
		case Left:
			return Up
		case Right:
			return Down
		}
	case cornerNE | cornerSW:
		switch prev {
		case Down:
			return Left
		case Up:
			return Right
		}
	default:
		return stepTable[pattern]
	}
	return noDirection
}

// TraceContour walks the boundary of the area whose top-left cell is seed,
// keeping walkable cells on the right. A vertex is emitted wherever the walk
// turns. Walkable areas come out clockwise, blocked areas counter-clockwise
// (y axis down).
func TraceContour(g grid.WalkabilityGrid, seed common.Point, walkable bool) ([]common.Point, error) {
	start := seed
	pattern := cornerPattern(g, start)
	var dir Direction
	if walkable {
		// SE walkable, NE and SW blocked; NW may belong to another walkable area.
		if pattern&cornerSE != 0 || pattern&cornerNE == 0 || pattern&cornerSW == 0 {
			return nil, fmt.Errorf("%w: cell %v is not the upper-left corner of a walkable area", ErrBadSeed, seed)
		}
		dir = Right
	} else {
		if pattern != cornerSE {
			return nil, fmt.Errorf("%w: cell %v is not the upper-left corner of a blocked area", ErrBadSeed, seed)
		}
		dir = Down
	}
	startDir := dir

	verts := []common.Point{start}
	limit := 4*(g.Width()+2)*(g.Height()+2) + 8
	p := start
	for steps := 0; ; steps++ {
		common.AssertTrue(steps < limit, "contour from %v does not close", seed)
		p = p.Add(directionOffsets[dir])
		next := nextDirection(cornerPattern(g, p), dir)
		common.AssertTrue(next != noDirection, "contour lost at %v heading %v", p, dir)
		if p == start && next == startDir {
			break
		}
		if next != dir {
			verts = append(verts, p)
			dir = next
		}
	}
	return verts, nil
}
