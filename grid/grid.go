// Package grid holds the walkability grid consumed by the navmesh builder,
// along with loaders and the integrity hash used to detect stale meshes.
package grid

import (
	"github.com/gorustyt/gridnavmesh/common"
)

// MaxSize is the largest accepted width or height.
const MaxSize = 1024

// WalkabilityGrid is the read-only input of a navmesh build.
type WalkabilityGrid interface {
	Width() int
	Height() int
	// Walkable reports whether cell (x, y) can be traversed. Only called with
	// 0 <= x < Width() and 0 <= y < Height().
	Walkable(x, y int) bool
}

// IsWalkable treats every cell outside the grid as blocked.
func IsWalkable(g WalkabilityGrid, x, y int) bool {
	if x < 0 || y < 0 || x >= g.Width() || y >= g.Height() {
		return false
	}
	return g.Walkable(x, y)
}

// CheckSize rejects grids the builder cannot handle.
func CheckSize(g WalkabilityGrid) error {
	w, h := g.Width(), g.Height()
	if w <= 0 || h <= 0 {
		return common.Preconditionf("grid size %dx%d is empty", w, h)
	}
	if w > MaxSize || h > MaxSize {
		return common.Capacityf("grid size %dx%d exceeds %d", w, h, MaxSize)
	}
	return nil
}

// BoolGrid is a dense row-major walkability grid.
type BoolGrid struct {
	width, height int
	cells         []bool
}

// NewBoolGrid returns a width x height grid with every cell set to walkable.
func NewBoolGrid(width, height int, walkable bool) *BoolGrid {
	g := &BoolGrid{width: width, height: height, cells: make([]bool, width*height)}
	if walkable {
		for i := range g.cells {
			g.cells[i] = true
		}
	}
	return g
}

func (g *BoolGrid) Width() int  { return g.width }
func (g *BoolGrid) Height() int { return g.height }

func (g *BoolGrid) Walkable(x, y int) bool {
	return g.cells[x+y*g.width]
}

func (g *BoolGrid) Set(x, y int, walkable bool) {
	g.cells[x+y*g.width] = walkable
}

// WalkableCount returns the number of walkable cells.
func WalkableCount(g WalkabilityGrid) int {
	n := 0
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Walkable(x, y) {
				n++
			}
		}
	}
	return n
}
