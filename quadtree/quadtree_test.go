package quadtree

import (
	"errors"
	"testing"

	"github.com/gorustyt/gridnavmesh/common"
	"github.com/gorustyt/gridnavmesh/grid"
)

func checkLeafCover(t *testing.T, tr *Tree, g grid.WalkabilityGrid) {
	t.Helper()
	root := tr.Root().Area()
	area := 0
	for _, leaf := range tr.Leaves() {
		a := leaf.Area()
		area += a.Size * a.Size
		for y := a.Y; y < a.Y+a.Size; y++ {
			for x := a.X; x < a.X+a.Size; x++ {
				if grid.IsWalkable(g, x, y) != (leaf.State() == Walkable) {
					t.Fatalf("leaf %v (%v) disagrees with cell (%d,%d)", a, leaf.State(), x, y)
				}
			}
		}
	}
	if area != root.Size*root.Size {
		t.Errorf("leaves cover %d cells, want %d", area, root.Size*root.Size)
	}
}

func TestBuildAllWalkable(t *testing.T) {
	g := grid.NewBoolGrid(4, 4, true)
	tr, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}
	if tr.GridSize() != 4 || tr.Depth() != 2 {
		t.Errorf("want size 4 depth 2, got %d %d", tr.GridSize(), tr.Depth())
	}
	if want := (Rect{-4, -4, 16}); tr.Root().Area() != want {
		t.Errorf("want root %v, got %v", want, tr.Root().Area())
	}
	if n := len(tr.Leaves()); n != 7 {
		t.Errorf("want 7 leaves, got %d", n)
	}
	checkLeafCover(t, tr, g)

	seed := tr.LeafAt(0, 0)
	if seed.Area() != (Rect{0, 0, 4}) || seed.State() != Walkable {
		t.Fatalf("unexpected seed leaf %v %v", seed.Area(), seed.State())
	}
	nbs, err := seed.Neighbours()
	if err != nil {
		t.Fatal(err)
	}
	if len(nbs) != 4 {
		t.Errorf("want 4 neighbours, got %d", len(nbs))
	}
}

func TestBuildSingleObstacle(t *testing.T) {
	g := grid.NewBoolGrid(4, 4, true)
	g.Set(2, 2, false)
	tr, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}
	checkLeafCover(t, tr, g)
	if n := len(tr.Leaves()); n != 13 {
		t.Errorf("want 13 leaves, got %d", n)
	}
	hole := tr.LeafAt(2, 2)
	if hole.Area() != (Rect{2, 2, 1}) || hole.State() != NonWalkable {
		t.Fatalf("unexpected hole leaf %v %v", hole.Area(), hole.State())
	}
	nbs, _ := hole.Neighbours()
	// sides and corners, large leaves counted once
	if len(nbs) != 6 {
		t.Errorf("want 6 neighbours for a blocked cell, got %d", len(nbs))
	}
	for _, nb := range nbs {
		if nb.State() != Walkable {
			t.Errorf("neighbour %v should be walkable", nb.Area())
		}
	}
	walk := tr.LeafAt(3, 3)
	nbs, _ = walk.Neighbours()
	for _, nb := range nbs {
		if nb == hole {
			t.Errorf("walkable leaves do not see diagonal neighbours")
		}
	}
}

func TestBuildPadsOddSizes(t *testing.T) {
	g := grid.NewBoolGrid(3, 3, true)
	g.Set(0, 0, false)
	tr, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}
	checkLeafCover(t, tr, g)
}

func TestBuildCollapsesBlockedGrid(t *testing.T) {
	g := grid.NewBoolGrid(2, 2, false)
	tr, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}
	leaves := tr.Leaves()
	if len(leaves) != 1 || leaves[0] != tr.Root() || tr.Root().State() != NonWalkable {
		t.Errorf("a fully blocked grid must collapse into the root leaf")
	}
}

func TestBuildRejectsLargeGrid(t *testing.T) {
	_, err := Build(grid.NewBoolGrid(grid.MaxSize+1, 2, true))
	if !errors.Is(err, common.ErrCapacity) {
		t.Errorf("want ErrCapacity, got %v", err)
	}
}

func TestPreconditions(t *testing.T) {
	tr, err := Build(grid.NewBoolGrid(4, 4, true))
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.LeafAt(0, 0).AddObstacle(9, 9); !errors.Is(err, common.ErrPrecondition) {
		t.Errorf("want precondition error, got %v", err)
	}
	if _, err := tr.Root().Neighbours(); !errors.Is(err, ErrNotLeaf) {
		t.Errorf("want ErrNotLeaf, got %v", err)
	}
	if _, err := tr.Root().IsWalkable(); !errors.Is(err, ErrNotLeaf) {
		t.Errorf("want ErrNotLeaf, got %v", err)
	}
	if tr.LeafAt(100, 0) != nil {
		t.Errorf("want nil outside the root")
	}
}

func TestAddObstacleMerges(t *testing.T) {
	n := &Node{area: Rect{0, 0, 2}, state: Walkable}
	for _, c := range [][2]int{{0, 0}, {1, 0}, {1, 1}} {
		if err := n.AddObstacle(c[0], c[1]); err != nil {
			t.Fatal(err)
		}
	}
	if n.State() != Mixed {
		t.Fatalf("want mixed, got %v", n.State())
	}
	_ = n.AddObstacle(0, 1)
	if n.State() != NonWalkable || !n.IsLeaf() {
		t.Errorf("four blocked quadrants collapse, got %v", n.State())
	}
}
