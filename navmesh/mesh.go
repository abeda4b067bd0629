// Package navmesh turns a walkability grid into a graph of convex polygons
// sharing edges, and rebuilds such graphs from saved polygon lists.
package navmesh

import (
	"fmt"

	"github.com/gorustyt/gridnavmesh/common"
	"github.com/gorustyt/gridnavmesh/grid"
	"github.com/gorustyt/gridnavmesh/quadtree"
	"github.com/gorustyt/gridnavmesh/region"
	"github.com/gorustyt/gridnavmesh/simplify"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrMalformedMesh is returned when saved polygons do not form a valid mesh.
var ErrMalformedMesh = fmt.Errorf("%w: malformed navmesh", common.ErrPrecondition)

// NavMesh is the immutable result of a build. WalkabilityHash identifies the
// grid it was built from.
type NavMesh struct {
	Width, Height   int
	WalkabilityHash uint32
	Nodes           []*Node
}

type Stats struct {
	Nodes     int
	Triangles int
	Vertices  int
	Portals   int
	MaxVerts  int
	Area      float64
}

// Build runs the whole pipeline on g: quad-tree, area extraction, joint
// simplification of every contour, then one tessellation per walkable area.
func Build(g grid.WalkabilityGrid, opts ...Option) (*NavMesh, error) {
	o := buildOptions(opts)
	log := o.Logger

	tree, err := quadtree.Build(g)
	if err != nil {
		return nil, err
	}
	root, err := region.Extract(g, tree)
	if err != nil {
		return nil, err
	}
	sectors := region.Sectors(root)
	log.Debug("extracted areas",
		zap.Int("width", g.Width()),
		zap.Int("height", g.Height()),
		zap.Int("leaves", len(tree.Leaves())),
		zap.Int("sectors", len(sectors)))

	// every contour belongs to exactly one sector, as its border or a hole
	var loops [][]common.Point
	for _, s := range sectors {
		loops = append(loops, s.Border)
		loops = append(loops, s.Holes...)
	}
	simplified := simplify.Simplify(loops, o.MaxError, log)

	arena := NewArena()
	mesh := &NavMesh{Width: g.Width(), Height: g.Height(), WalkabilityHash: grid.Hash(g)}
	k := 0
	for _, s := range sectors {
		border := simplified[k]
		holes := simplified[k+1 : k+1+len(s.Holes)]
		k += 1 + len(s.Holes)
		mesh.Nodes = append(mesh.Nodes, Tessellate(arena, border, holes, o)...)
	}
	for i, n := range mesh.Nodes {
		n.ID = i
	}
	log.Debug("built navmesh",
		zap.Int("nodes", len(mesh.Nodes)),
		zap.Int("created", arena.Count()),
		zap.Uint32("hash", mesh.WalkabilityHash))
	return mesh, nil
}

// CheckNavmeshIntegrity reports whether mesh was built from a grid identical
// to g.
func CheckNavmeshIntegrity(g grid.WalkabilityGrid, mesh *NavMesh) bool {
	if mesh == nil || g.Width() != mesh.Width || g.Height() != mesh.Height {
		return false
	}
	return grid.Hash(g) == mesh.WalkabilityHash
}

// FromPolygons rebuilds a mesh from node polygons, deriving adjacency from
// shared edges only.
func FromPolygons(width, height int, hash uint32, polys [][]common.Point) (*NavMesh, error) {
	mesh := &NavMesh{Width: width, Height: height, WalkabilityHash: hash}
	owners := map[[2]common.Point]*Node{}
	shared := map[edgeKey]int{}
	for i, poly := range polys {
		if len(poly) < 3 {
			return nil, fmt.Errorf("%w: node %d has %d vertices", ErrMalformedMesh, i, len(poly))
		}
		n := &Node{ID: i, Polygon: poly, box: common.BoxOf(poly...)}
		for j, a := range poly {
			b := poly[common.Next(j, len(poly))]
			if a == b {
				return nil, fmt.Errorf("%w: node %d repeats vertex %v", ErrMalformedMesh, i, a)
			}
			key := undirected(a, b)
			shared[key]++
			if shared[key] > 2 {
				return nil, fmt.Errorf("%w: edge %v-%v shared by more than two nodes", ErrMalformedMesh, a, b)
			}
			if o, ok := owners[[2]common.Point{a, b}]; ok {
				return nil, fmt.Errorf("%w: nodes %d and %d both use edge %v-%v", ErrMalformedMesh, o.ID, i, a, b)
			}
			owners[[2]common.Point{a, b}] = n
		}
		mesh.Nodes = append(mesh.Nodes, n)
	}
	for _, n := range mesh.Nodes {
		for j, a := range n.Polygon {
			b := n.Polygon[common.Next(j, len(n.Polygon))]
			if o, ok := owners[[2]common.Point{b, a}]; ok {
				n.link(o)
			}
		}
	}
	return mesh, nil
}

func (m *NavMesh) Polygons() [][]common.Point {
	res := make([][]common.Point, len(m.Nodes))
	for i, n := range m.Nodes {
		res[i] = n.Polygon
	}
	return res
}

func (m *NavMesh) Area() float64 {
	var a2 int64
	for _, n := range m.Nodes {
		a2 += n.Area2()
	}
	return float64(a2) / 2
}

func (m *NavMesh) Stats() Stats {
	s := Stats{Nodes: len(m.Nodes), Area: m.Area()}
	verts := map[common.Point]struct{}{}
	for _, n := range m.Nodes {
		if len(n.Polygon) == 3 {
			s.Triangles++
		}
		s.MaxVerts = max(s.MaxVerts, len(n.Polygon))
		s.Portals += len(n.Edges())
		for _, p := range n.Polygon {
			verts[p] = struct{}{}
		}
	}
	s.Vertices = len(verts)
	s.Portals /= 2
	return s
}

// Validate checks every node for winding, convexity and symmetric adjacency
// through a shared edge. All problems are reported together.
func (m *NavMesh) Validate() error {
	var err error
	for _, n := range m.Nodes {
		if !looselyConvex(n.Polygon) {
			err = multierr.Append(err, fmt.Errorf("node %d is not a clockwise convex polygon", n.ID))
		}
		for _, nb := range n.Neighbours {
			if !nb.IsNeighbour(n) {
				err = multierr.Append(err, fmt.Errorf("node %d lists %d as neighbour but not the reverse", n.ID, nb.ID))
			}
			if sharedLength(n, nb) == 0 {
				err = multierr.Append(err, fmt.Errorf("nodes %d and %d share no edge", n.ID, nb.ID))
			}
		}
	}
	return err
}
