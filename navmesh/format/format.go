// Package format converts navmeshes to and from their persisted form.
//
// A persisted mesh is a flat vertex table in fixed point plus an index list
// where -1 closes each node polygon. Adjacency is not stored; it is derived
// from shared edges on load.
package format

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gorustyt/gridnavmesh/common"
	"github.com/gorustyt/gridnavmesh/navmesh"
)

var ErrFormat = errors.New("invalid navmesh data")

// Scale is the number of fixed point units per grid cell.
const Scale = 2

// Sentinel terminates a node polygon in Mesh.Indices.
const Sentinel = -1

type FixedPoint struct {
	X int32 `msgpack:"x"`
	Y int32 `msgpack:"y"`
}

type Mesh struct {
	Width    int32        `msgpack:"w"`
	Height   int32        `msgpack:"h"`
	Hash     uint32       `msgpack:"hash"`
	Vertices []FixedPoint `msgpack:"v"`
	Indices  []int32      `msgpack:"i"`
}

func formatErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}

// FromNavMesh flattens m. Vertices are numbered in first-seen order so equal
// meshes always produce identical tables.
func FromNavMesh(m *navmesh.NavMesh) *Mesh {
	res := &Mesh{Width: int32(m.Width), Height: int32(m.Height), Hash: m.WalkabilityHash}
	ids := map[common.Point]int32{}
	for _, n := range m.Nodes {
		for _, p := range n.Polygon {
			id, ok := ids[p]
			if !ok {
				id = int32(len(res.Vertices))
				ids[p] = id
				res.Vertices = append(res.Vertices, FixedPoint{X: int32(p.X * Scale), Y: int32(p.Y * Scale)})
			}
			res.Indices = append(res.Indices, id)
		}
		res.Indices = append(res.Indices, Sentinel)
	}
	return res
}

// Polygons decodes the index list back into lattice polygons.
func (m *Mesh) Polygons() ([][]common.Point, error) {
	if m.Width < 0 || m.Height < 0 {
		return nil, formatErrorf("negative size %dx%d", m.Width, m.Height)
	}
	pts := make([]common.Point, len(m.Vertices))
	for i, v := range m.Vertices {
		if v.X%Scale != 0 || v.Y%Scale != 0 {
			return nil, formatErrorf("vertex %d (%d,%d) is off the lattice", i, v.X, v.Y)
		}
		pts[i] = common.Point{X: int(v.X / Scale), Y: int(v.Y / Scale)}
	}
	var polys [][]common.Point
	var cur []common.Point
	for i, idx := range m.Indices {
		if idx == Sentinel {
			polys = append(polys, cur)
			cur = nil
			continue
		}
		if idx < 0 || int(idx) >= len(pts) {
			return nil, formatErrorf("index %d at %d out of range", idx, i)
		}
		cur = append(cur, pts[idx])
	}
	if cur != nil {
		return nil, formatErrorf("last polygon is not terminated")
	}
	return polys, nil
}

func (m *Mesh) ToNavMesh() (*navmesh.NavMesh, error) {
	polys, err := m.Polygons()
	if err != nil {
		return nil, err
	}
	return navmesh.FromPolygons(int(m.Width), int(m.Height), m.Hash, polys)
}

// Codec serializes a Mesh.
type Codec interface {
	Name() string
	Marshal(m *Mesh) ([]byte, error)
	Unmarshal(data []byte) (*Mesh, error)
}

var codecs = map[string]Codec{
	Binary.Name():  Binary,
	Proto.Name():   Proto,
	Msgpack.Name(): Msgpack,
}

func CodecByName(name string) (Codec, error) {
	c, ok := codecs[name]
	if !ok {
		return nil, common.Preconditionf("unknown codec %q", name)
	}
	return c, nil
}

func checkCount(n uint64, what string) (int, error) {
	if n > math.MaxInt32 {
		return 0, formatErrorf("%s count %d too large", what, n)
	}
	return int(n), nil
}

var gzipMagic = []byte{0x1f, 0x8b}

// Save encodes mesh with c, gzip compressing the result when compress is set.
func Save(w io.Writer, mesh *navmesh.NavMesh, c Codec, compress bool) error {
	data, err := c.Marshal(FromNavMesh(mesh))
	if err != nil {
		return err
	}
	if !compress {
		_, err = w.Write(data)
		return err
	}
	zw := gzip.NewWriter(w)
	if _, err = zw.Write(data); err != nil {
		return err
	}
	return zw.Close()
}

// Load decodes a mesh written by Save. Gzip input is detected by its magic
// bytes.
func Load(r io.Reader, c Codec) (*navmesh.NavMesh, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(2); err == nil && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, formatErrorf("gzip: %v", err)
		}
		defer zr.Close()
		return decode(zr, c)
	}
	return decode(br, c)
}

func decode(r io.Reader, c Codec) (*navmesh.NavMesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m, err := c.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return m.ToNavMesh()
}

func SaveFile(path string, mesh *navmesh.NavMesh, c Codec, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = Save(f, mesh, c, compress); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadFile(path string, c Codec) (*navmesh.NavMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, c)
}
