package format

import (
	"github.com/gorustyt/gridnavmesh/common/rw"
)

const (
	binaryMagic   = "GNAV"
	binaryVersion = 1
)

type binaryCodec struct{}

// Binary is the native little-endian layout:
//
//	magic "GNAV" | version u16 | width i32 | height i32 | hash u32 |
//	vertex count u32 | (x i32, y i32)... | index count u32 | index i32...
var Binary Codec = binaryCodec{}

func (binaryCodec) Name() string { return "binary" }

func (binaryCodec) Marshal(m *Mesh) ([]byte, error) {
	w := rw.NewNavMeshDataBinWriter()
	w.WriteUInt8s([]uint8(binaryMagic))
	w.WriteUInt16(binaryVersion)
	w.WriteInt32(m.Width)
	w.WriteInt32(m.Height)
	w.WriteInt32(m.Hash)
	w.WriteInt32(uint32(len(m.Vertices)))
	for _, v := range m.Vertices {
		w.WriteInt32(v.X)
		w.WriteInt32(v.Y)
	}
	w.WriteInt32(uint32(len(m.Indices)))
	w.WriteInt32s(m.Indices)
	return w.GetWriteBytes(), nil
}

func (binaryCodec) Unmarshal(data []byte) (*Mesh, error) {
	r := rw.NewNavMeshDataBinReader(data)
	magic := make([]uint8, len(binaryMagic))
	r.ReadUInt8s(magic)
	if r.Err() != nil || string(magic) != binaryMagic {
		return nil, formatErrorf("bad magic %q", magic)
	}
	if v := r.ReadUInt16(); v != binaryVersion {
		return nil, formatErrorf("unsupported version %d", v)
	}
	m := &Mesh{}
	m.Width = r.ReadInt32()
	m.Height = r.ReadInt32()
	m.Hash = r.ReadUInt32()

	nv, err := checkCount(uint64(r.ReadUInt32()), "vertex")
	if err != nil {
		return nil, err
	}
	if nv*8 > r.Size() {
		return nil, formatErrorf("vertex table truncated")
	}
	m.Vertices = make([]FixedPoint, nv)
	for i := range m.Vertices {
		m.Vertices[i].X = r.ReadInt32()
		m.Vertices[i].Y = r.ReadInt32()
	}

	ni, err := checkCount(uint64(r.ReadUInt32()), "index")
	if err != nil {
		return nil, err
	}
	if ni*4 > r.Size() {
		return nil, formatErrorf("index list truncated")
	}
	m.Indices = make([]int32, ni)
	r.ReadInt32s(m.Indices)
	if r.Err() != nil {
		return nil, formatErrorf("%v", r.Err())
	}
	if r.Size() != 0 {
		return nil, formatErrorf("%d trailing bytes", r.Size())
	}
	return m, nil
}
