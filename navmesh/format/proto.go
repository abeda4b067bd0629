package format

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the protobuf message:
//
//	message NavMesh {
//	  int32 width = 1;
//	  int32 height = 2;
//	  fixed32 hash = 3;
//	  repeated sint32 vertices = 4; // x0, y0, x1, y1, ...
//	  repeated sint32 indices = 5;
//	}
const (
	fieldWidth    protowire.Number = 1
	fieldHeight   protowire.Number = 2
	fieldHash     protowire.Number = 3
	fieldVertices protowire.Number = 4
	fieldIndices  protowire.Number = 5
)

type protoCodec struct{}

// Proto encodes meshes in protobuf wire format without generated code.
var Proto Codec = protoCodec{}

func (protoCodec) Name() string { return "proto" }

func appendPacked(b []byte, num protowire.Number, vals []int32) []byte {
	if len(vals) == 0 {
		return b
	}
	var packed []byte
	for _, v := range vals {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(v)))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

func (protoCodec) Marshal(m *Mesh) ([]byte, error) {
	var b []byte
	if m.Width != 0 {
		b = protowire.AppendTag(b, fieldWidth, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.Width))
	}
	if m.Height != 0 {
		b = protowire.AppendTag(b, fieldHeight, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.Height))
	}
	if m.Hash != 0 {
		b = protowire.AppendTag(b, fieldHash, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, m.Hash)
	}
	flat := make([]int32, 0, 2*len(m.Vertices))
	for _, v := range m.Vertices {
		flat = append(flat, v.X, v.Y)
	}
	b = appendPacked(b, fieldVertices, flat)
	b = appendPacked(b, fieldIndices, m.Indices)
	return b, nil
}

func consumeSint32(b []byte) (int32, int) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, n
	}
	return int32(protowire.DecodeZigZag(v)), n
}

// consumeRepeated accepts both packed and unpacked encodings of a repeated
// sint32 field.
func consumeRepeated(b []byte, num protowire.Number, typ protowire.Type, dst []int32) ([]int32, int) {
	switch typ {
	case protowire.VarintType:
		v, n := consumeSint32(b)
		if n < 0 {
			return dst, n
		}
		return append(dst, v), n
	case protowire.BytesType:
		packed, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return dst, n
		}
		for len(packed) > 0 {
			v, m := consumeSint32(packed)
			if m < 0 {
				return dst, m
			}
			dst = append(dst, v)
			packed = packed[m:]
		}
		return dst, n
	}
	return dst, protowire.ConsumeFieldValue(num, typ, b)
}

func (protoCodec) Unmarshal(data []byte) (*Mesh, error) {
	m := &Mesh{}
	var flat []int32
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, formatErrorf("tag: %v", protowire.ParseError(n))
		}
		data = data[n:]
		switch {
		case num == fieldWidth && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(data)
			m.Width = int32(v)
		case num == fieldHeight && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(data)
			m.Height = int32(v)
		case num == fieldHash && typ == protowire.Fixed32Type:
			m.Hash, n = protowire.ConsumeFixed32(data)
		case num == fieldVertices:
			flat, n = consumeRepeated(data, num, typ, flat)
		case num == fieldIndices:
			m.Indices, n = consumeRepeated(data, num, typ, m.Indices)
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}
		if n < 0 {
			return nil, formatErrorf("field %d: %v", num, protowire.ParseError(n))
		}
		data = data[n:]
	}
	if len(flat)%2 != 0 {
		return nil, formatErrorf("odd vertex coordinate count %d", len(flat))
	}
	m.Vertices = make([]FixedPoint, len(flat)/2)
	for i := range m.Vertices {
		m.Vertices[i] = FixedPoint{X: flat[2*i], Y: flat[2*i+1]}
	}
	return m, nil
}
