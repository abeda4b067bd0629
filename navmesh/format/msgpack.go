package format

import (
	"github.com/vmihailenco/msgpack/v5"
)

type msgpackCodec struct{}

// Msgpack stores the Mesh struct using its msgpack field tags.
var Msgpack Codec = msgpackCodec{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Marshal(m *Mesh) ([]byte, error) {
	return msgpack.Marshal(m)
}

func (msgpackCodec) Unmarshal(data []byte) (*Mesh, error) {
	m := &Mesh{}
	if err := msgpack.Unmarshal(data, m); err != nil {
		return nil, formatErrorf("msgpack: %v", err)
	}
	return m, nil
}
