package rw

import (
	"errors"
	"io"
	"testing"
)

func TestReaderWriterRoundTrip(t *testing.T) {
	w := NewNavMeshDataBinWriter()
	w.WriteUInt8s([]uint8("GNAV"))
	w.WriteUInt16(7)
	w.WriteInt32(int32(-3))
	w.WriteInt32s([]int{1, 2, 3})

	r := NewNavMeshDataBinReader(w.GetWriteBytes())
	magic := make([]uint8, 4)
	r.ReadUInt8s(magic)
	if string(magic) != "GNAV" {
		t.Errorf("want magic GNAV, got %q", magic)
	}
	if v := r.ReadUInt16(); v != 7 {
		t.Errorf("want 7, got %d", v)
	}
	if v := r.ReadInt32(); v != -3 {
		t.Errorf("want -3, got %d", v)
	}
	vals := make([]int32, 3)
	r.ReadInt32s(vals)
	if vals[0] != 1 || vals[1] != 2 || vals[2] != 3 {
		t.Errorf("want [1 2 3], got %v", vals)
	}
	if r.Err() != nil {
		t.Errorf("unexpected error %v", r.Err())
	}
	if r.Size() != 0 {
		t.Errorf("want buffer drained, %d bytes left", r.Size())
	}
}

func TestReaderStickyError(t *testing.T) {
	r := NewNavMeshDataBinReader([]byte{1, 2})
	if v := r.ReadUInt32(); v != 0 {
		t.Errorf("want zero value on short read, got %d", v)
	}
	if !errors.Is(r.Err(), io.ErrUnexpectedEOF) {
		t.Fatalf("want ErrUnexpectedEOF, got %v", r.Err())
	}
	if v := r.ReadUInt8(); v != 0 {
		t.Errorf("reads after an error must return zero, got %d", v)
	}
}
