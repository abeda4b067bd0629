package rw

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// ReaderWriter is a little-endian cursor over a navmesh byte buffer. Read
// errors are sticky: once a read runs past the end of the data every later
// read returns zero values and Err reports the first failure.
type ReaderWriter struct {
	order   binary.ByteOrder
	dataBuf []byte
	rw      bytes.Buffer
	err     error
}

func NewNavMeshDataBinWriter() *ReaderWriter {
	return &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
}

func NewNavMeshDataBinReader(data []byte) *ReaderWriter {
	d := &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
	d.rw.Write(data)
	return d
}

func (w *ReaderWriter) Err() error {
	return w.err
}

func (w *ReaderWriter) read(n int) []byte {
	if w.err != nil {
		return nil
	}
	if _, err := io.ReadFull(&w.rw, w.dataBuf[:n]); err != nil {
		w.err = fmt.Errorf("read %d bytes: %w", n, io.ErrUnexpectedEOF)
		return nil
	}
	return w.dataBuf[:n]
}

func (w *ReaderWriter) ReadUInt8() uint8 {
	b := w.read(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (w *ReaderWriter) ReadUInt8s(value []uint8) {
	for i := range value {
		value[i] = w.ReadUInt8()
	}
}

func (w *ReaderWriter) ReadUInt16() uint16 {
	b := w.read(2)
	if b == nil {
		return 0
	}
	return w.order.Uint16(b)
}

func (w *ReaderWriter) ReadUInt32() uint32 {
	b := w.read(4)
	if b == nil {
		return 0
	}
	return w.order.Uint32(b)
}

func (w *ReaderWriter) ReadInt32() int32 {
	return int32(w.ReadUInt32())
}

func (w *ReaderWriter) ReadInt32s(value []int32) {
	for i := range value {
		value[i] = w.ReadInt32()
	}
}

func (w *ReaderWriter) WriteUInt8s(value []uint8) {
	w.rw.Write(value)
}

func (w *ReaderWriter) WriteUInt16(value uint16) {
	w.order.PutUint16(w.dataBuf, value)
	w.rw.Write(w.dataBuf[:2])
}

func (w *ReaderWriter) WriteInt32(v interface{}) {
	switch value := v.(type) {
	case int32:
		w.order.PutUint32(w.dataBuf, uint32(value))
	case int:
		w.order.PutUint32(w.dataBuf, uint32(value))
	case uint32:
		w.order.PutUint32(w.dataBuf, value)
	default:
		panic("not impl")
	}
	w.rw.Write(w.dataBuf[:4])
}

func (w *ReaderWriter) WriteInt32s(v interface{}) {
	switch value := v.(type) {
	case []int32:
		for _, tmp := range value {
			w.WriteInt32(tmp)
		}
	case []int:
		for _, tmp := range value {
			w.WriteInt32(tmp)
		}
	case []uint32:
		for _, tmp := range value {
			w.WriteInt32(tmp)
		}
	default:
		panic("not impl")
	}
}

func (w *ReaderWriter) GetWriteBytes() (res []byte) {
	res = w.rw.Bytes()
	return res
}

// Size returns the number of unread (or written) bytes.
func (w *ReaderWriter) Size() int {
	return w.rw.Len()
}
