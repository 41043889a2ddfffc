// Copyright 2025 Certen Protocol
//
// Package codec implements the fixed-order binary encoding used for every
// persisted record and wire message in this module. The retrieval pack
// carries no Go Borsh implementation, so this is a small hand-rolled
// little-endian, length-prefixed codec satisfying the same round-trip
// property spec.md §8 requires of Borsh: every persisted record type
// serializes and deserializes to an identical value. It is intentionally
// narrow — only the primitives the gateway and ITS records actually use.
package codec

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrShortBuffer is returned when a Reader runs out of bytes mid-field.
var ErrShortBuffer = errors.New("codec: short buffer")

// ErrOversizeLength is returned when a length-prefixed field declares a
// length larger than the remaining buffer, guarding against a corrupted
// or adversarial length prefix driving an enormous allocation.
var ErrOversizeLength = errors.New("codec: declared length exceeds remaining buffer")

// Writer accumulates a fixed-order binary encoding.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) { w.buf = append(w.buf, b) }

// WriteBool appends a byte-encoded boolean (0 or 1).
func (w *Writer) WriteBool(b bool) {
	if b {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(v uint8) { w.WriteByte(v) }

// WriteUint16 appends a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteUint32 appends a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteUint64 appends a little-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteFixed appends exactly b as-is, with no length prefix — used for
// fixed-width fields such as 32-byte hashes and addresses.
func (w *Writer) WriteFixed(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteBytes appends a uint32 length prefix followed by b, the
// variable-length encoding used for payload bytes and UTF-8 strings.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteString appends a length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) {
	w.WriteBytes([]byte(s))
}

// Reader consumes a fixed-order binary encoding produced by Writer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps b for sequential decoding.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Remaining reports how many bytes are left to read.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return ErrShortBuffer
	}
	return nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadBool reads a byte-encoded boolean.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadUint8 reads a single byte as uint8.
func (r *Reader) ReadUint8() (uint8, error) {
	return r.ReadByte()
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadUint64 reads a little-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadFixed reads exactly n bytes with no length prefix.
func (r *Reader) ReadFixed(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadBytes reads a uint32 length prefix followed by that many bytes.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if int(n) > r.Remaining() {
		return nil, ErrOversizeLength
	}
	return r.ReadFixed(int(n))
}

// ReadString reads a length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Done reports whether every byte has been consumed; callers use this to
// reject trailing garbage after a record's fixed fields.
func (r *Reader) Done() bool { return r.Remaining() == 0 }

// ErrTrailingData is returned by decoders that require Done() after
// parsing every declared field.
var ErrTrailingData = errors.New("codec: trailing data after decode")

var _ io.Reader = (*bytesReader)(nil)

type bytesReader struct {
	r *Reader
}

func (b *bytesReader) Read(p []byte) (int, error) {
	n := copy(p, b.r.buf[b.r.pos:])
	b.r.pos += n
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
