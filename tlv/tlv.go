// Package tlv implements the canonical tag-length-value encoding used for
// cross-chain certificate bytes.
//
// Every item is encoded as:
//
//	tag    uint16 big-endian
//	length uint32 big-endian
//	value  [length]byte
//
// A packet is a concatenation of items. Canonical packets carry strictly
// ascending tags and no trailing bytes; Parse rejects anything else, so two
// implementations that accept the same packet always agree on its bytes.
package tlv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

// HeaderSize is the fixed per-item overhead (tag + length).
const HeaderSize = 6

// MaxValueSize bounds a single value. Certificates are small; anything larger
// is treated as malformed instead of being allocated.
const MaxValueSize = 16 << 20

var (
	ErrTruncated     = errors.New("tlv: truncated input")
	ErrTagOrder      = errors.New("tlv: tags not strictly ascending")
	ErrTooLarge      = errors.New("tlv: value exceeds maximum size")
	ErrMissingTag    = errors.New("tlv: missing tag")
	ErrUnexpectedTag = errors.New("tlv: unexpected tag")
	ErrValueLength   = errors.New("tlv: invalid value length")
	ErrInvalidUTF8   = errors.New("tlv: string is not valid UTF-8")
)

// Writer accumulates a canonical packet.
//
// Tags must be written in strictly ascending order. Writing out of order is a
// programming error and panics.
type Writer struct {
	buf   []byte
	wrote bool
	last  uint16
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) put(tag uint16, value []byte) {
	if w.wrote && tag <= w.last {
		panic(fmt.Sprintf("tlv: tag %d written after tag %d", tag, w.last))
	}
	if len(value) > MaxValueSize {
		panic(fmt.Sprintf("tlv: value for tag %d exceeds %d bytes", tag, MaxValueSize))
	}
	var hdr [HeaderSize]byte
	binary.BigEndian.PutUint16(hdr[0:2], tag)
	binary.BigEndian.PutUint32(hdr[2:6], uint32(len(value)))
	w.buf = append(w.buf, hdr[:]...)
	w.buf = append(w.buf, value...)
	w.wrote = true
	w.last = tag
}

func (w *Writer) PutUint16(tag uint16, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.put(tag, b[:])
}

// PutInt64 writes v as its two's complement big-endian 8-byte form.
func (w *Writer) PutInt64(tag uint16, v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.put(tag, b[:])
}

func (w *Writer) PutString(tag uint16, s string) {
	w.put(tag, []byte(s))
}

func (w *Writer) PutBytes(tag uint16, b []byte) {
	w.put(tag, b)
}

// PutNested writes an already-encoded packet as the value of tag.
func (w *Writer) PutNested(tag uint16, nested *Writer) {
	w.put(tag, nested.buf)
}

// Bytes returns a copy of the encoded packet.
func (w *Writer) Bytes() []byte {
	return append([]byte(nil), w.buf...)
}

// Item is a single decoded tag/value pair. Value aliases the parsed input;
// Packet accessors return copies.
type Item struct {
	Tag   uint16
	Value []byte
}

// Packet is a parsed canonical packet.
type Packet struct {
	items []Item
}

// Parse decodes b as a canonical packet.
func Parse(b []byte) (Packet, error) {
	var p Packet
	off := 0
	for off < len(b) {
		if len(b)-off < HeaderSize {
			return Packet{}, fmt.Errorf("%w: %d header bytes left at offset %d", ErrTruncated, len(b)-off, off)
		}
		tag := binary.BigEndian.Uint16(b[off : off+2])
		n := binary.BigEndian.Uint32(b[off+2 : off+6])
		off += HeaderSize
		if n > MaxValueSize {
			return Packet{}, fmt.Errorf("%w: tag %d declares %d bytes", ErrTooLarge, tag, n)
		}
		if uint64(len(b)-off) < uint64(n) {
			return Packet{}, fmt.Errorf("%w: tag %d declares %d bytes, %d available", ErrTruncated, tag, n, len(b)-off)
		}
		if len(p.items) > 0 && tag <= p.items[len(p.items)-1].Tag {
			return Packet{}, fmt.Errorf("%w: tag %d after tag %d", ErrTagOrder, tag, p.items[len(p.items)-1].Tag)
		}
		p.items = append(p.items, Item{Tag: tag, Value: b[off : off+int(n)]})
		off += int(n)
	}
	return p, nil
}

// Len reports the number of items.
func (p Packet) Len() int { return len(p.items) }

// Tags returns the tags in wire order.
func (p Packet) Tags() []uint16 {
	out := make([]uint16, len(p.items))
	for i, it := range p.items {
		out[i] = it.Tag
	}
	return out
}

// Expect checks that the packet carries exactly the given tags, in order.
// tags must be ascending.
func (p Packet) Expect(tags ...uint16) error {
	i := 0
	for _, it := range p.items {
		if i >= len(tags) || it.Tag != tags[i] {
			if i < len(tags) && it.Tag > tags[i] {
				return fmt.Errorf("%w: %d", ErrMissingTag, tags[i])
			}
			return fmt.Errorf("%w: %d", ErrUnexpectedTag, it.Tag)
		}
		i++
	}
	if i < len(tags) {
		return fmt.Errorf("%w: %d", ErrMissingTag, tags[i])
	}
	return nil
}

func (p Packet) Has(tag uint16) bool {
	_, ok := p.lookup(tag)
	return ok
}

func (p Packet) lookup(tag uint16) ([]byte, bool) {
	for _, it := range p.items {
		if it.Tag == tag {
			return it.Value, true
		}
		if it.Tag > tag {
			break
		}
	}
	return nil, false
}

func (p Packet) value(tag uint16) ([]byte, error) {
	v, ok := p.lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrMissingTag, tag)
	}
	return v, nil
}

// Bytes returns a copy of the value for tag.
func (p Packet) Bytes(tag uint16) ([]byte, error) {
	v, err := p.value(tag)
	if err != nil {
		return nil, err
	}
	return append([]byte{}, v...), nil
}

// String returns the value for tag as a UTF-8 string.
func (p Packet) String(tag uint16) (string, error) {
	v, err := p.value(tag)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(v) {
		return "", fmt.Errorf("%w: tag %d", ErrInvalidUTF8, tag)
	}
	return string(v), nil
}

func (p Packet) Uint16(tag uint16) (uint16, error) {
	v, err := p.value(tag)
	if err != nil {
		return 0, err
	}
	if len(v) != 2 {
		return 0, fmt.Errorf("%w: tag %d has %d bytes, want 2", ErrValueLength, tag, len(v))
	}
	return binary.BigEndian.Uint16(v), nil
}

func (p Packet) Int64(tag uint16) (int64, error) {
	v, err := p.value(tag)
	if err != nil {
		return 0, err
	}
	if len(v) != 8 {
		return 0, fmt.Errorf("%w: tag %d has %d bytes, want 8", ErrValueLength, tag, len(v))
	}
	return int64(binary.BigEndian.Uint64(v)), nil
}

// Nested parses the value for tag as a packet.
func (p Packet) Nested(tag uint16) (Packet, error) {
	v, err := p.value(tag)
	if err != nil {
		return Packet{}, err
	}
	return Parse(v)
}
