package binary

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
)

// Reader is a forward-only cursor over a fully buffered byte slice with
// position tracking. Integer fields in the pbj wire format are
// little-endian while 32-bit floats are big-endian; the mixed endianness
// is a property of the format and is exposed as-is rather than
// normalized.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte offset.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, r.truncated(1)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, r.truncated(n)
	}
	buf := r.data[r.pos : r.pos+n]
	r.pos += n
	return buf, nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// ReadI16 reads a little-endian int16.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU24 reads a little-endian 24-bit unsigned integer.
func (r *Reader) ReadU24() (uint32, error) {
	buf, err := r.ReadBytes(3)
	if err != nil {
		return 0, err
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16, nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadI32 reads a little-endian int32.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadF32BE reads a big-endian float32.
func (r *Reader) ReadF32BE() (float32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(buf)), nil
}

// ReadCString reads bytes until a zero terminator, which is consumed but
// not included in the result. Each byte is taken verbatim as a single
// character; no character-set validation is performed.
func (r *Reader) ReadCString() (string, error) {
	var b strings.Builder
	for {
		c, err := r.ReadU8()
		if err != nil {
			return "", err
		}
		if c == 0 {
			return b.String(), nil
		}
		b.WriteRune(rune(c))
	}
}

func (r *Reader) truncated(need int) error {
	return fmt.Errorf("need %d byte(s) at offset %d, %d remain: %w",
		need, r.pos, r.Remaining(), io.ErrUnexpectedEOF)
}
