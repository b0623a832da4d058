package pbj

import (
	"github.com/wippyai/pixelbender/errors"
	"github.com/wippyai/pixelbender/pbj/internal/binary"
)

// readValue reads the literal whose shape is fixed by tag. Floats are
// big-endian on the wire, ints little-endian. Callers validate the tag
// before calling.
func readValue(r *binary.Reader, tag TypeTag) (Value, error) {
	switch tag {
	case TypeFloat:
		v, err := r.ReadF32BE()
		if err != nil {
			return nil, err
		}
		return FloatValue(v), nil
	case TypeFloat2:
		var v Float2Value
		if err := readFloats(r, v[:]); err != nil {
			return nil, err
		}
		return v, nil
	case TypeFloat3:
		var v Float3Value
		if err := readFloats(r, v[:]); err != nil {
			return nil, err
		}
		return v, nil
	case TypeFloat4:
		var v Float4Value
		if err := readFloats(r, v[:]); err != nil {
			return nil, err
		}
		return v, nil
	case TypeFloat2x2:
		var v Float2x2Value
		if err := readFloats(r, v[:]); err != nil {
			return nil, err
		}
		return v, nil
	case TypeFloat3x3:
		var v Float3x3Value
		if err := readFloats(r, v[:]); err != nil {
			return nil, err
		}
		return v, nil
	case TypeFloat4x4:
		var v Float4x4Value
		if err := readFloats(r, v[:]); err != nil {
			return nil, err
		}
		return v, nil
	case TypeInt:
		v, err := r.ReadI16()
		if err != nil {
			return nil, err
		}
		return IntValue(v), nil
	case TypeInt2:
		var v Int2Value
		if err := readInts(r, v[:]); err != nil {
			return nil, err
		}
		return v, nil
	case TypeInt3:
		var v Int3Value
		if err := readInts(r, v[:]); err != nil {
			return nil, err
		}
		return v, nil
	case TypeInt4:
		var v Int4Value
		if err := readInts(r, v[:]); err != nil {
			return nil, err
		}
		return v, nil
	case TypeString:
		s, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		return StringValue(s), nil
	}
	return nil, errors.UnknownType("", r.Position(), byte(tag))
}

func readFloats(r *binary.Reader, dst []float32) error {
	for i := range dst {
		v, err := r.ReadF32BE()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

func readInts(r *binary.Reader, dst []int16) error {
	for i := range dst {
		v, err := r.ReadI16()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}
