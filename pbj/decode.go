package pbj

import (
	stderrors "errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/pixelbender/errors"
	"github.com/wippyai/pixelbender/pbj/internal/binary"
)

// ParseShader decodes a complete, fully buffered Pixel Bender bytecode
// program. It returns the decoded Shader, or the first error encountered
// with no partial result. Decoding is deterministic and performs no I/O;
// independent inputs may be decoded concurrently.
func ParseShader(data []byte) (*Shader, error) {
	d := &decoder{
		r:      binary.NewReader(data),
		shader: &Shader{},
	}

	for d.r.Remaining() > 0 {
		if err := d.readOp(); err != nil {
			return nil, err
		}
	}

	// Metadata still pending at end of stream belongs to the final
	// parameter.
	if err := d.flushMetadata(); err != nil {
		return nil, err
	}

	Logger().Debug("parsed shader",
		zap.String("name", d.shader.Name),
		zap.Int32("version", d.shader.Version),
		zap.Int("params", len(d.shader.Params)),
		zap.Int("operations", len(d.shader.Operations)))

	return d.shader, nil
}

type decoder struct {
	r       *binary.Reader
	shader  *Shader
	pending []MetadataEntry
}

// readOp decodes exactly one instruction and applies its effect to the
// shader or the pending metadata list.
func (d *decoder) readOp() error {
	start := d.r.Position()
	raw, err := d.r.ReadU8()
	if err != nil {
		return errors.Truncated("opcode", start, err)
	}
	op := Opcode(raw)
	if !op.valid() {
		return errors.UnknownOpcode(start, raw)
	}

	switch op {
	case OpNop:
		return d.readNop(op)
	case OpMeta1, OpMeta2:
		return d.readMeta(op)
	case OpParam:
		return d.readParam(op)
	case OpParamTexture:
		return d.readParamTexture(op)
	case OpName:
		return d.readName(op)
	case OpVersion:
		return d.readVersion(op)
	case OpIf:
		return d.readIf(op)
	case OpElse, OpEndIf:
		return d.readElseEndIf(op)
	case OpLoadIntOrFloat:
		return d.readLoad(op)
	case OpSampleNearest, OpSampleLinear:
		return d.readSample(op)
	default:
		return d.readNormal(op)
	}
}

func (d *decoder) readNop(op Opcode) error {
	pos := d.r.Position()
	v32, err := d.r.ReadU32()
	if err != nil {
		return d.fail(op, err)
	}
	if v32 != 0 {
		return errors.ReservedField(op.String(), pos, v32)
	}

	pos = d.r.Position()
	v16, err := d.r.ReadU16()
	if err != nil {
		return d.fail(op, err)
	}
	if v16 != 0 {
		return errors.ReservedField(op.String(), pos, v16)
	}

	d.emit(NopOp{})
	return nil
}

func (d *decoder) readMeta(op Opcode) error {
	tagPos := d.r.Position()
	rawTag, err := d.r.ReadU8()
	if err != nil {
		return d.fail(op, err)
	}
	tag := TypeTag(rawTag)
	if !tag.valid() {
		return errors.UnknownType(op.String(), tagPos, rawTag)
	}

	key, err := d.r.ReadCString()
	if err != nil {
		return d.fail(op, err)
	}
	value, err := readValue(d.r, tag)
	if err != nil {
		return d.fail(op, err)
	}

	d.pending = append(d.pending, MetadataEntry{Key: key, Value: value})
	return nil
}

func (d *decoder) readParam(op Opcode) error {
	qualPos := d.r.Position()
	rawQual, err := d.r.ReadU8()
	if err != nil {
		return d.fail(op, err)
	}
	tagPos := d.r.Position()
	rawTag, err := d.r.ReadU8()
	if err != nil {
		return d.fail(op, err)
	}
	word, err := d.r.ReadU16()
	if err != nil {
		return d.fail(op, err)
	}
	mask, err := d.r.ReadU8()
	if err != nil {
		return d.fail(op, err)
	}
	name, err := d.r.ReadCString()
	if err != nil {
		return d.fail(op, err)
	}

	tag := TypeTag(rawTag)
	if !tag.valid() {
		return errors.UnknownType(op.String(), tagPos, rawTag)
	}
	qualifier := Qualifier(rawQual)
	if !qualifier.valid() {
		return errors.InvalidQualifier(op.String(), qualPos, rawQual)
	}

	if err := d.flushMetadata(); err != nil {
		return err
	}

	// The wire format permits matrix-typed parameters; the IR does not.
	if tag.IsMatrix() {
		return errors.Unsupported(op.String(), tagPos, "matrix-typed parameter ("+tag.String()+")")
	}

	d.shader.Params = append(d.shader.Params, &NormalParam{
		Qualifier: qualifier,
		Type:      tag,
		Reg:       decodeDstRegister(word, mask),
		Name:      name,
	})
	return nil
}

func (d *decoder) readParamTexture(op Opcode) error {
	index, err := d.r.ReadU8()
	if err != nil {
		return d.fail(op, err)
	}
	channels, err := d.r.ReadU8()
	if err != nil {
		return d.fail(op, err)
	}
	name, err := d.r.ReadCString()
	if err != nil {
		return d.fail(op, err)
	}

	if err := d.flushMetadata(); err != nil {
		return err
	}

	d.shader.Params = append(d.shader.Params, &TextureParam{
		Index:    index,
		Channels: channels,
		Name:     name,
	})
	return nil
}

func (d *decoder) readName(op Opcode) error {
	length, err := d.r.ReadU16()
	if err != nil {
		return d.fail(op, err)
	}
	dataPos := d.r.Position()
	raw, err := d.r.ReadBytes(int(length))
	if err != nil {
		return d.fail(op, err)
	}
	if !utf8.Valid(raw) {
		return errors.InvalidUTF8(op.String(), dataPos, raw)
	}

	d.shader.Name = string(raw)
	return nil
}

func (d *decoder) readVersion(op Opcode) error {
	version, err := d.r.ReadI32()
	if err != nil {
		return d.fail(op, err)
	}
	d.shader.Version = version
	return nil
}

func (d *decoder) readIf(op Opcode) error {
	pos := d.r.Position()
	v24, err := d.r.ReadU24()
	if err != nil {
		return d.fail(op, err)
	}
	if v24 != 0 {
		return errors.ReservedField(op.String(), pos, v24)
	}

	src, err := d.r.ReadU24()
	if err != nil {
		return d.fail(op, err)
	}

	pos = d.r.Position()
	tail, err := d.r.ReadU8()
	if err != nil {
		return d.fail(op, err)
	}
	if tail != 0 {
		return errors.ReservedField(op.String(), pos, tail)
	}

	d.emit(IfOp{Src: decodeSrcRegister(src, 1)})
	return nil
}

func (d *decoder) readElseEndIf(op Opcode) error {
	pos := d.r.Position()
	v32, err := d.r.ReadU32()
	if err != nil {
		return d.fail(op, err)
	}
	if v32 != 0 {
		return errors.ReservedField(op.String(), pos, v32)
	}

	pos = d.r.Position()
	v24, err := d.r.ReadU24()
	if err != nil {
		return d.fail(op, err)
	}
	if v24 != 0 {
		return errors.ReservedField(op.String(), pos, v24)
	}

	if op == OpElse {
		d.emit(ElseOp{})
	} else {
		d.emit(EndIfOp{})
	}
	return nil
}

func (d *decoder) readLoad(op Opcode) error {
	word, err := d.r.ReadU16()
	if err != nil {
		return d.fail(op, err)
	}
	maskPos := d.r.Position()
	mask, err := d.r.ReadU8()
	if err != nil {
		return d.fail(op, err)
	}
	if mask&0xF != 0 {
		return errors.ReservedField(op.String(), maskPos, mask)
	}

	dst := decodeDstRegister(word, mask>>4)
	switch dst.Kind {
	case RegisterFloat:
		value, err := d.r.ReadF32BE()
		if err != nil {
			return d.fail(op, err)
		}
		d.emit(LoadFloatOp{Dst: dst, Value: value})
	case RegisterInt:
		value, err := d.r.ReadI32()
		if err != nil {
			return d.fail(op, err)
		}
		d.emit(LoadIntOp{Dst: dst, Value: value})
	}
	return nil
}

func (d *decoder) readSample(op Opcode) error {
	word, err := d.r.ReadU16()
	if err != nil {
		return d.fail(op, err)
	}
	mask, err := d.r.ReadU8()
	if err != nil {
		return d.fail(op, err)
	}
	src, err := d.r.ReadU24()
	if err != nil {
		return d.fail(op, err)
	}
	sampler, err := d.r.ReadU8()
	if err != nil {
		return d.fail(op, err)
	}

	dst := decodeDstRegister(word, mask>>4)
	srcReg := decodeSrcRegister(src, 2)

	if op == OpSampleNearest {
		d.emit(SampleNearestOp{Dst: dst, Src: srcReg, Sampler: sampler})
	} else {
		d.emit(SampleLinearOp{Dst: dst, Src: srcReg, Sampler: sampler})
	}
	return nil
}

// readNormal decodes the shared operand grammar used by every
// arithmetic, logic, and transcendental opcode.
func (d *decoder) readNormal(op Opcode) error {
	word, err := d.r.ReadU16()
	if err != nil {
		return d.fail(op, err)
	}
	mask, err := d.r.ReadU8()
	if err != nil {
		return d.fail(op, err)
	}
	size := mask&0x3 + 1
	matrix := mask >> 2 & 0x3

	src, err := d.r.ReadU24()
	if err != nil {
		return d.fail(op, err)
	}
	tailPos := d.r.Position()
	tail, err := d.r.ReadU8()
	if err != nil {
		return d.fail(op, err)
	}
	if tail != 0 {
		return errors.ReservedField(op.String(), tailPos, tail)
	}

	if matrix != 0 {
		return errors.Unsupported(op.String(), tailPos,
			fmt.Sprintf("matrix arithmetic (matrix flag %d)", matrix))
	}

	d.emit(NormalOp{
		Opcode: op,
		Dst:    decodeDstRegister(word, mask>>4),
		Src:    decodeSrcRegister(src, size),
	})
	return nil
}

func (d *decoder) emit(op Operation) {
	d.shader.Operations = append(d.shader.Operations, op)
}

// flushMetadata moves the pending metadata list onto the most recently
// declared parameter, or onto the program header when no parameter has
// been declared yet. Texture parameters have no metadata slot.
func (d *decoder) flushMetadata() error {
	pending := d.pending
	d.pending = nil

	if len(d.shader.Params) == 0 {
		d.shader.Metadata = append(d.shader.Metadata, pending...)
		return nil
	}

	switch p := d.shader.Params[len(d.shader.Params)-1].(type) {
	case *NormalParam:
		p.Metadata = pending
	case *TextureParam:
		if len(pending) > 0 {
			return errors.MetadataTarget(d.r.Position(), p.Name)
		}
	}
	return nil
}

// fail wraps a reader-level error as a truncation failure unless it is
// already a structured decode error.
func (d *decoder) fail(op Opcode, err error) error {
	var decodeErr *errors.Error
	if stderrors.As(err, &decodeErr) {
		return err
	}
	return errors.Truncated(op.String(), d.r.Position(), err)
}
