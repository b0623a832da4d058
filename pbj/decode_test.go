package pbj_test

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/wippyai/pixelbender/errors"
	"github.com/wippyai/pixelbender/pbj"
)

// Buffer builders. Integers are little-endian on the wire, floats
// big-endian.

func le16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }

func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func le24(v uint32) []byte { return []byte{byte(v), byte(v >> 8), byte(v >> 16)} }

func bef32(f float32) []byte {
	bits := math.Float32bits(f)
	return []byte{byte(bits >> 24), byte(bits >> 16), byte(bits >> 8), byte(bits)}
}

func cstr(s string) []byte { return append([]byte(s), 0) }

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func opVersion(v int32) []byte { return cat([]byte{0xA5}, le32(uint32(v))) }

func opName(s string) []byte {
	return cat([]byte{0xA4}, le16(uint16(len(s))), []byte(s))
}

func opNop() []byte { return cat([]byte{0x00}, le32(0), le16(0)) }

func opParam(qualifier, tag byte, word uint16, mask byte, name string) []byte {
	return cat([]byte{0xA1, qualifier, tag}, le16(word), []byte{mask}, cstr(name))
}

func opParamTexture(index, channels byte, name string) []byte {
	return cat([]byte{0xA3, index, channels}, cstr(name))
}

func opMetaFloat(key string, v float32) []byte {
	return cat([]byte{0xA0, 0x01}, cstr(key), bef32(v))
}

func opMetaString(key, v string) []byte {
	return cat([]byte{0xA2, 0x0C}, cstr(key), cstr(v))
}

func wantKind(t *testing.T, err error, kind errors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if !stderrors.Is(err, &errors.Error{Kind: kind}) {
		t.Fatalf("got %v, want kind %s", err, kind)
	}
}

var shaderDiffOpts = []cmp.Option{cmpopts.EquateEmpty()}

func TestParseShaderEndToEnd(t *testing.T) {
	data := cat(
		opVersion(1),
		opName("Test"),
		opParam(0x01, 0x01, 0x0000, 0x0F, "x"),
		opNop(),
	)

	shader, err := pbj.ParseShader(data)
	if err != nil {
		t.Fatalf("ParseShader: %v", err)
	}

	want := &pbj.Shader{
		Name:    "Test",
		Version: 1,
		Params: []pbj.Param{
			&pbj.NormalParam{
				Qualifier: pbj.QualifierInput,
				Type:      pbj.TypeFloat,
				Reg: pbj.Register{
					Index: 0,
					Kind:  pbj.RegisterFloat,
					Channels: []pbj.Channel{
						pbj.ChannelR, pbj.ChannelG, pbj.ChannelB, pbj.ChannelA,
					},
				},
				Name: "x",
			},
		},
		Operations: []pbj.Operation{pbj.NopOp{}},
	}

	if diff := cmp.Diff(want, shader, shaderDiffOpts...); diff != "" {
		t.Errorf("shader mismatch (-want +got):\n%s", diff)
	}
}

func TestParseShaderDeterministic(t *testing.T) {
	data := cat(
		opVersion(2),
		opName("Twice"),
		opMetaFloat("scale", 0.5),
		opParam(0x02, 0x04, 0x0001, 0x0F, "dst"),
		opMetaString("description", "output color"),
		opNop(),
	)

	first, err := pbj.ParseShader(data)
	if err != nil {
		t.Fatalf("first decode: %v", err)
	}
	second, err := pbj.ParseShader(data)
	if err != nil {
		t.Fatalf("second decode: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("decodes differ:\n%s", diff)
	}
}

func TestMetadataAssociation(t *testing.T) {
	data := cat(
		opMetaFloat("k1", 1),
		opMetaFloat("k2", 2),
		opParam(0x01, 0x01, 0x0000, 0x08, "p1"),
		opMetaFloat("k3", 3),
		opParam(0x01, 0x01, 0x0001, 0x08, "p2"),
	)

	shader, err := pbj.ParseShader(data)
	if err != nil {
		t.Fatalf("ParseShader: %v", err)
	}

	wantProgram := []pbj.MetadataEntry{
		{Key: "k1", Value: pbj.FloatValue(1)},
		{Key: "k2", Value: pbj.FloatValue(2)},
	}
	if diff := cmp.Diff(wantProgram, shader.Metadata); diff != "" {
		t.Errorf("program metadata mismatch:\n%s", diff)
	}

	if len(shader.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(shader.Params))
	}
	p1 := shader.Params[0].(*pbj.NormalParam)
	p2 := shader.Params[1].(*pbj.NormalParam)

	wantP1 := []pbj.MetadataEntry{{Key: "k3", Value: pbj.FloatValue(3)}}
	if diff := cmp.Diff(wantP1, p1.Metadata); diff != "" {
		t.Errorf("p1 metadata mismatch:\n%s", diff)
	}
	if len(p2.Metadata) != 0 {
		t.Errorf("p2 metadata: got %v, want empty", p2.Metadata)
	}
}

func TestTrailingMetadataFlushesToLastParam(t *testing.T) {
	data := cat(
		opParam(0x01, 0x01, 0x0000, 0x08, "p1"),
		opMetaString("defaultValue", "1.0"),
	)

	shader, err := pbj.ParseShader(data)
	if err != nil {
		t.Fatalf("ParseShader: %v", err)
	}

	p1 := shader.Params[0].(*pbj.NormalParam)
	if len(p1.Metadata) != 1 || p1.Metadata[0].Key != "defaultValue" {
		t.Errorf("trailing metadata not attached to last param: %v", p1.Metadata)
	}
}

func TestMetadataOnTextureParamRejected(t *testing.T) {
	data := cat(
		opParamTexture(0, 4, "src"),
		opMetaFloat("k", 1),
	)
	_, err := pbj.ParseShader(data)
	wantKind(t, err, errors.KindMetadataTarget)
}

func TestTextureParamWithoutMetadata(t *testing.T) {
	data := cat(
		opMetaFloat("namespace", 1),
		opParamTexture(2, 3, "src"),
	)

	shader, err := pbj.ParseShader(data)
	if err != nil {
		t.Fatalf("ParseShader: %v", err)
	}

	// The metadata precedes the first parameter, so it belongs to the
	// program.
	if len(shader.Metadata) != 1 {
		t.Errorf("program metadata: got %v", shader.Metadata)
	}
	tex := shader.Params[0].(*pbj.TextureParam)
	want := &pbj.TextureParam{Index: 2, Channels: 3, Name: "src"}
	if diff := cmp.Diff(want, tex); diff != "" {
		t.Errorf("texture param mismatch:\n%s", diff)
	}
}

func TestNopReservedFieldRejected(t *testing.T) {
	data := cat([]byte{0x00}, le32(1), le16(0))
	_, err := pbj.ParseShader(data)
	wantKind(t, err, errors.KindReservedField)

	data = cat([]byte{0x00}, le32(0), le16(7))
	_, err = pbj.ParseShader(data)
	wantKind(t, err, errors.KindReservedField)
}

func TestParamMatrixTypeRejected(t *testing.T) {
	for _, tag := range []byte{0x05, 0x06, 0x07} {
		_, err := pbj.ParseShader(opParam(0x01, tag, 0x0000, 0x0F, "m"))
		wantKind(t, err, errors.KindUnsupported)
	}
}

func TestParamInvalidQualifierRejected(t *testing.T) {
	_, err := pbj.ParseShader(opParam(0x03, 0x01, 0x0000, 0x0F, "x"))
	wantKind(t, err, errors.KindInvalidQualifier)
}

func TestParamUnknownTypeTagRejected(t *testing.T) {
	_, err := pbj.ParseShader(opParam(0x01, 0x0D, 0x0000, 0x0F, "x"))
	wantKind(t, err, errors.KindUnknownType)
}

func TestMetaUnknownTypeTagRejected(t *testing.T) {
	data := cat([]byte{0xA0, 0xFF}, cstr("k"))
	_, err := pbj.ParseShader(data)
	wantKind(t, err, errors.KindUnknownType)
}

func TestUnknownOpcodeRejected(t *testing.T) {
	for _, raw := range []byte{0x3F, 0x9F, 0xA6, 0xFF} {
		_, err := pbj.ParseShader([]byte{raw})
		wantKind(t, err, errors.KindUnknownOpcode)
	}
}

func TestLoadFloat(t *testing.T) {
	data := cat([]byte{0x32}, le16(0x0002), []byte{0x80}, bef32(2.5))

	shader, err := pbj.ParseShader(data)
	if err != nil {
		t.Fatalf("ParseShader: %v", err)
	}

	want := pbj.LoadFloatOp{
		Dst:   pbj.Register{Index: 2, Kind: pbj.RegisterFloat, Channels: []pbj.Channel{pbj.ChannelR}},
		Value: 2.5,
	}
	if diff := cmp.Diff(pbj.Operation(want), shader.Operations[0]); diff != "" {
		t.Errorf("operation mismatch:\n%s", diff)
	}
}

func TestLoadInt(t *testing.T) {
	data := cat([]byte{0x32}, le16(0x8002), []byte{0xF0}, le32(uint32(0xFFFFFFFE)))

	shader, err := pbj.ParseShader(data)
	if err != nil {
		t.Fatalf("ParseShader: %v", err)
	}

	op, ok := shader.Operations[0].(pbj.LoadIntOp)
	if !ok {
		t.Fatalf("got %T, want LoadIntOp", shader.Operations[0])
	}
	if op.Value != -2 {
		t.Errorf("value: got %d, want -2", op.Value)
	}
	if op.Dst.Kind != pbj.RegisterInt || op.Dst.Index != 2 {
		t.Errorf("dst: got %+v", op.Dst)
	}
}

func TestLoadReservedMaskBitsRejected(t *testing.T) {
	data := cat([]byte{0x32}, le16(0x0000), []byte{0x81}, bef32(1))
	_, err := pbj.ParseShader(data)
	wantKind(t, err, errors.KindReservedField)
}

func TestSampleInstructions(t *testing.T) {
	// swizzle byte 0x1B: first two codes select R then G
	src := uint32(0x1B)<<16 | 0x0004

	tests := []struct {
		name   string
		opcode byte
	}{
		{"nearest", 0x30},
		{"linear", 0x31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := cat([]byte{tt.opcode}, le16(0x0001), []byte{0xF0}, le24(src), []byte{0x05})

			shader, err := pbj.ParseShader(data)
			if err != nil {
				t.Fatalf("ParseShader: %v", err)
			}

			wantDst := pbj.Register{
				Index: 1,
				Kind:  pbj.RegisterFloat,
				Channels: []pbj.Channel{
					pbj.ChannelR, pbj.ChannelG, pbj.ChannelB, pbj.ChannelA,
				},
			}
			wantSrc := pbj.Register{
				Index:    4,
				Kind:     pbj.RegisterFloat,
				Channels: []pbj.Channel{pbj.ChannelR, pbj.ChannelG},
			}

			var dst, srcReg pbj.Register
			var sampler uint8
			switch op := shader.Operations[0].(type) {
			case pbj.SampleNearestOp:
				if tt.opcode != 0x30 {
					t.Fatalf("got SampleNearestOp for opcode 0x%02x", tt.opcode)
				}
				dst, srcReg, sampler = op.Dst, op.Src, op.Sampler
			case pbj.SampleLinearOp:
				if tt.opcode != 0x31 {
					t.Fatalf("got SampleLinearOp for opcode 0x%02x", tt.opcode)
				}
				dst, srcReg, sampler = op.Dst, op.Src, op.Sampler
			default:
				t.Fatalf("got %T", shader.Operations[0])
			}

			if diff := cmp.Diff(wantDst, dst); diff != "" {
				t.Errorf("dst mismatch:\n%s", diff)
			}
			if diff := cmp.Diff(wantSrc, srcReg); diff != "" {
				t.Errorf("src mismatch:\n%s", diff)
			}
			if sampler != 5 {
				t.Errorf("sampler: got %d, want 5", sampler)
			}
		})
	}
}

func TestIfElseEndIf(t *testing.T) {
	data := cat(
		[]byte{0x34}, le24(0), le24(0x0003), []byte{0x00},
		[]byte{0x35}, le32(0), le24(0),
		[]byte{0x36}, le32(0), le24(0),
	)

	shader, err := pbj.ParseShader(data)
	if err != nil {
		t.Fatalf("ParseShader: %v", err)
	}

	want := []pbj.Operation{
		pbj.IfOp{Src: pbj.Register{Index: 3, Kind: pbj.RegisterFloat, Channels: []pbj.Channel{pbj.ChannelR}}},
		pbj.ElseOp{},
		pbj.EndIfOp{},
	}
	if diff := cmp.Diff(want, shader.Operations); diff != "" {
		t.Errorf("operations mismatch:\n%s", diff)
	}
}

func TestIfReservedFieldsRejected(t *testing.T) {
	// nonzero leading 24-bit field
	data := cat([]byte{0x34}, le24(1), le24(0), []byte{0x00})
	_, err := pbj.ParseShader(data)
	wantKind(t, err, errors.KindReservedField)

	// nonzero trailing byte
	data = cat([]byte{0x34}, le24(0), le24(0), []byte{0x01})
	_, err = pbj.ParseShader(data)
	wantKind(t, err, errors.KindReservedField)
}

func TestElseEndIfReservedFieldsRejected(t *testing.T) {
	for _, opcode := range []byte{0x35, 0x36} {
		data := cat([]byte{opcode}, le32(9), le24(0))
		_, err := pbj.ParseShader(data)
		wantKind(t, err, errors.KindReservedField)

		data = cat([]byte{opcode}, le32(0), le24(9))
		_, err = pbj.ParseShader(data)
		wantKind(t, err, errors.KindReservedField)
	}
}

func TestNormalOp(t *testing.T) {
	// add r2.rg, src 4 swizzled; mask: dst rg (0xC) << 4, size bits 01
	src := uint32(0x1B)<<16 | 0x0004
	data := cat([]byte{0x01}, le16(0x0002), []byte{0xC1}, le24(src), []byte{0x00})

	shader, err := pbj.ParseShader(data)
	if err != nil {
		t.Fatalf("ParseShader: %v", err)
	}

	want := pbj.NormalOp{
		Opcode: pbj.OpAdd,
		Dst:    pbj.Register{Index: 2, Kind: pbj.RegisterFloat, Channels: []pbj.Channel{pbj.ChannelR, pbj.ChannelG}},
		Src:    pbj.Register{Index: 4, Kind: pbj.RegisterFloat, Channels: []pbj.Channel{pbj.ChannelR, pbj.ChannelG}},
	}
	if diff := cmp.Diff(pbj.Operation(want), shader.Operations[0]); diff != "" {
		t.Errorf("operation mismatch:\n%s", diff)
	}
}

func TestNormalOpOperandCountFromMask(t *testing.T) {
	// size bits 11 -> 4 operands from the swizzle field
	src := uint32(0xE4) << 16
	data := cat([]byte{0x1D}, le16(0x0000), []byte{0xF3}, le24(src), []byte{0x00})

	shader, err := pbj.ParseShader(data)
	if err != nil {
		t.Fatalf("ParseShader: %v", err)
	}

	op := shader.Operations[0].(pbj.NormalOp)
	if op.Opcode != pbj.OpMov {
		t.Errorf("opcode: got %v, want mov", op.Opcode)
	}
	if len(op.Src.Channels) != 4 {
		t.Errorf("src channels: got %d, want 4", len(op.Src.Channels))
	}
}

func TestNormalOpMatrixFlagRejected(t *testing.T) {
	// matrix bits 01 in the mask
	data := cat([]byte{0x03}, le16(0x0000), []byte{0x04}, le24(0), []byte{0x00})
	_, err := pbj.ParseShader(data)
	wantKind(t, err, errors.KindUnsupported)
}

func TestNormalOpTrailingByteRejected(t *testing.T) {
	data := cat([]byte{0x01}, le16(0x0000), []byte{0x00}, le24(0), []byte{0x42})
	_, err := pbj.ParseShader(data)
	wantKind(t, err, errors.KindReservedField)
}

func TestLoopDecodesAsNormalOp(t *testing.T) {
	data := cat([]byte{0x33}, le16(0x0000), []byte{0x00}, le24(0), []byte{0x00})

	shader, err := pbj.ParseShader(data)
	if err != nil {
		t.Fatalf("ParseShader: %v", err)
	}
	op := shader.Operations[0].(pbj.NormalOp)
	if op.Opcode != pbj.OpLoop {
		t.Errorf("opcode: got %v, want loop", op.Opcode)
	}
}

func TestNameInvalidUTF8Rejected(t *testing.T) {
	data := cat([]byte{0xA4}, le16(2), []byte{0xFF, 0xFE})
	_, err := pbj.ParseShader(data)
	wantKind(t, err, errors.KindInvalidUTF8)
}

func TestTruncatedInputs(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"version cut short", cat([]byte{0xA5}, le16(1))},
		{"name header cut short", []byte{0xA4, 0x04}},
		{"name payload cut short", cat([]byte{0xA4}, le16(4), []byte("Te"))},
		{"param cut mid-name", cat([]byte{0xA1, 0x01, 0x01}, le16(0), []byte{0x0F, 'x'})},
		{"meta cut mid-value", cat([]byte{0xA0, 0x01}, cstr("k"), []byte{0x3F})},
		{"nop cut short", []byte{0x00, 0x00}},
		{"load missing literal", cat([]byte{0x32}, le16(0), []byte{0x00})},
		{"sample missing selector", cat([]byte{0x30}, le16(0), []byte{0x00}, le24(0))},
		{"normal op missing tail", cat([]byte{0x01}, le16(0), []byte{0x00}, le24(0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pbj.ParseShader(tt.data)
			wantKind(t, err, errors.KindTruncated)
		})
	}
}

func TestFailureReturnsNoPartialShader(t *testing.T) {
	data := cat(
		opVersion(1),
		opName("Partial"),
		opNop(),
		[]byte{0xFF}, // unknown opcode after valid prefix
	)
	shader, err := pbj.ParseShader(data)
	if err == nil {
		t.Fatal("expected error")
	}
	if shader != nil {
		t.Errorf("expected nil shader on failure, got %+v", shader)
	}
}

func TestEmptyInput(t *testing.T) {
	shader, err := pbj.ParseShader(nil)
	if err != nil {
		t.Fatalf("ParseShader: %v", err)
	}
	if shader.Name != "" || shader.Version != 0 || len(shader.Params) != 0 || len(shader.Operations) != 0 {
		t.Errorf("expected zero shader, got %+v", shader)
	}
}

func TestErrorReportsOpcodeAndOffset(t *testing.T) {
	data := cat(opNop(), []byte{0x00}, le32(1), le16(0))
	_, err := pbj.ParseShader(data)
	if err == nil {
		t.Fatal("expected error")
	}

	var decodeErr *errors.Error
	if !stderrors.As(err, &decodeErr) {
		t.Fatalf("got %T, want *errors.Error", err)
	}
	if decodeErr.Opcode != "nop" {
		t.Errorf("opcode: got %q, want %q", decodeErr.Opcode, "nop")
	}
	// The second nop starts at offset 7; its reserved u32 at offset 8.
	if decodeErr.Offset != 8 {
		t.Errorf("offset: got %d, want 8", decodeErr.Offset)
	}
}

func BenchmarkParseShader(b *testing.B) {
	data := cat(
		opVersion(1),
		opName("Bench"),
		opMetaString("namespace", "test"),
		opParam(0x01, 0x04, 0x0000, 0x0F, "color"),
		opMetaString("description", "input color"),
		opParamTexture(0, 4, "src"),
	)
	for i := 0; i < 64; i++ {
		data = cat(data,
			[]byte{0x01}, le16(uint16(i)), []byte{0xF3}, le24(uint32(0xE4)<<16), []byte{0x00},
		)
	}
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := pbj.ParseShader(data); err != nil {
			b.Fatal(err)
		}
	}
}
