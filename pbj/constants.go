package pbj

// OutCoordName is the name of the special parameter that the execution
// backend fills with the coordinates of the pixel being processed.
const OutCoordName = "_OutCoord"

// Opcode identifies a single bytecode instruction.
type Opcode byte

// Arithmetic, logic, and transcendental opcodes all share the generic
// operand grammar: destination word, mask byte, source word, reserved
// trailing byte.
const (
	OpNop            Opcode = 0x00
	OpAdd            Opcode = 0x01
	OpSub            Opcode = 0x02
	OpMul            Opcode = 0x03
	OpRcp            Opcode = 0x04
	OpDiv            Opcode = 0x05
	OpAtan2          Opcode = 0x06
	OpPow            Opcode = 0x07
	OpMod            Opcode = 0x08
	OpMin            Opcode = 0x09
	OpMax            Opcode = 0x0A
	OpStep           Opcode = 0x0B
	OpSin            Opcode = 0x0C
	OpCos            Opcode = 0x0D
	OpTan            Opcode = 0x0E
	OpAsin           Opcode = 0x0F
	OpAcos           Opcode = 0x10
	OpAtan           Opcode = 0x11
	OpExp            Opcode = 0x12
	OpExp2           Opcode = 0x13
	OpLog            Opcode = 0x14
	OpLog2           Opcode = 0x15
	OpSqrt           Opcode = 0x16
	OpRSqrt          Opcode = 0x17
	OpAbs            Opcode = 0x18
	OpSign           Opcode = 0x19
	OpFloor          Opcode = 0x1A
	OpCeil           Opcode = 0x1B
	OpFract          Opcode = 0x1C
	OpMov            Opcode = 0x1D
	OpFloatToInt     Opcode = 0x1E
	OpIntToFloat     Opcode = 0x1F
	OpMatMatMul      Opcode = 0x20
	OpVecMatMul      Opcode = 0x21
	OpMatVecMul      Opcode = 0x22
	OpNormalize      Opcode = 0x23
	OpLength         Opcode = 0x24
	OpDistance       Opcode = 0x25
	OpDotProduct     Opcode = 0x26
	OpCrossProduct   Opcode = 0x27
	OpEqual          Opcode = 0x28
	OpNotEqual       Opcode = 0x29
	OpLessThan       Opcode = 0x2A
	OpLessThanEqual  Opcode = 0x2B
	OpLogicalNot     Opcode = 0x2C
	OpLogicalAnd     Opcode = 0x2D
	OpLogicalOr      Opcode = 0x2E
	OpLogicalXor     Opcode = 0x2F
	OpSampleNearest  Opcode = 0x30
	OpSampleLinear   Opcode = 0x31
	OpLoadIntOrFloat Opcode = 0x32
	OpLoop           Opcode = 0x33
	OpIf             Opcode = 0x34
	OpElse           Opcode = 0x35
	OpEndIf          Opcode = 0x36
	OpFloatToBool    Opcode = 0x37
	OpBoolToFloat    Opcode = 0x38
	OpIntToBool      Opcode = 0x39
	OpBoolToInt      Opcode = 0x3A
	OpVectorEqual    Opcode = 0x3B
	OpVectorNotEqual Opcode = 0x3C
	OpBoolAny        Opcode = 0x3D
	OpBoolAll        Opcode = 0x3E
)

// Header and declaration opcodes occupy a separate range above the
// instruction set.
const (
	OpMeta1        Opcode = 0xA0 // metadata entry (first variant)
	OpParam        Opcode = 0xA1 // normal parameter declaration
	OpMeta2        Opcode = 0xA2 // metadata entry (second variant)
	OpParamTexture Opcode = 0xA3 // texture parameter declaration
	OpName         Opcode = 0xA4 // program name (header field)
	OpVersion      Opcode = 0xA5 // program version (header field)
)

var opcodeNames = map[Opcode]string{
	OpNop:            "nop",
	OpAdd:            "add",
	OpSub:            "sub",
	OpMul:            "mul",
	OpRcp:            "rcp",
	OpDiv:            "div",
	OpAtan2:          "atan2",
	OpPow:            "pow",
	OpMod:            "mod",
	OpMin:            "min",
	OpMax:            "max",
	OpStep:           "step",
	OpSin:            "sin",
	OpCos:            "cos",
	OpTan:            "tan",
	OpAsin:           "asin",
	OpAcos:           "acos",
	OpAtan:           "atan",
	OpExp:            "exp",
	OpExp2:           "exp2",
	OpLog:            "log",
	OpLog2:           "log2",
	OpSqrt:           "sqrt",
	OpRSqrt:          "rsqrt",
	OpAbs:            "abs",
	OpSign:           "sign",
	OpFloor:          "floor",
	OpCeil:           "ceil",
	OpFract:          "fract",
	OpMov:            "mov",
	OpFloatToInt:     "float_to_int",
	OpIntToFloat:     "int_to_float",
	OpMatMatMul:      "mat_mat_mul",
	OpVecMatMul:      "vec_mat_mul",
	OpMatVecMul:      "mat_vec_mul",
	OpNormalize:      "normalize",
	OpLength:         "length",
	OpDistance:       "distance",
	OpDotProduct:     "dot",
	OpCrossProduct:   "cross",
	OpEqual:          "eq",
	OpNotEqual:       "ne",
	OpLessThan:       "lt",
	OpLessThanEqual:  "le",
	OpLogicalNot:     "not",
	OpLogicalAnd:     "and",
	OpLogicalOr:      "or",
	OpLogicalXor:     "xor",
	OpSampleNearest:  "sample_nearest",
	OpSampleLinear:   "sample_linear",
	OpLoadIntOrFloat: "load",
	OpLoop:           "loop",
	OpIf:             "if",
	OpElse:           "else",
	OpEndIf:          "end_if",
	OpFloatToBool:    "float_to_bool",
	OpBoolToFloat:    "bool_to_float",
	OpIntToBool:      "int_to_bool",
	OpBoolToInt:      "bool_to_int",
	OpVectorEqual:    "vec_eq",
	OpVectorNotEqual: "vec_ne",
	OpBoolAny:        "any",
	OpBoolAll:        "all",
	OpMeta1:          "meta",
	OpParam:          "param",
	OpMeta2:          "meta2",
	OpParamTexture:   "param_texture",
	OpName:           "name",
	OpVersion:        "version",
}

// String returns the opcode mnemonic.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "opcode(0x" + hexByte(byte(op)) + ")"
}

func (op Opcode) valid() bool {
	_, ok := opcodeNames[op]
	return ok
}

const hexDigits = "0123456789abcdef"

func hexByte(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0xF]})
}

// TypeTag identifies the shape of a literal value.
type TypeTag byte

const (
	TypeFloat    TypeTag = 0x1
	TypeFloat2   TypeTag = 0x2
	TypeFloat3   TypeTag = 0x3
	TypeFloat4   TypeTag = 0x4
	TypeFloat2x2 TypeTag = 0x5
	TypeFloat3x3 TypeTag = 0x6
	TypeFloat4x4 TypeTag = 0x7
	TypeInt      TypeTag = 0x8
	TypeInt2     TypeTag = 0x9
	TypeInt3     TypeTag = 0xA
	TypeInt4     TypeTag = 0xB
	TypeString   TypeTag = 0xC
)

var typeTagNames = map[TypeTag]string{
	TypeFloat:    "float",
	TypeFloat2:   "float2",
	TypeFloat3:   "float3",
	TypeFloat4:   "float4",
	TypeFloat2x2: "matrix2x2",
	TypeFloat3x3: "matrix3x3",
	TypeFloat4x4: "matrix4x4",
	TypeInt:      "int",
	TypeInt2:     "int2",
	TypeInt3:     "int3",
	TypeInt4:     "int4",
	TypeString:   "string",
}

// String returns the source-language spelling of the type.
func (t TypeTag) String() string {
	if name, ok := typeTagNames[t]; ok {
		return name
	}
	return "type(0x" + hexByte(byte(t)) + ")"
}

// IsMatrix reports whether the tag is one of the matrix types.
func (t TypeTag) IsMatrix() bool {
	return t == TypeFloat2x2 || t == TypeFloat3x3 || t == TypeFloat4x4
}

func (t TypeTag) valid() bool {
	return t >= TypeFloat && t <= TypeString
}

// Qualifier declares whether a parameter is a shader input or output.
type Qualifier uint8

const (
	QualifierInput  Qualifier = 1
	QualifierOutput Qualifier = 2
)

// String returns the qualifier keyword.
func (q Qualifier) String() string {
	switch q {
	case QualifierInput:
		return "input"
	case QualifierOutput:
		return "output"
	}
	return "qualifier(0x" + hexByte(byte(q)) + ")"
}

func (q Qualifier) valid() bool {
	return q == QualifierInput || q == QualifierOutput
}

// Channel identifies one of the four vector channels of a register.
type Channel uint8

const (
	ChannelR Channel = 0
	ChannelG Channel = 1
	ChannelB Channel = 2
	ChannelA Channel = 3
)

// rgbaChannels maps 2-bit swizzle codes to channels.
var rgbaChannels = [4]Channel{ChannelR, ChannelG, ChannelB, ChannelA}

// String returns the channel letter.
func (c Channel) String() string {
	switch c {
	case ChannelR:
		return "r"
	case ChannelG:
		return "g"
	case ChannelB:
		return "b"
	case ChannelA:
		return "a"
	}
	return "?"
}

// RegisterKind distinguishes float from int registers.
type RegisterKind uint8

const (
	RegisterFloat RegisterKind = 0
	RegisterInt   RegisterKind = 1
)

// String returns the register kind name.
func (k RegisterKind) String() string {
	if k == RegisterInt {
		return "int"
	}
	return "float"
}
