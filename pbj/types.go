package pbj

// Shader is a fully decoded Pixel Bender program. It is built once by
// ParseShader and never mutated afterwards, so it may be shared
// read-only across goroutines.
type Shader struct {
	Name       string
	Params     []Param
	Metadata   []MetadataEntry // entries seen before the first parameter
	Operations []Operation
	Version    int32
}

// Register is a typed operand slot referenced by numeric index. Channels
// lists the selected vector channels: for destinations in fixed R,G,B,A
// order, for sources in swizzle extraction order.
type Register struct {
	Channels []Channel
	Index    uint16
	Kind     RegisterKind
}

// MetadataEntry is a single key/value pair attached to a parameter or to
// the program header.
type MetadataEntry struct {
	Value Value
	Key   string
}

// Param is a declared shader parameter: either a *NormalParam or a
// *TextureParam.
type Param interface {
	isParam()
}

// NormalParam is a value parameter backed by a register.
type NormalParam struct {
	Name      string
	Metadata  []MetadataEntry
	Reg       Register
	Type      TypeTag
	Qualifier Qualifier
}

// TextureParam is a texture parameter bound by the execution backend.
// Texture parameters carry no metadata.
type TextureParam struct {
	Name     string
	Index    uint8
	Channels uint8
}

func (*NormalParam) isParam()  {}
func (*TextureParam) isParam() {}

// Value is a decoded literal whose dynamic type matches its TypeTag:
// FloatValue through Float4x4Value for the float family, IntValue
// through Int4Value for the int family, or StringValue.
type Value interface {
	isValue()
}

// Float family. Matrices are stored row-major as they appear on the wire.
type (
	FloatValue    float32
	Float2Value   [2]float32
	Float3Value   [3]float32
	Float4Value   [4]float32
	Float2x2Value [4]float32
	Float3x3Value [9]float32
	Float4x4Value [16]float32
)

// Int family.
type (
	IntValue  int16
	Int2Value [2]int16
	Int3Value [3]int16
	Int4Value [4]int16
)

// StringValue is a string literal.
type StringValue string

func (FloatValue) isValue()    {}
func (Float2Value) isValue()   {}
func (Float3Value) isValue()   {}
func (Float4Value) isValue()   {}
func (Float2x2Value) isValue() {}
func (Float3x3Value) isValue() {}
func (Float4x4Value) isValue() {}
func (IntValue) isValue()      {}
func (Int2Value) isValue()     {}
func (Int3Value) isValue()     {}
func (Int4Value) isValue()     {}
func (StringValue) isValue()   {}

// Tag returns the TypeTag matching the value's shape.
func (v FloatValue) Tag() TypeTag    { return TypeFloat }
func (v Float2Value) Tag() TypeTag   { return TypeFloat2 }
func (v Float3Value) Tag() TypeTag   { return TypeFloat3 }
func (v Float4Value) Tag() TypeTag   { return TypeFloat4 }
func (v Float2x2Value) Tag() TypeTag { return TypeFloat2x2 }
func (v Float3x3Value) Tag() TypeTag { return TypeFloat3x3 }
func (v Float4x4Value) Tag() TypeTag { return TypeFloat4x4 }
func (v IntValue) Tag() TypeTag      { return TypeInt }
func (v Int2Value) Tag() TypeTag     { return TypeInt2 }
func (v Int3Value) Tag() TypeTag     { return TypeInt3 }
func (v Int4Value) Tag() TypeTag     { return TypeInt4 }
func (v StringValue) Tag() TypeTag   { return TypeString }

// Operation is a single entry in the program's operation list.
type Operation interface {
	isOperation()
}

// NopOp does nothing.
type NopOp struct{}

// NormalOp is a generic arithmetic, logic, or transcendental instruction.
type NormalOp struct {
	Dst    Register
	Src    Register
	Opcode Opcode
}

// LoadIntOp loads an integer literal into a register.
type LoadIntOp struct {
	Dst   Register
	Value int32
}

// LoadFloatOp loads a float literal into a register.
type LoadFloatOp struct {
	Dst   Register
	Value float32
}

// IfOp begins a conditional block guarded by a source register.
type IfOp struct {
	Src Register
}

// ElseOp marks the alternative branch of the innermost conditional.
type ElseOp struct{}

// EndIfOp closes the innermost conditional block.
type EndIfOp struct{}

// SampleNearestOp samples a texture with nearest-neighbor filtering.
// Sampler selects the texture-filtering unit and is interpreted by the
// execution backend.
type SampleNearestOp struct {
	Dst     Register
	Src     Register
	Sampler uint8
}

// SampleLinearOp samples a texture with linear filtering.
type SampleLinearOp struct {
	Dst     Register
	Src     Register
	Sampler uint8
}

func (NopOp) isOperation()           {}
func (NormalOp) isOperation()        {}
func (LoadIntOp) isOperation()       {}
func (LoadFloatOp) isOperation()     {}
func (IfOp) isOperation()            {}
func (ElseOp) isOperation()          {}
func (EndIfOp) isOperation()         {}
func (SampleNearestOp) isOperation() {}
func (SampleLinearOp) isOperation()  {}
