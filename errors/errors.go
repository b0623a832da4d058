package errors

import (
	"fmt"
	"strings"
)

// Kind categorizes a decode failure.
type Kind string

const (
	KindTruncated        Kind = "truncated"         // buffer exhausted mid-field
	KindReservedField    Kind = "reserved_field"    // a must-be-zero field is nonzero
	KindUnknownOpcode    Kind = "unknown_opcode"    // opcode byte outside the known table
	KindUnknownType      Kind = "unknown_type"      // type tag byte outside the known table
	KindUnsupported      Kind = "unsupported"       // valid per the format, not representable in the IR
	KindMetadataTarget   Kind = "metadata_target"   // metadata flushed onto a texture parameter
	KindInvalidUTF8      Kind = "invalid_utf8"      // program name is not valid UTF-8
	KindInvalidQualifier Kind = "invalid_qualifier" // parameter qualifier outside Input/Output
)

// Error is the structured error type returned for any decode failure.
// Offset is the byte position in the input at which the failure was
// detected; Opcode names the instruction being decoded, when known.
type Error struct {
	Cause  error
	Value  any
	Kind   Kind
	Opcode string
	Detail string
	Offset int
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("pbj: ")
	b.WriteString(string(e.Kind))

	if e.Opcode != "" {
		b.WriteString(" in ")
		b.WriteString(e.Opcode)
	}

	fmt.Fprintf(&b, " at offset %d", e.Offset)

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two Errors match when
// their kinds are equal, so callers can test for a failure category with
// errors.Is(err, &Error{Kind: KindTruncated}).
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Constructors for the failure categories produced by the decoder.

// Truncated reports that the input ended before a field was complete.
func Truncated(opcode string, offset int, cause error) *Error {
	return &Error{
		Kind:   KindTruncated,
		Opcode: opcode,
		Offset: offset,
		Cause:  cause,
	}
}

// ReservedField reports a nonzero value in a must-be-zero field.
func ReservedField(opcode string, offset int, value any) *Error {
	return &Error{
		Kind:   KindReservedField,
		Opcode: opcode,
		Offset: offset,
		Detail: fmt.Sprintf("reserved field must be zero, got %#v", value),
		Value:  value,
	}
}

// UnknownOpcode reports an opcode byte outside the known table.
func UnknownOpcode(offset int, raw byte) *Error {
	return &Error{
		Kind:   KindUnknownOpcode,
		Offset: offset,
		Detail: fmt.Sprintf("opcode byte 0x%02x", raw),
		Value:  raw,
	}
}

// UnknownType reports a type tag byte outside the known table.
func UnknownType(opcode string, offset int, raw byte) *Error {
	return &Error{
		Kind:   KindUnknownType,
		Opcode: opcode,
		Offset: offset,
		Detail: fmt.Sprintf("type tag byte 0x%02x", raw),
		Value:  raw,
	}
}

// Unsupported reports a construct that is syntactically valid but not
// representable by this decoder's IR.
func Unsupported(opcode string, offset int, what string) *Error {
	return &Error{
		Kind:   KindUnsupported,
		Opcode: opcode,
		Offset: offset,
		Detail: what,
	}
}

// MetadataTarget reports pending metadata flushed onto a parameter that
// has no metadata slot.
func MetadataTarget(offset int, param string) *Error {
	return &Error{
		Kind:   KindMetadataTarget,
		Offset: offset,
		Detail: fmt.Sprintf("metadata cannot attach to texture parameter %q", param),
	}
}

// InvalidUTF8 reports a program name that is not valid UTF-8.
func InvalidUTF8(opcode string, offset int, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Kind:   KindInvalidUTF8,
		Opcode: opcode,
		Offset: offset,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidQualifier reports a parameter qualifier byte outside Input/Output.
func InvalidQualifier(opcode string, offset int, raw byte) *Error {
	return &Error{
		Kind:   KindInvalidQualifier,
		Opcode: opcode,
		Offset: offset,
		Detail: fmt.Sprintf("qualifier byte 0x%02x", raw),
		Value:  raw,
	}
}
