// Package errors provides the structured error type returned by the
// Pixel Bender bytecode decoder.
//
// Every decode failure is an *Error carrying a Kind (what category of
// failure), the byte offset at which it was detected, and the opcode
// being decoded when one was in progress. Kinds support errors.Is
// matching:
//
//	_, err := pbj.ParseShader(data)
//	if errors.Is(err, &pbjerrors.Error{Kind: pbjerrors.KindTruncated}) {
//	    // input ended mid-field
//	}
//
// Decoding malformed or adversarial input must always produce one of
// these errors, never a panic.
package errors
