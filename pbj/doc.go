// Package pbj decodes Pixel Bender bytecode (.pbj) programs.
//
// Pixel Bender is a legacy binary format for programmable image-processing
// shaders embedded in multimedia content. This package is the format front
// end only: it turns an untrusted byte buffer into a typed, immutable
// Shader (name, version, declared parameters, metadata, ordered operation
// list) that an execution or compilation backend consumes separately.
//
// # Decoding
//
//	data, _ := os.ReadFile("kernel.pbj")
//	shader, err := pbj.ParseShader(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(shader.Name, shader.Version)
//
// ParseShader decodes the whole buffer in one pass. Any malformed field
// aborts the decode with a structured *errors.Error naming the failure
// kind, the opcode being decoded, and the byte offset; no partial Shader
// is ever returned, and malformed input never panics.
//
// # Wire format notes
//
// The format mixes endianness by field type: integers are little-endian,
// 32-bit floats are big-endian. Register operands pack an int/float kind
// bit, a 15-bit index, and either a destination channel mask or a source
// swizzle. Metadata entries associate with the parameter declared before
// them; entries before the first parameter describe the program itself.
//
// The decoder is a pure function of its input. It performs no I/O and
// holds no state between calls, so independent buffers may be decoded
// concurrently. The optional package logger (SetLogger) emits Debug-level
// events only.
package pbj
