// Package pixelbender decodes legacy Pixel Bender shader bytecode into a
// typed program representation.
//
// # Architecture Overview
//
// The module is organized into a small set of packages:
//
//	pixelbender/         Root package with the backend-facing argument types
//	├── pbj/             Bytecode (.pbj) parsing into the Shader IR
//	├── errors/          Structured decode error types
//	└── cmd/pbjdump/     CLI for decoding and printing .pbj files
//
// # Quick Start
//
// Decode a shader:
//
//	shader, err := pbj.ParseShader(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range shader.Params {
//	    fmt.Printf("%+v\n", p)
//	}
//
// The decoder is the format front end only. Executing the decoded
// operations, binding ImageInput textures, and resolving registers
// against runtime storage are the execution backend's concern; this
// module treats texture handles as opaque values it never inspects.
package pixelbender
