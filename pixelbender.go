package pixelbender

import "github.com/wippyai/pixelbender/pbj"

// TextureHandle is an opaque identifier for an image resource owned by the
// execution backend. The decoder never inspects it, dereferences it, or
// manages its lifetime; it only carries it through to the backend.
type TextureHandle any

// ShaderArgument is a runtime value bound to a declared shader parameter
// before execution. The execution backend resolves arguments against the
// parameters of a decoded pbj.Shader.
type ShaderArgument interface {
	isShaderArgument()
}

// ImageInput binds a texture to a texture parameter by sampler index.
type ImageInput struct {
	Texture  TextureHandle
	Name     string
	Index    uint8
	Channels uint8
}

// ValueInput binds a literal value to a normal parameter by register index.
type ValueInput struct {
	Value pbj.Value
	Index uint8
}

func (ImageInput) isShaderArgument() {}
func (ValueInput) isShaderArgument() {}
