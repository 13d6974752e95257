package shader

import (
	"embed"
	"strings"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

//go:embed assets/*.wgsl
var assets embed.FS

// shader is the implementation of the Shader interface.
// It holds the expanded source of one resolved material variant and the module descriptor built from it.
type shader struct {
	key          string
	source       string
	defines      []string
	declarations []Annotation
	module       *wgpu.ShaderModuleDescriptor
}

// Shader is the expanded, contract-checked WGSL program of one resolved material variant.
type Shader interface {
	// Key retrieves the shader template key of the variant's kind.
	//
	// Returns:
	//   - string: the shader's key
	Key() string

	// Source retrieves the expanded WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// Defines returns the defines the template was expanded with, sorted.
	//
	// Returns:
	//   - []string: the active defines
	Defines() []string

	// Module returns the wgpu.ShaderModuleDescriptor built from the expanded source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// VertexEntryPoint returns the name of the @vertex function.
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	FragmentEntryPoint() string

	// Declarations returns the uniform declarations generated from group annotations, in source order.
	//
	// Returns:
	//   - []Annotation: the group annotations of the template
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader loads the template of a resolved variant, expands it with the variant's vertex
// layout and defines, and checks the result against the variant's schemas.
//
// Parameters:
//   - resolved: the resolved material variant
//
// Returns:
//   - Shader: the expanded shader
//   - error: an error if the template is missing or malformed, or a *ContractError if the
//     expanded program disagrees with the resolved layout or schemas
func NewShader(resolved material.ResolvedVariant) (Shader, error) {
	template, err := Template(resolved.ShaderKey)
	if err != nil {
		return nil, err
	}
	return NewShaderFromSource(resolved.ShaderKey, template, resolved.VertexLayout, resolved.Schemas, resolved.ShaderDefs...)
}

// NewShaderFromSource expands an arbitrary template and checks it against the given layout and
// schemas. NewShader uses it with the embedded template of a kind.
//
// Parameters:
//   - key: the shader key used as module label and in errors
//   - template: the annotated WGSL template
//   - vertex: the vertex layout injected by include vertex
//   - schemas: the bind group schemas the program must declare
//   - defines: the active defines
//
// Returns:
//   - Shader: the expanded shader
//   - error: a preprocessing error or a *ContractError
func NewShaderFromSource(key, template string, vertex material.VertexLayout, schemas []bind_group_schema.Schema, defines ...string) (Shader, error) {
	pp := NewPreProcessor(vertex, defines...)
	source, err := pp.Process(template)
	if err != nil {
		return nil, errors.Wrapf(err, "shader %s", key)
	}
	if err := CheckContract(key, source, vertex, schemas); err != nil {
		return nil, err
	}

	return &shader{
		key:          key,
		source:       source,
		defines:      pp.Defines(),
		declarations: append([]Annotation(nil), pp.Declarations()...),
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}, nil
}

// Template returns the embedded WGSL template of a shader key.
//
// Parameters:
//   - key: the shader key, a material kind name
//
// Returns:
//   - string: the template source
//   - error: an error if no template exists for the key
func Template(key string) (string, error) {
	data, err := assets.ReadFile("assets/" + strings.ReplaceAll(key, "-", "_") + ".wgsl")
	if err != nil {
		return "", errors.Wrapf(err, "shader template %q", key)
	}
	return string(data), nil
}

// Validate compiles WGSL source with naga and reports whether it is well formed.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - error: the compiler error, nil if the source compiles
func Validate(source string) error {
	if _, err := naga.Compile(source); err != nil {
		return errors.Wrap(err, "wgsl validation")
	}
	return nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Defines() []string {
	return s.defines
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) VertexEntryPoint() string {
	return VertexEntryPoint
}

func (s *shader) FragmentEntryPoint() string {
	return FragmentEntryPoint
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}
