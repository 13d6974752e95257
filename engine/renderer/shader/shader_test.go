package shader

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSource = `
//@oxy:include ModelUniform
//@oxy:include ViewUniform
//@oxy:group 0 0 model ModelUniform
//@oxy:group 1 0 view ViewUniform

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) uv: vec2<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return view.view_proj * model.model * vec4<f32>(in.position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func sharedSchemas() []bind_group_schema.Schema {
	return []bind_group_schema.Schema{material.ModelSchema(), material.ViewSchema()}
}

func TestNewShaderForEveryVariant(t *testing.T) {
	for _, kind := range material.Kinds() {
		for _, flags := range []material.FeatureSet{nil, material.NewFeatureSet(material.SupportedFlags(kind)...)} {
			resolved, err := material.Resolve(kind, flags)
			require.NoError(t, err)

			s, err := NewShader(resolved)
			require.NoError(t, err, resolved.Variant.String())
			assert.Equal(t, kind.String(), s.Key())
			assert.Equal(t, VertexEntryPoint, s.VertexEntryPoint())
			assert.Equal(t, FragmentEntryPoint, s.FragmentEntryPoint())
			assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)
			assert.NotContains(t, s.Source(), "@oxy")
			require.NoError(t, Validate(s.Source()), resolved.Variant.String())
		}
	}
}

func TestNewShaderColoredDefine(t *testing.T) {
	plain, err := material.Resolve(material.KindColoredTextured, nil)
	require.NoError(t, err)
	colored, err := material.Resolve(material.KindColoredTextured, material.NewFeatureSet(material.FeatureColored))
	require.NoError(t, err)

	a, err := NewShader(plain)
	require.NoError(t, err)
	b, err := NewShader(colored)
	require.NoError(t, err)

	assert.Empty(t, a.Defines())
	assert.Equal(t, []string{material.ShaderDefColored}, b.Defines())
	assert.NotContains(t, a.Source(), "in.color")
	assert.Contains(t, b.Source(), "texel * in.color")
	assert.Contains(t, b.Source(), "@location(2) color: vec4<f32>,")
}

func TestNewShaderMaskedCircleDeclarations(t *testing.T) {
	resolved, err := material.Resolve(material.KindMaskedCircle, nil)
	require.NoError(t, err)
	s, err := NewShader(resolved)
	require.NoError(t, err)

	decls := s.Declarations()
	require.Len(t, decls, 4)
	for i, want := range []int{0, 1, 2, 3} {
		assert.Equal(t, want, *decls[i].Group)
		assert.Equal(t, 0, *decls[i].Binding)
	}
	assert.Equal(t, "radius", decls[2].Args[0])
	assert.Equal(t, "color", decls[3].Args[0])
}

func TestTemplateUnknownKey(t *testing.T) {
	_, err := Template("missing")
	assert.Error(t, err)
}

func TestCheckContractAcceptsMinimalSource(t *testing.T) {
	_, err := NewShaderFromSource("minimal", minimalSource, material.BaseLayout(), sharedSchemas())
	assert.NoError(t, err)
}

func TestCheckContractKindMismatch(t *testing.T) {
	flat, err := Template("flat-color")
	require.NoError(t, err)
	textured, err := material.Resolve(material.KindTextured, nil)
	require.NoError(t, err)

	_, err = NewShaderFromSource("flat-color", flat, textured.VertexLayout, textured.Schemas)
	var ce *ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 2, ce.Group)
	assert.Equal(t, 0, ce.Binding)
}

func TestCheckContractVertexMismatch(t *testing.T) {
	_, err := NewShaderFromSource("minimal", minimalSource, material.ColoredLayout(), sharedSchemas())
	var ce *ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, -1, ce.Group)
	assert.Contains(t, ce.Error(), "vertex input")
}

func TestCheckContractExtraDeclaration(t *testing.T) {
	src := minimalSource + "\n@group(2) @binding(0) var t_extra: texture_2d<f32>;\n"
	_, err := NewShaderFromSource("minimal", src, material.BaseLayout(), sharedSchemas())
	var ce *ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 2, ce.Group)
	assert.Contains(t, ce.Reason, "t_extra")
}

func TestCheckContractMissingDeclaration(t *testing.T) {
	schemas := append(sharedSchemas(), bind_group_schema.NewSchema(2, "tex",
		bind_group_schema.TextureSlot(2, 0, "t_diffuse"),
		bind_group_schema.SamplerSlot(2, 1, "s_diffuse")))
	_, err := NewShaderFromSource("minimal", minimalSource, material.BaseLayout(), schemas)
	var ce *ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 2, ce.Group)
	assert.Equal(t, 0, ce.Binding)
}

func TestCheckContractUniformFieldMismatch(t *testing.T) {
	src := minimalSource + `
struct Tint {
    rgba: vec4<f32>,
};
@group(2) @binding(0) var<uniform> color: Tint;
`
	schemas := append(sharedSchemas(), bind_group_schema.NewSchema(2, "flat",
		bind_group_schema.UniformSlot(2, 0, "color", bind_group_schema.VisibilityFragment, material.ColorBlock)))
	_, err := NewShaderFromSource("minimal", src, material.BaseLayout(), schemas)
	var ce *ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 2, ce.Group)
}

func TestCheckContractEntryPoints(t *testing.T) {
	src := `
//@oxy:include vertex
@vertex
fn main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(in.position, 1.0);
}
`
	_, err := NewShaderFromSource("broken", src, material.BaseLayout(), nil)
	var ce *ContractError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Reason, "entry points")
}

func TestValidateRejectsMalformedSource(t *testing.T) {
	assert.Error(t, Validate("fn broken( {"))
}

func TestClassifyBinding(t *testing.T) {
	assert.Equal(t, bind_group_schema.ResourceKindUniformBuffer, classifyBinding("uniform", "ColorUniform"))
	assert.Equal(t, bind_group_schema.ResourceKindTexture, classifyBinding("", "texture_2d<f32>"))
	assert.Equal(t, bind_group_schema.ResourceKindTextureArray, classifyBinding("", "texture_2d_array<f32>"))
	assert.Equal(t, bind_group_schema.ResourceKindSampler, classifyBinding("", "sampler"))
	assert.Equal(t, bind_group_schema.ResourceKindInvalid, classifyBinding("", "texture_2d<u32>"))
	assert.Equal(t, bind_group_schema.ResourceKindInvalid, classifyBinding("storage, read", "Data"))
}
