package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIsDeterministic(t *testing.T) {
	for _, kind := range Kinds() {
		for _, flags := range []FeatureSet{nil, NewFeatureSet(SupportedFlags(kind)...)} {
			a, err := Resolve(kind, flags)
			require.NoError(t, err, kind.String())
			b, err := Resolve(kind, flags)
			require.NoError(t, err, kind.String())

			assert.Equal(t, a, b, kind.String())
			assert.True(t, a.Equal(b))
			require.NoError(t, bind_group_schema.CheckSet(a.Schemas), kind.String())
			require.NoError(t, a.VertexLayout.Validate(), kind.String())
		}
	}
}

func TestResolveReturnsFreshValues(t *testing.T) {
	a, err := Resolve(KindFlatColor, nil)
	require.NoError(t, err)
	a.Schemas[2].Slots[0].Uniform.Fields[0].Name = "mutated"
	a.VertexLayout.Attributes[0].Location = 9

	b, err := Resolve(KindFlatColor, nil)
	require.NoError(t, err)
	assert.Equal(t, "color", b.Schemas[2].Slots[0].Uniform.Fields[0].Name)
	assert.Equal(t, uint32(0), b.VertexLayout.Attributes[0].Location)
	assert.Equal(t, "color", ColorBlock.Fields[0].Name)
}

func TestResolveSharedGroups(t *testing.T) {
	for _, kind := range Kinds() {
		r, err := Resolve(kind, nil)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(r.Schemas), 3)

		model := r.Schemas[0].Slots[0]
		assert.Equal(t, GroupModel, model.Group)
		assert.Equal(t, "ModelUniform", model.Uniform.Name)
		assert.True(t, model.DynamicOffset)
		assert.Equal(t, bind_group_schema.VisibilityVertex, model.Visibility)

		view := r.Schemas[1].Slots[0]
		assert.Equal(t, GroupView, view.Group)
		assert.Equal(t, "ViewUniform", view.Uniform.Name)
		assert.Equal(t, bind_group_schema.VisibilityBoth, view.Visibility)
		assert.Equal(t, kind.String(), r.ShaderKey)
	}
}

func TestResolvePolicyTable(t *testing.T) {
	tests := []struct {
		kind   Kind
		flags  FeatureSet
		tag    VertexLayoutTag
		stride uint64
		groups [][]bind_group_schema.ResourceKind
		defs   []string
	}{
		{KindFlatColor, nil, VertexLayoutBase, 20,
			[][]bind_group_schema.ResourceKind{{bind_group_schema.ResourceKindUniformBuffer}}, nil},
		{KindTextured, nil, VertexLayoutBase, 20,
			[][]bind_group_schema.ResourceKind{{bind_group_schema.ResourceKindTexture, bind_group_schema.ResourceKindSampler}}, nil},
		{KindTexturedArray, nil, VertexLayoutLayered, 40,
			[][]bind_group_schema.ResourceKind{{bind_group_schema.ResourceKindTextureArray, bind_group_schema.ResourceKindSampler}}, nil},
		{KindMaskedCircle, nil, VertexLayoutBase, 20,
			[][]bind_group_schema.ResourceKind{{bind_group_schema.ResourceKindUniformBuffer}, {bind_group_schema.ResourceKindUniformBuffer}}, nil},
		{KindColoredTextured, nil, VertexLayoutBase, 20,
			[][]bind_group_schema.ResourceKind{{bind_group_schema.ResourceKindTexture, bind_group_schema.ResourceKindSampler}}, nil},
		{KindColoredTextured, NewFeatureSet(FeatureColored), VertexLayoutColored, 36,
			[][]bind_group_schema.ResourceKind{{bind_group_schema.ResourceKindTexture, bind_group_schema.ResourceKindSampler}}, []string{ShaderDefColored}},
	}
	for _, tt := range tests {
		t.Run(NewVariant(tt.kind, tt.flags...).String(), func(t *testing.T) {
			r, err := Resolve(tt.kind, tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.tag, r.VertexLayout.Tag)
			assert.Equal(t, tt.stride, r.VertexLayout.Stride())
			assert.Equal(t, tt.defs, r.ShaderDefs)

			material := r.Schemas[2:]
			require.Len(t, material, len(tt.groups))
			for i, want := range tt.groups {
				assert.Equal(t, GroupMaterial+uint32(i), material[i].Group)
				got := make([]bind_group_schema.ResourceKind, 0, len(material[i].Slots))
				for _, s := range material[i].Slots {
					got = append(got, s.Kind)
				}
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestResolveMaskedCircleGroups(t *testing.T) {
	r, err := Resolve(KindMaskedCircle, nil)
	require.NoError(t, err)
	require.Len(t, r.Schemas, 4)
	assert.Equal(t, "RadiusUniform", r.Schemas[2].Slots[0].Uniform.Name)
	assert.Equal(t, "ColorUniform", r.Schemas[3].Slots[0].Uniform.Name)
}

func TestResolveTexturedArrayLayout(t *testing.T) {
	r, err := Resolve(KindTexturedArray, nil)
	require.NoError(t, err)

	uv, ok := r.VertexLayout.Attribute(SemanticUV)
	require.True(t, ok)
	assert.Equal(t, 3, uv.Components)

	color, ok := r.VertexLayout.Attribute(SemanticColor)
	require.True(t, ok)
	assert.Equal(t, 4, color.Components)

	assert.Equal(t, int32(2), LayerIndex(2.9))
	assert.Equal(t, int32(0), LayerIndex(0.4))
}

func TestResolveColoredFlagChangesStride(t *testing.T) {
	plain, err := Resolve(KindColoredTextured, nil)
	require.NoError(t, err)
	colored, err := Resolve(KindColoredTextured, ParseFeatureFlags(" Colored ", "colored"))
	require.NoError(t, err)

	assert.NotEqual(t, plain.VertexLayout.Stride(), colored.VertexLayout.Stride())
	attr, ok := colored.VertexLayout.Attribute(SemanticColor)
	require.True(t, ok)
	assert.Equal(t, uint32(2), attr.Location)
	_, ok = plain.VertexLayout.Attribute(SemanticColor)
	assert.False(t, ok)
	assert.Equal(t, FeatureSet{FeatureColored}, colored.Variant.Flags)
}

func TestResolveErrors(t *testing.T) {
	_, err := Resolve(KindFlatColor, NewFeatureSet(FeatureColored))
	var ife *IncompatibleFeatureFlagError
	require.True(t, errors.As(err, &ife), "got %v", err)
	assert.Equal(t, KindFlatColor, ife.Kind)
	assert.Equal(t, FeatureColored, ife.Flag)

	_, err = Resolve(KindColoredTextured, ParseFeatureFlags("wireframe"))
	require.True(t, errors.As(err, &ife))
	assert.Equal(t, FeatureFlag("wireframe"), ife.Flag)

	_, err = Resolve(KindInvalid, nil)
	var uke *UnknownMaterialKindError
	require.True(t, errors.As(err, &uke))

	_, err = ParseKind("stained-glass")
	require.True(t, errors.As(err, &uke))
	assert.Equal(t, "stained-glass", uke.Kind)
}

func TestParseKind(t *testing.T) {
	for _, kind := range Kinds() {
		got, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}
	got, err := ParseKind("Textured_Array")
	require.NoError(t, err)
	assert.Equal(t, KindTexturedArray, got)
}

func TestVertexLayoutBufferLayout(t *testing.T) {
	bl := LayeredLayout().BufferLayout()
	assert.Equal(t, uint64(40), bl.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, bl.StepMode)
	require.Len(t, bl.Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, bl.Attributes[1].Format)
	assert.Equal(t, uint64(12), bl.Attributes[1].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x4, bl.Attributes[2].Format)
	assert.Equal(t, uint64(24), bl.Attributes[2].Offset)

	assert.Equal(t, "struct VertexInput {\n"+
		"    @location(0) position: vec3<f32>,\n"+
		"    @location(1) uv: vec2<f32>,\n"+
		"};", BaseLayout().WGSL())
}

func TestVertexLayoutValidate(t *testing.T) {
	l := BaseLayout()
	l.Attributes[1].Location = 0
	assert.Error(t, l.Validate())

	l = BaseLayout()
	l.Attributes[1].Components = 5
	assert.Error(t, l.Validate())
}
