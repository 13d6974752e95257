package bind_group_provider

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var viewLike = layout.UniformBlock{
	Name: "ViewLike",
	Fields: []layout.UniformField{
		{Name: "view_proj", Type: layout.FieldTypeMat4},
		{Name: "inverse_view_proj", Type: layout.FieldTypeMat4},
		{Name: "view", Type: layout.FieldTypeMat4},
		{Name: "inverse_view", Type: layout.FieldTypeMat4},
		{Name: "projection", Type: layout.FieldTypeMat4},
		{Name: "world_position", Type: layout.FieldTypeVec3},
	},
}

func TestDynamicOffsets(t *testing.T) {
	p := NewBindGroupProvider(
		WithSchema(bind_group_schema.NewSchema(1, "view",
			bind_group_schema.DynamicUniformSlot(1, 0, "view", bind_group_schema.VisibilityBoth, viewLike))),
		WithCapacity(4),
	)
	assert.Equal(t, "view", p.Label())
	assert.Equal(t, 4, p.Capacity())

	// 5 * 64 + vec3 = 332 bytes, rounded to 336 and then to the 256-byte offset alignment.
	stride, err := p.SlotStride(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(512), stride)

	size, err := p.BufferSize(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2048), size)

	off, err := p.DynamicOffset(0, 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(1536), off)

	_, err = p.DynamicOffset(0, 4)
	assert.Error(t, err)
	_, err = p.DynamicOffset(1, 0)
	assert.Error(t, err)
}

func TestStaticUniformSlots(t *testing.T) {
	p := NewBindGroupProvider(
		WithLabel("color"),
		WithSchema(bind_group_schema.NewSchema(2, "flat_color",
			bind_group_schema.UniformSlot(2, 0, "color", bind_group_schema.VisibilityFragment, layout.UniformBlock{
				Name:   "ColorUniform",
				Fields: []layout.UniformField{{Name: "color", Type: layout.FieldTypeVec4}},
			}))),
		WithCapacity(0),
	)
	assert.Equal(t, "color", p.Label())
	assert.Equal(t, 1, p.Capacity())

	size, err := p.BufferSize(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), size)

	_, err = p.DynamicOffset(0, 0)
	assert.Error(t, err)
}

func TestNonUniformSlots(t *testing.T) {
	p := NewBindGroupProvider(WithSchema(bind_group_schema.NewSchema(2, "textured",
		bind_group_schema.TextureSlot(2, 0, "t_diffuse"),
		bind_group_schema.SamplerSlot(2, 1, "s_diffuse"))))

	_, err := p.SlotStride(0)
	assert.Error(t, err)
	_, err = p.BufferSize(1)
	assert.Error(t, err)

	p.Release()
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.TextureView(0))
}
