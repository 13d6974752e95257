package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pipeline"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawGroupsMaskedCircle(t *testing.T) {
	resolved, err := material.NewVariant(material.KindMaskedCircle).Resolve()
	require.NoError(t, err)

	models := bind_group_provider.NewBindGroupProvider(
		bind_group_provider.WithSchema(material.ModelSchema()),
		bind_group_provider.WithCapacity(8),
	)
	view := bind_group_provider.NewBindGroupProvider(bind_group_provider.WithSchema(material.ViewSchema()))
	providers := map[uint32]bind_group_provider.BindGroupProvider{
		material.GroupModel: models,
		material.GroupView:  view,
	}
	for _, s := range resolved.Schemas[2:] {
		providers[s.Group] = bind_group_provider.NewBindGroupProvider(bind_group_provider.WithSchema(s))
	}

	groups, err := drawGroups(resolved.Schemas, func(group uint32) (bind_group_provider.BindGroupProvider, int) {
		if group == material.GroupModel {
			return providers[group], 3
		}
		return providers[group], 0
	})
	require.NoError(t, err)
	require.Len(t, groups, 4)

	// the model block is one mat4, so each slot starts on the next 256-byte boundary
	assert.Same(t, models, groups[0].Provider)
	assert.Equal(t, []uint32{768}, groups[0].DynamicOffsets)
	assert.Equal(t, []uint32{0}, groups[1].DynamicOffsets)
	assert.Empty(t, groups[2].DynamicOffsets)
	assert.Empty(t, groups[3].DynamicOffsets)
	assert.Same(t, providers[3], groups[3].Provider)
}

func TestDrawGroupsErrors(t *testing.T) {
	resolved, err := material.NewVariant(material.KindFlatColor).Resolve()
	require.NoError(t, err)

	_, err = drawGroups(resolved.Schemas, func(uint32) (bind_group_provider.BindGroupProvider, int) {
		return nil, 0
	})
	assert.ErrorContains(t, err, "group 0 has no bind group provider")

	models := bind_group_provider.NewBindGroupProvider(
		bind_group_provider.WithSchema(material.ModelSchema()),
		bind_group_provider.WithCapacity(2),
	)
	_, err = drawGroups(resolved.Schemas, func(uint32) (bind_group_provider.BindGroupProvider, int) {
		return models, 5
	})
	assert.ErrorContains(t, err, "out of range")
}

func TestOffscreen(t *testing.T) {
	target := Offscreen(320, 240)
	assert.Nil(t, target.SurfaceDescriptor())
	assert.Equal(t, 320, target.Width())
	assert.Equal(t, 240, target.Height())
}

type stubHandle struct{}

func (stubHandle) Release() {}

type stubCompiler struct{}

func (stubCompiler) CompileRenderPipeline(pipeline.Descriptor) (pipeline.Handle, error) {
	return stubHandle{}, nil
}

func TestMaterialPipelineLooksUpByFingerprint(t *testing.T) {
	cache := pipeline.NewCache(stubCompiler{}, pipeline.WithValidator(nil))
	defer cache.Release()

	mat, err := material.NewMaterial(material.WithName("flat"), material.WithVariant(material.KindFlatColor))
	require.NoError(t, err)

	_, err = materialPipeline(cache, mat)
	assert.ErrorContains(t, err, "not initialized")

	p, err := cache.GetOrCreate(mat.Variant())
	require.NoError(t, err)
	mat.SetPipelineKey(uuid.UUID(p.Fingerprint()))

	for range 100 {
		got, err := materialPipeline(cache, mat)
		require.NoError(t, err)
		assert.Same(t, p, got)
	}
	// draws neither resolve nor count as cache traffic
	assert.Equal(t, 0, cache.Stats().Hits)
	assert.Equal(t, 1, cache.Stats().Misses)

	mat.SetPipelineKey(uuid.New())
	_, err = materialPipeline(cache, mat)
	assert.ErrorContains(t, err, "is not cached")
}
