package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[defaults]
cull_mode = "back"
front_face = "cw"

[kinds.textured-array]
depth_test = true
depth_write = true
blend = false
depth_bias = 2
depth_bias_slope_scale = 1.5

[kinds.masked_circle]
topology = "triangle-strip"
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfig))
	require.NoError(t, err)

	flat := cfg.StateFor(material.KindFlatColor)
	assert.Equal(t, wgpu.CullModeBack, flat.CullMode)
	assert.Equal(t, wgpu.FrontFaceCW, flat.FrontFace)
	assert.True(t, flat.Blend)
	assert.False(t, flat.DepthTest)

	array := cfg.StateFor(material.KindTexturedArray)
	assert.True(t, array.DepthTest)
	assert.True(t, array.DepthWrite)
	assert.False(t, array.Blend)
	assert.Nil(t, array.BlendStatePtr())
	assert.Equal(t, int32(2), array.DepthBias)
	assert.Equal(t, float32(1.5), array.DepthBiasSlopeScale)
	assert.Equal(t, wgpu.CullModeBack, array.CullMode)

	circle := cfg.StateFor(material.KindMaskedCircle)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleStrip, circle.Topology)
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultState(), cfg.StateFor(material.KindTextured))
	assert.NotNil(t, DefaultState().BlendStatePtr())
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte("[kinds.sprite]\nblend = true\n"))
	var unknown *material.UnknownMaterialKindError
	assert.True(t, errors.As(err, &unknown))

	_, err = ParseConfig([]byte("[defaults]\ncull_mode = \"sideways\"\n"))
	assert.ErrorContains(t, err, "cull_mode")

	_, err = ParseConfig([]byte("[kinds.textured]\ntopology = \"fan\"\n"))
	assert.ErrorContains(t, err, "topology")

	_, err = ParseConfig([]byte("[defaults\n"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipelines.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Kinds, 2)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
