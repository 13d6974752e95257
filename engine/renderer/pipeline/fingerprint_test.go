package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fingerprintOf(t *testing.T, v material.Variant, state State) Fingerprint {
	t.Helper()
	r, err := v.Resolve()
	require.NoError(t, err)
	return NewFingerprint(r.VertexLayout, r.Schemas, r.Variant.Flags, state)
}

func TestFingerprintDeterministic(t *testing.T) {
	for _, kind := range material.Kinds() {
		v := material.NewVariant(kind)
		assert.Equal(t, fingerprintOf(t, v, DefaultState()), fingerprintOf(t, v, DefaultState()), kind.String())
	}
}

func TestFingerprintDistinguishesShapes(t *testing.T) {
	seen := map[Fingerprint]material.Kind{}
	for _, kind := range []material.Kind{material.KindFlatColor, material.KindTextured, material.KindTexturedArray, material.KindMaskedCircle} {
		fp := fingerprintOf(t, material.NewVariant(kind), DefaultState())
		prev, dup := seen[fp]
		assert.False(t, dup, "%s collides with %s", kind, prev)
		seen[fp] = kind
	}

	plain := fingerprintOf(t, material.NewVariant(material.KindColoredTextured), DefaultState())
	colored := fingerprintOf(t, material.NewVariant(material.KindColoredTextured, material.FeatureColored), DefaultState())
	assert.NotEqual(t, plain, colored)
}

func TestFingerprintIncludesState(t *testing.T) {
	v := material.NewVariant(material.KindFlatColor)
	culled := DefaultState()
	culled.CullMode = wgpu.CullModeBack
	assert.NotEqual(t, fingerprintOf(t, v, DefaultState()), fingerprintOf(t, v, culled))
}

func TestFingerprintString(t *testing.T) {
	fp := fingerprintOf(t, material.NewVariant(material.KindFlatColor), DefaultState())
	assert.Len(t, fp.String(), 36)
}
