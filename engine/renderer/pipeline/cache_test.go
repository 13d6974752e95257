package pipeline

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	id       int
	released bool
}

func (h *fakeHandle) Release() {
	h.released = true
}

type fakeCompiler struct {
	mu          sync.Mutex
	calls       []Descriptor
	handles     []*fakeHandle
	failNext    int
	deviceError error
}

func (f *fakeCompiler) CompileRenderPipeline(d Descriptor) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, d)
	if f.failNext > 0 {
		f.failNext--
		return nil, f.deviceError
	}
	h := &fakeHandle{id: len(f.handles)}
	f.handles = append(f.handles, h)
	return h, nil
}

func newTestCache(c Compiler, opts ...CacheBuilderOption) Cache {
	return NewCache(c, append([]CacheBuilderOption{WithValidator(nil)}, opts...)...)
}

func TestGetOrCreateCompilesOnce(t *testing.T) {
	fc := &fakeCompiler{}
	c := newTestCache(fc)

	a, err := c.GetOrCreate(material.NewVariant(material.KindColoredTextured))
	require.NoError(t, err)
	b, err := c.GetOrCreate(material.NewVariant(material.KindColoredTextured))
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Same(t, a.Handle(), b.Handle())
	assert.Len(t, fc.calls, 1)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, Stats{Hits: 1, Misses: 1, CompileTime: c.Stats().CompileTime}, c.Stats())
}

func TestGetOrCreateColoredFlagIsDistinct(t *testing.T) {
	fc := &fakeCompiler{}
	c := newTestCache(fc)

	plain, err := c.GetOrCreate(material.NewVariant(material.KindColoredTextured))
	require.NoError(t, err)
	colored, err := c.GetOrCreate(material.NewVariant(material.KindColoredTextured, material.FeatureColored))
	require.NoError(t, err)

	assert.NotEqual(t, plain.Fingerprint(), colored.Fingerprint())
	assert.NotSame(t, plain.Handle(), colored.Handle())
	assert.Equal(t, uint64(20), plain.Resolved().VertexLayout.Stride())
	assert.Equal(t, uint64(36), colored.Resolved().VertexLayout.Stride())
	assert.Len(t, fc.calls, 2)
}

func TestGetOrCreateSharesStructurallyEqualVariants(t *testing.T) {
	fc := &fakeCompiler{}
	c := newTestCache(fc)

	textured, err := c.GetOrCreate(material.NewVariant(material.KindTextured))
	require.NoError(t, err)
	coloredTextured, err := c.GetOrCreate(material.NewVariant(material.KindColoredTextured))
	require.NoError(t, err)

	assert.Same(t, textured, coloredTextured)
	assert.Len(t, fc.calls, 1)

	// the shared pipeline describes the variant that compiled it
	assert.Equal(t, material.KindTextured, coloredTextured.Resolved().Variant.Kind)
	assert.Equal(t, "textured", coloredTextured.Shader().Key())
}

func TestGetOrCreateEveryKind(t *testing.T) {
	fc := &fakeCompiler{}
	c := newTestCache(fc)

	for _, kind := range material.Kinds() {
		p, err := c.GetOrCreate(material.NewVariant(kind))
		require.NoError(t, err, kind.String())
		assert.NotNil(t, p.Shader())
		assert.Equal(t, DefaultState(), p.State())
	}
	for _, d := range fc.calls {
		assert.Equal(t, d.Shader.Key()+"/"+d.Fingerprint.String(), d.Label)
		assert.GreaterOrEqual(t, len(d.Schemas), 3)
	}
}

func TestGetOrCreateFailureIsNotCached(t *testing.T) {
	deviceErr := errors.New("device lost")
	fc := &fakeCompiler{failNext: 1, deviceError: deviceErr}
	c := newTestCache(fc)
	v := material.NewVariant(material.KindFlatColor)

	_, err := c.GetOrCreate(v)
	var ce *CompilationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "flat-color", ce.ShaderKey)
	assert.True(t, errors.Is(err, deviceErr))
	assert.Equal(t, 0, c.Len())

	_, ok := c.Get(ce.Fingerprint)
	assert.False(t, ok)

	p, err := c.GetOrCreate(v)
	require.NoError(t, err)
	assert.Equal(t, ce.Fingerprint, p.Fingerprint())
	assert.Len(t, fc.calls, 2)
	assert.Equal(t, 1, c.Stats().Failures)
	assert.Equal(t, 2, c.Stats().Misses)
}

func TestGetOrCreateValidationFailure(t *testing.T) {
	fc := &fakeCompiler{}
	c := NewCache(fc, WithValidator(func(string) error { return errors.New("rejected") }))

	_, err := c.GetOrCreate(material.NewVariant(material.KindTextured))
	var ce *CompilationError
	require.True(t, errors.As(err, &ce))
	assert.Empty(t, fc.calls)
	assert.Equal(t, 0, c.Len())
}

func TestGetOrCreateResolverErrorsPropagate(t *testing.T) {
	fc := &fakeCompiler{}
	c := newTestCache(fc)

	_, err := c.GetOrCreate(material.NewVariant(material.KindFlatColor, material.FeatureColored))
	var incompatible *material.IncompatibleFeatureFlagError
	assert.True(t, errors.As(err, &incompatible))

	_, err = c.GetOrCreate(material.NewVariant(material.Kind(99)))
	var unknown *material.UnknownMaterialKindError
	assert.True(t, errors.As(err, &unknown))

	assert.Empty(t, fc.calls)
	assert.Equal(t, Stats{}, c.Stats())
}

func TestGetOrCreateConfigChangesFingerprint(t *testing.T) {
	cfg, err := ParseConfig([]byte("[kinds.textured]\ndepth_test = true\ndepth_write = true\n"))
	require.NoError(t, err)

	fc := &fakeCompiler{}
	c := newTestCache(fc, WithConfig(cfg))

	textured, err := c.GetOrCreate(material.NewVariant(material.KindTextured))
	require.NoError(t, err)
	coloredTextured, err := c.GetOrCreate(material.NewVariant(material.KindColoredTextured))
	require.NoError(t, err)

	assert.True(t, textured.State().DepthTest)
	assert.False(t, coloredTextured.State().DepthTest)
	assert.NotEqual(t, textured.Fingerprint(), coloredTextured.Fingerprint())
}

func TestPrewarm(t *testing.T) {
	fc := &fakeCompiler{}
	c := newTestCache(fc, WithPrewarmWorkers(2))
	defer c.Release()

	err := c.Prewarm(
		material.NewVariant(material.KindFlatColor),
		material.NewVariant(material.KindMaskedCircle),
		material.NewVariant(material.KindTexturedArray),
		material.NewVariant(material.KindFlatColor, material.FeatureColored),
	)
	var incompatible *material.IncompatibleFeatureFlagError
	require.True(t, errors.As(err, &incompatible))
	assert.Equal(t, 3, c.Len())
	assert.Len(t, fc.calls, 3)

	require.NoError(t, c.Prewarm(material.NewVariant(material.KindFlatColor)))
	assert.Len(t, fc.calls, 3)
}

func TestPrewarmValidatesEachShaderOnce(t *testing.T) {
	var validated atomic.Int32
	fc := &fakeCompiler{}
	c := NewCache(fc, WithPrewarmWorkers(2), WithValidator(func(string) error {
		validated.Add(1)
		return nil
	}))
	defer c.Release()

	require.NoError(t, c.Prewarm(
		material.NewVariant(material.KindFlatColor),
		material.NewVariant(material.KindMaskedCircle),
		material.NewVariant(material.KindTexturedArray),
	))
	assert.Equal(t, int32(3), validated.Load())
	assert.Len(t, fc.calls, 3)

	// a later miss outside Prewarm still validates
	_, err := c.GetOrCreate(material.NewVariant(material.KindTextured))
	require.NoError(t, err)
	assert.Equal(t, int32(4), validated.Load())
}

func TestGetOrCreateRejectsInvalidSchemaSet(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(schemas []bind_group_schema.Schema) []bind_group_schema.Schema
		group  uint32
	}{
		{"group gap", func(s []bind_group_schema.Schema) []bind_group_schema.Schema {
			return []bind_group_schema.Schema{s[0], s[2]}
		}, 2},
		{"kind collision", func(s []bind_group_schema.Schema) []bind_group_schema.Schema {
			clash := bind_group_schema.NewSchema(material.GroupMaterial, "clash",
				bind_group_schema.TextureSlot(material.GroupMaterial, 0, "t"),
				bind_group_schema.SamplerSlot(material.GroupMaterial, 1, "s"))
			return append(s, clash)
		}, material.GroupMaterial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCompiler{}
			c := newTestCache(fc).(*cache)

			resolved, err := material.Resolve(material.KindFlatColor, nil)
			require.NoError(t, err)
			resolved.Schemas = tt.mutate(resolved.Schemas)

			_, err = c.getOrCreateResolved(resolved, nil)
			var ce *CompilationError
			require.True(t, errors.As(err, &ce))
			var se *bind_group_schema.SchemaError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.group, se.Group)

			assert.Empty(t, fc.calls)
			assert.Equal(t, 0, c.Len())
			assert.Equal(t, 1, c.Stats().Failures)
		})
	}
}

func TestRelease(t *testing.T) {
	fc := &fakeCompiler{}
	c := newTestCache(fc)

	_, err := c.GetOrCreate(material.NewVariant(material.KindFlatColor))
	require.NoError(t, err)
	c.Release()

	assert.Equal(t, 0, c.Len())
	require.Len(t, fc.handles, 1)
	assert.True(t, fc.handles[0].released)
}
