package pipeline

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/shader"
	"github.com/loov/hrtime"
)

// Stats counts cache traffic since creation.
type Stats struct {
	Hits     int
	Misses   int
	Failures int
	// CompileTime is the total time spent in successful and failed compilations.
	CompileTime time.Duration
}

// cache is the implementation of the Cache interface.
type cache struct {
	mu       *sync.Mutex
	compiler Compiler
	config   Config

	// validate checks expanded WGSL before the device sees it, nil to skip
	validate func(source string) error

	entries map[Fingerprint]Pipeline
	stats   Stats

	// prewarmWorkers bounds the pool used by Prewarm
	prewarmWorkers int
	pool           worker.DynamicWorkerPool
}

// Cache compiles each distinct pipeline once and hands out the shared result afterwards. It owns
// every compiled pipeline until Release.
type Cache interface {
	// GetOrCreate resolves the variant, derives its fingerprint and returns the cached pipeline,
	// compiling it through the Compiler on the first request.
	//
	// Variants that resolve to the same vertex layout, schema structure, flags and state share
	// one pipeline even when their kinds differ: colored-textured without the colored flag
	// returns the pipeline compiled for textured when that was requested first. The returned
	// Pipeline's Resolved() and Shader() then describe the variant that compiled it, not v.
	//
	// Parameters:
	//   - v: the material variant
	//
	// Returns:
	//   - Pipeline: the shared pipeline for the variant's fingerprint
	//   - error: the resolver error unchanged, or a *CompilationError if the schema set, the shader
	//     or the device rejected the pipeline; nothing is cached on error
	GetOrCreate(v material.Variant) (Pipeline, error)

	// Get returns the pipeline stored under a fingerprint without compiling.
	//
	// Parameters:
	//   - fp: the fingerprint
	//
	// Returns:
	//   - Pipeline: the cached pipeline, nil if absent
	//   - bool: true if the fingerprint is cached
	Get(fp Fingerprint) (Pipeline, bool)

	// Len returns the number of compiled pipelines.
	Len() int

	// Stats returns a snapshot of the hit, miss and failure counters.
	Stats() Stats

	// Prewarm prepares the variants' shaders in parallel and then compiles them one by one on the
	// calling goroutine.
	//
	// Parameters:
	//   - variants: the variants to compile
	//
	// Returns:
	//   - error: every failure combined, nil if all variants are cached
	Prewarm(variants ...material.Variant) error

	// Release releases every compiled pipeline and empties the cache.
	Release()
}

var _ Cache = &cache{}

// NewCache creates an empty Cache compiling through compiler.
//
// Parameters:
//   - compiler: the device collaborator
//   - opts: a variadic list of CacheBuilderOption functions to configure the cache
//
// Returns:
//   - Cache: the new cache
func NewCache(compiler Compiler, opts ...CacheBuilderOption) Cache {
	c := &cache{
		mu:             &sync.Mutex{},
		compiler:       compiler,
		validate:       shader.Validate,
		entries:        make(map[Fingerprint]Pipeline),
		prewarmWorkers: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *cache) GetOrCreate(v material.Variant) (Pipeline, error) {
	resolved, err := v.Resolve()
	if err != nil {
		return nil, err
	}
	return c.getOrCreateResolved(resolved, nil)
}

// getOrCreateResolved is GetOrCreate after resolution. prepared is a shader already built and
// validated by prepare, nil to prepare it on a miss.
func (c *cache) getOrCreateResolved(resolved material.ResolvedVariant, prepared shader.Shader) (Pipeline, error) {
	state := c.config.StateFor(resolved.Variant.Kind)
	fp := NewFingerprint(resolved.VertexLayout, resolved.Schemas, resolved.Variant.Flags, state)

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.entries[fp]; ok {
		c.stats.Hits++
		common.Logger().Debug("pipeline cache hit", "fingerprint", fp.String(), "variant", resolved.Variant.String())
		return p, nil
	}
	c.stats.Misses++

	start := hrtime.Now()
	p, err := c.compile(fp, resolved, state, prepared)
	elapsed := hrtime.Since(start)
	c.stats.CompileTime += elapsed

	if err != nil {
		c.stats.Failures++
		common.Logger().Warn("pipeline compilation failed",
			"fingerprint", fp.String(), "variant", resolved.Variant.String(), "err", err)
		return nil, err
	}

	c.entries[fp] = p
	common.Logger().Info("pipeline compiled",
		"fingerprint", fp.String(), "variant", resolved.Variant.String(), "duration", elapsed)
	return p, nil
}

func (c *cache) compile(fp Fingerprint, resolved material.ResolvedVariant, state State, s shader.Shader) (Pipeline, error) {
	if s == nil {
		var err error
		if s, err = c.prepare(resolved); err != nil {
			return nil, newCompilationError(fp, resolved.ShaderKey, err)
		}
	}

	handle, err := c.compiler.CompileRenderPipeline(Descriptor{
		Label:        resolved.ShaderKey + "/" + fp.String(),
		Fingerprint:  fp,
		Shader:       s,
		VertexLayout: resolved.VertexLayout,
		Schemas:      resolved.Schemas,
		State:        state,
	})
	if err != nil {
		return nil, newCompilationError(fp, resolved.ShaderKey, err)
	}

	return NewPipeline(fp,
		WithResolved(resolved),
		WithShader(s),
		WithState(state),
		WithHandle(handle),
	), nil
}

// prepare checks the schema set, then builds and validates the shader of a resolved variant. It
// touches no cache state.
func (c *cache) prepare(resolved material.ResolvedVariant) (shader.Shader, error) {
	if err := bind_group_schema.CheckSet(resolved.Schemas); err != nil {
		return nil, err
	}
	s, err := shader.NewShader(resolved)
	if err != nil {
		return nil, err
	}
	if c.validate != nil {
		if err := c.validate(s.Source()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (c *cache) Get(fp Fingerprint) (Pipeline, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[fp]
	return p, ok
}

func (c *cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *cache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for fp, p := range c.entries {
		if h := p.Handle(); h != nil {
			h.Release()
		}
		delete(c.entries, fp)
	}
	if c.pool != nil {
		c.pool.Stop()
		c.pool = nil
	}
}
