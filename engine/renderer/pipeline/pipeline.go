package pipeline

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/shader"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the compiled device pipeline together with the resolved inputs it was compiled from.
type pipeline struct {
	// fingerprint is the cache key of this pipeline
	fingerprint Fingerprint

	// resolved is the variant the pipeline was first compiled for. Variants sharing the
	// fingerprint reuse it unchanged.
	resolved material.ResolvedVariant

	shader shader.Shader
	state  State

	// handle is the compiled device pipeline, nil until the compiler ran
	handle Handle
}

// Pipeline is a compiled, immutable render pipeline shared by every variant with the same
// fingerprint. It may be read from any number of draw call sites.
type Pipeline interface {
	// Fingerprint returns the structural key this pipeline is cached under.
	//
	// Returns:
	//   - Fingerprint: the pipeline's fingerprint
	Fingerprint() Fingerprint

	// Resolved returns the resolved variant the pipeline was compiled from. Its VertexLayout is
	// the layout mesh data must be encoded with and its Schemas the bind groups to set, in order.
	//
	// Returns:
	//   - material.ResolvedVariant: the resolved inputs
	Resolved() material.ResolvedVariant

	// Shader returns the expanded program the pipeline was compiled with.
	//
	// Returns:
	//   - shader.Shader: the shader program
	Shader() shader.Shader

	// State returns the fixed-function state.
	//
	// Returns:
	//   - State: the depth, blend, cull and topology configuration
	State() State

	// Handle returns the compiled device pipeline.
	// Note: The caller is responsible for type asserting the handle to the compiler's concrete type.
	//
	// Returns:
	//   - Handle: the compiled pipeline object
	Handle() Handle
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a Pipeline for a fingerprint. The cache builds pipelines through it; tests
// and alternative caches can use the options directly.
//
// Parameters:
//   - fp: the fingerprint of the pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance
func NewPipeline(fp Fingerprint, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		fingerprint: fp,
		state:       DefaultState(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Fingerprint() Fingerprint {
	return p.fingerprint
}

func (p *pipeline) Resolved() material.ResolvedVariant {
	return p.resolved
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) State() State {
	return p.state
}

func (p *pipeline) Handle() Handle {
	return p.handle
}
