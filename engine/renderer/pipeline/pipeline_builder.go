package pipeline

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/shader"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithResolved sets the resolved variant the pipeline is compiled from.
//
// Parameters:
//   - r: the resolved variant
//
// Returns:
//   - PipelineBuilderOption: a function that sets the resolved variant for this pipeline
func WithResolved(r material.ResolvedVariant) PipelineBuilderOption {
	return func(p *pipeline) {
		p.resolved = r
	}
}

// WithShader sets the shader program for this pipeline.
//
// Parameters:
//   - s: the expanded shader
//
// Returns:
//   - PipelineBuilderOption: a function that sets the shader for this pipeline
func WithShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.shader = s
	}
}

// WithState sets the fixed-function state for this pipeline.
//
// Parameters:
//   - s: the pipeline state
//
// Returns:
//   - PipelineBuilderOption: a function that sets the state for this pipeline
func WithState(s State) PipelineBuilderOption {
	return func(p *pipeline) {
		p.state = s
	}
}

// WithHandle sets the compiled device pipeline.
//
// Parameters:
//   - h: the compiled pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the handle for this pipeline
func WithHandle(h Handle) PipelineBuilderOption {
	return func(p *pipeline) {
		p.handle = h
	}
}
