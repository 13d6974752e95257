package pipeline

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/shader"
)

// Handle is a compiled device pipeline. The cache releases it on teardown.
type Handle interface {
	Release()
}

// Descriptor is everything a device needs to compile a render pipeline.
type Descriptor struct {
	// Label is a debug label for the device objects, "<kind>/<fingerprint>".
	Label string
	// Fingerprint is the cache key the pipeline is stored under.
	Fingerprint Fingerprint
	// Shader is the expanded, contract-checked program.
	Shader shader.Shader
	// VertexLayout is the single interleaved vertex buffer layout.
	VertexLayout material.VertexLayout
	// Schemas are the bind group schemas ordered by group index.
	Schemas []bind_group_schema.Schema
	// State is the fixed-function state.
	State State
}

// Compiler is the graphics device collaborator that turns a Descriptor into a pipeline object.
type Compiler interface {
	// CompileRenderPipeline compiles a render pipeline.
	//
	// Parameters:
	//   - d: the pipeline description
	//
	// Returns:
	//   - Handle: the compiled pipeline
	//   - error: the device error if the pipeline was rejected
	CompileRenderPipeline(d Descriptor) (Handle, error)
}
