package renderer

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPipelineConfig sets the per-kind fixed-function state overrides the pipeline cache
// compiles with.
//
// Parameters:
//   - cfg: the pipeline config, usually loaded with pipeline.LoadConfig
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline config to a renderer
func WithPipelineConfig(cfg pipeline.Config) RendererBuilderOption {
	return func(r *renderer) {
		r.cacheOptions = append(r.cacheOptions, pipeline.WithConfig(cfg))
	}
}

// WithShaderValidation toggles naga validation of expanded shaders before they reach the device.
// Validation is on by default.
//
// Parameters:
//   - enabled: false to hand shaders to the device unvalidated
//
// Returns:
//   - RendererBuilderOption: a function that applies the validation option to a renderer
func WithShaderValidation(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		if !enabled {
			r.cacheOptions = append(r.cacheOptions, pipeline.WithValidator(nil))
		}
	}
}

// WithModelCapacity sets how many models can be initialized at once. Each model takes the
// dynamic-offset slot of the model uniform buffer given by its Slot. The default is 256.
//
// Parameters:
//   - capacity: the number of model slots, values below 1 are ignored
//
// Returns:
//   - RendererBuilderOption: a function that applies the model capacity to a renderer
func WithModelCapacity(capacity int) RendererBuilderOption {
	return func(r *renderer) {
		if capacity > 0 {
			r.modelCapacity = capacity
		}
	}
}

// WithClearColor sets the color each frame is cleared to.
func WithClearColor(color wgpu.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingClearColor = &color
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
