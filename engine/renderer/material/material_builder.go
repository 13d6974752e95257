package material

import (
	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithVariant is an option builder that sets the material kind and feature flags.
//
// Parameters:
//   - kind: the material kind
//   - flags: the feature flags requested for the kind
//
// Returns:
//   - MaterialBuilderOption: a function that applies the variant option to a material
func WithVariant(kind Kind, flags ...FeatureFlag) MaterialBuilderOption {
	return func(m *material) {
		m.resolved.Variant = NewVariant(kind, flags...)
	}
}

// WithColor is an option builder that sets the solid RGBA color of the material.
//
// Parameters:
//   - color: the RGBA color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color mgl32.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.color = color
	}
}

// WithRadius is an option builder that sets the masked-circle radius.
//
// Parameters:
//   - radius: the radius in uv units
//
// Returns:
//   - MaterialBuilderOption: a function that applies the radius option to a material
func WithRadius(radius float32) MaterialBuilderOption {
	return func(m *material) {
		m.radius = radius
	}
}

// WithTexture is an option builder that stages texture data for textured kinds. For
// textured-array materials the data holds every layer.
//
// Parameters:
//   - tex: the decoded RGBA texture data
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(tex *common.TextureStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.texture = tex
	}
}

// WithSampler is an option builder that stages the sampler configuration.
//
// Parameters:
//   - sampler: the sampler configuration
//
// Returns:
//   - MaterialBuilderOption: a function that applies the sampler option to a material
func WithSampler(sampler *common.SamplerStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.sampler = sampler
	}
}
