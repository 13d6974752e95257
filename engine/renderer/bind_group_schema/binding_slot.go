// Package bind_group_schema declares the ordered resource bindings of each bind group a pipeline
// consumes, validates them, and converts them into wgpu layout descriptors.
package bind_group_schema

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/layout"
	"github.com/cogentcore/webgpu/wgpu"
)

// ResourceKind identifies what a binding slot holds.
type ResourceKind int

const (
	// ResourceKindInvalid is the zero value and fails validation.
	ResourceKindInvalid ResourceKind = iota

	// ResourceKindUniformBuffer is a uniform buffer shaped by a layout.UniformBlock.
	ResourceKindUniformBuffer

	// ResourceKindTexture is a sampled texture_2d<f32>.
	ResourceKindTexture

	// ResourceKindSampler is a filtering sampler.
	ResourceKindSampler

	// ResourceKindTextureArray is a sampled texture_2d_array<f32>.
	ResourceKindTextureArray
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceKindUniformBuffer:
		return "uniform-buffer"
	case ResourceKindTexture:
		return "texture"
	case ResourceKindSampler:
		return "sampler"
	case ResourceKindTextureArray:
		return "texture-array"
	default:
		return "invalid"
	}
}

// sampled reports whether the kind is a texture that must be paired with a sampler.
func (k ResourceKind) sampled() bool {
	return k == ResourceKindTexture || k == ResourceKindTextureArray
}

// Visibility is the set of shader stages a binding is visible to.
type Visibility int

const (
	// VisibilityVertex exposes the binding to the vertex stage.
	VisibilityVertex Visibility = 1 << iota
	// VisibilityFragment exposes the binding to the fragment stage.
	VisibilityFragment

	// VisibilityBoth exposes the binding to both stages.
	VisibilityBoth = VisibilityVertex | VisibilityFragment
)

// ShaderStage converts the visibility into wgpu shader stage flags.
//
// Returns:
//   - wgpu.ShaderStage: the stage flags, wgpu.ShaderStageNone if no stage is set
func (v Visibility) ShaderStage() wgpu.ShaderStage {
	stage := wgpu.ShaderStageNone
	if v&VisibilityVertex != 0 {
		stage |= wgpu.ShaderStageVertex
	}
	if v&VisibilityFragment != 0 {
		stage |= wgpu.ShaderStageFragment
	}
	return stage
}

func (v Visibility) String() string {
	switch v {
	case VisibilityVertex:
		return "vertex"
	case VisibilityFragment:
		return "fragment"
	case VisibilityBoth:
		return "vertex|fragment"
	default:
		return "none"
	}
}

// BindingSlot is a single resource binding within a bind group.
type BindingSlot struct {
	// Group is the bind group index; it must match the owning Schema's group.
	Group uint32
	// Binding is the binding index, unique within the group.
	Binding uint32
	// Kind is the resource held by the slot.
	Kind ResourceKind
	// Visibility is the set of shader stages that read the slot.
	Visibility Visibility
	// Name is the WGSL variable name bound to the slot.
	Name string
	// Uniform is the block shaping a uniform buffer slot, nil for other kinds.
	Uniform *layout.UniformBlock
	// DynamicOffset marks a uniform slot bound with a dynamic offset per draw.
	DynamicOffset bool
}

// UniformSlot declares a uniform buffer slot shaped by block.
//
// Parameters:
//   - group: the bind group index
//   - binding: the binding index within the group
//   - name: the WGSL variable name
//   - visibility: the shader stages reading the buffer
//   - block: the uniform block describing the buffer contents
//
// Returns:
//   - BindingSlot: the declared slot
func UniformSlot(group, binding uint32, name string, visibility Visibility, block layout.UniformBlock) BindingSlot {
	return BindingSlot{
		Group:      group,
		Binding:    binding,
		Kind:       ResourceKindUniformBuffer,
		Visibility: visibility,
		Name:       name,
		Uniform:    &block,
	}
}

// DynamicUniformSlot is like UniformSlot but marks the slot as bound with a dynamic offset.
func DynamicUniformSlot(group, binding uint32, name string, visibility Visibility, block layout.UniformBlock) BindingSlot {
	s := UniformSlot(group, binding, name, visibility, block)
	s.DynamicOffset = true
	return s
}

// TextureSlot declares a fragment-visible texture_2d<f32> slot.
func TextureSlot(group, binding uint32, name string) BindingSlot {
	return BindingSlot{Group: group, Binding: binding, Kind: ResourceKindTexture, Visibility: VisibilityFragment, Name: name}
}

// TextureArraySlot declares a fragment-visible texture_2d_array<f32> slot.
func TextureArraySlot(group, binding uint32, name string) BindingSlot {
	return BindingSlot{Group: group, Binding: binding, Kind: ResourceKindTextureArray, Visibility: VisibilityFragment, Name: name}
}

// SamplerSlot declares a fragment-visible filtering sampler slot.
func SamplerSlot(group, binding uint32, name string) BindingSlot {
	return BindingSlot{Group: group, Binding: binding, Kind: ResourceKindSampler, Visibility: VisibilityFragment, Name: name}
}
