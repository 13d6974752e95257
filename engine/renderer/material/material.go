package material

import (
	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/layout"
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// material is the implementation of the Material interface.
type material struct {
	name        string
	resolved    ResolvedVariant
	color       mgl32.Vec4
	radius      float32
	texture     *common.TextureStagingData
	sampler     *common.SamplerStagingData
	pipelineKey uuid.UUID
	providers   map[uint32]bind_group_provider.BindGroupProvider
}

// Material is a concrete instance of a material variant: the resolved variant plus the values and
// GPU resources bound to its material groups (group 2 and up) at draw time.
//
// Surface values (color, radius, texture, sampler) are set at construction. GPU resource
// references (pipeline key, bind group providers) are mutable so the renderer can attach them
// after the pipeline is created.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Variant retrieves the normalized variant the material was resolved from.
	//
	// Returns:
	//   - Variant: the material variant
	Variant() Variant

	// Resolved retrieves the resolved vertex layout, schemas and shader defines of the variant.
	//
	// Returns:
	//   - ResolvedVariant: the resolved variant
	Resolved() ResolvedVariant

	// Color retrieves the solid color used by flat-color and masked-circle materials.
	//
	// Returns:
	//   - mgl32.Vec4: the RGBA color
	Color() mgl32.Vec4

	// Radius retrieves the masked-circle radius in uv units.
	//
	// Returns:
	//   - float32: the radius
	Radius() float32

	// Texture retrieves the staged texture data, or nil if none is set. Textured kinds without
	// texture data are bound to a fallback texture.
	//
	// Returns:
	//   - *common.TextureStagingData: the texture data, or nil
	Texture() *common.TextureStagingData

	// Sampler retrieves the staged sampler configuration, or nil for renderer defaults.
	//
	// Returns:
	//   - *common.SamplerStagingData: the sampler configuration, or nil
	Sampler() *common.SamplerStagingData

	// MaterialSchemas retrieves the schemas of the material groups (group 2 and up).
	//
	// Returns:
	//   - []bind_group_schema.Schema: the material schemas ordered by group
	MaterialSchemas() []bind_group_schema.Schema

	// UniformWrites produces the buffer writes that upload the material's uniform values into
	// the bound providers.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: one write per material uniform slot
	//   - error: if a group with uniform slots has no provider, or a slot has no known value
	UniformWrites() ([]bind_group_provider.BufferWrite, error)

	// PipelineKey retrieves the fingerprint of the pipeline this material is drawn with, so draws
	// can look the pipeline up without resolving the variant again.
	//
	// Returns:
	//   - uuid.UUID: the pipeline fingerprint, uuid.Nil until set
	PipelineKey() uuid.UUID

	// SetPipelineKey sets the pipeline fingerprint for this material.
	//
	// Parameters:
	//   - key: the pipeline fingerprint
	SetPipelineKey(key uuid.UUID)

	// BindGroupProvider retrieves the provider bound at a material group.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider, or nil if none is set
	BindGroupProvider(group uint32) bind_group_provider.BindGroupProvider

	// SetBindGroupProvider attaches the provider holding the GPU resources of a material group.
	//
	// Parameters:
	//   - group: the bind group index
	//   - provider: the initialized provider
	SetBindGroupProvider(group uint32, provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial resolves the configured variant and creates a Material. Without options the
// material is a white flat-color material.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: the new material
//   - error: the resolver error if the variant cannot be resolved
func NewMaterial(options ...MaterialBuilderOption) (Material, error) {
	m := &material{
		color:     mgl32.Vec4{1, 1, 1, 1},
		radius:    0.5,
		providers: make(map[uint32]bind_group_provider.BindGroupProvider),
	}
	m.resolved.Variant = Variant{Kind: KindFlatColor}

	for _, opt := range options {
		opt(m)
	}

	resolved, err := m.resolved.Variant.Resolve()
	if err != nil {
		return nil, err
	}
	m.resolved = resolved
	return m, nil
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Variant() Variant {
	return m.resolved.Variant
}

func (m *material) Resolved() ResolvedVariant {
	return m.resolved
}

func (m *material) Color() mgl32.Vec4 {
	return m.color
}

func (m *material) Radius() float32 {
	return m.radius
}

func (m *material) Texture() *common.TextureStagingData {
	return m.texture
}

func (m *material) Sampler() *common.SamplerStagingData {
	return m.sampler
}

func (m *material) MaterialSchemas() []bind_group_schema.Schema {
	var out []bind_group_schema.Schema
	for _, s := range m.resolved.Schemas {
		if s.Group >= GroupMaterial {
			out = append(out, s)
		}
	}
	return out
}

func (m *material) UniformWrites() ([]bind_group_provider.BufferWrite, error) {
	var writes []bind_group_provider.BufferWrite
	for _, s := range m.MaterialSchemas() {
		for _, slot := range s.Slots {
			if slot.Kind != bind_group_schema.ResourceKindUniformBuffer {
				continue
			}
			provider := m.providers[s.Group]
			if provider == nil {
				return nil, errors.Newf("material %q: group %d has no bind group provider", m.name, s.Group)
			}
			data, err := m.uniformData(*slot.Uniform)
			if err != nil {
				return nil, errors.Wrapf(err, "material %q: group %d binding %d", m.name, s.Group, slot.Binding)
			}
			writes = append(writes, bind_group_provider.BufferWrite{
				Provider: provider,
				Binding:  int(slot.Binding),
				Data:     data,
			})
		}
	}
	return writes, nil
}

func (m *material) uniformData(block layout.UniformBlock) ([]byte, error) {
	switch block.Name {
	case ColorBlock.Name:
		u := GPUColorUniform{Color: m.color}
		return u.Marshal(), nil
	case RadiusBlock.Name:
		u := GPURadiusUniform{Radius: m.radius}
		return u.Marshal(), nil
	default:
		return nil, errors.Newf("no value for uniform block %s", block.Name)
	}
}

func (m *material) PipelineKey() uuid.UUID {
	return m.pipelineKey
}

func (m *material) SetPipelineKey(key uuid.UUID) {
	m.pipelineKey = key
}

func (m *material) BindGroupProvider(group uint32) bind_group_provider.BindGroupProvider {
	return m.providers[group]
}

func (m *material) SetBindGroupProvider(group uint32, provider bind_group_provider.BindGroupProvider) {
	m.providers[group] = provider
}
