package model

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	name         string
	mesh         Mesh
	transform    Transform
	material     material.Material
	meshProvider bind_group_provider.BindGroupProvider
	slot         int
}

// Model is one drawable: a mesh, its transform, and the material it is drawn with. Each model
// owns one dynamic-offset slot of the shared group 0 model buffer.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the name of the model
	Name() string

	// Mesh retrieves the model geometry.
	//
	// Returns:
	//   - Mesh: the mesh
	Mesh() Mesh

	// VertexData encodes the mesh for the vertex layout of the model's material.
	//
	// Returns:
	//   - []byte: the interleaved vertex data
	//   - error: if the mesh cannot provide an attribute of the layout
	VertexData() ([]byte, error)

	// Transform retrieves the model transform.
	//
	// Returns:
	//   - Transform: the transform
	Transform() Transform

	// SetTransform replaces the model transform.
	//
	// Parameters:
	//   - t: the new transform
	SetTransform(t Transform)

	// Uniform builds the group 0 uniform value from the current transform.
	//
	// Returns:
	//   - GPUModelUniform: the model uniform
	Uniform() GPUModelUniform

	// Material retrieves the material the model is drawn with.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// Slot retrieves the index of the model's slot in the shared model uniform buffer.
	//
	// Returns:
	//   - int: the dynamic-offset slot index
	Slot() int

	// MeshProvider retrieves the provider holding the vertex and index buffers, or nil before
	// the renderer initialized it.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider or nil
	MeshProvider() bind_group_provider.BindGroupProvider

	// SetMeshProvider stores the provider holding the uploaded mesh buffers.
	//
	// Parameters:
	//   - provider: the mesh provider
	SetMeshProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Model = &model{}

// NewModel creates a new Model configured with the provided options. Without options the model
// is an identity-transformed unit quad with no material.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions to configure the model
//
// Returns:
//   - Model: a new Model instance
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		mesh:      Quad(),
		transform: NewTransform(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Mesh() Mesh {
	return m.mesh
}

func (m *model) VertexData() ([]byte, error) {
	if m.material == nil {
		return m.mesh.Encode(material.BaseLayout())
	}
	return m.mesh.Encode(m.material.Resolved().VertexLayout)
}

func (m *model) Transform() Transform {
	return m.transform
}

func (m *model) SetTransform(t Transform) {
	m.transform = t
}

func (m *model) Uniform() GPUModelUniform {
	return GPUModelUniform{Model: m.transform.Matrix()}
}

func (m *model) Material() material.Material {
	return m.material
}

func (m *model) Slot() int {
	return m.slot
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) SetMeshProvider(provider bind_group_provider.BindGroupProvider) {
	m.meshProvider = provider
}
