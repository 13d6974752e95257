package model

import "github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"

// ModelBuilderOption is a function that configures a model instance during construction.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the model.
//
// Parameters:
//   - name: the identifier for the model
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMesh is an option builder that sets the model geometry.
//
// Parameters:
//   - mesh: the mesh to draw
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh option to a model
func WithMesh(mesh Mesh) ModelBuilderOption {
	return func(m *model) {
		m.mesh = mesh
	}
}

// WithTransform is an option builder that sets the initial transform.
//
// Parameters:
//   - t: the model transform
//
// Returns:
//   - ModelBuilderOption: a function that applies the transform option to a model
func WithTransform(t Transform) ModelBuilderOption {
	return func(m *model) {
		m.transform = t
	}
}

// WithMaterial is an option builder that sets the material the model is drawn with.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - ModelBuilderOption: a function that applies the material option to a model
func WithMaterial(mat material.Material) ModelBuilderOption {
	return func(m *model) {
		m.material = mat
	}
}

// WithSlot is an option builder that assigns the model's slot in the shared model uniform buffer.
//
// Parameters:
//   - slot: the dynamic-offset slot index
//
// Returns:
//   - ModelBuilderOption: a function that applies the slot option to a model
func WithSlot(slot int) ModelBuilderOption {
	return func(m *model) {
		m.slot = slot
	}
}
