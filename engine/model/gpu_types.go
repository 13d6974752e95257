package model

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/layout"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

var modelLayout = layout.MustEncode(material.ModelBlock)

// GPUModelUniform is the host-side value of the group 0 model uniform.
// Size: 64 bytes (one mat4x4<f32>).
type GPUModelUniform struct {
	Model mgl32.Mat4 // offset 0: model-to-world transform (mat4x4<f32>)
}

// Size returns the encoded size of the uniform in bytes.
//
// Returns:
//   - int: the size in bytes (64)
func (g *GPUModelUniform) Size() int {
	return int(modelLayout.Size)
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer
func (g *GPUModelUniform) Marshal() []byte {
	w := layout.NewUniformWriter(modelLayout)
	layout.MustWrite(w.SetMat4("model", g.Model))
	return w.Bytes()
}
