package camera

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/layout"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

var viewLayout = layout.MustEncode(material.ViewBlock)

// GPUViewUniform is the host-side value of the group 1 view uniform.
// Size: 416 bytes (six mat4x4<f32>, a vec3 padded to 16 bytes, a vec4).
type GPUViewUniform struct {
	ViewProj          mgl32.Mat4 // offset   0: projection * view
	InverseViewProj   mgl32.Mat4 // offset  64
	View              mgl32.Mat4 // offset 128: world-to-view
	InverseView       mgl32.Mat4 // offset 192
	Projection        mgl32.Mat4 // offset 256: view-to-clip, WebGPU depth range
	InverseProjection mgl32.Mat4 // offset 320
	WorldPosition     mgl32.Vec3 // offset 384: camera position in world space (vec3<f32>)
	Viewport          mgl32.Vec4 // offset 400: x, y, width, height in pixels
}

// Size returns the encoded size of the uniform in bytes.
//
// Returns:
//   - int: the size in bytes (416)
func (g *GPUViewUniform) Size() int {
	return int(viewLayout.Size)
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 416-byte buffer
func (g *GPUViewUniform) Marshal() []byte {
	w := layout.NewUniformWriter(viewLayout)
	layout.MustWrite(w.SetMat4("view_proj", g.ViewProj))
	layout.MustWrite(w.SetMat4("inverse_view_proj", g.InverseViewProj))
	layout.MustWrite(w.SetMat4("view", g.View))
	layout.MustWrite(w.SetMat4("inverse_view", g.InverseView))
	layout.MustWrite(w.SetMat4("projection", g.Projection))
	layout.MustWrite(w.SetMat4("inverse_projection", g.InverseProjection))
	layout.MustWrite(w.SetVec3("world_position", g.WorldPosition))
	layout.MustWrite(w.SetVec4("viewport", g.Viewport))
	return w.Bytes()
}
