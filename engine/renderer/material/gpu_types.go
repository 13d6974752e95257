package material

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/layout"
	"github.com/go-gl/mathgl/mgl32"
)

// Bind group indices shared by every material kind. Shader templates declare their resources
// with these numbers; changing one requires changing the templates too.
const (
	// GroupModel carries the per-draw model transform.
	GroupModel uint32 = 0
	// GroupView carries the per-view camera data.
	GroupView uint32 = 1
	// GroupMaterial is the first group holding material resources.
	GroupMaterial uint32 = 2
)

// ModelBlock is the per-draw model uniform at group 0.
var ModelBlock = layout.UniformBlock{
	Name: "ModelUniform",
	Fields: []layout.UniformField{
		{Name: "model", Type: layout.FieldTypeMat4},
	},
}

// ViewBlock is the per-view camera uniform at group 1 (416 bytes).
var ViewBlock = layout.UniformBlock{
	Name: "ViewUniform",
	Fields: []layout.UniformField{
		{Name: "view_proj", Type: layout.FieldTypeMat4},
		{Name: "inverse_view_proj", Type: layout.FieldTypeMat4},
		{Name: "view", Type: layout.FieldTypeMat4},
		{Name: "inverse_view", Type: layout.FieldTypeMat4},
		{Name: "projection", Type: layout.FieldTypeMat4},
		{Name: "inverse_projection", Type: layout.FieldTypeMat4},
		{Name: "world_position", Type: layout.FieldTypeVec3},
		{Name: "viewport", Type: layout.FieldTypeVec4},
	},
}

// ColorBlock is a solid RGBA color uniform.
var ColorBlock = layout.UniformBlock{
	Name: "ColorUniform",
	Fields: []layout.UniformField{
		{Name: "color", Type: layout.FieldTypeVec4},
	},
}

// RadiusBlock is the masked-circle radius uniform (one f32 padded to 16 bytes).
var RadiusBlock = layout.UniformBlock{
	Name: "RadiusUniform",
	Fields: []layout.UniformField{
		{Name: "radius", Type: layout.FieldTypeF32},
	},
}

// UniformBlocks returns the shared uniform blocks by their WGSL struct name. Shader templates
// include them by name.
func UniformBlocks() map[string]layout.UniformBlock {
	return map[string]layout.UniformBlock{
		ModelBlock.Name:  ModelBlock,
		ViewBlock.Name:   ViewBlock,
		ColorBlock.Name:  ColorBlock,
		RadiusBlock.Name: RadiusBlock,
	}
}

var (
	colorLayout  = layout.MustEncode(ColorBlock)
	radiusLayout = layout.MustEncode(RadiusBlock)
)

// GPUColorUniform is the host-side value of ColorBlock.
// Size: 16 bytes.
type GPUColorUniform struct {
	Color mgl32.Vec4 // offset 0: RGBA color (vec4<f32>)
}

// Size returns the encoded size of the uniform in bytes.
//
// Returns:
//   - int: the size in bytes (16)
func (g *GPUColorUniform) Size() int {
	return int(colorLayout.Size)
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer
func (g *GPUColorUniform) Marshal() []byte {
	w := layout.NewUniformWriter(colorLayout)
	layout.MustWrite(w.SetVec4("color", g.Color))
	return w.Bytes()
}

// GPURadiusUniform is the host-side value of RadiusBlock.
// Size: 16 bytes (4 used, 12 padding).
type GPURadiusUniform struct {
	Radius float32 // offset 0: mask radius in uv units (f32)
}

// Size returns the encoded size of the uniform in bytes.
//
// Returns:
//   - int: the size in bytes (16)
func (g *GPURadiusUniform) Size() int {
	return int(radiusLayout.Size)
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer
func (g *GPURadiusUniform) Marshal() []byte {
	w := layout.NewUniformWriter(radiusLayout)
	layout.MustWrite(w.SetF32("radius", g.Radius))
	return w.Bytes()
}
