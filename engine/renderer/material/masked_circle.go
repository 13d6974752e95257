package material

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MissColor is returned by the masked-circle fragment outside the mask. Visual-diff tests rely on
// the exact value.
var MissColor = mgl32.Vec4{1.0, 0.0, 1.0, 0.1}

// MaskCenter is the uv center of the masked-circle mask.
var MaskCenter = mgl32.Vec2{0.5, 0.5}

// ShadeMaskedCircle evaluates the masked-circle fragment on the CPU. A fragment whose uv lies
// within radius of MaskCenter gets color, any other fragment gets MissColor.
//
// Parameters:
//   - uv: the interpolated texture coordinate
//   - radius: the mask radius in uv units
//   - color: the configured circle color
//
// Returns:
//   - mgl32.Vec4: the fragment color
func ShadeMaskedCircle(uv mgl32.Vec2, radius float32, color mgl32.Vec4) mgl32.Vec4 {
	d := math32.Hypot(uv.X()-MaskCenter.X(), uv.Y()-MaskCenter.Y())
	if d <= radius {
		return color
	}
	return MissColor
}

// LayerIndex converts the float-encoded layer in a layered uv's z component to the integer
// array layer sampled, truncating toward zero like the WGSL i32 conversion.
func LayerIndex(z float32) int32 {
	return int32(math32.Trunc(z))
}
