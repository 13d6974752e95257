// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"image"
	"image/draw"

	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	// Array textures store their layers back to back.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
	// Layers is the number of array layers. Zero means a plain 2D texture.
	Layers uint32
}

// LayerCount returns the number of layers the texture uploads, at least 1.
func (t *TextureStagingData) LayerCount() uint32 {
	return max(t.Layers, 1)
}

// Validate checks that the pixel buffer matches the declared dimensions.
//
// Returns:
//   - error: nil if len(Pixels) == Width * Height * 4 * LayerCount()
func (t *TextureStagingData) Validate() error {
	if t.Width == 0 || t.Height == 0 {
		return errors.Newf("texture has empty extent %dx%d", t.Width, t.Height)
	}
	want := int(t.Width) * int(t.Height) * 4 * int(t.LayerCount())
	if len(t.Pixels) != want {
		return errors.Newf("texture %dx%dx%d needs %d bytes, got %d", t.Width, t.Height, t.LayerCount(), want, len(t.Pixels))
	}
	return nil
}

// SolidTexture creates staging data of the given extent filled with one RGBA color.
//
// Parameters:
//   - width, height: the extent in pixels
//   - layers: the array layer count, 0 for a plain 2D texture
//   - rgba: the fill color
//
// Returns:
//   - *TextureStagingData: the filled staging data
func SolidTexture(width, height, layers uint32, rgba [4]byte) *TextureStagingData {
	t := &TextureStagingData{Width: width, Height: height, Layers: layers}
	t.Pixels = make([]byte, 0, int(width)*int(height)*4*int(t.LayerCount()))
	for range int(width) * int(height) * int(t.LayerCount()) {
		t.Pixels = append(t.Pixels, rgba[:]...)
	}
	return t
}

// TextureFromImages converts decoded images into staging data. One image yields a 2D texture,
// several yield an array texture with one layer per image. All images must share the first
// image's size.
//
// Parameters:
//   - images: the decoded images in layer order
//
// Returns:
//   - *TextureStagingData: the RGBA staging data
//   - error: if no image is given or sizes differ
func TextureFromImages(images ...image.Image) (*TextureStagingData, error) {
	if len(images) == 0 {
		return nil, errors.New("no images to stage")
	}
	bounds := images[0].Bounds()
	t := &TextureStagingData{Width: uint32(bounds.Dx()), Height: uint32(bounds.Dy())}
	if len(images) > 1 {
		t.Layers = uint32(len(images))
	}

	for i, img := range images {
		b := img.Bounds()
		if b.Dx() != bounds.Dx() || b.Dy() != bounds.Dy() {
			return nil, errors.Newf("image %d is %dx%d, expected %dx%d", i, b.Dx(), b.Dy(), bounds.Dx(), bounds.Dy())
		}
		rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
		t.Pixels = append(t.Pixels, rgba.Pix...)
	}
	return t, nil
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// This is primarily used in the BindGroupProvider to stage sampler data before creating the GPU sampler and bind group.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}
