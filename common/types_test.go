package common

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolidTexture(t *testing.T) {
	tex := SolidTexture(2, 3, 0, [4]byte{1, 2, 3, 4})
	require.NoError(t, tex.Validate())
	assert.Equal(t, uint32(1), tex.LayerCount())
	assert.Len(t, tex.Pixels, 2*3*4)
	assert.Equal(t, []byte{1, 2, 3, 4}, tex.Pixels[20:])

	layered := SolidTexture(1, 1, 3, [4]byte{255, 255, 255, 255})
	require.NoError(t, layered.Validate())
	assert.Equal(t, uint32(3), layered.LayerCount())
	assert.Len(t, layered.Pixels, 12)
}

func TestTextureValidate(t *testing.T) {
	tex := &TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 15)}
	assert.ErrorContains(t, tex.Validate(), "needs 16 bytes, got 15")

	empty := &TextureStagingData{Width: 0, Height: 4}
	assert.ErrorContains(t, empty.Validate(), "empty extent")
}

func TestTextureFromImages(t *testing.T) {
	red := image.NewRGBA(image.Rect(0, 0, 2, 2))
	blue := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			red.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
			blue.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
		}
	}

	single, err := TextureFromImages(red)
	require.NoError(t, err)
	assert.Zero(t, single.Layers)
	require.NoError(t, single.Validate())

	array, err := TextureFromImages(red, blue)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), array.Layers)
	require.NoError(t, array.Validate())
	assert.Equal(t, []byte{255, 0, 0, 255}, array.Pixels[:4])
	assert.Equal(t, []byte{0, 0, 255, 255}, array.Pixels[16:20])

	_, err = TextureFromImages()
	assert.Error(t, err)

	_, err = TextureFromImages(red, image.NewRGBA(image.Rect(0, 0, 3, 2)))
	assert.ErrorContains(t, err, "image 1 is 3x2")
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
	assert.Equal(t, float32(0.5), Coalesce(float32(0), 0.5))
}
