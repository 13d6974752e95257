package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32At(buf []byte, index int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[index*4:]))
}

func TestMeshEncodeMatchesStride(t *testing.T) {
	layouts := []material.VertexLayout{material.BaseLayout(), material.ColoredLayout(), material.LayeredLayout()}
	for _, mesh := range []Mesh{Quad(), Triangle(), Cube()} {
		for _, l := range layouts {
			data, err := mesh.Encode(l)
			require.NoError(t, err)
			assert.Len(t, data, len(mesh.Vertices)*int(l.Stride()), "%s/%s", mesh.Label, l.Tag)
		}
	}
}

func TestMeshEncodeLayered(t *testing.T) {
	mesh := Quad().WithLayer(2).WithColor(mgl32.Vec4{1, 0, 0, 1})
	data, err := mesh.Encode(material.LayeredLayout())
	require.NoError(t, err)

	// position(3) uv(3) color(4) per vertex
	assert.Equal(t, float32(-0.5), f32At(data, 0))
	assert.Equal(t, float32(0), f32At(data, 3))
	assert.Equal(t, float32(1), f32At(data, 4))
	assert.Equal(t, float32(2), f32At(data, 5))
	assert.Equal(t, float32(1), f32At(data, 6))
	assert.Equal(t, float32(0), f32At(data, 7))

	assert.Equal(t, float32(0), Quad().Vertices[0].Layer, "WithLayer copies")
}

func TestMeshEncodeUnsupportedAttribute(t *testing.T) {
	l := material.BaseLayout()
	l.Attributes = append(l.Attributes, material.VertexAttribute{
		Semantic: "normal", Components: 3, Element: material.ElementTypeFloat32, Location: 2,
	})
	_, err := Quad().Encode(l)
	assert.Error(t, err)
}

func TestPrimitives(t *testing.T) {
	cube := Cube()
	assert.Len(t, cube.Vertices, 24)
	assert.Len(t, cube.Indices, 36)
	for _, i := range cube.Indices {
		assert.Less(t, int(i), len(cube.Vertices))
	}
	assert.Len(t, Quad().IndexData(), 24)
	assert.Equal(t, mgl32.Vec2{0.5, 0}, Triangle().Vertices[0].UV)
}

func TestModelUniform(t *testing.T) {
	tr := NewTransform()
	tr.Translation = mgl32.Vec3{1, 2, 3}
	tr.Scale = mgl32.Vec3{2, 2, 2}

	m := NewModel(WithName("sprite"), WithTransform(tr), WithSlot(3))
	u := m.Uniform()
	assert.Equal(t, 64, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 64)
	assert.Equal(t, float32(2), f32At(buf, 0))
	assert.Equal(t, float32(1), f32At(buf, 12))
	assert.Equal(t, float32(3), f32At(buf, 14))
	assert.Equal(t, 3, m.Slot())

	data, err := m.VertexData()
	require.NoError(t, err)
	assert.Len(t, data, 4*20)
}

func TestModelVertexDataFollowsMaterial(t *testing.T) {
	mat, err := material.NewMaterial(material.WithVariant(material.KindColoredTextured, material.FeatureColored))
	require.NoError(t, err)

	m := NewModel(WithMesh(Triangle()), WithMaterial(mat))
	data, err := m.VertexData()
	require.NoError(t, err)
	assert.Len(t, data, 3*36)
}
