package model

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the superset of per-vertex data a mesh can provide. Encode writes only the
// attributes a vertex layout asks for.
type Vertex struct {
	Position mgl32.Vec3
	UV       mgl32.Vec2
	// Layer is the texture array layer, written as the third uv component of layered layouts.
	Layer float32
	Color mgl32.Vec4
}

// Mesh is indexed triangle-list geometry in model space.
type Mesh struct {
	Label    string
	Vertices []Vertex
	Indices  []uint32
}

var white = mgl32.Vec4{1, 1, 1, 1}

// Quad returns a unit quad centered on the origin in the XY plane, facing +Z.
func Quad() Mesh {
	return Mesh{
		Label: "quad",
		Vertices: []Vertex{
			{Position: mgl32.Vec3{-0.5, -0.5, 0}, UV: mgl32.Vec2{0, 1}, Color: white},
			{Position: mgl32.Vec3{0.5, -0.5, 0}, UV: mgl32.Vec2{1, 1}, Color: white},
			{Position: mgl32.Vec3{0.5, 0.5, 0}, UV: mgl32.Vec2{1, 0}, Color: white},
			{Position: mgl32.Vec3{-0.5, 0.5, 0}, UV: mgl32.Vec2{0, 0}, Color: white},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Triangle returns a unit triangle in the XY plane with uvs mapped from positions.
func Triangle() Mesh {
	positions := []mgl32.Vec3{{0, 0.5, 0}, {-0.5, -0.5, 0}, {0.5, -0.5, 0}}
	m := Mesh{Label: "triangle", Indices: []uint32{0, 1, 2}}
	for _, p := range positions {
		m.Vertices = append(m.Vertices, Vertex{
			Position: p,
			UV:       mgl32.Vec2{p.X() + 0.5, 0.5 - p.Y()},
			Color:    white,
		})
	}
	return m
}

// Cube returns a unit cube centered on the origin with four vertices per face so each face
// carries its own uvs.
func Cube() Mesh {
	faces := [6][4]mgl32.Vec3{
		{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}},
		{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}},
		{{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}},
		{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}},
		{{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}},
		{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}},
	}
	uvs := [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	m := Mesh{Label: "cube"}
	for f, face := range faces {
		base := uint32(f * 4)
		for i, p := range face {
			m.Vertices = append(m.Vertices, Vertex{Position: p, UV: uvs[i], Color: white})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// WithColor returns a copy of the mesh with every vertex colored c.
func (m Mesh) WithColor(c mgl32.Vec4) Mesh {
	out := m.clone()
	for i := range out.Vertices {
		out.Vertices[i].Color = c
	}
	return out
}

// WithLayer returns a copy of the mesh sampling texture array layer for every vertex.
func (m Mesh) WithLayer(layer int) Mesh {
	out := m.clone()
	for i := range out.Vertices {
		out.Vertices[i].Layer = float32(layer)
	}
	return out
}

func (m Mesh) clone() Mesh {
	out := Mesh{Label: m.Label}
	out.Vertices = append(out.Vertices, m.Vertices...)
	out.Indices = append(out.Indices, m.Indices...)
	return out
}

// Encode interleaves the mesh vertices for a vertex layout. Each vertex is written with exactly
// the attributes of the layout in attribute order, so the result length is
// len(Vertices) * l.Stride().
//
// Parameters:
//   - l: the vertex layout of the pipeline the mesh is drawn with
//
// Returns:
//   - []byte: the interleaved little-endian vertex data
//   - error: if the layout has an attribute the mesh cannot provide
func (m Mesh) Encode(l material.VertexLayout) ([]byte, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, uint64(len(m.Vertices))*l.Stride())
	for _, v := range m.Vertices {
		for _, a := range l.Attributes {
			values, err := v.attribute(a)
			if err != nil {
				return nil, errors.Wrapf(err, "mesh %q", m.Label)
			}
			for _, f := range values {
				buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
			}
		}
	}
	return buf, nil
}

func (v Vertex) attribute(a material.VertexAttribute) ([]float32, error) {
	switch {
	case a.Semantic == material.SemanticPosition && a.Components == 3:
		return v.Position[:], nil
	case a.Semantic == material.SemanticUV && a.Components == 2:
		return v.UV[:], nil
	case a.Semantic == material.SemanticUV && a.Components == 3:
		return []float32{v.UV.X(), v.UV.Y(), v.Layer}, nil
	case a.Semantic == material.SemanticColor && a.Components == 4:
		return v.Color[:], nil
	default:
		return nil, errors.Newf("no vertex data for %s with %d components", a.Semantic, a.Components)
	}
}

// IndexData returns the indices as little-endian uint32 bytes.
func (m Mesh) IndexData() []byte {
	buf := make([]byte, 0, len(m.Indices)*4)
	for _, i := range m.Indices {
		buf = binary.LittleEndian.AppendUint32(buf, i)
	}
	return buf
}
