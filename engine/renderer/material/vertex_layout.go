package material

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// ElementType is the scalar type of each component of a vertex attribute.
type ElementType int

const (
	ElementTypeInvalid ElementType = iota
	ElementTypeFloat32
)

// Size returns the byte size of one component.
func (e ElementType) Size() uint64 {
	if e == ElementTypeFloat32 {
		return 4
	}
	return 0
}

func (e ElementType) String() string {
	if e == ElementTypeFloat32 {
		return "f32"
	}
	return "invalid"
}

// Vertex attribute semantics understood by the mesh encoder and the shader templates.
const (
	SemanticPosition = "position"
	SemanticUV       = "uv"
	SemanticColor    = "color"
)

// VertexAttribute is a single per-vertex input of a vertex layout.
type VertexAttribute struct {
	// Semantic names the data the attribute carries (position, uv, color).
	Semantic string
	// Components is the number of elements, 2 to 4.
	Components int
	// Element is the scalar type of each component.
	Element ElementType
	// Location is the shader input location.
	Location uint32
}

// Size returns the byte size of the attribute.
func (a VertexAttribute) Size() uint64 {
	return uint64(a.Components) * a.Element.Size()
}

// Format maps the attribute onto a wgpu vertex format, or wgpu.VertexFormatUndefined if the
// combination has no wgpu equivalent.
func (a VertexAttribute) Format() wgpu.VertexFormat {
	if a.Element != ElementTypeFloat32 {
		return wgpu.VertexFormatUndefined
	}
	switch a.Components {
	case 2:
		return wgpu.VertexFormatFloat32x2
	case 3:
		return wgpu.VertexFormatFloat32x3
	case 4:
		return wgpu.VertexFormatFloat32x4
	default:
		return wgpu.VertexFormatUndefined
	}
}

// WGSL returns the WGSL type of the attribute, e.g. vec3<f32>.
func (a VertexAttribute) WGSL() string {
	return fmt.Sprintf("vec%d<%s>", a.Components, a.Element)
}

// VertexLayoutTag names one of the fixed vertex layout shapes. Feature flags that change the
// vertex struct select a different tag rather than toggling attributes at runtime.
type VertexLayoutTag string

const (
	// VertexLayoutBase is position + uv.
	VertexLayoutBase VertexLayoutTag = "base"
	// VertexLayoutColored is position + uv + per-vertex color.
	VertexLayoutColored VertexLayoutTag = "colored"
	// VertexLayoutLayered is position + uv with a layer index in z + per-vertex color.
	VertexLayoutLayered VertexLayoutTag = "layered"
)

// VertexLayout is the ordered set of attributes of one interleaved vertex buffer. Attribute
// order and locations match the vertex shader inputs exactly.
type VertexLayout struct {
	Tag        VertexLayoutTag
	Attributes []VertexAttribute
}

// BaseLayout returns the position + uv layout.
//
// Returns:
//   - VertexLayout: a fresh layout value
func BaseLayout() VertexLayout {
	return VertexLayout{
		Tag: VertexLayoutBase,
		Attributes: []VertexAttribute{
			{Semantic: SemanticPosition, Components: 3, Element: ElementTypeFloat32, Location: 0},
			{Semantic: SemanticUV, Components: 2, Element: ElementTypeFloat32, Location: 1},
		},
	}
}

// ColoredLayout returns the base layout with a vec4 color attribute appended at location 2.
//
// Returns:
//   - VertexLayout: a fresh layout value
func ColoredLayout() VertexLayout {
	l := BaseLayout()
	l.Tag = VertexLayoutColored
	l.Attributes = append(l.Attributes, VertexAttribute{Semantic: SemanticColor, Components: 4, Element: ElementTypeFloat32, Location: 2})
	return l
}

// LayeredLayout returns the texture array layout: uv carries the layer index as its third
// component and a vec4 color attribute follows at location 2.
//
// Returns:
//   - VertexLayout: a fresh layout value
func LayeredLayout() VertexLayout {
	return VertexLayout{
		Tag: VertexLayoutLayered,
		Attributes: []VertexAttribute{
			{Semantic: SemanticPosition, Components: 3, Element: ElementTypeFloat32, Location: 0},
			{Semantic: SemanticUV, Components: 3, Element: ElementTypeFloat32, Location: 1},
			{Semantic: SemanticColor, Components: 4, Element: ElementTypeFloat32, Location: 2},
		},
	}
}

// Attribute returns the attribute carrying the given semantic.
func (l VertexLayout) Attribute(semantic string) (VertexAttribute, bool) {
	for _, a := range l.Attributes {
		if a.Semantic == semantic {
			return a, true
		}
	}
	return VertexAttribute{}, false
}

// Stride returns the byte distance between consecutive vertices.
func (l VertexLayout) Stride() uint64 {
	var stride uint64
	for _, a := range l.Attributes {
		stride += a.Size()
	}
	return stride
}

// Validate checks that every attribute maps to a wgpu vertex format and that semantics and
// locations are unique.
//
// Returns:
//   - error: nil if the layout is usable for a vertex buffer
func (l VertexLayout) Validate() error {
	semantics := make(map[string]bool, len(l.Attributes))
	locations := make(map[uint32]bool, len(l.Attributes))
	for _, a := range l.Attributes {
		if a.Format() == wgpu.VertexFormatUndefined {
			return errors.Newf("vertex layout %s: attribute %q has no vertex format for %d x %s", l.Tag, a.Semantic, a.Components, a.Element)
		}
		if semantics[a.Semantic] {
			return errors.Newf("vertex layout %s: semantic %q repeats", l.Tag, a.Semantic)
		}
		if locations[a.Location] {
			return errors.Newf("vertex layout %s: location %d repeats", l.Tag, a.Location)
		}
		semantics[a.Semantic] = true
		locations[a.Location] = true
	}
	return nil
}

// BufferLayout converts the layout into a per-vertex wgpu vertex buffer layout with tightly
// packed offsets in attribute order.
//
// Returns:
//   - wgpu.VertexBufferLayout: the buffer layout for the render pipeline
func (l VertexLayout) BufferLayout() wgpu.VertexBufferLayout {
	attrs := make([]wgpu.VertexAttribute, 0, len(l.Attributes))
	var offset uint64
	for _, a := range l.Attributes {
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         a.Format(),
			Offset:         offset,
			ShaderLocation: a.Location,
		})
		offset += a.Size()
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: l.Stride(),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}
}

// WGSL emits the VertexInput struct declaration matching the layout.
func (l VertexLayout) WGSL() string {
	var b strings.Builder
	b.WriteString("struct VertexInput {\n")
	for _, a := range l.Attributes {
		fmt.Fprintf(&b, "    @location(%d) %s: %s,\n", a.Location, a.Semantic, a.WGSL())
	}
	b.WriteString("};")
	return b.String()
}

// Equal reports whether two layouts have the same tag and attribute sequence.
func (l VertexLayout) Equal(o VertexLayout) bool {
	if l.Tag != o.Tag || len(l.Attributes) != len(o.Attributes) {
		return false
	}
	for i := range l.Attributes {
		if l.Attributes[i] != o.Attributes[i] {
			return false
		}
	}
	return true
}

// AppendCanonical appends a canonical byte encoding of the layout's structure to buf.
func (l VertexLayout) AppendCanonical(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(l.Attributes)))
	for _, a := range l.Attributes {
		buf = binary.LittleEndian.AppendUint32(buf, a.Location)
		buf = append(buf, byte(a.Components), byte(a.Element))
		buf = append(buf, a.Semantic...)
		buf = append(buf, 0)
	}
	return buf
}
