// Package layout computes the byte layout of uniform blocks following the WGSL uniform
// address space rules, and writes host values into buffers shaped by that layout.
package layout

const (
	// BlockAlignment is the alignment every uniform block size is rounded up to.
	BlockAlignment uint64 = 16

	// DynamicOffsetAlignment is the minimum uniform buffer offset alignment guaranteed by WebGPU.
	// Blocks bound with dynamic offsets are laid out in slots of this stride.
	DynamicOffsetAlignment uint64 = 256
)

// UniformField is a single named, typed member of a uniform block.
type UniformField struct {
	Name string
	Type FieldType
}

// UniformBlock is an ordered sequence of uniform fields. Its byte layout is derived by Encode,
// never stored on the block.
type UniformBlock struct {
	// Name is the WGSL struct name emitted for this block, e.g. "ModelUniform".
	Name string
	// Fields are the block members in declared order.
	Fields []UniformField
}

// FieldLayout is the encoded placement of one field within a block.
type FieldLayout struct {
	Name   string
	Type   FieldType
	Offset uint64
	Size   uint64
}

// BlockLayout is the encoded layout of a uniform block.
type BlockLayout struct {
	// Block is the name of the encoded block.
	Block string
	// Fields holds one entry per declared field, in declared order.
	Fields []FieldLayout
	// Size is the total block size rounded up to BlockAlignment.
	Size uint64
	// Align is the block alignment, always BlockAlignment.
	Align uint64
}

// Field looks up the encoded placement of a field by name.
//
// Parameters:
//   - name: the field name
//
// Returns:
//   - FieldLayout: the field placement, or the zero value if absent
//   - bool: true if the field exists in the block
func (l BlockLayout) Field(name string) (FieldLayout, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldLayout{}, false
}

// Encode computes the byte layout of a uniform block. Each field is placed at the next offset
// aligned to its type (scalars 4, vec2 8, vec3/vec4/mat4 16) and the block size is rounded up to
// a multiple of 16. Encoding is deterministic: blocks with the same ordered type sequence always
// produce the same offsets.
//
// Parameters:
//   - block: the uniform block to encode
//
// Returns:
//   - BlockLayout: the computed layout
//   - error: a *LayoutError if a field type is unrecognized or a field name repeats
func Encode(block UniformBlock) (BlockLayout, error) {
	fields := make([]FieldLayout, 0, len(block.Fields))
	seen := make(map[string]int, len(block.Fields))
	var cursor uint64

	for i, f := range block.Fields {
		if f.Name == "" {
			return BlockLayout{}, newLayoutError(block.Name, f.Name, i, "field name is empty")
		}
		if first, ok := seen[f.Name]; ok {
			return BlockLayout{}, newLayoutError(block.Name, f.Name, i, "duplicate field name, first declared at index %d", first)
		}
		seen[f.Name] = i

		tl, ok := fieldTypeLayouts[f.Type]
		if !ok {
			return BlockLayout{}, newLayoutError(block.Name, f.Name, i, "unrecognized field type %q", f.Type.String())
		}

		cursor = roundUpAlign(tl.align, cursor)
		fields = append(fields, FieldLayout{
			Name:   f.Name,
			Type:   f.Type,
			Offset: cursor,
			Size:   tl.size,
		})
		cursor += tl.size
	}

	return BlockLayout{
		Block:  block.Name,
		Fields: fields,
		Size:   roundUpAlign(BlockAlignment, cursor),
		Align:  BlockAlignment,
	}, nil
}

// MustEncode is like Encode but panics on error. It is meant for package-level block
// declarations whose shape is fixed at compile time.
func MustEncode(block UniformBlock) BlockLayout {
	l, err := Encode(block)
	if err != nil {
		panic(err)
	}
	return l
}

// AlignDynamicOffset rounds a block size up to the dynamic offset slot stride.
//
// Parameters:
//   - size: the encoded block size
//
// Returns:
//   - uint64: the stride between consecutive dynamic offset slots
func AlignDynamicOffset(size uint64) uint64 {
	return roundUpAlign(DynamicOffsetAlignment, size)
}

// roundUpAlign rounds value up to the next multiple of alignment.
// Alignment must be a power of two.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}
