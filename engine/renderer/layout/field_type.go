package layout

import "strings"

// FieldType identifies the WGSL type of a single uniform field.
type FieldType int

const (
	// FieldTypeInvalid is the zero value and never encodes.
	FieldTypeInvalid FieldType = iota

	// FieldTypeMat4 is a 4x4 float matrix (mat4x4<f32>), stored as four vec4-aligned columns.
	FieldTypeMat4

	// FieldTypeVec4 is a four component float vector (vec4<f32>).
	FieldTypeVec4

	// FieldTypeVec3 is a three component float vector (vec3<f32>). It occupies 12 bytes but aligns like a vec4.
	FieldTypeVec3

	// FieldTypeVec2 is a two component float vector (vec2<f32>).
	FieldTypeVec2

	// FieldTypeF32 is a 32-bit float scalar.
	FieldTypeF32

	// FieldTypeI32 is a 32-bit signed integer scalar.
	FieldTypeI32
)

// typeLayout holds the byte size and alignment of a field type in the uniform address space.
type typeLayout struct {
	size  uint64
	align uint64
}

// fieldTypeLayouts maps each recognized field type to its size and alignment.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var fieldTypeLayouts = map[FieldType]typeLayout{
	FieldTypeMat4: {64, 16},
	FieldTypeVec4: {16, 16},
	FieldTypeVec3: {12, 16},
	FieldTypeVec2: {8, 8},
	FieldTypeF32:  {4, 4},
	FieldTypeI32:  {4, 4},
}

// fieldTypeNames maps WGSL and shorthand spellings to field types.
var fieldTypeNames = map[string]FieldType{
	"mat4":        FieldTypeMat4,
	"mat4x4":      FieldTypeMat4,
	"mat4x4f":     FieldTypeMat4,
	"mat4x4<f32>": FieldTypeMat4,
	"vec4":        FieldTypeVec4,
	"vec4f":       FieldTypeVec4,
	"vec4<f32>":   FieldTypeVec4,
	"vec3":        FieldTypeVec3,
	"vec3f":       FieldTypeVec3,
	"vec3<f32>":   FieldTypeVec3,
	"vec2":        FieldTypeVec2,
	"vec2f":       FieldTypeVec2,
	"vec2<f32>":   FieldTypeVec2,
	"f32":         FieldTypeF32,
	"i32":         FieldTypeI32,
}

// ParseFieldType resolves a WGSL type name such as "vec3<f32>", "vec3f" or the shorthand "vec3"
// to its FieldType. Whitespace inside angle brackets is ignored.
//
// Parameters:
//   - name: the type name to resolve
//
// Returns:
//   - FieldType: the resolved type, or FieldTypeInvalid
//   - bool: true if the name was recognized
func ParseFieldType(name string) (FieldType, bool) {
	t, ok := fieldTypeNames[strings.ReplaceAll(strings.TrimSpace(name), " ", "")]
	return t, ok
}

// WGSL returns the canonical WGSL spelling of the type, or an empty string for an unrecognized type.
func (t FieldType) WGSL() string {
	switch t {
	case FieldTypeMat4:
		return "mat4x4<f32>"
	case FieldTypeVec4:
		return "vec4<f32>"
	case FieldTypeVec3:
		return "vec3<f32>"
	case FieldTypeVec2:
		return "vec2<f32>"
	case FieldTypeF32:
		return "f32"
	case FieldTypeI32:
		return "i32"
	default:
		return ""
	}
}

func (t FieldType) String() string {
	switch t {
	case FieldTypeMat4:
		return "mat4"
	case FieldTypeVec4:
		return "vec4"
	case FieldTypeVec3:
		return "vec3"
	case FieldTypeVec2:
		return "vec2"
	case FieldTypeF32:
		return "f32"
	case FieldTypeI32:
		return "i32"
	default:
		return "invalid"
	}
}
