package shader

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
)

// wgslVertexComponentMap maps WGSL float vertex input types to their component count
var wgslVertexComponentMap = map[string]int{
	"f32":       1,
	"vec2f":     2,
	"vec2<f32>": 2,
	"vec3f":     3,
	"vec3<f32>": 3,
	"vec4f":     4,
	"vec4<f32>": 4,
}

// wgslHandleKindMap maps WGSL handle type base names to the binding slot kind they satisfy
var wgslHandleKindMap = map[string]bind_group_schema.ResourceKind{
	"texture_2d":       bind_group_schema.ResourceKindTexture,
	"texture_2d_array": bind_group_schema.ResourceKindTextureArray,
	"sampler":          bind_group_schema.ResourceKindSampler,
}

// classifyBinding maps a declaration's address space and type onto a binding slot kind.
// Uniform buffers require the uniform address space; sampled textures must sample f32.
//
// Parameters:
//   - addressSpace: the var<> address space, empty for handle types
//   - typeName: the declared WGSL type
//
// Returns:
//   - bind_group_schema.ResourceKind: the matching kind, or ResourceKindInvalid
func classifyBinding(addressSpace, typeName string) bind_group_schema.ResourceKind {
	if addressSpace == "uniform" {
		return bind_group_schema.ResourceKindUniformBuffer
	}
	if addressSpace != "" {
		return bind_group_schema.ResourceKindInvalid
	}

	base, params := splitTypeParams(typeName)
	kind, ok := wgslHandleKindMap[base]
	if !ok {
		return bind_group_schema.ResourceKindInvalid
	}
	if kind != bind_group_schema.ResourceKindSampler && params != "f32" {
		return bind_group_schema.ResourceKindInvalid
	}
	return kind
}

// splitTypeParams splits a parameterized WGSL type into its base name and the
// content between the outermost angle brackets.
//
// Parameters:
//   - typeName: the WGSL type, e.g. texture_2d<f32>
//
// Returns:
//   - base: the type name before <, e.g. texture_2d
//   - params: the parameters, e.g. f32, empty if the type has none
func splitTypeParams(typeName string) (base string, params string) {
	open := strings.IndexByte(typeName, '<')
	if open < 0 {
		return strings.TrimSpace(typeName), ""
	}
	end := strings.LastIndexByte(typeName, '>')
	if end < open {
		return strings.TrimSpace(typeName[:open]), ""
	}
	return strings.TrimSpace(typeName[:open]), strings.TrimSpace(typeName[open+1 : end])
}

// stripComments removes both line comments (//) and block comments (/* */) from WGSL source.
//
// Parameters:
//   - source: raw WGSL source string
//
// Returns:
//   - string: source with all comments removed
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

// stripLineComments removes single-line // comments from WGSL source so they
// do not interfere with struct and field parsing
func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes block comments (/* ... */) from WGSL source,
// handling nested block comments the way WGSL does
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	i := 0
	for i < len(source) {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i += 2
				continue
			}
			if source[i] == '*' && source[i+1] == '/' {
				if depth > 0 {
					depth--
				}
				i += 2
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
		i++
	}
	return sb.String()
}

// isVertexInputStruct returns true if the struct is a pure vertex input, meaning
// it has at least one @location field and zero @builtin fields. This distinguishes
// vertex input structs from vertex output structs which mix @location with @builtin(position).
//
// Parameters:
//   - ps: the parsed struct to check
//
// Returns:
//   - bool: true if this is a vertex input struct
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// splitAtTopLevelCommas splits a string at commas that are not nested inside angle brackets.
// This correctly handles WGSL types like array<f32, 4> where the comma is part of
// the type syntax rather than a field separator.
//
// Parameters:
//   - s: the string to split (typically the body of a WGSL struct)
//
// Returns:
//   - []string: substrings between top-level commas
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
