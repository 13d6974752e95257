package layout

import (
	"fmt"
	"strings"
)

// WGSL emits the WGSL struct declaration for the block so that shader templates and host
// buffers are shaped by the same declaration.
//
// Returns:
//   - string: the struct declaration, e.g. "struct ColorUniform {\n    color: vec4<f32>,\n};"
//   - error: a *LayoutError if the block does not encode
func (b UniformBlock) WGSL() (string, error) {
	if _, err := Encode(b); err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "struct %s {\n", b.Name)
	for _, f := range b.Fields {
		fmt.Fprintf(&sb, "    %s: %s,\n", f.Name, f.Type.WGSL())
	}
	sb.WriteString("};")
	return sb.String(), nil
}
