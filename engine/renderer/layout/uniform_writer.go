package layout

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// uniformWriter is the implementation of the UniformWriter interface.
type uniformWriter struct {
	layout BlockLayout
	buf    []byte
}

// MustWrite panics if a write into a package-level block fails, which means the host struct and
// its block declaration no longer agree.
func MustWrite(err error) {
	if err != nil {
		panic(err)
	}
}

// UniformWriter writes host values into a byte buffer at the offsets of an encoded block.
// Padding bytes stay zero. All values are written little-endian, matching GPU uniform buffers.
type UniformWriter interface {
	// Layout returns the block layout this writer targets.
	//
	// Returns:
	//   - BlockLayout: the encoded layout
	Layout() BlockLayout

	// SetMat4 writes a column-major 4x4 matrix into a mat4 field.
	//
	// Parameters:
	//   - name: the field name
	//   - m: the matrix to write
	//
	// Returns:
	//   - error: a *LayoutError if the field is missing or is not a mat4
	SetMat4(name string, m mgl32.Mat4) error

	// SetVec4 writes a vec4 field.
	//
	// Parameters:
	//   - name: the field name
	//   - v: the vector to write
	//
	// Returns:
	//   - error: a *LayoutError if the field is missing or is not a vec4
	SetVec4(name string, v mgl32.Vec4) error

	// SetVec3 writes a vec3 field. The trailing 4 bytes of the vec3 slot are left untouched so a
	// following scalar packed into the slot is preserved.
	//
	// Parameters:
	//   - name: the field name
	//   - v: the vector to write
	//
	// Returns:
	//   - error: a *LayoutError if the field is missing or is not a vec3
	SetVec3(name string, v mgl32.Vec3) error

	// SetVec2 writes a vec2 field.
	//
	// Parameters:
	//   - name: the field name
	//   - v: the vector to write
	//
	// Returns:
	//   - error: a *LayoutError if the field is missing or is not a vec2
	SetVec2(name string, v mgl32.Vec2) error

	// SetF32 writes an f32 field.
	//
	// Parameters:
	//   - name: the field name
	//   - v: the value to write
	//
	// Returns:
	//   - error: a *LayoutError if the field is missing or is not an f32
	SetF32(name string, v float32) error

	// SetI32 writes an i32 field.
	//
	// Parameters:
	//   - name: the field name
	//   - v: the value to write
	//
	// Returns:
	//   - error: a *LayoutError if the field is missing or is not an i32
	SetI32(name string, v int32) error

	// Bytes returns the buffer contents. The slice is owned by the writer and is only valid
	// until the next Set call or Reset.
	//
	// Returns:
	//   - []byte: a buffer of exactly Layout().Size bytes
	Bytes() []byte

	// Reset zeroes the buffer.
	Reset()
}

var _ UniformWriter = &uniformWriter{}

// NewUniformWriter creates a zeroed UniformWriter for the given block layout.
//
// Parameters:
//   - l: the encoded block layout
//
// Returns:
//   - UniformWriter: a writer backed by a buffer of l.Size bytes
func NewUniformWriter(l BlockLayout) UniformWriter {
	return &uniformWriter{
		layout: l,
		buf:    make([]byte, l.Size),
	}
}

func (w *uniformWriter) Layout() BlockLayout {
	return w.layout
}

func (w *uniformWriter) SetMat4(name string, m mgl32.Mat4) error {
	off, err := w.offset(name, FieldTypeMat4)
	if err != nil {
		return err
	}
	w.putFloats(off, m[:])
	return nil
}

func (w *uniformWriter) SetVec4(name string, v mgl32.Vec4) error {
	off, err := w.offset(name, FieldTypeVec4)
	if err != nil {
		return err
	}
	w.putFloats(off, v[:])
	return nil
}

func (w *uniformWriter) SetVec3(name string, v mgl32.Vec3) error {
	off, err := w.offset(name, FieldTypeVec3)
	if err != nil {
		return err
	}
	w.putFloats(off, v[:])
	return nil
}

func (w *uniformWriter) SetVec2(name string, v mgl32.Vec2) error {
	off, err := w.offset(name, FieldTypeVec2)
	if err != nil {
		return err
	}
	w.putFloats(off, v[:])
	return nil
}

func (w *uniformWriter) SetF32(name string, v float32) error {
	off, err := w.offset(name, FieldTypeF32)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(w.buf[off:], math.Float32bits(v))
	return nil
}

func (w *uniformWriter) SetI32(name string, v int32) error {
	off, err := w.offset(name, FieldTypeI32)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(w.buf[off:], uint32(v))
	return nil
}

func (w *uniformWriter) Bytes() []byte {
	return w.buf
}

func (w *uniformWriter) Reset() {
	clear(w.buf)
}

// offset resolves a field's byte offset and checks that it has the expected type.
func (w *uniformWriter) offset(name string, want FieldType) (uint64, error) {
	f, ok := w.layout.Field(name)
	if !ok {
		return 0, newLayoutError(w.layout.Block, name, -1, "no such field")
	}
	if f.Type != want {
		return 0, newLayoutError(w.layout.Block, name, -1, "field is %s, cannot write %s", f.Type, want)
	}
	return f.Offset, nil
}

func (w *uniformWriter) putFloats(off uint64, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(w.buf[off+uint64(i)*4:], math.Float32bits(v))
	}
}
