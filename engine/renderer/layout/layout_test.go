package layout

import (
	"math/rand/v2"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offsets(l BlockLayout) []uint64 {
	out := make([]uint64, len(l.Fields))
	for i, f := range l.Fields {
		out[i] = f.Offset
	}
	return out
}

func TestEncodeMat4Vec3F32(t *testing.T) {
	l, err := Encode(UniformBlock{
		Name: "Mixed",
		Fields: []UniformField{
			{Name: "transform", Type: FieldTypeMat4},
			{Name: "position", Type: FieldTypeVec3},
			{Name: "intensity", Type: FieldTypeF32},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []uint64{0, 64, 76}, offsets(l))
	assert.Equal(t, uint64(80), l.Size)
	assert.Equal(t, BlockAlignment, l.Align)
	assert.Equal(t, "Mixed", l.Block)
}

func TestEncodeAlignment(t *testing.T) {
	tests := []struct {
		name    string
		types   []FieldType
		offsets []uint64
		size    uint64
	}{
		{"scalar only", []FieldType{FieldTypeF32}, []uint64{0}, 16},
		{"scalar then vec3", []FieldType{FieldTypeF32, FieldTypeVec3}, []uint64{0, 16}, 32},
		{"vec2 scalar vec4", []FieldType{FieldTypeVec2, FieldTypeF32, FieldTypeVec4}, []uint64{0, 8, 16}, 32},
		{"int then vec2", []FieldType{FieldTypeI32, FieldTypeVec2}, []uint64{0, 8}, 16},
		{"vec3 then vec3", []FieldType{FieldTypeVec3, FieldTypeVec3}, []uint64{0, 16}, 32},
		{"scalar then mat4", []FieldType{FieldTypeF32, FieldTypeMat4}, []uint64{0, 16}, 80},
		{"empty", nil, []uint64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := UniformBlock{Name: "T"}
			for i, ft := range tt.types {
				block.Fields = append(block.Fields, UniformField{Name: string(rune('a' + i)), Type: ft})
			}
			l, err := Encode(block)
			require.NoError(t, err)
			assert.Equal(t, tt.offsets, offsets(l))
			assert.Equal(t, tt.size, l.Size)
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	types := []FieldType{FieldTypeMat4, FieldTypeVec4, FieldTypeVec3, FieldTypeVec2, FieldTypeF32, FieldTypeI32}
	rng := rand.New(rand.NewPCG(7, 11))

	for range 200 {
		n := rng.IntN(10)
		a := UniformBlock{Name: "A"}
		b := UniformBlock{Name: "B"}
		for i := range n {
			ft := types[rng.IntN(len(types))]
			a.Fields = append(a.Fields, UniformField{Name: "a" + string(rune('a'+i)), Type: ft})
			b.Fields = append(b.Fields, UniformField{Name: "b" + string(rune('a'+i)), Type: ft})
		}

		la, err := Encode(a)
		require.NoError(t, err)
		again, err := Encode(a)
		require.NoError(t, err)
		lb, err := Encode(b)
		require.NoError(t, err)

		assert.Equal(t, la, again)
		assert.Equal(t, offsets(la), offsets(lb))
		assert.Equal(t, la.Size, lb.Size)
		assert.Zero(t, la.Size%16)

		var end uint64
		for _, f := range la.Fields {
			assert.Zero(t, f.Offset%fieldTypeLayouts[f.Type].align, "field %s misaligned", f.Name)
			assert.GreaterOrEqual(t, f.Offset, end, "field %s overlaps previous field", f.Name)
			end = f.Offset + f.Size
		}
		assert.LessOrEqual(t, end, la.Size)
	}
}

func TestEncodeErrors(t *testing.T) {
	t.Run("unrecognized type", func(t *testing.T) {
		_, err := Encode(UniformBlock{
			Name:   "Bad",
			Fields: []UniformField{{Name: "ok", Type: FieldTypeF32}, {Name: "weird", Type: FieldType(42)}},
		})
		require.Error(t, err)

		var le *LayoutError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, "Bad", le.Block)
		assert.Equal(t, "weird", le.Field)
		assert.Equal(t, 1, le.Index)
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := Encode(UniformBlock{Name: "Bad", Fields: []UniformField{{Name: "zero"}}})
		var le *LayoutError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, "zero", le.Field)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := Encode(UniformBlock{
			Name: "Dup",
			Fields: []UniformField{
				{Name: "color", Type: FieldTypeVec4},
				{Name: "radius", Type: FieldTypeF32},
				{Name: "color", Type: FieldTypeVec3},
			},
		})
		var le *LayoutError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, "color", le.Field)
		assert.Equal(t, 2, le.Index)
		assert.Contains(t, le.Error(), "duplicate")
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := Encode(UniformBlock{Name: "Anon", Fields: []UniformField{{Type: FieldTypeF32}}})
		var le *LayoutError
		assert.True(t, errors.As(err, &le))
	})

	t.Run("must encode panics", func(t *testing.T) {
		assert.Panics(t, func() {
			MustEncode(UniformBlock{Name: "Bad", Fields: []UniformField{{Name: "x"}}})
		})
	})
}

func TestParseFieldType(t *testing.T) {
	tests := map[string]FieldType{
		"mat4x4<f32>": FieldTypeMat4,
		"mat4x4f":     FieldTypeMat4,
		"mat4":        FieldTypeMat4,
		"vec4<f32>":   FieldTypeVec4,
		"vec4< f32 >": FieldTypeVec4,
		"vec3f":       FieldTypeVec3,
		" vec2 ":      FieldTypeVec2,
		"f32":         FieldTypeF32,
		"i32":         FieldTypeI32,
	}
	for name, want := range tests {
		got, ok := ParseFieldType(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := ParseFieldType("vec3<u32>")
	assert.False(t, ok)
	_, ok = ParseFieldType("mat3x3<f32>")
	assert.False(t, ok)
}

func TestBlockWGSL(t *testing.T) {
	src, err := UniformBlock{
		Name: "CircleUniform",
		Fields: []UniformField{
			{Name: "color", Type: FieldTypeVec4},
			{Name: "radius", Type: FieldTypeF32},
		},
	}.WGSL()
	require.NoError(t, err)
	assert.Equal(t, "struct CircleUniform {\n    color: vec4<f32>,\n    radius: f32,\n};", src)

	_, err = UniformBlock{Name: "Bad", Fields: []UniformField{{Name: "x"}}}.WGSL()
	assert.Error(t, err)
}

func TestAlignDynamicOffset(t *testing.T) {
	assert.Equal(t, uint64(256), AlignDynamicOffset(64))
	assert.Equal(t, uint64(256), AlignDynamicOffset(256))
	assert.Equal(t, uint64(512), AlignDynamicOffset(272))
	assert.Equal(t, uint64(0), AlignDynamicOffset(0))
}
