package shader

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreProcessorInclude(t *testing.T) {
	pp := NewPreProcessor(material.BaseLayout())
	out, err := pp.Process("//@oxy:include ColorUniform\n//@oxy:include vertex")
	require.NoError(t, err)

	assert.Contains(t, out, "struct ColorUniform {\n    color: vec4<f32>,\n};")
	assert.Contains(t, out, "@location(0) position: vec3<f32>,")
	assert.Contains(t, out, "@location(1) uv: vec2<f32>,")
	assert.NotContains(t, out, "@oxy")
}

func TestPreProcessorGroupDeclarations(t *testing.T) {
	pp := NewPreProcessor(material.BaseLayout())
	src := "//@oxy:group 0 0 model ModelUniform\n//@oxy:group 2 0 color ColorUniform"
	out, err := pp.Process(src)
	require.NoError(t, err)

	assert.Equal(t, "@group(0) @binding(0) var<uniform> model: ModelUniform;\n@group(2) @binding(0) var<uniform> color: ColorUniform;", out)
	decls := pp.Declarations()
	require.Len(t, decls, 2)
	assert.Equal(t, 2, *decls[1].Group)
	assert.Equal(t, []string{"color", "ColorUniform"}, decls[1].Args)

	_, err = pp.Process("//@oxy:group 1 0 view ViewUniform")
	require.NoError(t, err)
	require.Len(t, pp.Declarations(), 1)
	assert.Equal(t, []string{"view", "ViewUniform"}, pp.Declarations()[0].Args)

	// declarations returned by an earlier Process are left untouched
	require.Len(t, decls, 2)
	assert.Equal(t, []string{"model", "ModelUniform"}, decls[0].Args)
	assert.Equal(t, []string{"color", "ColorUniform"}, decls[1].Args)
}

func TestPreProcessorConditionals(t *testing.T) {
	src := strings.Join([]string{
		"a",
		"//@oxy:ifdef COLORED",
		"b",
		"//@oxy:else",
		"c",
		"//@oxy:endif",
		"//@oxy:ifndef COLORED",
		"d",
		"//@oxy:endif",
	}, "\n")

	out, err := NewPreProcessor(material.BaseLayout(), "COLORED").Process(src)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", out)

	out, err = NewPreProcessor(material.BaseLayout()).Process(src)
	require.NoError(t, err)
	assert.Equal(t, "a\nc\nd", out)
}

func TestPreProcessorSkipsDisabledGroups(t *testing.T) {
	pp := NewPreProcessor(material.BaseLayout())
	_, err := pp.Process("//@oxy:ifdef COLORED\n//@oxy:group 2 0 color ColorUniform\n//@oxy:endif")
	require.NoError(t, err)
	assert.Empty(t, pp.Declarations())
}

func TestPreProcessorDefinesSorted(t *testing.T) {
	pp := NewPreProcessor(material.BaseLayout(), "B", "A", "B")
	assert.Equal(t, []string{"A", "B"}, pp.Defines())
}

func TestPreProcessorErrors(t *testing.T) {
	cases := map[string]string{
		"unknown include":   "//@oxy:include Missing",
		"unknown group":     "//@oxy:group 2 0 x Missing",
		"bad group number":  "//@oxy:group a 0 x ColorUniform",
		"missing args":      "//@oxy:group 2 0 x",
		"unknown type":      "//@oxy:bogus",
		"unclosed ifdef":    "//@oxy:ifdef A\nx",
		"stray endif":       "//@oxy:endif",
		"stray else":        "//@oxy:else",
		"double else":       "//@oxy:ifdef A\n//@oxy:else\n//@oxy:else\n//@oxy:endif",
		"else with args":    "//@oxy:ifdef A\n//@oxy:else B\n//@oxy:endif",
		"vertex without it": "//@oxy:include vertex",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewPreProcessor(material.VertexLayout{}).Process(src)
			assert.Error(t, err)
		})
	}
}
