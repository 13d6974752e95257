// pre_processor.go implements the Oxy WGSL shader pre-processor. It scans shader template
// source for @oxy: annotations, replaces them with generated WGSL declarations or injected
// struct source, drops lines disabled by compile-time defines, and collects the uniform
// binding declarations it generated.
//
// The pre-processor maintains two registries:
//   - blocks: maps WGSL struct names to the host-side uniform blocks whose declarations are
//     generated on include, so host and device struct shapes come from one definition.
//   - vertex: the resolved vertex layout, whose VertexInput struct is injected by
//     "//@oxy:include vertex".
package shader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/layout"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/cockroachdb/errors"
)

// includeVertex is the include argument that injects the VertexInput struct.
const includeVertex = "vertex"

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// blocks maps struct names to the uniform blocks they are generated from.
	blocks map[string]layout.UniformBlock

	// vertex is the layout whose VertexInput struct is injected by include vertex.
	vertex material.VertexLayout

	// defines is the sorted set of active compile-time defines.
	defines []string

	// declarations accumulates group annotations during a Process call. Reset at the start
	// of each Process invocation.
	declarations []Annotation
}

// conditional is one open ifdef/ifndef frame.
type conditional struct {
	line     int
	active   bool
	seenElse bool
}

// PreProcessor expands a WGSL shader template containing @oxy: annotations into plain WGSL.
type PreProcessor interface {
	// Process expands the template. Include annotations are replaced with generated struct
	// declarations, group annotations with uniform @group/@binding declarations, and lines
	// inside disabled ifdef/ifndef regions are dropped.
	//
	// The declarations list is reset at the start of each call and can be retrieved
	// via Declarations() after Process returns.
	//
	// Parameters:
	//   - source: the template source
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an error carrying the template line if an annotation is malformed, references
	//     an unknown struct, or conditionals are unbalanced
	Process(source string) (string, error)

	// Declarations returns the group annotations collected during the most recent call to
	// Process, in source order. Annotations in disabled regions are not collected.
	//
	// Returns:
	//   - []Annotation: the declarations collected during the last Process call
	Declarations() []Annotation

	// Defines returns the active defines, sorted.
	//
	// Returns:
	//   - []string: the defines
	Defines() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor that knows the shared uniform blocks and the given
// vertex layout, and evaluates conditionals against defines.
//
// Parameters:
//   - vertex: the vertex layout injected by include vertex
//   - defines: the active compile-time defines
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(vertex material.VertexLayout, defines ...string) PreProcessor {
	defs := slices.Clone(defines)
	slices.Sort(defs)
	return &preProcessor{
		blocks:  material.UniformBlocks(),
		vertex:  vertex,
		defines: slices.Compact(defs),
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	var stack []conditional

	enabled := func() bool {
		for _, c := range stack {
			if !c.active {
				return false
			}
		}
		return true
	}

	// iterate through each line, replacing annotations and dropping lines in disabled regions.
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			if enabled() {
				out = append(out, line)
			}
			continue
		}

		switch a.Type {
		case annotationTypeIfdef, annotationTypeIfndef:
			defined := slices.Contains(p.defines, a.Args[0])
			stack = append(stack, conditional{line: a.Line, active: defined == (a.Type == annotationTypeIfdef)})
		case annotationTypeElse:
			if len(stack) == 0 {
				return "", errors.Newf("line %d: @oxy else without ifdef", a.Line)
			}
			top := &stack[len(stack)-1]
			if top.seenElse {
				return "", errors.Newf("line %d: second @oxy else for ifdef on line %d", a.Line, top.line)
			}
			top.seenElse = true
			top.active = !top.active
		case annotationTypeEndif:
			if len(stack) == 0 {
				return "", errors.Newf("line %d: @oxy endif without ifdef", a.Line)
			}
			stack = stack[:len(stack)-1]
		case annotationTypeInclude:
			if !enabled() {
				continue
			}
			src, err := p.structSource(a.Args[0])
			if err != nil {
				return "", errors.Wrapf(err, "line %d", a.Line)
			}
			out = append(out, src)
		case AnnotationTypeBindingGroup:
			if !enabled() {
				continue
			}
			if _, ok := p.blocks[a.Args[1]]; !ok {
				return "", errors.Newf("line %d: unknown struct %q in @oxy group annotation", a.Line, a.Args[1])
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) var<uniform> %s: %s;", *a.Group, *a.Binding, a.Args[0], a.Args[1]))
			p.declarations = append(p.declarations, *a)
		}
	}

	if len(stack) > 0 {
		return "", errors.Newf("line %d: @oxy %s is never closed", stack[len(stack)-1].line, annotationTypeIfdef)
	}
	return strings.Join(out, "\n"), nil
}

// structSource generates the WGSL declaration for an include argument.
func (p *preProcessor) structSource(name string) (string, error) {
	if name == includeVertex {
		if len(p.vertex.Attributes) == 0 {
			return "", errors.New("include vertex without a vertex layout")
		}
		return p.vertex.WGSL(), nil
	}
	block, ok := p.blocks[name]
	if !ok {
		return "", errors.Newf("unknown struct %q in @oxy include annotation", name)
	}
	return block.WGSL()
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

func (p *preProcessor) Defines() []string {
	return p.defines
}
