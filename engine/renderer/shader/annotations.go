// annotations.go defines the annotation types and parser for the Oxy WGSL shader
// pre-processor. Annotations are single-line WGSL comments prefixed with @oxy: that inject
// struct declarations generated from the host-side layouts, emit uniform binding
// declarations, and toggle lines on compile-time defines.
package shader

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a WGSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL declaration of a registered struct at the
	// annotation site: a uniform block by its struct name, or "vertex" for the VertexInput
	// struct of the resolved vertex layout.
	//
	// Syntax: //@oxy:include <struct_name>
	//
	// Example: //@oxy:include ViewUniform
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a uniform @group/@binding variable declaration for a
	// registered struct and records the declaration.
	//
	// Syntax: //@oxy:group <group> <binding> <var_name> <struct_name>
	//
	// Example: //@oxy:group 1 0 view ViewUniform
	AnnotationTypeBindingGroup AnnotationType = "group"

	// annotationTypeIfdef keeps the following lines only when the define is set.
	//
	// Syntax: //@oxy:ifdef <DEFINE>
	annotationTypeIfdef AnnotationType = "ifdef"

	// annotationTypeIfndef keeps the following lines only when the define is not set.
	//
	// Syntax: //@oxy:ifndef <DEFINE>
	annotationTypeIfndef AnnotationType = "ifndef"

	// annotationTypeElse flips the innermost ifdef/ifndef.
	annotationTypeElse AnnotationType = "else"

	// annotationTypeEndif closes the innermost ifdef/ifndef.
	annotationTypeEndif AnnotationType = "endif"
)

// Annotation represents a single parsed @oxy: annotation from a WGSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:       [0] = struct name
	//   - group:         [0] = var name, [1] = struct name
	//   - ifdef, ifndef: [0] = define name
	Args []string

	// Line is the 1-based line number in the template where this annotation was found.
	Line int

	// Group is the @group index for group annotations. Nil for other types.
	Group *int

	// Binding is the @binding index for group annotations. Nil for other types.
	Binding *int
}

// parseAnnotation attempts to parse a single line of WGSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix. Returns
// a populated Annotation for valid annotations, or an error describing the problem for
// malformed annotations with correct prefix but invalid syntax.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	after, ok := strings.CutPrefix(trimmed, "//"+annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, errors.Newf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, errors.Newf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		return &Annotation{Type: annotationTypeInclude, Args: args[1:], Line: lineNum}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 5 {
			return nil, errors.Newf("line %d: @oxy group annotation requires exactly four arguments (group, binding, var name, struct name)", lineNum)
		}
		groupInt, err := strconv.Atoi(args[1])
		if err != nil || groupInt < 0 {
			return nil, errors.Newf("line %d: invalid group number %q in @oxy group annotation", lineNum, args[1])
		}
		bindingInt, err := strconv.Atoi(args[2])
		if err != nil || bindingInt < 0 {
			return nil, errors.Newf("line %d: invalid binding number %q in @oxy group annotation", lineNum, args[2])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    args[3:],
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	case annotationTypeIfdef, annotationTypeIfndef:
		if len(args) != 2 {
			return nil, errors.Newf("line %d: @oxy %s annotation requires exactly one define name", lineNum, args[0])
		}
		return &Annotation{Type: AnnotationType(args[0]), Args: args[1:], Line: lineNum}, nil
	case annotationTypeElse, annotationTypeEndif:
		if len(args) != 1 {
			return nil, errors.Newf("line %d: @oxy %s annotation takes no arguments", lineNum, args[0])
		}
		return &Annotation{Type: AnnotationType(args[0]), Line: lineNum}, nil
	default:
		return nil, errors.Newf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
