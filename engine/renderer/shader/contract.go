package shader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/layout"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/cockroachdb/errors"
)

// Entry point names every shader program uses.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// ContractError reports a shader program that disagrees with the resolved binding schemas or
// vertex layout. Group and Binding are -1 when the mismatch is not about a binding.
type ContractError struct {
	Shader  string
	Group   int
	Binding int
	Reason  string
}

func (e *ContractError) Error() string {
	if e.Group < 0 {
		return fmt.Sprintf("shader %s: %s", e.Shader, e.Reason)
	}
	return fmt.Sprintf("shader %s: group %d binding %d: %s", e.Shader, e.Group, e.Binding, e.Reason)
}

func newContractError(shader string, group, binding int, format string, args ...any) error {
	return errors.WithStack(&ContractError{
		Shader:  shader,
		Group:   group,
		Binding: binding,
		Reason:  fmt.Sprintf(format, args...),
	})
}

// CheckContract verifies that expanded WGSL source matches the resolved pipeline inputs:
// both entry points exist, every schema slot has a declaration of the same kind at the same
// group and binding, no declaration is missing from the schemas, uniform struct fields match
// the slot's block field for field, and the VertexInput struct has exactly the layout's
// locations with matching component counts.
//
// Parameters:
//   - name: the shader name used in errors
//   - source: the expanded WGSL source
//   - vertex: the resolved vertex layout
//   - schemas: the resolved bind group schemas
//
// Returns:
//   - error: a *ContractError describing the first mismatch, nil if the source conforms
func CheckContract(name, source string, vertex material.VertexLayout, schemas []bind_group_schema.Schema) error {
	cleaned := stripComments(source)

	vs, fs := parseEntryPoints(cleaned)
	if vs != VertexEntryPoint || fs != FragmentEntryPoint {
		return newContractError(name, -1, -1, "entry points are %q/%q, expected %q/%q", vs, fs, VertexEntryPoint, FragmentEntryPoint)
	}

	structs := make(map[string]parsedStruct)
	for _, ps := range parseStructBlocks(cleaned) {
		structs[ps.name] = ps
	}

	decls := make(map[[2]int]parsedBinding)
	for _, b := range parseBindings(cleaned) {
		key := [2]int{b.group, b.binding}
		if _, dup := decls[key]; dup {
			return newContractError(name, b.group, b.binding, "declared twice")
		}
		decls[key] = b
	}

	for _, s := range schemas {
		for _, slot := range s.Slots {
			key := [2]int{int(slot.Group), int(slot.Binding)}
			decl, ok := decls[key]
			if !ok {
				return newContractError(name, key[0], key[1], "%s slot %q has no declaration", slot.Kind, slot.Name)
			}
			delete(decls, key)

			if kind := classifyBinding(decl.addressSpace, decl.typeName); kind != slot.Kind {
				return newContractError(name, key[0], key[1], "declared as %s %q, schema expects %s", kind, decl.typeName, slot.Kind)
			}
			if slot.Kind == bind_group_schema.ResourceKindUniformBuffer {
				if err := checkUniformStruct(name, key, structs[decl.typeName], *slot.Uniform); err != nil {
					return err
				}
			}
		}
	}
	for key, decl := range decls {
		return newContractError(name, key[0], key[1], "%q is not declared by any schema", decl.varName)
	}

	return checkVertexInput(name, cleaned, vertex)
}

func checkUniformStruct(name string, key [2]int, ps parsedStruct, block layout.UniformBlock) error {
	if ps.name != block.Name {
		return newContractError(name, key[0], key[1], "uniform struct %q not found, expected %s", ps.name, block.Name)
	}
	if len(ps.fields) != len(block.Fields) {
		return newContractError(name, key[0], key[1], "struct %s has %d fields, block has %d", ps.name, len(ps.fields), len(block.Fields))
	}
	for i, f := range ps.fields {
		want := block.Fields[i]
		got, ok := layout.ParseFieldType(f.typeName)
		if f.name != want.Name || !ok || got != want.Type {
			return newContractError(name, key[0], key[1], "struct %s field %d is %s: %s, block has %s: %s",
				ps.name, i, f.name, f.typeName, want.Name, want.Type)
		}
	}
	return nil
}

func checkVertexInput(name, cleaned string, vertex material.VertexLayout) error {
	input, ok := parseVertexInput(cleaned)
	if !ok {
		return newContractError(name, -1, -1, "no vertex input struct")
	}
	if len(input.fields) != len(vertex.Attributes) {
		return newContractError(name, -1, -1, "vertex input has %d attributes, layout %s has %d", len(input.fields), vertex.Tag, len(vertex.Attributes))
	}

	byLocation := make(map[int]material.VertexAttribute, len(vertex.Attributes))
	for _, a := range vertex.Attributes {
		byLocation[int(a.Location)] = a
	}
	for _, f := range input.fields {
		a, ok := byLocation[f.location]
		if !ok {
			return newContractError(name, -1, -1, "vertex input %q uses location %d not in layout %s", f.name, f.location, vertex.Tag)
		}
		if components := wgslVertexComponentMap[f.typeName]; components != a.Components {
			return newContractError(name, -1, -1, "vertex input %q at location %d is %s, layout has %d components", f.name, f.location, f.typeName, a.Components)
		}
	}
	return nil
}
