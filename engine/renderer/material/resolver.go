// Package material resolves material variants into the vertex layout, bind group schemas and
// shader defines a pipeline is built from, and holds per-draw material instances.
package material

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/layout"
)

// ShaderDefColored is the shader define set when a variant carries FeatureColored.
const ShaderDefColored = "COLORED"

// Variant describes a material family plus the feature flags requested for it.
type Variant struct {
	Kind  Kind
	Flags FeatureSet
}

// NewVariant builds a Variant with a normalized flag set.
func NewVariant(kind Kind, flags ...FeatureFlag) Variant {
	return Variant{Kind: kind, Flags: NewFeatureSet(flags...)}
}

func (v Variant) String() string {
	if len(v.Flags) == 0 {
		return v.Kind.String()
	}
	return v.Kind.String() + "[" + v.Flags.String() + "]"
}

// Resolve resolves the variant. See Resolve.
func (v Variant) Resolve() (ResolvedVariant, error) {
	return Resolve(v.Kind, v.Flags)
}

// ResolvedVariant is everything needed to build a pipeline for a variant.
type ResolvedVariant struct {
	// Variant is the resolved input with its flags normalized.
	Variant Variant
	// VertexLayout is the tagged layout selected for the variant.
	VertexLayout VertexLayout
	// Schemas are the bind group schemas ordered by group index, starting at group 0.
	Schemas []bind_group_schema.Schema
	// ShaderDefs are the preprocessor defines the shader template is expanded with, sorted.
	ShaderDefs []string
	// ShaderKey names the shader template of the kind.
	ShaderKey string
}

// Equal reports structural equality of two resolved variants.
func (r ResolvedVariant) Equal(o ResolvedVariant) bool {
	if r.Variant.Kind != o.Variant.Kind || !r.Variant.Flags.Equal(o.Variant.Flags) ||
		r.ShaderKey != o.ShaderKey || !slices.Equal(r.ShaderDefs, o.ShaderDefs) ||
		!r.VertexLayout.Equal(o.VertexLayout) || len(r.Schemas) != len(o.Schemas) {
		return false
	}
	for i := range r.Schemas {
		if string(r.Schemas[i].AppendCanonical(nil)) != string(o.Schemas[i].AppendCanonical(nil)) {
			return false
		}
	}
	return true
}

// policy is the resolver table entry of one kind.
type policy struct {
	supported []FeatureFlag
	layout    func(flags FeatureSet) VertexLayout
	material  func() []bind_group_schema.Schema
}

var policies = map[Kind]policy{
	KindFlatColor: {
		layout: func(FeatureSet) VertexLayout { return BaseLayout() },
		material: func() []bind_group_schema.Schema {
			return []bind_group_schema.Schema{
				bind_group_schema.NewSchema(GroupMaterial, "flat_color",
					bind_group_schema.UniformSlot(GroupMaterial, 0, "color", bind_group_schema.VisibilityFragment, cloneBlock(ColorBlock))),
			}
		},
	},
	KindTextured: {
		layout:   func(FeatureSet) VertexLayout { return BaseLayout() },
		material: texturedSchemas("textured"),
	},
	KindTexturedArray: {
		layout: func(FeatureSet) VertexLayout { return LayeredLayout() },
		material: func() []bind_group_schema.Schema {
			return []bind_group_schema.Schema{
				bind_group_schema.NewSchema(GroupMaterial, "textured_array",
					bind_group_schema.TextureArraySlot(GroupMaterial, 0, "t_layers"),
					bind_group_schema.SamplerSlot(GroupMaterial, 1, "s_layers")),
			}
		},
	},
	KindMaskedCircle: {
		layout: func(FeatureSet) VertexLayout { return BaseLayout() },
		material: func() []bind_group_schema.Schema {
			return []bind_group_schema.Schema{
				bind_group_schema.NewSchema(GroupMaterial, "masked_circle_radius",
					bind_group_schema.UniformSlot(GroupMaterial, 0, "radius", bind_group_schema.VisibilityFragment, cloneBlock(RadiusBlock))),
				bind_group_schema.NewSchema(GroupMaterial+1, "masked_circle_color",
					bind_group_schema.UniformSlot(GroupMaterial+1, 0, "color", bind_group_schema.VisibilityFragment, cloneBlock(ColorBlock))),
			}
		},
	},
	KindColoredTextured: {
		supported: []FeatureFlag{FeatureColored},
		layout: func(flags FeatureSet) VertexLayout {
			if flags.Has(FeatureColored) {
				return ColoredLayout()
			}
			return BaseLayout()
		},
		material: texturedSchemas("colored_textured"),
	},
}

func texturedSchemas(label string) func() []bind_group_schema.Schema {
	return func() []bind_group_schema.Schema {
		return []bind_group_schema.Schema{
			bind_group_schema.NewSchema(GroupMaterial, label,
				bind_group_schema.TextureSlot(GroupMaterial, 0, "t_diffuse"),
				bind_group_schema.SamplerSlot(GroupMaterial, 1, "s_diffuse")),
		}
	}
}

// ModelSchema returns the group 0 schema: one dynamic-offset mat4 uniform read by the vertex stage.
func ModelSchema() bind_group_schema.Schema {
	return bind_group_schema.NewSchema(GroupModel, "model",
		bind_group_schema.DynamicUniformSlot(GroupModel, 0, "model", bind_group_schema.VisibilityVertex, cloneBlock(ModelBlock)))
}

// ViewSchema returns the group 1 schema: the dynamic-offset view uniform read by both stages.
func ViewSchema() bind_group_schema.Schema {
	return bind_group_schema.NewSchema(GroupView, "view",
		bind_group_schema.DynamicUniformSlot(GroupView, 0, "view", bind_group_schema.VisibilityBoth, cloneBlock(ViewBlock)))
}

func cloneBlock(b layout.UniformBlock) layout.UniformBlock {
	return layout.UniformBlock{Name: b.Name, Fields: slices.Clone(b.Fields)}
}

// SupportedFlags returns the feature flags a kind accepts.
//
// Parameters:
//   - kind: the material kind
//
// Returns:
//   - []FeatureFlag: the accepted flags, empty for kinds without toggles or unknown kinds
func SupportedFlags(kind Kind) []FeatureFlag {
	return slices.Clone(policies[kind].supported)
}

// Resolve derives the vertex layout, the ordered bind group schemas and the shader defines for a
// material kind and feature flags. Group 0 is always the model transform, group 1 the view data,
// and groups 2 and up hold the kind's material resources. Every call returns fresh values;
// identical inputs give structurally equal results.
//
// Parameters:
//   - kind: the material kind
//   - flags: the requested feature flags
//
// Returns:
//   - ResolvedVariant: the resolved pipeline inputs
//   - error: *UnknownMaterialKindError for an unrecognized kind, *IncompatibleFeatureFlagError for a
//     flag the kind does not support
func Resolve(kind Kind, flags FeatureSet) (ResolvedVariant, error) {
	p, ok := policies[kind]
	if !ok {
		return ResolvedVariant{}, newUnknownMaterialKindError(kind.String())
	}

	flags = NewFeatureSet(flags...)
	for _, f := range flags {
		if !slices.Contains(p.supported, f) {
			return ResolvedVariant{}, newIncompatibleFeatureFlagError(kind, f)
		}
	}

	var defs []string
	if flags.Has(FeatureColored) {
		defs = append(defs, ShaderDefColored)
	}

	schemas := append([]bind_group_schema.Schema{ModelSchema(), ViewSchema()}, p.material()...)

	return ResolvedVariant{
		Variant:      Variant{Kind: kind, Flags: flags},
		VertexLayout: p.layout(flags),
		Schemas:      schemas,
		ShaderDefs:   defs,
		ShaderKey:    kind.String(),
	}, nil
}
