package bind_group_schema

import (
	"encoding/binary"
	"slices"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/layout"
	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Schema declares the ordered binding slots of one bind group. Schemas are immutable values;
// every accessor returns fresh data.
type Schema struct {
	// Group is the bind group index this schema describes.
	Group uint32
	// Label is a debug label used for the wgpu layout and bind group.
	Label string
	// Slots are the bindings in declared order. A sampled texture slot must be immediately
	// followed by its sampler slot.
	Slots []BindingSlot
}

// NewSchema creates a Schema for group with the given slots.
//
// Parameters:
//   - group: the bind group index
//   - label: a debug label for GPU objects created from the schema
//   - slots: the binding slots in declared order
//
// Returns:
//   - Schema: the declared schema
func NewSchema(group uint32, label string, slots ...BindingSlot) Schema {
	return Schema{Group: group, Label: label, Slots: slices.Clone(slots)}
}

// Slot returns the slot declared at the given binding index.
//
// Parameters:
//   - binding: the binding index
//
// Returns:
//   - BindingSlot: the slot, or the zero value
//   - bool: true if a slot with that binding exists
func (s Schema) Slot(binding uint32) (BindingSlot, bool) {
	for _, slot := range s.Slots {
		if slot.Binding == binding {
			return slot, true
		}
	}
	return BindingSlot{}, false
}

// Check validates a single schema. It fails with a *SchemaError when binding indices repeat within
// the group, when a texture or texture-array slot is not immediately followed by a sampler slot, when
// a slot declares a different group than the schema, or when a slot is malformed (invalid kind, no
// visibility, a uniform slot without a block, a dynamic offset on a non-uniform slot). Uniform blocks
// that fail to encode are reported as a SchemaError wrapping the layout.LayoutError.
//
// Parameters:
//   - schema: the schema to validate
//
// Returns:
//   - error: nil if the schema is valid
func Check(schema Schema) error {
	seen := make(map[uint32]int, len(schema.Slots))

	for i, slot := range schema.Slots {
		if slot.Group != schema.Group {
			return newSchemaError(schema.Group, slot.Binding, "slot %q declares group %d", slot.Name, slot.Group)
		}
		if first, ok := seen[slot.Binding]; ok {
			return newSchemaError(schema.Group, slot.Binding, "binding index reused by %q, first declared by %q",
				slot.Name, schema.Slots[first].Name)
		}
		seen[slot.Binding] = i

		if slot.Visibility&VisibilityBoth == 0 {
			return newSchemaError(schema.Group, slot.Binding, "slot %q is not visible to any shader stage", slot.Name)
		}

		switch slot.Kind {
		case ResourceKindUniformBuffer:
			if slot.Uniform == nil {
				return newSchemaError(schema.Group, slot.Binding, "uniform slot %q has no uniform block", slot.Name)
			}
			if _, err := layout.Encode(*slot.Uniform); err != nil {
				return errors.Wrapf(err, "schema: group %d binding %d: uniform slot %q", schema.Group, slot.Binding, slot.Name)
			}
		case ResourceKindTexture, ResourceKindTextureArray:
			if i+1 >= len(schema.Slots) || schema.Slots[i+1].Kind != ResourceKindSampler {
				return newSchemaError(schema.Group, slot.Binding, "%s slot %q is not immediately followed by a sampler", slot.Kind, slot.Name)
			}
		case ResourceKindSampler:
		default:
			return newSchemaError(schema.Group, slot.Binding, "slot %q has invalid resource kind", slot.Name)
		}

		if slot.DynamicOffset && slot.Kind != ResourceKindUniformBuffer {
			return newSchemaError(schema.Group, slot.Binding, "%s slot %q cannot use a dynamic offset", slot.Kind, slot.Name)
		}
	}

	return nil
}

// CheckSet validates the ordered bind group schemas consumed by one pipeline. Group indices must be
// contiguous starting at 0 in slice order, no (group, binding) pair may be declared with two
// different resource kinds, and every schema must pass Check.
//
// Parameters:
//   - schemas: the schemas in pipeline layout order
//
// Returns:
//   - error: nil if the set is valid
func CheckSet(schemas []Schema) error {
	kinds := make(map[[2]uint32]ResourceKind)
	for _, s := range schemas {
		for _, slot := range s.Slots {
			key := [2]uint32{slot.Group, slot.Binding}
			if prev, ok := kinds[key]; ok && prev != slot.Kind {
				return newSchemaError(slot.Group, slot.Binding, "declared as both %s and %s", prev, slot.Kind)
			}
			kinds[key] = slot.Kind
		}
	}

	for i, s := range schemas {
		if s.Group != uint32(i) {
			return newSchemaError(s.Group, 0, "bind groups must be contiguous from 0, expected group %d at position %d", i, i)
		}
		if err := Check(s); err != nil {
			return err
		}
	}
	return nil
}

// Descriptor converts the schema into a wgpu bind group layout descriptor. Uniform slots get a
// MinBindingSize equal to their encoded block size. Entries are sorted by binding index.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
//   - error: the Check error if the schema is invalid
func (s Schema) Descriptor() (wgpu.BindGroupLayoutDescriptor, error) {
	if err := Check(s); err != nil {
		return wgpu.BindGroupLayoutDescriptor{}, err
	}

	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(s.Slots))
	for _, slot := range s.Slots {
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    slot.Binding,
			Visibility: slot.Visibility.ShaderStage(),
		}
		switch slot.Kind {
		case ResourceKindUniformBuffer:
			l := layout.MustEncode(*slot.Uniform)
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
			entry.Buffer.HasDynamicOffset = slot.DynamicOffset
			entry.Buffer.MinBindingSize = l.Size
		case ResourceKindTexture:
			entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
			entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
		case ResourceKindTextureArray:
			entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
			entry.Texture.ViewDimension = wgpu.TextureViewDimension2DArray
		case ResourceKindSampler:
			entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		}
		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b wgpu.BindGroupLayoutEntry) int {
		return int(a.Binding) - int(b.Binding)
	})

	return wgpu.BindGroupLayoutDescriptor{
		Label:   s.Label,
		Entries: entries,
	}, nil
}

// AppendCanonical appends a canonical byte encoding of the schema's structure to buf. Labels and
// variable names are excluded; two schemas with the same structure encode identically.
//
// Parameters:
//   - buf: the buffer to append to
//
// Returns:
//   - []byte: the extended buffer
func (s Schema) AppendCanonical(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, s.Group)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.Slots)))
	for _, slot := range s.Slots {
		buf = binary.LittleEndian.AppendUint32(buf, slot.Binding)
		buf = append(buf, byte(slot.Kind), byte(slot.Visibility))
		if slot.DynamicOffset {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		if slot.Uniform == nil {
			buf = binary.LittleEndian.AppendUint32(buf, 0)
			continue
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(slot.Uniform.Fields)))
		for _, f := range slot.Uniform.Fields {
			buf = append(buf, byte(f.Type))
		}
	}
	return buf
}
