package bind_group_provider

import "github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithLabel sets the debug label of the provider. Without it the schema label is used.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - BindGroupProviderOption: a function that sets the label for this provider
func WithLabel(label string) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.label = label
	}
}

// WithSchema sets the schema whose slots the provider holds resources for.
//
// Parameters:
//   - schema: the bind group schema
//
// Returns:
//   - BindGroupProviderOption: a function that sets the schema for this provider
func WithSchema(schema bind_group_schema.Schema) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.schema = schema
	}
}

// WithCapacity sets the number of dynamic-offset slots allocated for each dynamic uniform
// binding. Values below 1 are ignored.
//
// Parameters:
//   - capacity: the slot count
//
// Returns:
//   - BindGroupProviderOption: a function that sets the capacity for this provider
func WithCapacity(capacity int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		if capacity > 0 {
			p.capacity = capacity
		}
	}
}
