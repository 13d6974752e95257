package bind_group_schema

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// SchemaError reports an invalid bind group declaration: a binding collision, a texture without
// its sampler, a slot in the wrong group, or a non-contiguous group sequence.
type SchemaError struct {
	Group   uint32
	Binding uint32
	Reason  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: group %d binding %d: %s", e.Group, e.Binding, e.Reason)
}

func newSchemaError(group, binding uint32, format string, args ...any) error {
	return errors.WithStack(&SchemaError{
		Group:   group,
		Binding: binding,
		Reason:  fmt.Sprintf(format, args...),
	})
}
