package layout

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// LayoutError reports a malformed uniform block: an unrecognized field type, a repeated field
// name, or a write that does not match the encoded field.
type LayoutError struct {
	// Block is the name of the uniform block being encoded or written.
	Block string
	// Field is the offending field name.
	Field string
	// Index is the declared position of the field, or -1 when the error comes from a writer lookup.
	Index int
	// Reason describes what is wrong with the field.
	Reason string
}

func (e *LayoutError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("layout: block %q field %q: %s", e.Block, e.Field, e.Reason)
	}
	return fmt.Sprintf("layout: block %q field %d (%q): %s", e.Block, e.Index, e.Field, e.Reason)
}

func newLayoutError(block, field string, index int, format string, args ...any) error {
	return errors.WithStack(&LayoutError{
		Block:  block,
		Field:  field,
		Index:  index,
		Reason: fmt.Sprintf(format, args...),
	})
}
