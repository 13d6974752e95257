package pipeline

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// CompilationError reports a pipeline the shader stage or the device rejected. Nothing is cached
// for the fingerprint, so a later request compiles again.
type CompilationError struct {
	Fingerprint Fingerprint
	ShaderKey   string
	Err         error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("pipeline %s (%s): compilation failed: %v", e.Fingerprint, e.ShaderKey, e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func newCompilationError(fp Fingerprint, shaderKey string, err error) error {
	return errors.WithStack(&CompilationError{Fingerprint: fp, ShaderKey: shaderKey, Err: err})
}
