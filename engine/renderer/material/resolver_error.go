package material

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// UnknownMaterialKindError reports a material kind the resolver has no policy for.
type UnknownMaterialKindError struct {
	Kind string
}

func (e *UnknownMaterialKindError) Error() string {
	return fmt.Sprintf("material: unknown material kind %q", e.Kind)
}

func newUnknownMaterialKindError(kind string) error {
	return errors.WithStack(&UnknownMaterialKindError{Kind: kind})
}

// IncompatibleFeatureFlagError reports a feature flag the material kind does not support.
type IncompatibleFeatureFlagError struct {
	Kind Kind
	Flag FeatureFlag
}

func (e *IncompatibleFeatureFlagError) Error() string {
	return fmt.Sprintf("material: feature flag %q is not supported by %s", e.Flag, e.Kind)
}

func newIncompatibleFeatureFlagError(kind Kind, flag FeatureFlag) error {
	return errors.WithStack(&IncompatibleFeatureFlagError{Kind: kind, Flag: flag})
}
