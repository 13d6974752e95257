package material

import (
	"slices"
	"strings"
)

// Kind identifies a material family. Each kind maps to one shader program and one
// bind group policy.
type Kind int

const (
	KindInvalid Kind = iota
	KindFlatColor
	KindTextured
	KindTexturedArray
	KindMaskedCircle
	KindColoredTextured
)

var kindNames = map[Kind]string{
	KindFlatColor:       "flat-color",
	KindTextured:        "textured",
	KindTexturedArray:   "textured-array",
	KindMaskedCircle:    "masked-circle",
	KindColoredTextured: "colored-textured",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// ParseKind looks up a kind by its name. Underscores are accepted in place of hyphens.
//
// Parameters:
//   - name: the kind name, e.g. "flat-color"
//
// Returns:
//   - Kind: the matching kind
//   - error: an *UnknownMaterialKindError if no kind has that name
func ParseKind(name string) (Kind, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for k, n := range kindNames {
		if n == norm {
			return k, nil
		}
	}
	return KindInvalid, newUnknownMaterialKindError(name)
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindFlatColor, KindTextured, KindTexturedArray, KindMaskedCircle, KindColoredTextured}
}

// FeatureFlag is a compile-time shader toggle requested for a material.
type FeatureFlag string

// FeatureColored adds a per-vertex color attribute that the fragment stage multiplies into the
// sampled color.
const FeatureColored FeatureFlag = "colored"

// FeatureSet is a sorted, deduplicated set of feature flags. The zero value is the empty set.
type FeatureSet []FeatureFlag

// NewFeatureSet builds a FeatureSet from flags in any order.
//
// Parameters:
//   - flags: the requested flags, duplicates allowed
//
// Returns:
//   - FeatureSet: the normalized set
func NewFeatureSet(flags ...FeatureFlag) FeatureSet {
	if len(flags) == 0 {
		return nil
	}
	set := slices.Clone(flags)
	slices.Sort(set)
	return slices.Compact(set)
}

// ParseFeatureFlags builds a FeatureSet from flag names. Names are trimmed and lowercased;
// empty names are ignored. Unknown names are kept so Resolve can reject them.
func ParseFeatureFlags(names ...string) FeatureSet {
	flags := make([]FeatureFlag, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			flags = append(flags, FeatureFlag(n))
		}
	}
	return NewFeatureSet(flags...)
}

// Has reports whether the set contains flag.
func (s FeatureSet) Has(flag FeatureFlag) bool {
	_, found := slices.BinarySearch(s, flag)
	return found
}

// Equal reports whether two sets contain the same flags.
func (s FeatureSet) Equal(o FeatureSet) bool {
	return slices.Equal(s, o)
}

func (s FeatureSet) String() string {
	parts := make([]string, len(s))
	for i, f := range s {
		parts[i] = string(f)
	}
	return strings.Join(parts, "+")
}
