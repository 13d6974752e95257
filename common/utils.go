package common

// Coalesce picks the first argument that is not the zero value of T. Sampler and texture
// descriptors use it to fall back to defaults for fields the caller left unset.
//
// Parameters:
//   - values: candidates in priority order
//
// Returns:
//   - T: the first non-zero candidate, the zero value when there is none
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
