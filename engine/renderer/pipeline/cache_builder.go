package pipeline

// CacheBuilderOption is a functional option used to configure a Cache during construction.
type CacheBuilderOption func(*cache)

// WithConfig sets the pipeline state overrides.
//
// Parameters:
//   - cfg: the parsed config
//
// Returns:
//   - CacheBuilderOption: a function that sets the config for this cache
func WithConfig(cfg Config) CacheBuilderOption {
	return func(c *cache) {
		c.config = cfg
	}
}

// WithValidator replaces the WGSL validation run before compilation. The default is
// shader.Validate; nil disables validation.
//
// Parameters:
//   - fn: the validator
//
// Returns:
//   - CacheBuilderOption: a function that sets the validator for this cache
func WithValidator(fn func(source string) error) CacheBuilderOption {
	return func(c *cache) {
		c.validate = fn
	}
}

// WithPrewarmWorkers sets the number of workers Prewarm prepares shaders on.
//
// Parameters:
//   - n: the worker count, values below 1 are ignored
//
// Returns:
//   - CacheBuilderOption: a function that sets the prewarm worker count for this cache
func WithPrewarmWorkers(n int) CacheBuilderOption {
	return func(c *cache) {
		if n > 0 {
			c.prewarmWorkers = n
		}
	}
}
