package pipeline

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/shader"
	"github.com/cockroachdb/errors"
)

func (c *cache) Prewarm(variants ...material.Variant) error {
	if len(variants) == 0 {
		return nil
	}

	// Phase 1: resolve, expand and validate every variant on the pool. This is pure CPU work
	// and never touches the cache map or the device.
	results := make([]error, len(variants))
	resolved := make([]material.ResolvedVariant, len(variants))
	prepared := make([]shader.Shader, len(variants))
	pool := c.workerPool()
	var wg sync.WaitGroup
	for i, v := range variants {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: v,
			Do: func() (any, error) {
				defer wg.Done()
				r, err := v.Resolve()
				if err != nil {
					results[i] = err
					return nil, err
				}
				resolved[i] = r
				if prepared[i], err = c.prepare(r); err != nil {
					results[i] = errors.Wrapf(err, "prewarm %s", v)
				}
				return nil, results[i]
			},
		})
	}
	wg.Wait()

	// Phase 2: compile the prepared shaders serially so the cache keeps a single writer.
	var combined error
	for i := range variants {
		if results[i] != nil {
			combined = errors.CombineErrors(combined, results[i])
			continue
		}
		if _, err := c.getOrCreateResolved(resolved[i], prepared[i]); err != nil {
			combined = errors.CombineErrors(combined, err)
		}
	}
	return combined
}

// workerPool lazily starts the prewarm pool; it lives until Release.
func (c *cache) workerPool() worker.DynamicWorkerPool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool == nil {
		c.pool = worker.NewDynamicWorkerPool(c.prewarmWorkers, 256, 1*time.Second)
	}
	return c.pool
}
