package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pipeline"
	"github.com/loov/hrtime"
)

// Report is one interval's worth of frame and pipeline cache statistics.
type Report struct {
	FPS float64
	// HeapMB is the live heap at the end of the interval.
	HeapMB float64
	// Hits, Misses and Failures are the pipeline cache counters accumulated during the interval.
	Hits     int
	Misses   int
	Failures int
	// CompileTime is the time spent compiling pipelines during the interval.
	CompileTime time.Duration
}

// Profiler tracks frame rate and pipeline cache traffic. It logs a Report at a fixed interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Duration
	updateInterval time.Duration
	memStats       runtime.MemStats

	stats     func() pipeline.Stats
	lastStats pipeline.Stats

	// now is the monotonic clock, replaced in tests
	now func() time.Duration
}

// NewProfiler creates a Profiler that reads cache counters from stats, usually
// Renderer.Pipelines().Stats. Update interval defaults to 1 second.
//
// Parameters:
//   - stats: the cache counter source, nil to report frame rate only
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(stats func() pipeline.Stats) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		stats:          stats,
		now:            hrtime.Now,
	}
	p.lastTime = p.now()
	if stats != nil {
		p.lastStats = stats()
	}
	return p
}

// Tick should be called once per frame. It logs a Report when the update interval has elapsed.
//
// Returns:
//   - Report: the interval's statistics, zero if the interval has not elapsed
//   - bool: true if a report was produced this tick
func (p *Profiler) Tick() (Report, bool) {
	p.frameCount++
	current := p.now()
	elapsed := current - p.lastTime
	if elapsed < p.updateInterval {
		return Report{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	r := Report{
		FPS:    float64(p.frameCount) / elapsed.Seconds(),
		HeapMB: float64(p.memStats.Alloc) / 1024 / 1024,
	}
	if p.stats != nil {
		s := p.stats()
		r.Hits = s.Hits - p.lastStats.Hits
		r.Misses = s.Misses - p.lastStats.Misses
		r.Failures = s.Failures - p.lastStats.Failures
		r.CompileTime = s.CompileTime - p.lastStats.CompileTime
		p.lastStats = s
	}

	common.Logger().Info("profiler",
		"fps", r.FPS, "heap_mb", r.HeapMB,
		"pipeline_hits", r.Hits, "pipeline_misses", r.Misses,
		"pipeline_failures", r.Failures, "compile_time", r.CompileTime)

	p.frameCount = 0
	p.lastTime = current
	return r, true
}
