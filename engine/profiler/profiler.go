// Package profiler logs frame rate and allocator statistics. The allocation rate is the
// figure to watch: a steady frame loop over preallocated buffers should hold it near zero.
package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one reporting window's worth of measurements.
type Stats struct {
	Frames      int
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now  func() time.Time
	logf func(format string, args ...any)
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second and output goes to the standard logger.
//
// Parameters:
//   - options: functional options overriding the interval or log sink
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logf:           log.Printf,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	runtime.ReadMemStats(&p.memStats)
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs a Stats line when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		Frames:  p.frameCount,
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:   float64(p.memStats.Sys) / 1024 / 1024,
		GCCount: p.memStats.NumGC,
		// TotalAlloc only grows, so its delta over the window is the churn.
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
	}
	s.LastPauseUs, s.MaxPauseUs = p.pauses(s.GCCount)

	p.logf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		s.FPS, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// pauses returns the most recent GC pause and the longest pause since the previous report.
// PauseNs is a circular buffer of the last 256 pauses.
func (p *Profiler) pauses(gcCount uint32) (lastUs, maxUs uint64) {
	if gcCount == 0 {
		return 0, 0
	}
	lastUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxUs {
			maxUs = pause
		}
	}
	return lastUs, maxUs
}

// Last returns the stats from the most recent report.
//
// Returns:
//   - Stats: zero until the first report
func (p *Profiler) Last() Stats {
	return p.last
}
