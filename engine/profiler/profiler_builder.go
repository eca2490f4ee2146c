package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval sets how often stats are reported. Values <= 0 are ignored.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithUpdateInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithLogFunc redirects the stats line, for example to a file-backed logger.
//
// Parameters:
//   - logf: a Printf-style sink
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithLogFunc(logf func(format string, args ...any)) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logf != nil {
			p.logf = logf
		}
	}
}

// WithTimeSource replaces time.Now.
//
// Parameters:
//   - now: the time source
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithTimeSource(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
