package engine

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/lantern-fish/engine/motion"
	"github.com/Carmen-Shannon/lantern-fish/engine/particle"
	"github.com/Carmen-Shannon/lantern-fish/engine/spline"
	"github.com/Carmen-Shannon/lantern-fish/engine/tube"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithClock replaces the monotonic clock, mainly for deterministic playback and tests.
//
// Parameters:
//   - c: the clock to read each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(c Clock) EngineBuilderOption {
	return func(e *engine) {
		e.clock = c
	}
}

// WithLeader sets the motion that feeds the spline history.
//
// Parameters:
//   - l: the leader motion
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLeader(l motion.Leader) EngineBuilderOption {
	return func(e *engine) {
		e.leader = l
	}
}

// WithRibbon enables the ribbon update. Each frame the leader point is pushed onto history,
// and gen sweeps a tube of the given radius around it into mesh.Positions().
//
// Parameters:
//   - history: the rolling control point window
//   - gen: a generator built for history.Len() rings
//   - radius: tube radius in world units
//   - mesh: the mesh owning the position buffer, sized gen.BufferLength()
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRibbon(history *spline.History, gen *tube.Generator, radius float32, mesh Mesh) EngineBuilderOption {
	if history == nil || gen == nil || mesh == nil {
		panic("engine: WithRibbon requires a history, a generator and a mesh")
	}
	if radius < 0 || math.IsNaN(float64(radius)) || math.IsInf(float64(radius), 0) {
		panic(fmt.Sprintf("engine: invalid ribbon radius %v", radius))
	}
	return func(e *engine) {
		e.ribbon = &ribbon{
			history:   history,
			generator: gen,
			radius:    radius,
			mesh:      mesh,
		}
	}
}

// WithLanterns enables the lantern update. Each frame the field is stepped and every
// slot's transform is written into mesh.
//
// Parameters:
//   - field: the lantern field
//   - mesh: the instanced mesh, with one slot per lantern
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLanterns(field *particle.Field, mesh InstancedMesh) EngineBuilderOption {
	if field == nil || mesh == nil {
		panic("engine: WithLanterns requires a field and an instanced mesh")
	}
	return func(e *engine) {
		e.lantern = &lanterns{field: field, mesh: mesh}
	}
}

// WithPresenter sets the collaborator that draws each finished frame.
//
// Parameters:
//   - p: the presenter
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPresenter(p Presenter) EngineBuilderOption {
	return func(e *engine) {
		e.presenter = p
	}
}

// WithPacer sets the frame pacer that Run blocks in.
//
// Parameters:
//   - p: the frame pacer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPacer(p FramePacer) EngineBuilderOption {
	return func(e *engine) {
		e.pacer = p
	}
}

// WithResizeListener adds a listener for viewport changes. Listeners are notified in the order added.
//
// Parameters:
//   - l: the listener
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithResizeListener(l ResizeListener) EngineBuilderOption {
	return func(e *engine) {
		e.resizeListeners = append(e.resizeListeners, l)
	}
}

// WithWorkerPool runs the ribbon and lantern updates concurrently on a pool of n workers.
// Values <= 0 keep both updates on the calling goroutine.
//
// Parameters:
//   - n: number of pool workers
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWorkerPool(n int) EngineBuilderOption {
	return func(e *engine) {
		e.workers = n
	}
}
