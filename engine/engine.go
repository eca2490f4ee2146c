package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/lantern-fish/engine/motion"
	"github.com/Carmen-Shannon/lantern-fish/engine/particle"
	"github.com/Carmen-Shannon/lantern-fish/engine/profiler"
	"github.com/Carmen-Shannon/lantern-fish/engine/spline"
	"github.com/Carmen-Shannon/lantern-fish/engine/tube"
)

// State is the scheduler's position in its frame lifecycle.
type State int

const (
	// StateIdle means no frame is in flight.
	StateIdle State = iota
	// StateFrameInProgress means a Tick is executing.
	StateFrameInProgress
	// StateStopped is terminal; further ticks do nothing.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateFrameInProgress:
		return "FrameInProgress"
	case StateStopped:
		return "Stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ribbon groups everything the tube update touches.
type ribbon struct {
	history   *spline.History
	generator *tube.Generator
	radius    float32
	mesh      Mesh
}

// lanterns groups everything the particle update touches.
type lanterns struct {
	field *particle.Field
	mesh  InstancedMesh
}

// engine implements the Engine interface.
// It owns the per-frame ordering and nothing else; all scene objects are handed in by options.
type engine struct {
	mu    sync.Mutex
	state State

	// pendingResize holds the latest resize received while a frame was in flight.
	pendingResize *[2]int
	quitRequested bool
	quitOnce      sync.Once
	frameIndex    uint64

	clock   Clock
	leader  motion.Leader
	ribbon  *ribbon
	lantern *lanterns

	presenter       Presenter
	pacer           FramePacer
	resizeListeners []ResizeListener

	profiler         *profiler.Profiler
	profilingEnabled bool

	workers    int
	workerPool worker.DynamicWorkerPool
	barrier    sync.WaitGroup
	ribbonTask func() (any, error)
	fieldTask  func() (any, error)
	tickDelta  float64
}

// Engine is the frame scheduler. Each Tick advances the leader, pushes it onto the spline
// history, regenerates the ribbon tube, steps the lantern field, and hands the frame to the presenter.
type Engine interface {
	// Tick runs exactly one frame. Calling Tick from inside a frame panics; after Quit it does nothing.
	Tick()

	// Run registers Tick with the frame pacer and blocks until the pacer returns.
	// The engine is stopped when Run returns.
	Run()

	// Resize forwards a viewport change to every resize listener. A resize that arrives
	// while a frame is in progress is held and applied when that frame finishes.
	//
	// Parameters:
	//   - width: new width in pixels
	//   - height: new height in pixels
	Resize(width, height int)

	// State returns the current lifecycle state.
	//
	// Returns:
	//   - State: Idle, FrameInProgress or Stopped
	State() State

	// Frames returns the number of frames completed so far.
	//
	// Returns:
	//   - uint64: completed frame count
	Frames() uint64

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Quit stops the engine and closes the pacer. A frame in progress finishes first.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine from the provided options.
// The ribbon and lantern updates are each optional; a frame skips whichever was not configured.
//
// Parameters:
//   - options: functional options supplying the scene objects and collaborators
//
// Returns:
//   - Engine: the newly created engine, in StateIdle
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		state:    StateIdle,
		leader:   motion.NewLeader(),
		profiler: profiler.NewProfiler(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.clock == nil {
		e.clock = NewClock()
	}
	if r := e.ribbon; r != nil {
		if r.history.Len() != r.generator.Rings() {
			panic(fmt.Sprintf("engine: history holds %d points but the generator expects %d", r.history.Len(), r.generator.Rings()))
		}
		if got := len(r.mesh.Positions()); got != r.generator.BufferLength() {
			panic(fmt.Sprintf("engine: ribbon mesh holds %d floats, generator writes %d", got, r.generator.BufferLength()))
		}
		e.ribbonTask = func() (any, error) {
			defer e.barrier.Done()
			e.updateRibbon()
			return nil, nil
		}
	}
	if l := e.lantern; l != nil {
		if l.mesh.Count() != l.field.Len() {
			panic(fmt.Sprintf("engine: lantern mesh holds %d instances, field has %d", l.mesh.Count(), l.field.Len()))
		}
		e.fieldTask = func() (any, error) {
			defer e.barrier.Done()
			e.updateLanterns(e.tickDelta)
			return nil, nil
		}
	}
	if e.workers > 0 {
		e.workerPool = worker.NewDynamicWorkerPool(e.workers, 4, 1*time.Second)
		log.Printf("[Engine] Parallel frame updates on %d workers", e.workers)
	}

	return e
}

func (e *engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameIndex
}

func (e *engine) Tick() {
	e.mu.Lock()
	switch e.state {
	case StateStopped:
		e.mu.Unlock()
		return
	case StateFrameInProgress:
		e.mu.Unlock()
		panic("engine: Tick called while a frame is in progress")
	}
	e.state = StateFrameInProgress
	index := e.frameIndex
	e.mu.Unlock()

	elapsed, delta := e.clock.Tick()
	lead := e.leader.NextPosition(elapsed)
	if e.ribbon != nil {
		e.ribbon.history.Push(lead)
	}

	// The ribbon and lantern updates share no data, so they may run side by side.
	e.tickDelta = delta
	if e.workerPool != nil {
		e.runParallel()
	} else {
		if e.ribbon != nil {
			e.updateRibbon()
		}
		if e.lantern != nil {
			e.updateLanterns(delta)
		}
	}

	if e.presenter != nil {
		e.presenter.Present(FrameInfo{
			Index:   index,
			Elapsed: elapsed,
			Delta:   delta,
			Leader:  lead,
		})
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	e.finishFrame()
}

// runParallel submits the ribbon and lantern updates to the worker pool and waits for both.
// A per-frame WaitGroup is the barrier since pool.Wait() is meant for draining the pool, not frame sync.
func (e *engine) runParallel() {
	if e.ribbon != nil {
		e.barrier.Add(1)
		e.workerPool.SubmitTask(worker.Task{ID: 0, Do: e.ribbonTask})
	}
	if e.lantern != nil {
		e.barrier.Add(1)
		e.workerPool.SubmitTask(worker.Task{ID: 1, Do: e.fieldTask})
	}
	e.barrier.Wait()
}

// updateRibbon regenerates the tube around the current history into the mesh's position buffer.
func (e *engine) updateRibbon() {
	r := e.ribbon
	r.generator.Generate(r.history.Points(), r.radius, r.mesh.Positions())
	r.mesh.MarkDirty()
}

// updateLanterns advances the field and republishes every instance transform.
func (e *engine) updateLanterns(delta float64) {
	l := e.lantern
	l.field.Step(delta)
	l.field.WriteTransforms(l.mesh)
	l.mesh.MarkDirty()
}

// finishFrame returns to Idle (or Stopped if Quit arrived mid-frame) and applies any held resize.
func (e *engine) finishFrame() {
	e.mu.Lock()
	e.frameIndex++
	pending := e.pendingResize
	e.pendingResize = nil
	stopping := e.quitRequested
	if stopping {
		e.state = StateStopped
	} else {
		e.state = StateIdle
	}
	e.mu.Unlock()

	if stopping {
		e.stopWorkers()
	}
	if pending != nil {
		e.notifyResize(pending[0], pending[1])
	}
}

func (e *engine) Resize(width, height int) {
	e.mu.Lock()
	if e.state == StateFrameInProgress {
		e.pendingResize = &[2]int{width, height}
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	e.notifyResize(width, height)
}

func (e *engine) notifyResize(width, height int) {
	if width <= 0 || height <= 0 {
		// Minimized windows report a zero framebuffer; keep the last good viewport.
		return
	}
	for _, l := range e.resizeListeners {
		l.Resize(width, height)
	}
}

func (e *engine) Run() {
	if e.pacer == nil {
		panic("engine: Run requires a frame pacer")
	}
	e.pacer.SetUpdateCallback(e.Tick)
	e.pacer.ProcessMessages()
	e.signalQuit()
}

// Quit signals the engine to stop and closes the pacer.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit moves the engine to Stopped, or marks it to stop at the end of the current frame,
// then closes the pacer. The worker pool is released once no frame is using it.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.quitRequested = true
		inFrame := e.state == StateFrameInProgress
		if !inFrame {
			e.state = StateStopped
		}
		e.mu.Unlock()

		if !inFrame {
			e.stopWorkers()
		}
		if e.pacer != nil {
			if err := e.pacer.Close(); err != nil {
				log.Printf("[Engine] Failed to close frame pacer: %v", err)
			}
		}
	})
}

func (e *engine) stopWorkers() {
	if e.workerPool != nil {
		e.workerPool.Stop()
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}
