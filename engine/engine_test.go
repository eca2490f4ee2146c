package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Carmen-Shannon/lantern-fish/engine/buffer"
	"github.com/Carmen-Shannon/lantern-fish/engine/gradient"
	"github.com/Carmen-Shannon/lantern-fish/engine/motion"
	"github.com/Carmen-Shannon/lantern-fish/engine/particle"
	"github.com/Carmen-Shannon/lantern-fish/engine/profiler"
	"github.com/Carmen-Shannon/lantern-fish/engine/spline"
	"github.com/Carmen-Shannon/lantern-fish/engine/tube"
	"github.com/go-gl/mathgl/mgl32"
)

type stepClock struct {
	step    float64
	elapsed float64
	started bool
}

func (c *stepClock) Tick() (float64, float64) {
	if !c.started {
		c.started = true
		return 0, 0
	}
	c.elapsed += c.step
	return c.elapsed, c.step
}

type funcPresenter func(FrameInfo)

func (f funcPresenter) Present(frame FrameInfo) { f(frame) }

type recordingListener struct {
	sizes [][2]int
}

func (r *recordingListener) Resize(width, height int) {
	r.sizes = append(r.sizes, [2]int{width, height})
}

type countingPacer struct {
	frames   int
	callback func()
	closed   int
}

func (p *countingPacer) SetUpdateCallback(callback func()) { p.callback = callback }

func (p *countingPacer) ProcessMessages() {
	for i := 0; i < p.frames && p.closed == 0; i++ {
		p.callback()
	}
}

func (p *countingPacer) Close() error {
	p.closed++
	return nil
}

type scene struct {
	history   *spline.History
	generator *tube.Generator
	mesh      *buffer.Mesh
	field     *particle.Field
	instances *buffer.Instances
}

func newScene(seed int64) *scene {
	h := spline.NewStraightHistory(20, spline.DefaultSeedSpacing)
	g := tube.NewGenerator(h.Len(), tube.DefaultRadialSegments)
	f := particle.NewField(32, rand.New(rand.NewSource(seed)))
	return &scene{
		history:   h,
		generator: g,
		mesh:      buffer.NewRibbonMesh(g, gradient.DefaultHead, gradient.DefaultTail),
		field:     f,
		instances: buffer.NewInstances(f.Len()),
	}
}

func (s *scene) options() []EngineBuilderOption {
	return []EngineBuilderOption{
		WithRibbon(s.history, s.generator, tube.DefaultRadius, s.mesh),
		WithLanterns(s.field, s.instances),
	}
}

func TestTickRunsFrameInOrder(t *testing.T) {
	s := newScene(1)
	s.mesh.TakeDirty()
	s.instances.TakeDirty()
	leader := motion.NewLeader()

	var got []FrameInfo
	e := NewEngine(append(s.options(),
		WithClock(&stepClock{step: 0.5}),
		WithLeader(leader),
		WithPresenter(funcPresenter(func(f FrameInfo) {
			if !s.mesh.Dirty() || !s.instances.Dirty() {
				t.Errorf("Frame %d: expected both buffers updated before present", f.Index)
			}
			s.mesh.TakeDirty()
			s.instances.TakeDirty()
			got = append(got, f)
		})),
	)...)

	y0 := s.field.Position(0)[1]
	e.Tick()
	e.Tick()

	if len(got) != 2 {
		t.Fatalf("Expected 2 presented frames, got %d", len(got))
	}
	if got[0].Index != 0 || got[1].Index != 1 {
		t.Errorf("Expected frame indices 0 and 1, got %d and %d", got[0].Index, got[1].Index)
	}
	if got[1].Elapsed != 0.5 || got[1].Delta != 0.5 {
		t.Errorf("Expected elapsed 0.5 and delta 0.5, got %v and %v", got[1].Elapsed, got[1].Delta)
	}
	if want := leader.NextPosition(0.5); got[1].Leader != want || s.history.Newest() != want {
		t.Errorf("Expected leader %v pushed onto history, got %v (history newest %v)", want, got[1].Leader, s.history.Newest())
	}
	if s.history.At(s.history.Len()-2) != leader.NextPosition(0) {
		t.Errorf("Expected the first frame's leader point behind the newest")
	}

	// The mesh must hold exactly what the generator writes for the current history.
	want := make([]float32, s.generator.BufferLength())
	tube.NewGenerator(s.history.Len(), tube.DefaultRadialSegments).Generate(s.history.Points(), tube.DefaultRadius, want)
	for i, v := range s.mesh.Positions() {
		if v != want[i] {
			t.Fatalf("Position float %d: expected %v, got %v", i, want[i], v)
		}
	}

	p := s.field.Position(0)
	if tr := s.instances.Transform(0); tr != mgl32.Translate3D(p[0], p[1], p[2]) {
		t.Errorf("Expected slot 0 transform to follow the field, got %v", tr.Col(3))
	}
	if p[1] == y0 && p[1] != particle.DefaultBottom {
		t.Errorf("Expected lantern 0 to move, still at %v", p[1])
	}
	if e.State() != StateIdle || e.Frames() != 2 {
		t.Errorf("Expected Idle after 2 frames, got %v after %d", e.State(), e.Frames())
	}
}

func TestReentrantTickPanics(t *testing.T) {
	var e Engine
	panicked := false
	e = NewEngine(WithClock(&stepClock{step: 0.1}), WithPresenter(funcPresenter(func(FrameInfo) {
		defer func() {
			panicked = recover() != nil
		}()
		e.Tick()
	})))

	e.Tick()
	if !panicked {
		t.Errorf("Expected a nested Tick to panic")
	}
	if e.State() != StateIdle {
		t.Errorf("Expected outer frame to finish, got %v", e.State())
	}
}

func TestTickAfterQuitIsNoop(t *testing.T) {
	s := newScene(2)
	presented := 0
	e := NewEngine(append(s.options(),
		WithClock(&stepClock{step: 0.1}),
		WithPresenter(funcPresenter(func(FrameInfo) { presented++ })),
	)...)

	e.Tick()
	e.Quit()
	e.Quit()
	before := s.history.Newest()
	e.Tick()

	if presented != 1 || e.Frames() != 1 {
		t.Errorf("Expected 1 frame, got %d presented and %d counted", presented, e.Frames())
	}
	if s.history.Newest() != before {
		t.Errorf("Expected history untouched after Quit")
	}
	if e.State() != StateStopped {
		t.Errorf("Expected Stopped, got %v", e.State())
	}
}

func TestQuitDuringFrameFinishesFrame(t *testing.T) {
	var e Engine
	var during State
	e = NewEngine(WithClock(&stepClock{step: 0.1}), WithPresenter(funcPresenter(func(FrameInfo) {
		e.Quit()
		during = e.State()
	})))

	e.Tick()
	if during != StateFrameInProgress {
		t.Errorf("Expected frame to keep running after Quit, got %v", during)
	}
	if e.State() != StateStopped || e.Frames() != 1 {
		t.Errorf("Expected Stopped after 1 frame, got %v after %d", e.State(), e.Frames())
	}
}

func TestResizeIsDeferredDuringFrame(t *testing.T) {
	l := &recordingListener{}
	var e Engine
	e = NewEngine(
		WithClock(&stepClock{step: 0.1}),
		WithResizeListener(l),
		WithPresenter(funcPresenter(func(FrameInfo) {
			e.Resize(640, 480)
			e.Resize(800, 600)
			if len(l.sizes) != 0 {
				t.Errorf("Expected no resize inside the frame, got %v", l.sizes)
			}
		})),
	)

	e.Tick()
	if len(l.sizes) != 1 || l.sizes[0] != [2]int{800, 600} {
		t.Errorf("Expected only the latest resize after the frame, got %v", l.sizes)
	}
}

func TestResizeWhenIdle(t *testing.T) {
	a, b := &recordingListener{}, &recordingListener{}
	e := NewEngine(WithResizeListener(a), WithResizeListener(b))

	e.Resize(1024, 768)
	e.Resize(0, 0)

	for name, l := range map[string]*recordingListener{"first": a, "second": b} {
		if len(l.sizes) != 1 || l.sizes[0] != [2]int{1024, 768} {
			t.Errorf("%s listener: expected [[1024 768]], got %v", name, l.sizes)
		}
	}
}

func TestRunDrivesPacer(t *testing.T) {
	pacer := &countingPacer{frames: 5}
	e := NewEngine(WithClock(&stepClock{step: 1.0 / 60.0}), WithPacer(pacer))

	e.Run()

	if e.Frames() != 5 {
		t.Errorf("Expected 5 frames, got %d", e.Frames())
	}
	if e.State() != StateStopped {
		t.Errorf("Expected Stopped after Run, got %v", e.State())
	}
	if pacer.closed != 1 {
		t.Errorf("Expected pacer closed once, got %d", pacer.closed)
	}
}

func TestRunWithoutPacerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic")
		}
	}()
	NewEngine().Run()
}

func TestWorkerPoolMatchesSerial(t *testing.T) {
	serial, parallel := newScene(9), newScene(9)
	a := NewEngine(append(serial.options(), WithClock(&stepClock{step: 1.0 / 30.0}))...)
	b := NewEngine(append(parallel.options(), WithClock(&stepClock{step: 1.0 / 30.0}), WithWorkerPool(2))...)
	defer b.Quit()

	for i := 0; i < 120; i++ {
		a.Tick()
		b.Tick()
	}

	for i, v := range serial.mesh.Positions() {
		if parallel.mesh.Positions()[i] != v {
			t.Fatalf("Position float %d differs: %v vs %v", i, v, parallel.mesh.Positions()[i])
		}
	}
	for i := 0; i < serial.instances.Count(); i++ {
		if serial.instances.Transform(i) != parallel.instances.Transform(i) {
			t.Fatalf("Instance %d differs", i)
		}
	}
}

func TestTickDoesNotAllocate(t *testing.T) {
	s := newScene(4)
	e := NewEngine(append(s.options(),
		WithClock(&stepClock{step: 1.0 / 60.0}),
		WithPresenter(funcPresenter(func(FrameInfo) {})),
	)...)

	allocs := testing.AllocsPerRun(50, e.Tick)
	if allocs != 0 {
		t.Errorf("Expected zero allocations per frame, got %v", allocs)
	}
}

func TestProfilerToggle(t *testing.T) {
	now := time.Unix(0, 0)
	reports := 0
	p := profiler.NewProfiler(
		profiler.WithTimeSource(func() time.Time {
			now = now.Add(time.Second)
			return now
		}),
		profiler.WithLogFunc(func(string, ...any) { reports++ }),
	)

	e := NewEngine(WithClock(&stepClock{step: 1.0 / 60.0}))
	e.(*engine).profiler = p

	steps := []struct {
		name   string
		toggle func()
		want   int
	}{
		{"Off by default", func() {}, 0},
		{"Enabled", e.EnableProfiler, 1},
		{"Still enabled", func() {}, 2},
		{"Disabled", e.DisableProfiler, 2},
	}
	for _, st := range steps {
		st.toggle()
		e.Tick()
		if reports != st.want {
			t.Errorf("%s: expected %d reports, got %d", st.name, st.want, reports)
		}
	}
}

func TestNewEngineRejectsMismatchedBuffers(t *testing.T) {
	s := newScene(5)
	tests := []struct {
		name string
		fn   func()
	}{
		{"History and generator disagree", func() {
			NewEngine(WithRibbon(spline.NewStraightHistory(10, 1), s.generator, tube.DefaultRadius, s.mesh))
		}},
		{"Short ribbon mesh", func() {
			small := buffer.NewRibbonMesh(tube.NewGenerator(20, 4), gradient.DefaultHead, gradient.DefaultTail)
			NewEngine(WithRibbon(s.history, s.generator, tube.DefaultRadius, small))
		}},
		{"Instance count mismatch", func() {
			NewEngine(WithLanterns(s.field, buffer.NewInstances(3)))
		}},
		{"Negative radius", func() {
			WithRibbon(s.history, s.generator, -1, s.mesh)
		}},
		{"Missing field", func() {
			WithLanterns(nil, s.instances)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestMonotonicClock(t *testing.T) {
	base := time.Unix(50, 0)
	now := base
	c := &monotonicClock{now: func() time.Time { return now }}

	if elapsed, delta := c.Tick(); elapsed != 0 || delta != 0 {
		t.Errorf("Expected first tick to report zero, got %v, %v", elapsed, delta)
	}
	now = base.Add(250 * time.Millisecond)
	c.Tick()
	now = base.Add(1 * time.Second)
	elapsed, delta := c.Tick()
	if elapsed != 1 || delta != 0.75 {
		t.Errorf("Expected elapsed 1 and delta 0.75, got %v and %v", elapsed, delta)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateIdle:            "Idle",
		StateFrameInProgress: "FrameInProgress",
		StateStopped:         "Stopped",
		State(7):             "State(7)",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("Expected %q, got %q", want, s.String())
		}
	}
}
