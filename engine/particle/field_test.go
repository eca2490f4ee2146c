package particle

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type recordingWriter struct {
	transforms []mgl32.Mat4
}

func (r *recordingWriter) Count() int { return len(r.transforms) }

func (r *recordingWriter) SetTransform(i int, m mgl32.Mat4) { r.transforms[i] = m }

func TestNewFieldBounds(t *testing.T) {
	f := NewField(DefaultCount, rand.New(rand.NewSource(1)))
	if f.Len() != DefaultCount {
		t.Fatalf("Expected %d lanterns, got %d", DefaultCount, f.Len())
	}
	for i := 0; i < f.Len(); i++ {
		p := f.Position(i)
		if p[1] < DefaultBottom || p[1] > DefaultTop {
			t.Errorf("Slot %d: y=%v outside [-15, 15]", i, p[1])
		}
		if p[0] < -DefaultHalfWidth || p[0] >= DefaultHalfWidth || p[2] < -DefaultHalfWidth || p[2] >= DefaultHalfWidth {
			t.Errorf("Slot %d: horizontal position %v outside seed box", i, p)
		}
		if s := f.Speed(i); s < DefaultMinSpeed || s >= DefaultMaxSpeed {
			t.Errorf("Slot %d: speed %v outside [0.5, 1.0)", i, s)
		}
	}
}

func TestStepWrapScenario(t *testing.T) {
	f := NewField(1, rand.New(rand.NewSource(7)))
	f.positions[0] = mgl32.Vec3{3, 14.8, -2}
	f.speeds[0] = 1.0

	f.Step(0.5)

	if got := f.Position(0); got != (mgl32.Vec3{3, -15, -2}) {
		t.Errorf("Expected (3, -15, -2), got %v", got)
	}
}

func TestStepRisesWithoutWrapping(t *testing.T) {
	f := NewField(1, rand.New(rand.NewSource(7)))
	f.positions[0] = mgl32.Vec3{1, 0, 1}
	f.speeds[0] = 0.75

	f.Step(2)

	if got := f.Position(0); got != (mgl32.Vec3{1, 1.5, 1}) {
		t.Errorf("Expected (1, 1.5, 1), got %v", got)
	}
}

func TestStepWrapLaw(t *testing.T) {
	f := NewField(DefaultCount, rand.New(rand.NewSource(42)))
	const delta = 1.0 / 30.0

	for frame := 0; frame < 2000; frame++ {
		before := make([]mgl32.Vec3, f.Len())
		copy(before, f.Positions())
		f.Step(delta)

		for i, p := range f.Positions() {
			b := before[i]
			if p[0] != b[0] || p[2] != b[2] {
				t.Fatalf("Frame %d slot %d: horizontal position changed from %v to %v", frame, i, b, p)
			}
			if p[1] < DefaultBottom || p[1] > DefaultTop {
				t.Fatalf("Frame %d slot %d: y=%v escaped the band", frame, i, p[1])
			}
			if b[1]+float32(delta)*f.Speed(i) > DefaultTop+1e-4 && p[1] != DefaultBottom {
				t.Fatalf("Frame %d slot %d: expected wrap to %v, got %v", frame, i, DefaultBottom, p[1])
			}
		}
	}
}

func TestSpeedsAreFixed(t *testing.T) {
	f := NewField(50, rand.New(rand.NewSource(3)))
	speeds := make([]float32, f.Len())
	for i := range speeds {
		speeds[i] = f.Speed(i)
	}
	for n := 0; n < 100; n++ {
		f.Step(0.25)
	}
	for i := range speeds {
		if f.Speed(i) != speeds[i] {
			t.Errorf("Slot %d: speed changed from %v to %v", i, speeds[i], f.Speed(i))
		}
	}
}

func TestStepDoesNotAllocate(t *testing.T) {
	f := NewField(DefaultCount, rand.New(rand.NewSource(5)))
	w := &recordingWriter{transforms: make([]mgl32.Mat4, DefaultCount)}
	allocs := testing.AllocsPerRun(50, func() {
		f.Step(1.0 / 60.0)
		f.WriteTransforms(w)
	})
	if allocs != 0 {
		t.Errorf("Expected zero allocations, got %v", allocs)
	}
}

func TestWriteTransforms(t *testing.T) {
	f := NewField(3, rand.New(rand.NewSource(9)))
	w := &recordingWriter{transforms: make([]mgl32.Mat4, 3)}
	f.WriteTransforms(w)

	for i, m := range w.transforms {
		p := f.Position(i)
		if m[12] != p[0] || m[13] != p[1] || m[14] != p[2] || m[15] != 1 {
			t.Errorf("Slot %d: translation column %v does not match %v", i, m.Col(3), p)
		}
		if m[0] != 1 || m[5] != 1 || m[10] != 1 {
			t.Errorf("Slot %d: expected unit scale, got %v", i, m)
		}
	}
}

func TestSeedingIsReproducible(t *testing.T) {
	a := NewField(20, rand.New(rand.NewSource(11)))
	b := NewField(20, rand.New(rand.NewSource(11)))
	for i := 0; i < a.Len(); i++ {
		if a.Position(i) != b.Position(i) || a.Speed(i) != b.Speed(i) {
			t.Fatalf("Slot %d differs between identically seeded fields", i)
		}
	}
}

func TestOptions(t *testing.T) {
	f := NewField(100, rand.New(rand.NewSource(2)),
		WithHalfWidth(1),
		WithBand(0, 2),
		WithSpeedRange(3, 4),
	)
	bottom, top := f.Band()
	if bottom != 0 || top != 2 {
		t.Fatalf("Expected band [0, 2], got [%v, %v]", bottom, top)
	}
	for i := 0; i < f.Len(); i++ {
		p := f.Position(i)
		if p[0] < -1 || p[0] >= 1 || p[1] < 0 || p[1] >= 2 {
			t.Errorf("Slot %d: %v outside configured box", i, p)
		}
		if s := f.Speed(i); s < 3 || s >= 4 {
			t.Errorf("Slot %d: speed %v outside [3, 4)", i, s)
		}
	}
}

func TestContractViolations(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name string
		fn   func()
	}{
		{"Zero lanterns", func() { NewField(0, rng) }},
		{"Nil rng", func() { NewField(1, nil) }},
		{"Inverted band", func() { NewField(1, rng, WithBand(5, -5)) }},
		{"Empty speed range", func() { NewField(1, rng, WithSpeedRange(1, 1)) }},
		{"Negative delta", func() { NewField(1, rng).Step(-0.1) }},
		{"Mismatched writer", func() {
			NewField(2, rng).WriteTransforms(&recordingWriter{transforms: make([]mgl32.Mat4, 3)})
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
