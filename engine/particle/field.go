// Package particle simulates the lantern field: N independent points rising through a
// bounded vertical band and wrapping from the top back to the bottom.
package particle

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// InstanceWriter receives one transform per lantern slot.
// engine.InstancedMesh satisfies it.
type InstanceWriter interface {
	Count() int
	SetTransform(i int, m mgl32.Mat4)
}

// Field holds the lantern positions and their fixed rise speeds. Slot i is identified only by its index.
type Field struct {
	positions []mgl32.Vec3
	speeds    []float32

	bottom float32
	top    float32
}

// NewField creates a Field of n lanterns scattered uniformly through the seed box
// (x, z in [-halfWidth, halfWidth), y in [bottom, top)) with speeds in [minSpeed, maxSpeed).
// All randomness is drawn here from rng; Step never touches it.
//
// Parameters:
//   - n: number of lanterns (must be > 0)
//   - rng: the random source used for seeding
//   - options: functional options overriding the seed box, band, or speed range
//
// Returns:
//   - *Field: the seeded field
func NewField(n int, rng *rand.Rand, options ...FieldBuilderOption) *Field {
	if n <= 0 {
		panic(fmt.Sprintf("particle: lantern count must be positive, got %d", n))
	}
	if rng == nil {
		panic("particle: nil random source")
	}

	cfg := fieldConfig{
		halfWidth: DefaultHalfWidth,
		bottom:    DefaultBottom,
		top:       DefaultTop,
		minSpeed:  DefaultMinSpeed,
		maxSpeed:  DefaultMaxSpeed,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	if !(cfg.bottom < cfg.top) {
		panic(fmt.Sprintf("particle: band bottom %v must be below top %v", cfg.bottom, cfg.top))
	}
	if !(cfg.minSpeed >= 0 && cfg.minSpeed < cfg.maxSpeed) {
		panic(fmt.Sprintf("particle: invalid speed range [%v, %v)", cfg.minSpeed, cfg.maxSpeed))
	}

	f := &Field{
		positions: make([]mgl32.Vec3, n),
		speeds:    make([]float32, n),
		bottom:    cfg.bottom,
		top:       cfg.top,
	}
	height := cfg.top - cfg.bottom
	for i := range f.positions {
		f.positions[i] = mgl32.Vec3{
			(rng.Float32() - 0.5) * 2 * cfg.halfWidth,
			cfg.bottom + rng.Float32()*height,
			(rng.Float32() - 0.5) * 2 * cfg.halfWidth,
		}
		f.speeds[i] = drawSpeed(rng, cfg.minSpeed, cfg.maxSpeed)
	}
	return f
}

// drawSpeed returns a value in [lo, hi). Float rounding can land exactly on hi, so that case steps down one ulp.
func drawSpeed(rng *rand.Rand, lo, hi float32) float32 {
	s := lo + rng.Float32()*(hi-lo)
	if s >= hi {
		s = math.Nextafter32(hi, lo)
	}
	return s
}

// Len returns the number of lanterns.
func (f *Field) Len() int {
	return len(f.positions)
}

// Position returns the position of slot i.
func (f *Field) Position(i int) mgl32.Vec3 {
	return f.positions[i]
}

// Speed returns the fixed rise speed of slot i in units per second.
func (f *Field) Speed(i int) float32 {
	return f.speeds[i]
}

// Band returns the vertical band the lanterns live in.
func (f *Field) Band() (bottom, top float32) {
	return f.bottom, f.top
}

// Positions returns the live position slice. It must not be modified.
func (f *Field) Positions() []mgl32.Vec3 {
	return f.positions
}

// Step advances every lantern by delta seconds. A lantern that rises above the top of the
// band is moved to the bottom; its horizontal position is kept.
//
// Parameters:
//   - delta: elapsed seconds since the previous step (finite, >= 0)
func (f *Field) Step(delta float64) {
	if delta < 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		panic(fmt.Sprintf("particle: invalid step delta %v", delta))
	}
	dt := float32(delta)
	for i := range f.positions {
		y := f.positions[i][1] + dt*f.speeds[i]
		if y > f.top {
			y = f.bottom
		}
		f.positions[i][1] = y
	}
}

// WriteTransforms writes a translation matrix for every lantern into dst.
//
// Parameters:
//   - dst: the instance target; its Count must equal Len
func (f *Field) WriteTransforms(dst InstanceWriter) {
	if dst.Count() != len(f.positions) {
		panic(fmt.Sprintf("particle: instance target holds %d slots, field has %d", dst.Count(), len(f.positions)))
	}
	for i, p := range f.positions {
		dst.SetTransform(i, mgl32.Translate3D(p[0], p[1], p[2]))
	}
}
