// Package motion drives the invisible point the ribbon follows.
package motion

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Leader is a Lissajous-style oscillator: x = A·cos(ωx·t), y = B·sin(ωy·t), z = C·sin(ωz·t).
// It has no state beyond its constants, so it can be sampled any number of times.
type Leader struct {
	amplitude mgl32.Vec3
	frequency mgl32.Vec3
}

// NewLeader creates a Leader with the default amplitudes (10, 5, 10) and angular frequencies (0.5, 0.7, 0.4).
//
// Parameters:
//   - options: functional options overriding amplitude or frequency
//
// Returns:
//   - Leader: the configured leader
func NewLeader(options ...LeaderBuilderOption) Leader {
	l := Leader{
		amplitude: mgl32.Vec3{10, 5, 10},
		frequency: mgl32.Vec3{0.5, 0.7, 0.4},
	}
	for _, opt := range options {
		opt(&l)
	}
	return l
}

// Amplitude returns the per-axis amplitude.
func (l Leader) Amplitude() mgl32.Vec3 {
	return l.amplitude
}

// Frequency returns the per-axis angular frequency in radians per second.
func (l Leader) Frequency() mgl32.Vec3 {
	return l.frequency
}

// NextPosition returns the leader point at the given elapsed time.
//
// Parameters:
//   - elapsed: seconds since the animation started (must be finite)
//
// Returns:
//   - mgl32.Vec3: the leader position
func (l Leader) NextPosition(elapsed float64) mgl32.Vec3 {
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		panic(fmt.Sprintf("motion: elapsed time must be finite, got %v", elapsed))
	}
	return mgl32.Vec3{
		l.amplitude[0] * float32(math.Cos(float64(l.frequency[0])*elapsed)),
		l.amplitude[1] * float32(math.Sin(float64(l.frequency[1])*elapsed)),
		l.amplitude[2] * float32(math.Sin(float64(l.frequency[2])*elapsed)),
	}
}
