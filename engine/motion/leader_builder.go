package motion

import "github.com/go-gl/mathgl/mgl32"

// LeaderBuilderOption is a functional option for configuring a Leader.
type LeaderBuilderOption func(*Leader)

// WithAmplitude sets the oscillation amplitude on each axis.
//
// Parameters:
//   - x, y, z: amplitudes in world units
//
// Returns:
//   - LeaderBuilderOption: option function to apply
func WithAmplitude(x, y, z float32) LeaderBuilderOption {
	return func(l *Leader) {
		l.amplitude = mgl32.Vec3{x, y, z}
	}
}

// WithFrequency sets the angular frequency on each axis.
//
// Parameters:
//   - x, y, z: angular frequencies in radians per second
//
// Returns:
//   - LeaderBuilderOption: option function to apply
func WithFrequency(x, y, z float32) LeaderBuilderOption {
	return func(l *Leader) {
		l.frequency = mgl32.Vec3{x, y, z}
	}
}
