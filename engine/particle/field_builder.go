package particle

const (
	// DefaultCount is the number of lanterns in the scene.
	DefaultCount = 400
	// DefaultHalfWidth bounds the seed box on x and z.
	DefaultHalfWidth = 25
	// DefaultBottom is where wrapped lanterns re-enter.
	DefaultBottom = -15
	// DefaultTop is the height above which lanterns wrap.
	DefaultTop = 15
	// DefaultMinSpeed is the slowest rise speed (inclusive).
	DefaultMinSpeed = 0.5
	// DefaultMaxSpeed is the fastest rise speed (exclusive).
	DefaultMaxSpeed = 1.0
)

type fieldConfig struct {
	halfWidth float32
	bottom    float32
	top       float32
	minSpeed  float32
	maxSpeed  float32
}

// FieldBuilderOption is a functional option for configuring a Field.
type FieldBuilderOption func(*fieldConfig)

// WithHalfWidth sets the horizontal extent of the seed box; x and z are drawn from [-halfWidth, halfWidth).
//
// Parameters:
//   - halfWidth: half the box width in world units
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithHalfWidth(halfWidth float32) FieldBuilderOption {
	return func(c *fieldConfig) {
		c.halfWidth = halfWidth
	}
}

// WithBand sets the vertical band lanterns rise through and wrap within.
//
// Parameters:
//   - bottom: the re-entry height
//   - top: the wrap height
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithBand(bottom, top float32) FieldBuilderOption {
	return func(c *fieldConfig) {
		c.bottom = bottom
		c.top = top
	}
}

// WithSpeedRange sets the range per-slot rise speeds are drawn from.
//
// Parameters:
//   - lo: minimum speed (inclusive)
//   - hi: maximum speed (exclusive)
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithSpeedRange(lo, hi float32) FieldBuilderOption {
	return func(c *fieldConfig) {
		c.minSpeed = lo
		c.maxSpeed = hi
	}
}
