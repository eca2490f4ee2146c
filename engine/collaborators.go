package engine

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is the ribbon geometry the engine writes into each frame.
type Mesh interface {
	// Positions returns the mutable flat xyz buffer. Its length never changes.
	Positions() []float32

	// MarkDirty signals that Positions changed and needs upload.
	MarkDirty()
}

// InstancedMesh is a batch of per-instance transforms over one base mesh.
type InstancedMesh interface {
	// Count returns the number of instance slots.
	Count() int

	// Transform returns the model matrix of slot i.
	Transform(i int) mgl32.Mat4

	// SetTransform replaces the model matrix of slot i.
	SetTransform(i int, m mgl32.Mat4)

	// MarkDirty signals that the batch needs upload.
	MarkDirty()
}

// Clock reports time since the first tick and the time since the previous tick, in seconds.
type Clock interface {
	Tick() (elapsed, delta float64)
}

// FramePacer drives the engine: it calls the update callback once per display refresh
// from inside ProcessMessages, which blocks until the pacer shuts down.
type FramePacer interface {
	// SetUpdateCallback sets the per-frame callback.
	//
	// Parameters:
	//   - callback: function to call once per frame (or nil to disable)
	SetUpdateCallback(callback func())

	// ProcessMessages runs the pacing loop and blocks until it ends.
	ProcessMessages()

	// Close ends the pacing loop and releases platform resources.
	//
	// Returns:
	//   - error: error if the close fails
	Close() error
}

// Presenter draws a finished frame. It is called after both buffer updates completed.
type Presenter interface {
	Present(frame FrameInfo)
}

// ResizeListener is notified of viewport changes outside any in-flight frame.
type ResizeListener interface {
	Resize(width, height int)
}

// FrameInfo describes the frame being presented.
type FrameInfo struct {
	// Index counts presented frames starting at 0.
	Index uint64
	// Elapsed is seconds since the first tick.
	Elapsed float64
	// Delta is seconds since the previous tick.
	Delta float64
	// Leader is the point pushed onto the spline history this frame.
	Leader mgl32.Vec3
}

// monotonicClock measures time with the runtime's monotonic clock reading.
type monotonicClock struct {
	start time.Time
	last  time.Time
	now   func() time.Time
}

var _ Clock = &monotonicClock{}

// NewClock creates the default Clock. The first Tick reports elapsed and delta of zero.
//
// Returns:
//   - Clock: the monotonic clock
func NewClock() Clock {
	return &monotonicClock{now: time.Now}
}

func (c *monotonicClock) Tick() (float64, float64) {
	now := c.now()
	if c.start.IsZero() {
		c.start = now
		c.last = now
		return 0, 0
	}
	elapsed := now.Sub(c.start).Seconds()
	delta := now.Sub(c.last).Seconds()
	c.last = now
	return elapsed, delta
}
