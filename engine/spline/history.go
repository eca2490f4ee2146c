// Package spline holds the ribbon's rolling point history and the Catmull-Rom evaluator
// used to fit a smooth curve through it.
package spline

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MinPoints is the smallest history a spline can be fitted through.
// Fewer control points leave the curve ill-defined at its ends.
const MinPoints = 4

// DefaultPoints is the history length used by the ribbon.
const DefaultPoints = 100

// DefaultSeedSpacing is the distance between consecutive points of the straight-line seed.
const DefaultSeedSpacing = 0.5

// History is a fixed-capacity ordered sequence of points, oldest first.
//
// The backing array holds every point twice (slot i and slot i+K), so the ordered
// window is always the contiguous slice data[start:start+K]. Push is O(1) and
// Points never copies.
type History struct {
	data  []mgl32.Vec3
	start int
	k     int
}

// NewHistory creates a History seeded with the given points, oldest first.
// The history keeps exactly len(seed) points for its whole lifetime.
//
// Parameters:
//   - seed: the initial points (must contain at least MinPoints points)
//
// Returns:
//   - *History: the seeded history
func NewHistory(seed []mgl32.Vec3) *History {
	k := len(seed)
	if k < MinPoints {
		panic(fmt.Sprintf("spline: history needs at least %d points, got %d", MinPoints, k))
	}
	h := &History{
		data: make([]mgl32.Vec3, 2*k),
		k:    k,
	}
	copy(h.data, seed)
	copy(h.data[k:], seed)
	return h
}

// NewStraightHistory creates a History of k points laid out along +Z at the given spacing,
// starting at the origin. This is the degenerate seed that keeps the tube valid on frame one.
//
// Parameters:
//   - k: number of points (must be >= MinPoints)
//   - spacing: distance between consecutive points
//
// Returns:
//   - *History: the seeded history
func NewStraightHistory(k int, spacing float32) *History {
	if k < MinPoints {
		panic(fmt.Sprintf("spline: history needs at least %d points, got %d", MinPoints, k))
	}
	seed := make([]mgl32.Vec3, k)
	for i := range seed {
		seed[i] = mgl32.Vec3{0, 0, float32(i) * spacing}
	}
	return NewHistory(seed)
}

// Push appends p as the newest point and evicts the oldest one.
func (h *History) Push(p mgl32.Vec3) {
	h.data[h.start] = p
	h.data[h.start+h.k] = p
	h.start++
	if h.start == h.k {
		h.start = 0
	}
}

// Points returns the current points, oldest first.
// The slice aliases internal storage: it must not be modified and is only valid until the next Push.
func (h *History) Points() []mgl32.Vec3 {
	return h.data[h.start : h.start+h.k]
}

// Len returns the number of points held, which is constant.
func (h *History) Len() int {
	return h.k
}

// At returns the i-th point, where 0 is the oldest.
func (h *History) At(i int) mgl32.Vec3 {
	if i < 0 || i >= h.k {
		panic(fmt.Sprintf("spline: index %d out of range [0, %d)", i, h.k))
	}
	return h.data[h.start+i]
}

// Newest returns the most recently pushed point.
func (h *History) Newest() mgl32.Vec3 {
	return h.data[h.start+h.k-1]
}
