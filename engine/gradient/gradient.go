// Package gradient computes the static head-to-tail vertex colouring of the ribbon.
package gradient

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultHead is the colour at vertex 0 (#ffa500, bright orange).
var DefaultHead = colorful.Color{R: 1, G: 165.0 / 255.0, B: 0}

// DefaultTail is the colour approached by the last vertex (#ff0000, deep red).
var DefaultTail = colorful.Color{R: 1, G: 0, B: 0}

// ComputeColors returns one RGB triple per vertex, linearly blended from head to tail.
// Vertex i uses t = i / vertexCount, so t covers [0, 1) and the tail colour itself is never reached.
//
// Parameters:
//   - vertexCount: the number of vertices (must be > 0)
//   - head: colour at t = 0
//   - tail: colour at t = 1
//
// Returns:
//   - []float32: 3·vertexCount floats laid out r, g, b per vertex
func ComputeColors(vertexCount int, head, tail colorful.Color) []float32 {
	if vertexCount <= 0 {
		panic(fmt.Sprintf("gradient: vertex count must be positive, got %d", vertexCount))
	}
	out := make([]float32, 3*vertexCount)
	ComputeColorsInto(out, head, tail)
	return out
}

// ComputeColorsInto fills dst, whose length must be a positive multiple of 3, with the gradient.
// The vertex count is len(dst)/3.
//
// Parameters:
//   - dst: destination buffer of r, g, b triples
//   - head: colour at t = 0
//   - tail: colour at t = 1
func ComputeColorsInto(dst []float32, head, tail colorful.Color) {
	if len(dst) == 0 || len(dst)%3 != 0 {
		panic(fmt.Sprintf("gradient: buffer length must be a positive multiple of 3, got %d", len(dst)))
	}
	n := len(dst) / 3
	for i := 0; i < n; i++ {
		c := head.BlendRgb(tail, float64(i)/float64(n))
		dst[3*i] = float32(c.R)
		dst[3*i+1] = float32(c.G)
		dst[3*i+2] = float32(c.B)
	}
}

// ParseHex parses a "#rrggbb" colour, falling back to def when s is empty.
//
// Parameters:
//   - s: the hex colour string, or "" for the default
//   - def: the colour returned for an empty string
//
// Returns:
//   - colorful.Color: the parsed colour
//   - error: error if s is not a valid hex colour
func ParseHex(s string, def colorful.Color) (colorful.Color, error) {
	if s == "" {
		return def, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}
