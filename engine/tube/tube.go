// Package tube sweeps a ring of vertices along a spline to build the ribbon's surface.
//
// A Generator owns every scratch buffer it needs and writes positions straight into the
// caller's vertex buffer, so regenerating the tube each frame allocates nothing. The
// vertex count and the index buffer are fixed at construction; only positions change.
package tube

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/lantern-fish/engine/spline"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultRadius is the tube radius used by the ribbon.
const DefaultRadius = 0.2

// DefaultRadialSegments is the number of vertices in each ring.
const DefaultRadialSegments = 8

// MinRadialSegments is the smallest ring that still encloses a volume.
const MinRadialSegments = 3

// degenerateEpsilon is the squared length below which a tangent or step is treated as zero.
const degenerateEpsilon = 1e-12

// Generator produces an uncapped tube of K rings with R vertices each.
type Generator struct {
	k int
	r int

	evaluator *spline.Evaluator

	centers   []mgl32.Vec3
	tangents  []mgl32.Vec3
	normals   []mgl32.Vec3
	binormals []mgl32.Vec3

	cos []float32
	sin []float32

	indices []uint32
}

// NewGenerator creates a Generator for k control points and r vertices per ring.
// All scratch storage and the triangle index buffer are allocated here, once.
//
// Parameters:
//   - k: number of control points and rings (must be >= spline.MinPoints)
//   - r: vertices per ring (must be >= MinRadialSegments)
//
// Returns:
//   - *Generator: the generator
func NewGenerator(k, r int) *Generator {
	if k < spline.MinPoints {
		panic(fmt.Sprintf("tube: need at least %d rings, got %d", spline.MinPoints, k))
	}
	if r < MinRadialSegments {
		panic(fmt.Sprintf("tube: need at least %d radial segments, got %d", MinRadialSegments, r))
	}

	g := &Generator{
		k:         k,
		r:         r,
		evaluator: spline.NewEvaluator(k),
		centers:   make([]mgl32.Vec3, k),
		tangents:  make([]mgl32.Vec3, k),
		normals:   make([]mgl32.Vec3, k),
		binormals: make([]mgl32.Vec3, k),
		cos:       make([]float32, r),
		sin:       make([]float32, r),
	}
	for j := 0; j < r; j++ {
		theta := 2 * math.Pi * float64(j) / float64(r)
		g.cos[j] = float32(math.Cos(theta))
		g.sin[j] = float32(math.Sin(theta))
	}
	g.indices = buildIndices(k, r)
	return g
}

// Rings returns the number of rings (K).
func (g *Generator) Rings() int {
	return g.k
}

// RadialSegments returns the number of vertices per ring (R).
func (g *Generator) RadialSegments() int {
	return g.r
}

// VertexCount returns K·R, the number of positions written by Generate.
func (g *Generator) VertexCount() int {
	return g.k * g.r
}

// BufferLength returns the number of floats Generate expects in its output buffer (3·K·R).
func (g *Generator) BufferLength() int {
	return 3 * g.k * g.r
}

// Indices returns the triangle list for the tube. The slice is built once and shared; do not modify it.
//
// Returns:
//   - []uint32: 6·(K−1)·R indices, two triangles per quad between consecutive rings
func (g *Generator) Indices() []uint32 {
	return g.indices
}

// Frame returns the centre, tangent, normal and binormal of ring i from the last Generate call.
func (g *Generator) Frame(i int) (center, tangent, normal, binormal mgl32.Vec3) {
	return g.centers[i], g.tangents[i], g.normals[i], g.binormals[i]
}

// Generate fits the spline through points and writes the tube's vertex positions into out.
// Ring i is centred on the i-th evenly spaced curve sample; vertex j of ring i is written at
// float offset 3·(i·R + j).
//
// Parameters:
//   - points: exactly K control points, oldest first
//   - radius: tube radius (finite, >= 0)
//   - out: the mesh's position buffer, exactly 3·K·R floats, overwritten in place
func (g *Generator) Generate(points []mgl32.Vec3, radius float32, out []float32) {
	if len(points) != g.k {
		panic(fmt.Sprintf("tube: expected %d control points, got %d", g.k, len(points)))
	}
	if len(out) != g.BufferLength() {
		panic(fmt.Sprintf("tube: output buffer must hold %d floats, got %d", g.BufferLength(), len(out)))
	}
	if radius < 0 || math.IsNaN(float64(radius)) || math.IsInf(float64(radius), 0) {
		panic(fmt.Sprintf("tube: invalid radius %v", radius))
	}

	g.evaluator.Sample(points, g.centers, g.tangents)
	g.normalizeTangents()
	g.buildFrames()

	o := 0
	for i := 0; i < g.k; i++ {
		c, n, b := g.centers[i], g.normals[i], g.binormals[i]
		for j := 0; j < g.r; j++ {
			cs, sn := g.cos[j]*radius, g.sin[j]*radius
			out[o] = c[0] + cs*n[0] + sn*b[0]
			out[o+1] = c[1] + cs*n[1] + sn*b[1]
			out[o+2] = c[2] + cs*n[2] + sn*b[2]
			o += 3
		}
	}
}

// normalizeTangents turns the spline derivatives into unit tangents. A zero derivative
// (repeated control points) inherits its neighbour's direction.
func (g *Generator) normalizeTangents() {
	first := -1
	for i, t := range g.tangents {
		if t.Dot(t) > degenerateEpsilon {
			first = i
			break
		}
	}
	if first < 0 {
		for i := range g.tangents {
			g.tangents[i] = mgl32.Vec3{0, 0, 1}
		}
		return
	}

	prev := g.tangents[first].Normalize()
	for i := range g.tangents {
		t := g.tangents[i]
		if t.Dot(t) > degenerateEpsilon {
			prev = t.Normalize()
		}
		g.tangents[i] = prev
	}
}

// buildFrames computes rotation-minimizing frames with the double reflection method
// (Wang, Jüttler, Zheng, Liu 2008). Unlike Frenet frames these never flip at inflection points.
func (g *Generator) buildFrames() {
	t0 := g.tangents[0]
	g.normals[0] = initialNormal(t0)
	g.binormals[0] = t0.Cross(g.normals[0])

	for i := 0; i < g.k-1; i++ {
		ri := g.normals[i]
		ti := g.tangents[i]
		tn := g.tangents[i+1]

		rl, tl := ri, ti
		v1 := g.centers[i+1].Sub(g.centers[i])
		if c1 := v1.Dot(v1); c1 > degenerateEpsilon {
			rl = ri.Sub(v1.Mul(2 / c1 * v1.Dot(ri)))
			tl = ti.Sub(v1.Mul(2 / c1 * v1.Dot(ti)))
		}

		rn := rl
		v2 := tn.Sub(tl)
		if c2 := v2.Dot(v2); c2 > degenerateEpsilon {
			rn = rl.Sub(v2.Mul(2 / c2 * v2.Dot(rl)))
		}

		// Re-orthogonalize against the tangent to stop float drift accumulating along the tube.
		rn = rn.Sub(tn.Mul(rn.Dot(tn)))
		if rn.Dot(rn) <= degenerateEpsilon {
			rn = initialNormal(tn)
		} else {
			rn = rn.Normalize()
		}

		g.normals[i+1] = rn
		g.binormals[i+1] = tn.Cross(rn)
	}
}

// initialNormal returns a unit vector perpendicular to t, built from the world axis least aligned with it.
func initialNormal(t mgl32.Vec3) mgl32.Vec3 {
	ax, ay, az := mgl32.Abs(t[0]), mgl32.Abs(t[1]), mgl32.Abs(t[2])
	axis := mgl32.Vec3{1, 0, 0}
	if ay <= ax && ay <= az {
		axis = mgl32.Vec3{0, 1, 0}
	} else if az <= ax && az <= ay {
		axis = mgl32.Vec3{0, 0, 1}
	}
	n := axis.Sub(t.Mul(axis.Dot(t)))
	return n.Normalize()
}

// buildIndices creates the triangle list joining consecutive rings.
// Rings are closed by wrapping j+1 back to 0, so no seam vertex is duplicated.
func buildIndices(k, r int) []uint32 {
	indices := make([]uint32, 0, 6*(k-1)*r)
	for i := 0; i < k-1; i++ {
		for j := 0; j < r; j++ {
			jn := (j + 1) % r
			a := uint32(i*r + j)
			b := uint32((i+1)*r + j)
			c := uint32((i+1)*r + jn)
			d := uint32(i*r + jn)
			indices = append(indices, a, b, d, b, c, d)
		}
	}
	return indices
}
