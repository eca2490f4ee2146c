package spline

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Evaluate returns the position and first derivative of the uniform Catmull-Rom spline through
// points at global parameter u in [0, 1]. u=0 is the first point and u=1 the last.
// The curve passes through every control point and is C1 continuous; the missing neighbours at
// both ends are linearly extrapolated.
//
// Parameters:
//   - points: the control points, in order (at least 2)
//   - u: the global curve parameter, clamped to [0, 1]
//
// Returns:
//   - mgl32.Vec3: the curve position
//   - mgl32.Vec3: the derivative with respect to the local segment parameter
func Evaluate(points []mgl32.Vec3, u float32) (mgl32.Vec3, mgl32.Vec3) {
	n := len(points)
	if n < 2 {
		panic(fmt.Sprintf("spline: need at least 2 control points, got %d", n))
	}
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}

	segments := n - 1
	f := u * float32(segments)
	seg := int(f)
	if seg >= segments {
		seg = segments - 1
	}
	t := f - float32(seg)

	p1 := points[seg]
	p2 := points[seg+1]
	var p0, p3 mgl32.Vec3
	if seg > 0 {
		p0 = points[seg-1]
	} else {
		p0 = p1.Mul(2).Sub(p2)
	}
	if seg+2 < n {
		p3 = points[seg+2]
	} else {
		p3 = p2.Mul(2).Sub(p1)
	}

	return segment(p0, p1, p2, p3, t)
}

// segment evaluates one uniform Catmull-Rom segment between p1 and p2.
//
//	P(t)  = ½(2p1 + (p2−p0)t + (2p0−5p1+4p2−p3)t² + (3p1−p0−3p2+p3)t³)
//	P'(t) = ½((p2−p0) + 2(2p0−5p1+4p2−p3)t + 3(3p1−p0−3p2+p3)t²)
func segment(p0, p1, p2, p3 mgl32.Vec3, t float32) (mgl32.Vec3, mgl32.Vec3) {
	var pos, der mgl32.Vec3
	t2 := t * t
	t3 := t2 * t
	for i := 0; i < 3; i++ {
		a := p2[i] - p0[i]
		b := 2*p0[i] - 5*p1[i] + 4*p2[i] - p3[i]
		c := 3*p1[i] - p0[i] - 3*p2[i] + p3[i]
		pos[i] = 0.5 * (2*p1[i] + a*t + b*t2 + c*t3)
		der[i] = 0.5 * (a + 2*b*t + 3*c*t2)
	}
	return pos, der
}

// Evaluator samples a Catmull-Rom spline into caller-owned storage.
// It is stateless apart from its sample count, so one Evaluator is reused for every frame.
type Evaluator struct {
	samples int
}

// NewEvaluator creates an Evaluator producing the given number of evenly spaced samples.
//
// Parameters:
//   - samples: number of samples per call (must be >= 2)
//
// Returns:
//   - *Evaluator: the evaluator
func NewEvaluator(samples int) *Evaluator {
	if samples < 2 {
		panic(fmt.Sprintf("spline: evaluator needs at least 2 samples, got %d", samples))
	}
	return &Evaluator{samples: samples}
}

// Samples returns the number of samples written per call.
func (e *Evaluator) Samples() int {
	return e.samples
}

// Sample evaluates the curve through points at evenly spaced parameters i/(samples-1) and
// writes positions and derivatives into the provided slices. Nothing is allocated.
//
// Parameters:
//   - points: the control points
//   - positions: destination for curve positions (length must equal Samples())
//   - tangents: destination for curve derivatives (length must equal Samples())
func (e *Evaluator) Sample(points []mgl32.Vec3, positions, tangents []mgl32.Vec3) {
	if len(positions) != e.samples || len(tangents) != e.samples {
		panic(fmt.Sprintf("spline: sample buffers must hold %d entries, got %d and %d",
			e.samples, len(positions), len(tangents)))
	}
	last := float32(e.samples - 1)
	for i := 0; i < e.samples; i++ {
		positions[i], tangents[i] = Evaluate(points, float32(i)/last)
	}
}
