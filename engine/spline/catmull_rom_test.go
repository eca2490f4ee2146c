package spline

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEvaluatePassesThroughControlPoints(t *testing.T) {
	points := []mgl32.Vec3{{0, 0, 0}, {1, 2, 0}, {3, 1, 1}, {4, -1, 2}, {6, 0, 0}}
	segments := float32(len(points) - 1)

	for i, p := range points {
		got, _ := Evaluate(points, float32(i)/segments)
		if !near(got, p, 1e-5) {
			t.Errorf("Control point %d: expected %v, got %v", i, p, got)
		}
	}
}

func TestEvaluateStraightLine(t *testing.T) {
	points := make([]mgl32.Vec3, 10)
	for i := range points {
		points[i] = mgl32.Vec3{0, 0, float32(i)}
	}

	tests := []struct {
		name string
		u    float32
		want mgl32.Vec3
	}{
		{"Start", 0, mgl32.Vec3{0, 0, 0}},
		{"Middle", 0.5, mgl32.Vec3{0, 0, 4.5}},
		{"End", 1, mgl32.Vec3{0, 0, 9}},
		{"Clamped below", -1, mgl32.Vec3{0, 0, 0}},
		{"Clamped above", 2, mgl32.Vec3{0, 0, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, der := Evaluate(points, tt.u)
			if !near(pos, tt.want, 1e-4) {
				t.Errorf("Expected position %v, got %v", tt.want, pos)
			}
			// Evenly spaced collinear points give a constant unit derivative along +Z.
			if !near(der, mgl32.Vec3{0, 0, 1}, 1e-4) {
				t.Errorf("Expected derivative (0,0,1), got %v", der)
			}
		})
	}
}

func TestEvaluateIsContinuousAcrossSegments(t *testing.T) {
	points := []mgl32.Vec3{{0, 0, 0}, {2, 1, 0}, {3, 3, 1}, {1, 4, 2}, {0, 2, 3}}
	segments := float32(len(points) - 1)
	const eps = 1e-4

	for i := 1; i < len(points)-1; i++ {
		u := float32(i) / segments
		beforePos, beforeDer := Evaluate(points, u-eps)
		afterPos, afterDer := Evaluate(points, u+eps)
		if beforePos.Sub(afterPos).Len() > 0.01 {
			t.Errorf("Joint %d: position jumps from %v to %v", i, beforePos, afterPos)
		}
		if beforeDer.Sub(afterDer).Len() > 0.01 {
			t.Errorf("Joint %d: derivative jumps from %v to %v", i, beforeDer, afterDer)
		}
	}
}

func TestEvaluatorSampleDoesNotAllocate(t *testing.T) {
	h := NewStraightHistory(DefaultPoints, DefaultSeedSpacing)
	e := NewEvaluator(DefaultPoints)
	positions := make([]mgl32.Vec3, e.Samples())
	tangents := make([]mgl32.Vec3, e.Samples())

	allocs := testing.AllocsPerRun(20, func() {
		e.Sample(h.Points(), positions, tangents)
	})
	if allocs != 0 {
		t.Errorf("Expected zero allocations, got %v", allocs)
	}
	if positions[len(positions)-1] != h.Newest() {
		t.Errorf("Expected last sample %v, got %v", h.Newest(), positions[len(positions)-1])
	}
}

func TestEvaluatorPanicsOnWrongBufferLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic")
		}
	}()
	e := NewEvaluator(8)
	e.Sample(make([]mgl32.Vec3, 8), make([]mgl32.Vec3, 7), make([]mgl32.Vec3, 8))
}

func near(a, b mgl32.Vec3, eps float32) bool {
	return a.Sub(b).Len() <= eps
}
