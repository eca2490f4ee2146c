package tube

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/lantern-fish/engine/spline"
	"github.com/go-gl/mathgl/mgl32"
)

func helix(k int) []mgl32.Vec3 {
	points := make([]mgl32.Vec3, k)
	for i := range points {
		a := float64(i) * 0.35
		points[i] = mgl32.Vec3{
			float32(3 * math.Cos(a)),
			float32(0.25 * float64(i)),
			float32(3 * math.Sin(a)),
		}
	}
	return points
}

func TestGenerateWritesEveryVertexInPlace(t *testing.T) {
	const k, r = 20, 8
	g := NewGenerator(k, r)
	out := make([]float32, g.BufferLength())
	for i := range out {
		out[i] = float32(math.NaN())
	}
	before := &out[0]

	g.Generate(helix(k), DefaultRadius, out)

	if len(out) != 3*k*r {
		t.Fatalf("Expected %d floats, got %d", 3*k*r, len(out))
	}
	if &out[0] != before {
		t.Errorf("Expected output buffer to keep its backing array")
	}
	for i, v := range out {
		if math.IsNaN(float64(v)) {
			t.Fatalf("Float %d was not written", i)
		}
	}
	if g.VertexCount() != k*r {
		t.Errorf("Expected vertex count %d, got %d", k*r, g.VertexCount())
	}
}

func TestGenerateRingsSitAtRadius(t *testing.T) {
	const k, r = 16, 8
	const radius = 0.5
	g := NewGenerator(k, r)
	out := make([]float32, g.BufferLength())
	g.Generate(helix(k), radius, out)

	for i := 0; i < k; i++ {
		center, tangent, _, _ := g.Frame(i)
		for j := 0; j < r; j++ {
			o := 3 * (i*r + j)
			v := mgl32.Vec3{out[o], out[o+1], out[o+2]}
			d := v.Sub(center)
			if !nearf(d.Len(), radius, 1e-4) {
				t.Errorf("Ring %d vertex %d: expected distance %v, got %v", i, j, radius, d.Len())
			}
			if dot := d.Dot(tangent); mgl32.Abs(dot) > 1e-4 {
				t.Errorf("Ring %d vertex %d: offset not perpendicular to tangent (dot=%v)", i, j, dot)
			}
		}
	}
}

func TestGenerateStraightSeedProducesStraightTube(t *testing.T) {
	h := spline.NewStraightHistory(spline.DefaultPoints, spline.DefaultSeedSpacing)
	g := NewGenerator(spline.DefaultPoints, DefaultRadialSegments)
	out := make([]float32, g.BufferLength())
	g.Generate(h.Points(), DefaultRadius, out)

	for i := 0; i < g.Rings(); i++ {
		_, tangent, _, _ := g.Frame(i)
		if !near(tangent, mgl32.Vec3{0, 0, 1}, 1e-5) {
			t.Fatalf("Ring %d: expected tangent (0,0,1), got %v", i, tangent)
		}
		o := 3 * i * g.RadialSegments()
		want := float32(i) * spline.DefaultSeedSpacing
		if !nearf(out[o+2], want, 1e-4) {
			t.Errorf("Ring %d: expected z=%v, got %v", i, want, out[o+2])
		}
	}
}

func TestFramesDoNotFlip(t *testing.T) {
	// An S-curve with an inflection point, where Frenet frames would flip.
	const k = 60
	points := make([]mgl32.Vec3, k)
	for i := range points {
		x := float64(i)/float64(k-1)*4*math.Pi - 2*math.Pi
		points[i] = mgl32.Vec3{float32(x), float32(2 * math.Sin(x)), float32(math.Sin(x / 2))}
	}

	g := NewGenerator(k, DefaultRadialSegments)
	out := make([]float32, g.BufferLength())
	g.Generate(points, DefaultRadius, out)

	for i := 0; i < k-1; i++ {
		_, _, n0, _ := g.Frame(i)
		_, _, n1, _ := g.Frame(i + 1)
		if dot := n0.Dot(n1); dot <= 0.5 {
			t.Errorf("Rings %d and %d: normals flipped (dot=%v)", i, i+1, dot)
		}
	}
}

func TestFramesAreOrthonormal(t *testing.T) {
	const k = 30
	g := NewGenerator(k, DefaultRadialSegments)
	out := make([]float32, g.BufferLength())
	g.Generate(helix(k), DefaultRadius, out)

	for i := 0; i < k; i++ {
		_, tn, n, b := g.Frame(i)
		for name, v := range map[string]mgl32.Vec3{"tangent": tn, "normal": n, "binormal": b} {
			if !nearf(v.Len(), 1, 1e-4) {
				t.Errorf("Ring %d: %s not unit length (%v)", i, name, v.Len())
			}
		}
		if mgl32.Abs(tn.Dot(n)) > 1e-4 || mgl32.Abs(tn.Dot(b)) > 1e-4 || mgl32.Abs(n.Dot(b)) > 1e-4 {
			t.Errorf("Ring %d: frame not orthogonal", i)
		}
	}
}

func TestGenerateHandlesRepeatedPoints(t *testing.T) {
	points := make([]mgl32.Vec3, 10)
	for i := range points {
		points[i] = mgl32.Vec3{1, 1, 1}
	}
	g := NewGenerator(len(points), 6)
	out := make([]float32, g.BufferLength())
	g.Generate(points, 0.3, out)

	for i, v := range out {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("Float %d is not finite: %v", i, v)
		}
	}
}

func TestGenerateDoesNotAllocate(t *testing.T) {
	h := spline.NewStraightHistory(spline.DefaultPoints, spline.DefaultSeedSpacing)
	g := NewGenerator(spline.DefaultPoints, DefaultRadialSegments)
	out := make([]float32, g.BufferLength())

	step := 0
	allocs := testing.AllocsPerRun(50, func() {
		step++
		h.Push(mgl32.Vec3{float32(step), float32(step % 7), 0})
		g.Generate(h.Points(), DefaultRadius, out)
	})
	if allocs != 0 {
		t.Errorf("Expected zero allocations per frame, got %v", allocs)
	}
}

func TestIndicesTopology(t *testing.T) {
	const k, r = 5, 4
	g := NewGenerator(k, r)
	idx := g.Indices()

	if len(idx) != 6*(k-1)*r {
		t.Fatalf("Expected %d indices, got %d", 6*(k-1)*r, len(idx))
	}
	seen := make(map[uint32]bool)
	for _, i := range idx {
		if int(i) >= k*r {
			t.Fatalf("Index %d out of range", i)
		}
		seen[i] = true
	}
	if len(seen) != k*r {
		t.Errorf("Expected every vertex referenced, got %d of %d", len(seen), k*r)
	}
	// The last quad of the first ring wraps back to vertex 0.
	last := idx[6*(r-1) : 6*r]
	if last[2] != 0 || last[4] != uint32(r) {
		t.Errorf("Expected ring to close on vertex 0 and %d, got %v", r, last)
	}
}

func TestGenerateContractViolations(t *testing.T) {
	g := NewGenerator(8, 4)
	good := helix(8)
	buf := make([]float32, g.BufferLength())

	tests := []struct {
		name string
		fn   func()
	}{
		{"Too few rings", func() { NewGenerator(3, 8) }},
		{"Too few radial segments", func() { NewGenerator(8, 2) }},
		{"Wrong point count", func() { g.Generate(helix(7), 1, buf) }},
		{"Short buffer", func() { g.Generate(good, 1, buf[:len(buf)-1]) }},
		{"Negative radius", func() { g.Generate(good, -1, buf) }},
		{"NaN radius", func() { g.Generate(good, float32(math.NaN()), buf) }},
		{"Infinite radius", func() { g.Generate(good, float32(math.Inf(1)), buf) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func near(a, b mgl32.Vec3, eps float32) bool {
	return a.Sub(b).Len() <= eps
}

func nearf(a, b, eps float32) bool {
	d := a - b
	return d <= eps && d >= -eps
}

func TestInitialNormal(t *testing.T) {
	tests := []struct {
		name    string
		tangent mgl32.Vec3
	}{
		{"+X", mgl32.Vec3{1, 0, 0}},
		{"-Y", mgl32.Vec3{0, -1, 0}},
		{"-Z", mgl32.Vec3{0, 0, -1}},
		{"Diagonal with negative components", mgl32.Vec3{-1, 2, -3}.Normalize()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := initialNormal(tt.tangent)
			if !nearf(n.Len(), 1, 1e-5) {
				t.Errorf("Expected unit normal, got length %v", n.Len())
			}
			if dot := n.Dot(tt.tangent); mgl32.Abs(dot) > 1e-5 {
				t.Errorf("Expected normal perpendicular to %v, got dot %v", tt.tangent, dot)
			}
		})
	}
}
