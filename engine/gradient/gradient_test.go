package gradient

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestComputeColorsBlend(t *testing.T) {
	head := colorful.Color{R: 1, G: 0.65, B: 0}
	tail := colorful.Color{R: 1, G: 0, B: 0}
	colors := ComputeColors(10, head, tail)

	tests := []struct {
		name    string
		index   int
		r, g, b float32
	}{
		{"Head", 0, 1, 0.65, 0},
		{"Midpoint", 5, 1, 0.325, 0},
		{"Last vertex", 9, 1, 0.065, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := colors[3*tt.index], colors[3*tt.index+1], colors[3*tt.index+2]
			if !approx(r, tt.r) || !approx(g, tt.g) || !approx(b, tt.b) {
				t.Errorf("Expected (%v, %v, %v), got (%v, %v, %v)", tt.r, tt.g, tt.b, r, g, b)
			}
		})
	}
}

func TestComputeColorsIsPure(t *testing.T) {
	a := ComputeColors(64, DefaultHead, DefaultTail)
	b := ComputeColors(64, DefaultHead, DefaultTail)
	if len(a) != len(b) || len(a) != 3*64 {
		t.Fatalf("Expected %d floats, got %d and %d", 3*64, len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Float %d differs: %v vs %v", i, a[i], b[i])
		}
	}
	if &a[0] == &b[0] {
		t.Errorf("Expected independent buffers")
	}
}

func TestComputeColorsIntoMatches(t *testing.T) {
	want := ComputeColors(12, DefaultHead, DefaultTail)
	got := make([]float32, len(want))
	ComputeColorsInto(got, DefaultHead, DefaultTail)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Float %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestComputeColorsContractViolations(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"Zero vertices", func() { ComputeColors(0, DefaultHead, DefaultTail) }},
		{"Negative vertices", func() { ComputeColors(-3, DefaultHead, DefaultTail) }},
		{"Ragged buffer", func() { ComputeColorsInto(make([]float32, 4), DefaultHead, DefaultTail) }},
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

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff4422", DefaultHead)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.Hex() != "#ff4422" {
		t.Errorf("Expected #ff4422, got %s", c.Hex())
	}

	c, err = ParseHex("", DefaultTail)
	if err != nil || c != DefaultTail {
		t.Errorf("Expected default colour for empty input, got %v (%v)", c, err)
	}

	if _, err := ParseHex("not-a-colour", DefaultHead); err == nil {
		t.Errorf("Expected error for invalid input")
	}
}
