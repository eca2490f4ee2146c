package terminal

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/lantern-fish/engine"
	"github.com/Carmen-Shannon/lantern-fish/engine/buffer"
	"github.com/Carmen-Shannon/lantern-fish/engine/camera"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

func newTestScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Expected simulation screen to initialize, got %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)
	return screen
}

// pointMesh is a single red vertex slightly off the origin so it lands inside pixel (20, 20)
// of a 40x40 pixel screen rather than on a pixel boundary.
func pointMesh() *buffer.Mesh {
	return buffer.NewMesh([]float32{0.3, -0.3, 0}, []float32{1, 0, 0}, nil)
}

func cellColors(screen tcell.Screen, x, y int) (rune, tcell.Color, tcell.Color) {
	r, _, style, _ := screen.GetContent(x, y)
	fg, bg, _ := style.Decompose()
	return r, fg, bg
}

func TestPresenterPlotsRibbonVertex(t *testing.T) {
	screen := newTestScreen(t, 40, 20)
	cam := camera.NewCamera(camera.WithAspect(1))
	p := NewPresenter(screen, cam, pointMesh(), nil, WithHUD(false))

	p.Present(engine.FrameInfo{Index: 0, Delta: 1.0 / 30})

	r, fg, _ := cellColors(screen, 20, 10)
	if r != halfBlock {
		t.Fatalf("Expected half block at (20,10), got %q", r)
	}
	cr, cg, cb := fg.RGB()
	if cr != 255 || cg != 0 || cb != 0 {
		t.Errorf("Expected pure red upper pixel, got %d,%d,%d", cr, cg, cb)
	}

	_, glow, _ := cellColors(screen, 21, 10)
	gr, gg, _ := glow.RGB()
	if gr <= 0 || gr >= 255 || gg != 0 {
		t.Errorf("Expected a dimmer red halo beside the point, got %d,%d", gr, gg)
	}

	_, fg, bg := cellColors(screen, 0, 19)
	if fg != tcell.ColorBlack || bg != tcell.ColorBlack {
		t.Errorf("Expected empty corner to keep the background, got %v/%v", fg, bg)
	}
}

func TestPresenterPlotsLanterns(t *testing.T) {
	screen := newTestScreen(t, 40, 20)
	cam := camera.NewCamera(camera.WithAspect(1))
	lanterns := buffer.NewInstances(1)
	lanterns.SetTransform(0, mgl32.Translate3D(-5, -0.3, 0))
	p := NewPresenter(screen, cam, nil, lanterns, WithHUD(false), WithGlow(0, 0))

	p.Present(engine.FrameInfo{})

	_, fg, _ := cellColors(screen, 13, 10)
	r, g, b := fg.RGB()
	if r != 255 || g <= b || g >= r {
		t.Errorf("Expected orange-red lantern at (13,10), got %d,%d,%d", r, g, b)
	}
	if lanterns.Dirty() {
		t.Errorf("Expected present to consume the instance dirty flag")
	}

	_, fg, _ = cellColors(screen, 14, 10)
	if fg != tcell.ColorBlack {
		t.Errorf("Expected no halo with glow disabled, got %v", fg)
	}
}

func TestPresenterNearestPointWins(t *testing.T) {
	screen := newTestScreen(t, 40, 20)
	cam := camera.NewCamera(camera.WithAspect(1))
	mesh := buffer.NewMesh(
		[]float32{0.3, -0.3, -1, 0.3, -0.3, 1},
		[]float32{0, 0, 1, 0, 1, 0},
		nil,
	)
	p := NewPresenter(screen, cam, mesh, nil, WithHUD(false), WithGlow(0, 0))

	p.Present(engine.FrameInfo{})

	_, fg, _ := cellColors(screen, 20, 10)
	r, g, b := fg.RGB()
	if g != 255 || r != 0 || b != 0 {
		t.Errorf("Expected the green vertex nearer the camera to win, got %d,%d,%d", r, g, b)
	}
}

func TestPresenterHUD(t *testing.T) {
	tests := []struct {
		name string
		hud  bool
	}{
		{"Enabled", true},
		{"Disabled", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := newTestScreen(t, 60, 10)
			p := NewPresenter(screen, camera.NewCamera(), nil, nil, WithHUD(tt.hud))
			p.Present(engine.FrameInfo{Index: 42, Delta: 0.02})

			var row strings.Builder
			for x := range 60 {
				r, _, _, _ := screen.GetContent(x, 0)
				row.WriteRune(r)
			}
			hasHUD := strings.Contains(row.String(), "frame 42") && strings.Contains(row.String(), "50 fps")
			if hasHUD != tt.hud {
				t.Errorf("Expected HUD %v, got row %q", tt.hud, row.String())
			}
		})
	}
}

func TestPresenterBackground(t *testing.T) {
	screen := newTestScreen(t, 10, 5)
	bg, _ := colorful.Hex("#102030")
	p := NewPresenter(screen, camera.NewCamera(), nil, nil, WithHUD(false), WithBackground(bg))
	p.Present(engine.FrameInfo{})

	_, fg, _ := cellColors(screen, 5, 2)
	r, g, b := fg.RGB()
	if r != 0x10 || g != 0x20 || b != 0x30 {
		t.Errorf("Expected background #102030, got %02x%02x%02x", r, g, b)
	}
	if p.Screen() != screen {
		t.Errorf("Expected Screen to return the target screen")
	}
}

func TestGlowKernel(t *testing.T) {
	k := glowKernel(2, 0.5)
	if len(k) != 25 {
		t.Fatalf("Expected 5x5 kernel, got %d weights", len(k))
	}
	if k[12] != 0.5 {
		t.Errorf("Expected centre weight 0.5, got %v", k[12])
	}
	if k[13] >= k[12] || k[14] >= k[13] || k[0] >= k[14] {
		t.Errorf("Expected weights to fall off with distance, got %v", k)
	}
	if k[11] != k[13] || k[7] != k[17] {
		t.Errorf("Expected a symmetric kernel")
	}

	if single := glowKernel(0, 0.3); len(single) != 1 || single[0] != 0.3 {
		t.Errorf("Expected a single centre weight for radius 0, got %v", single)
	}
}

func TestNewPresenterPanicsWithoutScreen(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic for nil screen")
		}
	}()
	NewPresenter(nil, camera.NewCamera(), nil, nil)
}
