package main

import (
	"testing"

	"github.com/Carmen-Shannon/lantern-fish/common"
	"github.com/Carmen-Shannon/lantern-fish/engine/camera"
	"github.com/Carmen-Shannon/lantern-fish/engine/gradient"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("Expected defaults to parse, got %v", err)
	}
	if cfg.backend != backendWGPU || cfg.points != 100 || cfg.radial != 8 || cfg.lanterns != 400 {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.radius != 0.2 || !cfg.vsync || cfg.fps != 30 {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.head != gradient.DefaultHead || cfg.tail != gradient.DefaultTail || cfg.lantern != defaultLanternColor {
		t.Errorf("Expected default colours, got %v %v %v", cfg.head, cfg.tail, cfg.lantern)
	}
	if cfg.background != (colorful.Color{}) {
		t.Errorf("Expected black background, got %v", cfg.background)
	}
	if cfg.width != 1280 || cfg.height != 720 || cfg.fov != camera.DefaultFovDegrees || cfg.distance != camera.DefaultDistance {
		t.Errorf("Unexpected view defaults %+v", cfg)
	}
	if cfg.bloom != renderer.DefaultBloomSettings() {
		t.Errorf("Expected default bloom, got %+v", cfg.bloom)
	}
}

func TestParseFlagsViewAndBloom(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-width", "640", "-height", "360", "-fov", "60", "-distance", "12",
		"-bloom-threshold", "0.5", "-bloom-strength", "1.25", "-bloom-radius", "0.75",
		"-background", "#102030",
	})
	if err != nil {
		t.Fatalf("Expected flags to parse, got %v", err)
	}
	if cfg.width != 640 || cfg.height != 360 || cfg.fov != 60 || cfg.distance != 12 {
		t.Errorf("Unexpected view settings %+v", cfg)
	}
	want := renderer.BloomSettings{Threshold: 0.5, Strength: 1.25, Radius: 0.75}
	if cfg.bloom != want {
		t.Errorf("Expected bloom %+v, got %+v", want, cfg.bloom)
	}
	if cfg.background.Hex() != "#102030" {
		t.Errorf("Expected background #102030, got %s", cfg.background.Hex())
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"Unknown backend", []string{"-backend", "opengl"}},
		{"Too few points", []string{"-points", "3"}},
		{"Too few radial segments", []string{"-radial", "2"}},
		{"Negative radius", []string{"-radius", "-1"}},
		{"Negative lanterns", []string{"-lanterns", "-1"}},
		{"Bad colour", []string{"-head", "orange"}},
		{"Bad background", []string{"-background", "#zzzzzz"}},
		{"Zero width", []string{"-width", "0"}},
		{"Negative height", []string{"-height", "-10"}},
		{"Flat fov", []string{"-fov", "0"}},
		{"Fov past straight", []string{"-fov", "180"}},
		{"Zero distance", []string{"-distance", "0"}},
		{"Negative bloom strength", []string{"-bloom-strength", "-1"}},
		{"Negative bloom radius", []string{"-bloom-radius", "-0.5"}},
		{"Negative bloom threshold", []string{"-bloom-threshold", "-0.1"}},
		{"Unknown flag", []string{"-bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseFlags(tt.args); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}
}

func TestNewScene(t *testing.T) {
	cfg, err := parseFlags([]string{"-backend", "terminal", "-points", "10", "-radial", "4", "-lanterns", "0", "-lantern-color", "#00ff00"})
	if err != nil {
		t.Fatalf("Expected flags to parse, got %v", err)
	}
	if cfg.lantern.G != 1 || cfg.lantern.R != 0 {
		t.Errorf("Expected green lanterns, got %v", cfg.lantern)
	}

	s := newScene(cfg)
	if s.ribbon.VertexCount() != 40 {
		t.Errorf("Expected 10 rings of 4 vertices, got %d", s.ribbon.VertexCount())
	}
	if s.lanterns != nil {
		t.Errorf("Expected no lanterns for -lanterns 0")
	}

	cfg.lanterns = 5
	cfg.parallel = true
	s = newScene(cfg)
	if s.lanterns == nil || s.lanterns.Count() != 5 {
		t.Fatalf("Expected 5 lantern slots")
	}
	if len(s.options) != 4 {
		t.Errorf("Expected ribbon, profiling, lantern and worker options, got %d", len(s.options))
	}
}

func TestNewCamera(t *testing.T) {
	cfg, err := parseFlags([]string{"-fov", "60", "-distance", "12"})
	if err != nil {
		t.Fatalf("Expected flags to parse, got %v", err)
	}
	cam := newCamera(cfg, 200, 100)

	if !nearf(cam.Fov(), mgl32.DegToRad(60)) {
		t.Errorf("Expected 60 degree fov, got %v rad", cam.Fov())
	}
	if cam.Aspect() != 2 {
		t.Errorf("Expected aspect 2, got %v", cam.Aspect())
	}
	if !nearf(cam.Position().Z(), 12) {
		t.Errorf("Expected camera 12 units out, got %v", cam.Position())
	}
}

func TestControls(t *testing.T) {
	var profiling []bool
	var modes []renderer.PresentMode
	c := &controls{
		camera:         camera.NewCamera(),
		vsync:          true,
		setProfiling:   func(on bool) { profiling = append(profiling, on) },
		setPresentMode: func(m renderer.PresentMode) { modes = append(modes, m) },
	}

	c.handleKey(common.KeyP)
	c.handleKey(common.KeyP)
	if len(profiling) != 2 || !profiling[0] || profiling[1] {
		t.Errorf("Expected profiling on then off, got %v", profiling)
	}

	c.handleKey(common.KeyV)
	c.handleKey(common.KeyV)
	if len(modes) != 2 || modes[0] != renderer.PresentModeUncapped || modes[1] != renderer.PresentModeVSync {
		t.Errorf("Expected uncapped then vsync, got %v", modes)
	}

	before := c.camera.Controller().Radius()
	c.handleKey(common.KeyEqual)
	if c.camera.Controller().Radius() >= before {
		t.Errorf("Expected camera keys to reach the controller")
	}
	if len(profiling) != 2 || len(modes) != 2 {
		t.Errorf("Expected camera keys not to toggle anything")
	}
}

func TestControlsWithoutPresentMode(t *testing.T) {
	c := &controls{camera: camera.NewCamera(), vsync: true, setProfiling: func(bool) {}}
	c.handleKey(common.KeyV)
	if !c.vsync {
		t.Errorf("Expected V to be ignored when the present mode cannot change")
	}
}

func nearf(a, b float32) bool {
	return mgl32.Abs(a-b) <= 1e-5
}
