// Command lanternfish renders a glowing ribbon chasing a wandering leader through a field of
// rising lanterns, either in a GPU window or as a half-block preview in the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/lantern-fish/engine"
	"github.com/Carmen-Shannon/lantern-fish/common"
	"github.com/Carmen-Shannon/lantern-fish/engine/buffer"
	"github.com/Carmen-Shannon/lantern-fish/engine/camera"
	"github.com/Carmen-Shannon/lantern-fish/engine/gradient"
	"github.com/Carmen-Shannon/lantern-fish/engine/particle"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer"
	"github.com/Carmen-Shannon/lantern-fish/engine/spline"
	"github.com/Carmen-Shannon/lantern-fish/engine/tube"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	backendWGPU     = "wgpu"
	backendTerminal = "terminal"
)

// defaultLanternColor is #ff4422.
var defaultLanternColor = colorful.Color{R: 1, G: 0x44 / 255.0, B: 0x22 / 255.0}

// config holds the parsed command line.
type config struct {
	backend  string
	points   int
	radial   int
	radius   float64
	lanterns int
	seed     int64
	profile  bool
	parallel bool
	fps      int
	vsync    bool
	software bool
	logPath  string

	width    int
	height   int
	fov      float64
	distance float64
	bloom    renderer.BloomSettings

	head       colorful.Color
	tail       colorful.Color
	lantern    colorful.Color
	background colorful.Color
}

// scene is everything both backends draw: the ribbon and lantern buffers plus the engine
// options that keep them moving.
type scene struct {
	ribbon   *buffer.Mesh
	lanterns *buffer.Instances
	options  []engine.EngineBuilderOption
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	switch cfg.backend {
	case backendWGPU:
		err = runWGPU(cfg)
	case backendTerminal:
		err = runTerminal(cfg)
	}
	if err != nil {
		log.Fatalf("[Main] %v", err)
	}
}

func parseFlags(args []string) (config, error) {
	var cfg config
	var head, tail, lantern, background string
	defaultBloom := renderer.DefaultBloomSettings()
	var bloomThreshold, bloomStrength, bloomRadius float64

	fs := flag.NewFlagSet("lanternfish", flag.ContinueOnError)
	fs.StringVar(&cfg.backend, "backend", backendWGPU, "render backend: wgpu or terminal")
	fs.IntVar(&cfg.points, "points", spline.DefaultPoints, "control points in the ribbon history")
	fs.IntVar(&cfg.radial, "radial", tube.DefaultRadialSegments, "vertices per tube ring")
	fs.Float64Var(&cfg.radius, "radius", tube.DefaultRadius, "tube radius in world units")
	fs.IntVar(&cfg.lanterns, "lanterns", particle.DefaultCount, "number of lanterns")
	fs.Int64Var(&cfg.seed, "seed", 1, "random seed for the lantern field")
	fs.BoolVar(&cfg.profile, "profile", false, "log FPS, heap and GC statistics")
	fs.BoolVar(&cfg.parallel, "parallel", false, "update ribbon and lanterns on a worker pool")
	fs.IntVar(&cfg.fps, "fps", 30, "terminal frame rate")
	fs.BoolVar(&cfg.vsync, "vsync", true, "wait for vertical blank (wgpu)")
	fs.BoolVar(&cfg.software, "software", false, "force the software fallback adapter (wgpu)")
	fs.StringVar(&cfg.logPath, "log", "", "log file; the terminal backend discards logs when empty")
	fs.IntVar(&cfg.width, "width", 1280, "initial window width (wgpu)")
	fs.IntVar(&cfg.height, "height", 720, "initial window height (wgpu)")
	fs.Float64Var(&cfg.fov, "fov", camera.DefaultFovDegrees, "vertical field of view in degrees")
	fs.Float64Var(&cfg.distance, "distance", camera.DefaultDistance, "initial camera distance from the origin")
	fs.Float64Var(&bloomThreshold, "bloom-threshold", float64(defaultBloom.Threshold), "luminance below which nothing glows (wgpu)")
	fs.Float64Var(&bloomStrength, "bloom-strength", float64(defaultBloom.Strength), "glow intensity (wgpu)")
	fs.Float64Var(&bloomRadius, "bloom-radius", float64(defaultBloom.Radius), "glow spread from 0 to 1 (wgpu)")
	fs.StringVar(&head, "head", "", "ribbon head colour as #rrggbb")
	fs.StringVar(&tail, "tail", "", "ribbon tail colour as #rrggbb")
	fs.StringVar(&lantern, "lantern-color", "", "lantern colour as #rrggbb")
	fs.StringVar(&background, "background", "", "background colour as #rrggbb")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if cfg.backend != backendWGPU && cfg.backend != backendTerminal {
		return config{}, fmt.Errorf("unknown backend %q", cfg.backend)
	}
	if cfg.points < spline.MinPoints {
		return config{}, fmt.Errorf("-points must be at least %d, got %d", spline.MinPoints, cfg.points)
	}
	if cfg.radial < tube.MinRadialSegments {
		return config{}, fmt.Errorf("-radial must be at least %d, got %d", tube.MinRadialSegments, cfg.radial)
	}
	if cfg.radius < 0 {
		return config{}, fmt.Errorf("-radius must not be negative, got %v", cfg.radius)
	}
	if cfg.lanterns < 0 {
		return config{}, fmt.Errorf("-lanterns must not be negative, got %d", cfg.lanterns)
	}
	if cfg.width <= 0 || cfg.height <= 0 {
		return config{}, fmt.Errorf("-width and -height must be positive, got %dx%d", cfg.width, cfg.height)
	}
	if cfg.fov <= 0 || cfg.fov >= 180 {
		return config{}, fmt.Errorf("-fov must be between 0 and 180 degrees, got %v", cfg.fov)
	}
	if cfg.distance <= 0 {
		return config{}, fmt.Errorf("-distance must be positive, got %v", cfg.distance)
	}
	cfg.bloom = renderer.BloomSettings{
		Threshold: float32(bloomThreshold),
		Strength:  float32(bloomStrength),
		Radius:    float32(bloomRadius),
	}
	if err := cfg.bloom.Validate(); err != nil {
		return config{}, err
	}

	var err error
	if cfg.head, err = gradient.ParseHex(head, gradient.DefaultHead); err != nil {
		return config{}, err
	}
	if cfg.tail, err = gradient.ParseHex(tail, gradient.DefaultTail); err != nil {
		return config{}, err
	}
	if cfg.lantern, err = gradient.ParseHex(lantern, defaultLanternColor); err != nil {
		return config{}, err
	}
	if cfg.background, err = gradient.ParseHex(background, colorful.Color{}); err != nil {
		return config{}, err
	}
	return cfg, nil
}

// newScene builds the ribbon and lantern buffers and the engine options that animate them.
func newScene(cfg config) scene {
	history := spline.NewStraightHistory(cfg.points, spline.DefaultSeedSpacing)
	gen := tube.NewGenerator(cfg.points, cfg.radial)
	s := scene{ribbon: buffer.NewRibbonMesh(gen, cfg.head, cfg.tail)}
	s.options = append(s.options,
		engine.WithRibbon(history, gen, float32(cfg.radius), s.ribbon),
		engine.WithProfiling(cfg.profile),
	)

	if cfg.lanterns > 0 {
		field := particle.NewField(cfg.lanterns, rand.New(rand.NewSource(cfg.seed)))
		s.lanterns = buffer.NewInstances(cfg.lanterns)
		s.options = append(s.options, engine.WithLanterns(field, s.lanterns))
	}
	if cfg.parallel {
		s.options = append(s.options, engine.WithWorkerPool(min(runtime.NumCPU(), 2)))
	}
	return s
}

// newCamera creates the orbit camera both backends share.
func newCamera(cfg config, width, height int) camera.Camera {
	return camera.NewCamera(
		camera.WithAspect(float32(width)/float32(max(height, 1))),
		camera.WithFov(float32(cfg.fov)),
		camera.WithController(camera.NewCameraController(camera.WithRadius(float32(cfg.distance)))),
	)
}

// controls routes key presses: camera bindings first, then P toggles profiling and V toggles
// vsync on backends that can change their present mode.
type controls struct {
	camera    camera.Camera
	profiling bool
	vsync     bool

	setProfiling   func(enabled bool)
	setPresentMode func(mode renderer.PresentMode)
}

func (c *controls) handleKey(code uint32) {
	if camera.HandleKey(c.camera.Controller(), code) {
		return
	}
	switch code {
	case common.KeyP:
		c.profiling = !c.profiling
		c.setProfiling(c.profiling)
		log.Printf("[Main] Profiling %v", c.profiling)
	case common.KeyV:
		if c.setPresentMode == nil {
			return
		}
		c.vsync = !c.vsync
		mode := renderer.PresentModeUncapped
		if c.vsync {
			mode = renderer.PresentModeVSync
		}
		c.setPresentMode(mode)
		log.Printf("[Main] VSync %v", c.vsync)
	}
}

// profilerSwitch adapts the engine's profiler toggles to controls.
func profilerSwitch(eng engine.Engine) func(bool) {
	return func(enabled bool) {
		if enabled {
			eng.EnableProfiler()
		} else {
			eng.DisableProfiler()
		}
	}
}

// openLog points the standard logger at path. An empty path keeps stderr unless discard is set.
func openLog(path string, discard bool) (io.Closer, error) {
	if path == "" {
		if discard {
			log.SetOutput(io.Discard)
		}
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}
