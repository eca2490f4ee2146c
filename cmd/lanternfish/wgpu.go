package main

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/lantern-fish/engine"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer"
	"github.com/Carmen-Shannon/lantern-fish/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// lanternSize is the extent of the lantern box in world units.
var lanternSize = mgl32.Vec3{0.08, 0.12, 0.08}

// runWGPU opens a window and renders the scene with bloom until the window closes.
func runWGPU(cfg config) error {
	logFile, err := openLog(cfg.logPath, false)
	if err != nil {
		return err
	}
	defer logFile.Close()

	win, err := window.NewWindow(
		window.WithTitle("lantern-fish"),
		window.WithSize(cfg.width, cfg.height),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	cam := newCamera(cfg, win.Width(), win.Height())

	presentMode := renderer.PresentModeVSync
	if !cfg.vsync {
		presentMode = renderer.PresentModeUncapped
	}
	r, err := renderer.NewRenderer(win, cam,
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(cfg.software),
		renderer.WithClearColor(cfg.background),
		renderer.WithBloom(cfg.bloom),
	)
	if err != nil {
		return err
	}
	defer r.Release()
	b := r.Bloom()
	log.Printf("[Main] Bloom threshold %.2f, strength %.2f, radius %.2f", b.Threshold, b.Strength, b.Radius)

	s := newScene(cfg)
	if err := r.NewRibbon(s.ribbon); err != nil {
		return fmt.Errorf("failed to create ribbon: %w", err)
	}
	if s.lanterns != nil {
		if err := r.NewLanterns(s.lanterns, lanternSize, cfg.lantern); err != nil {
			return fmt.Errorf("failed to create lanterns: %w", err)
		}
	}

	eng := engine.NewEngine(append(s.options,
		engine.WithPresenter(r),
		engine.WithPacer(win),
		engine.WithResizeListener(cam),
		engine.WithResizeListener(r),
	)...)

	win.SetResizeCallback(eng.Resize)
	keys := &controls{
		camera:         cam,
		profiling:      cfg.profile,
		vsync:          cfg.vsync,
		setProfiling:   profilerSwitch(eng),
		setPresentMode: r.SetPresentMode,
	}
	win.SetKeyDownCallback(keys.handleKey)
	win.SetScrollCallback(func(delta float32) {
		cam.Controller().Zoom(delta)
	})
	win.SetDragCallback(func(dx, dy float32) {
		cam.Controller().Orbit(dx, dy)
	})

	log.Printf("[Main] Running wgpu backend: %d points, %d lanterns", cfg.points, cfg.lanterns)
	eng.Run()
	log.Printf("[Main] Stopped after %d frames", eng.Frames())
	return nil
}
