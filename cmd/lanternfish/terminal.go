package main

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/lantern-fish/engine"
	"github.com/Carmen-Shannon/lantern-fish/engine/terminal"
	"github.com/gdamore/tcell/v2"
)

// runTerminal previews the scene in the terminal until a quit key is pressed.
func runTerminal(cfg config) error {
	logFile, err := openLog(cfg.logPath, true)
	if err != nil {
		return err
	}
	defer logFile.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	w, h := terminal.PixelSize(screen)
	cam := newCamera(cfg, w, h)

	s := newScene(cfg)
	presenter := terminal.NewPresenter(screen, cam, s.ribbon, s.lanterns,
		terminal.WithLanternColor(cfg.lantern),
		terminal.WithBackground(cfg.background),
	)
	pacer := terminal.NewPacer(screen, cfg.fps)

	eng := engine.NewEngine(append(s.options,
		engine.WithPresenter(presenter),
		engine.WithPacer(pacer),
		engine.WithResizeListener(cam),
	)...)

	pacer.SetResizeCallback(eng.Resize)
	keys := &controls{
		camera:       cam,
		profiling:    cfg.profile,
		setProfiling: profilerSwitch(eng),
	}
	pacer.SetKeyDownCallback(keys.handleKey)

	log.Printf("[Main] Running terminal backend at %d fps", cfg.fps)
	eng.Run()
	log.Printf("[Main] Stopped after %d frames", eng.Frames())
	return nil
}
