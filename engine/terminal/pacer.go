package terminal

import (
	"errors"
	"sync"
	"time"
	"unicode"

	"github.com/Carmen-Shannon/lantern-fish/common"
	"github.com/Carmen-Shannon/lantern-fish/engine"
	"github.com/gdamore/tcell/v2"
)

// DefaultFPS is the frame rate used when NewPacer is given a non-positive rate.
const DefaultFPS = 30

// pacer is the implementation of the Pacer interface.
type pacer struct {
	screen   tcell.Screen
	interval time.Duration

	mu       sync.Mutex
	update   func()
	resize   func(width, height int)
	keyDown  func(keyCode uint32)
	quit     chan struct{}
	quitOnce sync.Once
}

// Pacer drives the engine from a ticker and the tcell event queue. Every tick calls the
// update callback; resize events are reported in pixels (two per cell row, see PixelSize).
// Esc, Ctrl-C and q end ProcessMessages.
type Pacer interface {
	engine.FramePacer

	// SetResizeCallback sets the function called when the terminal is resized.
	//
	// Parameters:
	//   - callback: function receiving the new pixel width and height
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key presses other than the quit keys.
	//
	// Parameters:
	//   - callback: function receiving a common.Key* code
	SetKeyDownCallback(callback func(keyCode uint32))
}

var _ Pacer = &pacer{}

// NewPacer creates a Pacer ticking at fps frames per second. The screen must already be initialized.
//
// Parameters:
//   - screen: the initialized tcell screen
//   - fps: target frame rate; DefaultFPS when not positive
//
// Returns:
//   - Pacer: the pacer
func NewPacer(screen tcell.Screen, fps int) Pacer {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &pacer{
		screen:   screen,
		interval: time.Second / time.Duration(fps),
		quit:     make(chan struct{}),
	}
}

func (p *pacer) SetUpdateCallback(callback func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.update = callback
}

func (p *pacer) SetResizeCallback(callback func(width, height int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resize = callback
}

func (p *pacer) SetKeyDownCallback(callback func(keyCode uint32)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keyDown = callback
}

func (p *pacer) ProcessMessages() {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				// screen finalized
				return
			}
			select {
			case events <- ev:
			case <-p.quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.quit:
			return
		case ev := <-events:
			if !p.handleEvent(ev) {
				p.stop()
				return
			}
		case <-ticker.C:
			p.mu.Lock()
			update := p.update
			p.mu.Unlock()
			if update != nil {
				update()
			}
		}
	}
}

// handleEvent dispatches one tcell event. It returns false when the event asks to quit.
func (p *pacer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuitKey(ev) {
			return false
		}
		code, ok := keyCode(ev)
		if !ok {
			return true
		}
		p.mu.Lock()
		keyDown := p.keyDown
		p.mu.Unlock()
		if keyDown != nil {
			keyDown(code)
		}
	case *tcell.EventResize:
		p.screen.Sync()
		p.mu.Lock()
		resize := p.resize
		p.mu.Unlock()
		if resize != nil {
			resize(PixelSize(p.screen))
		}
	}
	return true
}

func (p *pacer) Close() error {
	if p.screen == nil {
		return errors.New("pacer has no screen")
	}
	p.stop()
	return nil
}

func (p *pacer) stop() {
	p.quitOnce.Do(func() {
		close(p.quit)
	})
}

// PixelSize returns the drawable resolution of a screen. Each cell holds two pixels stacked
// vertically, which keeps pixels roughly square on common terminal fonts.
//
// Parameters:
//   - screen: the tcell screen
//
// Returns:
//   - int: width in pixels (one per column)
//   - int: height in pixels (two per row)
func PixelSize(screen tcell.Screen) (int, int) {
	cols, rows := screen.Size()
	return cols, rows * 2
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// keyCode translates a tcell key into the GLFW-compatible codes the key callback expects.
func keyCode(ev *tcell.EventKey) (uint32, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return common.KeyLeft, true
	case tcell.KeyRight:
		return common.KeyRight, true
	case tcell.KeyUp:
		return common.KeyUp, true
	case tcell.KeyDown:
		return common.KeyDown, true
	case tcell.KeyRune:
		switch unicode.ToUpper(ev.Rune()) {
		case 'W':
			return common.KeyW, true
		case 'A':
			return common.KeyA, true
		case 'S':
			return common.KeyS, true
		case 'D':
			return common.KeyD, true
		case 'P':
			return common.KeyP, true
		case '=', '+':
			return common.KeyEqual, true
		case '-', '_':
			return common.KeyMinus, true
		}
	}
	return 0, false
}
