package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// MaxPixelRatio caps the render resolution multiplier on high-DPI displays.
const MaxPixelRatio = 2

// Window provides platform windowing and input event handling.
// It doubles as the engine's frame pacer: ProcessMessages pumps events and calls the
// update callback once per iteration.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the render size changes.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetDragCallback sets the callback for cursor motion while the left button is held.
	//
	// Parameters:
	//   - callback: function receiving the cursor delta in screen coordinates
	SetDragCallback(callback func(dx, dy float32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close asks the window to close. Called from inside ProcessMessages, the window is
	// destroyed once the loop exits; otherwise it is destroyed immediately.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current render width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current render height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// PixelRatio returns the display content scale, capped at MaxPixelRatio.
	//
	// Returns:
	//   - float32: render pixels per screen coordinate
	PixelRatio() float32
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// minWidth and minHeight bound resizing, in screen coordinates.
	minWidth  int
	minHeight int

	// width and height are the current render size in pixels.
	width  int
	height int

	pixelRatio float32

	// processing is true while ProcessMessages is looping.
	processing bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate  func()
	onResize  func(width, height int)
	onScroll  func(delta float32)
	onKeyDown func(keyCode uint32)
	onDrag    func(dx, dy float32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:      "lantern-fish",
		minWidth:   320,
		minHeight:  200,
		width:      1280,
		height:     720,
		pixelRatio: 1,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetDragCallback(callback func(dx, dy float32)) {
	w.onDrag = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	if err := platformRequestClose(w); err != nil {
		return err
	}
	if !w.processing {
		platformDestroyWindow(w)
	}
	return nil
}

func (w *engineWindow) ProcessMessages() {
	w.processing = true
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
	w.processing = false
	platformDestroyWindow(w)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) PixelRatio() float32 {
	return w.pixelRatio
}

// clampPixelRatio caps a content scale at MaxPixelRatio; non-positive scales read as 1.
func clampPixelRatio(scale float32) float32 {
	if !(scale > 0) {
		return 1
	}
	return min(scale, MaxPixelRatio)
}

// renderSize converts a size in screen coordinates to render pixels.
func renderSize(width, height int, ratio float32) (int, int) {
	return int(float32(width)*ratio + 0.5), int(float32(height)*ratio + 0.5)
}
