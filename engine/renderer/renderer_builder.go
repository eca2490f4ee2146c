package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/lucasb-eyer/go-colorful"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithClearColor sets the scene background. The colour is given in sRGB and converted to linear
// light for the HDR scene target. The default is black.
//
// Parameters:
//   - c: the background colour
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear colour to a renderer
func WithClearColor(c colorful.Color) RendererBuilderOption {
	return func(r *renderer) {
		lin := linearColor(c)
		r.clearColor = wgpu.Color{R: float64(lin[0]), G: float64(lin[1]), B: float64(lin[2]), A: 1}
	}
}

// WithBloom replaces the default bloom settings. Panics if the settings do not validate.
//
// Parameters:
//   - settings: threshold, strength and radius
//
// Returns:
//   - RendererBuilderOption: a function that applies the bloom settings to a renderer
func WithBloom(settings BloomSettings) RendererBuilderOption {
	if err := settings.Validate(); err != nil {
		panic(fmt.Sprintf("renderer: invalid bloom settings %+v", settings))
	}
	return func(r *renderer) {
		r.bloomSettings = settings
	}
}
