package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// PresenterBuilderOption is a functional option applied to a presenter during construction.
type PresenterBuilderOption func(*presenter)

// WithLanternColor sets the lantern colour (default #ff4422).
//
// Parameters:
//   - c: the colour in sRGB
//
// Returns:
//   - PresenterBuilderOption: a function that applies the lantern colour to a presenter
func WithLanternColor(c colorful.Color) PresenterBuilderOption {
	return func(p *presenter) {
		p.lanternColor = linear(c)
	}
}

// WithBackground sets the colour of empty cells (default black).
//
// Parameters:
//   - c: the background colour
//
// Returns:
//   - PresenterBuilderOption: a function that applies the background to a presenter
func WithBackground(c colorful.Color) PresenterBuilderOption {
	return func(p *presenter) {
		r, g, b := c.Clamped().RGB255()
		p.background = tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
}

// WithGlow sets the halo drawn around every plotted point.
//
// Parameters:
//   - strength: weight of the halo at its centre; 0 disables it
//   - radius: halo radius in pixels, at least 0
//
// Returns:
//   - PresenterBuilderOption: a function that applies the glow to a presenter
func WithGlow(strength float32, radius int) PresenterBuilderOption {
	return func(p *presenter) {
		p.glowStrength = max(strength, 0)
		p.glowRadius = max(radius, 0)
	}
}

// WithHUD toggles the one-line status overlay in the top row.
//
// Parameters:
//   - enabled: true to draw the overlay (default)
//
// Returns:
//   - PresenterBuilderOption: a function that applies the HUD setting to a presenter
func WithHUD(enabled bool) PresenterBuilderOption {
	return func(p *presenter) {
		p.hud = enabled
	}
}
