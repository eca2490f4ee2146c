// Package terminal is the tcell preview backend: it projects the ribbon and lanterns through
// the camera onto a grid of half-block cells and fakes bloom with a soft halo.
package terminal

import (
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/lantern-fish/engine"
	"github.com/Carmen-Shannon/lantern-fish/engine/buffer"
	"github.com/Carmen-Shannon/lantern-fish/engine/camera"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// halfBlock paints the upper pixel of a cell with the foreground and the lower with the background.
const halfBlock = '▀'

// pixel accumulates one frame's light in linear RGB.
type pixel struct {
	base  [3]float32
	depth float32
	glow  [3]float32
}

// presenter is the implementation of the Presenter interface.
type presenter struct {
	mu     sync.Mutex
	screen tcell.Screen
	camera camera.Camera

	ribbon       *buffer.Mesh
	ribbonColors [][3]float32
	lanterns     *buffer.Instances
	lanternColor [3]float32
	background   tcell.Color

	glowStrength float32
	glowRadius   int
	glowKernel   []float32
	hud          bool
	hudText      []byte

	width, height int
	pixels        []pixel
}

// Presenter draws frames onto a tcell screen. It is the terminal backend's engine.Presenter.
type Presenter interface {
	engine.Presenter

	// Screen returns the screen frames are drawn onto.
	//
	// Returns:
	//   - tcell.Screen: the target screen
	Screen() tcell.Screen
}

var _ Presenter = &presenter{}

// NewPresenter creates a presenter for the given scene objects. Either may be nil to skip it.
//
// Parameters:
//   - screen: the initialized tcell screen
//   - cam: the camera used to project world points
//   - ribbon: the ribbon mesh, plotted per vertex in its vertex colour
//   - lanterns: the lantern instances, plotted at each transform's origin
//   - options: functional options to configure the presenter
//
// Returns:
//   - Presenter: the presenter
func NewPresenter(screen tcell.Screen, cam camera.Camera, ribbon *buffer.Mesh, lanterns *buffer.Instances, options ...PresenterBuilderOption) Presenter {
	if screen == nil || cam == nil {
		panic("terminal: presenter requires a screen and a camera")
	}
	p := &presenter{
		screen:       screen,
		camera:       cam,
		ribbon:       ribbon,
		lanterns:     lanterns,
		lanternColor: linear(colorful.Color{R: 1, G: 0x44 / 255.0, B: 0x22 / 255.0}),
		background:   tcell.ColorBlack,
		glowStrength: 0.35,
		glowRadius:   2,
		hud:          true,
	}
	for _, opt := range options {
		opt(p)
	}

	if ribbon != nil {
		colors := ribbon.Colors()
		p.ribbonColors = make([][3]float32, ribbon.VertexCount())
		for i := range p.ribbonColors {
			c := colorful.Color{R: float64(colors[3*i]), G: float64(colors[3*i+1]), B: float64(colors[3*i+2])}
			p.ribbonColors[i] = linear(c)
		}
	}
	p.glowKernel = glowKernel(p.glowRadius, p.glowStrength)
	return p
}

func (p *presenter) Screen() tcell.Screen {
	return p.screen
}

func (p *presenter) Present(frame engine.FrameInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.camera.Update()
	p.resizePixels()
	if p.width == 0 || p.height == 0 {
		return
	}

	if p.ribbon != nil {
		p.ribbon.TakeDirty()
		for i := range p.ribbon.VertexCount() {
			x, y, z := p.ribbon.Vertex(i)
			p.plot(mgl32.Vec3{x, y, z}, p.ribbonColors[i])
		}
	}
	if p.lanterns != nil {
		p.lanterns.TakeDirty()
		for _, m := range p.lanterns.Transforms() {
			p.plot(m.Col(3).Vec3(), p.lanternColor)
		}
	}

	p.draw()
	if p.hud {
		p.drawHUD(frame)
	}
	p.screen.Show()
}

// resizePixels matches the pixel buffer to the screen and clears it.
func (p *presenter) resizePixels() {
	w, h := PixelSize(p.screen)
	if w != p.width || h != p.height {
		p.width, p.height = max(w, 0), max(h, 0)
		p.pixels = make([]pixel, p.width*p.height)
	}
	for i := range p.pixels {
		p.pixels[i] = pixel{depth: math.MaxFloat32}
	}
}

// plot projects a world point and deposits its colour plus a halo around it.
func (p *presenter) plot(world mgl32.Vec3, color [3]float32) {
	ndc, ok := p.camera.Project(world)
	if !ok {
		return
	}
	x, y, ok := p.toPixel(ndc)
	if !ok {
		return
	}

	px := &p.pixels[y*p.width+x]
	if ndc.Z() < px.depth {
		px.depth = ndc.Z()
		px.base = color
	}

	r := p.glowRadius
	side := 2*r + 1
	for dy := -r; dy <= r; dy++ {
		gy := y + dy
		if gy < 0 || gy >= p.height {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			gx := x + dx
			if gx < 0 || gx >= p.width {
				continue
			}
			w := p.glowKernel[(dy+r)*side+dx+r]
			g := &p.pixels[gy*p.width+gx].glow
			g[0] += color[0] * w
			g[1] += color[1] * w
			g[2] += color[2] * w
		}
	}
}

// toPixel maps normalized device coordinates to a pixel, y growing downwards.
func (p *presenter) toPixel(ndc mgl32.Vec3) (int, int, bool) {
	x := int((ndc.X() + 1) * 0.5 * float32(p.width))
	y := int((1 - ndc.Y()) * 0.5 * float32(p.height))
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, 0, false
	}
	return x, y, true
}

// draw writes every cell as a half block: upper pixel in the foreground, lower in the background.
func (p *presenter) draw() {
	rows := p.height / 2
	for row := range rows {
		for x := range p.width {
			top := p.cellColor(&p.pixels[(2*row)*p.width+x])
			bottom := p.cellColor(&p.pixels[(2*row+1)*p.width+x])
			p.screen.SetContent(x, row, halfBlock, nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
}

// cellColor resolves a pixel to a terminal colour: scene plus glow, clamped and encoded to sRGB.
func (p *presenter) cellColor(px *pixel) tcell.Color {
	r := px.base[0] + px.glow[0]
	g := px.base[1] + px.glow[1]
	b := px.base[2] + px.glow[2]
	if r <= 0 && g <= 0 && b <= 0 {
		return p.background
	}
	c := colorful.LinearRgb(float64(r), float64(g), float64(b)).Clamped()
	r8, g8, b8 := c.RGB255()
	return tcell.NewRGBColor(int32(r8), int32(g8), int32(b8))
}

func (p *presenter) drawHUD(frame engine.FrameInfo) {
	fps := 0.0
	if frame.Delta > 0 {
		fps = 1 / frame.Delta
	}
	p.hudText = fmt.Appendf(p.hudText[:0], " lantern-fish  frame %d  %3.0f fps  (q to quit) ", frame.Index, fps)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for i, ch := range string(p.hudText) {
		if i >= p.width {
			break
		}
		p.screen.SetContent(i, 0, ch, nil, style)
	}
}

// glowKernel returns a (2r+1)² Gaussian falloff scaled so the centre weight equals strength.
//
// Parameters:
//   - radius: halo radius in pixels
//   - strength: centre weight
//
// Returns:
//   - []float32: row-major weights
func glowKernel(radius int, strength float32) []float32 {
	side := 2*radius + 1
	k := make([]float32, side*side)
	sigma := math.Max(float64(radius)/2, 0.5)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			k[(dy+radius)*side+dx+radius] = strength * float32(math.Exp(-d2/(2*sigma*sigma)))
		}
	}
	return k
}

// linear converts an sRGB colour to linear RGB components.
func linear(c colorful.Color) [3]float32 {
	r, g, b := c.LinearRgb()
	return [3]float32{float32(r), float32(g), float32(b)}
}
