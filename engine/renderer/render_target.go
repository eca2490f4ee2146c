package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RenderTarget is an offscreen texture and its default view.
type RenderTarget struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   int
	height  int
	format  wgpu.TextureFormat
}

// View returns the texture view used as attachment and binding.
func (t *RenderTarget) View() *wgpu.TextureView {
	return t.view
}

// Width returns the target width in pixels.
func (t *RenderTarget) Width() int {
	return t.width
}

// Height returns the target height in pixels.
func (t *RenderTarget) Height() int {
	return t.height
}

// Format returns the texel format.
func (t *RenderTarget) Format() wgpu.TextureFormat {
	return t.format
}

// Release frees the view and texture. Safe on a nil target.
func (t *RenderTarget) Release() {
	if t == nil {
		return
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// halfSize returns the bloom chain resolution for a surface size, never below one pixel.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - int: half width, at least 1
//   - int: half height, at least 1
func halfSize(width, height int) (int, int) {
	return max(1, width/2), max(1, height/2)
}

// isSRGBFormat reports whether the surface format already encodes linear output to sRGB.
func isSRGBFormat(format wgpu.TextureFormat) bool {
	switch format {
	case wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatRGBA8UnormSrgb:
		return true
	default:
		return false
	}
}
