package renderer

import (
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

const (
	// sceneFormat is the HDR offscreen color format the scene and bloom chain render into.
	sceneFormat = wgpu.TextureFormatRGBA16Float
	// depthFormat is the depth attachment format of the scene pass.
	depthFormat = wgpu.TextureFormatDepth24Plus
)

// RendererBackend is the GPU API the Renderer drives. A frame is BeginFrame, one or more
// BeginPass / draw / EndPass sequences, EndFrame, then Present.
type RendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and recreates the size-dependent scene
	// color and depth targets.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	//
	// Returns:
	//   - error: an error if a target could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode changes the present mode, applied at the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SurfaceFormat returns the swapchain texture format chosen at configuration.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// SceneTarget returns the HDR scene color target.
	//
	// Returns:
	//   - *RenderTarget: the target, or nil before ConfigureSurface
	SceneTarget() *RenderTarget

	// DepthTarget returns the scene depth target.
	//
	// Returns:
	//   - *RenderTarget: the target, or nil before ConfigureSurface
	DepthTarget() *RenderTarget

	// CreateRenderTarget allocates a texture usable as both color attachment and sampled texture.
	//
	// Parameters:
	//   - label: debug label
	//   - width: width in pixels
	//   - height: height in pixels
	//   - format: texel format
	//
	// Returns:
	//   - *RenderTarget: the created target
	//   - error: an error if creation fails
	CreateRenderTarget(label string, width, height int, format wgpu.TextureFormat) (*RenderTarget, error)

	// CreateLinearSampler creates a clamp-to-edge bilinear sampler.
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler
	//   - error: an error if creation fails
	CreateLinearSampler() (*wgpu.Sampler, error)

	// RegisterRenderPipeline creates the shader modules, bind group layouts, pipeline layout and
	// render pipeline, storing them on p.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitBindGroup creates owned buffers for the buffer bindings in descriptor and then the bind group.
	// Texture views and samplers must already be stored on the provider.
	//
	// Parameters:
	//   - provider: the provider receiving the bind group
	//   - layout: the GPU layout the bind group must match
	//   - descriptor: the descriptor the layout was created from
	//
	// Returns:
	//   - error: an error if a binding is missing or creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, layout *wgpu.BindGroupLayout, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitVertexBuffer creates a vertex buffer in a slot and uploads data.
	//
	// Parameters:
	//   - provider: the provider receiving the buffer
	//   - slot: the vertex buffer slot
	//   - data: the initial contents; its length is the buffer size
	//
	// Returns:
	//   - error: an error if creation fails
	InitVertexBuffer(provider bind_group_provider.BindGroupProvider, slot int, data []byte) error

	// InitIndexBuffer creates a uint32 index buffer and uploads indices.
	//
	// Parameters:
	//   - provider: the provider receiving the buffer
	//   - data: the index bytes
	//   - count: the number of indices
	//
	// Returns:
	//   - error: an error if creation fails
	InitIndexBuffer(provider bind_group_provider.BindGroupProvider, data []byte, count int) error

	// WriteBuffers queues buffer uploads for the next submission.
	//
	// Parameters:
	//   - writes: the writes to perform, in order
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next surface texture and opens the frame's command encoder.
	//
	// Returns:
	//   - error: an error if the surface image could not be acquired
	BeginFrame() error

	// BeginPass opens a render pass. A nil color view targets the acquired surface texture
	// and a nil depth view omits the depth attachment.
	//
	// Parameters:
	//   - label: debug label
	//   - color: the color attachment view, or nil for the surface
	//   - clear: the color clear value
	//   - depth: the depth attachment view, or nil
	BeginPass(label string, color *wgpu.TextureView, clear wgpu.Color, depth *wgpu.TextureView)

	// DrawCall encodes an indexed, instanced draw of meshProvider in the current pass.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - meshProvider: the provider holding vertex and index buffers
	//   - bindGroups: bind group providers, bound at their slice index
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider)

	// DrawFullscreen encodes a three-vertex full-screen triangle in the current pass.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - bindGroups: bind group providers, bound at their slice index
	DrawFullscreen(p pipeline.Pipeline, bindGroups []bind_group_provider.BindGroupProvider)

	// EndPass closes the current render pass.
	EndPass()

	// EndFrame finishes the command encoder and submits it to the queue.
	EndFrame()

	// Present presents the acquired surface texture and releases the frame's references.
	Present()

	// Release frees every GPU object the backend owns.
	Release()
}
