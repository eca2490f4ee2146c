package renderer

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/lantern-fish/engine"
	"github.com/Carmen-Shannon/lantern-fish/engine/buffer"
	"github.com/Carmen-Shannon/lantern-fish/engine/camera"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/shader"
	"github.com/Carmen-Shannon/lantern-fish/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend RendererBackend
	camera  camera.Camera

	pipelineCache map[string]pipeline.Pipeline
	preProcessor  shader.PreProcessor

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	clearColor           wgpu.Color
	bloomSettings        BloomSettings

	width, height int

	cameraGroup   bind_group_provider.BindGroupProvider
	cameraUniform []byte
	ribbon        *ribbonDraw
	lanterns      *lanternDraw
	bloom         *bloomChain

	// reused every frame so Present does not allocate
	writes       []bind_group_provider.BufferWrite
	ribbonBind   []bind_group_provider.BindGroupProvider
	lanternBind  []bind_group_provider.BindGroupProvider
	skippedFrame bool
}

// Renderer draws the ribbon and lantern scene through WebGPU and composites bloom onto the
// window surface. It is the GPU backend's engine.Presenter and engine.ResizeListener.
type Renderer interface {
	engine.Presenter
	engine.ResizeListener

	// NewRibbon creates the GPU buffers for the tube mesh. Colours and indices are uploaded
	// once; positions are re-uploaded on every Present after the mesh was marked dirty.
	//
	// Parameters:
	//   - mesh: the CPU ribbon mesh
	//
	// Returns:
	//   - error: an error if a ribbon already exists or a buffer could not be created
	NewRibbon(mesh *buffer.Mesh) error

	// NewLanterns creates the shared box mesh and the per-instance matrix buffer.
	//
	// Parameters:
	//   - instances: the CPU instance batch
	//   - size: box extents
	//   - color: the lantern colour
	//
	// Returns:
	//   - error: an error if lanterns already exist or a GPU object could not be created
	NewLanterns(instances *buffer.Instances, size mgl32.Vec3, color colorful.Color) error

	// Bloom returns the bloom settings in effect.
	//
	// Returns:
	//   - BloomSettings: threshold, strength and radius
	Bloom() BloomSettings

	// SetPresentMode changes the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: VSync or Uncapped
	SetPresentMode(mode PresentMode)

	// Release frees every GPU object, the ribbon and lantern buffers included.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the WebGPU device for the window's surface, configures the surface at
// the window's render size and registers the scene and bloom pipelines.
//
// Parameters:
//   - win: the window providing the surface and initial size
//   - cam: the camera whose uniform is uploaded each frame
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer, ready for NewRibbon and NewLanterns
//   - error: an error if the GPU could not be initialized
func NewRenderer(win window.Window, cam camera.Camera, options ...RendererBuilderOption) (Renderer, error) {
	if cam == nil {
		return nil, errors.New("renderer requires a camera")
	}
	r := &renderer{
		mu:            &sync.Mutex{},
		camera:        cam,
		pipelineCache: make(map[string]pipeline.Pipeline),
		preProcessor:  shader.NewPreProcessor(),
		presentMode:   PresentModeVSync,
		clearColor:    wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		bloomSettings: DefaultBloomSettings(),
		width:         win.Width(),
		height:        win.Height(),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	r.preProcessor.Register(includeFullscreen, fullscreenSource)

	backend, err := newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create wgpu backend: %w", err)
	}
	r.backend = backend
	r.backend.SetPresentMode(r.presentMode)

	if err := r.init(); err != nil {
		r.Release()
		return nil, err
	}
	log.Printf("[Renderer] Surface %dx%d, format %v", r.width, r.height, r.backend.SurfaceFormat())
	return r, nil
}

// init configures the surface, registers every pipeline and creates the camera bind group and bloom chain.
func (r *renderer) init() error {
	if err := r.backend.ConfigureSurface(r.width, r.height); err != nil {
		return fmt.Errorf("failed to configure surface: %w", err)
	}

	pipelines := append([]pipeline.Pipeline{ribbonPipeline(r.preProcessor), lanternPipeline(r.preProcessor)}, bloomPipelines(r.preProcessor)...)
	if err := r.registerPipelines(pipelines...); err != nil {
		return fmt.Errorf("failed to register pipelines: %w", err)
	}

	// Both scene pipelines declare the same camera group, so one bind group serves both.
	ribbonP := r.pipelineCache[pipelineKeyRibbon]
	r.cameraGroup = bind_group_provider.NewBindGroupProvider("Camera")
	if err := r.backend.InitBindGroup(r.cameraGroup, ribbonP.BindGroupLayout(0), ribbonP.BindGroupLayoutDescriptor(0)); err != nil {
		return fmt.Errorf("failed to create camera bind group: %w", err)
	}
	r.cameraUniform = make([]byte, (&camera.GPUCameraUniform{}).Size())
	r.ribbonBind = []bind_group_provider.BindGroupProvider{r.cameraGroup}

	bloom, err := newBloomChain(r.backend, r.bloomSettings,
		r.pipelineCache[pipelineKeyBright], r.pipelineCache[pipelineKeyBlur], r.pipelineCache[pipelineKeyComposite])
	if err != nil {
		return fmt.Errorf("failed to create bloom chain: %w", err)
	}
	r.bloom = bloom
	return nil
}

// registerPipelines creates the GPU objects for each pipeline and caches it by key.
// Keys that are already registered are skipped.
func (r *renderer) registerPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) Bloom() BloomSettings {
	return r.bloomSettings
}

func (r *renderer) NewRibbon(mesh *buffer.Mesh) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ribbon != nil {
		return errors.New("ribbon already created")
	}
	d, err := newRibbonDraw(r.backend, mesh)
	if err != nil {
		return fmt.Errorf("failed to create ribbon buffers: %w", err)
	}
	r.ribbon = d
	log.Printf("[Renderer] Ribbon: %d vertices, %d indices", mesh.VertexCount(), len(mesh.Indices()))
	return nil
}

func (r *renderer) NewLanterns(instances *buffer.Instances, size mgl32.Vec3, color colorful.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lanterns != nil {
		return errors.New("lanterns already created")
	}
	d, err := newLanternDraw(r.backend, r.pipelineCache[pipelineKeyLantern], instances, size, color)
	if err != nil {
		return fmt.Errorf("failed to create lantern buffers: %w", err)
	}
	r.lanterns = d
	r.lanternBind = []bind_group_provider.BindGroupProvider{r.cameraGroup, d.params}
	log.Printf("[Renderer] Lanterns: %d instances", instances.Count())
	return nil
}

func (r *renderer) Present(frame engine.FrameInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.width <= 0 || r.height <= 0 {
		return
	}

	r.camera.Update()
	uniform := r.camera.Uniform()
	uniform.MarshalInto(r.cameraUniform)

	r.writes = append(r.writes[:0], bind_group_provider.BufferWrite{
		Provider: r.cameraGroup,
		Target:   bind_group_provider.BufferTargetBinding,
		Index:    0,
		Data:     r.cameraUniform,
	})
	if r.ribbon != nil {
		r.writes = r.ribbon.queueWrites(r.writes)
	}
	if r.lanterns != nil {
		r.writes = r.lanterns.queueWrites(r.writes)
	}
	r.backend.WriteBuffers(r.writes)

	if err := r.backend.BeginFrame(); err != nil {
		if !r.skippedFrame {
			log.Printf("[Renderer] Skipping frame %d: %v", frame.Index, err)
		}
		r.skippedFrame = true
		return
	}
	r.skippedFrame = false

	scene := r.backend.SceneTarget()
	depth := r.backend.DepthTarget()
	r.backend.BeginPass("Scene Pass", scene.View(), r.clearColor, depth.View())
	if r.ribbon != nil {
		r.backend.DrawCall(r.pipelineCache[pipelineKeyRibbon], r.ribbon.provider, r.ribbonBind)
	}
	if r.lanterns != nil {
		r.backend.DrawCall(r.pipelineCache[pipelineKeyLantern], r.lanterns.mesh, r.lanternBind)
	}
	r.backend.EndPass()

	r.bloom.encode(r.backend)

	r.backend.EndFrame()
	r.backend.Present()
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width, r.height = width, height
	if width <= 0 || height <= 0 {
		// minimized: keep the old targets and skip presents until a real size arrives
		return
	}
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		log.Printf("[Renderer] Resize to %dx%d failed: %v", width, height, err)
		r.width, r.height = 0, 0
		return
	}
	if err := r.bloom.resize(r.backend); err != nil {
		log.Printf("[Renderer] Bloom resize to %dx%d failed: %v", width, height, err)
		r.width, r.height = 0, 0
	}
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.presentMode = mode
	r.backend.SetPresentMode(mode)
	if r.width <= 0 || r.height <= 0 {
		return
	}
	if err := r.backend.ConfigureSurface(r.width, r.height); err != nil {
		log.Printf("[Renderer] Present mode change failed: %v", err)
		return
	}
	if err := r.bloom.resize(r.backend); err != nil {
		log.Printf("[Renderer] Bloom rebuild failed: %v", err)
	}
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ribbon != nil {
		r.ribbon.release()
		r.ribbon = nil
	}
	if r.lanterns != nil {
		r.lanterns.release()
		r.lanterns = nil
	}
	if r.bloom != nil {
		r.bloom.release()
		r.bloom = nil
	}
	if r.cameraGroup != nil {
		r.cameraGroup.Release()
		r.cameraGroup = nil
	}
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}
