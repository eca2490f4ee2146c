package renderer

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/lantern-fish/common"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	pipelineKeyBright    = "Bloom Bright"
	pipelineKeyBlur      = "Bloom Blur"
	pipelineKeyComposite = "Bloom Composite"

	// blurTaps is the centre weight plus the side weights sampled on each side.
	blurTaps = 8
)

// BloomSettings configures the additive glow applied after the scene pass.
type BloomSettings struct {
	// Threshold is the luminance below which texels do not glow.
	Threshold float32
	// Strength scales the blurred glow before it is added to the scene.
	Strength float32
	// Radius widens the blur kernel; 0 is tight, 1 is the widest.
	Radius float32
}

// DefaultBloomSettings returns threshold 0, strength 2.5 and radius 0.5.
//
// Returns:
//   - BloomSettings: the default settings
func DefaultBloomSettings() BloomSettings {
	return BloomSettings{
		Threshold: 0,
		Strength:  2.5,
		Radius:    0.5,
	}
}

// Validate reports settings the bloom pass cannot draw: a negative or NaN threshold, strength
// or radius. Radii above 1 are allowed and clamp to the widest kernel.
//
// Returns:
//   - error: nil if the settings are usable
func (s BloomSettings) Validate() error {
	for _, f := range []struct {
		name  string
		value float32
	}{
		{"threshold", s.Threshold},
		{"strength", s.Strength},
		{"radius", s.Radius},
	} {
		if !(f.value >= 0) {
			return fmt.Errorf("bloom %s must not be negative, got %v", f.name, f.value)
		}
	}
	return nil
}

// GPU uniform blocks. Field order and padding match the WGSL structs in shaders.go.

type gpuBrightParams struct {
	Threshold float32
	_         [3]float32
}

type gpuBlurParams struct {
	Direction [2]float32
	TexelSize [2]float32
	Weights   [blurTaps]float32
}

type gpuCompositeParams struct {
	Strength   float32
	EncodeSRGB float32
	_          [2]float32
}

// gaussianWeights returns the normalized one-sided kernel for a blur radius. Index 0 is the
// centre tap; the full kernel weight[0] + 2*sum(weight[1:]) is 1.
//
// Parameters:
//   - radius: the bloom radius, clamped to [0, 1]
//
// Returns:
//   - [blurTaps]float32: the centre and side weights
func gaussianWeights(radius float32) [blurTaps]float32 {
	radius = min(max(radius, 0), 1)
	sigma := 1 + 4*float64(radius)

	var raw [blurTaps]float64
	total := 0.0
	for i := range raw {
		raw[i] = math.Exp(-float64(i*i) / (2 * sigma * sigma))
		if i == 0 {
			total += raw[i]
		} else {
			total += 2 * raw[i]
		}
	}

	var weights [blurTaps]float32
	for i, w := range raw {
		weights[i] = float32(w / total)
	}
	return weights
}

// bloomChain owns the half-resolution ping-pong targets and the three post-process pipelines.
// Each frame it runs bright pass (scene to A), horizontal blur (A to B), vertical blur (B to A)
// and the composite of scene and A onto the surface.
type bloomChain struct {
	settings      BloomSettings
	surfaceFormat wgpu.TextureFormat

	sampler *wgpu.Sampler
	targetA *RenderTarget
	targetB *RenderTarget

	bright    pipeline.Pipeline
	blur      pipeline.Pipeline
	composite pipeline.Pipeline

	brightGroup    bind_group_provider.BindGroupProvider
	blurHGroup     bind_group_provider.BindGroupProvider
	blurVGroup     bind_group_provider.BindGroupProvider
	compositeGroup bind_group_provider.BindGroupProvider

	// single-element slices handed to DrawFullscreen without allocating per frame
	brightBind    []bind_group_provider.BindGroupProvider
	blurHBind     []bind_group_provider.BindGroupProvider
	blurVBind     []bind_group_provider.BindGroupProvider
	compositeBind []bind_group_provider.BindGroupProvider

	brightParams    gpuBrightParams
	blurHParams     gpuBlurParams
	blurVParams     gpuBlurParams
	compositeParams gpuCompositeParams
}

// bloomPipelines describes the three post-process pipelines. None of them use depth.
// The composite pipeline targets the surface format; the others write the HDR format.
//
// Parameters:
//   - pp: the pre-processor with the fullscreen include registered
//
// Returns:
//   - []pipeline.Pipeline: bright, blur and composite pipelines, unregistered
func bloomPipelines(pp shader.PreProcessor) []pipeline.Pipeline {
	fullscreenPipeline := func(key, fragmentKey, source string, target wgpu.TextureFormat) pipeline.Pipeline {
		return pipeline.NewPipeline(key,
			pipeline.WithVertexShader(shader.NewShaderWithPreProcessor(key+" VS", shader.ShaderTypeVertex, source, pp)),
			pipeline.WithFragmentShader(shader.NewShaderWithPreProcessor(fragmentKey, shader.ShaderTypeFragment, source, pp)),
			pipeline.WithTargetFormat(target),
			pipeline.WithDepthFormat(wgpu.TextureFormatUndefined),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
		)
	}
	return []pipeline.Pipeline{
		fullscreenPipeline(pipelineKeyBright, pipelineKeyBright+" FS", brightShaderSource, sceneFormat),
		fullscreenPipeline(pipelineKeyBlur, pipelineKeyBlur+" FS", blurShaderSource, sceneFormat),
		fullscreenPipeline(pipelineKeyComposite, pipelineKeyComposite+" FS", compositeShaderSource, wgpu.TextureFormatUndefined),
	}
}

// newBloomChain builds the providers for already-registered pipelines and sizes the targets.
//
// Parameters:
//   - backend: the renderer backend
//   - settings: bloom parameters
//   - bright: the registered bright-pass pipeline
//   - blur: the registered blur pipeline
//   - composite: the registered composite pipeline
//
// Returns:
//   - *bloomChain: the chain, ready to encode
//   - error: an error if a GPU object could not be created
func newBloomChain(backend RendererBackend, settings BloomSettings, bright, blur, composite pipeline.Pipeline) (*bloomChain, error) {
	samp, err := backend.CreateLinearSampler()
	if err != nil {
		return nil, err
	}

	b := &bloomChain{
		settings:       settings,
		surfaceFormat:  backend.SurfaceFormat(),
		sampler:        samp,
		bright:         bright,
		blur:           blur,
		composite:      composite,
		brightGroup:    bind_group_provider.NewBindGroupProvider("Bloom Bright", bind_group_provider.WithSampler(1, samp)),
		blurHGroup:     bind_group_provider.NewBindGroupProvider("Bloom Blur H", bind_group_provider.WithSampler(1, samp)),
		blurVGroup:     bind_group_provider.NewBindGroupProvider("Bloom Blur V", bind_group_provider.WithSampler(1, samp)),
		compositeGroup: bind_group_provider.NewBindGroupProvider("Bloom Composite", bind_group_provider.WithSampler(2, samp)),
	}
	b.brightBind = []bind_group_provider.BindGroupProvider{b.brightGroup}
	b.blurHBind = []bind_group_provider.BindGroupProvider{b.blurHGroup}
	b.blurVBind = []bind_group_provider.BindGroupProvider{b.blurVGroup}
	b.compositeBind = []bind_group_provider.BindGroupProvider{b.compositeGroup}

	if err := b.resize(backend); err != nil {
		b.release()
		return nil, err
	}
	return b, nil
}

// resize recreates the ping-pong targets for the current scene target and rebuilds every
// bind group that samples them.
//
// Parameters:
//   - backend: the renderer backend whose scene target was just reconfigured
//
// Returns:
//   - error: an error if a target or bind group could not be created
func (b *bloomChain) resize(backend RendererBackend) error {
	scene := backend.SceneTarget()
	if scene == nil {
		return fmt.Errorf("bloom: scene target not configured")
	}
	w, h := halfSize(scene.Width(), scene.Height())

	b.targetA.Release()
	b.targetB.Release()
	b.targetA, b.targetB = nil, nil

	var err error
	if b.targetA, err = backend.CreateRenderTarget("Bloom Target A", w, h, sceneFormat); err != nil {
		return err
	}
	if b.targetB, err = backend.CreateRenderTarget("Bloom Target B", w, h, sceneFormat); err != nil {
		return err
	}

	b.brightGroup.SetTextureView(0, scene.View())
	b.blurHGroup.SetTextureView(0, b.targetA.View())
	b.blurVGroup.SetTextureView(0, b.targetB.View())
	b.compositeGroup.SetTextureView(0, scene.View())
	b.compositeGroup.SetTextureView(1, b.targetA.View())

	for _, pair := range []struct {
		p        pipeline.Pipeline
		provider bind_group_provider.BindGroupProvider
	}{
		{b.bright, b.brightGroup},
		{b.blur, b.blurHGroup},
		{b.blur, b.blurVGroup},
		{b.composite, b.compositeGroup},
	} {
		if err := backend.InitBindGroup(pair.provider, pair.p.BindGroupLayout(0), pair.p.BindGroupLayoutDescriptor(0)); err != nil {
			return err
		}
	}

	b.fillParams(w, h)
	backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: b.brightGroup, Target: bind_group_provider.BufferTargetBinding, Index: 2, Data: common.StructToBytes(&b.brightParams)},
		{Provider: b.blurHGroup, Target: bind_group_provider.BufferTargetBinding, Index: 2, Data: common.StructToBytes(&b.blurHParams)},
		{Provider: b.blurVGroup, Target: bind_group_provider.BufferTargetBinding, Index: 2, Data: common.StructToBytes(&b.blurVParams)},
		{Provider: b.compositeGroup, Target: bind_group_provider.BufferTargetBinding, Index: 3, Data: common.StructToBytes(&b.compositeParams)},
	})
	return nil
}

// fillParams computes the uniform blocks for a half-resolution target size.
func (b *bloomChain) fillParams(halfWidth, halfHeight int) {
	weights := gaussianWeights(b.settings.Radius)
	texel := [2]float32{1 / float32(halfWidth), 1 / float32(halfHeight)}

	b.brightParams = gpuBrightParams{Threshold: b.settings.Threshold}
	b.blurHParams = gpuBlurParams{Direction: [2]float32{1, 0}, TexelSize: texel, Weights: weights}
	b.blurVParams = gpuBlurParams{Direction: [2]float32{0, 1}, TexelSize: texel, Weights: weights}
	b.compositeParams = gpuCompositeParams{Strength: b.settings.Strength}
	if !isSRGBFormat(b.surfaceFormat) {
		b.compositeParams.EncodeSRGB = 1
	}
}

// encode records the four post-process passes into the open frame.
func (b *bloomChain) encode(backend RendererBackend) {
	black := wgpu.Color{R: 0, G: 0, B: 0, A: 1}

	backend.BeginPass("Bloom Bright Pass", b.targetA.View(), black, nil)
	backend.DrawFullscreen(b.bright, b.brightBind)
	backend.EndPass()

	backend.BeginPass("Bloom Blur H Pass", b.targetB.View(), black, nil)
	backend.DrawFullscreen(b.blur, b.blurHBind)
	backend.EndPass()

	backend.BeginPass("Bloom Blur V Pass", b.targetA.View(), black, nil)
	backend.DrawFullscreen(b.blur, b.blurVBind)
	backend.EndPass()

	backend.BeginPass("Composite Pass", nil, black, nil)
	backend.DrawFullscreen(b.composite, b.compositeBind)
	backend.EndPass()
}

func (b *bloomChain) release() {
	for _, g := range []bind_group_provider.BindGroupProvider{b.brightGroup, b.blurHGroup, b.blurVGroup, b.compositeGroup} {
		g.Release()
	}
	b.targetA.Release()
	b.targetB.Release()
	b.targetA, b.targetB = nil, nil
	if b.sampler != nil {
		b.sampler.Release()
		b.sampler = nil
	}
}
