package pipeline

import (
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the underlying WebGPU render pipeline and the state used to create it.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for labels and cache lookups
	pipelineKey string

	// both shaders are required before the pipeline can be registered with the renderer backend.

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is nil until the backend registers the pipeline
	renderPipeline *wgpu.RenderPipeline
	// bindGroupLayouts are the GPU layouts created at registration, indexed by group
	bindGroupLayouts []*wgpu.BindGroupLayout
	// bindGroupDescriptors are the merged vertex and fragment descriptors the layouts were built from
	bindGroupDescriptors map[int]wgpu.BindGroupLayoutDescriptor

	// The following properties configure the pipeline during creation and are set with the builder options.

	targetFormat      wgpu.TextureFormat
	depthFormat       wgpu.TextureFormat
	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline defines the interface for a GPU render pipeline (vertex + fragment shaders). It holds all
// configuration state required for pipeline creation including target, depth, blend, cull and topology settings.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader for the given stage, or nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve (vertex or fragment)
	//
	// Returns:
	//   - shader.Shader: the shader for the stage, or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// Pipeline returns the underlying render pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the created pipeline
	Pipeline() *wgpu.RenderPipeline

	// BindGroupLayout returns the GPU layout created for a bind group index, or nil if the
	// pipeline is unregistered or the group is not declared.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout or nil
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// BindGroupLayoutDescriptor returns the merged descriptor for a bind group index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, empty if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// TargetFormat returns the color attachment format. TextureFormatUndefined means the surface format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the color target format
	TargetFormat() wgpu.TextureFormat

	// DepthFormat returns the depth attachment format. TextureFormatUndefined means no depth attachment.
	//
	// Returns:
	//   - wgpu.TextureFormat: the depth format
	DepthFormat() wgpu.TextureFormat

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled
	DepthWriteEnabled() bool

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode (e.g., wgpu.CullModeNone, wgpu.CullModeBack)
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the winding order (e.g., wgpu.FrontFaceCCW)
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state, used only when blending is enabled
	BlendState() *wgpu.BlendState

	// SetRenderPipeline stores the objects created by the backend at registration.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline
	//   - layouts: the bind group layouts indexed by group
	//   - descriptors: the merged descriptors the layouts were built from
	SetRenderPipeline(p *wgpu.RenderPipeline, layouts []*wgpu.BindGroupLayout, descriptors map[int]wgpu.BindGroupLayoutDescriptor)

	// Release frees the GPU pipeline and its bind group layouts.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new render Pipeline. By default the pipeline draws
// triangle lists into the surface format with a Depth24Plus depth test and no culling or blending.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		targetFormat:      wgpu.TextureFormatUndefined,
		depthFormat:       wgpu.TextureFormatDepth24Plus,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Pipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	if group < 0 || group >= len(p.bindGroupLayouts) {
		return nil
	}
	return p.bindGroupLayouts[group]
}

func (p *pipeline) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return p.bindGroupDescriptors[group]
}

func (p *pipeline) TargetFormat() wgpu.TextureFormat {
	return p.targetFormat
}

func (p *pipeline) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline, layouts []*wgpu.BindGroupLayout, descriptors map[int]wgpu.BindGroupLayoutDescriptor) {
	p.renderPipeline = rp
	p.bindGroupLayouts = layouts
	p.bindGroupDescriptors = descriptors
}

func (p *pipeline) Release() {
	for _, l := range p.bindGroupLayouts {
		if l != nil {
			l.Release()
		}
	}
	p.bindGroupLayouts = nil
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
