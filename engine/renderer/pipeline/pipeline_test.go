package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const testSource = `@vertex
fn vs_test(@builtin(vertex_index) index: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}

@fragment
fn fs_test() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("Test")

	if p.PipelineKey() != "Test" {
		t.Errorf("Expected key Test, got %q", p.PipelineKey())
	}
	if p.TargetFormat() != wgpu.TextureFormatUndefined {
		t.Errorf("Expected surface target by default, got %v", p.TargetFormat())
	}
	if p.DepthFormat() != wgpu.TextureFormatDepth24Plus {
		t.Errorf("Expected Depth24Plus by default, got %v", p.DepthFormat())
	}
	if !p.DepthTestEnabled() || !p.DepthWriteEnabled() {
		t.Errorf("Expected depth test and write on by default")
	}
	if p.BlendEnabled() {
		t.Errorf("Expected blending off by default")
	}
	if p.CullMode() != wgpu.CullModeNone {
		t.Errorf("Expected no culling by default, got %v", p.CullMode())
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("Expected triangle list, got %v", p.Topology())
	}
	if p.FrontFace() != wgpu.FrontFaceCCW {
		t.Errorf("Expected CCW front face, got %v", p.FrontFace())
	}
	if p.WriteMask() != wgpu.ColorWriteMaskAll {
		t.Errorf("Expected full write mask, got %v", p.WriteMask())
	}
	if bs := p.BlendState(); bs == nil || bs.Color.SrcFactor != wgpu.BlendFactorOne || bs.Color.DstFactor != wgpu.BlendFactorOne {
		t.Errorf("Expected additive default blend state, got %+v", bs)
	}
	if p.Pipeline() != nil || p.BindGroupLayout(0) != nil {
		t.Errorf("Expected no GPU objects before registration")
	}
	if p.Shader(shader.ShaderTypeVertex) != nil || p.Shader(shader.ShaderTypeFragment) != nil {
		t.Errorf("Expected no shaders without options")
	}
}

func TestPipelineOptions(t *testing.T) {
	vs := shader.NewShader("Test VS", shader.ShaderTypeVertex, testSource)
	fs := shader.NewShader("Test FS", shader.ShaderTypeFragment, testSource)
	blend := &wgpu.BlendState{
		Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd},
		Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorZero, Operation: wgpu.BlendOperationAdd},
	}

	p := NewPipeline("Post",
		WithVertexShader(vs),
		WithFragmentShader(fs),
		WithTargetFormat(wgpu.TextureFormatRGBA16Float),
		WithDepthFormat(wgpu.TextureFormatUndefined),
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
		WithBlendEnabled(true),
		WithBlendState(blend),
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithFrontFace(wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)

	if p.Shader(shader.ShaderTypeVertex) != vs || p.Shader(shader.ShaderTypeFragment) != fs {
		t.Errorf("Expected shaders to be stored per stage")
	}
	if p.TargetFormat() != wgpu.TextureFormatRGBA16Float {
		t.Errorf("Expected RGBA16Float target, got %v", p.TargetFormat())
	}
	if p.DepthFormat() != wgpu.TextureFormatUndefined {
		t.Errorf("Expected no depth format, got %v", p.DepthFormat())
	}
	if p.DepthTestEnabled() || p.DepthWriteEnabled() {
		t.Errorf("Expected depth test and write disabled")
	}
	if !p.BlendEnabled() || p.BlendState() != blend {
		t.Errorf("Expected custom blend state enabled")
	}
	if p.CullMode() != wgpu.CullModeBack || p.Topology() != wgpu.PrimitiveTopologyLineList || p.FrontFace() != wgpu.FrontFaceCW {
		t.Errorf("Expected rasterizer options applied, got cull %v topology %v front %v", p.CullMode(), p.Topology(), p.FrontFace())
	}
	if p.WriteMask() != wgpu.ColorWriteMaskRed {
		t.Errorf("Expected red write mask, got %v", p.WriteMask())
	}
}

func TestBindGroupLayoutLookup(t *testing.T) {
	p := NewPipeline("Layouts")
	descriptors := map[int]wgpu.BindGroupLayoutDescriptor{
		1: {Label: "group one", Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0}}},
	}
	p.SetRenderPipeline(nil, []*wgpu.BindGroupLayout{nil, nil}, descriptors)

	if got := p.BindGroupLayoutDescriptor(1); got.Label != "group one" || len(got.Entries) != 1 {
		t.Errorf("Expected stored descriptor for group 1, got %+v", got)
	}
	if got := p.BindGroupLayoutDescriptor(0); len(got.Entries) != 0 {
		t.Errorf("Expected empty descriptor for undeclared group, got %+v", got)
	}
	for _, g := range []int{-1, 2, 7} {
		if p.BindGroupLayout(g) != nil {
			t.Errorf("Expected nil layout for out of range group %d", g)
		}
	}
}
