package renderer

import (
	"github.com/Carmen-Shannon/lantern-fish/common"
	"github.com/Carmen-Shannon/lantern-fish/engine/buffer"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	pipelineKeyRibbon = "Ribbon"

	ribbonPositionSlot = 0
	ribbonColorSlot    = 1
)

// ribbonDraw is the GPU side of the tube mesh: positions in slot 0, colours in slot 1.
type ribbonDraw struct {
	mesh     *buffer.Mesh
	provider bind_group_provider.BindGroupProvider
}

// ribbonPipeline describes the unlit vertex-colour pipeline. The tube is viewed from inside
// as often as outside, so nothing is culled.
func ribbonPipeline(pp shader.PreProcessor) pipeline.Pipeline {
	return pipeline.NewPipeline(pipelineKeyRibbon,
		pipeline.WithVertexShader(shader.NewShaderWithPreProcessor("Ribbon VS", shader.ShaderTypeVertex, ribbonShaderSource, pp)),
		pipeline.WithFragmentShader(shader.NewShaderWithPreProcessor("Ribbon FS", shader.ShaderTypeFragment, ribbonShaderSource, pp)),
		pipeline.WithTargetFormat(sceneFormat),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)
}

// newRibbonDraw uploads the mesh's initial positions, its colours and its indices.
// Positions stay dirty so the first Present uploads whatever the frame loop wrote.
//
// Parameters:
//   - backend: the renderer backend
//   - mesh: the CPU ribbon mesh
//
// Returns:
//   - *ribbonDraw: the GPU ribbon
//   - error: an error if a buffer could not be created
func newRibbonDraw(backend RendererBackend, mesh *buffer.Mesh) (*ribbonDraw, error) {
	provider := bind_group_provider.NewBindGroupProvider("Ribbon")
	if err := backend.InitVertexBuffer(provider, ribbonPositionSlot, common.SliceToBytes(mesh.Positions())); err != nil {
		provider.Release()
		return nil, err
	}
	if err := backend.InitVertexBuffer(provider, ribbonColorSlot, common.SliceToBytes(linearizeColors(mesh.Colors()))); err != nil {
		provider.Release()
		return nil, err
	}
	if err := backend.InitIndexBuffer(provider, common.SliceToBytes(mesh.Indices()), len(mesh.Indices())); err != nil {
		provider.Release()
		return nil, err
	}
	return &ribbonDraw{mesh: mesh, provider: provider}, nil
}

// queueWrites appends the position upload when the mesh changed since the last frame.
func (d *ribbonDraw) queueWrites(writes []bind_group_provider.BufferWrite) []bind_group_provider.BufferWrite {
	if !d.mesh.TakeDirty() {
		return writes
	}
	return append(writes, bind_group_provider.BufferWrite{
		Provider: d.provider,
		Target:   bind_group_provider.BufferTargetVertex,
		Index:    ribbonPositionSlot,
		Data:     common.SliceToBytes(d.mesh.Positions()),
	})
}

func (d *ribbonDraw) release() {
	d.provider.Release()
}

// linearizeColors converts flat sRGB triples to linear light for the HDR scene target.
//
// Parameters:
//   - srgb: flat rgb triples in sRGB space
//
// Returns:
//   - []float32: a new slice of linear rgb triples
func linearizeColors(srgb []float32) []float32 {
	out := make([]float32, len(srgb))
	for i := 0; i+2 < len(srgb); i += 3 {
		c := colorful.Color{R: float64(srgb[i]), G: float64(srgb[i+1]), B: float64(srgb[i+2])}
		r, g, b := c.LinearRgb()
		out[i], out[i+1], out[i+2] = float32(r), float32(g), float32(b)
	}
	return out
}
