package renderer

import (
	"github.com/Carmen-Shannon/lantern-fish/common"
	"github.com/Carmen-Shannon/lantern-fish/engine/buffer"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/lantern-fish/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	pipelineKeyLantern = "Lantern"

	lanternVertexSlot   = 0
	lanternInstanceSlot = 1
)

// boxFaces lists each face of the unit box as four corners, counter-clockwise seen from outside.
// Corner index bits are x | y<<1 | z<<2, a set bit meaning the positive half extent.
var boxFaces = [6][4]uint32{
	{1, 3, 7, 5}, // +X
	{0, 4, 6, 2}, // -X
	{2, 6, 7, 3}, // +Y
	{0, 1, 5, 4}, // -Y
	{4, 5, 7, 6}, // +Z
	{0, 2, 3, 1}, // -Z
}

type gpuLanternParams struct {
	Color [4]float32
}

// lanternDraw is the GPU side of the lantern batch: one box mesh drawn once per instance.
type lanternDraw struct {
	instances *buffer.Instances
	mesh      bind_group_provider.BindGroupProvider
	params    bind_group_provider.BindGroupProvider
}

// lanternPipeline describes the instanced flat-colour box pipeline.
func lanternPipeline(pp shader.PreProcessor) pipeline.Pipeline {
	return pipeline.NewPipeline(pipelineKeyLantern,
		pipeline.WithVertexShader(shader.NewShaderWithPreProcessor("Lantern VS", shader.ShaderTypeVertex, lanternShaderSource, pp)),
		pipeline.WithFragmentShader(shader.NewShaderWithPreProcessor("Lantern FS", shader.ShaderTypeFragment, lanternShaderSource, pp)),
		pipeline.WithTargetFormat(sceneFormat),
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
	)
}

// newLanternDraw uploads the box, the initial instance matrices and the colour uniform.
//
// Parameters:
//   - backend: the renderer backend
//   - p: the registered lantern pipeline, whose group 1 layout holds the colour
//   - instances: the CPU instance batch
//   - size: box extents
//   - color: lantern colour in sRGB
//
// Returns:
//   - *lanternDraw: the GPU lanterns
//   - error: an error if a buffer or bind group could not be created
func newLanternDraw(backend RendererBackend, p pipeline.Pipeline, instances *buffer.Instances, size mgl32.Vec3, color colorful.Color) (*lanternDraw, error) {
	positions, indices := boxGeometry(size)

	mesh := bind_group_provider.NewBindGroupProvider("Lanterns", bind_group_provider.WithInstanceCount(instances.Count()))
	if err := backend.InitVertexBuffer(mesh, lanternVertexSlot, common.SliceToBytes(positions)); err != nil {
		mesh.Release()
		return nil, err
	}
	if err := backend.InitVertexBuffer(mesh, lanternInstanceSlot, common.SliceToBytes(instances.Transforms())); err != nil {
		mesh.Release()
		return nil, err
	}
	if err := backend.InitIndexBuffer(mesh, common.SliceToBytes(indices), len(indices)); err != nil {
		mesh.Release()
		return nil, err
	}

	params := bind_group_provider.NewBindGroupProvider("Lantern Params")
	if err := backend.InitBindGroup(params, p.BindGroupLayout(1), p.BindGroupLayoutDescriptor(1)); err != nil {
		mesh.Release()
		params.Release()
		return nil, err
	}
	uniform := gpuLanternParams{Color: linearColor(color)}
	backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: params,
		Target:   bind_group_provider.BufferTargetBinding,
		Index:    0,
		Data:     common.StructToBytes(&uniform),
	}})

	return &lanternDraw{instances: instances, mesh: mesh, params: params}, nil
}

// queueWrites appends the instance matrix upload when the batch changed since the last frame.
func (d *lanternDraw) queueWrites(writes []bind_group_provider.BufferWrite) []bind_group_provider.BufferWrite {
	if !d.instances.TakeDirty() {
		return writes
	}
	return append(writes, bind_group_provider.BufferWrite{
		Provider: d.mesh,
		Target:   bind_group_provider.BufferTargetVertex,
		Index:    lanternInstanceSlot,
		Data:     common.SliceToBytes(d.instances.Transforms()),
	})
}

func (d *lanternDraw) release() {
	d.mesh.Release()
	d.params.Release()
}

// boxGeometry builds an axis-aligned box centred on the origin.
//
// Parameters:
//   - size: full extents along x, y and z
//
// Returns:
//   - []float32: 8 corners as flat xyz triples
//   - []uint32: 36 triangle list indices with outward counter-clockwise winding
func boxGeometry(size mgl32.Vec3) ([]float32, []uint32) {
	half := size.Mul(0.5)
	positions := make([]float32, 0, 8*3)
	for corner := range 8 {
		for axis := range 3 {
			v := -half[axis]
			if corner&(1<<axis) != 0 {
				v = half[axis]
			}
			positions = append(positions, v)
		}
	}

	indices := make([]uint32, 0, 36)
	for _, f := range boxFaces {
		indices = append(indices, f[0], f[1], f[2], f[0], f[2], f[3])
	}
	return positions, indices
}

// linearColor converts an sRGB colour to an opaque linear RGBA quadruple.
func linearColor(c colorful.Color) [4]float32 {
	r, g, b := c.LinearRgb()
	return [4]float32{float32(r), float32(g), float32(b), 1}
}
