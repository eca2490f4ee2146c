package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label used as the prefix of every GPU object created for the provider.
	label string

	// The following fields are owned GPU resources, populated by the renderer backend and freed by Release.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized.
	bindGroup *wgpu.BindGroup
	// buffers holds the uniform/storage buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// vertexBuffers holds the vertex buffers, keyed by vertex buffer slot.
	vertexBuffers map[int]*wgpu.Buffer
	// indexBuffer is the GPU index buffer, or nil for non-indexed draws.
	indexBuffer *wgpu.Buffer
	// indexCount is the number of indices per instance for DrawIndexed.
	indexCount int
	// instanceCount is the number of instances drawn, 1 for ordinary meshes.
	instanceCount int

	// Texture views and samplers are borrowed from render targets and the renderer; Release leaves them alone.

	textureViews map[int]*wgpu.TextureView
	samplers     map[int]*wgpu.Sampler
}

// BindGroupProvider holds the GPU resources one draw needs: its bind group and the buffers behind it,
// plus vertex and index buffers when the draw is a mesh.
//
// Usage pattern:
//  1. Renderer creates a provider per draw and stores borrowed texture views and samplers on it
//  2. Backend.InitBindGroup creates owned buffers for any buffer bindings, then the bind group
//  3. Backend.InitVertexBuffer / InitIndexBuffer upload mesh data
//  4. Renderer queues BufferWrite values against the provider every frame
//  5. Backend.DrawCall reads the bind group and buffers back out
type BindGroupProvider interface {
	// Release frees every owned GPU resource. Borrowed texture views and samplers are only forgotten.
	Release()

	// ReleaseBindGroup frees only the bind group, so it can be rebuilt against new texture views.
	ReleaseBindGroup()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// Buffer returns the buffer bound at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view for a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler for a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the vertex buffer in a slot, or nil.
	//
	// Parameters:
	//   - slot: the vertex buffer slot
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer or nil
	VertexBuffer(slot int) *wgpu.Buffer

	// VertexBufferCount returns the number of contiguous vertex buffer slots starting at 0.
	//
	// Returns:
	//   - int: the slot count
	VertexBufferCount() int

	// IndexBuffer returns the GPU index buffer, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer or nil
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices for draw calls.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// InstanceCount returns the number of instances to draw.
	//
	// Returns:
	//   - int: the instance count, at least 1
	InstanceCount() int

	// SetBindGroup stores the bind group, releasing any previous one.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBuffer stores the buffer for a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTextureView stores a borrowed texture view for a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view
	SetTextureView(binding int, tv *wgpu.TextureView)

	// SetSampler stores a borrowed sampler for a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler
	SetSampler(binding int, s *wgpu.Sampler)

	// SetVertexBuffer stores the vertex buffer for a slot.
	//
	// Parameters:
	//   - slot: the vertex buffer slot
	//   - buf: the created vertex buffer
	SetVertexBuffer(slot int, buf *wgpu.Buffer)

	// SetIndexBuffer stores the GPU index buffer and its index count.
	//
	// Parameters:
	//   - buf: the created index buffer
	//   - count: the index count
	SetIndexBuffer(buf *wgpu.Buffer, count int)

	// SetInstanceCount sets the number of instances to draw.
	//
	// Parameters:
	//   - count: the instance count
	SetInstanceCount(count int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label for the provider's GPU objects
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:         label,
		buffers:       make(map[int]*wgpu.Buffer),
		vertexBuffers: make(map[int]*wgpu.Buffer),
		textureViews:  make(map[int]*wgpu.TextureView),
		samplers:      make(map[int]*wgpu.Sampler),
		instanceCount: 1,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer(slot int) *wgpu.Buffer {
	return p.vertexBuffers[slot]
}

func (p *bindGroupProvider) VertexBufferCount() int {
	n := 0
	for p.vertexBuffers[n] != nil {
		n++
	}
	return n
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) InstanceCount() int {
	return p.instanceCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.ReleaseBindGroup()
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetVertexBuffer(slot int, buf *wgpu.Buffer) {
	p.vertexBuffers[slot] = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer, count int) {
	p.indexBuffer = buf
	p.indexCount = count
}

func (p *bindGroupProvider) SetInstanceCount(count int) {
	if count < 1 {
		count = 1
	}
	p.instanceCount = count
}

func (p *bindGroupProvider) ReleaseBindGroup() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
}

func (p *bindGroupProvider) Release() {
	p.ReleaseBindGroup()
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	for i, buf := range p.vertexBuffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.vertexBuffers, i)
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
	clear(p.textureViews)
	clear(p.samplers)
}
