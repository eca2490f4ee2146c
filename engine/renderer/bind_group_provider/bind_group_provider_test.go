package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewBindGroupProvider(t *testing.T) {
	tv := &wgpu.TextureView{}
	samp := &wgpu.Sampler{}
	p := NewBindGroupProvider("Bloom", WithTextureView(0, tv), WithSampler(1, samp), WithInstanceCount(400))

	if p.Label() != "Bloom" {
		t.Errorf("Expected label Bloom, got %q", p.Label())
	}
	if p.TextureView(0) != tv || p.TextureView(1) != nil {
		t.Errorf("Expected texture view only at binding 0")
	}
	if p.Sampler(1) != samp || p.Sampler(0) != nil {
		t.Errorf("Expected sampler only at binding 1")
	}
	if p.InstanceCount() != 400 {
		t.Errorf("Expected 400 instances, got %d", p.InstanceCount())
	}
	if p.BindGroup() != nil || p.IndexBuffer() != nil || p.IndexCount() != 0 {
		t.Errorf("Expected no GPU objects on a new provider")
	}
}

func TestInstanceCountClamp(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"Default", 1, 1},
		{"Zero", 0, 1},
		{"Negative", -5, 1},
		{"Many", 1000, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewBindGroupProvider("Clamp", WithInstanceCount(tt.in))
			if p.InstanceCount() != tt.want {
				t.Errorf("Expected option to give %d, got %d", tt.want, p.InstanceCount())
			}
			p.SetInstanceCount(tt.in)
			if p.InstanceCount() != tt.want {
				t.Errorf("Expected setter to give %d, got %d", tt.want, p.InstanceCount())
			}
		})
	}
}

func TestVertexBufferSlots(t *testing.T) {
	p := NewBindGroupProvider("Mesh")
	if p.VertexBufferCount() != 0 {
		t.Fatalf("Expected no vertex buffers, got %d", p.VertexBufferCount())
	}

	a, b, c := &wgpu.Buffer{}, &wgpu.Buffer{}, &wgpu.Buffer{}
	p.SetVertexBuffer(0, a)
	p.SetVertexBuffer(1, b)
	p.SetVertexBuffer(3, c)

	if p.VertexBufferCount() != 2 {
		t.Errorf("Expected contiguous count 2 with a gap at slot 2, got %d", p.VertexBufferCount())
	}
	if p.VertexBuffer(1) != b || p.VertexBuffer(3) != c || p.VertexBuffer(2) != nil {
		t.Errorf("Expected buffers stored by slot")
	}

	idx := &wgpu.Buffer{}
	p.SetIndexBuffer(idx, 36)
	if p.IndexBuffer() != idx || p.IndexCount() != 36 {
		t.Errorf("Expected index buffer with 36 indices, got %d", p.IndexCount())
	}

	uniform := &wgpu.Buffer{}
	p.SetBuffer(2, uniform)
	if p.Buffer(2) != uniform || p.Buffer(0) != nil {
		t.Errorf("Expected uniform buffer only at binding 2")
	}
}

func TestReleaseForgetsBorrowedResources(t *testing.T) {
	p := NewBindGroupProvider("Borrowed", WithTextureView(0, &wgpu.TextureView{}), WithSampler(1, &wgpu.Sampler{}))
	p.Release()

	if p.TextureView(0) != nil || p.Sampler(1) != nil {
		t.Errorf("Expected borrowed views and samplers to be forgotten")
	}
	if p.VertexBufferCount() != 0 || p.IndexCount() != 0 {
		t.Errorf("Expected mesh state cleared")
	}
}
