package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithTextureView stores a borrowed texture view for a binding index.
//
// Parameters:
//   - binding: the binding index for this texture
//   - tv: the texture view to bind
//
// Returns:
//   - BindGroupProviderOption: a function that sets the texture view for the specified binding
func WithTextureView(binding int, tv *wgpu.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textureViews[binding] = tv
	}
}

// WithSampler stores a borrowed sampler for a binding index.
//
// Parameters:
//   - binding: the binding index for this sampler
//   - s: the sampler to bind
//
// Returns:
//   - BindGroupProviderOption: a function that sets the sampler for the specified binding
func WithSampler(binding int, s *wgpu.Sampler) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.samplers[binding] = s
	}
}

// WithInstanceCount sets how many instances each draw of this provider renders.
//
// Parameters:
//   - count: the instance count; values below 1 become 1
//
// Returns:
//   - BindGroupProviderOption: a function that sets the instance count for this provider
func WithInstanceCount(count int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		if count < 1 {
			count = 1
		}
		p.instanceCount = count
	}
}
