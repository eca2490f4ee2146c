package renderer

// includeFullscreen names the shared full-screen triangle vertex stage.
const includeFullscreen = "fullscreen"

// fullscreenSource draws one oversized triangle covering the viewport from vertex_index alone.
const fullscreenSource = `struct FullscreenOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_fullscreen(@builtin(vertex_index) index: u32) -> FullscreenOutput {
    let corner = vec2<f32>(f32((index << 1u) & 2u), f32(index & 2u));
    var output: FullscreenOutput;
    output.clip_position = vec4<f32>(corner * 2.0 - 1.0, 0.0, 1.0);
    output.uv = vec2<f32>(corner.x, 1.0 - corner.y);
    return output;
}
`

// ribbonShaderSource is the unlit vertex-colour tube. Positions and colours live in separate
// buffers because only positions are rewritten each frame.
const ribbonShaderSource = `//@lantern:include camera

@group(0) @binding(0) var<uniform> camera: CameraUniform;

struct RibbonPosition {
    @location(0) position: vec3<f32>,
};

struct RibbonColor {
    @location(1) color: vec3<f32>,
};

struct RibbonOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) color: vec3<f32>,
};

@vertex
fn vs_ribbon(vtx: RibbonPosition, tint: RibbonColor) -> RibbonOutput {
    var output: RibbonOutput;
    output.clip_position = camera.view_proj * vec4<f32>(vtx.position, 1.0);
    output.color = tint.color;
    return output;
}

@fragment
fn fs_ribbon(frag: RibbonOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(frag.color, 1.0);
}
`

// lanternShaderSource draws the instanced lantern boxes in one flat colour.
const lanternShaderSource = `//@lantern:include camera

@group(0) @binding(0) var<uniform> camera: CameraUniform;

struct LanternParams {
    color: vec4<f32>,
};

@group(1) @binding(0) var<uniform> lantern: LanternParams;

struct LanternVertex {
    @location(0) position: vec3<f32>,
};

struct LanternInstance {
    @location(1) model_0: vec4<f32>,
    @location(2) model_1: vec4<f32>,
    @location(3) model_2: vec4<f32>,
    @location(4) model_3: vec4<f32>,
};

struct LanternOutput {
    @builtin(position) clip_position: vec4<f32>,
};

@vertex
fn vs_lantern(vtx: LanternVertex, inst: LanternInstance) -> LanternOutput {
    let model = mat4x4<f32>(inst.model_0, inst.model_1, inst.model_2, inst.model_3);
    var output: LanternOutput;
    output.clip_position = camera.view_proj * model * vec4<f32>(vtx.position, 1.0);
    return output;
}

@fragment
fn fs_lantern(frag: LanternOutput) -> @location(0) vec4<f32> {
    return lantern.color;
}
`

// brightShaderSource keeps only texels whose luminance passes the threshold.
const brightShaderSource = `//@lantern:include fullscreen

struct BrightParams {
    threshold: f32,
    pad0: f32,
    pad1: f32,
    pad2: f32,
};

@group(0) @binding(0) var source_texture: texture_2d<f32>;
@group(0) @binding(1) var source_sampler: sampler;
@group(0) @binding(2) var<uniform> params: BrightParams;

@fragment
fn fs_bright(frag: FullscreenOutput) -> @location(0) vec4<f32> {
    let color = textureSample(source_texture, source_sampler, frag.uv).rgb;
    let luma = dot(color, vec3<f32>(0.299, 0.587, 0.114));
    let keep = smoothstep(params.threshold, params.threshold + 0.01, luma);
    return vec4<f32>(color * keep, 1.0);
}
`

// blurShaderSource is one direction of a separable 15-tap Gaussian. weights holds the centre
// weight followed by seven side weights, packed into two vec4s.
const blurShaderSource = `//@lantern:include fullscreen

struct BlurParams {
    direction: vec2<f32>,
    texel_size: vec2<f32>,
    weights: array<vec4<f32>, 2>,
};

@group(0) @binding(0) var source_texture: texture_2d<f32>;
@group(0) @binding(1) var source_sampler: sampler;
@group(0) @binding(2) var<uniform> params: BlurParams;

@fragment
fn fs_blur(frag: FullscreenOutput) -> @location(0) vec4<f32> {
    let offset = params.direction * params.texel_size;
    var sum = textureSample(source_texture, source_sampler, frag.uv).rgb * params.weights[0].x;
    for (var i = 1; i < 8; i++) {
        let w = params.weights[i / 4][i % 4];
        let d = offset * f32(i);
        sum += textureSample(source_texture, source_sampler, frag.uv + d).rgb * w;
        sum += textureSample(source_texture, source_sampler, frag.uv - d).rgb * w;
    }
    return vec4<f32>(sum, 1.0);
}
`

// compositeShaderSource adds the blurred glow onto the scene and writes the surface.
// encode_srgb is set when the surface format does not encode on store.
const compositeShaderSource = `//@lantern:include fullscreen

struct CompositeParams {
    strength: f32,
    encode_srgb: f32,
    pad0: f32,
    pad1: f32,
};

@group(0) @binding(0) var scene_texture: texture_2d<f32>;
@group(0) @binding(1) var bloom_texture: texture_2d<f32>;
@group(0) @binding(2) var linear_sampler: sampler;
@group(0) @binding(3) var<uniform> params: CompositeParams;

fn linear_to_srgb(c: vec3<f32>) -> vec3<f32> {
    let lo = c * 12.92;
    let hi = 1.055 * pow(c, vec3<f32>(1.0 / 2.4)) - 0.055;
    return select(hi, lo, c <= vec3<f32>(0.0031308));
}

@fragment
fn fs_composite(frag: FullscreenOutput) -> @location(0) vec4<f32> {
    let scene = textureSample(scene_texture, linear_sampler, frag.uv).rgb;
    let glow = textureSample(bloom_texture, linear_sampler, frag.uv).rgb;
    var color = clamp(scene + params.strength * glow, vec3<f32>(0.0), vec3<f32>(1.0));
    if (params.encode_srgb > 0.5) {
        color = linear_to_srgb(color);
    }
    return vec4<f32>(color, 1.0);
}
`
