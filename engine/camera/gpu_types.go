package camera

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the WGSL declaration matching GPUCameraUniform.
const GPUCameraUniformSource = `struct CameraUniform {
    view_proj: mat4x4<f32>,
    camera_position: vec3<f32>,
};
`

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Size: 80 bytes (WGSL aligned).
type GPUCameraUniform struct {
	ViewProj       mgl32.Mat4 // offset  0: combined view-projection matrix (mat4x4<f32>)
	CameraPosition mgl32.Vec3 // offset 64: world-space camera position (vec3<f32>)
	_pad           float32    // offset 76: padding to 80 bytes
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalInto writes the uniform into buf, which must hold at least Size bytes.
// The renderer reuses one buffer across frames.
//
// Parameters:
//   - buf: destination bytes
func (g *GPUCameraUniform) MarshalInto(buf []byte) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], 0)
}

// Marshal serializes the GPUCameraUniform struct into a new byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalInto(buf)
	return buf
}
