package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultFovDegrees is the vertical field of view.
	DefaultFovDegrees = 75
	// DefaultNear is the near clipping plane distance.
	DefaultNear = 0.1
	// DefaultFar is the far clipping plane distance.
	DefaultFar = 1000
	// DefaultDistance is how far the orbit controller starts from its target.
	DefaultDistance = 20
)

// clipRemap maps OpenGL clip depth [-w, w] to the [0, w] range WebGPU expects.
var clipRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

type cameraImpl struct {
	mu *sync.Mutex

	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and computes view/projection matrices
// from its CameraController each frame via Update().
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// SetAspect sets the aspect ratio and recomputes matrices. Non-positive or non-finite values are ignored.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// Resize sets the aspect ratio from viewport dimensions.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	Resize(width, height int)

	// Controller returns the orbit controller driving the camera.
	//
	// Returns:
	//   - CameraController: the attached controller
	Controller() CameraController

	// Update advances the controller one frame and recomputes matrices.
	Update()

	// Position returns the eye position.
	Position() mgl32.Vec3

	// ViewMatrix returns the current view matrix.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix, with depth in [0, 1].
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	ViewProjectionMatrix() mgl32.Mat4

	// Project maps a world point to normalized device coordinates: x and y in [-1, 1], z in [0, 1].
	//
	// Parameters:
	//   - p: world-space point
	//
	// Returns:
	//   - mgl32.Vec3: the NDC position
	//   - bool: false when the point is behind the camera or outside the view volume
	Project(p mgl32.Vec3) (mgl32.Vec3, bool)

	// Uniform returns the GPU uniform block for the current matrices.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform data
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera: 75 degree field of view, clip planes 0.1 and 1000, and a
// default orbit controller unless WithController supplies one.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		up:     mgl32.Vec3{0, 1, 0},
		fov:    mgl32.DegToRad(DefaultFovDegrees),
		aspect: 1.0,
		near:   DefaultNear,
		far:    DefaultFar,
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if !(aspect > 0) || math.IsInf(float64(aspect), 0) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.SetAspect(float32(width) / float32(height))
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller.Update()
	c.updateMatrices()
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	return c.Controller().Position()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Project(p mgl32.Vec3) (mgl32.Vec3, bool) {
	c.mu.Lock()
	clip := c.viewProjectionMatrix.Mul4x1(p.Vec4(1))
	c.mu.Unlock()

	w := clip.W()
	if w <= 0 {
		return mgl32.Vec3{}, false
	}
	ndc := clip.Vec3().Mul(1 / w)
	inside := ndc.X() >= -1 && ndc.X() <= 1 &&
		ndc.Y() >= -1 && ndc.Y() <= 1 &&
		ndc.Z() >= 0 && ndc.Z() <= 1
	return ndc, inside
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       c.viewProjectionMatrix,
		CameraPosition: c.controller.Position(),
	}
}

// updateMatrices recalculates the view, projection and view-projection matrices from the controller.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = mgl32.LookAtV(c.controller.Position(), c.controller.Target(), c.up)
	c.projectionMatrix = clipRemap.Mul4(mgl32.Perspective(c.fov, c.aspect, c.near, c.far))
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
