package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultDamping matches the feel of a damped orbit control: 5% of the queued motion per frame.
	DefaultDamping = 0.05
	// restEpsilon is the queued rotation below which the controller stops gliding.
	restEpsilon = 1e-6
)

// cameraControllerImpl is the single implementation of CameraController.
// Position is always derived from target plus spherical coordinates.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32 // Horizontal angle around Y axis
	elevation float32 // Vertical angle from horizontal plane

	// Queued rotation not yet applied by Update
	pendingAzimuth   float32
	pendingElevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed       float32
	mouseSensitivity float32
	zoomSpeed        float32
	panSpeed         float32
	damping          float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller. The defaults place the camera
// 20 units down +Z from the origin, looking back at it, with damping on.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:     &sync.Mutex{},
		radius: DefaultDistance,

		minRadius:    2,
		maxRadius:    200,
		minElevation: -float32(math.Pi/2 - 0.05),
		maxElevation: float32(math.Pi/2 - 0.05),

		orbitSpeed:       0.03,
		mouseSensitivity: 0.005,
		zoomSpeed:        1.5,
		panSpeed:         0.5,
		damping:          DefaultDamping,
	}

	for _, option := range options {
		option(cc)
	}

	cc.radius = mgl32.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = mgl32.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
	return cc
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

// localAxes returns the camera's right and up axes, consistent with the view matrix.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (right, up mgl32.Vec3) {
	back := cc.position.Sub(cc.target)
	if back.Len() < 1e-8 {
		return
	}
	back = back.Normalize()
	right = mgl32.Vec3{0, 1, 0}.Cross(back)
	if right.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	right = right.Normalize()
	return right, back.Cross(right)
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = mgl32.Clamp(cc.radius-delta*cc.zoomSpeed, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Orbit(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pendingAzimuth -= dx * cc.mouseSensitivity
	cc.pendingElevation += dy * cc.mouseSensitivity
}

func (cc *cameraControllerImpl) OrbitLeft() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pendingAzimuth -= cc.orbitSpeed
}

func (cc *cameraControllerImpl) OrbitRight() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pendingAzimuth += cc.orbitSpeed
}

func (cc *cameraControllerImpl) OrbitUp() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pendingElevation += cc.orbitSpeed
}

func (cc *cameraControllerImpl) OrbitDown() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pendingElevation -= cc.orbitSpeed
}

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	right, _ := cc.localAxes()
	offset := right.Mul(delta * cc.panSpeed)
	cc.target = cc.target.Add(offset)
	cc.position = cc.position.Add(offset)
}

func (cc *cameraControllerImpl) PanUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	_, up := cc.localAxes()
	offset := up.Mul(delta * cc.panSpeed)
	cc.target = cc.target.Add(offset)
	cc.position = cc.position.Add(offset)
}

func (cc *cameraControllerImpl) Update() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.pendingAzimuth == 0 && cc.pendingElevation == 0 {
		return
	}

	f := cc.damping
	if f == 0 {
		f = 1
	}
	cc.azimuth += cc.pendingAzimuth * f
	cc.elevation = mgl32.Clamp(cc.elevation+cc.pendingElevation*f, cc.minElevation, cc.maxElevation)
	cc.pendingAzimuth *= 1 - f
	cc.pendingElevation *= 1 - f
	if mgl32.Abs(cc.pendingAzimuth) < restEpsilon {
		cc.pendingAzimuth = 0
	}
	if mgl32.Abs(cc.pendingElevation) < restEpsilon {
		cc.pendingElevation = 0
	}
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) Damping() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.damping
}
