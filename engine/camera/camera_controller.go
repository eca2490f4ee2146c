package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController orbits a camera around a target point on a sphere.
// Input methods queue angular motion; Update applies the queued motion with damping,
// so a drag keeps gliding for a few frames after the input stops.
type CameraController interface {
	// Position returns the camera position in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the point the camera orbits and looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the look-at target
	Target() mgl32.Vec3

	// SetTarget moves the orbit centre; the camera keeps its spherical offset.
	//
	// Parameters:
	//   - target: the new look-at target
	SetTarget(target mgl32.Vec3)

	// Zoom moves the camera toward (positive) or away from (negative) the target,
	// clamped to the radius limits.
	//
	// Parameters:
	//   - delta: scroll amount
	Zoom(delta float32)

	// Orbit queues a drag rotation.
	//
	// Parameters:
	//   - dx: horizontal drag in pixels
	//   - dy: vertical drag in pixels
	Orbit(dx, dy float32)

	// OrbitLeft queues one keyboard step of azimuth to the left.
	OrbitLeft()

	// OrbitRight queues one keyboard step of azimuth to the right.
	OrbitRight()

	// OrbitUp queues one keyboard step of elevation upwards.
	OrbitUp()

	// OrbitDown queues one keyboard step of elevation downwards.
	OrbitDown()

	// PanRight translates camera and target along the camera's right axis.
	//
	// Parameters:
	//   - delta: pan amount; negative pans left
	PanRight(delta float32)

	// PanUp translates camera and target along the camera's up axis.
	//
	// Parameters:
	//   - delta: pan amount; negative pans down
	PanUp(delta float32)

	// Update applies the queued rotation and decays what remains of it. Call once per frame.
	Update()

	// Radius returns the distance from target to camera.
	Radius() float32

	// Azimuth returns the horizontal angle around the Y axis in radians.
	Azimuth() float32

	// Elevation returns the vertical angle above the horizontal plane in radians.
	Elevation() float32

	// Damping returns the fraction of queued rotation applied per Update.
	// Zero disables damping: queued rotation is applied in full immediately.
	Damping() float32
}
