package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithTarget sets the orbit centre.
//
// Parameters:
//   - target: the look-at point
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithTarget(target mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithRadius sets the initial distance from the target.
//
// Parameters:
//   - radius: distance in world units
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithRadiusLimits bounds how far Zoom can move the camera.
//
// Parameters:
//   - minRadius: closest allowed distance
//   - maxRadius: farthest allowed distance
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithRadiusLimits(minRadius, maxRadius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = minRadius
		cc.maxRadius = maxRadius
	}
}

// WithAngles sets the initial azimuth and elevation in radians.
//
// Parameters:
//   - azimuth: horizontal angle around Y
//   - elevation: angle above the horizontal plane
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithAngles(azimuth, elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
		cc.elevation = elevation
	}
}

// WithElevationLimits bounds the vertical angle in radians.
//
// Parameters:
//   - minElevation: lowest allowed elevation
//   - maxElevation: highest allowed elevation
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithElevationLimits(minElevation, maxElevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation = minElevation
		cc.maxElevation = maxElevation
	}
}

// WithOrbitSpeed sets the keyboard orbit step in radians.
//
// Parameters:
//   - speed: radians per key press
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithOrbitSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbitSpeed = speed
	}
}

// WithMouseSensitivity sets the drag rotation in radians per pixel.
//
// Parameters:
//   - sensitivity: radians per pixel
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets the world units moved per unit of scroll.
//
// Parameters:
//   - speed: units per scroll step
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithPanSpeed sets the pan multiplier.
//
// Parameters:
//   - speed: units per pan step
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}

// WithDamping sets the fraction of queued rotation applied per frame, in [0, 1].
// Zero turns damping off.
//
// Parameters:
//   - factor: damping factor
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithDamping(factor float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.damping = mgl32.Clamp(factor, 0, 1)
	}
}
