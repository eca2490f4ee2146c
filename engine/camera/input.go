package camera

import "github.com/Carmen-Shannon/lantern-fish/common"

// HandleKey applies the keyboard bindings shared by every backend: arrows orbit,
// WASD pans and +/- zooms.
//
// Parameters:
//   - cc: the controller to drive
//   - keyCode: a common.Key* code
//
// Returns:
//   - bool: true if the key was bound
func HandleKey(cc CameraController, keyCode uint32) bool {
	switch keyCode {
	case common.KeyLeft:
		cc.OrbitLeft()
	case common.KeyRight:
		cc.OrbitRight()
	case common.KeyUp:
		cc.OrbitUp()
	case common.KeyDown:
		cc.OrbitDown()
	case common.KeyA:
		cc.PanRight(-1)
	case common.KeyD:
		cc.PanRight(1)
	case common.KeyW:
		cc.PanUp(1)
	case common.KeyS:
		cc.PanUp(-1)
	case common.KeyEqual:
		cc.Zoom(1)
	case common.KeyMinus:
		cc.Zoom(-1)
	default:
		return false
	}
	return true
}
