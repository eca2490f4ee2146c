package buffer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Instances is a fixed set of per-instance model matrices for one shared base mesh.
type Instances struct {
	transforms []mgl32.Mat4
	dirty      bool
}

// NewInstances allocates n identity transforms.
//
// Parameters:
//   - n: number of instances (must be > 0)
//
// Returns:
//   - *Instances: the instance set, marked dirty
func NewInstances(n int) *Instances {
	if n <= 0 {
		panic(fmt.Sprintf("buffer: instance count must be positive, got %d", n))
	}
	transforms := make([]mgl32.Mat4, n)
	for i := range transforms {
		transforms[i] = mgl32.Ident4()
	}
	return &Instances{transforms: transforms, dirty: true}
}

// Count returns the number of instance slots.
func (in *Instances) Count() int {
	return len(in.transforms)
}

// Transform returns the model matrix of slot i.
func (in *Instances) Transform(i int) mgl32.Mat4 {
	return in.transforms[i]
}

// SetTransform replaces the model matrix of slot i.
func (in *Instances) SetTransform(i int, m mgl32.Mat4) {
	in.transforms[i] = m
}

// Transforms returns the live matrix slice, laid out column-major and ready for upload.
func (in *Instances) Transforms() []mgl32.Mat4 {
	return in.transforms
}

// MarkDirty flags the whole batch as needing upload.
func (in *Instances) MarkDirty() {
	in.dirty = true
}

// Dirty reports whether any transform changed since the last TakeDirty.
func (in *Instances) Dirty() bool {
	return in.dirty
}

// TakeDirty returns the dirty flag and clears it.
func (in *Instances) TakeDirty() bool {
	d := in.dirty
	in.dirty = false
	return d
}
