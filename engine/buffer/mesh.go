// Package buffer holds the CPU-side geometry shared by the GPU and terminal backends.
// Both types carry a dirty flag: the frame loop marks them after writing, and the
// presenter clears it when it uploads or redraws.
package buffer

import (
	"fmt"

	"github.com/Carmen-Shannon/lantern-fish/engine/gradient"
	"github.com/Carmen-Shannon/lantern-fish/engine/tube"
	"github.com/lucasb-eyer/go-colorful"
)

// Mesh is an indexed triangle mesh with a mutable position buffer.
// Colours and indices are fixed after construction.
type Mesh struct {
	positions []float32
	colors    []float32
	indices   []uint32
	dirty     bool
}

// NewMesh wraps the given buffers. The mesh takes ownership of them.
//
// Parameters:
//   - positions: flat xyz triples
//   - colors: flat rgb triples, one per vertex
//   - indices: triangle list indices into the vertex arrays
//
// Returns:
//   - *Mesh: the mesh, marked dirty so the first present uploads everything
func NewMesh(positions, colors []float32, indices []uint32) *Mesh {
	if len(positions)%3 != 0 {
		panic(fmt.Sprintf("buffer: position buffer length %d is not a multiple of 3", len(positions)))
	}
	if len(colors) != len(positions) {
		panic(fmt.Sprintf("buffer: %d colour floats for %d position floats", len(colors), len(positions)))
	}
	n := uint32(len(positions) / 3)
	for _, i := range indices {
		if i >= n {
			panic(fmt.Sprintf("buffer: index %d out of range for %d vertices", i, n))
		}
	}
	return &Mesh{
		positions: positions,
		colors:    colors,
		indices:   indices,
		dirty:     true,
	}
}

// NewRibbonMesh allocates the tube mesh for gen: a zeroed position buffer of gen.BufferLength()
// floats, the head-to-tail vertex gradient, and the generator's index buffer.
//
// Parameters:
//   - gen: the tube generator whose topology the mesh adopts
//   - head: colour of vertex 0
//   - tail: colour approached by the last vertex
//
// Returns:
//   - *Mesh: the ribbon mesh
func NewRibbonMesh(gen *tube.Generator, head, tail colorful.Color) *Mesh {
	return NewMesh(
		make([]float32, gen.BufferLength()),
		gradient.ComputeColors(gen.VertexCount(), head, tail),
		gen.Indices(),
	)
}

// Positions returns the live position buffer. Writers call MarkDirty afterwards.
func (m *Mesh) Positions() []float32 {
	return m.positions
}

// Colors returns the per-vertex colour buffer.
func (m *Mesh) Colors() []float32 {
	return m.colors
}

// Indices returns the triangle list.
func (m *Mesh) Indices() []uint32 {
	return m.indices
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.positions) / 3
}

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) (x, y, z float32) {
	o := 3 * i
	return m.positions[o], m.positions[o+1], m.positions[o+2]
}

// MarkDirty flags the positions as needing upload.
func (m *Mesh) MarkDirty() {
	m.dirty = true
}

// Dirty reports whether the positions changed since the last TakeDirty.
func (m *Mesh) Dirty() bool {
	return m.dirty
}

// TakeDirty returns the dirty flag and clears it.
//
// Returns:
//   - bool: true if the positions changed since the previous call
func (m *Mesh) TakeDirty() bool {
	d := m.dirty
	m.dirty = false
	return d
}
