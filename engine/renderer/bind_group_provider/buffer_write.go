package bind_group_provider

// BufferTarget selects which of a provider's buffers a BufferWrite lands in.
type BufferTarget int

const (
	// BufferTargetBinding writes to the buffer bound at a bind group binding index.
	BufferTargetBinding BufferTarget = iota
	// BufferTargetVertex writes to the vertex buffer in a slot.
	BufferTargetVertex
)

// BufferWrite describes a single GPU buffer write operation targeting a binding or vertex slot
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Target   BufferTarget
	Index    int
	Offset   uint64
	Data     []byte
}
