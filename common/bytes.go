package common

import "unsafe"

// SliceToBytes returns a byte view of a slice for GPU buffer uploads. Vertex positions,
// colours and instance matrices are passed through here without copying.
// The returned slice shares memory with data; do not modify it.
//
// Parameters:
//   - data: source slice of any fixed-size element type
//
// Returns:
//   - []byte: byte view of the input, or nil if data is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}

// StructToBytes returns a byte view of a uniform block.
//
// Parameters:
//   - v: pointer to the struct
//
// Returns:
//   - []byte: byte view of the struct's memory, unsafe.Sizeof(*v) long
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}
