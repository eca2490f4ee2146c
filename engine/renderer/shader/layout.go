package shader

import (
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// typeLayout is the host-shareable size and alignment of a WGSL type.
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
type typeLayout struct {
	size  uint64
	align uint64
}

// stride is the distance between consecutive array elements of this type.
func (l typeLayout) stride() uint64 {
	return roundUp(l.align, l.size)
}

// roundUp rounds value up to a multiple of align, which must be a power of two.
func roundUp(align, value uint64) uint64 {
	if align == 0 {
		return value
	}
	return (value + align - 1) &^ (align - 1)
}

// scalarType is the component kind of a scalar or vector.
type scalarType int

const (
	scalarUnknown scalarType = iota
	scalarF32
	scalarI32
	scalarU32
	scalarBool
)

// parseScalar maps "f32", "i32", "u32" and "bool" to their kind.
func parseScalar(name string) scalarType {
	switch name {
	case "f32":
		return scalarF32
	case "i32":
		return scalarI32
	case "u32":
		return scalarU32
	case "bool":
		return scalarBool
	}
	return scalarUnknown
}

// parseVector splits a scalar or vector type into its component kind and width.
// Both "vec3<f32>" and the "vec3f" shorthand are accepted; scalars have width 1.
//
// Parameters:
//   - name: the WGSL type name
//
// Returns:
//   - scalarType: the component kind
//   - int: the component count (1 to 4)
//   - bool: false if name is not a scalar or vector type
func parseVector(name string) (scalarType, int, bool) {
	if s := parseScalar(name); s != scalarUnknown {
		return s, 1, true
	}
	if len(name) < 5 || !strings.HasPrefix(name, "vec") {
		return scalarUnknown, 0, false
	}
	n := int(name[3] - '0')
	if n < 2 || n > 4 {
		return scalarUnknown, 0, false
	}

	var s scalarType
	switch rest := name[4:]; {
	case rest == "f":
		s = scalarF32
	case rest == "i":
		s = scalarI32
	case rest == "u":
		s = scalarU32
	case strings.HasPrefix(rest, "<") && strings.HasSuffix(rest, ">"):
		s = parseScalar(strings.TrimSpace(rest[1 : len(rest)-1]))
	}
	if s == scalarUnknown {
		return scalarUnknown, 0, false
	}
	return s, n, true
}

// vectorLayout returns the layout of a scalar or vector: 4 bytes per component, with
// three-component vectors aligned like four.
func vectorLayout(n int) typeLayout {
	switch n {
	case 1:
		return typeLayout{4, 4}
	case 2:
		return typeLayout{8, 8}
	default:
		return typeLayout{uint64(4 * n), 16}
	}
}

// matrixLayout resolves "matCxR<f32>" and "matCxRf": C columns of vecR<f32>.
func matrixLayout(name string) (typeLayout, bool) {
	if len(name) < 7 || !strings.HasPrefix(name, "mat") || name[4] != 'x' {
		return typeLayout{}, false
	}
	cols, rows := int(name[3]-'0'), int(name[5]-'0')
	if cols < 2 || cols > 4 || rows < 2 || rows > 4 {
		return typeLayout{}, false
	}
	if elem := name[6:]; elem != "f" && strings.ReplaceAll(elem, " ", "") != "<f32>" {
		return typeLayout{}, false
	}
	column := vectorLayout(rows)
	return typeLayout{uint64(cols) * column.stride(), column.align}, true
}

// vertexFormats lists the attribute formats for one to four components of each vertex-capable scalar.
var vertexFormats = map[scalarType][4]wgpu.VertexFormat{
	scalarF32: {wgpu.VertexFormatFloat32, wgpu.VertexFormatFloat32x2, wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x4},
	scalarI32: {wgpu.VertexFormatSint32, wgpu.VertexFormatSint32x2, wgpu.VertexFormatSint32x3, wgpu.VertexFormatSint32x4},
	scalarU32: {wgpu.VertexFormatUint32, wgpu.VertexFormatUint32x2, wgpu.VertexFormatUint32x3, wgpu.VertexFormatUint32x4},
}

// vertexFormat maps a scalar or vector type to the vertex attribute format that feeds it.
//
// Parameters:
//   - name: the WGSL type of a vertex input field
//
// Returns:
//   - wgpu.VertexFormat: the attribute format
//   - uint64: the attribute size in bytes
//   - bool: false if the type cannot be a vertex attribute
func vertexFormat(name string) (wgpu.VertexFormat, uint64, bool) {
	s, n, ok := parseVector(name)
	if !ok {
		return 0, 0, false
	}
	formats, ok := vertexFormats[s]
	if !ok {
		return 0, 0, false
	}
	return formats[n-1], uint64(4 * n), true
}

// typeLayout resolves the size and alignment of any type the reflected source can bind in a
// buffer: scalars, vectors, f32 matrices, fixed-size arrays and structs declared in the source.
// Runtime-sized arrays and unknown types do not resolve.
//
// Parameters:
//   - name: the WGSL type name
//
// Returns:
//   - typeLayout: the resolved layout
//   - bool: true if the type resolved
func (r *reflection) typeLayout(name string) (typeLayout, bool) {
	name = strings.TrimSpace(name)
	if _, n, ok := parseVector(name); ok {
		return vectorLayout(n), true
	}
	if l, ok := matrixLayout(name); ok {
		return l, true
	}
	if inner, ok := strings.CutPrefix(name, "array<"); ok && strings.HasSuffix(inner, ">") {
		inner = inner[:len(inner)-1]
		comma := strings.LastIndex(inner, ",")
		if comma < 0 {
			return typeLayout{}, false
		}
		elem := inner[:comma]
		n, err := strconv.ParseUint(strings.TrimSpace(inner[comma+1:]), 10, 64)
		if err != nil {
			return typeLayout{}, false
		}
		el, ok := r.typeLayout(elem)
		if !ok {
			return typeLayout{}, false
		}
		return typeLayout{n * el.stride(), el.align}, true
	}
	return r.structLayout(name)
}

// structLayout lays out a declared struct: each member at the next offset aligned for it,
// the total rounded up to the largest member alignment. Results are memoized; a struct that
// refers back to itself does not resolve.
func (r *reflection) structLayout(name string) (typeLayout, bool) {
	if l, ok := r.layouts[name]; ok {
		return l, l.size > 0
	}
	st, ok := r.structs[name]
	if !ok {
		return typeLayout{}, false
	}
	r.layouts[name] = typeLayout{}

	var offset uint64
	align := uint64(1)
	for _, f := range st.fields {
		if f.builtin {
			continue
		}
		fl, ok := r.typeLayout(f.typeName)
		if !ok {
			return typeLayout{}, false
		}
		offset = roundUp(fl.align, offset) + fl.size
		align = max(align, fl.align)
	}
	l := typeLayout{roundUp(align, offset), align}
	r.layouts[name] = l
	return l, l.size > 0
}
