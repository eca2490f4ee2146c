package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// instanceStructSuffix marks a vertex input struct whose buffer advances once per instance.
const instanceStructSuffix = "Instance"

var (
	// structRegex captures the name and body of a struct declaration.
	structRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// fieldRegex captures an optional attribute run, the field name and its type.
	fieldRegex = regexp.MustCompile(`^((?:@\w+(?:\([^)]*\))?\s*)*)(\w+)\s*:\s*(.+)$`)

	// locationRegex captures the index of an @location attribute.
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// entryRegex captures the stage attribute and name of every entry point.
	entryRegex = regexp.MustCompile(`@(vertex|fragment)\b[^{]*?\bfn\s+(\w+)`)

	// bindingRegex captures group, binding, optional address space, name and type of a resource,
	// e.g. "@group(0) @binding(2) var<uniform> params: BlurParams;" or "... var tex: texture_2d<f32>;".
	bindingRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// wgslField is one member of a declared struct.
type wgslField struct {
	name     string
	typeName string
	// location is the @location index, or -1.
	location int
	builtin  bool
}

// wgslStruct is a struct declaration in source order.
type wgslStruct struct {
	name   string
	fields []wgslField
}

// reflection holds one comment-free WGSL source and everything parsed from it. Every shader
// reflects its source once at construction.
type reflection struct {
	source  string
	order   []string
	structs map[string]wgslStruct
	layouts map[string]typeLayout
}

// reflectSource strips comments from source and parses its struct declarations.
//
// Parameters:
//   - source: expanded WGSL source
//
// Returns:
//   - *reflection: the parsed source
func reflectSource(source string) *reflection {
	r := &reflection{
		source:  stripComments(source),
		structs: make(map[string]wgslStruct),
		layouts: make(map[string]typeLayout),
	}
	for _, m := range structRegex.FindAllStringSubmatch(r.source, -1) {
		st := wgslStruct{name: m[1], fields: parseFields(m[2])}
		r.structs[st.name] = st
		r.order = append(r.order, st.name)
	}
	return r
}

// entryPoint returns the first entry point declared for the stage, or "".
func (r *reflection) entryPoint(stage ShaderType) string {
	want := "vertex"
	if stage == ShaderTypeFragment {
		want = "fragment"
	}
	for _, m := range entryRegex.FindAllStringSubmatch(r.source, -1) {
		if m[1] == want {
			return m[2]
		}
	}
	return ""
}

// vertexLayouts turns every vertex input struct (at least one @location and no @builtin member)
// into a vertex buffer slot. Slots are ordered by each struct's lowest location; a struct named
// "...Instance" steps per instance. Structs with a member no vertex format can feed are skipped.
//
// Returns:
//   - []wgpu.VertexBufferLayout: layouts in slot order
func (r *reflection) vertexLayouts() []wgpu.VertexBufferLayout {
	type slot struct {
		first  int
		layout wgpu.VertexBufferLayout
	}
	var slots []slot
	for _, name := range r.order {
		st := r.structs[name]
		first, ok := st.vertexInput()
		if !ok {
			continue
		}
		layout, ok := st.vertexLayout()
		if !ok {
			continue
		}
		slots = append(slots, slot{first, layout})
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].first < slots[j].first })

	layouts := make([]wgpu.VertexBufferLayout, len(slots))
	for i, s := range slots {
		layouts[i] = s.layout
	}
	return layouts
}

// vertexInput reports whether st feeds a vertex buffer and, if so, its lowest location.
func (st wgslStruct) vertexInput() (int, bool) {
	first := -1
	for _, f := range st.fields {
		if f.builtin {
			return 0, false
		}
		if f.location >= 0 && (first < 0 || f.location < first) {
			first = f.location
		}
	}
	return first, first >= 0
}

// vertexLayout packs the members of a vertex input struct back to back in declaration order.
func (st wgslStruct) vertexLayout() (wgpu.VertexBufferLayout, bool) {
	layout := wgpu.VertexBufferLayout{
		StepMode:   wgpu.VertexStepModeVertex,
		Attributes: make([]wgpu.VertexAttribute, 0, len(st.fields)),
	}
	if strings.HasSuffix(st.name, instanceStructSuffix) {
		layout.StepMode = wgpu.VertexStepModeInstance
	}
	for _, f := range st.fields {
		format, size, ok := vertexFormat(f.typeName)
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		layout.Attributes = append(layout.Attributes, wgpu.VertexAttribute{
			Format:         format,
			Offset:         layout.ArrayStride,
			ShaderLocation: uint32(f.location),
		})
		layout.ArrayStride += size
	}
	return layout, true
}

// bindGroups collects every @group/@binding resource into one layout descriptor per group, entries
// sorted by binding, all visible to the given stage. Buffer entries carry the size of their type as
// MinBindingSize so bind groups can allocate them.
//
// Parameters:
//   - visibility: the stage flag set on every entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding
func (r *reflection) bindGroups(visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	names := make(map[int]map[int]string)

	for _, m := range bindingRegex.FindAllStringSubmatch(r.source, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		space, name, typeName := strings.TrimSpace(m[3]), m[4], strings.TrimSpace(m[5])

		entry := wgpu.BindGroupLayoutEntry{Binding: uint32(binding), Visibility: visibility}
		if space != "" {
			entry.Buffer.Type = bufferBindingType(space)
			if l, ok := r.typeLayout(typeName); ok {
				entry.Buffer.MinBindingSize = l.size
			}
		} else {
			classifyHandle(typeName, &entry)
		}
		entries[group] = append(entries[group], entry)

		if names[group] == nil {
			names[group] = make(map[int]string)
		}
		names[group][binding] = name
	}

	descriptors := make(map[int]wgpu.BindGroupLayoutDescriptor, len(entries))
	for g, es := range entries {
		sort.Slice(es, func(i, j int) bool { return es[i].Binding < es[j].Binding })
		descriptors[g] = wgpu.BindGroupLayoutDescriptor{Entries: es}
	}
	return descriptors, names
}

// bufferBindingType maps a var address space ("uniform", "storage, read") to its binding type.
func bufferBindingType(space string) wgpu.BufferBindingType {
	switch {
	case space == "uniform":
		return wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(space, "storage") && strings.Contains(space, "read_write"):
		return wgpu.BufferBindingTypeStorage
	case strings.HasPrefix(space, "storage"):
		return wgpu.BufferBindingTypeReadOnlyStorage
	}
	return wgpu.BufferBindingTypeUndefined
}

// classifyHandle fills the sampler or texture half of entry for a handle-typed resource.
func classifyHandle(typeName string, entry *wgpu.BindGroupLayoutEntry) {
	base, param, _ := strings.Cut(typeName, "<")
	param = strings.TrimSpace(strings.TrimSuffix(param, ">"))

	switch base {
	case "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case "texture_2d", "texture_multisampled_2d":
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
		entry.Texture.Multisampled = base == "texture_multisampled_2d"
		switch parseScalar(param) {
		case scalarF32:
			entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		case scalarI32:
			entry.Texture.SampleType = wgpu.TextureSampleTypeSint
		case scalarU32:
			entry.Texture.SampleType = wgpu.TextureSampleTypeUint
		}
	case "texture_depth_2d":
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
		entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
	}
}

// parseFields splits a struct body at top-level commas and parses each member.
func parseFields(body string) []wgslField {
	var fields []wgslField
	depth, start := 0, 0
	emit := func(part string) {
		part = strings.TrimSpace(part)
		m := fieldRegex.FindStringSubmatch(part)
		if m == nil {
			return
		}
		f := wgslField{name: m[2], typeName: strings.TrimSpace(m[3]), location: -1}
		if loc := locationRegex.FindStringSubmatch(m[1]); loc != nil {
			f.location, _ = strconv.Atoi(loc[1])
		}
		f.builtin = strings.Contains(m[1], "@builtin")
		fields = append(fields, f)
	}
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '<':
			depth++
		case '>':
			depth = max(depth-1, 0)
		case ',':
			if depth == 0 {
				emit(body[start:i])
				start = i + 1
			}
		}
	}
	emit(body[start:])
	return fields
}

// stripComments removes line comments and nested block comments in a single pass.
// Line structure is kept so later matches see the same statements.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		c := source[i]
		var next byte
		if i+1 < len(source) {
			next = source[i+1]
		}
		switch {
		case c == '/' && next == '*':
			depth++
			i++
		case c == '*' && next == '/' && depth > 0:
			depth--
			i++
		case depth > 0:
			if c == '\n' {
				sb.WriteByte(c)
			}
		case c == '/' && next == '/':
			for i+1 < len(source) && source[i+1] != '\n' {
				i++
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
