package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader entry point belongs to.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation and resource binding.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a pre-processed and reflected WGSL shader stage. It exposes
// the shader's key, source, entry point, bind group layout descriptors and vertex buffer layouts
// needed for pipeline creation and resource wiring.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for labels and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the expanded WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a group index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor for the group, or an empty descriptor if not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all reflected bind group layout descriptors keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name for a given group and binding index.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// BindGroupFromVarName retrieves the binding index for a given group and variable name.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the variable name within the group
	//
	// Returns:
	//   - int: the binding index, or -1 if not found
	//   - bool: true if the variable name was found
	BindGroupFromVarName(group int, varName string) (int, bool)

	// VertexLayouts retrieves the vertex buffer layouts in slot order. Only vertex shaders have layouts.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: one layout per vertex buffer slot
	VertexLayouts() []wgpu.VertexBufferLayout

	// EntryPoint returns the entry point name for this shader stage.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// Module returns the shader module descriptor built from the source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType
}

var _ Shader = &shader{}

// NewShader pre-processes and reflects WGSL source for one pipeline stage. A single source may
// hold both stages; create one Shader per stage from it.
//
// Parameters:
//   - key: a unique identifier for the shader, used for labels and lookups
//   - shaderType: the stage whose entry point and layouts should be reflected
//   - source: the WGSL source, which may contain include directives
//
// Returns:
//   - Shader: a new Shader instance
func NewShader(key string, shaderType ShaderType, source string) Shader {
	return NewShaderWithPreProcessor(key, shaderType, source, NewPreProcessor())
}

// NewShaderWithPreProcessor is NewShader with a caller-supplied include registry.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage to reflect
//   - source: the WGSL source
//   - pp: the pre-processor used to expand includes
//
// Returns:
//   - Shader: a new Shader instance
func NewShaderWithPreProcessor(key string, shaderType ShaderType, source string, pp PreProcessor) Shader {
	if source == "" {
		panic(fmt.Sprintf("shader: %s must have a non-empty source", key))
	}
	expanded, err := pp.Process(source)
	if err != nil {
		panic(fmt.Sprintf("shader: failed to pre-process %s: %v", key, err))
	}
	s := &shader{
		key:        key,
		shaderType: shaderType,
	}
	s.parseSource(expanded)
	if s.entryPoint == "" {
		panic(fmt.Sprintf("shader: %s has no entry point for its stage", key))
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	if s.bindingVarNames[group] == nil {
		return -1, false
	}
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

// parseSource stores the expanded source, builds the module descriptor and reflects the
// entry point, vertex layouts (vertex stage only) and bind group layouts.
func (s *shader) parseSource(source string) {
	s.source = source
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	r := reflectSource(source)
	s.entryPoint = r.entryPoint(s.shaderType)
	var visibility wgpu.ShaderStage
	switch s.shaderType {
	case ShaderTypeVertex:
		s.vertexLayouts = r.vertexLayouts()
		visibility = wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		visibility = wgpu.ShaderStageFragment
	default:
		visibility = wgpu.ShaderStageNone
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = r.bindGroups(visibility)
}
