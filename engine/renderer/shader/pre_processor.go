// pre_processor.go implements the WGSL include pre-processor. It scans shader source for
// single-line include directives and splices in the registered WGSL snippet, so shared
// declarations such as the camera uniform live in one place.
//
// Syntax:
//
//	//@lantern:include <name>
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/lantern-fish/engine/camera"
)

// includePrefix is the marker that identifies an include directive within a WGSL comment line.
const includePrefix = "//@lantern:include"

const (
	// IncludeCamera injects the CameraUniform struct declaration.
	IncludeCamera = "camera"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// registry maps include names to the WGSL source spliced in their place.
	registry map[string]string
}

// PreProcessor expands include directives in WGSL source.
type PreProcessor interface {
	// Register adds or replaces a named WGSL snippet.
	//
	// Parameters:
	//   - name: the include name used in the directive
	//   - source: the WGSL text to splice in
	Register(name, source string)

	// Process replaces every include directive in source with its registered snippet.
	// Lines that are not directives pass through unchanged.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error if a directive is malformed or names an unknown snippet
	Process(source string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU type declarations pre-registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		registry: map[string]string{
			IncludeCamera: camera.GPUCameraUniformSource,
		},
	}
}

func (p *preProcessor) Register(name, source string) {
	p.registry[name] = source
}

func (p *preProcessor) Process(source string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), includePrefix)
		if !ok {
			out = append(out, line)
			continue
		}
		args := strings.Fields(rest)
		if len(args) != 1 {
			return "", fmt.Errorf("line %d: include takes exactly one name, got %d", i+1, len(args))
		}
		snippet, ok := p.registry[args[0]]
		if !ok {
			return "", fmt.Errorf("line %d: unknown include %q", i+1, args[0])
		}
		out = append(out, snippet)
	}
	return strings.Join(out, "\n"), nil
}
