package vertex

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

// ErrIncompatibleVertexDefinition is matched by every reconcile failure.
var ErrIncompatibleVertexDefinition = errors.New("incompatible vertex definition")

// MissingAttributeError is returned when no vertex type declares an input
// required by the shader. Name is empty for inputs the shader did not name.
type MissingAttributeError struct {
	Name     string
	Location uint32
}

func (e *MissingAttributeError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("unnamed shader input at location %d cannot be matched to a vertex member", e.Location)
	}
	return fmt.Sprintf("missing vertex attribute %q (location %d)", e.Name, e.Location)
}

func (e *MissingAttributeError) Is(target error) bool {
	return target == ErrIncompatibleVertexDefinition
}

// ShaderInput is what the shader expects for one attribute.
type ShaderInput struct {
	Format    vk.Format
	Locations uint32
}

// MemberDefinition is what the vertex type declares for one attribute.
type MemberDefinition struct {
	Type      metadata.VertexMemberType
	ArraySize uint32
}

// FormatMismatchError is returned when a vertex member exists but cannot
// feed the shader input of the same name.
type FormatMismatchError struct {
	Name       string
	Shader     ShaderInput
	Definition MemberDefinition
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("vertex attribute %q: shader expects %s over %d location(s), definition declares %s[%d]",
		e.Name, metadata.FormatName(e.Shader.Format), e.Shader.Locations, e.Definition.Type, e.Definition.ArraySize)
}

func (e *FormatMismatchError) Is(target error) bool {
	return target == ErrIncompatibleVertexDefinition
}
