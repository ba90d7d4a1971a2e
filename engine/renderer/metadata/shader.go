package metadata

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

/**
 * @brief A contiguous, half-open span of shader input locations. Matrices
 * and arrays occupy one location per column/element.
 */
type LocationRange struct {
	Start uint32
	End   uint32
}

// Len returns the number of locations in the range.
func (r LocationRange) Len() uint32 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r LocationRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

/**
 * @brief Represents a single input declared by a shader stage.
 */
type ShaderInterfaceElement struct {
	/** @brief The attribute Name. Empty when the shader did not name it. */
	Name string
	/** @brief The locations occupied by the input. */
	Location LocationRange
	/** @brief The Format of one location. */
	Format vk.Format
}

/**
 * @brief Anything that can list the inputs of a shader stage, in declared order.
 */
type ShaderInterfaceDef interface {
	Elements() []ShaderInterfaceElement
}

/**
 * @brief The ordered inputs of a shader stage.
 */
type ShaderInterface []ShaderInterfaceElement

func (s ShaderInterface) Elements() []ShaderInterfaceElement {
	return s
}
