package metadata

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

/** @brief Whether a vertex buffer advances per vertex or per instance. */
type InputRate vk.VertexInputRate

const (
	InputRateVertex   = InputRate(vk.VertexInputRateVertex)
	InputRateInstance = InputRate(vk.VertexInputRateInstance)
)

func (r InputRate) String() string {
	switch r {
	case InputRateVertex:
		return "vertex"
	case InputRateInstance:
		return "instance"
	}
	return fmt.Sprintf("InputRate(%d)", int(r))
}

/**
 * @brief One vertex buffer slot of a binding plan.
 */
type BufferBinding struct {
	/** @brief The index of the buffer in the group. */
	Buffer uint32
	/** @brief The Stride in bytes between two records. */
	Stride uint32
	/** @brief How the buffer advances. */
	Rate InputRate
}

/**
 * @brief One shader input location of a binding plan.
 */
type AttributeBinding struct {
	/** @brief The shader Location fed by this attribute. */
	Location uint32
	/** @brief The index of the source buffer in the group. */
	Buffer uint32
	/** @brief The byte Offset of the data within one record. */
	Offset uint32
	/** @brief The Format of the data. */
	Format vk.Format
}

func (a AttributeBinding) String() string {
	return fmt.Sprintf("location=%d buffer=%d offset=%d format=%s", a.Location, a.Buffer, a.Offset, FormatName(a.Format))
}
