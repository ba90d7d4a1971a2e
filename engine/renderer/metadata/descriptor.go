package metadata

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

/**
 * @brief Describes one shader-visible binding slot of a descriptor set.
 */
type DescriptorDesc struct {
	/** @brief The kind of resource bound to the slot. */
	Type vk.DescriptorType
	/** @brief The number of array elements, 1 for non-arrays. */
	ArrayCount uint32
	/** @brief The shader stages that can access the slot. */
	Stages vk.ShaderStageFlags
	/** @brief True if the shaders only read from the resource. */
	ReadOnly bool
}

// IsSupersetOf reports whether a slot described by d can be used where other
// is expected.
func (d DescriptorDesc) IsSupersetOf(other DescriptorDesc) bool {
	if d.Type != other.Type {
		return false
	}
	if d.ArrayCount < other.ArrayCount {
		return false
	}
	if d.Stages&other.Stages != other.Stages {
		return false
	}
	if d.ReadOnly && !other.ReadOnly {
		return false
	}
	return true
}

// LayoutBinding renders the descriptor as a vulkan layout binding at the given index.
func (d DescriptorDesc) LayoutBinding(binding uint32) vk.DescriptorSetLayoutBinding {
	return vk.DescriptorSetLayoutBinding{
		Binding:         binding,
		DescriptorType:  d.Type,
		DescriptorCount: d.ArrayCount,
		StageFlags:      d.Stages,
	}
}

func (d DescriptorDesc) String() string {
	return fmt.Sprintf("%s[%d] stages=%#x readonly=%t", DescriptorTypeName(d.Type), d.ArrayCount, uint32(d.Stages), d.ReadOnly)
}

func DescriptorTypeName(t vk.DescriptorType) string {
	switch t {
	case vk.DescriptorTypeSampler:
		return "sampler"
	case vk.DescriptorTypeCombinedImageSampler:
		return "combined_image_sampler"
	case vk.DescriptorTypeSampledImage:
		return "sampled_image"
	case vk.DescriptorTypeStorageImage:
		return "storage_image"
	case vk.DescriptorTypeUniformTexelBuffer:
		return "uniform_texel_buffer"
	case vk.DescriptorTypeStorageTexelBuffer:
		return "storage_texel_buffer"
	case vk.DescriptorTypeUniformBuffer:
		return "uniform_buffer"
	case vk.DescriptorTypeStorageBuffer:
		return "storage_buffer"
	case vk.DescriptorTypeUniformBufferDynamic:
		return "uniform_buffer_dynamic"
	case vk.DescriptorTypeStorageBufferDynamic:
		return "storage_buffer_dynamic"
	case vk.DescriptorTypeInputAttachment:
		return "input_attachment"
	}
	return fmt.Sprintf("DescriptorType(%d)", int(t))
}
