package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindplan/engine/renderer/descriptor"
)

/**
 * @brief The configuration for a descriptor set.
 */
type VulkanDescriptorSetConfig struct {
	/** @brief The number of bindings in this set. */
	BindingCount uint8
	/** @brief An array of binding layouts for this set. */
	Bindings [VULKAN_SHADER_MAX_BINDINGS]vk.DescriptorSetLayoutBinding
	/** @brief The index of the sampler binding, VULKAN_INVALID_BINDING if there is none. */
	SamplerBindingIndex uint8
}

// NewDescriptorSetConfig renders a pipeline set layout. Bindings are packed
// in increasing binding order and keep their binding number.
func NewDescriptorSetConfig(layout descriptor.SetLayout) (*VulkanDescriptorSetConfig, error) {
	config := &VulkanDescriptorSetConfig{SamplerBindingIndex: VULKAN_INVALID_BINDING}
	indices := layout.BindingIndices()
	if len(indices) > int(VULKAN_SHADER_MAX_BINDINGS) {
		return nil, fmt.Errorf("descriptor set has %d bindings, max is %d", len(indices), VULKAN_SHADER_MAX_BINDINGS)
	}
	for i, b := range indices {
		if b >= VULKAN_SHADER_MAX_BINDINGS {
			return nil, fmt.Errorf("binding %d is out of range, max is %d", b, VULKAN_SHADER_MAX_BINDINGS-1)
		}
		desc := layout.Bindings[b]
		config.Bindings[i] = desc.LayoutBinding(b)
		if config.SamplerBindingIndex == VULKAN_INVALID_BINDING && isSampler(desc.Type) {
			config.SamplerBindingIndex = uint8(i)
		}
	}
	config.BindingCount = uint8(len(indices))
	return config, nil
}

func isSampler(t vk.DescriptorType) bool {
	return t == vk.DescriptorTypeSampler || t == vk.DescriptorTypeCombinedImageSampler
}

// LayoutBindings returns the used part of the bindings array.
func (c *VulkanDescriptorSetConfig) LayoutBindings() []vk.DescriptorSetLayoutBinding {
	return c.Bindings[:c.BindingCount]
}

// CreateInfo describes the set layout for vkCreateDescriptorSetLayout.
func (c *VulkanDescriptorSetConfig) CreateInfo() vk.DescriptorSetLayoutCreateInfo {
	return vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(c.BindingCount),
		PBindings:    c.LayoutBindings(),
	}
}
