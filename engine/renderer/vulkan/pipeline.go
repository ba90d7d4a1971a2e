package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindplan/engine/core"
	"github.com/spaghettifunk/bindplan/engine/renderer/descriptor"
	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

/**
 * @brief The vertex input and descriptor layout state of a graphics
 * pipeline, ready to be handed over to the pipeline creation code.
 */
type VulkanPipelineConfig struct {
	/** @brief One binding per vertex buffer. */
	Bindings []vk.VertexInputBindingDescription
	/** @brief An array of attributes. */
	Attributes []vk.VertexInputAttributeDescription
	/** @brief One descriptor set configuration per set index. */
	DescriptorSets []*VulkanDescriptorSetConfig
}

func NewPipelineConfig(buffers []metadata.BufferBinding, attributes []metadata.AttributeBinding, layouts []descriptor.SetLayout) (*VulkanPipelineConfig, error) {
	if len(buffers) > int(VULKAN_MAX_VERTEX_BINDINGS) {
		return nil, fmt.Errorf("func NewPipelineConfig: cannot have more than %d vertex bindings. Passed count: %d", VULKAN_MAX_VERTEX_BINDINGS, len(buffers))
	}
	if len(attributes) > int(VULKAN_MAX_VERTEX_ATTRIBUTES) {
		return nil, fmt.Errorf("func NewPipelineConfig: cannot have more than %d vertex attributes. Passed count: %d", VULKAN_MAX_VERTEX_ATTRIBUTES, len(attributes))
	}

	config := &VulkanPipelineConfig{
		Bindings:       make([]vk.VertexInputBindingDescription, len(buffers)),
		Attributes:     make([]vk.VertexInputAttributeDescription, len(attributes)),
		DescriptorSets: make([]*VulkanDescriptorSetConfig, len(layouts)),
	}

	// Vertex input
	for i, b := range buffers {
		config.Bindings[i] = vk.VertexInputBindingDescription{
			Binding:   b.Buffer,
			Stride:    b.Stride,
			InputRate: vk.VertexInputRate(b.Rate),
		}
	}

	// Attributes
	for i, a := range attributes {
		if int(a.Buffer) >= len(buffers) {
			return nil, fmt.Errorf("func NewPipelineConfig: attribute at location %d reads buffer %d, only %d bound", a.Location, a.Buffer, len(buffers))
		}
		config.Attributes[i] = vk.VertexInputAttributeDescription{
			Location: a.Location,
			Binding:  a.Buffer,
			Format:   a.Format,
			Offset:   a.Offset,
		}
	}

	// Descriptor sets
	for i, l := range layouts {
		set, err := NewDescriptorSetConfig(l)
		if err != nil {
			return nil, fmt.Errorf("func NewPipelineConfig: set %d: %w", i, err)
		}
		config.DescriptorSets[i] = set
	}

	core.LogDebug("Pipeline config created: %d bindings, %d attributes, %d sets", len(config.Bindings), len(config.Attributes), len(config.DescriptorSets))
	return config, nil
}

// VertexInputState describes the vertex input stage of the pipeline.
func (c *VulkanPipelineConfig) VertexInputState() vk.PipelineVertexInputStateCreateInfo {
	return vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(c.Bindings)),
		PVertexBindingDescriptions:      c.Bindings,
		VertexAttributeDescriptionCount: uint32(len(c.Attributes)),
		PVertexAttributeDescriptions:    c.Attributes,
	}
}
