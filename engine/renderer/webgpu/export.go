// Package webgpu renders binding plans as WebGPU pipeline state.
package webgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindplan/engine/core"
	"github.com/spaghettifunk/bindplan/engine/renderer/descriptor"
	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

// VertexLayouts groups the attributes by buffer, one layout per buffer
// binding.
func VertexLayouts(buffers []metadata.BufferBinding, attributes []metadata.AttributeBinding) ([]gputypes.VertexBufferLayout, error) {
	layouts := make([]gputypes.VertexBufferLayout, len(buffers))
	slot := make(map[uint32]int, len(buffers))
	for i, b := range buffers {
		step := gputypes.VertexStepModeVertex
		if b.Rate == metadata.InputRateInstance {
			step = gputypes.VertexStepModeInstance
		}
		layouts[i] = gputypes.VertexBufferLayout{
			ArrayStride: uint64(b.Stride),
			StepMode:    step,
		}
		slot[b.Buffer] = i
	}
	for _, a := range attributes {
		i, ok := slot[a.Buffer]
		if !ok {
			return nil, fmt.Errorf("attribute at location %d reads unbound buffer %d", a.Location, a.Buffer)
		}
		format, ok := metadata.ToVertexFormat(a.Format)
		if !ok {
			return nil, fmt.Errorf("%w: %s at location %d has no WebGPU vertex format",
				core.ErrUnsupportedFormat, metadata.FormatName(a.Format), a.Location)
		}
		layouts[i].Attributes = append(layouts[i].Attributes, gputypes.VertexAttribute{
			Format:         format,
			Offset:         uint64(a.Offset),
			ShaderLocation: a.Location,
		})
	}
	return layouts, nil
}

// BindGroupLayouts renders one bind group layout per descriptor set.
func BindGroupLayouts(layouts []descriptor.SetLayout) ([]gputypes.BindGroupLayoutDescriptor, error) {
	groups := make([]gputypes.BindGroupLayoutDescriptor, len(layouts))
	for i, l := range layouts {
		entries, err := BindGroupLayoutEntries(l)
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		groups[i] = gputypes.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("group %d", i),
			Entries: entries,
		}
	}
	return groups, nil
}

// BindGroupLayoutEntries renders the bindings of one set in increasing
// binding order.
func BindGroupLayoutEntries(layout descriptor.SetLayout) ([]gputypes.BindGroupLayoutEntry, error) {
	indices := layout.BindingIndices()
	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(indices))
	for _, b := range indices {
		entry, err := layoutEntry(b, layout.Bindings[b])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func layoutEntry(binding uint32, desc metadata.DescriptorDesc) (gputypes.BindGroupLayoutEntry, error) {
	entry := gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: shaderStages(desc.Stages),
	}
	if desc.ArrayCount > 1 {
		return entry, fmt.Errorf("%w: binding %d is an array of %d descriptors",
			core.ErrUnsupportedFormat, binding, desc.ArrayCount)
	}

	switch desc.Type {
	case vk.DescriptorTypeUniformBuffer, vk.DescriptorTypeUniformBufferDynamic:
		entry.Buffer = &gputypes.BufferBindingLayout{
			Type:             gputypes.BufferBindingTypeUniform,
			HasDynamicOffset: desc.Type == vk.DescriptorTypeUniformBufferDynamic,
		}
	case vk.DescriptorTypeStorageBuffer, vk.DescriptorTypeStorageBufferDynamic:
		bufferType := gputypes.BufferBindingTypeStorage
		if desc.ReadOnly {
			bufferType = gputypes.BufferBindingTypeReadOnlyStorage
		}
		entry.Buffer = &gputypes.BufferBindingLayout{
			Type:             bufferType,
			HasDynamicOffset: desc.Type == vk.DescriptorTypeStorageBufferDynamic,
		}
	case vk.DescriptorTypeSampler:
		entry.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
	case vk.DescriptorTypeSampledImage:
		entry.Texture = &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
		}
	default:
		return entry, fmt.Errorf("%w: %s at binding %d has no WebGPU equivalent",
			core.ErrUnsupportedFormat, metadata.DescriptorTypeName(desc.Type), binding)
	}
	return entry, nil
}

func shaderStages(stages vk.ShaderStageFlags) gputypes.ShaderStages {
	out := gputypes.ShaderStageNone
	if stages&vk.ShaderStageFlags(vk.ShaderStageVertexBit) != 0 {
		out |= gputypes.ShaderStageVertex
	}
	if stages&vk.ShaderStageFlags(vk.ShaderStageFragmentBit) != 0 {
		out |= gputypes.ShaderStageFragment
	}
	if stages&vk.ShaderStageFlags(vk.ShaderStageComputeBit) != 0 {
		out |= gputypes.ShaderStageCompute
	}
	return out
}
