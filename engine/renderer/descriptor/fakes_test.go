package descriptor

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

type fakeBuffer struct {
	name string
	size uint64
}

func (b *fakeBuffer) Handle() vk.Buffer { return vk.NullBuffer }
func (b *fakeBuffer) Size() uint64      { return b.size }

type fakeImage struct {
	name string
}

func (i *fakeImage) Handle() vk.Image { return vk.NullImage }

type fakeSet struct {
	name    string
	descs   []*metadata.DescriptorDesc
	buffers []metadata.BufferAccess
	images  []metadata.ImageAccess
}

func (s *fakeSet) Handle() vk.DescriptorSet {
	var h vk.DescriptorSet
	return h
}

func (s *fakeSet) NumBindings() int { return len(s.descs) }

func (s *fakeSet) Descriptor(binding int) (metadata.DescriptorDesc, bool) {
	if binding < 0 || binding >= len(s.descs) || s.descs[binding] == nil {
		return metadata.DescriptorDesc{}, false
	}
	return *s.descs[binding], true
}

func (s *fakeSet) Buffers() []metadata.BufferAccess { return s.buffers }
func (s *fakeSet) Images() []metadata.ImageAccess   { return s.images }

var uniformDesc = metadata.DescriptorDesc{
	Type:       vk.DescriptorTypeUniformBuffer,
	ArrayCount: 1,
	Stages:     vk.ShaderStageFlags(vk.ShaderStageVertexBit) | vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
}

var samplerDesc = metadata.DescriptorDesc{
	Type:       vk.DescriptorTypeCombinedImageSampler,
	ArrayCount: 1,
	Stages:     vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
	ReadOnly:   true,
}

// newSet builds a set with i+1 uniform bindings, i buffers and i%3 images so
// every set of a group is distinguishable.
func newSet(i int) *fakeSet {
	s := &fakeSet{name: fmt.Sprintf("set%d", i)}
	for b := 0; b <= i; b++ {
		d := uniformDesc
		s.descs = append(s.descs, &d)
	}
	for b := 0; b < i; b++ {
		s.buffers = append(s.buffers, &fakeBuffer{name: fmt.Sprintf("set%d/buf%d", i, b), size: 64})
	}
	for img := 0; img < i%3; img++ {
		s.images = append(s.images, &fakeImage{name: fmt.Sprintf("set%d/img%d", i, img)})
	}
	return s
}
