package descriptor

import (
	"slices"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

// ResourceList is an immutable snapshot of the buffers and images referenced
// by a collection. It can be shared between goroutines that only read it,
// e.g. hazard tracking across parallel submissions.
type ResourceList struct {
	buffers []metadata.BufferAccess
	images  []metadata.ImageAccess
}

// Resources snapshots the resources referenced by c, in set order. Resources
// referenced by several sets appear once per set.
func Resources(c Collection) *ResourceList {
	return &ResourceList{
		buffers: slices.Collect(c.Buffers()),
		images:  slices.Collect(c.Images()),
	}
}

// Buffers returns a copy of the referenced buffers, in set order.
func (r *ResourceList) Buffers() []metadata.BufferAccess {
	return slices.Clone(r.buffers)
}

// Images returns a copy of the referenced images, in set order.
func (r *ResourceList) Images() []metadata.ImageAccess {
	return slices.Clone(r.images)
}

// BufferHandles returns the internal handles of the referenced buffers.
func (r *ResourceList) BufferHandles() []vk.Buffer {
	handles := make([]vk.Buffer, len(r.buffers))
	for i, b := range r.buffers {
		handles[i] = b.Handle()
	}
	return handles
}

// ImageHandles returns the internal handles of the referenced images.
func (r *ResourceList) ImageHandles() []vk.Image {
	handles := make([]vk.Image, len(r.images))
	for i, img := range r.images {
		handles[i] = img.Handle()
	}
	return handles
}

// Len returns the number of buffers and images.
func (r *ResourceList) Len() (buffers int, images int) {
	return len(r.buffers), len(r.images)
}
