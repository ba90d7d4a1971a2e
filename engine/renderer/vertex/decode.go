package vertex

import (
	"fmt"

	"github.com/spaghettifunk/bindplan/engine/core"
	"github.com/spaghettifunk/bindplan/engine/math"
	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

// TypedBuffer is a vertex buffer whose record count is known.
type TypedBuffer interface {
	metadata.BufferAccess
	Len() int
}

// Source is what a draw reads its vertices from.
type Source struct {
	// Buffers in binding order.
	Buffers []metadata.BufferAccess
	// Vertices is the record count of the shortest buffer.
	Vertices uint32
	// Instances is always 1: per-instance rates are never produced.
	Instances uint32
}

// Decode checks that one buffer is supplied per vertex type and computes
// the number of vertices that can be read from all of them.
func (d *Definition) Decode(buffers []TypedBuffer) (Source, error) {
	if len(buffers) != len(d.types) {
		return Source{}, fmt.Errorf("%w: definition has %d vertex types, %d buffers supplied",
			core.ErrBufferCountMismatch, len(d.types), len(buffers))
	}
	src := Source{
		Buffers:   make([]metadata.BufferAccess, len(buffers)),
		Instances: 1,
	}
	lengths := make([]int64, len(buffers))
	for i, b := range buffers {
		if core.IsNil(b) {
			return Source{}, fmt.Errorf("%w: buffer %d is nil", core.ErrBufferCountMismatch, i)
		}
		src.Buffers[i] = b
		lengths[i] = int64(b.Len())
	}
	if shortest, ok := math.MinOf(lengths...); ok {
		src.Vertices = uint32(math.Clamp(shortest, 0, int64(^uint32(0))))
	}
	return src, nil
}
