package vertex

import (
	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

// SingleBuffer binds one buffer of T records.
type SingleBuffer[T any] struct {
	*Definition
}

// NewSingleBuffer derives the definition from T, see TypeOf.
func NewSingleBuffer[T any]() (*SingleBuffer[T], error) {
	t, err := TypeOf[T]()
	if err != nil {
		return nil, err
	}
	return &SingleBuffer[T]{Definition: NewDefinition(t)}, nil
}

// Decode hands the buffer over for drawing.
func (s *SingleBuffer[T]) Decode(buffer metadata.TypedBufferAccess[T]) (Source, error) {
	return s.Definition.Decode([]TypedBuffer{buffer})
}

// TwoBuffers binds a buffer of T records and a buffer of U records.
type TwoBuffers[T, U any] struct {
	*Definition
}

func NewTwoBuffers[T, U any]() (*TwoBuffers[T, U], error) {
	t, err := TypeOf[T]()
	if err != nil {
		return nil, err
	}
	u, err := TypeOf[U]()
	if err != nil {
		return nil, err
	}
	return &TwoBuffers[T, U]{Definition: NewDefinition(t, u)}, nil
}

func (s *TwoBuffers[T, U]) Decode(first metadata.TypedBufferAccess[T], second metadata.TypedBufferAccess[U]) (Source, error) {
	return s.Definition.Decode([]TypedBuffer{first, second})
}

// ThreeBuffers binds buffers of T, U and V records.
type ThreeBuffers[T, U, V any] struct {
	*Definition
}

func NewThreeBuffers[T, U, V any]() (*ThreeBuffers[T, U, V], error) {
	t, err := TypeOf[T]()
	if err != nil {
		return nil, err
	}
	u, err := TypeOf[U]()
	if err != nil {
		return nil, err
	}
	v, err := TypeOf[V]()
	if err != nil {
		return nil, err
	}
	return &ThreeBuffers[T, U, V]{Definition: NewDefinition(t, u, v)}, nil
}

func (s *ThreeBuffers[T, U, V]) Decode(first metadata.TypedBufferAccess[T], second metadata.TypedBufferAccess[U], third metadata.TypedBufferAccess[V]) (Source, error) {
	return s.Definition.Decode([]TypedBuffer{first, second, third})
}
