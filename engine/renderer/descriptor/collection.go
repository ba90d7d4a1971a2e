// Package descriptor aggregates the descriptor sets bound for one draw or
// dispatch and answers layout queries about them.
package descriptor

import (
	"iter"
	"slices"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindplan/engine/core"
	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

// DescriptorSet is a set allocated by the descriptor pool subsystem.
type DescriptorSet interface {
	// Handle returns the internal descriptor set handle.
	Handle() vk.DescriptorSet
	// NumBindings returns the number of bindings, including empty ones.
	NumBindings() int
	// Descriptor returns the descriptor of the given binding, if any.
	Descriptor(binding int) (metadata.DescriptorDesc, bool)
	// Buffers returns the buffers referenced by the set, including buffer views.
	Buffers() []metadata.BufferAccess
	// Images returns the images referenced by the set, including image views.
	Images() []metadata.ImageAccess
}

// Collection is an ordered group of descriptor sets. Set indices are zero
// based and contiguous across the group.
//
// Queries never fail: out of range indices report absence. IntoList hands
// the sets over to the caller and can only be called once; afterwards every
// query reports absence.
type Collection interface {
	// SetCount returns the number of sets in the collection.
	SetCount() int
	// NumBindingsInSet returns the number of bindings of the given set.
	NumBindingsInSet(set int) (int, bool)
	// Descriptor returns the descriptor for the given binding of the given set.
	Descriptor(set, binding int) (metadata.DescriptorDesc, bool)
	// Buffers yields the buffers referenced by every set, in set order.
	Buffers() iter.Seq[metadata.BufferAccess]
	// Images yields the images referenced by every set, in set order.
	Images() iter.Seq[metadata.ImageAccess]
	// IntoList consumes the collection and returns its sets in order. It
	// fails without consuming anything when a slot holds no set.
	IntoList() ([]DescriptorSet, error)
}

type empty struct{}

// Empty returns the collection with no sets.
func Empty() Collection {
	return empty{}
}

func (empty) SetCount() int { return 0 }

func (empty) NumBindingsInSet(int) (int, bool) { return 0, false }

func (empty) Descriptor(int, int) (metadata.DescriptorDesc, bool) {
	return metadata.DescriptorDesc{}, false
}

func (empty) Buffers() iter.Seq[metadata.BufferAccess] {
	return func(func(metadata.BufferAccess) bool) {}
}

func (empty) Images() iter.Seq[metadata.ImageAccess] {
	return func(func(metadata.ImageAccess) bool) {}
}

func (empty) IntoList() ([]DescriptorSet, error) { return nil, nil }

func (empty) spent() bool    { return false }
func (empty) complete() bool { return true }

type single struct {
	set      DescriptorSet
	consumed bool
}

// Single wraps one descriptor set. Only set index 0 is valid. A nil set
// still occupies index 0 but every query on it reports absence and the
// collection cannot be flattened.
func Single(set DescriptorSet) Collection {
	if core.IsNil(set) {
		return hole{}
	}
	return &single{set: set}
}

func (s *single) SetCount() int {
	if s.consumed {
		return 0
	}
	return 1
}

func (s *single) NumBindingsInSet(set int) (int, bool) {
	if s.consumed || set != 0 {
		return 0, false
	}
	return s.set.NumBindings(), true
}

func (s *single) Descriptor(set, binding int) (metadata.DescriptorDesc, bool) {
	if s.consumed || set != 0 {
		return metadata.DescriptorDesc{}, false
	}
	return s.set.Descriptor(binding)
}

func (s *single) Buffers() iter.Seq[metadata.BufferAccess] {
	if s.consumed {
		return empty{}.Buffers()
	}
	return slices.Values(s.set.Buffers())
}

func (s *single) Images() iter.Seq[metadata.ImageAccess] {
	if s.consumed {
		return empty{}.Images()
	}
	return slices.Values(s.set.Images())
}

func (s *single) IntoList() ([]DescriptorSet, error) {
	if s.consumed {
		return nil, core.ErrCollectionConsumed
	}
	s.consumed = true
	set := s.set
	s.set = nil
	return []DescriptorSet{set}, nil
}

func (s *single) spent() bool    { return s.consumed }
func (s *single) complete() bool { return true }

// hole is the slot of a nil descriptor set.
type hole struct{}

func (hole) SetCount() int { return 1 }

func (hole) NumBindingsInSet(int) (int, bool) { return 0, false }

func (hole) Descriptor(int, int) (metadata.DescriptorDesc, bool) {
	return metadata.DescriptorDesc{}, false
}

func (hole) Buffers() iter.Seq[metadata.BufferAccess] { return empty{}.Buffers() }

func (hole) Images() iter.Seq[metadata.ImageAccess] { return empty{}.Images() }

func (hole) IntoList() ([]DescriptorSet, error) { return nil, core.ErrMissingDescriptorSet }

func (hole) spent() bool    { return false }
func (hole) complete() bool { return false }

type group struct {
	elements []Collection
	consumed bool
}

// Sets groups descriptor sets; set i of the collection is sets[i], nil
// entries included.
func Sets(sets ...DescriptorSet) Collection {
	elements := make([]Collection, 0, len(sets))
	for _, s := range sets {
		elements = append(elements, Single(s))
	}
	return &group{elements: elements}
}

// Join concatenates collections. Each element occupies as many set indices
// as it reports through SetCount, starting right after the previous one.
// Join takes ownership of the elements.
func Join(collections ...Collection) Collection {
	elements := make([]Collection, 0, len(collections))
	for _, c := range collections {
		if c != nil {
			elements = append(elements, c)
		}
	}
	return &group{elements: elements}
}

// spent reports whether the group or any of its elements has been consumed.
func (g *group) spent() bool {
	if g.consumed {
		return true
	}
	for _, e := range g.elements {
		if isSpent(e) {
			return true
		}
	}
	return false
}

func (g *group) complete() bool {
	for _, e := range g.elements {
		if !isComplete(e) {
			return false
		}
	}
	return true
}

// SetCount is 0 once any element has been consumed.
func (g *group) SetCount() int {
	if g.spent() {
		return 0
	}
	n := 0
	for _, e := range g.elements {
		n += e.SetCount()
	}
	return n
}

// locate walks the elements, spending each element's set count, until the
// residual index falls inside one of them.
func (g *group) locate(set int) (Collection, int, bool) {
	if set < 0 || g.spent() {
		return nil, 0, false
	}
	for _, e := range g.elements {
		n := e.SetCount()
		if set < n {
			return e, set, true
		}
		set -= n
	}
	return nil, 0, false
}

func (g *group) NumBindingsInSet(set int) (int, bool) {
	e, local, ok := g.locate(set)
	if !ok {
		return 0, false
	}
	return e.NumBindingsInSet(local)
}

func (g *group) Descriptor(set, binding int) (metadata.DescriptorDesc, bool) {
	e, local, ok := g.locate(set)
	if !ok {
		return metadata.DescriptorDesc{}, false
	}
	return e.Descriptor(local, binding)
}

func (g *group) Buffers() iter.Seq[metadata.BufferAccess] {
	if g.spent() {
		return empty{}.Buffers()
	}
	elements := g.elements
	return func(yield func(metadata.BufferAccess) bool) {
		for _, e := range elements {
			for b := range e.Buffers() {
				if !yield(b) {
					return
				}
			}
		}
	}
}

func (g *group) Images() iter.Seq[metadata.ImageAccess] {
	if g.spent() {
		return empty{}.Images()
	}
	elements := g.elements
	return func(yield func(metadata.ImageAccess) bool) {
		for _, e := range elements {
			for img := range e.Images() {
				if !yield(img) {
					return
				}
			}
		}
	}
}

// IntoList checks every element before consuming any of them: a group with
// a consumed element or a nil slot is left untouched.
func (g *group) IntoList() ([]DescriptorSet, error) {
	if g.spent() {
		return nil, core.ErrCollectionConsumed
	}
	if !g.complete() {
		return nil, core.ErrMissingDescriptorSet
	}
	var list []DescriptorSet
	for _, e := range g.elements {
		sets, err := e.IntoList()
		if err != nil {
			return nil, err
		}
		list = append(list, sets...)
	}
	g.consumed = true
	g.elements = nil
	return list, nil
}

// tracked is implemented by the collections of this package. Collections
// from elsewhere are assumed unconsumed and complete.
type tracked interface {
	spent() bool
	complete() bool
}

func isSpent(c Collection) bool {
	t, ok := c.(tracked)
	return ok && t.spent()
}

func isComplete(c Collection) bool {
	t, ok := c.(tracked)
	return !ok || t.complete()
}
