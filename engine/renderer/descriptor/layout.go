package descriptor

import (
	"fmt"
	"sort"

	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

// SetLayout is what a pipeline expects at one set index. Bindings that the
// pipeline does not use are simply absent from the map.
type SetLayout struct {
	Bindings map[uint32]metadata.DescriptorDesc
}

// NumBindings returns the highest used binding index plus one.
func (l SetLayout) NumBindings() int {
	n := 0
	for b := range l.Bindings {
		if int(b)+1 > n {
			n = int(b) + 1
		}
	}
	return n
}

// BindingIndices returns the used binding indices in increasing order.
func (l SetLayout) BindingIndices() []uint32 {
	indices := make([]uint32, 0, len(l.Bindings))
	for b := range l.Bindings {
		indices = append(indices, b)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	return indices
}

// SetsMismatchError reports why a collection cannot be bound to a pipeline.
type SetsMismatchError struct {
	Set     int
	Binding int
	Reason  string
}

func (e *SetsMismatchError) Error() string {
	if e.Binding < 0 {
		return fmt.Sprintf("descriptor set %d: %s", e.Set, e.Reason)
	}
	return fmt.Sprintf("descriptor set %d, binding %d: %s", e.Set, e.Binding, e.Reason)
}

// CheckCompatible verifies that the collection provides, for every set the
// pipeline declares, a descriptor that can serve each used binding. It only
// uses the query side of the collection, which stays usable afterwards.
func CheckCompatible(layouts []SetLayout, c Collection) error {
	if count := c.SetCount(); count > len(layouts) {
		return &SetsMismatchError{
			Set:     len(layouts),
			Binding: -1,
			Reason:  fmt.Sprintf("pipeline layout declares %d sets, %d provided", len(layouts), count),
		}
	}
	for set, layout := range layouts {
		n, ok := c.NumBindingsInSet(set)
		if !ok {
			if len(layout.Bindings) == 0 {
				continue
			}
			return &SetsMismatchError{Set: set, Binding: -1, Reason: "missing descriptor set"}
		}
		for _, b := range layout.BindingIndices() {
			expected := layout.Bindings[b]
			if int(b) >= n {
				return &SetsMismatchError{Set: set, Binding: int(b), Reason: fmt.Sprintf("set only has %d bindings", n)}
			}
			got, ok := c.Descriptor(set, int(b))
			if !ok {
				return &SetsMismatchError{Set: set, Binding: int(b), Reason: "binding is empty"}
			}
			if !got.IsSupersetOf(expected) {
				return &SetsMismatchError{
					Set:     set,
					Binding: int(b),
					Reason:  fmt.Sprintf("descriptor %s cannot serve %s", got, expected),
				}
			}
		}
	}
	return nil
}
