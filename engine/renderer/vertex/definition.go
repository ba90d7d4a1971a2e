// Package vertex reconciles the inputs a shader expects with the vertex
// record types a caller supplies, and decodes the buffers holding them.
package vertex

import (
	"fmt"

	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

// Definition describes the records of an ordered group of vertex buffers:
// buffer i holds records of type i.
type Definition struct {
	types []*metadata.VertexType
}

// NewDefinition returns a definition over the given vertex types, in buffer
// order. It panics if any type is nil.
func NewDefinition(types ...*metadata.VertexType) *Definition {
	for i, t := range types {
		if t == nil {
			panic(fmt.Sprintf("vertex: type of buffer %d is nil", i))
		}
	}
	return &Definition{types: append([]*metadata.VertexType(nil), types...)}
}

// Len returns the number of vertex buffers.
func (d *Definition) Len() int {
	return len(d.types)
}

// Types returns the vertex types in buffer order.
func (d *Definition) Types() []*metadata.VertexType {
	return append([]*metadata.VertexType(nil), d.types...)
}

// lookup returns the first vertex type, in buffer order, declaring name.
func (d *Definition) lookup(name string) (uint32, metadata.VertexMemberInfo, bool) {
	for i, t := range d.types {
		if m, ok := t.Member(name); ok {
			return uint32(i), m, true
		}
	}
	return 0, metadata.VertexMemberInfo{}, false
}

// BufferBindings returns one per-vertex binding per buffer, with the record
// size as stride.
func (d *Definition) BufferBindings() []metadata.BufferBinding {
	bindings := make([]metadata.BufferBinding, len(d.types))
	for i, t := range d.types {
		bindings[i] = metadata.BufferBinding{
			Buffer: uint32(i),
			Stride: t.Size,
			Rate:   metadata.InputRateVertex,
		}
	}
	return bindings
}

// Reconcile matches every shader input, in declared order, against the
// members of the vertex types. When several types declare the same name the
// first buffer wins. Inputs spanning several locations produce one attribute
// per location, each one format size further into the record.
//
// Reconcile panics if the shader uses a format whose size is unknown.
func (d *Definition) Reconcile(shader metadata.ShaderInterfaceDef) ([]metadata.BufferBinding, []metadata.AttributeBinding, error) {
	var attributes []metadata.AttributeBinding
	for _, e := range shader.Elements() {
		if e.Name == "" {
			return nil, nil, &MissingAttributeError{Location: e.Location.Start}
		}
		buffer, member, ok := d.lookup(e.Name)
		if !ok {
			return nil, nil, &MissingAttributeError{Name: e.Name, Location: e.Location.Start}
		}

		size, ok := metadata.FormatSize(e.Format)
		if !ok {
			panic(fmt.Sprintf("vertex: format %s of input %q has no defined size", metadata.FormatName(e.Format), e.Name))
		}

		locations := e.Location.Len()
		if !member.Matches(e.Format, locations) {
			arraySize := member.ArraySize
			if arraySize == 0 {
				arraySize = 1
			}
			return nil, nil, &FormatMismatchError{
				Name:       e.Name,
				Shader:     ShaderInput{Format: e.Format, Locations: locations},
				Definition: MemberDefinition{Type: member.Type, ArraySize: arraySize},
			}
		}

		offset := member.Offset
		for loc := e.Location.Start; loc < e.Location.End; loc++ {
			attributes = append(attributes, metadata.AttributeBinding{
				Location: loc,
				Buffer:   buffer,
				Offset:   offset,
				Format:   e.Format,
			})
			offset += size
		}
	}
	return d.BufferBindings(), attributes, nil
}

// Shadow records an attribute name declared by more than one vertex type.
type Shadow struct {
	Name string
	// Used is the buffer whose member is bound.
	Used uint32
	// Hidden is a later buffer declaring the same name.
	Hidden uint32
}

// Shadowed lists the member names of later buffers hidden by an earlier
// buffer declaring the same name, in buffer then offset order.
func (d *Definition) Shadowed() []Shadow {
	var shadows []Shadow
	seen := map[string]uint32{}
	for i, t := range d.types {
		for _, name := range t.MemberNames() {
			if first, ok := seen[name]; ok {
				shadows = append(shadows, Shadow{Name: name, Used: first, Hidden: uint32(i)})
				continue
			}
			seen[name] = uint32(i)
		}
	}
	return shadows
}
