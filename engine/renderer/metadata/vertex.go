package metadata

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	vk "github.com/goki/vulkan"
)

/** @brief How the shader interprets the components of an input. */
type ScalarKind uint8

const (
	ScalarKindSint ScalarKind = iota
	ScalarKindUint
	ScalarKindFloat
)

/** @brief Scalar types a vertex member can be made of. */
type ScalarType uint8

const (
	ScalarI8 ScalarType = iota
	ScalarU8
	ScalarI16
	ScalarU16
	ScalarI32
	ScalarU32
	ScalarF16
	ScalarF32
	ScalarF64
)

var scalarNames = [...]string{"i8", "u8", "i16", "u16", "i32", "u32", "f16", "f32", "f64"}

// Size returns the size of the scalar in bytes.
func (s ScalarType) Size() uint32 {
	switch s {
	case ScalarI8, ScalarU8:
		return 1
	case ScalarI16, ScalarU16, ScalarF16:
		return 2
	case ScalarI32, ScalarU32, ScalarF32:
		return 4
	case ScalarF64:
		return 8
	}
	return 0
}

func (s ScalarType) Kind() ScalarKind {
	switch s {
	case ScalarI8, ScalarI16, ScalarI32:
		return ScalarKindSint
	case ScalarU8, ScalarU16, ScalarU32:
		return ScalarKindUint
	}
	return ScalarKindFloat
}

func (s ScalarType) String() string {
	if int(s) < len(scalarNames) {
		return scalarNames[s]
	}
	return "invalid"
}

func ParseScalarType(s string) (ScalarType, error) {
	for i, name := range scalarNames {
		if name == s {
			return ScalarType(i), nil
		}
	}
	return 0, fmt.Errorf("string %s is not a valid ScalarType", s)
}

/**
 * @brief The declared type of one field of a vertex record. Vectors are
 * expressed through Components, arrays through VertexMemberInfo.ArraySize.
 */
type VertexMemberType struct {
	/** @brief The scalar every component is made of. */
	Scalar ScalarType
	/** @brief The number of components, 1 for plain scalars. */
	Components uint32
}

var (
	TypeF32   = VertexMemberType{ScalarF32, 1}
	TypeF32x2 = VertexMemberType{ScalarF32, 2}
	TypeF32x3 = VertexMemberType{ScalarF32, 3}
	TypeF32x4 = VertexMemberType{ScalarF32, 4}
	TypeU32   = VertexMemberType{ScalarU32, 1}
	TypeI32   = VertexMemberType{ScalarI32, 1}
	TypeU8x4  = VertexMemberType{ScalarU8, 4}
)

// Size returns the size of one element of the member in bytes.
func (t VertexMemberType) Size() uint32 {
	return t.Scalar.Size() * t.components()
}

func (t VertexMemberType) components() uint32 {
	if t.Components == 0 {
		return 1
	}
	return t.Components
}

func (t VertexMemberType) String() string {
	if t.components() == 1 {
		return t.Scalar.String()
	}
	return fmt.Sprintf("%sx%d", t.Scalar, t.Components)
}

// ParseVertexMemberType accepts "f32", "f32x3" and the WGSL spelling "vec3<f32>".
func ParseVertexMemberType(s string) (VertexMemberType, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "vec") && strings.HasSuffix(s, ">") {
		open := strings.IndexByte(s, '<')
		if open != 4 {
			return VertexMemberType{}, fmt.Errorf("string %s is not a valid VertexMemberType", s)
		}
		n, err := strconv.Atoi(s[3:4])
		if err != nil || n < 2 || n > 4 {
			return VertexMemberType{}, fmt.Errorf("string %s is not a valid VertexMemberType", s)
		}
		scalar, err := ParseScalarType(s[open+1 : len(s)-1])
		if err != nil {
			return VertexMemberType{}, err
		}
		return VertexMemberType{Scalar: scalar, Components: uint32(n)}, nil
	}
	name, count, found := strings.Cut(s, "x")
	scalar, err := ParseScalarType(name)
	if err != nil {
		return VertexMemberType{}, err
	}
	if !found {
		return VertexMemberType{Scalar: scalar, Components: 1}, nil
	}
	n, err := strconv.Atoi(count)
	if err != nil || n < 1 || n > 4 {
		return VertexMemberType{}, fmt.Errorf("string %s is not a valid VertexMemberType", s)
	}
	return VertexMemberType{Scalar: scalar, Components: uint32(n)}, nil
}

/**
 * @brief Describes one named field of a vertex record.
 */
type VertexMemberInfo struct {
	/** @brief The Offset in bytes from the beginning of the record. */
	Offset uint32
	/** @brief The declared type of one element. */
	Type VertexMemberType
	/** @brief The number of elements. 0 is treated as 1. */
	ArraySize uint32
}

func (m VertexMemberInfo) elements() uint32 {
	if m.ArraySize == 0 {
		return 1
	}
	return m.ArraySize
}

// Size returns the number of bytes the member occupies in the record.
func (m VertexMemberInfo) Size() uint32 {
	return m.Type.Size() * m.elements()
}

// Matches reports whether the member can feed a shader input of the given
// format spanning the given number of locations. The member and the input
// must cover the same number of bytes, and for formats made of same-width
// components the member's scalar must have that width.
func (m VertexMemberInfo) Matches(format vk.Format, locations uint32) bool {
	size, ok := FormatSize(format)
	if !ok || size == 0 {
		return false
	}
	if m.Size() != size*locations {
		return false
	}
	_, componentSize, _ := FormatComponents(format)
	if componentSize != 0 && componentSize != m.Type.Scalar.Size() {
		return false
	}
	return true
}

/**
 * @brief Describes one vertex record type: its byte size and its members by name.
 */
type VertexType struct {
	/** @brief The Name of the type, used in diagnostics only. */
	Name string
	/** @brief The Size of one record in bytes, a.k.a. the stride. */
	Size uint32
	/** @brief The Members of the record, by attribute name. */
	Members map[string]VertexMemberInfo
}

// Member looks up a member by attribute name.
func (v *VertexType) Member(name string) (VertexMemberInfo, bool) {
	if v == nil {
		return VertexMemberInfo{}, false
	}
	m, ok := v.Members[name]
	return m, ok
}

// MemberNames returns the member names sorted by offset, then by name.
func (v *VertexType) MemberNames() []string {
	names := make([]string, 0, len(v.Members))
	for name := range v.Members {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := v.Members[names[i]], v.Members[names[j]]
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return names[i] < names[j]
	})
	return names
}

// Validate checks that every member fits inside the record.
func (v *VertexType) Validate() error {
	if v.Size == 0 {
		return fmt.Errorf("vertex type %s: size cannot be 0", v.Name)
	}
	for _, name := range v.MemberNames() {
		m := v.Members[name]
		if m.Type.Scalar.Size() == 0 {
			return fmt.Errorf("vertex type %s: member %s has an invalid scalar type", v.Name, name)
		}
		if m.Offset+m.Size() > v.Size {
			return fmt.Errorf("vertex type %s: member %s (offset %d, size %d) overflows the record size %d",
				v.Name, name, m.Offset, m.Size(), v.Size)
		}
	}
	return nil
}
