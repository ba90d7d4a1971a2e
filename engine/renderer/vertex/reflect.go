package vertex

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

// TypeOf derives a vertex type from the struct T. Fields become members when
// they carry a `vertex:"name[,type]"` tag; an empty name uses the field name
// and "-" skips the field. The type describes one element of the field. When
// omitted it is inferred from the Go type: scalars, [N]scalar vectors and
// [M][N]scalar matrices (M elements of N components) are understood. A field
// larger than one element is an array of elements.
func TypeOf[T any]() (*metadata.VertexType, error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("vertex type %s: not a struct", rt)
	}
	vt := &metadata.VertexType{
		Name:    rt.Name(),
		Size:    uint32(rt.Size()),
		Members: map[string]metadata.VertexMemberInfo{},
	}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag, ok := f.Tag.Lookup("vertex")
		if !ok || tag == "-" {
			continue
		}
		name, typ, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		if _, dup := vt.Members[name]; dup {
			return nil, fmt.Errorf("vertex type %s: attribute %s declared twice", vt.Name, name)
		}
		member, err := memberOf(f.Type, strings.TrimSpace(typ))
		if err != nil {
			return nil, fmt.Errorf("vertex type %s: field %s: %w", vt.Name, f.Name, err)
		}
		member.Offset = uint32(f.Offset)
		vt.Members[name] = member
	}
	if err := vt.Validate(); err != nil {
		return nil, err
	}
	return vt, nil
}

// MustTypeOf is like TypeOf but panics on error. It is meant for package
// level variables.
func MustTypeOf[T any]() *metadata.VertexType {
	vt, err := TypeOf[T]()
	if err != nil {
		panic(err)
	}
	return vt
}

func memberOf(ft reflect.Type, typ string) (metadata.VertexMemberInfo, error) {
	var element metadata.VertexMemberType
	if typ != "" {
		t, err := metadata.ParseVertexMemberType(typ)
		if err != nil {
			return metadata.VertexMemberInfo{}, err
		}
		element = t
	} else {
		t, err := inferElement(ft)
		if err != nil {
			return metadata.VertexMemberInfo{}, err
		}
		element = t
	}
	size := uint32(ft.Size())
	if element.Size() == 0 || size%element.Size() != 0 {
		return metadata.VertexMemberInfo{}, fmt.Errorf("%s (%d bytes) is not a whole number of %s", ft, size, element)
	}
	return metadata.VertexMemberInfo{Type: element, ArraySize: size / element.Size()}, nil
}

func inferElement(ft reflect.Type) (metadata.VertexMemberType, error) {
	if s, ok := scalarOf(ft.Kind()); ok {
		return metadata.VertexMemberType{Scalar: s, Components: 1}, nil
	}
	if ft.Kind() != reflect.Array {
		return metadata.VertexMemberType{}, fmt.Errorf("cannot infer a vertex type from %s", ft)
	}
	inner := ft.Elem()
	if inner.Kind() == reflect.Array {
		// Matrix: one element per column.
		ft, inner = inner, inner.Elem()
	}
	s, ok := scalarOf(inner.Kind())
	if !ok || ft.Len() < 1 || ft.Len() > 4 {
		return metadata.VertexMemberType{}, fmt.Errorf("cannot infer a vertex type from %s", ft)
	}
	return metadata.VertexMemberType{Scalar: s, Components: uint32(ft.Len())}, nil
}

func scalarOf(k reflect.Kind) (metadata.ScalarType, bool) {
	switch k {
	case reflect.Int8:
		return metadata.ScalarI8, true
	case reflect.Uint8:
		return metadata.ScalarU8, true
	case reflect.Int16:
		return metadata.ScalarI16, true
	case reflect.Uint16:
		return metadata.ScalarU16, true
	case reflect.Int32:
		return metadata.ScalarI32, true
	case reflect.Uint32:
		return metadata.ScalarU32, true
	case reflect.Float32:
		return metadata.ScalarF32, true
	case reflect.Float64:
		return metadata.ScalarF64, true
	}
	return 0, false
}
