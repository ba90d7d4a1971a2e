package metadata

import (
	"testing"

	vk "github.com/goki/vulkan"
)

func TestVertexMemberMatches(t *testing.T) {
	tests := []struct {
		name      string
		member    VertexMemberInfo
		format    vk.Format
		locations uint32
		want      bool
	}{
		{"vec3 as one element", VertexMemberInfo{Type: TypeF32x3, ArraySize: 1}, vk.FormatR32g32b32Sfloat, 1, true},
		{"f32 array of three", VertexMemberInfo{Type: TypeF32, ArraySize: 3}, vk.FormatR32g32b32Sfloat, 1, true},
		{"array size zero means one", VertexMemberInfo{Type: TypeF32}, vk.FormatR32Sfloat, 1, true},
		{"array too large", VertexMemberInfo{Type: TypeF32, ArraySize: 3}, vk.FormatR32Sfloat, 1, false},
		{"mat4 over four locations", VertexMemberInfo{Type: TypeF32x4, ArraySize: 4}, vk.FormatR32g32b32a32Sfloat, 4, true},
		{"mat4 over two locations", VertexMemberInfo{Type: TypeF32x4, ArraySize: 4}, vk.FormatR32g32b32a32Sfloat, 2, false},
		{"normalized colour", VertexMemberInfo{Type: TypeU8x4, ArraySize: 1}, vk.FormatR8g8b8a8Unorm, 1, true},
		{"width mismatch", VertexMemberInfo{Type: VertexMemberType{ScalarU16, 2}, ArraySize: 1}, vk.FormatR8g8b8a8Unorm, 1, false},
		{"f64 pair in f32x4", VertexMemberInfo{Type: VertexMemberType{ScalarF64, 2}, ArraySize: 1}, vk.FormatR32g32b32a32Sfloat, 1, false},
		{"packed format", VertexMemberInfo{Type: TypeU32, ArraySize: 1}, vk.FormatA2b10g10r10UnormPack32, 1, true},
		{"undefined format", VertexMemberInfo{Type: TypeF32, ArraySize: 1}, vk.FormatUndefined, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.member.Matches(tt.format, tt.locations); got != tt.want {
				t.Errorf("Matches(%s, %d) = %t, want %t", FormatName(tt.format), tt.locations, got, tt.want)
			}
		})
	}
}

func TestParseVertexMemberType(t *testing.T) {
	tests := []struct {
		in      string
		want    VertexMemberType
		wantErr bool
	}{
		{in: "f32", want: TypeF32},
		{in: "f32x3", want: TypeF32x3},
		{in: "vec4<f32>", want: TypeF32x4},
		{in: "vec2<u16>", want: VertexMemberType{ScalarU16, 2}},
		{in: " u8x4 ", want: TypeU8x4},
		{in: "f32x5", wantErr: true},
		{in: "vec5<f32>", wantErr: true},
		{in: "vec3<bool>", wantErr: true},
		{in: "float", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseVertexMemberType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseVertexMemberType(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVertexMemberType(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVertexMemberType(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if back, err := ParseVertexMemberType(got.String()); err != nil || back != got {
			t.Errorf("String() of %v does not parse back: %v, %v", got, back, err)
		}
	}
}

func TestVertexTypeValidate(t *testing.T) {
	vt := &VertexType{
		Name: "Vertex3D",
		Size: 20,
		Members: map[string]VertexMemberInfo{
			"position": {Offset: 0, Type: TypeF32x3, ArraySize: 1},
			"texcoord": {Offset: 12, Type: TypeF32x2, ArraySize: 1},
		},
	}
	if err := vt.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if names := vt.MemberNames(); len(names) != 2 || names[0] != "position" || names[1] != "texcoord" {
		t.Errorf("MemberNames() = %v", names)
	}

	vt.Size = 16
	if err := vt.Validate(); err == nil {
		t.Error("Validate() should reject a member past the end of the record")
	}

	empty := &VertexType{Name: "Empty"}
	if err := empty.Validate(); err == nil {
		t.Error("Validate() should reject a zero sized record")
	}

	var missing *VertexType
	if _, ok := missing.Member("position"); ok {
		t.Error("Member() on a nil type should be absent")
	}
}
