package metadata

import (
	"github.com/gogpu/gputypes"
	vk "github.com/goki/vulkan"
)

/**
 * @brief Describes how a vulkan format is laid out when used as a vertex
 * attribute.
 */
type formatInfo struct {
	/** @brief The WebGPU equivalent, or VertexFormatUndefined if there is none. */
	vertex gputypes.VertexFormat
	/** @brief The number of components. */
	components uint32
	/** @brief The size of one component in bytes, 0 for packed formats. */
	componentSize uint32
	/** @brief The scalar kind of each component once fetched by the shader. */
	scalar ScalarKind
	/** @brief Explicit size, only set for packed formats. */
	packedSize uint32
}

var vertexFormats = map[vk.Format]formatInfo{
	vk.FormatR8Uint:    {gputypes.VertexFormatUndefined, 1, 1, ScalarKindUint, 0},
	vk.FormatR8Sint:    {gputypes.VertexFormatUndefined, 1, 1, ScalarKindSint, 0},
	vk.FormatR8Unorm:   {gputypes.VertexFormatUndefined, 1, 1, ScalarKindFloat, 0},
	vk.FormatR8Snorm:   {gputypes.VertexFormatUndefined, 1, 1, ScalarKindFloat, 0},
	vk.FormatR8g8Uint:  {gputypes.VertexFormatUint8x2, 2, 1, ScalarKindUint, 0},
	vk.FormatR8g8Sint:  {gputypes.VertexFormatSint8x2, 2, 1, ScalarKindSint, 0},
	vk.FormatR8g8Unorm: {gputypes.VertexFormatUnorm8x2, 2, 1, ScalarKindFloat, 0},
	vk.FormatR8g8Snorm: {gputypes.VertexFormatSnorm8x2, 2, 1, ScalarKindFloat, 0},

	vk.FormatR8g8b8a8Uint:  {gputypes.VertexFormatUint8x4, 4, 1, ScalarKindUint, 0},
	vk.FormatR8g8b8a8Sint:  {gputypes.VertexFormatSint8x4, 4, 1, ScalarKindSint, 0},
	vk.FormatR8g8b8a8Unorm: {gputypes.VertexFormatUnorm8x4, 4, 1, ScalarKindFloat, 0},
	vk.FormatR8g8b8a8Snorm: {gputypes.VertexFormatSnorm8x4, 4, 1, ScalarKindFloat, 0},

	vk.FormatR16Uint:            {gputypes.VertexFormatUndefined, 1, 2, ScalarKindUint, 0},
	vk.FormatR16Sint:            {gputypes.VertexFormatUndefined, 1, 2, ScalarKindSint, 0},
	vk.FormatR16Sfloat:          {gputypes.VertexFormatUndefined, 1, 2, ScalarKindFloat, 0},
	vk.FormatR16g16Uint:         {gputypes.VertexFormatUint16x2, 2, 2, ScalarKindUint, 0},
	vk.FormatR16g16Sint:         {gputypes.VertexFormatSint16x2, 2, 2, ScalarKindSint, 0},
	vk.FormatR16g16Unorm:        {gputypes.VertexFormatUnorm16x2, 2, 2, ScalarKindFloat, 0},
	vk.FormatR16g16Snorm:        {gputypes.VertexFormatSnorm16x2, 2, 2, ScalarKindFloat, 0},
	vk.FormatR16g16Sfloat:       {gputypes.VertexFormatFloat16x2, 2, 2, ScalarKindFloat, 0},
	vk.FormatR16g16b16a16Uint:   {gputypes.VertexFormatUint16x4, 4, 2, ScalarKindUint, 0},
	vk.FormatR16g16b16a16Sint:   {gputypes.VertexFormatSint16x4, 4, 2, ScalarKindSint, 0},
	vk.FormatR16g16b16a16Unorm:  {gputypes.VertexFormatUnorm16x4, 4, 2, ScalarKindFloat, 0},
	vk.FormatR16g16b16a16Snorm:  {gputypes.VertexFormatSnorm16x4, 4, 2, ScalarKindFloat, 0},
	vk.FormatR16g16b16a16Sfloat: {gputypes.VertexFormatFloat16x4, 4, 2, ScalarKindFloat, 0},

	vk.FormatR32Sfloat:          {gputypes.VertexFormatFloat32, 1, 4, ScalarKindFloat, 0},
	vk.FormatR32g32Sfloat:       {gputypes.VertexFormatFloat32x2, 2, 4, ScalarKindFloat, 0},
	vk.FormatR32g32b32Sfloat:    {gputypes.VertexFormatFloat32x3, 3, 4, ScalarKindFloat, 0},
	vk.FormatR32g32b32a32Sfloat: {gputypes.VertexFormatFloat32x4, 4, 4, ScalarKindFloat, 0},
	vk.FormatR32Uint:            {gputypes.VertexFormatUint32, 1, 4, ScalarKindUint, 0},
	vk.FormatR32g32Uint:         {gputypes.VertexFormatUint32x2, 2, 4, ScalarKindUint, 0},
	vk.FormatR32g32b32Uint:      {gputypes.VertexFormatUint32x3, 3, 4, ScalarKindUint, 0},
	vk.FormatR32g32b32a32Uint:   {gputypes.VertexFormatUint32x4, 4, 4, ScalarKindUint, 0},
	vk.FormatR32Sint:            {gputypes.VertexFormatSint32, 1, 4, ScalarKindSint, 0},
	vk.FormatR32g32Sint:         {gputypes.VertexFormatSint32x2, 2, 4, ScalarKindSint, 0},
	vk.FormatR32g32b32Sint:      {gputypes.VertexFormatSint32x3, 3, 4, ScalarKindSint, 0},
	vk.FormatR32g32b32a32Sint:   {gputypes.VertexFormatSint32x4, 4, 4, ScalarKindSint, 0},

	vk.FormatR64Sfloat:          {gputypes.VertexFormatUndefined, 1, 8, ScalarKindFloat, 0},
	vk.FormatR64g64Sfloat:       {gputypes.VertexFormatUndefined, 2, 8, ScalarKindFloat, 0},
	vk.FormatR64g64b64Sfloat:    {gputypes.VertexFormatUndefined, 3, 8, ScalarKindFloat, 0},
	vk.FormatR64g64b64a64Sfloat: {gputypes.VertexFormatUndefined, 4, 8, ScalarKindFloat, 0},

	vk.FormatA2b10g10r10UnormPack32: {gputypes.VertexFormatUnorm1010102, 4, 0, ScalarKindFloat, 4},
}

// FormatSize returns the number of bytes one location of the given format
// occupies. The second value is false for formats that cannot feed a vertex
// attribute.
func FormatSize(format vk.Format) (uint32, bool) {
	info, ok := vertexFormats[format]
	if !ok {
		return 0, false
	}
	if info.vertex != gputypes.VertexFormatUndefined {
		return uint32(info.vertex.Size()), true
	}
	if info.packedSize != 0 {
		return info.packedSize, true
	}
	return info.components * info.componentSize, true
}

// FormatComponents returns the component count and the size of one component.
// The component size is 0 for packed formats whose components differ in width.
func FormatComponents(format vk.Format) (count uint32, size uint32, ok bool) {
	info, ok := vertexFormats[format]
	if !ok {
		return 0, 0, false
	}
	return info.components, info.componentSize, true
}

// FormatScalarKind reports how the shader sees the components of the format.
func FormatScalarKind(format vk.Format) (ScalarKind, bool) {
	info, ok := vertexFormats[format]
	return info.scalar, ok
}

// ToVertexFormat maps a vulkan format to its WebGPU vertex format.
// Returns false when WebGPU has no equivalent.
func ToVertexFormat(format vk.Format) (gputypes.VertexFormat, bool) {
	info, ok := vertexFormats[format]
	if !ok || info.vertex == gputypes.VertexFormatUndefined {
		return gputypes.VertexFormatUndefined, false
	}
	return info.vertex, true
}

// FormatForComponents picks the canonical vulkan vertex format for a shader
// input made of count components of the given kind and width (in bytes).
// Returns vk.FormatUndefined when no such format exists.
func FormatForComponents(kind ScalarKind, width, count uint32) vk.Format {
	for format, info := range vertexFormats {
		if info.packedSize != 0 || info.scalar != kind || info.componentSize != width || info.components != count {
			continue
		}
		// Normalized formats fetch as float too; prefer the plain float one.
		if kind == ScalarKindFloat && !isFloatFormat(format) {
			continue
		}
		return format
	}
	return vk.FormatUndefined
}

func isFloatFormat(format vk.Format) bool {
	switch format {
	case vk.FormatR16Sfloat, vk.FormatR16g16Sfloat, vk.FormatR16g16b16a16Sfloat,
		vk.FormatR32Sfloat, vk.FormatR32g32Sfloat, vk.FormatR32g32b32Sfloat, vk.FormatR32g32b32a32Sfloat,
		vk.FormatR64Sfloat, vk.FormatR64g64Sfloat, vk.FormatR64g64b64Sfloat, vk.FormatR64g64b64a64Sfloat:
		return true
	}
	return false
}

// FormatName returns a readable name for diagnostics.
func FormatName(format vk.Format) string {
	if name, ok := formatNames[format]; ok {
		return name
	}
	return "UNKNOWN"
}

var formatNames = map[vk.Format]string{
	vk.FormatUndefined:              "UNDEFINED",
	vk.FormatR8Uint:                 "R8_UINT",
	vk.FormatR8Sint:                 "R8_SINT",
	vk.FormatR8Unorm:                "R8_UNORM",
	vk.FormatR8Snorm:                "R8_SNORM",
	vk.FormatR8g8Uint:               "R8G8_UINT",
	vk.FormatR8g8Sint:               "R8G8_SINT",
	vk.FormatR8g8Unorm:              "R8G8_UNORM",
	vk.FormatR8g8Snorm:              "R8G8_SNORM",
	vk.FormatR8g8b8a8Uint:           "R8G8B8A8_UINT",
	vk.FormatR8g8b8a8Sint:           "R8G8B8A8_SINT",
	vk.FormatR8g8b8a8Unorm:          "R8G8B8A8_UNORM",
	vk.FormatR8g8b8a8Snorm:          "R8G8B8A8_SNORM",
	vk.FormatR16Uint:                "R16_UINT",
	vk.FormatR16Sint:                "R16_SINT",
	vk.FormatR16Sfloat:              "R16_SFLOAT",
	vk.FormatR16g16Uint:             "R16G16_UINT",
	vk.FormatR16g16Sint:             "R16G16_SINT",
	vk.FormatR16g16Unorm:            "R16G16_UNORM",
	vk.FormatR16g16Snorm:            "R16G16_SNORM",
	vk.FormatR16g16Sfloat:           "R16G16_SFLOAT",
	vk.FormatR16g16b16a16Uint:       "R16G16B16A16_UINT",
	vk.FormatR16g16b16a16Sint:       "R16G16B16A16_SINT",
	vk.FormatR16g16b16a16Unorm:      "R16G16B16A16_UNORM",
	vk.FormatR16g16b16a16Snorm:      "R16G16B16A16_SNORM",
	vk.FormatR16g16b16a16Sfloat:     "R16G16B16A16_SFLOAT",
	vk.FormatR32Sfloat:              "R32_SFLOAT",
	vk.FormatR32g32Sfloat:           "R32G32_SFLOAT",
	vk.FormatR32g32b32Sfloat:        "R32G32B32_SFLOAT",
	vk.FormatR32g32b32a32Sfloat:     "R32G32B32A32_SFLOAT",
	vk.FormatR32Uint:                "R32_UINT",
	vk.FormatR32g32Uint:             "R32G32_UINT",
	vk.FormatR32g32b32Uint:          "R32G32B32_UINT",
	vk.FormatR32g32b32a32Uint:       "R32G32B32A32_UINT",
	vk.FormatR32Sint:                "R32_SINT",
	vk.FormatR32g32Sint:             "R32G32_SINT",
	vk.FormatR32g32b32Sint:          "R32G32B32_SINT",
	vk.FormatR32g32b32a32Sint:       "R32G32B32A32_SINT",
	vk.FormatR64Sfloat:              "R64_SFLOAT",
	vk.FormatR64g64Sfloat:           "R64G64_SFLOAT",
	vk.FormatR64g64b64Sfloat:        "R64G64B64_SFLOAT",
	vk.FormatR64g64b64a64Sfloat:     "R64G64B64A64_SFLOAT",
	vk.FormatA2b10g10r10UnormPack32: "A2B10G10R10_UNORM_PACK32",
}
