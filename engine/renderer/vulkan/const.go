package vulkan

/**
 * @brief Max number of bindings per descriptor set.
 * @todo TODO: make configurable
 */
const VULKAN_SHADER_MAX_BINDINGS uint32 = 32

/**
 * @brief Max number of vertex attributes. This is the minimum every
 * device guarantees for maxVertexInputAttributes.
 */
const VULKAN_MAX_VERTEX_ATTRIBUTES uint32 = 16

/**
 * @brief Max number of vertex buffer bindings, the guaranteed minimum of
 * maxVertexInputBindings.
 */
const VULKAN_MAX_VERTEX_BINDINGS uint32 = 16

/** @brief Marks a descriptor set config without a sampler binding. */
const VULKAN_INVALID_BINDING uint8 = 0xFF
