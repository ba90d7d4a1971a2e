package metadata

/** @brief The kind of file an asset holds. */
type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Not an asset. */
	ResourceTypeNone ResourceType = iota
	/** @brief WGSL shader source. */
	ResourceTypeShader
	/** @brief TOML vertex layout declarations. */
	ResourceTypeVertexLayout
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeVertexLayout:
		return "vertex_layout"
	}
	return "none"
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The type of the resource, which also selects its loader. */
	Type ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource file in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}
