package metadata

import vk "github.com/goki/vulkan"

/**
 * @brief A buffer owned by the memory subsystem. The binding layer only
 * borrows it.
 */
type BufferAccess interface {
	/** @brief The internal buffer handle. */
	Handle() vk.Buffer
	/** @brief The Size of the buffer in bytes. */
	Size() uint64
}

/**
 * @brief A buffer holding a slice of T records.
 */
type TypedBufferAccess[T any] interface {
	BufferAccess
	/** @brief The number of records in the buffer. */
	Len() int
}

/**
 * @brief An image owned by the memory subsystem. The binding layer only
 * borrows it.
 */
type ImageAccess interface {
	/** @brief The internal image handle. */
	Handle() vk.Image
}
