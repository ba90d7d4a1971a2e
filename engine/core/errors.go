package core

import (
	"errors"
)

var (
	ErrCollectionConsumed    = errors.New("descriptor set collection already consumed")
	ErrMissingDescriptorSet  = errors.New("descriptor set slot is empty")
	ErrBufferCountMismatch   = errors.New("vertex buffer count does not match the definition")
	ErrUnsupportedFormat     = errors.New("format has no vertex equivalent")
	ErrTooManyDescriptorSets = errors.New("too many descriptor sets bound")
	ErrEntryPointNotFound    = errors.New("vertex entry point not found")
	ErrInvalidConfig         = errors.New("invalid configuration")
	ErrUnknown               = errors.New("unknown")
)
