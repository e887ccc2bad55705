package domain

import "errors"

var (
	// ErrMisconfiguredItem indicates an item without a component tag.
	ErrMisconfiguredItem = errors.New("item has no component tag")

	// ErrUnknownComponent indicates no renderer is registered for an item's tag.
	ErrUnknownComponent = errors.New("no renderer registered for component")

	// ErrInvalidPageSize indicates a page size below one.
	ErrInvalidPageSize = errors.New("page size must be at least 1")

	// ErrInvalidStartIndex indicates a negative first-page offset.
	ErrInvalidStartIndex = errors.New("start index must be non-negative")
)
