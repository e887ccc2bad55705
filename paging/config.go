// Package paging decides when a list should fetch more data, which page to
// ask for, and what loading state to show while it waits.
//
// Positions are derived from how many items the caller already holds rather
// than from a tracked cursor. A controller can be rebuilt at any time without
// losing its place, but a caller that drops items out of band shifts the next
// offset.
package paging

import (
	"fmt"
	"time"

	"github.com/CrestNiraj12/pagedlist/domain"
)

const (
	DefaultPageSize   = 10
	DefaultStartIndex = 1
)

// Config controls page arithmetic.
type Config struct {
	PageSize     int           // Items per page
	StartIndex   int           // Offset of the first page
	FetchTimeout time.Duration // Per-fetch deadline; zero disables it
}

// DefaultConfig returns page size 10 starting at offset 1.
func DefaultConfig() Config {
	return Config{
		PageSize:   DefaultPageSize,
		StartIndex: DefaultStartIndex,
	}
}

// Validate reports configuration the arithmetic cannot work with.
func (c Config) Validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidPageSize, c.PageSize)
	}
	if c.StartIndex < 0 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidStartIndex, c.StartIndex)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch timeout cannot be negative: %s", c.FetchTimeout)
	}
	return nil
}

// NextOffset is the offset of the page following count loaded items.
func (c Config) NextOffset(count int) int {
	return count/c.PageSize + c.StartIndex
}

// LoadedPageCount is the number of pages needed to cover count items.
func (c Config) LoadedPageCount(count int) int {
	return (count + c.PageSize - 1) / c.PageSize
}

// RefreshLimit is how many items a refresh asks for so that everything on
// screen is re-fetched in one call. An empty list still asks for one page.
func (c Config) RefreshLimit(count int) int {
	pages := c.LoadedPageCount(count)
	if pages < 1 {
		pages = 1
	}
	return c.PageSize * pages
}

// Aligned reports whether count sits on a page boundary.
func (c Config) Aligned(count int) bool {
	return count%c.PageSize == 0
}

// HasMore applies the exhaustion rule to a fetch result.
func (c Config) HasMore(items []domain.Item) bool {
	return c.hasMore(len(items), items == nil)
}
