package demo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/pagedlist/app"
	"github.com/CrestNiraj12/pagedlist/domain"
	"github.com/CrestNiraj12/pagedlist/paging"
)

func TestFetchPage_PageAddressing(t *testing.T) {
	s := New(Options{Total: 25, StartIndex: 1})
	ctx := context.Background()

	first, err := s.FetchPage(ctx, app.PageRequest{Offset: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.EqualValues(t, 1, *first[0].ID)

	third, err := s.FetchPage(ctx, app.PageRequest{Offset: 3, Limit: 10, Incremental: true})
	require.NoError(t, err)
	require.Len(t, third, 5)
	assert.EqualValues(t, 21, *third[0].ID)

	past, err := s.FetchPage(ctx, app.PageRequest{Offset: 9, Limit: 10, Incremental: true})
	require.NoError(t, err)
	assert.NotNil(t, past)
	assert.Empty(t, past)

	assert.Equal(t, 3, s.Calls())
}

func TestFetchPage_RefreshCoversLoadedPages(t *testing.T) {
	s := New(Options{Total: 100, StartIndex: 1})
	cfg := paging.DefaultConfig()

	items, err := s.FetchPage(context.Background(), app.PageRequest{Offset: cfg.StartIndex, Limit: cfg.RefreshLimit(23)})
	require.NoError(t, err)
	require.Len(t, items, 30)
	assert.EqualValues(t, 30, *items[29].ID)
}

func TestFetchPage_LatencyRespectsContext(t *testing.T) {
	s := New(Options{Total: 10, Latency: time.Minute})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.FetchPage(ctx, app.PageRequest{Offset: 0, Limit: 5})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestFetchPage_InjectedFailures(t *testing.T) {
	s := New(Options{Total: 10, FailEvery: 2})
	ctx := context.Background()

	_, err := s.FetchPage(ctx, app.PageRequest{Limit: 5})
	require.NoError(t, err)
	_, err = s.FetchPage(ctx, app.PageRequest{Limit: 5})
	assert.ErrorIs(t, err, ErrInjected)
}

func TestFetchPage_BrokenItems(t *testing.T) {
	s := New(Options{Total: 10, BrokenEvery: 4})
	items, err := s.FetchPage(context.Background(), app.PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, items[3].Component)
	assert.Empty(t, items[7].Component)
	assert.Equal(t, "text", items[0].Component)
	assert.Equal(t, "fields", items[4].Component)
}

func TestWalk_ExhaustsDemoSource(t *testing.T) {
	s := New(Options{Total: 42, StartIndex: 1})
	total := 0
	err := paging.Walk(context.Background(), s, paging.DefaultConfig(), 0, func(_ app.PageRequest, items []domain.Item) error {
		total += len(items)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, total)
	assert.Equal(t, 5, s.Calls())
}
