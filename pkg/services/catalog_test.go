package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kerbaras/mangas-reader/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaries(ids ...string) []data.TitleSummary {
	out := make([]data.TitleSummary, len(ids))
	for i, id := range ids {
		out[i] = data.TitleSummary{ID: id, Title: "Title " + id}
	}
	return out
}

func TestCatalogPaginatesAndDedupes(t *testing.T) {
	pages := map[int][]data.TitleSummary{
		1: summaries("a", "b", "c"),
		2: summaries("c", "d", "d", "e"),
		3: summaries("a", "e"),
	}
	var requested []int
	backend := &mockBackend{
		listTitlesFunc: func(ctx context.Context, source string, page int) ([]data.TitleSummary, error) {
			assert.Equal(t, "reapertrans", source)
			requested = append(requested, page)
			return pages[page], nil
		},
	}

	c := NewCatalog(backend, "reapertrans")
	ctx := context.Background()

	added, err := c.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	added, err = c.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = c.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.False(t, c.Exhausted(), "a page of duplicates is not the end")

	_, err = c.LoadMore(ctx)
	require.NoError(t, err)
	assert.True(t, c.Exhausted())

	_, err = c.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, requested, "no request once exhausted")

	ids := map[string]int{}
	for _, item := range c.Items() {
		ids[item.ID]++
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1, "d": 1, "e": 1}, ids)
	assert.Equal(t, 3, c.Page())
}

func TestCatalogFailureLeavesStateUnchanged(t *testing.T) {
	fail := true
	var requested []int
	backend := &mockBackend{
		listTitlesFunc: func(ctx context.Context, source string, page int) ([]data.TitleSummary, error) {
			requested = append(requested, page)
			if page == 2 && fail {
				return nil, errors.New("502")
			}
			return summaries(string(rune('a' + page))), nil
		},
	}

	c := NewCatalog(backend, "")
	assert.Equal(t, "up-manga", c.Source())

	_, err := c.LoadMore(context.Background())
	require.NoError(t, err)

	_, err = c.LoadMore(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Page())
	assert.False(t, c.Loading())

	fail = false
	_, err = c.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 2}, requested)
	assert.Equal(t, 2, c.Len())
}

func TestCatalogEmptyFirstPage(t *testing.T) {
	c := NewCatalog(&mockBackend{}, "slow-manga")
	_, err := c.LoadMore(context.Background())
	require.NoError(t, err)
	assert.True(t, c.Exhausted())
	assert.Empty(t, c.Items())
}

func TestCatalogBusy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &mockBackend{
		listTitlesFunc: func(ctx context.Context, source string, page int) ([]data.TitleSummary, error) {
			close(started)
			<-release
			return summaries("a"), nil
		},
	}

	c := NewCatalog(backend, "up-manga")
	done := make(chan error)
	go func() {
		_, err := c.LoadMore(context.Background())
		done <- err
	}()

	<-started
	assert.True(t, c.Loading())
	_, err := c.LoadMore(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, c.Len())
}

func TestCatalogResetDropsInFlightResult(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &mockBackend{
		listTitlesFunc: func(ctx context.Context, source string, page int) ([]data.TitleSummary, error) {
			if source == "up-manga" {
				close(started)
				<-release
			}
			return summaries(source), nil
		},
	}

	c := NewCatalog(backend, "up-manga")
	done := make(chan struct{})
	go func() {
		c.LoadMore(context.Background())
		close(done)
	}()

	<-started
	c.Reset("reapertrans")
	close(release)
	<-done

	assert.Empty(t, c.Items())
	_, err := c.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "reapertrans", c.Items()[0].ID)
}
