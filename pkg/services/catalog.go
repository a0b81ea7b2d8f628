package services

import (
	"context"
	"errors"
	"sync"

	"github.com/kerbaras/mangas-reader/pkg/data"
	"github.com/kerbaras/mangas-reader/pkg/sources"
)

// ErrBusy is returned by LoadMore while another load is in flight.
var ErrBusy = errors.New("catalog is already loading")

// PageFetcher lists one page of a source's catalog.
type PageFetcher interface {
	ListTitles(ctx context.Context, source string, page int) ([]data.TitleSummary, error)
}

// Catalog accumulates catalog pages of one source, dropping titles that
// were already listed.
type Catalog struct {
	mu        sync.Mutex
	fetcher   PageFetcher
	source    string
	page      int
	items     []data.TitleSummary
	seen      map[string]struct{}
	exhausted bool
	loading   bool
	epoch     int
}

func NewCatalog(fetcher PageFetcher, source string) *Catalog {
	c := &Catalog{fetcher: fetcher}
	c.Reset(source)
	return c
}

// Reset discards every loaded page and switches to source.
func (c *Catalog) Reset(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = sources.OrDefault(source)
	c.page = 1
	c.items = nil
	c.seen = make(map[string]struct{})
	c.exhausted = false
	c.loading = false
	c.epoch++
}

// LoadMore fetches the next page and appends its unseen titles. The first
// call fetches page 1. An empty page marks the catalog exhausted. On error
// nothing changes, so the same page is requested again next time.
func (c *Catalog) LoadMore(ctx context.Context) (added int, err error) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return 0, ErrBusy
	}
	if c.exhausted {
		c.mu.Unlock()
		return 0, nil
	}
	next := c.page + 1
	if len(c.items) == 0 {
		next = 1
	}
	source, epoch := c.source, c.epoch
	c.loading = true
	c.mu.Unlock()

	page, err := c.fetcher.ListTitles(ctx, source, next)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		// Reset while loading; the result belongs to a different source.
		return 0, nil
	}
	c.loading = false
	if err != nil {
		return 0, err
	}
	if len(page) == 0 {
		c.exhausted = true
		return 0, nil
	}
	for _, item := range page {
		if _, dup := c.seen[item.ID]; dup {
			continue
		}
		c.seen[item.ID] = struct{}{}
		c.items = append(c.items, item)
		added++
	}
	c.page = next
	return added, nil
}

// Items returns a copy of the loaded titles in display order.
func (c *Catalog) Items() []data.TitleSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]data.TitleSummary, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Catalog) Source() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Page returns the last page that was merged.
func (c *Catalog) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Catalog) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exhausted
}

func (c *Catalog) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}
