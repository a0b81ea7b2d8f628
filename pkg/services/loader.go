package services

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ImageOpener issues the GET for a page image. The caller closes the body.
type ImageOpener interface {
	Open(ctx context.Context, rawURL string) (*http.Response, error)
}

// PageLoaded reports one finished page image. Height is scaled to the
// configured page width. Err is set when the image could not be loaded.
type PageLoaded struct {
	Gen    int
	Index  int
	Width  int
	Height int
	Err    error
}

type LoaderConfig struct {
	PageWidth   int
	Concurrency int
	// Rate is the number of image requests per second; zero disables pacing.
	Rate float64
}

type dimensions struct {
	width, height int
}

// PageLoader fetches page images only far enough to learn their size, so the
// reader can lay out the chapter strip.
type PageLoader struct {
	opener      ImageOpener
	pageWidth   int
	concurrency int
	limiter     *rate.Limiter
	dims        *cache.Cache
}

func NewPageLoader(opener ImageOpener, cfg LoaderConfig) *PageLoader {
	l := &PageLoader{
		opener:      opener,
		pageWidth:   cfg.PageWidth,
		concurrency: cfg.Concurrency,
		dims:        cache.New(30*time.Minute, time.Hour),
	}
	if l.pageWidth <= 0 {
		l.pageWidth = 720
	}
	if l.concurrency <= 0 {
		l.concurrency = 1
	}
	if cfg.Rate > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), l.concurrency)
	}
	return l
}

// Load starts fetching urls and returns a channel that receives exactly one
// event per url, in completion order, and is closed afterwards. Cancelling
// ctx stops outstanding fetches; they report ctx.Err().
func (l *PageLoader) Load(ctx context.Context, gen int, urls []string) <-chan PageLoaded {
	events := make(chan PageLoaded, len(urls))

	go func() {
		defer close(events)
		g := new(errgroup.Group)
		g.SetLimit(l.concurrency)

		for i, u := range urls {
			g.Go(func() error {
				event := PageLoaded{Gen: gen, Index: i}
				d, err := l.measure(ctx, u)
				if err != nil {
					log.Debug().Err(err).Int("page", i).Str("url", u).Msg("page image failed")
					event.Err = err
				} else {
					event.Width = d.width
					event.Height = l.scaledHeight(d)
				}
				events <- event
				return nil
			})
		}
		_ = g.Wait()
	}()

	return events
}

func (l *PageLoader) measure(ctx context.Context, u string) (dimensions, error) {
	if cached, ok := l.dims.Get(u); ok {
		return cached.(dimensions), nil
	}
	if err := ctx.Err(); err != nil {
		return dimensions{}, err
	}
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return dimensions{}, err
		}
	}

	resp, err := l.opener.Open(ctx, u)
	if err != nil {
		return dimensions{}, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	cfg, format, err := image.DecodeConfig(resp.Body)
	if err != nil {
		return dimensions{}, fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return dimensions{}, fmt.Errorf("invalid %s dimensions %dx%d", format, cfg.Width, cfg.Height)
	}

	d := dimensions{width: cfg.Width, height: cfg.Height}
	l.dims.SetDefault(u, d)
	return d, nil
}

func (l *PageLoader) scaledHeight(d dimensions) int {
	h := d.height * l.pageWidth / d.width
	if h < 1 {
		return 1
	}
	return h
}
