package services

import (
	"context"

	"github.com/kerbaras/mangas-reader/pkg/data"
	"github.com/kerbaras/mangas-reader/pkg/sources"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// TitleFetcher looks up a title with its current chapter index.
type TitleFetcher interface {
	GetTitle(ctx context.Context, id, source string) (*data.Title, error)
}

// UnreadCount estimates how many chapters are newer than chapterID in a
// newest-first list. A chapter that is not listed counts as zero.
func UnreadCount(chapters []data.ChapterRef, chapterID string) int {
	for i, ch := range chapters {
		if ch.ID == chapterID {
			return i
		}
	}
	return 0
}

// Enricher joins history entries with a fresh lookup of their titles.
type Enricher struct {
	titles TitleFetcher
}

func NewEnricher(titles TitleFetcher) *Enricher {
	return &Enricher{titles: titles}
}

// Enrich looks every entry up concurrently and returns one result per entry,
// in the same order. A failed lookup keeps the cached cover and title.
func (e *Enricher) Enrich(ctx context.Context, entries []data.HistoryEntry) []data.EnrichedHistory {
	out := make([]data.EnrichedHistory, len(entries))
	g, gctx := errgroup.WithContext(ctx)

	for i, entry := range entries {
		entry.Source = sources.OrDefault(entry.Source)
		out[i] = fallback(entry)

		g.Go(func() error {
			title, err := e.titles.GetTitle(gctx, entry.MangaID, entry.Source)
			if err != nil {
				log.Warn().Err(err).
					Str("manga", entry.MangaID).
					Str("source", entry.Source).
					Msg("history enrichment failed")
				return nil
			}
			out[i] = enrich(entry, title)
			return nil
		})
	}

	_ = g.Wait()
	return out
}

func fallback(entry data.HistoryEntry) data.EnrichedHistory {
	return data.EnrichedHistory{
		HistoryEntry: entry,
		FreshCover:   entry.CoverURL,
		DisplayTitle: entry.MangaTitle,
	}
}

func enrich(entry data.HistoryEntry, title *data.Title) data.EnrichedHistory {
	if title == nil {
		return fallback(entry)
	}
	result := fallback(entry)
	if title.CoverURL != "" {
		result.FreshCover = title.CoverURL
	}
	if title.Title != "" {
		result.DisplayTitle = title.Title
	}
	if len(title.Chapters) > 0 {
		latest := title.Chapters[0]
		result.LatestChapterTitle = latest.Title
		if latest.Title == "" {
			result.LatestChapterTitle = latest.ID
		}
	}
	result.TotalChapters = len(title.Chapters)
	result.UnreadCount = UnreadCount(title.Chapters, entry.ChapterID)
	return result
}
