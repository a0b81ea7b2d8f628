package services

import (
	"context"
	"fmt"

	"github.com/kerbaras/mangas-reader/pkg/data"
	"github.com/kerbaras/mangas-reader/pkg/sources"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Backend is the remote API as seen by the screens and commands.
type Backend interface {
	PageFetcher
	TitleFetcher
	GetChapter(ctx context.Context, id string) (*data.Chapter, error)
	ListHistory(ctx context.Context) ([]data.HistoryEntry, error)
	GetHistory(ctx context.Context, mangaID, source string) (*data.HistoryEntry, error)
	SaveHistory(ctx context.Context, update data.ProgressUpdate) error
	Search(ctx context.Context, q string) ([]data.TitleSummary, error)
}

// MangaController composes backend calls into what each screen needs.
type MangaController struct {
	backend  Backend
	enricher *Enricher
}

func NewMangaController(backend Backend) *MangaController {
	return &MangaController{backend: backend, enricher: NewEnricher(backend)}
}

func (c *MangaController) Backend() Backend { return c.backend }

// NewCatalog returns an empty catalog of source.
func (c *MangaController) NewCatalog(source string) *Catalog {
	return NewCatalog(c.backend, source)
}

// ChapterData is what the reader needs to open a chapter.
type ChapterData struct {
	Chapter     *data.Chapter
	SavedOffset int
}

// OpenChapter fetches the chapter and the history list concurrently. Only
// the chapter is required; history failures read as no saved offset.
func (c *MangaController) OpenChapter(ctx context.Context, chapterID string) (*ChapterData, error) {
	var (
		chapter *data.Chapter
		history []data.HistoryEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chapter, err = c.backend.GetChapter(gctx, chapterID)
		if err != nil {
			return fmt.Errorf("chapter %s: %w", chapterID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		history, err = c.backend.ListHistory(gctx)
		if err != nil {
			log.Warn().Err(err).Str("chapter", chapterID).Msg("history unavailable, starting at the top")
			history = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if chapter == nil {
		return nil, fmt.Errorf("chapter %s: empty response", chapterID)
	}
	if chapter.ID == "" {
		chapter.ID = chapterID
	}
	return &ChapterData{Chapter: chapter, SavedOffset: SavedOffset(history, chapterID)}, nil
}

// ParentTitle fetches the chapter index of the title a chapter belongs to.
func (c *MangaController) ParentTitle(ctx context.Context, mangaID string) (*data.Title, error) {
	if mangaID == "" {
		return nil, fmt.Errorf("chapter has no parent title")
	}
	return c.backend.GetTitle(ctx, mangaID, "")
}

// TitleSource returns the source the user last read mangaID from, or the
// default source when the history has no entry for it.
func (c *MangaController) TitleSource(ctx context.Context, mangaID string) string {
	history, err := c.backend.ListHistory(ctx)
	if err != nil {
		log.Warn().Err(err).Str("manga", mangaID).Msg("history unavailable, using the default source")
		return sources.DefaultID
	}
	for _, e := range history {
		if e.MangaID == mangaID && e.Source != "" {
			return e.Source
		}
	}
	return sources.DefaultID
}

// TitleData is what the details screen needs.
type TitleData struct {
	Title   *data.Title
	Source  string
	History *data.HistoryEntry
}

// ContinueChapter returns the chapter to resume, or "" when the title has
// no reading history.
func (d *TitleData) ContinueChapter() string {
	if d == nil || d.History == nil {
		return ""
	}
	return d.History.ChapterID
}

// FirstChapter returns the oldest chapter id, or "" for an empty index.
func (d *TitleData) FirstChapter() string {
	if d == nil {
		return ""
	}
	if first := d.Title.FirstChapter(); first != nil {
		return first.ID
	}
	return ""
}

// OpenTitle fetches the title and, independently, its history entry.
func (c *MangaController) OpenTitle(ctx context.Context, id, source string) (*TitleData, error) {
	out := &TitleData{Source: source}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		title, err := c.backend.GetTitle(gctx, id, source)
		if err != nil {
			return fmt.Errorf("title %s: %w", id, err)
		}
		out.Title = title
		return nil
	})
	g.Go(func() error {
		entry, err := c.backend.GetHistory(gctx, id, source)
		if err != nil {
			log.Warn().Err(err).Str("manga", id).Msg("history lookup failed, continue disabled")
			return nil
		}
		out.History = entry
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if out.Title == nil {
		return nil, fmt.Errorf("title %s: empty response", id)
	}
	return out, nil
}

// History lists the reading history with every entry enriched.
func (c *MangaController) History(ctx context.Context) ([]data.EnrichedHistory, error) {
	entries, err := c.backend.ListHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return c.enricher.Enrich(ctx, entries), nil
}

func (c *MangaController) Search(ctx context.Context, q string) ([]data.TitleSummary, error) {
	return c.backend.Search(ctx, q)
}

// SaveProgress persists update. Failures are logged and returned; the next
// scroll retries.
func (c *MangaController) SaveProgress(ctx context.Context, update data.ProgressUpdate) error {
	if err := c.backend.SaveHistory(ctx, update); err != nil {
		log.Error().Err(err).
			Str("chapter", update.ChapterID).
			Int("offset", update.ScrollPosition).
			Msg("failed to save progress")
		return err
	}
	log.Debug().Str("chapter", update.ChapterID).Int("offset", update.ScrollPosition).Msg("progress saved")
	return nil
}
