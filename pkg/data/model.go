package data

import "time"

// lastReadLayouts covers RFC 3339 and the naive ISO timestamps the API emits.
var lastReadLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05",
}

// TitleSummary is a catalog card as returned by the listing and search endpoints.
type TitleSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CoverURL      string `json:"cover_url"`
	LatestChapter string `json:"latest_chapter"`
	Rating        string `json:"rating"`
}

type ChapterRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Title is a manga series with its chapter index. Chapters are ordered newest-first.
type Title struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	CoverURL    string       `json:"cover_url"`
	Author      string       `json:"author"`
	Status      string       `json:"status"`
	Genres      []string     `json:"genres"`
	Description string       `json:"description"`
	Chapters    []ChapterRef `json:"chapters"`
}

// FirstChapter returns the oldest chapter, which is the last one in the list.
func (t *Title) FirstChapter() *ChapterRef {
	if t == nil || len(t.Chapters) == 0 {
		return nil
	}
	return &t.Chapters[len(t.Chapters)-1]
}

// IndexOf returns the position of chapterID in the newest-first list, or -1.
func (t *Title) IndexOf(chapterID string) int {
	if t == nil {
		return -1
	}
	for i, ch := range t.Chapters {
		if ch.ID == chapterID {
			return i
		}
	}
	return -1
}

// ChapterTitle returns the display title of chapterID, or the id itself when unknown.
func (t *Title) ChapterTitle(chapterID string) string {
	if i := t.IndexOf(chapterID); i >= 0 && t.Chapters[i].Title != "" {
		return t.Chapters[i].Title
	}
	return chapterID
}

// Chapter is the reader payload for a single chapter.
type Chapter struct {
	ID            string   `json:"id"`
	MangaID       string   `json:"manga_id"`
	MangaTitle    string   `json:"manga_title"`
	Images        []string `json:"images"`
	PrevChapterID string   `json:"prev_chapter_id"`
	NextChapterID string   `json:"next_chapter_id"`
}

func (c *Chapter) HasPrev() bool { return c != nil && c.PrevChapterID != "" }
func (c *Chapter) HasNext() bool { return c != nil && c.NextChapterID != "" }

// HistoryEntry is the server-side "last read" pointer for a title.
type HistoryEntry struct {
	ID             int64  `json:"id"`
	MangaID        string `json:"manga_id"`
	ChapterID      string `json:"chapter_id"`
	MangaTitle     string `json:"manga_title"`
	ChapterTitle   string `json:"chapter_title"`
	CoverURL       string `json:"cover_url"`
	LastReadAt     string `json:"last_read_at"`
	Page           int    `json:"page"`
	ScrollPosition int    `json:"scroll_position"`
	Source         string `json:"source,omitempty"`
}

// LastRead parses LastReadAt. Naive timestamps are taken as UTC.
func (h *HistoryEntry) LastRead() (time.Time, bool) {
	for _, layout := range lastReadLayouts {
		if t, err := time.Parse(layout, h.LastReadAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ProgressUpdate is the body of POST /history.
type ProgressUpdate struct {
	MangaID        string `json:"manga_id"`
	MangaTitle     string `json:"manga_title"`
	CoverURL       string `json:"cover_url"`
	ChapterID      string `json:"chapter_id"`
	ChapterTitle   string `json:"chapter_title"`
	Page           int    `json:"page"`
	ScrollPosition int    `json:"scroll_position"`
}

// EnrichedHistory is a history entry joined with a fresh lookup of its title.
type EnrichedHistory struct {
	HistoryEntry
	UnreadCount        int
	LatestChapterTitle string
	FreshCover         string
	DisplayTitle       string
	TotalChapters      int
}
