package services

import (
	"time"

	"github.com/kerbaras/mangas-reader/pkg/data"
)

const (
	// RestoreTimeout bounds how long a saved position waits for page images.
	RestoreTimeout = 5 * time.Second
	// SaveDebounce is the scroll inactivity after which progress is saved.
	SaveDebounce = time.Second
	// MinSaveOffset is the offset below which the reader counts as "at the top".
	MinSaveOffset = 100
)

type TrackerState int

const (
	StateLoading TrackerState = iota
	StateAwaitingRestore
	StateTracking
	StateNotFound
)

func (s TrackerState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAwaitingRestore:
		return "awaiting-restore"
	case StateTracking:
		return "tracking"
	case StateNotFound:
		return "not-found"
	}
	return "unknown"
}

// Action tells the reader what to do after a tracker transition.
type Action struct {
	// Seek requests a single jump to Offset.
	Seek   bool
	Offset int
	// ArmTimeout requests a RestoreTimeout timer for the current generation.
	ArmTimeout bool
}

// Tracker is the scroll-position state machine of one reader. Every chapter
// load starts a new generation; events and timers carrying an older
// generation are ignored, which is how leaving a chapter cancels them.
type Tracker struct {
	gen       int
	state     TrackerState
	chapterID string
	chapter   *data.Chapter
	title     *data.Title

	target   int
	total    int
	loaded   int
	restored bool

	offset int
	seq    int
}

func NewTracker() *Tracker {
	return &Tracker{state: StateLoading}
}

// Enter starts loading chapterID and returns the new generation.
func (t *Tracker) Enter(chapterID string) int {
	t.gen++
	*t = Tracker{gen: t.gen, state: StateLoading, chapterID: chapterID}
	return t.gen
}

// Close invalidates every outstanding timer and event.
func (t *Tracker) Close() {
	t.gen++
	t.state = StateLoading
}

func (t *Tracker) Gen() int {
	return t.gen
}

func (t *Tracker) State() TrackerState {
	return t.state
}

func (t *Tracker) ChapterID() string {
	return t.chapterID
}

func (t *Tracker) Chapter() *data.Chapter {
	return t.chapter
}

func (t *Tracker) Title() *data.Title {
	return t.title
}

func (t *Tracker) Offset() int {
	return t.offset
}

// Restoring reports whether the "restoring position" indicator is shown.
func (t *Tracker) Restoring() bool {
	return t.state == StateAwaitingRestore
}

// Progress returns the image completion count for the current chapter.
func (t *Tracker) Progress() (loaded, total int) {
	return t.loaded, t.total
}

func (t *Tracker) current(gen int) bool {
	return gen == t.gen
}

// Loaded records the fetched chapter and its saved offset.
func (t *Tracker) Loaded(gen int, chapter *data.Chapter, savedOffset int) Action {
	if !t.current(gen) || t.state != StateLoading || chapter == nil {
		return Action{}
	}
	t.chapter = chapter
	t.total = len(chapter.Images)
	t.target = savedOffset

	if savedOffset <= 0 {
		t.target = 0
		t.restored = true
		t.state = StateTracking
		return Action{}
	}
	if t.total == 0 {
		return t.restore()
	}
	t.state = StateAwaitingRestore
	return Action{ArmTimeout: true}
}

// Failed moves the tracker to not-found after the chapter fetch failed.
func (t *Tracker) Failed(gen int) {
	if t.current(gen) && t.state == StateLoading {
		t.state = StateNotFound
	}
}

// SetTitle attaches the parent title used for labels, cover and the chapter
// selector.
func (t *Tracker) SetTitle(gen int, title *data.Title) {
	if t.current(gen) {
		t.title = title
	}
}

// ImageLoaded counts one successfully loaded page image.
func (t *Tracker) ImageLoaded(gen int) Action {
	if !t.current(gen) || t.chapter == nil {
		return Action{}
	}
	if t.loaded < t.total {
		t.loaded++
	}
	if t.state == StateAwaitingRestore && t.loaded >= t.total {
		return t.restore()
	}
	return Action{}
}

// RestoreTimedOut forces the pending restore once the ceiling has elapsed.
func (t *Tracker) RestoreTimedOut(gen int) Action {
	if !t.current(gen) || t.state != StateAwaitingRestore {
		return Action{}
	}
	return t.restore()
}

func (t *Tracker) restore() Action {
	t.state = StateTracking
	if t.restored {
		return Action{}
	}
	t.restored = true
	t.offset = t.target
	return Action{Seek: true, Offset: t.target}
}

// Scrolled records a new offset. When tracking, it returns the debounce
// sequence the caller must arm a SaveDebounce timer with.
func (t *Tracker) Scrolled(gen, offset int) (seq int, ok bool) {
	if !t.current(gen) {
		return 0, false
	}
	t.offset = offset
	if t.state != StateTracking {
		return 0, false
	}
	t.seq++
	return t.seq, true
}

// DebounceFired returns the progress to save when seq is still the latest
// scroll and the offset is past the top of the chapter. page is the 1-based
// page under the offset.
func (t *Tracker) DebounceFired(gen, seq, page int) (data.ProgressUpdate, bool) {
	if !t.current(gen) || seq != t.seq || t.state != StateTracking || t.chapter == nil {
		return data.ProgressUpdate{}, false
	}
	if t.offset < MinSaveOffset {
		return data.ProgressUpdate{}, false
	}
	update := data.ProgressUpdate{
		MangaID:        t.chapter.MangaID,
		MangaTitle:     t.chapter.MangaTitle,
		ChapterID:      t.chapterID,
		ChapterTitle:   t.chapterID,
		Page:           page,
		ScrollPosition: t.offset,
	}
	if page < 1 {
		update.Page = 1
	}
	if t.title != nil {
		update.ChapterTitle = t.title.ChapterTitle(t.chapterID)
		update.CoverURL = t.title.CoverURL
		if update.MangaTitle == "" {
			update.MangaTitle = t.title.Title
		}
	}
	return update, true
}

// SavedOffset finds the history entry for chapterID and returns its offset.
// Entries are matched by chapter id alone, regardless of source.
func SavedOffset(entries []data.HistoryEntry, chapterID string) int {
	for _, e := range entries {
		if e.ChapterID == chapterID {
			if e.ScrollPosition < 0 {
				return 0
			}
			return e.ScrollPosition
		}
	}
	return 0
}
