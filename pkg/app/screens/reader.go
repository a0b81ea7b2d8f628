package screens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangas-reader/pkg/app/components"
	"github.com/kerbaras/mangas-reader/pkg/app/styles"
	"github.com/kerbaras/mangas-reader/pkg/data"
	"github.com/kerbaras/mangas-reader/pkg/labels"
	"github.com/kerbaras/mangas-reader/pkg/services"
	"github.com/kerbaras/mangas-reader/pkg/utils"
	"github.com/rs/zerolog/log"
)

// Rows of chrome around the page strip: header, status, blank, help.
const readerChrome = 4

type chapterOpenedMsg struct {
	gen  int
	data *services.ChapterData
	err  error
}

type parentTitleMsg struct {
	gen   int
	title *data.Title
}

type pageLoadedMsg struct {
	event services.PageLoaded
}

type pagesDoneMsg struct {
	gen int
}

type restoreTimeoutMsg struct {
	gen int
}

type debounceMsg struct {
	gen int
	seq int
}

type progressSavedMsg struct {
	gen int
	err error
}

// ReaderScreen shows one chapter as a vertical strip of pages, restores the
// saved position once the pages are laid out and saves progress while the
// reader scrolls.
type ReaderScreen struct {
	deps     *Deps
	source   string
	keys     readerKeyMap
	tracker  *services.Tracker
	layout   *services.Layout
	progress *components.ProgressTracker
	spinner  spinner.Model

	offset  int
	events  <-chan services.PageLoaded
	cancel  context.CancelFunc
	saveErr error
	err     error

	selecting bool
	selected  int

	width  int
	height int
}

func NewReaderScreen(deps *Deps, chapterID, source string) *ReaderScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusLoading

	s := &ReaderScreen{
		deps:     deps,
		source:   source,
		keys:     newReaderKeyMap(),
		tracker:  services.NewTracker(),
		layout:   services.NewLayout(0, 0),
		progress: components.NewProgressTracker(80),
		spinner:  sp,
	}
	s.tracker.Enter(chapterID)
	return s
}

// Tracker exposes the chapter state, mostly for tests.
func (s *ReaderScreen) Tracker() *services.Tracker { return s.tracker }

// Offset is the current position in px from the top of the chapter.
func (s *ReaderScreen) Offset() int { return s.offset }

func (s *ReaderScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.open(s.tracker.Gen(), s.tracker.ChapterID()))
}

// enter switches to chapterID in place, dropping everything the previous
// chapter had in flight.
func (s *ReaderScreen) enter(chapterID string) tea.Cmd {
	s.stopLoader()
	gen := s.tracker.Enter(chapterID)
	s.offset = 0
	s.layout = services.NewLayout(0, 0)
	s.progress.Reset(0)
	s.selecting = false
	s.saveErr = nil
	s.err = nil
	route := ReaderRoute(chapterID, s.source)
	return tea.Batch(
		s.spinner.Tick,
		s.open(gen, chapterID),
		func() tea.Msg { return ReplaceMsg{Route: route} },
	)
}

// Close stops page loads and invalidates pending timers.
func (s *ReaderScreen) Close() {
	s.stopLoader()
	s.tracker.Close()
}

func (s *ReaderScreen) stopLoader() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.events = nil
}

func (s *ReaderScreen) open(gen int, chapterID string) tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx, cancel := deps.requestContext()
		defer cancel()
		data, err := deps.Controller.OpenChapter(ctx, chapterID)
		return chapterOpenedMsg{gen: gen, data: data, err: err}
	}
}

func (s *ReaderScreen) fetchParent(gen int, mangaID string) tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx, cancel := deps.requestContext()
		defer cancel()
		title, err := deps.Controller.ParentTitle(ctx, mangaID)
		if err != nil {
			log.Warn().Err(err).Str("manga", mangaID).Msg("chapter index unavailable")
			return nil
		}
		return parentTitleMsg{gen: gen, title: title}
	}
}

// waitForPage delivers the next page event, the same way the loader emits
// them: one at a time until the channel closes.
func waitForPage(gen int, events <-chan services.PageLoaded) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return pagesDoneMsg{gen: gen}
		}
		return pageLoadedMsg{event: event}
	}
}

func (s *ReaderScreen) startLoader(gen int, chapter *data.Chapter) tea.Cmd {
	urls := make([]string, len(chapter.Images))
	for i, u := range chapter.Images {
		urls[i] = s.deps.Client.ImageURL(u, s.source)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.events = s.deps.Loader.Load(ctx, gen, urls)
	return waitForPage(gen, s.events)
}

func (s *ReaderScreen) placeholderHeight() int {
	// Portrait pages are usually about half again as tall as they are wide.
	return s.deps.Config.PageWidth * 3 / 2
}

func (s *ReaderScreen) rowHeight() int {
	if s.deps.Config.RowHeight <= 0 {
		return 1
	}
	return s.deps.Config.RowHeight
}

func (s *ReaderScreen) rows() int {
	return max(s.height-readerChrome, 1)
}

// viewport is the visible height in px.
func (s *ReaderScreen) viewport() int {
	return s.rows() * s.rowHeight()
}

// apply carries out what the tracker asked for.
func (s *ReaderScreen) apply(action services.Action) tea.Cmd {
	if action.Seek {
		s.offset = s.layout.Clamp(action.Offset, s.viewport())
		log.Debug().
			Str("chapter", s.tracker.ChapterID()).
			Int("target", action.Offset).
			Int("offset", s.offset).
			Msg("restored reading position")
	}
	if action.ArmTimeout {
		gen := s.tracker.Gen()
		return tea.Tick(services.RestoreTimeout, func(time.Time) tea.Msg {
			return restoreTimeoutMsg{gen: gen}
		})
	}
	return nil
}

// scrollTo moves the strip to offset and arms the save debounce.
func (s *ReaderScreen) scrollTo(offset int) tea.Cmd {
	st := s.tracker.State()
	if st == services.StateLoading || st == services.StateNotFound {
		return nil
	}
	offset = s.layout.Clamp(offset, s.viewport())
	if offset == s.offset {
		return nil
	}
	s.offset = offset
	gen := s.tracker.Gen()
	seq, ok := s.tracker.Scrolled(gen, offset)
	if !ok {
		return nil
	}
	return tea.Tick(services.SaveDebounce, func(time.Time) tea.Msg {
		return debounceMsg{gen: gen, seq: seq}
	})
}

func (s *ReaderScreen) save(gen int, update data.ProgressUpdate) tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx, cancel := deps.requestContext()
		defer cancel()
		return progressSavedMsg{gen: gen, err: deps.Controller.SaveProgress(ctx, update)}
	}
}

func (s *ReaderScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.progress.SetWidth(msg.Width)
		return s, nil

	case chapterOpenedMsg:
		if msg.gen != s.tracker.Gen() {
			return s, nil
		}
		if msg.err != nil {
			s.tracker.Failed(msg.gen)
			if !errors.Is(msg.err, utils.ErrNotFound) {
				s.err = msg.err
			}
			log.Error().Err(msg.err).Str("chapter", s.tracker.ChapterID()).Msg("failed to open chapter")
			return s, sessionCheck(msg.err)
		}
		chapter := msg.data.Chapter
		s.layout = services.NewLayout(len(chapter.Images), s.placeholderHeight())
		s.progress.Reset(len(chapter.Images))
		action := s.tracker.Loaded(msg.gen, chapter, msg.data.SavedOffset)
		return s, tea.Batch(
			s.startLoader(msg.gen, chapter),
			s.fetchParent(msg.gen, chapter.MangaID),
			s.apply(action),
		)

	case parentTitleMsg:
		s.tracker.SetTitle(msg.gen, msg.title)
		if msg.gen == s.tracker.Gen() && msg.title != nil {
			s.selected = max(msg.title.IndexOf(s.tracker.ChapterID()), 0)
		}
		return s, nil

	case pageLoadedMsg:
		event := msg.event
		if event.Gen != s.tracker.Gen() {
			return s, nil
		}
		s.progress.Update(event)
		var action services.Action
		if event.Err == nil {
			s.layout.Set(event.Index, event.Height)
			action = s.tracker.ImageLoaded(event.Gen)
		}
		return s, tea.Batch(waitForPage(event.Gen, s.events), s.apply(action))

	case pagesDoneMsg:
		if msg.gen == s.tracker.Gen() {
			s.events = nil
			// Pages may have shrunk below the offset.
			s.offset = s.layout.Clamp(s.offset, s.viewport())
		}
		return s, nil

	case restoreTimeoutMsg:
		return s, s.apply(s.tracker.RestoreTimedOut(msg.gen))

	case debounceMsg:
		update, ok := s.tracker.DebounceFired(msg.gen, msg.seq, s.layout.PageAt(s.offset))
		if !ok {
			return s, nil
		}
		return s, s.save(msg.gen, update)

	case progressSavedMsg:
		if msg.gen == s.tracker.Gen() {
			s.saveErr = msg.err
		}
		return s, sessionCheck(msg.err)

	case spinner.TickMsg:
		if s.tracker.State() != services.StateLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.MouseMsg:
		if s.selecting || msg.Action != tea.MouseActionPress {
			return s, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			return s, s.scrollTo(s.offset + 3*s.rowHeight())
		case tea.MouseButtonWheelUp:
			return s, s.scrollTo(s.offset - 3*s.rowHeight())
		}
		return s, nil

	case tea.KeyMsg:
		if s.selecting {
			return s, s.updateSelector(msg)
		}
		return s, s.updateKeys(msg)
	}
	return s, nil
}

func (s *ReaderScreen) updateKeys(msg tea.KeyMsg) tea.Cmd {
	chapter := s.tracker.Chapter()
	page := s.viewport() - s.rowHeight()

	switch {
	case key.Matches(msg, s.keys.Back):
		s.Close()
		return back
	case key.Matches(msg, s.keys.Down):
		return s.scrollTo(s.offset + s.rowHeight())
	case key.Matches(msg, s.keys.Up):
		return s.scrollTo(s.offset - s.rowHeight())
	case key.Matches(msg, s.keys.PageDown):
		return s.scrollTo(s.offset + page)
	case key.Matches(msg, s.keys.PageUp):
		return s.scrollTo(s.offset - page)
	case key.Matches(msg, s.keys.Top):
		return s.scrollTo(0)
	case key.Matches(msg, s.keys.Bottom):
		return s.scrollTo(s.layout.Total())
	case key.Matches(msg, s.keys.Next):
		if chapter.HasNext() {
			return s.enter(chapter.NextChapterID)
		}
	case key.Matches(msg, s.keys.Prev):
		if chapter.HasPrev() {
			return s.enter(chapter.PrevChapterID)
		}
	case key.Matches(msg, s.keys.Chapters):
		if t := s.tracker.Title(); t != nil && len(t.Chapters) > 0 {
			s.selecting = true
			s.selected = max(t.IndexOf(s.tracker.ChapterID()), 0)
		}
	}
	return nil
}

func (s *ReaderScreen) updateSelector(msg tea.KeyMsg) tea.Cmd {
	t := s.tracker.Title()
	if t == nil {
		s.selecting = false
		return nil
	}
	switch {
	case key.Matches(msg, s.keys.Back), key.Matches(msg, s.keys.Chapters):
		s.selecting = false
	case key.Matches(msg, s.keys.Down):
		s.selected = min(s.selected+1, len(t.Chapters)-1)
	case key.Matches(msg, s.keys.Up):
		s.selected = max(s.selected-1, 0)
	case key.Matches(msg, s.keys.Top):
		s.selected = 0
	case key.Matches(msg, s.keys.Bottom):
		s.selected = len(t.Chapters) - 1
	case key.Matches(msg, s.keys.Select):
		id := t.Chapters[s.selected].ID
		if id == s.tracker.ChapterID() {
			s.selecting = false
			return nil
		}
		return s.enter(id)
	}
	return nil
}

func (s *ReaderScreen) chapterLabel() string {
	id := s.tracker.ChapterID()
	if t := s.tracker.Title(); t != nil {
		return labels.ChapterLabel(t.ChapterTitle(id))
	}
	return labels.ChapterLabel(id)
}

func (s *ReaderScreen) header() string {
	title := ""
	if ch := s.tracker.Chapter(); ch != nil {
		title = ch.MangaTitle
	}
	if title == "" && s.tracker.Title() != nil {
		title = s.tracker.Title().Title
	}
	width := max(s.width-2, 20)
	text := s.chapterLabel()
	if title != "" {
		text = title + " • " + text
	}
	return styles.ReaderBarStyle.Width(width).Render(labels.Truncate(text, width-2))
}

func (s *ReaderScreen) View() string {
	switch s.tracker.State() {
	case services.StateLoading:
		return s.header() + "\n\n" + s.spinner.View() + " " + styles.StatusLoading.Render("Loading chapter...")
	case services.StateNotFound:
		text := "Chapter not found"
		if s.err != nil {
			text = fmt.Sprintf("Could not load chapter: %s", s.err)
		}
		return s.header() + "\n\n" + styles.StatusError.Render(text) + "\n\n" +
			styles.HelpStyle.Render(helpLine(s.keys.Back))
	}

	status := s.progress.View(s.tracker.Restoring())
	if s.saveErr != nil {
		if status != "" {
			status += "  "
		}
		status += styles.StatusWarning.Render("progress not saved")
	}

	var body string
	if s.selecting {
		body = s.renderSelector()
	} else {
		body = components.PageStrip{
			Layout:    s.layout,
			Images:    s.tracker.Chapter().Images,
			RowHeight: s.rowHeight(),
			Width:     max(s.width-2, 20),
			Height:    s.rows(),
			Failed:    s.progress.PageFailed,
		}.View(s.offset)
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s", s.header(), status, body, s.footer())
}

func (s *ReaderScreen) footer() string {
	if s.selecting {
		return styles.HelpStyle.Render(helpLine(s.keys.Up, s.keys.Down, s.keys.Select, s.keys.Back))
	}
	chapter := s.tracker.Chapter()
	next, prev, chapters := s.keys.Next, s.keys.Prev, s.keys.Chapters
	next.SetEnabled(chapter.HasNext())
	prev.SetEnabled(chapter.HasPrev())
	chapters.SetEnabled(s.tracker.Title() != nil)

	position := fmt.Sprintf("Page %d/%d", max(s.layout.PageAt(s.offset), 1), s.layout.Len())
	return styles.MutedStyle.Render(position) + "  " + styles.HelpStyle.Render(helpLine(
		s.keys.Down, s.keys.PageDown, s.keys.PageUp,
		prev, next, chapters, s.keys.Back,
	))
}

func (s *ReaderScreen) renderSelector() string {
	t := s.tracker.Title()
	rows := s.rows()
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(t.Chapters))
	width := max(s.width-4, 20)

	lines := make([]string, 0, rows)
	for i := start; i < end; i++ {
		ch := t.Chapters[i]
		text := ch.Title
		if text == "" {
			text = ch.ID
		}
		text = labels.Truncate(labels.ChapterLabel(text), width)
		switch {
		case i == s.selected:
			lines = append(lines, styles.SelectedStyle.Render("▸ "+text))
		case ch.ID == s.tracker.ChapterID():
			lines = append(lines, styles.StatusSuccess.Render("• "+text))
		default:
			lines = append(lines, styles.TextStyle.Render("  "+text))
		}
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
