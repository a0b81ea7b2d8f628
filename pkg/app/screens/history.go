package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangas-reader/pkg/app/components"
	"github.com/kerbaras/mangas-reader/pkg/app/styles"
	"github.com/kerbaras/mangas-reader/pkg/data"
	"github.com/kerbaras/mangas-reader/pkg/labels"
)

type historyLoadedMsg struct {
	entries []data.EnrichedHistory
	err     error
}

// HistoryScreen lists the titles the user has been reading, newest first as
// the server returns them.
type HistoryScreen struct {
	deps    *Deps
	entries []data.EnrichedHistory
	list    *components.MangaList
	spinner spinner.Model
	loading bool
	err     error
	width   int
	height  int
}

func NewHistoryScreen(deps *Deps) *HistoryScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusLoading

	list := components.NewMangaList()
	list.EmptyText = "No reading history yet. Open a chapter to start tracking."

	return &HistoryScreen{deps: deps, list: list, spinner: sp, loading: true}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.load())
}

func (s *HistoryScreen) load() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx, cancel := deps.requestContext()
		defer cancel()
		entries, err := deps.Controller.History(ctx)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.list.Width = msg.Width
		s.list.Height = msg.Height - 4

	case historyLoadedMsg:
		s.loading = false
		s.err = msg.err
		if msg.err == nil {
			s.entries = msg.entries
			s.list.SetItems(historyItems(msg.entries))
		}
		return s, sessionCheck(msg.err)

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.list.Prev()
		case "down", "j":
			s.list.Next()
		case "r":
			if !s.loading {
				s.loading = true
				return s, tea.Batch(s.spinner.Tick, s.load())
			}
		case "enter":
			if e := s.selectedEntry(); e != nil {
				return s, navigate(ReaderRoute(e.ChapterID, e.Source))
			}
		case "o":
			if e := s.selectedEntry(); e != nil {
				return s, navigate(TitleRoute(e.MangaID, e.Source))
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) selectedEntry() *data.EnrichedHistory {
	if len(s.entries) == 0 || s.list.SelectedIndex >= len(s.entries) {
		return nil
	}
	return &s.entries[s.list.SelectedIndex]
}

func historyItems(entries []data.EnrichedHistory) []components.MangaListItem {
	items := make([]components.MangaListItem, 0, len(entries))
	for _, e := range entries {
		title := e.DisplayTitle
		if title == "" {
			title = e.MangaTitle
		}

		chapter := e.ChapterTitle
		if chapter == "" {
			chapter = e.ChapterID
		}
		last := "Last read: " + labels.ChapterLabel(chapter)
		if ts, ok := e.LastRead(); ok {
			last += " • " + ts.Local().Format("2006-01-02 15:04")
		}
		details := []string{last}

		if e.TotalChapters > 0 {
			latest := labels.ChapterLabel(e.LatestChapterTitle)
			details = append(details, fmt.Sprintf("Latest: %s • %d chapters", latest, e.TotalChapters))
		}

		item := components.MangaListItem{
			ID:      e.MangaID,
			Title:   title,
			Source:  e.Source,
			Details: details,
		}
		if e.UnreadCount > 0 {
			item.Badge = fmt.Sprintf("%d new", e.UnreadCount)
		}
		items = append(items, item)
	}
	return items
}

func (s *HistoryScreen) View() string {
	header := styles.TitleStyle.Render("Reading history")

	var body string
	switch {
	case s.loading && len(s.entries) == 0:
		body = s.spinner.View() + " " + styles.StatusLoading.Render("Loading history...")
	case s.err != nil:
		body = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
	default:
		body = s.list.View()
	}

	help := styles.HelpStyle.Render(strings.Join([]string{
		"↑/k ↓/j: navigate",
		"enter: continue",
		"o: details",
		"r: refresh",
		"tab: switch view",
		"q: quit",
	}, " • "))

	return fmt.Sprintf("%s\n%s\n%s", header, body, help)
}
