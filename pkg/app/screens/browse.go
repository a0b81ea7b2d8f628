package screens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangas-reader/pkg/app/components"
	"github.com/kerbaras/mangas-reader/pkg/app/styles"
	"github.com/kerbaras/mangas-reader/pkg/data"
	"github.com/kerbaras/mangas-reader/pkg/services"
	"github.com/kerbaras/mangas-reader/pkg/sources"
)

type catalogLoadedMsg struct {
	source string
	added  int
	err    error
}

// BrowseScreen lists the catalog of one source, a page at a time.
type BrowseScreen struct {
	deps    *Deps
	sources []sources.Source
	active  int
	catalog *services.Catalog
	list    *components.MangaList
	spinner spinner.Model
	err     error
	width   int
	height  int
}

func NewBrowseScreen(deps *Deps, source string) *BrowseScreen {
	source = sources.OrDefault(source)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusLoading

	list := components.NewMangaList()
	list.EmptyText = "No titles"

	return &BrowseScreen{
		deps:    deps,
		sources: sources.All(),
		active:  sources.Index(source),
		catalog: deps.Controller.NewCatalog(source),
		list:    list,
		spinner: sp,
	}
}

func (s *BrowseScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.loadMore())
}

func (s *BrowseScreen) loadMore() tea.Cmd {
	catalog := s.catalog
	source := catalog.Source()
	deps := s.deps
	return func() tea.Msg {
		ctx, cancel := deps.requestContext()
		defer cancel()
		added, err := catalog.LoadMore(ctx)
		return catalogLoadedMsg{source: source, added: added, err: err}
	}
}

func (s *BrowseScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.list.Width = msg.Width
		s.list.Height = msg.Height - 6

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.list.Prev()
		case "down", "j":
			s.list.Next()
			if s.list.AtEnd() && !s.catalog.Exhausted() {
				return s, s.loadMore()
			}
		case "left", "h":
			return s, s.switchSource(s.active - 1)
		case "right", "l":
			return s, s.switchSource(s.active + 1)
		case "m":
			return s, s.loadMore()
		case "r":
			return s, s.switchSource(s.active)
		case "enter":
			if item := s.list.Selected(); item != nil {
				return s, navigate(TitleRoute(item.ID, item.Source))
			}
		}

	case catalogLoadedMsg:
		if msg.source != s.catalog.Source() || errors.Is(msg.err, services.ErrBusy) {
			return s, nil
		}
		s.err = msg.err
		s.refresh()
		return s, sessionCheck(msg.err)

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

// switchSource resets the catalog to the source at tab i, wrapping around.
func (s *BrowseScreen) switchSource(i int) tea.Cmd {
	n := len(s.sources)
	s.active = ((i % n) + n) % n
	s.catalog.Reset(s.sources[s.active].ID)
	s.list.SelectedIndex = 0
	s.err = nil
	s.refresh()
	return s.loadMore()
}

func (s *BrowseScreen) refresh() {
	source := s.catalog.Source()
	items := s.catalog.Items()
	out := make([]components.MangaListItem, 0, len(items))
	for _, t := range items {
		out = append(out, summaryItem(t, source))
	}
	s.list.SetItems(out)
}

func summaryItem(t data.TitleSummary, source string) components.MangaListItem {
	var details []string
	if t.LatestChapter != "" {
		details = append(details, "Latest: "+t.LatestChapter)
	}
	item := components.MangaListItem{ID: t.ID, Title: t.Title, Source: source, Details: details}
	if t.Rating != "" {
		item.Badge = "★ " + t.Rating
	}
	return item
}

func (s *BrowseScreen) renderSources() string {
	tabs := make([]string, 0, len(s.sources))
	for i, src := range s.sources {
		if i == s.active {
			tabs = append(tabs, styles.ActiveTabStyle.Render(src.Label))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(src.Label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (s *BrowseScreen) View() string {
	var status string
	switch {
	case s.catalog.Loading():
		status = s.spinner.View() + " " + styles.StatusLoading.Render(
			fmt.Sprintf("Loading page %d...", s.nextPage()))
	case s.err != nil:
		status = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
	case s.catalog.Exhausted():
		status = styles.MutedStyle.Render(fmt.Sprintf("%d titles • end of catalog", s.catalog.Len()))
	default:
		status = styles.MutedStyle.Render(fmt.Sprintf("%d titles", s.catalog.Len()))
	}

	help := styles.HelpStyle.Render(strings.Join([]string{
		"←/h →/l: source",
		"↑/k ↓/j: navigate",
		"enter: details",
		"m: load more",
		"r: reload",
		"tab: switch view",
		"q: quit",
	}, " • "))

	return fmt.Sprintf("%s\n%s\n\n%s\n%s", s.renderSources(), status, s.list.View(), help)
}

func (s *BrowseScreen) nextPage() int {
	if s.catalog.Len() == 0 {
		return 1
	}
	return s.catalog.Page() + 1
}
