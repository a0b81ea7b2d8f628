package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangas-reader/pkg/app/components"
	"github.com/kerbaras/mangas-reader/pkg/app/styles"
	"github.com/kerbaras/mangas-reader/pkg/data"
)

type searchResultMsg struct {
	query   string
	results []data.TitleSummary
	err     error
}

type SearchScreen struct {
	deps      *Deps
	input     textinput.Model
	list      *components.MangaList
	query     string
	searching bool
	err       error
	width     int
	height    int
}

func NewSearchScreen(deps *Deps) *SearchScreen {
	ti := textinput.New()
	ti.Placeholder = "Search manga..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	list := components.NewMangaList()
	list.EmptyText = "No results found"

	return &SearchScreen{deps: deps, input: ti, list: list}
}

// Typing reports whether keys go to the query box.
func (s *SearchScreen) Typing() bool { return s.input.Focused() }

func (s *SearchScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *SearchScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.input.Width = min(50, max(msg.Width-6, 10))
		s.list.Width = msg.Width
		s.list.Height = msg.Height - 8

	case tea.KeyMsg:
		if s.searching {
			return s, nil
		}

		switch msg.String() {
		case "enter":
			if s.input.Focused() {
				query := strings.TrimSpace(s.input.Value())
				if query != "" {
					s.searching = true
					s.query = query
					return s, s.performSearch(query)
				}
			} else if item := s.list.Selected(); item != nil {
				return s, navigate(TitleRoute(item.ID, ""))
			}
			return s, nil

		case "esc":
			// Switch focus between input and results
			if s.input.Focused() {
				s.input.Blur()
			} else {
				s.input.Focus()
				cmd = textinput.Blink
			}
			return s, cmd

		case "up", "k":
			if !s.input.Focused() {
				s.list.Prev()
				return s, nil
			}

		case "down", "j":
			if !s.input.Focused() {
				s.list.Next()
				return s, nil
			}
		}

	case searchResultMsg:
		if msg.query != s.query {
			return s, nil
		}
		s.searching = false
		s.err = msg.err
		items := make([]components.MangaListItem, 0, len(msg.results))
		for _, r := range msg.results {
			items = append(items, summaryItem(r, ""))
		}
		s.list.SelectedIndex = 0
		s.list.SetItems(items)
		if len(items) > 0 {
			s.input.Blur()
		}
		return s, sessionCheck(msg.err)
	}

	if s.input.Focused() {
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

func (s *SearchScreen) View() string {
	header := styles.TitleStyle.Render("Search")

	inputStyle := styles.InputStyle
	if s.input.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	inputView := inputStyle.Render(s.input.View())

	var resultsView string
	switch {
	case s.searching:
		resultsView = styles.StatusLoading.Render("Searching...")
	case s.err != nil:
		resultsView = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
	case s.query != "":
		resultsView = styles.SubtitleStyle.Render(fmt.Sprintf("Found %d results", len(s.list.Items))) +
			"\n" + s.list.View()
	}

	help := styles.HelpStyle.Render(
		"enter: search/open • esc: switch focus • ↑/k ↓/j: navigate • tab: switch view • q: quit",
	)

	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", header, inputView, resultsView, help)
}

func (s *SearchScreen) performSearch(query string) tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx, cancel := deps.requestContext()
		defer cancel()
		results, err := deps.Controller.Search(ctx, query)
		return searchResultMsg{query: query, results: results, err: err}
	}
}
