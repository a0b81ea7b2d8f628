package screens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangas-reader/pkg/app/styles"
	"github.com/kerbaras/mangas-reader/pkg/labels"
	"github.com/kerbaras/mangas-reader/pkg/services"
	"github.com/kerbaras/mangas-reader/pkg/sources"
	"github.com/kerbaras/mangas-reader/pkg/utils"
)

type titleLoadedMsg struct {
	data *services.TitleData
	err  error
}

// DetailsScreen shows a title with its chapter index.
type DetailsScreen struct {
	deps     *Deps
	id       string
	source   string
	data     *services.TitleData
	spinner  spinner.Model
	loading  bool
	notFound bool
	err      error
	selected int
	width    int
	height   int
}

func NewDetailsScreen(deps *Deps, id, source string) *DetailsScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusLoading
	return &DetailsScreen{
		deps:    deps,
		id:      id,
		source:  sources.OrDefault(source),
		spinner: sp,
		loading: true,
	}
}

func (s *DetailsScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.load())
}

func (s *DetailsScreen) load() tea.Cmd {
	deps, id, source := s.deps, s.id, s.source
	return func() tea.Msg {
		ctx, cancel := deps.requestContext()
		defer cancel()
		data, err := deps.Controller.OpenTitle(ctx, id, source)
		return titleLoadedMsg{data: data, err: err}
	}
}

func (s *DetailsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case titleLoadedMsg:
		s.loading = false
		s.data = msg.data
		s.err = msg.err
		s.notFound = errors.Is(msg.err, utils.ErrNotFound)
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
		case "esc", "backspace":
			return s, back
		}
		if s.data == nil {
			return s, nil
		}
		chapters := s.data.Title.Chapters
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(chapters)-1 {
				s.selected++
			}
		case "g":
			s.selected = 0
		case "G":
			s.selected = max(len(chapters)-1, 0)
		case "enter":
			if len(chapters) > 0 {
				return s, navigate(ReaderRoute(chapters[s.selected].ID, s.source))
			}
		case "c":
			if id := s.data.ContinueChapter(); id != "" {
				return s, navigate(ReaderRoute(id, s.source))
			}
		case "f":
			if id := s.data.FirstChapter(); id != "" {
				return s, navigate(ReaderRoute(id, s.source))
			}
		}
	}
	return s, nil
}

func (s *DetailsScreen) View() string {
	if s.loading {
		return s.spinner.View() + " " + styles.StatusLoading.Render("Loading title...")
	}
	if s.notFound {
		return styles.StatusError.Render("Title not found") + "\n\n" + styles.HelpStyle.Render("esc: back")
	}
	if s.err != nil {
		return styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err)) + "\n\n" + styles.HelpStyle.Render("esc: back")
	}

	t := s.data.Title
	width := max(s.width-4, 20)

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(labels.Truncate(t.Title, width)))
	b.WriteString("\n")

	var meta []string
	if t.Author != "" {
		meta = append(meta, styles.TextStyle.Render(t.Author))
	}
	if t.Status != "" {
		meta = append(meta, styles.StatusStyle(t.Status).Render(t.Status))
	}
	meta = append(meta, styles.MutedStyle.Render(fmt.Sprintf("%d chapters", len(t.Chapters))))
	b.WriteString(strings.Join(meta, styles.MutedStyle.Render(" • ")))
	b.WriteString("\n")
	if len(t.Genres) > 0 {
		b.WriteString(styles.MutedStyle.Render(labels.Truncate(strings.Join(t.Genres, ", "), width)))
		b.WriteString("\n")
	}

	synopsis := labels.Wrap(labels.PlainText(t.Description), width)
	synopsisLines := strings.Split(synopsis, "\n")
	if len(synopsisLines) > 6 {
		synopsisLines = append(synopsisLines[:6], "…")
	}
	if synopsis != "" {
		b.WriteString("\n")
		b.WriteString(styles.TextStyle.Render(strings.Join(synopsisLines, "\n")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if h := s.data.History; h != nil {
		label := labels.ChapterLabel(t.ChapterTitle(h.ChapterID))
		b.WriteString(styles.StatusSuccess.Render("Continue: " + label))
		b.WriteString("\n")
	}

	used := strings.Count(b.String(), "\n") + 3
	b.WriteString(s.renderChapters(max(s.height-used, 3), width))

	help := []string{"↑/k ↓/j: chapter", "enter: read"}
	if s.data.ContinueChapter() != "" {
		help = append(help, "c: continue")
	}
	help = append(help, "f: read first", "esc: back", "q: quit")
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render(strings.Join(help, " • ")))
	return b.String()
}

func (s *DetailsScreen) renderChapters(rows, width int) string {
	chapters := s.data.Title.Chapters
	if len(chapters) == 0 {
		return styles.MutedStyle.Render("No chapters yet")
	}
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(chapters))

	current := s.data.ContinueChapter()
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		ch := chapters[i]
		text := labels.ChapterLabel(ch.Title)
		if ch.Title == "" {
			text = labels.ChapterLabel(ch.ID)
		}
		if ch.ID == current {
			text += " ◂ last read"
		}
		text = labels.Truncate(text, width-2)
		if i == s.selected {
			lines = append(lines, styles.SelectedStyle.Render("▸ "+text))
		} else {
			lines = append(lines, styles.TextStyle.Render("  "+text))
		}
	}
	return strings.Join(lines, "\n")
}
