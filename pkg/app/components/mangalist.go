package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangas-reader/pkg/app/styles"
	"github.com/kerbaras/mangas-reader/pkg/labels"
)

// MangaListItem is one card of a MangaList.
type MangaListItem struct {
	ID     string
	Title  string
	Source string
	// Details are rendered muted under the title, one per line.
	Details []string
	Badge   string
}

type MangaList struct {
	Items         []MangaListItem
	SelectedIndex int
	Width         int
	Height        int
	EmptyText     string
}

func NewMangaList() *MangaList {
	return &MangaList{
		Items:     []MangaListItem{},
		Width:     80,
		Height:    20,
		EmptyText: "Nothing here yet",
	}
}

func (m *MangaList) SetItems(items []MangaListItem) {
	m.Items = items
	if m.SelectedIndex >= len(items) && len(items) > 0 {
		m.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		m.SelectedIndex = 0
	}
}

func (m *MangaList) Next() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex++
	if m.SelectedIndex >= len(m.Items) {
		m.SelectedIndex = 0
	}
}

func (m *MangaList) Prev() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex--
	if m.SelectedIndex < 0 {
		m.SelectedIndex = len(m.Items) - 1
	}
}

func (m *MangaList) Selected() *MangaListItem {
	if len(m.Items) == 0 || m.SelectedIndex >= len(m.Items) {
		return nil
	}
	return &m.Items[m.SelectedIndex]
}

// AtEnd reports whether the last item is selected.
func (m *MangaList) AtEnd() bool {
	return len(m.Items) > 0 && m.SelectedIndex == len(m.Items)-1
}

func (m *MangaList) cardHeight(item MangaListItem) int {
	// border top and bottom plus the title line
	return 3 + len(item.Details)
}

// window returns the range of items that fit in Height and include the selection.
func (m *MangaList) window() (start, end int) {
	if len(m.Items) == 0 {
		return 0, 0
	}
	start = m.SelectedIndex
	used := m.cardHeight(m.Items[start])
	end = start + 1
	for end < len(m.Items) && used+m.cardHeight(m.Items[end]) <= m.Height {
		used += m.cardHeight(m.Items[end])
		end++
	}
	for start > 0 && used+m.cardHeight(m.Items[start-1]) <= m.Height {
		start--
		used += m.cardHeight(m.Items[start])
	}
	return start, end
}

func (m *MangaList) View() string {
	if len(m.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render(m.EmptyText)
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	inner := m.Width - 4
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	start, end := m.window()
	for i := start; i < end; i++ {
		item := m.Items[i]
		cardStyle := styles.CardStyle
		titleStyle := styles.TextStyle.Bold(true)
		if i == m.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
			titleStyle = styles.SelectedStyle
		}

		header := labels.Truncate(item.Title, inner)
		if item.Badge != "" {
			badge := styles.BadgeStyle.Render(item.Badge)
			header = labels.Truncate(item.Title, inner-lipgloss.Width(badge)-1)
			header = titleStyle.Render(header) + " " + badge
		} else {
			header = titleStyle.Render(header)
		}

		lines := []string{header}
		for _, d := range item.Details {
			lines = append(lines, styles.MutedStyle.Render(labels.Truncate(d, inner)))
		}

		b.WriteString(cardStyle.Width(m.Width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
		b.WriteString("\n")
	}

	return b.String()
}
