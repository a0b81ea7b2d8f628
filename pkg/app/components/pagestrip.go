package components

import (
	"fmt"
	"path"
	"strings"

	"github.com/kerbaras/mangas-reader/pkg/app/styles"
	"github.com/kerbaras/mangas-reader/pkg/labels"
	"github.com/kerbaras/mangas-reader/pkg/services"
)

// PageStrip draws the part of a chapter's page strip that falls inside the
// terminal. Every row stands for RowHeight px of the strip.
type PageStrip struct {
	Layout    *services.Layout
	Images    []string
	RowHeight int
	Width     int
	Height    int
	Failed    func(index int) bool
}

// View renders Height rows starting at offset px.
func (s PageStrip) View(offset int) string {
	if s.Layout == nil || s.Layout.Len() == 0 {
		return styles.MutedStyle.Render("This chapter has no pages")
	}
	rowHeight := s.RowHeight
	if rowHeight <= 0 {
		rowHeight = 1
	}
	width := s.Width
	if width < 20 {
		width = 20
	}

	total := s.Layout.Total()
	lines := make([]string, 0, s.Height)
	for row := 0; row < s.Height; row++ {
		px := offset + row*rowHeight
		if px >= total {
			lines = append(lines, "")
			continue
		}
		index := s.Layout.PageAt(px) - 1
		into := px - s.Layout.Top(index)
		switch {
		case into < rowHeight:
			lines = append(lines, s.rule(index, width))
		case into < 2*rowHeight:
			lines = append(lines, s.body(index, width, s.caption(index)))
		default:
			lines = append(lines, s.body(index, width, ""))
		}
	}
	return strings.Join(lines, "\n")
}

func (s PageStrip) rule(index, width int) string {
	label := fmt.Sprintf(" Page %d/%d ", index+1, s.Layout.Len())
	side := (width - len(label)) / 2
	if side < 0 {
		side = 0
	}
	line := strings.Repeat("─", side) + label + strings.Repeat("─", width-side-len(label))
	return styles.PageRuleStyle.Render(line)
}

func (s PageStrip) caption(index int) string {
	if s.Failed != nil && s.Failed(index) {
		return "image failed to load"
	}
	name := ""
	if index < len(s.Images) {
		name = labels.Decode(path.Base(strings.SplitN(s.Images[index], "?", 2)[0]))
	}
	return fmt.Sprintf("%s  %dpx", name, s.Layout.Height(index))
}

func (s PageStrip) body(index, width int, text string) string {
	style := styles.PageBodyStyle
	if s.Failed != nil && s.Failed(index) {
		style = styles.PageFailedStyle
	}
	return style.Render(labels.Pad(" "+text, width))
}
