package components

import (
	"fmt"
	"strings"

	"github.com/kerbaras/mangas-reader/pkg/app/styles"
	"github.com/kerbaras/mangas-reader/pkg/services"
)

// ProgressTracker follows page image loads of the open chapter.
type ProgressTracker struct {
	pages map[int]services.PageLoaded
	total int
	width int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		pages: make(map[int]services.PageLoaded),
		width: width,
	}
}

// Reset starts tracking a chapter with total pages.
func (p *ProgressTracker) Reset(total int) {
	p.pages = make(map[int]services.PageLoaded)
	p.total = total
}

func (p *ProgressTracker) SetWidth(width int) { p.width = width }

func (p *ProgressTracker) Update(event services.PageLoaded) {
	if event.Index < 0 || event.Index >= p.total {
		return
	}
	p.pages[event.Index] = event
}

func (p *ProgressTracker) Loaded() int {
	n := 0
	for _, e := range p.pages {
		if e.Err == nil {
			n++
		}
	}
	return n
}

func (p *ProgressTracker) Failed() int {
	return len(p.pages) - p.Loaded()
}

// Done reports whether every page has finished, successfully or not.
func (p *ProgressTracker) Done() bool {
	return len(p.pages) >= p.total
}

// PageFailed reports whether page index could not be loaded.
func (p *ProgressTracker) PageFailed(index int) bool {
	e, ok := p.pages[index]
	return ok && e.Err != nil
}

// View renders the status line. While restoring it shows the restore
// indicator; afterwards only unfinished or failed loads are reported.
func (p *ProgressTracker) View(restoring bool) string {
	loaded := p.Loaded()
	barWidth := p.width - 30
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	switch {
	case restoring:
		b.WriteString(styles.StatusLoading.Render(
			fmt.Sprintf("Restoring position... %d/%d pages", loaded, p.total)))
		b.WriteString(" ")
		b.WriteString(renderProgressBar(loaded, p.total, barWidth))
	case !p.Done():
		b.WriteString(styles.MutedStyle.Render(
			fmt.Sprintf("Loading pages %d/%d", len(p.pages), p.total)))
		b.WriteString(" ")
		b.WriteString(renderProgressBar(len(p.pages), p.total, barWidth))
	}
	if failed := p.Failed(); failed > 0 {
		if b.Len() > 0 {
			b.WriteString("  ")
		}
		b.WriteString(styles.StatusError.Render(fmt.Sprintf("%d pages failed to load", failed)))
	}
	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled)
	empty := strings.Repeat("░", width-filled)
	return styles.ProgressBarStyle.Render(bar) + styles.ProgressEmptyStyle.Render(empty)
}

// SimpleProgress renders a simple progress bar
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
