package services

// Layout is the vertical strip of page images in px. Pages whose image has
// not been measured yet occupy a placeholder height.
type Layout struct {
	placeholder int
	heights     []int
}

func NewLayout(pages, placeholder int) *Layout {
	if placeholder <= 0 {
		placeholder = 1
	}
	l := &Layout{placeholder: placeholder, heights: make([]int, pages)}
	for i := range l.heights {
		l.heights[i] = placeholder
	}
	return l
}

func (l *Layout) Len() int { return len(l.heights) }

// Set records the measured height of page index.
func (l *Layout) Set(index, height int) {
	if index < 0 || index >= len(l.heights) || height <= 0 {
		return
	}
	l.heights[index] = height
}

func (l *Layout) Height(index int) int {
	if index < 0 || index >= len(l.heights) {
		return 0
	}
	return l.heights[index]
}

func (l *Layout) Total() int {
	total := 0
	for _, h := range l.heights {
		total += h
	}
	return total
}

// Top returns the offset at which page index starts.
func (l *Layout) Top(index int) int {
	top := 0
	for i := 0; i < index && i < len(l.heights); i++ {
		top += l.heights[i]
	}
	return top
}

// Clamp limits offset to the scrollable range for a viewport of the given height.
func (l *Layout) Clamp(offset, viewport int) int {
	limit := l.Total() - viewport
	if offset > limit {
		offset = limit
	}
	if offset < 0 {
		return 0
	}
	return offset
}

// PageAt returns the 1-based page under offset, or 0 for an empty chapter.
func (l *Layout) PageAt(offset int) int {
	if len(l.heights) == 0 {
		return 0
	}
	top := 0
	for i, h := range l.heights {
		if offset < top+h {
			return i + 1
		}
		top += h
	}
	return len(l.heights)
}

// Visible returns the indexes of pages overlapping [offset, offset+viewport).
func (l *Layout) Visible(offset, viewport int) []int {
	var out []int
	top := 0
	for i, h := range l.heights {
		bottom := top + h
		if bottom > offset && top < offset+viewport {
			out = append(out, i)
		}
		if top >= offset+viewport {
			break
		}
		top = bottom
	}
	return out
}
