package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/kerbaras/mangas-reader/pkg/services"
	"github.com/stretchr/testify/assert"
)

func TestNewProgressTracker(t *testing.T) {
	tracker := NewProgressTracker(80)

	if tracker == nil {
		t.Fatal("Expected tracker to be created")
	}
	if tracker.width != 80 {
		t.Errorf("Expected width 80, got %d", tracker.width)
	}
	if !tracker.Done() {
		t.Error("Expected an empty chapter to be done")
	}
}

func TestUpdateCountsPages(t *testing.T) {
	tracker := NewProgressTracker(80)
	tracker.Reset(3)

	tracker.Update(services.PageLoaded{Index: 0, Height: 100})
	tracker.Update(services.PageLoaded{Index: 1, Err: errors.New("404")})
	tracker.Update(services.PageLoaded{Index: 9})

	assert.Equal(t, 1, tracker.Loaded())
	assert.Equal(t, 1, tracker.Failed())
	assert.False(t, tracker.Done())
	assert.True(t, tracker.PageFailed(1))
	assert.False(t, tracker.PageFailed(0))
	assert.False(t, tracker.PageFailed(2))

	tracker.Update(services.PageLoaded{Index: 2})
	assert.True(t, tracker.Done())

	tracker.Reset(5)
	assert.Equal(t, 0, tracker.Loaded())
	assert.False(t, tracker.Done())
}

func TestViewRestoring(t *testing.T) {
	tracker := NewProgressTracker(80)
	tracker.Reset(4)
	tracker.Update(services.PageLoaded{Index: 0})

	view := tracker.View(true)
	assert.Contains(t, view, "Restoring position... 1/4 pages")
	assert.Contains(t, view, "█")
}

func TestViewLoadingAndFailures(t *testing.T) {
	tracker := NewProgressTracker(80)
	tracker.Reset(2)
	tracker.Update(services.PageLoaded{Index: 0, Err: errors.New("timeout")})

	view := tracker.View(false)
	assert.Contains(t, view, "Loading pages 1/2")
	assert.Contains(t, view, "1 pages failed to load")
	assert.NotContains(t, view, "Restoring")

	tracker.Update(services.PageLoaded{Index: 1})
	view = tracker.View(false)
	assert.NotContains(t, view, "Loading pages")
	assert.Contains(t, view, "failed")
}

func TestViewQuietWhenDone(t *testing.T) {
	tracker := NewProgressTracker(80)
	tracker.Reset(1)
	tracker.Update(services.PageLoaded{Index: 0})
	assert.Empty(t, tracker.View(false))
}

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		width   int
		filled  int
	}{
		{"empty", 0, 10, 20, 0},
		{"half", 5, 10, 20, 10},
		{"full", 10, 10, 20, 20},
		{"over", 15, 10, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := renderProgressBar(tt.current, tt.total, tt.width)
			if got := strings.Count(bar, "█"); got != tt.filled {
				t.Errorf("Expected %d filled cells, got %d", tt.filled, got)
			}
		})
	}

	if SimpleProgress(1, 0, 10) != "" {
		t.Error("Expected empty bar for zero total")
	}
}
