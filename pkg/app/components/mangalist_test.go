package components

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func items(n int) []MangaListItem {
	out := make([]MangaListItem, n)
	for i := range out {
		out[i] = MangaListItem{ID: fmt.Sprint(i), Title: fmt.Sprintf("Manga %d", i), Details: []string{"detail"}}
	}
	return out
}

func TestNewMangaList(t *testing.T) {
	list := NewMangaList()

	if list == nil {
		t.Fatal("Expected manga list to be created")
	}
	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex 0, got %d", list.SelectedIndex)
	}
	if len(list.Items) != 0 {
		t.Errorf("Expected 0 items, got %d", len(list.Items))
	}
	if list.Selected() != nil {
		t.Error("Expected no selection in an empty list")
	}
}

func TestSetItemsClampsSelection(t *testing.T) {
	list := NewMangaList()
	list.SetItems(items(3))
	list.SelectedIndex = 2

	list.SetItems(items(1))
	assert.Equal(t, 0, list.SelectedIndex)

	list.SetItems(nil)
	assert.Equal(t, 0, list.SelectedIndex)
}

func TestNavigationWraps(t *testing.T) {
	list := NewMangaList()
	list.SetItems(items(3))

	list.Prev()
	assert.Equal(t, 2, list.SelectedIndex)
	assert.True(t, list.AtEnd())

	list.Next()
	assert.Equal(t, 0, list.SelectedIndex)
	assert.False(t, list.AtEnd())
	assert.Equal(t, "0", list.Selected().ID)

	empty := NewMangaList()
	empty.Next()
	empty.Prev()
	assert.Equal(t, 0, empty.SelectedIndex)
}

func TestViewEmpty(t *testing.T) {
	list := NewMangaList()
	list.EmptyText = "No history yet"
	assert.Contains(t, list.View(), "No history yet")
}

func TestViewWindowFollowsSelection(t *testing.T) {
	list := NewMangaList()
	list.Height = 8 // two cards of four lines each
	list.SetItems(items(6))

	view := list.View()
	assert.Contains(t, view, "Manga 0")
	assert.Contains(t, view, "Manga 1")
	assert.NotContains(t, view, "Manga 2")

	list.SelectedIndex = 5
	view = list.View()
	assert.Contains(t, view, "Manga 5")
	assert.Contains(t, view, "Manga 4")
	assert.NotContains(t, view, "Manga 0")
}

func TestViewBadgeAndTruncation(t *testing.T) {
	list := NewMangaList()
	list.Width = 30
	list.SetItems([]MangaListItem{{
		Title:   strings.Repeat("Very long title ", 5),
		Badge:   "3 new",
		Details: []string{"ตอนที่ 12"},
	}})

	view := list.View()
	assert.Contains(t, view, "3 new")
	assert.Contains(t, view, "…")
	assert.Contains(t, view, "ตอนที่ 12")
}
