package screens

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kerbaras/mangas-reader/pkg/config"
	"github.com/kerbaras/mangas-reader/pkg/data"
	"github.com/kerbaras/mangas-reader/pkg/session"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// readerAPI serves one title with three chapters. Images are never found,
// the reader tests feed page events by hand.
type readerAPI struct {
	mu      sync.Mutex
	history []data.HistoryEntry
	saved   []data.ProgressUpdate
}

func (a *readerAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/manga/m1":
		json.NewEncoder(w).Encode(data.Title{
			ID: "m1", Title: "Test Manga", CoverURL: "cover.jpg",
			Chapters: []data.ChapterRef{
				{ID: "c3", Title: "chapter-3"},
				{ID: "c2", Title: "chapter-2"},
				{ID: "c1", Title: "chapter-1"},
			},
		})
	case strings.HasPrefix(r.URL.Path, "/chapter/"):
		id := strings.TrimPrefix(r.URL.Path, "/chapter/")
		chapters := map[string]data.Chapter{
			"c1": {ID: "c1", MangaID: "m1", MangaTitle: "Test Manga", Images: []string{"1.png", "2.png"}, NextChapterID: "c2"},
			"c2": {ID: "c2", MangaID: "m1", MangaTitle: "Test Manga", Images: []string{"1.png", "2.png"}, PrevChapterID: "c1", NextChapterID: "c3"},
			"c3": {ID: "c3", MangaID: "m1", MangaTitle: "Test Manga", Images: []string{}, PrevChapterID: "c2"},
		}
		ch, ok := chapters[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(ch)
	case r.URL.Path == "/history" && r.Method == http.MethodGet:
		a.mu.Lock()
		defer a.mu.Unlock()
		json.NewEncoder(w).Encode(a.history)
	case strings.HasPrefix(r.URL.Path, "/history/"):
		id := strings.TrimPrefix(r.URL.Path, "/history/")
		a.mu.Lock()
		defer a.mu.Unlock()
		for _, e := range a.history {
			if e.MangaID == id {
				json.NewEncoder(w).Encode(e)
				return
			}
		}
		w.Write([]byte("null"))
	case r.URL.Path == "/history" && r.Method == http.MethodPost:
		var update data.ProgressUpdate
		json.NewDecoder(r.Body).Decode(&update)
		a.mu.Lock()
		a.saved = append(a.saved, update)
		a.mu.Unlock()
		w.Write([]byte(`{"status":"ok"}`))
	default:
		http.NotFound(w, r)
	}
}

func (a *readerAPI) savedUpdates() []data.ProgressUpdate {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]data.ProgressUpdate(nil), a.saved...)
}

func newTestDeps(t *testing.T, handler http.Handler, authenticated bool) *Deps {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		APIURL:           server.URL,
		RequestTimeout:   5 * time.Second,
		PageWidth:        720,
		RowHeight:        24,
		ImageConcurrency: 2,
	}
	store := session.NewStore(afero.NewMemMapFs(), "/state/session.toml")
	sess := &session.Session{}
	if authenticated {
		var err error
		sess, err = store.Save("tok", "reader")
		require.NoError(t, err)
	}
	return NewDeps(cfg, store, sess)
}
