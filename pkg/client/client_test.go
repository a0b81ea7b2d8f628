package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kerbaras/mangas-reader/pkg/config"
	"github.com/kerbaras/mangas-reader/pkg/data"
	"github.com/kerbaras/mangas-reader/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(&config.Config{APIURL: server.URL, RequestTimeout: time.Second}, "tok")
}

func TestListTitles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/manga", r.URL.Path)
		assert.Equal(t, "reapertrans", r.URL.Query().Get("source"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		w.Write([]byte(`[{"id":"a","title":"A","cover_url":"c","latest_chapter":"ตอนที่ 5","rating":"9.1"}]`))
	})

	titles, err := c.ListTitles(context.Background(), "reapertrans", 3)
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "ตอนที่ 5", titles[0].LatestChapter)
}

func TestListTitlesDefaultSource(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "up-manga", r.URL.Query().Get("source"))
		assert.False(t, r.URL.Query().Has("page"))
		w.Write([]byte(`[]`))
	})

	titles, err := c.ListTitles(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestGetTitle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/manga/solo-leveling", r.URL.Path)
		assert.Equal(t, "slow-manga", r.URL.Query().Get("source"))
		w.Write([]byte(`{"title":"Solo","chapters":[{"id":"c2","title":"2"},{"id":"c1","title":"1"}]}`))
	})

	title, err := c.GetTitle(context.Background(), "solo-leveling", "slow-manga")
	require.NoError(t, err)
	assert.Equal(t, "solo-leveling", title.ID, "id falls back to the requested one")
	assert.Equal(t, "c1", title.FirstChapter().ID)
}

func TestGetChapterNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.GetChapter(context.Background(), "missing")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestGetChapterKeepsEncodedID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chapter/%E0%B8%95%E0%B8%AD%E0%B8%99-1", r.URL.EscapedPath())
		w.Write([]byte(`{"id":"x","manga_id":"m","images":[]}`))
	})

	_, err := c.GetChapter(context.Background(), "%E0%B8%95%E0%B8%AD%E0%B8%99-1")
	require.NoError(t, err)
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   *data.HistoryEntry
	}{
		{name: "entry", status: 200, body: `{"manga_id":"m","chapter_id":"c2","scroll_position":900}`,
			want: &data.HistoryEntry{MangaID: "m", ChapterID: "c2", ScrollPosition: 900}},
		{name: "null", status: 200, body: `null`},
		{name: "empty object", status: 200, body: `{}`},
		{name: "not found", status: 404, body: `{"detail":"Not Found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/history/m", r.URL.Path)
				assert.Equal(t, "up-manga", r.URL.Query().Get("source"))
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			got, err := c.GetHistory(context.Background(), "m", "up-manga")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveHistory(t *testing.T) {
	var got data.ProgressUpdate
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"status":"ok"}`))
	})

	err := c.SaveHistory(context.Background(), data.ProgressUpdate{MangaID: "m", ChapterID: "c1", ScrollPosition: 420})
	require.NoError(t, err)
	assert.Equal(t, 420, got.ScrollPosition)
}

func TestSearch(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "one piece", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"id":"op","title":"One Piece"}]`))
	})

	results, err := c.Search(context.Background(), "  one piece ")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = c.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 1, calls, "blank query is not sent")
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body["password"] != "hunter2" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"Incorrect username or password"}`))
				return
			}
			w.Write([]byte(`{"access_token":"fresh","token_type":"bearer"}`))
		case "/history":
			assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
			w.Write([]byte(`[]`))
		}
	})

	_, err := c.Login(context.Background(), "admin", "wrong")
	assert.True(t, errors.Is(err, ErrBadCredentials))
	assert.Contains(t, err.Error(), "Incorrect username")

	token, err := c.Login(context.Background(), "admin", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)

	_, err = c.ListHistory(context.Background())
	require.NoError(t, err)
}

func TestImageURL(t *testing.T) {
	c := New(&config.Config{APIURL: "http://api.local/", RequestTimeout: time.Second}, "")

	assert.Equal(t, "https://cdn/p1.jpg", c.ImageURL("https://cdn/p1.jpg", "up-manga"))
	assert.Equal(t,
		"http://api.local/proxy-image?source=reapertrans&url=https%3A%2F%2Fcdn%2Fp1.jpg",
		c.ImageURL("https://cdn/p1.jpg", "reapertrans"))
}
