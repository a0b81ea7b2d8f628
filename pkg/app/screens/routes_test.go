package screens

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kerbaras/mangas-reader/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestParseRoute(t *testing.T) {
	tests := []struct {
		raw    string
		kind   routeKind
		path   string
		id     string
		source string
	}{
		{"/", homeRoute, "/", "", ""},
		{"", homeRoute, "/", "", ""},
		{"/?source=reapertrans", homeRoute, "/", "", "reapertrans"},
		{"/login", loginRoute, "/login", "", ""},
		{"/history", historyRoute, "/history", "", ""},
		{"/search", searchRoute, "/search", "", ""},
		{"/manga/one-piece?source=up-manga", titleRoute, "/manga/one-piece", "one-piece", "up-manga"},
		{"/read/c%E0%B8%95-12", readerRoute, "/read/c%E0%B8%95-12", "c%E0%B8%95-12", ""},
		{"/manga/", unknownRoute, "/manga/", "", ""},
		{"/settings", unknownRoute, "/settings", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := ParseRoute(tt.raw)
			assert.Equal(t, tt.kind, r.kind)
			assert.Equal(t, tt.path, r.Path)
			assert.Equal(t, tt.id, r.ID)
			assert.Equal(t, tt.source, r.Source)
		})
	}
}

func TestRouteBuilders(t *testing.T) {
	assert.Equal(t, "/manga/m1", TitleRoute("m1", ""))
	assert.Equal(t, "/manga/m1?source=slow-manga", TitleRoute("m1", "slow-manga"))
	assert.Equal(t, "/read/c2?source=reapertrans", ReaderRoute("c2", "reapertrans"))

	r := ParseRoute(ReaderRoute("c2", "reapertrans"))
	assert.Equal(t, "c2", r.ID)
	assert.Equal(t, "reapertrans", r.Source)
}

func TestSessionCheck(t *testing.T) {
	assert.Nil(t, sessionCheck(nil))
	assert.Nil(t, sessionCheck(errors.New("boom")))
	assert.Nil(t, sessionCheck(&utils.HTTPError{Status: 500}))

	cmd := sessionCheck(fmt.Errorf("history: %w", &utils.HTTPError{Status: 401}))
	if assert.NotNil(t, cmd) {
		assert.Equal(t, LoggedOutMsg{Expired: true}, cmd())
	}
}
