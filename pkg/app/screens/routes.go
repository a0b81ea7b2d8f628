package screens

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangas-reader/pkg/utils"
)

const (
	RouteHome    = "/"
	RouteLogin   = "/login"
	RouteHistory = "/history"
	RouteSearch  = "/search"

	titlePrefix  = "/manga/"
	readerPrefix = "/read/"
)

type routeKind int

const (
	unknownRoute routeKind = iota
	homeRoute
	loginRoute
	historyRoute
	searchRoute
	titleRoute
	readerRoute
)

// Route is a parsed screen address such as "/read/c12?source=reapertrans".
type Route struct {
	Path   string
	ID     string
	Source string
	kind   routeKind
}

func TitleRoute(id, source string) string {
	return withSource(titlePrefix+id, source)
}

func ReaderRoute(id, source string) string {
	return withSource(readerPrefix+id, source)
}

func withSource(path, source string) string {
	if source == "" {
		return path
	}
	return path + "?" + url.Values{"source": {source}}.Encode()
}

func ParseRoute(raw string) Route {
	path, query, _ := strings.Cut(raw, "?")
	r := Route{Path: path}
	if values, err := url.ParseQuery(query); err == nil {
		r.Source = values.Get("source")
	}

	switch {
	case path == RouteHome || path == "":
		r.Path, r.kind = RouteHome, homeRoute
	case path == RouteLogin:
		r.kind = loginRoute
	case path == RouteHistory:
		r.kind = historyRoute
	case path == RouteSearch:
		r.kind = searchRoute
	case strings.HasPrefix(path, titlePrefix) && len(path) > len(titlePrefix):
		r.kind, r.ID = titleRoute, strings.TrimPrefix(path, titlePrefix)
	case strings.HasPrefix(path, readerPrefix) && len(path) > len(readerPrefix):
		r.kind, r.ID = readerRoute, strings.TrimPrefix(path, readerPrefix)
	}
	return r
}

// NavigateMsg asks the root screen to show Route, remembering the current one.
type NavigateMsg struct {
	Route string
}

// ReplaceMsg records that the current screen moved on to Route without
// being rebuilt.
type ReplaceMsg struct {
	Route string
}

// BackMsg returns to the previous route.
type BackMsg struct{}

// LoggedOutMsg drops the session. Expired is set when the server rejected it.
type LoggedOutMsg struct {
	Expired bool
}

func navigate(route string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: route} }
}

func back() tea.Msg {
	return BackMsg{}
}

// unauthorized reports whether err means the stored token is no longer valid.
func unauthorized(err error) bool {
	var httpErr *utils.HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized
}

// sessionCheck turns an authentication failure into a logout.
func sessionCheck(err error) tea.Cmd {
	if !unauthorized(err) {
		return nil
	}
	return func() tea.Msg { return LoggedOutMsg{Expired: true} }
}

// closer is implemented by screens holding timers or loads that must stop
// when the screen is left.
type closer interface {
	Close()
}

// textEntry is implemented by screens that may be capturing typed text.
type textEntry interface {
	Typing() bool
}
