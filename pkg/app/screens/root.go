package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangas-reader/pkg/app/styles"
	"github.com/kerbaras/mangas-reader/pkg/session"
	"github.com/rs/zerolog/log"
)

var tabs = []struct {
	label string
	route string
}{
	{"Browse", RouteHome},
	{"History", RouteHistory},
	{"Search", RouteSearch},
}

// RootScreen owns navigation. Every route change passes through the
// session gate before a screen is built for it.
type RootScreen struct {
	deps    *Deps
	route   Route
	stack   []string
	current tea.Model
	notice  string

	width  int
	height int
}

func NewRootScreen(deps *Deps, start string) *RootScreen {
	r := &RootScreen{deps: deps}
	r.route = ParseRoute(start)
	return r
}

// Route returns the route currently shown.
func (r *RootScreen) Route() Route { return r.route }

func (r *RootScreen) Init() tea.Cmd {
	return r.show(r.route.Path + sourceQuery(r.route))
}

func sourceQuery(rt Route) string {
	if rt.Source == "" {
		return ""
	}
	return withSource("", rt.Source)
}

// show gates raw and swaps in the screen for the resulting route.
func (r *RootScreen) show(raw string) tea.Cmd {
	rt := ParseRoute(raw)
	if redirect, allowed := session.Gate(rt.Path, r.deps.Authenticated()); !allowed {
		log.Debug().Str("from", rt.Path).Str("to", redirect).Msg("redirected by session gate")
		rt = ParseRoute(redirect)
	}

	if c, ok := r.current.(closer); ok {
		c.Close()
	}
	r.route = rt
	r.current = r.build(rt)

	cmd := r.current.Init()
	if r.width > 0 {
		var sizeCmd tea.Cmd
		r.current, sizeCmd = r.current.Update(tea.WindowSizeMsg{Width: r.width, Height: r.contentHeight()})
		cmd = tea.Batch(cmd, sizeCmd)
	}
	return cmd
}

func (r *RootScreen) build(rt Route) tea.Model {
	switch rt.kind {
	case loginRoute:
		return NewLoginScreen(r.deps)
	case homeRoute:
		return NewBrowseScreen(r.deps, rt.Source)
	case historyRoute:
		return NewHistoryScreen(r.deps)
	case searchRoute:
		return NewSearchScreen(r.deps)
	case titleRoute:
		return NewDetailsScreen(r.deps, rt.ID, rt.Source)
	case readerRoute:
		return NewReaderScreen(r.deps, rt.ID, rt.Source)
	}
	return newNotFoundScreen(rt.Path)
}

func (r *RootScreen) showsTabs() bool {
	switch r.route.kind {
	case homeRoute, historyRoute, searchRoute:
		return true
	}
	return false
}

func (r *RootScreen) contentHeight() int {
	if r.showsTabs() {
		return r.height - 2
	}
	return r.height
}

func (r *RootScreen) typing() bool {
	t, ok := r.current.(textEntry)
	return ok && t.Typing()
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		msg.Height = r.contentHeight()
		var cmd tea.Cmd
		r.current, cmd = r.current.Update(msg)
		return r, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			r.close()
			return r, tea.Quit
		}
		if !r.typing() {
			switch msg.String() {
			case "q":
				r.close()
				return r, tea.Quit
			case "tab":
				if r.showsTabs() {
					return r, r.show(r.nextTab())
				}
			case "ctrl+l":
				if r.deps.Authenticated() {
					return r, func() tea.Msg { return LoggedOutMsg{} }
				}
			}
		}

	case NavigateMsg:
		r.notice = ""
		r.stack = append(r.stack, r.currentRaw())
		return r, r.show(msg.Route)

	case ReplaceMsg:
		r.route = ParseRoute(msg.Route)
		return r, nil

	case BackMsg:
		if len(r.stack) == 0 {
			return r, r.show(RouteHome)
		}
		prev := r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
		return r, r.show(prev)

	case LoggedInMsg:
		r.deps.Session = msg.Session
		r.deps.Client.SetToken(msg.Session.Token)
		r.stack = nil
		r.notice = ""
		return r, r.show(RouteHome)

	case LoggedOutMsg:
		if err := r.deps.Store.Clear(); err != nil {
			log.Error().Err(err).Msg("failed to clear session")
		}
		r.deps.Session = &session.Session{}
		r.deps.Client.SetToken("")
		r.stack = nil
		r.notice = ""
		if msg.Expired {
			r.notice = "Your session has expired, please log in again."
		}
		return r, r.show(RouteLogin)
	}

	var cmd tea.Cmd
	r.current, cmd = r.current.Update(msg)
	return r, cmd
}

func (r *RootScreen) currentRaw() string {
	return r.route.Path + sourceQuery(r.route)
}

func (r *RootScreen) nextTab() string {
	for i, t := range tabs {
		if t.route == r.route.Path {
			return tabs[(i+1)%len(tabs)].route
		}
	}
	return RouteHome
}

func (r *RootScreen) close() {
	if c, ok := r.current.(closer); ok {
		c.Close()
	}
}

func (r *RootScreen) View() string {
	content := r.current.View()
	if r.notice != "" {
		content = styles.StatusWarning.Render(r.notice) + "\n\n" + content
	}
	if !r.showsTabs() {
		return content
	}
	return fmt.Sprintf("%s\n\n%s", r.renderTabs(), content)
}

func (r *RootScreen) renderTabs() string {
	rendered := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.route == r.route.Path {
			rendered = append(rendered, styles.ActiveTabStyle.Render(t.label))
		} else {
			rendered = append(rendered, styles.InactiveTabStyle.Render(t.label))
		}
	}
	if s := r.deps.Session; s != nil && s.Username != "" {
		rendered = append(rendered, styles.MutedStyle.Render("  "+s.Username))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// notFoundScreen is shown for routes no screen serves.
type notFoundScreen struct {
	path string
}

func newNotFoundScreen(path string) *notFoundScreen { return &notFoundScreen{path: path} }

func (s *notFoundScreen) Init() tea.Cmd { return nil }

func (s *notFoundScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && (k.String() == "esc" || k.String() == "backspace") {
		return s, back
	}
	return s, nil
}

func (s *notFoundScreen) View() string {
	return styles.StatusError.Render(fmt.Sprintf("Nothing at %s", s.path)) + "\n" +
		styles.HelpStyle.Render("esc: back • q: quit")
}
