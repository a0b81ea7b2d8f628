package screens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangas-reader/pkg/app/styles"
	"github.com/kerbaras/mangas-reader/pkg/client"
	"github.com/kerbaras/mangas-reader/pkg/session"
	"github.com/rs/zerolog/log"
)

// LoggedInMsg carries the session persisted after a successful login.
type LoggedInMsg struct {
	Session *session.Session
}

type loginFailedMsg struct {
	err error
}

type LoginScreen struct {
	deps     *Deps
	username textinput.Model
	password textinput.Model
	spinner  spinner.Model
	focus    int
	busy     bool
	err      error
	width    int
	height   int
}

func NewLoginScreen(deps *Deps) *LoginScreen {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 64
	username.Width = 32
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 128
	password.Width = 32
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusLoading

	return &LoginScreen{deps: deps, username: username, password: password, spinner: sp}
}

func (s *LoginScreen) Typing() bool { return true }

func (s *LoginScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *LoginScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		return s, nil

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			return s, s.setFocus(1 - s.focus)
		case "esc":
			return s, tea.Quit
		case "enter":
			if s.focus == 0 {
				return s, s.setFocus(1)
			}
			return s, s.submit()
		}

	case loginFailedMsg:
		s.busy = false
		s.err = msg.err
		s.password.SetValue("")
		return s, s.setFocus(1)

	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}

	var cmd tea.Cmd
	if s.focus == 0 {
		s.username, cmd = s.username.Update(msg)
	} else {
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) setFocus(i int) tea.Cmd {
	s.focus = i
	if i == 0 {
		s.password.Blur()
		return s.username.Focus()
	}
	s.username.Blur()
	return s.password.Focus()
}

func (s *LoginScreen) submit() tea.Cmd {
	username := strings.TrimSpace(s.username.Value())
	password := s.password.Value()
	if username == "" || password == "" {
		s.err = errors.New("username and password are required")
		return nil
	}
	s.err = nil
	s.busy = true
	return tea.Batch(s.spinner.Tick, login(s.deps, username, password))
}

func login(deps *Deps, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deps.requestContext()
		defer cancel()

		token, err := deps.Client.Login(ctx, username, password)
		if err != nil {
			log.Warn().Err(err).Str("username", username).Msg("login failed")
			return loginFailedMsg{err: err}
		}
		sess, err := deps.Store.Save(token, username)
		if err != nil {
			return loginFailedMsg{err: fmt.Errorf("logged in but could not save the session: %w", err)}
		}
		log.Info().Str("username", username).Msg("logged in")
		return LoggedInMsg{Session: sess}
	}
}

func (s *LoginScreen) View() string {
	header := styles.TitleStyle.Render("Log in")

	userStyle, passStyle := styles.FocusedInputStyle, styles.InputStyle
	if s.focus == 1 {
		userStyle, passStyle = styles.InputStyle, styles.FocusedInputStyle
	}

	var status string
	switch {
	case s.busy:
		status = s.spinner.View() + " " + styles.StatusLoading.Render("Signing in...")
	case errors.Is(s.err, client.ErrBadCredentials):
		status = styles.StatusError.Render("Invalid username or password")
	case s.err != nil:
		status = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
	}

	help := styles.HelpStyle.Render("tab: switch field • enter: next/submit • esc: quit")

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s\n\n%s",
		header,
		userStyle.Render(s.username.View()),
		passStyle.Render(s.password.View()),
		status,
		help,
	)
}
