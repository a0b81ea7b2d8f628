// Package app runs the terminal reader.
package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangas-reader/pkg/app/screens"
	"github.com/rs/zerolog/log"
)

type App struct {
	deps *screens.Deps
}

func NewApp(deps *screens.Deps) *App {
	return &App{deps: deps}
}

// Run shows the reader starting at route, or the catalog when route is
// empty, and blocks until the user quits.
func (a *App) Run(route string) error {
	if route == "" {
		route = screens.RouteHome
	}
	log.Info().Str("route", route).Str("api", a.deps.Config.APIURL).Msg("starting reader")

	model := screens.NewRootScreen(a.deps, route)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
