package screens

import (
	"context"
	"time"

	"github.com/kerbaras/mangas-reader/pkg/client"
	"github.com/kerbaras/mangas-reader/pkg/config"
	"github.com/kerbaras/mangas-reader/pkg/services"
	"github.com/kerbaras/mangas-reader/pkg/session"
)

// Deps are the collaborators every screen is built from.
type Deps struct {
	Config     *config.Config
	Client     *client.Client
	Controller *services.MangaController
	Loader     *services.PageLoader
	Store      *session.Store
	Session    *session.Session
}

// NewDeps wires the client, controller and page loader for cfg and sess.
func NewDeps(cfg *config.Config, store *session.Store, sess *session.Session) *Deps {
	token := ""
	if sess != nil {
		token = sess.Token
	}
	cl := client.New(cfg, token)
	return &Deps{
		Config:     cfg,
		Client:     cl,
		Controller: services.NewMangaController(cl),
		Loader: services.NewPageLoader(cl.API(), services.LoaderConfig{
			PageWidth:   cfg.PageWidth,
			Concurrency: cfg.ImageConcurrency,
			Rate:        cfg.ImageRate,
		}),
		Store:   store,
		Session: sess,
	}
}

func (d *Deps) Authenticated() bool {
	return d.Session.Authenticated(time.Now())
}

// requestContext bounds a single screen request by the configured timeout.
func (d *Deps) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d.Config.RequestTimeout)
}
