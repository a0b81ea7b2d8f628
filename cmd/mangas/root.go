package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/kerbaras/mangas-reader/pkg/app"
	"github.com/kerbaras/mangas-reader/pkg/app/screens"
	"github.com/kerbaras/mangas-reader/pkg/config"
	"github.com/kerbaras/mangas-reader/pkg/logging"
	"github.com/kerbaras/mangas-reader/pkg/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errNotLoggedIn = errors.New("not logged in, run 'mangas-reader login' first")

var (
	cfgFile string
	v       = viper.New()
	deps    *screens.Deps
)

var rootCmd = &cobra.Command{
	Use:   "mangas-reader",
	Short: "Read manga from your aggregation server in the terminal",
	Long:  "Browse, read and keep track of manga served by a remote manga API, with a TUI and a few scriptable commands",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	Run: func(cmd *cobra.Command, args []string) {
		route, _ := cmd.Flags().GetString("open")
		// Launch TUI by default
		a := app.NewApp(deps)
		if err := a.Run(route); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default searches ./, $HOME and ~/.config/mangas-reader for .mangas-reader.toml)")
	flags.String("api-url", "", "base URL of the manga API")
	flags.String("source", "", "catalog source (up-manga, reapertrans, slow-manga)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	cobra.CheckErr(v.BindPFlag("api_url", flags.Lookup("api-url")))
	cobra.CheckErr(v.BindPFlag("source", flags.Lookup("source")))
	cobra.CheckErr(v.BindPFlag("log_level", flags.Lookup("log-level")))

	rootCmd.Flags().String("open", "", "route to open first, e.g. /read/<chapter-id> or /history")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
}

// setup loads configuration, installs logging and restores the session.
func setup() error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogFile, cfg.LogLevel)
	if cfg.File != "" {
		log.Debug().Str("file", cfg.File).Msg("config loaded")
	}

	store := session.NewOsStore(cfg.SessionFile)
	sess, err := store.Load()
	if err != nil {
		log.Warn().Err(err).Str("path", store.Path()).Msg("ignoring unreadable session")
		sess = &session.Session{}
	}
	deps = screens.NewDeps(cfg, store, sess)
	return nil
}

// requireRoute fails unless the session gate lets the current session
// through to route.
func requireRoute(route string) error {
	if _, allowed := session.Gate(route, deps.Authenticated()); !allowed {
		return errNotLoggedIn
	}
	return nil
}

// requestContext bounds one command request by the configured timeout.
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), deps.Config.RequestTimeout)
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
