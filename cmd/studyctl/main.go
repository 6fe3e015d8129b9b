package main

import (
	"os"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-study-client/api"
	"github.com/jrsteele09/go-study-client/internal/config"
	"github.com/jrsteele09/go-study-client/session"
	"github.com/jrsteele09/go-study-client/session/storefake"
	"github.com/jrsteele09/go-study-client/session/storefile"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("studyctl failed")
		os.Exit(1)
	}
}

func run() error {
	c := config.New()
	configureLogging(c)

	root := newRootCmd(c)
	return root.Execute()
}

func configureLogging(c config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.GetLogLevel()))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// newApp wires config -> store -> api client -> session manager, the one
// process-wide instance everything else borrows.
func newApp(c config.Config, noPersist bool) (*app, error) {
	var store session.Store
	if noPersist {
		store = storefake.NewFakeStore()
	} else {
		opts := []storefile.Option{}
		if passphrase := c.GetSessionPassphrase(); passphrase != "" {
			opts = append(opts, storefile.WithPassphrase(passphrase))
		}
		store = storefile.New(c.GetSessionFile(), opts...)
	}

	client := api.New(c.GetAPIBaseURL(), api.WithLogger(log.Logger))
	sessions, err := session.NewManager(client, store, session.WithLogger(log.Logger))
	if err != nil {
		return nil, err
	}
	client.SetTokenSource(sessions)

	return &app{client: client, sessions: sessions}, nil
}

type app struct {
	client   *api.Client
	sessions *session.Manager
}

func displayAppName(name string) {
	banner := figure.NewFigure(name, "", true)
	banner.Print()
}
