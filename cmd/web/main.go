// Command web starts the token exchange service. Configuration is provided
// via environment variables for the Spotify API credentials and database
// location. The server listens on port 4000 by default and exposes the token
// endpoint at the root path, a playlist conversion API, Prometheus metrics
// and a health check.

package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"Hitster-Music-Go/pkg/config"
	"Hitster-Music-Go/pkg/db"
	"Hitster-Music-Go/pkg/handlers"
	"Hitster-Music-Go/pkg/hitster"
	"Hitster-Music-Go/pkg/musicbrainz"
	"Hitster-Music-Go/pkg/spotify"
	"Hitster-Music-Go/pkg/tokenfn"
)

// main configures application dependencies and starts the HTTP server.
func main() {
	logger := logrus.New()
	cfg := config.FromEnv()

	// The exchange itself never validates credentials; an empty pair is
	// forwarded to Spotify and rejected there. Warn the operator anyway so
	// a missing deployment secret is visible at startup. The values are
	// never logged.
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		logger.Warn("SPOTIFY_CLIENT_ID or SPOTIFY_CLIENT_SECRET is empty; upstream will reject exchanges")
	}

	exchanger := &tokenfn.Exchanger{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}
	app := &handlers.Application{Exchanger: exchanger}

	// The conversion API needs a working Spotify client, which requires a
	// valid credential pair up front. When that fails the token endpoint
	// still serves, so the service degrades instead of refusing to start.
	if sc, err := spotify.NewClient(context.Background(), cfg.ClientID, cfg.ClientSecret); err != nil {
		logger.WithError(err).Warn("playlist conversion disabled: spotify client init failed")
	} else {
		converter := &hitster.Converter{
			Source: sc,
			Years: &musicbrainz.Client{
				UserAgent: "HitsterPlaylistConverter/1.0 ( " + cfg.Contact + " )",
			},
			Log: logger,
		}
		// The year cache is an optimisation; run without it when the
		// database cannot be opened.
		if store, err := db.New(cfg.DatabasePath); err != nil {
			logger.WithError(err).Warn("year cache disabled")
		} else {
			defer store.Close()
			converter.Cache = store
		}
		app.Deck = converter
	}

	mux := http.NewServeMux()
	// The token endpoint is registered at the root so any request shape
	// triggers an exchange; the trigger request is ignored entirely.
	mux.HandleFunc("/", app.Token)
	mux.HandleFunc("/healthz", app.Healthz)
	mux.HandleFunc("/api/convert", app.ConvertJSON)
	mux.Handle("/metrics", promhttp.Handler())

	logger.WithField("addr", cfg.Addr).Info("starting server")
	if err := http.ListenAndServe(cfg.Addr, handlers.SecurityHeaders(mux)); err != nil {
		logger.WithError(err).Fatal("http server error")
	}
}
