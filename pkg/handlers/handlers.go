// Package handlers contains the HTTP handlers exposed by the web server: the
// token exchange endpoint, the playlist conversion API and the health check.
// The Application struct bundles the injected dependencies so handlers never
// reach into ambient state.

package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"Hitster-Music-Go/pkg/hitster"
	"Hitster-Music-Go/pkg/tokenfn"
)

// log is the package logger. The serving layer logs on behalf of the token
// exchange, which itself stays silent.
var log = logrus.WithField("component", "handlers")

// TokenExchanger performs one credential exchange per call. It is satisfied
// by *tokenfn.Exchanger and by fakes in tests.
type TokenExchanger interface {
	Exchange(ctx context.Context) (tokenfn.Result, error)
}

// DeckBuilder converts a playlist into Hitster cards. Satisfied by
// *hitster.Converter.
type DeckBuilder interface {
	Convert(ctx context.Context, playlist string) ([]hitster.Card, []string, error)
}

// Application holds the dependencies shared by the route handlers.
type Application struct {
	Exchanger TokenExchanger
	// Deck is optional; the conversion endpoint reports 503 when nil.
	Deck DeckBuilder
}

// Token relays a client-credentials exchange to the caller. The triggering
// request is ignored entirely: method, headers and body play no part in the
// outcome. On success the exchanger's result is written verbatim. On failure
// this handler acts as the hosting platform and emits a generic server fault
// rather than the curated result shape; the underlying error is only logged.
func (app *Application) Token(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res, err := app.Exchanger.Exchange(r.Context())
	exchangeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		tokenExchanges.WithLabelValues("error").Inc()
		log.WithError(err).Error("token exchange failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	tokenExchanges.WithLabelValues("success").Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	io.WriteString(w, res.Body)
}

// Healthz reports liveness. It deliberately performs no upstream call so the
// health check cannot consume Spotify API quota.
func (app *Application) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}
