// Package handlers groups the HTTP handlers of the service. This file
// contains the playlist conversion endpoint which turns a public Spotify
// playlist into a Hitster card deck. Conversions hit the MusicBrainz rate
// limit per track, so responses for large playlists are slow by nature;
// clients are expected to call this sparingly and cache the result.
package handlers

import (
	"net/http"

	"Hitster-Music-Go/pkg/hitster"
)

// ConvertJSON accepts a JSON payload naming a playlist and responds with the
// generated deck plus the tracks that had to be skipped. The playlist may be
// a full URL or a bare ID.
func (app *Application) ConvertJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSONError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if app.Deck == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "conversion not configured")
		return
	}
	var req struct {
		Playlist string `json:"playlist"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Playlist == "" {
		respondJSONError(w, http.StatusBadRequest, "playlist is required")
		return
	}

	cards, skipped, err := app.Deck.Convert(r.Context(), req.Playlist)
	if err != nil {
		deckConversions.WithLabelValues("error").Inc()
		log.WithError(err).Error("playlist conversion failed")
		respondJSONError(w, http.StatusBadGateway, "conversion failed")
		return
	}
	deckConversions.WithLabelValues("success").Inc()
	respondJSON(w, http.StatusOK, struct {
		Cards   []hitster.Card `json:"cards"`
		Skipped []string       `json:"skipped"`
	}{Cards: cards, Skipped: skipped})
}
