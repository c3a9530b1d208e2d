// Command hitster converts a Spotify playlist into a Hitster-compatible JSON
// file. For each track the original release year is looked up via
// MusicBrainz rather than relying on Spotify's often incorrect release
// dates; covers are filtered out by matching artist names. Lookups are
// cached in a local SQLite database so re-runs are fast.
//
// Usage:
//
//	hitster <spotify_playlist_url_or_id> [output.json]
//
// SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set in the
// environment; create an app at https://developer.spotify.com/dashboard to
// obtain them.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"Hitster-Music-Go/pkg/config"
	"Hitster-Music-Go/pkg/db"
	"Hitster-Music-Go/pkg/hitster"
	"Hitster-Music-Go/pkg/musicbrainz"
	"Hitster-Music-Go/pkg/spotify"
)

func main() {
	logger := logrus.New()
	cfg := config.FromEnv()

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		logger.Fatal("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set")
	}
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: hitster <spotify_playlist_url_or_id> [output.json]")
		os.Exit(1)
	}
	playlist := os.Args[1]
	output := "hitster_songs.json"
	if len(os.Args) > 2 {
		output = os.Args[2]
	}

	ctx := context.Background()
	sc, err := spotify.NewClient(ctx, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		logger.WithError(err).Fatal("spotify client init")
	}

	converter := &hitster.Converter{
		Source: sc,
		Years: &musicbrainz.Client{
			UserAgent: "HitsterPlaylistConverter/1.0 ( " + cfg.Contact + " )",
		},
		Log: logger,
	}
	if store, err := db.New(cfg.DatabasePath); err != nil {
		logger.WithError(err).Warn("year cache disabled")
	} else {
		defer store.Close()
		converter.Cache = store
	}

	logger.Info("fetching playlist and resolving release years, this takes about two seconds per track")
	cards, skipped, err := converter.Convert(ctx, playlist)
	if err != nil {
		logger.WithError(err).Fatal("conversion failed")
	}

	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		logger.WithError(err).Fatal("encode deck")
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		logger.WithError(err).Fatal("write output")
	}

	logger.WithFields(logrus.Fields{"cards": len(cards), "file": output}).Info("deck written")
	if len(skipped) > 0 {
		logger.WithField("count", len(skipped)).Warn("tracks skipped, no release year found")
		for _, s := range skipped {
			fmt.Fprintln(os.Stderr, "  - "+s)
		}
	}
}
