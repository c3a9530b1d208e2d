// Package hitster converts Spotify playlists into Hitster-style card decks.
// A deck entry needs a title, an artist and the year the song was originally
// released. Spotify's release dates often point at remasters or compilations,
// so the converter prefers the earliest release year reported by MusicBrainz
// and only falls back to Spotify's date when no reliable match is found.
// Tracks without any usable year are skipped and reported to the caller.
package hitster

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Track is a playlist entry as produced by a PlaylistSource. SpotifyYear is
// the year prefix of the album release date, zero when unknown.
type Track struct {
	Title       string
	Artist      string
	SpotifyYear int
}

// Card is one entry of the generated deck. It serialises to the compact
// ["title", "artist", year] array form consumed by the card generator.
type Card struct {
	Title  string
	Artist string
	Year   int
}

// MarshalJSON encodes the card as a three-element array.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Title, c.Artist, c.Year})
}

// UnmarshalJSON decodes the three-element array form back into a Card.
func (c *Card) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("card: expected 3 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &c.Title); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[1], &c.Artist); err != nil {
		return err
	}
	return json.Unmarshal(parts[2], &c.Year)
}

// PlaylistSource yields the tracks of a playlist identified by a full URL or
// a bare playlist ID.
type PlaylistSource interface {
	PlaylistTracks(ctx context.Context, playlist string) ([]Track, error)
}

// YearFinder looks up the original release year of a song. ok is false when
// no reliable result was found.
type YearFinder interface {
	OriginalYear(ctx context.Context, title, artist string) (year int, ok bool)
}

// YearCache persists resolved years so repeated conversions skip the slow
// MusicBrainz lookups. Implementations are expected to treat (artist, title)
// as the key.
type YearCache interface {
	GetYear(ctx context.Context, artist, title string) (year int, ok bool, err error)
	SaveYear(ctx context.Context, artist, title string, year int, source string) error
}

// Converter assembles a deck from its injected collaborators. Cache and Log
// are optional; Years may be nil to rely on Spotify dates alone.
type Converter struct {
	Source PlaylistSource
	Years  YearFinder
	Cache  YearCache
	Log    *logrus.Logger
}

// Convert fetches the playlist and resolves a release year for every track.
// It returns the deck alongside a list of "Artist - Title" strings for the
// tracks that had to be skipped. The context aborts the conversion between
// tracks; a playlist fetch failure aborts it entirely.
func (cv *Converter) Convert(ctx context.Context, playlist string) ([]Card, []string, error) {
	tracks, err := cv.Source.PlaylistTracks(ctx, playlist)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch playlist: %w", err)
	}

	var cards []Card
	var skipped []string
	for i, t := range tracks {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		entry := cv.logger().WithFields(logrus.Fields{
			"track":  fmt.Sprintf("%d/%d", i+1, len(tracks)),
			"artist": t.Artist,
			"title":  t.Title,
		})
		year, source := cv.resolveYear(ctx, t)
		if year == 0 {
			entry.Warn("no release year found, skipping")
			skipped = append(skipped, t.Artist+" - "+t.Title)
			continue
		}
		entry.WithFields(logrus.Fields{"year": year, "source": source}).Info("release year resolved")
		cards = append(cards, Card{Title: t.Title, Artist: t.Artist, Year: year})
	}
	return cards, skipped, nil
}

// resolveYear picks the best available year for a track: cached value first,
// then the MusicBrainz original year, then Spotify's own release date. Newly
// resolved years are written back to the cache; cache errors are logged and
// otherwise ignored since the cache is an optimisation only.
func (cv *Converter) resolveYear(ctx context.Context, t Track) (int, string) {
	if cv.Cache != nil {
		year, ok, err := cv.Cache.GetYear(ctx, t.Artist, t.Title)
		if err != nil {
			cv.logger().WithError(err).Warn("year cache read failed")
		} else if ok {
			return year, "cache"
		}
	}
	if cv.Years != nil {
		if year, ok := cv.Years.OriginalYear(ctx, t.Title, t.Artist); ok {
			cv.saveYear(ctx, t, year, "musicbrainz")
			return year, "musicbrainz"
		}
	}
	if t.SpotifyYear != 0 {
		cv.saveYear(ctx, t, t.SpotifyYear, "spotify")
		return t.SpotifyYear, "spotify"
	}
	return 0, ""
}

func (cv *Converter) saveYear(ctx context.Context, t Track, year int, source string) {
	if cv.Cache == nil {
		return
	}
	if err := cv.Cache.SaveYear(ctx, t.Artist, t.Title, year, source); err != nil {
		cv.logger().WithError(err).Warn("year cache write failed")
	}
}

func (cv *Converter) logger() *logrus.Logger {
	if cv.Log != nil {
		return cv.Log
	}
	return logrus.StandardLogger()
}
