// Package spotify wraps the official Spotify client library for playlist
// access. It authenticates with the client credentials flow and exposes the
// minimal surface the converter needs: fetching every track of a playlist
// together with the release year Spotify reports for its album. Errors are
// returned directly from the underlying client so callers can inspect them.
//
// The wrapped library does not accept a context, so cancellation is checked
// explicitly between result pages.
package spotify

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/zmb3/spotify"
	"golang.org/x/oauth2/clientcredentials"

	"Hitster-Music-Go/pkg/hitster"
)

// trackPager defines the subset of the spotify.Client used by this package.
// It allows the concrete client to be replaced in tests.
type trackPager interface {
	GetPlaylistTracks(playlistID spotify.ID) (*spotify.PlaylistTrackPage, error)
	NextPage(page *spotify.PlaylistTrackPage) error
}

// clientPager adapts *spotify.Client to trackPager. The adapter exists
// because NextPage takes an unexported interface type in the library.
type clientPager struct {
	c *spotify.Client
}

func (p clientPager) GetPlaylistTracks(id spotify.ID) (*spotify.PlaylistTrackPage, error) {
	return p.c.GetPlaylistTracks(id)
}

func (p clientPager) NextPage(page *spotify.PlaylistTrackPage) error {
	return p.c.NextPage(page)
}

// Client provides playlist access backed by an application token.
type Client struct {
	pager trackPager
}

// Compile-time interface check ensuring Client can feed the converter.
var _ hitster.PlaylistSource = (*Client)(nil)

// NewClient authenticates using the client credentials flow and returns a
// Client ready for API calls. clientID and clientSecret are obtained from
// the Spotify developer dashboard.
func NewClient(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	// The client credentials OAuth2 flow yields an application token which
	// allows reading public playlists without a user login.
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotify.TokenURL,
	}

	token, err := config.Token(ctx)
	if err != nil {
		return nil, err
	}

	c := spotify.Authenticator{}.NewClient(token)
	return &Client{pager: clientPager{&c}}, nil
}

// playlistIDRe accepts full playlist URLs as copied from the Spotify app.
var playlistIDRe = regexp.MustCompile(`playlist/([A-Za-z0-9]+)`)

// ParsePlaylistID extracts the playlist ID from a URL, or returns the input
// unchanged when it already is a bare ID.
func ParsePlaylistID(s string) spotify.ID {
	if m := playlistIDRe.FindStringSubmatch(s); m != nil {
		return spotify.ID(m[1])
	}
	return spotify.ID(s)
}

// PlaylistTracks implements hitster.PlaylistSource by paging through the
// playlist and converting each entry. Local files and entries without track
// data are skipped. A "no tracks found" error is returned when the playlist
// yields nothing usable.
func (c *Client) PlaylistTracks(ctx context.Context, playlist string) ([]hitster.Track, error) {
	page, err := c.pager.GetPlaylistTracks(ParsePlaylistID(playlist))
	if err != nil {
		return nil, err
	}

	var tracks []hitster.Track
	for {
		// Honour the caller's context between pages since the wrapped
		// client has no cancellation support of its own.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, item := range page.Tracks {
			if item.IsLocal || item.Track.Name == "" {
				continue
			}
			tracks = append(tracks, toTrack(item.Track))
		}
		err := c.pager.NextPage(page)
		if err == spotify.ErrNoMorePages {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no tracks found")
	}
	return tracks, nil
}

// toTrack reduces a full Spotify track to the fields the converter needs.
// The release year comes from the album date prefix and is zero when the
// date is missing or unparsable.
func toTrack(t spotify.FullTrack) hitster.Track {
	artist := ""
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}
	year := 0
	if rd := t.Album.ReleaseDate; len(rd) >= 4 {
		if y, err := strconv.Atoi(rd[:4]); err == nil {
			year = y
		}
	}
	return hitster.Track{Title: t.Name, Artist: artist, SpotifyYear: year}
}
