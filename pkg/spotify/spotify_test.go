package spotify

import (
	"context"
	"errors"
	"testing"

	libspotify "github.com/zmb3/spotify"
)

// fakePager serves predefined playlist pages without hitting the API.
type fakePager struct {
	pages   [][]libspotify.PlaylistTrack
	lastID  libspotify.ID
	current int
	err     error
}

func (f *fakePager) GetPlaylistTracks(id libspotify.ID) (*libspotify.PlaylistTrackPage, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	f.current = 0
	return &libspotify.PlaylistTrackPage{Tracks: f.pages[0]}, nil
}

func (f *fakePager) NextPage(page *libspotify.PlaylistTrackPage) error {
	f.current++
	if f.current >= len(f.pages) {
		return libspotify.ErrNoMorePages
	}
	page.Tracks = f.pages[f.current]
	return nil
}

func playlistTrack(name, artist, releaseDate string, local bool) libspotify.PlaylistTrack {
	return libspotify.PlaylistTrack{
		IsLocal: local,
		Track: libspotify.FullTrack{
			SimpleTrack: libspotify.SimpleTrack{
				Name:    name,
				Artists: []libspotify.SimpleArtist{{Name: artist}},
			},
			Album: libspotify.SimpleAlbum{ReleaseDate: releaseDate},
		},
	}
}

// TestPlaylistTracksPaging verifies that all pages are consumed and tracks
// converted with their release years.
func TestPlaylistTracksPaging(t *testing.T) {
	fp := &fakePager{pages: [][]libspotify.PlaylistTrack{
		{playlistTrack("One", "A", "1971-03-01", false)},
		{playlistTrack("Two", "B", "1982", false)},
	}}
	c := &Client{pager: fp}

	tracks, err := c.PlaylistTracks(context.Background(), "id123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].Title != "One" || tracks[0].Artist != "A" || tracks[0].SpotifyYear != 1971 {
		t.Errorf("unexpected first track %+v", tracks[0])
	}
	if tracks[1].SpotifyYear != 1982 {
		t.Errorf("unexpected second track %+v", tracks[1])
	}
	if fp.lastID != "id123" {
		t.Errorf("unexpected playlist id %s", fp.lastID)
	}
}

// TestPlaylistTracksSkipsLocal ensures local files and empty entries are
// dropped and an all-local playlist reports no tracks.
func TestPlaylistTracksSkipsLocal(t *testing.T) {
	fp := &fakePager{pages: [][]libspotify.PlaylistTrack{{
		playlistTrack("Home Recording", "Me", "", true),
		playlistTrack("", "", "", false),
	}}}
	c := &Client{pager: fp}

	_, err := c.PlaylistTracks(context.Background(), "id")
	if err == nil || err.Error() != "no tracks found" {
		t.Fatalf("expected no tracks found, got %v", err)
	}
}

// TestPlaylistTracksMissingDate leaves the year at zero when Spotify has no
// usable release date.
func TestPlaylistTracksMissingDate(t *testing.T) {
	fp := &fakePager{pages: [][]libspotify.PlaylistTrack{{
		playlistTrack("Song", "Artist", "", false),
	}}}
	c := &Client{pager: fp}

	tracks, err := c.PlaylistTracks(context.Background(), "id")
	if err != nil {
		t.Fatal(err)
	}
	if tracks[0].SpotifyYear != 0 {
		t.Errorf("expected zero year, got %d", tracks[0].SpotifyYear)
	}
}

// TestPlaylistTracksError propagates client failures.
func TestPlaylistTracksError(t *testing.T) {
	c := &Client{pager: &fakePager{err: errors.New("boom")}}
	if _, err := c.PlaylistTracks(context.Background(), "id"); err == nil {
		t.Fatal("expected error")
	}
}

// TestPlaylistTracksCancelled stops between pages when the context ends.
func TestPlaylistTracksCancelled(t *testing.T) {
	fp := &fakePager{pages: [][]libspotify.PlaylistTrack{{
		playlistTrack("One", "A", "1971", false),
	}}}
	c := &Client{pager: fp}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.PlaylistTracks(ctx, "id"); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParsePlaylistID(t *testing.T) {
	cases := []struct {
		in   string
		want libspotify.ID
	}{
		{"https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=x", "37i9dQZF1DXcBWIGoYBM5M"},
		{"spotify.com/playlist/abc123", "abc123"},
		{"justanid", "justanid"},
	}
	for _, c := range cases {
		if got := ParsePlaylistID(c.in); got != c.want {
			t.Errorf("ParsePlaylistID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
