// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// JSONResponse builds an *http.Response with a JSON body for use with [MockRoundTripper].
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockPlatform is a controllable test double for [services.Platform].
// Unset function fields return zero values.
type MockPlatform struct {
	SearchTrackFunc    func(ctx context.Context, name, artist string) (string, error)
	SearchTrackRawFunc func(ctx context.Context, name, artist string) (json.RawMessage, error)
	SearchArtistFunc   func(ctx context.Context, name, site string) (json.RawMessage, error)
	CreatePlaylistFunc func(ctx context.Context, name string) (string, error)
	AddTracksFunc      func(ctx context.Context, playlistID string, trackIDs []string) error
	AddTrackFunc       func(ctx context.Context, playlistID, trackID string) error
	PlaylistFunc       func(ctx context.Context, playlistID string) (json.RawMessage, error)
	PlaylistNameFunc   func(ctx context.Context, playlistID string) (string, error)
}

func (m *MockPlatform) SearchTrack(ctx context.Context, name, artist string) (string, error) {
	if m.SearchTrackFunc != nil {
		return m.SearchTrackFunc(ctx, name, artist)
	}
	return "", nil
}

func (m *MockPlatform) SearchTrackRaw(ctx context.Context, name, artist string) (json.RawMessage, error) {
	if m.SearchTrackRawFunc != nil {
		return m.SearchTrackRawFunc(ctx, name, artist)
	}
	return nil, nil
}

func (m *MockPlatform) SearchArtist(ctx context.Context, name, site string) (json.RawMessage, error) {
	if m.SearchArtistFunc != nil {
		return m.SearchArtistFunc(ctx, name, site)
	}
	return nil, nil
}

func (m *MockPlatform) CreatePlaylist(ctx context.Context, name string) (string, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, name)
	}
	return "", nil
}

func (m *MockPlatform) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if m.AddTracksFunc != nil {
		return m.AddTracksFunc(ctx, playlistID, trackIDs)
	}
	return nil
}

func (m *MockPlatform) AddTrack(ctx context.Context, playlistID, trackID string) error {
	if m.AddTrackFunc != nil {
		return m.AddTrackFunc(ctx, playlistID, trackID)
	}
	return nil
}

func (m *MockPlatform) Playlist(ctx context.Context, playlistID string) (json.RawMessage, error) {
	if m.PlaylistFunc != nil {
		return m.PlaylistFunc(ctx, playlistID)
	}
	return nil, nil
}

func (m *MockPlatform) PlaylistName(ctx context.Context, playlistID string) (string, error) {
	if m.PlaylistNameFunc != nil {
		return m.PlaylistNameFunc(ctx, playlistID)
	}
	return "", nil
}

func (m *MockPlatform) Name() string { return "mock" }

// MockSetlistProvider is a controllable test double for [services.SetlistProvider].
type MockSetlistProvider struct {
	SetlistFunc        func(ctx context.Context, id string) (json.RawMessage, error)
	ArtistMBIDFunc     func(ctx context.Context, name string) (string, error)
	ArtistSetlistsFunc func(ctx context.Context, mbid string) (json.RawMessage, error)
}

func (m *MockSetlistProvider) Setlist(ctx context.Context, id string) (json.RawMessage, error) {
	if m.SetlistFunc != nil {
		return m.SetlistFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockSetlistProvider) ArtistMBID(ctx context.Context, name string) (string, error) {
	if m.ArtistMBIDFunc != nil {
		return m.ArtistMBIDFunc(ctx, name)
	}
	return "", nil
}

func (m *MockSetlistProvider) ArtistSetlists(ctx context.Context, mbid string) (json.RawMessage, error) {
	if m.ArtistSetlistsFunc != nil {
		return m.ArtistSetlistsFunc(ctx, mbid)
	}
	return nil, nil
}

// MockScrapeProvider is a controllable test double for [services.ScrapeProvider].
type MockScrapeProvider struct {
	FetchSetlistFunc func(ctx context.Context, eventID string, excludeCovers bool) (json.RawMessage, error)
	SearchArtistFunc func(ctx context.Context, name string) (json.RawMessage, error)
}

func (m *MockScrapeProvider) FetchSetlist(ctx context.Context, eventID string, excludeCovers bool) (json.RawMessage, error) {
	if m.FetchSetlistFunc != nil {
		return m.FetchSetlistFunc(ctx, eventID, excludeCovers)
	}
	return nil, nil
}

func (m *MockScrapeProvider) SearchArtist(ctx context.Context, name string) (json.RawMessage, error) {
	if m.SearchArtistFunc != nil {
		return m.SearchArtistFunc(ctx, name)
	}
	return nil, nil
}
