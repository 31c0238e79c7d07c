// package services defines interfaces for interacting with HTTP APIs
//
// Spotify, Setlist.fm, LiveFans (via scraping Lambda)
package services

import (
	"context"
	"encoding/json"
)

// Platform defines the operations the service performs against the
// streaming-music platform. Implemented by [SpotifyService].
type Platform interface {
	// SearchTrack resolves a song to the first matching track ID.
	// Returns shared.ErrTrackNotFound when the result set is empty.
	SearchTrack(ctx context.Context, name, artist string) (string, error)

	// SearchTrackRaw returns the raw track-search response for passthrough endpoints.
	SearchTrackRaw(ctx context.Context, name, artist string) (json.RawMessage, error)

	// SearchArtist returns the raw artist-search response.
	// The site hint adjusts the request's language preference.
	SearchArtist(ctx context.Context, name, site string) (json.RawMessage, error)

	// CreatePlaylist creates a public playlist owned by the service account and returns its ID.
	CreatePlaylist(ctx context.Context, name string) (string, error)

	// AddTracks appends tracks to a playlist in a single batched call, preserving order.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// AddTrack appends a single track to a playlist.
	AddTrack(ctx context.Context, playlistID, trackID string) error

	// Playlist returns the raw playlist JSON.
	Playlist(ctx context.Context, playlistID string) (json.RawMessage, error)

	// PlaylistName returns just the playlist's display name.
	PlaylistName(ctx context.Context, playlistID string) (string, error)

	// Name returns the name of the platform (e.g., "Spotify")
	Name() string
}

// SetlistProvider defines the Setlist.fm operations consumed by the handlers.
type SetlistProvider interface {
	// Setlist fetches a raw setlist payload by its external ID.
	Setlist(ctx context.Context, id string) (json.RawMessage, error)

	// ArtistMBID resolves an artist name to the MBID of the most relevant match.
	// Returns shared.ErrArtistNotFound when the search yields nothing.
	ArtistMBID(ctx context.Context, name string) (string, error)

	// ArtistSetlists fetches the raw setlist listing for an artist MBID.
	ArtistSetlists(ctx context.Context, mbid string) (json.RawMessage, error)
}

// ScrapeProvider defines the scraping-Lambda operations consumed by the handlers.
type ScrapeProvider interface {
	// FetchSetlist scrapes an event page into a pre-shaped setlist payload.
	// The excludeCovers flag travels to the Lambda, which filters provider-side.
	FetchSetlist(ctx context.Context, eventID string, excludeCovers bool) (json.RawMessage, error)

	// SearchArtist scrapes the provider's artist search results.
	SearchArtist(ctx context.Context, name string) (json.RawMessage, error)
}
