// Spotify API implementation of [Platform]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/encorelabs/encore/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// searchRate paces the publisher's per-song search fan-out.
	searchRate = 5
)

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	URI     string          `json:"uri"`
}

type trackSearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

type createPlaylistResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type playlistNameResponse struct {
	Name string `json:"name"`
}

// SpotifyService implements [Platform] against the Spotify Web API.
//
// Authentication uses the refresh-token grant via [oauth2]: every operation
// group resolves a fresh access token scoped to that call chain, so there is
// no process-wide mutable token.
type SpotifyService struct {
	config       *oauth2.Config
	refreshToken string
	userID       string
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// NewSpotifyService creates a new Spotify service from service-account credentials.
//
// Required keys: client_id, client_secret, refresh_token, user_id.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	refreshToken, ok := credentials["refresh_token"]
	if !ok || refreshToken == "" {
		return nil, fmt.Errorf("%w: missing refresh_token", shared.ErrMissingCredentials)
	}

	userID, ok := credentials["user_id"]
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: missing user_id", shared.ErrMissingCredentials)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:       config,
		refreshToken: refreshToken,
		userID:       userID,
		baseURL:      spotifyBaseURL,
		httpClient:   http.DefaultClient,
		limiter:      rate.NewLimiter(rate.Limit(searchRate), 1),
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// token exchanges the fixed refresh token for a fresh access token.
//
// Called at the top of every operation group; the token never outlives the
// request scope that obtained it.
func (s *SpotifyService) token(ctx context.Context) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	src := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: s.refreshToken})

	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return tok, nil
}

// doRequest performs an authenticated HTTP request to the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, tok *oauth2.Token, method, endpoint string, header http.Header, body any, result any) error {
	apiURL := s.baseURL + endpoint

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return &shared.APIError{Service: "spotify", StatusCode: resp.StatusCode, Body: string(data)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func trackSearchQuery(name, artist string) string {
	// The source catalog chokes on a leading hash in the track name.
	name = strings.TrimPrefix(name, "#")

	q := url.Values{}
	q.Set("q", fmt.Sprintf("%s %s", name, artist))
	q.Set("type", "track")
	q.Set("limit", "10")
	q.Set("market", "JP")
	return q.Encode()
}

// SearchTrack resolves a song to the first matching track ID.
func (s *SpotifyService) SearchTrack(ctx context.Context, name, artist string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	tok, err := s.token(ctx)
	if err != nil {
		return "", err
	}

	var result trackSearchResponse
	if err := s.doRequest(ctx, tok, http.MethodGet, "/search?"+trackSearchQuery(name, artist), nil, nil, &result); err != nil {
		return "", err
	}

	if len(result.Tracks.Items) == 0 {
		return "", fmt.Errorf("%w: %q by %q", shared.ErrTrackNotFound, name, artist)
	}

	return result.Tracks.Items[0].ID, nil
}

// SearchTrackRaw returns the raw track-search response for passthrough endpoints.
func (s *SpotifyService) SearchTrackRaw(ctx context.Context, name, artist string) (json.RawMessage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	tok, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	var result json.RawMessage
	if err := s.doRequest(ctx, tok, http.MethodGet, "/search?"+trackSearchQuery(name, artist), nil, nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// SearchArtist returns the raw artist-search response.
//
// A "livefans" site hint biases results toward Japanese artist names.
func (s *SpotifyService) SearchArtist(ctx context.Context, name, site string) (json.RawMessage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	tok, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", name)
	q.Set("type", "artist")
	q.Set("limit", "10")
	q.Set("market", "JP")

	var header http.Header
	if site == "livefans" {
		header = http.Header{"Accept-Language": {"ja"}}
	}

	var result json.RawMessage
	if err := s.doRequest(ctx, tok, http.MethodGet, "/search?"+q.Encode(), header, nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// CreatePlaylist creates a public playlist owned by the service account.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name string) (string, error) {
	tok, err := s.token(ctx)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(s.userID))
	body := map[string]any{"name": name, "public": true}

	var result createPlaylistResponse
	if err := s.doRequest(ctx, tok, http.MethodPost, endpoint, nil, body, &result); err != nil {
		return "", err
	}

	if result.ID == "" {
		return "", fmt.Errorf("%w: playlist create response missing id", shared.ErrAPIRequest)
	}

	return result.ID, nil
}

// AddTracks appends tracks to a playlist in a single batched call, preserving order.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	tok, err := s.token(ctx)
	if err != nil {
		return err
	}

	return s.addTracks(ctx, tok, playlistID, trackIDs)
}

// AddTrack appends a single track. The rebuild endpoint historically required
// a single-item payload per call, so this stays separate from [SpotifyService.AddTracks].
func (s *SpotifyService) AddTrack(ctx context.Context, playlistID, trackID string) error {
	tok, err := s.token(ctx)
	if err != nil {
		return err
	}

	return s.addTracks(ctx, tok, playlistID, []string{trackID})
}

func (s *SpotifyService) addTracks(ctx context.Context, tok *oauth2.Token, playlistID string, trackIDs []string) error {
	uris := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		uris[i] = "spotify:track:" + id
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return s.doRequest(ctx, tok, http.MethodPost, endpoint, nil, map[string]any{"uris": uris}, nil)
}

// Playlist returns the raw playlist JSON.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (json.RawMessage, error) {
	tok, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	var result json.RawMessage
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(playlistID))
	if err := s.doRequest(ctx, tok, http.MethodGet, endpoint, nil, nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// PlaylistName returns just the playlist's display name.
func (s *SpotifyService) PlaylistName(ctx context.Context, playlistID string) (string, error) {
	tok, err := s.token(ctx)
	if err != nil {
		return "", err
	}

	var result playlistNameResponse
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(playlistID))
	if err := s.doRequest(ctx, tok, http.MethodGet, endpoint, nil, nil, &result); err != nil {
		return "", err
	}

	if result.Name == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	return result.Name, nil
}
