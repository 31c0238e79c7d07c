// Setlist.fm REST API implementation of [SetlistProvider]
//
// https://api.setlist.fm/docs/1.0/index.html
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/encorelabs/encore/internal/shared"
)

const setlistFMBaseURL = "https://api.setlist.fm/rest/1.0"

// SetlistFMService implements [SetlistProvider] against the Setlist.fm REST API.
//
// Every request carries the x-api-key header; responses are returned raw and
// reshaped by the normalizer, not here.
type SetlistFMService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type artistSearchResponse struct {
	Artist []struct {
		MBID string `json:"mbid"`
		Name string `json:"name"`
	} `json:"artist"`
}

// NewSetlistFMService creates a Setlist.fm client with the given API key.
// baseURL defaults to the public API when empty.
func NewSetlistFMService(apiKey, baseURL string) (*SetlistFMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing setlist.fm api_key", shared.ErrMissingCredentials)
	}
	if baseURL == "" {
		baseURL = setlistFMBaseURL
	}

	return &SetlistFMService{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}, nil
}

// get performs an authenticated GET against the Setlist.fm API.
func (s *SetlistFMService) get(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return &shared.APIError{Service: "setlistfm", StatusCode: resp.StatusCode, Body: string(data)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Setlist fetches a raw setlist payload by its external ID.
func (s *SetlistFMService) Setlist(ctx context.Context, id string) (json.RawMessage, error) {
	var result json.RawMessage
	endpoint := fmt.Sprintf("/setlist/%s", url.PathEscape(id))
	if err := s.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ArtistMBID resolves an artist name to the MBID of the most relevant match.
func (s *SetlistFMService) ArtistMBID(ctx context.Context, name string) (string, error) {
	q := url.Values{}
	q.Set("artistName", name)
	q.Set("sort", "relevance")

	var result artistSearchResponse
	if err := s.get(ctx, "/search/artists?"+q.Encode(), &result); err != nil {
		return "", err
	}

	if len(result.Artist) == 0 || result.Artist[0].MBID == "" {
		return "", fmt.Errorf("%w: %q", shared.ErrArtistNotFound, name)
	}

	return result.Artist[0].MBID, nil
}

// ArtistSetlists fetches the raw setlist listing for an artist MBID.
func (s *SetlistFMService) ArtistSetlists(ctx context.Context, mbid string) (json.RawMessage, error) {
	var result json.RawMessage
	endpoint := fmt.Sprintf("/artist/%s/setlists", url.PathEscape(mbid))
	if err := s.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return result, nil
}
