// LiveFans scraping-Lambda implementation of [ScrapeProvider]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/encorelabs/encore/internal/shared"
)

const liveFansSiteURL = "https://www.livefans.jp"

// LiveFansService implements [ScrapeProvider] by invoking the scraping
// Lambda. The Lambda does the browser automation and answers with
// pre-shaped JSON; this client only builds the payload.
//
// Event scrapes go to mainURL (handler_type "main"), artist searches to
// searchURL (handler_type "sub").
type LiveFansService struct {
	mainURL    string
	searchURL  string
	httpClient *http.Client
}

type lambdaPayload struct {
	HandlerType string `json:"handler_type"`
	URL         string `json:"url"`
	IsCover     *bool  `json:"iscover,omitempty"`
}

// NewLiveFansService creates a scraping client for the given Lambda endpoints.
func NewLiveFansService(mainURL, searchURL string) (*LiveFansService, error) {
	if mainURL == "" || searchURL == "" {
		return nil, fmt.Errorf("%w: missing livefans lambda URLs", shared.ErrMissingConfig)
	}

	return &LiveFansService{
		mainURL:    mainURL,
		searchURL:  searchURL,
		httpClient: http.DefaultClient,
	}, nil
}

// invoke posts a payload to the given Lambda endpoint and returns the raw response.
func (s *LiveFansService) invoke(ctx context.Context, lambdaURL string, payload lambdaPayload) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lambdaURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &shared.APIError{Service: "livefans", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result, nil
}

// FetchSetlist scrapes an event page into a pre-shaped setlist payload.
//
// Cover filtering happens provider-side: the flag rides along in the payload
// and the Lambda drops cover songs before responding.
func (s *LiveFansService) FetchSetlist(ctx context.Context, eventID string, excludeCovers bool) (json.RawMessage, error) {
	if eventID == "" {
		return nil, fmt.Errorf("%w: event id", shared.ErrMissingArgument)
	}

	payload := lambdaPayload{
		HandlerType: "main",
		URL:         fmt.Sprintf("%s/events/%s", liveFansSiteURL, url.PathEscape(eventID)),
		IsCover:     &excludeCovers,
	}

	return s.invoke(ctx, s.mainURL, payload)
}

// SearchArtist scrapes the provider's artist search results.
func (s *LiveFansService) SearchArtist(ctx context.Context, name string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("option", "1")
	q.Set("keyword", name)
	q.Set("genre", "all")

	payload := lambdaPayload{
		HandlerType: "sub",
		URL:         fmt.Sprintf("%s/search?%s", liveFansSiteURL, q.Encode()),
	}

	return s.invoke(ctx, s.searchURL, payload)
}
