package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrArtistNotFound     = fmt.Errorf("artist not found")
	ErrNormalization      = fmt.Errorf("normalization failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// NormalizationError reports a provider payload that could not be reshaped
// into the canonical setlist form. Field holds the offending field path.
type NormalizationError struct {
	Field  string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize: field %q: %s", e.Field, e.Reason)
}

func (e *NormalizationError) Unwrap() error {
	return ErrNormalization
}

// APIError reports a non-2xx response from an upstream collaborator.
// Body is kept for diagnostics only and must never reach API callers.
type APIError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: status %d", e.Service, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return ErrAPIRequest
}
