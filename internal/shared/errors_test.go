package shared

import (
	"errors"
	"fmt"
	"testing"
)

func TestNormalizationError(t *testing.T) {
	err := &NormalizationError{Field: "artist.name", Reason: "missing"}

	if got := err.Error(); got != `normalize: field "artist.name": missing` {
		t.Errorf("unexpected message %q", got)
	}
	if !errors.Is(err, ErrNormalization) {
		t.Error("expected the error to match ErrNormalization")
	}

	wrapped := fmt.Errorf("handler: %w", err)

	var normErr *NormalizationError
	if !errors.As(wrapped, &normErr) {
		t.Fatal("expected errors.As to recover the NormalizationError")
	}
	if normErr.Field != "artist.name" {
		t.Errorf("unexpected field %q", normErr.Field)
	}
}

func TestAPIError(t *testing.T) {
	err := &APIError{Service: "spotify", StatusCode: 429, Body: `{"error": "rate limited"}`}

	if got := err.Error(); got != "spotify API error: status 429" {
		t.Errorf("unexpected message %q", got)
	}
	// The body stays out of the message so it never reaches clients.
	if errors.Is(err, ErrAPIRequest) == false {
		t.Error("expected the error to match ErrAPIRequest")
	}

	var apiErr *APIError
	if !errors.As(fmt.Errorf("outer: %w", err), &apiErr) {
		t.Fatal("expected errors.As to recover the APIError")
	}
	if apiErr.Body == "" {
		t.Error("expected the body preserved for diagnostics")
	}
}
