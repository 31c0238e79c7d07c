// package models defines the data model for the setlist publishing service
package models

import (
	"time"
)

// Song represents one performed track. A provider record whose title joins
// several songs with " / " expands into one Song per segment.
type Song struct {
	Name           string `json:"name"`
	OriginalArtist string `json:"original_artist"`
	IsTape         bool   `json:"is_tape,omitempty"`
	IsCover        bool   `json:"is_cover"`
	Position       *int   `json:"position,omitempty"`
}

// Setlist is the canonical, provider-independent setlist shape.
//
// Songs keeps performance order; that order must survive track resolution
// and playlist population. SetlistID carries the created playlist's ID in
// API responses.
type Setlist struct {
	ArtistName string     `json:"artist_name"`
	EventDate  *time.Time `json:"event_date,omitempty"`
	Location   string     `json:"location"`
	Venue      string     `json:"venue"`
	TourName   string     `json:"tour_name"`
	Songs      []Song     `json:"songs"`
	SetlistID  string     `json:"setlist_id,omitempty"`
}
