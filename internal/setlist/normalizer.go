// package setlist reshapes provider payloads into the canonical [models.Setlist].
//
// Two providers, two shapes: Setlist.fm responses carry nested set/song
// structures that need medley-splitting and cover/tape attribution; the
// scraping Lambda already answers in near-canonical form and only needs
// field mapping. The asymmetry is deliberate — see [NormalizeScraped].
package setlist

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/encorelabs/encore/internal/models"
	"github.com/encorelabs/encore/internal/shared"
)

// medleySeparator joins back-to-back songs in a single recorded title.
const medleySeparator = " / "

// setlistFMDateLayout is the eventDate format of the Setlist.fm API (DD-MM-YYYY).
const setlistFMDateLayout = "02-01-2006"

// Options controls normalization filtering.
type Options struct {
	// ExcludeCovers drops songs the performing artist did not originally record.
	ExcludeCovers bool
}

type fmSetlist struct {
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
	EventDate string `json:"eventDate"`
	Venue     struct {
		Name string `json:"name"`
		City struct {
			Name    string `json:"name"`
			Country struct {
				Name string `json:"name"`
			} `json:"country"`
		} `json:"city"`
	} `json:"venue"`
	Tour *struct {
		Name string `json:"name"`
	} `json:"tour"`
	Sets struct {
		Set []fmSet `json:"set"`
	} `json:"sets"`
}

type fmSet struct {
	Song []fmSong `json:"song"`
}

type fmSong struct {
	Name  string `json:"name"`
	Tape  bool   `json:"tape"`
	Cover *struct {
		Name string `json:"name"`
	} `json:"cover"`
}

type scrapedSetlist struct {
	ArtistName string        `json:"artist_name"`
	Location   string        `json:"location"`
	Venue      string        `json:"venue"`
	TourName   string        `json:"tour_name"`
	Songs      []models.Song `json:"songs"`
}

// NormalizeSetlistFM reshapes a raw Setlist.fm setlist payload into the
// canonical form.
//
// Titles containing the medley separator expand into one song per segment,
// each inheriting the record's cover/tape/artist attribution. Tape songs are
// dropped unconditionally; cover songs are dropped when opts.ExcludeCovers
// is set.
func NormalizeSetlistFM(raw []byte, opts Options) (*models.Setlist, error) {
	var payload fmSetlist
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &shared.NormalizationError{Field: "setlist", Reason: fmt.Sprintf("unexpected payload: %v", err)}
	}

	artist := payload.Artist.Name
	if artist == "" {
		return nil, &shared.NormalizationError{Field: "artist.name", Reason: "missing"}
	}

	if payload.EventDate == "" {
		return nil, &shared.NormalizationError{Field: "eventDate", Reason: "missing"}
	}
	eventDate, err := time.Parse(setlistFMDateLayout, payload.EventDate)
	if err != nil {
		return nil, &shared.NormalizationError{Field: "eventDate", Reason: fmt.Sprintf("expected DD-MM-YYYY, got %q", payload.EventDate)}
	}

	if payload.Venue.City.Name == "" {
		return nil, &shared.NormalizationError{Field: "venue.city.name", Reason: "missing"}
	}
	if payload.Venue.City.Country.Name == "" {
		return nil, &shared.NormalizationError{Field: "venue.city.country.name", Reason: "missing"}
	}

	tour := ""
	if payload.Tour != nil {
		tour = payload.Tour.Name
	}

	var songs []models.Song
	for _, set := range payload.Sets.Set {
		for _, record := range set.Song {
			songs = append(songs, splitRecord(record, artist, opts)...)
		}
	}

	return &models.Setlist{
		ArtistName: artist,
		EventDate:  &eventDate,
		Location:   fmt.Sprintf("%s, %s", payload.Venue.City.Name, payload.Venue.City.Country.Name),
		Venue:      payload.Venue.Name,
		TourName:   tour,
		Songs:      songs,
	}, nil
}

// splitRecord expands one provider song record into zero or more canonical
// songs, applying medley splitting and the tape/cover filters.
func splitRecord(record fmSong, performer string, opts Options) []models.Song {
	originalArtist := performer
	isCover := record.Cover != nil
	if isCover {
		originalArtist = record.Cover.Name
	}

	var songs []models.Song
	for _, part := range strings.Split(record.Name, medleySeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		song := models.Song{
			Name:           part,
			OriginalArtist: originalArtist,
			IsTape:         record.Tape,
			IsCover:        isCover,
		}

		if song.IsTape {
			continue
		}
		if opts.ExcludeCovers && song.IsCover {
			continue
		}

		songs = append(songs, song)
	}

	return songs
}

// NormalizeScraped maps a scraping-Lambda payload onto the canonical form.
//
// The Lambda already delivers songs in canonical shape and handles cover
// filtering provider-side, so no medley-splitting happens here — titles that
// legitimately contain " / " would otherwise be corrupted. Tape songs are
// still dropped to uphold the publishing invariant.
func NormalizeScraped(raw []byte) (*models.Setlist, error) {
	var payload scrapedSetlist
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &shared.NormalizationError{Field: "setlist", Reason: fmt.Sprintf("unexpected payload: %v", err)}
	}

	if payload.ArtistName == "" {
		return nil, &shared.NormalizationError{Field: "artist_name", Reason: "missing"}
	}
	if payload.Songs == nil {
		return nil, &shared.NormalizationError{Field: "songs", Reason: "missing"}
	}

	songs := make([]models.Song, 0, len(payload.Songs))
	for _, song := range payload.Songs {
		if song.IsTape {
			continue
		}
		songs = append(songs, song)
	}

	return &models.Setlist{
		ArtistName: payload.ArtistName,
		Location:   payload.Location,
		Venue:      payload.Venue,
		TourName:   payload.TourName,
		Songs:      songs,
	}, nil
}
