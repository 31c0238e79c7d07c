package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/encorelabs/encore/internal/models"
	"github.com/encorelabs/encore/internal/services"
	"github.com/encorelabs/encore/internal/shared"
	"golang.org/x/sync/errgroup"
)

// playlistDateLayout formats event dates in generated playlist names.
const playlistDateLayout = "2006-01-02"

// Publisher turns canonical setlists into platform playlists.
type Publisher struct {
	platform services.Platform
	logger   *log.Logger
	now      func() time.Time
}

// NewPublisher creates a Publisher backed by the given platform client.
func NewPublisher(platform services.Platform, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Publisher{
		platform: platform,
		logger:   logger,
		now:      time.Now,
	}
}

// PlaylistName computes the name for a published setlist: the explicit name
// if given, else "{artist} - {event date}", else "{artist} - {today}".
func (p *Publisher) PlaylistName(setlist *models.Setlist, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if setlist.EventDate != nil {
		return fmt.Sprintf("%s - %s", setlist.ArtistName, setlist.EventDate.Format(playlistDateLayout))
	}
	return fmt.Sprintf("%s - %s", setlist.ArtistName, p.now().UTC().Format(playlistDateLayout))
}

// Publish creates a playlist for the setlist, resolves every song to a track
// ID, and appends the tracks in one batched, ordered call. Returns the new
// playlist's ID.
//
// Resolution is all-or-nothing: a single unresolvable song fails the whole
// operation.
func (p *Publisher) Publish(ctx context.Context, setlist *models.Setlist, explicitName string) (string, error) {
	if p.platform == nil {
		return "", fmt.Errorf("%w: platform client not initialized", shared.ErrServiceUnavailable)
	}

	name := p.PlaylistName(setlist, explicitName)

	playlistID, err := p.platform.CreatePlaylist(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to create playlist %q: %w", name, err)
	}

	p.logger.Info("playlist created", "name", name, "id", playlistID, "songs", len(setlist.Songs))

	trackIDs, err := p.resolveTracks(ctx, setlist.Songs)
	if err != nil {
		return "", err
	}

	if len(trackIDs) > 0 {
		if err := p.platform.AddTracks(ctx, playlistID, trackIDs); err != nil {
			return "", fmt.Errorf("failed to populate playlist %s: %w", playlistID, err)
		}
	}

	return playlistID, nil
}

// resolveTracks searches for every song concurrently and returns the track
// IDs in song order. Results are written positionally, so completion order
// of the searches cannot reorder the playlist.
func (p *Publisher) resolveTracks(ctx context.Context, songs []models.Song) ([]string, error) {
	trackIDs := make([]string, len(songs))

	g, gctx := errgroup.WithContext(ctx)
	for i, song := range songs {
		g.Go(func() error {
			id, err := p.platform.SearchTrack(gctx, song.Name, song.OriginalArtist)
			if err != nil {
				return fmt.Errorf("failed to resolve %q: %w", song.Name, err)
			}
			trackIDs[i] = id
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return trackIDs, nil
}

// Rebuild reads an existing playlist's name, creates a new playlist with the
// same name, and appends the given tracks to it one call per track, in
// order. The single-item appends mirror a platform quirk this endpoint has
// always had; batching would work today but the call sequence is part of the
// contract callers observe.
func (p *Publisher) Rebuild(ctx context.Context, playlistID string, trackIDs []string) (string, error) {
	if p.platform == nil {
		return "", fmt.Errorf("%w: platform client not initialized", shared.ErrServiceUnavailable)
	}

	name, err := p.platform.PlaylistName(ctx, playlistID)
	if err != nil {
		return "", fmt.Errorf("failed to read playlist %s: %w", playlistID, err)
	}

	newID, err := p.platform.CreatePlaylist(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to create playlist %q: %w", name, err)
	}

	for _, trackID := range trackIDs {
		if err := p.platform.AddTrack(ctx, newID, trackID); err != nil {
			return "", fmt.Errorf("failed to append track %s: %w", trackID, err)
		}
	}

	p.logger.Info("playlist rebuilt", "source", playlistID, "dest", newID, "tracks", len(trackIDs))

	return newID, nil
}
