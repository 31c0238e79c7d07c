package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/encorelabs/encore/internal/models"
	"github.com/encorelabs/encore/internal/shared"
	mocks "github.com/encorelabs/encore/internal/testing"
)

func testSetlist(songs ...models.Song) *models.Setlist {
	return &models.Setlist{
		ArtistName: "Performer",
		Songs:      songs,
	}
}

func TestPlaylistName(t *testing.T) {
	p := NewPublisher(&mocks.MockPlatform{}, nil)
	p.now = func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	}

	t.Run("explicit name wins", func(t *testing.T) {
		sl := testSetlist()
		if got := p.PlaylistName(sl, "My Playlist"); got != "My Playlist" {
			t.Errorf("expected 'My Playlist', got %q", got)
		}
	})

	t.Run("falls back to artist and event date", func(t *testing.T) {
		date := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)
		sl := testSetlist()
		sl.EventDate = &date

		if got := p.PlaylistName(sl, ""); got != "Performer - 2023-05-10" {
			t.Errorf("expected 'Performer - 2023-05-10', got %q", got)
		}
	})

	t.Run("falls back to artist and today", func(t *testing.T) {
		sl := testSetlist()
		if got := p.PlaylistName(sl, ""); got != "Performer - 2024-03-15" {
			t.Errorf("expected 'Performer - 2024-03-15', got %q", got)
		}
	})
}

func TestPublish(t *testing.T) {
	t.Run("preserves song order regardless of resolution latency", func(t *testing.T) {
		delays := map[string]time.Duration{
			"Alpha":   0,
			"Bravo":   30 * time.Millisecond,
			"Charlie": 15 * time.Millisecond,
		}
		ids := map[string]string{
			"Alpha":   "id-a",
			"Bravo":   "id-b",
			"Charlie": "id-c",
		}

		var added []string
		platform := &mocks.MockPlatform{
			CreatePlaylistFunc: func(ctx context.Context, name string) (string, error) {
				return "pl-1", nil
			},
			SearchTrackFunc: func(ctx context.Context, name, artist string) (string, error) {
				time.Sleep(delays[name])
				return ids[name], nil
			},
			AddTracksFunc: func(ctx context.Context, playlistID string, trackIDs []string) error {
				added = trackIDs
				return nil
			},
		}

		p := NewPublisher(platform, nil)
		sl := testSetlist(
			models.Song{Name: "Alpha", OriginalArtist: "Performer"},
			models.Song{Name: "Bravo", OriginalArtist: "Performer"},
			models.Song{Name: "Charlie", OriginalArtist: "Performer"},
		)

		playlistID, err := p.Publish(context.Background(), sl, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlistID != "pl-1" {
			t.Errorf("expected playlist pl-1, got %s", playlistID)
		}

		want := []string{"id-a", "id-b", "id-c"}
		if len(added) != len(want) {
			t.Fatalf("expected %d tracks, got %d", len(want), len(added))
		}
		for i, id := range want {
			if added[i] != id {
				t.Errorf("track %d: expected %s, got %s", i, id, added[i])
			}
		}
	})

	t.Run("fails when any song cannot be resolved", func(t *testing.T) {
		var addCalled bool
		platform := &mocks.MockPlatform{
			CreatePlaylistFunc: func(ctx context.Context, name string) (string, error) {
				return "pl-1", nil
			},
			SearchTrackFunc: func(ctx context.Context, name, artist string) (string, error) {
				if name == "Missing" {
					return "", shared.ErrTrackNotFound
				}
				return "id", nil
			},
			AddTracksFunc: func(ctx context.Context, playlistID string, trackIDs []string) error {
				addCalled = true
				return nil
			},
		}

		p := NewPublisher(platform, nil)
		sl := testSetlist(
			models.Song{Name: "Found", OriginalArtist: "Performer"},
			models.Song{Name: "Missing", OriginalArtist: "Performer"},
		)

		_, err := p.Publish(context.Background(), sl, "")
		if !errors.Is(err, shared.ErrTrackNotFound) {
			t.Fatalf("expected ErrTrackNotFound, got %v", err)
		}
		if addCalled {
			t.Error("expected no tracks added after a resolution failure")
		}
	})

	t.Run("skips the append call for empty setlists", func(t *testing.T) {
		var addCalled bool
		platform := &mocks.MockPlatform{
			CreatePlaylistFunc: func(ctx context.Context, name string) (string, error) {
				return "pl-empty", nil
			},
			AddTracksFunc: func(ctx context.Context, playlistID string, trackIDs []string) error {
				addCalled = true
				return nil
			},
		}

		p := NewPublisher(platform, nil)

		playlistID, err := p.Publish(context.Background(), testSetlist(), "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlistID != "pl-empty" {
			t.Errorf("expected pl-empty, got %s", playlistID)
		}
		if addCalled {
			t.Error("expected AddTracks to be skipped for an empty setlist")
		}
	})

	t.Run("uses the computed playlist name", func(t *testing.T) {
		var createdName string
		platform := &mocks.MockPlatform{
			CreatePlaylistFunc: func(ctx context.Context, name string) (string, error) {
				createdName = name
				return "pl-1", nil
			},
		}

		p := NewPublisher(platform, nil)

		if _, err := p.Publish(context.Background(), testSetlist(), "Tour Night"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if createdName != "Tour Night" {
			t.Errorf("expected playlist named 'Tour Night', got %q", createdName)
		}
	})

	t.Run("rejects a nil platform", func(t *testing.T) {
		p := NewPublisher(nil, nil)

		_, err := p.Publish(context.Background(), testSetlist(), "")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Fatalf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestRebuild(t *testing.T) {
	t.Run("copies the source name and appends tracks one by one", func(t *testing.T) {
		var mu sync.Mutex
		var appended []string
		var createdName string

		platform := &mocks.MockPlatform{
			PlaylistNameFunc: func(ctx context.Context, playlistID string) (string, error) {
				if playlistID != "source" {
					t.Errorf("expected lookup of 'source', got %s", playlistID)
				}
				return "Old Name", nil
			},
			CreatePlaylistFunc: func(ctx context.Context, name string) (string, error) {
				createdName = name
				return "dest", nil
			},
			AddTrackFunc: func(ctx context.Context, playlistID, trackID string) error {
				mu.Lock()
				defer mu.Unlock()
				appended = append(appended, trackID)
				return nil
			},
		}

		p := NewPublisher(platform, nil)

		newID, err := p.Rebuild(context.Background(), "source", []string{"t1", "t2", "t3"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if newID != "dest" {
			t.Errorf("expected dest, got %s", newID)
		}
		if createdName != "Old Name" {
			t.Errorf("expected playlist named 'Old Name', got %q", createdName)
		}

		want := []string{"t1", "t2", "t3"}
		if len(appended) != len(want) {
			t.Fatalf("expected %d appends, got %d", len(want), len(appended))
		}
		for i, id := range want {
			if appended[i] != id {
				t.Errorf("append %d: expected %s, got %s", i, id, appended[i])
			}
		}
	})

	t.Run("stops at the first failed append", func(t *testing.T) {
		var calls int
		platform := &mocks.MockPlatform{
			PlaylistNameFunc: func(ctx context.Context, playlistID string) (string, error) {
				return "Name", nil
			},
			CreatePlaylistFunc: func(ctx context.Context, name string) (string, error) {
				return "dest", nil
			},
			AddTrackFunc: func(ctx context.Context, playlistID, trackID string) error {
				calls++
				if trackID == "t2" {
					return shared.ErrAPIRequest
				}
				return nil
			},
		}

		p := NewPublisher(platform, nil)

		_, err := p.Rebuild(context.Background(), "source", []string{"t1", "t2", "t3"})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if calls != 2 {
			t.Errorf("expected 2 append calls, got %d", calls)
		}
	})

	t.Run("propagates a missing source playlist", func(t *testing.T) {
		platform := &mocks.MockPlatform{
			PlaylistNameFunc: func(ctx context.Context, playlistID string) (string, error) {
				return "", shared.ErrPlaylistNotFound
			},
		}

		p := NewPublisher(platform, nil)

		_, err := p.Rebuild(context.Background(), "missing", []string{"t1"})
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
		}
	})
}
