package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/encorelabs/encore/internal/services"
	"github.com/encorelabs/encore/internal/setlist"
	"github.com/encorelabs/encore/internal/shared"
	"github.com/encorelabs/encore/internal/tasks"
)

// API holds the handler dependencies for the REST surface.
type API struct {
	setlistfm services.SetlistProvider
	livefans  services.ScrapeProvider
	platform  services.Platform
	publisher *tasks.Publisher
	logger    *log.Logger
}

// APIOpts contains the dependencies for constructing an [API].
type APIOpts struct {
	SetlistFM services.SetlistProvider
	LiveFans  services.ScrapeProvider
	Platform  services.Platform
	Publisher *tasks.Publisher
	Logger    *log.Logger
}

// NewAPI creates the REST handler set.
func NewAPI(opts APIOpts) *API {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Publisher == nil {
		opts.Publisher = tasks.NewPublisher(opts.Platform, opts.Logger)
	}

	return &API{
		setlistfm: opts.SetlistFM,
		livefans:  opts.LiveFans,
		platform:  opts.Platform,
		publisher: opts.Publisher,
		logger:    opts.Logger,
	}
}

// Register wires every endpoint into the router.
func (a *API) Register(r Router) {
	r.Handle("GET", "/{$}", http.HandlerFunc(a.Health))
	r.Handle("GET", "/api", http.HandlerFunc(a.Health))
	r.Handle("GET", "/api/livefans/{id}", http.HandlerFunc(a.LiveFansSetlist))
	r.Handle("GET", "/api/setlistfm/{id}", http.HandlerFunc(a.SetlistFMSetlist))
	r.Handle("GET", "/api/modify/{id}", http.HandlerFunc(a.Playlist))
	r.Handle("GET", "/api/song/search/{artist}/{name}", http.HandlerFunc(a.SongSearch))
	r.Handle("GET", "/api/artist/search", http.HandlerFunc(a.ArtistSearch))
	r.Handle("POST", "/api/recreate/playlist/{id}", http.HandlerFunc(a.RecreatePlaylist))
	r.Handle("GET", "/api/fetch-html/setlistfm", http.HandlerFunc(a.SetlistFMArtistSetlists))
	r.Handle("GET", "/api/fetch-html/livefans", http.HandlerFunc(a.LiveFansArtistSearch))
}

// Health is a liveness probe.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// LiveFansSetlist handles GET /api/livefans/{id}.
//
// Fetches the scraped setlist, normalizes it, publishes it as a playlist,
// and returns the setlist with the new playlist's ID.
func (a *API) LiveFansSetlist(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	excludeCovers := r.URL.Query().Get("isCover") == "true"

	raw, err := a.livefans.FetchSetlist(r.Context(), id, excludeCovers)
	if err != nil {
		a.writeError(w, r, err, "failed to invoke scraping service")
		return
	}

	sl, err := setlist.NormalizeScraped(raw)
	if err != nil {
		a.writeError(w, r, err, "failed to process setlist")
		return
	}

	playlistID, err := a.publisher.Publish(r.Context(), sl, "")
	if err != nil {
		a.writeError(w, r, err, "failed to publish setlist")
		return
	}

	sl.SetlistID = playlistID
	writeJSON(w, http.StatusOK, sl)
}

// SetlistFMSetlist handles GET /api/setlistfm/{id}.
//
// An optional JSON or form body may carry setlist_name to override the
// generated playlist name. The isTape query parameter is accepted for
// compatibility but has no effect: tape songs are always excluded.
func (a *API) SetlistFMSetlist(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	excludeCovers := r.URL.Query().Get("isCover") == "true"
	explicitName := setlistNameFromRequest(r)

	raw, err := a.setlistfm.Setlist(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err, "failed to fetch setlist")
		return
	}

	sl, err := setlist.NormalizeSetlistFM(raw, setlist.Options{ExcludeCovers: excludeCovers})
	if err != nil {
		a.writeError(w, r, err, "failed to process setlist")
		return
	}

	playlistID, err := a.publisher.Publish(r.Context(), sl, explicitName)
	if err != nil {
		a.writeError(w, r, err, "failed to publish setlist")
		return
	}

	sl.SetlistID = playlistID
	writeJSON(w, http.StatusOK, sl)
}

// Playlist handles GET /api/modify/{id} by passing the platform's playlist
// JSON straight through.
func (a *API) Playlist(w http.ResponseWriter, r *http.Request) {
	raw, err := a.platform.Playlist(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, err, "failed to fetch playlist")
		return
	}

	writeRaw(w, http.StatusOK, raw)
}

// SongSearch handles GET /api/song/search/{artist}/{name}.
func (a *API) SongSearch(w http.ResponseWriter, r *http.Request) {
	raw, err := a.platform.SearchTrackRaw(r.Context(), r.PathValue("name"), r.PathValue("artist"))
	if err != nil {
		a.writeError(w, r, err, "failed to search songs")
		return
	}

	writeRaw(w, http.StatusOK, raw)
}

// ArtistSearch handles GET /api/artist/search?q=&site=.
func (a *API) ArtistSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	site := r.URL.Query().Get("site")

	raw, err := a.platform.SearchArtist(r.Context(), query, site)
	if err != nil {
		a.writeError(w, r, err, "failed to search artists")
		return
	}

	writeRaw(w, http.StatusOK, raw)
}

// RecreatePlaylist handles POST /api/recreate/playlist/{id}.
//
// The body is a JSON array of track IDs; the tracks land in the new playlist
// in body order.
func (a *API) RecreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var trackIDs []string
	if err := json.NewDecoder(r.Body).Decode(&trackIDs); err != nil {
		a.writeError(w, r, fmt.Errorf("%w: expected a JSON array of track IDs", shared.ErrInvalidInput), "")
		return
	}

	newID, err := a.publisher.Rebuild(r.Context(), r.PathValue("id"), trackIDs)
	if err != nil {
		a.writeError(w, r, err, "failed to recreate playlist")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"playlist_id": newID})
}

// SetlistFMArtistSetlists handles GET /api/fetch-html/setlistfm?artist=.
//
// Resolves the artist name to its MBID, then returns that artist's setlist
// listing untouched.
func (a *API) SetlistFMArtistSetlists(w http.ResponseWriter, r *http.Request) {
	artist := r.URL.Query().Get("artist")
	if artist == "" {
		a.writeError(w, r, fmt.Errorf("%w: artist", shared.ErrMissingArgument), "")
		return
	}

	mbid, err := a.setlistfm.ArtistMBID(r.Context(), artist)
	if err != nil {
		a.writeError(w, r, err, "failed to search artists")
		return
	}

	raw, err := a.setlistfm.ArtistSetlists(r.Context(), mbid)
	if err != nil {
		a.writeError(w, r, err, "failed to fetch setlists")
		return
	}

	writeRaw(w, http.StatusOK, raw)
}

// LiveFansArtistSearch handles GET /api/fetch-html/livefans?artist=.
func (a *API) LiveFansArtistSearch(w http.ResponseWriter, r *http.Request) {
	artist := r.URL.Query().Get("artist")
	if artist == "" {
		a.writeError(w, r, fmt.Errorf("%w: artist", shared.ErrMissingArgument), "")
		return
	}

	raw, err := a.livefans.SearchArtist(r.Context(), artist)
	if err != nil {
		a.writeError(w, r, err, "failed to search artists")
		return
	}

	writeRaw(w, http.StatusOK, raw)
}

// setlistNameFromRequest extracts an optional setlist_name from a JSON or
// form-encoded body. Both shapes are supported; a missing or unreadable body
// simply yields no override.
func setlistNameFromRequest(r *http.Request) string {
	if r.Body == nil {
		return ""
	}

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var body struct {
			SetlistName string `json:"setlist_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return ""
		}
		return body.SetlistName
	}

	if err := r.ParseForm(); err != nil {
		return ""
	}
	return r.PostForm.Get("setlist_name")
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError translates an internal error into the externally-visible JSON
// body. Input errors surface their own message; everything else gets the
// generic fallback so upstream bodies and credentials never leak.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, shared.ErrInvalidInput) || errors.Is(err, shared.ErrMissingArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, shared.ErrTrackNotFound) || errors.Is(err, shared.ErrArtistNotFound) || errors.Is(err, shared.ErrPlaylistNotFound):
		a.logger.Warn("not found", "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		if fallback == "" {
			fallback = "internal error"
		}
		a.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", r.Header.Get(requestIDHeader))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fallback})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(raw)
}
