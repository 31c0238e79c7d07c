// Package services implements HTTP clients for the external collaborators:
// the Spotify Web API, the Setlist.fm REST API, and the LiveFans scraping
// Lambda.
//
// # Interfaces
//
// Consumers depend on the small interfaces in services.go ([Platform],
// [SetlistProvider], [ScrapeProvider]) rather than concrete clients, which
// keeps handlers and the publisher testable with in-memory doubles.
//
// # Spotify implementation
//
// [SpotifyService] authenticates with a fixed refresh token through
// [oauth2.Config.TokenSource]. A fresh access token is resolved at the start
// of every operation group rather than cached process-wide, so no mutable
// token state is shared across requests.
//
// Search calls pass through a [rate.Limiter] because the publisher fans out
// one search per song.
//
// # Error handling
//
// All clients return typed errors from the shared package:
//   - [shared.ErrAuthFailed] : the token endpoint rejected the refresh token
//   - [shared.APIError] : a collaborator answered non-2xx (body kept for logs only)
//   - [shared.ErrTrackNotFound] / [shared.ErrArtistNotFound] : empty search results
package services
