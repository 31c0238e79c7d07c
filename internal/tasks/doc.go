// Package tasks implements the playlist publishing operations.
//
// The core abstraction is [Publisher], which turns a canonical setlist into
// a populated streaming-platform playlist and rebuilds playlists from track
// ID lists.
//
// # Ordering
//
// Track resolution fans out one platform search per song, but results are
// written positionally so the appended sequence always matches performance
// order — completion order never matters.
//
// # Failure policy
//
// Publishing is all-or-nothing: the first song that fails to resolve aborts
// the operation and cancels outstanding searches. There is no
// partial-playlist fallback.
package tasks
