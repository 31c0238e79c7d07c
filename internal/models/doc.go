// Package models defines the canonical setlist shapes shared by every layer
// of the service.
//
// The types here are the provider-independent form that the normalizer
// produces and the publisher consumes:
//   - [Song] : one performed track, post medley-splitting
//   - [Setlist] : ordered songs plus event metadata
//
// Both serialize to the snake_case JSON the API returns to callers. Nothing
// in this package is persisted; the streaming-platform playlist created from
// a [Setlist] is the durable artifact.
package models
