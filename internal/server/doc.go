// Package server provides HTTP routing, middleware, and the REST handlers of
// the setlist publishing API.
//
// # Router infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with
// method-prefixed patterns, so path parameters come from [http.Request.PathValue].
//
// # Handlers
//
// [API] holds the service dependencies and registers one handler per
// endpoint. Every handler answers JSON; failures map onto the error
// taxonomy in the shared package:
//
//   - invalid request input → 400
//   - empty search results → 404
//   - collaborator or normalization failures → 500
//
// Upstream response bodies and credentials never reach the caller; the
// diagnostic detail is logged and a generic {"error": ...} body is returned.
package server
