// Package server exposes a library session over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] added first runs outermost. [BasicRouter.Routes] reports every mounted pattern, logged at debug on startup.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /tracks"), so a known path
// requested with the wrong method gets 405.
//
// # Middleware
//
//   - [Recover] : converts handler panics into 500 responses
//   - [RequestID] : assigns or propagates X-Request-ID
//   - [Logging] : one structured log line per request
//   - [RateLimit] : token bucket over all requests, 429 when exhausted
//
// # Endpoints
//
// [API] serves the catalog: list, add, update and delete tracks, search, suggestions, statistics,
// import and export. Bodies and responses are JSON except for export downloads, which are written
// through [ResponseSink]. Library errors map to status codes: not found 404, duplicate key 409,
// unsupported format 415, validation and parse failures 400.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
