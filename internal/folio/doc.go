// Package folio provides the HTTP client for the folio portfolio API.
//
// # Overview
//
// This package defines everything that crosses the wire: request
// descriptors, the retrying HTTP client, the per-client TTL cache, the
// transport error taxonomy, and the typed API models (projects, bookmarks,
// users).
//
// # Architecture
//
// The package is split into four files:
//
//   - client.go: HTTP client, typed endpoint operations, retry loop
//   - cache.go: short-TTL cache keyed by request descriptor
//   - errors.go: HTTPError / NetworkError / DecodeError and retry classification
//   - types.go: data structures mirroring the folio API schema
//
// # Client Usage
//
// Create a client from configuration and fetch collections:
//
//	client, err := folio.NewClient(folio.Options{
//		BaseURL: "127.0.0.1:8642",
//		Tokens:  sess,
//	})
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	projects, err := client.FetchProjects(ctx, false)
//	if err != nil {
//		log.Printf("project fetch failed: %v", err)
//	}
//
// # Caching
//
// The two collection GETs (projects, bookmarks) are cached for five minutes
// by default. A valid entry short-circuits the network entirely; passing
// force=true bypasses the check and overwrites the entry on success. Failed
// requests never touch the cache, and every mutation drops the caches it
// makes stale. The cache belongs to one Client instance and is never shared.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and a User-Agent header
//   - Carry a fresh X-Request-ID (uuid) for server-side correlation
//   - Attach Authorization: Bearer <token> when the descriptor requires auth
//     and the session holds a token
//   - Pass through an optional client-side rate limiter
//
// # Retry Policy
//
// Transient failures (transport errors, HTTP 5xx/408/429) are retried up to
// a configured count with a fixed delay between attempts; three retries one
// second apart by default. Decode errors and other 4xx responses surface
// immediately. Cancelling the context aborts the loop at once: no further
// attempts, no error classification, just ctx.Err(). Multipart image uploads
// are never retried because their bodies cannot be replayed.
package folio
