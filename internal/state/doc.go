// Package state holds the client-side collection stores.
//
// # Overview
//
// Each backend resource list (projects, bookmarks) lives in one Collection:
// the canonical in-memory copy of the server state plus request status
// (loading, error, last update). The UI never talks to the network directly;
// it reads snapshots from these stores, and every store write goes through
// the store's own methods.
//
// # Lifecycle
//
// A collection starts empty. Refresh sets the loading flag synchronously,
// fetches the full list through the folio client, and replaces the items
// wholesale: there is no partial or incremental merge. Local mutations are
// limited to three shapes: append a confirmed server entity, replace one by
// id, or remove one by id, plus the single field patch the like
// reconciliation uses for immediate feedback.
//
// # Failure Semantics
//
//   - A failed refresh keeps the previous items visible (stale-but-present)
//     and records the error; only a never-loaded collection shows an error
//     with no data.
//   - A failed mutation leaves items untouched, byte for byte, and surfaces
//     the error through the snapshot.
//   - A refresh aborted by context cancellation clears the loading flag and
//     changes nothing else; disposal-time aborts are silent no-ops.
//
// # Concurrency
//
// Stores are guarded by an RWMutex. Snapshots clone the item slice, so a
// consumer can hold and mutate its copy freely while pollers and the
// reconciliation protocol keep writing to the store.
package state
