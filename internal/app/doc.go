// Package app wires the vitrine application together.
//
// Run loads configuration and preferences, builds the folio client, the
// project and bookmark stores, the session, and the like service, then
// starts the background poller and hands control to the TUI.
//
// The poller keeps the stores in sync with the folio API on a fixed
// interval, doubling the interval on consecutive failures up to a cap so
// an unreachable daemon does not get hammered.
package app
