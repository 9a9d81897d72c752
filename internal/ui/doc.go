// Package ui implements the Bubble Tea terminal interface for vitrine.
//
// # Architecture
//
// Model is the single root of UI state. It never talks to the network
// directly: the background poller and the like service mutate the stores,
// and the UI re-derives what to draw from store snapshots on every tick.
// Filtering, sorting, and pagination all go through the view package, so
// the gallery is a pure projection of a snapshot plus the current filter
// state.
//
// # Screens
//
// The gallery screen lists projects as one row each with title, like
// count, and a status badge. Enter opens the detail screen for the
// selected project; j/k keep working there so the detail follows the
// cursor.
//
// # Actions
//
// Likes are toggled through the like service, which reconciles the local
// stores against the server. Toggle results surface in the footer notice
// line. Deleting a project is offered only when the session user holds the
// admin role.
//
// # Themes
//
// Themes are Lipgloss palettes cycled with T and persisted to the prefs
// file along with sort order and page size.
package ui
