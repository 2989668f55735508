// Package view holds the view-state controllers of the catalog client: one
// controller per page (landing, films, film detail, actors, customers,
// customer detail).
//
// A controller owns the state of its page and is the only thing that
// mutates it. Methods block until the request they issue completes, so a
// driver that needs the UI to stay responsive calls them from goroutines;
// the controller serialises state updates internally. Snapshot returns an
// immutable copy for rendering.
//
// Every controller has a Close method. After Close, responses that are
// still in flight are dropped instead of being applied, outstanding
// requests are cancelled and scheduled timers (transient messages, delayed
// navigation) are stopped.
package view
