// Package state holds the consumer side of a log source: the LogPane.
//
// # Overview
//
// A LogPane pairs one source.Source with the line store, the filter cache and
// the highlight engine derived from it. The source goroutine produces events;
// the pane consumes them on the caller's tick:
//
//	source goroutine:              caller (UI or follower):
//	┌──────────────────┐          ┌────────────────────┐
//	│ read / watch     │          │ tick               │
//	│      ↓           │  events  │      ↓             │
//	│ send(Event)      │─────────→│ pane.Drain()       │
//	│      ↓           │ (buffer) │      ↓             │
//	│ wait for fsnotify│          │ pane.Lines(a, b)   │
//	└──────────────────┘          └────────────────────┘
//
// Drain never blocks. It applies whatever is queued, then brings the filter
// cache up to date so the view is consistent with the store.
//
// # Ownership
//
// The pane owns its store and cache outright and is not safe for concurrent
// use. Everything the source needs lives in the source goroutine; nothing is
// shared between the two except the event channel and the reply slot of a
// size gate request.
//
// # Size Gate
//
// Oversized files block the source until the pane answers:
//
//	GateUndecided ──SizeGateRequest──→ GateAwaiting
//	GateAwaiting ──RespondToSizeGate(true)──→ GateRestricted
//	GateAwaiting ──RespondToSizeGate(false)──→ GateUnrestricted
//
// With config.RestrictAlways or config.RestrictNever the pane answers on its
// own. GatePrompt formats the question for humans. Files within the threshold
// report GateRestricted directly, which only caps the row count.
//
// # Reopening
//
// SetEncoding and Reload cancel the running source, wait for it, clear the
// store and start over. A decided restriction is reused so the user is not
// asked twice. When the watched file is recreated the configured
// config.OnRecreate policy decides whether the old lines stay.
//
// # Errors
//
// Read errors are collected per pane and exposed through Status. An empty
// pane with no errors is still loading; an empty pane with errors failed.
package state
