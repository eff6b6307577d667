// Package app is the composition root of logglance.
//
// # Architecture
//
// Run follows a simple initialization pattern:
//
//  1. Load ~/.config/logglance/config.toml and apply command line overrides
//  2. Set up the logger (log_file, stderr in print mode, discarded otherwise)
//  3. Load per-file preferences
//  4. Open one state.LogPane per path, restoring its saved encoding, filter
//     and highlight rules
//  5. Either follow the panes to stdout or start the TUI and block
//  6. After the TUI exits, save each pane's settings back to prefs
//
// # Components
//
//   - app.go: Run, pane construction and prefs persistence
//   - follow.go: headless follower used by -print
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()    Read config
//	       ├─────> prefs.Load()     Per-file settings
//	       ├─────> state.Open()     One pane per file
//	       └─────> Follow()         print mode, or
//	               ui.Run()         TUI (blocks)
//
// # Print Mode
//
// Follow drains every pane at the configured poll interval and writes lines
// that became visible since the previous tick. Filters apply, so a saved
// filter turns the follower into a live grep. There is no one to answer the
// size gate, so the "ask" policy becomes "always" and oversized files are
// followed from their tail.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid configuration, restrict policy or encoding name
//   - No file given
//   - Unwritable log_file
//
// Everything that happens to a file after it is opened is reported through
// its pane, never returned.
package app
