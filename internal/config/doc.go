// Package config loads the logglance configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/logglance/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default
//  4. If the file exists but fields are missing, zero or empty, use defaults
//
// # Default Values
//
//   - max_file_size: 4 GiB; larger files trigger the size gate
//   - max_rows: 120,000,000 rows kept in restricted mode
//   - probe_bytes: 24 MiB inspected for encoding detection
//   - tail_slack: 512 bytes read before the tail window
//   - restrict: "ask"
//   - on_recreate: "keep"
//   - poll_ms: 200
//   - theme: "Nightfox"
//
// # TOML Format
//
//	max_file_size = 4294967296
//	restrict = "ask"          # ask | always | never
//	on_recreate = "keep"      # keep | clear
//	reassemble = false        # hold back lines without a newline
//	log_file = "~/.local/state/logglance.log"
//
//	[[highlight]]
//	pattern = "ERROR"
//	bg = "#800000"
//	fg = "#FFFFFF"
//
//	[[highlight]]
//	pattern = "warn(ing)?"
//	regex = true
//	case_insensitive = true
//
// Highlight rules are applied in file order; the first match colors the row.
// Rules without colors get the default green pair. Tilde expansion is
// performed for log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and unknown policy values
//
// Missing config files are NOT an error.
package config
