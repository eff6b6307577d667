// Package logtail reads newline delimited records from a log file that keeps
// growing.
//
// # Overview
//
// The package has two halves:
//
//  1. Plan: decides where reading starts. Files at or below the size
//     threshold, or files the caller chose to open unrestricted, are read
//     from offset 0. Restricted oversized files start at
//     size - (threshold + slack) and skip the partial record found there.
//  2. Reader: consumes records from the cursor until no more bytes are
//     available, decodes them with the resolved charset and returns them as
//     one batch. The next call picks up where the previous one stopped.
//
// Example usage:
//
//	r, err := logtail.Open(file, logtail.Plan{Size: size, Threshold: logtail.DefaultMaxFileSize}, logtail.Options{Encoding: enc})
//	if err != nil {
//		return fmt.Errorf("open reader: %w", err)
//	}
//	lines, err := r.ReadBatch()
//
// # Fragments
//
// A record observed before its newline was written is returned as it is, and
// its continuation arrives as a separate record on the next pass. Setting
// Options.Reassemble holds the fragment back until the newline shows up;
// Flush hands out whatever is still pending when the file goes away.
//
// # Two Byte Encodings
//
// UTF-16 records are split on whole code units ("\n\x00" or "\x00\n"),
// never on a raw 0x0A byte that belongs to another character. The tail start
// is rounded down to a unit boundary and a lone trailing byte is left unread
// until its pair arrives.
//
// # Sliding Window
//
// Options.MaxRows keeps only the newest rows of a single batch. The line
// store applies the same cap across batches.
//
// # Error Handling
//
// An I/O error ends the pass. Records decoded before the error are returned
// together with it so nothing already consumed is lost. Decoding never fails;
// malformed bytes become U+FFFD.
package logtail
