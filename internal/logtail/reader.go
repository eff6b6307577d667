package logtail

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/five82/logglance/internal/charset"
)

const readBufferSize = 256 * 1024

// Options configure a Reader.
type Options struct {
	Encoding charset.Encoding
	// MaxRows bounds a single batch to its newest rows. Zero means no bound.
	MaxRows int
	// Reassemble holds back a trailing record without a newline until the
	// rest of it arrives, instead of emitting it as a fragment.
	Reassemble bool
	Logger     *log.Logger
}

// Reader decodes newline terminated records from a stream that may keep
// growing. Each ReadBatch call consumes everything currently available.
type Reader struct {
	br      *bufio.Reader
	opts    Options
	offset  int64
	pending []byte
	total   int
}

// NewReader returns a Reader whose cursor starts at offset.
func NewReader(r io.Reader, offset int64, opts Options) *Reader {
	return &Reader{
		br:     bufio.NewReaderSize(r, readBufferSize),
		opts:   opts,
		offset: offset,
	}
}

// Offset returns the cursor: the file offset of the next unread byte.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Encoding returns the decoding in use.
func (r *Reader) Encoding() charset.Encoding {
	return r.opts.Encoding
}

// ReadBatch reads records until no more bytes are available. Records missing
// their newline at end of data are returned as they are, unless Reassemble is
// set. On error the records decoded so far are returned with it.
func (r *Reader) ReadBatch() ([]string, error) {
	var lines []string
	for {
		rec, err := r.readRecord()
		if len(rec) > 0 {
			complete := err == nil
			switch {
			case !complete && r.opts.Reassemble:
				r.pending = append(r.pending, rec...)
			default:
				if len(r.pending) > 0 {
					rec = append(r.pending, rec...)
					r.pending = nil
				}
				lines = r.push(lines, r.decode(rec))
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lines, nil
			}
			return lines, err
		}
	}
}

// Flush returns a held back fragment, if any.
func (r *Reader) Flush() (string, bool) {
	if len(r.pending) == 0 {
		return "", false
	}
	line := r.decode(r.pending)
	r.pending = nil
	return line, true
}

// SkipPartialLine discards bytes up to and including the next newline. If
// the data ends first, all of it is discarded.
func (r *Reader) SkipPartialLine() (int64, error) {
	if r.opts.Encoding.Newline() != nil {
		rec, err := r.readUnits()
		if errors.Is(err, io.EOF) {
			err = nil
		}
		return int64(len(rec)), err
	}

	var skipped int64
	for {
		chunk, err := r.br.ReadSlice('\n')
		skipped += int64(len(chunk))
		r.offset += int64(len(chunk))
		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			return skipped, nil
		default:
			return skipped, err
		}
	}
}

func (r *Reader) readRecord() ([]byte, error) {
	if r.opts.Encoding.Newline() != nil {
		return r.readUnits()
	}
	rec, err := r.br.ReadBytes('\n')
	r.offset += int64(len(rec))
	return rec, err
}

// readUnits reads whole two byte code units through the newline unit. A
// lone trailing byte stays unread until its pair arrives, so the cursor is
// always unit aligned.
func (r *Reader) readUnits() ([]byte, error) {
	newline := r.opts.Encoding.Newline()
	var rec []byte
	for {
		unit, err := r.br.Peek(2)
		if len(unit) < 2 {
			if err == nil {
				err = io.EOF
			}
			return rec, err
		}
		rec = append(rec, unit...)
		_, _ = r.br.Discard(2)
		r.offset += 2
		if bytes.HasSuffix(rec, newline) {
			return rec, nil
		}
	}
}

func (r *Reader) push(lines []string, line string) []string {
	lines = append(lines, line)
	if r.opts.MaxRows > 0 && len(lines) > r.opts.MaxRows {
		lines = lines[1:]
	}
	r.total++
	if r.total%100_000 == 0 {
		r.logf("%d lines read", r.total)
	}
	return lines
}

func (r *Reader) decode(rec []byte) string {
	line := r.opts.Encoding.Decode(rec)
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

func (r *Reader) logf(format string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger.Printf(format, args...)
	}
}
