package charset

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/saintfish/chardet"
)

// DefaultProbeBytes caps how much of a file is inspected for detection.
const DefaultProbeBytes = 24 * 1024 * 1024

// Detector guesses an encoding for data that carries no BOM. whole is true
// when data is the entire file.
type Detector interface {
	Detect(data []byte, whole bool) Encoding
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(data []byte, whole bool) Encoding

// Detect calls f.
func (f DetectorFunc) Detect(data []byte, whole bool) Encoding {
	return f(data, whole)
}

// Resolver determines the encoding of a file from its leading bytes.
type Resolver struct {
	ProbeBytes int
	Detector   Detector
	Logger     *log.Logger
}

// Resolve returns override when it is set. Otherwise it probes the head of rs,
// tries BOM detection and falls back to statistical detection. rs is
// rewound to offset 0 before returning.
func (r Resolver) Resolve(rs io.ReadSeeker, override *Encoding) (Encoding, error) {
	if override != nil && !override.IsZero() {
		return *override, nil
	}

	limit := r.ProbeBytes
	if limit <= 0 {
		limit = DefaultProbeBytes
	}
	probe, err := io.ReadAll(io.LimitReader(rs, int64(limit)))
	if err != nil {
		return Encoding{}, fmt.Errorf("read probe: %w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return Encoding{}, fmt.Errorf("rewind after probe: %w", err)
	}
	n := len(probe)

	if enc, size, ok := FromBOM(probe); ok {
		r.logf("detected encoding %s from %d BOM bytes", enc.Name(), size)
		return enc, nil
	}

	detector := r.Detector
	if detector == nil {
		detector = StatisticalDetector{Logger: r.Logger}
	}
	enc := detector.Detect(probe, n < limit)
	if enc.IsZero() {
		enc = UTF8
	}
	r.logf("detected encoding %s from %d probe bytes", enc.Name(), n)
	return enc, nil
}

func (r Resolver) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

// FromBOM recognizes UTF-8 and UTF-16 byte order marks.
func FromBOM(data []byte) (Encoding, int, bool) {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return UTF8, 3, true
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return UTF16BE, 2, true
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return UTF16LE, 2, true
	}
	return Encoding{}, 0, false
}

// StatisticalDetector wraps chardet and always produces an encoding.
type StatisticalDetector struct {
	Logger *log.Logger
}

// Detect returns the best guess regardless of confidence. When data is only
// the head of a larger file, a trailing partial line is dropped so that a
// multi-byte sequence cut by the probe boundary does not skew the result.
func (d StatisticalDetector) Detect(data []byte, whole bool) Encoding {
	if !whole {
		if i := bytes.LastIndexByte(data, '\n'); i > 0 {
			data = data[:i+1]
		}
	}
	if len(data) == 0 {
		return UTF8
	}
	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || res == nil {
		return UTF8
	}
	enc, err := Lookup(res.Charset)
	if err != nil {
		if d.Logger != nil {
			d.Logger.Printf("detector guessed unsupported charset %q (confidence %d), using UTF-8", res.Charset, res.Confidence)
		}
		return UTF8
	}
	if d.Logger != nil {
		d.Logger.Printf("detector guessed %s with confidence %d", res.Charset, res.Confidence)
	}
	return enc
}
