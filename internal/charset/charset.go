// Package charset resolves and applies the byte-to-text decoding used for a
// log file.
package charset

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is a named text decoding.
type Encoding struct {
	name string
	enc  encoding.Encoding
}

var (
	UTF8    = Encoding{name: "UTF-8"}
	UTF16BE = Encoding{name: "UTF-16BE", enc: unicode.UTF16(unicode.BigEndian, unicode.UseBOM)}
	UTF16LE = Encoding{name: "UTF-16LE", enc: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)}
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// availableNames lists the encodings offered for manual override.
var availableNames = []string{
	"UTF-8", "UTF-16BE", "UTF-16LE",
	"ISO-8859-2", "ISO-8859-3", "ISO-8859-4", "ISO-8859-5", "ISO-8859-6",
	"ISO-8859-7", "ISO-8859-8", "ISO-8859-10", "ISO-8859-13", "ISO-8859-14",
	"ISO-8859-15", "ISO-8859-16",
	"windows-874", "windows-1250", "windows-1251", "windows-1252", "windows-1253",
	"windows-1254", "windows-1255", "windows-1256", "windows-1257", "windows-1258",
	"GBK", "Big5", "EUC-JP", "EUC-KR", "IBM866", "gb18030", "KOI8-R", "KOI8-U",
	"Shift_JIS",
}

// Available returns the encodings a caller may force on a file.
func Available() []Encoding {
	out := make([]Encoding, 0, len(availableNames))
	for _, name := range availableNames {
		if e, err := Lookup(name); err == nil {
			out = append(out, e)
		}
	}
	return out
}

// Lookup maps a WHATWG or IANA label to an Encoding.
func Lookup(name string) (Encoding, error) {
	label := strings.TrimSpace(name)
	switch strings.ToLower(label) {
	case "":
		return Encoding{}, fmt.Errorf("encoding name is empty")
	case "utf-8", "utf8", "ascii", "us-ascii":
		return UTF8, nil
	case "utf-16be":
		return UTF16BE, nil
	case "utf-16le", "utf-16":
		return UTF16LE, nil
	case "gb-18030":
		label = "gb18030"
	}
	if enc, err := htmlindex.Get(label); err == nil {
		return Encoding{name: label, enc: enc}, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return Encoding{}, fmt.Errorf("lookup encoding %q: %w", name, err)
	}
	if enc == nil {
		return Encoding{}, fmt.Errorf("lookup encoding %q: unsupported", name)
	}
	return Encoding{name: label, enc: enc}, nil
}

// Name returns the label the encoding was resolved from.
func (e Encoding) Name() string {
	if e.name == "" {
		return UTF8.name
	}
	return e.name
}

// IsZero reports whether e was never resolved.
func (e Encoding) IsZero() bool {
	return e.name == ""
}

func (e Encoding) String() string {
	return e.Name()
}

// Equal compares encodings by name.
func (e Encoding) Equal(other Encoding) bool {
	return strings.EqualFold(e.Name(), other.Name())
}

// UnitSize is the width in bytes of one code unit. Records of two byte
// encodings start and end on unit boundaries.
func (e Encoding) UnitSize() int {
	if e.Equal(UTF16LE) || e.Equal(UTF16BE) {
		return 2
	}
	return 1
}

// Newline returns the code unit that ends a record in a two byte encoding,
// nil when a raw '\n' byte does.
func (e Encoding) Newline() []byte {
	switch {
	case e.Equal(UTF16LE):
		return []byte{'\n', 0}
	case e.Equal(UTF16BE):
		return []byte{0, '\n'}
	default:
		return nil
	}
}

// Decode converts one raw record to text. Malformed input is replaced with
// U+FFFD rather than reported.
func (e Encoding) Decode(raw []byte) string {
	if e.enc == nil {
		raw = bytes.TrimPrefix(raw, utf8BOM)
		if utf8.Valid(raw) {
			return string(raw)
		}
		return strings.ToValidUTF8(string(raw), "�")
	}
	out, err := e.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "�")
	}
	return string(out)
}
