package source

import (
	"sync/atomic"

	"github.com/five82/logglance/internal/charset"
)

// Event is emitted by a source's background goroutine. The concrete types
// are DataAppended, ReadError, SizeGateRequest, EncodingResolved,
// RestrictionDecided and FileRecreated.
type Event interface {
	isEvent()
}

// DataAppended carries newly decoded lines in file order. Offset is the read
// cursor after the batch.
type DataAppended struct {
	Lines  []string
	Offset int64
}

// ReadError reports a failure. Fatal errors are followed by the end of the
// event stream.
type ReadError struct {
	Err *Error
}

// SizeGateRequest asks whether an oversized file should be opened in
// restricted mode. The source blocks until Respond is called or the source
// is closed.
type SizeGateRequest struct {
	Size     int64
	reply    chan bool
	answered *atomic.Bool
}

func newSizeGateRequest(size int64) SizeGateRequest {
	return SizeGateRequest{Size: size, reply: make(chan bool, 1), answered: new(atomic.Bool)}
}

// Respond answers the request. Only the first answer counts; later calls
// return false. Copies of the request share the answer.
func (r SizeGateRequest) Respond(restrict bool) bool {
	if r.answered == nil || !r.answered.CompareAndSwap(false, true) {
		return false
	}
	r.reply <- restrict
	return true
}

// EncodingResolved reports the encoding used to decode the file.
type EncodingResolved struct {
	Encoding charset.Encoding
}

// RestrictionDecided reports whether restricted mode is in effect.
type RestrictionDecided struct {
	Restricted bool
}

// FileRecreated reports that the watched file was created again and reading
// restarted at the top of the new file.
type FileRecreated struct{}

func (DataAppended) isEvent()       {}
func (ReadError) isEvent()          {}
func (SizeGateRequest) isEvent()    {}
func (EncodingResolved) isEvent()   {}
func (RestrictionDecided) isEvent() {}
func (FileRecreated) isEvent()      {}
