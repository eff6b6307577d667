package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/logglance/internal/charset"
)

const eventTimeout = 5 * time.Second

var utf8Only = charset.DetectorFunc(func([]byte, bool) charset.Encoding { return charset.UTF8 })

// expect returns the next event and requires it to be a T.
func expect[T Event](t *testing.T, events <-chan Event) T {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "event channel closed")
		got, ok := ev.(T)
		require.Truef(t, ok, "unexpected event %T (%+v)", ev, ev)
		return got
	case <-time.After(eventTimeout):
		var zero T
		t.Fatalf("timed out waiting for %T", zero)
		return zero
	}
}

// expectLines collects DataAppended batches until want lines arrived.
func expectLines(t *testing.T, events <-chan Event, want []string) {
	t.Helper()
	var got []string
	for len(got) < len(want) {
		got = append(got, expect[DataAppended](t, events).Lines...)
	}
	assert.Equal(t, want, got)
}

func expectClosed(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var rest []Event
	deadline := time.After(eventTimeout)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return rest
			}
			rest = append(rest, ev)
		case <-deadline:
			t.Fatal("event channel not closed")
			return rest
		}
	}
}

// skipSetup consumes the events sent before the first read pass.
func skipSetup(t *testing.T, events <-chan Event) <-chan Event {
	t.Helper()
	expect[RestrictionDecided](t, events)
	expect[EncodingResolved](t, events)
	return events
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func alphabet() string {
	var b strings.Builder
	for c := 'a'; c <= 'z'; c++ {
		b.WriteRune(c)
		b.WriteByte('\n')
	}
	return b.String()
}

func TestOpenSmallFile(t *testing.T) {
	path := writeFile(t, "a\nb\nc\n")
	src := Open(context.Background(), path, Options{Detector: utf8Only})
	t.Cleanup(func() { src.Close() })

	assert.True(t, expect[RestrictionDecided](t, src.Events()).Restricted)
	assert.True(t, expect[EncodingResolved](t, src.Events()).Encoding.Equal(charset.UTF8))
	batch := expect[DataAppended](t, src.Events())
	assert.Equal(t, []string{"a", "b", "c"}, batch.Lines)
	assert.EqualValues(t, 6, batch.Offset)
}

func TestAppendAfterOpen(t *testing.T) {
	path := writeFile(t, "x\n")
	src := Open(context.Background(), path, Options{Detector: utf8Only})
	t.Cleanup(func() { src.Close() })

	expect[RestrictionDecided](t, src.Events())
	expect[EncodingResolved](t, src.Events())
	expectLines(t, src.Events(), []string{"x"})

	appendFile(t, path, "y\nz\n")
	expectLines(t, src.Events(), []string{"y", "z"})
}

func TestSizeGate(t *testing.T) {
	tests := []struct {
		name     string
		restrict bool
		want     []string
	}{
		{name: "restricted reads tail", restrict: true, want: []string{"t", "u", "v", "w", "x", "y", "z"}},
		{name: "unrestricted reads everything", restrict: false, want: strings.Fields(alphabet())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, alphabet())
			src := Open(context.Background(), path, Options{
				Detector:    utf8Only,
				MaxFileSize: 10,
				TailSlack:   5,
			})
			t.Cleanup(func() { src.Close() })

			req := expect[SizeGateRequest](t, src.Events())
			assert.EqualValues(t, 52, req.Size)
			require.True(t, req.Respond(tt.restrict))
			assert.False(t, req.Respond(!tt.restrict), "second answer must be ignored")

			assert.Equal(t, tt.restrict, expect[RestrictionDecided](t, src.Events()).Restricted)
			assert.False(t, req.Respond(!tt.restrict), "answer after the source read the reply must be ignored")
			expect[EncodingResolved](t, src.Events())
			expectLines(t, src.Events(), tt.want)
		})
	}
}

func TestPresetRestrictionSkipsGate(t *testing.T) {
	path := writeFile(t, alphabet())
	src := Open(context.Background(), path, Options{
		Detector:    utf8Only,
		MaxFileSize: 10,
		TailSlack:   5,
		Restriction: Unrestricted,
	})
	t.Cleanup(func() { src.Close() })

	assert.False(t, expect[RestrictionDecided](t, src.Events()).Restricted)
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.log")
	src := Open(context.Background(), path, Options{})
	t.Cleanup(func() { src.Close() })

	ev := expect[ReadError](t, src.Events())
	assert.Equal(t, OpenFailure, ev.Err.Kind)
	assert.True(t, errors.Is(ev.Err, os.ErrNotExist))
	assert.Empty(t, expectClosed(t, src.Events()))
}

func TestCloseWhileAwaitingGate(t *testing.T) {
	path := writeFile(t, alphabet())
	src := Open(context.Background(), path, Options{Detector: utf8Only, MaxFileSize: 10})

	expect[SizeGateRequest](t, src.Events())

	closed := make(chan struct{})
	go func() {
		src.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(eventTimeout):
		t.Fatal("Close blocked on the pending gate request")
	}
	assert.Empty(t, expectClosed(t, src.Events()))
}

func TestCancelParentContext(t *testing.T) {
	path := writeFile(t, "a\n")
	ctx, cancel := context.WithCancel(context.Background())
	src := Open(ctx, path, Options{Detector: utf8Only})
	expect[RestrictionDecided](t, src.Events())

	cancel()
	select {
	case <-src.Done():
	case <-time.After(eventTimeout):
		t.Fatal("task did not stop after cancellation")
	}
	require.NoError(t, src.Close())
}

func TestRecreate(t *testing.T) {
	path := writeFile(t, "old\n")
	src := Open(context.Background(), path, Options{Detector: utf8Only})
	t.Cleanup(func() { src.Close() })

	expect[RestrictionDecided](t, src.Events())
	expect[EncodingResolved](t, src.Events())
	expectLines(t, src.Events(), []string{"old"})

	require.NoError(t, os.Remove(path))
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))

	expect[FileRecreated](t, src.Events())
	expectLines(t, src.Events(), []string{"x"})
}

func TestRecreateFlushesHeldFragment(t *testing.T) {
	path := writeFile(t, "ok\nfrag")
	src := Open(context.Background(), path, Options{Detector: utf8Only, Reassemble: true})
	t.Cleanup(func() { src.Close() })

	expect[RestrictionDecided](t, src.Events())
	expect[EncodingResolved](t, src.Events())
	expectLines(t, src.Events(), []string{"ok"})

	require.NoError(t, os.Remove(path))
	require.NoError(t, os.WriteFile(path, []byte("new\n"), 0o644))

	flushed := expect[DataAppended](t, src.Events())
	assert.Equal(t, []string{"frag"}, flushed.Lines)
	assert.EqualValues(t, 7, flushed.Offset)
	expect[FileRecreated](t, src.Events())
	expectLines(t, src.Events(), []string{"new"})
}

func TestStateAfterOpen(t *testing.T) {
	path := writeFile(t, "a\n")
	src := Open(context.Background(), path, Options{Detector: utf8Only})
	t.Cleanup(func() { src.Close() })

	expectLines(t, skipSetup(t, src.Events()), []string{"a"})
	require.Eventually(t, func() bool { return src.State() == Idle }, eventTimeout, 10*time.Millisecond)
}

func TestStateTerminatedOnOpenFailure(t *testing.T) {
	src := Open(context.Background(), filepath.Join(t.TempDir(), "missing.log"), Options{})
	t.Cleanup(func() { src.Close() })

	expect[ReadError](t, src.Events())
	expectClosed(t, src.Events())
	assert.Equal(t, Terminated, src.State())
}

func TestFailSetsState(t *testing.T) {
	tests := []struct {
		kind Kind
		want State
	}{
		{kind: WatchFailure, want: Terminated},
		{kind: OpenFailure, want: Terminated},
		{kind: TransientReadFailure, want: Appending},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			events := make(chan Event, 1)
			tk := &task{path: "/x.log", events: events}
			tk.setState(Appending)

			tk.fail(context.Background(), tt.kind, errWatchClosed)

			assert.Equal(t, tt.want, tk.currentState())
			ev := (<-events).(ReadError)
			assert.Equal(t, tt.kind, ev.Err.Kind)
		})
	}
}

func TestIgnoresOtherFiles(t *testing.T) {
	path := writeFile(t, "a\n")
	src := Open(context.Background(), path, Options{Detector: utf8Only})
	t.Cleanup(func() { src.Close() })

	expect[RestrictionDecided](t, src.Events())
	expect[EncodingResolved](t, src.Events())
	expectLines(t, src.Events(), []string{"a"})

	other := filepath.Join(filepath.Dir(path), "other.log")
	require.NoError(t, os.WriteFile(other, []byte("noise\n"), 0o644))
	appendFile(t, path, "b\n")
	expectLines(t, src.Events(), []string{"b"})
}

func TestReopenWithEncoding(t *testing.T) {
	path := writeFile(t, "caf\xe9\n")
	latin1, err := charset.Lookup("windows-1252")
	require.NoError(t, err)

	src := Open(context.Background(), path, Options{Encoding: &latin1})
	t.Cleanup(func() { src.Close() })

	expect[RestrictionDecided](t, src.Events())
	assert.True(t, expect[EncodingResolved](t, src.Events()).Encoding.Equal(latin1))
	expectLines(t, src.Events(), []string{"café"})

	old := src.Events()
	utf8 := charset.UTF8
	src.Reopen(&utf8, Restricted)
	expectClosed(t, old)

	expect[RestrictionDecided](t, src.Events())
	assert.True(t, expect[EncodingResolved](t, src.Events()).Encoding.Equal(charset.UTF8))
	expectLines(t, src.Events(), []string{"caf�"})
}

func TestTransition(t *testing.T) {
	const target = "/var/log/app.log"
	tests := []struct {
		name string
		ev   fsnotify.Event
		want State
	}{
		{name: "create", ev: fsnotify.Event{Name: "/var/log/app.log", Op: fsnotify.Create}, want: Reopening},
		{name: "write", ev: fsnotify.Event{Name: "/var/log/app.log", Op: fsnotify.Write}, want: Appending},
		{name: "remove", ev: fsnotify.Event{Name: "/var/log/app.log", Op: fsnotify.Remove}, want: Idle},
		{name: "rename", ev: fsnotify.Event{Name: "/var/log/app.log", Op: fsnotify.Rename}, want: Idle},
		{name: "chmod", ev: fsnotify.Event{Name: "/var/log/app.log", Op: fsnotify.Chmod}, want: Idle},
		{name: "other file", ev: fsnotify.Event{Name: "/var/log/app.log.1", Op: fsnotify.Write}, want: Idle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.ev, target))
		})
	}

	assert.True(t, metadataOnly(fsnotify.Event{Name: target, Op: fsnotify.Chmod}, target))
	assert.False(t, metadataOnly(fsnotify.Event{Name: target, Op: fsnotify.Write | fsnotify.Chmod}, target))
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, OpenFailure.Fatal())
	assert.True(t, WatchFailure.Fatal())
	assert.False(t, TransientReadFailure.Fatal())

	err := &Error{Kind: TransientReadFailure, Path: "/x.log", Err: os.ErrClosed}
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.Contains(t, err.Error(), "/x.log")
}
