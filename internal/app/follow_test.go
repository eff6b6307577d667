package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/logglance/internal/prefs"
	"github.com/five82/logglance/internal/search"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runPrint runs the headless follower for a short while and returns its
// output.
func runPrint(t *testing.T, opts Options) string {
	t.Helper()
	dir := t.TempDir()
	if opts.ConfigPath == "" {
		opts.ConfigPath = writeFile(t, dir, "config.toml", "poll_ms = 10\n")
	}
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(dir, "prefs.toml")
	}
	var out bytes.Buffer
	opts.Print = true
	opts.Stdout = &out

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	require.NoError(t, Run(ctx, opts))
	return out.String()
}

func TestRun_PrintFollowsFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.log", "a\nb\nc\n")

	got := runPrint(t, Options{Paths: []string{path}, Encoding: "utf-8"})
	assert.Equal(t, "a\nb\nc\n", got)
}

func TestRun_PrintPrefixesMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	one := writeFile(t, dir, "one.log", "x\n")
	two := writeFile(t, dir, "two.log", "y\n")

	got := runPrint(t, Options{Paths: []string{one, two}, Encoding: "utf-8"})
	assert.Contains(t, got, "one.log: x\n")
	assert.Contains(t, got, "two.log: y\n")
}

func TestRun_PrintAnswersSizeGateWithTail(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.log", "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\n")
	cfg := writeFile(t, dir, "config.toml", "poll_ms = 10\nmax_file_size = 4\ntail_slack = 1\n")

	got := runPrint(t, Options{Paths: []string{path}, ConfigPath: cfg, Encoding: "utf-8"})
	assert.Equal(t, "i\nj\n", got, "ask becomes restricted without a terminal")

	got = runPrint(t, Options{Paths: []string{path}, ConfigPath: cfg, Encoding: "utf-8", Restrict: "never"})
	assert.Equal(t, "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\n", got)
}

func TestRun_PrintAppliesSavedFilter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.log", "info start\nerror boom\ninfo done\n")
	prefsPath := filepath.Join(dir, "prefs.toml")

	var p prefs.Prefs
	p.SetFile(path, prefs.File{Filter: search.Spec{Pattern: "error"}, ApplyFilter: true})
	require.NoError(t, prefs.Save(prefsPath, p))

	got := runPrint(t, Options{Paths: []string{path}, PrefsPath: prefsPath, Encoding: "utf-8"})
	assert.Equal(t, "error boom\n", got)
}

func TestRun_PrintReportsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.log")

	got := runPrint(t, Options{Paths: []string{path}})
	assert.Regexp(t, `^error: .*missing\.log`, got)
}

func TestRun_RejectsBadOptions(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.log", "a\n")
	cfg := writeFile(t, t.TempDir(), "config.toml", "")

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "no paths", opts: Options{ConfigPath: cfg}, want: "no log file"},
		{name: "bad restrict", opts: Options{ConfigPath: cfg, Paths: []string{path}, Restrict: "maybe"}, want: "restrict"},
		{name: "bad encoding", opts: Options{ConfigPath: cfg, Paths: []string{path}, Encoding: "klingon"}, want: "klingon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Print = true
			err := Run(context.Background(), tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
