package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/logglance/internal/highlight"
	"github.com/five82/logglance/internal/search"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.EqualValues(t, 4<<30, cfg.MaxFileSize)
	assert.Equal(t, RestrictAsk, cfg.Restrict)
	assert.Equal(t, RecreateKeep, cfg.OnRecreate)
}

func TestLoad_ParsesConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
max_file_size = 1048576
max_rows = 5000
probe_bytes = 4096
tail_slack = 0
restrict = " Always "
on_recreate = "clear"
reassemble = true
log_file = "~/logglance.log"
theme = "Slate"
poll_ms = 50

[[highlight]]
pattern = "ERROR"
bg = "#800000"
fg = "#FFFFFF"

[[highlight]]
pattern = "warn(ing)?"
regex = true
case_insensitive = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, 1<<20, cfg.MaxFileSize)
	assert.Equal(t, 5000, cfg.MaxRows)
	assert.Equal(t, 4096, cfg.ProbeBytes)
	assert.Zero(t, cfg.TailSlack, "explicit 0 is kept")
	assert.Equal(t, RestrictAlways, cfg.Restrict)
	assert.Equal(t, RecreateClear, cfg.OnRecreate)
	assert.True(t, cfg.Reassemble)
	assert.Equal(t, filepath.Join(home, "logglance.log"), cfg.LogFile)
	assert.Equal(t, "Slate", cfg.Theme)
	assert.Equal(t, 50*time.Millisecond, cfg.PollInterval)

	want := []highlight.RuleSpec{
		{Spec: search.Spec{Pattern: "ERROR"}, Background: "#800000", Foreground: "#FFFFFF"},
		{
			Spec:       search.Spec{Pattern: "warn(ing)?", Regex: true, CaseInsensitive: true},
			Background: string(highlight.DefaultRuleBackground),
			Foreground: string(highlight.DefaultRuleForeground),
		},
	}
	assert.Equal(t, want, cfg.Highlights)
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
max_file_size = 0
restrict = "  "
theme = ""
poll_ms = -1

[[highlight]]
pattern = ""
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_RejectsUnknownPolicies(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "restrict", content: `restrict = "sometimes"`},
		{name: "on_recreate", content: `on_recreate = "merge"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.name)
		})
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `max_rows = [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "a/b"), got)
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	_, err := expandPath("   ")
	assert.Error(t, err)
}

func TestDefaultPath_UnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".config", "logglance", "config.toml"), DefaultPath())
}
