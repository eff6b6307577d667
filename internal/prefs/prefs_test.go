package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/logglance/internal/highlight"
	"github.com/five82/logglance/internal/search"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, p.Theme)
	assert.Empty(t, p.Files)
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "logglance")
	require.NoError(t, os.MkdirAll(prefsDir, 0o755))

	content := "theme = \" Slate \"\n\n[files.\"/var/log/syslog\"]\nencoding = \"windows-1252\"\napply_filter = true\n\n[files.\"/var/log/syslog\".filter]\npattern = \"sshd\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte(content), 0o644))

	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Slate", p.Theme)

	f, ok := p.File("/var/log/syslog")
	require.True(t, ok, "files = %#v", p.Files)
	assert.Equal(t, "windows-1252", f.Encoding)
	assert.True(t, f.ApplyFilter)
	assert.Equal(t, "sshd", f.Filter.Pattern)
}

func TestSave_RoundTripsFileSettings(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	var p Prefs
	p.Theme = "Kanagawa"
	p.SetFile("/tmp/app.log", File{
		Encoding:    "utf-16le",
		Filter:      search.Spec{Pattern: "err|warn", Regex: true, CaseInsensitive: true},
		ApplyFilter: true,
		Highlights: []highlight.RuleSpec{
			{Spec: search.Spec{Pattern: "panic"}, Background: "#800000", Foreground: "#FFFFFF"},
		},
	})
	require.NoError(t, Save(prefsFile, p))

	loaded, err := Load(prefsFile)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestSetFile_ReplacesEntry(t *testing.T) {
	var p Prefs
	p.SetFile("a.log", File{Encoding: "utf-8"})
	p.SetFile("a.log", File{Encoding: "gbk"})

	f, ok := p.File("a.log")
	require.True(t, ok)
	assert.Equal(t, "gbk", f.Encoding)

	_, ok = p.File("b.log")
	assert.False(t, ok)
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644))

	p, err := Load(prefsFile)
	require.NoError(t, err)
	assert.Empty(t, p.Theme)
	assert.Nil(t, p.Files)
}
