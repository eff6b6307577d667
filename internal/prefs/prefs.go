// Package prefs persists per-file viewer settings and the chosen theme.
// Preferences are stored in ~/.config/logglance/prefs.toml.
package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/logglance/internal/highlight"
	"github.com/five82/logglance/internal/search"
)

// Prefs holds user preferences. An empty Theme means the configured one.
type Prefs struct {
	Theme string          `toml:"theme,omitempty"`
	Files map[string]File `toml:"files,omitempty"`
}

// File is what is remembered about one log file, keyed by absolute path.
type File struct {
	Encoding    string               `toml:"encoding,omitempty"`
	Filter      search.Spec          `toml:"filter"`
	ApplyFilter bool                 `toml:"apply_filter"`
	Highlights  []highlight.RuleSpec `toml:"highlight,omitempty"`
}

const defaultPrefsPath = "~/.config/logglance/prefs.toml"

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path. Any failure yields empty
// preferences; a broken prefs file must not keep the viewer from starting.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Prefs{}, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		return Prefs{}, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Prefs{}, nil // Graceful degradation
	}

	var prefs Prefs
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{}, nil // Graceful degradation
	}
	prefs.Theme = strings.TrimSpace(prefs.Theme)

	return prefs, nil
}

// File returns the settings stored for path.
func (p Prefs) File(path string) (File, bool) {
	f, ok := p.Files[path]
	return f, ok
}

// SetFile records the settings for path.
func (p *Prefs) SetFile(path string, f File) {
	if p.Files == nil {
		p.Files = make(map[string]File)
	}
	p.Files[path] = f
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
