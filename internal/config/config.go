package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/logglance/internal/charset"
	"github.com/five82/logglance/internal/highlight"
	"github.com/five82/logglance/internal/logtail"
)

// Restrict selects how the size gate is answered.
type Restrict string

const (
	// RestrictAsk leaves the decision to the user.
	RestrictAsk Restrict = "ask"
	// RestrictAlways opens oversized files in restricted mode.
	RestrictAlways Restrict = "always"
	// RestrictNever opens oversized files in full.
	RestrictNever Restrict = "never"
)

// OnRecreate selects what happens to the lines already shown when the
// watched file is created again.
type OnRecreate string

const (
	// RecreateKeep appends the new file's lines after the old ones.
	RecreateKeep OnRecreate = "keep"
	// RecreateClear drops the old lines first.
	RecreateClear OnRecreate = "clear"
)

// Config holds the viewer settings.
type Config struct {
	MaxFileSize  int64
	MaxRows      int
	ProbeBytes   int
	TailSlack    int64
	Restrict     Restrict
	OnRecreate   OnRecreate
	Reassemble   bool
	LogFile      string
	Theme        string
	PollInterval time.Duration
	Highlights   []highlight.RuleSpec
}

const (
	defaultConfigPath = "~/.config/logglance/config.toml"
	defaultTheme      = "Nightfox"
	defaultPoll       = 200 * time.Millisecond
)

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		MaxFileSize:  logtail.DefaultMaxFileSize,
		MaxRows:      logtail.DefaultMaxRows,
		ProbeBytes:   charset.DefaultProbeBytes,
		TailSlack:    logtail.DefaultTailSlack,
		Restrict:     RestrictAsk,
		OnRecreate:   RecreateKeep,
		Theme:        defaultTheme,
		PollInterval: defaultPoll,
	}
}

// Load parses the config at path, or the default location when path is
// empty. A missing file yields Default.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		MaxFileSize int64                `toml:"max_file_size"`
		MaxRows     int                  `toml:"max_rows"`
		ProbeBytes  int                  `toml:"probe_bytes"`
		TailSlack   *int64               `toml:"tail_slack"`
		Restrict    string               `toml:"restrict"`
		OnRecreate  string               `toml:"on_recreate"`
		Reassemble  bool                 `toml:"reassemble"`
		LogFile     string               `toml:"log_file"`
		Theme       string               `toml:"theme"`
		PollMS      int                  `toml:"poll_ms"`
		Highlights  []highlight.RuleSpec `toml:"highlight"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.MaxFileSize > 0 {
		cfg.MaxFileSize = raw.MaxFileSize
	}
	if raw.MaxRows > 0 {
		cfg.MaxRows = raw.MaxRows
	}
	if raw.ProbeBytes > 0 {
		cfg.ProbeBytes = raw.ProbeBytes
	}
	if raw.TailSlack != nil && *raw.TailSlack >= 0 {
		cfg.TailSlack = *raw.TailSlack
	}
	if raw.PollMS > 0 {
		cfg.PollInterval = time.Duration(raw.PollMS) * time.Millisecond
	}
	if theme := strings.TrimSpace(raw.Theme); theme != "" {
		cfg.Theme = theme
	}
	cfg.Reassemble = raw.Reassemble

	switch r := Restrict(strings.ToLower(strings.TrimSpace(raw.Restrict))); r {
	case "":
	case RestrictAsk, RestrictAlways, RestrictNever:
		cfg.Restrict = r
	default:
		return Config{}, fmt.Errorf("parse config: restrict must be ask, always or never, got %q", raw.Restrict)
	}

	switch o := OnRecreate(strings.ToLower(strings.TrimSpace(raw.OnRecreate))); o {
	case "":
	case RecreateKeep, RecreateClear:
		cfg.OnRecreate = o
	default:
		return Config{}, fmt.Errorf("parse config: on_recreate must be keep or clear, got %q", raw.OnRecreate)
	}

	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	for _, h := range raw.Highlights {
		if h.Pattern == "" {
			continue
		}
		if h.Background == "" {
			h.Background = string(highlight.DefaultRuleBackground)
		}
		if h.Foreground == "" {
			h.Foreground = string(highlight.DefaultRuleForeground)
		}
		cfg.Highlights = append(cfg.Highlights, h)
	}

	return cfg, nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
