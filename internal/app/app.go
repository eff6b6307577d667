package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/logglance/internal/charset"
	"github.com/five82/logglance/internal/config"
	"github.com/five82/logglance/internal/prefs"
	"github.com/five82/logglance/internal/source"
	"github.com/five82/logglance/internal/state"
	"github.com/five82/logglance/internal/ui"
)

// Options configure the logglance application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/logglance/prefs.toml
	Paths      []string
	Encoding   string // forces an encoding for every file
	Restrict   string // overrides the configured size gate policy
	Print      bool   // follow to Stdout instead of starting the TUI
	Stdout     io.Writer
}

// Run opens every path and shows it until the context is cancelled or the
// user quits.
func Run(ctx context.Context, opts Options) error {
	if len(opts.Paths) == 0 {
		return errors.New("no log file given")
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if r := strings.TrimSpace(opts.Restrict); r != "" {
		cfg.Restrict = config.Restrict(strings.ToLower(r))
		switch cfg.Restrict {
		case config.RestrictAsk, config.RestrictAlways, config.RestrictNever:
		default:
			return fmt.Errorf("invalid restrict policy %q", opts.Restrict)
		}
	}
	if opts.Print && cfg.Restrict == config.RestrictAsk {
		// Nobody is there to answer.
		cfg.Restrict = config.RestrictAlways
	}

	var forced *charset.Encoding
	if opts.Encoding != "" {
		enc, err := charset.Lookup(opts.Encoding)
		if err != nil {
			return err
		}
		forced = &enc
	}

	logger, closeLog, err := newLogger(cfg.LogFile, opts.Print)
	if err != nil {
		return err
	}
	defer closeLog()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	panes := make([]*state.LogPane, 0, len(opts.Paths))
	defer func() {
		for _, p := range panes {
			_ = p.Close()
		}
	}()
	for _, path := range opts.Paths {
		panes = append(panes, openPane(ctx, path, cfg, userPrefs, forced, logger))
	}

	if opts.Print {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		return Follow(ctx, panes, cfg.PollInterval, out)
	}

	theme := userPrefs.Theme
	if theme == "" {
		theme = cfg.Theme
	}
	err = ui.Run(ui.Options{
		Context:   ctx,
		Panes:     panes,
		Config:    &cfg,
		PollTick:  cfg.PollInterval,
		ThemeName: theme,
		PrefsPath: opts.PrefsPath,
		Prefs:     userPrefs,
	})
	if saveErr := savePrefs(opts.PrefsPath, userPrefs, panes, forced); saveErr != nil {
		logger.Printf("save prefs: %v", saveErr)
	}
	return err
}

func openPane(ctx context.Context, path string, cfg config.Config, userPrefs prefs.Prefs, forced *charset.Encoding, logger *log.Logger) *state.LogPane {
	srcOpts := source.Options{
		Encoding:    forced,
		MaxFileSize: cfg.MaxFileSize,
		TailSlack:   cfg.TailSlack,
		ProbeBytes:  cfg.ProbeBytes,
		MaxRows:     cfg.MaxRows,
		Reassemble:  cfg.Reassemble,
		Logger:      logger,
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	saved, hasSaved := userPrefs.File(path)
	if hasSaved && saved.Encoding != "" && forced == nil {
		if enc, err := charset.Lookup(saved.Encoding); err == nil {
			srcOpts.Encoding = &enc
		} else {
			logger.Printf("%s: ignoring saved encoding: %v", path, err)
		}
	}

	pane := state.Open(ctx, path, state.Options{
		Source:     srcOpts,
		Restrict:   cfg.Restrict,
		OnRecreate: cfg.OnRecreate,
		Logger:     logger,
	})

	highlights := cfg.Highlights
	if hasSaved {
		if err := pane.SetFilter(saved.Filter, saved.ApplyFilter); err != nil {
			logger.Printf("%s: saved filter: %v", path, err)
		}
		if len(saved.Highlights) > 0 {
			highlights = saved.Highlights
		}
	}
	if err := pane.SetHighlightRules(highlights); err != nil {
		logger.Printf("%s: highlight rules: %v", path, err)
	}
	return pane
}

// savePrefs remembers each pane's settings. An encoding forced on the
// command line is not remembered.
func savePrefs(path string, userPrefs prefs.Prefs, panes []*state.LogPane, forced *charset.Encoding) error {
	for _, p := range panes {
		spec, applied := p.Filter()
		file := prefs.File{
			Filter:      spec,
			ApplyFilter: applied,
			Highlights:  p.HighlightRules(),
		}
		if enc := p.EncodingOverride(); enc != nil && enc != forced {
			file.Encoding = enc.Name()
		}
		userPrefs.SetFile(p.Path(), file)
	}
	return prefs.Save(path, userPrefs)
}

// newLogger writes to logFile when set. Without one the TUI discards log
// output so it cannot corrupt the screen; print mode logs to stderr.
func newLogger(logFile string, toStderr bool) (*log.Logger, func(), error) {
	if logFile == "" {
		if toStderr {
			return log.New(os.Stderr, "logglance: ", log.LstdFlags), func() {}, nil
		}
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags|log.Lmicroseconds), func() { _ = f.Close() }, nil
}
