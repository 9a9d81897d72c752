package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mknopf/vitrine/internal/config"
	"github.com/mknopf/vitrine/internal/folio"
	"github.com/mknopf/vitrine/internal/likes"
	"github.com/mknopf/vitrine/internal/prefs"
	"github.com/mknopf/vitrine/internal/session"
	"github.com/mknopf/vitrine/internal/state"
	"github.com/mknopf/vitrine/internal/ui"
)

// Options configure the vitrine application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/vitrine/prefs.toml
	PollEvery  int    // seconds; zero uses default
}

// Run boots the vitrine TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	logger, closeLogger, err := newLogger(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLogger()

	sess := session.NewWithToken(cfg.Token)

	client, err := folio.NewClient(folio.Options{
		BaseURL:    cfg.APIBase,
		Timeout:    cfg.Timeout,
		Retries:    cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		CacheTTL:   cfg.CacheTTL,
		RateLimit:  cfg.RateLimit,
		Tokens:     sess,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("init folio client: %w", err)
	}

	projects := state.NewProjects(client)
	bookmarks := state.NewBookmarks(client)
	liker := likes.NewService(client, projects, bookmarks, sess, logger)

	if resolveErr := sess.Resolve(ctx, client); resolveErr != nil {
		// A dead or unreachable token downgrades to anonymous browsing.
		logger.Warn("session resolve failed", "error", resolveErr)
	}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Start background poller
	StartPoller(ctx, projects, bookmarks, sess, interval, logger)

	// Do initial refresh to populate stores before the UI starts
	refresh(ctx, projects, bookmarks, sess, logger)

	return ui.Run(ui.Options{
		Context:   ctx,
		Projects:  projects,
		Bookmarks: bookmarks,
		Likes:     liker,
		Session:   sess,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
	})
}

// newLogger opens the structured log sink. The TUI owns stdout/stderr, so
// without a configured path everything is discarded.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, nil))
	return logger, func() { _ = file.Close() }, nil
}
