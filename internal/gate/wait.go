package gate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/coldstore/snapkeeper/internal/fsprobe"
)

// Wait blocks until the transfer-complete marker exists or ctx ends. The
// watching strategy follows the configured mode; "auto" probes whether
// fsnotify actually delivers events for the marker's directory and falls
// back to polling when it does not.
func (g *Gate) Wait(ctx context.Context) error {
	marker := g.cfg.MarkerPath
	if marker == "" {
		return nil
	}
	if markerPresent(marker) {
		return nil
	}

	switch g.cfg.Watch.Mode {
	case "fsnotify":
		return g.waitFsnotify(ctx, marker)

	case "poll":
		return g.waitPoll(ctx, marker)

	case "auto":
		ok, reason := fsprobe.Supported(filepath.Dir(marker))
		if ok {
			return g.waitFsnotify(ctx, marker)
		}
		g.log.Warn("fsnotify disabled, polling for transfer marker", "reason", reason)
		return g.waitPoll(ctx, marker)

	default:
		return fmt.Errorf("unknown watch mode %q", g.cfg.Watch.Mode)
	}
}

func (g *Gate) waitPoll(ctx context.Context, marker string) error {
	interval := g.cfg.Watch.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if markerPresent(marker) {
				return nil
			}
		}
	}
}

func (g *Gate) waitFsnotify(ctx context.Context, marker string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting fsnotify: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(marker)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(marker), err)
	}

	// The marker may have appeared between the first check and Add.
	if markerPresent(marker) {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-w.Events:
			if ev.Name == marker && markerPresent(marker) {
				return nil
			}
		case err := <-w.Errors:
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

func markerPresent(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
