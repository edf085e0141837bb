package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// watchAndRegenerate re-runs gen whenever a Go file changes in one of the
// package directories it loaded, until ctx is cancelled.
func watchAndRegenerate(ctx context.Context, gen *generator, targets []string, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]struct{})
	addDirs := func(dirs []string) {
		for _, dir := range dirs {
			if _, ok := watched[dir]; ok {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				logger.Warn("cannot watch directory", "dir", dir, "error", err)
				continue
			}
			watched[dir] = struct{}{}
		}
	}
	addDirs(gen.dirs)
	logger.Info("watching for changes", "dirs", len(watched))

	trigger := make(chan string, 1)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantChange(event) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			name := event.Name
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case trigger <- name:
				default:
				}
			})
		case name := <-trigger:
			logger.Info("change detected", "file", filepath.Base(name))
			if err := gen.generate(ctx, targets); err != nil {
				logger.Error("regeneration failed", "error", err)
				continue
			}
			addDirs(gen.dirs)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

func relevantChange(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != ".go" {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
