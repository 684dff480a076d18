package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 150 * time.Millisecond

// watchRender renders once, then again after every change to the payload or
// theme file, until ctx is cancelled. Render errors are reported and the
// watch continues.
func (c *CLI) watchRender(ctx context.Context, input string, formats []string, ro renderOpts, rf renderFlags, cf cacheFlags) error {
	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	targets, err := watchTargets(input, rf.themePath)
	if err != nil {
		return err
	}
	// Directories are watched so that atomic saves (write + rename) are seen.
	for dir := range dirsOf(targets) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	render := func() {
		if err := c.renderOnce(ctx, runner, input, formats, ro, rf); err != nil {
			printError("%v", err)
		}
	}
	render()
	printInfo("Watching %s for changes (ctrl+c to stop)", input)

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			printNewline()
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if relevantEvent(ev, targets) {
				timer = time.After(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "error", err)
		case <-timer:
			timer = nil
			c.Logger.Debug("change detected, re-rendering", "input", input)
			render()
		}
	}
}

// watchTargets returns the absolute paths of the files to watch.
func watchTargets(paths ...string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		out[abs] = true
	}
	return out, nil
}

func dirsOf(targets map[string]bool) map[string]bool {
	dirs := make(map[string]bool, len(targets))
	for t := range targets {
		dirs[filepath.Dir(t)] = true
	}
	return dirs
}

// relevantEvent reports whether ev changes one of the watched files.
func relevantEvent(ev fsnotify.Event, targets map[string]bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return targets[abs]
}
