package system

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/notifier"
	"github.com/julianstephens/dailyspark/internal/reminder"
	"github.com/julianstephens/dailyspark/internal/storage"
)

const (
	// Writes that land this soon after a reload are our own boot writes.
	reloadQuietWindow = 2 * time.Second
	reloadDebounce    = 500 * time.Millisecond
)

// WatchCmd stays in the foreground and delivers streak reminders until
// interrupted.
type WatchCmd struct {
	DryRun  bool          `help:"Print reminders to stdout instead of sending them."`
	Refresh time.Duration `help:"How often to reload streaks changed by other spark commands." default:"15m"`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	if c.DryRun {
		ctx.Feedback = notifier.Console{W: ctx.Writer()}
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := c.load(ctx, true)
	defer func() { registry.Stop() }()
	lastReload := time.Now()

	var tick <-chan time.Time
	if c.Refresh > 0 {
		ticker := time.NewTicker(c.Refresh)
		defer ticker.Stop()
		tick = ticker.C
	}

	var fsEvents <-chan fsnotify.Event
	var fsErrors <-chan error
	if path := watchTarget(ctx.Store); path != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Warn("File watcher unavailable, falling back to periodic reload", "error", err)
		} else {
			defer watcher.Close()
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				logger.Warn("Failed to watch database directory", "path", path, "error", err)
			} else {
				fsEvents = watcher.Events
				fsErrors = watcher.Errors
			}
		}
	}

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	reload := func(reason string) {
		logger.Debug("Reloading streaks", "reason", reason)
		registry.Stop()
		registry = c.load(ctx, false)
		lastReload = time.Now()
	}

	for {
		select {
		case <-sigCtx.Done():
			ctx.Println("Stopped watching.")
			return nil
		case <-tick:
			reload("refresh")
		case event, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			if !touchesDatabase(event, watchTarget(ctx.Store)) || time.Since(lastReload) < reloadQuietWindow {
				continue
			}
			debounce.Reset(reloadDebounce)
		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			logger.Warn("Database watcher error", "error", err)
		case <-debounce.C:
			reload("database changed")
		}
	}
}

// load boots a fresh engine against a new registry.
func (c *WatchCmd) load(ctx *cli.Context, announce bool) *reminder.Registry {
	registry := reminder.New(ctx.Clock)
	ctx.BootWith(registry)
	registry.Start()

	pending := registry.Pending()
	logger.Info("Reminders armed", "count", len(pending))
	if !announce {
		return registry
	}
	ctx.Printf("Watching %d reminders (Ctrl+C to stop)\n", len(pending))
	for _, p := range pending {
		ctx.Printf("  %s  %s %s\n", p.At.Format("Mon 15:04"), p.Emoji, p.Name)
	}
	return registry
}

// watchTarget is the database file to watch for outside changes, or "" when
// the store is not a local file.
func watchTarget(store storage.Provider) string {
	path := store.GetConfigPath()
	if storage.IsPostgres(path) || filepath.Base(path) == path {
		return ""
	}
	return filepath.Clean(path)
}

// touchesDatabase reports whether event modified the database or its
// write-ahead log.
func touchesDatabase(event fsnotify.Event, path string) bool {
	if path == "" || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return event.Name == path || strings.HasPrefix(event.Name, path+"-")
}
