package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// MonitorOptions tunes the driving loop.
type MonitorOptions struct {
	// PoseInterval is the pose copy tick. Defaults to 16ms (~60Hz).
	PoseInterval time.Duration
	// ScanInterval is the device rescan tick. Defaults to 2s.
	ScanInterval time.Duration
	// RosterPath, when set, is watched for changes; edits reload the
	// declared set and trigger an immediate rescan.
	RosterPath string
}

const rosterDebounce = 500 * time.Millisecond

// Monitor is the driving loop the registry itself does not have: it calls
// Scan and UpdatePoses on their ticks and reloads the roster when the
// file changes on disk.
type Monitor struct {
	reg  *Registry
	opts MonitorOptions
	log  *slog.Logger
}

func NewMonitor(reg *Registry, opts MonitorOptions) *Monitor {
	if opts.PoseInterval <= 0 {
		opts.PoseInterval = 16 * time.Millisecond
	}
	if opts.ScanInterval <= 0 {
		opts.ScanInterval = 2 * time.Second
	}
	return &Monitor{
		reg:  reg,
		opts: opts,
		log:  slog.Default().With(slog.String("component", "monitor")),
	}
}

// Run blocks until the context is canceled. Scan and pose errors are
// logged and retried on the next tick; only a failed watcher setup is
// fatal.
func (m *Monitor) Run(ctx context.Context) error {
	var watchEvents <-chan fsnotify.Event
	var watchErrors <-chan error
	if m.opts.RosterPath != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("roster watcher: %w", err)
		}
		defer watcher.Close()
		// Watch the directory, not the file: editors replace files by
		// rename, which drops a direct file watch.
		if err := watcher.Add(filepath.Dir(m.opts.RosterPath)); err != nil {
			return fmt.Errorf("roster watcher: %w", err)
		}
		watchEvents = watcher.Events
		watchErrors = watcher.Errors
	}

	if _, err := m.reg.Scan(); err != nil {
		m.log.Warn("initial scan failed", slog.Any("error", err))
	}

	poseTicker := time.NewTicker(m.opts.PoseInterval)
	defer poseTicker.Stop()
	scanTicker := time.NewTicker(m.opts.ScanInterval)
	defer scanTicker.Stop()

	// Batch bursts of filesystem events into one reload.
	reload := time.NewTimer(rosterDebounce)
	reload.Stop()
	pendingReload := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-poseTicker.C:
			if err := m.reg.UpdatePoses(); err != nil {
				m.log.Warn("pose update failed", slog.Any("error", err))
			}

		case <-scanTicker.C:
			if _, err := m.reg.Scan(); err != nil {
				m.log.Warn("scan failed", slog.Any("error", err))
			}

		case ev, ok := <-watchEvents:
			if !ok {
				watchEvents = nil
				continue
			}
			if filepath.Clean(ev.Name) != filepath.Clean(m.opts.RosterPath) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !pendingReload {
				pendingReload = true
				reload.Reset(rosterDebounce)
			}

		case <-reload.C:
			if !pendingReload {
				continue
			}
			pendingReload = false
			m.log.Info("roster changed, reloading", slog.String("path", m.opts.RosterPath))
			if err := m.reg.LoadRoster(m.opts.RosterPath); err != nil {
				m.log.Warn("roster reload failed", slog.Any("error", err))
				continue
			}
			if _, err := m.reg.Scan(); err != nil {
				m.log.Warn("scan failed", slog.Any("error", err))
			}

		case err, ok := <-watchErrors:
			if !ok {
				watchErrors = nil
				continue
			}
			m.log.Warn("roster watcher error", slog.Any("error", err))
		}
	}
}
