package dev

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	// ChangeGo is any Go source file.
	ChangeGo ChangeType = iota

	// ChangeArtifact is a stylesheet or script artifact.
	ChangeArtifact

	// ChangeOther is anything else.
	ChangeOther
)

// Change represents a detected file change.
type Change struct {
	Path    string
	Type    ChangeType
	Removed bool
}

// CodeArtifact reports whether the change touches a +*.go file, which
// requires regenerating the catalog.
func (c Change) CodeArtifact() bool {
	return c.Type == ChangeGo && strings.HasPrefix(filepath.Base(c.Path), "+")
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch.
	Paths []string

	// Ignore lists base names or globs to skip.
	Ignore []string

	// Interval is the polling interval.
	Interval time.Duration
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	"*_test.go",
	".git",
	".pagetree",
	"node_modules",
	"dist",
	"catalog_gen.go",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher polls directories for modifications.
type Watcher struct {
	config WatcherConfig
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval == 0 {
		config.Interval = 200 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	return &Watcher{config: config}
}

// Watch calls fn with every batch of changes until ctx is done.
func (w *Watcher) Watch(ctx context.Context, fn func([]Change)) error {
	last := w.Snapshot()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			next := w.Snapshot()
			if changes := Diff(last, next); len(changes) > 0 {
				fn(changes)
			}
			last = next
		}
	}
}

// Snapshot returns the modification time of every watched file.
func (w *Watcher) Snapshot() map[string]time.Time {
	files := make(map[string]time.Time)
	for _, root := range w.config.Paths {
		filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if w.ignored(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if info, err := d.Info(); err == nil {
				files[p] = info.ModTime()
			}
			return nil
		})
	}
	return files
}

func (w *Watcher) ignored(name string) bool {
	for _, pattern := range w.config.Ignore {
		if name == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// Diff compares two snapshots. Changes are sorted by path.
func Diff(before, after map[string]time.Time) []Change {
	var changes []Change
	for p, mod := range after {
		if prev, ok := before[p]; !ok || !mod.Equal(prev) {
			changes = append(changes, Change{Path: p, Type: classifyChange(p)})
		}
	}
	for p := range before {
		if _, ok := after[p]; !ok {
			changes = append(changes, Change{Path: p, Type: classifyChange(p), Removed: true})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

// classifyChange determines the type of change based on file name.
func classifyChange(p string) ChangeType {
	name := filepath.Base(p)
	switch {
	case strings.HasSuffix(name, ".go"):
		return ChangeGo
	case strings.HasPrefix(name, "+") && (strings.HasSuffix(name, ".css") || strings.HasSuffix(name, ".js")):
		return ChangeArtifact
	default:
		return ChangeOther
	}
}
