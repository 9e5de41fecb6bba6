// Package watch re-parses a repository when its sources change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

// Parser is the part of forge.Forge the watcher drives.
type Parser interface {
	InvalidateRepository(root string) bool
	ParseRepository(ctx context.Context, root string) (*model.RepositoryModel, error)
}

// Options configures a Watcher.
type Options struct {
	// Debounce groups bursts of events into one re-parse. Default 200ms.
	Debounce time.Duration
	// OnParse receives every re-parse result.
	OnParse func(*model.RepositoryModel, error)
}

// ignoredDirs are never watched.
var ignoredDirs = map[string]bool{
	"node_modules":     true,
	".git":             true,
	"dist":             true,
	"build":            true,
	".next":            true,
	"coverage":         true,
	"out":              true,
	"storybook-static": true,
}

// relevantExts are the file types whose changes affect the model.
var relevantExts = map[string]bool{
	".tsx":  true,
	".jsx":  true,
	".ts":   true,
	".js":   true,
	".css":  true,
	".json": true,
	".yaml": true,
}

// Watcher watches a repository tree and, after a quiet period following a
// relevant change, invalidates the type resolution cache and re-parses.
//
//	w, err := watch.New(f, root, watch.Options{OnParse: publish}, logger)
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher *fsnotify.Watcher
	parser  Parser
	root    string
	log     *slog.Logger
	options Options

	// Debouncing
	timer   *time.Timer
	timerMu sync.Mutex

	// parseMu keeps re-parses sequential.
	parseMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// New starts watching root.
func New(p Parser, root string, options Options, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Debounce <= 0 {
		options.Debounce = 200 * time.Millisecond
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:  fw,
		parser:   p,
		root:     abs,
		log:      logger,
		options:  options,
		ctx:      ctx,
		cancel:   cancel,
		stopChan: make(chan struct{}),
	}

	if err := w.addTree(abs); err != nil {
		cancel()
		fw.Close()
		return nil, err
	}

	w.log.Info("file watcher started", "root", abs)
	go w.eventLoop()
	return w, nil
}

// addTree watches dir and every non-ignored directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && ignoredDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.log.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop stops watching. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)
	w.cancel()

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timerMu.Unlock()

	err := w.watcher.Close()
	w.log.Info("file watcher stopped", "root", w.root)
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.ignored(event.Name) {
		return
	}

	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			w.schedule()
			return
		}
	}

	if !relevantExts[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.log.Debug("file event", "op", event.Op.String(), "file", event.Name)
	w.schedule()
}

// schedule (re)starts the debounce timer.
func (w *Watcher) schedule() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.options.Debounce, w.reparse)
}

func (w *Watcher) reparse() {
	w.parseMu.Lock()
	defer w.parseMu.Unlock()

	if w.ctx.Err() != nil {
		return
	}
	start := time.Now()
	w.parser.InvalidateRepository(w.root)
	repo, err := w.parser.ParseRepository(w.ctx, w.root)
	if err != nil {
		w.log.Warn("re-parse failed", "root", w.root, "error", err)
	} else {
		w.log.Info("repository re-parsed", "root", w.root, "components", len(repo.Components),
			"ms", time.Since(start).Milliseconds())
	}
	if w.options.OnParse != nil {
		w.options.OnParse(repo, err)
	}
}

// ignored reports whether path lies in an ignored directory of the tree.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if ignoredDirs[part] {
			return true
		}
	}
	return false
}
