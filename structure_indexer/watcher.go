package structure_indexer

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ocscaffold/ocscaffold/structure_indexer/models"
	"github.com/ocscaffold/ocscaffold/utils"
	"go.uber.org/zap"
)

// watchedExtensions are the file types whose changes trigger a re-index.
var watchedExtensions = []string{".php", ".twig", ".tpl"}

// ReindexFunc is called after every re-index triggered by the watcher.
type ReindexFunc func(state models.IndexState, err error)

// IndexWatcher re-runs the indexer when files under the source root change.
// Bursts of events are collapsed into a single run once the tree has been quiet
// for the debounce duration.
type IndexWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	indexer     *StructureIndexer
	root        string
	ignore      []string
	debounceDur time.Duration
	lastEvent   time.Time
	dirty       bool
	onReindex   ReindexFunc
	log         *zap.Logger
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewIndexWatcher creates a watcher for root. Call Start to begin watching.
func NewIndexWatcher(root string, indexer *StructureIndexer, onReindex ReindexFunc, log *zap.Logger) (*IndexWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &IndexWatcher{
		watcher:     watcher,
		indexer:     indexer,
		root:        root,
		debounceDur: 500 * time.Millisecond,
		onReindex:   onReindex,
		log:         log,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// SetDebounce changes the quiet period. Must be called before Start.
func (iw *IndexWatcher) SetDebounce(d time.Duration) {
	iw.debounceDur = d
}

// Start registers every directory under the root and runs the event loop in a goroutine.
func (iw *IndexWatcher) Start(ctx context.Context) error {
	iw.mu.Lock()
	if iw.running {
		iw.mu.Unlock()
		return nil
	}
	iw.running = true
	iw.mu.Unlock()

	patterns, err := utils.GetIgnorePatterns(iw.root)
	if err != nil {
		iw.log.Warn("ignoring unreadable ignore file", zap.String("root", iw.root), zap.Error(err))
	}
	iw.ignore = patterns

	if err := iw.addTree(iw.root); err != nil {
		iw.mu.Lock()
		iw.running = false
		iw.mu.Unlock()
		return err
	}

	go iw.run(ctx)
	return nil
}

// Stop ends the event loop and releases the underlying watcher.
func (iw *IndexWatcher) Stop() {
	iw.mu.Lock()
	if !iw.running {
		iw.mu.Unlock()
		_ = iw.watcher.Close()
		return
	}
	iw.running = false
	iw.mu.Unlock()

	close(iw.stopCh)
	<-iw.doneCh

	if err := iw.watcher.Close(); err != nil {
		iw.log.Error("error closing watcher", zap.Error(err))
	}
}

// Done is closed when the event loop has exited.
func (iw *IndexWatcher) Done() <-chan struct{} {
	return iw.doneCh
}

func (iw *IndexWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			iw.log.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if iw.ignored(path) {
			return filepath.SkipDir
		}
		if err := iw.watcher.Add(path); err != nil {
			iw.log.Warn("failed to watch directory", zap.String("dir", path), zap.Error(err))
		}
		return nil
	})
}

func (iw *IndexWatcher) run(ctx context.Context) {
	defer close(iw.doneCh)

	ticker := time.NewTicker(iw.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-iw.stopCh:
			return
		case event, ok := <-iw.watcher.Events:
			if !ok {
				return
			}
			iw.handleEvent(event)
		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			iw.log.Error("watcher error", zap.Error(err))
		case <-ticker.C:
			iw.processDebounced(ctx)
		}
	}
}

func (iw *IndexWatcher) tickInterval() time.Duration {
	interval := iw.debounceDur / 5
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	return interval
}

func (iw *IndexWatcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if iw.ignored(event.Name) {
		return
	}

	// new directories are not picked up by fsnotify on their own
	if event.Op&fsnotify.Create != 0 && dirExists(event.Name) {
		if err := iw.addTree(event.Name); err != nil {
			iw.log.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
		}
		iw.markDirty(event)
		return
	}

	if !isWatchedFile(event.Name) && event.Op&(fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	iw.markDirty(event)
}

func (iw *IndexWatcher) markDirty(event fsnotify.Event) {
	iw.log.Debug("source tree changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
	iw.mu.Lock()
	iw.dirty = true
	iw.lastEvent = time.Now()
	iw.mu.Unlock()
}

func (iw *IndexWatcher) processDebounced(ctx context.Context) {
	iw.mu.Lock()
	if !iw.dirty || time.Since(iw.lastEvent) < iw.debounceDur {
		iw.mu.Unlock()
		return
	}
	iw.dirty = false
	iw.mu.Unlock()

	state, err := iw.indexer.Index(ctx)
	if iw.onReindex != nil {
		iw.onReindex(state, err)
	}
}

// ignored applies the default and .ocscaffold-ignore rules to a path under the root.
func (iw *IndexWatcher) ignored(path string) bool {
	rel, err := filepath.Rel(iw.root, path)
	if err != nil || rel == "." {
		return false
	}
	return utils.IsIgnored(filepath.ToSlash(rel), iw.ignore)
}

func isWatchedFile(name string) bool {
	for _, ext := range watchedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
