package structure_indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ocscaffold/ocscaffold/app_errors"
	"github.com/ocscaffold/ocscaffold/structure_indexer/contracts"
	"github.com/ocscaffold/ocscaffold/structure_indexer/models"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RootResolver returns the OpenCart source root. It is called at the start of every run
// so configuration changes take effect on the next index.
type RootResolver func() (string, error)

// ProgressFunc receives a short description of the step about to run.
type ProgressFunc func(step string)

type category struct {
	name  string
	roots []string
	exts  []string
	pick  func(*models.IndexState) *[]string
}

// categories lists what gets scanned, in order. Each root is relative to the source root
// and is also used as the prefix of the collected paths.
var categories = []category{
	{
		name:  "controllers",
		roots: []string{"admin/controller", "catalog/controller"},
		exts:  []string{".php"},
		pick:  func(s *models.IndexState) *[]string { return &s.Controllers },
	},
	{
		name:  "models",
		roots: []string{"admin/model", "catalog/model"},
		exts:  []string{".php"},
		pick:  func(s *models.IndexState) *[]string { return &s.Models },
	},
	{
		name:  "views",
		roots: []string{"admin/view/template", "catalog/view/theme"},
		exts:  []string{".twig", ".tpl"},
		pick:  func(s *models.IndexState) *[]string { return &s.Views },
	},
	{
		name:  "languages",
		roots: []string{"admin/language", "catalog/language"},
		exts:  []string{".php"},
		pick:  func(s *models.IndexState) *[]string { return &s.Languages },
	},
}

// StructureIndexer scans an OpenCart tree and keeps the last result in memory.
type StructureIndexer struct {
	mu       sync.RWMutex
	state    models.IndexState
	resolve  RootResolver
	group    singleflight.Group
	log      *zap.Logger
	stats    *indexStats
	progress ProgressFunc
}

// NewStructureIndexer initializes a new StructureIndexer.
func NewStructureIndexer(resolve RootResolver, log *zap.Logger) *StructureIndexer {
	if log == nil {
		log = zap.NewNop()
	}
	return &StructureIndexer{
		state:   models.Empty(),
		resolve: resolve,
		log:     log,
		stats:   newIndexStats(),
	}
}

var _ contracts.IStructureIndexer = (*StructureIndexer)(nil)

// OnProgress registers a callback for step notifications. Not safe to call while indexing.
func (indexer *StructureIndexer) OnProgress(fn ProgressFunc) {
	indexer.progress = fn
}

func (indexer *StructureIndexer) IsIndexed() bool {
	indexer.mu.RLock()
	defer indexer.mu.RUnlock()
	return indexer.state.Ready
}

// State returns a copy of the current index.
func (indexer *StructureIndexer) State() models.IndexState {
	indexer.mu.RLock()
	defer indexer.mu.RUnlock()
	return indexer.state.Clone()
}

func (indexer *StructureIndexer) GetVersion() string {
	indexer.mu.RLock()
	defer indexer.mu.RUnlock()
	return indexer.state.Version
}

func (indexer *StructureIndexer) GetControllers() []string { return indexer.State().Controllers }
func (indexer *StructureIndexer) GetModels() []string      { return indexer.State().Models }
func (indexer *StructureIndexer) GetViews() []string       { return indexer.State().Views }
func (indexer *StructureIndexer) GetLanguages() []string   { return indexer.State().Languages }

// Index runs a full scan and replaces the previous result. Calls made while a scan
// is in flight wait for it and receive the same result instead of starting another.
func (indexer *StructureIndexer) Index(ctx context.Context) (models.IndexState, error) {
	result, err, shared := indexer.group.Do("index", func() (interface{}, error) {
		return indexer.index(ctx)
	})
	if shared {
		indexer.stats.recordShared()
	}
	if err != nil {
		return models.Empty(), err
	}
	return result.(models.IndexState).Clone(), nil
}

func (indexer *StructureIndexer) index(ctx context.Context) (models.IndexState, error) {
	start := time.Now()

	if indexer.resolve == nil {
		return indexer.fail(start, app_errors.ErrConfigurationMissing)
	}
	root, err := indexer.resolve()
	if err != nil {
		return indexer.fail(start, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return indexer.fail(start, fmt.Errorf("OpenCart source path not found: %s: %w", root, app_errors.ErrPathNotFound))
		}
		return indexer.fail(start, fmt.Errorf("failed to read source path %s: %w: %w", root, app_errors.ErrIOFailure, err))
	}
	if !info.IsDir() {
		return indexer.fail(start, fmt.Errorf("OpenCart source path is not a directory: %s: %w", root, app_errors.ErrPathNotFound))
	}

	indexer.log.Debug("indexing OpenCart tree", zap.String("root", root))

	next := models.Empty()
	next.Root = root

	if err := indexer.step(ctx, "Detecting OpenCart version..."); err != nil {
		return indexer.fail(start, err)
	}
	next.Version = DetectVersion(root)

	var branchErrs error
	for _, cat := range categories {
		if err := indexer.step(ctx, fmt.Sprintf("Indexing %s...", cat.name)); err != nil {
			return indexer.fail(start, err)
		}

		acc := cat.pick(&next)
		for _, rel := range cat.roots {
			dir := filepath.Join(root, filepath.FromSlash(rel))
			if !dirExists(dir) {
				continue
			}
			for _, ext := range cat.exts {
				branchErrs = multierr.Append(branchErrs, ScanDirectory(dir, ext, rel+"/", acc, indexer.log))
			}
		}
	}

	for _, e := range multierr.Errors(branchErrs) {
		next.BranchErrors = append(next.BranchErrors, e.Error())
	}
	next.Partial = len(next.BranchErrors) > 0
	next.Ready = true
	next.IndexedAt = time.Now()

	indexer.mu.Lock()
	indexer.state = next
	indexer.mu.Unlock()

	indexer.stats.recordRun(time.Since(start), nil)
	indexer.log.Debug("indexed OpenCart tree",
		zap.String("root", root),
		zap.String("version", next.Version),
		zap.Int("controllers", len(next.Controllers)),
		zap.Int("models", len(next.Models)),
		zap.Int("views", len(next.Views)),
		zap.Int("languages", len(next.Languages)),
		zap.Bool("partial", next.Partial),
	)

	return next, nil
}

// step reports progress and honors cancellation between steps. A step already
// running is never interrupted.
func (indexer *StructureIndexer) step(ctx context.Context, description string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if indexer.progress != nil {
		indexer.progress(description)
	}
	return nil
}

// fail resets the index so no half-built state is ever reported as ready.
func (indexer *StructureIndexer) fail(start time.Time, err error) (models.IndexState, error) {
	indexer.mu.Lock()
	indexer.state = models.Empty()
	indexer.mu.Unlock()

	indexer.stats.recordRun(time.Since(start), err)
	indexer.log.Debug("error indexing OpenCart", zap.Error(err))
	return models.Empty(), err
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
