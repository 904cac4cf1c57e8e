package structure_indexer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ocscaffold/ocscaffold/app_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func staticRoot(root string) RootResolver {
	return func() (string, error) { return root, nil }
}

func sampleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.php"), "<?php\ndefine('VERSION', '3.0.3.8');\n")
	writeTree(t, root,
		"admin/controller/common/dashboard.php",
		"admin/controller/extension/module/account.php",
		"catalog/controller/common/header.php",
		"admin/model/setting/setting.php",
		"catalog/model/catalog/product.php",
		"admin/view/template/common/dashboard.twig",
		"admin/view/template/legacy/old.tpl",
		"catalog/view/theme/default/template/common/header.twig",
		"admin/language/en-gb/common/dashboard.php",
		"catalog/language/en-gb/en-gb.php",
	)
	return root
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func TestStructureIndexer_NotIndexedBeforeFirstRun(t *testing.T) {
	indexer := NewStructureIndexer(staticRoot(t.TempDir()), zap.NewNop())

	assert.False(t, indexer.IsIndexed())
	assert.Equal(t, "unknown", indexer.GetVersion())
	assert.Empty(t, indexer.GetControllers())
	assert.Empty(t, indexer.GetModels())
	assert.Empty(t, indexer.GetViews())
	assert.Empty(t, indexer.GetLanguages())
}

func TestStructureIndexer_IndexesAllCategories(t *testing.T) {
	root := sampleTree(t)
	indexer := NewStructureIndexer(staticRoot(root), zap.NewNop())

	var steps []string
	indexer.OnProgress(func(step string) { steps = append(steps, step) })

	state, err := indexer.Index(context.Background())
	require.NoError(t, err)

	assert.True(t, indexer.IsIndexed())
	assert.True(t, state.Ready)
	assert.False(t, state.Partial)
	assert.Equal(t, "3.0.3.8", indexer.GetVersion())

	if diff := cmp.Diff([]string{
		"admin/controller/common/dashboard.php",
		"admin/controller/extension/module/account.php",
		"catalog/controller/common/header.php",
	}, sorted(indexer.GetControllers())); diff != "" {
		t.Errorf("controllers (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"admin/model/setting/setting.php", "catalog/model/catalog/product.php"}, sorted(indexer.GetModels()))
	assert.Equal(t, []string{"admin/language/en-gb/common/dashboard.php", "catalog/language/en-gb/en-gb.php"}, sorted(indexer.GetLanguages()))

	// twig files of a root come before its tpl files
	assert.Equal(t, []string{
		"admin/view/template/common/dashboard.twig",
		"admin/view/template/legacy/old.tpl",
		"catalog/view/theme/default/template/common/header.twig",
	}, indexer.GetViews())

	assert.Equal(t, []string{
		"Detecting OpenCart version...",
		"Indexing controllers...",
		"Indexing models...",
		"Indexing views...",
		"Indexing languages...",
	}, steps)
}

func TestStructureIndexer_ReindexReplacesLists(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"admin/controller/a.php",
		"admin/controller/b.php",
		"admin/controller/c.php",
		"catalog/controller/d.php",
		"catalog/controller/e.php",
	)

	current := root
	indexer := NewStructureIndexer(func() (string, error) { return current, nil }, zap.NewNop())

	_, err := indexer.Index(context.Background())
	require.NoError(t, err)
	assert.Len(t, indexer.GetControllers(), 5)

	current = t.TempDir()
	_, err = indexer.Index(context.Background())
	require.NoError(t, err)

	assert.True(t, indexer.IsIndexed())
	assert.Empty(t, indexer.GetControllers())
}

func TestStructureIndexer_MissingRootResetsState(t *testing.T) {
	root := sampleTree(t)
	current := root
	indexer := NewStructureIndexer(func() (string, error) { return current, nil }, zap.NewNop())

	_, err := indexer.Index(context.Background())
	require.NoError(t, err)
	require.True(t, indexer.IsIndexed())

	current = filepath.Join(root, "does-not-exist")
	_, err = indexer.Index(context.Background())

	assert.ErrorIs(t, err, app_errors.ErrPathNotFound)
	assert.False(t, indexer.IsIndexed())
	assert.Empty(t, indexer.GetControllers())
	assert.Equal(t, "unknown", indexer.GetVersion())
}

func TestStructureIndexer_MissingRootLogsBelowErrorLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	indexer := NewStructureIndexer(staticRoot(filepath.Join(t.TempDir(), "missing")), zap.New(core))

	_, err := indexer.Index(context.Background())
	require.ErrorIs(t, err, app_errors.ErrPathNotFound)

	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Equal(t, 1, logs.FilterMessage("error indexing OpenCart").FilterLevelExact(zapcore.DebugLevel).Len())
}

func TestStructureIndexer_SuccessLogsAtDebugLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	indexer := NewStructureIndexer(staticRoot(sampleTree(t)), zap.New(core))

	_, err := indexer.Index(context.Background())
	require.NoError(t, err)

	assert.Zero(t, logs.Len())
}

func TestStructureIndexer_ResolverError(t *testing.T) {
	indexer := NewStructureIndexer(func() (string, error) {
		return "", app_errors.ErrConfigurationMissing
	}, zap.NewNop())

	_, err := indexer.Index(context.Background())
	assert.ErrorIs(t, err, app_errors.ErrConfigurationMissing)
	assert.False(t, indexer.IsIndexed())
}

func TestStructureIndexer_CancelledContext(t *testing.T) {
	indexer := NewStructureIndexer(staticRoot(sampleTree(t)), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := indexer.Index(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, indexer.IsIndexed())
}

func TestStructureIndexer_AccessorsReturnCopies(t *testing.T) {
	indexer := NewStructureIndexer(staticRoot(sampleTree(t)), zap.NewNop())
	_, err := indexer.Index(context.Background())
	require.NoError(t, err)

	controllers := indexer.GetControllers()
	controllers[0] = "tampered"

	assert.NotContains(t, indexer.GetControllers(), "tampered")
}

func TestStructureIndexer_PartialScan(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := sampleTree(t)
	locked := filepath.Join(root, "admin", "controller", "extension")
	require.NoError(t, os.Chmod(locked, 0000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	indexer := NewStructureIndexer(staticRoot(root), zap.NewNop())
	state, err := indexer.Index(context.Background())
	require.NoError(t, err)

	assert.True(t, state.Ready)
	assert.True(t, state.Partial)
	assert.Len(t, state.BranchErrors, 1)
	assert.Len(t, state.Controllers, 2)
}

func TestStructureIndexer_ConcurrentIndexCalls(t *testing.T) {
	indexer := NewStructureIndexer(staticRoot(sampleTree(t)), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := indexer.Index(context.Background())
			assert.NoError(t, err)
			assert.Len(t, state.Controllers, 3)
		}()
	}
	wg.Wait()

	assert.True(t, indexer.IsIndexed())
	assert.Len(t, indexer.GetControllers(), 3)

	stats := indexer.GetPerformanceStats()
	runs := stats["total_runs"].(int64)
	assert.GreaterOrEqual(t, runs, int64(1))
	assert.LessOrEqual(t, runs, int64(8))
	assert.Equal(t, int64(0), stats["failed_runs"])
}
