package structure_indexer

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ocscaffold/ocscaffold/structure_indexer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestIndexWatcher_ReindexesOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := sampleTree(t)
	indexer := NewStructureIndexer(staticRoot(root), zap.NewNop())
	_, err := indexer.Index(context.Background())
	require.NoError(t, err)
	require.Len(t, indexer.GetControllers(), 3)

	var reindexed atomic.Int32
	watcher, err := NewIndexWatcher(root, indexer, func(state models.IndexState, err error) {
		if err == nil {
			reindexed.Add(1)
		}
	}, zap.NewNop())
	require.NoError(t, err)
	watcher.SetDebounce(50 * time.Millisecond)

	require.NoError(t, watcher.Start(context.Background()))

	writeTree(t, root, "catalog/controller/extension/module/loyalty.php")

	require.Eventually(t, func() bool {
		return len(indexer.GetControllers()) == 4
	}, 5*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, reindexed.Load(), int32(1))

	watcher.Stop()
}

func TestIndexWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := sampleTree(t)
	indexer := NewStructureIndexer(staticRoot(root), zap.NewNop())

	var reindexed atomic.Int32
	watcher, err := NewIndexWatcher(root, indexer, func(models.IndexState, error) {
		reindexed.Add(1)
	}, zap.NewNop())
	require.NoError(t, err)
	watcher.SetDebounce(20 * time.Millisecond)
	require.NoError(t, watcher.Start(context.Background()))

	writeFile(t, filepath.Join(root, "admin", "controller", "notes.txt"), "todo")
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, int32(0), reindexed.Load())
	watcher.Stop()
}

func TestIndexWatcher_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	indexer := NewStructureIndexer(staticRoot(root), zap.NewNop())
	watcher, err := NewIndexWatcher(root, indexer, nil, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, watcher.Start(ctx))
	cancel()

	select {
	case <-watcher.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
	watcher.Stop()
}

func TestIndexWatcher_SkipsIgnoredFolders(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := sampleTree(t)
	writeFile(t, filepath.Join(root, ".ocscaffold-ignore"), "system/storage/\n")
	writeFile(t, filepath.Join(root, "system", "storage", "cache", "keep.txt"), "")
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref")

	indexer := NewStructureIndexer(staticRoot(root), zap.NewNop())
	var reindexed atomic.Int32
	watcher, err := NewIndexWatcher(root, indexer, func(models.IndexState, error) {
		reindexed.Add(1)
	}, zap.NewNop())
	require.NoError(t, err)
	watcher.SetDebounce(20 * time.Millisecond)
	require.NoError(t, watcher.Start(context.Background()))

	writeFile(t, filepath.Join(root, "system", "storage", "cache", "cache.php"), "<?php")
	writeFile(t, filepath.Join(root, ".git", "hook.php"), "<?php")
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, int32(0), reindexed.Load())
	watcher.Stop()
}
