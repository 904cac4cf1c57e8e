package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIgnorePatterns_MissingFile(t *testing.T) {
	patterns, err := GetIgnorePatterns(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestGetIgnorePatterns_ReadsAndRefreshes(t *testing.T) {
	t.Cleanup(ClearIgnoreCache)
	root := t.TempDir()
	ignorePath := filepath.Join(root, IgnoreFileName)

	require.NoError(t, os.WriteFile(ignorePath, []byte("# cache churn\nsystem/storage/\n\n*.bak\n"), 0644))
	patterns, err := GetIgnorePatterns(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"system/storage/", "*.bak"}, patterns)

	require.NoError(t, os.WriteFile(ignorePath, []byte("image/\n"), 0644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(ignorePath, later, later))

	patterns, err = GetIgnorePatterns(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"image/"}, patterns)
}

func TestIsIgnored(t *testing.T) {
	patterns := []string{"system/storage/", "*.bak", "admin/controller/tmp.php"}

	assert.True(t, IsIgnored(".git/objects", nil))
	assert.True(t, IsIgnored("catalog/node_modules/x.php", nil))
	assert.True(t, IsIgnored("system/storage", patterns))
	assert.True(t, IsIgnored("system/storage/cache/a.php", patterns))
	assert.True(t, IsIgnored("admin/model/old.bak", patterns))
	assert.True(t, IsIgnored("admin/controller/tmp.php", patterns))

	assert.False(t, IsIgnored("admin/controller/common/dashboard.php", patterns))
	assert.False(t, IsIgnored("system/storagex/a.php", patterns))
	assert.False(t, IsIgnored("catalog/view/theme/gitlike/x.twig", patterns))
}
