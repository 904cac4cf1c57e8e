package utils

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// IgnoreFileName lists extra paths, relative to the source root, whose changes
// never trigger a re-index. One pattern per line; "#" starts a comment.
const IgnoreFileName = ".ocscaffold-ignore"

// defaultIgnoredDirs are skipped by the watcher in every tree.
var defaultIgnoredDirs = []string{
	".git",
	".svn",
	".hg",
	".idea",
	".vscode",
	".cache",
	"node_modules",
}

type ignoreCacheEntry struct {
	patterns []string
	modTime  time.Time
}

var (
	ignoreCache = make(map[string]*ignoreCacheEntry)
	cacheMutex  sync.RWMutex
)

// GetIgnorePatterns reads the ignore file of root. A missing file yields no patterns.
// Results are cached until the file's modification time changes.
func GetIgnorePatterns(root string) ([]string, error) {
	ignorePath := filepath.Join(root, IgnoreFileName)

	fileInfo, err := os.Stat(ignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking %s: %w", IgnoreFileName, err)
	}

	cacheMutex.RLock()
	if cached, exists := ignoreCache[ignorePath]; exists && fileInfo.ModTime().Equal(cached.modTime) {
		cacheMutex.RUnlock()
		return cached.patterns, nil
	}
	cacheMutex.RUnlock()

	patterns, err := readIgnoreFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFileName, err)
	}

	cacheMutex.Lock()
	ignoreCache[ignorePath] = &ignoreCacheEntry{patterns: patterns, modTime: fileInfo.ModTime()}
	cacheMutex.Unlock()

	return patterns, nil
}

func readIgnoreFile(ignorePath string) ([]string, error) {
	content, err := os.ReadFile(ignorePath)
	if err != nil {
		return nil, err
	}
	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, filepath.ToSlash(line))
		}
	}
	return patterns, nil
}

// IsDefaultIgnored reports whether any segment of the slash-separated relPath is a
// VCS, editor or dependency folder.
func IsDefaultIgnored(relPath string) bool {
	for _, part := range strings.Split(relPath, "/") {
		part = strings.ToLower(part)
		for _, dir := range defaultIgnoredDirs {
			if part == dir {
				return true
			}
		}
	}
	return false
}

// IsIgnored matches a slash-separated path relative to the root against patterns.
// "dir/" ignores everything below dir; other patterns use path.Match on the whole
// path and on the base name.
func IsIgnored(relPath string, patterns []string) bool {
	if IsDefaultIgnored(relPath) {
		return true
	}
	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/") {
			dir := strings.TrimSuffix(pattern, "/")
			if relPath == dir || strings.HasPrefix(relPath, pattern) {
				return true
			}
			continue
		}
		if match, _ := path.Match(pattern, relPath); match {
			return true
		}
		if match, _ := path.Match(pattern, path.Base(relPath)); match {
			return true
		}
	}
	return false
}

// ClearIgnoreCache drops all cached ignore files.
func ClearIgnoreCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	ignoreCache = make(map[string]*ignoreCacheEntry)
}
