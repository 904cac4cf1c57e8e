package structure_indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ocscaffold/ocscaffold/app_errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ScanDirectory walks dir recursively and appends prefix + relative path for every
// file ending in ext to acc. Entries are visited in the order os.ReadDir returns them.
//
// The caller is responsible for checking that dir exists. A directory that cannot be
// read stops that branch only; the error is logged and returned together with any
// errors from sibling branches, and everything reachable is still appended.
// Symlinked directories are followed once: a link back to a directory already being
// scanned is skipped.
func ScanDirectory(dir, ext, prefix string, acc *[]string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	return scanDirectory(dir, ext, prefix, acc, log, map[string]bool{})
}

func scanDirectory(dir, ext, prefix string, acc *[]string, log *zap.Logger, visited map[string]bool) error {
	if target, err := filepath.EvalSymlinks(dir); err == nil {
		if visited[target] {
			log.Debug("skipping directory already scanned", zap.String("dir", dir), zap.String("target", target))
			return nil
		}
		visited[target] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("failed to read directory", zap.String("dir", dir), zap.Error(err))
		return fmt.Errorf("failed to read directory %s: %w: %w", dir, app_errors.ErrIOFailure, err)
	}

	var errs error
	for _, entry := range entries {
		name := entry.Name()
		fullPath := filepath.Join(dir, name)

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			// follow links the same way a plain stat would
			info, err := os.Stat(fullPath)
			if err != nil {
				log.Warn("failed to stat entry", zap.String("path", fullPath), zap.Error(err))
				errs = multierr.Append(errs, fmt.Errorf("failed to stat %s: %w: %w", fullPath, app_errors.ErrIOFailure, err))
				continue
			}
			isDir = info.IsDir()
		}

		if isDir {
			errs = multierr.Append(errs, scanDirectory(fullPath, ext, prefix+name+"/", acc, log, visited))
			continue
		}

		if strings.HasSuffix(name, ext) {
			*acc = append(*acc, prefix+name)
		}
	}

	return errs
}
