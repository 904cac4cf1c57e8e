package template_generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ocscaffold/ocscaffold/app_errors"
	"github.com/ocscaffold/ocscaffold/template_generator/models"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
)

// WriteArtifacts writes every artifact under base, creating directories as needed and
// overwriting existing files. The first failure stops the batch; files written before
// it stay on disk and are returned.
func WriteArtifacts(base string, artifacts []models.GeneratedArtifact, log *zap.Logger) ([]models.WriteResult, error) {
	if log == nil {
		log = zap.NewNop()
	}

	results := make([]models.WriteResult, 0, len(artifacts))
	for _, artifact := range artifacts {
		fullPath := filepath.Join(base, filepath.FromSlash(artifact.RelPath))

		result, err := writeArtifact(fullPath, []byte(artifact.Content))
		if err != nil {
			log.Debug("failed to write artifact", zap.String("path", fullPath), zap.Error(err))
			return results, err
		}

		log.Debug("wrote artifact",
			zap.String("path", fullPath),
			zap.String("kind", string(artifact.Kind)),
			zap.Bool("changed", result.Changed),
		)
		results = append(results, result)
	}
	return results, nil
}

func writeArtifact(fullPath string, content []byte) (models.WriteResult, error) {
	hash := xxh3.Hash(content)
	changed := true

	existing, err := os.ReadFile(fullPath)
	switch {
	case err == nil:
		changed = xxh3.Hash(existing) != hash
	case errors.Is(err, os.ErrNotExist):
	default:
		return models.WriteResult{}, fmt.Errorf("failed to read %s: %w: %w", fullPath, app_errors.ErrIOFailure, err)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return models.WriteResult{}, fmt.Errorf("failed to create directory %s: %w: %w", filepath.Dir(fullPath), app_errors.ErrIOFailure, err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return models.WriteResult{}, fmt.Errorf("failed to write %s: %w: %w", fullPath, app_errors.ErrIOFailure, err)
	}

	return models.WriteResult{
		Path:    fullPath,
		Hash:    hash,
		Changed: changed,
		Bytes:   len(content),
	}, nil
}
