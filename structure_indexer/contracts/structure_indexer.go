package contracts

import (
	"context"

	"github.com/ocscaffold/ocscaffold/structure_indexer/models"
)

// IStructureIndexer owns the in-memory index of an OpenCart source tree.
type IStructureIndexer interface {
	IsIndexed() bool
	Index(ctx context.Context) (models.IndexState, error)
	State() models.IndexState
	GetVersion() string
	GetControllers() []string
	GetModels() []string
	GetViews() []string
	GetLanguages() []string
	GetPerformanceStats() map[string]interface{}
}
