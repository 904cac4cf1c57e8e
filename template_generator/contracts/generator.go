package contracts

import (
	"context"

	"github.com/ocscaffold/ocscaffold/template_generator/models"
	"github.com/ocscaffold/ocscaffold/utils"
)

// IGenerator turns user answers into files.
type IGenerator interface {
	// Name is the command name, e.g. "module".
	Name() string
	// Title is the label shown in menus.
	Title() string
	// Collect asks for everything the generator needs. A dismissed prompt
	// returns app_errors.ErrUserCancelled and nothing has been written.
	Collect(ctx context.Context, prompter utils.Prompter) (*models.Request, error)
	// Base is the directory artifacts are written under.
	Base(req *models.Request, outputRoot string) string
	// Artifacts renders the files for req. It has no side effects.
	Artifacts(req *models.Request) ([]models.GeneratedArtifact, error)
}
