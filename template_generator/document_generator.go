package template_generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ocscaffold/ocscaffold/app_errors"
	"github.com/ocscaffold/ocscaffold/template_generator/contracts"
	"github.com/ocscaffold/ocscaffold/template_generator/models"
	"github.com/ocscaffold/ocscaffold/utils"
)

// DocumentGenerator replaces the whole content of an open view file with an admin
// or storefront layout. Twig and TPL differ only in extension and templates.
type DocumentGenerator struct {
	name      string
	title     string
	ext       string
	templates map[string]string
	target    string
}

// NewTwigGenerator works on the given .twig document.
func NewTwigGenerator(target string) contracts.IGenerator {
	return &DocumentGenerator{
		name:   "twig",
		title:  "Generate Twig Template",
		ext:    ".twig",
		target: target,
		templates: map[string]string{
			models.TypeAdmin:   "view/admin.twig.tmpl",
			models.TypeCatalog: "view/catalog.twig.tmpl",
		},
	}
}

// NewTplGenerator works on the given .tpl document.
func NewTplGenerator(target string) contracts.IGenerator {
	return &DocumentGenerator{
		name:   "tpl",
		title:  "Generate TPL Template",
		ext:    ".tpl",
		target: target,
		templates: map[string]string{
			models.TypeAdmin:   "view/admin.tpl.tmpl",
			models.TypeCatalog: "view/catalog.tpl.tmpl",
		},
	}
}

func (g *DocumentGenerator) Name() string  { return g.name }
func (g *DocumentGenerator) Title() string { return g.title }

// requireDocument fails when there is no open document to work on.
func requireDocument(target string) error {
	if strings.TrimSpace(target) == "" {
		return app_errors.ErrNoActiveContext
	}
	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%s: %w", target, app_errors.ErrNoActiveContext)
	}
	return nil
}

func (g *DocumentGenerator) Collect(ctx context.Context, prompter utils.Prompter) (*models.Request, error) {
	if err := requireDocument(g.target); err != nil {
		return nil, err
	}

	defaultName := strings.TrimSuffix(filepath.Base(g.target), g.ext)

	form := utils.NewForm(ctx, prompter).
		Required(utils.TextPrompt{Key: "name", Message: "Enter template name", Placeholder: "e.g., product_list", Default: defaultName}).
		Choose(utils.SelectPrompt{Key: "type", Message: "Select template type", Options: []string{models.TypeAdmin, models.TypeCatalog}})

	values, err := form.Values()
	if err != nil {
		return nil, err
	}

	// the placeholder of the description depends on the answers so far
	values, err = form.Optional(utils.TextPrompt{
		Key:         "description",
		Message:     "Enter template description",
		Placeholder: fmt.Sprintf("%s template for %s", values["type"], values["name"]),
	}).Values()
	if err != nil {
		return nil, err
	}

	return &models.Request{
		Name:        values["name"],
		Type:        values["type"],
		Description: values["description"],
		Target:      g.target,
	}, nil
}

// Base is the directory of the document being replaced.
func (g *DocumentGenerator) Base(req *models.Request, outputRoot string) string {
	return filepath.Dir(req.Target)
}

func (g *DocumentGenerator) Artifacts(req *models.Request) ([]models.GeneratedArtifact, error) {
	tmpl, ok := g.templates[req.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported template type %q: %w", req.Type, app_errors.ErrInvalidInput)
	}

	content, err := renderTemplate(tmpl, BuildPlaceholders(req))
	if err != nil {
		return nil, err
	}

	return []models.GeneratedArtifact{{
		RelPath: filepath.Base(req.Target),
		Content: content,
		Kind:    models.KindDocument,
	}}, nil
}
