package template_generator

import (
	"context"
	"path/filepath"

	"github.com/ocscaffold/ocscaffold/template_generator/contracts"
	"github.com/ocscaffold/ocscaffold/template_generator/models"
	"github.com/ocscaffold/ocscaffold/utils"
)

// artifactSpec pairs a template with the path it is written to. Both go through
// the same placeholder substitution.
type artifactSpec struct {
	kind     models.ArtifactKind
	template string
	path     string
}

var adminModuleArtifacts = []artifactSpec{
	{models.KindController, "module/admin_controller.php.tmpl", "admin/controller/extension/module/{{.ModuleName}}.php"},
	{models.KindLanguage, "module/admin_language.php.tmpl", "admin/language/en-gb/extension/module/{{.ModuleName}}.php"},
	{models.KindView, "module/admin_view.twig.tmpl", "admin/view/template/extension/module/{{.ModuleName}}.twig"},
}

var catalogModuleArtifacts = []artifactSpec{
	{models.KindController, "module/catalog_controller.php.tmpl", "catalog/controller/extension/module/{{.ModuleName}}.php"},
	{models.KindModel, "module/catalog_model.php.tmpl", "catalog/model/extension/module/{{.ModuleName}}.php"},
	{models.KindLanguage, "module/catalog_language.php.tmpl", "catalog/language/en-gb/extension/module/{{.ModuleName}}.php"},
	{models.KindView, "module/catalog_view.twig.tmpl", "catalog/view/theme/default/template/extension/module/{{.ModuleName}}.twig"},
}

// ModuleGenerator scaffolds an extension module for the admin side, the storefront or both.
type ModuleGenerator struct{}

func NewModuleGenerator() contracts.IGenerator {
	return &ModuleGenerator{}
}

func (g *ModuleGenerator) Name() string  { return "module" }
func (g *ModuleGenerator) Title() string { return "Generate Module" }

func (g *ModuleGenerator) Collect(ctx context.Context, prompter utils.Prompter) (*models.Request, error) {
	values, err := utils.NewForm(ctx, prompter).
		Required(utils.TextPrompt{Key: "name", Message: "Enter module name", Placeholder: "e.g., my_module"}).
		Choose(utils.SelectPrompt{Key: "type", Message: "Select module type", Options: []string{models.TypeAdmin, models.TypeCatalog, models.TypeBoth}}).
		Optional(utils.TextPrompt{Key: "description", Message: "Enter module description", Placeholder: "e.g., My custom module"}).
		Values()
	if err != nil {
		return nil, err
	}

	req := &models.Request{
		Name:        values["name"],
		Type:        values["type"],
		Description: values["description"],
	}
	if err := validatePathSegment("module name", req.Name); err != nil {
		return nil, err
	}
	return req, nil
}

// Base is <output>/<module name>.
func (g *ModuleGenerator) Base(req *models.Request, outputRoot string) string {
	return filepath.Join(outputRoot, req.Name)
}

func (g *ModuleGenerator) Artifacts(req *models.Request) ([]models.GeneratedArtifact, error) {
	var specs []artifactSpec
	if req.IncludesAdmin() {
		specs = append(specs, adminModuleArtifacts...)
	}
	if req.IncludesCatalog() {
		specs = append(specs, catalogModuleArtifacts...)
	}
	return renderSpecs(specs, BuildPlaceholders(req))
}

func renderSpecs(specs []artifactSpec, placeholders map[string]string) ([]models.GeneratedArtifact, error) {
	artifacts := make([]models.GeneratedArtifact, 0, len(specs))
	for _, spec := range specs {
		content, err := renderTemplate(spec.template, placeholders)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, models.GeneratedArtifact{
			RelPath: replacePlaceholders(spec.path, placeholders),
			Content: content,
			Kind:    spec.kind,
		})
	}
	return artifacts, nil
}
