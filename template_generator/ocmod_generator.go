package template_generator

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"

	"github.com/ocscaffold/ocscaffold/app_errors"
	"github.com/ocscaffold/ocscaffold/template_generator/contracts"
	"github.com/ocscaffold/ocscaffold/template_generator/models"
	"github.com/ocscaffold/ocscaffold/utils"
)

const (
	DefaultManifestVersion  = "1.0.0"
	DefaultManifestFilePath = "catalog/controller/common/header.php"

	xmlHeader = `<?xml version="1.0" encoding="utf-8"?>` + "\n"
)

// Modification is the root of an OCMod manifest.
type Modification struct {
	XMLName xml.Name       `xml:"modification"`
	Name    string         `xml:"name"`
	Code    string         `xml:"code"`
	Version string         `xml:"version"`
	Author  string         `xml:"author"`
	Link    string         `xml:"link"`
	Files   []ManifestFile `xml:"file"`
}

// ManifestFile patches one platform file with ordered operations.
type ManifestFile struct {
	Path       string      `xml:"path,attr"`
	Operations []Operation `xml:"operation"`
}

type Operation struct {
	Search Search `xml:"search"`
	Add    Add    `xml:"add"`
}

type Search struct {
	Text string `xml:",cdata"`
}

// Add inserts Text relative to the search match; Position is before, after or replace.
type Add struct {
	Position string `xml:"position,attr"`
	Text     string `xml:",cdata"`
}

// MarshalManifest renders m the way OpenCart expects it, with a utf-8 declaration.
func MarshalManifest(m *Modification) (string, error) {
	body, err := xml.MarshalIndent(m, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}
	return xmlHeader + string(body) + "\n", nil
}

// ParseManifest decodes an OCMod manifest.
func ParseManifest(content []byte) (*Modification, error) {
	var m Modification
	decoder := xml.NewDecoder(bytes.NewReader(content))
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w: %w", app_errors.ErrInvalidInput, err)
	}
	return &m, nil
}

// OCModGenerator writes a <code>.ocmod.xml manifest with one example operation.
type OCModGenerator struct{}

func NewOCModGenerator() contracts.IGenerator {
	return &OCModGenerator{}
}

func (g *OCModGenerator) Name() string  { return "ocmod" }
func (g *OCModGenerator) Title() string { return "Generate OCMod" }

func (g *OCModGenerator) Collect(ctx context.Context, prompter utils.Prompter) (*models.Request, error) {
	values, err := utils.NewForm(ctx, prompter).
		Required(utils.TextPrompt{Key: "name", Message: "Enter OCMod name", Placeholder: "e.g., My Modification"}).
		Required(utils.TextPrompt{Key: "code", Message: "Enter OCMod code", Placeholder: "e.g., my_modification"}).
		Required(utils.TextPrompt{Key: "version", Message: "Enter OCMod version", Placeholder: "e.g., 1.0.0", Default: DefaultManifestVersion}).
		Required(utils.TextPrompt{Key: "author", Message: "Enter OCMod author", Placeholder: "e.g., Your Name"}).
		Required(utils.TextPrompt{Key: "link", Message: "Enter OCMod link", Placeholder: "e.g., https://example.com"}).
		Values()
	if err != nil {
		return nil, err
	}

	req := &models.Request{
		Name:     values["name"],
		Code:     values["code"],
		Version:  values["version"],
		Author:   values["author"],
		Link:     values["link"],
		FilePath: DefaultManifestFilePath,
	}
	if err := validatePathSegment("OCMod code", req.Code); err != nil {
		return nil, err
	}
	return req, nil
}

// Base is the output root itself; manifests are not nested per module.
func (g *OCModGenerator) Base(req *models.Request, outputRoot string) string {
	return outputRoot
}

func (g *OCModGenerator) Artifacts(req *models.Request) ([]models.GeneratedArtifact, error) {
	filePath := req.FilePath
	if filePath == "" {
		filePath = DefaultManifestFilePath
	}

	content, err := MarshalManifest(&Modification{
		Name:    req.Name,
		Code:    req.Code,
		Version: req.Version,
		Author:  req.Author,
		Link:    req.Link,
		Files: []ManifestFile{{
			Path: filePath,
			Operations: []Operation{{
				Search: Search{Text: "// Search text"},
				Add:    Add{Position: "after", Text: "// Added text"},
			}},
		}},
	})
	if err != nil {
		return nil, err
	}

	return []models.GeneratedArtifact{{
		RelPath: req.Code + ".ocmod.xml",
		Content: content,
		Kind:    models.KindManifest,
	}}, nil
}
