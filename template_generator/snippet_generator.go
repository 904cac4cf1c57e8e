package template_generator

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ocscaffold/ocscaffold/app_errors"
	"github.com/ocscaffold/ocscaffold/embed_data"
	"github.com/ocscaffold/ocscaffold/template_generator/contracts"
	"github.com/ocscaffold/ocscaffold/template_generator/models"
	"github.com/ocscaffold/ocscaffold/utils"
)

// Snippet is one entry of a snippet catalog.
type Snippet struct {
	Prefix      string   `json:"prefix"`
	Body        []string `json:"body"`
	Description string   `json:"description"`
}

// SnippetCategories lists the catalogs in menu order.
var SnippetCategories = []string{"PHP", "Twig", "TPL", "XML"}

var snippetFiles = map[string]string{
	"PHP":  "snippets/php.json",
	"Twig": "snippets/twig.json",
	"TPL":  "snippets/tpl.json",
	"XML":  "snippets/xml.json",
}

var (
	tabStopWithDefault = regexp.MustCompile(`\$\{\d+:([^}]*)\}`)
	bareTabStop        = regexp.MustCompile(`\$\d+`)
)

// LoadSnippets returns the snippets of one category.
func LoadSnippets(category string) (map[string]Snippet, error) {
	file, ok := snippetFiles[category]
	if !ok {
		return nil, fmt.Errorf("unknown snippet category %q: %w", category, app_errors.ErrInvalidInput)
	}
	raw, err := fs.ReadFile(embed_data.Snippets, file)
	if err != nil {
		return nil, fmt.Errorf("failed to load snippets %s: %w", file, err)
	}
	snippets := map[string]Snippet{}
	if err := json.Unmarshal(raw, &snippets); err != nil {
		return nil, fmt.Errorf("failed to parse snippets %s: %w", file, err)
	}
	return snippets, nil
}

// SnippetNames returns the sorted snippet names of a category.
func SnippetNames(category string) ([]string, error) {
	snippets, err := LoadSnippets(category)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(snippets))
	for name := range snippets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Text joins the body lines and fills every tab stop with its default value.
func (s Snippet) Text() string {
	text := strings.Join(s.Body, "\n")
	text = tabStopWithDefault.ReplaceAllString(text, "$1")
	return bareTabStop.ReplaceAllString(text, "")
}

// SnippetGenerator inserts a snippet into the open document.
type SnippetGenerator struct {
	target string
	line   int
}

// NewSnippetGenerator inserts before the 1-based line, or appends when line is 0.
func NewSnippetGenerator(target string, line int) contracts.IGenerator {
	return &SnippetGenerator{target: target, line: line}
}

func (g *SnippetGenerator) Name() string  { return "snippet" }
func (g *SnippetGenerator) Title() string { return "Insert Snippet" }

func (g *SnippetGenerator) Collect(ctx context.Context, prompter utils.Prompter) (*models.Request, error) {
	if err := requireDocument(g.target); err != nil {
		return nil, err
	}

	form := utils.NewForm(ctx, prompter).
		Choose(utils.SelectPrompt{Key: "category", Message: "Select snippet category", Options: SnippetCategories})
	values, err := form.Values()
	if err != nil {
		return nil, err
	}

	names, err := SnippetNames(values["category"])
	if err != nil {
		return nil, err
	}
	values, err = form.Choose(utils.SelectPrompt{Key: "snippet", Message: "Select snippet", Options: names}).Values()
	if err != nil {
		return nil, err
	}

	return &models.Request{
		Category: values["category"],
		Snippet:  values["snippet"],
		Target:   g.target,
		Line:     g.line,
	}, nil
}

func (g *SnippetGenerator) Base(req *models.Request, outputRoot string) string {
	return filepath.Dir(req.Target)
}

func (g *SnippetGenerator) Artifacts(req *models.Request) ([]models.GeneratedArtifact, error) {
	snippets, err := LoadSnippets(req.Category)
	if err != nil {
		return nil, err
	}
	snippet, ok := snippets[req.Snippet]
	if !ok {
		return nil, fmt.Errorf("unknown snippet %q in %s: %w", req.Snippet, req.Category, app_errors.ErrInvalidInput)
	}

	current, err := os.ReadFile(req.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w: %w", req.Target, app_errors.ErrIOFailure, err)
	}

	content, err := insertAtLine(string(current), snippet.Text(), req.Line)
	if err != nil {
		return nil, err
	}

	return []models.GeneratedArtifact{{
		RelPath: filepath.Base(req.Target),
		Content: content,
		Kind:    models.KindDocument,
	}}, nil
}

// insertAtLine puts text on its own line before the 1-based line, or at the end when line is 0.
func insertAtLine(document, text string, line int) (string, error) {
	if line < 0 {
		return "", fmt.Errorf("line %d: %w", line, app_errors.ErrInvalidInput)
	}

	if line == 0 {
		if document != "" && !strings.HasSuffix(document, "\n") {
			document += "\n"
		}
		return document + text + "\n", nil
	}

	lines := strings.SplitAfter(document, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if line > len(lines)+1 {
		return "", fmt.Errorf("line %d is past the end of the document (%d lines): %w", line, len(lines), app_errors.ErrInvalidInput)
	}

	var b strings.Builder
	for i, l := range lines {
		if i == line-1 {
			b.WriteString(text)
			b.WriteString("\n")
		}
		b.WriteString(l)
	}
	if line == len(lines)+1 {
		if document != "" && !strings.HasSuffix(document, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
