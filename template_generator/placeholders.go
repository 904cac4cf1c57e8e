package template_generator

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ocscaffold/ocscaffold/app_errors"
	"github.com/ocscaffold/ocscaffold/embed_data"
	"github.com/ocscaffold/ocscaffold/template_generator/models"
)

// ToPascalCase turns "my_payment_module" into "MyPaymentModule". Only the first
// letter of each underscore-separated segment changes; empty segments add nothing.
func ToPascalCase(input string) string {
	var b strings.Builder
	for _, segment := range strings.Split(input, "_") {
		if segment == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(segment)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(segment[size:])
	}
	return b.String()
}

// EscapePHPString escapes a value for use inside a single-quoted PHP string.
func EscapePHPString(value string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
}

// BuildPlaceholders maps every "{{.Key}}" placeholder to its value for req.
func BuildPlaceholders(req *models.Request) map[string]string {
	return map[string]string{
		"{{.ModuleName}}":     req.Name,
		"{{.PascalName}}":     ToPascalCase(req.Name),
		"{{.Description}}":    req.Description,
		"{{.PhpDescription}}": EscapePHPString(req.Description),
		"{{.Type}}":           req.Type,
	}
}

// replacePlaceholders substitutes all placeholders in one pass, so values that happen
// to contain placeholder text are left alone.
func replacePlaceholders(content string, placeholders map[string]string) string {
	keys := make([]string, 0, len(placeholders))
	for k := range placeholders {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, placeholders[k])
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

// renderTemplate reads an embedded template and fills in its placeholders.
func renderTemplate(name string, placeholders map[string]string) (string, error) {
	raw, err := fs.ReadFile(embed_data.Templates, path.Join("templates", name))
	if err != nil {
		return "", fmt.Errorf("failed to load template %s: %w", name, err)
	}
	return replacePlaceholders(string(raw), placeholders), nil
}

// validatePathSegment rejects names that would escape the output folder.
func validatePathSegment(field, value string) error {
	if value == "." || value == ".." || strings.ContainsAny(value, `/\`) || strings.ContainsRune(value, 0) {
		return fmt.Errorf("%s %q cannot be used as a file name: %w", field, value, app_errors.ErrInvalidInput)
	}
	return nil
}
