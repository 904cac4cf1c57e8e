package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/ocscaffold/ocscaffold/constants/lipgloss"
)

// previewLexers maps extensions chroma does not pick from the file name alone.
var previewLexers = map[string]string{
	".tpl":  "php",
	".twig": "twig",
	".xml":  "xml",
}

// LexerForPath picks the chroma lexer name used to highlight a generated file.
func LexerForPath(path string) string {
	base := filepath.Base(path)
	if name, ok := previewLexers[strings.ToLower(filepath.Ext(base))]; ok && lexers.Get(name) != nil {
		return name
	}
	if lexer := lexers.Match(base); lexer != nil {
		return lexer.Config().Name
	}
	return "plaintext"
}

// RenderPreviewWithContext prints a highlighted, titled preview of one generated file.
// Output stops between lines when ctx is cancelled.
func RenderPreviewWithContext(ctx context.Context, w io.Writer, path string, content string, theme string) error {
	fmt.Fprintln(w, lipgloss.Title.Render(path))

	language := LexerForPath(path)
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		if i%5 == 0 {
			select {
			case <-ctx.Done():
				fmt.Fprintf(w, "\n\n🔄 Output interrupted...\n")
				return ctx.Err()
			default:
			}
		}

		var buf bytes.Buffer
		if err := quick.Highlight(&buf, line+"\n", language, "terminal256", theme); err != nil {
			return fmt.Errorf("failed to highlight %s: %w", path, err)
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	return nil
}
