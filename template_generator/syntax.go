package template_generator

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"
)

// CheckPHPSyntax parses content with tree-sitter and reports the first position of
// a syntax error. It only catches malformed output, such as a description that
// breaks out of a string literal.
func CheckPHPSyntax(ctx context.Context, content []byte) error {
	parser := sitter.NewParser()
	parser.SetLanguage(php.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return fmt.Errorf("failed to parse php: %w", err)
	}

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}

	if node := firstErrorNode(root); node != nil {
		point := node.StartPoint()
		return fmt.Errorf("php syntax error at line %d, column %d", point.Row+1, point.Column+1)
	}
	return fmt.Errorf("php syntax error")
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}

// isPHPArtifact reports whether a generated file should be syntax checked.
func isPHPArtifact(relPath string) bool {
	return strings.HasSuffix(relPath, ".php")
}
