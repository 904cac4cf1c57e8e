package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/ocscaffold/ocscaffold/constants/lipgloss"
	"github.com/ocscaffold/ocscaffold/template_generator"
	"github.com/ocscaffold/ocscaffold/template_generator/contracts"
	"github.com/ocscaffold/ocscaffold/template_generator/models"
	"github.com/ocscaffold/ocscaffold/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// generatorOptions are the flags every generator command shares.
type generatorOptions struct {
	DryRun bool
	Copy   bool
	Yes    bool

	// Gated generators require an indexed source tree.
	Gated bool

	// Answers pre-fill prompts by key; anything missing is asked interactively.
	Answers map[string]string
}

func addGeneratorFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "Preview the generated files without writing them.")
	cmd.Flags().Bool("copy", false, "Copy the result to the clipboard.")
	cmd.Flags().BoolP("yes", "y", false, "Index the source tree without asking when it is needed.")
}

// readGeneratorOptions collects the shared flags and turns every changed answer flag
// into a preset, keyed by the prompt it answers.
func readGeneratorOptions(cmd *cobra.Command, answerFlags map[string]string) generatorOptions {
	opts := generatorOptions{Answers: map[string]string{}}
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.Copy, _ = cmd.Flags().GetBool("copy")
	opts.Yes, _ = cmd.Flags().GetBool("yes")

	for flag, key := range answerFlags {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		value, err := cmd.Flags().GetString(flag)
		if err == nil {
			opts.Answers[key] = value
		}
	}
	return opts
}

// runGenerator is the shared pipeline of every generator command: readiness gate,
// prompts, render, write and report.
func runGenerator(ctx context.Context, rootDependencies *RootDependencies, generator contracts.IGenerator, opts generatorOptions) (*models.Result, error) {
	if opts.Gated {
		if err := ensureIndexed(ctx, rootDependencies, indexGateMessage(generator.Name()), opts.Yes); err != nil {
			return nil, err
		}
	}

	cfg, err := rootDependencies.currentConfig()
	if err != nil {
		return nil, err
	}
	outputRoot, err := cfg.OutputRoot()
	if err != nil {
		return nil, err
	}

	prompter := &utils.PresetPrompter{Answers: opts.Answers, Fallback: rootDependencies.Prompter}
	result, err := template_generator.Generate(ctx, generator, prompter, template_generator.Options{
		OutputRoot: outputRoot,
		DryRun:     opts.DryRun,
		Log:        rootDependencies.Logger,
	})
	if result != nil {
		reportWritten(rootDependencies, result)
	}
	if err != nil {
		return result, fmt.Errorf("error generating %s: %w", generator.Name(), err)
	}

	if opts.DryRun {
		if err := previewResult(ctx, rootDependencies, result); err != nil {
			return result, err
		}
	} else {
		fmt.Fprintln(rootDependencies.Out, lipgloss.Green.Render("✔ "+successMessage(result)))
	}

	for _, warning := range result.Warnings {
		fmt.Fprintln(rootDependencies.Out, lipgloss.Yellow.Render("⚠ "+warning))
	}

	if opts.Copy {
		copyResult(rootDependencies, result)
	}
	return result, nil
}

func successMessage(result *models.Result) string {
	req := result.Request
	switch result.Generator {
	case "module":
		return fmt.Sprintf("Module %s generated successfully!", req.Name)
	case "ocmod":
		return fmt.Sprintf("OCMod %s generated successfully!", req.Name)
	case "twig":
		return fmt.Sprintf("Twig template for %s generated successfully!", req.Name)
	case "tpl":
		return fmt.Sprintf("TPL template for %s generated successfully!", req.Name)
	case "snippet":
		return fmt.Sprintf("Snippet %s inserted into %s", req.Snippet, filepath.Base(req.Target))
	default:
		return fmt.Sprintf("%s generated successfully!", result.Generator)
	}
}

func reportWritten(rootDependencies *RootDependencies, result *models.Result) {
	for _, written := range result.Written {
		if written.Changed {
			fmt.Fprintln(rootDependencies.Out, lipgloss.Green.Render("  + "+written.Path))
		} else {
			fmt.Fprintln(rootDependencies.Out, lipgloss.Gray.Render("  = "+written.Path+" (unchanged)"))
		}
	}
}

func previewResult(ctx context.Context, rootDependencies *RootDependencies, result *models.Result) error {
	for _, artifact := range result.Artifacts {
		path := filepath.Join(result.Base, filepath.FromSlash(artifact.RelPath))
		if err := utils.RenderPreviewWithContext(ctx, rootDependencies.Out, path, artifact.Content, rootDependencies.Config.Theme); err != nil {
			return err
		}
	}
	fmt.Fprintln(rootDependencies.Out, lipgloss.Yellow.Render(fmt.Sprintf("Dry run: %d file(s) not written.", len(result.Artifacts))))
	return nil
}

// copyResult puts a single generated file on the clipboard, or the output folder
// when several files were generated.
func copyResult(rootDependencies *RootDependencies, result *models.Result) {
	var text string
	if len(result.Artifacts) == 1 {
		text = result.Artifacts[0].Content
	} else {
		text = result.Base
	}

	if err := clipboardWriteAll(text); err != nil {
		rootDependencies.Logger.Warn("failed to copy to clipboard", zap.Error(err))
		fmt.Fprintln(rootDependencies.Out, lipgloss.Yellow.Render("⚠ Could not copy to the clipboard."))
		return
	}
	fmt.Fprintln(rootDependencies.Out, lipgloss.Gray.Render("Copied "+describeCopy(result)+" to the clipboard."))
}

func describeCopy(result *models.Result) string {
	if len(result.Artifacts) == 1 {
		return result.Artifacts[0].RelPath
	}
	return "the output folder"
}
