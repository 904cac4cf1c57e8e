package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ocscaffold/ocscaffold/app_errors"
	"github.com/ocscaffold/ocscaffold/panel"
	"github.com/ocscaffold/ocscaffold/structure_indexer"
	"github.com/ocscaffold/ocscaffold/template_generator"
	"github.com/ocscaffold/ocscaffold/utils"
	"github.com/spf13/cobra"
)

// showMenu is a package-level variable to allow replacing the terminal UI in tests.
var showMenu = panel.RunMenu

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Open the interactive menu.",
	Long: `The 'menu' subcommand shows every action in one list: the generators, snippet
insertion, the assistant, indexing and the settings. After an action finishes the menu
comes back, and the index built by one action is reused by the next.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		return runMenuLoop(cmd.Context(), rootDependencies)
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

// runMenuLoop shows the menu until the user quits. Errors of one action are reported
// and the menu comes back.
func runMenuLoop(ctx context.Context, rootDependencies *RootDependencies) error {
	for {
		action, err := showMenu(ctx, indexStatus(rootDependencies.Indexer))
		if err != nil {
			return err
		}
		if action == panel.ActionNone {
			return nil
		}

		err = runMenuAction(ctx, rootDependencies, action)
		reportError(rootDependencies.Out, rootDependencies.Logger, err)

		if ctx.Err() != nil {
			return nil
		}
	}
}

func indexStatus(indexer *structure_indexer.StructureIndexer) string {
	if !indexer.IsIndexed() {
		return "OpenCart files not indexed"
	}
	state := indexer.State()
	status := fmt.Sprintf("OpenCart %s indexed: %d controllers, %d models, %d views, %d language files",
		state.Version, len(state.Controllers), len(state.Models), len(state.Views), len(state.Languages))
	if state.Partial {
		status += " (incomplete)"
	}
	return status
}

func runMenuAction(ctx context.Context, rootDependencies *RootDependencies, action panel.Action) error {
	gated := generatorOptions{Gated: true}

	switch action {
	case panel.ActionGenerateModule:
		_, err := runGenerator(ctx, rootDependencies, template_generator.NewModuleGenerator(), gated)
		return err

	case panel.ActionGenerateOCMod:
		_, err := runGenerator(ctx, rootDependencies, template_generator.NewOCModGenerator(), gated)
		return err

	case panel.ActionGenerateTwig, panel.ActionGenerateTpl:
		target, err := askDocument(ctx, rootDependencies)
		if err != nil {
			return err
		}
		generator := template_generator.NewTwigGenerator(target)
		if action == panel.ActionGenerateTpl {
			generator = template_generator.NewTplGenerator(target)
		}
		_, err = runGenerator(ctx, rootDependencies, generator, gated)
		return err

	case panel.ActionInsertSnippet:
		target, err := askDocument(ctx, rootDependencies)
		if err != nil {
			return err
		}
		_, err = runGenerator(ctx, rootDependencies, template_generator.NewSnippetGenerator(target, 0), generatorOptions{})
		return err

	case panel.ActionOpenChat:
		return runChat(ctx, rootDependencies, os.Stdin)

	case panel.ActionIndex:
		state, err := runIndex(ctx, rootDependencies)
		if err != nil {
			return err
		}
		return printIndexState(rootDependencies.Out, state, "table")

	case panel.ActionSettings:
		cfg, err := rootDependencies.currentConfig()
		if err != nil {
			return err
		}
		return printConfig(rootDependencies.Out, cfg, "table")

	default:
		return fmt.Errorf("unknown menu action %q: %w", action, app_errors.ErrInvalidInput)
	}
}

// askDocument asks for the file a document generator works on. An empty answer is
// passed on so the generator reports the missing document itself.
func askDocument(ctx context.Context, rootDependencies *RootDependencies) (string, error) {
	value, ok, err := rootDependencies.Prompter.Text(ctx, utils.TextPrompt{
		Key:         "file",
		Message:     "Enter the path of the file to edit",
		Placeholder: "e.g., catalog/view/theme/default/template/extension/module/my_module.twig",
	})
	if err != nil {
		return "", err
	}
	if !ok {
		return "", app_errors.ErrUserCancelled
	}

	value = strings.TrimSpace(value)
	if value == "" || filepath.IsAbs(value) {
		return value, nil
	}
	return filepath.Join(rootDependencies.Cwd, value), nil
}
