package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/ocscaffold/ocscaffold/app_errors"
	"github.com/ocscaffold/ocscaffold/constants/lipgloss"
	"github.com/ocscaffold/ocscaffold/structure_indexer"
	"github.com/ocscaffold/ocscaffold/structure_indexer/models"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the OpenCart source tree.",
	Long: `The 'index' subcommand scans the configured OpenCart source folder (oc_source_path),
detects the OpenCart version and lists the controllers, models, views and language files
of the admin and catalog applications. With --watch it keeps running and re-indexes
whenever a PHP, Twig or TPL file changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		watch, _ := cmd.Flags().GetBool("watch")
		stats, _ := cmd.Flags().GetBool("stats")

		return handleIndexCommand(cmd.Context(), rootDependencies, output, watch, stats)
	},
}

func init() {
	indexCmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml.")
	indexCmd.Flags().Bool("watch", false, "Keep watching the source tree and re-index on changes.")
	indexCmd.Flags().Bool("stats", false, "Print indexing statistics after the run.")

	rootCmd.AddCommand(indexCmd)
}

func handleIndexCommand(ctx context.Context, rootDependencies *RootDependencies, output string, watch bool, stats bool) error {
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	state, err := runIndex(ctx, rootDependencies)
	if err != nil {
		return err
	}

	if err := printIndexState(rootDependencies.Out, state, output); err != nil {
		return err
	}
	if stats {
		printIndexStats(rootDependencies.Out, rootDependencies.Indexer.GetPerformanceStats())
	}

	if !watch {
		return nil
	}
	return watchIndex(ctx, rootDependencies, state.Root, output)
}

func validateOutputFormat(output string) error {
	switch output {
	case "table", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported output format %q, expected table, json or yaml: %w", output, app_errors.ErrInvalidInput)
	}
}

// runIndex indexes the source tree behind a spinner and prints the outcome toast.
func runIndex(ctx context.Context, rootDependencies *RootDependencies) (models.IndexState, error) {
	indexer := rootDependencies.Indexer

	if rootDependencies.Interactive {
		spinner, _ := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
			WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
			WithDelay(100 * time.Millisecond).WithRemoveWhenDone(true).
			Start("Indexing OpenCart files...")
		if spinner != nil {
			indexer.OnProgress(func(step string) { spinner.UpdateText(step) })
			defer func() {
				indexer.OnProgress(nil)
				_ = spinner.Stop()
				fmt.Print("\r")
			}()
		}
	}

	state, err := indexer.Index(ctx)
	if err != nil {
		return state, fmt.Errorf("error indexing OpenCart: %w", err)
	}

	announceIndex(rootDependencies.Out, state)
	return state, nil
}

func announceIndex(w io.Writer, state models.IndexState) {
	fmt.Fprintln(w, lipgloss.Green.Render(fmt.Sprintf("✔ OpenCart %s indexed successfully!", state.Version)))
	if state.Partial {
		fmt.Fprintln(w, lipgloss.Yellow.Render(fmt.Sprintf("⚠ %d folder(s) could not be read, the index is incomplete.", len(state.BranchErrors))))
	}
}

// printIndexState writes the index as a summary table or as a full json/yaml document.
func printIndexState(w io.Writer, state models.IndexState, output string) error {
	switch output {
	case "json":
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode index: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed to encode index: %w", err)
		}
		fmt.Fprint(w, string(data))
		return nil
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Category", "Files"},
		{"Controllers", strconv.Itoa(len(state.Controllers))},
		{"Models", strconv.Itoa(len(state.Models))},
		{"Views", strconv.Itoa(len(state.Views))},
		{"Languages", strconv.Itoa(len(state.Languages))},
	}).Srender()
	if err != nil {
		return fmt.Errorf("failed to render index table: %w", err)
	}

	fmt.Fprintln(w, lipgloss.Gray.Render(fmt.Sprintf("Root: %s  Version: %s", state.Root, state.Version)))
	fmt.Fprintln(w, table)
	for _, branchErr := range state.BranchErrors {
		fmt.Fprintln(w, lipgloss.Yellow.Render("  "+branchErr))
	}
	return nil
}

func printIndexStats(w io.Writer, stats map[string]interface{}) {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w, lipgloss.Info.Render("Index Statistics:"))
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %v\n", k, stats[k])
	}
}

// watchIndex re-indexes on changes until ctx is cancelled.
func watchIndex(ctx context.Context, rootDependencies *RootDependencies, root string, output string) error {
	log := rootDependencies.Logger

	watcher, err := structure_indexer.NewIndexWatcher(root, rootDependencies.Indexer, func(state models.IndexState, err error) {
		if err != nil {
			reportError(rootDependencies.Out, log, fmt.Errorf("error indexing OpenCart: %w", err))
			return
		}
		announceIndex(rootDependencies.Out, state)
		if err := printIndexState(rootDependencies.Out, state, output); err != nil {
			log.Warn("failed to print index", zap.Error(err))
		}
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Start(ctx); err != nil {
		watcher.Stop()
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	defer watcher.Stop()

	fmt.Fprintln(rootDependencies.Out, lipgloss.BlueSky.Render(fmt.Sprintf("👀 Watching %s for changes (Ctrl+C to stop)", root)))

	select {
	case <-ctx.Done():
	case <-watcher.Done():
	}
	return nil
}
